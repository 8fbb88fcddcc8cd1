package lti

import (
	"fmt"
	"math"
)

// wrapf prefixes the package name and wraps err.
func wrapf(err error, format string, args ...any) error {
	return fmt.Errorf("lti: "+format+": %w", append(args, err)...)
}

// epsilon is the float64 machine epsilon.
const epsilon = 0x1p-52

func finiteComplex(z complex128) bool {
	return !math.IsNaN(real(z)) && !math.IsNaN(imag(z)) &&
		!math.IsInf(real(z), 0) && !math.IsInf(imag(z), 0)
}
