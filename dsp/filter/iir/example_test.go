package iir_test

import (
	"fmt"
	"math/cmplx"

	"github.com/cwbudde/algo-lti/dsp/filter/iir"
)

func ExampleButterworthSos() {
	sos, err := iir.ButterworthSos(4, []float64{1000}, iir.Lowpass, iir.WithSampleRate(48000))
	if err != nil {
		panic(err)
	}
	fmt.Printf("sections=%d dc=%.4f\n", len(sos.Sections), cmplx.Abs(sos.Eval(1)))
	// Output:
	// sections=2 dc=1.0000
}
