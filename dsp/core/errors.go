package core

import (
	"errors"
	"fmt"
)

// Error taxonomy shared by every package of the module. Callers match with
// errors.Is; packages wrap these with context via fmt.Errorf("...: %w").
var (
	// ErrShapeMismatch reports incompatible vector or matrix dimensions.
	ErrShapeMismatch = errors.New("core: shape mismatch")
	// ErrNonCausal reports a numerator of higher degree than the denominator.
	ErrNonCausal = errors.New("core: non-causal system")
	// ErrZeroPoles reports an empty or identically zero denominator.
	ErrZeroPoles = errors.New("core: system has no poles")
	// ErrEdgesNotNondecreasing reports band edges that are not sorted.
	ErrEdgesNotNondecreasing = errors.New("core: band edges are not nondecreasing")
	// ErrEdgesOutOfRange reports band edges outside the admissible interval.
	ErrEdgesOutOfRange = errors.New("core: band edges out of range")
	// ErrInvalidSamplingFrequency reports fs <= 0, NaN or Inf.
	ErrInvalidSamplingFrequency = errors.New("core: invalid sampling frequency")
	// ErrToleranceOutOfRange reports a pairing tolerance outside [0, 1].
	ErrToleranceOutOfRange = errors.New("core: tolerance out of range")
	// ErrOddNumberComplex reports a complex root without a conjugate partner.
	ErrOddNumberComplex = errors.New("core: unpaired complex root")
	// ErrFailureToConverge reports an iteration that ran out of budget.
	ErrFailureToConverge = errors.New("core: failure to converge")
	// ErrTooManyPeaks reports too many extremal candidates in an exchange step.
	ErrTooManyPeaks = errors.New("core: too many extremal peaks")
	// ErrTooFewPeaks reports too few extremal candidates in an exchange step.
	ErrTooFewPeaks = errors.New("core: too few extremal peaks")
	// ErrNumerical reports singular systems or non-finite intermediate results.
	ErrNumerical = errors.New("core: numerical failure")
)

// ConvergenceError carries the state of an iteration that did not converge.
type ConvergenceError struct {
	Iter int
	Dev  float64
}

func (e *ConvergenceError) Error() string {
	return fmt.Sprintf("%v after %d iterations (deviation %g)", ErrFailureToConverge, e.Iter, e.Dev)
}

// Unwrap makes errors.Is(err, ErrFailureToConverge) hold.
func (e *ConvergenceError) Unwrap() error { return ErrFailureToConverge }
