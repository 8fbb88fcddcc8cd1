package conv_test

import (
	"fmt"

	"github.com/cwbudde/algo-lti/dsp/conv"
)

func ExampleConvolve() {
	y, _ := conv.Convolve([]float64{1, 2, 3}, []float64{1, 1})
	fmt.Printf("%.0f\n", y)

	// Output:
	// [1 3 5 3]
}

func ExampleDeconvolve() {
	q, r, _ := conv.Deconvolve([]float64{1, 3, 7}, []float64{1, 2})
	fmt.Printf("q=%.0f r=%.0f\n", q, r)

	// Output:
	// q=[1 1] r=[0 0 5]
}

func ExampleXcorr() {
	r, lags, _ := conv.Xcorr([]float64{1, 2, 3}, []float64{1, 2, 3}, conv.ScaleCoeff, 1)
	fmt.Println(lags)
	fmt.Printf("%.4f\n", r)

	// Output:
	// [-1 0 1]
	// [0.5714 1.0000 0.5714]
}
