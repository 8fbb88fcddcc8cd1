// Package spectrum holds spectral estimators and bin-level helpers.
//
// [Pwelch], [Periodogram] and [Stft] segment a signal, window each segment
// and transform it with dsp/fft. Windows are plain func(int) []float64
// values such as those in github.com/mjibson/go-dsp/window.
package spectrum
