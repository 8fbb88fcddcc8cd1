package conv

import (
	"fmt"

	algofft "github.com/cwbudde/algo-fft"
	"github.com/cwbudde/algo-lti/dsp/core"
	"github.com/tphakala/simd/c128"
)

// OverlapAdd convolves long signals with a fixed FIR kernel block by block.
// Every block of blockSize input samples is zero-padded to a power-of-two
// transform size, multiplied with the cached kernel spectrum and added into
// the output at its offset. The transform plan and buffers are reused
// between calls, so a convolver is single-owner.
type OverlapAdd struct {
	kernelFFT []complex128
	kernelLen int
	blockSize int
	fftSize   int

	plan *algofft.Plan[complex128]

	block   []complex128
	product []complex128
}

// NewOverlapAdd creates a convolver for kernel. A blockSize <= 0 selects
// max(256, next power of two >= len(kernel)).
func NewOverlapAdd(kernel []float64, blockSize int) (*OverlapAdd, error) {
	if len(kernel) == 0 {
		return nil, ErrEmptyKernel
	}

	if blockSize <= 0 {
		blockSize = max(256, core.NextPowerOfTwo(len(kernel)))
	}

	fftSize := core.NextPowerOfTwo(blockSize + len(kernel) - 1)

	plan, err := algofft.NewPlan64(fftSize)
	if err != nil {
		return nil, fmt.Errorf("conv: failed to create FFT plan: %w", err)
	}

	oa := &OverlapAdd{
		kernelFFT: make([]complex128, fftSize),
		kernelLen: len(kernel),
		blockSize: blockSize,
		fftSize:   fftSize,
		plan:      plan,
		block:     make([]complex128, fftSize),
		product:   make([]complex128, fftSize),
	}

	padded := make([]complex128, fftSize)
	for i, v := range kernel {
		padded[i] = complex(v, 0)
	}
	if err := plan.Forward(oa.kernelFFT, padded); err != nil {
		return nil, fmt.Errorf("conv: failed to compute kernel FFT: %w", err)
	}

	return oa, nil
}

// BlockSize returns the input block size.
func (oa *OverlapAdd) BlockSize() int { return oa.blockSize }

// FFTSize returns the transform size used internally.
func (oa *OverlapAdd) FFTSize() int { return oa.fftSize }

// KernelLen returns the kernel length.
func (oa *OverlapAdd) KernelLen() int { return oa.kernelLen }

// Process returns the full linear convolution of input with the kernel.
func (oa *OverlapAdd) Process(input []float64) ([]float64, error) {
	if len(input) == 0 {
		return nil, ErrEmptyInput
	}

	output := make([]float64, len(input)+oa.kernelLen-1)
	if err := oa.accumulate(output, input); err != nil {
		return nil, err
	}
	return output, nil
}

// ProcessTo writes the convolution into output, which must hold
// len(input) + KernelLen() - 1 samples.
func (oa *OverlapAdd) ProcessTo(output, input []float64) error {
	if len(input) == 0 {
		return ErrEmptyInput
	}
	if want := len(input) + oa.kernelLen - 1; len(output) != want {
		return fmt.Errorf("%w: expected %d, got %d", ErrLengthMismatch, want, len(output))
	}

	clear(output)
	return oa.accumulate(output, input)
}

// accumulate adds the block convolutions of input into output. Samples
// beyond len(output) are dropped, which truncates the convolution tail.
func (oa *OverlapAdd) accumulate(output, input []float64) error {
	for start := 0; start < len(input); start += oa.blockSize {
		end := min(start+oa.blockSize, len(input))

		clear(oa.block)
		for i, v := range input[start:end] {
			oa.block[i] = complex(v, 0)
		}

		if err := oa.plan.Forward(oa.block, oa.block); err != nil {
			return fmt.Errorf("conv: forward FFT failed: %w", err)
		}
		c128.Mul(oa.product, oa.block, oa.kernelFFT)
		if err := oa.plan.Inverse(oa.product, oa.product); err != nil {
			return fmt.Errorf("conv: inverse FFT failed: %w", err)
		}

		n := end - start + oa.kernelLen - 1
		for i := 0; i < n && start+i < len(output); i++ {
			output[start+i] += real(oa.product[i])
		}
	}
	return nil
}

// FFTFilter applies the FIR filter b to x by overlap-add and returns the
// first len(x) samples of conv(x, b), matching a direct-form filter with
// zero initial state.
func FFTFilter(b, x []float64) ([]float64, error) {
	if len(x) == 0 {
		return nil, ErrEmptyInput
	}

	oa, err := NewOverlapAdd(b, filterBlockSize(len(b), len(x)))
	if err != nil {
		return nil, err
	}

	y := make([]float64, len(x))
	if err := oa.accumulate(y, x); err != nil {
		return nil, err
	}
	return y, nil
}

// filterBlockSize picks a block length for FFTFilter: the signal length for
// short inputs, otherwise a few times the kernel length.
func filterBlockSize(kernelLen, signalLen int) int {
	if signalLen <= 4*kernelLen {
		return signalLen
	}
	return max(256, 4*core.NextPowerOfTwo(kernelLen)-kernelLen+1)
}
