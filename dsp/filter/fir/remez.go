package fir

import (
	"fmt"
	"math"
	"slices"

	"github.com/cwbudde/algo-lti/dsp/core"
	"go.uber.org/zap"
	"gonum.org/v1/gonum/floats"
)

// Class selects the symmetry of a Parks–McClellan design.
type Class int

const (
	// Symmetric designs have even-symmetric taps (types I and II).
	Symmetric Class = iota
	// Antisymmetric designs have odd-symmetric taps (types III and IV),
	// as used for Hilbert transformers.
	Antisymmetric
	// Differentiator designs are antisymmetric with the weight of every
	// band with nonzero response divided by frequency, so the relative
	// error is equiripple.
	Differentiator
)

// String returns the class name.
func (c Class) String() string {
	switch c {
	case Symmetric:
		return "symmetric"
	case Antisymmetric:
		return "antisymmetric"
	case Differentiator:
		return "differentiator"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Type returns the linear-phase type (1 to 4) of an n-tap design of class c.
func (c Class) Type(n int) int {
	odd := n%2 == 1
	switch {
	case c == Symmetric && odd:
		return 1
	case c == Symmetric:
		return 2
	case odd:
		return 3
	default:
		return 4
	}
}

// Design is the result of Remez.
type Design struct {
	// Taps is the impulse response of length n.
	Taps []float64
	// Deviation is the largest weighted error measured on the dense grid.
	Deviation float64
	// Delta is the equiripple deviation |δ| of the final exchange step.
	Delta float64
	// Iterations is the number of exchange steps taken.
	Iterations int
	// Extremals are the frequencies of the final extremal set, in the
	// units of the band edges.
	Extremals []float64
}

// Filter returns a runtime filter running the designed taps.
func (d Design) Filter() *Filter {
	return New(d.Taps)
}

type config struct {
	sampleRate  float64
	gridDensity int
	maxIter     int
	tol         float64
	logger      *zap.Logger
}

// Option configures Remez.
type Option func(*config)

// WithSampleRate gives band edges in Hz for the sample rate fs instead of
// normalised frequencies in [0, 0.5].
func WithSampleRate(fs float64) Option {
	return func(c *config) { c.sampleRate = fs }
}

// WithGridDensity sets the number of grid points per extremal. Default 16.
func WithGridDensity(d int) Option {
	return func(c *config) { c.gridDensity = d }
}

// WithMaxIterations bounds the exchange loop. Default 40.
func WithMaxIterations(n int) Option {
	return func(c *config) { c.maxIter = n }
}

// WithTolerance sets the relative spread of |E| over the extremals below
// which the exchange may stop. It also bounds the weighted error on the
// grid: the exchange only stops once |E| ≤ |δ|(1+tol) everywhere.
// Default 1e-4.
func WithTolerance(tol float64) Option {
	return func(c *config) { c.tol = tol }
}

// WithLogger traces every exchange step at debug level.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func defaultConfig() config {
	return config{
		gridDensity: 16,
		maxIter:     40,
		tol:         1e-4,
		logger:      zap.NewNop(),
	}
}

// Remez designs an n-tap linear-phase FIR filter with the Parks–McClellan
// exchange algorithm, minimising the largest weighted error over the bands.
//
// bands holds pairs of edges [lo₀ hi₀ lo₁ hi₁ …], nondecreasing, in [0, 0.5]
// or in Hz with WithSampleRate. desired holds one amplitude per band, or
// one per edge for a linear ramp across each band. weights holds one
// positive weight per band.
//
//nolint:cyclop
func Remez(n int, bands, desired, weights []float64, class Class, opts ...Option) (Design, error) {
	cfg := defaultConfig()
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	if n < 3 {
		return Design{}, fmt.Errorf("fir: remez needs at least 3 taps, got %d: %w", n, core.ErrShapeMismatch)
	}
	if class < Symmetric || class > Differentiator {
		return Design{}, fmt.Errorf("fir: remez: unknown class %d: %w", int(class), core.ErrShapeMismatch)
	}
	if cfg.gridDensity < 1 || cfg.maxIter < 1 || !(cfg.tol > 0) {
		return Design{}, fmt.Errorf("fir: remez: grid density %d, %d iterations, tolerance %v: %w",
			cfg.gridDensity, cfg.maxIter, cfg.tol, core.ErrToleranceOutOfRange)
	}

	edges, err := normalizeEdges(bands, cfg.sampleRate)
	if err != nil {
		return Design{}, err
	}
	nb := len(edges) / 2
	des, err := expandDesired(desired, nb)
	if err != nil {
		return Design{}, err
	}
	if len(weights) != nb {
		return Design{}, fmt.Errorf("fir: remez: %d weights for %d bands: %w", len(weights), nb, core.ErrShapeMismatch)
	}
	for i, w := range weights {
		if !(w > 0) || math.IsInf(w, 0) {
			return Design{}, fmt.Errorf("fir: remez: weight %d is %v: %w", i, w, core.ErrShapeMismatch)
		}
	}

	g := newGrid(n, edges, des, weights, class, cfg.gridDensity)
	if len(g.freq) <= g.r {
		return Design{}, fmt.Errorf("fir: remez: %d grid points for %d extremals: %w", len(g.freq), g.r+1, core.ErrTooFewPeaks)
	}

	ex := newExchange(g)
	log := cfg.logger.With(zap.Int("taps", n), zap.Stringer("class", class))

	converged := false
	for ex.iter < cfg.maxIter {
		ex.solve()
		ex.evalError()
		if err := ex.search(); err != nil {
			return Design{}, err
		}
		ex.iter++

		spread := ex.spread()
		log.Debug("remez exchange",
			zap.Int("iter", ex.iter),
			zap.Float64("delta", math.Abs(ex.delta)),
			zap.Float64("spread", spread),
		)
		settled := spread < cfg.tol || slices.Equal(ex.ext, ex.prevExt)
		if settled && withinBound(ex.err, ex.delta, cfg.tol) {
			converged = true
			break
		}
	}
	if !converged {
		return Design{}, &core.ConvergenceError{Iter: ex.iter, Dev: math.Abs(ex.delta)}
	}

	ex.solve()
	ex.evalError()

	d := Design{
		Taps:       ex.taps(),
		Deviation:  maxAbs(ex.err),
		Delta:      math.Abs(ex.delta),
		Iterations: ex.iter,
		Extremals:  make([]float64, len(ex.ext)),
	}
	scale := 1.0
	if cfg.sampleRate > 0 {
		scale = cfg.sampleRate
	}
	for i, e := range ex.ext {
		d.Extremals[i] = g.freq[e] * scale
	}

	log.Debug("remez done", zap.Int("iterations", d.Iterations), zap.Float64("deviation", d.Deviation))
	return d, nil
}

func normalizeEdges(bands []float64, fs float64) ([]float64, error) {
	if len(bands) < 2 || len(bands)%2 != 0 {
		return nil, fmt.Errorf("fir: remez: %d band edges: %w", len(bands), core.ErrShapeMismatch)
	}
	scale := 1.0
	if fs != 0 {
		if err := core.ValidateSampleRate(fs); err != nil {
			return nil, fmt.Errorf("fir: remez: %w", err)
		}
		scale = 1 / fs
	}

	edges := make([]float64, len(bands))
	for i, b := range bands {
		edges[i] = b * scale
		if !(edges[i] >= 0 && edges[i] <= 0.5) {
			return nil, fmt.Errorf("fir: remez: band edge %v: %w", b, core.ErrEdgesOutOfRange)
		}
		if i > 0 && edges[i] < edges[i-1] {
			return nil, fmt.Errorf("fir: remez: band edges %v: %w", bands, core.ErrEdgesNotNondecreasing)
		}
	}
	return edges, nil
}

// expandDesired returns two amplitudes per band.
func expandDesired(desired []float64, nb int) ([]float64, error) {
	switch len(desired) {
	case 2 * nb:
		return desired, nil
	case nb:
		out := make([]float64, 0, 2*nb)
		for _, d := range desired {
			out = append(out, d, d)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("fir: remez: %d desired values for %d bands: %w", len(desired), nb, core.ErrShapeMismatch)
	}
}

// withinBound reports whether the weighted error stays below |δ|(1+ε) on
// the whole grid. ε is the exchange tolerance with a floor at rounding
// level.
func withinBound(err []float64, delta, tol float64) bool {
	return maxAbs(err) <= math.Abs(delta)*(1+math.Max(tol, 1e-9))
}

func maxAbs(x []float64) float64 {
	if len(x) == 0 {
		return 0
	}
	return math.Max(math.Abs(floats.Max(x)), math.Abs(floats.Min(x)))
}
