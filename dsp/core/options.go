package core

import "math"

// AnalysisConfig holds settings shared by the frequency- and time-domain
// analysis drivers (freqz, impz, pwelch, stft).
type AnalysisConfig struct {
	// SampleRate scales frequency and time axes. Zero keeps normalised axes:
	// radians per sample for frequency, samples for time.
	SampleRate float64
	// Whole evaluates the full unit circle instead of [0, π).
	Whole bool
}

// AnalysisOption mutates an AnalysisConfig.
type AnalysisOption func(*AnalysisConfig)

// DefaultAnalysisConfig returns normalised axes over the upper half circle.
func DefaultAnalysisConfig() AnalysisConfig {
	return AnalysisConfig{}
}

// WithSampleRate sets the sample rate used to scale the returned axes.
func WithSampleRate(sampleRate float64) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithWhole selects evaluation around the whole unit circle.
func WithWhole(whole bool) AnalysisOption {
	return func(cfg *AnalysisConfig) {
		cfg.Whole = whole
	}
}

// ApplyAnalysisOptions applies zero or more options to the default config.
func ApplyAnalysisOptions(opts ...AnalysisOption) AnalysisConfig {
	cfg := DefaultAnalysisConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// FrequencyScale returns the factor that converts radians per sample into
// the configured frequency unit (Hz when a sample rate is set).
func (c AnalysisConfig) FrequencyScale() float64 {
	if c.SampleRate > 0 {
		return c.SampleRate / (2 * math.Pi)
	}
	return 1
}
