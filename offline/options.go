package offline

import (
	"go.uber.org/zap"

	"github.com/cwbudde/algo-webaudio/formats"
	"github.com/cwbudde/algo-webaudio/native"
	"github.com/cwbudde/algo-webaudio/native/soft"
)

type config struct {
	logger  *zap.Logger
	factory native.Factory
	formats *formats.Registry
}

// Option configures a Context.
type Option func(*config)

func defaultConfig() config {
	return config{
		logger:  zap.NewNop(),
		factory: soft.Factory(),
	}
}

// WithLogger sets the logger used for rendering diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// WithNativeFactory sets the factory creating the native contexts the graph
// is rendered on, including the nested contexts of emulated IIR filters.
func WithNativeFactory(factory native.Factory) Option {
	return func(cfg *config) {
		if factory != nil {
			cfg.factory = factory
		}
	}
}

// WithFormats sets the decoder registry used by DecodeAudioData.
func WithFormats(registry *formats.Registry) Option {
	return func(cfg *config) { cfg.formats = registry }
}

func applyOptions(opts []Option) config {
	cfg := defaultConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.formats == nil {
		cfg.formats = formats.NewDefaultRegistry()
	}

	return cfg
}
