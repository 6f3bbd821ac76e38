package stats

import (
	"github.com/wd15/pymks-clean/fftn"
	"github.com/wd15/pymks-clean/ndarray"
)

type config struct {
	periodic    []int
	confidence  *ndarray.Array
	transformer *fftn.Transformer
}

// Option mutates a correlation configuration.
type Option func(*config)

// Periodic declares spatial axes (0-based over the spatial dimensions, so
// axis 0 is the first axis after the sample axis) as wrapping.
func Periodic(axes ...int) Option {
	return func(cfg *config) {
		cfg.periodic = append([]int(nil), axes...)
	}
}

// WithConfidence supplies a per-voxel confidence weight array with the same
// shape as the microstructure. Zero entries exclude voxels from the
// statistics; fractional entries downweight them.
func WithConfidence(mask *ndarray.Array) Option {
	return func(cfg *config) {
		cfg.confidence = mask
	}
}

// WithTransformer sets the FFT transformer. The default is fftn.New().
func WithTransformer(t *fftn.Transformer) Option {
	return func(cfg *config) {
		if t != nil {
			cfg.transformer = t
		}
	}
}

func applyOptions(opts []Option) config {
	cfg := config{transformer: fftn.New()}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
