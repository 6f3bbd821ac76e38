package fftn

// Backend selects the 1-d FFT implementation used by a Transformer.
type Backend int

const (
	// BackendGonum uses gonum's dsp/fourier transforms. It handles any axis
	// length and is the default.
	BackendGonum Backend = iota

	// BackendAlgoFFT uses planned algo-fft transforms for power-of-2 axis
	// lengths and falls back to the gonum path for other lengths.
	BackendAlgoFFT
)

type config struct {
	backend Backend
	workers int
}

// Option mutates a Transformer configuration.
type Option func(*config)

func defaultConfig() config {
	return config{
		backend: BackendGonum,
		workers: 1,
	}
}

// WithBackend selects the FFT backend.
func WithBackend(b Backend) Option {
	return func(cfg *config) {
		if b == BackendGonum || b == BackendAlgoFFT {
			cfg.backend = b
		}
	}
}

// WithWorkers sets the number of goroutines used to transform independent
// 1-d lines. Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(cfg *config) {
		if n >= 1 {
			cfg.workers = n
		}
	}
}
