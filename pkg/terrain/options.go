package terrain

import "go.uber.org/zap"

// Option configures Assemble.
type Option func(*options)

type options struct {
	logger          *zap.Logger
	workers         int
	verify          bool
	expectedVersion uint16
	expectedSpacing uint16
}

func newOptions(opts []Option) *options {
	o := &options{
		logger:  zap.NewNop(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the destination for per-block diagnostics.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithWorkers decodes chunks on up to n goroutines. Placement order is
// unaffected. Values below 1 mean sequential.
func WithWorkers(n int) Option {
	return func(o *options) {
		if n < 1 {
			n = 1
		}
		o.workers = n
	}
}

// WithVerify enables checksum verification of every block. Blocks that fail
// are skipped.
func WithVerify(verify bool) Option {
	return func(o *options) {
		o.verify = verify
	}
}

// WithExpectedVersion skips blocks whose version differs from v. Zero
// accepts any version.
func WithExpectedVersion(v uint16) Option {
	return func(o *options) {
		o.expectedVersion = v
	}
}

// WithExpectedSpacing skips blocks whose grid spacing differs from s. Zero
// accepts any spacing.
func WithExpectedSpacing(s uint16) Option {
	return func(o *options) {
		o.expectedSpacing = s
	}
}
