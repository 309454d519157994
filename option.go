package snowloader

import (
	"github.com/rs/zerolog"
	"golang.org/x/xerrors"
)

// Option configures SnowLoader.
type Option interface {
	apply(*snowLoader) error
}

type optionFunc func(*snowLoader) error

func (f optionFunc) apply(l *snowLoader) error {
	return f(l)
}

// WithPrettyLogging configures SnowLoader to print human friendly logs.
func WithPrettyLogging() Option {
	return optionFunc(func(l *snowLoader) error {
		l.prettyLogging = true
		return nil
	})
}

// WithLogLevel configures the log level. Allowed levels are trace, debug,
// info, warn, error, fatal and panic.
func WithLogLevel(level string) Option {
	return optionFunc(func(l *snowLoader) error {
		lv, err := zerolog.ParseLevel(level)
		if err != nil {
			return xerrors.Errorf("unknown log level %q: %w", level, err)
		}
		l.logLevel = lv
		return nil
	})
}

// WithConcurrency configures how many rows are projected in parallel.
// The default is the number of CPUs.
func WithConcurrency(n int) Option {
	return optionFunc(func(l *snowLoader) error {
		if n < 1 {
			return xerrors.Errorf("concurrency must be positive, got %d", n)
		}
		l.concurrency = n
		return nil
	})
}
