package job

import (
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
)

type (
	FnOptions func(*Options)

	Options struct {
		Keep    int
		Timeout time.Duration
	}
)

func WithConfig(cfg *config.Config) FnOptions {
	return func(o *Options) {
		o.Keep = cfg.Backup.Keep
		o.Timeout = cfg.Backup.Timeout()
	}
}

func WithKeep(keep int) FnOptions {
	return func(o *Options) {
		o.Keep = keep
	}
}

// WithTimeout bounds a whole run. Zero disables the bound.
func WithTimeout(d time.Duration) FnOptions {
	return func(o *Options) {
		o.Timeout = d
	}
}
