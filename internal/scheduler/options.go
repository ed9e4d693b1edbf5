package scheduler

import (
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
)

type (
	FnOptions func(*Options)

	Options struct {
		Location     *time.Location
		PollInterval time.Duration
		Default      string
	}
)

func WithConfig(cfg *config.Config) FnOptions {
	return func(o *Options) {
		if loc, err := cfg.GetLocation(); err == nil {
			o.Location = loc
		}
		o.PollInterval = cfg.Backup.PollInterval()
	}
}

func WithLocation(loc *time.Location) FnOptions {
	return func(o *Options) {
		o.Location = loc
	}
}

func WithPollInterval(d time.Duration) FnOptions {
	return func(o *Options) {
		o.PollInterval = d
	}
}

// WithDefault replaces the expression used when none is stored.
func WithDefault(expr string) FnOptions {
	return func(o *Options) {
		o.Default = expr
	}
}
