package catalog

import (
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
)

type (
	FnOptions func(*Options)

	Options struct {
		Keep int
		Now  func() time.Time
	}
)

func WithConfig(cfg *config.Config) FnOptions {
	return func(o *Options) {
		o.Keep = cfg.Backup.Keep
	}
}

func WithKeep(keep int) FnOptions {
	return func(o *Options) {
		o.Keep = keep
	}
}

func WithClock(now func() time.Time) FnOptions {
	return func(o *Options) {
		o.Now = now
	}
}
