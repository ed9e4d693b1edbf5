package backup

import (
	"context"
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/settings"
)

type (
	FnOptions func(*Options)

	// ProgressFunc is called after each collection is handled.
	ProgressFunc func(done, total int, collection string)

	SettingsReader interface {
		Get(ctx context.Context, key string) (settings.Value, error)
	}

	Options struct {
		Location      *time.Location
		EncryptionKey string
		Settings      SettingsReader
		Progress      ProgressFunc
		Now           func() time.Time
	}
)

func WithConfig(cfg *config.Config) FnOptions {
	return func(opt *Options) {
		if loc, err := cfg.GetLocation(); err == nil {
			opt.Location = loc
		}
		opt.EncryptionKey = cfg.EncryptionKey
	}
}

func WithLocation(loc *time.Location) FnOptions {
	return func(opt *Options) {
		opt.Location = loc
	}
}

func WithEncryptionKey(encryptionKey string) FnOptions {
	return func(opt *Options) {
		opt.EncryptionKey = encryptionKey
	}
}

func WithSettings(r SettingsReader) FnOptions {
	return func(opt *Options) {
		opt.Settings = r
	}
}

func WithProgress(fn ProgressFunc) FnOptions {
	return func(opt *Options) {
		opt.Progress = fn
	}
}

func WithClock(now func() time.Time) FnOptions {
	return func(opt *Options) {
		opt.Now = now
	}
}

func (o *Options) IsEncryptEnabled() bool {
	return o.EncryptionKey != ""
}

func (o *Options) location() *time.Location {
	if o.Location == nil {
		return time.UTC
	}
	return o.Location
}
