package drive

import (
	"context"

	"github.com/BrunoTulio/mongopher/internal/config"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"google.golang.org/api/option"
)

type (
	FnOptions func(*Options)

	// SettingsReader is the read side of the settings store.
	SettingsReader interface {
		Get(ctx context.Context, key string) (settings.Value, error)
	}

	Options struct {
		Google        config.GoogleConfig
		Settings      SettingsReader
		ClientOptions []option.ClientOption
	}
)

func WithConfig(cfg config.GoogleConfig) FnOptions {
	return func(o *Options) {
		o.Google = cfg
	}
}

func WithSettings(r SettingsReader) FnOptions {
	return func(o *Options) {
		o.Settings = r
	}
}

// WithClientOptions appends options passed to the Drive service constructor.
func WithClientOptions(opts ...option.ClientOption) FnOptions {
	return func(o *Options) {
		o.ClientOptions = append(o.ClientOptions, opts...)
	}
}
