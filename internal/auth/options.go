package auth

import (
	"fmt"
	"time"

	"github.com/BrunoTulio/mongopher/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

type (
	FnOptions func(*Options)

	Options struct {
		ClientID     string
		ClientSecret string
		RedirectURI  string
		Endpoint     oauth2.Endpoint
		Timeout      time.Duration
		// OnAuthURL receives the consent URL the user has to open.
		OnAuthURL func(url string)
	}
)

func defaultOptions() *Options {
	return &Options{
		RedirectURI: config.DefaultRedirectURI,
		Endpoint:    google.Endpoint,
		Timeout:     5 * time.Minute,
		OnAuthURL: func(url string) {
			fmt.Println(url)
		},
	}
}

func WithConfig(cfg config.GoogleConfig) FnOptions {
	return func(o *Options) {
		o.ClientID = cfg.OAuthClientID
		o.ClientSecret = cfg.OAuthClientSecret
		if cfg.OAuthRedirectURI != "" {
			o.RedirectURI = cfg.OAuthRedirectURI
		}
	}
}

func WithClient(id, secret string) FnOptions {
	return func(o *Options) {
		o.ClientID = id
		o.ClientSecret = secret
	}
}

func WithRedirectURI(uri string) FnOptions {
	return func(o *Options) {
		o.RedirectURI = uri
	}
}

func WithEndpoint(e oauth2.Endpoint) FnOptions {
	return func(o *Options) {
		o.Endpoint = e
	}
}

func WithTimeout(d time.Duration) FnOptions {
	return func(o *Options) {
		o.Timeout = d
	}
}

func WithOnAuthURL(fn func(url string)) FnOptions {
	return func(o *Options) {
		o.OnAuthURL = fn
	}
}
