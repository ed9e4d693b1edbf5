// Package drive wraps the Google Drive v3 API for backup folders.
package drive

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/BrunoTulio/logr"
	"github.com/BrunoTulio/mongopher/internal/settings"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gdrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// ErrMissingAuth is returned when neither OAuth credentials nor a service
// account key are configured.
var ErrMissingAuth = errors.New("Missing Google auth")

type Source string

const (
	SourceEnv  Source = "env"
	SourceDB   Source = "db"
	SourceNone Source = "none"
)

type (
	ConfigSource struct {
		OAuth  Source `json:"oauth"`
		Folder Source `json:"folder"`
	}

	// Credentials is the outcome of resolving auth and parent folder from
	// the environment and the settings store.
	Credentials struct {
		ClientID          string
		ClientSecret      string
		RefreshToken      string
		RedirectURI       string
		ServiceAccountKey string
		FolderID          string
		Source            ConfigSource
	}

	Connector struct {
		log logr.Logger
		opt *Options
	}
)

func (c Credentials) HasOAuth() bool {
	return c.ClientID != "" && c.ClientSecret != "" && c.RefreshToken != ""
}

// Configured reports whether any usable auth method was found.
func (c Credentials) Configured() bool {
	return c.HasOAuth() || c.ServiceAccountKey != ""
}

func NewConnector(log logr.Logger, opts ...FnOptions) *Connector {
	opt := &Options{}

	for _, o := range opts {
		o(opt)
	}

	return &Connector{
		log: log,
		opt: opt,
	}
}

// Resolve picks credentials with precedence env OAuth > stored OAuth >
// service account, and the parent folder env > stored.
func (c *Connector) Resolve(ctx context.Context) Credentials {
	env := c.opt.Google
	creds := Credentials{
		RedirectURI:       env.OAuthRedirectURI,
		ServiceAccountKey: env.ServiceAccountKey,
		Source:            ConfigSource{OAuth: SourceNone, Folder: SourceNone},
	}

	if env.HasOAuth() {
		creds.ClientID = env.OAuthClientID
		creds.ClientSecret = env.OAuthClientSecret
		creds.RefreshToken = env.OAuthRefreshToken
		creds.Source.OAuth = SourceEnv
	} else {
		id := c.setting(ctx, settings.KeyOAuthClientID)
		secret := c.setting(ctx, settings.KeyOAuthClientSecret)
		token := c.setting(ctx, settings.KeyOAuthRefreshToken)

		if id != "" && secret != "" && token != "" {
			creds.ClientID = id
			creds.ClientSecret = secret
			creds.RefreshToken = token
			creds.Source.OAuth = SourceDB
		}
	}

	if env.FolderID != "" {
		creds.FolderID = env.FolderID
		creds.Source.Folder = SourceEnv
	} else if id := c.setting(ctx, settings.KeyDriveFolderID); id != "" {
		creds.FolderID = id
		creds.Source.Folder = SourceDB
	}

	return creds
}

// Open resolves credentials and returns a ready Drive client. Shared drive
// detection failures only produce a warning.
func (c *Connector) Open(ctx context.Context) (*Client, error) {
	creds := c.Resolve(ctx)

	authOpt, err := c.authOption(ctx, creds)
	if err != nil {
		return nil, err
	}

	clientOptions := append([]option.ClientOption{authOpt}, c.opt.ClientOptions...)

	svc, err := gdrive.NewService(ctx, clientOptions...)
	if err != nil {
		return nil, fmt.Errorf("unable to create Drive client: %w", err)
	}

	client := &Client{
		svc:      svc,
		log:      c.log,
		parentID: creds.FolderID,
	}

	if creds.FolderID != "" {
		client.detectSharedDrive(ctx)
	}

	return client, nil
}

func (c *Connector) authOption(ctx context.Context, creds Credentials) (option.ClientOption, error) {
	if creds.HasOAuth() {
		c.log.Debugf("🔑 Using OAuth credentials (source: %s)", creds.Source.OAuth)

		conf := &oauth2.Config{
			ClientID:     creds.ClientID,
			ClientSecret: creds.ClientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  creds.RedirectURI,
			Scopes:       []string{gdrive.DriveScope},
		}
		ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})
		return option.WithTokenSource(ts), nil
	}

	if creds.ServiceAccountKey != "" {
		c.log.Debug("🔑 Using service account credentials")

		conf, err := google.JWTConfigFromJSON([]byte(creds.ServiceAccountKey), gdrive.DriveScope)
		if err != nil {
			return nil, fmt.Errorf("unable to parse service account key: %w", err)
		}
		return option.WithTokenSource(conf.TokenSource(ctx)), nil
	}

	return nil, ErrMissingAuth
}

func (c *Connector) setting(ctx context.Context, key string) string {
	if c.opt.Settings == nil {
		return ""
	}

	v, err := c.opt.Settings.Get(ctx, key)
	if err != nil {
		c.log.Warnf("⚠️  Failed to read setting %s: %v", key, err)
		return ""
	}

	return strings.TrimSpace(v.StringOr(""))
}
