// Package auth runs the OAuth consent flow that yields a Google Drive
// refresh token.
package auth

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/BrunoTulio/logr"
	"golang.org/x/oauth2"
	gdrive "google.golang.org/api/drive/v3"
)

const successPage = `<!DOCTYPE html>
<html lang="en">
  <head>
    <meta charset="UTF-8" />
    <title>Authorization complete</title>
  </head>
  <body style="font-family:sans-serif;text-align:center;padding:50px">
    <h1>✅ Authorization complete</h1>
    <p>You can close this tab and return to the terminal.</p>
  </body>
</html>`

type Auth struct {
	log logr.Logger
	opt *Options
}

func New(log logr.Logger, opts ...FnOptions) *Auth {
	opt := defaultOptions()
	for _, o := range opts {
		o(opt)
	}
	return &Auth{log: log, opt: opt}
}

func (a *Auth) config() *oauth2.Config {
	return &oauth2.Config{
		ClientID:     a.opt.ClientID,
		ClientSecret: a.opt.ClientSecret,
		Endpoint:     a.opt.Endpoint,
		RedirectURL:  a.opt.RedirectURI,
		Scopes:       []string{gdrive.DriveScope},
	}
}

// Run prints the consent URL, waits for the browser callback on the
// redirect URI and exchanges the code for a token with a refresh token.
func (a *Auth) Run(ctx context.Context) (*oauth2.Token, error) {
	if a.opt.ClientID == "" || a.opt.ClientSecret == "" {
		return nil, errors.New("OAuth client id and secret are required")
	}

	redirect, err := url.Parse(a.opt.RedirectURI)
	if err != nil {
		return nil, fmt.Errorf("invalid redirect uri: %w", err)
	}

	listener, err := net.Listen("tcp", redirect.Host)
	if err != nil {
		return nil, fmt.Errorf("listen on %s: %w", redirect.Host, err)
	}

	conf := a.config()
	state := randomState()

	codeCh := make(chan string, 1)
	errCh := make(chan error, 1)

	path := redirect.Path
	if path == "" {
		path = "/"
	}
	mux := http.NewServeMux()
	mux.Handle(path, callbackHandler(state, codeCh, errCh))

	server := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go func() {
		if err := server.Serve(listener); !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	a.log.Info("🚀 Google Drive OAuth2 authorization")
	a.log.Info("📖 Open this link in your browser:")
	a.opt.OnAuthURL(conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce))
	a.log.Infof("⏳ Waiting for callback on %s ...", a.opt.RedirectURI)

	var code string
	select {
	case code = <-codeCh:
	case err := <-errCh:
		return nil, fmt.Errorf("authorization failed: %w", err)
	case <-time.After(a.opt.Timeout):
		return nil, fmt.Errorf("authorization timed out after %s", a.opt.Timeout)
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	a.log.Info("🔄 Exchanging code for tokens...")
	token, err := conf.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("exchange code: %w", err)
	}

	if token.RefreshToken == "" {
		return nil, errors.New("no refresh token returned; revoke the app access and try again")
	}

	return token, nil
}

func callbackHandler(state string, codeCh chan<- string, errCh chan<- error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		if q.Get("state") != state {
			http.Error(w, "invalid state", http.StatusBadRequest)
			send(errCh, errors.New("invalid state, possible CSRF attack"))
			return
		}

		if e := q.Get("error"); e != "" {
			http.Error(w, e, http.StatusBadRequest)
			send(errCh, fmt.Errorf("consent denied: %s", e))
			return
		}

		code := q.Get("code")
		if code == "" {
			http.Error(w, "missing code", http.StatusBadRequest)
			send(errCh, errors.New("authorization code not received"))
			return
		}

		w.Header().Set("Content-Type", "text/html")
		_, _ = fmt.Fprint(w, successPage)

		send(codeCh, code)
	}
}

// send drops the value when a result was already delivered.
func send[T any](ch chan<- T, v T) {
	select {
	case ch <- v:
	default:
	}
}

func randomState() string {
	b := make([]byte, 16)
	_, _ = rand.Read(b)
	return base64.URLEncoding.EncodeToString(b)
}
