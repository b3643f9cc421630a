package auth

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	ytapi "google.golang.org/api/youtube/v3"

	"ytlikes/internal/logger"
	"ytlikes/storage"
)

// DefaultCallbackPort is the local port receiving the OAuth redirect.
const DefaultCallbackPort = 6006

// DefaultScopes are requested by Login.
var DefaultScopes = []string{ytapi.YoutubeReadonlyScope}

// Request describes the credentials a caller needs.
type Request struct {
	Scopes []string
	// Temporary credentials always go through consent and are never cached.
	Temporary bool
}

// Manager hands out authorized HTTP clients per profile.
type Manager struct {
	// Open is called with the consent URL after it has been logged, e.g. to
	// launch a browser. Nil only logs it.
	Open func(authURL string)

	layout storage.Layout
	log    *logger.Logger
	port   int
	base   *http.Client
}

// NewManager creates a Manager. base performs token exchanges and carries
// the API requests of the returned clients; http.DefaultClient when nil.
func NewManager(layout storage.Layout, log *logger.Logger, callbackPort int, base *http.Client) *Manager {
	if callbackPort == 0 {
		callbackPort = DefaultCallbackPort
	}
	if base == nil {
		base = http.DefaultClient
	}
	return &Manager{layout: layout, log: log, port: callbackPort, base: base}
}

// RedirectURL is the callback URI the client secrets must be registered with.
func (m *Manager) RedirectURL() string {
	return fmt.Sprintf("http://localhost:%d/oauthcallback", m.port)
}

// OAuthConfig reads the profile's client secrets.
func (m *Manager) OAuthConfig(profile string, scopes []string) (*oauth2.Config, error) {
	path := m.layout.SecretsFile(profile)
	secretsErr := func(err error) error {
		return &SecretsError{Profile: profile, Path: path, RedirectURL: m.RedirectURL(), Err: err}
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, secretsErr(ErrSecretsMissing)
	}
	if err != nil {
		return nil, secretsErr(err)
	}

	cfg, err := google.ConfigFromJSON(data, scopes...)
	if err != nil {
		return nil, secretsErr(err)
	}
	if cfg.RedirectURL != m.RedirectURL() {
		return nil, secretsErr(ErrRedirectMismatch)
	}
	return cfg, nil
}

// HTTPClient returns a client authorized for profile. Cached credentials are
// reused unless the request is temporary; otherwise the user is asked for
// consent and, for non-temporary requests, the result is cached.
func (m *Manager) HTTPClient(ctx context.Context, profile string, req Request) (*http.Client, error) {
	cfg, err := m.OAuthConfig(profile, req.Scopes)
	if err != nil {
		return nil, err
	}
	ctx = context.WithValue(ctx, oauth2.HTTPClient, m.base)

	credentialsFile := m.layout.CredentialsFile(profile)
	var tok *oauth2.Token
	if !req.Temporary {
		if tok, err = loadToken(credentialsFile); err != nil {
			return nil, err
		}
	}

	if tok == nil {
		if tok, err = m.consent(ctx, cfg, profile); err != nil {
			return nil, err
		}
		if !req.Temporary {
			if err := saveToken(credentialsFile, tok); err != nil {
				return nil, err
			}
		}
	}

	var src oauth2.TokenSource = cfg.TokenSource(ctx, tok)
	if !req.Temporary {
		src = &persistingSource{src: src, path: credentialsFile, log: m.log, last: tok.AccessToken}
	}

	client := oauth2.NewClient(ctx, oauth2.ReuseTokenSource(tok, src))
	client.Timeout = m.base.Timeout
	return client, nil
}

// Login makes sure every profile has cached credentials.
func (m *Manager) Login(ctx context.Context, profiles []string) error {
	for _, profile := range profiles {
		if _, err := m.HTTPClient(ctx, profile, Request{Scopes: DefaultScopes}); err != nil {
			return fmt.Errorf("login %s: %w", profile, err)
		}
	}
	return nil
}
