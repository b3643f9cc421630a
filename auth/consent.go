package auth

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/oauth2"
)

const callbackPath = "/oauthcallback"

type callbackResult struct {
	code string
	err  error
}

// consent runs the authorization code flow: it serves the callback on the
// local port, logs the consent URL and exchanges the returned code.
func (m *Manager) consent(ctx context.Context, cfg *oauth2.Config, profile string) (*oauth2.Token, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf("localhost:%d", m.port))
	if err != nil {
		return nil, fmt.Errorf("listen for OAuth callback: %w", err)
	}

	state := uuid.NewString()
	results := make(chan callbackResult, 1)
	send := func(r callbackResult) {
		select {
		case results <- r:
		default:
		}
	}

	mux := http.NewServeMux()
	mux.HandleFunc(callbackPath, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		switch {
		case q.Get("state") != state:
			http.Error(w, "Invalid state", http.StatusBadRequest)
			send(callbackResult{err: ErrStateMismatch})
		case q.Get("error") != "":
			http.Error(w, "Access denied", http.StatusForbidden)
			send(callbackResult{err: fmt.Errorf("auth: consent denied: %s", q.Get("error"))})
		case q.Get("code") == "":
			http.Error(w, "Missing code", http.StatusBadRequest)
		default:
			fmt.Fprint(w, "<h1>Please close this page and return to application</h1>")
			send(callbackResult{code: q.Get("code")})
		}
	})

	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	go srv.Serve(ln)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		srv.Shutdown(shutdownCtx)
	}()

	authURL := cfg.AuthCodeURL(state, oauth2.AccessTypeOffline)
	m.log.Infof("Please open %s in your browser using google profile for %s and allow access to %s",
		authURL, profile, strings.Join(cfg.Scopes, ","))
	if m.Open != nil {
		m.Open(authURL)
	}

	var res callbackResult
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res = <-results:
	}
	if res.err != nil {
		return nil, res.err
	}

	tok, err := cfg.Exchange(ctx, res.code)
	if err != nil {
		return nil, fmt.Errorf("auth: exchange code: %w", err)
	}
	return tok, nil
}
