package auth

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sync"

	"golang.org/x/oauth2"

	"ytlikes/internal/logger"
	"ytlikes/storage"
)

// loadToken reads a cached token. A missing file returns (nil, nil).
func loadToken(path string) (*oauth2.Token, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read credentials: %w", err)
	}

	var tok oauth2.Token
	if err := json.Unmarshal(data, &tok); err != nil {
		return nil, fmt.Errorf("parse credentials %s: %w", path, err)
	}
	if tok.AccessToken == "" && tok.RefreshToken == "" {
		return nil, nil
	}
	return &tok, nil
}

// saveToken writes tok readable by the owner only.
func saveToken(path string, tok *oauth2.Token) error {
	data, err := json.Marshal(tok)
	if err != nil {
		return fmt.Errorf("encode credentials: %w", err)
	}
	w, err := storage.NewAtomicWriter(path)
	if err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := w.Chmod(0600); err != nil {
		w.Abort()
		return fmt.Errorf("save credentials: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		w.Abort()
		return fmt.Errorf("save credentials: %w", err)
	}
	if err := w.Commit(); err != nil {
		return fmt.Errorf("save credentials: %w", err)
	}
	return nil
}

// persistingSource saves every newly issued token, so refreshed access
// tokens survive the process.
type persistingSource struct {
	src  oauth2.TokenSource
	path string
	log  *logger.Logger

	mu   sync.Mutex
	last string
}

func (p *persistingSource) Token() (*oauth2.Token, error) {
	tok, err := p.src.Token()
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if tok.AccessToken != p.last {
		p.last = tok.AccessToken
		if err := saveToken(p.path, tok); err != nil {
			p.log.Warnf("Failed to save refreshed credentials: %v", err)
		}
	}
	return tok, nil
}
