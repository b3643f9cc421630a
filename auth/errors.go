// Package auth obtains OAuth credentials for the YouTube Data API, one set
// per profile.
package auth

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSecretsMissing means the profile's client secrets file does not exist.
	ErrSecretsMissing = errors.New("auth: client secrets not found")
	// ErrRedirectMismatch means the client secrets use another redirect URI
	// than the local callback.
	ErrRedirectMismatch = errors.New("auth: redirect URI mismatch")
	// ErrStateMismatch means the OAuth callback carried an unexpected state.
	ErrStateMismatch = errors.New("auth: state mismatch")
)

// SecretsError explains how to provide valid client secrets for a profile.
type SecretsError struct {
	Profile     string
	Path        string
	RedirectURL string
	Err         error
}

func (e *SecretsError) Error() string {
	var head string
	switch {
	case errors.Is(e.Err, ErrRedirectMismatch):
		head = "Error in credentials file: redirect URI should be " + e.RedirectURL + "."
	case errors.Is(e.Err, ErrSecretsMissing):
		head = fmt.Sprintf("File %s not found!", e.Path)
	default:
		head = fmt.Sprintf("Cannot read %s: %v", e.Path, e.Err)
	}

	return strings.Join([]string{
		head,
		"To obtain it, please create correct OAuth client ID:",
		"\tGo to https://console.cloud.google.com/apis/credentials/oauthclient",
		"\t[if applicable] Click \"+ Create credentials\" and choose \"OAuth client ID\"",
		"\tSet application type \"Web application\"",
		"\tAdd authorized redirect URI: " + e.RedirectURL,
		"\tClick \"Create\"",
		"\tClick \"Download JSON\" and download credentials to " + e.Path,
		"Then start this script again",
	}, "\n")
}

func (e *SecretsError) Unwrap() error { return e.Err }
