package ytlikes

import (
	"ytlikes/auth"
	"ytlikes/internal/retry"
	"ytlikes/library"
	"ytlikes/storage"
	"ytlikes/youtube"
)

// Type aliases for convenient error handling.
type (
	// PreconditionError reports a missing likes file on export.
	PreconditionError = youtube.PreconditionError
	// RemoteAPIError wraps a failed playlist request.
	RemoteAPIError = youtube.RemoteAPIError
	// RecoverableRatingError describes a video that could not be liked.
	RecoverableRatingError = youtube.RecoverableRatingError
	// DownloadError carries the error output of yt-dlp.
	DownloadError = youtube.DownloadError
	// ValidationError reports downloaded files without an info.json sidecar.
	ValidationError = library.ValidationError
	// SecretsError explains how to set up OAuth client secrets.
	SecretsError = auth.SecretsError
	// RetryableError wraps errors that occurred after retries were exhausted.
	RetryableError = retry.RetryableError
	// StorageError wraps errors during storage operations.
	StorageError = storage.StorageError
)

// Sentinel errors exported from sub-packages.
var (
	// ErrYtdlpNotInstalled indicates yt-dlp binary was not found.
	ErrYtdlpNotInstalled = youtube.ErrYtdlpNotInstalled

	ErrSecretsMissing   = auth.ErrSecretsMissing
	ErrRedirectMismatch = auth.ErrRedirectMismatch
	ErrStateMismatch    = auth.ErrStateMismatch

	// ErrTargetExists indicates a rename would replace another video's file.
	ErrTargetExists = library.ErrTargetExists

	// Storage errors
	// ErrNotFound indicates an entity was not found in storage.
	ErrNotFound = storage.ErrNotFound
	// ErrInvalidInput indicates invalid input was provided.
	ErrInvalidInput = storage.ErrInvalidInput
	// ErrStorageCorrupt indicates data corruption was detected.
	ErrStorageCorrupt = storage.ErrStorageCorrupt
	// ErrLockTimeout indicates a timeout acquiring a file lock.
	ErrLockTimeout = storage.ErrLockTimeout
)

// ClassifyRatingError tells how an export treats a rejected like.
func ClassifyRatingError(err error) youtube.RatingOutcome {
	return youtube.ClassifyRatingError(err)
}

// IsRetryable determines if an error should be retried.
func IsRetryable(err error) bool {
	return retry.IsRetryable(err)
}
