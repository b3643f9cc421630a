// Package youtube synchronizes a profile's liked videos with YouTube and
// drives yt-dlp to archive them.
package youtube

import (
	"errors"
	"fmt"
)

// Sentinel errors for likes synchronization.
var (
	ErrYtdlpNotInstalled = errors.New("youtube: yt-dlp not installed")
)

// RemoteAPIError reports a rejected YouTube Data API call.
// Use errors.As() to extract this error type and get operation details:
//
//	var apiErr *youtube.RemoteAPIError
//	if errors.As(err, &apiErr) {
//		fmt.Printf("%s failed: %v\n", apiErr.Op, apiErr.Err)
//	}
type RemoteAPIError struct {
	// Op is the API method that failed ("playlistItems.list").
	Op string
	// Err is the error returned by the API client.
	Err error
}

// Error returns a string representation of the API error.
func (e *RemoteAPIError) Error() string {
	return "youtube: " + e.Op + ": " + e.Err.Error()
}

// Unwrap returns the underlying error for use with errors.Is() and errors.As().
func (e *RemoteAPIError) Unwrap() error { return e.Err }

// PreconditionError reports a local file that must exist before an
// operation can run.
type PreconditionError struct {
	Path string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("Likes file %s doesn't exist, please create it and paste each videos URL (like %sabcabcabc) on each line", e.Path, URLPrefix)
}

// RecoverableRatingError describes a rating rejection that is reported and
// skipped. Its message is the warning shown to the user.
type RecoverableRatingError struct {
	VideoID string
	Reason  string
}

func (e *RecoverableRatingError) Error() string {
	switch e.Reason {
	case "videoNotFound", "notFound":
		return fmt.Sprintf("Video %s not found", e.VideoID)
	default:
		return fmt.Sprintf("Video %s is not allowed to be rated", e.VideoID)
	}
}
