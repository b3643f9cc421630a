package youtube

import (
	"errors"
	"fmt"
	"testing"

	"google.golang.org/api/googleapi"

	"ytlikes/internal/retry"
)

func apiError(code int, reasons ...string) *googleapi.Error {
	err := &googleapi.Error{Code: code, Message: "rejected"}
	for _, r := range reasons {
		err.Errors = append(err.Errors, googleapi.ErrorItem{Reason: r, Message: r})
	}
	return err
}

func TestClassifyRatingError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   RatingOutcomeKind
		wantReason string
	}{
		{"not a googleapi error", errors.New("connection reset"), RatingMalformed, ""},
		{"no error items", apiError(400), RatingIgnored, ""},
		{"videoNotFound", apiError(404, "videoNotFound"), RatingRecoverable, "videoNotFound"},
		{"notFound", apiError(404, "notFound"), RatingRecoverable, "notFound"},
		{"videoRatingDisabled", apiError(403, "videoRatingDisabled"), RatingRecoverable, "videoRatingDisabled"},
		{"videoPurchaseRequired", apiError(403, "videoPurchaseRequired"), RatingRecoverable, "videoPurchaseRequired"},
		{"forbidden", apiError(403, "forbidden"), RatingFatal, "forbidden"},
		{"empty reason", apiError(500, ""), RatingFatal, ""},
		{"only first item counts", apiError(403, "forbidden", "videoNotFound"), RatingFatal, "forbidden"},
		{"first item recoverable", apiError(404, "videoNotFound", "forbidden"), RatingRecoverable, "videoNotFound"},
		{"wrapped", fmt.Errorf("rate: %w", apiError(404, "notFound")), RatingRecoverable, "notFound"},
		{"after retries", &retry.RetryableError{Err: apiError(503, "backendError"), Retries: 3}, RatingFatal, "backendError"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyRatingError(tt.err)
			if got.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", got.Kind, tt.wantKind)
			}
			if got.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", got.Reason, tt.wantReason)
			}
			if got.Cause != tt.err {
				t.Errorf("Cause = %v, want original error", got.Cause)
			}
		})
	}
}

func TestRecoverableRatingErrorMessage(t *testing.T) {
	tests := []struct {
		reason string
		want   string
	}{
		{"videoNotFound", "Video abc not found"},
		{"notFound", "Video abc not found"},
		{"videoRatingDisabled", "Video abc is not allowed to be rated"},
		{"videoPurchaseRequired", "Video abc is not allowed to be rated"},
	}

	for _, tt := range tests {
		err := &RecoverableRatingError{VideoID: "abc", Reason: tt.reason}
		if got := err.Error(); got != tt.want {
			t.Errorf("Error() for %s = %q, want %q", tt.reason, got, tt.want)
		}
	}
}

func TestRatingOutcomeKindString(t *testing.T) {
	if RatingRecoverable.String() != "recoverable" || RatingOutcomeKind(9).String() != "unknown" {
		t.Error("unexpected RatingOutcomeKind names")
	}
}
