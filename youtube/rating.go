package youtube

import (
	"errors"

	"google.golang.org/api/googleapi"
)

// RatingOutcomeKind classifies a rejected rating call.
type RatingOutcomeKind int

const (
	// RatingIgnored is a structured rejection without error items; the
	// rating is treated as applied.
	RatingIgnored RatingOutcomeKind = iota
	// RatingRecoverable is a rejection for a video that cannot be liked;
	// it is reported and the export continues.
	RatingRecoverable
	// RatingFatal is any other structured rejection; the export stops.
	RatingFatal
	// RatingMalformed is a rejection that is not a YouTube API error at
	// all, such as a transport failure; the export stops.
	RatingMalformed
)

// String returns the name of the outcome kind.
func (k RatingOutcomeKind) String() string {
	switch k {
	case RatingIgnored:
		return "ignored"
	case RatingRecoverable:
		return "recoverable"
	case RatingFatal:
		return "fatal"
	case RatingMalformed:
		return "malformed"
	default:
		return "unknown"
	}
}

// RatingOutcome is the classification of a rating error.
type RatingOutcome struct {
	Kind RatingOutcomeKind
	// Reason is the reason of the first error item, if any.
	Reason string
	// Cause is the error as returned by the API client.
	Cause error
}

// recoverableReasons are the rejection reasons that only affect one video.
var recoverableReasons = map[string]bool{
	"videoNotFound":         true,
	"notFound":              true,
	"videoRatingDisabled":   true,
	"videoPurchaseRequired": true,
}

// ClassifyRatingError decides how an export reacts to err. Only the first
// item of a *googleapi.Error is considered.
func ClassifyRatingError(err error) RatingOutcome {
	var apiErr *googleapi.Error
	if !errors.As(err, &apiErr) {
		return RatingOutcome{Kind: RatingMalformed, Cause: err}
	}

	if len(apiErr.Errors) == 0 {
		return RatingOutcome{Kind: RatingIgnored, Cause: err}
	}

	reason := apiErr.Errors[0].Reason
	if recoverableReasons[reason] {
		return RatingOutcome{Kind: RatingRecoverable, Reason: reason, Cause: err}
	}
	return RatingOutcome{Kind: RatingFatal, Reason: reason, Cause: err}
}
