package youtube

import (
	"regexp"
	"strings"

	ytapi "google.golang.org/api/youtube/v3"
)

// URLPrefix precedes every video ID in a likes file.
const URLPrefix = "https://www.youtube.com/watch?v="

const (
	unknownTitle   = "Unknown"
	unknownVideoID = "unknown"
)

var videoURLPattern = regexp.MustCompile(regexp.QuoteMeta(URLPrefix) + `([A-Za-z0-9_-]+)`)

// ItemTitle returns the snippet title of item, or "Unknown".
func ItemTitle(item *ytapi.PlaylistItem) string {
	if item == nil || item.Snippet == nil || item.Snippet.Title == "" {
		return unknownTitle
	}
	return item.Snippet.Title
}

// ItemVideoID returns the video ID item refers to, or "unknown".
func ItemVideoID(item *ytapi.PlaylistItem) string {
	if item == nil || item.Snippet == nil || item.Snippet.ResourceId == nil || item.Snippet.ResourceId.VideoId == "" {
		return unknownVideoID
	}
	return item.Snippet.ResourceId.VideoId
}

// FormatVideo renders item as a two-line likes file record:
//
//	# <title>
//	https://www.youtube.com/watch?v=<id>
func FormatVideo(item *ytapi.PlaylistItem) string {
	return "# " + ItemTitle(item) + "\n" + URLPrefix + ItemVideoID(item)
}

// FormatVideos renders items as records separated by a blank line.
func FormatVideos(items []*ytapi.PlaylistItem) string {
	records := make([]string, len(items))
	for i, item := range items {
		records[i] = FormatVideo(item)
	}
	return strings.Join(records, "\n\n")
}

// ParseVideos returns the IDs of every video URL found in text, in order of
// appearance. Text without video URLs yields an empty slice.
func ParseVideos(text string) []string {
	matches := videoURLPattern.FindAllStringSubmatch(text, -1)
	ids := make([]string, 0, len(matches))
	for _, m := range matches {
		ids = append(ids, m[1])
	}
	return ids
}
