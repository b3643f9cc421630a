// Package library maintains the downloaded media of each profile: canonical
// file names, info.json sidecars and manually registered videos.
package library

import (
	"strings"
	"unicode"

	"ytlikes/youtube"
)

// FormatTitle returns the canonical display name "{title} [{channel}].{id}".
func FormatTitle(id, title, channel string) string {
	return title + " [" + channel + "]." + id
}

var unsafeChars = strings.NewReplacer(
	":", " - ",
	`\`, "",
	"/", "",
	"*", "",
	"?", "",
	`"`, "",
	"<", "",
	">", "",
	"|", "",
)

// ToFilenameSafe strips characters that are not allowed in file names on
// common filesystems. A colon becomes " - ", whitespace runs collapse to a
// single space and the result is trimmed. Applying it twice changes nothing.
func ToFilenameSafe(name string) string {
	name = unsafeChars.Replace(name)
	name = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) && !unicode.IsSpace(r) {
			return -1
		}
		return r
	}, name)
	return strings.Join(strings.Fields(name), " ")
}

// CanonicalName is the file stem a video described by info should have.
func CanonicalName(info *youtube.VideoInfo) string {
	return ToFilenameSafe(FormatTitle(info.ID, info.Title, info.Channel))
}
