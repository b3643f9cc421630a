package youtube

import (
	"slices"
	"testing"

	ytapi "google.golang.org/api/youtube/v3"
)

func playlistItem(title, videoID string) *ytapi.PlaylistItem {
	return &ytapi.PlaylistItem{
		Snippet: &ytapi.PlaylistItemSnippet{
			Title:      title,
			ResourceId: &ytapi.ResourceId{VideoId: videoID},
		},
	}
}

func TestFormatVideo(t *testing.T) {
	tests := []struct {
		name string
		item *ytapi.PlaylistItem
		want string
	}{
		{"complete", playlistItem("video0", "video0Id"), "# video0\nhttps://www.youtube.com/watch?v=video0Id"},
		{"verbatim title", playlistItem("# a <b> & c", "x_-1"), "# # a <b> & c\nhttps://www.youtube.com/watch?v=x_-1"},
		{"missing title", playlistItem("", "abc"), "# Unknown\nhttps://www.youtube.com/watch?v=abc"},
		{"missing resource", &ytapi.PlaylistItem{Snippet: &ytapi.PlaylistItemSnippet{Title: "t"}}, "# t\nhttps://www.youtube.com/watch?v=unknown"},
		{"missing snippet", &ytapi.PlaylistItem{}, "# Unknown\nhttps://www.youtube.com/watch?v=unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatVideo(tt.item); got != tt.want {
				t.Errorf("FormatVideo() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestFormatVideos(t *testing.T) {
	got := FormatVideos([]*ytapi.PlaylistItem{playlistItem("a", "1"), playlistItem("b", "2")})
	want := "# a\nhttps://www.youtube.com/watch?v=1\n\n# b\nhttps://www.youtube.com/watch?v=2"
	if got != want {
		t.Errorf("FormatVideos() = %q, want %q", got, want)
	}

	if got := FormatVideos(nil); got != "" {
		t.Errorf("FormatVideos(nil) = %q, want empty", got)
	}
}

func TestParseVideos(t *testing.T) {
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"empty", "", []string{}},
		{"no urls", "# just a title\nhttps://example.com/watch?v=abc", []string{}},
		{
			"records",
			"# a\nhttps://www.youtube.com/watch?v=id_1\n\n# b\nhttps://www.youtube.com/watch?v=id-2\n",
			[]string{"id_1", "id-2"},
		},
		{
			"stops at invalid characters",
			"https://www.youtube.com/watch?v=abc&t=10s https://www.youtube.com/watch?v=def",
			[]string{"abc", "def"},
		},
		{"bare lines", "https://www.youtube.com/watch?v=x\nhttps://www.youtube.com/watch?v=x", []string{"x", "x"}},
		{"prefix without id", "https://www.youtube.com/watch?v=", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseVideos(tt.text)
			if got == nil {
				t.Fatal("ParseVideos() = nil, want non-nil slice")
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("ParseVideos() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseFormattedVideos(t *testing.T) {
	items := []*ytapi.PlaylistItem{playlistItem("first", "AAA"), playlistItem("second", "b_B-b")}
	text := FormatVideo(items[0]) + "\n\n" + FormatVideo(items[1])

	got := ParseVideos(text)
	if want := []string{"AAA", "b_B-b"}; !slices.Equal(got, want) {
		t.Errorf("ParseVideos(FormatVideo...) = %v, want %v", got, want)
	}
}
