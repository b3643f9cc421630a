package library

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"ytlikes/storage"
	"ytlikes/youtube"
)

func TestParseVideoLink(t *testing.T) {
	tests := []struct {
		link    string
		want    string
		wantErr bool
	}{
		{"https://www.youtube.com/watch?v=video_c3", "video_c3", false},
		{"https://www.youtube.com/watch?v=abc&t=10s", "abc", false},
		{"wrong link", "", true},
		{"https://youtu.be/abc", "", true},
		{"https://www.youtube.com/watch?v=", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.link, func(t *testing.T) {
			got, err := ParseVideoLink(tt.link)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidLink) {
					t.Errorf("ParseVideoLink() error = %v, want ErrInvalidLink", err)
				}
				return
			}
			if err != nil || got != tt.want {
				t.Errorf("ParseVideoLink() = %q, %v; want %q", got, err, tt.want)
			}
		})
	}

	if got, want := ErrInvalidLink.Error(), "Youtube link should be in the format https://www.youtube.com/watch?v=..."; got != want {
		t.Errorf("ErrInvalidLink = %q, want %q", got, want)
	}
}

func TestParseDuration(t *testing.T) {
	for _, ok := range []string{"01:30:00", "1:30", "10:00"} {
		if _, err := ParseDuration(ok); err != nil {
			t.Errorf("ParseDuration(%q) error = %v", ok, err)
		}
	}
	for _, bad := range []string{"wrong duration", "90", "1:3", "123:00"} {
		if _, err := ParseDuration(bad); !errors.Is(err, ErrInvalidDuration) {
			t.Errorf("ParseDuration(%q) error = %v, want ErrInvalidDuration", bad, err)
		}
	}
}

func TestParseResolution(t *testing.T) {
	tests := []struct {
		in      string
		w, h    int
		wantErr bool
	}{
		{"1280x720", 1280, 720, false},
		{"640х360", 640, 360, false},
		{"wrong resolution", 0, 0, true},
		{"1280*720", 0, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			w, h, err := ParseResolution(tt.in)
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidResolution) {
					t.Errorf("ParseResolution() error = %v, want ErrInvalidResolution", err)
				}
				return
			}
			if err != nil || w != tt.w || h != tt.h {
				t.Errorf("ParseResolution() = %d, %d, %v; want %d, %d", w, h, err, tt.w, tt.h)
			}
		})
	}
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2023-04-05")
	if err != nil {
		t.Fatalf("ParseDate() error = %v", err)
	}
	if want := time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC); !got.Equal(want) {
		t.Errorf("ParseDate() = %v, want %v", got, want)
	}

	for _, bad := range []string{"05.04.2023", "2023-4-5", "2023-13-01"} {
		if _, err := ParseDate(bad); !errors.Is(err, ErrInvalidDate) {
			t.Errorf("ParseDate(%q) error = %v, want ErrInvalidDate", bad, err)
		}
	}
}

func TestCheckFile(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "video.mp4")
	if err := os.WriteFile(file, []byte("video"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := CheckFile(file); err != nil {
		t.Errorf("CheckFile(file) error = %v", err)
	}
	if err := CheckFile(dir); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("CheckFile(dir) error = %v, want ErrFileNotExists", err)
	}
	if err := CheckFile(filepath.Join(dir, "wrong file")); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("CheckFile(missing) error = %v, want ErrFileNotExists", err)
	}
}

func manualVideo(t *testing.T) ManualVideo {
	t.Helper()
	src := t.TempDir()
	writeFiles(t, src, map[string]string{
		"video.mp4":       "video",
		"poster.jpg":      "image",
		"description.txt": "description",
	})
	return ManualVideo{
		ID:              "video_c3",
		Channel:         "Test channel",
		Title:           "First movie: beginning <pilot version>",
		Duration:        "01:30:00",
		Width:           1280,
		Height:          720,
		VideoFile:       filepath.Join(src, "video.mp4"),
		ImageFile:       filepath.Join(src, "poster.jpg"),
		DescriptionFile: filepath.Join(src, "description.txt"),
	}
}

func TestAddVideoGeneratesFiles(t *testing.T) {
	layout := newTestLayout(t)
	v := manualVideo(t)

	base, err := AddVideo(layout, profile, v)
	if err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}

	const stem = "First movie - beginning pilot version [Test channel].video_c3"
	dir := layout.ProfileOutputDir(profile)
	if base != filepath.Join(dir, stem) {
		t.Errorf("AddVideo() = %q", base)
	}

	want := []string{stem + ".description", stem + ".info.json", stem + ".jpg", stem + ".mp4"}
	if got := listFiles(t, dir); !slices.Equal(got, want) {
		t.Fatalf("files = %q, want %q", got, want)
	}

	for ext, content := range map[string]string{".mp4": "video", ".jpg": "image", ".description": "description"} {
		data, err := os.ReadFile(base + ext)
		if err != nil || string(data) != content {
			t.Errorf("%s content = %q, %v; want %q", ext, data, err, content)
		}
	}

	data, err := os.ReadFile(base + SidecarExt)
	if err != nil {
		t.Fatal(err)
	}
	var got youtube.VideoInfo
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("sidecar is not JSON: %v", err)
	}
	want2 := youtube.VideoInfo{
		ID:             "video_c3",
		Title:          "First movie: beginning <pilot version>",
		Channel:        "Test channel",
		Ext:            "mp4",
		Width:          1280,
		Height:         720,
		Resolution:     "1280x720",
		DurationString: "01:30:00",
	}
	if got != want2 {
		t.Errorf("sidecar = %+v, want %+v", got, want2)
	}
}

func TestAddVideoAppendsArchive(t *testing.T) {
	layout := newTestLayout(t)
	writeFiles(t, layout.InputDir, map[string]string{
		filepath.Base(layout.DownloadArchive(profile)): "youtube video_a1\nyoutube video_b2\n",
	})

	if _, err := AddVideo(layout, profile, manualVideo(t)); err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}

	data, err := os.ReadFile(layout.DownloadArchive(profile))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), "youtube video_a1\nyoutube video_b2\nyoutube video_c3\n"; got != want {
		t.Errorf("archive = %q, want %q", got, want)
	}
}

func TestAddVideoSetsEpoch(t *testing.T) {
	layout := newTestLayout(t)
	v := manualVideo(t)
	v.Date = time.Date(2023, 4, 5, 0, 0, 0, 0, time.UTC)

	base, err := AddVideo(layout, profile, v)
	if err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}
	info, err := ReadSidecar(base + SidecarExt)
	if err != nil {
		t.Fatal(err)
	}
	if info.Epoch != v.Date.Unix() {
		t.Errorf("Epoch = %d, want %d", info.Epoch, v.Date.Unix())
	}
}

func TestAddVideoValidatesInput(t *testing.T) {
	layout := newTestLayout(t)

	missing := manualVideo(t)
	missing.ImageFile = "wrong file"
	if _, err := AddVideo(layout, profile, missing); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("AddVideo() error = %v, want ErrFileNotExists", err)
	}

	noID := manualVideo(t)
	noID.ID = ""
	if _, err := AddVideo(layout, profile, noID); !errors.Is(err, storage.ErrInvalidInput) {
		t.Errorf("AddVideo() error = %v, want ErrInvalidInput", err)
	}

	if _, err := os.Stat(layout.ProfileOutputDir(profile)); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("output directory created for rejected input: %v", err)
	}
}

func TestAddedVideoPassesValidation(t *testing.T) {
	layout := newTestLayout(t)
	if _, err := AddVideo(layout, profile, manualVideo(t)); err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}

	result, err := NewValidator(layout, nil).Validate(t.Context(), profile)
	if err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if result.Renamed != 0 {
		t.Errorf("Validate() renamed %d groups of a freshly added video", result.Renamed)
	}
}

func TestCheckMediaFile(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"poster.jpg": "image", "poster": "image"})

	if err := CheckMediaFile(filepath.Join(dir, "poster.jpg")); err != nil {
		t.Errorf("CheckMediaFile(poster.jpg) error = %v", err)
	}
	if err := CheckMediaFile(filepath.Join(dir, "poster")); !errors.Is(err, ErrNoExtension) {
		t.Errorf("CheckMediaFile(poster) error = %v, want ErrNoExtension", err)
	}
	if err := CheckMediaFile(filepath.Join(dir, "missing.jpg")); !errors.Is(err, ErrFileNotExists) {
		t.Errorf("CheckMediaFile(missing.jpg) error = %v, want ErrFileNotExists", err)
	}
}

func TestCheckNotEmpty(t *testing.T) {
	if err := CheckNotEmpty("Test channel"); err != nil {
		t.Errorf("CheckNotEmpty() error = %v", err)
	}
	for _, blank := range []string{"", "   ", "\t"} {
		if err := CheckNotEmpty(blank); !errors.Is(err, ErrEmptyValue) {
			t.Errorf("CheckNotEmpty(%q) error = %v, want ErrEmptyValue", blank, err)
		}
	}
}

func TestAddVideoRequiresTitleAndChannel(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ManualVideo)
	}{
		{"empty title", func(v *ManualVideo) { v.Title = "" }},
		{"blank title", func(v *ManualVideo) { v.Title = "  " }},
		{"empty channel", func(v *ManualVideo) { v.Channel = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newTestLayout(t)
			v := manualVideo(t)
			tt.mutate(&v)

			if _, err := AddVideo(layout, profile, v); !errors.Is(err, storage.ErrInvalidInput) {
				t.Fatalf("AddVideo() error = %v, want ErrInvalidInput", err)
			}
			if _, err := os.Stat(layout.ProfileOutputDir(profile)); !errors.Is(err, os.ErrNotExist) {
				t.Errorf("output directory created for rejected input: %v", err)
			}
			if _, err := NewValidator(layout, nil).Validate(t.Context(), profile); err != nil {
				t.Errorf("Validate() after rejected add error = %v", err)
			}
		})
	}
}

func TestAddVideoRequiresMediaExtension(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(v *ManualVideo, dir string)
	}{
		{"video", func(v *ManualVideo, dir string) { v.VideoFile = filepath.Join(dir, "movie") }},
		{"image", func(v *ManualVideo, dir string) { v.ImageFile = filepath.Join(dir, "poster") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			layout := newTestLayout(t)
			dir := t.TempDir()
			writeFiles(t, dir, map[string]string{"movie": "video", "poster": "image"})
			v := manualVideo(t)
			tt.mutate(&v, dir)

			if _, err := AddVideo(layout, profile, v); !errors.Is(err, ErrNoExtension) {
				t.Fatalf("AddVideo() error = %v, want ErrNoExtension", err)
			}
			if _, err := NewValidator(layout, nil).Validate(t.Context(), profile); err != nil {
				t.Errorf("Validate() after rejected add error = %v", err)
			}
		})
	}
}

func TestAddVideoDescriptionWithoutExtension(t *testing.T) {
	layout := newTestLayout(t)
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"description": "text"})
	v := manualVideo(t)
	v.DescriptionFile = filepath.Join(dir, "description")

	base, err := AddVideo(layout, profile, v)
	if err != nil {
		t.Fatalf("AddVideo() error = %v", err)
	}
	if _, err := os.Stat(base + ".description"); err != nil {
		t.Errorf("description not copied: %v", err)
	}
}
