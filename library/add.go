package library

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ytlikes/storage"
	"ytlikes/youtube"
)

// Input errors shown next to the offending answer when registering a video.
var (
	ErrInvalidLink       = errors.New("Youtube link should be in the format " + youtube.URLPrefix + "...")
	ErrInvalidDuration   = errors.New("Duration should be in the format <min>:<sec> or <hour>:<min>:<sec>")
	ErrInvalidResolution = errors.New("Resolution should be in the format <width>x<height>")
	ErrInvalidDate       = errors.New("Date should be in the format YYYY-MM-dd")
	ErrFileNotExists     = errors.New("File not exists")
	ErrNoExtension       = errors.New("File should have an extension, e.g. .mp4 or .jpg")
	ErrEmptyValue        = errors.New("Value cannot be empty")
)

var (
	linkPattern       = regexp.MustCompile(`^` + regexp.QuoteMeta(youtube.URLPrefix) + `(.+?)(&|$)`)
	durationPattern   = regexp.MustCompile(`^\d\d?(:\d\d)+$`)
	resolutionPattern = regexp.MustCompile(`^(\d+)[xх](\d+)$`)
	datePattern       = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

// ParseVideoLink extracts the video ID from a watch URL.
func ParseVideoLink(link string) (string, error) {
	m := linkPattern.FindStringSubmatch(link)
	if m == nil {
		return "", ErrInvalidLink
	}
	return m[1], nil
}

// ParseDuration checks a "<min>:<sec>" or "<hour>:<min>:<sec>" duration.
func ParseDuration(s string) (string, error) {
	if !durationPattern.MatchString(s) {
		return "", ErrInvalidDuration
	}
	return s, nil
}

// ParseResolution parses "<width>x<height>". The Cyrillic "х" is accepted
// as separator too.
func ParseResolution(s string) (width, height int, err error) {
	m := resolutionPattern.FindStringSubmatch(s)
	if m == nil {
		return 0, 0, ErrInvalidResolution
	}
	if width, err = strconv.Atoi(m[1]); err != nil {
		return 0, 0, ErrInvalidResolution
	}
	if height, err = strconv.Atoi(m[2]); err != nil {
		return 0, 0, ErrInvalidResolution
	}
	return width, height, nil
}

// ParseDate parses a YYYY-MM-dd date as UTC midnight.
func ParseDate(s string) (time.Time, error) {
	if !datePattern.MatchString(s) {
		return time.Time{}, ErrInvalidDate
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// CheckFile returns ErrFileNotExists unless path is an existing regular file.
func CheckFile(path string) error {
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return ErrFileNotExists
	}
	return nil
}

// CheckMediaFile checks a video or image file. Its extension names the
// copy, so a file without one is rejected.
func CheckMediaFile(path string) error {
	if err := CheckFile(path); err != nil {
		return err
	}
	if filepath.Ext(path) == "" {
		return ErrNoExtension
	}
	return nil
}

// CheckNotEmpty rejects a blank answer.
func CheckNotEmpty(s string) error {
	if strings.TrimSpace(s) == "" {
		return ErrEmptyValue
	}
	return nil
}

// ManualVideo describes a video obtained outside of yt-dlp.
type ManualVideo struct {
	ID       string
	Channel  string
	Title    string
	Duration string
	Width    int
	Height   int
	// Date is the upload date; the zero time leaves the epoch unset.
	Date time.Time

	VideoFile       string
	ImageFile       string
	DescriptionFile string
}

// Info returns the sidecar content describing v.
func (v ManualVideo) Info() *youtube.VideoInfo {
	info := &youtube.VideoInfo{
		ID:             v.ID,
		Title:          v.Title,
		Channel:        v.Channel,
		Ext:            strings.TrimPrefix(filepath.Ext(v.VideoFile), "."),
		Width:          v.Width,
		Height:         v.Height,
		Resolution:     fmt.Sprintf("%dx%d", v.Width, v.Height),
		DurationString: v.Duration,
	}
	if !v.Date.IsZero() {
		info.Epoch = v.Date.Unix()
	}
	return info
}

// AddVideo registers a manually obtained video for profile: the files are
// copied under their canonical name next to a generated sidecar, and the ID
// is appended to the download archive so yt-dlp will not fetch it again.
// It returns the path of the new files without extension.
func AddVideo(layout storage.Layout, profile string, v ManualVideo) (string, error) {
	if v.ID == "" {
		return "", fmt.Errorf("%w: video ID is required", storage.ErrInvalidInput)
	}
	if CheckNotEmpty(v.Title) != nil || CheckNotEmpty(v.Channel) != nil {
		return "", fmt.Errorf("%w: title and channel are required", storage.ErrInvalidInput)
	}
	for _, path := range []string{v.VideoFile, v.ImageFile} {
		if err := CheckMediaFile(path); err != nil {
			return "", fmt.Errorf("%s: %w", path, err)
		}
	}
	if err := CheckFile(v.DescriptionFile); err != nil {
		return "", fmt.Errorf("%s: %w", v.DescriptionFile, err)
	}

	outputDir := layout.ProfileOutputDir(profile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}

	info := v.Info()
	base := filepath.Join(outputDir, CanonicalName(info))

	if err := WriteSidecar(base+SidecarExt, info); err != nil {
		return "", err
	}
	copies := []struct{ src, dst string }{
		{v.VideoFile, base + filepath.Ext(v.VideoFile)},
		{v.ImageFile, base + filepath.Ext(v.ImageFile)},
		{v.DescriptionFile, base + ".description"},
	}
	for _, c := range copies {
		if err := copyFile(c.src, c.dst); err != nil {
			return "", err
		}
	}

	if err := appendArchive(layout.DownloadArchive(profile), v.ID); err != nil {
		return "", err
	}
	return base, nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	defer in.Close()

	w, err := storage.NewAtomicWriter(dst)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	if _, err := io.Copy(w, in); err != nil {
		w.Abort()
		return fmt.Errorf("copy %s: %w", src, err)
	}
	return w.Commit()
}

// appendArchive records id in yt-dlp's download archive format.
func appendArchive(path, id string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create archive directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("open download archive: %w", err)
	}
	if _, err := fmt.Fprintf(f, "youtube %s\n", id); err != nil {
		f.Close()
		return fmt.Errorf("write download archive: %w", err)
	}
	return f.Close()
}
