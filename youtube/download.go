package youtube

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"ytlikes/internal/logger"
	"ytlikes/storage"
)

// DownloadUserAgent is the browser identity yt-dlp presents to YouTube.
const DownloadUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/99.0.4844.84 Safari/537.36"

// OutputTemplate names downloaded files "<title> [<channel>].<id>".
const OutputTemplate = "%(title)s [%(channel)s].%(id)s"

// downloadFlags are passed to yt-dlp on every run.
var downloadFlags = []string{
	"--output", OutputTemplate,
	"--format-sort", "vcodec:h264,acodec:mp3",
	"--merge-output-format", "mp4",
	"--sponsorblock-remove", "sponsor",
	"--user-agent", DownloadUserAgent,
	"--geo-bypass",
	"--no-playlist",
	"--no-overwrites",
	"--no-part",
	"--continue",
	"--abort-on-error",
	"--write-thumbnail",
	"--write-description",
	"--write-info-json",
	"--js-runtimes", "node",
}

// DownloadError carries everything yt-dlp wrote to stderr.
type DownloadError struct {
	Profile string
	// Output is the collected stderr text.
	Output string
	// Err is the exit error, if the process failed.
	Err error
}

func (e *DownloadError) Error() string {
	if e.Output != "" {
		return e.Output
	}
	return fmt.Sprintf("yt-dlp failed for profile %s: %v", e.Profile, e.Err)
}

// Unwrap returns the process error.
func (e *DownloadError) Unwrap() error { return e.Err }

// Downloader archives the videos listed in a profile's likes file with yt-dlp.
type Downloader struct {
	// YtdlpPath is the path to the yt-dlp executable.
	YtdlpPath string
	// ExtraFlags are appended after the built-in flags.
	ExtraFlags []string
	// WaitDelay bounds how long output is drained after the process exits
	// or is killed.
	WaitDelay time.Duration

	layout storage.Layout
	log    *logger.Logger
}

// NewDownloader creates a Downloader using "yt-dlp" from PATH.
func NewDownloader(layout storage.Layout, log *logger.Logger) *Downloader {
	return &Downloader{
		YtdlpPath: "yt-dlp",
		WaitDelay: 5 * time.Second,
		layout:    layout,
		log:       log,
	}
}

// Args returns the yt-dlp arguments used for profile.
func (d *Downloader) Args(profile string) ([]string, error) {
	likesFile, err := filepath.Abs(d.layout.LikesFile(profile))
	if err != nil {
		return nil, err
	}
	archive, err := filepath.Abs(d.layout.DownloadArchive(profile))
	if err != nil {
		return nil, err
	}

	args := []string{
		"--batch-file", likesFile,
		"--download-archive", archive,
	}
	args = append(args, downloadFlags...)
	return append(args, d.ExtraFlags...), nil
}

// Download runs yt-dlp for every video of the profile's likes file. The
// output directory, likes file and download archive are created if missing.
// Anything yt-dlp prints on stderr fails the download.
func (d *Downloader) Download(ctx context.Context, profile string) error {
	ytdlpPath := d.YtdlpPath
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if _, err := exec.LookPath(ytdlpPath); err != nil {
		return fmt.Errorf("%w: %v", ErrYtdlpNotInstalled, err)
	}

	outputDir := d.layout.ProfileOutputDir(profile)
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, path := range []string{d.layout.LikesFile(profile), d.layout.DownloadArchive(profile)} {
		if err := touch(path); err != nil {
			return err
		}
	}

	args, err := d.Args(profile)
	if err != nil {
		return fmt.Errorf("resolve paths: %w", err)
	}

	cmd := exec.CommandContext(ctx, ytdlpPath, args...)
	cmd.Dir = outputDir
	cmd.WaitDelay = d.WaitDelay

	var stderr chunkCollector
	cmd.Stdout = d.log.Writer()
	cmd.Stderr = io.MultiWriter(d.log.ErrWriter(), &stderr)

	runErr := cmd.Run()
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if chunks := stderr.Chunks(); len(chunks) > 0 {
		return &DownloadError{Profile: profile, Output: strings.Join(chunks, "\n"), Err: runErr}
	}
	if runErr != nil {
		return &DownloadError{Profile: profile, Err: runErr}
	}
	return nil
}

// touch creates path and its parent directories if it does not exist.
func touch(path string) error {
	if _, err := os.Stat(path); err == nil {
		return nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return err
	}
	return f.Close()
}

// chunkCollector keeps every write as a separate chunk.
type chunkCollector struct {
	mu     sync.Mutex
	chunks []string
}

func (c *chunkCollector) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.chunks = append(c.chunks, string(p))
	return len(p), nil
}

func (c *chunkCollector) Chunks() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.chunks
}
