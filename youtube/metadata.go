package youtube

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strings"
)

// VideoInfo is the subset of a yt-dlp info.json sidecar used to name and
// describe an archived video.
type VideoInfo struct {
	// ID is the YouTube video ID (e.g., "dQw4w9WgXcQ").
	ID      string `json:"id"`
	Title   string `json:"title"`
	Channel string `json:"channel"`
	// Ext is the extension of the video file without the leading dot.
	Ext    string `json:"ext,omitempty"`
	Width  int    `json:"width,omitempty"`
	Height int    `json:"height,omitempty"`
	// Resolution is "<width>x<height>".
	Resolution string `json:"resolution,omitempty"`
	// DurationString is "<min>:<sec>" or "<hour>:<min>:<sec>".
	DurationString string `json:"duration_string,omitempty"`
	// Epoch is the upload date as Unix seconds.
	Epoch int64 `json:"epoch,omitempty"`
}

// Probe retrieves the info of a single video with "yt-dlp -J" without
// downloading it.
func (d *Downloader) Probe(ctx context.Context, videoID string) (*VideoInfo, error) {
	ytdlpPath := d.YtdlpPath
	if ytdlpPath == "" {
		ytdlpPath = "yt-dlp"
	}
	if _, err := exec.LookPath(ytdlpPath); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrYtdlpNotInstalled, err)
	}

	cmd := exec.CommandContext(ctx, ytdlpPath, "-J", "--no-warnings", "--no-playlist",
		"--user-agent", DownloadUserAgent, URLPrefix+videoID)
	cmd.WaitDelay = d.WaitDelay

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, &DownloadError{Output: strings.TrimSpace(stderr.String()), Err: fmt.Errorf("probe %s: %w", videoID, err)}
	}

	return parseProbeOutput(stdout.Bytes())
}

func parseProbeOutput(data []byte) (*VideoInfo, error) {
	var raw struct {
		VideoInfo
		Uploader string `json:"uploader"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse metadata JSON: %w", err)
	}

	info := raw.VideoInfo
	if info.ID == "" {
		return nil, fmt.Errorf("invalid metadata: missing or empty id")
	}
	if info.Title == "" {
		return nil, fmt.Errorf("invalid metadata: missing or empty title")
	}
	if info.Channel == "" {
		info.Channel = raw.Uploader
	}
	if info.Resolution == "" && info.Width > 0 && info.Height > 0 {
		info.Resolution = fmt.Sprintf("%dx%d", info.Width, info.Height)
	}
	return &info, nil
}
