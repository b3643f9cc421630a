package library

import (
	"encoding/json"
	"fmt"
	"os"

	"ytlikes/storage"
	"ytlikes/youtube"
)

// SidecarExt is the compound extension of yt-dlp metadata files.
const SidecarExt = ".info.json"

// ReadSidecar loads the info.json file at path. A sidecar without id, title
// or channel cannot name its video and is rejected.
func ReadSidecar(path string) (*youtube.VideoInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw struct {
		youtube.VideoInfo
		Uploader string `json:"uploader"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	info := raw.VideoInfo
	if info.Channel == "" {
		info.Channel = raw.Uploader
	}
	if info.ID == "" || info.Title == "" || info.Channel == "" {
		return nil, fmt.Errorf("%s: id, title and channel are required", path)
	}
	return &info, nil
}

// WriteSidecar stores info as compact JSON at path.
func WriteSidecar(path string, info *youtube.VideoInfo) error {
	data, err := json.Marshal(info)
	if err != nil {
		return fmt.Errorf("encode sidecar: %w", err)
	}
	return storage.WriteFileAtomic(path, data)
}
