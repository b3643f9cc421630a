package storage

import "path/filepath"

// Layout resolves the per-profile file locations below the three data roots.
type Layout struct {
	InputDir   string
	OutputDir  string
	SecretsDir string
}

// DefaultLayout returns the layout relative to the working directory.
func DefaultLayout() Layout {
	return Layout{InputDir: "input", OutputDir: "output", SecretsDir: "secrets"}
}

// LikesFile is the list of liked video URLs for profile.
func (l Layout) LikesFile(profile string) string {
	return filepath.Join(l.InputDir, profile+".txt")
}

// IncludeLikesFile is the optional list appended to LikesFile on import.
func (l Layout) IncludeLikesFile(profile string) string {
	return filepath.Join(l.InputDir, profile+".include.txt")
}

// DownloadArchive is the yt-dlp download archive for profile.
func (l Layout) DownloadArchive(profile string) string {
	return filepath.Join(l.InputDir, profile+".ytdlp")
}

// ProfileOutputDir is the directory receiving downloaded assets for profile.
func (l Layout) ProfileOutputDir(profile string) string {
	return filepath.Join(l.OutputDir, profile)
}

// ProfilesFile is the profile registry.
func (l Layout) ProfilesFile() string {
	return filepath.Join(l.InputDir, "profiles.json")
}

// SecretsFile is the OAuth client secrets file for profile.
func (l Layout) SecretsFile(profile string) string {
	return filepath.Join(l.SecretsDir, profile+".json")
}

// CredentialsFile is the cached OAuth token for profile.
func (l Layout) CredentialsFile(profile string) string {
	return filepath.Join(l.SecretsDir, profile+".credentials.json")
}
