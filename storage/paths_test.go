package storage

import (
	"path/filepath"
	"testing"
)

func TestLayout(t *testing.T) {
	l := Layout{InputDir: "in", OutputDir: "out", SecretsDir: "sec"}

	tests := []struct {
		name string
		got  string
		want string
	}{
		{"likes", l.LikesFile("p"), filepath.Join("in", "p.txt")},
		{"include", l.IncludeLikesFile("p"), filepath.Join("in", "p.include.txt")},
		{"archive", l.DownloadArchive("p"), filepath.Join("in", "p.ytdlp")},
		{"output", l.ProfileOutputDir("p"), filepath.Join("out", "p")},
		{"profiles", l.ProfilesFile(), filepath.Join("in", "profiles.json")},
		{"secrets", l.SecretsFile("p"), filepath.Join("sec", "p.json")},
		{"credentials", l.CredentialsFile("p"), filepath.Join("sec", "p.credentials.json")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("got %q, want %q", tt.got, tt.want)
			}
		})
	}
}

func TestDefaultLayout(t *testing.T) {
	l := DefaultLayout()
	if l.InputDir != "input" || l.OutputDir != "output" || l.SecretsDir != "secrets" {
		t.Errorf("DefaultLayout() = %+v", l)
	}
}
