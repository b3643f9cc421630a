package library

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"ytlikes/internal/logger"
	"ytlikes/storage"
)

// ErrTargetExists is returned instead of renaming over a file that belongs
// to another group.
var ErrTargetExists = errors.New("library: rename target already exists")

// ValidationError reports a group of files whose canonical name is unknown
// because its info.json sidecar is missing.
type ValidationError struct {
	Stem string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("New name cannot be defined, probably %s%s does not exist", e.Stem, SidecarExt)
}

// ValidateResult summarizes a validation run.
type ValidateResult struct {
	// Groups is the number of distinct file stems found.
	Groups int
	// Renamed is the number of groups moved to their canonical name.
	Renamed int
}

// Validator renames downloaded files so that every file of a video carries
// the canonical name derived from the video's sidecar.
type Validator struct {
	layout storage.Layout
	log    *logger.Logger
}

// NewValidator creates a validator for the profiles under layout.
func NewValidator(layout storage.Layout, log *logger.Logger) *Validator {
	return &Validator{layout: layout, log: log}
}

type fileGroup struct {
	stem      string
	exts      []string
	canonical string
}

// Validate brings the file names in the profile's output directory in line
// with their sidecars. Groups are processed in directory order; renames done
// before an error are kept.
func (v *Validator) Validate(ctx context.Context, profile string) (*ValidateResult, error) {
	dir := v.layout.ProfileOutputDir(profile)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	groups, err := scanGroups(dir)
	if err != nil {
		return nil, err
	}

	result := &ValidateResult{Groups: len(groups)}
	for _, g := range groups {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if g.canonical == "" {
			return result, &ValidationError{Stem: g.stem}
		}
		if g.stem == g.canonical {
			continue
		}

		v.log.Warn("Rename")
		v.log.Log("\tOld name: " + g.stem)
		v.log.Log("\tNew name: " + g.canonical)

		if err := checkTargets(dir, g); err != nil {
			return result, err
		}
		for _, ext := range g.exts {
			oldPath := filepath.Join(dir, g.stem+ext)
			newPath := filepath.Join(dir, g.canonical+ext)
			if err := os.Rename(oldPath, newPath); err != nil {
				return result, fmt.Errorf("rename %s: %w", oldPath, err)
			}
		}
		result.Renamed++
	}
	return result, nil
}

// checkTargets fails when a file of the group would replace an existing
// file. A target that is the source itself, as on case-insensitive
// filesystems, is not a conflict.
func checkTargets(dir string, g *fileGroup) error {
	for _, ext := range g.exts {
		newPath := filepath.Join(dir, g.canonical+ext)
		target, err := os.Lstat(newPath)
		if errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err != nil {
			return fmt.Errorf("rename %s: %w", newPath, err)
		}
		source, err := os.Lstat(filepath.Join(dir, g.stem+ext))
		if err == nil && os.SameFile(source, target) {
			continue
		}
		return fmt.Errorf("rename %s: %w", newPath, ErrTargetExists)
	}
	return nil
}

// scanGroups groups the regular files directly inside dir by stem.
func scanGroups(dir string) ([]*fileGroup, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read output directory: %w", err)
	}

	var groups []*fileGroup
	byStem := make(map[string]*fileGroup)
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}

		name := entry.Name()
		stem, ext := SplitName(name)

		g, ok := byStem[stem]
		if !ok {
			g = &fileGroup{stem: stem}
			byStem[stem] = g
			groups = append(groups, g)
		}
		g.exts = append(g.exts, ext)

		if ext == SidecarExt {
			info, err := ReadSidecar(filepath.Join(dir, name))
			if err != nil {
				return nil, err
			}
			g.canonical = CanonicalName(info)
		}
	}
	return groups, nil
}

// SplitName splits a file name into stem and extension. ".info.json" counts
// as one extension; a dot-file without another dot has no extension.
func SplitName(name string) (stem, ext string) {
	ext = filepath.Ext(name)
	stem = strings.TrimSuffix(name, ext)
	if stem == "" {
		return name, ""
	}
	if ext == ".json" && strings.HasSuffix(stem, ".info") {
		return strings.TrimSuffix(stem, ".info"), SidecarExt
	}
	return stem, ext
}
