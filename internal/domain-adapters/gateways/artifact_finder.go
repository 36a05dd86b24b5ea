package gateways

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ArtifactFinder locates generated snapshot blobs
type ArtifactFinder struct{}

// NewArtifactFinder creates a new artifact finder
func NewArtifactFinder() *ArtifactFinder {
	return &ArtifactFinder{}
}

// FindByGlob returns regular files in dir matching any of patterns, sorted and
// de-duplicated. Patterns are relative to dir and may use ** to descend.
func (f *ArtifactFinder) FindByGlob(dir string, patterns ...string) ([]string, error) {
	if _, err := os.Stat(dir); err != nil {
		return nil, fmt.Errorf("artifacts directory not accessible: %w", err)
	}

	seen := make(map[string]struct{})
	var artifacts []string

	for _, pattern := range patterns {
		if !doublestar.ValidatePattern(filepath.ToSlash(pattern)) {
			return nil, fmt.Errorf("invalid glob pattern: %s", pattern)
		}
		matches, err := doublestar.FilepathGlob(filepath.Join(dir, pattern), doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("failed to glob pattern %s: %w", pattern, err)
		}
		for _, match := range matches {
			if _, ok := seen[match]; ok {
				continue
			}
			seen[match] = struct{}{}
			artifacts = append(artifacts, match)
		}
	}

	sort.Strings(artifacts)
	return artifacts, nil
}

// RequireAll checks that every name in want exists among found
func (f *ArtifactFinder) RequireAll(found []string, want ...string) error {
	names := make(map[string]struct{}, len(found))
	for _, path := range found {
		names[filepath.Base(path)] = struct{}{}
	}
	for _, name := range want {
		if _, ok := names[name]; !ok {
			return fmt.Errorf("expected artifact %s was not produced", name)
		}
	}
	return nil
}
