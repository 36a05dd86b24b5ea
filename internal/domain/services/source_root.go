package services

import (
	"fmt"
	"os"
	"path/filepath"
)

// FindRepositoryRoot walks up from start to the nearest directory holding a
// .git entry. When none exists the absolute form of start is returned.
func FindRepositoryRoot(start string) (string, error) {
	abs, err := filepath.Abs(start)
	if err != nil {
		return "", fmt.Errorf("failed to resolve %s: %w", start, err)
	}

	dir := abs
	for {
		if _, err := os.Lstat(filepath.Join(dir, ".git")); err == nil {
			return dir, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return abs, nil
		}
		dir = parent
	}
}

// ResolveBuildDir joins buildDir onto sourceRoot unless it is already absolute
func ResolveBuildDir(sourceRoot, buildDir string) (string, error) {
	if buildDir == "" {
		return "", fmt.Errorf("build directory is required")
	}
	if filepath.IsAbs(buildDir) {
		return filepath.Clean(buildDir), nil
	}
	root, err := filepath.Abs(sourceRoot)
	if err != nil {
		return "", fmt.Errorf("failed to resolve source root %s: %w", sourceRoot, err)
	}
	return filepath.Join(root, buildDir), nil
}
