// Package entities defines core domain models and data structures.
package entities

import "path/filepath"

// CopySuffix is appended to the build directory name to form the working copy
const CopySuffix = "-mksnapshot-test"

// Bundle represents an application build output and its disposable working copy
type Bundle struct {
	SourcePath string
	CopyPath   string
}

// NewBundle derives the working copy location for a build directory.
// The copy lives next to the source so relative layouts stay intact.
func NewBundle(sourcePath string) *Bundle {
	clean := filepath.Clean(sourcePath)
	return &Bundle{
		SourcePath: clean,
		CopyPath:   filepath.Join(filepath.Dir(clean), filepath.Base(clean)+CopySuffix),
	}
}
