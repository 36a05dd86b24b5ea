// Package gateways provides adapter implementations for the filesystem and external tools.
package gateways

import (
	"fmt"
	"path/filepath"
	"runtime"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// PlatformLayout knows where a platform keeps executables and resources inside a bundle
type PlatformLayout struct {
	goos string
}

// NewPlatformLayout returns the layout for the running platform
func NewPlatformLayout() *PlatformLayout {
	return NewPlatformLayoutFor(runtime.GOOS)
}

// NewPlatformLayoutFor returns the layout for goos
func NewPlatformLayoutFor(goos string) *PlatformLayout {
	return &PlatformLayout{goos: goos}
}

// GOOS returns the platform this layout describes
func (l *PlatformLayout) GOOS() string {
	return l.goos
}

// Platform returns a goos-goarch label for reports
func (l *PlatformLayout) Platform() string {
	return fmt.Sprintf("%s-%s", l.goos, runtime.GOARCH)
}

// ToolPath returns the path of a native tool at the bundle root
func (l *PlatformLayout) ToolPath(root, name string) string {
	if l.goos == "windows" {
		return filepath.Join(root, name+".exe")
	}
	return filepath.Join(root, name)
}

// AppExecutable returns the application binary the check fixture is run with
func (l *PlatformLayout) AppExecutable(root string, branding *entities.Branding) string {
	switch l.goos {
	case "darwin":
		return filepath.Join(l.appDir(root, branding), "Contents", "MacOS", branding.ProductName)
	case "windows":
		return filepath.Join(root, branding.ProjectName+".exe")
	default:
		return filepath.Join(root, branding.ProjectName)
	}
}

// NeedsRelocation reports whether snapshot blobs must be moved into the app's
// resources before the runtime can find them
func (l *PlatformLayout) NeedsRelocation() bool {
	return l.goos == "darwin"
}

// ResourcesDir returns the framework resources directory on darwin and the
// bundle root everywhere else
func (l *PlatformLayout) ResourcesDir(root string, branding *entities.Branding) string {
	if !l.NeedsRelocation() {
		return root
	}
	return filepath.Join(l.appDir(root, branding), "Contents", "Frameworks",
		branding.ProjectName+" Framework.framework", "Resources")
}

func (l *PlatformLayout) appDir(root string, branding *entities.Branding) string {
	return filepath.Join(root, branding.ProductName+".app")
}
