//go:build windows

package gateways

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Windows has no execute bit; the loader only cares about the extension.
func checkExecutePermission(path string) error {
	if !strings.EqualFold(filepath.Ext(path), ".exe") {
		return fmt.Errorf("not executable: %s: missing .exe extension", path)
	}
	return nil
}
