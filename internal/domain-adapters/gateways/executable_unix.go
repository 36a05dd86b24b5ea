//go:build !windows

package gateways

import (
	"fmt"

	"golang.org/x/sys/unix"
)

func checkExecutePermission(path string) error {
	if err := unix.Access(path, unix.X_OK); err != nil {
		return fmt.Errorf("not executable: %s: %w", path, err)
	}
	return nil
}
