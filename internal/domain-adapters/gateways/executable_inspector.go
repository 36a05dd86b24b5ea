package gateways

import (
	"bytes"
	"debug/elf"
	"debug/macho"
	"debug/pe"
	"fmt"
	"io"
	"os"
)

// ExecutableFormat names the container format of an executable file
type ExecutableFormat string

// Formats recognised by the inspector
const (
	FormatELF     ExecutableFormat = "elf"
	FormatMachO   ExecutableFormat = "macho"
	FormatPE      ExecutableFormat = "pe"
	FormatScript  ExecutableFormat = "script"
	FormatUnknown ExecutableFormat = "unknown"
)

// ExecutableInspector checks that a tool or application can be launched
// before the workflow spends time on it
type ExecutableInspector struct {
	goos string
}

// NewExecutableInspector creates an inspector for goos
func NewExecutableInspector(goos string) *ExecutableInspector {
	return &ExecutableInspector{goos: goos}
}

// CheckExecutable fails when path is missing, is not a regular file, or
// cannot be executed by the current user
func (i *ExecutableInspector) CheckExecutable(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("executable not found: %s", path)
		}
		return fmt.Errorf("failed to stat executable: %w", err)
	}
	if !info.Mode().IsRegular() {
		return fmt.Errorf("not a regular file: %s", path)
	}
	return checkExecutePermission(path)
}

// Format detects the container format of path
func (i *ExecutableInspector) Format(path string) (ExecutableFormat, error) {
	//nolint:gosec // G304: path points inside the bundle copy under test
	f, err := os.Open(path)
	if err != nil {
		return FormatUnknown, fmt.Errorf("failed to open executable: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	head := make([]byte, 2)
	if _, err := io.ReadFull(f, head); err == nil && bytes.Equal(head, []byte("#!")) {
		return FormatScript, nil
	}

	if ef, err := elf.NewFile(f); err == nil {
		_ = ef.Close()
		return FormatELF, nil
	}
	if mf, err := macho.NewFile(f); err == nil {
		_ = mf.Close()
		return FormatMachO, nil
	}
	if ff, err := macho.NewFatFile(f); err == nil {
		_ = ff.Close()
		return FormatMachO, nil
	}
	if pf, err := pe.NewFile(f); err == nil {
		_ = pf.Close()
		return FormatPE, nil
	}

	return FormatUnknown, nil
}

// NativeFormat returns the format binaries are expected to have on the inspected platform
func (i *ExecutableInspector) NativeFormat() ExecutableFormat {
	switch i.goos {
	case "darwin", "ios":
		return FormatMachO
	case "windows":
		return FormatPE
	default:
		return FormatELF
	}
}

// Matches reports whether format can run on the inspected platform.
// Interpreted scripts are accepted everywhere except windows.
func (i *ExecutableInspector) Matches(format ExecutableFormat) bool {
	if format == FormatScript {
		return i.goos != "windows"
	}
	return format == i.NativeFormat()
}
