package entities

import "fmt"

// ProcessError reports an external tool that exited with a non-zero status
type ProcessError struct {
	Tool     string
	ExitCode int
	Stderr   string
	Err      error
}

func (e *ProcessError) Error() string {
	msg := fmt.Sprintf("command %s returned non-zero exit status %d", e.Tool, e.ExitCode)
	if e.Stderr != "" {
		msg += "\nStderr: " + e.Stderr
	}
	return msg
}

func (e *ProcessError) Unwrap() error {
	return e.Err
}
