package gateways

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"time"
)

const (
	defaultTailBytes = 8 * 1024
	defaultWaitDelay = 5 * time.Second
)

// ProcessRunner executes native tools and the application under test.
// Child output is streamed through to the configured writers while the
// last few kilobytes are kept for error reports.
type ProcessRunner struct {
	stdout    io.Writer
	stderr    io.Writer
	tailBytes int
}

// NewProcessRunner creates a runner streaming child output to stdout and stderr.
// Nil writers discard the stream.
func NewProcessRunner(stdout, stderr io.Writer) *ProcessRunner {
	if stdout == nil {
		stdout = io.Discard
	}
	if stderr == nil {
		stderr = io.Discard
	}
	return &ProcessRunner{
		stdout:    stdout,
		stderr:    stderr,
		tailBytes: defaultTailBytes,
	}
}

// RunConfig describes one process invocation
type RunConfig struct {
	Path       string
	Args       []string
	WorkingDir string
	// Timeout of zero waits for the process indefinitely
	Timeout     time.Duration
	Description string
}

// RunResult contains the outcome of a process invocation
type RunResult struct {
	Success     bool
	ExitCode    int
	Stdout      string
	Stderr      string
	Duration    time.Duration
	Interrupted bool
	TimedOut    bool
	Error       error
}

// Run starts the process and blocks until it exits, ctx is cancelled, or the timeout fires
func (r *ProcessRunner) Run(ctx context.Context, config RunConfig) *RunResult {
	startTime := time.Now()
	result := &RunResult{}

	execCtx := ctx
	if config.Timeout > 0 {
		var cancel context.CancelFunc
		execCtx, cancel = context.WithTimeout(ctx, config.Timeout)
		defer cancel()
	}

	//nolint:gosec // G204: paths are resolved inside the bundle copy under test
	cmd := exec.CommandContext(execCtx, config.Path, config.Args...)
	cmd.Dir = config.WorkingDir
	cmd.WaitDelay = defaultWaitDelay

	stdoutTail := newTailBuffer(r.tailBytes)
	stderrTail := newTailBuffer(r.tailBytes)
	cmd.Stdout = io.MultiWriter(r.stdout, stdoutTail)
	cmd.Stderr = io.MultiWriter(r.stderr, stderrTail)

	err := cmd.Run()
	result.Duration = time.Since(startTime)
	result.Stdout = stdoutTail.String()
	result.Stderr = stderrTail.String()

	if err == nil {
		result.Success = true
		return result
	}

	result.Error = err
	result.ExitCode = -1

	//nolint:gocritic // ifElseChain: checking different error sources, not suitable for switch
	if ctx.Err() != nil {
		result.Interrupted = true
		result.Error = fmt.Errorf("%s interrupted: %w", describe(config), ctx.Err())
	} else if errors.Is(execCtx.Err(), context.DeadlineExceeded) {
		result.TimedOut = true
		result.Error = fmt.Errorf("%s timed out after %v", describe(config), config.Timeout)
	} else {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			result.ExitCode = exitErr.ExitCode()
		}
	}

	return result
}

func describe(config RunConfig) string {
	if config.Description != "" {
		return config.Description
	}
	return config.Path
}
