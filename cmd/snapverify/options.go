package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/jessevdk/go-flags"
)

const programName = "snapverify"

// options defines command line options
type options struct {
	BuildDir      string        `short:"b" long:"build-dir" description:"build folder, relative to the source root unless absolute" required:"true"`
	SourceRoot    string        `long:"source-root" env:"SNAPVERIFY_SOURCE_ROOT" description:"source root (default: repository root)"`
	FixturesDir   string        `long:"fixtures-dir" description:"directory holding the snapshot fixture scripts (default: <repository root>/spec/fixtures)"`
	Branding      string        `long:"branding" description:"branding file (default: <source root>/shell/app/BRANDING.json)"`
	ProjectName   string        `long:"project-name" description:"override the branding project name"`
	ProductName   string        `long:"product-name" description:"override the branding product name"`
	Keyring       string        `long:"keyring" env:"SNAPVERIFY_KEYRING" description:"public keyring the snapshot tools' detached signatures are checked against"`
	MksnapshotArg []string      `long:"mksnapshot-arg" description:"extra mksnapshot argument, repeatable; dashed values need the --mksnapshot-arg=--flag form"`
	Timeout       time.Duration `long:"timeout" default:"0s" description:"per-process timeout, 0 disables it"`
	ArchiveDir    string        `long:"archive-dir" description:"write the generated blobs as a tarball into this directory"`
	JSONOutput    string        `long:"json-output" description:"write the verification report as JSON to this file"`
	Cleanup       bool          `long:"cleanup" description:"remove the working copy after a successful run"`
	LogLevel      string        `long:"log-level" env:"SNAPVERIFY_LOG_LEVEL" default:"info" choice:"debug" choice:"info" choice:"warn" choice:"error" description:"log level"`
	Version       bool          `short:"v" long:"version" description:"display the version and exit"`
}

// errUsage marks command line errors
var errUsage = errors.New("usage error")

// parseOptions parses args. Help output goes to stdout and yields a nil
// options with a nil error.
func parseOptions(args []string, stdout io.Writer) (*options, error) {
	opt := &options{}
	parser := flags.NewParser(opt, flags.HelpFlag|flags.PassDoubleDash)
	parser.Name = programName
	parser.Usage = "-b BUILD_DIR [OPTIONS]"

	rest, err := parser.ParseArgs(args)
	if err != nil {
		if flags.WroteHelp(err) {
			_, _ = fmt.Fprintln(stdout, err)
			return nil, nil
		}
		// --version is honoured without the otherwise required build dir
		var flagsErr *flags.Error
		if opt.Version && errors.As(err, &flagsErr) && flagsErr.Type == flags.ErrRequired {
			return opt, nil
		}
		return nil, fmt.Errorf("%w: %w", errUsage, err)
	}

	if len(rest) > 0 {
		return nil, fmt.Errorf("%w: unexpected arguments %q", errUsage, rest)
	}
	if opt.Timeout < 0 {
		return nil, fmt.Errorf("%w: timeout must not be negative", errUsage)
	}
	return opt, nil
}
