package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/ochairo/snapverify/internal/domain-adapters/gateways"
	orchestrators "github.com/ochairo/snapverify/internal/domain-orchestrators"
	"github.com/ochairo/snapverify/internal/domain/entities"
	"github.com/ochairo/snapverify/internal/domain/interfaces"
	"github.com/ochairo/snapverify/internal/domain/services"
	"github.com/ochairo/snapverify/internal/external-adapters/logging"
	"github.com/ochairo/snapverify/internal/external-adapters/yaml"
)

// version is set at build time with -ldflags "-X main.version=..."
var version = "dev"

const (
	exitUsage = 2

	defaultFixturesDir  = "spec/fixtures"
	defaultBrandingFile = "shell/app/BRANDING.json"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}

// run executes one verification and returns the process exit code
func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	opt, err := parseOptions(args, stdout)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		_, _ = fmt.Fprintf(stderr, "Run '%s --help' for usage.\n", programName)
		return exitUsage
	}
	if opt == nil {
		return 0
	}
	if opt.Version {
		_, _ = fmt.Fprintf(stdout, "%s %s\n", programName, version)
		return 0
	}

	level, err := logging.ParseLevel(opt.LogLevel)
	if err != nil {
		_, _ = fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitUsage
	}
	logger := logging.New(stderr, level)

	orchestrator, err := newOrchestrator(opt, stdout, stderr, logger)
	if err != nil {
		logger.Error("failed to set up verification", interfaces.F("error", err))
		_, _ = fmt.Fprintln(stdout, orchestrators.StatusFailed)
		_, _ = fmt.Fprintln(stdout, err.Error())
		return orchestrators.ExitCodeError
	}

	report := orchestrator.Verify(ctx)

	if opt.JSONOutput != "" {
		if err := writeReport(opt.JSONOutput, report); err != nil {
			logger.Error("failed to write report", interfaces.F("path", opt.JSONOutput), interfaces.F("error", err))
			if report.Success() {
				return orchestrators.ExitCodeError
			}
		}
	}

	return report.ExitCode
}

// newOrchestrator resolves paths from opt and wires the adapters
func newOrchestrator(opt *options, stdout, stderr io.Writer, logger interfaces.Logger) (*orchestrators.VerifyOrchestrator, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get working directory: %w", err)
	}
	repoRoot, err := services.FindRepositoryRoot(cwd)
	if err != nil {
		return nil, err
	}

	sourceRoot := opt.SourceRoot
	if sourceRoot == "" {
		sourceRoot = repoRoot
	}
	buildDir, err := services.ResolveBuildDir(sourceRoot, opt.BuildDir)
	if err != nil {
		return nil, err
	}

	fixturesDir := opt.FixturesDir
	if fixturesDir == "" {
		fixturesDir = filepath.Join(repoRoot, defaultFixturesDir)
	}
	fixturesDir, err = filepath.Abs(fixturesDir)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve fixtures directory: %w", err)
	}

	brandingFile := opt.Branding
	if brandingFile == "" {
		brandingFile = filepath.Join(sourceRoot, defaultBrandingFile)
	}

	layout := gateways.NewPlatformLayout()
	logger.Debug("resolved paths",
		interfaces.F("build_dir", buildDir),
		interfaces.F("fixtures", fixturesDir),
		interfaces.F("branding", brandingFile),
		interfaces.F("platform", layout.Platform()),
	)

	deps := orchestrators.VerifyDependencies{
		Branding: yaml.NewBrandingRepository(brandingFile, entities.Branding{
			ProjectName: opt.ProjectName,
			ProductName: opt.ProductName,
		}),
		Copier:    gateways.NewBundleCopier(logger),
		Runner:    gateways.NewProcessRunner(stdout, stderr),
		Inspector: gateways.NewExecutableInspector(layout.GOOS()),
		Layout:    layout,
		Finder:    gateways.NewArtifactFinder(),
		Placer:    gateways.NewBlobPlacer(logger),
		Snapshots: services.NewSnapshotService(fixturesDir, opt.MksnapshotArg),
		Logger:    logger,
	}
	if opt.Keyring != "" {
		deps.Signatures = gateways.NewGPGSignatureGateway(logger)
	}
	if opt.ArchiveDir != "" {
		deps.Packager = gateways.NewPackager()
	}

	return orchestrators.NewVerifyOrchestrator(deps, orchestrators.VerifyOrchestratorConfig{
		BuildDir:    buildDir,
		KeyringPath: opt.Keyring,
		ArchiveDir:  opt.ArchiveDir,
		Timeout:     opt.Timeout,
		Cleanup:     opt.Cleanup,
		Status:      stdout,
	})
}
