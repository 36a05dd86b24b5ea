// Package orchestrators coordinates complex workflows across multiple domain services.
package orchestrators

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/ochairo/snapverify/internal/domain-adapters/gateways"
	"github.com/ochairo/snapverify/internal/domain/entities"
	"github.com/ochairo/snapverify/internal/domain/interfaces"
	domaingateways "github.com/ochairo/snapverify/internal/domain/interfaces/gateways"
	"github.com/ochairo/snapverify/internal/domain/interfaces/repositories"
	"github.com/ochairo/snapverify/internal/domain/services"
)

// Status lines consumed by CI log parsers
const (
	StatusCopying         = "Creating copy of app for testing"
	StatusSnapshotOK      = "ok mksnapshot successfully created " + entities.SnapshotBlobName + "."
	StatusContextOK       = "ok v8_context_snapshot_generator successfully created " + entities.ContextSnapshotBlobName
	StatusVerifiedOK      = "ok successfully used custom snapshot."
	StatusFailed          = "not ok an error was encountered while testing mksnapshot."
	statusInterruptPrefix = "# interrupted: "
)

// ExitCodeError is returned for failures that are not a tool's own exit status
const ExitCodeError = 1

// BundleDuplicator creates and owns the working copy of a build
type BundleDuplicator interface {
	Duplicate(ctx context.Context, sourcePath string) (*entities.Bundle, error)
	Remove(bundle *entities.Bundle) error
	Release() error
}

// ProcessRunner executes a native program
type ProcessRunner interface {
	Run(ctx context.Context, config gateways.RunConfig) *gateways.RunResult
}

// ExecutableInspector checks programs before they are launched
type ExecutableInspector interface {
	CheckExecutable(path string) error
	Format(path string) (gateways.ExecutableFormat, error)
	Matches(format gateways.ExecutableFormat) bool
}

// Layout resolves platform-specific locations inside a bundle
type Layout interface {
	services.ToolLocator
	Platform() string
	NeedsRelocation() bool
	ResourcesDir(root string, branding *entities.Branding) string
}

// BlobFinder locates generated blobs
type BlobFinder interface {
	FindByGlob(dir string, patterns ...string) ([]string, error)
	RequireAll(found []string, want ...string) error
}

// BlobPlacer moves blobs to where the runtime reads them
type BlobPlacer interface {
	Place(blobPaths []string, destDir string) ([]entities.Blob, error)
	Describe(blobPaths []string) ([]entities.Blob, error)
}

// BlobPackager archives blobs for upload
type BlobPackager interface {
	PackageBlobs(ctx context.Context, blobs []entities.Blob, platform, outputDir string) (string, error)
}

// VerifyDependencies groups the collaborators of a VerifyOrchestrator.
// Signatures and Packager may be nil when the matching option is unused.
type VerifyDependencies struct {
	Branding   repositories.BrandingRepository
	Copier     BundleDuplicator
	Runner     ProcessRunner
	Inspector  ExecutableInspector
	Layout     Layout
	Finder     BlobFinder
	Placer     BlobPlacer
	Packager   BlobPackager
	Signatures domaingateways.SignatureGateway
	Snapshots  *services.SnapshotService
	Logger     interfaces.Logger
}

// VerifyOrchestratorConfig holds per-run options
type VerifyOrchestratorConfig struct {
	// BuildDir is the resolved path of the build output
	BuildDir string
	// KeyringPath enables signature checks of the snapshot tools
	KeyringPath string
	// ArchiveDir, when set, receives a tarball of the generated blobs
	ArchiveDir string
	// Timeout bounds each process; zero means no limit
	Timeout time.Duration
	// Cleanup removes the working copy after a successful run
	Cleanup bool
	// Status receives the ok / not ok lines
	Status io.Writer
}

// VerifyOrchestrator runs the snapshot verification workflow:
// copy, mksnapshot, context snapshot, placement, launch.
type VerifyOrchestrator struct {
	deps   VerifyDependencies
	config VerifyOrchestratorConfig
	logger interfaces.Logger
	status io.Writer
}

// NewVerifyOrchestrator creates a new verify orchestrator
func NewVerifyOrchestrator(deps VerifyDependencies, config VerifyOrchestratorConfig) (*VerifyOrchestrator, error) {
	switch {
	case deps.Branding == nil:
		return nil, fmt.Errorf("branding repository is required")
	case deps.Copier == nil:
		return nil, fmt.Errorf("bundle copier is required")
	case deps.Runner == nil:
		return nil, fmt.Errorf("process runner is required")
	case deps.Inspector == nil:
		return nil, fmt.Errorf("executable inspector is required")
	case deps.Layout == nil:
		return nil, fmt.Errorf("platform layout is required")
	case deps.Finder == nil, deps.Placer == nil:
		return nil, fmt.Errorf("blob finder and placer are required")
	case deps.Snapshots == nil:
		return nil, fmt.Errorf("snapshot service is required")
	case config.KeyringPath != "" && deps.Signatures == nil:
		return nil, fmt.Errorf("a keyring was given but no signature gateway is configured")
	case config.ArchiveDir != "" && deps.Packager == nil:
		return nil, fmt.Errorf("an archive directory was given but no packager is configured")
	case config.BuildDir == "":
		return nil, fmt.Errorf("build directory is required")
	}

	logger := deps.Logger
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	status := config.Status
	if status == nil {
		status = io.Discard
	}

	return &VerifyOrchestrator{
		deps:   deps,
		config: config,
		logger: logger,
		status: status,
	}, nil
}

// Verify runs the workflow to completion. It never returns nil; the report's
// Stage and ExitCode carry the verdict.
func (o *VerifyOrchestrator) Verify(ctx context.Context) *entities.VerificationReport {
	startTime := time.Now()
	report := &entities.VerificationReport{
		Stage:         entities.StageStart,
		LastGoodStage: entities.StageStart,
		Platform:      o.deps.Layout.Platform(),
	}
	defer func() { report.Duration = time.Since(startTime) }()

	branding, err := o.deps.Branding.GetBranding(ctx)
	if err != nil {
		return o.fail(ctx, report, fmt.Errorf("failed to load branding: %w", err), ExitCodeError)
	}
	report.Branding = branding

	o.println(StatusCopying)
	bundle, err := o.deps.Copier.Duplicate(ctx, o.config.BuildDir)
	//nolint:errcheck // Releasing the lock cannot change the verdict
	defer o.deps.Copier.Release()
	if err != nil {
		return o.fail(ctx, report, err, ExitCodeError)
	}
	report.Bundle = bundle
	o.advance(report, entities.StageCopied)

	plan, err := o.deps.Snapshots.Plan(bundle, branding, o.deps.Layout)
	if err != nil {
		return o.fail(ctx, report, err, ExitCodeError)
	}

	if err := o.verifySignatures(ctx, plan); err != nil {
		return o.fail(ctx, report, err, ExitCodeError)
	}

	if !o.runStep(ctx, report, plan.Snapshot, entities.StageSnapshotBuilt) {
		return report
	}
	o.println(StatusSnapshotOK)

	if !o.runStep(ctx, report, plan.ContextSnapshot, entities.StageContextSnapshotBuilt) {
		return report
	}
	o.println(StatusContextOK)

	if err := o.placeArtifacts(ctx, report, bundle, branding); err != nil {
		return o.fail(ctx, report, err, ExitCodeError)
	}
	o.advance(report, entities.StageArtifactsPlaced)

	if !o.runStep(ctx, report, plan.Launch, entities.StageVerified) {
		return report
	}
	o.println(StatusVerifiedOK)

	if o.config.Cleanup {
		if err := o.deps.Copier.Remove(bundle); err != nil {
			o.logger.Warn("failed to remove working copy", interfaces.F("error", err))
		}
	}

	o.logger.Info("custom snapshot verified",
		interfaces.F("platform", report.Platform),
		interfaces.F("duration", time.Since(startTime).Round(time.Millisecond)),
	)
	return report
}

func (o *VerifyOrchestrator) verifySignatures(ctx context.Context, plan *services.SnapshotPlan) error {
	if o.config.KeyringPath == "" {
		return nil
	}
	if err := o.deps.Signatures.ImportKeyring(ctx, o.config.KeyringPath); err != nil {
		return err
	}
	for _, inv := range []services.Invocation{plan.Snapshot, plan.ContextSnapshot} {
		if err := o.deps.Signatures.VerifyExecutable(ctx, inv.Path); err != nil {
			return fmt.Errorf("%s signature check failed: %w", inv.Tool, err)
		}
	}
	return nil
}

// runStep launches inv and records the outcome. It returns false when the
// workflow must stop, with the report already in its terminal state.
func (o *VerifyOrchestrator) runStep(ctx context.Context, report *entities.VerificationReport, inv services.Invocation, reached entities.Stage) bool {
	if err := o.preflight(inv); err != nil {
		o.fail(ctx, report, err, ExitCodeError)
		return false
	}

	o.logger.Debug("running", interfaces.F("tool", inv.Tool), interfaces.F("args", inv.Args))
	result := o.deps.Runner.Run(ctx, gateways.RunConfig{
		Path:        inv.Path,
		Args:        inv.Args,
		WorkingDir:  inv.Dir,
		Timeout:     o.config.Timeout,
		Description: inv.Tool,
	})

	step := entities.StepResult{
		Stage:    reached,
		Command:  inv.Path,
		Args:     inv.Args,
		ExitCode: result.ExitCode,
		Duration: result.Duration,
	}
	if result.Error != nil {
		step.Error = result.Error.Error()
	}
	report.Steps = append(report.Steps, step)

	switch {
	case result.Success:
		o.advance(report, reached)
		return true
	case result.Interrupted:
		o.interrupt(report)
		return false
	case result.TimedOut:
		o.fail(ctx, report, result.Error, ExitCodeError)
		return false
	default:
		exitCode := result.ExitCode
		if exitCode <= 0 {
			exitCode = ExitCodeError
		}
		o.fail(ctx, report, &entities.ProcessError{
			Tool:     inv.Tool,
			ExitCode: result.ExitCode,
			Stderr:   result.Stderr,
			Err:      result.Error,
		}, exitCode)
		return false
	}
}

func (o *VerifyOrchestrator) preflight(inv services.Invocation) error {
	if err := o.deps.Inspector.CheckExecutable(inv.Path); err != nil {
		return fmt.Errorf("%s cannot be launched: %w", inv.Tool, err)
	}
	format, err := o.deps.Inspector.Format(inv.Path)
	if err != nil {
		return fmt.Errorf("%s cannot be inspected: %w", inv.Tool, err)
	}
	if !o.deps.Inspector.Matches(format) {
		// the loader gets the final say; a mismatch here usually means a cross build
		o.logger.Warn("executable format does not match platform",
			interfaces.F("tool", inv.Tool),
			interfaces.F("format", format),
			interfaces.F("platform", o.deps.Layout.Platform()),
		)
	}
	return nil
}

func (o *VerifyOrchestrator) placeArtifacts(ctx context.Context, report *entities.VerificationReport, bundle *entities.Bundle, branding *entities.Branding) error {
	found, err := o.deps.Finder.FindByGlob(bundle.CopyPath, entities.BlobPattern)
	if err != nil {
		return fmt.Errorf("failed to locate snapshot blobs: %w", err)
	}
	if err := o.deps.Finder.RequireAll(found, entities.SnapshotBlobName, entities.ContextSnapshotBlobName); err != nil {
		return err
	}

	var blobs []entities.Blob
	if o.deps.Layout.NeedsRelocation() {
		dest := o.deps.Layout.ResourcesDir(bundle.CopyPath, branding)
		o.logger.Info("relocating snapshot blobs", interfaces.F("dest", dest), interfaces.F("count", len(found)))
		blobs, err = o.deps.Placer.Place(found, dest)
	} else {
		blobs, err = o.deps.Placer.Describe(found)
	}
	if err != nil {
		return err
	}
	report.Blobs = blobs

	if o.config.ArchiveDir != "" {
		archive, err := o.deps.Packager.PackageBlobs(ctx, blobs, report.Platform, o.config.ArchiveDir)
		if err != nil {
			return fmt.Errorf("failed to archive snapshot blobs: %w", err)
		}
		report.Archive = archive
		o.logger.Info("archived snapshot blobs", interfaces.F("archive", archive))
	}
	return nil
}

func (o *VerifyOrchestrator) advance(report *entities.VerificationReport, stage entities.Stage) {
	report.Stage = stage
	report.LastGoodStage = stage
	o.logger.Debug("stage reached", interfaces.F("stage", stage))
}

// fail moves the report to its failed state, unless the error was caused by
// an operator interrupt, which is not a failure
func (o *VerifyOrchestrator) fail(ctx context.Context, report *entities.VerificationReport, err error, exitCode int) *entities.VerificationReport {
	if ctx.Err() != nil && errors.Is(err, ctx.Err()) {
		o.interrupt(report)
		return report
	}

	report.Stage = entities.StageFailed
	report.ExitCode = exitCode
	report.Error = err

	o.println(StatusFailed)
	o.println(err.Error())
	o.logger.Error("verification failed",
		interfaces.F("after", report.LastGoodStage),
		interfaces.F("exit_code", exitCode),
	)
	return report
}

func (o *VerifyOrchestrator) interrupt(report *entities.VerificationReport) {
	report.Stage = entities.StageInterrupted
	report.ExitCode = 0
	report.Error = nil

	o.println(statusInterruptPrefix + string(report.LastGoodStage))
	o.logger.Warn("verification interrupted by operator; exiting with status 0",
		interfaces.F("after", report.LastGoodStage),
	)
}

func (o *VerifyOrchestrator) println(line string) {
	_, _ = fmt.Fprintln(o.status, line)
}
