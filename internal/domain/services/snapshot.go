// Package services contains domain logic that needs no I/O beyond the filesystem lookups it names.
package services

import (
	"fmt"
	"path/filepath"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// Invocation is a single external program call
type Invocation struct {
	Tool string
	Path string
	Args []string
	Dir  string
}

// SnapshotPlan lists the three calls a verification run makes, in order
type SnapshotPlan struct {
	Snapshot        Invocation
	ContextSnapshot Invocation
	Launch          Invocation
}

// ToolLocator resolves platform-specific paths inside a bundle copy
type ToolLocator interface {
	ToolPath(root, name string) string
	AppExecutable(root string, branding *entities.Branding) string
}

// SnapshotService builds invocation plans for snapshot verification
type SnapshotService struct {
	fixturesDir    string
	mksnapshotArgs []string
}

// NewSnapshotService creates a service reading fixtures from fixturesDir.
// extraArgs are appended to the mksnapshot command line.
func NewSnapshotService(fixturesDir string, extraArgs []string) *SnapshotService {
	return &SnapshotService{
		fixturesDir:    fixturesDir,
		mksnapshotArgs: extraArgs,
	}
}

// SourceFixture returns the script mksnapshot serializes
func (s *SnapshotService) SourceFixture() string {
	return filepath.Join(s.fixturesDir, entities.SnapshotSourceFixture)
}

// CheckFixture returns the script the application runs against the custom snapshot
func (s *SnapshotService) CheckFixture() string {
	return filepath.Join(s.fixturesDir, entities.SnapshotCheckFixture)
}

// Plan computes the invocations for a bundle copy
func (s *SnapshotService) Plan(bundle *entities.Bundle, branding *entities.Branding, locator ToolLocator) (*SnapshotPlan, error) {
	if bundle == nil || bundle.CopyPath == "" {
		return nil, fmt.Errorf("bundle copy path is required")
	}
	if branding == nil {
		return nil, fmt.Errorf("branding is required")
	}
	root := bundle.CopyPath

	snapshotArgs := []string{
		s.SourceFixture(),
		"--startup_blob", entities.SnapshotBlobName,
		"--turbo_instruction_scheduling",
	}
	snapshotArgs = append(snapshotArgs, s.mksnapshotArgs...)

	contextOut := filepath.Join(root, entities.ContextSnapshotBlobName)

	return &SnapshotPlan{
		Snapshot: Invocation{
			Tool: entities.MksnapshotTool,
			Path: locator.ToolPath(root, entities.MksnapshotTool),
			Args: snapshotArgs,
			Dir:  root,
		},
		ContextSnapshot: Invocation{
			Tool: entities.ContextSnapshotTool,
			Path: locator.ToolPath(root, entities.ContextSnapshotTool),
			Args: []string{"--output_file=" + contextOut},
			Dir:  root,
		},
		Launch: Invocation{
			Tool: branding.ProjectName,
			Path: locator.AppExecutable(root, branding),
			Args: []string{s.CheckFixture()},
			Dir:  root,
		},
	}, nil
}
