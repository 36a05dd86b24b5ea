package gateways

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/ochairo/snapverify/internal/domain/entities"
	"github.com/ochairo/snapverify/internal/domain/interfaces"
)

// BlobPlacer copies generated snapshot blobs to where the runtime loads them from
type BlobPlacer struct {
	checksums *ChecksumVerifier
	logger    interfaces.Logger
}

// NewBlobPlacer creates a new blob placer
func NewBlobPlacer(logger interfaces.Logger) *BlobPlacer {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &BlobPlacer{
		checksums: NewChecksumVerifier(),
		logger:    logger,
	}
}

// Place copies each blob into destDir, preserving mode and modification
// time, and confirms the copy hashes the same as its source.
// destDir must already exist; a missing resources directory means the
// bundle layout is not what the platform expects.
func (p *BlobPlacer) Place(blobPaths []string, destDir string) ([]entities.Blob, error) {
	info, err := os.Stat(destDir)
	if err != nil {
		return nil, fmt.Errorf("resources directory not accessible: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("resources path is not a directory: %s", destDir)
	}

	placed := make([]entities.Blob, 0, len(blobPaths))
	for _, src := range blobPaths {
		name := filepath.Base(src)
		dst := filepath.Join(destDir, name)

		if err := copyFile(src, dst); err != nil {
			return nil, fmt.Errorf("failed to place %s: %w", name, err)
		}
		sum, err := p.checksums.VerifySameContent(src, dst)
		if err != nil {
			return nil, fmt.Errorf("placed blob %s is corrupt: %w", name, err)
		}

		p.logger.Debug("placed blob",
			interfaces.F("blob", name),
			interfaces.F("dest", destDir),
			interfaces.F("sha256", sum),
		)
		placed = append(placed, entities.Blob{Name: name, Source: src, Path: dst, Checksum: sum})
	}
	return placed, nil
}

// Describe records blobs that stay where they were generated
func (p *BlobPlacer) Describe(blobPaths []string) ([]entities.Blob, error) {
	blobs := make([]entities.Blob, 0, len(blobPaths))
	for _, path := range blobPaths {
		sum, err := p.checksums.CalculateChecksum(path)
		if err != nil {
			return nil, err
		}
		blobs = append(blobs, entities.Blob{
			Name:     filepath.Base(path),
			Source:   path,
			Path:     path,
			Checksum: sum,
		})
	}
	return blobs, nil
}
