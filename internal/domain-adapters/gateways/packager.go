package gateways

import (
	"archive/tar"
	"compress/gzip"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// Packager bundles generated snapshot blobs into a distributable archive
type Packager struct {
	checksums *ChecksumVerifier
}

// NewPackager creates a new packager
func NewPackager() *Packager {
	return &Packager{checksums: NewChecksumVerifier()}
}

// ArchiveName returns the archive file name used for platform
func ArchiveName(platform string) string {
	return fmt.Sprintf("snapshot-blobs-%s.tar.gz", platform)
}

// PackageBlobs writes blobs into <outputDir>/snapshot-blobs-<platform>.tar.gz
// next to a .sha256 file and returns the archive path
func (p *Packager) PackageBlobs(ctx context.Context, blobs []entities.Blob, platform, outputDir string) (string, error) {
	if len(blobs) == 0 {
		return "", fmt.Errorf("no blobs to package")
	}
	if err := os.MkdirAll(outputDir, 0750); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	tarballPath := filepath.Join(outputDir, ArchiveName(platform))
	if err := p.createTarball(ctx, blobs, tarballPath); err != nil {
		_ = os.Remove(tarballPath)
		return "", fmt.Errorf("failed to create tarball: %w", err)
	}

	if _, err := p.checksums.WriteChecksumFile(tarballPath); err != nil {
		return "", err
	}
	return tarballPath, nil
}

func (p *Packager) createTarball(ctx context.Context, blobs []entities.Blob, tarballPath string) error {
	//nolint:gosec // G304: tarballPath is constructed for package output
	file, err := os.Create(tarballPath)
	if err != nil {
		return fmt.Errorf("failed to create tarball file: %w", err)
	}
	//nolint:errcheck // Defer close, the explicit close below reports errors
	defer file.Close()

	gzipWriter := gzip.NewWriter(file)
	tarWriter := tar.NewWriter(gzipWriter)

	for _, blob := range blobs {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := addFile(tarWriter, blob.Path, blob.Name); err != nil {
			return err
		}
	}

	if err := tarWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish tar stream: %w", err)
	}
	if err := gzipWriter.Close(); err != nil {
		return fmt.Errorf("failed to finish gzip stream: %w", err)
	}
	return file.Close()
}

func addFile(tarWriter *tar.Writer, sourceFile, nameInArchive string) error {
	//nolint:gosec // G304: sourceFile is a generated blob
	file, err := os.Open(sourceFile)
	if err != nil {
		return fmt.Errorf("failed to open source file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer file.Close()

	info, err := file.Stat()
	if err != nil {
		return fmt.Errorf("failed to stat source file: %w", err)
	}

	header, err := tar.FileInfoHeader(info, "")
	if err != nil {
		return fmt.Errorf("failed to create tar header: %w", err)
	}
	header.Name = nameInArchive

	if err := tarWriter.WriteHeader(header); err != nil {
		return fmt.Errorf("failed to write tar header: %w", err)
	}
	if _, err := io.Copy(tarWriter, file); err != nil {
		return fmt.Errorf("failed to write file to tar: %w", err)
	}
	return nil
}
