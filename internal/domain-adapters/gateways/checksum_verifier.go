package gateways

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ChecksumVerifier computes and compares SHA256 digests of blobs
type ChecksumVerifier struct{}

// NewChecksumVerifier creates a new checksum verifier
func NewChecksumVerifier() *ChecksumVerifier {
	return &ChecksumVerifier{}
}

// CalculateChecksum returns the hex SHA256 of a file
func (v *ChecksumVerifier) CalculateChecksum(filePath string) (string, error) {
	//nolint:gosec // G304: File path points at a generated blob
	f, err := os.Open(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to open file: %w", err)
	}
	//nolint:errcheck // Defer close on read-only file
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash file: %w", err)
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}

// VerifyChecksum fails unless filePath hashes to expectedSum
func (v *ChecksumVerifier) VerifyChecksum(filePath, expectedSum string) error {
	actualSum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return err
	}
	if !strings.EqualFold(actualSum, expectedSum) {
		return fmt.Errorf("checksum mismatch for %s: expected %s, got %s", filepath.Base(filePath), expectedSum, actualSum)
	}
	return nil
}

// VerifySameContent fails unless both files hash identically and returns the shared digest
func (v *ChecksumVerifier) VerifySameContent(original, copied string) (string, error) {
	sum, err := v.CalculateChecksum(original)
	if err != nil {
		return "", err
	}
	if err := v.VerifyChecksum(copied, sum); err != nil {
		return "", err
	}
	return sum, nil
}

// WriteChecksumFile writes "<sha256>  <basename>" to filePath + ".sha256"
func (v *ChecksumVerifier) WriteChecksumFile(filePath string) (string, error) {
	sum, err := v.CalculateChecksum(filePath)
	if err != nil {
		return "", err
	}

	checksumPath := filePath + ".sha256"
	content := fmt.Sprintf("%s  %s\n", sum, filepath.Base(filePath))
	if err := os.WriteFile(checksumPath, []byte(content), 0600); err != nil {
		return "", fmt.Errorf("failed to write checksum file: %w", err)
	}
	return checksumPath, nil
}
