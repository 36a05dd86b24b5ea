package gateways

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestChecksumVerifier(t *testing.T) {
	dir := t.TempDir()
	blob := filepath.Join(dir, "snapshot_blob.bin")
	if err := os.WriteFile(blob, []byte("hello"), 0600); err != nil {
		t.Fatalf("Failed to create blob: %v", err)
	}

	verifier := NewChecksumVerifier()

	// sha256("hello")
	const want = "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824"

	got, err := verifier.CalculateChecksum(blob)
	if err != nil {
		t.Fatalf("CalculateChecksum() error = %v", err)
	}
	if got != want {
		t.Errorf("CalculateChecksum() = %s, want %s", got, want)
	}

	t.Run("valid checksum", func(t *testing.T) {
		if err := verifier.VerifyChecksum(blob, want); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})

	t.Run("uppercase checksum", func(t *testing.T) {
		if err := verifier.VerifyChecksum(blob, strings.ToUpper(want)); err != nil {
			t.Errorf("VerifyChecksum() error = %v", err)
		}
	})

	t.Run("invalid checksum", func(t *testing.T) {
		err := verifier.VerifyChecksum(blob, strings.Repeat("0", 64))
		if err == nil || !strings.Contains(err.Error(), "checksum mismatch") {
			t.Errorf("VerifyChecksum() error = %v, want checksum mismatch", err)
		}
	})

	t.Run("missing file", func(t *testing.T) {
		if err := verifier.VerifyChecksum(filepath.Join(dir, "missing"), want); err == nil {
			t.Error("VerifyChecksum() should fail for a missing file")
		}
	})
}

func TestChecksumVerifier_VerifySameContent(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.bin")
	b := filepath.Join(dir, "b.bin")
	c := filepath.Join(dir, "c.bin")
	for path, content := range map[string]string{a: "blob", b: "blob", c: "other"} {
		if err := os.WriteFile(path, []byte(content), 0600); err != nil {
			t.Fatal(err)
		}
	}

	verifier := NewChecksumVerifier()
	sum, err := verifier.VerifySameContent(a, b)
	if err != nil {
		t.Fatalf("VerifySameContent() error = %v", err)
	}
	if len(sum) != 64 {
		t.Errorf("VerifySameContent() digest length = %d, want 64", len(sum))
	}
	if _, err := verifier.VerifySameContent(a, c); err == nil {
		t.Error("VerifySameContent() should fail for differing files")
	}
}

func TestChecksumVerifier_WriteChecksumFile(t *testing.T) {
	dir := t.TempDir()
	archive := filepath.Join(dir, "snapshot-blobs.tar.gz")
	if err := os.WriteFile(archive, []byte("hello"), 0600); err != nil {
		t.Fatal(err)
	}

	path, err := NewChecksumVerifier().WriteChecksumFile(archive)
	if err != nil {
		t.Fatalf("WriteChecksumFile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("checksum file missing: %v", err)
	}
	want := "2cf24dba5fb0a30e26e83b2ac5b9e29e1b161e5c1fa7425e73043362938b9824  snapshot-blobs.tar.gz\n"
	if string(data) != want {
		t.Errorf("checksum file = %q, want %q", data, want)
	}
}
