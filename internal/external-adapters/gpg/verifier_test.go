package gpg

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ProtonMail/go-crypto/openpgp/armor"
)

// newTestKey generates a signing key and writes its armored public half to dir
func newTestKey(t *testing.T, dir string) (*openpgp.Entity, string) {
	t.Helper()

	entity, err := openpgp.NewEntity("snapverify test", "", "test@example.com", nil)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}

	var buf bytes.Buffer
	w, err := armor.Encode(&buf, openpgp.PublicKeyType, nil)
	if err != nil {
		t.Fatalf("Failed to create armor writer: %v", err)
	}
	if err := entity.Serialize(w); err != nil {
		t.Fatalf("Failed to serialize key: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Failed to close armor writer: %v", err)
	}

	keyPath := filepath.Join(dir, "pubring.asc")
	if err := os.WriteFile(keyPath, buf.Bytes(), 0600); err != nil {
		t.Fatalf("Failed to write key: %v", err)
	}
	return entity, keyPath
}

func writeSigned(t *testing.T, dir string, signer *openpgp.Entity, armored bool) (string, string) {
	t.Helper()

	data := []byte("#!/bin/sh\necho mksnapshot\n")
	tool := filepath.Join(dir, "mksnapshot")
	if err := os.WriteFile(tool, data, 0600); err != nil {
		t.Fatal(err)
	}

	var sig bytes.Buffer
	var err error
	if armored {
		err = openpgp.ArmoredDetachSign(&sig, signer, bytes.NewReader(data), nil)
	} else {
		err = openpgp.DetachSign(&sig, signer, bytes.NewReader(data), nil)
	}
	if err != nil {
		t.Fatalf("Failed to sign: %v", err)
	}

	sigPath := tool + ".sig"
	if err := os.WriteFile(sigPath, sig.Bytes(), 0600); err != nil {
		t.Fatal(err)
	}
	return tool, sigPath
}

func TestVerifier_VerifySignatureFromFile(t *testing.T) {
	for _, armored := range []bool{true, false} {
		t.Run(fmt.Sprintf("armored=%v", armored), func(t *testing.T) {
			dir := t.TempDir()
			entity, keyPath := newTestKey(t, dir)
			tool, sigPath := writeSigned(t, dir, entity, armored)

			v := NewVerifier()
			if err := v.ImportKeyFromFile(keyPath); err != nil {
				t.Fatalf("ImportKeyFromFile() error = %v", err)
			}
			if v.KeyringSize() != 1 {
				t.Errorf("KeyringSize() = %d, want 1", v.KeyringSize())
			}

			fingerprint, err := v.VerifySignatureFromFile(tool, sigPath)
			if err != nil {
				t.Fatalf("VerifySignatureFromFile() error = %v", err)
			}
			if want := fmt.Sprintf("%X", entity.PrimaryKey.Fingerprint); fingerprint != want {
				t.Errorf("fingerprint = %s, want %s", fingerprint, want)
			}
		})
	}
}

func TestVerifier_VerifySignatureFromFile_Tampered(t *testing.T) {
	dir := t.TempDir()
	entity, keyPath := newTestKey(t, dir)
	tool, sigPath := writeSigned(t, dir, entity, true)

	if err := os.WriteFile(tool, []byte("#!/bin/sh\necho tampered\n"), 0600); err != nil {
		t.Fatal(err)
	}

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatalf("ImportKeyFromFile() error = %v", err)
	}

	_, err := v.VerifySignatureFromFile(tool, sigPath)
	if err == nil || !strings.Contains(err.Error(), "signature verification failed") {
		t.Errorf("VerifySignatureFromFile() error = %v, want verification failure", err)
	}
}

func TestVerifier_VerifySignatureFromFile_UnknownSigner(t *testing.T) {
	dir := t.TempDir()
	_, keyPath := newTestKey(t, dir)

	other, err := openpgp.NewEntity("someone else", "", "other@example.com", nil)
	if err != nil {
		t.Fatal(err)
	}
	tool, sigPath := writeSigned(t, dir, other, true)

	v := NewVerifier()
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatal(err)
	}
	if _, err := v.VerifySignatureFromFile(tool, sigPath); err == nil {
		t.Error("VerifySignatureFromFile() should reject a signature from a key outside the keyring")
	}
}

func TestVerifier_VerifySignatureFromFile_NoKeysImported(t *testing.T) {
	dir := t.TempDir()
	testFile := filepath.Join(dir, "test.bin")
	sigFile := filepath.Join(dir, "test.sig")
	if err := os.WriteFile(testFile, []byte("test"), 0600); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(sigFile, []byte("fake signature data"), 0600); err != nil {
		t.Fatal(err)
	}

	_, err := NewVerifier().VerifySignatureFromFile(testFile, sigFile)
	if err == nil || !strings.Contains(err.Error(), "no GPG keys imported") {
		t.Errorf("Expected 'no GPG keys imported' error, got: %v", err)
	}
}

func TestVerifier_ImportKeyFromFile_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
		wantMsg string
	}{
		{name: "not a key", content: "not a gpg key", wantMsg: "failed to read key"},
		{name: "broken armor", content: "-----BEGIN PGP PUBLIC KEY BLOCK-----\n\nmQENBGPexAMBCAC1kLz...\n-----END PGP PUBLIC KEY BLOCK-----", wantMsg: "failed to read key"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			keyPath := filepath.Join(dir, strings.ReplaceAll(tt.name, " ", "_")+".asc")
			if err := os.WriteFile(keyPath, []byte(tt.content), 0600); err != nil {
				t.Fatal(err)
			}
			err := NewVerifier().ImportKeyFromFile(keyPath)
			if err == nil || !strings.Contains(err.Error(), tt.wantMsg) {
				t.Errorf("ImportKeyFromFile() error = %v, want %q", err, tt.wantMsg)
			}
		})
	}

	if err := NewVerifier().ImportKeyFromFile(filepath.Join(dir, "missing.asc")); err == nil ||
		!strings.Contains(err.Error(), "failed to open key file") {
		t.Errorf("Expected 'failed to open key file' error, got: %v", err)
	}
}

func TestVerifier_KeyringOperations(t *testing.T) {
	dir := t.TempDir()
	_, keyPath := newTestKey(t, dir)

	v := NewVerifier()
	if size := v.KeyringSize(); size != 0 {
		t.Errorf("Initial keyring size = %d, want 0", size)
	}
	if err := v.ImportKeyFromFile(keyPath); err != nil {
		t.Fatal(err)
	}
	if size := v.KeyringSize(); size != 1 {
		t.Errorf("After import, keyring size = %d, want 1", size)
	}
}
