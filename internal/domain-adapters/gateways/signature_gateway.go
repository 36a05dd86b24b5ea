package gateways

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ochairo/snapverify/internal/domain/interfaces"
	"github.com/ochairo/snapverify/internal/external-adapters/gpg"
)

// signatureSuffixes are tried in order next to each tool
var signatureSuffixes = []string{".sig", ".asc"}

// GPGSignatureGateway checks detached signatures of native tools against a local keyring
type GPGSignatureGateway struct {
	verifier *gpg.Verifier
	logger   interfaces.Logger
}

// NewGPGSignatureGateway creates a new signature gateway
func NewGPGSignatureGateway(logger interfaces.Logger) *GPGSignatureGateway {
	if logger == nil {
		logger = &interfaces.NoOpLogger{}
	}
	return &GPGSignatureGateway{
		verifier: gpg.NewVerifier(),
		logger:   logger,
	}
}

// ImportKeyring loads public keys from keyringPath
func (g *GPGSignatureGateway) ImportKeyring(_ context.Context, keyringPath string) error {
	if err := g.verifier.ImportKeyFromFile(keyringPath); err != nil {
		return fmt.Errorf("failed to import keyring: %w", err)
	}
	g.logger.Debug("imported keyring",
		interfaces.F("path", keyringPath),
		interfaces.F("keys", g.verifier.KeyringSize()),
	)
	return nil
}

// VerifyExecutable checks the .sig or .asc file next to binaryPath
func (g *GPGSignatureGateway) VerifyExecutable(ctx context.Context, binaryPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	sigPath, err := findSignature(binaryPath)
	if err != nil {
		return err
	}

	fingerprint, err := g.verifier.VerifySignatureFromFile(binaryPath, sigPath)
	if err != nil {
		return fmt.Errorf("%s: %w", binaryPath, err)
	}

	g.logger.Info("verified tool signature",
		interfaces.F("tool", binaryPath),
		interfaces.F("signer", fingerprint),
	)
	return nil
}

func findSignature(binaryPath string) (string, error) {
	for _, suffix := range signatureSuffixes {
		candidate := binaryPath + suffix
		if _, err := os.Stat(candidate); err == nil {
			return candidate, nil
		} else if !errors.Is(err, os.ErrNotExist) {
			return "", fmt.Errorf("failed to stat signature: %w", err)
		}
	}
	return "", fmt.Errorf("no detached signature found for %s", binaryPath)
}
