// Package gateways defines interfaces for side-effecting collaborators.
package gateways

import "context"

// SignatureGateway defines the interface for checking detached signatures
// of the native tools before they are executed
type SignatureGateway interface {
	// ImportKeyring loads public keys from a local keyring file
	ImportKeyring(ctx context.Context, keyringPath string) error

	// VerifyExecutable checks the detached signature that sits next to binaryPath
	VerifyExecutable(ctx context.Context, binaryPath string) error
}
