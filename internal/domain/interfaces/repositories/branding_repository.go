// Package repositories defines interfaces for data access layers.
package repositories

import (
	"context"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// BrandingRepository defines the interface for looking up build branding
type BrandingRepository interface {
	// GetBranding returns the project and product names of the build
	GetBranding(ctx context.Context) (*entities.Branding, error)
}
