package yaml

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

// BrandingRepository implements repositories.BrandingRepository on top of a
// branding file, with optional per-field overrides
type BrandingRepository struct {
	filePath  string
	overrides entities.Branding
	parser    *BrandingParser
}

// NewBrandingRepository creates a repository reading filePath. Non-empty
// fields of overrides replace the values from the file.
func NewBrandingRepository(filePath string, overrides entities.Branding) *BrandingRepository {
	return &BrandingRepository{
		filePath:  filePath,
		overrides: overrides,
		parser:    NewBrandingParser(),
	}
}

// GetBranding returns the merged, validated branding
func (r *BrandingRepository) GetBranding(_ context.Context) (*entities.Branding, error) {
	branding := &entities.Branding{}

	if r.filePath != "" {
		parsed, err := r.parser.ParseFile(r.filePath)
		switch {
		case err == nil:
			branding = parsed
		case errors.Is(err, os.ErrNotExist) && r.complete():
			// overrides cover everything, the file is optional
		default:
			return nil, err
		}
	}

	if r.overrides.ProjectName != "" {
		branding.ProjectName = r.overrides.ProjectName
	}
	if r.overrides.ProductName != "" {
		branding.ProductName = r.overrides.ProductName
	}

	if err := branding.Validate(); err != nil {
		return nil, fmt.Errorf("invalid branding: %w", err)
	}
	return branding, nil
}

func (r *BrandingRepository) complete() bool {
	return r.overrides.ProjectName != "" && r.overrides.ProductName != ""
}
