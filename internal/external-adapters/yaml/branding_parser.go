// Package yaml provides YAML-based branding parsing and repository implementations.
// JSON is a subset of YAML, so BRANDING.json files parse unchanged.
package yaml

import (
	"fmt"
	"os"

	"github.com/ochairo/snapverify/internal/domain/entities"
	"gopkg.in/yaml.v3"
)

// yamlBranding represents the raw branding document
type yamlBranding struct {
	ProjectName string `yaml:"project_name"`
	ProductName string `yaml:"product_name"`
}

// BrandingParser parses branding files
type BrandingParser struct{}

// NewBrandingParser creates a new branding parser
func NewBrandingParser() *BrandingParser {
	return &BrandingParser{}
}

// ParseFile parses a branding file into a Branding entity
func (p *BrandingParser) ParseFile(filePath string) (*entities.Branding, error) {
	//nolint:gosec // G304: filePath is the branding file of the source tree
	data, err := os.ReadFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}

	return p.Parse(data)
}

// Parse parses YAML or JSON bytes into a Branding entity. Unknown keys are ignored.
func (p *BrandingParser) Parse(data []byte) (*entities.Branding, error) {
	var raw yamlBranding
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse branding: %w", err)
	}

	return &entities.Branding{
		ProjectName: raw.ProjectName,
		ProductName: raw.ProductName,
	}, nil
}
