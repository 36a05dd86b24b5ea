package entities

import "fmt"

// Branding holds the display names a build is produced under
type Branding struct {
	ProjectName string `json:"project_name"`
	ProductName string `json:"product_name"`
}

// Validate checks that both names are present
func (b *Branding) Validate() error {
	if b.ProjectName == "" {
		return fmt.Errorf("branding must have a project_name")
	}
	if b.ProductName == "" {
		return fmt.Errorf("branding must have a product_name")
	}
	return nil
}
