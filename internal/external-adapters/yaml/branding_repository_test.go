package yaml

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/ochairo/snapverify/internal/domain/entities"
)

func TestBrandingRepository_GetBranding(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "BRANDING.json")
	if err := os.WriteFile(file, []byte(`{"product_name": "Electron", "project_name": "electron"}`), 0600); err != nil {
		t.Fatalf("Failed to write branding: %v", err)
	}
	partial := filepath.Join(dir, "partial.yml")
	if err := os.WriteFile(partial, []byte("project_name: electron\n"), 0600); err != nil {
		t.Fatal(err)
	}
	missing := filepath.Join(dir, "missing.json")

	tests := []struct {
		name      string
		file      string
		overrides entities.Branding
		want      entities.Branding
		wantErr   bool
	}{
		{
			name: "from file",
			file: file,
			want: entities.Branding{ProjectName: "electron", ProductName: "Electron"},
		},
		{
			name:      "override product",
			file:      file,
			overrides: entities.Branding{ProductName: "Electron Nightly"},
			want:      entities.Branding{ProjectName: "electron", ProductName: "Electron Nightly"},
		},
		{
			name:      "missing file with full overrides",
			file:      missing,
			overrides: entities.Branding{ProjectName: "app", ProductName: "App"},
			want:      entities.Branding{ProjectName: "app", ProductName: "App"},
		},
		{
			name:    "missing file",
			file:    missing,
			wantErr: true,
		},
		{
			name:      "missing file with partial overrides",
			file:      missing,
			overrides: entities.Branding{ProjectName: "app"},
			wantErr:   true,
		},
		{
			name:    "incomplete file",
			file:    partial,
			wantErr: true,
		},
		{
			name:      "incomplete file completed by override",
			file:      partial,
			overrides: entities.Branding{ProductName: "Electron"},
			want:      entities.Branding{ProjectName: "electron", ProductName: "Electron"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewBrandingRepository(tt.file, tt.overrides).GetBranding(context.Background())
			if (err != nil) != tt.wantErr {
				t.Fatalf("GetBranding() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if *got != tt.want {
				t.Errorf("GetBranding() = %+v, want %+v", *got, tt.want)
			}
		})
	}
}
