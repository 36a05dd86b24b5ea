package services

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFindRepositoryRoot(t *testing.T) {
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ".git"), 0750); err != nil {
		t.Fatalf("Failed to create .git: %v", err)
	}
	nested := filepath.Join(root, "script", "lib")
	if err := os.MkdirAll(nested, 0750); err != nil {
		t.Fatalf("Failed to create nested dir: %v", err)
	}

	got, err := FindRepositoryRoot(nested)
	if err != nil {
		t.Fatalf("FindRepositoryRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("FindRepositoryRoot() = %q, want %q", got, root)
	}
}

func TestFindRepositoryRoot_GitFile(t *testing.T) {
	// worktrees and submodules use a .git file instead of a directory
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, ".git"), []byte("gitdir: ../x\n"), 0600); err != nil {
		t.Fatalf("Failed to create .git file: %v", err)
	}

	got, err := FindRepositoryRoot(root)
	if err != nil {
		t.Fatalf("FindRepositoryRoot() error = %v", err)
	}
	if got != root {
		t.Errorf("FindRepositoryRoot() = %q, want %q", got, root)
	}
}

func TestResolveBuildDir(t *testing.T) {
	abs := filepath.Join(t.TempDir(), "out", "Default")

	tests := []struct {
		name       string
		sourceRoot string
		buildDir   string
		want       string
		wantErr    bool
	}{
		{name: "relative", sourceRoot: "/src/electron", buildDir: "out/Testing", want: filepath.Join("/src/electron", "out", "Testing")},
		{name: "absolute wins", sourceRoot: "/src/electron", buildDir: abs, want: abs},
		{name: "empty", sourceRoot: "/src", buildDir: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolveBuildDir(tt.sourceRoot, tt.buildDir)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ResolveBuildDir() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ResolveBuildDir() = %q, want %q", got, tt.want)
			}
		})
	}
}
