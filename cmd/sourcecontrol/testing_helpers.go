package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/utkarsh5026/SourceControl/pkg/repository/scpath"
	"github.com/utkarsh5026/SourceControl/pkg/repository/sourcerepo"
)

// TestHelper bundles the bits every command test needs: a scratch directory,
// a way to initialize a repository in it, and a way to write files relative
// to it without each test re-deriving paths.
type TestHelper struct {
	t       *testing.T
	dir     string
	repo    *sourcerepo.SourceRepository
	origDir string
}

// NewTestHelper creates a fresh temporary directory for a single test.
func NewTestHelper(t *testing.T) *TestHelper {
	t.Helper()
	dir := t.TempDir()
	origDir, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	return &TestHelper{t: t, dir: dir, origDir: origDir}
}

// InitRepo initializes a repository in the helper's scratch directory and
// returns it for direct manipulation.
func (h *TestHelper) InitRepo() *sourcerepo.SourceRepository {
	h.t.Helper()

	repoPath, err := scpath.NewRepositoryPath(h.dir)
	if err != nil {
		h.t.Fatalf("repository path: %v", err)
	}

	repo := sourcerepo.NewSourceRepository()
	if err := repo.Initialize(repoPath); err != nil {
		h.t.Fatalf("initialize repository: %v", err)
	}

	h.repo = repo
	return repo
}

// Chdir switches the process working directory to the scratch directory and
// registers a cleanup that restores the original directory.
func (h *TestHelper) Chdir() {
	h.t.Helper()
	if err := os.Chdir(h.dir); err != nil {
		h.t.Fatalf("chdir: %v", err)
	}
	h.t.Cleanup(func() {
		os.Chdir(h.origDir)
	})
}

// WriteFile writes content to a path relative to the scratch directory,
// creating parent directories as needed.
func (h *TestHelper) WriteFile(relPath, content string) string {
	h.t.Helper()
	full := filepath.Join(h.dir, relPath)
	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		h.t.Fatalf("mkdir for %s: %v", relPath, err)
	}
	if err := os.WriteFile(full, []byte(content), 0644); err != nil {
		h.t.Fatalf("write %s: %v", relPath, err)
	}
	return full
}

// RemoveFile deletes a path relative to the scratch directory.
func (h *TestHelper) RemoveFile(relPath string) {
	h.t.Helper()
	if err := os.Remove(filepath.Join(h.dir, relPath)); err != nil {
		h.t.Fatalf("remove %s: %v", relPath, err)
	}
}

// Dir returns the scratch directory's absolute path.
func (h *TestHelper) Dir() string {
	return h.dir
}
