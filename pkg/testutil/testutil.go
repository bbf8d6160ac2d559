// Package testutil provides helpers for building throwaway project trees in
// tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
)

// TempProject is a disposable project workspace rooted in a test temp dir.
type TempProject struct {
	Root string
	t    *testing.T
}

// NewTempProject creates an empty project workspace that is cleaned up with
// the test.
func NewTempProject(t *testing.T) *TempProject {
	t.Helper()
	return &TempProject{
		Root: t.TempDir(),
		t:    t,
	}
}

// Path resolves a path relative to the project root.
func (p *TempProject) Path(rel string) string {
	return filepath.Join(p.Root, filepath.FromSlash(rel))
}

// WriteFile creates a file (and its parent directories) under the project
// root and returns its absolute path.
func (p *TempProject) WriteFile(rel, content string, mode os.FileMode) string {
	p.t.Helper()
	abs := p.Path(rel)
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		p.t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), mode); err != nil {
		p.t.Fatalf("write %s: %v", rel, err)
	}
	return abs
}

// Mkdir creates a directory under the project root and returns its absolute
// path.
func (p *TempProject) Mkdir(rel string) string {
	p.t.Helper()
	abs := p.Path(rel)
	if err := os.MkdirAll(abs, 0755); err != nil {
		p.t.Fatalf("mkdir %s: %v", rel, err)
	}
	return abs
}
