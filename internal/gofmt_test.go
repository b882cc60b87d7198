package internal

import (
	"bytes"
	"go/format"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// sourceRoots are the trees checked by TestGofmtCompliance, relative to the
// module root.
var sourceRoots = []string{"internal", "cmd"}

// moduleRoot returns the directory holding go.mod.
func moduleRoot(t *testing.T) string {
	t.Helper()

	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	for dir := wd; ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			t.Fatalf("go.mod not found above %s", wd)
		}
	}
}

// TestGofmtCompliance fails for any Go file whose content differs from its
// gofmt output. Fix with: gofmt -w ./internal/ ./cmd/
func TestGofmtCompliance(t *testing.T) {
	root := moduleRoot(t)

	var unformatted []string
	for _, rel := range sourceRoots {
		err := filepath.WalkDir(filepath.Join(root, rel), func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() {
				name := d.Name()
				if name == "vendor" || name == "testdata" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") {
					return filepath.SkipDir
				}
				return nil
			}
			if filepath.Ext(path) != ".go" {
				return nil
			}

			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			formatted, err := format.Source(src)
			if err != nil {
				relPath, _ := filepath.Rel(root, path)
				t.Errorf("%s does not parse: %v", relPath, err)
				return nil
			}
			if !bytes.Equal(src, formatted) {
				relPath, _ := filepath.Rel(root, path)
				unformatted = append(unformatted, relPath)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("Failed to walk %s: %v", rel, err)
		}
	}

	for _, f := range unformatted {
		t.Errorf("not gofmt-formatted: %s", f)
	}
}
