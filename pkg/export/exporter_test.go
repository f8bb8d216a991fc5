package export

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
)

// writeTree creates files under root. Keys are slash-separated relative paths.
func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()

	for rel, content := range files {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatalf("creating dir for %s: %v", rel, err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("writing %s: %v", rel, err)
		}
	}
}

func TestExportCopiesMatchedFilesVerbatim(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "export")

	header := "#pragma once\nnamespace ws { struct socket; }\n\x00\xff binary tail"
	writeTree(t, src, map[string]string{
		"include/ws/socket.hpp":  header,
		"include/ws/frame.hpp":   "#pragma once\n",
		"include/version.h":      "#define V 1\n",
		"src/socket.cpp":         "int main() {}\n",
		"README.md":              "readme\n",
		".git/objects/ab/cdef01": "blob",
	})

	res, err := New(nil).Export(context.Background(), src, dst, []string{"include/*"})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	want := []string{"include/version.h", "include/ws/frame.hpp", "include/ws/socket.hpp"}
	if !slices.Equal(res.Files, want) {
		t.Fatalf("Files = %v, want %v", res.Files, want)
	}

	got, err := os.ReadFile(filepath.Join(dst, "include", "ws", "socket.hpp"))
	if err != nil {
		t.Fatalf("reading exported header: %v", err)
	}
	if !bytes.Equal(got, []byte(header)) {
		t.Errorf("exported header differs from source")
	}

	for _, rel := range []string{"src/socket.cpp", "README.md", ".git"} {
		if _, err := os.Stat(filepath.Join(dst, filepath.FromSlash(rel))); !os.IsNotExist(err) {
			t.Errorf("%s should not be exported (stat err = %v)", rel, err)
		}
	}

	var total int64
	for _, rel := range want {
		info, err := os.Stat(filepath.Join(src, filepath.FromSlash(rel)))
		if err != nil {
			t.Fatal(err)
		}
		total += info.Size()
	}
	if res.Bytes != total {
		t.Errorf("Bytes = %d, want %d", res.Bytes, total)
	}
}

func TestExportMissingSource(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		files map[string]string
	}{
		{"empty tree", nil},
		{"no headers under include", map[string]string{"src/main.cpp": "int main() {}\n"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := t.TempDir()
			writeTree(t, src, tt.files)
			dst := filepath.Join(t.TempDir(), "export")

			_, err := New(nil).Export(context.Background(), src, dst, []string{"include/*"})
			if !errors.Is(err, ErrMissingSource) {
				t.Fatalf("Export() error = %v, want ErrMissingSource", err)
			}

			var mse *MissingSourceError
			if !errors.As(err, &mse) {
				t.Fatalf("error %T is not *MissingSourceError", err)
			}
			if mse.Dir != src {
				t.Errorf("Dir = %q, want %q", mse.Dir, src)
			}

			if _, err := os.Stat(dst); !os.IsNotExist(err) {
				t.Errorf("destination was created on failure (stat err = %v)", err)
			}
		})
	}
}

func TestExportNonexistentSourceDir(t *testing.T) {
	t.Parallel()

	src := filepath.Join(t.TempDir(), "missing")
	_, err := New(nil).Export(context.Background(), src, t.TempDir(), []string{"include/*"})
	if !errors.Is(err, ErrMissingSource) {
		t.Fatalf("Export() error = %v, want ErrMissingSource", err)
	}
}

func TestExportIsIdempotent(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	dst := filepath.Join(t.TempDir(), "export")
	writeTree(t, src, map[string]string{"include/ws/socket.hpp": "v1"})

	exp := New(nil)
	first, err := exp.Export(context.Background(), src, dst, []string{"include/*"})
	if err != nil {
		t.Fatal(err)
	}
	second, err := exp.Export(context.Background(), src, dst, []string{"include/*"})
	if err != nil {
		t.Fatal(err)
	}

	if !slices.Equal(first.Files, second.Files) || first.Bytes != second.Bytes {
		t.Errorf("second export = %+v, want %+v", second, first)
	}
}

func TestExportSkipsDestinationInsideSource(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"include/a.hpp": "a"})
	dst := filepath.Join(src, "include", "out")
	writeTree(t, dst, map[string]string{"stale.hpp": "stale"})

	res, err := New(nil).Export(context.Background(), src, dst, []string{"include/*"})
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(res.Files, []string{"include/a.hpp"}) {
		t.Errorf("Files = %v, want only include/a.hpp", res.Files)
	}
}

func TestExportHonoursCancellation(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"include/a.hpp": "a"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := New(nil).Export(ctx, src, t.TempDir(), []string{"include/*"})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("Export() error = %v, want context.Canceled", err)
	}
}

func TestCopyAllowsEmptySelection(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"include/a.h": "a"})

	res, err := New(nil).Copy(context.Background(), src, filepath.Join(t.TempDir(), "pkg"), []string{"*.hpp"})
	if err != nil {
		t.Fatalf("Copy() error: %v", err)
	}
	if len(res.Files) != 0 {
		t.Errorf("Files = %v, want none", res.Files)
	}
}

func TestCopyHeadersAtAnyDepth(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"include/wildcat/ws/client.hpp":    "client",
		"include/wildcat/ws/handshake.hpp": "handshake",
		"include/wildcat/ws/notes.txt":     "notes",
	})

	dst := filepath.Join(t.TempDir(), "pkg")
	res, err := New(nil).Copy(context.Background(), src, dst, []string{"*.hpp"})
	if err != nil {
		t.Fatal(err)
	}

	want := []string{"include/wildcat/ws/client.hpp", "include/wildcat/ws/handshake.hpp"}
	if !slices.Equal(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
}

func TestExportPreservesPermissions(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{"include/gen.sh": "#!/bin/sh\n"})
	if err := os.Chmod(filepath.Join(src, "include", "gen.sh"), 0o755); err != nil {
		t.Fatal(err)
	}

	dst := t.TempDir()
	if _, err := New(nil).Export(context.Background(), src, dst, []string{"include/*"}); err != nil {
		t.Fatal(err)
	}

	info, err := os.Stat(filepath.Join(dst, "include", "gen.sh"))
	if err != nil {
		t.Fatal(err)
	}
	if info.Mode().Perm()&0o100 == 0 {
		t.Errorf("mode = %v, want owner-executable", info.Mode())
	}
}

func TestExportExtensionPatternCrossesDirectories(t *testing.T) {
	t.Parallel()

	src := t.TempDir()
	writeTree(t, src, map[string]string{
		"include/wildcat/ws/client.hpp": "#pragma once\n",
		"include/wildcat/ws/frame.hpp":  "#pragma once\n",
		"include/wildcat/ws/notes.txt":  "notes\n",
		"src/client.hpp":                "#pragma once\n",
	})

	res, err := New(nil).Export(context.Background(), src, filepath.Join(t.TempDir(), "export"), []string{"include/*.hpp"})
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	want := []string{"include/wildcat/ws/client.hpp", "include/wildcat/ws/frame.hpp"}
	if !slices.Equal(res.Files, want) {
		t.Errorf("Files = %v, want %v", res.Files, want)
	}
}
