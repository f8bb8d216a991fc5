package env

import (
	"os"
	"path/filepath"
	"slices"
	"testing"
)

func TestHeaderOnlyEnvironment(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, rel := range []string{"include/wildcat/ws/client.hpp", "include/wildcat/ws/handshake.hpp", "include/README"} {
		path := filepath.Join(root, filepath.FromSlash(rel))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0o644); err != nil {
			t.Fatal(err)
		}
	}

	e := New(root)
	if !e.HeaderOnly() {
		t.Error("HeaderOnly() = false")
	}

	flags := e.GetCompilerFlags()
	if want := "-I" + filepath.Join(root, "include"); flags.String() != want {
		t.Errorf("flags = %q, want %q", flags.String(), want)
	}

	headers, err := e.Headers()
	if err != nil {
		t.Fatal(err)
	}
	if want := []string{"wildcat/ws/client.hpp", "wildcat/ws/handshake.hpp"}; !slices.Equal(headers, want) {
		t.Errorf("Headers() = %v, want %v", headers, want)
	}
}

func TestEnvironmentWithLibraries(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	for _, d := range []string{"include", "lib"} {
		if err := os.MkdirAll(filepath.Join(root, d), 0o755); err != nil {
			t.Fatal(err)
		}
	}

	e := New(root)
	if e.HeaderOnly() {
		t.Error("HeaderOnly() = true with a lib directory")
	}
	if got := e.GetCompilerFlags().LibraryFlags; !slices.Equal(got, []string{"-L" + filepath.Join(root, "lib")}) {
		t.Errorf("LibraryFlags = %v", got)
	}
}

func TestEmptyEnvironment(t *testing.T) {
	t.Parallel()

	e := New(filepath.Join(t.TempDir(), "missing"))
	if s := e.GetCompilerFlags().String(); s != "" {
		t.Errorf("flags = %q, want empty", s)
	}
	headers, err := e.Headers()
	if err != nil || len(headers) != 0 {
		t.Errorf("Headers() = %v, %v", headers, err)
	}
}
