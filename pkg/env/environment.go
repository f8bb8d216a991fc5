package env

import (
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"
)

// headerExts are the file extensions Headers reports
var headerExts = []string{".h", ".hh", ".hpp", ".hxx", ".ipp", ".inl"}

// New creates an Environment for a package restored into installPath
func New(installPath string) *Environment {
	return &Environment{
		InstallPath: installPath,
		Layout:      DefaultLayout,
	}
}

// GetIncludePaths returns the include directories that exist
func (e *Environment) GetIncludePaths() []string {
	return e.existing(e.Layout.Includes)
}

// GetLibraryPaths returns the library directories that exist
func (e *Environment) GetLibraryPaths() []string {
	return e.existing(e.Layout.Libraries)
}

// GetCompilerFlags returns -I and -L flags for the package
func (e *Environment) GetCompilerFlags() *CompilerFlags {
	flags := &CompilerFlags{}
	for _, p := range e.GetIncludePaths() {
		flags.IncludeFlags = append(flags.IncludeFlags, "-I"+p)
	}
	for _, p := range e.GetLibraryPaths() {
		flags.LibraryFlags = append(flags.LibraryFlags, "-L"+p)
	}
	return flags
}

// Headers returns every header under the include directories, slash-separated
// and relative to the include directory it was found in.
func (e *Environment) Headers() ([]string, error) {
	var headers []string
	for _, inc := range e.GetIncludePaths() {
		err := filepath.WalkDir(inc, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.IsDir() || !slices.Contains(headerExts, strings.ToLower(filepath.Ext(path))) {
				return nil
			}
			rel, err := filepath.Rel(inc, path)
			if err != nil {
				return err
			}
			headers = append(headers, filepath.ToSlash(rel))
			return nil
		})
		if err != nil {
			return nil, err
		}
	}
	slices.Sort(headers)
	return headers, nil
}

// HeaderOnly reports whether the package ships no library directory
func (e *Environment) HeaderOnly() bool {
	return len(e.GetLibraryPaths()) == 0
}

// String joins all flags with spaces
func (f *CompilerFlags) String() string {
	return strings.Join(append(slices.Clone(f.IncludeFlags), f.LibraryFlags...), " ")
}

func (e *Environment) existing(rel []string) []string {
	var paths []string
	for _, r := range rel {
		p := filepath.Join(e.InstallPath, r)
		if dirExists(p) {
			paths = append(paths, p)
		}
	}
	return paths
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
