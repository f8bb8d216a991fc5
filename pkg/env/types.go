// pkg/env/types.go
package env

// PackageLayout defines where files are located within a restored package
type PackageLayout struct {
	Includes  []string // Relative paths to include directories
	Libraries []string // Relative paths to library directories
}

// Environment represents a restored package a consumer builds against
type Environment struct {
	InstallPath string // Directory the package was restored into
	Layout      PackageLayout
}

// CompilerFlags holds compiler and linker flags
type CompilerFlags struct {
	IncludeFlags []string // -I flags
	LibraryFlags []string // -L flags
}

// DefaultLayout is the layout packages are created with
var DefaultLayout = PackageLayout{
	Includes:  []string{"include"},
	Libraries: []string{"lib"},
}
