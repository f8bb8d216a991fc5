package recipe

const (
	// DefaultFile is the descriptor file name looked up in a source directory
	DefaultFile = "wildcat.yaml"

	// PolicyHeaderOnly computes a package id that ignores build settings
	PolicyHeaderOnly = "header_only"

	// PolicyFull computes a package id over every build setting
	PolicyFull = "full"

	// PURLType is the package-url type packages are published under
	PURLType = "conan"
)

// DefaultPackageCopy is what the package step copies when the recipe doesn't say
var DefaultPackageCopy = Patterns{"*.hpp"}
