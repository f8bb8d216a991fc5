package wildcat

import (
	"errors"
	"fmt"

	"github.com/rossb34/wildcat-ws/pkg/archive"
	"github.com/rossb34/wildcat-ws/pkg/cache"
	"github.com/rossb34/wildcat-ws/pkg/export"
	"github.com/rossb34/wildcat-ws/pkg/recipe"
)

var (
	// ErrMissingSource indicates the export patterns matched no files
	ErrMissingSource = export.ErrMissingSource

	// ErrInvalidRecipe indicates the descriptor cannot identify a package
	ErrInvalidRecipe = recipe.ErrInvalidRecipe

	// ErrPackageNotFound indicates the package was not found in the cache
	ErrPackageNotFound = cache.ErrNotFound

	// ErrAlreadyExists indicates the package id is already cached
	ErrAlreadyExists = cache.ErrAlreadyExists

	// ErrHashMismatch indicates a hash verification failure
	ErrHashMismatch = cache.ErrHashMismatch

	// ErrUnsupportedCompression indicates an unknown artifact compression
	ErrUnsupportedCompression = archive.ErrUnsupportedCompression

	// ErrNoRecipe indicates a Packager was created without a descriptor
	ErrNoRecipe = errors.New("no recipe")
)

// MissingSourceError reports that the declared patterns selected no files
type MissingSourceError = export.MissingSourceError

// Error wraps an error with additional context
type Error struct {
	Op      string // Operation that failed
	Package string // Package reference if applicable
	Err     error  // Underlying error
}

func (e *Error) Error() string {
	if e.Package != "" {
		return fmt.Sprintf("%s %s: %v", e.Op, e.Package, e.Err)
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}
