package export

import (
	"errors"
	"fmt"
	"strings"
)

// ErrMissingSource is matched by every *MissingSourceError
var ErrMissingSource = errors.New("file not found")

// MissingSourceError reports that the declared patterns selected no files.
type MissingSourceError struct {
	Patterns []string // Patterns that matched nothing
	Dir      string   // Directory that was searched
}

func (e *MissingSourceError) Error() string {
	return fmt.Sprintf("%v: no files in %s match %s", ErrMissingSource, e.Dir, strings.Join(e.Patterns, ", "))
}

func (e *MissingSourceError) Is(target error) bool {
	return target == ErrMissingSource
}
