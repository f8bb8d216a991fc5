// Package pattern matches slash-separated relative paths against recipe globs.
//
// Recipe globs follow fnmatch: `*` and `?` also match `/`, so `include/*`
// selects every file below include/, `include/*.hpp` selects headers at any
// depth under include/ and `*.hpp` selects headers anywhere. A pattern that
// names a directory selects everything below it.
//
// Patterns containing a `**` path segment use doublestar semantics instead,
// where `**` spans zero or more directories and `*` stays within one.
package pattern

import (
	"errors"
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gobwas/glob"
)

// ErrBadPattern is returned for patterns that can never match
var ErrBadPattern = errors.New("bad pattern")

// Set is a compiled list of patterns
type Set struct {
	patterns []string
	globs    []glob.Glob
	stars    []string // doublestar patterns
}

// Compile validates and compiles patterns.
func Compile(patterns []string) (*Set, error) {
	s := &Set{patterns: patterns}
	for _, pat := range patterns {
		if pat == "" {
			return nil, fmt.Errorf("%w: empty pattern", ErrBadPattern)
		}
		if !doublestar.ValidatePattern(pat) {
			return nil, fmt.Errorf("%w: %q", ErrBadPattern, pat)
		}

		pat = strings.TrimPrefix(pat, "./")
		if isDoublestar(pat) {
			s.stars = append(s.stars, pat, strings.TrimSuffix(pat, "/")+"/**")
			continue
		}

		for _, candidate := range []string{pat, strings.TrimSuffix(pat, "/") + "/*"} {
			// No separators: every wildcard crosses `/`
			g, err := glob.Compile(candidate)
			if err != nil {
				return nil, fmt.Errorf("%w: %q: %v", ErrBadPattern, pat, err)
			}
			s.globs = append(s.globs, g)
		}
	}
	return s, nil
}

// Patterns returns the patterns s was compiled from
func (s *Set) Patterns() []string {
	return s.patterns
}

// Match reports whether rel matches any pattern in s.
func (s *Set) Match(rel string) bool {
	rel = strings.TrimPrefix(rel, "./")
	for _, g := range s.globs {
		if g.Match(rel) {
			return true
		}
	}
	for _, pat := range s.stars {
		if ok, err := doublestar.Match(pat, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Validate checks every pattern and reports the first malformed one.
func Validate(patterns []string) error {
	_, err := Compile(patterns)
	return err
}

// Match reports whether rel matches any of the patterns. Malformed patterns
// never match.
func Match(patterns []string, rel string) bool {
	s, err := Compile(patterns)
	if err != nil {
		return false
	}
	return s.Match(rel)
}

func isDoublestar(pat string) bool {
	for _, seg := range strings.Split(pat, "/") {
		if seg == "**" {
			return true
		}
	}
	return false
}
