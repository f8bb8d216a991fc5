// Package packageid computes package identities: the fingerprint a package
// index uses to tell equivalent build artifacts apart.
package packageid

import (
	"crypto/sha256"
	"maps"
	"slices"
	"strconv"
	"strings"

	"zombiezen.com/go/nix/nixbase32"
)

// ID is a package identity, the nix-base32 SHA-256 of an Info's canonical form
type ID string

func (id ID) String() string { return string(id) }

// Short returns the first 12 characters, enough for display.
func (id ID) Short() string {
	if len(id) > 12 {
		return string(id[:12])
	}
	return string(id)
}

// Info is everything a package identity may depend on
type Info struct {
	Name     string
	Version  string
	Settings Settings
	Options  map[string]string
}

// Compute applies policy to a copy of info and hashes the result.
func Compute(info Info, policy Policy) ID {
	info.Settings = info.Settings.Clone()
	info.Options = maps.Clone(info.Options)
	if policy != nil {
		policy.Apply(&info)
	}

	sum := sha256.Sum256([]byte(info.Canonical()))
	return ID(nixbase32.EncodeToString(sum[:]))
}

// Canonical renders info deterministically: sections in fixed order, keys
// sorted within each section. Keys and values are quoted so no field can
// spell out another.
func (info Info) Canonical() string {
	var b strings.Builder

	b.WriteString("[reference]\n")
	writePair(&b, "name", info.Name)
	writePair(&b, "version", info.Version)

	b.WriteString("[settings]\n")
	for _, k := range info.Settings.Keys() {
		writePair(&b, k, info.Settings[k])
	}

	b.WriteString("[options]\n")
	for _, k := range slices.Sorted(maps.Keys(info.Options)) {
		writePair(&b, k, info.Options[k])
	}

	return b.String()
}

func writePair(b *strings.Builder, key, value string) {
	b.WriteString(strconv.Quote(key))
	b.WriteByte('=')
	b.WriteString(strconv.Quote(value))
	b.WriteByte('\n')
}
