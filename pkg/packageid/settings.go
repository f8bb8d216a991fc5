package packageid

import (
	"fmt"
	"maps"
	"slices"
	"strings"
)

// Well-known setting keys
const (
	SettingOS              = "os"
	SettingArch            = "arch"
	SettingCompiler        = "compiler"
	SettingCompilerVersion = "compiler.version"
	SettingBuildType       = "build_type"
)

// Settings is the build-settings vector a packaging run is configured with
type Settings map[string]string

// ParseSetting splits a key=value assignment.
func ParseSetting(s string) (key, value string, err error) {
	key, value, ok := strings.Cut(s, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid setting %q: expected key=value", s)
	}
	return key, strings.TrimSpace(value), nil
}

// Apply parses each key=value assignment into s, overriding existing keys.
func (s Settings) Apply(assignments []string) error {
	for _, a := range assignments {
		k, v, err := ParseSetting(a)
		if err != nil {
			return err
		}
		s[k] = v
	}
	return nil
}

// Keys returns the setting names in sorted order.
func (s Settings) Keys() []string {
	return slices.Sorted(maps.Keys(s))
}

// Clone returns an independent copy.
func (s Settings) Clone() Settings {
	if s == nil {
		return Settings{}
	}
	return maps.Clone(s)
}

func (s Settings) String() string {
	parts := make([]string, 0, len(s))
	for _, k := range s.Keys() {
		parts = append(parts, k+"="+s[k])
	}
	return strings.Join(parts, " ")
}
