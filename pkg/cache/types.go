package cache

import "time"

// IndexFile is the metadata file stored next to every cached artifact
const IndexFile = "index.toml"

// Entry represents a single <name>/<version>/<package_id>/index.toml file
type Entry struct {
	Name        string            `toml:"name"`
	Version     string            `toml:"version"`
	PackageID   string            `toml:"package_id"`
	PURL        string            `toml:"purl,omitempty"`
	License     string            `toml:"license,omitempty"`
	Revision    string            `toml:"revision,omitempty"`
	Dirty       bool              `toml:"dirty,omitempty"` // Worktree had uncommitted changes
	Policy      string            `toml:"policy"`
	Settings    map[string]string `toml:"settings,omitempty"`
	Files       []string          `toml:"files"`
	Compression string            `toml:"compression"`
	Artifact    string            `toml:"artifact"`
	FileHash    string            `toml:"file_hash"`
	FileSize    int64             `toml:"file_size"`
	Created     time.Time         `toml:"created"`
}

// Reference returns name/version
func (e *Entry) Reference() string {
	return e.Name + "/" + e.Version
}
