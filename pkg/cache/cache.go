// Package cache is a local package index: artifacts keyed by name, version
// and package id, each with a TOML index entry.
package cache

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"golang.org/x/mod/semver"

	"github.com/rossb34/wildcat-ws/pkg/archive"
)

var (
	// ErrNotFound indicates the requested package is not cached
	ErrNotFound = errors.New("package not found")

	// ErrAlreadyExists indicates an identical package id is already cached
	ErrAlreadyExists = errors.New("package already exists")

	// ErrHashMismatch indicates a cached artifact no longer matches its index
	ErrHashMismatch = errors.New("hash mismatch")

	// ErrInvalidReference indicates a name or version unusable as a path element
	ErrInvalidReference = errors.New("invalid reference")
)

// Cache provides lookup into the packages directory
type Cache struct {
	root   string
	logger *log.Logger
}

// New creates a Cache rooted at dir. A nil logger discards output.
func New(dir string, logger *log.Logger) *Cache {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Cache{root: dir, logger: logger}
}

// Root returns the cache directory
func (c *Cache) Root() string {
	return c.root
}

// Publish stores the artifact at artifactPath under entry's reference and
// package id. When that id is already cached the existing entry is returned
// together with ErrAlreadyExists and nothing is written.
func (c *Cache) Publish(entry *Entry, artifactPath string) (*Entry, error) {
	dir, err := c.packageDir(entry.Name, entry.Version, entry.PackageID)
	if err != nil {
		return nil, err
	}

	if existing, err := c.load(dir); err == nil {
		c.logger.Printf("Package %s:%s already cached", entry.Reference(), entry.PackageID)
		return existing, ErrAlreadyExists
	} else if !errors.Is(err, ErrNotFound) {
		return nil, err
	}

	comp, err := archive.ParseCompression(entry.Compression)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating package directory: %w", err)
	}

	stored := *entry
	stored.Compression = string(comp)
	stored.Artifact = "package" + comp.Ext()
	if stored.Created.IsZero() {
		stored.Created = time.Now().UTC().Truncate(time.Second)
	}

	dst := filepath.Join(dir, stored.Artifact)
	size, err := copyFile(artifactPath, dst)
	if err != nil {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("storing artifact: %w", err)
	}
	stored.FileSize = size

	hash, err := archive.HashFile(dst)
	if err != nil {
		os.RemoveAll(dir)
		return nil, err
	}
	if stored.FileHash != "" && stored.FileHash != hash {
		os.RemoveAll(dir)
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, stored.FileHash, hash)
	}
	stored.FileHash = hash

	if err := writeEntry(filepath.Join(dir, IndexFile), &stored); err != nil {
		os.RemoveAll(dir)
		return nil, err
	}

	c.logger.Printf("Published %s:%s (%d bytes)", stored.Reference(), stored.PackageID, stored.FileSize)
	return &stored, nil
}

// Lookup reads the entry for one package id.
func (c *Cache) Lookup(name, version, id string) (*Entry, error) {
	dir, err := c.packageDir(name, version, id)
	if err != nil {
		return nil, err
	}
	return c.load(dir)
}

// Packages returns every cached package id of name/version.
func (c *Cache) Packages(name, version string) ([]*Entry, error) {
	dir, err := c.versionDir(name, version)
	if err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, name, version)
		}
		return nil, err
	}

	var entries []*Entry
	for _, d := range dirEntries {
		if !d.IsDir() {
			continue
		}
		e, err := c.load(filepath.Join(dir, d.Name()))
		if err != nil {
			c.logger.Printf("Skipping %s: %v", d.Name(), err)
			continue
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Names returns every cached package name, sorted.
func (c *Cache) Names() ([]string, error) {
	dirEntries, err := os.ReadDir(c.root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}

	var names []string
	for _, d := range dirEntries {
		if d.IsDir() {
			names = append(names, d.Name())
		}
	}
	return names, nil
}

// Versions returns the cached versions of name in ascending semantic version
// order. Versions that are not valid semver sort after the rest.
func (c *Cache) Versions(name string) ([]string, error) {
	if err := checkElement(name); err != nil {
		return nil, err
	}

	dirEntries, err := os.ReadDir(filepath.Join(c.root, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return nil, err
	}

	var versions []string
	for _, d := range dirEntries {
		if d.IsDir() {
			versions = append(versions, d.Name())
		}
	}
	SortVersions(versions)
	return versions, nil
}

// Latest returns the highest cached version of name.
func (c *Cache) Latest(name string) (string, error) {
	versions, err := c.Versions(name)
	if err != nil {
		return "", err
	}
	for i := len(versions) - 1; i >= 0; i-- {
		if semver.IsValid(canonical(versions[i])) {
			return versions[i], nil
		}
	}
	if len(versions) == 0 {
		return "", fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return versions[len(versions)-1], nil
}

// Restore verifies and unpacks a cached package into dst. id may be a
// unique prefix of a package id; an empty id selects the only package id of
// name/version.
func (c *Cache) Restore(ctx context.Context, name, version, id, dst string) (*Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entry, err := c.resolve(name, version, id)
	if err != nil {
		return nil, err
	}

	dir, err := c.packageDir(entry.Name, entry.Version, entry.PackageID)
	if err != nil {
		return nil, err
	}
	artifact := filepath.Join(dir, entry.Artifact)

	c.logger.Printf("Verifying %s", artifact)
	hash, err := archive.HashFile(artifact)
	if err != nil {
		return nil, err
	}
	if hash != entry.FileHash {
		return nil, fmt.Errorf("%w: expected %s, got %s", ErrHashMismatch, entry.FileHash, hash)
	}

	comp, err := archive.ParseCompression(entry.Compression)
	if err != nil {
		return nil, err
	}
	stats, err := archive.UnpackFile(artifact, dst, comp)
	if err != nil {
		return nil, fmt.Errorf("extracting %s: %w", entry.Reference(), err)
	}

	c.logger.Printf("Restored %s:%s into %s (%d files)", entry.Reference(), entry.PackageID, dst, stats.Files)
	return entry, nil
}

// resolve finds the single entry of name/version whose id starts with prefix
func (c *Cache) resolve(name, version, prefix string) (*Entry, error) {
	entries, err := c.Packages(name, version)
	if err != nil {
		return nil, err
	}

	var found []*Entry
	for _, e := range entries {
		if e.PackageID == prefix {
			return e, nil
		}
		if strings.HasPrefix(e.PackageID, prefix) {
			found = append(found, e)
		}
	}

	switch len(found) {
	case 0:
		if prefix == "" {
			return nil, fmt.Errorf("%w: %s/%s", ErrNotFound, name, version)
		}
		return nil, fmt.Errorf("%w: %s/%s:%s", ErrNotFound, name, version, prefix)
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%s/%s has %d package ids matching %q, choose one", name, version, len(found), prefix)
	}
}

// Remove deletes every package id of name/version.
func (c *Cache) Remove(name, version string) error {
	dir, err := c.versionDir(name, version)
	if err != nil {
		return err
	}
	if _, err := os.Stat(dir); os.IsNotExist(err) {
		return fmt.Errorf("%w: %s/%s", ErrNotFound, name, version)
	}
	if err := os.RemoveAll(dir); err != nil {
		return fmt.Errorf("removing %s/%s: %w", name, version, err)
	}

	// Drop the name directory once its last version is gone
	os.Remove(filepath.Join(c.root, name))
	return nil
}

func (c *Cache) versionDir(name, version string) (string, error) {
	for _, el := range []string{name, version} {
		if err := checkElement(el); err != nil {
			return "", err
		}
	}
	return filepath.Join(c.root, name, version), nil
}

func (c *Cache) packageDir(name, version, id string) (string, error) {
	dir, err := c.versionDir(name, version)
	if err != nil {
		return "", err
	}
	if err := checkElement(id); err != nil {
		return "", err
	}
	return filepath.Join(dir, id), nil
}

// load reads and parses <dir>/index.toml
func (c *Cache) load(dir string) (*Entry, error) {
	path := filepath.Join(dir, IndexFile)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrNotFound, filepath.Base(dir))
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	var entry Entry
	if _, err := toml.Decode(string(data), &entry); err != nil {
		return nil, fmt.Errorf("cache: failed to parse '%s': %w", path, err)
	}
	return &entry, nil
}

func writeEntry(path string, entry *Entry) error {
	tmp := path + ".tmp"
	f, err := os.Create(tmp)
	if err != nil {
		return fmt.Errorf("creating index: %w", err)
	}

	if err := toml.NewEncoder(f).Encode(entry); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("encoding index: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Rename(tmp, path)
}

func checkElement(s string) error {
	if s == "" || s == "." || s == ".." || strings.ContainsAny(s, `/\`) {
		return fmt.Errorf("%w: %q", ErrInvalidReference, s)
	}
	return nil
}

// SortVersions orders versions by semantic version, invalid ones last in
// lexical order.
func SortVersions(versions []string) {
	slices.SortStableFunc(versions, func(a, b string) int {
		ca, cb := canonical(a), canonical(b)
		va, vb := semver.IsValid(ca), semver.IsValid(cb)
		switch {
		case va && vb:
			if n := semver.Compare(ca, cb); n != 0 {
				return n
			}
			return strings.Compare(a, b)
		case va:
			return -1
		case vb:
			return 1
		default:
			return strings.Compare(a, b)
		}
	})
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
