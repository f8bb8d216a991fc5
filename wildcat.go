// Package wildcat packages header-only libraries: it exports the files a
// recipe declares, computes a package identity that ignores build settings,
// and publishes the result into a local package cache.
package wildcat

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	"github.com/rossb34/wildcat-ws/pkg/archive"
	"github.com/rossb34/wildcat-ws/pkg/cache"
	"github.com/rossb34/wildcat-ws/pkg/core"
	"github.com/rossb34/wildcat-ws/pkg/export"
	"github.com/rossb34/wildcat-ws/pkg/packageid"
	"github.com/rossb34/wildcat-ws/pkg/recipe"
	"github.com/rossb34/wildcat-ws/pkg/revision"
)

// Re-export types for convenience
type (
	Config   = core.Config
	Metadata = recipe.Metadata
	Settings = packageid.Settings
	ID       = packageid.ID
	// CacheEntry is the index record of a published package.
	CacheEntry = cache.Entry
)

// DefaultConfig returns a configuration with sensible defaults
func DefaultConfig() *Config {
	return core.DefaultConfig()
}

// Work folder names under <work>/<name>/<version>
const (
	ExportFolder  = "export"
	BuildFolder   = "build"
	PackageFolder = "package"
)

// Packager runs the packaging steps of one recipe
type Packager struct {
	recipe   *recipe.Metadata
	config   *core.Config
	logger   *log.Logger
	policy   packageid.Policy
	exporter *export.Exporter
	cache    *cache.Cache
}

// PackageResult describes the folders a Package run produced
type PackageResult struct {
	ExportDir  string   // Exported sources
	SourceDir  string   // Folder the package step read from
	PackageDir string   // Package contents
	Exported   []string // Files exported, relative to ExportDir
	Packaged   []string // Files packaged, relative to PackageDir
}

// CreateResult is the outcome of Create
type CreateResult struct {
	Entry  *cache.Entry
	Cached bool // An identical package id was already in the cache
}

// NewPackager creates a Packager for r
func NewPackager(r *recipe.Metadata, config *core.Config) (*Packager, error) {
	if r == nil {
		return nil, ErrNoRecipe
	}
	if config == nil {
		config = core.DefaultConfig()
	}

	// Ensure paths are set
	if config.CachePath == "" {
		config.CachePath = core.DefaultConfig().CachePath
	}
	if config.WorkPath == "" {
		config.WorkPath = filepath.Join(config.CachePath, "work")
	}

	policy, err := packageid.PolicyFor(r.PackageID)
	if err != nil {
		return nil, &Error{Op: "init", Package: r.Reference(), Err: fmt.Errorf("%w: %v", ErrInvalidRecipe, err)}
	}

	logger := config.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return &Packager{
		recipe:   r,
		config:   config,
		logger:   logger,
		policy:   policy,
		exporter: export.New(logger),
		cache:    cache.New(config.PackagesPath(), logger),
	}, nil
}

// Recipe returns the descriptor being packaged
func (p *Packager) Recipe() *recipe.Metadata {
	return p.recipe
}

// Cache returns the package cache Create publishes into
func (p *Packager) Cache() *cache.Cache {
	return p.cache
}

// WorkDir returns the staging folder for this recipe's name and version
func (p *Packager) WorkDir() string {
	return filepath.Join(p.config.WorkPath, p.recipe.Name, p.recipe.Version)
}

// Export copies the recipe's exports_sources from srcDir into the export
// folder. Previous export output is discarded first.
func (p *Packager) Export(ctx context.Context, srcDir string) (*export.Result, error) {
	dst := filepath.Join(p.WorkDir(), ExportFolder)
	if err := os.RemoveAll(dst); err != nil {
		return nil, p.wrap("export", fmt.Errorf("clearing export folder: %w", err))
	}

	p.logger.Printf("Exporting %s from %s (patterns: %v)", p.recipe.Reference(), srcDir, p.recipe.ExportsSources)
	res, err := p.exporter.Export(ctx, srcDir, dst, p.recipe.ExportsSources)
	if err != nil {
		return nil, p.wrap("export", err)
	}

	p.logger.Printf("Exported %d files (%d bytes)", len(res.Files), res.Bytes)
	return res, nil
}

// Package exports srcDir and runs the package step. Unless the recipe sets
// no_copy_source, the step reads from a copy of the export folder.
func (p *Packager) Package(ctx context.Context, srcDir string) (*PackageResult, error) {
	exported, err := p.Export(ctx, srcDir)
	if err != nil {
		return nil, err
	}

	res := &PackageResult{
		ExportDir:  exported.Dir,
		SourceDir:  exported.Dir,
		PackageDir: filepath.Join(p.WorkDir(), PackageFolder),
		Exported:   exported.Files,
	}

	if !p.recipe.NoCopySource {
		res.SourceDir = filepath.Join(p.WorkDir(), BuildFolder)
		if err := os.RemoveAll(res.SourceDir); err != nil {
			return nil, p.wrap("package", fmt.Errorf("clearing build folder: %w", err))
		}
		if _, err := p.exporter.Copy(ctx, res.ExportDir, res.SourceDir, []string{"*"}); err != nil {
			return nil, p.wrap("package", fmt.Errorf("copying sources: %w", err))
		}
	}

	if err := os.RemoveAll(res.PackageDir); err != nil {
		return nil, p.wrap("package", fmt.Errorf("clearing package folder: %w", err))
	}

	p.logger.Printf("Packaging %s from %s (patterns: %v)", p.recipe.Reference(), res.SourceDir, p.recipe.Package.Copy)
	packaged, err := p.exporter.Copy(ctx, res.SourceDir, res.PackageDir, p.recipe.Package.Copy)
	if err != nil {
		return nil, p.wrap("package", err)
	}
	res.Packaged = packaged.Files

	return res, nil
}

// PackageID computes the identity of this recipe built with settings.
func (p *Packager) PackageID(settings packageid.Settings) packageid.ID {
	return packageid.Compute(p.info(settings), p.policy)
}

// EffectiveSettings returns settings as the package id sees them, after the
// recipe's policy has been applied.
func (p *Packager) EffectiveSettings(settings packageid.Settings) packageid.Settings {
	info := p.info(settings)
	info.Settings = info.Settings.Clone()
	p.policy.Apply(&info)
	return info.Settings
}

// Create packages srcDir, archives the package folder and publishes it into
// the cache. Publishing an id that is already cached is not an error; the
// existing entry is returned with Cached set.
func (p *Packager) Create(ctx context.Context, srcDir string, settings packageid.Settings) (*CreateResult, error) {
	pkg, err := p.Package(ctx, srcDir)
	if err != nil {
		return nil, err
	}

	id := p.PackageID(settings)
	p.logger.Printf("Package id: %s (policy: %s)", id, p.policy.Name())

	comp, err := archive.ParseCompression(p.config.Compression)
	if err != nil {
		return nil, p.wrap("create", err)
	}

	artifact := filepath.Join(p.WorkDir(), "package"+comp.Ext())
	stats, err := archive.PackFile(artifact, pkg.PackageDir, comp)
	if err != nil {
		return nil, p.wrap("create", fmt.Errorf("archiving package: %w", err))
	}
	defer os.Remove(artifact)
	p.logger.Printf("Archived %d files (%d bytes) into %s", stats.Files, stats.Size, artifact)

	hash, err := archive.HashFile(artifact)
	if err != nil {
		return nil, p.wrap("create", err)
	}

	rev, err := revision.Detect(srcDir)
	if err != nil {
		// A broken repository only costs the revision field
		p.logger.Printf("Could not detect recipe revision: %v", err)
	}
	var dirty bool
	if rev != "" {
		if dirty, err = revision.Dirty(srcDir); err != nil {
			p.logger.Printf("Could not read worktree status: %v", err)
		}
	}

	entry := &cache.Entry{
		Name:        p.recipe.Name,
		Version:     p.recipe.Version,
		PackageID:   id.String(),
		PURL:        p.recipe.PURL(),
		License:     p.recipe.License,
		Revision:    rev,
		Dirty:       dirty,
		Policy:      p.policy.Name(),
		Settings:    p.EffectiveSettings(settings),
		Files:       pkg.Packaged,
		Compression: string(comp),
		FileHash:    hash,
	}

	stored, err := p.cache.Publish(entry, artifact)
	if errors.Is(err, cache.ErrAlreadyExists) {
		return &CreateResult{Entry: stored, Cached: true}, nil
	}
	if err != nil {
		return nil, p.wrap("create", err)
	}

	return &CreateResult{Entry: stored}, nil
}

func (p *Packager) info(settings packageid.Settings) packageid.Info {
	return packageid.Info{
		Name:     p.recipe.Name,
		Version:  p.recipe.Version,
		Settings: settings,
	}
}

func (p *Packager) wrap(op string, err error) error {
	return &Error{Op: op, Package: p.recipe.Reference(), Err: err}
}
