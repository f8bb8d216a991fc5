// Package export copies the files selected by recipe patterns from a source
// tree into a staging folder, byte for byte and at the same relative paths.
package export

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"slices"

	"github.com/rossb34/wildcat-ws/pkg/pattern"
)

// skipDirs are never descended into while selecting sources
var skipDirs = []string{".git", ".hg", ".svn"}

// Exporter copies matched files between directories
type Exporter struct {
	logger *log.Logger
}

// Result describes what a copy pass produced
type Result struct {
	Dir   string   // Destination directory
	Files []string // Copied files, slash-separated and relative to Dir, sorted
	Bytes int64    // Total bytes written
}

// New creates an Exporter. A nil logger discards output.
func New(logger *log.Logger) *Exporter {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	return &Exporter{logger: logger}
}

// Export copies every regular file under srcDir whose relative path matches
// one of patterns into dstDir. It fails with *MissingSourceError, without
// creating dstDir, when nothing matches.
func (e *Exporter) Export(ctx context.Context, srcDir, dstDir string, patterns []string) (*Result, error) {
	files, err := e.selectFiles(srcDir, dstDir, patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, &MissingSourceError{Patterns: patterns, Dir: srcDir}
	}
	return e.copyFiles(ctx, srcDir, dstDir, files)
}

// Copy is Export without the missing-source check. An empty selection
// copies nothing and still succeeds.
func (e *Exporter) Copy(ctx context.Context, srcDir, dstDir string, patterns []string) (*Result, error) {
	files, err := e.selectFiles(srcDir, dstDir, patterns)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		e.logger.Printf("No files in %s match %v", srcDir, patterns)
		return &Result{Dir: dstDir}, nil
	}
	return e.copyFiles(ctx, srcDir, dstDir, files)
}

// selectFiles walks srcDir and returns matching slash-separated paths in
// walk order, which is lexical.
func (e *Exporter) selectFiles(srcDir, dstDir string, patterns []string) ([]string, error) {
	set, err := pattern.Compile(patterns)
	if err != nil {
		return nil, err
	}

	info, err := os.Stat(srcDir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, &MissingSourceError{Patterns: patterns, Dir: srcDir}
		}
		return nil, fmt.Errorf("reading source directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("source %s is not a directory", srcDir)
	}

	// dstDir may live inside srcDir (a work folder next to the sources)
	absDst, err := filepath.Abs(dstDir)
	if err != nil {
		return nil, fmt.Errorf("resolving destination: %w", err)
	}

	var files []string
	err = filepath.WalkDir(srcDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if path == srcDir {
				return nil
			}
			if slices.Contains(skipDirs, d.Name()) {
				return filepath.SkipDir
			}
			if abs, err := filepath.Abs(path); err == nil && abs == absDst {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			e.logger.Printf("Skipping non-regular file: %s", path)
			return nil
		}

		rel, err := filepath.Rel(srcDir, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		if set.Match(rel) {
			files = append(files, rel)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", srcDir, err)
	}

	return files, nil
}

func (e *Exporter) copyFiles(ctx context.Context, srcDir, dstDir string, files []string) (*Result, error) {
	if err := os.MkdirAll(dstDir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	res := &Result{Dir: dstDir, Files: make([]string, 0, len(files))}
	for _, rel := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		src := filepath.Join(srcDir, filepath.FromSlash(rel))
		dst := filepath.Join(dstDir, filepath.FromSlash(rel))
		n, err := copyFile(src, dst)
		if err != nil {
			return nil, fmt.Errorf("copying %s: %w", rel, err)
		}

		e.logger.Printf("Copied %s (%d bytes)", rel, n)
		res.Files = append(res.Files, rel)
		res.Bytes += n
	}

	slices.Sort(res.Files)
	return res, nil
}

func copyFile(src, dst string) (int64, error) {
	in, err := os.Open(src)
	if err != nil {
		return 0, err
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return 0, err
	}

	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return 0, err
	}

	out, err := os.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return 0, err
	}

	n, err := io.Copy(out, in)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	return n, err
}
