// archive.go
package archive

import (
	"bufio"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
	"github.com/ulikunitz/xz"
	"zombiezen.com/go/nix/nar"
	"zombiezen.com/go/nix/nixbase32"
)

// ErrUnsupportedCompression indicates an unknown compression name
var ErrUnsupportedCompression = errors.New("unsupported compression")

// Stats summarises a pack or unpack pass
type Stats struct {
	Files   int   // Regular files
	Dirs    int   // Directories, including the root
	Symlink int   // Symbolic links
	Size    int64 // Sum of regular file sizes
}

// ParseCompression validates a compression name. Empty selects the default.
func ParseCompression(s string) (Compression, error) {
	switch c := Compression(s); c {
	case "":
		return DefaultCompression, nil
	case CompressionXZ, CompressionZstd, CompressionNone:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnsupportedCompression, s)
	}
}

// Pack serialises dir as a NAR, compressed with c, into w.
func Pack(w io.Writer, dir string, c Compression) (*Stats, error) {
	cw, err := compressor(w, c)
	if err != nil {
		return nil, err
	}

	stats, err := writeNAR(cw, dir)
	if cerr := cw.Close(); err == nil && cerr != nil {
		err = fmt.Errorf("closing %s stream: %w", c, cerr)
	}
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// PackFile is Pack into a newly created file at path.
func PackFile(path, dir string, c Compression) (*Stats, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating file: %w", err)
	}

	stats, err := Pack(f, dir, c)
	if cerr := f.Close(); err == nil && cerr != nil {
		err = cerr
	}
	if err != nil {
		os.Remove(path)
		return nil, err
	}
	return stats, nil
}

func writeNAR(w io.Writer, dir string) (*Stats, error) {
	nw := nar.NewWriter(w)
	stats := &Stats{}

	// WalkDir visits entries in lexical order, which is the order NAR requires
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return err
		}
		if rel == "." {
			rel = ""
		}
		rel = filepath.ToSlash(rel)

		switch {
		case d.IsDir():
			stats.Dirs++
			return nw.WriteHeader(&nar.Header{Path: rel, Mode: fs.ModeDir | 0o555})

		case d.Type()&fs.ModeSymlink != 0:
			target, err := os.Readlink(path)
			if err != nil {
				return err
			}
			stats.Symlink++
			return nw.WriteHeader(&nar.Header{Path: rel, Mode: fs.ModeSymlink | 0o777, LinkTarget: target})

		case d.Type().IsRegular():
			info, err := d.Info()
			if err != nil {
				return err
			}
			mode := fs.FileMode(0o444)
			if info.Mode()&0o111 != 0 {
				mode = 0o555
			}
			if err := nw.WriteHeader(&nar.Header{Path: rel, Mode: mode, Size: info.Size()}); err != nil {
				return err
			}

			f, err := os.Open(path)
			if err != nil {
				return err
			}
			_, err = io.Copy(nw, f)
			f.Close()
			if err != nil {
				return err
			}
			stats.Files++
			stats.Size += info.Size()
			return nil

		default:
			// sockets, devices and pipes have no NAR representation
			return nil
		}
	})
	if err != nil {
		return nil, fmt.Errorf("writing NAR: %w", err)
	}

	if err := nw.Close(); err != nil {
		return nil, fmt.Errorf("finishing NAR: %w", err)
	}
	return stats, nil
}

// Unpack extracts a compressed NAR from r into dir.
func Unpack(r io.Reader, dir string, c Compression) (*Stats, error) {
	dr, err := decompressor(bufio.NewReader(r), c)
	if err != nil {
		return nil, err
	}
	defer dr.Close()

	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("creating destination directory: %w", err)
	}

	narReader := nar.NewReader(dr)
	stats := &Stats{}

	for {
		hdr, err := narReader.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading NAR entry: %w", err)
		}

		if hdr.Path != "" && !filepath.IsLocal(filepath.FromSlash(hdr.Path)) {
			return nil, fmt.Errorf("NAR entry %q escapes destination", hdr.Path)
		}
		targetPath := filepath.Join(dir, filepath.FromSlash(hdr.Path))

		switch hdr.Mode.Type() {
		case fs.ModeDir:
			if err := os.MkdirAll(targetPath, 0755); err != nil {
				return nil, fmt.Errorf("creating directory %s: %w", targetPath, err)
			}
			stats.Dirs++

		case fs.ModeSymlink:
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return nil, fmt.Errorf("creating parent directory: %w", err)
			}
			os.Remove(targetPath)
			if err := os.Symlink(hdr.LinkTarget, targetPath); err != nil {
				return nil, fmt.Errorf("creating symlink: %w", err)
			}
			stats.Symlink++

		case 0: // Regular file
			if err := os.MkdirAll(filepath.Dir(targetPath), 0755); err != nil {
				return nil, fmt.Errorf("creating parent directory: %w", err)
			}

			perm := os.FileMode(0644)
			if hdr.Mode&0111 != 0 {
				perm = 0755
			}

			outFile, err := os.OpenFile(targetPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm)
			if err != nil {
				return nil, fmt.Errorf("creating file %s: %w", targetPath, err)
			}

			written, err := io.Copy(outFile, narReader)
			outFile.Close()
			if err != nil {
				return nil, fmt.Errorf("writing file: %w", err)
			}
			if written != hdr.Size {
				return nil, fmt.Errorf("size mismatch for %s", hdr.Path)
			}
			stats.Files++
			stats.Size += written
		}
	}

	return stats, nil
}

// UnpackFile is Unpack reading from the file at path.
func UnpackFile(path, dir string, c Compression) (*Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening archive: %w", err)
	}
	defer f.Close()

	return Unpack(f, dir, c)
}

// HashFile returns the nix-base32 SHA-256 digest of the file at path.
func HashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	hasher := sha256.New()
	if _, err := io.Copy(hasher, f); err != nil {
		return "", fmt.Errorf("computing hash: %w", err)
	}
	return nixbase32.EncodeToString(hasher.Sum(nil)), nil
}

func compressor(w io.Writer, c Compression) (io.WriteCloser, error) {
	switch c {
	case CompressionXZ:
		xw, err := xz.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating xz writer: %w", err)
		}
		return xw, nil
	case CompressionZstd:
		zw, err := zstd.NewWriter(w)
		if err != nil {
			return nil, fmt.Errorf("creating zstd writer: %w", err)
		}
		return zw, nil
	case CompressionNone:
		return nopWriteCloser{w}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, c)
	}
}

func decompressor(r io.Reader, c Compression) (io.ReadCloser, error) {
	switch c {
	case CompressionXZ:
		xr, err := xz.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("creating xz reader: %w", err)
		}
		return io.NopCloser(xr), nil
	case CompressionZstd:
		zr, err := zstd.NewReader(r)
		if err != nil {
			return nil, fmt.Errorf("zstd init: %w", err)
		}
		return zr.IOReadCloser(), nil
	case CompressionNone:
		return io.NopCloser(r), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedCompression, c)
	}
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
