// Package archive unpacks zip and compressed tar artifacts.
package archive

import (
	"archive/tar"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/zerr"
)

// errUnsafePath is returned for entries that would land outside the destination.
var errUnsafePath = errors.New("archive entry escapes the destination directory")

var _ ports.ArchiveExtractor = (*Extractor)(nil)

// Extractor implements ports.ArchiveExtractor.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// IsArchive reports whether path is a file in a supported archive format.
func (e *Extractor) IsArchive(path string) (bool, error) {
	kind, err := SniffFile(path)
	if err != nil {
		return false, err
	}
	return kind != KindNone, nil
}

// Extract unpacks archivePath into destDir. Entries are written to a staging
// directory next to destDir which is renamed into place once complete.
func (e *Extractor) Extract(ctx context.Context, archivePath, destDir string) error {
	kind, err := SniffFile(archivePath)
	if err != nil {
		return err
	}
	if kind == KindNone {
		return zerr.With(zerr.New("unrecognized archive format"), "path", archivePath)
	}

	parent := filepath.Dir(destDir)
	if err := os.MkdirAll(parent, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create cache directory"), "path", parent)
	}

	staging, err := os.MkdirTemp(parent, "."+filepath.Base(destDir)+".partial-")
	if err != nil {
		return zerr.With(zerr.Wrap(err, "failed to create staging directory"), "path", parent)
	}

	if err := e.extractTo(ctx, kind, archivePath, staging); err != nil {
		_ = os.RemoveAll(staging)
		return zerr.With(zerr.With(err, "path", archivePath), "format", string(kind))
	}

	if err := os.Rename(staging, destDir); err != nil {
		_ = os.RemoveAll(staging)
		return zerr.With(zerr.Wrap(err, "failed to move extracted artifact into place"), "path", destDir)
	}
	return nil
}

func (e *Extractor) extractTo(ctx context.Context, kind Kind, archivePath, dest string) error {
	if kind == KindZip {
		return extractZip(ctx, archivePath, dest)
	}

	f, err := os.Open(archivePath) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return zerr.Wrap(err, "failed to open archive")
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	var r io.Reader = f
	switch kind {
	case KindTarGzip:
		gz, err := gzip.NewReader(f)
		if err != nil {
			return zerr.Wrap(err, "failed to read gzip stream")
		}
		defer gz.Close() //nolint:errcheck // Best effort close in defer
		r = gz
	case KindTarZstd:
		zr, err := zstd.NewReader(f)
		if err != nil {
			return zerr.Wrap(err, "failed to read zstd stream")
		}
		defer zr.Close()
		r = zr
	}

	return extractTar(ctx, tar.NewReader(r), dest)
}

func extractZip(ctx context.Context, archivePath, dest string) error {
	zr, err := zip.OpenReader(archivePath)
	if err != nil {
		return zerr.Wrap(err, "failed to read zip archive")
	}
	defer zr.Close() //nolint:errcheck // Best effort close in defer

	for _, f := range zr.File {
		if err := ctx.Err(); err != nil {
			return err
		}

		target, skip, err := entryPath(dest, f.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		mode := f.Mode()
		switch {
		case mode.IsDir():
			err = os.MkdirAll(target, domain.DirPerm)
		case mode&os.ModeSymlink != 0:
			err = writeZipSymlink(f, dest, target)
		default:
			err = writeZipFile(f, target, mode)
		}
		if err != nil {
			return zerr.With(err, "entry", f.Name)
		}
	}
	return nil
}

func writeZipFile(f *zip.File, target string, mode os.FileMode) error {
	rc, err := f.Open()
	if err != nil {
		return zerr.Wrap(err, "failed to open zip entry")
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	return writeFile(rc, target, mode)
}

func writeZipSymlink(f *zip.File, dest, target string) error {
	rc, err := f.Open()
	if err != nil {
		return zerr.Wrap(err, "failed to open zip entry")
	}
	defer rc.Close() //nolint:errcheck // Best effort close in defer

	link, err := io.ReadAll(io.LimitReader(rc, 4096))
	if err != nil {
		return zerr.Wrap(err, "failed to read symlink target")
	}
	return writeSymlink(string(link), dest, target)
}

func extractTar(ctx context.Context, tr *tar.Reader, dest string) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return zerr.Wrap(err, "failed to read tar entry")
		}

		target, skip, err := entryPath(dest, hdr.Name)
		if err != nil {
			return err
		}
		if skip {
			continue
		}

		switch hdr.Typeflag {
		case tar.TypeDir:
			err = os.MkdirAll(target, domain.DirPerm)
		case tar.TypeReg:
			err = writeFile(tr, target, hdr.FileInfo().Mode())
		case tar.TypeSymlink:
			err = writeSymlink(hdr.Linkname, dest, target)
		default:
			// Hard links, devices and FIFOs never appear in library bundles.
			continue
		}
		if err != nil {
			return zerr.With(err, "entry", hdr.Name)
		}
	}
}

// entryPath maps an archive entry name to a path under dest. It reports skip
// for metadata entries added by archiving tools.
func entryPath(dest, name string) (string, bool, error) {
	name = strings.ReplaceAll(name, "\\", "/")
	clean := filepath.Clean(filepath.FromSlash(name))

	if clean == "." {
		return "", true, nil
	}
	first, _, _ := strings.Cut(filepath.ToSlash(clean), "/")
	if first == "__MACOSX" || filepath.Base(clean) == ".DS_Store" {
		return "", true, nil
	}

	if filepath.IsAbs(clean) || clean == ".." || strings.HasPrefix(clean, ".."+string(filepath.Separator)) {
		return "", false, zerr.With(zerr.Wrap(errUnsafePath, "unsafe archive entry"), "entry", name)
	}
	return filepath.Join(dest, clean), false, nil
}

func writeFile(r io.Reader, target string, mode os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}

	perm := os.FileMode(domain.FilePerm)
	if mode.Perm()&0o111 != 0 {
		perm = 0o755
	}

	out, err := os.OpenFile(target, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, perm) //nolint:gosec // target is sanitized
	if err != nil {
		return zerr.Wrap(err, "failed to create file")
	}
	if _, err := io.Copy(out, r); err != nil { //nolint:gosec // artifacts are trusted, size is bounded by the archive
		_ = out.Close()
		return zerr.Wrap(err, "failed to write file")
	}
	if err := out.Close(); err != nil {
		return zerr.Wrap(err, "failed to write file")
	}
	return nil
}

// writeSymlink creates a symlink at target, rejecting links that resolve outside dest.
func writeSymlink(link, dest, target string) error {
	if filepath.IsAbs(link) {
		return zerr.With(zerr.Wrap(errUnsafePath, "absolute symlink"), "link", link)
	}
	resolved := filepath.Join(filepath.Dir(target), link)
	rel, err := filepath.Rel(dest, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return zerr.With(zerr.Wrap(errUnsafePath, "symlink escapes the destination directory"), "link", link)
	}

	if err := os.MkdirAll(filepath.Dir(target), domain.DirPerm); err != nil {
		return zerr.Wrap(err, "failed to create directory")
	}
	if err := os.Symlink(link, target); err != nil {
		return zerr.Wrap(err, "failed to create symlink")
	}
	return nil
}
