package archive

import (
	"bytes"
	"io"
	"os"

	"go.trai.ch/zerr"
)

// Kind identifies an archive container format.
type Kind string

const (
	// KindNone means the file is not a recognized archive.
	KindNone Kind = ""
	// KindZip is a zip archive.
	KindZip Kind = "zip"
	// KindTarGzip is a gzip-compressed tar archive.
	KindTarGzip Kind = "tar.gz"
	// KindTarZstd is a zstd-compressed tar archive.
	KindTarZstd Kind = "tar.zst"
	// KindTar is an uncompressed tar archive.
	KindTar Kind = "tar"
)

var (
	zipMagic      = []byte("PK\x03\x04")
	zipEmptyMagic = []byte("PK\x05\x06")
	gzipMagic     = []byte{0x1f, 0x8b}
	zstdMagic     = []byte{0x28, 0xb5, 0x2f, 0xfd}
	tarMagic      = []byte("ustar")
)

const (
	tarMagicOffset = 257
	sniffLen       = tarMagicOffset + 8
)

// Sniff detects the archive format from the leading bytes of r.
// The file name plays no part, so artifacts may use any extension.
func Sniff(r io.Reader) (Kind, error) {
	head := make([]byte, sniffLen)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return KindNone, zerr.Wrap(err, "failed to read archive header")
	}
	head = head[:n]

	switch {
	case bytes.HasPrefix(head, zipMagic), bytes.HasPrefix(head, zipEmptyMagic):
		return KindZip, nil
	case bytes.HasPrefix(head, gzipMagic):
		return KindTarGzip, nil
	case bytes.HasPrefix(head, zstdMagic):
		return KindTarZstd, nil
	case len(head) >= tarMagicOffset+len(tarMagic) &&
		bytes.Equal(head[tarMagicOffset:tarMagicOffset+len(tarMagic)], tarMagic):
		return KindTar, nil
	default:
		return KindNone, nil
	}
}

// SniffFile detects the archive format of the file at path.
// Directories are never archives.
func SniffFile(path string) (Kind, error) {
	info, err := os.Stat(path)
	if err != nil {
		return KindNone, zerr.With(zerr.Wrap(err, "failed to stat artifact"), "path", path)
	}
	if info.IsDir() {
		return KindNone, nil
	}

	f, err := os.Open(path) //nolint:gosec // Path is controlled by caller
	if err != nil {
		return KindNone, zerr.With(zerr.Wrap(err, "failed to open artifact"), "path", path)
	}
	defer f.Close() //nolint:errcheck // Best effort close in defer

	return Sniff(f)
}
