package testutil

import (
	"archive/tar"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"
)

// Zip archives the contents of srcDir into dest. Entry names are relative to srcDir.
func Zip(t *testing.T, srcDir, dest string) string {
	t.Helper()

	out, err := os.Create(dest) //nolint:gosec // test fixture path
	require.NoError(t, err)
	defer out.Close() //nolint:errcheck // closed explicitly below

	zw := zip.NewWriter(out)
	walk(t, srcDir, func(rel string, info fs.FileInfo, path string) {
		hdr, err := zip.FileInfoHeader(info)
		require.NoError(t, err)
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		} else {
			hdr.Method = zip.Deflate
		}

		w, err := zw.CreateHeader(hdr)
		require.NoError(t, err)
		if !info.IsDir() {
			copyFile(t, w, path)
		}
	})
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return dest
}

// TarGz archives the contents of srcDir into a gzip-compressed tar at dest.
func TarGz(t *testing.T, srcDir, dest string) string {
	t.Helper()

	out, err := os.Create(dest) //nolint:gosec // test fixture path
	require.NoError(t, err)
	defer out.Close() //nolint:errcheck // closed explicitly below

	gz := gzip.NewWriter(out)
	writeTar(t, srcDir, gz)
	require.NoError(t, gz.Close())
	require.NoError(t, out.Close())
	return dest
}

// TarZst archives the contents of srcDir into a zstd-compressed tar at dest.
func TarZst(t *testing.T, srcDir, dest string) string {
	t.Helper()

	out, err := os.Create(dest) //nolint:gosec // test fixture path
	require.NoError(t, err)
	defer out.Close() //nolint:errcheck // closed explicitly below

	zw, err := zstd.NewWriter(out)
	require.NoError(t, err)
	writeTar(t, srcDir, zw)
	require.NoError(t, zw.Close())
	require.NoError(t, out.Close())
	return dest
}

func writeTar(t *testing.T, srcDir string, w io.Writer) {
	t.Helper()

	tw := tar.NewWriter(w)
	walk(t, srcDir, func(rel string, info fs.FileInfo, path string) {
		hdr, err := tar.FileInfoHeader(info, "")
		require.NoError(t, err)
		hdr.Name = filepath.ToSlash(rel)
		if info.IsDir() {
			hdr.Name += "/"
		}
		require.NoError(t, tw.WriteHeader(hdr))
		if !info.IsDir() {
			copyFile(t, tw, path)
		}
	})
	require.NoError(t, tw.Close())
}

func walk(t *testing.T, root string, fn func(rel string, info fs.FileInfo, path string)) {
	t.Helper()
	err := filepath.Walk(root, func(path string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		fn(rel, info, path)
		return nil
	})
	require.NoError(t, err)
}

func copyFile(t *testing.T, w io.Writer, path string) {
	t.Helper()
	f, err := os.Open(path) //nolint:gosec // test fixture path
	require.NoError(t, err)
	defer f.Close() //nolint:errcheck // read only
	_, err = io.Copy(w, f)
	require.NoError(t, err)
}
