// Package xcframework reads platform slices from .xcframework bundles.
package xcframework

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/zerr"
	"howett.net/plist"
)

const (
	// BundleExt is the directory extension of an XCFramework bundle.
	BundleExt = ".xcframework"
	// InfoPlist is the metadata file name inside bundles and frameworks.
	InfoPlist = "Info.plist"
	// PackageType is the CFBundlePackageType of an XCFramework.
	PackageType = "XFWK"
)

var (
	errNoBundle    = errors.New("no " + BundleExt + " bundle found")
	errNoLibraries = errors.New("bundle declares no usable libraries")
)

var _ ports.MetadataInspector = (*Inspector)(nil)

// Inspector implements ports.MetadataInspector for XCFramework bundles.
type Inspector struct{}

// NewInspector creates a new Inspector.
func NewInspector() *Inspector {
	return &Inspector{}
}

// Inspect locates the bundle at or under root and returns the slices it declares.
// Slices for platforms the resolver does not know are ignored.
func (i *Inspector) Inspect(root string) (domain.ArtifactMetadata, error) {
	bundle, err := FindBundle(root)
	if err != nil {
		return domain.ArtifactMetadata{}, err
	}

	info, err := readBundleInfo(bundle)
	if err != nil {
		return domain.ArtifactMetadata{}, err
	}
	if info.PackageType != "" && info.PackageType != PackageType {
		return domain.ArtifactMetadata{}, zerr.With(zerr.New("unexpected bundle package type"), "package_type", info.PackageType)
	}

	meta := domain.ArtifactMetadata{
		BundlePath:    bundle,
		FormatVersion: info.FormatVersion,
	}
	for _, lib := range info.AvailableLibraries {
		slice, ok, err := librarySlice(bundle, lib)
		if err != nil {
			return domain.ArtifactMetadata{}, zerr.With(err, "library", lib.Identifier)
		}
		if ok {
			meta.Slices = append(meta.Slices, slice)
		}
	}

	if len(meta.Slices) == 0 {
		return domain.ArtifactMetadata{}, zerr.With(zerr.Wrap(errNoLibraries, "cannot inspect bundle"), "path", bundle)
	}
	return meta, nil
}

// FindBundle returns root when it is a bundle, otherwise the first bundle
// among its entries or their children, in lexical order.
func FindBundle(root string) (string, error) {
	if isBundle(root) {
		return root, nil
	}

	level := []string{root}
	for depth := 0; depth < 2; depth++ {
		var next []string
		for _, dir := range level {
			entries, err := os.ReadDir(dir)
			if err != nil {
				return "", zerr.With(zerr.Wrap(err, "failed to read artifact directory"), "path", dir)
			}
			for _, e := range entries {
				if !e.IsDir() || e.Name() == "__MACOSX" {
					continue
				}
				path := filepath.Join(dir, e.Name())
				if isBundle(path) {
					return path, nil
				}
				next = append(next, path)
			}
		}
		level = next
	}

	return "", zerr.With(zerr.Wrap(errNoBundle, "cannot inspect artifact"), "path", root)
}

func isBundle(path string) bool {
	if !strings.EqualFold(filepath.Ext(path), BundleExt) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}

func readBundleInfo(bundle string) (*BundleInfo, error) {
	path := filepath.Join(bundle, InfoPlist)
	data, err := os.ReadFile(path) //nolint:gosec // path is inside the artifact
	if err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to read bundle metadata"), "path", path)
	}

	var info BundleInfo
	if _, err := plist.Unmarshal(data, &info); err != nil {
		return nil, zerr.With(zerr.Wrap(err, "failed to parse bundle metadata"), "path", path)
	}
	return &info, nil
}

// familyOf maps the platform names used in bundle metadata onto platform families.
func familyOf(platform, variant string) (domain.PlatformFamily, string, bool) {
	platform = strings.ToLower(platform)
	variant = strings.ToLower(variant)

	if platform == "ios" && variant == "maccatalyst" {
		return domain.PlatformMacCatalyst, "", true
	}
	if platform == "xros" {
		platform = string(domain.PlatformVisionOS)
	}

	family, ok := domain.ParsePlatformFamily(platform)
	return family, variant, ok
}

func librarySlice(bundle string, lib LibraryInfo) (domain.LibrarySlice, bool, error) {
	family, variant, ok := familyOf(lib.Platform, lib.Variant)
	if !ok {
		return domain.LibrarySlice{}, false, nil
	}
	if lib.Identifier == "" || lib.LibraryPath == "" {
		return domain.LibrarySlice{}, false, zerr.New("library entry is missing its identifier or path")
	}

	path := filepath.Join(bundle, lib.Identifier, lib.LibraryPath)
	if _, err := os.Stat(path); err != nil {
		return domain.LibrarySlice{}, false, zerr.With(zerr.Wrap(err, "library declared in metadata is missing"), "path", path)
	}

	minVersion, err := frameworkMinVersion(path)
	if err != nil {
		return domain.LibrarySlice{}, false, err
	}

	archs := slices.Clone(lib.Architectures)
	slices.Sort(archs)

	return domain.LibrarySlice{
		Identifier:    lib.Identifier,
		Family:        family,
		Variant:       variant,
		Architectures: archs,
		MinVersion:    minVersion,
		Path:          path,
	}, true, nil
}

// frameworkMinVersion reads the deployment target of a framework slice.
// Static libraries and frameworks without one yield the zero version.
func frameworkMinVersion(libraryPath string) (domain.Version, error) {
	if filepath.Ext(libraryPath) != ".framework" {
		return domain.Version{}, nil
	}

	for _, candidate := range []string{
		filepath.Join(libraryPath, InfoPlist),
		filepath.Join(libraryPath, "Resources", InfoPlist),
		filepath.Join(libraryPath, "Versions", "Current", "Resources", InfoPlist),
	} {
		data, err := os.ReadFile(candidate) //nolint:gosec // path is inside the artifact
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return domain.Version{}, zerr.With(zerr.Wrap(err, "failed to read framework metadata"), "path", candidate)
		}

		var info FrameworkInfo
		if _, err := plist.Unmarshal(data, &info); err != nil {
			return domain.Version{}, zerr.With(zerr.Wrap(err, "failed to parse framework metadata"), "path", candidate)
		}

		raw := info.MinimumOSVersion
		if raw == "" {
			raw = info.MinimumSystemVersion
		}
		if raw == "" {
			return domain.Version{}, nil
		}
		v, err := domain.ParseVersion(raw)
		if err != nil {
			return domain.Version{}, zerr.With(err, "path", candidate)
		}
		return v, nil
	}
	return domain.Version{}, nil
}
