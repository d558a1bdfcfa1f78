// Package testutil builds artifact fixtures for tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"howett.net/plist"
)

// Slice describes one platform slice of a fixture bundle.
type Slice struct {
	Identifier    string
	Platform      string
	Variant       string
	Architectures []string
	// MinVersion is written to the framework Info.plist when Framework is set.
	MinVersion string
	// Framework builds a .framework slice instead of a static library.
	Framework bool
}

// IOSDevice is an arm64 iOS device slice.
func IOSDevice(minVersion string) Slice {
	return Slice{
		Identifier:    "ios-arm64",
		Platform:      "ios",
		Architectures: []string{"arm64"},
		MinVersion:    minVersion,
		Framework:     minVersion != "",
	}
}

// IOSSimulator is a universal iOS simulator slice.
func IOSSimulator() Slice {
	return Slice{
		Identifier:    "ios-arm64_x86_64-simulator",
		Platform:      "ios",
		Variant:       "simulator",
		Architectures: []string{"arm64", "x86_64"},
	}
}

// MacOS is a universal macOS slice.
func MacOS() Slice {
	return Slice{
		Identifier:    "macos-arm64_x86_64",
		Platform:      "macos",
		Architectures: []string{"arm64", "x86_64"},
	}
}

type libraryInfo struct {
	Identifier    string   `plist:"LibraryIdentifier"`
	LibraryPath   string   `plist:"LibraryPath"`
	Architectures []string `plist:"SupportedArchitectures"`
	Platform      string   `plist:"SupportedPlatform"`
	Variant       string   `plist:"SupportedPlatformVariant,omitempty"`
}

type bundleInfo struct {
	AvailableLibraries []libraryInfo `plist:"AvailableLibraries"`
	PackageType        string        `plist:"CFBundlePackageType"`
	FormatVersion      string        `plist:"XCFrameworkFormatVersion"`
}

type frameworkInfo struct {
	BundleIdentifier string `plist:"CFBundleIdentifier"`
	MinimumOSVersion string `plist:"MinimumOSVersion,omitempty"`
}

// WriteXCFramework creates dir/<name>.xcframework containing the given slices
// and returns its path.
func WriteXCFramework(t *testing.T, dir, name string, slices ...Slice) string {
	t.Helper()

	bundle := filepath.Join(dir, name+".xcframework")
	info := bundleInfo{PackageType: "XFWK", FormatVersion: "1.0"}

	for _, s := range slices {
		sliceDir := filepath.Join(bundle, s.Identifier)
		lib := libraryInfo{
			Identifier:    s.Identifier,
			Architectures: s.Architectures,
			Platform:      s.Platform,
			Variant:       s.Variant,
		}

		if s.Framework {
			lib.LibraryPath = name + ".framework"
			fw := filepath.Join(sliceDir, lib.LibraryPath)
			WriteFile(t, filepath.Join(fw, name), "binary "+s.Identifier)
			writePlist(t, filepath.Join(fw, "Info.plist"), frameworkInfo{
				BundleIdentifier: "com.example." + name,
				MinimumOSVersion: s.MinVersion,
			})
		} else {
			lib.LibraryPath = "lib" + name + ".a"
			WriteFile(t, filepath.Join(sliceDir, lib.LibraryPath), "archive "+s.Identifier)
		}

		info.AvailableLibraries = append(info.AvailableLibraries, lib)
	}

	writePlist(t, filepath.Join(bundle, "Info.plist"), info)
	return bundle
}

// WriteFile writes content to path, creating parent directories.
func WriteFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func writePlist(t *testing.T, path string, v any) {
	t.Helper()
	data, err := plist.MarshalIndent(v, plist.XMLFormat, "\t")
	require.NoError(t, err)
	WriteFile(t, path, string(data))
}
