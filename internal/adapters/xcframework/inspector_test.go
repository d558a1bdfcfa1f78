package xcframework_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/adapters/xcframework"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/testutil"
)

func TestInspector_Inspect(t *testing.T) {
	bundle := testutil.WriteXCFramework(t, t.TempDir(), "SDK",
		testutil.IOSDevice("14.0"),
		testutil.IOSSimulator(),
		testutil.MacOS(),
	)

	meta, err := xcframework.NewInspector().Inspect(bundle)
	require.NoError(t, err)

	assert.Equal(t, bundle, meta.BundlePath)
	assert.Equal(t, "1.0", meta.FormatVersion)
	require.Len(t, meta.Slices, 3)

	device := meta.Slices[0]
	assert.Equal(t, "ios-arm64", device.Identifier)
	assert.Equal(t, domain.PlatformIOS, device.Family)
	assert.Empty(t, device.Variant)
	assert.Equal(t, []string{"arm64"}, device.Architectures)
	assert.Equal(t, "14.0", device.MinVersion.String())
	assert.Equal(t, filepath.Join(bundle, "ios-arm64", "SDK.framework"), device.Path)

	sim := meta.Slices[1]
	assert.Equal(t, "simulator", sim.Variant)
	assert.True(t, sim.MinVersion.IsZero())
	assert.Equal(t, filepath.Join(bundle, "ios-arm64_x86_64-simulator", "libSDK.a"), sim.Path)

	assert.Equal(t, domain.PlatformMacOS, meta.Slices[2].Family)
}

func TestInspector_FindsNestedBundle(t *testing.T) {
	root := t.TempDir()
	bundle := testutil.WriteXCFramework(t, filepath.Join(root, "Release"), "SDK", testutil.MacOS())

	meta, err := xcframework.NewInspector().Inspect(root)
	require.NoError(t, err)
	assert.Equal(t, bundle, meta.BundlePath)
}

func TestInspector_MapsPlatformNames(t *testing.T) {
	bundle := testutil.WriteXCFramework(t, t.TempDir(), "SDK",
		testutil.Slice{Identifier: "ios-arm64_x86_64-maccatalyst", Platform: "ios", Variant: "maccatalyst", Architectures: []string{"arm64", "x86_64"}},
		testutil.Slice{Identifier: "xros-arm64", Platform: "xros", Architectures: []string{"arm64"}},
		testutil.Slice{Identifier: "future-arm64", Platform: "futureos", Architectures: []string{"arm64"}},
	)

	meta, err := xcframework.NewInspector().Inspect(bundle)
	require.NoError(t, err)
	require.Len(t, meta.Slices, 2, "slices for unknown platforms are ignored")

	assert.Equal(t, domain.PlatformMacCatalyst, meta.Slices[0].Family)
	assert.Empty(t, meta.Slices[0].Variant)
	assert.Equal(t, domain.PlatformVisionOS, meta.Slices[1].Family)
}

func TestInspector_Errors(t *testing.T) {
	t.Run("no bundle", func(t *testing.T) {
		root := t.TempDir()
		testutil.WriteFile(t, filepath.Join(root, "README"), "nothing here")

		_, err := xcframework.NewInspector().Inspect(root)
		assert.ErrorContains(t, err, "no .xcframework bundle found")
	})

	t.Run("unreadable plist", func(t *testing.T) {
		bundle := filepath.Join(t.TempDir(), "SDK.xcframework")
		testutil.WriteFile(t, filepath.Join(bundle, "Info.plist"), "<plist><dict><key>")

		_, err := xcframework.NewInspector().Inspect(bundle)
		assert.ErrorContains(t, err, "failed to parse bundle metadata")
	})

	t.Run("missing plist", func(t *testing.T) {
		bundle := filepath.Join(t.TempDir(), "SDK.xcframework")
		testutil.WriteFile(t, filepath.Join(bundle, "ios-arm64", "libSDK.a"), "lib")

		_, err := xcframework.NewInspector().Inspect(bundle)
		assert.ErrorContains(t, err, "failed to read bundle metadata")
	})

	t.Run("no known libraries", func(t *testing.T) {
		bundle := testutil.WriteXCFramework(t, t.TempDir(), "SDK",
			testutil.Slice{Identifier: "future-arm64", Platform: "futureos", Architectures: []string{"arm64"}},
		)

		_, err := xcframework.NewInspector().Inspect(bundle)
		assert.ErrorContains(t, err, "bundle declares no usable libraries")
	})
}
