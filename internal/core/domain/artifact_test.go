package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/core/domain"
)

func TestLibrarySlice_Supports(t *testing.T) {
	device := domain.LibrarySlice{
		Identifier:    "ios-arm64",
		Family:        domain.PlatformIOS,
		Architectures: []string{"arm64"},
		MinVersion:    domain.MustParseVersion("14.0"),
	}
	simulator := domain.LibrarySlice{
		Identifier:    "ios-arm64_x86_64-simulator",
		Family:        domain.PlatformIOS,
		Variant:       "simulator",
		Architectures: []string{"arm64", "x86_64"},
	}

	ios := func(version, variant, arch string) domain.Platform {
		return domain.Platform{
			Family:  domain.PlatformIOS,
			Version: domain.MustParseVersion(version),
			Variant: variant,
			Arch:    arch,
		}
	}

	assert.True(t, device.Supports(ios("14", "", "")))
	assert.True(t, device.Supports(ios("17.2", "", "arm64")))
	assert.False(t, device.Supports(ios("13", "", "")), "below the slice minimum")
	assert.False(t, device.Supports(ios("17", "", "x86_64")), "architecture not in slice")
	assert.False(t, device.Supports(ios("17", "simulator", "")), "variant mismatch")

	assert.True(t, simulator.Supports(ios("12", "simulator", "x86_64")), "no embedded minimum")
	assert.False(t, simulator.Supports(domain.Platform{
		Family:  domain.PlatformMacOS,
		Version: domain.MustParseVersion("14"),
	}))
}

func TestArtifactHandle_SliceFor(t *testing.T) {
	h := &domain.ArtifactHandle{
		Metadata: domain.ArtifactMetadata{
			Slices: []domain.LibrarySlice{
				{Identifier: "ios-arm64", Family: domain.PlatformIOS, Architectures: []string{"arm64"}},
				{
					Identifier:    "ios-arm64-simulator",
					Family:        domain.PlatformIOS,
					Variant:       "simulator",
					Architectures: []string{"arm64"},
				},
			},
		},
	}

	slice, ok := h.SliceFor(domain.Platform{
		Family:  domain.PlatformIOS,
		Version: domain.MustParseVersion("16"),
		Variant: "simulator",
	})
	require.True(t, ok)
	assert.Equal(t, "ios-arm64-simulator", slice.Identifier)

	_, ok = h.SliceFor(domain.Platform{Family: domain.PlatformTVOS, Version: domain.MustParseVersion("16")})
	assert.False(t, ok)
}
