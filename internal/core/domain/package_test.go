package domain_test

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/core/domain"
)

func validSpec() *domain.PackageSpec {
	return &domain.PackageSpec{
		Name:         "SDK",
		ToolsVersion: "5.10",
		Root:         "/work/sdk",
		Platforms:    []domain.PlatformSpec{{Family: "iOS", MinVersion: "14"}},
		Products:     []domain.ProductSpec{{Name: "SDK", Type: "library", Targets: []string{"SDKBinary"}}},
		Targets:      []domain.TargetSpec{{Name: "SDKBinary", Type: "binary", Path: "Sources/SDK.archive"}},
	}
}

func TestNewPackage_Valid(t *testing.T) {
	pkg, err := domain.NewPackage(validSpec())
	require.NoError(t, err)

	assert.Equal(t, "SDK", pkg.Name.String())
	assert.Equal(t, "5.10", pkg.ToolsVersion.String())
	require.Len(t, pkg.Platforms, 1)
	assert.Equal(t, domain.PlatformIOS, pkg.Platforms[0].Family)

	product, ok := pkg.Product("SDK")
	require.True(t, ok)
	assert.Equal(t, domain.ProductTypeLibrary, product.Type)
	assert.Equal(t, domain.LinkageAutomatic, product.Linkage)
	assert.Equal(t, "SDKBinary", product.Target.String())

	target, ok := pkg.Target(product.Target)
	require.True(t, ok)
	require.Equal(t, domain.TargetKindBinary, target.Kind)
	require.NotNil(t, target.Binary)
	assert.Nil(t, target.Source)
	assert.Equal(t, "Sources/SDK.archive", target.Binary.Path)
	assert.Equal(t, filepath.Join("/work/sdk", "Sources", "SDK.archive"), target.Binary.ArtifactPath)

	_, ok = pkg.Product("Missing")
	assert.False(t, ok)
}

func TestNewPackage_SourceTargetDefaults(t *testing.T) {
	spec := validSpec()
	spec.Targets = append(spec.Targets, domain.TargetSpec{Name: "Glue"})
	spec.Products = append(spec.Products, domain.ProductSpec{Name: "Glue", Linkage: "static", Targets: []string{"Glue"}})

	pkg, err := domain.NewPackage(spec)
	require.NoError(t, err)

	target, ok := pkg.Target(domain.NewInternedString("Glue"))
	require.True(t, ok)
	assert.Equal(t, domain.TargetKindSource, target.Kind)
	require.NotNil(t, target.Source)
	assert.Equal(t, filepath.Join("Sources", "Glue"), target.Source.Path)

	product, ok := pkg.Product("Glue")
	require.True(t, ok)
	assert.Equal(t, domain.LinkageStatic, product.Linkage)
}

func TestNewPackage_Errors(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*domain.PackageSpec)
		wantErr error
		msg     string
	}{
		{
			name:    "missing name",
			mutate:  func(s *domain.PackageSpec) { s.Name = " " },
			wantErr: domain.ErrMalformedManifest,
			msg:     "package name is required",
		},
		{
			name:    "no products",
			mutate:  func(s *domain.PackageSpec) { s.Products = nil },
			wantErr: domain.ErrMalformedManifest,
			msg:     "at least one product",
		},
		{
			name:    "no targets",
			mutate:  func(s *domain.PackageSpec) { s.Targets = nil },
			wantErr: domain.ErrMalformedManifest,
			msg:     "at least one target",
		},
		{
			name:    "product references nonexistent target",
			mutate:  func(s *domain.PackageSpec) { s.Products[0].Targets = []string{"Nope"} },
			wantErr: domain.ErrMalformedManifest,
			msg:     "undeclared target",
		},
		{
			name:    "product without target",
			mutate:  func(s *domain.PackageSpec) { s.Products[0].Targets = nil },
			wantErr: domain.ErrMalformedManifest,
			msg:     "exactly one target",
		},
		{
			name: "product with two targets",
			mutate: func(s *domain.PackageSpec) {
				s.Targets = append(s.Targets, domain.TargetSpec{Name: "Other"})
				s.Products[0].Targets = []string{"SDKBinary", "Other"}
			},
			wantErr: domain.ErrMalformedManifest,
			msg:     "exactly one target",
		},
		{
			name:    "duplicate product",
			mutate:  func(s *domain.PackageSpec) { s.Products = append(s.Products, s.Products[0]) },
			wantErr: domain.ErrMalformedManifest,
			msg:     "duplicate product",
		},
		{
			name:    "duplicate target",
			mutate:  func(s *domain.PackageSpec) { s.Targets = append(s.Targets, s.Targets[0]) },
			wantErr: domain.ErrMalformedManifest,
			msg:     "duplicate target",
		},
		{
			name:    "unsupported product type",
			mutate:  func(s *domain.PackageSpec) { s.Products[0].Type = "executable" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "unsupported product type",
		},
		{
			name:    "unknown linkage",
			mutate:  func(s *domain.PackageSpec) { s.Products[0].Linkage = "weak" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "linkage",
		},
		{
			name:    "unknown target type",
			mutate:  func(s *domain.PackageSpec) { s.Targets[0].Type = "plugin" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "unknown target type",
		},
		{
			name:    "binary target without path",
			mutate:  func(s *domain.PackageSpec) { s.Targets[0].Path = "" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "path is required",
		},
		{
			name:    "absolute binary path",
			mutate:  func(s *domain.PackageSpec) { s.Targets[0].Path = "/tmp/SDK.zip" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "must be relative",
		},
		{
			name:    "escaping binary path",
			mutate:  func(s *domain.PackageSpec) { s.Targets[0].Path = "../outside/SDK.zip" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "escapes the package root",
		},
		{
			name:    "bad checksum",
			mutate:  func(s *domain.PackageSpec) { s.Targets[0].Checksum = "abc" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "SHA-256",
		},
		{
			name:    "tools version too old for binary targets",
			mutate:  func(s *domain.PackageSpec) { s.ToolsVersion = "5.2" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "newer tools version",
		},
		{
			name:    "malformed tools version",
			mutate:  func(s *domain.PackageSpec) { s.ToolsVersion = "five" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "invalid tools version",
		},
		{
			name:    "no platforms",
			mutate:  func(s *domain.PackageSpec) { s.Platforms = nil },
			wantErr: domain.ErrUnsupportedPlatform,
			msg:     "declares no platform",
		},
		{
			name:    "unknown platform family",
			mutate:  func(s *domain.PackageSpec) { s.Platforms[0].Family = "android" },
			wantErr: domain.ErrUnsupportedPlatform,
			msg:     "unknown platform family",
		},
		{
			name: "duplicate platform family",
			mutate: func(s *domain.PackageSpec) {
				s.Platforms = append(s.Platforms, domain.PlatformSpec{Family: "ios", MinVersion: "15"})
			},
			wantErr: domain.ErrMalformedManifest,
			msg:     "more than once",
		},
		{
			name:    "malformed minimum version",
			mutate:  func(s *domain.PackageSpec) { s.Platforms[0].MinVersion = "" },
			wantErr: domain.ErrMalformedManifest,
			msg:     "invalid minimum version",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec := validSpec()
			tt.mutate(spec)

			pkg, err := domain.NewPackage(spec)
			require.Error(t, err)
			assert.Nil(t, pkg)
			assert.ErrorIs(t, err, tt.wantErr)
			if tt.msg != "" {
				assert.True(t, strings.Contains(err.Error(), tt.msg), "error %q should mention %q", err.Error(), tt.msg)
			}
		})
	}
}

func TestPackage_Supports(t *testing.T) {
	spec := validSpec()
	spec.Platforms = append(spec.Platforms, domain.PlatformSpec{Family: "macos", MinVersion: "12"})
	pkg, err := domain.NewPackage(spec)
	require.NoError(t, err)

	ios14 := domain.Platform{Family: domain.PlatformIOS, Version: domain.MustParseVersion("14")}
	ios12 := domain.Platform{Family: domain.PlatformIOS, Version: domain.MustParseVersion("12")}
	macos13 := domain.Platform{Family: domain.PlatformMacOS, Version: domain.MustParseVersion("13")}
	tvos17 := domain.Platform{Family: domain.PlatformTVOS, Version: domain.MustParseVersion("17")}

	assert.True(t, pkg.Supports(ios14))
	assert.False(t, pkg.Supports(ios12))
	assert.True(t, pkg.Supports(macos13))
	assert.False(t, pkg.Supports(tvos17))

	c, ok := pkg.Constraint(domain.PlatformMacOS)
	require.True(t, ok)
	assert.Equal(t, "12", c.MinVersion.String())
}
