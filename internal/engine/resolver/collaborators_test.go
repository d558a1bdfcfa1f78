package resolver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
	"go.trai.ch/sdkpkg/internal/core/ports/mocks"
	"go.trai.ch/sdkpkg/internal/engine/resolver"
	"go.trai.ch/sdkpkg/internal/testutil"
	"go.uber.org/mock/gomock"
)

// collaborators holds a resolver whose every port is mocked.
type collaborators struct {
	loader    *mocks.MockManifestLoader
	extractor *mocks.MockArchiveExtractor
	inspector *mocks.MockMetadataInspector
	hasher    *mocks.MockHasher
	store     *mocks.MockExtractionStore
	logger    *mocks.MockLogger
	cacheDir  string
	resolver  *resolver.Resolver
}

func newCollaborators(t *testing.T) *collaborators {
	t.Helper()
	ctrl := gomock.NewController(t)

	vertex := mocks.NewMockVertex(ctrl)
	vertex.EXPECT().Log(gomock.Any(), gomock.Any()).AnyTimes()
	vertex.EXPECT().Complete(gomock.Any()).AnyTimes()
	vertex.EXPECT().Cached().AnyTimes()

	telemetry := mocks.NewMockTelemetry(ctrl)
	telemetry.EXPECT().Record(gomock.Any(), gomock.Any()).DoAndReturn(
		func(ctx context.Context, _ string) (context.Context, ports.Vertex) {
			return ctx, vertex
		}).AnyTimes()

	c := &collaborators{
		loader:    mocks.NewMockManifestLoader(ctrl),
		extractor: mocks.NewMockArchiveExtractor(ctrl),
		inspector: mocks.NewMockMetadataInspector(ctrl),
		hasher:    mocks.NewMockHasher(ctrl),
		store:     mocks.NewMockExtractionStore(ctrl),
		logger:    mocks.NewMockLogger(ctrl),
		cacheDir:  filepath.Join(t.TempDir(), "artifacts"),
	}
	c.resolver = resolver.New(c.loader, c.extractor, c.inspector, c.hasher, c.store, telemetry, c.logger, c.cacheDir)
	return c
}

func binaryTarget(t *testing.T, root string) *domain.BinaryTarget {
	t.Helper()
	pkg, err := domain.NewPackage(&domain.PackageSpec{
		Name:      "SDK",
		Root:      root,
		Platforms: []domain.PlatformSpec{{Family: "ios", MinVersion: "14"}},
		Products:  []domain.ProductSpec{{Name: "SDK", Targets: []string{"SDKBinary"}}},
		Targets:   []domain.TargetSpec{{Name: "SDKBinary", Type: "binary", Path: "Sources/SDK.archive"}},
	})
	require.NoError(t, err)
	target, ok := pkg.Target(domain.NewInternedString("SDKBinary"))
	require.True(t, ok)
	return target.Binary
}

func iosMetadata(bundle string) domain.ArtifactMetadata {
	return domain.ArtifactMetadata{
		BundlePath: bundle,
		Slices: []domain.LibrarySlice{{
			Identifier:    "ios-arm64",
			Family:        domain.PlatformIOS,
			Architectures: []string{"arm64"},
			Path:          filepath.Join(bundle, "ios-arm64", "libSDK.a"),
		}},
	}
}

func TestResolver_LoadManifestDelegates(t *testing.T) {
	c := newCollaborators(t)
	want := &domain.Package{Name: domain.NewInternedString("SDK")}
	c.loader.EXPECT().Load("pkg").Return(want, nil)

	got, err := c.resolver.LoadManifest("pkg")
	require.NoError(t, err)
	assert.Same(t, want, got)
}

func TestResolver_StoreFailuresOnlyWarn(t *testing.T) {
	c := newCollaborators(t)
	root := t.TempDir()
	target := binaryTarget(t, root)
	testutil.WriteFile(t, target.ArtifactPath, "archive")

	dest := filepath.Join(c.cacheDir, "SDKBinary-00ff")

	c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(true, nil)
	c.hasher.EXPECT().Fingerprint(target.ArtifactPath).Return("00ff", nil)
	c.store.EXPECT().Get(target.ArtifactPath).Return(nil, errors.New("store unreadable"))
	c.logger.EXPECT().Warn("failed to read extraction store: store unreadable")
	c.logger.EXPECT().Info("extracting SDKBinary")
	c.extractor.EXPECT().Extract(gomock.Any(), target.ArtifactPath, dest).DoAndReturn(
		func(_ context.Context, _, destDir string) error {
			return os.MkdirAll(destDir, 0o750)
		})
	c.store.EXPECT().Put(gomock.Any()).DoAndReturn(func(rec domain.ExtractionRecord) error {
		assert.Equal(t, dest, rec.Dir)
		assert.Equal(t, "00ff", rec.Fingerprint)
		return errors.New("disk full")
	})
	c.logger.EXPECT().Warn("failed to record extraction of SDKBinary: disk full")
	c.inspector.EXPECT().Inspect(dest).Return(iosMetadata(dest), nil)

	handle, err := c.resolver.ResolveArtifact(context.Background(), target, ios("17"))
	require.NoError(t, err)
	assert.Equal(t, dest, handle.Root)
	assert.Equal(t, "00ff", handle.Fingerprint)
}

func TestResolver_RecordedExtractionIsReused(t *testing.T) {
	c := newCollaborators(t)
	root := t.TempDir()
	target := binaryTarget(t, root)
	testutil.WriteFile(t, target.ArtifactPath, "archive")

	previous := filepath.Join(t.TempDir(), "earlier")
	require.NoError(t, os.MkdirAll(previous, 0o750))

	c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(true, nil)
	c.hasher.EXPECT().Fingerprint(target.ArtifactPath).Return("00ff", nil)
	c.store.EXPECT().Get(target.ArtifactPath).Return(&domain.ExtractionRecord{
		ArtifactPath: target.ArtifactPath,
		Fingerprint:  "00ff",
		Dir:          previous,
	}, nil)
	c.inspector.EXPECT().Inspect(previous).Return(iosMetadata(previous), nil)

	handle, err := c.resolver.ResolveArtifact(context.Background(), target, ios("17"))
	require.NoError(t, err)
	assert.Equal(t, previous, handle.Root)
}

func TestResolver_StaleRecordIsForgotten(t *testing.T) {
	c := newCollaborators(t)
	target := binaryTarget(t, t.TempDir())
	testutil.WriteFile(t, target.ArtifactPath, "archive")

	dest := filepath.Join(c.cacheDir, "SDKBinary-00ff")

	c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(true, nil)
	c.hasher.EXPECT().Fingerprint(target.ArtifactPath).Return("00ff", nil)
	c.store.EXPECT().Get(target.ArtifactPath).Return(&domain.ExtractionRecord{
		ArtifactPath: target.ArtifactPath,
		Fingerprint:  "00ff",
		Dir:          filepath.Join(t.TempDir(), "removed"),
	}, nil)
	gomock.InOrder(
		c.store.EXPECT().Delete(target.ArtifactPath).Return(nil),
		c.store.EXPECT().Put(gomock.Any()).Return(nil),
	)
	c.logger.EXPECT().Info("extracting SDKBinary")
	c.extractor.EXPECT().Extract(gomock.Any(), target.ArtifactPath, dest).DoAndReturn(
		func(_ context.Context, _, destDir string) error {
			return os.MkdirAll(destDir, 0o750)
		})
	c.inspector.EXPECT().Inspect(dest).Return(iosMetadata(dest), nil)

	handle, err := c.resolver.ResolveArtifact(context.Background(), target, ios("17"))
	require.NoError(t, err)
	assert.Equal(t, dest, handle.Root)
}

func TestResolver_CollaboratorFailuresAreCorrupt(t *testing.T) {
	tests := []struct {
		name   string
		expect func(c *collaborators, target *domain.BinaryTarget)
	}{
		{
			name: "sniffing fails",
			expect: func(c *collaborators, target *domain.BinaryTarget) {
				c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(false, errors.New("permission denied"))
			},
		},
		{
			name: "fingerprint fails",
			expect: func(c *collaborators, target *domain.BinaryTarget) {
				c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(true, nil)
				c.hasher.EXPECT().Fingerprint(target.ArtifactPath).Return("", errors.New("read error"))
			},
		},
		{
			name: "metadata unreadable",
			expect: func(c *collaborators, target *domain.BinaryTarget) {
				dest := filepath.Join(c.cacheDir, "SDKBinary-00ff")
				require.NoError(t, os.MkdirAll(dest, 0o750))

				c.extractor.EXPECT().IsArchive(target.ArtifactPath).Return(true, nil)
				c.hasher.EXPECT().Fingerprint(target.ArtifactPath).Return("00ff", nil)
				c.store.EXPECT().Get(target.ArtifactPath).Return(nil, nil)
				c.store.EXPECT().Put(gomock.Any()).Return(nil)
				c.inspector.EXPECT().Inspect(dest).Return(domain.ArtifactMetadata{}, errors.New("no bundle"))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCollaborators(t)
			target := binaryTarget(t, t.TempDir())
			testutil.WriteFile(t, target.ArtifactPath, "archive")
			tt.expect(c, target)

			_, err := c.resolver.ResolveArtifact(context.Background(), target, ios("17"))
			require.ErrorIs(t, err, domain.ErrCorruptArtifact)
		})
	}
}
