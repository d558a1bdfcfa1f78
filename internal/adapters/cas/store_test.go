package cas_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/adapters/cas"
	"go.trai.ch/sdkpkg/internal/core/domain"
)

func TestStore_PutAndGet(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "extractions.json"))
	require.NoError(t, err)

	rec := domain.ExtractionRecord{
		ArtifactPath: "/pkg/Sources/SDK.archive",
		Fingerprint:  "0123456789abcdef",
		Dir:          "/cache/SDK-0123456789abcdef",
		Timestamp:    time.Now().UTC(),
	}
	require.NoError(t, store.Put(rec))

	got, err := store.Get(rec.ArtifactPath)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, rec.Dir, got.Dir)
	assert.Equal(t, rec.Fingerprint, got.Fingerprint)
}

func TestStore_GetMissing(t *testing.T) {
	store, err := cas.NewStore(filepath.Join(t.TempDir(), "extractions.json"))
	require.NoError(t, err)

	got, err := store.Get("/nowhere")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_Persistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "store", "extractions.json")

	first, err := cas.NewStore(path)
	require.NoError(t, err)
	require.NoError(t, first.Put(domain.ExtractionRecord{ArtifactPath: "/a.zip", Fingerprint: "xyz", Dir: "/cache/a"}))

	second, err := cas.NewStore(path)
	require.NoError(t, err)
	got, err := second.Get("/a.zip")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "xyz", got.Fingerprint)
}

func TestStore_Delete(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractions.json")
	store, err := cas.NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Put(domain.ExtractionRecord{ArtifactPath: "/a.zip", Fingerprint: "xyz"}))
	require.NoError(t, store.Delete("/a.zip"))
	require.NoError(t, store.Delete("/a.zip"))

	reloaded, err := cas.NewStore(path)
	require.NoError(t, err)
	got, err := reloaded.Get("/a.zip")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestStore_OmitZero(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractions.json")
	store, err := cas.NewStore(path)
	require.NoError(t, err)

	require.NoError(t, store.Put(domain.ExtractionRecord{ArtifactPath: "/a.zip"}))

	content, err := os.ReadFile(path) //nolint:gosec // Test file with controlled path
	require.NoError(t, err)

	s := string(content)
	assert.Contains(t, s, "artifact_path")
	assert.False(t, strings.Contains(s, "fingerprint"), "zero fingerprint should be omitted")
	assert.False(t, strings.Contains(s, "timestamp"), "zero timestamp should be omitted")
}

func TestStore_CorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractions.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := cas.NewStore(path)
	assert.ErrorContains(t, err, "failed to unmarshal extraction store")
}

func TestStore_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "extractions.json")
	require.NoError(t, os.WriteFile(path, nil, 0o600))

	_, err := cas.NewStore(path)
	require.NoError(t, err)
}
