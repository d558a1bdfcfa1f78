package progrock_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.trai.ch/sdkpkg/internal/adapters/telemetry/progrock"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
)

func TestRecorder_RecordAttachesVertex(t *testing.T) {
	recorder := progrock.New()

	ctx, vertex := recorder.Record(context.Background(), "resolve SDK")
	require.NotNil(t, vertex)

	got, ok := ports.VertexFromContext(ctx)
	require.True(t, ok)
	assert.Same(t, vertex, got)

	_, err := vertex.Stdout().Write([]byte("extracting\n"))
	require.NoError(t, err)
	vertex.Log(domain.LogLevelDebug, "debug msg")
	vertex.Log(domain.LogLevelWarn, "warn msg")
	vertex.Complete(nil)

	require.NoError(t, recorder.Close())
}

func TestRecorder_CachedAndFailed(t *testing.T) {
	recorder := progrock.New()

	_, cached := recorder.Record(context.Background(), "artifact cached")
	cached.Cached()
	cached.Complete(nil)

	_, failed := recorder.Record(context.Background(), "artifact failed")
	failed.Complete(errors.New("boom"))

	require.NoError(t, recorder.Close())
	require.NoError(t, recorder.Close())
}

func TestVertexFromContext_Missing(t *testing.T) {
	_, ok := ports.VertexFromContext(context.Background())
	assert.False(t, ok)
}
