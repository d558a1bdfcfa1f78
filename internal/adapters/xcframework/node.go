package xcframework

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdkpkg/internal/core/ports"
)

// NodeID is the unique identifier for the metadata inspector node.
const NodeID graft.ID = "adapter.metadata_inspector"

func init() {
	graft.Register(graft.Node[ports.MetadataInspector]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.MetadataInspector, error) {
			return NewInspector(), nil
		},
	})
}
