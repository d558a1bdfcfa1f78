package cas

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
)

// NodeID is the unique identifier for the extraction store node.
const NodeID graft.ID = "adapter.extraction_store"

func init() {
	graft.Register(graft.Node[ports.ExtractionStore]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ExtractionStore, error) {
			return NewStore(domain.DefaultStorePath())
		},
	})
}
