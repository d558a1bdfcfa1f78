package archive

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdkpkg/internal/core/ports"
)

// NodeID is the unique identifier for the archive extractor node.
const NodeID graft.ID = "adapter.archive_extractor"

func init() {
	graft.Register(graft.Node[ports.ArchiveExtractor]{
		ID:        NodeID,
		Cacheable: true,
		Run: func(_ context.Context) (ports.ArchiveExtractor, error) {
			return NewExtractor(), nil
		},
	})
}
