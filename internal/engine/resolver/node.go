package resolver

import (
	"context"

	"github.com/grindlemire/graft"
	"go.trai.ch/sdkpkg/internal/adapters/archive"            //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/cas"                //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/fs"                 //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/logger"             //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/manifest"           //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/telemetry/progrock" //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/adapters/xcframework"        //nolint:depguard // Wired in engine wiring
	"go.trai.ch/sdkpkg/internal/core/domain"
	"go.trai.ch/sdkpkg/internal/core/ports"
)

// NodeID is the unique identifier for the resolver Graft node.
const NodeID graft.ID = "engine.resolver"

func init() {
	graft.Register(graft.Node[*Resolver]{
		ID:        NodeID,
		Cacheable: true,
		DependsOn: []graft.ID{
			manifest.NodeID,
			archive.NodeID,
			xcframework.NodeID,
			fs.HasherNodeID,
			cas.NodeID,
			progrock.NodeID,
			logger.NodeID,
		},
		Run: func(ctx context.Context) (*Resolver, error) {
			loader, err := graft.Dep[ports.ManifestLoader](ctx)
			if err != nil {
				return nil, err
			}

			extractor, err := graft.Dep[ports.ArchiveExtractor](ctx)
			if err != nil {
				return nil, err
			}

			inspector, err := graft.Dep[ports.MetadataInspector](ctx)
			if err != nil {
				return nil, err
			}

			hasher, err := graft.Dep[ports.Hasher](ctx)
			if err != nil {
				return nil, err
			}

			store, err := graft.Dep[ports.ExtractionStore](ctx)
			if err != nil {
				return nil, err
			}

			telemetry, err := graft.Dep[ports.Telemetry](ctx)
			if err != nil {
				return nil, err
			}

			log, err := graft.Dep[ports.Logger](ctx)
			if err != nil {
				return nil, err
			}

			return New(
				loader,
				extractor,
				inspector,
				hasher,
				store,
				telemetry,
				log,
				domain.DefaultArtifactCachePath(),
			), nil
		},
	})
}
