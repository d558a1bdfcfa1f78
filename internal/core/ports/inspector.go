package ports

import "go.trai.ch/sdkpkg/internal/core/domain"

// MetadataInspector reads the platform metadata embedded in an unpacked artifact.
//
//go:generate go run go.uber.org/mock/mockgen -source=inspector.go -destination=mocks/mock_inspector.go -package=mocks
type MetadataInspector interface {
	// Inspect locates the bundle under root and returns its platform slices.
	Inspect(root string) (domain.ArtifactMetadata, error)
}
