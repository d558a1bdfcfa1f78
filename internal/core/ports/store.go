package ports

import "go.trai.ch/sdkpkg/internal/core/domain"

// ExtractionStore remembers completed extractions across sessions.
//
//go:generate go run go.uber.org/mock/mockgen -source=store.go -destination=mocks/mock_store.go -package=mocks
type ExtractionStore interface {
	// Get retrieves the record for an artifact path.
	// Returns nil, nil if not found.
	Get(artifactPath string) (*domain.ExtractionRecord, error)

	// Put stores the record.
	Put(record domain.ExtractionRecord) error

	// Delete forgets the record for an artifact path.
	Delete(artifactPath string) error
}
