// Package ports defines the core interfaces for the application.
package ports

import "go.trai.ch/sdkpkg/internal/core/domain"

// ManifestLoader decodes a manifest file into a validated package.
//
//go:generate go run go.uber.org/mock/mockgen -source=manifest_loader.go -destination=mocks/mock_manifest_loader.go -package=mocks
type ManifestLoader interface {
	// Load reads the manifest at path. Relative binary target paths are resolved
	// against the directory containing the manifest.
	Load(path string) (*domain.Package, error)
}
