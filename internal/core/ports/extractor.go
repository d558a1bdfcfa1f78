package ports

import "context"

// ArchiveExtractor unpacks archived artifacts.
//
//go:generate go run go.uber.org/mock/mockgen -source=extractor.go -destination=mocks/mock_extractor.go -package=mocks
type ArchiveExtractor interface {
	// IsArchive reports whether the file at path is an archive this extractor can unpack.
	IsArchive(path string) (bool, error)

	// Extract unpacks the archive at archivePath into destDir.
	// destDir must not exist yet; on failure nothing is left behind at destDir.
	Extract(ctx context.Context, archivePath, destDir string) error
}
