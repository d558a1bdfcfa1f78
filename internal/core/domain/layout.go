package domain

import "path/filepath"

const (
	// WorkDirName is the name of the per-project working directory.
	WorkDirName = ".sdkpkg"

	// ArtifactsDirName is the name of the directory archived artifacts are unpacked into.
	ArtifactsDirName = "artifacts"

	// StoreDirName is the name of the directory holding the extraction store.
	StoreDirName = "store"

	// ExtractionStoreFile is the name of the extraction store file.
	ExtractionStoreFile = "extractions.json"

	// ManifestFileName is the default manifest file name.
	ManifestFileName = "sdkpkg.yaml"

	// DirPerm is the default permission for directories (rwxr-x---).
	DirPerm = 0o750

	// FilePerm is the default permission for files (rw-r--r--).
	FilePerm = 0o644
)

// DefaultWorkPath returns the default root directory for sdkpkg metadata.
func DefaultWorkPath() string {
	return WorkDirName
}

// DefaultArtifactCachePath returns the default directory archived artifacts are unpacked into.
// It joins .sdkpkg and artifacts.
func DefaultArtifactCachePath() string {
	return filepath.Join(WorkDirName, ArtifactsDirName)
}

// DefaultStorePath returns the default path of the extraction store file.
// It joins .sdkpkg, store and extractions.json.
func DefaultStorePath() string {
	return filepath.Join(WorkDirName, StoreDirName, ExtractionStoreFile)
}
