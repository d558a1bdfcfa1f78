package domain

import "go.trai.ch/zerr"

var (
	// ErrMalformedManifest is returned when a manifest is missing required fields or
	// references something it does not declare.
	ErrMalformedManifest = zerr.New("malformed manifest")

	// ErrUnsupportedPlatform is returned when a manifest declares no platform or an unknown platform family.
	ErrUnsupportedPlatform = zerr.New("unsupported platform")

	// ErrUnknownProduct is returned when a requested product is not declared by the package.
	ErrUnknownProduct = zerr.New("unknown product")

	// ErrArtifactNotFound is returned when a binary target's artifact path does not resolve.
	ErrArtifactNotFound = zerr.New("artifact not found")

	// ErrIncompatiblePlatform is returned when the consumer platform does not satisfy the
	// package constraints or the artifact metadata.
	ErrIncompatiblePlatform = zerr.New("incompatible platform")

	// ErrCorruptArtifact is returned when an artifact cannot be unpacked or its metadata is unreadable.
	ErrCorruptArtifact = zerr.New("corrupt artifact")

	// ErrResolutionTimeout is returned when the caller's deadline expires during resolution.
	ErrResolutionTimeout = zerr.New("resolution timed out")

	// ErrInvalidVersion is returned when a version string is not a dotted numeric version.
	ErrInvalidVersion = zerr.New("invalid version, expected a dotted numeric version such as 14 or 17.2")

	// ErrInvalidPlatformSpec is returned when a consumer platform specification is malformed.
	ErrInvalidPlatformSpec = zerr.New("invalid platform specification, expected format: family@version")

	// ErrManifestReadFailed is returned when the manifest file cannot be read.
	ErrManifestReadFailed = zerr.New("failed to read manifest")

	// ErrUnknownManifestFormat is returned when the manifest file extension is not recognized.
	ErrUnknownManifestFormat = zerr.New("unknown manifest format, expected .yaml, .yml, .toml or .hcl")

	// ErrStoreReadFailed is returned when the extraction store cannot be read.
	ErrStoreReadFailed = zerr.New("failed to read extraction store")

	// ErrStoreUnmarshalFailed is returned when the extraction store cannot be unmarshaled.
	ErrStoreUnmarshalFailed = zerr.New("failed to unmarshal extraction store")

	// ErrStoreMarshalFailed is returned when the extraction store cannot be marshaled.
	ErrStoreMarshalFailed = zerr.New("failed to marshal extraction store")

	// ErrStoreWriteFailed is returned when the extraction store cannot be written.
	ErrStoreWriteFailed = zerr.New("failed to write extraction store")

	// ErrFileOpenFailed is returned when a file cannot be opened.
	ErrFileOpenFailed = zerr.New("failed to open file")

	// ErrFileHashFailed is returned when hashing a file fails.
	ErrFileHashFailed = zerr.New("failed to hash file content")

	// ErrCacheCleanFailed is returned when the artifact cache cannot be removed.
	ErrCacheCleanFailed = zerr.New("failed to clean artifact cache")
)
