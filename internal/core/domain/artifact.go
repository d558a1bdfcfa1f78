package domain

import (
	"slices"
	"time"
)

// LibrarySlice is one platform slice of a multi-platform binary bundle.
type LibrarySlice struct {
	// Identifier is the slice directory name, e.g. "ios-arm64_x86_64-simulator".
	Identifier string
	Family     PlatformFamily
	// Variant is empty for device slices and e.g. "simulator" otherwise.
	Variant       string
	Architectures []string
	// MinVersion is the minimum OS version embedded in the slice, zero when the slice does not declare one.
	MinVersion Version
	// Path is the absolute path of the library inside the slice.
	Path string
}

// Supports reports whether the slice can be linked into a build for the consumer platform.
func (s *LibrarySlice) Supports(consumer Platform) bool {
	if s.Family != consumer.Family || s.Variant != consumer.Variant {
		return false
	}
	if consumer.Arch != "" && !slices.Contains(s.Architectures, consumer.Arch) {
		return false
	}
	if !s.MinVersion.IsZero() && !consumer.Version.AtLeast(s.MinVersion) {
		return false
	}
	return true
}

// ArtifactMetadata is the platform information read from an artifact bundle.
type ArtifactMetadata struct {
	// BundlePath is the absolute path of the bundle directory.
	BundlePath string
	// FormatVersion is the bundle format version declared by the artifact.
	FormatVersion string
	Slices        []LibrarySlice
}

// ArtifactHandle is a located, unpacked and inspected binary artifact.
// A resolver hands out one handle per artifact path for the whole session.
type ArtifactHandle struct {
	Target InternedString
	// ArtifactPath is the absolute path of the artifact as shipped.
	ArtifactPath string
	// Root is the directory the artifact was unpacked to, or ArtifactPath for unarchived bundles.
	Root string
	// Fingerprint identifies the artifact content.
	Fingerprint string
	Metadata    ArtifactMetadata
}

// SliceFor returns the first slice compatible with the consumer platform.
func (h *ArtifactHandle) SliceFor(consumer Platform) (LibrarySlice, bool) {
	for i := range h.Metadata.Slices {
		if h.Metadata.Slices[i].Supports(consumer) {
			return h.Metadata.Slices[i], true
		}
	}
	return LibrarySlice{}, false
}

// ResolutionKind tells the consumer what to do with a resolved product.
type ResolutionKind string

const (
	// ResolutionLinkable means the product is a prebuilt library ready to link.
	ResolutionLinkable ResolutionKind = "linkable"
	// ResolutionCompileFromSource means the consumer has to build the product's sources.
	ResolutionCompileFromSource ResolutionKind = "compile-from-source"
)

// ResolvedProduct is the outcome of resolving one product for a consumer platform.
type ResolvedProduct struct {
	Package InternedString
	Product Product
	Kind    ResolutionKind

	// Artifact and Slice are set for linkable products.
	Artifact *ArtifactHandle
	Slice    LibrarySlice

	// Source is set for compile-from-source products.
	Source *SourceTarget
}

// ExtractionRecord remembers where an archived artifact was unpacked.
type ExtractionRecord struct {
	ArtifactPath string    `json:"artifact_path,omitzero"`
	Fingerprint  string    `json:"fingerprint,omitzero"`
	Dir          string    `json:"dir,omitzero"`
	Timestamp    time.Time `json:"timestamp,omitzero"`
}
