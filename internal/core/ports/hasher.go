package ports

// Hasher computes digests of artifact files.
//
//go:generate go run go.uber.org/mock/mockgen -source=hasher.go -destination=mocks/mock_hasher.go -package=mocks
type Hasher interface {
	// Fingerprint returns a fast content hash used to key unpacked artifacts.
	Fingerprint(path string) (string, error)

	// Checksum returns the lowercase hex SHA-256 of the file, as declared in manifests.
	Checksum(path string) (string, error)
}
