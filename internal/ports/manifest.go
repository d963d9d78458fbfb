package ports

import "cargo-set/internal/types"

// ManifestCodecPort converts between Cargo.toml bytes and structural content.
type ManifestCodecPort interface {
	// Decode parses data. Failures carry errbuilder.CodeInvalidArgument.
	Decode(data []byte) (*types.Manifest, error)

	// Encode serializes manifest. A decoded manifest comes back as its input
	// bytes with only changed version values rewritten; other changes fall
	// back to re-encoding Document with the typed fields laid over it.
	// Failures carry errbuilder.CodeInternal.
	Encode(manifest *types.Manifest) ([]byte, error)
}
