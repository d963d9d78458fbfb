package ports

import "cargo-set/internal/types"

// PersistencePolicyPort decides which manifests the propagation engine writes
// back after an update pass.
type PersistencePolicyPort interface {
	ShouldPersist(entry types.ManifestEntry, changed bool) bool
}
