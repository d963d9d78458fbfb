package types

type BumpLevel string

const (
	BumpLevelPatch BumpLevel = "patch"
	BumpLevelMinor BumpLevel = "minor"
	BumpLevelMajor BumpLevel = "major"
)

// ParseBumpLevel accepts the lowercase level names used on the command line.
func ParseBumpLevel(value string) (BumpLevel, bool) {
	switch BumpLevel(value) {
	case BumpLevelPatch, BumpLevelMinor, BumpLevelMajor:
		return BumpLevel(value), true
	default:
		return "", false
	}
}

// DependencyTable names a dependency table of a manifest.
type DependencyTable string

const (
	DependencyTableNormal    DependencyTable = "dependencies"
	DependencyTableDev       DependencyTable = "dev-dependencies"
	DependencyTableBuild     DependencyTable = "build-dependencies"
	DependencyTableWorkspace DependencyTable = "workspace.dependencies"
)

type ManifestErrorKind string

const (
	ManifestErrorIO        ManifestErrorKind = "io"
	ManifestErrorParse     ManifestErrorKind = "parse"
	ManifestErrorSerialize ManifestErrorKind = "serialize"
)

// PersistMode selects which manifests the propagation engine writes back.
type PersistMode string

const (
	// PersistModeAggregators writes the root and every member without a
	// [package] table. Members whose own version was updated in memory are
	// left untouched on disk.
	PersistModeAggregators PersistMode = "aggregators"
	// PersistModeChanged writes the root and every member whose content changed.
	PersistModeChanged PersistMode = "changed"
	// PersistModeNone writes nothing.
	PersistModeNone PersistMode = "none"
)
