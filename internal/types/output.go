package types

// FieldChange records one version field rewritten by the propagation engine.
type FieldChange struct {
	Path  string
	Field string
	Old   string
	New   string
}

type UpdateReport struct {
	Changes []FieldChange
	Written []string
}

// Changed reports whether any field of the manifest at path changed.
func (r UpdateReport) Changed(path string) bool {
	for _, change := range r.Changes {
		if change.Path == path {
			return true
		}
	}
	return false
}

type ManifestSummary struct {
	Path         string              `yaml:"path"`
	Root         bool                `yaml:"root,omitempty"`
	Package      string              `yaml:"package,omitempty"`
	Version      string              `yaml:"version,omitempty"`
	Members      []string            `yaml:"members,omitempty"`
	Dependencies []DependencySummary `yaml:"dependencies,omitempty"`
}

type DependencySummary struct {
	Table   DependencyTable `yaml:"table"`
	Name    string          `yaml:"name"`
	Kind    string          `yaml:"kind"`
	Version string          `yaml:"version,omitempty"`
}

// VersionDrift is a dependency requirement on a package of the graph that
// the package's current version does not satisfy.
type VersionDrift struct {
	Path        string
	Table       DependencyTable
	Name        string
	Requirement string
	Current     string
}
