package types

import "sort"

// ManifestFileName is the conventional manifest file name of a package or
// workspace directory.
const ManifestFileName = "Cargo.toml"

// Manifest is the structural content of one Cargo.toml.
type Manifest struct {
	Package           *Package
	Workspace         *Workspace
	Dependencies      Dependencies
	DevDependencies   Dependencies
	BuildDependencies Dependencies

	// Document is the full decoded TOML tree. The codec overlays the typed
	// fields onto it when the raw bytes cannot be patched in place.
	Document map[string]any

	// Raw holds the bytes the manifest was decoded from. Encoding patches
	// changed version values into it and leaves every other byte alone.
	Raw []byte
}

type Package struct {
	Name    string
	Version PackageVersion
}

// PackageVersion is either a concrete version string or a reference to the
// workspace level version (`version.workspace = true`).
type PackageVersion struct {
	Value     string
	Inherited bool
}

type Workspace struct {
	Members      []string
	Exclude      []string
	Dependencies Dependencies
	// PackageVersion is [workspace.package] version, empty when unset.
	PackageVersion string
}

// IsAggregator reports whether the manifest has no [package] table.
func (m *Manifest) IsAggregator() bool {
	return m.Package == nil
}

// HasMembers reports whether the manifest declares at least one member.
func (m *Manifest) HasMembers() bool {
	return m.Workspace != nil && len(m.Workspace.Members) > 0
}

// DependencySet is one dependency table of a manifest. Entries aliases the
// manifest's map, writes through it mutate the manifest.
type DependencySet struct {
	Table   DependencyTable
	Entries Dependencies
}

// DependencySets returns the non-empty dependency tables in a fixed order,
// [workspace.dependencies] last.
func (m *Manifest) DependencySets() []DependencySet {
	var sets []DependencySet
	add := func(table DependencyTable, deps Dependencies) {
		if len(deps) > 0 {
			sets = append(sets, DependencySet{Table: table, Entries: deps})
		}
	}
	add(DependencyTableNormal, m.Dependencies)
	add(DependencyTableDev, m.DevDependencies)
	add(DependencyTableBuild, m.BuildDependencies)
	if m.Workspace != nil {
		add(DependencyTableWorkspace, m.Workspace.Dependencies)
	}
	return sets
}

type Dependencies map[string]Dependency

// Names returns the dependency names sorted.
func (d Dependencies) Names() []string {
	names := make([]string, 0, len(d))
	for name := range d {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Dependency is one of SimpleDependency, InheritedDependency or
// DetailedDependency.
type Dependency interface {
	dependency()
}

// SimpleDependency is `name = "1.2.3"`.
type SimpleDependency struct {
	Version string
}

// InheritedDependency is `name = { workspace = true, ... }`. Its version comes
// from [workspace.dependencies] of the root manifest. Fields holds the other
// keys of the table (features, optional, ...).
type InheritedDependency struct {
	Fields map[string]any
}

// DetailedDependency is a table with an optional version key. Fields holds
// every key except version.
type DetailedDependency struct {
	Version *string
	Fields  map[string]any
}

func (SimpleDependency) dependency()    {}
func (InheritedDependency) dependency() {}
func (DetailedDependency) dependency()  {}
