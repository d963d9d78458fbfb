package core

import (
	"cargo-set/internal/types"
)

// SummarizeGraph describes every manifest of the graph together with the
// dependencies it holds on packages defined inside the graph.
func SummarizeGraph(graph types.ManifestGraph) []types.ManifestSummary {
	local := map[string]struct{}{}
	for _, entry := range graph.Manifests() {
		if entry.Manifest.Package != nil {
			local[entry.Manifest.Package.Name] = struct{}{}
		}
	}
	var workspaceDeps types.Dependencies
	if graph.Root.Workspace != nil {
		workspaceDeps = graph.Root.Workspace.Dependencies
	}

	var summaries []types.ManifestSummary
	for _, entry := range graph.Manifests() {
		manifest := entry.Manifest
		summary := types.ManifestSummary{Path: entry.Path, Root: entry.IsRoot}
		if manifest.Package != nil {
			summary.Package = manifest.Package.Name
			summary.Version = manifest.Package.Version.Value
			if manifest.Package.Version.Inherited && graph.Root.Workspace != nil {
				summary.Version = graph.Root.Workspace.PackageVersion
			}
		}
		if entry.IsRoot {
			summary.Members = graph.Members.Paths()
		}
		for _, set := range manifest.DependencySets() {
			for _, name := range set.Entries.Names() {
				if _, ok := local[name]; !ok {
					continue
				}
				summary.Dependencies = append(summary.Dependencies,
					summarizeDependency(set.Table, name, set.Entries[name], workspaceDeps))
			}
		}
		summaries = append(summaries, summary)
	}
	return summaries
}

func summarizeDependency(table types.DependencyTable, name string, dep types.Dependency, workspaceDeps types.Dependencies) types.DependencySummary {
	summary := types.DependencySummary{Table: table, Name: name}
	switch dep := dep.(type) {
	case types.SimpleDependency:
		summary.Kind = "simple"
		summary.Version = dep.Version
	case types.InheritedDependency:
		summary.Kind = "inherited"
		if parent, ok := workspaceDeps[name]; ok && table != types.DependencyTableWorkspace {
			summary.Version = summarizeDependency(table, name, parent, nil).Version
		}
	case types.DetailedDependency:
		summary.Kind = "detailed"
		if dep.Version != nil {
			summary.Version = *dep.Version
		}
	}
	return summary
}
