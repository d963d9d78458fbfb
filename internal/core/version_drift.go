package core

import (
	"context"
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-set/internal/types"
)

// FindVersionDrift checks every version requirement on a package defined in
// the graph against that package's current version. Packages without a
// semantic version are skipped, as are inherited entries, which are checked
// through [workspace.dependencies] of the root.
func FindVersionDrift(ctx context.Context, graph types.ManifestGraph) ([]types.VersionDrift, error) {
	current := localVersions(graph)
	var drift []types.VersionDrift
	for _, entry := range graph.Manifests() {
		for _, set := range entry.Manifest.DependencySets() {
			for _, name := range set.Entries.Names() {
				version, ok := current[name]
				if !ok {
					continue
				}
				requirement, ok := dependencyRequirement(set.Entries[name])
				if !ok {
					continue
				}
				constraint, err := semver.NewConstraint(cargoRequirement(requirement))
				if err != nil {
					return nil, &types.ManifestError{
						Kind: types.ManifestErrorParse,
						Path: entry.Path,
						Err: errbuilder.New().
							WithCode(errbuilder.CodeInvalidArgument).
							WithMsg(fmt.Sprintf("%s.%s has invalid version requirement %q", set.Table, name, requirement)).
							WithCause(err),
					}
				}
				if constraint.Check(version) {
					continue
				}
				log.Ctx(ctx).Debug().
					Str("path", entry.Path).
					Str("dependency", name).
					Str("requirement", requirement).
					Str("current", version.Original()).
					Msg("version requirement not satisfied")
				drift = append(drift, types.VersionDrift{
					Path:        entry.Path,
					Table:       set.Table,
					Name:        name,
					Requirement: requirement,
					Current:     version.Original(),
				})
			}
		}
	}
	return drift, nil
}

func localVersions(graph types.ManifestGraph) map[string]*semver.Version {
	versions := map[string]*semver.Version{}
	for _, entry := range graph.Manifests() {
		pkg := entry.Manifest.Package
		if pkg == nil {
			continue
		}
		value, err := CurrentVersion(graph, pkg.Name)
		if err != nil {
			continue
		}
		version, err := semver.StrictNewVersion(value)
		if err != nil {
			continue
		}
		versions[pkg.Name] = version
	}
	return versions
}

func dependencyRequirement(dep types.Dependency) (string, bool) {
	switch dep := dep.(type) {
	case types.SimpleDependency:
		return dep.Version, dep.Version != ""
	case types.DetailedDependency:
		if dep.Version == nil || *dep.Version == "" {
			return "", false
		}
		return *dep.Version, true
	case types.InheritedDependency:
		return "", false
	default:
		return "", false
	}
}

// cargoRequirement spells out the caret operator Cargo implies for a bare
// version ("0.2" means "^0.2").
func cargoRequirement(requirement string) string {
	parts := strings.Split(requirement, ",")
	for i, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" && part[0] >= '0' && part[0] <= '9' {
			part = "^" + part
		}
		parts[i] = part
	}
	return strings.Join(parts, ", ")
}
