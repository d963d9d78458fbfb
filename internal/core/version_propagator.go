package core

import (
	"context"
	"fmt"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-set/internal/ports"
	"cargo-set/internal/types"
)

// VersionPropagator rewrites every version field of a graph that refers to
// one package and writes back the manifests its policy selects.
type VersionPropagator struct {
	storage ports.StoragePort
	codec   ports.ManifestCodecPort
	policy  ports.PersistencePolicyPort
}

func NewVersionPropagator(storage ports.StoragePort, codec ports.ManifestCodecPort, policy ports.PersistencePolicyPort) VersionPropagator {
	return VersionPropagator{storage: storage, codec: codec, policy: policy}
}

// Apply mutates graph in place, root first then members in path order. A
// failed write aborts the pass; manifests written before it stay written.
// Versions are opaque and written through unchecked.
func (p VersionPropagator) Apply(ctx context.Context, graph types.ManifestGraph, name string, version string) (types.UpdateReport, error) {
	assert.NotEmpty(ctx, name, "package name must be set")
	report := types.UpdateReport{}
	for _, entry := range graph.Manifests() {
		changes, err := updateManifest(entry, name, version)
		if err != nil {
			return report, err
		}
		for _, change := range changes {
			log.Ctx(ctx).Debug().
				Str("path", change.Path).
				Str("field", change.Field).
				Str("old", change.Old).
				Str("new", change.New).
				Msg("version updated")
		}
		report.Changes = append(report.Changes, changes...)

		if !p.policy.ShouldPersist(entry, len(changes) > 0) {
			if len(changes) > 0 {
				log.Ctx(ctx).Debug().Str("path", entry.Path).Msg("manifest updated in memory only")
			}
			continue
		}
		if err := p.persist(entry); err != nil {
			return report, err
		}
		report.Written = append(report.Written, entry.Path)
		log.Ctx(ctx).Debug().Str("path", entry.Path).Msg("manifest written")
	}
	return report, nil
}

func (p VersionPropagator) persist(entry types.ManifestEntry) error {
	data, err := p.codec.Encode(entry.Manifest)
	if err != nil {
		return &types.ManifestError{Kind: types.ManifestErrorSerialize, Path: entry.Path, Err: err}
	}
	if err := p.storage.Write(entry.Path, data); err != nil {
		return &types.ManifestError{Kind: types.ManifestErrorIO, Path: entry.Path, Err: err}
	}
	return nil
}

// updateManifest sets the manifest's own version when its package is name,
// then updates every dependency entry keyed name in each dependency table,
// [workspace.dependencies] included.
func updateManifest(entry types.ManifestEntry, name string, version string) ([]types.FieldChange, error) {
	manifest := entry.Manifest
	var changes []types.FieldChange
	if pkg := manifest.Package; pkg != nil && pkg.Name == name {
		old := pkg.Version
		pkg.Version = types.PackageVersion{Value: version}
		if old.Inherited || old.Value != version {
			changes = append(changes, types.FieldChange{
				Path:  entry.Path,
				Field: "package.version",
				Old:   describePackageVersion(old),
				New:   version,
			})
		}
	}
	for _, set := range manifest.DependencySets() {
		dep, ok := set.Entries[name]
		if !ok {
			continue
		}
		updated, result, err := updateDependency(dep, version)
		if err != nil {
			return nil, &types.ManifestError{Kind: types.ManifestErrorSerialize, Path: entry.Path, Err: err}
		}
		set.Entries[name] = updated
		if result.changed {
			changes = append(changes, types.FieldChange{
				Path:  entry.Path,
				Field: fmt.Sprintf("%s.%s.version", set.Table, name),
				Old:   result.old,
				New:   version,
			})
		}
	}
	return changes, nil
}

type dependencyUpdate struct {
	old     string
	changed bool
}

// updateDependency applies the per-form rule. Inherited entries keep no
// version of their own; updating [workspace.dependencies] covers them.
func updateDependency(dep types.Dependency, version string) (types.Dependency, dependencyUpdate, error) {
	switch dep := dep.(type) {
	case types.SimpleDependency:
		result := dependencyUpdate{old: dep.Version, changed: dep.Version != version}
		dep.Version = version
		return dep, result, nil
	case types.InheritedDependency:
		return dep, dependencyUpdate{}, nil
	case types.DetailedDependency:
		result := dependencyUpdate{changed: true}
		if dep.Version != nil {
			result.old = *dep.Version
			result.changed = *dep.Version != version
		}
		next := version
		dep.Version = &next
		return dep, result, nil
	default:
		return dep, dependencyUpdate{}, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("unsupported dependency form %T", dep))
	}
}

func describePackageVersion(version types.PackageVersion) string {
	if version.Inherited {
		return "workspace"
	}
	return version.Value
}
