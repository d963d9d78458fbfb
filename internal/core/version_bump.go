package core

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-set/internal/types"
)

// BumpVersion returns current raised by level. A prerelease is released
// rather than incremented on a patch bump ("1.2.3-rc.1" becomes "1.2.3").
func BumpVersion(current string, level types.BumpLevel) (string, error) {
	parsed, err := semver.StrictNewVersion(current)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("current version %q is not a semantic version", current)).
			WithCause(err)
	}
	var next semver.Version
	switch level {
	case types.BumpLevelPatch:
		next = parsed.IncPatch()
	case types.BumpLevelMinor:
		next = parsed.IncMinor()
	case types.BumpLevelMajor:
		next = parsed.IncMajor()
	default:
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported bump level %q", level))
	}
	return next.String(), nil
}

// CurrentVersion returns the concrete version of the package called name,
// following `version.workspace = true` to the root's [workspace.package].
func CurrentVersion(graph types.ManifestGraph, name string) (string, error) {
	for _, entry := range graph.Manifests() {
		pkg := entry.Manifest.Package
		if pkg == nil || pkg.Name != name {
			continue
		}
		if !pkg.Version.Inherited {
			if pkg.Version.Value == "" {
				return "", errbuilder.New().
					WithCode(errbuilder.CodeFailedPrecondition).
					WithMsg(fmt.Sprintf("package %s has no version", name))
			}
			return pkg.Version.Value, nil
		}
		if graph.Root.Workspace != nil && graph.Root.Workspace.PackageVersion != "" {
			return graph.Root.Workspace.PackageVersion, nil
		}
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("package %s inherits a version the workspace does not set", name))
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("package %s not found in workspace", name))
}
