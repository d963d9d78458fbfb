package app

import "cargo-set/internal/types"

type SetRequest struct {
	Path    string
	Crate   string
	Version string
	Bump    string
	// Workspace is accepted for command line compatibility and has no
	// effect on which manifests are updated.
	Workspace    bool
	WriteMembers bool
	DryRun       bool
}

type SetResult struct {
	RootPath string
	Version  string
	Report   types.UpdateReport
}

type InspectRequest struct {
	Path string
}

type InspectResult struct {
	RootPath  string
	Manifests []types.ManifestSummary
}

type ValidateRequest struct {
	Path string
}

type ValidateResult struct {
	RootPath  string
	Manifests int
	Drift     []types.VersionDrift
}
