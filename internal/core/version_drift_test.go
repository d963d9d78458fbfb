package core

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-set/internal/types"
)

func TestFindVersionDrift(t *testing.T) {
	storage := newMemoryStorage(t, map[string]string{
		"/ws/Cargo.toml":       "[workspace]\nmembers = [\"child\", \"app\", \"tool\"]\n[workspace.package]\nversion = \"1.4.0\"\n[workspace.dependencies]\nchild = { version = \"0.2\", path = \"child\" }\n",
		"/ws/child/Cargo.toml": "[package]\nname = \"child\"\nversion = \"0.3.1\"\n",
		"/ws/tool/Cargo.toml":  "[package]\nname = \"tool\"\nversion.workspace = true\n",
		"/ws/app/Cargo.toml":   "[package]\nname = \"app\"\nversion = \"1.0.0\"\n[dependencies]\nchild = \">=0.3, <0.4\"\ntool = \"1.2\"\nserde = \"1\"\n[dev-dependencies]\ntool = { version = \"=1.3.0\", path = \"../tool\" }\nchild = { workspace = true }\n",
	})
	graph, err := newLoader(storage).Load(t.Context(), "/ws/Cargo.toml")
	require.NoError(t, err)

	drift, err := FindVersionDrift(t.Context(), graph)
	require.NoError(t, err)
	want := []types.VersionDrift{
		{Path: "/ws/Cargo.toml", Table: types.DependencyTableWorkspace, Name: "child", Requirement: "0.2", Current: "0.3.1"},
		{Path: "/ws/app/Cargo.toml", Table: types.DependencyTableDev, Name: "tool", Requirement: "=1.3.0", Current: "1.4.0"},
	}
	if diff := cmp.Diff(want, drift); diff != "" {
		t.Fatalf("unexpected drift (-want +got):\n%s", diff)
	}
}

func TestFindVersionDriftAfterApply(t *testing.T) {
	storage := newWorkspaceStorage(t)
	graph := loadWorkspace(t, storage)

	_, err := newPropagator(t, storage, types.PersistModeNone).Apply(t.Context(), graph, "child", "0.3.0")
	require.NoError(t, err)
	drift, err := FindVersionDrift(t.Context(), graph)
	require.NoError(t, err)
	assert.Empty(t, drift)
}

func TestFindVersionDriftInvalidRequirement(t *testing.T) {
	storage := newMemoryStorage(t, map[string]string{
		"/ws/Cargo.toml": "[package]\nname = \"solo\"\nversion = \"1.0.0\"\n[dev-dependencies]\nsolo = \"not a version\"\n",
	})
	graph, err := newLoader(storage).Load(t.Context(), "/ws/Cargo.toml")
	require.NoError(t, err)

	_, err = FindVersionDrift(t.Context(), graph)
	require.Error(t, err)
	manifestErr, ok := types.ManifestErrorOf(err)
	require.True(t, ok)
	assert.Equal(t, types.ManifestErrorParse, manifestErr.Kind)
}

func TestCargoRequirement(t *testing.T) {
	assert.Equal(t, "^0.2", cargoRequirement("0.2"))
	assert.Equal(t, ">=0.3, <0.4", cargoRequirement(">=0.3, <0.4"))
	assert.Equal(t, "~1.2, ^1.2.5", cargoRequirement("~1.2,1.2.5"))
	assert.Equal(t, "*", cargoRequirement("*"))
}
