package policies

import (
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-set/internal/types"
)

func TestPersistencePolicyShouldPersist(t *testing.T) {
	root := types.ManifestEntry{Path: "Cargo.toml", Manifest: &types.Manifest{}, IsRoot: true}
	aggregator := types.ManifestEntry{Path: "meta/Cargo.toml", Manifest: &types.Manifest{Workspace: &types.Workspace{}}}
	crate := types.ManifestEntry{
		Path:     "child/Cargo.toml",
		Manifest: &types.Manifest{Package: &types.Package{Name: "child"}},
	}

	tests := []struct {
		name    string
		mode    types.PersistMode
		entry   types.ManifestEntry
		changed bool
		want    bool
	}{
		{name: "default root", mode: "", entry: root, want: true},
		{name: "aggregators unchanged aggregator", mode: types.PersistModeAggregators, entry: aggregator, want: true},
		{name: "aggregators changed crate", mode: types.PersistModeAggregators, entry: crate, changed: true, want: false},
		{name: "changed crate", mode: types.PersistModeChanged, entry: crate, changed: true, want: true},
		{name: "unchanged aggregator", mode: types.PersistModeChanged, entry: aggregator, want: false},
		{name: "changed mode root", mode: types.PersistModeChanged, entry: root, want: true},
		{name: "none root", mode: types.PersistModeNone, entry: root, changed: true, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			policy, err := NewPersistencePolicy(tt.mode)
			require.NoError(t, err)
			assert.Equal(t, tt.want, policy.ShouldPersist(tt.entry, tt.changed))
		})
	}
}

func TestNewPersistencePolicyDefaultsToAggregators(t *testing.T) {
	policy, err := NewPersistencePolicy("")
	require.NoError(t, err)
	assert.Equal(t, types.PersistModeAggregators, policy.Mode)
}

func TestNewPersistencePolicyRejectsUnknownMode(t *testing.T) {
	_, err := NewPersistencePolicy("sometimes")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}
