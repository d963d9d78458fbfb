package policies

import (
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-set/internal/ports"
	"cargo-set/internal/types"
)

type PersistencePolicy struct {
	Mode types.PersistMode
}

func NewPersistencePolicy(mode types.PersistMode) (PersistencePolicy, error) {
	switch mode {
	case "":
		mode = types.PersistModeAggregators
	case types.PersistModeAggregators, types.PersistModeChanged, types.PersistModeNone:
	default:
		return PersistencePolicy{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unsupported persist mode %s", mode))
	}
	return PersistencePolicy{Mode: mode}, nil
}

// ShouldPersist always selects the root unless nothing is written at all.
// In aggregator mode a member is written only when it has no [package]
// table, whether or not anything in it changed. A member whose own version
// was updated is therefore not written back in that mode.
func (p PersistencePolicy) ShouldPersist(entry types.ManifestEntry, changed bool) bool {
	switch p.Mode {
	case types.PersistModeNone:
		return false
	case types.PersistModeChanged:
		return entry.IsRoot || changed
	default:
		return entry.IsRoot || entry.Manifest.IsAggregator()
	}
}

var _ ports.PersistencePolicyPort = PersistencePolicy{}
