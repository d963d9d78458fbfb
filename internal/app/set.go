package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-set/internal/core"
	"cargo-set/internal/policies"
	"cargo-set/internal/types"
)

func (s Service) Set(ctx context.Context, req SetRequest) (SetResult, error) {
	crate := strings.TrimSpace(req.Crate)
	if crate == "" {
		return SetResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("crate name is required")
	}
	version := req.Version
	hasVersion := strings.TrimSpace(version) != ""
	bump := strings.TrimSpace(req.Bump)
	if hasVersion && bump != "" {
		return SetResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("set-version and bump are mutually exclusive")
	}
	if !hasVersion && bump == "" {
		return SetResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("one of set-version or bump is required")
	}
	var level types.BumpLevel
	if bump != "" {
		var ok bool
		if level, ok = types.ParseBumpLevel(bump); !ok {
			return SetResult{}, errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg(fmt.Sprintf("invalid bump level %q (expected patch, minor or major)", bump))
		}
	}
	policy, err := policies.NewPersistencePolicy(persistMode(req))
	if err != nil {
		return SetResult{}, err
	}

	loader := core.NewGraphLoader(s.Storage, s.Codec)
	graph, err := loader.Load(ctx, manifestPath(req.Path))
	if err != nil {
		return SetResult{}, err
	}
	if level != "" {
		current, err := core.CurrentVersion(graph, crate)
		if err != nil {
			return SetResult{}, err
		}
		if version, err = core.BumpVersion(current, level); err != nil {
			return SetResult{}, err
		}
		log.Ctx(ctx).Debug().Str("crate", crate).Str("from", current).Str("to", version).Msg("version bumped")
	}

	propagator := core.NewVersionPropagator(s.Storage, s.Codec, policy)
	report, err := propagator.Apply(ctx, graph, crate, version)
	if err != nil {
		return SetResult{}, err
	}
	return SetResult{RootPath: graph.RootPath, Version: version, Report: report}, nil
}

func persistMode(req SetRequest) types.PersistMode {
	switch {
	case req.DryRun:
		return types.PersistModeNone
	case req.WriteMembers:
		return types.PersistModeChanged
	default:
		return types.PersistModeAggregators
	}
}

func manifestPath(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return types.ManifestFileName
	}
	return path
}
