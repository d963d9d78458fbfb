package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"cargo-set/internal/core"
)

// Validate loads the graph and reports every dependency requirement that no
// longer matches the version of the workspace package it points at. The
// result is returned alongside the error so callers can list the drift.
func (s Service) Validate(ctx context.Context, req ValidateRequest) (ValidateResult, error) {
	loader := core.NewGraphLoader(s.Storage, s.Codec)
	graph, err := loader.Load(ctx, manifestPath(req.Path))
	if err != nil {
		return ValidateResult{}, err
	}
	drift, err := core.FindVersionDrift(ctx, graph)
	if err != nil {
		return ValidateResult{}, err
	}
	result := ValidateResult{
		RootPath:  graph.RootPath,
		Manifests: len(graph.Manifests()),
		Drift:     drift,
	}
	if len(drift) > 0 {
		return result, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%d dependency requirements do not match workspace versions", len(drift)))
	}
	return result, nil
}
