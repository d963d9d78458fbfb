package app

import (
	"context"

	"cargo-set/internal/core"
)

func (s Service) Inspect(ctx context.Context, req InspectRequest) (InspectResult, error) {
	loader := core.NewGraphLoader(s.Storage, s.Codec)
	graph, err := loader.Load(ctx, manifestPath(req.Path))
	if err != nil {
		return InspectResult{}, err
	}
	return InspectResult{
		RootPath:  graph.RootPath,
		Manifests: core.SummarizeGraph(graph),
	}, nil
}
