package core

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"cargo-set/internal/ports"
	"cargo-set/internal/types"
)

// GraphLoader reads a root manifest and the members it declares. Members
// are loaded one level deep: a member's own [workspace] is never expanded.
type GraphLoader struct {
	storage ports.StoragePort
	codec   ports.ManifestCodecPort
}

func NewGraphLoader(storage ports.StoragePort, codec ports.ManifestCodecPort) GraphLoader {
	return GraphLoader{storage: storage, codec: codec}
}

// Load fails on the first unreadable or unparsable manifest and returns no
// partial graph.
func (l GraphLoader) Load(ctx context.Context, rootPath string) (types.ManifestGraph, error) {
	if strings.TrimSpace(rootPath) == "" {
		return types.ManifestGraph{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("manifest path is required")
	}
	path := l.ResolveManifestPath(rootPath)
	root, err := l.loadManifest(path)
	if err != nil {
		return types.ManifestGraph{}, err
	}
	graph := types.ManifestGraph{RootPath: path, Root: root}
	if !root.HasMembers() {
		log.Ctx(ctx).Debug().Str("path", path).Msg("manifest has no workspace members")
		return graph, nil
	}

	memberPaths, err := l.memberManifestPaths(path, root.Workspace)
	if err != nil {
		return types.ManifestGraph{}, err
	}
	members := types.NewMemberSet()
	for _, memberPath := range memberPaths {
		manifest, err := l.loadManifest(memberPath)
		if err != nil {
			return types.ManifestGraph{}, err
		}
		members.Insert(memberPath, manifest)
		log.Ctx(ctx).Debug().Str("path", memberPath).Msg("workspace member loaded")
	}
	if members.Len() > 0 {
		graph.Members = members
	}
	log.Ctx(ctx).Debug().Str("path", path).Int("members", members.Len()).Msg("manifest graph loaded")
	return graph, nil
}

// ResolveManifestPath maps a directory to the manifest it holds. Any other
// path is returned unchanged.
func (l GraphLoader) ResolveManifestPath(path string) string {
	if l.storage.IsDir(path) {
		return filepath.Join(path, types.ManifestFileName)
	}
	return path
}

func (l GraphLoader) loadManifest(path string) (*types.Manifest, error) {
	data, err := l.storage.Read(path)
	if err != nil {
		return nil, &types.ManifestError{Kind: types.ManifestErrorIO, Path: path, Err: err}
	}
	manifest, err := l.codec.Decode(data)
	if err != nil {
		return nil, &types.ManifestError{Kind: types.ManifestErrorParse, Path: path, Err: err}
	}
	return manifest, nil
}

// memberManifestPaths joins every declared member onto the directory that
// contains the root manifest. Glob entries expand to the directories under
// them holding a manifest, minus workspace.exclude. A malformed pattern is
// reported as a parse error of the root manifest naming the member entry.
func (l GraphLoader) memberManifestPaths(rootPath string, workspace *types.Workspace) ([]string, error) {
	rootDir := filepath.Dir(rootPath)
	excluded := make(map[string]struct{}, len(workspace.Exclude))
	for _, dir := range workspace.Exclude {
		excluded[filepath.Join(rootDir, dir)] = struct{}{}
	}

	seen := map[string]struct{}{}
	var paths []string
	add := func(path string) {
		if _, ok := seen[path]; ok {
			return
		}
		seen[path] = struct{}{}
		paths = append(paths, path)
	}
	for _, member := range workspace.Members {
		if !isGlobPattern(member) {
			add(filepath.Join(rootDir, member, types.ManifestFileName))
			continue
		}
		matches, err := l.storage.Glob(filepath.Join(rootDir, member, types.ManifestFileName))
		if err != nil {
			return nil, &types.ManifestError{
				Kind: types.ManifestErrorParse,
				Path: rootPath,
				Err: errbuilder.New().
					WithCode(errbuilder.CodeInvalidArgument).
					WithMsg(fmt.Sprintf("invalid member pattern %q", member)).
					WithCause(err),
			}
		}
		for _, match := range matches {
			if _, skip := excluded[filepath.Dir(match)]; skip {
				continue
			}
			add(match)
		}
	}
	return paths, nil
}

func isGlobPattern(value string) bool {
	return strings.ContainsAny(value, "*?[")
}
