package types

import "sort"

// ManifestGraph is a root manifest plus the members it declares. Members is
// nil when the root declares no members or an empty member list.
type ManifestGraph struct {
	RootPath string
	Root     *Manifest
	Members  *MemberSet
}

// Manifests returns the root followed by every member in path order.
func (g ManifestGraph) Manifests() []ManifestEntry {
	entries := []ManifestEntry{{Path: g.RootPath, Manifest: g.Root, IsRoot: true}}
	for _, path := range g.Members.Paths() {
		manifest, _ := g.Members.Get(path)
		entries = append(entries, ManifestEntry{Path: path, Manifest: manifest})
	}
	return entries
}

type ManifestEntry struct {
	Path     string
	Manifest *Manifest
	IsRoot   bool
}

// MemberSet maps resolved member manifest paths to their content, iterated
// in path order.
type MemberSet struct {
	paths     []string
	manifests map[string]*Manifest
}

func NewMemberSet() *MemberSet {
	return &MemberSet{manifests: map[string]*Manifest{}}
}

// Insert adds or replaces the manifest at path.
func (s *MemberSet) Insert(path string, manifest *Manifest) {
	if _, ok := s.manifests[path]; !ok {
		idx := sort.SearchStrings(s.paths, path)
		s.paths = append(s.paths, "")
		copy(s.paths[idx+1:], s.paths[idx:])
		s.paths[idx] = path
	}
	s.manifests[path] = manifest
}

func (s *MemberSet) Get(path string) (*Manifest, bool) {
	if s == nil {
		return nil, false
	}
	manifest, ok := s.manifests[path]
	return manifest, ok
}

func (s *MemberSet) Paths() []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s.paths...)
}

func (s *MemberSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.paths)
}
