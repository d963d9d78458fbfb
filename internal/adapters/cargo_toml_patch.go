package adapters

import (
	"bytes"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2/unstable"

	"cargo-set/internal/types"
)

type editKind int

const (
	// editReplace swaps an existing string value.
	editReplace editKind = iota
	// editInsert adds a version key next to a detailed entry's other keys.
	editInsert
	// editInherited turns `version.workspace = true` into a concrete version.
	editInherited
)

type versionEdit struct {
	kind    editKind
	path    []string
	version string
}

type splice struct {
	start int
	end   int
	text  string
}

// patchVersions writes the version changes between manifest.Raw and the typed
// fields into a copy of the raw bytes. It reports false when the difference is
// not a set of version edits, or when the patched bytes do not decode back to
// the manifest; the caller then re-encodes the whole document.
func patchVersions(manifest *types.Manifest) ([]byte, bool) {
	original, err := NewCargoTomlAdapter().Decode(manifest.Raw)
	if err != nil {
		return nil, false
	}
	edits, ok := versionEdits(original, manifest)
	if !ok {
		return nil, false
	}
	if len(edits) == 0 {
		return bytes.Clone(manifest.Raw), true
	}

	values, err := indexValues(manifest.Raw)
	if err != nil {
		return nil, false
	}
	splices := make([]splice, 0, len(edits))
	for _, edit := range edits {
		s, ok := values.splice(manifest.Raw, edit)
		if !ok {
			return nil, false
		}
		splices = append(splices, s)
	}
	data, ok := applySplices(manifest.Raw, splices)
	if !ok {
		return nil, false
	}

	patched, err := NewCargoTomlAdapter().Decode(data)
	if err != nil || !sameModel(patched, manifest) {
		return nil, false
	}
	return data, true
}

func versionEdits(before *types.Manifest, after *types.Manifest) ([]versionEdit, bool) {
	var edits []versionEdit
	if (before.Package == nil) != (after.Package == nil) {
		return nil, false
	}
	if before.Package != nil {
		old, next := before.Package, after.Package
		if old.Name != next.Name {
			return nil, false
		}
		if old.Version != next.Version {
			path := []string{"package", "version"}
			switch {
			case next.Version.Inherited || next.Version.Value == "":
				return nil, false
			case old.Version.Inherited:
				edits = append(edits, versionEdit{kind: editInherited, path: path, version: next.Version.Value})
			case old.Version.Value != "":
				edits = append(edits, versionEdit{kind: editReplace, path: path, version: next.Version.Value})
			default:
				return nil, false
			}
		}
	}

	tables := []struct {
		path   []string
		before types.Dependencies
		after  types.Dependencies
	}{
		{path: []string{"dependencies"}, before: before.Dependencies, after: after.Dependencies},
		{path: []string{"dev-dependencies"}, before: before.DevDependencies, after: after.DevDependencies},
		{path: []string{"build-dependencies"}, before: before.BuildDependencies, after: after.BuildDependencies},
	}
	if (before.Workspace == nil) != (after.Workspace == nil) {
		return nil, false
	}
	if before.Workspace != nil {
		old, next := before.Workspace, after.Workspace
		if !slices.Equal(old.Members, next.Members) ||
			!slices.Equal(old.Exclude, next.Exclude) ||
			old.PackageVersion != next.PackageVersion {
			return nil, false
		}
		tables = append(tables, struct {
			path   []string
			before types.Dependencies
			after  types.Dependencies
		}{path: []string{"workspace", "dependencies"}, before: old.Dependencies, after: next.Dependencies})
	}
	for _, table := range tables {
		found, ok := dependencyEdits(table.path, table.before, table.after)
		if !ok {
			return nil, false
		}
		edits = append(edits, found...)
	}
	return edits, true
}

func dependencyEdits(table []string, before types.Dependencies, after types.Dependencies) ([]versionEdit, bool) {
	if len(before) != len(after) {
		return nil, false
	}
	var edits []versionEdit
	for _, name := range before.Names() {
		next, ok := after[name]
		if !ok {
			return nil, false
		}
		path := append(slices.Clone(table), name)
		switch old := before[name].(type) {
		case types.SimpleDependency:
			dep, ok := next.(types.SimpleDependency)
			if !ok {
				return nil, false
			}
			if dep.Version != old.Version {
				edits = append(edits, versionEdit{kind: editReplace, path: path, version: dep.Version})
			}
		case types.InheritedDependency:
			dep, ok := next.(types.InheritedDependency)
			if !ok || !reflect.DeepEqual(dep.Fields, old.Fields) {
				return nil, false
			}
		case types.DetailedDependency:
			dep, ok := next.(types.DetailedDependency)
			if !ok || !reflect.DeepEqual(dep.Fields, old.Fields) {
				return nil, false
			}
			switch {
			case dep.Version == nil && old.Version == nil:
			case dep.Version == nil:
				return nil, false
			case old.Version == nil:
				edits = append(edits, versionEdit{kind: editInsert, path: path, version: *dep.Version})
			case *dep.Version != *old.Version:
				edits = append(edits, versionEdit{kind: editReplace, path: append(path, "version"), version: *dep.Version})
			}
		default:
			return nil, false
		}
	}
	return edits, true
}

func sameModel(a *types.Manifest, b *types.Manifest) bool {
	return reflect.DeepEqual(a.Package, b.Package) &&
		reflect.DeepEqual(a.Workspace, b.Workspace) &&
		reflect.DeepEqual(a.Dependencies, b.Dependencies) &&
		reflect.DeepEqual(a.DevDependencies, b.DevDependencies) &&
		reflect.DeepEqual(a.BuildDependencies, b.BuildDependencies)
}

// leafValue is a string or boolean value found in the source, with the byte
// range it occupies and the key it was written under.
type leafValue struct {
	path  []string
	scope []string
	key   []string
	// inline is set when the value sits inside an inline table.
	inline bool
	kind   unstable.Kind
	start  int
	end    int
}

type valueIndex []leafValue

// indexValues walks the document and records every string and boolean value
// reachable through tables, dotted keys and inline tables. Values under array
// tables are skipped.
func indexValues(data []byte) (valueIndex, error) {
	var index valueIndex
	var p unstable.Parser
	p.Reset(data)
	var header []string
	skip := false
	for p.NextExpression() {
		expr := p.Expression()
		switch expr.Kind {
		case unstable.Table:
			header = keyParts(expr.Key())
			skip = false
		case unstable.ArrayTable:
			header = nil
			skip = true
		case unstable.KeyValue:
			if !skip {
				index = index.add(data, expr, header, false)
			}
		}
	}
	if err := p.Error(); err != nil {
		return nil, err
	}
	return index, nil
}

func (index valueIndex) add(data []byte, kv *unstable.Node, scope []string, inline bool) valueIndex {
	key := keyParts(kv.Key())
	path := append(slices.Clone(scope), key...)
	value := kv.Value()
	switch value.Kind {
	case unstable.String:
		if start, end, ok := stringRange(data, value); ok {
			index = append(index, leafValue{path: path, scope: scope, key: key, inline: inline, kind: unstable.String, start: start, end: end})
		}
	case unstable.Bool:
		if start, ok := offsetIn(data, value.Data); ok {
			index = append(index, leafValue{path: path, scope: scope, key: key, inline: inline, kind: unstable.Bool, start: start, end: start + len(value.Data)})
		}
	case unstable.InlineTable:
		children := value.Children()
		for children.Next() {
			index = index.add(data, children.Node(), path, true)
		}
	}
	return index
}

func (index valueIndex) find(path []string, kind unstable.Kind) (leafValue, bool) {
	for _, leaf := range index {
		if leaf.kind == kind && slices.Equal(leaf.path, path) {
			return leaf, true
		}
	}
	return leafValue{}, false
}

// sibling returns the first string value written directly under path.
func (index valueIndex) sibling(path []string) (leafValue, bool) {
	for _, leaf := range index {
		if leaf.kind == unstable.String && len(leaf.path) == len(path)+1 && slices.Equal(leaf.path[:len(path)], path) {
			return leaf, true
		}
	}
	return leafValue{}, false
}

func (index valueIndex) splice(data []byte, edit versionEdit) (splice, bool) {
	switch edit.kind {
	case editReplace:
		leaf, ok := index.find(edit.path, unstable.String)
		if !ok {
			return splice{}, false
		}
		text := quoteLike(data[leaf.start:leaf.end], edit.version)
		return splice{start: leaf.start, end: leaf.end, text: text}, true

	case editInsert:
		leaf, ok := index.sibling(edit.path)
		if !ok {
			return splice{}, false
		}
		key := append(slices.Clone(leaf.key[:len(leaf.key)-1]), "version")
		entry := formatKey(key) + " = " + basicString(edit.version)
		if leaf.inline {
			return splice{start: leaf.end, end: leaf.end, text: ", " + entry}, true
		}
		end, newline := lineEnd(data, leaf.end)
		indent := lineIndent(data, leaf.start)
		return splice{start: end, end: end, text: newline + indent + entry}, true

	case editInherited:
		leaf, ok := index.find(append(slices.Clone(edit.path), "workspace"), unstable.Bool)
		if !ok {
			return splice{}, false
		}
		if leaf.inline {
			if !slices.Equal(leaf.scope, edit.path) {
				return splice{}, false
			}
			open := bytes.LastIndexByte(data[:leaf.start], '{')
			closing := bytes.IndexByte(data[leaf.end:], '}')
			if open < 0 || closing < 0 {
				return splice{}, false
			}
			return splice{start: open, end: leaf.end + closing + 1, text: basicString(edit.version)}, true
		}
		if len(leaf.key) < 2 {
			return splice{}, false
		}
		start := lineStart(data, leaf.start)
		start += len(lineIndent(data, leaf.start))
		text := formatKey(leaf.key[:len(leaf.key)-1]) + " = " + basicString(edit.version)
		return splice{start: start, end: leaf.end, text: text}, true
	}
	return splice{}, false
}

// applySplices rewrites data back to front so earlier offsets stay valid.
func applySplices(data []byte, splices []splice) ([]byte, bool) {
	sort.Slice(splices, func(i, j int) bool { return splices[i].start > splices[j].start })
	out := bytes.Clone(data)
	limit := len(out)
	for _, s := range splices {
		if s.start < 0 || s.end < s.start || s.end > limit {
			return nil, false
		}
		out = slices.Concat(out[:s.start], []byte(s.text), out[s.end:])
		limit = s.start
	}
	return out, true
}

func keyParts(it unstable.Iterator) []string {
	var parts []string
	for it.Next() {
		parts = append(parts, string(it.Node().Data))
	}
	return parts
}

// stringRange returns the quoted source range of a single line string value.
func stringRange(data []byte, value *unstable.Node) (int, int, bool) {
	start := int(value.Raw.Offset)
	end := start + int(value.Raw.Length)
	if value.Raw.Length == 0 {
		// Values without escapes point straight into data.
		offset, ok := offsetIn(data, value.Data)
		if !ok {
			return 0, 0, false
		}
		start, end = offset-1, offset+len(value.Data)+1
	}
	if start < 0 || end > len(data) || end-start < 2 {
		return 0, 0, false
	}
	quote := data[start]
	if (quote != '"' && quote != '\'') || data[end-1] != quote {
		return 0, 0, false
	}
	if bytes.HasPrefix(data[start:end], []byte{quote, quote, quote}) {
		return 0, 0, false
	}
	return start, end, true
}

// offsetIn locates sub inside data when sub was resliced from it. Reslicing
// keeps the end of the backing array, so the capacities differ by the offset.
func offsetIn(data []byte, sub []byte) (int, bool) {
	if len(sub) == 0 {
		return 0, false
	}
	offset := cap(data) - cap(sub)
	if offset < 0 || offset+len(sub) > len(data) {
		return 0, false
	}
	if !bytes.Equal(data[offset:offset+len(sub)], sub) {
		return 0, false
	}
	return offset, true
}

func lineStart(data []byte, pos int) int {
	return bytes.LastIndexByte(data[:pos], '\n') + 1
}

func lineIndent(data []byte, pos int) string {
	start := lineStart(data, pos)
	end := start
	for end < pos && (data[end] == ' ' || data[end] == '\t') {
		end++
	}
	return string(data[start:end])
}

// lineEnd returns where the line holding pos ends, before any "\r\n", and the
// newline sequence the file uses there.
func lineEnd(data []byte, pos int) (int, string) {
	i := bytes.IndexByte(data[pos:], '\n')
	if i < 0 {
		return len(data), "\n"
	}
	end := pos + i
	if end > 0 && data[end-1] == '\r' {
		return end - 1, "\r\n"
	}
	return end, "\n"
}

// quoteLike renders value in the quoting style of the string it replaces.
func quoteLike(raw []byte, value string) string {
	if len(raw) > 0 && raw[0] == '\'' && !strings.ContainsAny(value, "'\r\n") && !hasControl(value) {
		return "'" + value + "'"
	}
	return basicString(value)
}

func basicString(value string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range value {
		switch {
		case r == '"' || r == '\\':
			b.WriteByte('\\')
			b.WriteRune(r)
		case r == '\n':
			b.WriteString(`\n`)
		case r == '\t':
			b.WriteString(`\t`)
		case r < 0x20 || r == 0x7f:
			fmt.Fprintf(&b, `\u%04X`, r)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}

func hasControl(value string) bool {
	return strings.ContainsFunc(value, func(r rune) bool { return r < 0x20 || r == 0x7f })
}

func formatKey(parts []string) string {
	quoted := make([]string, len(parts))
	for i, part := range parts {
		if isBareKey(part) {
			quoted[i] = part
		} else {
			quoted[i] = basicString(part)
		}
	}
	return strings.Join(quoted, ".")
}

func isBareKey(key string) bool {
	if key == "" {
		return false
	}
	for _, r := range key {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' || r == '-') {
			return false
		}
	}
	return true
}
