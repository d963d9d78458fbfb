package adapters

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/pelletier/go-toml/v2"

	"cargo-set/internal/ports"
	"cargo-set/internal/types"
)

type CargoTomlAdapter struct{}

func NewCargoTomlAdapter() CargoTomlAdapter {
	return CargoTomlAdapter{}
}

func (a CargoTomlAdapter) Decode(data []byte) (*types.Manifest, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		msg := "failed to parse Cargo.toml"
		var decodeErr *toml.DecodeError
		if errors.As(err, &decodeErr) {
			row, column := decodeErr.Position()
			msg = fmt.Sprintf("failed to parse Cargo.toml at line %d column %d", row, column)
		}
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(msg).
			WithCause(err)
	}
	if doc == nil {
		doc = map[string]any{}
	}

	manifest := &types.Manifest{Document: doc, Raw: bytes.Clone(data)}
	var err error
	if manifest.Package, err = decodePackage(doc["package"]); err != nil {
		return nil, err
	}
	if manifest.Workspace, err = decodeWorkspace(doc["workspace"]); err != nil {
		return nil, err
	}
	if manifest.Dependencies, err = decodeDependencies(doc["dependencies"], types.DependencyTableNormal); err != nil {
		return nil, err
	}
	if manifest.DevDependencies, err = decodeDependencies(doc["dev-dependencies"], types.DependencyTableDev); err != nil {
		return nil, err
	}
	if manifest.BuildDependencies, err = decodeDependencies(doc["build-dependencies"], types.DependencyTableBuild); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (a CargoTomlAdapter) Encode(manifest *types.Manifest) ([]byte, error) {
	if manifest == nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("manifest is nil")
	}
	if manifest.Raw != nil {
		if data, ok := patchVersions(manifest); ok {
			return data, nil
		}
	}
	return marshalDocument(manifest)
}

// marshalDocument re-encodes the whole document with the typed fields laid
// over it. Comments and key order are not kept.
func marshalDocument(manifest *types.Manifest) ([]byte, error) {
	doc, _ := cloneValue(manifest.Document).(map[string]any)
	if doc == nil {
		doc = map[string]any{}
	}

	if manifest.Package != nil {
		pkg := childTable(doc, "package")
		pkg["name"] = manifest.Package.Name
		switch {
		case manifest.Package.Version.Inherited:
			pkg["version"] = map[string]any{"workspace": true}
		case manifest.Package.Version.Value != "":
			pkg["version"] = manifest.Package.Version.Value
		}
	}
	if manifest.Workspace != nil {
		workspace := childTable(doc, "workspace")
		if len(manifest.Workspace.Members) > 0 || workspace["members"] != nil {
			workspace["members"] = stringsToArray(manifest.Workspace.Members)
		}
		if len(manifest.Workspace.Exclude) > 0 || workspace["exclude"] != nil {
			workspace["exclude"] = stringsToArray(manifest.Workspace.Exclude)
		}
		if manifest.Workspace.PackageVersion != "" {
			childTable(workspace, "package")["version"] = manifest.Workspace.PackageVersion
		}
		if err := putDependencies(workspace, "dependencies", manifest.Workspace.Dependencies); err != nil {
			return nil, err
		}
	}
	tables := []struct {
		key  string
		deps types.Dependencies
	}{
		{key: string(types.DependencyTableNormal), deps: manifest.Dependencies},
		{key: string(types.DependencyTableDev), deps: manifest.DevDependencies},
		{key: string(types.DependencyTableBuild), deps: manifest.BuildDependencies},
	}
	for _, table := range tables {
		if err := putDependencies(doc, table.key, table.deps); err != nil {
			return nil, err
		}
	}

	data, err := toml.Marshal(doc)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to encode Cargo.toml").
			WithCause(err)
	}
	return data, nil
}

func decodePackage(raw any) (*types.Package, error) {
	if raw == nil {
		return nil, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidManifest("package must be a table")
	}
	name, ok := table["name"].(string)
	if !ok {
		return nil, invalidManifest("package.name must be a string")
	}
	pkg := &types.Package{Name: name}
	switch version := table["version"].(type) {
	case nil:
	case string:
		pkg.Version.Value = version
	case map[string]any:
		if inherited, _ := version["workspace"].(bool); !inherited {
			return nil, invalidManifest("package.version table must set workspace = true")
		}
		pkg.Version.Inherited = true
	default:
		return nil, invalidManifest("package.version must be a string or { workspace = true }")
	}
	return pkg, nil
}

func decodeWorkspace(raw any) (*types.Workspace, error) {
	if raw == nil {
		return nil, nil
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidManifest("workspace must be a table")
	}
	workspace := &types.Workspace{}
	var err error
	if workspace.Members, err = decodeStrings(table["members"], "workspace.members"); err != nil {
		return nil, err
	}
	if workspace.Exclude, err = decodeStrings(table["exclude"], "workspace.exclude"); err != nil {
		return nil, err
	}
	if workspace.Dependencies, err = decodeDependencies(table["dependencies"], types.DependencyTableWorkspace); err != nil {
		return nil, err
	}
	if pkg, ok := table["package"].(map[string]any); ok {
		if version, present := pkg["version"]; present {
			value, ok := version.(string)
			if !ok {
				return nil, invalidManifest("workspace.package.version must be a string")
			}
			workspace.PackageVersion = value
		}
	}
	return workspace, nil
}

func decodeDependencies(raw any, table types.DependencyTable) (types.Dependencies, error) {
	if raw == nil {
		return nil, nil
	}
	entries, ok := raw.(map[string]any)
	if !ok {
		return nil, invalidManifest(fmt.Sprintf("%s must be a table", table))
	}
	deps := make(types.Dependencies, len(entries))
	for name, value := range entries {
		dep, err := decodeDependency(value)
		if err != nil {
			return nil, invalidManifest(fmt.Sprintf("%s.%s: %s", table, name, err.Error()))
		}
		deps[name] = dep
	}
	return deps, nil
}

func decodeDependency(raw any) (types.Dependency, error) {
	switch value := raw.(type) {
	case string:
		return types.SimpleDependency{Version: value}, nil
	case map[string]any:
		if inherited, _ := value["workspace"].(bool); inherited {
			return types.InheritedDependency{Fields: withoutKey(value, "workspace")}, nil
		}
		dep := types.DetailedDependency{Fields: withoutKey(value, "version")}
		if version, present := value["version"]; present {
			text, ok := version.(string)
			if !ok {
				return nil, errors.New("version must be a string")
			}
			dep.Version = &text
		}
		return dep, nil
	default:
		return nil, errors.New("dependency must be a string or a table")
	}
}

func putDependencies(doc map[string]any, key string, deps types.Dependencies) error {
	if deps == nil {
		return nil
	}
	table := make(map[string]any, len(deps))
	for name, dep := range deps {
		switch dep := dep.(type) {
		case types.SimpleDependency:
			table[name] = dep.Version
		case types.InheritedDependency:
			entry, _ := cloneValue(dep.Fields).(map[string]any)
			if entry == nil {
				entry = map[string]any{}
			}
			entry["workspace"] = true
			table[name] = entry
		case types.DetailedDependency:
			entry, _ := cloneValue(dep.Fields).(map[string]any)
			if entry == nil {
				entry = map[string]any{}
			}
			if dep.Version != nil {
				entry["version"] = *dep.Version
			}
			table[name] = entry
		default:
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("unsupported dependency form %T for %s", dep, name))
		}
	}
	doc[key] = table
	return nil
}

func decodeStrings(raw any, field string) ([]string, error) {
	if raw == nil {
		return nil, nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil, invalidManifest(field + " must be an array")
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		value, ok := item.(string)
		if !ok {
			return nil, invalidManifest(field + " must only contain strings")
		}
		out = append(out, value)
	}
	return out, nil
}

func stringsToArray(values []string) []any {
	out := make([]any, 0, len(values))
	for _, value := range values {
		out = append(out, value)
	}
	return out
}

// childTable returns doc[key] as a table, replacing any other value.
func childTable(doc map[string]any, key string) map[string]any {
	if table, ok := doc[key].(map[string]any); ok {
		return table
	}
	table := map[string]any{}
	doc[key] = table
	return table
}

func withoutKey(table map[string]any, key string) map[string]any {
	out := make(map[string]any, len(table))
	for k, v := range table {
		if k != key {
			out[k] = cloneValue(v)
		}
	}
	return out
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, item := range v {
			out[key] = cloneValue(item)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			out[i] = cloneValue(item)
		}
		return out
	default:
		return v
	}
}

func invalidManifest(msg string) error {
	return errbuilder.New().
		WithCode(errbuilder.CodeInvalidArgument).
		WithMsg(msg)
}

var _ ports.ManifestCodecPort = CargoTomlAdapter{}
