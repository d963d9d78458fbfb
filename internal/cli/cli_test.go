package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cargo-set/internal/types"
)

// ---------- Command tree tests ----------

func TestRootCommandHasSubcommands(t *testing.T) {
	root := newRootCommand()
	names := make([]string, 0, len(root.Commands()))
	for _, cmd := range root.Commands() {
		names = append(names, cmd.Name())
	}
	for _, name := range []string{"set", "inspect", "validate"} {
		assert.Contains(t, names, name, "missing subcommand: %s", name)
	}
}

func TestRootCommandVersion(t *testing.T) {
	root := newRootCommand()
	assert.Equal(t, "dev", root.Version)
}

func TestRootCommandPathFlag(t *testing.T) {
	root := newRootCommand()
	flag := root.PersistentFlags().Lookup("path")
	require.NotNil(t, flag)
	assert.Equal(t, "Cargo.toml", flag.DefValue)

	for _, sub := range root.Commands() {
		assert.Nil(t, sub.LocalNonPersistentFlags().Lookup("path"), "%s declares its own path flag", sub.Name())
	}
}

func TestSetCommandFlags(t *testing.T) {
	cmd := newSetCommand()
	flags := []string{
		"crate", "set-version", "bump",
		"workspace", "write-members", "dry-run",
	}
	for _, name := range flags {
		flag := cmd.Flags().Lookup(name)
		assert.NotNil(t, flag, "missing flag: %s", name)
	}
}

func TestInspectCommandFlags(t *testing.T) {
	cmd := newInspectCommand()
	assert.NotNil(t, cmd.Flags().Lookup("format"))
}

// ---------- Command execution tests ----------

func writeManifests(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	return dir
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append(args, "--log-level", "off"))
	err := root.ExecuteContext(t.Context())
	return out.String(), err
}

func TestSetCommandUpdatesWorkspace(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"Cargo.toml":       "[workspace]\nmembers = [\"child\"]\n[workspace.dependencies]\nchild = { version = \"0.2.0\", path = \"child\" }\n",
		"child/Cargo.toml": "[package]\nname = \"child\"\nversion = \"0.2.0\"\n",
	})

	out, err := runRoot(t, "set", "--crate", "child", "--set-version", "0.3.0", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "workspace.dependencies.child.version 0.2.0 -> 0.3.0")
	assert.Contains(t, out, "wrote "+filepath.Join(dir, "Cargo.toml"))
	assert.Contains(t, out, "set child to 0.3.0")

	root, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(root), "0.3.0")
	child, err := os.ReadFile(filepath.Join(dir, "child", "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, string(child), "0.2.0")
}

func TestSetCommandDryRun(t *testing.T) {
	content := "[package]\nname = \"solo\"\nversion = \"1.0.0\"\n"
	dir := writeManifests(t, map[string]string{"Cargo.toml": content})

	out, err := runRoot(t, "set", "--crate", "solo", "--bump", "patch", "--dry-run", "--path", filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Contains(t, out, "package.version 1.0.0 -> 1.0.1")
	assert.Contains(t, out, "dry run: 1 changes, nothing written")

	data, err := os.ReadFile(filepath.Join(dir, "Cargo.toml"))
	require.NoError(t, err)
	assert.Equal(t, content, string(data))
}

func TestSetAndInspectShareEnvironmentPath(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"solo\"\nversion = \"1.0.0\"\n",
	})
	t.Setenv("CARGO_SET_PATH", dir)

	out, err := runRoot(t, "set", "--crate", "solo", "--set-version", "1.1.0")
	require.NoError(t, err)
	assert.Contains(t, out, "wrote "+filepath.Join(dir, "Cargo.toml"))

	out, err = runRoot(t, "inspect")
	require.NoError(t, err)
	assert.Contains(t, out, "1.1.0")
}

func TestSetCommandRequiresVersionSource(t *testing.T) {
	_, err := runRoot(t, "set", "--crate", "solo")
	require.Error(t, err)

	_, err = runRoot(t, "set", "--crate", "solo", "--set-version", "1.0.0", "--bump", "patch")
	require.Error(t, err)
}

func TestInspectCommandYAML(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"Cargo.toml": "[package]\nname = \"solo\"\nversion = \"1.0.0\"\n",
	})
	out, err := runRoot(t, "inspect", "--path", dir, "--format", "yaml")
	require.NoError(t, err)
	assert.Contains(t, out, "package: solo")
	assert.Contains(t, out, "version: 1.0.0")
}

func TestValidateCommandReportsDrift(t *testing.T) {
	dir := writeManifests(t, map[string]string{
		"Cargo.toml":       "[workspace]\nmembers = [\"child\"]\n[workspace.dependencies]\nchild = { version = \"0.1\", path = \"child\" }\n",
		"child/Cargo.toml": "[package]\nname = \"child\"\nversion = \"0.2.0\"\n",
	})
	out, err := runRoot(t, "validate", "--path", dir)
	require.Error(t, err)
	assert.Equal(t, 4, exitCodeForError(err))
	assert.Contains(t, out, "workspace.dependencies.child requires 0.1, workspace has 0.2.0")

	_, err = runRoot(t, "set", "--crate", "child", "--set-version", "0.2.0", "--path", dir)
	require.NoError(t, err)
	out, err = runRoot(t, "validate", "--path", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "validated: 2 manifests")
}

func TestInspectCommandRejectsFormat(t *testing.T) {
	_, err := runRoot(t, "inspect", "--path", t.TempDir(), "--format", "json")
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

// ---------- Helper function tests ----------

func TestResolveString(t *testing.T) {
	tests := []struct {
		name     string
		cmd      *cobra.Command
		value    string
		expected string
	}{
		{
			name:     "nil cmd with value returns value",
			cmd:      nil,
			value:    "explicit",
			expected: "explicit",
		},
		{
			name:     "nil cmd empty value returns empty",
			cmd:      nil,
			value:    "",
			expected: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolveString(tt.cmd, tt.value, "test_key", "test-flag")
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestResolveBool(t *testing.T) {
	got := resolveBool(nil, true, "test_key", "test-flag")
	assert.True(t, got)

	got = resolveBool(nil, false, "test_key", "test-flag")
	assert.False(t, got)
}

func TestFlagChanged(t *testing.T) {
	assert.False(t, flagChanged(nil, "anything"), "nil cmd should return false")
	assert.False(t, flagChanged(nil, ""), "nil cmd with empty name")

	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	assert.False(t, flagChanged(cmd, "myflag"), "unchanged flag")
	assert.False(t, flagChanged(cmd, "nonexistent"), "nonexistent flag")
}

func TestFlagChangedAfterSet(t *testing.T) {
	cmd := &cobra.Command{Use: "test"}
	cmd.Flags().String("myflag", "", "test flag")
	require.NoError(t, cmd.Flags().Set("myflag", "val"))
	assert.True(t, flagChanged(cmd, "myflag"))
}

// ---------- Exit code tests ----------

func TestExitCodeForError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{
			name: "invalid argument",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("bad input"),
			expected: 2,
		},
		{
			name: "permission denied",
			err: errbuilder.New().
				WithCode(errbuilder.CodePermissionDenied).
				WithMsg("nope"),
			expected: 3,
		},
		{
			name: "version not semantic",
			err: errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg("current version \"1.2\" is not a semantic version"),
			expected: 4,
		},
		{
			name: "crate not found",
			err: errbuilder.New().
				WithCode(errbuilder.CodeNotFound).
				WithMsg("package ghost not found in workspace"),
			expected: 5,
		},
		{
			name: "manifest parse",
			err: &types.ManifestError{
				Kind: types.ManifestErrorParse,
				Path: "Cargo.toml",
				Err:  errbuilder.New().WithCode(errbuilder.CodeInvalidArgument).WithMsg("bad toml"),
			},
			expected: 2,
		},
		{
			name: "manifest io",
			err: &types.ManifestError{
				Kind: types.ManifestErrorIO,
				Path: "Cargo.toml",
				Err:  errbuilder.New().WithCode(errbuilder.CodePermissionDenied).WithMsg("denied"),
			},
			expected: 5,
		},
		{
			name:     "unknown error",
			err:      assert.AnError,
			expected: 1,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeForError(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name: "errbuilder with msg",
			err: errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("something broke"),
			expected: "something broke",
		},
		{
			name: "manifest error",
			err: &types.ManifestError{
				Kind: types.ManifestErrorIO,
				Path: "child/Cargo.toml",
				Err:  errbuilder.New().WithCode(errbuilder.CodeNotFound).WithMsg("file not found"),
			},
			expected: "io error for child/Cargo.toml: file not found",
		},
		{
			name:     "plain error",
			err:      assert.AnError,
			expected: assert.AnError.Error(),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := errorMessage(tt.err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
