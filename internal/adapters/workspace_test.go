package adapters

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWorkspaceAdapter_LoadProperties(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".wpm"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".wpm", "config.json"),
		[]byte(`{"HOST": "example.com", "PORT": 8080, "DEBUG": true, "EMPTY": null, "LIST": ["a"]}`), 0644))

	props, err := NewWorkspaceAdapter().LoadProperties(ws)
	require.NoError(t, err)
	want := map[string]string{
		"HOST":  "example.com",
		"PORT":  "8080",
		"DEBUG": "true",
		"EMPTY": "",
		"LIST":  `["a"]`,
	}
	if diff := cmp.Diff(want, props); diff != "" {
		t.Fatalf("properties mismatch (-want +got):\n%s", diff)
	}
}

func TestWorkspaceAdapter_MissingConfigIsEmpty(t *testing.T) {
	props, err := NewWorkspaceAdapter().LoadProperties(t.TempDir())
	require.NoError(t, err)
	assert.Empty(t, props)
}

func TestWorkspaceAdapter_MalformedConfig(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".wpm"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(ws, ".wpm", "config.json"), []byte(`{`), 0644))

	_, err := NewWorkspaceAdapter().LoadProperties(ws)
	require.Error(t, err)
}

func TestWorkspaceAdapter_EmptyRootErrors(t *testing.T) {
	_, err := NewWorkspaceAdapter().LoadProperties("")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "workspace root is empty")
}

func TestWorkspaceAdapter_EnsureStateDirAndList(t *testing.T) {
	ws := t.TempDir()
	adapter := NewWorkspaceAdapter()
	require.NoError(t, adapter.EnsureStateDir(ws))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "zeta"), 0755))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "alpha"), 0755))

	names, err := adapter.ListEntries(ws)
	require.NoError(t, err)
	assert.Equal(t, []string{".wpm", "alpha", "zeta"}, names)
}

func TestFindWorkspaceRoot(t *testing.T) {
	ws := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(ws, ".wpm"), 0755))
	nested := filepath.Join(ws, "pkg", "src")
	require.NoError(t, os.MkdirAll(nested, 0755))

	root, ok := FindWorkspaceRoot(nested)
	require.True(t, ok)
	assert.Equal(t, ws, root)

	root, ok = FindWorkspaceRoot(ws)
	require.True(t, ok)
	assert.Equal(t, ws, root)
}
