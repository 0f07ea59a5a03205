package app

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpm/internal/adapters"
	"wpm/internal/types"
	"wpm/internal/ui"
)

// fakeGit pretends to be git: clone creates the target with a .git folder,
// every other call answers from stdout by subcommand.
type fakeGit struct {
	stdout map[string]string
	calls  []string
}

func (f *fakeGit) Run(_ context.Context, dir string, name string, args ...string) (types.CommandResult, error) {
	f.calls = append(f.calls, strings.Join(append([]string{name}, args...), " "))
	if name == "git" && len(args) >= 3 && args[0] == "clone" {
		if err := os.MkdirAll(filepath.Join(args[2], ".git"), 0o755); err != nil {
			return types.CommandResult{ExitCode: 1, Stderr: err.Error()}, nil
		}
	}
	if len(args) > 0 {
		return types.CommandResult{Stdout: f.stdout[args[0]]}, nil
	}
	return types.CommandResult{}, nil
}

type fixture struct {
	svc     Service
	git     *fakeGit
	out     *bytes.Buffer
	request WorkspaceRequest
}

func newFixture(t *testing.T, definitions string) fixture {
	t.Helper()
	root := t.TempDir()
	ws := filepath.Join(root, "ws")
	bucket := filepath.Join(root, "bucket")
	require.NoError(t, os.MkdirAll(ws, 0o755))
	require.NoError(t, os.MkdirAll(bucket, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(bucket, "packages.json"), []byte(definitions), 0o644))

	git := &fakeGit{stdout: map[string]string{"rev-parse": "main\n"}}
	out := &bytes.Buffer{}
	svc := Service{
		Runner:    git,
		Archives:  adapters.NewHTTPArchiveInstaller(),
		Repos:     adapters.NewGitRepoInspector(),
		Actions:   adapters.NewActionsFileAdapter(),
		Scripts:   adapters.NewScriptFileAdapter(),
		Workspace: adapters.NewWorkspaceAdapter(),
		Printer:   ui.NewPrinter(out, false),
	}
	return fixture{
		svc:     svc,
		git:     git,
		out:     out,
		request: WorkspaceRequest{Workspace: ws, SearchLocations: []string{bucket}},
	}
}

const twoPackages = `{
	"pkgX": "https://example.com/pkgX.git",
	"pkgY": {"class": "git", "url": "https://example.com/pkgY.git", "active-branch": "main"},
	"self": {"class": "local"}
}`

func TestLoadRequiresSearchLocations(t *testing.T) {
	f := newFixture(t, twoPackages)
	req := f.request
	req.SearchLocations = nil

	_, err := f.svc.Load(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInvalidArgument, errbuilder.CodeOf(err))
}

func TestLoadCreatesStateDirAndSeedsProperties(t *testing.T) {
	f := newFixture(t, twoPackages)
	require.NoError(t, os.MkdirAll(filepath.Join(f.request.Workspace, ".wpm"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(f.request.Workspace, ".wpm", "config.json"), []byte(`{"HOST": "example.com"}`), 0o644))

	db, err := f.svc.Load(context.Background(), f.request)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgX", "pkgY", "self"}, db.AllNames())
	value, ok := db.Property("HOST")
	require.True(t, ok)
	assert.Equal(t, "example.com", value)
	assert.Contains(t, f.out.String(), "-- loading:")
}

func TestLoadQuietSilencesLoading(t *testing.T) {
	f := newFixture(t, twoPackages)
	req := f.request
	req.Quiet = true

	_, err := f.svc.Load(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, f.out.String())
}

func TestInstallAndList(t *testing.T) {
	f := newFixture(t, twoPackages)

	result, err := f.svc.Install(context.Background(), InstallRequest{WorkspaceRequest: f.request, Names: []string{"pkgX"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgX"}, result.Installed)
	assert.DirExists(t, filepath.Join(f.request.Workspace, "pkgX"))
	assert.Contains(t, f.out.String(), "-- installing: pkgX")

	listed, err := f.svc.List(context.Background(), ListRequest{WorkspaceRequest: f.request, Commands: true})
	require.NoError(t, err)
	want := []ListEntry{{
		Index:     1,
		Name:      "pkgX",
		Kind:      types.EntryKindGit,
		Installed: true,
		Command:   "git clone --branch master --single-branch --depth 1 https://example.com/pkgX.git pkgX",
	}}
	if diff := cmp.Diff(want, listed.Entries); diff != "" {
		t.Fatalf("list mismatch (-want +got):\n%s", diff)
	}

	all, err := f.svc.List(context.Background(), ListRequest{WorkspaceRequest: f.request, All: true, Definitions: true})
	require.NoError(t, err)
	require.Len(t, all.Entries, 3)
	assert.Equal(t, 3, all.Total)
	assert.False(t, all.Entries[1].Installed)
	assert.True(t, strings.HasSuffix(all.Entries[1].Definition, "packages.json"))
}

func TestInstallTwiceWithoutForceFails(t *testing.T) {
	f := newFixture(t, twoPackages)
	req := InstallRequest{WorkspaceRequest: f.request, Names: []string{"pkgX"}}

	_, err := f.svc.Install(context.Background(), req)
	require.NoError(t, err)
	result, err := f.svc.Install(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, []string{"pkgX"}, result.Failed)

	req.Skip = true
	result, err = f.svc.Install(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgX"}, result.Skipped)
}

func TestInstallUnknownPackage(t *testing.T) {
	f := newFixture(t, twoPackages)

	_, err := f.svc.Install(context.Background(), InstallRequest{WorkspaceRequest: f.request, Names: []string{"ghost"}})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestStatusClassifiesWorkspaceEntries(t *testing.T) {
	f := newFixture(t, twoPackages)
	ws := f.request.Workspace
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "pkgX", ".git"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(ws, "stray"), 0o755))

	result, err := f.svc.Status(context.Background(), StatusRequest{WorkspaceRequest: f.request, Fast: true})
	require.NoError(t, err)
	want := StatusResult{
		Packages: []PackageStatusLine{{
			Name:          "pkgX",
			PackageStatus: types.PackageStatus{Marker: types.MarkerClean, Status: types.StatusLabelOK, Info: "git:main"},
		}},
		Unlisted: []string{"stray"},
		Ignored:  []string{".wpm"},
	}
	if diff := cmp.Diff(want, result); diff != "" {
		t.Fatalf("status mismatch (-want +got):\n%s", diff)
	}
	for _, call := range f.git.calls {
		assert.NotContains(t, call, "remote update")
	}
}

func TestStatusSinglePackageNotInstalled(t *testing.T) {
	f := newFixture(t, twoPackages)

	_, err := f.svc.Status(context.Background(), StatusRequest{WorkspaceRequest: f.request, Name: "pkgY"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestUpdateRefusesLocalChanges(t *testing.T) {
	f := newFixture(t, twoPackages)
	require.NoError(t, os.MkdirAll(filepath.Join(f.request.Workspace, "pkgY", ".git"), 0o755))
	f.git.stdout["status"] = " M README.md\n"

	_, err := f.svc.Update(context.Background(), UpdateRequest{WorkspaceRequest: f.request, Name: "pkgY"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.NotContains(t, f.git.calls, "git fetch origin")
}

func TestUpdateFastForwardsBranch(t *testing.T) {
	f := newFixture(t, twoPackages)
	require.NoError(t, os.MkdirAll(filepath.Join(f.request.Workspace, "pkgY", ".git"), 0o755))

	result, err := f.svc.Update(context.Background(), UpdateRequest{WorkspaceRequest: f.request, Name: "pkgY"})
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(f.request.Workspace, "pkgY"), result.Path)
	assert.Contains(t, f.git.calls, "git merge --ff-only origin/main")
}

func TestRevisionOfLocalPackage(t *testing.T) {
	f := newFixture(t, twoPackages)

	_, err := f.svc.Revision(context.Background(), RevisionRequest{WorkspaceRequest: f.request, Name: "self"})
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
}

func TestRevisionRemote(t *testing.T) {
	f := newFixture(t, twoPackages)
	f.git.stdout["ls-remote"] = "abc123\trefs/heads/main\n"

	result, err := f.svc.Revision(context.Background(), RevisionRequest{WorkspaceRequest: f.request, Name: "pkgY", Remote: true})
	require.NoError(t, err)
	assert.Equal(t, "abc123", result.Revision)
}

func TestRemove(t *testing.T) {
	f := newFixture(t, twoPackages)
	path := filepath.Join(f.request.Workspace, "pkgX")
	require.NoError(t, os.MkdirAll(filepath.Join(path, "src"), 0o755))

	result, err := f.svc.Remove(context.Background(), RemoveRequest{WorkspaceRequest: f.request, Name: "pkgX"})
	require.NoError(t, err)
	assert.True(t, result.Removed)
	assert.NoDirExists(t, path)

	result, err = f.svc.Remove(context.Background(), RemoveRequest{WorkspaceRequest: f.request, Name: "pkgX"})
	require.NoError(t, err)
	assert.False(t, result.Removed)
	assert.Contains(t, f.out.String(), "is not installed")
}

func TestRefreshVisitsInstalledPackages(t *testing.T) {
	f := newFixture(t, twoPackages)
	require.NoError(t, os.MkdirAll(filepath.Join(f.request.Workspace, "pkgX"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(f.request.Workspace, "stray"), 0o755))

	result, err := f.svc.Refresh(context.Background(), RefreshRequest{WorkspaceRequest: f.request, Fast: true})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Packages)
	assert.Contains(t, f.git.calls, "git config --global --add safe.directory "+filepath.Join(f.request.Workspace, "pkgX"))
}
