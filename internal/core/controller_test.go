package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wpm/internal/types"
)

type controllerFixture struct {
	ws      string
	runner  *fakeRunner
	actions *fakeActions
	ctrl    *Controller
}

func newControllerFixture(t *testing.T, names ...string) controllerFixture {
	t.Helper()
	ws := t.TempDir()
	runner := &fakeRunner{handle: cloneCreatesPath}
	actions := &fakeActions{byPath: map[string]types.PackageActions{}}
	tools := &Toolkit{Runner: runner, Actions: actions}
	db := NewDatabase(nil)
	bucket := NewBucket(nil, db, "/buckets/defs.json", false)
	for _, name := range names {
		entry, err := NewEntry(context.Background(), types.EntryKindGit, name, bucket, tools)
		require.NoError(t, err)
		require.True(t, entry.Deserialize("https://example.com/"+name+".git"))
		require.NoError(t, db.AddPackage(entry))
	}
	return controllerFixture{ws: ws, runner: runner, actions: actions, ctrl: NewController(db, ws, runner, nil)}
}

func (f controllerFixture) cloned() []string {
	var out []string
	for _, call := range f.runner.calls {
		if len(call.Args) > 1 && call.Args[1] == "clone" {
			out = append(out, filepath.Base(call.Args[3]))
		}
	}
	return out
}

func TestInstallOneFreshInstall(t *testing.T) {
	f := newControllerFixture(t, "pkgX")

	outcome, err := f.ctrl.InstallOne(context.Background(), "pkgX", false, false)
	require.NoError(t, err)
	assert.False(t, outcome.Skipped)
	assert.Equal(t, filepath.Join(f.ws, "pkgX"), outcome.Path)
	assert.Equal(t, []string{"pkgX"}, f.cloned())
}

func TestInstallOneExistingWithoutForceFails(t *testing.T) {
	f := newControllerFixture(t, "pkgX")
	marker := filepath.Join(f.ws, "pkgX", "keep.txt")
	writeFile(t, marker, "local work")

	_, err := f.ctrl.InstallOne(context.Background(), "pkgX", false, false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeFailedPrecondition, errbuilder.CodeOf(err))
	assert.FileExists(t, marker)
	assert.Empty(t, f.runner.calls)
}

func TestInstallOneForceReinstalls(t *testing.T) {
	f := newControllerFixture(t, "pkgX")
	marker := filepath.Join(f.ws, "pkgX", "stale.txt")
	writeFile(t, marker, "old")

	outcome, err := f.ctrl.InstallOne(context.Background(), "pkgX", true, false)
	require.NoError(t, err)
	assert.True(t, outcome.Reinstalled)
	assert.NoFileExists(t, marker)
	assert.DirExists(t, filepath.Join(f.ws, "pkgX"))
	assert.Equal(t, []string{"pkgX"}, f.cloned())
}

func TestInstallOneSkipKeepsInstallAndReadsActions(t *testing.T) {
	f := newControllerFixture(t, "pkgX")
	path := filepath.Join(f.ws, "pkgX")
	marker := filepath.Join(path, "keep.txt")
	writeFile(t, marker, "local work")
	f.actions.byPath[path] = types.PackageActions{Dependencies: []string{"pkgY"}, Install: []string{"make"}}

	outcome, err := f.ctrl.InstallOne(context.Background(), "pkgX", true, true)
	require.NoError(t, err)
	assert.True(t, outcome.Skipped)
	assert.Equal(t, []string{"pkgY"}, outcome.Dependencies)
	assert.FileExists(t, marker)
	assert.Empty(t, f.runner.calls)
	assert.Equal(t, 1, f.actions.loads)
}

func TestInstallOneUnknownPackage(t *testing.T) {
	f := newControllerFixture(t)

	_, err := f.ctrl.InstallOne(context.Background(), "ghost", false, false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
}

func TestInstallOneRunsInstallActions(t *testing.T) {
	f := newControllerFixture(t, "pkgX")
	path := filepath.Join(f.ws, "pkgX")
	f.actions.byPath[path] = types.PackageActions{Install: []string{"make setup"}}

	_, err := f.ctrl.InstallOne(context.Background(), "pkgX", false, false)
	require.NoError(t, err)
	last := f.runner.calls[len(f.runner.calls)-1]
	assert.Equal(t, path, last.Dir)
	assert.Equal(t, []string{"sh", "-c", "make setup"}, last.Args)
}

func TestInstallOneFailingActionIsInstallFailure(t *testing.T) {
	f := newControllerFixture(t, "pkgX")
	f.runner.handle = func(dir string, args []string) types.CommandResult {
		if args[0] == "sh" {
			return types.CommandResult{ExitCode: 2, Stderr: "boom"}
		}
		return cloneCreatesPath(dir, args)
	}
	f.actions.byPath[filepath.Join(f.ws, "pkgX")] = types.PackageActions{Install: []string{"false"}}

	_, err := f.ctrl.InstallOne(context.Background(), "pkgX", false, false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeInternal, errbuilder.CodeOf(err))
}

func TestInstallLoopShallowIgnoresDependencies(t *testing.T) {
	f := newControllerFixture(t, "pkgX", "pkgY")
	f.actions.byPath[filepath.Join(f.ws, "pkgX")] = types.PackageActions{Dependencies: []string{"pkgY"}}

	report, err := f.ctrl.InstallLoop(context.Background(), []string{"pkgX"}, false, true, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{"pkgX"}, f.cloned())
	assert.Equal(t, []string{"pkgX"}, report.Order)
}

func TestInstallLoopFollowsDependenciesOnce(t *testing.T) {
	f := newControllerFixture(t, "pkgX", "pkgY", "pkgZ")
	f.actions.byPath[filepath.Join(f.ws, "pkgX")] = types.PackageActions{Dependencies: []string{"pkgY", "pkgZ"}}
	f.actions.byPath[filepath.Join(f.ws, "pkgY")] = types.PackageActions{Dependencies: []string{"pkgX", "pkgZ"}}

	report, err := f.ctrl.InstallLoop(context.Background(), []string{"pkgX"}, false, false, false)
	require.NoError(t, err)
	require.NoError(t, report.Err())
	assert.Equal(t, []string{"pkgX", "pkgZ", "pkgY"}, report.Order)
	assert.ElementsMatch(t, []string{"pkgX", "pkgY", "pkgZ"}, f.cloned())
}

func TestInstallLoopRunsLastRequestedNameFirst(t *testing.T) {
	f := newControllerFixture(t, "pkgX", "pkgY", "pkgZ")

	report, err := f.ctrl.InstallLoop(context.Background(), []string{"pkgX", "pkgY", "pkgZ"}, false, true, false)
	require.NoError(t, err)
	assert.Equal(t, []string{"pkgZ", "pkgY", "pkgX"}, report.Order)
}

func TestInstallLoopContinuesAfterInstallFailure(t *testing.T) {
	f := newControllerFixture(t, "pkgX", "pkgY")
	writeFile(t, filepath.Join(f.ws, "pkgX", "keep.txt"), "local")

	report, err := f.ctrl.InstallLoop(context.Background(), []string{"pkgX", "pkgY"}, false, true, false)
	require.NoError(t, err)
	require.Contains(t, report.Failed, "pkgX")
	assert.Equal(t, []string{"pkgY"}, f.cloned())
	assert.Error(t, report.Err())
}

func TestInstallLoopStopsOnUnknownPackage(t *testing.T) {
	f := newControllerFixture(t, "pkgX")

	_, err := f.ctrl.InstallLoop(context.Background(), []string{"pkgX", "ghost"}, false, true, false)
	require.Error(t, err)
	assert.Equal(t, errbuilder.CodeNotFound, errbuilder.CodeOf(err))
	assert.Empty(t, f.cloned())
}

func TestRemoveFolder(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "pkg")
	writeFile(t, filepath.Join(dir, "nested", "file.txt"), "x")

	require.NoError(t, RemoveFolder(context.Background(), dir))
	_, err := os.Stat(dir)
	assert.True(t, os.IsNotExist(err))
	require.NoError(t, RemoveFolder(context.Background(), dir))
}

func TestRemovalErrorMatchesSentinel(t *testing.T) {
	err := removalError("/ws/pkg", context.Canceled)
	assert.True(t, errors.Is(err, ErrRemovalFailed))
	assert.Contains(t, err.Error(), "/ws/pkg")
}
