// Package testutil provides throwaway git remotes for the integration
// tests.
package testutil

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// RequireGit skips the test when no git binary is available and points
// the global git configuration at a private file so safe.directory
// entries written by installs do not leak into the user's config.
func RequireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
	t.Setenv("GIT_CONFIG_GLOBAL", filepath.Join(t.TempDir(), "gitconfig"))
	t.Setenv("GIT_CONFIG_NOSYSTEM", "1")
	t.Setenv("GIT_AUTHOR_NAME", "wpm test")
	t.Setenv("GIT_AUTHOR_EMAIL", "wpm@example.com")
	t.Setenv("GIT_COMMITTER_NAME", "wpm test")
	t.Setenv("GIT_COMMITTER_EMAIL", "wpm@example.com")
}

// Git runs git in dir and returns its trimmed stdout.
func Git(t *testing.T, dir string, args ...string) string {
	t.Helper()
	cmd := exec.Command("git", args...)
	cmd.Dir = dir
	out, err := cmd.Output()
	if err != nil {
		var stderr string
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			stderr = string(exitErr.Stderr)
		}
		require.NoError(t, err, "git %s: %s", strings.Join(args, " "), stderr)
	}
	return strings.TrimSpace(string(out))
}

// Remote is a bare repository on disk plus a working clone used to push
// new commits into it.
type Remote struct {
	Bare string
	Work string
}

// URL is the file URL of the bare repository.
func (r Remote) URL() string {
	return "file://" + r.Bare
}

// NewRemote creates a bare repository with branch main holding a single
// commit that adds README.md.
func NewRemote(t *testing.T) Remote {
	t.Helper()
	root := t.TempDir()
	remote := Remote{Bare: filepath.Join(root, "remote.git"), Work: filepath.Join(root, "work")}
	Git(t, root, "init", "--bare", "--initial-branch=main", remote.Bare)
	Git(t, root, "clone", remote.Bare, remote.Work)
	Git(t, remote.Work, "symbolic-ref", "HEAD", "refs/heads/main")
	remote.Commit(t, "README.md", "hello\n", "initial")
	return remote
}

// Commit writes file in the working clone, commits it and pushes main.
// It returns the new head revision.
func (r Remote) Commit(t *testing.T, file string, content string, message string) string {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(filepath.Join(r.Work, file)), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(r.Work, file), []byte(content), 0o644))
	Git(t, r.Work, "add", file)
	Git(t, r.Work, "commit", "-m", message)
	Git(t, r.Work, "push", "origin", "main")
	return Git(t, r.Work, "rev-parse", "HEAD")
}
