package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/shared"
	"wpm/internal/types"
)

func (e *Entry) runGit(ctx context.Context, dir string, args ...string) (string, error) {
	result, err := e.tools.Runner.Run(ctx, dir, "git", args...)
	if err != nil {
		return "", err
	}
	if !result.OK() {
		return "", shared.ResultError("git "+args[0], result)
	}
	return result.Stdout, nil
}

// silentGit returns stdout and swallows failures, for read-only probes.
func (e *Entry) silentGit(ctx context.Context, dir string, args ...string) string {
	result, err := e.tools.Runner.Run(ctx, dir, "git", args...)
	if err != nil {
		return ""
	}
	return result.Stdout
}

func (e *Entry) installGit(ctx context.Context, workspace string) error {
	url, err := e.ExpandURL()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(workspace, 0o755); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create workspace folder").
			WithCause(err)
	}
	path := e.InstallPath(workspace)
	if err := e.cloneAndConfigure(ctx, workspace, url, path); err != nil {
		if _, statErr := os.Stat(path); statErr == nil {
			if rmErr := os.RemoveAll(path); rmErr != nil {
				log.Ctx(ctx).Warn().Err(rmErr).Str("path", path).Msg("failed to clean up partial install")
			}
		}
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to install %s", e.name)).
			WithCause(err)
	}
	return nil
}

func (e *Entry) cloneAndConfigure(ctx context.Context, workspace string, url string, path string) error {
	model := *e.git
	if _, err := e.runGit(ctx, workspace, "clone", url, path); err != nil {
		return err
	}
	if _, err := e.runGit(ctx, path, "checkout", model.CheckoutRef()); err != nil {
		return err
	}
	if model.WithLFS {
		if _, err := e.runGit(ctx, path, "lfs", "pull"); err != nil {
			return err
		}
	}
	if err := e.markSafe(ctx, workspace, path); err != nil {
		return err
	}
	if model.UserName != "" {
		if _, err := e.runGit(ctx, path, "config", "--local", "user.name", model.UserName); err != nil {
			return err
		}
	}
	if model.UserEmail != "" {
		if _, err := e.runGit(ctx, path, "config", "--local", "user.email", model.UserEmail); err != nil {
			return err
		}
	}
	return nil
}

// markSafe registers path as a safe.directory unless it already is.
func (e *Entry) markSafe(ctx context.Context, workspace string, path string) error {
	existing := e.silentGit(ctx, workspace, "config", "--global", "--get-all", "safe.directory")
	for _, line := range strings.Split(existing, "\n") {
		if strings.TrimSpace(line) == path {
			return nil
		}
	}
	_, err := e.runGit(ctx, workspace, "config", "--global", "--add", "safe.directory", path)
	return err
}

func isGitCheckout(path string) bool {
	_, err := os.Stat(filepath.Join(path, ".git"))
	return err == nil
}

func (e *Entry) statusGit(ctx context.Context, workspace string, fast bool) (types.PackageStatus, error) {
	path := e.InstallPath(workspace)
	if !isGitCheckout(path) {
		status := types.PackageStatus{Marker: types.MarkerUntracked, Status: types.StatusLabelView}
		if e.git.Locked != "" {
			status.Info = "locked:" + e.git.Locked
		}
		return status, nil
	}
	return DeriveGitStatus(e.readGitState(ctx, path, fast)), nil
}

func (e *Entry) readGitState(ctx context.Context, path string, fast bool) types.GitState {
	state := types.GitState{Fast: fast}
	if !fast {
		e.silentGit(ctx, path, "remote", "update")
	}
	state.Branch = strings.TrimSpace(e.silentGit(ctx, path, "rev-parse", "--abbrev-ref", "--symbolic-full-name", "HEAD"))
	state.Dirty = strings.Join(strings.Fields(e.silentGit(ctx, path, "status", "--short")), "") != ""
	if fast {
		return state
	}
	state.Hash = strings.TrimSpace(e.silentGit(ctx, path, "rev-parse", "HEAD"))
	if state.Branch == "HEAD" || state.Branch == "" {
		return state
	}
	counts := e.silentGit(ctx, path, "rev-list", "--left-right", "--count", state.Branch+"...origin/"+state.Branch)
	state.Delta = ParseDelta(counts)
	return state
}

// ParseDelta turns "rev-list --left-right --count" output into
// "ahead:N/behind:M", omitting zero sides.
func ParseDelta(output string) string {
	fields := strings.Fields(output)
	if len(fields) < 2 {
		return ""
	}
	var parts []string
	if fields[0] != "0" {
		parts = append(parts, "ahead:"+fields[0])
	}
	if fields[1] != "0" {
		parts = append(parts, "behind:"+fields[1])
	}
	return strings.Join(parts, "/")
}

// DeriveGitStatus applies the marker rules: local changes first, then
// divergence from the remote, else clean. Only a clean but diverged
// checkout is updatable.
func DeriveGitStatus(state types.GitState) types.PackageStatus {
	status := types.PackageStatus{Info: "git:" + state.Branch}
	switch {
	case state.Dirty:
		status.Marker = types.MarkerDirty
		status.Status = types.StatusLabelDirty
	case state.Delta != "":
		status.Marker = types.MarkerDiverged
		status.Status = types.StatusLabelDirty
		status.Updatable = !state.Fast
	default:
		status.Marker = types.MarkerClean
		status.Status = types.StatusLabelOK
	}
	if state.Fast {
		return status
	}
	status.Info += " (" + shortHash(state.Hash) + ")"
	if state.Delta != "" {
		status.Info += " " + state.Delta
	}
	return status
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func (e *Entry) sanitizeGit(ctx context.Context, workspace string, fast bool) ([]string, error) {
	path := e.InstallPath(workspace)
	if _, err := os.Stat(path); err != nil {
		return nil, nil
	}
	if err := e.markSafe(ctx, workspace, path); err != nil {
		log.Ctx(ctx).Warn().Err(err).Str("package", e.name).Msg("failed to mark directory as safe")
	}
	if fast || !isGitCheckout(path) || e.tools.Repos == nil {
		return nil, nil
	}
	modified, err := e.tools.Repos.ModifiedFiles(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read worktree status of %s", e.name)).
			WithCause(err)
	}
	var fixed []string
	for _, file := range modified {
		diff := e.silentGit(ctx, path, "diff", "HEAD", "--", file)
		if !IsModeOnlyDiff(diff) {
			continue
		}
		if _, err := e.runGit(ctx, path, "checkout", "--", file); err != nil {
			return fixed, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to restore %s in %s", file, e.name)).
				WithCause(err)
		}
		log.Ctx(ctx).Debug().Str("package", e.name).Str("file", file).Msg("reverted mode-only change")
		fixed = append(fixed, file)
	}
	return fixed, nil
}

// IsModeOnlyDiff reports whether diff only flips permission bits. Only
// the "diff --git" and mode headers may appear; an index line, a binary
// marker or any hunk means the content changed too.
func IsModeOnlyDiff(diff string) bool {
	modeChanged := false
	for _, line := range strings.Split(diff, "\n") {
		switch {
		case strings.TrimSpace(line) == "":
		case strings.HasPrefix(line, "diff --git "):
		case strings.HasPrefix(line, "old mode "), strings.HasPrefix(line, "new mode "):
			modeChanged = true
		default:
			return false
		}
	}
	return modeChanged
}

func (e *Entry) updateGit(ctx context.Context, workspace string) error {
	path := e.InstallPath(workspace)
	if !isGitCheckout(path) {
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s is not a git checkout", path))
	}
	model := *e.git
	steps := [][]string{{"fetch", "origin"}}
	if model.Locked != "" {
		steps = append(steps, []string{"checkout", model.Locked})
	} else {
		steps = append(steps,
			[]string{"checkout", model.ActiveBranch},
			[]string{"merge", "--ff-only", "origin/" + model.ActiveBranch},
		)
	}
	if model.WithLFS {
		steps = append(steps, []string{"lfs", "pull"})
	}
	for _, args := range steps {
		if _, err := e.runGit(ctx, path, args...); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("failed to update %s", e.name)).
				WithCause(err)
		}
	}
	return nil
}

func (e *Entry) installedGitRevision(ctx context.Context, workspace string) (string, error) {
	path := e.InstallPath(workspace)
	if !isGitCheckout(path) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("%s is not installed as a git checkout", e.name))
	}
	out, err := e.runGit(ctx, path, "rev-parse", "HEAD")
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read revision of %s", e.name)).
			WithCause(err)
	}
	return strings.TrimSpace(out), nil
}

// remoteGitRevision asks the remote for the tip of branch, or of the
// tracked branch when branch is empty. ls-remote matches patterns by
// suffix, so only the line naming exactly refs/heads/<branch> counts.
func (e *Entry) remoteGitRevision(ctx context.Context, branch string) (string, error) {
	url, err := e.ExpandURL()
	if err != nil {
		return "", err
	}
	if branch == "" {
		branch = e.git.ActiveBranch
	}
	ref := branch
	if !strings.HasPrefix(ref, "refs/") {
		ref = "refs/heads/" + branch
	}
	out, err := e.runGit(ctx, "", "ls-remote", url, ref)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to query remote of %s", e.name)).
			WithCause(err)
	}
	if rev, ok := ParseLsRemote(out, ref); ok {
		return rev, nil
	}
	return "", errbuilder.New().
		WithCode(errbuilder.CodeNotFound).
		WithMsg(fmt.Sprintf("branch %s not found on remote of %s", branch, e.name))
}

// ParseLsRemote picks the hash advertised for exactly ref.
func ParseLsRemote(output string, ref string) (string, bool) {
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) == 2 && fields[1] == ref {
			return fields[0], true
		}
	}
	return "", false
}

func gitInstallCommand(url string, model types.GitModel, name string) string {
	if model.Locked != "" {
		return fmt.Sprintf("git clone %s %s; git -C %s checkout %s", url, name, name, model.Locked)
	}
	return fmt.Sprintf("git clone --branch %s --single-branch --depth 1 %s %s", model.ActiveBranch, url, name)
}
