package core

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	assert "github.com/ZanzyTHEbar/assert-lib"
	"github.com/ZanzyTHEbar/errbuilder-go"

	"wpm/internal/ports"
	"wpm/internal/types"
)

// Toolkit bundles the external capabilities entries call into.
type Toolkit struct {
	Runner   ports.CommandRunnerPort
	Archives ports.ArchivePort
	Repos    ports.RepoInspectorPort
	Actions  ports.ActionsPort
}

// Entry is one declared package. The kind tag selects which of the git,
// zip or local behaviours every operation dispatches to.
type Entry struct {
	name    string
	kind    types.EntryKind
	bucket  *Bucket
	tools   *Toolkit
	git     *types.GitModel
	archive *types.ArchiveModel

	actions       types.PackageActions
	hasActions    bool
	actionsLoaded bool
}

// NewEntry creates an empty entry of the given kind; Deserialize fills it.
func NewEntry(ctx context.Context, kind types.EntryKind, name string, bucket *Bucket, tools *Toolkit) (*Entry, error) {
	assert.NotEmpty(ctx, name, "entry name must be set")
	e := &Entry{name: name, kind: kind, bucket: bucket, tools: tools}
	switch kind {
	case types.EntryKindGit:
		e.git = &types.GitModel{ActiveBranch: types.DefaultBranch}
	case types.EntryKindZip:
		e.archive = &types.ArchiveModel{}
	case types.EntryKindLocal:
	default:
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("unknown package class '%s' for %s", kind, name))
	}
	return e, nil
}

func (e *Entry) Name() string { return e.name }

func (e *Entry) Kind() types.EntryKind { return e.kind }

// Git returns the git model; ok is false for other kinds.
func (e *Entry) Git() (types.GitModel, bool) {
	if e.git == nil {
		return types.GitModel{}, false
	}
	return *e.git, true
}

func (e *Entry) DefinitionLocation() string {
	if e.bucket == nil {
		return ""
	}
	return e.bucket.Location()
}

// InstallPath is always <workspace>/<name>.
func (e *Entry) InstallPath(workspace string) string {
	return filepath.Join(workspace, e.name)
}

// Deserialize accepts either a bare string (the URL) or a structured
// record. It reports false instead of failing on malformed input.
func (e *Entry) Deserialize(raw any) bool {
	switch e.kind {
	case types.EntryKindGit:
		return e.deserializeGit(raw)
	case types.EntryKindZip:
		return e.deserializeZip(raw)
	case types.EntryKindLocal:
		switch raw.(type) {
		case string, map[string]any:
			return true
		}
	}
	return false
}

func (e *Entry) deserializeGit(raw any) bool {
	e.loadGitDefaults()
	switch v := raw.(type) {
	case string:
		if v == "" {
			return false
		}
		e.git.URL = v
		e.git.ActiveBranch = types.DefaultBranch
		return true
	case map[string]any:
		var record types.GitRecord
		if !decodeRecord(v, &record) || record.URL == "" {
			return false
		}
		e.git.URL = record.URL
		e.git.ActiveBranch = types.DefaultBranch
		if record.Branch != "" {
			e.git.ActiveBranch = record.Branch
		}
		e.git.Locked = record.Locked
		e.git.WithLFS = record.LFS
		if record.User != "" {
			e.git.UserName = record.User
		}
		if record.Email != "" {
			e.git.UserEmail = record.Email
		}
		return true
	}
	return false
}

func (e *Entry) loadGitDefaults() {
	if e.bucket == nil {
		return
	}
	if user, ok := e.bucket.Get("git-user"); ok {
		e.git.UserName = user
	}
	if email, ok := e.bucket.Get("git-email"); ok {
		e.git.UserEmail = email
	}
}

func (e *Entry) deserializeZip(raw any) bool {
	switch v := raw.(type) {
	case string:
		if v == "" {
			return false
		}
		e.archive.URL = v
		return true
	case map[string]any:
		var record struct {
			URL string `json:"url"`
		}
		if !decodeRecord(v, &record) || record.URL == "" {
			return false
		}
		e.archive.URL = record.URL
		return true
	}
	return false
}

func decodeRecord(raw map[string]any, out any) bool {
	data, err := json.Marshal(raw)
	if err != nil {
		return false
	}
	return json.Unmarshal(data, out) == nil
}

// SetBranch, Freeze, SetUserName, SetUserEmail and SetLFS only affect git
// entries.
func (e *Entry) SetBranch(branch string) {
	if e.git != nil {
		e.git.ActiveBranch = branch
	}
}

func (e *Entry) Freeze(rev string) {
	if e.git != nil {
		e.git.Locked = rev
	}
}

func (e *Entry) SetUserName(name string) {
	if e.git != nil {
		e.git.UserName = name
	}
}

func (e *Entry) SetUserEmail(email string) {
	if e.git != nil {
		e.git.UserEmail = email
	}
}

func (e *Entry) SetLFS(enabled bool) {
	if e.git != nil {
		e.git.WithLFS = enabled
	}
}

// Install always performs a fresh fetch into the install path. Whether the
// path may be (re)used is the controller's decision.
func (e *Entry) Install(ctx context.Context, workspace string) error {
	switch e.kind {
	case types.EntryKindGit:
		return e.installGit(ctx, workspace)
	case types.EntryKindZip:
		return e.installZip(ctx, workspace)
	default:
		return nil
	}
}

func (e *Entry) Update(ctx context.Context, workspace string) error {
	switch e.kind {
	case types.EntryKindGit:
		return e.updateGit(ctx, workspace)
	case types.EntryKindZip:
		return errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("update is not supported for zip package %s, reinstall it with install --force", e.name))
	default:
		return nil
	}
}

// Status is read-only. With fast set no remote is contacted.
func (e *Entry) Status(ctx context.Context, workspace string, fast bool) (types.PackageStatus, error) {
	switch e.kind {
	case types.EntryKindGit:
		return e.statusGit(ctx, workspace, fast)
	case types.EntryKindZip:
		return types.PackageStatus{Marker: types.MarkerClean, Status: types.StatusLabelOK, Info: "zip:" + e.displayURL(e.archive.URL)}, nil
	default:
		return types.PackageStatus{Marker: types.MarkerClean, Status: types.StatusLabelOK, Info: "local"}, nil
	}
}

// Sanitize is a best-effort repair pass and returns the files it restored.
func (e *Entry) Sanitize(ctx context.Context, workspace string, fast bool) ([]string, error) {
	if e.kind != types.EntryKindGit {
		return nil, nil
	}
	return e.sanitizeGit(ctx, workspace, fast)
}

// InstalledRevision reports the local HEAD; ok is false for kinds without
// revisions.
func (e *Entry) InstalledRevision(ctx context.Context, workspace string) (string, bool, error) {
	if e.kind != types.EntryKindGit {
		return "", false, nil
	}
	rev, err := e.installedGitRevision(ctx, workspace)
	return rev, true, err
}

// RemoteRevision reports the tip of branch on the remote, or of the
// tracked reference when branch is empty.
func (e *Entry) RemoteRevision(ctx context.Context, branch string) (string, bool, error) {
	if e.kind != types.EntryKindGit {
		return "", false, nil
	}
	rev, err := e.remoteGitRevision(ctx, branch)
	return rev, true, err
}

// InstallCommand is a command line that installs the package by hand.
func (e *Entry) InstallCommand() string {
	switch e.kind {
	case types.EntryKindGit:
		return gitInstallCommand(e.displayURL(e.git.URL), *e.git, e.name)
	case types.EntryKindZip:
		url := e.displayURL(e.archive.URL)
		return fmt.Sprintf("wget %s -O %s.zip; unzip %s.zip; rm %s.zip", url, e.name, e.name, e.name)
	default:
		return ""
	}
}

// displayURL expands url without consulting secrets, falling back to the
// raw template.
func (e *Entry) displayURL(url string) string {
	if e.bucket == nil {
		return url
	}
	expanded, err := ExpandTemplate(url, e.bucket.Flatten())
	if err != nil {
		return url
	}
	return expanded
}

// ExpandURL resolves the URL template of the entry against its scope.
func (e *Entry) ExpandURL() (string, error) {
	var raw string
	switch e.kind {
	case types.EntryKindGit:
		raw = e.git.URL
	case types.EntryKindZip:
		raw = e.archive.URL
	default:
		return "", nil
	}
	if e.bucket == nil {
		return ExpandTemplate(raw, nil)
	}
	expanded, err := e.bucket.Expand(raw)
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg(fmt.Sprintf("failed to expand url of %s", e.name)).
			WithCause(err)
	}
	return expanded, nil
}

// Actions lazily loads the post-install actions shipped in the install
// directory. A missing actions file is not an error.
func (e *Entry) Actions(workspace string) (types.PackageActions, bool, error) {
	if e.actionsLoaded {
		return e.actions, e.hasActions, nil
	}
	if e.tools == nil || e.tools.Actions == nil {
		return types.PackageActions{}, false, nil
	}
	actions, ok, err := e.tools.Actions.LoadActions(e.InstallPath(workspace))
	if err != nil {
		return types.PackageActions{}, false, err
	}
	e.actions, e.hasActions, e.actionsLoaded = actions, ok, true
	return actions, ok, nil
}
