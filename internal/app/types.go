package app

import "wpm/internal/types"

// WorkspaceRequest locates the workspace and the buckets to load. Every
// request embeds it.
type WorkspaceRequest struct {
	Workspace       string
	SearchLocations []string
	Quiet           bool
}

type InstallRequest struct {
	WorkspaceRequest
	Names   []string
	Force   bool
	Shallow bool
	Skip    bool
}

type InstallResult struct {
	Installed []string
	Skipped   []string
	Failed    []string
}

type StatusRequest struct {
	WorkspaceRequest
	Name string
	Fast bool
}

type PackageStatusLine struct {
	Name string
	types.PackageStatus
}

type StatusResult struct {
	Packages  []PackageStatusLine
	Unlisted  []string
	Ignored   []string
	Updatable int
}

type ListRequest struct {
	WorkspaceRequest
	All         bool
	Definitions bool
	Revisions   bool
	Commands    bool
}

type ListEntry struct {
	Index      int
	Name       string
	Kind       types.EntryKind
	Installed  bool
	Definition string
	Revision   string
	Command    string
}

type ListResult struct {
	Entries []ListEntry
	Total   int
}

type RefreshRequest struct {
	WorkspaceRequest
	Fast bool
}

type RefreshResult struct {
	Packages int
	Restored map[string][]string
}

type UpdateRequest struct {
	WorkspaceRequest
	Name string
}

type UpdateResult struct {
	Name string
	Path string
}

type RevisionRequest struct {
	WorkspaceRequest
	Name   string
	Remote bool
}

type RevisionResult struct {
	Name     string
	Revision string
}

type RemoveRequest struct {
	WorkspaceRequest
	Name string
}

type RemoveResult struct {
	Name    string
	Path    string
	Removed bool
}
