package ports

// WorkspacePort reads per-workspace state under <workspace>/.wpm.
type WorkspacePort interface {
	LoadProperties(workspace string) (map[string]string, error)
	EnsureStateDir(workspace string) error
	ListEntries(workspace string) ([]string, error)
}
