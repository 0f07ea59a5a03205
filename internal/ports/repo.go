package ports

// RepoInspectorPort reads local repository state without shelling out.
type RepoInspectorPort interface {
	ModifiedFiles(path string) ([]string, error)
}
