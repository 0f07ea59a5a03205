package adapters

import (
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/go-git/go-git/v5"

	"wpm/internal/ports"
)

// GitRepoInspector reads worktree state through go-git, without spawning
// git processes.
type GitRepoInspector struct{}

func NewGitRepoInspector() GitRepoInspector {
	return GitRepoInspector{}
}

// ModifiedFiles lists tracked files whose worktree copy differs from the
// index, sorted.
func (i GitRepoInspector) ModifiedFiles(path string) ([]string, error) {
	repo, err := git.PlainOpen(path)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("not a git repository: " + path).
			WithCause(err)
	}
	worktree, err := repo.Worktree()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to open worktree").
			WithCause(err)
	}
	status, err := worktree.Status()
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read worktree status").
			WithCause(err)
	}
	var files []string
	for file, fileStatus := range status {
		if fileStatus.Worktree == git.Modified {
			files = append(files, file)
		}
	}
	sort.Strings(files)
	return files, nil
}

var _ ports.RepoInspectorPort = GitRepoInspector{}
