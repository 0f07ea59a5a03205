package app

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"wpm/internal/core"
	"wpm/internal/types"
)

// Status reports one package, or every entry of the workspace folder when
// no name is given. Folders no package claims are unlisted; dot entries
// are ignored.
func (s Service) Status(ctx context.Context, req StatusRequest) (StatusResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return StatusResult{}, err
	}
	if name := strings.TrimSpace(req.Name); name != "" {
		entry, err := sess.find(name)
		if err != nil {
			return StatusResult{}, err
		}
		if !isInstalled(entry, sess.workspace) {
			return StatusResult{}, errbuilder.New().
				WithCode(errbuilder.CodeFailedPrecondition).
				WithMsg(fmt.Sprintf("package %s is not installed", name))
		}
		line, err := packageStatus(ctx, entry, sess.workspace, req.Fast)
		if err != nil {
			return StatusResult{}, err
		}
		return newStatusResult([]PackageStatusLine{line}, nil, nil), nil
	}

	names, err := s.Workspace.ListEntries(sess.workspace)
	if err != nil {
		return StatusResult{}, err
	}
	var lines []PackageStatusLine
	var unlisted, ignored []string
	for _, name := range names {
		if strings.HasPrefix(name, ".") {
			ignored = append(ignored, name)
			continue
		}
		entry, ok := sess.db.Find(name)
		if !ok {
			unlisted = append(unlisted, name)
			continue
		}
		line, err := packageStatus(ctx, entry, sess.workspace, req.Fast)
		if err != nil {
			return StatusResult{}, err
		}
		lines = append(lines, line)
	}
	return newStatusResult(lines, unlisted, ignored), nil
}

func packageStatus(ctx context.Context, entry *core.Entry, workspace string, fast bool) (PackageStatusLine, error) {
	status, err := entry.Status(ctx, workspace, fast)
	if err != nil {
		return PackageStatusLine{}, err
	}
	return PackageStatusLine{Name: entry.Name(), PackageStatus: status}, nil
}

func newStatusResult(lines []PackageStatusLine, unlisted []string, ignored []string) StatusResult {
	result := StatusResult{Packages: lines, Unlisted: unlisted, Ignored: ignored}
	for _, line := range lines {
		if line.Updatable {
			result.Updatable++
		}
	}
	return result
}

func isInstalled(entry *core.Entry, workspace string) bool {
	_, err := os.Stat(entry.InstallPath(workspace))
	return err == nil
}

// hasLocalChanges is true when the fast status shows uncommitted work.
func hasLocalChanges(ctx context.Context, entry *core.Entry, workspace string) (bool, error) {
	status, err := entry.Status(ctx, workspace, true)
	if err != nil {
		return false, err
	}
	return status.Marker == types.MarkerDirty, nil
}
