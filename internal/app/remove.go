package app

import (
	"context"
	"time"

	"wpm/internal/core"
)

// Remove deletes the install folder only; the definition stays.
func (s Service) Remove(ctx context.Context, req RemoveRequest) (RemoveResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return RemoveResult{}, err
	}
	entry, err := sess.find(req.Name)
	if err != nil {
		return RemoveResult{}, err
	}
	path := entry.InstallPath(sess.workspace)
	result := RemoveResult{Name: req.Name, Path: path}
	if !isInstalled(entry, sess.workspace) {
		s.Printer.Warn("-- %s is not installed at %s", req.Name, path)
		return result, nil
	}
	start := time.Now()
	s.Printer.Step("removing", req.Name, path)
	if err := core.RemoveFolder(ctx, path); err != nil {
		s.Printer.Failed(start, err)
		return result, err
	}
	s.Printer.Done(start)
	result.Removed = true
	return result, nil
}
