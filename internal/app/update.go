package app

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

// Update refuses to touch a checkout with uncommitted changes.
func (s Service) Update(ctx context.Context, req UpdateRequest) (UpdateResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return UpdateResult{}, err
	}
	entry, err := sess.find(req.Name)
	if err != nil {
		return UpdateResult{}, err
	}
	path := entry.InstallPath(sess.workspace)
	if !isInstalled(entry, sess.workspace) {
		return UpdateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("package %s is not installed", req.Name))
	}
	dirty, err := hasLocalChanges(ctx, entry, sess.workspace)
	if err != nil {
		return UpdateResult{}, err
	}
	if dirty {
		return UpdateResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("package %s has local changes", req.Name))
	}

	start := time.Now()
	s.Printer.Step("updating", req.Name, path)
	if err := entry.Update(ctx, sess.workspace); err != nil {
		s.Printer.Failed(start, err)
		return UpdateResult{}, err
	}
	s.Printer.Done(start)
	return UpdateResult{Name: req.Name, Path: path}, nil
}
