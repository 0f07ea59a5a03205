package app

import (
	"context"
	"fmt"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Revision(ctx context.Context, req RevisionRequest) (RevisionResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return RevisionResult{}, err
	}
	entry, err := sess.find(req.Name)
	if err != nil {
		return RevisionResult{}, err
	}
	var (
		rev string
		ok  bool
	)
	if req.Remote {
		rev, ok, err = entry.RemoteRevision(ctx, "")
	} else {
		rev, ok, err = entry.InstalledRevision(ctx, sess.workspace)
	}
	if err != nil {
		return RevisionResult{}, err
	}
	if !ok {
		return RevisionResult{}, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("%s packages have no revision", entry.Kind()))
	}
	return RevisionResult{Name: req.Name, Revision: rev}, nil
}
