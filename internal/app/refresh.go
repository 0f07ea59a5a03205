package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// Refresh runs the sanitize pass over every installed package.
func (s Service) Refresh(ctx context.Context, req RefreshRequest) (RefreshResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return RefreshResult{}, err
	}
	names, err := s.Workspace.ListEntries(sess.workspace)
	if err != nil {
		return RefreshResult{}, err
	}
	result := RefreshResult{Restored: map[string][]string{}}
	for _, name := range names {
		entry, ok := sess.db.Find(name)
		if !ok {
			continue
		}
		start := time.Now()
		s.Printer.Step("refreshing", name, entry.InstallPath(sess.workspace))
		restored, err := entry.Sanitize(ctx, sess.workspace, req.Fast)
		if err != nil {
			s.Printer.Failed(start, err)
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("refresh failed")
			continue
		}
		for _, file := range restored {
			s.Printer.Linef("   restored %s", file)
		}
		s.Printer.Done(start)
		result.Packages++
		if len(restored) > 0 {
			result.Restored[name] = restored
		}
	}
	return result, nil
}
