package app

import (
	"context"
)

func (s Service) List(ctx context.Context, req ListRequest) (ListResult, error) {
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return ListResult{}, err
	}
	result := ListResult{Total: sess.db.Len()}
	for _, entry := range sess.db.All() {
		installed := isInstalled(entry, sess.workspace)
		if !installed && !req.All {
			continue
		}
		item := ListEntry{
			Index:     len(result.Entries) + 1,
			Name:      entry.Name(),
			Kind:      entry.Kind(),
			Installed: installed,
		}
		if req.Definitions {
			item.Definition = entry.DefinitionLocation()
		}
		if req.Revisions && installed {
			rev, ok, err := entry.InstalledRevision(ctx, sess.workspace)
			if err == nil && ok {
				item.Revision = rev
			}
		}
		if req.Commands {
			item.Command = entry.InstallCommand()
		}
		result.Entries = append(result.Entries, item)
	}
	return result, nil
}
