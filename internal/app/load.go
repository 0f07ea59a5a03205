package app

import (
	"context"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"wpm/internal/core"
	"wpm/internal/ports"
)

// session is one loaded workspace: its database plus the controller bound
// to it.
type session struct {
	workspace string
	db        *core.Database
	ctrl      *core.Controller
}

func (s Service) toolkit() *core.Toolkit {
	return &core.Toolkit{
		Runner:   s.Runner,
		Archives: s.Archives,
		Repos:    s.Repos,
		Actions:  s.Actions,
	}
}

// Load reads the workspace configuration and every bucket reachable from
// the search locations.
func (s Service) Load(ctx context.Context, req WorkspaceRequest) (*core.Database, error) {
	sess, err := s.open(ctx, req)
	if err != nil {
		return nil, err
	}
	return sess.db, nil
}

func (s Service) open(ctx context.Context, req WorkspaceRequest) (session, error) {
	workspace := strings.TrimSpace(req.Workspace)
	if workspace == "" {
		return session{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("workspace path is required")
	}
	if len(req.SearchLocations) == 0 {
		return session{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("no search locations configured, set WPM_SEARCH_LOCATIONS")
	}
	if err := s.Workspace.EnsureStateDir(workspace); err != nil {
		return session{}, err
	}
	props, err := s.Workspace.LoadProperties(workspace)
	if err != nil {
		return session{}, err
	}
	var secrets ports.SecretsPort
	if s.Secrets != nil {
		secrets, err = s.Secrets(workspace)
		if err != nil {
			return session{}, err
		}
	}

	printer := s.Printer
	if req.Quiet {
		printer = nil
	}
	printer.Step("workspace", workspace, "")
	tools := s.toolkit()
	db, err := core.LoadAllPackages(ctx, props, secrets, tools, s.Scripts, printer, req.SearchLocations)
	if err != nil {
		return session{}, err
	}
	return session{
		workspace: workspace,
		db:        db,
		ctrl:      core.NewController(db, workspace, s.Runner, s.Printer),
	}, nil
}

func (sess session) find(name string) (*core.Entry, error) {
	entry, ok := sess.db.Find(name)
	if !ok {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg("package " + name + " not found")
	}
	return entry, nil
}
