package app

import (
	"context"
	"sort"

	"github.com/ZanzyTHEbar/errbuilder-go"
)

func (s Service) Install(ctx context.Context, req InstallRequest) (InstallResult, error) {
	if len(req.Names) == 0 {
		return InstallResult{}, errbuilder.New().
			WithCode(errbuilder.CodeInvalidArgument).
			WithMsg("at least one package name is required")
	}
	sess, err := s.open(ctx, req.WorkspaceRequest)
	if err != nil {
		return InstallResult{}, err
	}
	report, err := sess.ctrl.InstallLoop(ctx, req.Names, req.Force, req.Shallow, req.Skip)
	result := InstallResult{}
	for _, outcome := range report.Installed {
		if outcome.Skipped {
			result.Skipped = append(result.Skipped, outcome.Name)
		} else {
			result.Installed = append(result.Installed, outcome.Name)
		}
	}
	for name := range report.Failed {
		result.Failed = append(result.Failed, name)
	}
	sort.Strings(result.Failed)
	if err != nil {
		return result, err
	}
	return result, report.Err()
}
