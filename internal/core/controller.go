package core

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"

	"wpm/internal/ports"
	"wpm/internal/shared"
	"wpm/internal/ui"
)

// InstallOutcome describes what InstallOne did with a package.
type InstallOutcome struct {
	Name         string
	Path         string
	Skipped      bool
	Reinstalled  bool
	Dependencies []string
}

// InstallReport summarises an install loop. Failures do not stop the
// loop; they are collected per package.
type InstallReport struct {
	Installed []InstallOutcome
	Failed    map[string]error
	Order     []string
}

func (r InstallReport) Err() error {
	if len(r.Failed) == 0 {
		return nil
	}
	return errbuilder.New().
		WithCode(errbuilder.CodeInternal).
		WithMsg(fmt.Sprintf("%d package(s) failed to install", len(r.Failed)))
}

// Controller installs packages of a database into a workspace.
type Controller struct {
	db        *Database
	workspace string
	runner    ports.CommandRunnerPort
	printer   *ui.Printer
}

func NewController(db *Database, workspace string, runner ports.CommandRunnerPort, printer *ui.Printer) *Controller {
	return &Controller{db: db, workspace: workspace, runner: runner, printer: printer}
}

// InstallOne installs name. An existing install path is reused with skip,
// replaced with force and refused otherwise. Dependencies reported by the
// package's actions file are returned for the caller to follow.
func (c *Controller) InstallOne(ctx context.Context, name string, force bool, skip bool) (InstallOutcome, error) {
	entry, ok := c.db.Find(name)
	if !ok {
		return InstallOutcome{Name: name}, errbuilder.New().
			WithCode(errbuilder.CodeNotFound).
			WithMsg(fmt.Sprintf("package %s not found", name))
	}
	path := entry.InstallPath(c.workspace)
	outcome := InstallOutcome{Name: name, Path: path}

	_, statErr := os.Lstat(path)
	exists := statErr == nil
	switch {
	case exists && skip:
		outcome.Skipped = true
		c.printer.Step("skipping", name, path)
	case exists && !force:
		return outcome, errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg(fmt.Sprintf("package %s is already installed at %s", name, path))
	case exists:
		start := time.Now()
		c.printer.Step("removing", name, path)
		if err := RemoveFolder(ctx, path); err != nil {
			c.printer.Failed(start, err)
			return outcome, err
		}
		c.printer.Done(start)
		outcome.Reinstalled = true
	}

	if !outcome.Skipped {
		start := time.Now()
		c.printer.Step("installing", name, path)
		if err := entry.Install(ctx, c.workspace); err != nil {
			c.printer.Failed(start, err)
			return outcome, err
		}
		if err := c.runInstallActions(ctx, entry); err != nil {
			c.printer.Failed(start, err)
			return outcome, err
		}
		c.printer.Done(start)
	}

	actions, found, err := entry.Actions(c.workspace)
	if err != nil {
		return outcome, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read actions of %s", name)).
			WithCause(err)
	}
	if found {
		outcome.Dependencies = actions.Dependencies
	}
	return outcome, nil
}

func (c *Controller) runInstallActions(ctx context.Context, entry *Entry) error {
	actions, found, err := entry.Actions(c.workspace)
	if err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg(fmt.Sprintf("failed to read actions of %s", entry.Name())).
			WithCause(err)
	}
	if !found || len(actions.Install) == 0 {
		return nil
	}
	dir := entry.InstallPath(c.workspace)
	for _, command := range actions.Install {
		log.Ctx(ctx).Debug().Str("package", entry.Name()).Str("command", command).Msg("running install action")
		result, err := c.runner.Run(ctx, dir, "sh", "-c", command)
		if err == nil && !result.OK() {
			err = shared.ResultError(command, result)
		}
		if err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg(fmt.Sprintf("install action of %s failed", entry.Name())).
				WithCause(err)
		}
	}
	return nil
}

// InstallLoop installs names and, unless shallow, whatever they report as
// dependencies. The queue is a stack: the last requested name and the
// last reported dependency are installed first. Every name is processed
// at most once. Unknown packages and removal failures abort the loop.
func (c *Controller) InstallLoop(ctx context.Context, names []string, force bool, shallow bool, skip bool) (InstallReport, error) {
	report := InstallReport{Failed: map[string]error{}}
	queue := append([]string(nil), names...)
	visited := map[string]struct{}{}

	for len(queue) > 0 {
		name := queue[len(queue)-1]
		queue = queue[:len(queue)-1]
		if _, seen := visited[name]; seen {
			continue
		}
		visited[name] = struct{}{}
		report.Order = append(report.Order, name)

		outcome, err := c.InstallOne(ctx, name, force, skip)
		if err != nil {
			if errors.Is(err, ErrRemovalFailed) || errbuilder.CodeOf(err) == errbuilder.CodeNotFound {
				return report, err
			}
			log.Ctx(ctx).Warn().Err(err).Str("package", name).Msg("install failed")
			report.Failed[name] = err
			continue
		}
		report.Installed = append(report.Installed, outcome)
		if shallow {
			continue
		}
		for _, dep := range outcome.Dependencies {
			if _, seen := visited[dep]; !seen {
				queue = append(queue, dep)
			}
		}
	}
	return report, nil
}
