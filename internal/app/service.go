package app

import (
	"wpm/internal/adapters"
	"wpm/internal/ports"
	"wpm/internal/ui"
)

type Service struct {
	Runner    ports.CommandRunnerPort
	Archives  ports.ArchivePort
	Repos     ports.RepoInspectorPort
	Actions   ports.ActionsPort
	Scripts   ports.ScriptLoaderPort
	Workspace ports.WorkspacePort
	Secrets   func(workspace string) (ports.SecretsPort, error)
	Printer   *ui.Printer
}

func NewService(printer *ui.Printer) Service {
	return Service{
		Runner:    adapters.NewExecCommandRunner(),
		Archives:  adapters.NewHTTPArchiveInstaller(),
		Repos:     adapters.NewGitRepoInspector(),
		Actions:   adapters.NewActionsFileAdapter(),
		Scripts:   adapters.NewScriptFileAdapter(),
		Workspace: adapters.NewWorkspaceAdapter(),
		Secrets: func(workspace string) (ports.SecretsPort, error) {
			return adapters.NewViperSecrets(workspace)
		},
		Printer: printer,
	}
}
