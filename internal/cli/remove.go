package cli

import (
	"context"

	"github.com/spf13/cobra"

	"wpm/internal/app"
)

func newRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm NAME",
		Aliases: []string{"remove"},
		Short:   "Delete the installed folder of a package",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemove(cmd.Context(), cmd, args[0])
		},
	}
}

func runRemove(ctx context.Context, cmd *cobra.Command, name string) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	_, err = newAppService(cmd).Remove(ctx, app.RemoveRequest{WorkspaceRequest: req, Name: name})
	return err
}
