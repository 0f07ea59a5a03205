package cli

import (
	"context"

	"github.com/spf13/cobra"

	"wpm/internal/app"
)

func newUpdateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "update NAME",
		Short: "Fast-forward an installed package to its remote",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runUpdate(cmd.Context(), cmd, args[0])
		},
	}
}

func runUpdate(ctx context.Context, cmd *cobra.Command, name string) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	_, err = newAppService(cmd).Update(ctx, app.UpdateRequest{WorkspaceRequest: req, Name: name})
	return err
}
