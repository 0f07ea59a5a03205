package cli

import (
	"context"

	"github.com/spf13/cobra"

	"wpm/internal/app"
)

type refreshOptions struct {
	Fast bool
}

func newRefreshCommand() *cobra.Command {
	opts := refreshOptions{}
	cmd := &cobra.Command{
		Use:   "refresh",
		Short: "Repair installed checkouts (safe directories, mode-only changes)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runRefresh(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Fast, "fast", "f", false, "Only mark checkouts as safe")
	return cmd
}

func runRefresh(ctx context.Context, cmd *cobra.Command, opts refreshOptions) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	service := newAppService(cmd)
	result, err := service.Refresh(ctx, app.RefreshRequest{WorkspaceRequest: req, Fast: opts.Fast})
	if err != nil {
		return err
	}
	service.Printer.Linef("refreshed %d package(s)", result.Packages)
	return nil
}
