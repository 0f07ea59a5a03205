package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wpm/internal/app"
)

type revisionOptions struct {
	Remote bool
}

func newRevisionCommand() *cobra.Command {
	opts := revisionOptions{}
	cmd := &cobra.Command{
		Use:   "revision NAME",
		Short: "Print the installed or remote commit of a package",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRevision(cmd.Context(), cmd, args[0], opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Remote, "remote", "r", false, "Ask the remote for the tip of the tracked branch")
	return cmd
}

func runRevision(ctx context.Context, cmd *cobra.Command, name string, opts revisionOptions) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	req.Quiet = true
	result, err := newAppService(cmd).Revision(ctx, app.RevisionRequest{WorkspaceRequest: req, Name: name, Remote: opts.Remote})
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), result.Revision)
	return nil
}
