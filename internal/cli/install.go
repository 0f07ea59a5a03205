package cli

import (
	"context"

	"github.com/spf13/cobra"

	"wpm/internal/app"
	"wpm/internal/ui"
)

type installOptions struct {
	Force   bool
	Shallow bool
	Skip    bool
}

func newInstallCommand() *cobra.Command {
	opts := installOptions{}
	cmd := &cobra.Command{
		Use:   "install NAME...",
		Short: "Install packages and the dependencies they report",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInstall(cmd.Context(), cmd, args, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Force, "force", "f", false, "Remove and reinstall packages that are already installed")
	cmd.Flags().BoolVarP(&opts.Shallow, "shallow", "s", false, "Do not install reported dependencies")
	cmd.Flags().BoolVarP(&opts.Skip, "skip", "k", false, "Keep existing installs and only follow their dependencies")
	return cmd
}

func runInstall(ctx context.Context, cmd *cobra.Command, names []string, opts installOptions) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	service := newAppService(cmd)
	result, err := service.Install(ctx, app.InstallRequest{
		WorkspaceRequest: req,
		Names:            names,
		Force:            opts.Force,
		Shallow:          opts.Shallow,
		Skip:             opts.Skip,
	})
	printer := service.Printer
	printer.Rule()
	printer.Linef("installed: %d, skipped: %d, failed: %d", len(result.Installed), len(result.Skipped), len(result.Failed))
	for _, name := range result.Failed {
		printer.Linef("  %s", printer.F(ui.StyleError, name))
	}
	return err
}
