package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wpm/internal/app"
	"wpm/internal/types"
	"wpm/internal/ui"
)

type statusOptions struct {
	Fast bool
}

func newStatusCommand() *cobra.Command {
	opts := statusOptions{}
	cmd := &cobra.Command{
		Use:   "status [NAME]",
		Short: "Show the state of installed packages",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			return runStatus(cmd.Context(), cmd, name, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.Fast, "fast", "f", false, "Do not contact remotes")
	return cmd
}

func runStatus(ctx context.Context, cmd *cobra.Command, name string, opts statusOptions) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	service := newAppService(cmd)
	result, err := service.Status(ctx, app.StatusRequest{WorkspaceRequest: req, Name: name, Fast: opts.Fast})
	if err != nil {
		return err
	}
	printStatus(service.Printer, result)
	return nil
}

func statusStyle(status types.PackageStatus) ui.Style {
	switch status.Marker {
	case types.MarkerClean:
		return ui.StyleOK
	case types.MarkerUntracked:
		return ui.StyleMuted
	default:
		return ui.StyleWarn
	}
}

func printStatus(printer *ui.Printer, result app.StatusResult) {
	printer.Rule()
	for _, line := range result.Packages {
		printer.Linef("%s %-24s %-6s %s",
			printer.F(statusStyle(line.PackageStatus), string(line.Marker)),
			printer.F(ui.StyleSubject, line.Name),
			printer.F(statusStyle(line.PackageStatus), line.Status),
			printer.F(ui.StyleMuted, line.Info))
	}
	if len(result.Unlisted) > 0 {
		printer.Linef("%s", printer.F(ui.StyleHeader, "UNLISTED"))
		for _, name := range result.Unlisted {
			printer.Linef("  %s", printer.F(ui.StylePath, name))
		}
	}
	if len(result.Ignored) > 0 {
		printer.Linef("%s", printer.F(ui.StyleHeader, "IGNORED"))
		for _, name := range result.Ignored {
			printer.Linef("  %s", printer.F(ui.StyleMuted, name))
		}
	}
	if result.Updatable > 0 {
		printer.Linef("%s", printer.F(ui.StyleWarn, fmt.Sprintf("%d package(s) can be updated", result.Updatable)))
	}
}
