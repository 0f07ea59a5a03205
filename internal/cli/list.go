package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"wpm/internal/app"
	"wpm/internal/ui"
)

type listOptions struct {
	All         bool
	Definitions bool
	Revisions   bool
	Commands    bool
}

func newListCommand() *cobra.Command {
	opts := listOptions{}
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List installed packages",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runList(cmd.Context(), cmd, opts)
		},
	}
	cmd.Flags().BoolVarP(&opts.All, "all", "a", false, "Include packages that are not installed")
	cmd.Flags().BoolVarP(&opts.Definitions, "def", "d", false, "Show where each package is defined")
	cmd.Flags().BoolVarP(&opts.Revisions, "rev", "r", false, "Show the installed revision")
	cmd.Flags().BoolVarP(&opts.Commands, "cmd", "c", false, "Show a command that installs the package by hand")
	return cmd
}

func runList(ctx context.Context, cmd *cobra.Command, opts listOptions) error {
	req, err := workspaceRequest(cmd)
	if err != nil {
		return err
	}
	service := newAppService(cmd)
	result, err := service.List(ctx, app.ListRequest{
		WorkspaceRequest: req,
		All:              opts.All,
		Definitions:      opts.Definitions,
		Revisions:        opts.Revisions,
		Commands:         opts.Commands,
	})
	if err != nil {
		return err
	}
	printList(service.Printer, result)
	return nil
}

func printList(printer *ui.Printer, result app.ListResult) {
	printer.Rule()
	for _, entry := range result.Entries {
		name := printer.F(ui.StyleSubject, entry.Name)
		if !entry.Installed {
			name = printer.F(ui.StyleMuted, entry.Name)
		}
		line := fmt.Sprintf("%3d. %s", entry.Index, name)
		if entry.Revision != "" {
			line += " " + printer.F(ui.StyleMuted, entry.Revision)
		}
		printer.Linef("%s", line)
		if entry.Definition != "" {
			printer.Linef("     %s", printer.F(ui.StyleFile, entry.Definition))
		}
		if entry.Command != "" {
			printer.Linef("     %s", entry.Command)
		}
	}
	printer.Linef("%d of %d package(s)", len(result.Entries), result.Total)
}
