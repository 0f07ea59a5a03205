package cli

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"golang.org/x/term"

	"wpm/internal/adapters"
	"wpm/internal/app"
	"wpm/internal/ui"
)

// resolveWorkspace picks the configured workspace, else the nearest
// ancestor holding .wpm, else the current directory.
func resolveWorkspace(cmd *cobra.Command) (string, error) {
	configured := resolveString(cmd, stringFlag(cmd, "workspace"), "workspace_path", "workspace")
	if strings.TrimSpace(configured) != "" {
		abs, err := filepath.Abs(configured)
		if err != nil {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("invalid workspace path").
				WithCause(err)
		}
		info, err := os.Stat(abs)
		if err != nil || !info.IsDir() {
			return "", errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("workspace path does not exist: " + abs)
		}
		return abs, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read current directory").
			WithCause(err)
	}
	if root, ok := adapters.FindWorkspaceRoot(cwd); ok {
		return root, nil
	}
	log.Warn().Str("workspace", cwd).Msg("no .wpm folder found, using the current directory as workspace")
	return cwd, nil
}

// resolveSearchLocations accepts repeated flags, a config list, or an
// environment value separated like PATH.
func resolveSearchLocations(cmd *cobra.Command) []string {
	if flagChanged(cmd, "search-location") {
		return stringsFlag(cmd, "search-location")
	}
	var out []string
	switch raw := viper.Get("search_locations").(type) {
	case string:
		out = filepath.SplitList(raw)
	default:
		out = cast.ToStringSlice(raw)
	}
	locations := make([]string, 0, len(out))
	for _, location := range out {
		if strings.TrimSpace(location) != "" {
			locations = append(locations, location)
		}
	}
	return locations
}

func workspaceRequest(cmd *cobra.Command) (app.WorkspaceRequest, error) {
	workspace, err := resolveWorkspace(cmd)
	if err != nil {
		return app.WorkspaceRequest{}, err
	}
	return app.WorkspaceRequest{
		Workspace:       workspace,
		SearchLocations: resolveSearchLocations(cmd),
		Quiet:           resolveBool(cmd, boolFlag(cmd, "quiet"), "quiet", "quiet"),
	}, nil
}

func newPrinter(cmd *cobra.Command) *ui.Printer {
	out := cmd.OutOrStdout()
	interactive := false
	if f, ok := out.(*os.File); ok {
		interactive = term.IsTerminal(int(f.Fd()))
	}
	return ui.NewPrinter(out, interactive)
}

func newAppService(cmd *cobra.Command) app.Service {
	return app.NewService(newPrinter(cmd))
}
