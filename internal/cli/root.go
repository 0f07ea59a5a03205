package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"wpm/internal/core"
)

// version is set at build time via ldflags.
var version = "dev"

const envPrefix = "WPM"

type RootConfig struct {
	ConfigFile      string
	LogLevel        string
	Workspace       string
	SearchLocations []string
	Quiet           bool
}

func Execute() {
	root := newRootCommand()
	if err := root.Execute(); err != nil {
		if errors.Is(err, core.ErrRemovalFailed) {
			fmt.Fprintln(os.Stderr, "fatal: workspace left in an inconsistent state")
		}
		os.Exit(exitCodeForError(err))
	}
}

func newRootCommand() *cobra.Command {
	cfg := RootConfig{}
	cmd := &cobra.Command{
		Use:           "wpm",
		Short:         "Workspace package manager",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfg.ConfigFile); err != nil {
				return err
			}
			setupLogging(viper.GetString("log_level"))
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&cfg.ConfigFile, "config", "", "Config file path")
	cmd.PersistentFlags().StringVar(&cfg.LogLevel, "log-level", "warn", "Log level")
	cmd.PersistentFlags().StringVar(&cfg.Workspace, "workspace", "", "Workspace root (default: nearest folder holding .wpm)")
	cmd.PersistentFlags().StringSliceVar(&cfg.SearchLocations, "search-location", nil, "Bucket search locations")
	cmd.PersistentFlags().BoolVarP(&cfg.Quiet, "quiet", "q", false, "Do not print bucket loading progress")
	_ = viper.BindPFlag("log_level", cmd.PersistentFlags().Lookup("log-level"))
	_ = viper.BindPFlag("workspace_path", cmd.PersistentFlags().Lookup("workspace"))
	_ = viper.BindPFlag("search_locations", cmd.PersistentFlags().Lookup("search-location"))
	_ = viper.BindPFlag("quiet", cmd.PersistentFlags().Lookup("quiet"))

	cmd.AddCommand(newInstallCommand())
	cmd.AddCommand(newStatusCommand())
	cmd.AddCommand(newListCommand())
	cmd.AddCommand(newRefreshCommand())
	cmd.AddCommand(newUpdateCommand())
	cmd.AddCommand(newRevisionCommand())
	cmd.AddCommand(newRemoveCommand())
	return cmd
}

func initConfig(configFile string) error {
	viper.SetEnvPrefix(envPrefix)
	viper.AutomaticEnv()

	if configFile != "" {
		viper.SetConfigFile(configFile)
		if err := viper.ReadInConfig(); err != nil {
			return errbuilder.New().
				WithCode(errbuilder.CodeInvalidArgument).
				WithMsg("failed to read config file").
				WithCause(err)
		}
		return nil
	}

	viper.SetConfigName("wpm")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("$HOME/.config/wpm")
	if err := viper.ReadInConfig(); err != nil {
		return nil
	}
	return nil
}

// setupLogging keeps diagnostics on stderr; stdout carries the summary
// lines.
func setupLogging(level string) {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.DefaultContextLogger = &log.Logger
	switch level {
	case "debug":
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	case "info":
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	case "error":
		zerolog.SetGlobalLevel(zerolog.ErrorLevel)
	default:
		zerolog.SetGlobalLevel(zerolog.WarnLevel)
	}
}

func exitCodeForError(err error) int {
	if errors.Is(err, core.ErrRemovalFailed) {
		return 5
	}
	switch errbuilder.CodeOf(err) {
	case errbuilder.CodeInvalidArgument, errbuilder.CodeAlreadyExists:
		return 2
	case errbuilder.CodeFailedPrecondition, errbuilder.CodePermissionDenied:
		return 3
	case errbuilder.CodeNotFound:
		return 4
	case errbuilder.CodeInternal:
		return 5
	default:
		return 1
	}
}
