package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/wildtrack/wildtrack-go/cmd/config"
	"github.com/wildtrack/wildtrack-go/cmd/ingest"
	"github.com/wildtrack/wildtrack-go/cmd/report"
	"github.com/wildtrack/wildtrack-go/cmd/serve"
	"github.com/wildtrack/wildtrack-go/cmd/validate"
	"github.com/wildtrack/wildtrack-go/internal/conf"
	"github.com/wildtrack/wildtrack-go/internal/logging"
)

// RootCommand creates and returns the root command.
func RootCommand(settings *conf.Settings) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "wildtrack",
		Short: "WildTrack wildlife sighting attribution CLI",
	}

	// Set up the global flags for the root command.
	setupFlags(rootCmd, settings)

	subcommands := []*cobra.Command{
		config.Command(settings),
		ingest.Command(settings),
		serve.Command(settings),
		report.Command(settings),
		validate.Command(settings),
	}
	rootCmd.AddCommand(subcommands...)

	rootCmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		// Parse the command line flags so they take precedence over the
		// config file values already in settings.
		if err := cmd.Flags().Parse(args); err != nil {
			return err
		}
		if viper.IsSet("debug") {
			settings.Debug = viper.GetBool("debug")
		}
		initLogging(settings)
		return nil
	}

	return rootCmd
}

// setupFlags defines the global flags shared by every subcommand.
func setupFlags(cmd *cobra.Command, settings *conf.Settings) {
	cmd.PersistentFlags().BoolVar(&settings.Debug, "debug", settings.Debug, "Enable debug output")
	if err := viper.BindPFlags(cmd.PersistentFlags()); err != nil {
		cobra.CheckErr(err)
	}
}

func initLogging(settings *conf.Settings) {
	level := logging.ParseLevel(settings.Main.Log.Level)
	if settings.Debug {
		level = slog.LevelDebug
	}
	var logPath string
	if settings.Main.Log.Enabled {
		logPath = settings.Main.Log.Path
	}
	logging.Init(level, logPath)
}
