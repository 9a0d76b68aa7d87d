// Package config implements the configuration inspection subcommand.
package config

import (
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/wildtrack/wildtrack-go/internal/conf"
)

// Command returns the config subcommand. It prints the effective
// configuration after defaults, file and flags are merged, or writes
// it out as a starting point for a new deployment.
func Command(settings *conf.Settings) *cobra.Command {
	var savePath string

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if savePath != "" {
				return settings.SaveAs(savePath)
			}
			data, err := yaml.Marshal(settings)
			if err != nil {
				return err
			}
			fmt.Print(string(data))
			return nil
		},
	}
	cmd.Flags().StringVar(&savePath, "save", "", "Write the configuration to this file instead of printing it")
	return cmd
}
