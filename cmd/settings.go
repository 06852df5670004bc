package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// settingsCmd represents the settings command.
var settingsCmd = newSettingsCmd()

func newSettingsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "settings",
		Short: "Print the effective configuration",
		Long: `Print the configuration resolved from rawfinder.yaml, the RAWFINDER_*
environment variables and the command-line flags.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out, err := yaml.Marshal(viper.AllSettings())
			if err != nil {
				return fmt.Errorf("encode settings: %w", err)
			}

			if used := viper.ConfigFileUsed(); used != "" {
				cmd.Printf("# %s\n", used)
			}

			cmd.Print(string(out))

			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(settingsCmd)
}
