// Package cmd provides the root command and CLI setup for rawfinder.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	"github.com/AlexandreBurel/RawFinder/internal/controller"
	"github.com/AlexandreBurel/RawFinder/internal/domain"
)

var fsAdapter adapter.FSAdapter
var reportStore adapter.ReportStore
var spreadsheet adapter.SpreadsheetWriter
var scanner domain.Scanner
var workflow domain.Workflow
var ui controller.UI

// reportsOutputDirFlag is a root-level flag shared by commands that read/write reports.
var reportsOutputDirFlag string

var verboseFlag bool
var logFileFlag string

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalFSAdapter()
	reportStore = adapter.NewReportStore()
	spreadsheet = adapter.NewExcelReport()
	scanner = domain.NewScanner(fsAdapter)
	workflow = domain.NewWorkflow(scanner, reportStore, spreadsheet, ui)
}

const rootLongDescription = `RawFinder checks that raw data have been copied to the archive.

Raw data are either files or directories whose name matches one of the
configured templates. The archive is expected to be organized as
<archive>/<year>/<month>/<path relative to the raw data directory>, the
year and month being derived from the creation or modification date of
each file. Every raw data is reported as fully, partially or not archived.`

const scanLongDescription = `Scan the raw data directory and look for the archive copy of every file.

A spreadsheet and a YAML snapshot are written to the report directory.
Press Ctrl+C to stop a long scan: the reports then hold partial results.`

// rootCmd represents the base command when called without any subcommands.
var rootCmd = newRootCmd()

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rawfinder",
		Short: "Find out which raw data are archived",
		Long:  rootLongDescription,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			configureLogger(viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
		SilenceUsage: true,
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.PersistentFlags().
		StringVarP(
			&reportsOutputDirFlag, outputFlagName, "o",
			viper.GetString(reportsConfigKey),
			"directory the reports are written to",
		)
	bindFlagToConfig(cmd.PersistentFlags().Lookup(outputFlagName), reportsConfigKey)

	cmd.PersistentFlags().BoolVarP(&verboseFlag, verboseFlagName, "v", viper.GetBool(logVerboseKey), "log at debug level")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(verboseFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "log file, rotated automatically")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	err := rootCmd.Execute()
	if err != nil {
		os.Exit(1)
	}
}
