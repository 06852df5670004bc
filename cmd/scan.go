package cmd

import (
	"os"
	"os/signal"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/AlexandreBurel/RawFinder/internal/domain"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

var scanTemplatesFlag []string
var scanNoReportsFlag bool

// scanCmd represents the scan command.
var scanCmd = newScanCmd()

func newScanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Reconcile raw data with the archive",
		Long:  scanLongDescription,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := scanConfigFromViper(scanTemplatesFlag)
			if err != nil {
				return err
			}

			var reports m.Path
			if !scanNoReportsFlag {
				reports = resolveReportsDir(viper.GetString(reportsConfigKey))
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			_, err = workflow.Scan(ctx, domain.ScanArgs{Config: cfg, Reports: reports})

			return err
		},
	}

	configureScanFlags(cmd)

	return cmd
}

func init() {
	rootCmd.AddCommand(scanCmd)
}

func configureScanFlags(cmd *cobra.Command) {
	cmd.Flags().StringP(rawFlagName, "r", viper.GetString(rawConfigKey), "raw data directory")
	bindFlagToConfig(cmd.Flags().Lookup(rawFlagName), rawConfigKey)

	cmd.Flags().StringP(archiveFlagName, "a", viper.GetString(archiveConfigKey), "archive directory")
	bindFlagToConfig(cmd.Flags().Lookup(archiveFlagName), archiveConfigKey)

	cmd.Flags().StringP(modeFlagName, "m", viper.GetString(modeConfigKey), `raw data type: "folder" or "file"`)
	bindFlagToConfig(cmd.Flags().Lookup(modeFlagName), modeConfigKey)

	cmd.Flags().IntP(workersFlagName, "p", viper.GetInt(workersConfigKey), "number of archive lookups run in parallel")
	bindFlagToConfig(cmd.Flags().Lookup(workersFlagName), workersConfigKey)

	cmd.Flags().String(timezoneFlagName, viper.GetString(timezoneConfigKey), "time zone used to pick the archive month")
	bindFlagToConfig(cmd.Flags().Lookup(timezoneFlagName), timezoneConfigKey)

	cmd.Flags().StringArrayVarP(&scanTemplatesFlag, templateFlagName, "t", nil, "raw data name template, a regular expression (can be repeated)")
	cmd.Flags().BoolVar(&scanNoReportsFlag, noReportsFlagName, false, "do not write the spreadsheet and snapshot")
}
