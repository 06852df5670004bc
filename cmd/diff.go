package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlexandreBurel/RawFinder/internal/domain"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// diffCmd represents the diff command.
var diffCmd = newDiffCmd()

func newDiffCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "diff <old.yaml> <new.yaml>",
		Short: "Compare the unit statuses of two scans",
		Long:  "Print a unified diff of the unit statuses stored in two scan snapshots.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.Diff(cmd.Context(), domain.DiffArgs{Old: m.Path(args[0]), New: m.Path(args[1])})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(diffCmd)
}
