package cmd

import (
	"github.com/spf13/cobra"

	"github.com/AlexandreBurel/RawFinder/internal/domain"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// viewCmd represents the view command.
var viewCmd = newViewCmd()

func newViewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "view <snapshot.yaml>",
		Short: "View a previous scan",
		Long:  "View the units and summary stored in a scan snapshot.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return workflow.View(cmd.Context(), domain.ViewArgs{Snapshot: m.Path(args[0])})
		},
	}

	return cmd
}

func init() {
	rootCmd.AddCommand(viewCmd)
}
