package controller

import (
	"bytes"
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// SimpleUI implements UI using cobra Command's output.
type SimpleUI struct {
	cmd *cobra.Command
}

// NewSimpleUI creates a new SimpleUI.
func NewSimpleUI(cmd *cobra.Command) *SimpleUI {
	return &SimpleUI{cmd: cmd}
}

// Start initializes the UI.
func (s *SimpleUI) Start(ctx context.Context, _ ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return nil
}

// Close finalizes the UI.
func (s *SimpleUI) Close(_ context.Context) {}

// Wait blocks until the UI is closed (no-op for SimpleUI).
func (s *SimpleUI) Wait(_ context.Context) {}

// DisplayScanConfig prints what is about to be scanned.
func (s *SimpleUI) DisplayScanConfig(ctx context.Context, cfg m.ScanConfig) {
	if ctx.Err() != nil {
		return
	}

	s.printf("Raw data directory: %s\n", cfg.RawRoot)
	s.printf("Archive directory:  %s\n", cfg.ArchiveRoot)
	s.printf("Raw data type:      %s (%s)\n", cfg.Mode.Label(), strings.Join(cfg.Templates, ", "))
}

// DisplayProgress prints the number of units discovered so far.
func (s *SimpleUI) DisplayProgress(ctx context.Context, units int) {
	if ctx.Err() != nil {
		return
	}

	s.printf("%d raw data found so far\n", units)
}

// DisplaySnapshot prints one table row per unit followed by the summary.
func (s *SimpleUI) DisplaySnapshot(ctx context.Context, snapshot m.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if snapshot.Cancelled {
		s.printf("Scan was cancelled, the results below are partial.\n")
	}

	s.printf("\n%s\n", renderUnitTable(snapshot.Units))
	s.printf("%s", snapshot.SummaryCounts().String())

	return nil
}

func renderUnitTable(units []m.UnitRecord) string {
	var tableBuffer bytes.Buffer

	table := tablewriter.NewWriter(&tableBuffer)
	table.SetHeader([]string{"Raw data", "Files", "Archived", "Size", "Status"})
	table.SetBorder(false)
	table.SetCenterSeparator("")
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{
		tablewriter.ALIGN_LEFT, tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_RIGHT,
		tablewriter.ALIGN_RIGHT, tablewriter.ALIGN_LEFT,
	})

	var (
		files    int
		archived int
		size     int64
	)

	for _, u := range units {
		table.Append([]string{
			u.Name,
			strconv.Itoa(u.Files),
			strconv.Itoa(u.Archived),
			humanize.IBytes(uint64(max(u.Size, 0))),
			u.Status,
		})

		files += u.Files
		archived += u.Archived
		size += u.Size
	}

	table.SetFooter([]string{
		fmt.Sprintf("Total %d", len(units)),
		strconv.Itoa(files),
		strconv.Itoa(archived),
		humanize.IBytes(uint64(max(size, 0))),
		"",
	})

	table.Render()

	return tableBuffer.String()
}

// DisplayReports lists the report files written by a scan.
func (s *SimpleUI) DisplayReports(ctx context.Context, paths ...m.Path) {
	if ctx.Err() != nil {
		return
	}

	for _, p := range paths {
		s.printf("Report written: %s\n", p)
	}
}

// DisplayDiff prints a unified diff between two snapshots.
func (s *SimpleUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		s.printf("No status change between the two scans.\n")
		return nil
	}

	s.printf("%s", diff)

	return nil
}

func (s *SimpleUI) printf(format string, args ...interface{}) {
	_, _ = fmt.Fprintf(s.cmd.OutOrStdout(), format, args...)
}
