package domain

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/user"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	"github.com/AlexandreBurel/RawFinder/internal/controller"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// SoftwareName is written into every report.
const SoftwareName = "RawFinder"

// ScanArgs contains the arguments for one reconciliation run.
type ScanArgs struct {
	Config m.ScanConfig
	// Reports is the directory the spreadsheet and snapshot are written to.
	// No report is written when it is empty.
	Reports m.Path
}

// ViewArgs contains the arguments for displaying a stored snapshot.
type ViewArgs struct {
	Snapshot m.Path
}

// DiffArgs contains the arguments for comparing two stored snapshots.
type DiffArgs struct {
	Old m.Path
	New m.Path
}

// Workflow defines the operations exposed to the command line.
type Workflow interface {
	Scan(ctx context.Context, args ScanArgs) (m.Snapshot, error)
	View(ctx context.Context, args ViewArgs) error
	Diff(ctx context.Context, args DiffArgs) error
}

// Environment describes the machine a scan runs on.
type Environment struct {
	Software string
	Host     string
	User     string
}

// LocalEnvironment reads the host and user names of the running process.
func LocalEnvironment(software string) Environment {
	env := Environment{Software: software, Host: "unknown", User: "unknown"}

	if host, err := os.Hostname(); err == nil {
		env.Host = host
	}

	if u, err := user.Current(); err == nil {
		env.User = u.Username
	}

	return env
}

// WorkflowOption configures a Workflow.
type WorkflowOption func(*workflow)

// WithEnvironment overrides the host description written into reports.
func WithEnvironment(env Environment) WorkflowOption {
	return func(w *workflow) {
		w.env = env
	}
}

// WithClock overrides the time source used to stamp reports.
func WithClock(now func() time.Time) WorkflowOption {
	return func(w *workflow) {
		w.now = now
	}
}

type workflow struct {
	adapter.ReportStore
	adapter.SpreadsheetWriter
	controller.UI
	Scanner

	env Environment
	now func() time.Time
}

// NewWorkflow creates a new Workflow instance with the provided dependencies.
func NewWorkflow(
	scanner Scanner,
	reportStore adapter.ReportStore,
	spreadsheet adapter.SpreadsheetWriter,
	ui controller.UI,
	opts ...WorkflowOption,
) Workflow {
	w := &workflow{
		Scanner:           scanner,
		ReportStore:       reportStore,
		SpreadsheetWriter: spreadsheet,
		UI:                ui,
		now:               time.Now,
	}

	for _, opt := range opts {
		opt(w)
	}

	if w.env == (Environment{}) {
		w.env = LocalEnvironment(SoftwareName)
	}

	return w
}

// Scan reconciles the raw data tree against the archive, logs the summary,
// writes the reports and displays the result. A cancelled scan still gets
// its partial reports, flagged as cancelled.
func (w *workflow) Scan(ctx context.Context, args ScanArgs) (m.Snapshot, error) {
	if err := w.Start(ctx, controller.WithScanMode()); err != nil {
		slog.Error("Failed to start workflow UI", "error", err)
		return m.Snapshot{}, err
	}
	defer w.Close(ctx)

	w.DisplayScanConfig(ctx, args.Config)

	started := w.now()

	result, err := w.Scanner.Scan(ctx, args.Config, WithProgress(func(units int) {
		w.DisplayProgress(ctx, units)
	}))
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("scan: %w", err)
	}

	summary := Summarize(result.Units)
	slog.Info(summary.String(),
		"fully", summary.Count(m.FullyArchived),
		"partially", summary.Count(m.PartiallyArchived),
		"not", summary.Count(m.NotArchived),
		"cancelled", result.Cancelled,
	)

	snapshot := m.NewSnapshot(result, summary, m.ReportMeta{
		RunID:      uuid.NewString(),
		Software:   w.env.Software,
		Host:       w.env.Host,
		User:       w.env.User,
		StartedAt:  started,
		FinishedAt: w.now(),
	})

	// Reports of a cancelled scan are still written.
	writeCtx := context.WithoutCancel(ctx)

	reports, err := w.writeReports(writeCtx, args.Reports, snapshot)
	if err != nil {
		return snapshot, err
	}

	if err := w.DisplaySnapshot(writeCtx, snapshot); err != nil {
		return snapshot, fmt.Errorf("display: %w", err)
	}

	w.DisplayReports(writeCtx, reports...)
	w.Wait(writeCtx)

	return snapshot, nil
}

func (w *workflow) writeReports(ctx context.Context, dir m.Path, snapshot m.Snapshot) ([]m.Path, error) {
	if dir == "" {
		return nil, nil
	}

	base := filepath.Join(string(dir), ReportBaseName(snapshot.Meta))
	yamlPath := m.Path(base + ".yaml")
	xlsxPath := m.Path(base + ".xlsx")

	if err := w.SaveSnapshot(ctx, yamlPath, snapshot); err != nil {
		slog.Error("Failed to save snapshot", "path", yamlPath, "error", err)
		return nil, fmt.Errorf("save snapshot: %w", err)
	}

	if err := w.WriteSpreadsheet(ctx, xlsxPath, snapshot); err != nil {
		slog.Error("Failed to write spreadsheet", "path", xlsxPath, "error", err)
		return []m.Path{yamlPath}, fmt.Errorf("write spreadsheet: %w", err)
	}

	return []m.Path{xlsxPath, yamlPath}, nil
}

// ReportBaseName returns the file name, without extension, of the reports of a run.
func ReportBaseName(meta m.ReportMeta) string {
	host := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|', ' ':
			return '_'
		}

		return r
	}, meta.Host)

	return fmt.Sprintf("%s-%s-%s", SoftwareName, host, adapter.ReportStamp(meta.StartedAt))
}

// View loads a stored snapshot and displays it.
func (w *workflow) View(ctx context.Context, args ViewArgs) error {
	snapshot, err := w.LoadSnapshot(ctx, args.Snapshot)
	if err != nil {
		return fmt.Errorf("load snapshot: %w", err)
	}

	if err := w.Start(ctx, controller.WithViewMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplaySnapshot(ctx, snapshot); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// Diff compares the unit statuses of two stored snapshots.
func (w *workflow) Diff(ctx context.Context, args DiffArgs) error {
	older, err := w.LoadSnapshot(ctx, args.Old)
	if err != nil {
		return fmt.Errorf("load %s: %w", args.Old, err)
	}

	newer, err := w.LoadSnapshot(ctx, args.New)
	if err != nil {
		return fmt.Errorf("load %s: %w", args.New, err)
	}

	diff, err := StatusDiff(older, newer, string(args.Old), string(args.New))
	if err != nil {
		return err
	}

	if err := w.Start(ctx, controller.WithDiffMode()); err != nil {
		return err
	}
	defer w.Close(ctx)

	if err := w.DisplayDiff(ctx, diff); err != nil {
		return fmt.Errorf("display: %w", err)
	}

	w.Wait(ctx)

	return nil
}

// StatusDiff returns a unified diff of the per-unit status lines of two
// snapshots. It is empty when no unit changed.
func StatusDiff(older, newer m.Snapshot, olderName, newerName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        statusLines(older),
		B:        statusLines(newer),
		FromFile: olderName,
		ToFile:   newerName,
		Context:  1,
	}

	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff snapshots: %w", err)
	}

	return text, nil
}

func statusLines(snapshot m.Snapshot) []string {
	lines := make([]string, 0, len(snapshot.Units))
	for _, u := range snapshot.Units {
		lines = append(lines, fmt.Sprintf("%s: %s (%d/%d)\n", u.Name, u.Status, u.Archived, u.Files))
	}

	return lines
}
