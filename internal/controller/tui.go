package controller

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/term"
	"github.com/dustin/go-humanize"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true)
	faintStyle   = lipgloss.NewStyle().Faint(true)
	addedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	hunkStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))

	statusStyles = map[string]lipgloss.Style{
		m.FullyArchived.String():     lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		m.PartiallyArchived.String(): lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		m.NotArchived.String():       lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
	}
)

// TUI implements UI using Bubble Tea for interactive display.
type TUI struct {
	output io.Writer

	mu       sync.Mutex
	mode     StartMode
	progress *tea.Program
	done     chan struct{}
}

// NewTUI creates a new TUI.
func NewTUI(output io.Writer) *TUI {
	return &TUI{output: output}
}

// Start initializes the UI. In scan mode it shows a spinner with the number
// of units discovered so far until the results are displayed.
func (t *TUI) Start(ctx context.Context, options ...StartOption) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	cfg := newStartConfig(options)

	t.mu.Lock()
	defer t.mu.Unlock()

	t.mode = cfg.mode
	if cfg.mode != ModeScan || t.progress != nil {
		return nil
	}

	program := tea.NewProgram(
		newProgressModel(),
		tea.WithOutput(t.output),
		tea.WithInput(nil),
		tea.WithContext(ctx),
		tea.WithoutSignalHandler(),
	)
	done := make(chan struct{})

	go func() {
		defer close(done)

		if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
			slog.Warn("Progress display stopped", "error", err)
		}
	}()

	t.progress = program
	t.done = done

	return nil
}

// Close stops the progress display if it is still running.
func (t *TUI) Close(_ context.Context) {
	t.stopProgress()
}

// Wait blocks until the progress display has exited.
func (t *TUI) Wait(_ context.Context) {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

func (t *TUI) stopProgress() {
	t.mu.Lock()
	program, done := t.progress, t.done
	t.progress, t.done = nil, nil
	t.mu.Unlock()

	if program == nil {
		return
	}

	program.Send(scanDoneMsg{})
	<-done
}

// DisplayScanConfig shows what is about to be scanned.
func (t *TUI) DisplayScanConfig(ctx context.Context, cfg m.ScanConfig) {
	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	program := t.progress
	t.mu.Unlock()

	line := fmt.Sprintf("%s %s → %s (%s)", cfg.Mode.Label(), cfg.RawRoot, cfg.ArchiveRoot, strings.Join(cfg.Templates, ", "))
	if program != nil {
		program.Println(faintStyle.Render(line))
		return
	}

	_, _ = fmt.Fprintln(t.output, faintStyle.Render(line))
}

// DisplayProgress updates the spinner line.
func (t *TUI) DisplayProgress(ctx context.Context, units int) {
	if ctx.Err() != nil {
		return
	}

	t.mu.Lock()
	program := t.progress
	t.mu.Unlock()

	if program != nil {
		program.Send(progressMsg(units))
	}
}

// DisplaySnapshot shows the unit list, paginated when it does not fit the terminal.
func (t *TUI) DisplaySnapshot(ctx context.Context, snapshot m.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	t.stopProgress()

	model := newUnitListModel(snapshot)

	if f, ok := t.output.(*os.File); ok {
		width, height, err := term.GetSize(f.Fd())
		if err == nil {
			model.height = height
			model.width = width
		}
	}

	if !model.needsPagination() {
		_, err := fmt.Fprint(t.output, model.View())
		return err
	}

	program := tea.NewProgram(model, tea.WithOutput(t.output), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		return err
	}

	// The alternate screen is gone once the program exits; keep the summary visible.
	_, err := fmt.Fprint(t.output, model.renderSummary())

	return err
}

// DisplayReports lists the report files written by a scan.
func (t *TUI) DisplayReports(ctx context.Context, paths ...m.Path) {
	if ctx.Err() != nil {
		return
	}

	for _, p := range paths {
		_, _ = fmt.Fprintf(t.output, "  📄 %s\n", p)
	}
}

// DisplayDiff shows a colored unified diff.
func (t *TUI) DisplayDiff(ctx context.Context, diff string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	if diff == "" {
		_, err := fmt.Fprintln(t.output, faintStyle.Render("No status change between the two scans."))
		return err
	}

	var b strings.Builder

	for _, line := range strings.SplitAfter(diff, "\n") {
		if line == "" {
			continue
		}

		text := strings.TrimSuffix(line, "\n")

		switch {
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			b.WriteString(titleStyle.Render(text))
		case strings.HasPrefix(line, "@@"):
			b.WriteString(hunkStyle.Render(text))
		case strings.HasPrefix(line, "+"):
			b.WriteString(addedStyle.Render(text))
		case strings.HasPrefix(line, "-"):
			b.WriteString(removedStyle.Render(text))
		default:
			b.WriteString(text)
		}

		b.WriteString("\n")
	}

	_, err := fmt.Fprint(t.output, b.String())

	return err
}

type progressMsg int

type scanDoneMsg struct{}

// progressModel is the spinner shown while a scan runs.
type progressModel struct {
	spinner spinner.Model
	units   int
	done    bool
}

func newProgressModel() progressModel {
	return progressModel{
		spinner: spinner.New(
			spinner.WithSpinner(spinner.Dot),
			spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("39"))),
		),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return pm.spinner.Tick
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressMsg:
		pm.units = int(msg)
		return pm, nil

	case scanDoneMsg:
		pm.done = true
		return pm, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		pm.spinner, cmd = pm.spinner.Update(msg)

		return pm, cmd
	}

	return pm, nil
}

func (pm progressModel) View() string {
	if pm.done {
		return ""
	}

	return fmt.Sprintf("%s Searching raw data... %d found\n", pm.spinner.View(), pm.units)
}

// unitListModel represents the Bubble Tea model for displaying unit statuses.
type unitListModel struct {
	snapshot m.Snapshot
	height   int
	width    int
	offset   int
	quitting bool
}

func newUnitListModel(snapshot m.Snapshot) unitListModel {
	return unitListModel{snapshot: snapshot}
}

func (ulm unitListModel) Init() tea.Cmd {
	return nil
}

func (ulm unitListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		ulm.height = msg.Height
		ulm.width = msg.Width

		return ulm, nil

	case tea.KeyMsg:
		return ulm.handleKeyPress(msg)
	}

	return ulm, nil
}

func (ulm unitListModel) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	//nolint:exhaustive // We only handle specific navigation keys
	switch msg.Type {
	case tea.KeyCtrlC, tea.KeyEsc:
		ulm.quitting = true
		return ulm, tea.Quit
	default:
	}

	switch msg.String() {
	case "q":
		ulm.quitting = true
		return ulm, tea.Quit

	case "down", "j":
		ulm.offset = min(ulm.offset+1, ulm.maxOffset())

	case "up", "k":
		ulm.offset = max(ulm.offset-1, 0)

	case "g", "home":
		ulm.offset = 0

	case "G", "end":
		ulm.offset = ulm.maxOffset()

	case "d", "pgdown":
		ulm.offset = min(ulm.offset+ulm.itemsPerPage(), ulm.maxOffset())

	case "u", "pgup":
		ulm.offset = max(ulm.offset-ulm.itemsPerPage(), 0)
	}

	return ulm, nil
}

// itemsPerPage calculates how many units fit on screen.
func (ulm unitListModel) itemsPerPage() int {
	if ulm.height == 0 {
		return 10
	}
	// header (4) + summary (5) + footer (3)
	reserved := 12

	available := ulm.height - reserved
	if available < 1 {
		return 1
	}

	return available
}

func (ulm unitListModel) maxOffset() int {
	return max(len(ulm.snapshot.Units)-ulm.itemsPerPage(), 0)
}

func (ulm unitListModel) needsPagination() bool {
	return ulm.height > 0 && len(ulm.snapshot.Units) > ulm.itemsPerPage()
}

func (ulm unitListModel) View() string {
	var b strings.Builder

	ulm.renderHeader(&b)

	if len(ulm.snapshot.Units) == 0 {
		b.WriteString("  📭 No raw data found\n")
		b.WriteString(ulm.renderSummary())

		return b.String()
	}

	ulm.renderUnitList(&b)

	return b.String()
}

func (ulm unitListModel) renderHeader(b *strings.Builder) {
	b.WriteString("╔════════════════════════════════════════════════════════════════╗\n")
	b.WriteString("║                 RawFinder - Archive reconciliation             ║\n")
	b.WriteString("╚════════════════════════════════════════════════════════════════╝\n")

	if ulm.snapshot.Cancelled {
		b.WriteString(removedStyle.Render("  ⚠️  Scan cancelled, results are partial") + "\n")
	}

	b.WriteString("\n")
}

func (ulm unitListModel) renderUnitList(b *strings.Builder) {
	units := ulm.snapshot.Units
	total := len(units)
	paginate := ulm.needsPagination()

	start, end := 0, total
	if paginate {
		start = min(ulm.offset, ulm.maxOffset())
		end = min(start+ulm.itemsPerPage(), total)
	}

	for _, u := range units[start:end] {
		style, ok := statusStyles[u.Status]
		if !ok {
			style = faintStyle
		}

		fmt.Fprintf(b, "  %s  %d/%d files, %s  %s\n",
			u.Name, u.Archived, u.Files, humanize.IBytes(uint64(max(u.Size, 0))), style.Render(u.Status))
	}

	b.WriteString(ulm.renderSummary())

	if paginate {
		perPage := ulm.itemsPerPage()
		currentPage := (start / perPage) + 1
		totalPages := (total + perPage - 1) / perPage

		b.WriteString("\n")
		fmt.Fprintf(b, "  Page %d/%d | Showing %d-%d of %d\n", currentPage, totalPages, start+1, end, total)
		b.WriteString("  ↑/k: up | ↓/j: down | g: top | G: bottom | q: quit\n")
	}
}

func (ulm unitListModel) renderSummary() string {
	var b strings.Builder

	summary := ulm.snapshot.SummaryCounts()

	b.WriteString("\n")
	b.WriteString("  📊 " + titleStyle.Render("Summary") + "\n")

	for _, s := range m.Statuses {
		fmt.Fprintf(&b, "  %s: %d\n", statusStyles[s.String()].Render(s.String()), summary.Count(s))
	}

	return b.String()
}
