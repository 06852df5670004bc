package adapter

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/xuri/excelize/v2"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// SpreadsheetWriter renders a snapshot as a spreadsheet report.
type SpreadsheetWriter interface {
	WriteSpreadsheet(ctx context.Context, path m.Path, snapshot m.Snapshot) error
}

// FileTableHeaders are the column titles of the per-file table.
var FileTableHeaders = []string{
	"Raw file name",
	"Local file path",
	"Local file size",
	"Local file size (bytes)",
	"Local file creation date",
	"Local file last modification date",
	"Archived file path",
	"Archived file size (bytes)",
	"Archived file creation date",
	"Archive location policy",
	"Size match",
	"Raw file is completely archived",
	"Raw file status",
}

const (
	sheetNameLimit = 31
	dateFormat     = "dd mmmm yyyy hh:mm:ss"
	excelTrue      = "TRUE"
	excelFalse     = "FALSE"
)

// ExcelReport writes .xlsx reports.
type ExcelReport struct{}

// NewExcelReport creates an ExcelReport.
func NewExcelReport() *ExcelReport {
	return &ExcelReport{}
}

type reportStyles struct {
	header int
	date   int
	status map[string]int
	falsy  int
}

// WriteSpreadsheet writes the environment block, the summary counts and one
// row per raw file, sorted by path.
func (r *ExcelReport) WriteSpreadsheet(ctx context.Context, path m.Path, snapshot m.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f := excelize.NewFile()

	defer func() {
		if err := f.Close(); err != nil {
			slog.Warn("Failed to close workbook", "path", path, "error", err)
		}
	}()

	sheet := SheetName(snapshot.Meta)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("name sheet: %w", err)
	}

	styles, err := newReportStyles(f)
	if err != nil {
		return err
	}

	w := &sheetWriter{file: f, sheet: sheet, row: 1}
	w.writeEnvironment(snapshot)

	headerRow := w.row
	w.put(toCells(FileTableHeaders)...)
	w.style(headerRow, 1, headerRow, len(FileTableHeaders), styles.header)

	completed := make(map[string]string, len(snapshot.Units))
	for _, u := range snapshot.Units {
		completed[u.Name] = u.Status
	}

	for i, rec := range snapshot.Files {
		if i%1000 == 0 {
			if err := ctx.Err(); err != nil {
				return err
			}
		}

		status := completed[rec.Unit]
		row := w.row
		w.put(fileCells(rec, status)...)

		w.style(row, 5, row, 6, styles.date)
		w.style(row, 9, row, 9, styles.date)

		if !rec.SizeMatch {
			w.style(row, 11, row, 11, styles.falsy)
		}

		if id, ok := styles.status[status]; ok {
			w.style(row, 13, row, 13, id)
		}
	}

	if w.err != nil {
		return fmt.Errorf("write rows: %w", w.err)
	}

	lastCell, err := excelize.CoordinatesToCellName(len(FileTableHeaders), max(w.row-1, headerRow))
	if err != nil {
		return err
	}

	if err := f.AutoFilter(sheet, fmt.Sprintf("A%d:%s", headerRow, lastCell), nil); err != nil {
		return fmt.Errorf("add autofilter: %w", err)
	}

	if err := f.SetColWidth(sheet, "A", "M", 24); err != nil {
		return fmt.Errorf("size columns: %w", err)
	}

	if err := f.SaveAs(string(path)); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}

	slog.Info("Excel file has been correctly written", "path", path, "rows", len(snapshot.Files))

	return nil
}

func (w *sheetWriter) writeEnvironment(snapshot m.Snapshot) {
	meta := snapshot.Meta
	cfg := snapshot.Config
	summary := snapshot.SummaryCounts()

	w.put("Software", meta.Software)
	w.put("Report date", meta.StartedAt)
	w.put("Host name", meta.Host)
	w.put("User name", meta.User)
	w.put("Archive directory", string(cfg.ArchiveRoot))
	w.put("RAW data directory", string(cfg.RawRoot))
	w.put("RAW data type", cfg.Mode.Label())

	if cfg.Mode == m.ModeFolderLike {
		w.put("RAW data directory template", strings.Join(cfg.Templates, ", "))
		w.put("RAW data file extension", strings.Join(cfg.Extensions, ", "))
	} else {
		w.put("RAW data file template", strings.Join(cfg.Templates, ", "))
	}

	w.put("Raw data fully archived", summary.Count(m.FullyArchived))
	w.put("Raw data partially archived", summary.Count(m.PartiallyArchived))
	w.put("Raw data not archived", summary.Count(m.NotArchived))

	if snapshot.Cancelled {
		w.put("Scan", "cancelled before completion")
	}

	w.put()
}

func fileCells(rec m.FileRecord, unitStatus string) []interface{} {
	var created interface{} = ""
	if rec.Created != nil {
		created = *rec.Created
	}

	var archivePath, archiveSize, archiveCreated interface{} = "", "", ""
	if rec.ArchivePath != "" {
		archivePath = string(rec.ArchivePath)
		archiveSize = rec.ArchiveSize
	}

	if rec.ArchiveCreated != nil {
		archiveCreated = *rec.ArchiveCreated
	}

	return []interface{}{
		rec.Unit,
		string(rec.Path),
		humanize.IBytes(uint64(max(rec.Size, 0))),
		rec.Size,
		created,
		rec.Modified,
		archivePath,
		archiveSize,
		archiveCreated,
		rec.ArchivePolicy,
		boolCell(rec.SizeMatch),
		boolCell(unitStatus == m.FullyArchived.String()),
		unitStatus,
	}
}

func boolCell(v bool) string {
	if v {
		return excelTrue
	}

	return excelFalse
}

func toCells(values []string) []interface{} {
	cells := make([]interface{}, len(values))
	for i, v := range values {
		cells[i] = v
	}

	return cells
}

func newReportStyles(f *excelize.File) (reportStyles, error) {
	var (
		styles reportStyles
		err    error
	)

	border := []excelize.Border{
		{Type: "top", Color: "000000", Style: 2},
		{Type: "bottom", Color: "000000", Style: 2},
		{Type: "left", Color: "000000", Style: 2},
		{Type: "right", Color: "000000", Style: 2},
	}

	styles.header, err = f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}, Border: border})
	if err != nil {
		return styles, fmt.Errorf("header style: %w", err)
	}

	format := dateFormat

	styles.date, err = f.NewStyle(&excelize.Style{CustomNumFmt: &format})
	if err != nil {
		return styles, fmt.Errorf("date style: %w", err)
	}

	styles.falsy, err = f.NewStyle(fill("#FF0000", "#FFFFFF"))
	if err != nil {
		return styles, fmt.Errorf("size match style: %w", err)
	}

	colors := map[m.Status]string{
		m.FullyArchived:     "#00B050",
		m.PartiallyArchived: "#FFC000",
		m.NotArchived:       "#FF0000",
	}

	styles.status = make(map[string]int, len(colors))

	for status, color := range colors {
		id, err := f.NewStyle(fill(color, "#FFFFFF"))
		if err != nil {
			return styles, fmt.Errorf("status style: %w", err)
		}

		styles.status[status.String()] = id
	}

	return styles, nil
}

func fill(background, font string) *excelize.Style {
	return &excelize.Style{
		Font: &excelize.Font{Color: font},
		Fill: excelize.Fill{Type: "pattern", Color: []string{background}, Pattern: 1},
	}
}

// SheetName builds the sheet title "<host> <yyyyMMdd-HHmmss>", cut to the
// length and character set spreadsheets accept.
func SheetName(meta m.ReportMeta) string {
	name := strings.TrimSpace(meta.Host + " " + ReportStamp(meta.StartedAt))
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`:\/?*[]`, r) {
			return '_'
		}

		return r
	}, name)

	if runes := []rune(name); len(runes) > sheetNameLimit {
		name = string(runes[len(runes)-sheetNameLimit:])
	}

	if name == "" {
		return "RawFinder"
	}

	return name
}

// ReportStamp formats t the way report file names carry it.
func ReportStamp(t time.Time) string {
	return t.Format("20060102-150405")
}

// sheetWriter appends rows and remembers the first error.
type sheetWriter struct {
	file  *excelize.File
	sheet string
	row   int
	err   error
}

func (w *sheetWriter) put(values ...interface{}) {
	defer func() { w.row++ }()

	if w.err != nil || len(values) == 0 {
		return
	}

	cell, err := excelize.CoordinatesToCellName(1, w.row)
	if err != nil {
		w.err = err
		return
	}

	w.err = w.file.SetSheetRow(w.sheet, cell, &values)
}

func (w *sheetWriter) style(fromRow, fromCol, toRow, toCol, styleID int) {
	if w.err != nil {
		return
	}

	from, err := excelize.CoordinatesToCellName(fromCol, fromRow)
	if err != nil {
		w.err = err
		return
	}

	to, err := excelize.CoordinatesToCellName(toCol, toRow)
	if err != nil {
		w.err = err
		return
	}

	w.err = w.file.SetCellStyle(w.sheet, from, to, styleID)
}
