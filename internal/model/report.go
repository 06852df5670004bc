package model

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// ScanResult is the output of one scan: every raw file with its archive
// lookup, and the units they were grouped into.
type ScanResult struct {
	Config    ScanConfig
	Files     map[Path]FileMatch
	Units     map[string]*RawUnit
	Cancelled bool
}

// SortedFiles returns the file matches ordered by raw path.
func (r *ScanResult) SortedFiles() []FileMatch {
	files := make([]FileMatch, 0, len(r.Files))
	for _, f := range r.Files {
		files = append(files, f)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].Raw.Path < files[j].Raw.Path
	})

	return files
}

// SortedUnits returns the units ordered by name.
func (r *ScanResult) SortedUnits() []*RawUnit {
	return SortUnits(r.Units)
}

// SortUnits returns the units of a map ordered by name.
func SortUnits(units map[string]*RawUnit) []*RawUnit {
	sorted := make([]*RawUnit, 0, len(units))
	for _, u := range units {
		sorted = append(sorted, u)
	}

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Name < sorted[j].Name
	})

	return sorted
}

// Summary counts units per status.
type Summary map[Status]int

// Count returns the number of units with status s.
func (s Summary) Count(status Status) int {
	return s[status]
}

// Total returns the number of units counted.
func (s Summary) Total() int {
	total := 0
	for _, n := range s {
		total += n
	}

	return total
}

func (s Summary) String() string {
	var b strings.Builder

	b.WriteString("RawFinder search summary:\n")
	fmt.Fprintf(&b, "- Number of fully archived raw data: %d\n", s.Count(FullyArchived))
	fmt.Fprintf(&b, "- Number of partially archived raw data: %d\n", s.Count(PartiallyArchived))
	fmt.Fprintf(&b, "- Number of raw data not archived at all: %d\n", s.Count(NotArchived))

	return b.String()
}

// ReportMeta describes the run that produced a report.
type ReportMeta struct {
	RunID      string    `yaml:"run_id"`
	Software   string    `yaml:"software"`
	Host       string    `yaml:"host"`
	User       string    `yaml:"user"`
	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
}

// ReportConfig is the part of ScanConfig that is written into reports.
type ReportConfig struct {
	RawRoot     Path     `yaml:"raw_root"`
	ArchiveRoot Path     `yaml:"archive_root"`
	Mode        Mode     `yaml:"mode"`
	Templates   []string `yaml:"templates"`
	Extensions  []string `yaml:"extensions,omitempty"`
}

// UnitRecord is the report row of a raw data unit.
type UnitRecord struct {
	Name     string     `yaml:"name"`
	Size     int64      `yaml:"size"`
	Earliest *time.Time `yaml:"earliest,omitempty"`
	Files    int        `yaml:"files"`
	Archived int        `yaml:"archived"`
	Status   string     `yaml:"status"`
}

// FileRecord is the report row of a raw file.
type FileRecord struct {
	Unit        string     `yaml:"unit"`
	Path        Path       `yaml:"path"`
	Size        int64      `yaml:"size"`
	Created     *time.Time `yaml:"created,omitempty"`
	Modified    time.Time  `yaml:"modified"`
	ArchivePath Path       `yaml:"archive_path,omitempty"`
	ArchiveSize int64      `yaml:"archive_size,omitempty"`
	// ArchiveCreated is the creation time of the archive copy, when readable.
	ArchiveCreated *time.Time `yaml:"archive_created,omitempty"`
	ArchivePolicy  string     `yaml:"archive_policy,omitempty"`
	SizeMatch      bool       `yaml:"size_match"`
}

// Snapshot is the persisted form of a scan, used by every report writer.
type Snapshot struct {
	Meta      ReportMeta     `yaml:"meta"`
	Config    ReportConfig   `yaml:"config"`
	Cancelled bool           `yaml:"cancelled,omitempty"`
	Summary   map[string]int `yaml:"summary"`
	Units     []UnitRecord   `yaml:"units"`
	Files     []FileRecord   `yaml:"files"`
}

// NewSnapshot flattens a scan result into report rows. It reads the status of
// every unit, so it must only be called once the scan has completed.
func NewSnapshot(result *ScanResult, summary Summary, meta ReportMeta) Snapshot {
	snap := Snapshot{
		Meta: meta,
		Config: ReportConfig{
			RawRoot:     result.Config.RawRoot,
			ArchiveRoot: result.Config.ArchiveRoot,
			Mode:        result.Config.Mode,
			Templates:   result.Config.Templates,
			Extensions:  result.Config.Extensions,
		},
		Cancelled: result.Cancelled,
		Summary:   make(map[string]int, len(Statuses)),
	}

	for _, s := range Statuses {
		snap.Summary[s.String()] = summary.Count(s)
	}

	for _, u := range result.SortedUnits() {
		snap.Units = append(snap.Units, UnitRecord{
			Name:     u.Name,
			Size:     u.Size,
			Earliest: optionalTime(u.Earliest, !u.Earliest.IsZero()),
			Files:    u.Files,
			Archived: u.Archived,
			Status:   u.Status().String(),
		})
	}

	for _, f := range result.SortedFiles() {
		rec := FileRecord{
			Unit:      f.Raw.Unit,
			Path:      f.Raw.Path,
			Size:      f.Raw.Size,
			Created:   optionalTime(f.Raw.Created, f.Raw.HasCreated),
			Modified:  f.Raw.Modified,
			SizeMatch: f.Archive.SizeMatches(f.Raw),
		}

		if f.Archive.Found {
			rec.ArchivePath = f.Archive.Path
			rec.ArchiveSize = f.Archive.Size
			rec.ArchiveCreated = optionalTime(f.Archive.Created, f.Archive.HasCreated)
			rec.ArchivePolicy = f.Archive.Policy.String()
		}

		snap.Files = append(snap.Files, rec)
	}

	return snap
}

// SummaryCounts converts the recorded summary back into a Summary.
func (s Snapshot) SummaryCounts() Summary {
	summary := Summary{}

	for _, status := range Statuses {
		summary[status] = s.Summary[status.String()]
	}

	return summary
}

func optionalTime(t time.Time, ok bool) *time.Time {
	if !ok {
		return nil
	}

	return &t
}
