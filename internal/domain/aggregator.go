package domain

import (
	"fmt"
	"log/slog"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// Aggregator groups raw files into units and counts their archive copies.
// It belongs to a single scan and is not safe for concurrent use.
type Aggregator struct {
	units map[string]*m.RawUnit
}

// NewAggregator returns an empty Aggregator.
func NewAggregator() *Aggregator {
	return &Aggregator{units: make(map[string]*m.RawUnit)}
}

// Absorb adds raw and its archive lookup to the unit named raw.Unit, creating
// the unit on first sight. created reports whether the unit is new.
func (a *Aggregator) Absorb(raw m.RawFile, match m.ArchiveMatch) (bool, error) {
	if raw.Unit == "" {
		return false, fmt.Errorf("%s: %w", raw.Path, ErrUnnamedUnit)
	}

	unit, ok := a.units[raw.Unit]
	if !ok {
		unit = &m.RawUnit{Name: raw.Unit}
		a.units[raw.Unit] = unit
	}

	if unit.Frozen() {
		slog.Warn("File added to a unit whose status was already read", "unit", unit.Name, "path", raw.Path)
	}

	unit.Files++
	unit.Size += raw.Size

	if match.SizeMatches(raw) {
		unit.Archived++
	}

	if raw.HasCreated && (unit.Earliest.IsZero() || raw.Created.Before(unit.Earliest)) {
		unit.Earliest = raw.Created
	}

	return !ok, nil
}

// Units returns the units absorbed so far, keyed by name.
func (a *Aggregator) Units() map[string]*m.RawUnit {
	return a.units
}

// Len returns the number of units absorbed so far.
func (a *Aggregator) Len() int {
	return len(a.units)
}

// Summarize counts units per status. Every status is present in the result,
// possibly with a zero count. Reading a unit's status freezes it.
func Summarize(units map[string]*m.RawUnit) m.Summary {
	summary := make(m.Summary, len(m.Statuses))
	for _, s := range m.Statuses {
		summary[s] = 0
	}

	for _, u := range units {
		summary[u.Status()]++
	}

	return summary
}
