package model

import (
	"fmt"
	"strings"
	"time"
)

// Status is the archive state of a raw data unit.
type Status int

const (
	// NotArchived means no file of the unit has a size-equal archive copy.
	NotArchived Status = iota
	// PartiallyArchived means some, but not all, files have a size-equal archive copy.
	PartiallyArchived
	// FullyArchived means every file has a size-equal archive copy.
	FullyArchived
)

// Statuses lists every status in report order.
var Statuses = []Status{FullyArchived, PartiallyArchived, NotArchived}

func (s Status) String() string {
	switch s {
	case NotArchived:
		return "Not archived"
	case PartiallyArchived:
		return "Partially archived"
	case FullyArchived:
		return "Fully archived"
	}

	return fmt.Sprintf("status(%d)", int(s))
}

// ParseStatus is the inverse of Status.String.
func ParseStatus(value string) (Status, error) {
	for _, s := range Statuses {
		if strings.EqualFold(strings.TrimSpace(value), s.String()) {
			return s, nil
		}
	}

	return NotArchived, fmt.Errorf("unknown status %q", value)
}

// StatusFromCounts derives a unit status from its archived and total file counts.
func StatusFromCounts(archived, total int) Status {
	switch {
	case archived == 0:
		return NotArchived
	case archived == total:
		return FullyArchived
	default:
		return PartiallyArchived
	}
}

// RawUnit is one logical raw data item: a single file, or every file under a
// matched directory.
//
// The status of a unit is computed on the first call to Status and never
// recomputed, even if more files are counted afterwards. Callers must read it
// only once the scan that produced the unit has completed.
type RawUnit struct {
	Name     string
	Size     int64
	Earliest time.Time // zero when no constituent had a readable creation time
	Files    int
	Archived int

	status *Status
}

// Status returns the memoized status of the unit.
func (u *RawUnit) Status() Status {
	if u.status == nil {
		s := StatusFromCounts(u.Archived, u.Files)
		u.status = &s
	}

	return *u.status
}

// Frozen reports whether Status has already been read.
func (u *RawUnit) Frozen() bool {
	return u.status != nil
}
