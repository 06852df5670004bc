package model

import "time"

// DefaultProgressStep is how many units are discovered between two progress notifications.
const DefaultProgressStep = 100

// DefaultMonthNames are the folder names of the twelve months in the archive tree.
var DefaultMonthNames = []string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

// ScanConfig holds everything a scan needs. It is passed by value into the
// scan so that concurrent scans cannot affect each other.
type ScanConfig struct {
	RawRoot     Path
	ArchiveRoot Path
	Mode        Mode

	// Templates are regular expressions matched against whole base names.
	Templates []string

	// Extensions are the file extensions expected inside folder-like units.
	// They are reported but not used for filtering.
	Extensions []string

	// MonthNames are the twelve month folder names, January first.
	MonthNames []string

	// Location is the time zone used to bucket timestamps into months.
	Location *time.Location

	// Workers bounds the archive lookups run in parallel for one directory.
	Workers int

	// ProgressStep is the number of units between two progress notifications.
	ProgressStep int
}

// WithDefaults returns a copy of c with unset optional fields filled in.
func (c ScanConfig) WithDefaults() ScanConfig {
	if len(c.MonthNames) == 0 {
		c.MonthNames = DefaultMonthNames
	}

	if c.Location == nil {
		c.Location = time.Local
	}

	if c.Workers <= 0 {
		c.Workers = 1
	}

	if c.ProgressStep <= 0 {
		c.ProgressStep = DefaultProgressStep
	}

	return c
}
