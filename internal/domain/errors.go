package domain

import (
	"errors"
	"fmt"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// ErrInvalidConfig is returned before any traversal when the scan
// configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrUnnamedUnit is returned when a file is absorbed without a unit name.
var ErrUnnamedUnit = errors.New("file does not belong to any raw data unit")

// ScanError reports a filesystem failure that aborted a scan.
type ScanError struct {
	Op   string
	Path m.Path
	Err  error
}

func (e *ScanError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}
