// Package model defines the data structures for raw data reconciliation.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Path represents a file system path.
type Path string

// Mode defines what a raw data unit is on disk.
type Mode string

const (
	// ModeFolderLike treats a directory whose name matches a template as one unit.
	// Every file beneath it, at any depth, belongs to that unit.
	ModeFolderLike Mode = "folder"

	// ModeFileLike treats a single file whose name matches a template as one unit.
	ModeFileLike Mode = "file"
)

// ParseMode converts a configuration value into a Mode.
func ParseMode(value string) (Mode, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "folder", "folder-like", "folderlike", "directory", "dir":
		return ModeFolderLike, nil
	case "file", "file-like", "filelike":
		return ModeFileLike, nil
	}

	return "", fmt.Errorf("unknown raw data mode %q (expected %q or %q)", value, ModeFolderLike, ModeFileLike)
}

// Label returns the name used in reports for the mode.
func (m Mode) Label() string {
	switch m {
	case ModeFolderLike:
		return "Directory"
	case ModeFileLike:
		return "File"
	}

	return string(m)
}

// RawFile is one physical file found under the raw data root.
// It is created during a scan and never modified afterwards.
type RawFile struct {
	Path       Path
	Size       int64
	Created    time.Time // zero when HasCreated is false
	HasCreated bool
	Modified   time.Time
	Unit       string
}

// Policy is a rule that derives the year/month folder of an archive copy.
type Policy int

const (
	// PolicyCreationDate uses the month the raw file was created.
	PolicyCreationDate Policy = iota
	// PolicyModificationDate uses the month the raw file was last modified.
	PolicyModificationDate
	// PolicyNextMonth uses the month following the creation month.
	PolicyNextMonth
)

func (p Policy) String() string {
	switch p {
	case PolicyCreationDate:
		return "creation-date"
	case PolicyModificationDate:
		return "modification-date"
	case PolicyNextMonth:
		return "next-month"
	}

	return fmt.Sprintf("policy(%d)", int(p))
}

// ArchiveMatch is the archive copy found for a raw file, if any.
type ArchiveMatch struct {
	Found  bool
	Path   Path
	Size   int64
	Policy Policy

	// Created is the creation time of the archive copy; it is only set when
	// HasCreated is true.
	Created    time.Time
	HasCreated bool
}

// NoArchive is the match returned when no candidate exists.
var NoArchive = ArchiveMatch{}

// SizeMatches reports whether the archive exists and has the same byte length as raw.
func (a ArchiveMatch) SizeMatches(raw RawFile) bool {
	return a.Found && a.Size == raw.Size
}

// FileMatch pairs a raw file with its archive lookup outcome.
type FileMatch struct {
	Raw     RawFile
	Archive ArchiveMatch
}
