package domain

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// ExactMatchOrder is the order in which policies are tried for an archive
// copy of the same size as the raw file.
var ExactMatchOrder = []m.Policy{m.PolicyCreationDate, m.PolicyModificationDate, m.PolicyNextMonth}

// FallbackOrder is the order in which policies are tried when no candidate has
// the right size. The first existing candidate is reported so that an
// operator can inspect it.
var FallbackOrder = []m.Policy{m.PolicyNextMonth, m.PolicyModificationDate, m.PolicyCreationDate}

// Locator guesses where the archive copy of a raw file lives. The archive
// tree is laid out as <archive>/<year>/<month name>/<path relative to raw root>.
type Locator struct {
	fs          adapter.FSAdapter
	rawRoot     m.Path
	archiveRoot m.Path
	months      []string
	location    *time.Location
}

// NewLocator creates a Locator for cfg.
func NewLocator(fsAdapter adapter.FSAdapter, cfg m.ScanConfig) *Locator {
	cfg = cfg.WithDefaults()

	return &Locator{
		fs:          fsAdapter,
		rawRoot:     cfg.RawRoot,
		archiveRoot: cfg.ArchiveRoot,
		months:      cfg.MonthNames,
		location:    cfg.Location,
	}
}

// Period returns the year and month policy assigns to raw. ok is false when
// the policy needs a creation time the file does not have.
func (l *Locator) Period(raw m.RawFile, policy m.Policy) (year int, month time.Month, ok bool) {
	switch policy {
	case m.PolicyCreationDate:
		if !raw.HasCreated {
			return 0, 0, false
		}

		t := raw.Created.In(l.location)

		return t.Year(), t.Month(), true
	case m.PolicyModificationDate:
		t := raw.Modified.In(l.location)
		return t.Year(), t.Month(), true
	case m.PolicyNextMonth:
		if !raw.HasCreated {
			return 0, 0, false
		}

		t := raw.Created.In(l.location)
		if t.Month() == time.December {
			return t.Year() + 1, time.January, true
		}

		return t.Year(), t.Month() + 1, true
	}

	return 0, 0, false
}

// CandidatePath returns where policy expects the archive copy of raw.
func (l *Locator) CandidatePath(raw m.RawFile, policy m.Policy) (m.Path, bool, error) {
	year, month, ok := l.Period(raw, policy)
	if !ok {
		return "", false, nil
	}

	rel, err := l.fs.RelPath(l.rawRoot, raw.Path)
	if err != nil {
		return "", false, fmt.Errorf("relativize %s: %w", raw.Path, err)
	}

	if rel == ".." || strings.HasPrefix(string(rel), ".."+string(filepath.Separator)) {
		return "", false, fmt.Errorf("%s is outside raw data directory %s", raw.Path, l.rawRoot)
	}

	return l.fs.JoinPath(string(l.archiveRoot), fmt.Sprintf("%04d", year), l.months[month-1], string(rel)), true, nil
}

type candidate struct {
	policy m.Policy
	path   m.Path
	info   os.FileInfo
}

func (c candidate) exists() bool {
	return c.info != nil
}

// found turns c into a match, with the creation time of the archive copy
// when it can be read.
func (l *Locator) found(ctx context.Context, c candidate) m.ArchiveMatch {
	match := m.ArchiveMatch{Found: true, Path: c.path, Size: c.info.Size(), Policy: c.policy}

	ft, err := l.fs.Times(ctx, c.path)
	if err != nil {
		slog.Debug("Archive timestamps could not be read", "path", c.path, "error", err)
		return match
	}

	match.Created, match.HasCreated = ft.Created, ft.HasCreated

	return match
}

// Locate returns the best archive copy of raw: the first size-equal candidate
// in ExactMatchOrder, else the first existing candidate in FallbackOrder, else
// m.NoArchive. Lookup failures inside the archive tree are logged and treated
// as a missing candidate.
func (l *Locator) Locate(ctx context.Context, raw m.RawFile) (m.ArchiveMatch, error) {
	if !raw.HasCreated {
		slog.Warn("Creation date could not be read, only the modification date is used to find the archive", "path", raw.Path)
	}

	candidates := make(map[m.Policy]candidate, len(ExactMatchOrder))

	for _, policy := range ExactMatchOrder {
		path, ok, err := l.CandidatePath(raw, policy)
		if err != nil {
			return m.NoArchive, err
		}

		if !ok {
			continue
		}

		candidates[policy] = candidate{policy: policy, path: path, info: l.statFile(ctx, path)}
	}

	for _, policy := range ExactMatchOrder {
		c, ok := candidates[policy]
		if ok && c.exists() && c.info.Size() == raw.Size {
			return l.found(ctx, c), nil
		}
	}

	for _, policy := range FallbackOrder {
		c, ok := candidates[policy]
		if ok && c.exists() {
			slog.Debug("Archive found with a different size", "path", raw.Path, "archive", c.path, "policy", policy)
			return l.found(ctx, c), nil
		}
	}

	return m.NoArchive, nil
}

// statFile returns the info of a regular file at path, or nil.
func (l *Locator) statFile(ctx context.Context, path m.Path) os.FileInfo {
	info, err := l.fs.Stat(ctx, path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			slog.Warn("Archive candidate could not be read", "path", path, "error", err)
		}

		return nil
	}

	if info.IsDir() {
		return nil
	}

	return info
}
