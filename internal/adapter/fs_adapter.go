// Package adapter contains filesystem and report adapters for the RawFinder CLI.
package adapter

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/djherbis/times"
	"github.com/spf13/afero"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// FSAdapter abstracts the filesystem queries the reconciliation engine relies
// on. It hides direct `os` access so scans can run against an in-memory tree
// in tests.
type FSAdapter interface {
	// ReadDir lists the entries of dir sorted by name. Symbolic links are
	// reported as links and are not followed.
	ReadDir(ctx context.Context, dir m.Path) ([]os.FileInfo, error)

	// Stat returns metadata for path, following symbolic links.
	Stat(ctx context.Context, path m.Path) (os.FileInfo, error)

	// Times returns the modification and, when the platform exposes it, the
	// creation time of path.
	Times(ctx context.Context, path m.Path) (FileTimes, error)

	// RelPath returns the relative path from base to target.
	RelPath(base, target m.Path) (m.Path, error)

	// JoinPath joins path elements into a single path.
	JoinPath(elem ...string) m.Path
}

// FileTimes holds the timestamps of a file. Created is only meaningful when
// HasCreated is true; CreatedErr carries the reason it could not be read.
type FileTimes struct {
	Modified   time.Time
	Created    time.Time
	HasCreated bool
	CreatedErr error
}

// BirthTimeFunc reads the creation time of a file. ok is false when the
// platform or filesystem does not record it.
type BirthTimeFunc func(path string) (created time.Time, ok bool, err error)

// AferoFSAdapter implements FSAdapter on top of an afero filesystem.
type AferoFSAdapter struct {
	fs        afero.Fs
	birthTime BirthTimeFunc
}

// NewLocalFSAdapter returns an adapter backed by the operating system.
func NewLocalFSAdapter() *AferoFSAdapter {
	return NewAferoFSAdapter(afero.NewOsFs(), OSBirthTime)
}

// NewAferoFSAdapter returns an adapter backed by fs. birthTime may be nil, in
// which case creation times are reported as unavailable.
func NewAferoFSAdapter(fs afero.Fs, birthTime BirthTimeFunc) *AferoFSAdapter {
	return &AferoFSAdapter{fs: fs, birthTime: birthTime}
}

// ReadDir lists a directory.
func (a *AferoFSAdapter) ReadDir(ctx context.Context, dir m.Path) ([]os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return afero.ReadDir(a.fs, string(dir))
}

// Stat returns os.FileInfo metadata for the given path.
func (a *AferoFSAdapter) Stat(ctx context.Context, path m.Path) (os.FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return a.fs.Stat(string(path))
}

// Times reads the timestamps of path. Failing to read the creation time is
// not an error: it is reported through HasCreated and CreatedErr.
func (a *AferoFSAdapter) Times(ctx context.Context, path m.Path) (FileTimes, error) {
	info, err := a.Stat(ctx, path)
	if err != nil {
		return FileTimes{}, err
	}

	ft := FileTimes{Modified: info.ModTime()}
	if a.birthTime == nil {
		ft.CreatedErr = fmt.Errorf("creation time not supported by %s", a.fs.Name())
		return ft, nil
	}

	created, ok, err := a.birthTime(string(path))
	switch {
	case err != nil:
		ft.CreatedErr = err
	case !ok:
		ft.CreatedErr = fmt.Errorf("creation time not recorded for %s", path)
	default:
		ft.Created = created
		ft.HasCreated = true
	}

	return ft, nil
}

// RelPath returns the relative path from base to target.
func (a *AferoFSAdapter) RelPath(base, target m.Path) (m.Path, error) {
	rel, err := filepath.Rel(string(base), string(target))
	if err != nil {
		return "", err
	}

	return m.Path(rel), nil
}

// JoinPath joins path elements into a single path.
func (a *AferoFSAdapter) JoinPath(elem ...string) m.Path {
	return m.Path(filepath.Join(elem...))
}

// OSBirthTime reads the creation time recorded by the operating system
// (statx on Linux, birthtime on macOS and BSD, creation time on Windows).
func OSBirthTime(path string) (time.Time, bool, error) {
	ts, err := times.Stat(path)
	if err != nil {
		return time.Time{}, false, err
	}

	if !ts.HasBirthTime() {
		return time.Time{}, false, nil
	}

	return ts.BirthTime(), true, nil
}

// StaticBirthTimes returns a BirthTimeFunc answering from a fixed table.
// Paths missing from the table have no creation time.
func StaticBirthTimes(created map[string]time.Time) BirthTimeFunc {
	return func(path string) (time.Time, bool, error) {
		t, ok := created[filepath.Clean(path)]
		return t, ok, nil
	}
}
