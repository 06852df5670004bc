package domain

import (
	"bytes"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

func TestMain(tm *testing.M) {
	goleak.VerifyTestMain(tm)
}

const (
	rawRoot     = "/raw"
	archiveRoot = "/archive"
)

// fixture is an in-memory raw data tree and archive tree.
type fixture struct {
	fs      afero.Fs
	created map[string]time.Time
	adapter *adapter.AferoFSAdapter
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	fs := afero.NewMemMapFs()
	created := map[string]time.Time{}

	f := &fixture{
		fs:      fs,
		created: created,
		adapter: adapter.NewAferoFSAdapter(fs, adapter.StaticBirthTimes(created)),
	}

	f.mkdir(t, rawRoot)
	f.mkdir(t, archiveRoot)

	return f
}

func (f *fixture) mkdir(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, f.fs.MkdirAll(path, 0o755))
}

// writeFile creates a file of size bytes. A zero created time leaves the
// creation date unreadable.
func (f *fixture) writeFile(t *testing.T, path string, size int, created, modified time.Time) {
	t.Helper()

	f.mkdir(t, filepath.Dir(path))
	require.NoError(t, afero.WriteFile(f.fs, path, bytes.Repeat([]byte("x"), size), 0o644))
	require.NoError(t, f.fs.Chtimes(path, modified, modified))

	if !created.IsZero() {
		f.created[filepath.Clean(path)] = created
	}
}

// writeArchive creates an archive copy of size bytes.
func (f *fixture) writeArchive(t *testing.T, path string, size int) {
	t.Helper()

	f.writeFile(t, path, size, time.Time{}, time.Now())
}

func (f *fixture) config(mode m.Mode, templates ...string) m.ScanConfig {
	return m.ScanConfig{
		RawRoot:     rawRoot,
		ArchiveRoot: archiveRoot,
		Mode:        mode,
		Templates:   templates,
		Location:    time.UTC,
	}
}

func date(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 12, 0, 0, 0, time.UTC)
}
