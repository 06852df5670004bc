package domain

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// recordingFS records the order in which file attributes are read and can
// fail or cancel on demand.
type recordingFS struct {
	adapter.FSAdapter

	mu        sync.Mutex
	reads     []m.Path
	failDir   m.Path
	cancelAt  int
	cancelCtx context.CancelFunc
}

func (r *recordingFS) ReadDir(ctx context.Context, dir m.Path) ([]os.FileInfo, error) {
	if dir == r.failDir {
		return nil, os.ErrPermission
	}

	return r.FSAdapter.ReadDir(ctx, dir)
}

func (r *recordingFS) Times(ctx context.Context, path m.Path) (adapter.FileTimes, error) {
	r.mu.Lock()
	r.reads = append(r.reads, path)
	n := len(r.reads)
	r.mu.Unlock()

	if r.cancelCtx != nil && n == r.cancelAt {
		r.cancelCtx()
	}

	return r.FSAdapter.Times(ctx, path)
}

// twoUnitTree builds batch_1, fully archived, and batch_2, not archived.
func twoUnitTree(t *testing.T) *fixture {
	t.Helper()

	f := newFixture(t)
	march := date(2021, time.March, 4)

	f.writeFile(t, "/raw/batch_1/a.bin", 100, march, march)
	f.writeFile(t, "/raw/batch_1/sub/b.bin", 200, march, march)
	f.writeArchive(t, "/archive/2021/March/batch_1/a.bin", 100)
	f.writeArchive(t, "/archive/2021/March/batch_1/sub/b.bin", 200)

	f.writeFile(t, "/raw/batch_2/c.bin", 300, march, march)
	f.writeFile(t, "/raw/misc/unrelated.bin", 10, march, march)

	return f
}

func TestScanner_EndToEnd(t *testing.T) {
	f := twoUnitTree(t)

	result, err := NewScanner(f.adapter).Scan(context.Background(), f.config(m.ModeFolderLike, `batch_\d+`))
	require.NoError(t, err)
	require.False(t, result.Cancelled)

	assert.Len(t, result.Files, 3, "files outside any unit are skipped")
	assert.NotContains(t, result.Files, m.Path("/raw/misc/unrelated.bin"))

	summary := Summarize(result.Units)
	assert.Equal(t, m.Summary{m.FullyArchived: 1, m.NotArchived: 1, m.PartiallyArchived: 0}, summary)

	batch1 := result.Units["batch_1"]
	require.NotNil(t, batch1)
	assert.Equal(t, int64(300), batch1.Size)
	assert.Equal(t, 2, batch1.Files)

	match := result.Files["/raw/batch_1/sub/b.bin"]
	assert.Equal(t, m.Path("/archive/2021/March/batch_1/sub/b.bin"), match.Archive.Path)
	assert.True(t, match.Archive.SizeMatches(match.Raw))
}

func TestScanner_FileLike(t *testing.T) {
	f := newFixture(t)
	june := date(2020, time.June, 30)

	f.writeFile(t, "/raw/2020/run_1.raw", 10, june, june)
	f.writeFile(t, "/raw/2020/run_2.raw", 20, june, june)
	f.writeFile(t, "/raw/2020/run_2.log", 20, june, june)
	f.writeArchive(t, "/archive/2020/July/2020/run_2.raw", 20)

	result, err := NewScanner(f.adapter).Scan(context.Background(), f.config(m.ModeFileLike, `run_\d+\.raw`))
	require.NoError(t, err)

	require.Len(t, result.Units, 2)
	assert.Equal(t, m.NotArchived, result.Units["run_1.raw"].Status())
	assert.Equal(t, m.FullyArchived, result.Units["run_2.raw"].Status())
	assert.Equal(t, m.PolicyNextMonth, result.Files["/raw/2020/run_2.raw"].Archive.Policy)
}

func TestScanner_SubdirectoriesBeforeFiles(t *testing.T) {
	f := newFixture(t)
	now := date(2021, time.March, 4)

	f.writeFile(t, "/raw/batch_1/a.bin", 1, now, now)
	f.writeFile(t, "/raw/batch_1/z/deep/b.bin", 1, now, now)
	f.writeFile(t, "/raw/batch_1/z/c.bin", 1, now, now)

	rec := &recordingFS{FSAdapter: f.adapter}

	_, err := NewScanner(rec).Scan(context.Background(), f.config(m.ModeFolderLike, `batch_\d+`))
	require.NoError(t, err)

	assert.Equal(t, []m.Path{
		"/raw/batch_1/z/deep/b.bin",
		"/raw/batch_1/z/c.bin",
		"/raw/batch_1/a.bin",
	}, rec.reads)
}

func TestScanner_UnreadableDirectoryAbortsScan(t *testing.T) {
	f := twoUnitTree(t)
	rec := &recordingFS{FSAdapter: f.adapter, failDir: "/raw/batch_2"}

	result, err := NewScanner(rec).Scan(context.Background(), f.config(m.ModeFolderLike, `batch_\d+`))
	require.Error(t, err)
	assert.Nil(t, result)

	var scanErr *ScanError
	require.ErrorAs(t, err, &scanErr)
	assert.Equal(t, m.Path("/raw/batch_2"), scanErr.Path)
	assert.Equal(t, "list directory", scanErr.Op)
	assert.ErrorIs(t, err, os.ErrPermission)
	assert.Contains(t, err.Error(), "/raw/batch_2")
}

func TestScanner_InvalidConfigStopsBeforeTraversal(t *testing.T) {
	f := twoUnitTree(t)
	rec := &recordingFS{FSAdapter: f.adapter}

	cfg := f.config(m.ModeFolderLike, `batch_\d+`)
	cfg.ArchiveRoot = "/missing"

	_, err := NewScanner(rec).Scan(context.Background(), cfg)
	require.ErrorIs(t, err, ErrInvalidConfig)
	assert.Empty(t, rec.reads)
}

func TestScanner_CancelledScanReturnsPartialResult(t *testing.T) {
	f := newFixture(t)
	now := date(2021, time.March, 4)

	for _, name := range []string{"batch_1", "batch_2", "batch_3"} {
		f.writeFile(t, "/raw/"+name+"/a.bin", 1, now, now)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rec := &recordingFS{FSAdapter: f.adapter, cancelAt: 2, cancelCtx: cancel}

	result, err := NewScanner(rec).Scan(ctx, f.config(m.ModeFolderLike, `batch_\d+`))
	require.NoError(t, err)
	require.NotNil(t, result)
	assert.True(t, result.Cancelled)
	assert.Len(t, result.Units, 1)
	assert.Contains(t, result.Units, "batch_1")
}

func TestScanner_Progress(t *testing.T) {
	f := newFixture(t)
	now := date(2021, time.March, 4)

	for _, name := range []string{"run_1", "run_2", "run_3", "run_4", "run_5"} {
		f.writeFile(t, "/raw/"+name+".raw", 1, now, now)
	}

	cfg := f.config(m.ModeFileLike, `run_\d\.raw`)
	cfg.ProgressStep = 2

	var milestones []int

	_, err := NewScanner(f.adapter).Scan(context.Background(), cfg, WithProgress(func(units int) {
		milestones = append(milestones, units)
	}))
	require.NoError(t, err)
	assert.Equal(t, []int{2, 4}, milestones)
}

func TestScanner_WorkersDoNotChangeResult(t *testing.T) {
	f := twoUnitTree(t)
	now := date(2021, time.March, 4)

	for _, name := range []string{"a", "b", "c", "d", "e", "f", "g", "h"} {
		f.writeFile(t, "/raw/batch_3/"+name+".bin", 5, now, now)
	}

	f.writeArchive(t, "/archive/2021/March/batch_3/c.bin", 5)

	cfg := f.config(m.ModeFolderLike, `batch_\d+`)
	scanner := NewScanner(f.adapter)

	sequential, err := scanner.Scan(context.Background(), cfg)
	require.NoError(t, err)

	cfg.Workers = 4
	parallel, err := scanner.Scan(context.Background(), cfg)
	require.NoError(t, err)

	if diff := cmp.Diff(sequential.Files, parallel.Files); diff != "" {
		t.Errorf("files differ (-sequential +parallel):\n%s", diff)
	}

	if diff := cmp.Diff(sequential.Units, parallel.Units, cmpopts.IgnoreUnexported(m.RawUnit{})); diff != "" {
		t.Errorf("units differ (-sequential +parallel):\n%s", diff)
	}

	assert.Equal(t, m.PartiallyArchived, parallel.Units["batch_3"].Status())
	assert.NotSame(t, sequential.Units["batch_1"], parallel.Units["batch_1"], "scans never share units")
}

func TestScanError(t *testing.T) {
	err := &ScanError{Op: "list directory", Path: "/raw/x", Err: os.ErrPermission}

	assert.Equal(t, "list directory /raw/x: permission denied", err.Error())
	assert.True(t, errors.Is(err, os.ErrPermission))
}
