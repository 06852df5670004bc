package domain

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"golang.org/x/sync/errgroup"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// Scanner walks a raw data tree and reconciles it against the archive.
type Scanner interface {
	Scan(ctx context.Context, cfg m.ScanConfig, opts ...ScanOption) (*m.ScanResult, error)
}

// ProgressFunc receives the number of units discovered so far.
type ProgressFunc func(units int)

// ScanOption configures one scan.
type ScanOption func(*scanOptions)

type scanOptions struct {
	progress ProgressFunc
}

// WithProgress registers fn to be called every ScanConfig.ProgressStep
// discovered units. fn runs on the scanning goroutine.
func WithProgress(fn ProgressFunc) ScanOption {
	return func(o *scanOptions) {
		o.progress = fn
	}
}

type scanner struct {
	adapter.FSAdapter
}

// NewScanner creates a Scanner reading the filesystem through fsAdapter.
func NewScanner(fsAdapter adapter.FSAdapter) Scanner {
	return &scanner{FSAdapter: fsAdapter}
}

type listedFile struct {
	path m.Path
	info os.FileInfo
}

// scanRun holds the state of a single scan.
type scanRun struct {
	adapter.FSAdapter
	cfg        m.ScanConfig
	opts       scanOptions
	classifier *Classifier
	locator    *Locator
	aggregator *Aggregator
	result     *m.ScanResult
}

// Scan validates cfg, then walks cfg.RawRoot depth-first. Subdirectories are
// walked before the files of their parent are classified. A cancelled scan
// returns what was reconciled so far with Cancelled set and no error.
func (s *scanner) Scan(ctx context.Context, cfg m.ScanConfig, opts ...ScanOption) (*m.ScanResult, error) {
	cfg = cfg.WithDefaults()

	if err := ValidateConfig(ctx, s.FSAdapter, cfg); err != nil {
		return nil, err
	}

	classifier, err := NewClassifier(cfg)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}

	run := &scanRun{
		FSAdapter:  s.FSAdapter,
		cfg:        cfg,
		classifier: classifier,
		locator:    NewLocator(s.FSAdapter, cfg),
		aggregator: NewAggregator(),
	}

	for _, opt := range opts {
		opt(&run.opts)
	}

	run.result = &m.ScanResult{
		Config: cfg,
		Files:  make(map[m.Path]m.FileMatch),
		Units:  run.aggregator.Units(),
	}

	slog.Info("Scan started", "raw", cfg.RawRoot, "archive", cfg.ArchiveRoot, "mode", cfg.Mode, "workers", cfg.Workers)

	err = run.walk(ctx, cfg.RawRoot)

	switch {
	case err == nil:
	case isCancellation(err) && ctx.Err() != nil:
		slog.Warn("Scan cancelled", "files", len(run.result.Files), "units", run.aggregator.Len())
		run.result.Cancelled = true
	default:
		slog.Error("Scan failed", "error", err)
		return nil, err
	}

	slog.Info("Scan finished", "files", len(run.result.Files), "units", run.aggregator.Len())

	return run.result, nil
}

func (r *scanRun) walk(ctx context.Context, dir m.Path) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := r.ReadDir(ctx, dir)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		return &ScanError{Op: "list directory", Path: dir, Err: err}
	}

	var files []listedFile

	for _, entry := range entries {
		path := r.JoinPath(string(dir), entry.Name())

		if entry.IsDir() {
			if err := r.walk(ctx, path); err != nil {
				return err
			}

			continue
		}

		if r.classifier.IsRawData(path, entry) {
			files = append(files, listedFile{path: path, info: entry})
		}
	}

	if len(files) == 0 {
		return nil
	}

	matches, err := r.resolveAll(ctx, files)
	if err != nil {
		return err
	}

	for _, match := range matches {
		if err := r.absorb(match); err != nil {
			return err
		}
	}

	return nil
}

// resolveAll locates the archive copy of every file of one directory listing,
// at most cfg.Workers at a time. Results keep the order of files.
func (r *scanRun) resolveAll(ctx context.Context, files []listedFile) ([]m.FileMatch, error) {
	matches := make([]m.FileMatch, len(files))

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(r.cfg.Workers)

	for i, file := range files {
		i, file := i, file
		if groupCtx.Err() != nil {
			break
		}

		group.Go(func() error {
			match, err := r.resolve(groupCtx, file)
			if err != nil {
				return err
			}

			matches[i] = match

			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return nil, err
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return matches, nil
}

func (r *scanRun) resolve(ctx context.Context, file listedFile) (m.FileMatch, error) {
	path := file.path

	ft, err := r.Times(ctx, path)
	if err != nil {
		return m.FileMatch{}, r.fileError(ctx, "read attributes", path, err)
	}

	if !ft.HasCreated {
		slog.Debug("Creation date unavailable", "path", path, "error", ft.CreatedErr)
	}

	raw := m.RawFile{
		Path:       path,
		Size:       file.info.Size(),
		Created:    ft.Created,
		HasCreated: ft.HasCreated,
		Modified:   ft.Modified,
		Unit:       r.classifier.UnitName(path),
	}

	archive, err := r.locator.Locate(ctx, raw)
	if err != nil {
		return m.FileMatch{}, r.fileError(ctx, "locate archive", path, err)
	}

	return m.FileMatch{Raw: raw, Archive: archive}, nil
}

func (r *scanRun) fileError(ctx context.Context, op string, path m.Path, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}

	return &ScanError{Op: op, Path: path, Err: err}
}

func (r *scanRun) absorb(match m.FileMatch) error {
	created, err := r.aggregator.Absorb(match.Raw, match.Archive)
	if err != nil {
		return &ScanError{Op: "aggregate", Path: match.Raw.Path, Err: err}
	}

	r.result.Files[match.Raw.Path] = match

	if created && r.aggregator.Len()%r.cfg.ProgressStep == 0 {
		slog.Info("Scan in progress", "units", r.aggregator.Len())

		if r.opts.progress != nil {
			r.opts.progress(r.aggregator.Len())
		}
	}

	return nil
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
