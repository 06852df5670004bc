package adapter

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// ReportStore persists scan snapshots so they can be viewed or compared later.
type ReportStore interface {
	SaveSnapshot(ctx context.Context, path m.Path, snapshot m.Snapshot) error
	LoadSnapshot(ctx context.Context, path m.Path) (m.Snapshot, error)
}

// YAMLReportStore stores snapshots as YAML documents.
type YAMLReportStore struct {
	fs afero.Fs
}

// NewReportStore returns a store writing to the operating system filesystem.
func NewReportStore() *YAMLReportStore {
	return NewReportStoreOn(afero.NewOsFs())
}

// NewReportStoreOn returns a store writing to fs.
func NewReportStoreOn(fs afero.Fs) *YAMLReportStore {
	return &YAMLReportStore{fs: fs}
}

// SaveSnapshot writes snapshot to path. The file is written next to its final
// location and renamed into place, so readers never see a partial document.
func (s *YAMLReportStore) SaveSnapshot(ctx context.Context, path m.Path, snapshot m.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	var buf bytes.Buffer

	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)

	if err := enc.Encode(snapshot); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}

	dir := filepath.Dir(string(path))
	if err := s.fs.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("create report directory: %w", err)
	}

	tmp, err := afero.TempFile(s.fs, dir, ".snapshot-*.yaml")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	tmpName := tmp.Name()

	if _, err := tmp.Write(buf.Bytes()); err != nil {
		_ = tmp.Close()
		_ = s.fs.Remove(tmpName)

		return fmt.Errorf("write snapshot: %w", err)
	}

	if err := tmp.Close(); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := s.fs.Rename(tmpName, string(path)); err != nil {
		_ = s.fs.Remove(tmpName)
		return fmt.Errorf("rename snapshot: %w", err)
	}

	slog.Debug("Saved snapshot", "path", path, "units", len(snapshot.Units), "files", len(snapshot.Files))

	return nil
}

// LoadSnapshot reads a snapshot written by SaveSnapshot.
func (s *YAMLReportStore) LoadSnapshot(ctx context.Context, path m.Path) (m.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return m.Snapshot{}, err
	}

	data, err := afero.ReadFile(s.fs, string(path))
	if err != nil {
		return m.Snapshot{}, fmt.Errorf("read snapshot: %w", err)
	}

	var snapshot m.Snapshot
	if err := yaml.Unmarshal(data, &snapshot); err != nil {
		return m.Snapshot{}, fmt.Errorf("decode snapshot %s: %w", path, err)
	}

	return snapshot, nil
}
