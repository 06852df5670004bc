package domain

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlexandreBurel/RawFinder/internal/adapter"
	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// ValidateConfig checks cfg against the filesystem before any traversal.
// Every returned error wraps ErrInvalidConfig.
func ValidateConfig(ctx context.Context, fsAdapter adapter.FSAdapter, cfg m.ScanConfig) error {
	var errs []error

	if cfg.RawRoot == "" {
		errs = append(errs, errors.New("raw data directory is not set"))
	} else if info, err := fsAdapter.Stat(ctx, cfg.RawRoot); err != nil {
		errs = append(errs, fmt.Errorf("raw data directory: %w", err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("raw data directory %s is not a directory", cfg.RawRoot))
	}

	if cfg.ArchiveRoot == "" {
		errs = append(errs, errors.New("archive directory is not set"))
	} else if info, err := fsAdapter.Stat(ctx, cfg.ArchiveRoot); err != nil {
		errs = append(errs, fmt.Errorf("archive directory: %w", err))
	} else if !info.IsDir() {
		errs = append(errs, fmt.Errorf("archive directory %s is not a directory", cfg.ArchiveRoot))
	}

	if cfg.Mode != m.ModeFolderLike && cfg.Mode != m.ModeFileLike {
		errs = append(errs, fmt.Errorf("unknown raw data mode %q", cfg.Mode))
	}

	if templates, err := CompileTemplates(cfg.Templates); err != nil {
		errs = append(errs, err)
	} else if len(templates) == 0 {
		errs = append(errs, errors.New("no raw data template configured"))
	}

	if n := len(cfg.MonthNames); n != 0 && n != 12 {
		errs = append(errs, fmt.Errorf("expected 12 month names, got %d", n))
	}

	if len(errs) == 0 {
		return nil
	}

	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}
