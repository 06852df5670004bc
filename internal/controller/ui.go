// Package controller provides output adapters for displaying reconciliation results.
package controller

import (
	"context"
	"os"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

// StartMode defines the mode of operation for the UI.
type StartMode int

// Available StartMode values.
const (
	ModeScan StartMode = iota
	ModeView
	ModeDiff
)

// StartOption is a functional option for Start method.
type StartOption func(*StartConfig)

// StartConfig holds configuration for starting the UI.
type StartConfig struct {
	mode StartMode
}

// WithScanMode sets the UI to scan mode, with live progress.
func WithScanMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeScan
	}
}

// WithViewMode sets the UI to display a stored snapshot.
func WithViewMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeView
	}
}

// WithDiffMode sets the UI to compare two snapshots.
func WithDiffMode() StartOption {
	return func(c *StartConfig) {
		c.mode = ModeDiff
	}
}

func newStartConfig(options []StartOption) StartConfig {
	cfg := StartConfig{mode: ModeScan}
	for _, opt := range options {
		opt(&cfg)
	}

	return cfg
}

// UI defines the interface for displaying scans and their reports.
// Implementations can use different output methods (simple text, TUI, etc).
type UI interface {
	Start(ctx context.Context, options ...StartOption) error
	Close(ctx context.Context)
	Wait(ctx context.Context) // Wait for UI to finish (user closes it)
	DisplayScanConfig(ctx context.Context, cfg m.ScanConfig)
	DisplayProgress(ctx context.Context, units int)
	DisplaySnapshot(ctx context.Context, snapshot m.Snapshot) error
	DisplayReports(ctx context.Context, paths ...m.Path)
	DisplayDiff(ctx context.Context, diff string) error
}

// NewUI returns a TUI when the output is a terminal and a SimpleUI otherwise.
func NewUI(cmd *cobra.Command, tty bool) UI {
	if tty {
		return NewTUI(cmd.OutOrStdout())
	}

	return NewSimpleUI(cmd)
}

// IsTTY reports whether f is attached to a terminal.
func IsTTY(f *os.File) bool {
	if f == nil {
		return false
	}

	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
