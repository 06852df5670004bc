package controller

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

func manyUnits(n int) m.Snapshot {
	snap := m.Snapshot{Summary: map[string]int{"Not archived": n}}
	for i := 0; i < n; i++ {
		snap.Units = append(snap.Units, m.UnitRecord{
			Name:   fmt.Sprintf("batch_%03d.d", i),
			Files:  1,
			Status: "Not archived",
		})
	}

	return snap
}

func TestTUI_DisplaySnapshot_SmallList(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTUI(&buf)

	require.NoError(t, ui.Start(context.Background(), WithViewMode()))
	require.NoError(t, ui.DisplaySnapshot(context.Background(), testSnapshot()))
	ui.Wait(context.Background())

	out := buf.String()
	assert.Contains(t, out, "RawFinder")
	assert.Contains(t, out, "batch_1.d")
	assert.Contains(t, out, "2/2 files")
	assert.Contains(t, out, "1/2 files")
	assert.Contains(t, out, "Summary")
	assert.NotContains(t, out, "Page ")
}

func TestTUI_DisplaySnapshot_Empty(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTUI(&buf)

	require.NoError(t, ui.DisplaySnapshot(context.Background(), m.Snapshot{Cancelled: true}))

	assert.Contains(t, buf.String(), "No raw data found")
	assert.Contains(t, buf.String(), "partial")
}

func TestTUI_ScanProgressStopsOnClose(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTUI(&buf)
	ctx := context.Background()

	require.NoError(t, ui.Start(ctx, WithScanMode()))
	ui.DisplayScanConfig(ctx, m.ScanConfig{RawRoot: "/raw", ArchiveRoot: "/archive", Mode: m.ModeFileLike})
	ui.DisplayProgress(ctx, 100)
	ui.Close(ctx)
	ui.Wait(ctx)

	assert.Nil(t, ui.progress)
	assert.Contains(t, buf.String(), "/archive")
}

func TestTUI_DisplayDiff(t *testing.T) {
	var buf bytes.Buffer
	ui := NewTUI(&buf)

	diff := "--- old\n+++ new\n@@ -1 +1 @@\n-a: Not archived (0/1)\n+a: Fully archived (1/1)\n"
	require.NoError(t, ui.DisplayDiff(context.Background(), diff))

	out := buf.String()
	assert.Contains(t, out, "a: Not archived (0/1)")
	assert.Contains(t, out, "a: Fully archived (1/1)")

	buf.Reset()
	require.NoError(t, ui.DisplayDiff(context.Background(), ""))
	assert.Contains(t, buf.String(), "No status change")
}

func TestUnitListModel_Pagination_VisibleContent(t *testing.T) {
	model := newUnitListModel(manyUnits(40))

	updated, _ := model.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	model = updated.(unitListModel)

	require.True(t, model.needsPagination())
	assert.Equal(t, 8, model.itemsPerPage())

	view := model.View()
	assert.Contains(t, view, "batch_000.d")
	assert.Contains(t, view, "batch_007.d")
	assert.NotContains(t, view, "batch_008.d")
	assert.Contains(t, view, "Page 1/5")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("d")})
	model = updated.(unitListModel)
	view = model.View()
	assert.Contains(t, view, "batch_008.d")
	assert.NotContains(t, view, "batch_007.d")
	assert.Contains(t, view, "Showing 9-16 of 40")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("G")})
	model = updated.(unitListModel)
	assert.Equal(t, model.maxOffset(), model.offset)
	assert.Contains(t, model.View(), "batch_039.d")

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("g")})
	model = updated.(unitListModel)
	assert.Equal(t, 0, model.offset)

	updated, _ = model.Update(tea.KeyMsg{Type: tea.KeyUp})
	model = updated.(unitListModel)
	assert.Equal(t, 0, model.offset, "offset never goes negative")
}

func TestUnitListModel_Quit(t *testing.T) {
	model := newUnitListModel(manyUnits(3))

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.True(t, updated.(unitListModel).quitting)
}

func TestUnitListModel_NoPagination_ShowsAllContent(t *testing.T) {
	model := newUnitListModel(manyUnits(5))

	view := model.View()
	assert.False(t, model.needsPagination())
	assert.Equal(t, 5, strings.Count(view, "batch_"))
	assert.Contains(t, view, "Not archived")
}

func TestProgressModel_Update(t *testing.T) {
	pm := newProgressModel()

	updated, _ := pm.Update(progressMsg(42))
	assert.Contains(t, updated.View(), "42 found")

	updated, cmd := updated.Update(scanDoneMsg{})
	require.NotNil(t, cmd)
	assert.Empty(t, updated.View())
}
