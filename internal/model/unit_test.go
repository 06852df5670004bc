package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFromCounts(t *testing.T) {
	tests := []struct {
		name     string
		archived int
		total    int
		want     Status
	}{
		{"nothing archived", 0, 3, NotArchived},
		{"empty unit", 0, 0, NotArchived},
		{"all archived", 3, 3, FullyArchived},
		{"single file archived", 1, 1, FullyArchived},
		{"some archived", 1, 3, PartiallyArchived},
		{"all but one archived", 4, 5, PartiallyArchived},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StatusFromCounts(tt.archived, tt.total))
		})
	}
}

func TestRawUnit_StatusIsMemoized(t *testing.T) {
	unit := &RawUnit{Name: "batch_1", Files: 2, Archived: 2}
	assert.False(t, unit.Frozen())
	assert.Equal(t, FullyArchived, unit.Status())
	assert.True(t, unit.Frozen())

	unit.Files++
	assert.Equal(t, FullyArchived, unit.Status(), "status must not change after first read")
}

func TestStatusLabels(t *testing.T) {
	assert.Equal(t, "Fully archived", FullyArchived.String())
	assert.Equal(t, "Partially archived", PartiallyArchived.String())
	assert.Equal(t, "Not archived", NotArchived.String())

	for _, s := range Statuses {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}

	_, err := ParseStatus("archived-ish")
	assert.Error(t, err)
}

func TestParseMode(t *testing.T) {
	tests := []struct {
		in      string
		want    Mode
		wantErr bool
	}{
		{"folder", ModeFolderLike, false},
		{"Folder-Like", ModeFolderLike, false},
		{"directory", ModeFolderLike, false},
		{"file", ModeFileLike, false},
		{" FILE ", ModeFileLike, false},
		{"blob", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseMode(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArchiveMatch_SizeMatches(t *testing.T) {
	raw := RawFile{Path: "/raw/a.bin", Size: 1000}

	assert.True(t, ArchiveMatch{Found: true, Size: 1000}.SizeMatches(raw))
	assert.False(t, ArchiveMatch{Found: true, Size: 999}.SizeMatches(raw))
	assert.False(t, NoArchive.SizeMatches(RawFile{Size: 0}), "a missing archive never matches, even for empty files")
}
