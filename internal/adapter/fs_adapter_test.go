package adapter

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"

	m "github.com/AlexandreBurel/RawFinder/internal/model"
)

func TestAferoFSAdapter_ReadDir(t *testing.T) {
	t.Run("lists entries sorted by name", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		writeMemFile(t, fs, "/raw/b.bin", "bb")
		writeMemFile(t, fs, "/raw/a.bin", "a")
		mustMemMkdir(t, fs, "/raw/batch_1")

		adapter := NewAferoFSAdapter(fs, nil)
		entries, err := adapter.ReadDir(context.Background(), "/raw")
		if err != nil {
			t.Fatalf("ReadDir() error = %v", err)
		}

		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}

		want := []string{"a.bin", "b.bin", "batch_1"}
		if len(names) != len(want) {
			t.Fatalf("ReadDir() = %v, want %v", names, want)
		}

		for i := range want {
			if names[i] != want[i] {
				t.Fatalf("ReadDir() = %v, want %v", names, want)
			}
		}
	})

	t.Run("missing directory is an error", func(t *testing.T) {
		adapter := NewAferoFSAdapter(afero.NewMemMapFs(), nil)
		if _, err := adapter.ReadDir(context.Background(), "/nope"); err == nil {
			t.Fatalf("ReadDir() expected error for missing directory")
		}
	})

	t.Run("cancelled context is an error", func(t *testing.T) {
		fs := afero.NewMemMapFs()
		mustMemMkdir(t, fs, "/raw")

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		if _, err := NewAferoFSAdapter(fs, nil).ReadDir(ctx, "/raw"); err == nil {
			t.Fatalf("ReadDir() expected context error")
		}
	})
}

func TestAferoFSAdapter_Times(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeMemFile(t, fs, "/raw/a.bin", "a")
	writeMemFile(t, fs, "/raw/b.bin", "b")

	modified := time.Date(2021, time.February, 3, 4, 5, 6, 0, time.UTC)
	if err := fs.Chtimes("/raw/a.bin", modified, modified); err != nil {
		t.Fatalf("Chtimes() error = %v", err)
	}

	created := time.Date(2021, time.January, 15, 9, 0, 0, 0, time.UTC)
	adapter := NewAferoFSAdapter(fs, StaticBirthTimes(map[string]time.Time{"/raw/a.bin": created}))

	t.Run("creation time available", func(t *testing.T) {
		ft, err := adapter.Times(context.Background(), "/raw/a.bin")
		if err != nil {
			t.Fatalf("Times() error = %v", err)
		}

		if !ft.HasCreated || !ft.Created.Equal(created) {
			t.Fatalf("Times() created = %v (has=%v), want %v", ft.Created, ft.HasCreated, created)
		}

		if !ft.Modified.Equal(modified) {
			t.Fatalf("Times() modified = %v, want %v", ft.Modified, modified)
		}
	})

	t.Run("creation time missing is not an error", func(t *testing.T) {
		ft, err := adapter.Times(context.Background(), "/raw/b.bin")
		if err != nil {
			t.Fatalf("Times() error = %v", err)
		}

		if ft.HasCreated {
			t.Fatalf("Times() unexpectedly reported a creation time")
		}

		if ft.CreatedErr == nil {
			t.Fatalf("Times() expected a reason for the missing creation time")
		}
	})

	t.Run("no birth time reader", func(t *testing.T) {
		ft, err := NewAferoFSAdapter(fs, nil).Times(context.Background(), "/raw/a.bin")
		if err != nil {
			t.Fatalf("Times() error = %v", err)
		}

		if ft.HasCreated {
			t.Fatalf("Times() unexpectedly reported a creation time")
		}
	})

	t.Run("missing file is an error", func(t *testing.T) {
		if _, err := adapter.Times(context.Background(), "/raw/none.bin"); err == nil {
			t.Fatalf("Times() expected error for missing file")
		}
	})
}

func TestLocalFSAdapter_StatAndTimes(t *testing.T) {
	adapter := NewLocalFSAdapter()

	root := t.TempDir()
	path := filepath.Join(root, "sample.raw")
	if err := os.WriteFile(path, []byte("1234"), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	info, err := adapter.Stat(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("Stat() error = %v", err)
	}

	if info.Size() != 4 {
		t.Fatalf("Stat() size = %d, want 4", info.Size())
	}

	ft, err := adapter.Times(context.Background(), m.Path(path))
	if err != nil {
		t.Fatalf("Times() error = %v", err)
	}

	if ft.Modified.IsZero() {
		t.Fatalf("Times() returned zero modification time")
	}

	// Birth time support depends on the kernel and filesystem; only check consistency.
	if ft.HasCreated == (ft.CreatedErr != nil) {
		t.Fatalf("Times() HasCreated=%v but CreatedErr=%v", ft.HasCreated, ft.CreatedErr)
	}
}

func TestAferoFSAdapter_PathHelpers(t *testing.T) {
	adapter := NewAferoFSAdapter(afero.NewMemMapFs(), nil)

	rel, err := adapter.RelPath("/raw", "/raw/batch_1/data.bin")
	if err != nil {
		t.Fatalf("RelPath() error = %v", err)
	}

	if rel != m.Path(filepath.Join("batch_1", "data.bin")) {
		t.Fatalf("RelPath() = %q", rel)
	}

	joined := adapter.JoinPath("/archive", "2021", "January", string(rel))
	if joined != m.Path(filepath.Join("/archive", "2021", "January", "batch_1", "data.bin")) {
		t.Fatalf("JoinPath() = %q", joined)
	}
}

func writeMemFile(t *testing.T, fs afero.Fs, path, contents string) {
	t.Helper()

	mustMemMkdir(t, fs, filepath.Dir(path))

	if err := afero.WriteFile(fs, path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func mustMemMkdir(t *testing.T, fs afero.Fs, path string) {
	t.Helper()

	if err := fs.MkdirAll(path, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
}
