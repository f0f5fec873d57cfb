package ingest

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func mkfile(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(path), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestDiscover(t *testing.T) {
	root := t.TempDir()
	for _, p := range []string{"b.pdf", "a.PDF", "notes.txt", ".hidden.pdf", "sub/c.pdf", ".git/d.pdf"} {
		mkfile(t, filepath.Join(root, p))
	}
	j := func(ps ...string) []string {
		out := make([]string, len(ps))
		for i, p := range ps {
			out[i] = filepath.Join(root, p)
		}
		return out
	}

	tests := []struct {
		name string
		opts ScanOptions
		want []string
	}{
		{"flat", ScanOptions{SkipHidden: true}, j("a.PDF", "b.pdf")},
		{"recursive", ScanOptions{Recursive: true, SkipHidden: true}, j("a.PDF", "b.pdf", "sub/c.pdf")},
		{"hidden included", ScanOptions{Recursive: true}, j(".git/d.pdf", ".hidden.pdf", "a.PDF", "b.pdf", "sub/c.pdf")},
		{"custom exts", ScanOptions{Exts: map[string]struct{}{"txt": {}}}, j("notes.txt")},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, _, err := Discover(context.Background(), root, tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Discover = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDiscoverSingleFile(t *testing.T) {
	p := filepath.Join(t.TempDir(), "scan.bin")
	mkfile(t, p)
	got, stats, err := Discover(context.Background(), p, ScanOptions{})
	if err != nil || len(got) != 1 || got[0] != p || stats.Matched != 1 {
		t.Errorf("got %v %+v %v", got, stats, err)
	}
	if _, _, err := Discover(context.Background(), filepath.Join(p, "missing"), ScanOptions{}); err == nil {
		t.Error("expected error for missing root")
	}
}

func TestHashFileAndDeduper(t *testing.T) {
	dir := t.TempDir()
	a := filepath.Join(dir, "a.pdf")
	if err := os.WriteFile(a, []byte("abc"), 0o644); err != nil {
		t.Fatal(err)
	}
	h, err := HashFile(a)
	if err != nil {
		t.Fatal(err)
	}
	if h != "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad" {
		t.Errorf("HashFile = %s", h)
	}
	d := NewDeduper()
	if !d.Add(h) || d.Add(h) {
		t.Error("Deduper should accept a hash once")
	}
}

func TestWatchEmitsNewFiles(t *testing.T) {
	root := t.TempDir()
	mkfile(t, filepath.Join(root, "existing.pdf"))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	events, _, err := Watch(ctx, WatchConfig{
		Roots:       []string{root},
		InitialScan: true,
		SkipHidden:  true,
		Debounce:    20 * time.Millisecond,
	}, nil)
	if err != nil {
		t.Fatal(err)
	}

	next := func() string {
		t.Helper()
		select {
		case p := <-events:
			return p
		case <-time.After(5 * time.Second):
			t.Fatal("timed out waiting for watcher event")
			return ""
		}
	}
	if got := next(); got != filepath.Join(root, "existing.pdf") {
		t.Errorf("initial scan emitted %s", got)
	}

	mkfile(t, filepath.Join(root, "ignored.txt"))
	mkfile(t, filepath.Join(root, "new.pdf"))
	if got := next(); got != filepath.Join(root, "new.pdf") {
		t.Errorf("event for %s", got)
	}

	cancel()
	for range events {
	}
}

func TestWatchRequiresRoots(t *testing.T) {
	if _, _, err := Watch(context.Background(), WatchConfig{}, nil); err == nil {
		t.Error("expected error")
	}
}
