package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestRelevant(t *testing.T) {
	w := New(nil, "ordered.txt", func(string) {})

	tests := []struct {
		path string
		want bool
	}{
		{"/f/010_clients.yaml", true},
		{"/f/020_sales.json", true},
		{"/f/030_more.yml", true},
		{"/f/ordered.txt", true},
		{"/f/notes.md", false},
		{"/f/.010_clients.yaml.swp", false},
	}

	for _, tt := range tests {
		if got := w.Relevant(tt.path); got != tt.want {
			t.Errorf("Relevant(%s) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestWatchDebouncesChanges(t *testing.T) {
	dir := t.TempDir()
	changes := make(chan string, 10)

	w := New([]string{dir}, "ordered.txt", func(path string) {
		changes <- path
	}).WithDebounce(50 * time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Watch(ctx) }()

	// Give fsnotify time to register the directory
	time.Sleep(100 * time.Millisecond)

	path := filepath.Join(dir, "010_clients.yaml")
	for i := 0; i < 3; i++ {
		if err := os.WriteFile(path, []byte("- model: app.Client\n"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(dir, "ignored.md"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case got := <-changes:
		if filepath.Base(got) != "010_clients.yaml" {
			t.Errorf("changed path = %s, want 010_clients.yaml", got)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for change notification")
	}

	select {
	case got := <-changes:
		t.Errorf("unexpected second notification for %s", got)
	case <-time.After(200 * time.Millisecond):
	}

	cancel()
	if err := <-done; err != context.Canceled {
		t.Errorf("Watch() = %v, want context.Canceled", err)
	}
}

func TestWatchMissingDirectory(t *testing.T) {
	w := New([]string{filepath.Join(t.TempDir(), "missing")}, "ordered.txt", func(string) {})
	if err := w.Watch(context.Background()); err == nil {
		t.Error("Watch() expected error for missing directory")
	}
}
