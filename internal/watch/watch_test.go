package watch

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestReportsChangesToTheFileOnly(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(path, []byte("uno"), 0o644); err != nil {
		t.Fatal(err)
	}

	changed := make(chan string, 10)
	w, err := New(path, 20*time.Millisecond, func(p string) { changed <- p })
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	w.Start(ctx)
	defer w.Close()

	if err := os.WriteFile(filepath.Join(dir, "other.txt"), []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case p := <-changed:
		t.Fatalf("change reported for unrelated file: %s", p)
	case <-time.After(150 * time.Millisecond):
	}

	for _, text := range []string{"dos", "tres", "cuatro"} {
		if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case p := <-changed:
		if p != path {
			t.Errorf("handler path = %q, want %q", p, path)
		}
	case <-time.After(3 * time.Second):
		t.Fatal("no change reported")
	}
}

func TestNewMissingDirectory(t *testing.T) {
	if _, err := New(filepath.Join(t.TempDir(), "nope", "t.txt"), 0, func(string) {}); err == nil {
		t.Error("New() on a missing directory succeeded")
	}
}
