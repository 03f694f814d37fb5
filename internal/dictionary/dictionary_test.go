package dictionary

import (
	"context"
	"os"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/uuid"
)

// openTest connects to the server named by REDLINE_REDIS_ADDR, using a
// throwaway key.
func openTest(t *testing.T) *Dictionary {
	t.Helper()
	addr := os.Getenv("REDLINE_REDIS_ADDR")
	if addr == "" {
		t.Skip("REDLINE_REDIS_ADDR not set")
	}
	cfg := DefaultConfig()
	cfg.Addr = addr
	cfg.Key = "redline:test:" + uuid.NewString()
	d, err := Open(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() {
		d.client.Del(context.Background(), d.key)
		d.Close()
	})
	return d
}

func TestAddRemoveWords(t *testing.T) {
	d := openTest(t)
	ctx := context.Background()

	if err := d.Add(ctx, " Pues ", "ESTE", "o sea", ""); err != nil {
		t.Fatalf("Add() error = %v", err)
	}
	if err := d.Add(ctx, "pues"); err != nil {
		t.Fatalf("Add() duplicate error = %v", err)
	}
	if err := d.Remove(ctx, "Este"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}

	got, err := d.Words(ctx)
	if err != nil {
		t.Fatalf("Words() error = %v", err)
	}
	if diff := cmp.Diff([]string{"o sea", "pues"}, got); diff != "" {
		t.Errorf("Words() mismatch (-want +got):\n%s", diff)
	}
}

func TestNormalize(t *testing.T) {
	got := normalize([]string{" Eh ", "", "  ", "MMM"})
	if diff := cmp.Diff([]interface{}{"eh", "mmm"}, got); diff != "" {
		t.Errorf("normalize() mismatch (-want +got):\n%s", diff)
	}
}

func TestNewDefaultsKey(t *testing.T) {
	if d := New(nil, ""); d.key != DefaultKey {
		t.Errorf("key = %q, want %q", d.key, DefaultKey)
	}
}
