package buffer

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/bethropolis/redline/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestReplace(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		start    int
		end      int
		insert   string
		want     string
		wantEdit types.EditInfo
	}{
		{"grow", "AAA BBB CCC", 4, 7, "LONGWORD", "AAA LONGWORD CCC", types.EditInfo{Start: 4, OldEnd: 7, NewEnd: 12}},
		{"shrink", "AAA BBB CCC", 4, 7, "B", "AAA B CCC", types.EditInfo{Start: 4, OldEnd: 7, NewEnd: 5}},
		{"insert", "ab", 1, 1, "ñ", "añb", types.EditInfo{Start: 1, OldEnd: 1, NewEnd: 2}},
		{"multibyte offsets", "según él", 6, 8, "ella", "según ella", types.EditInfo{Start: 6, OldEnd: 8, NewEnd: 10}},
		{"delete all", "abc", 0, 3, "", "", types.EditInfo{Start: 0, OldEnd: 3, NewEnd: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewRuneBufferFromString(tt.text)
			edit, err := b.Replace(tt.start, tt.end, tt.insert)
			if err != nil {
				t.Fatalf("Replace() error = %v", err)
			}
			if got := b.Text(); got != tt.want {
				t.Errorf("Text() = %q, want %q", got, tt.want)
			}
			if diff := cmp.Diff(tt.wantEdit, edit); diff != "" {
				t.Errorf("EditInfo mismatch (-want +got):\n%s", diff)
			}
			if !b.IsModified() {
				t.Error("IsModified() = false after Replace")
			}
		})
	}
}

func TestReplaceRejectsBadRanges(t *testing.T) {
	b := NewRuneBufferFromString("abc")
	for _, r := range [][2]int{{-1, 1}, {2, 1}, {0, 4}} {
		if _, err := b.Replace(r[0], r[1], "x"); !errors.Is(err, ErrRange) {
			t.Errorf("Replace(%d, %d) error = %v, want ErrRange", r[0], r[1], err)
		}
	}
	if b.Text() != "abc" || b.IsModified() {
		t.Errorf("buffer changed after rejected replace: %q modified=%v", b.Text(), b.IsModified())
	}
}

func TestLoadSave(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "transcript.txt")
	if err := os.WriteFile(path, []byte("Hola mundo."), 0o644); err != nil {
		t.Fatal(err)
	}

	b := NewRuneBuffer()
	if err := b.Load(path); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if b.Len() != 11 || b.FilePath() != path {
		t.Fatalf("Load() gave len %d path %q", b.Len(), b.FilePath())
	}
	if _, err := b.Replace(5, 10, "a todos"); err != nil {
		t.Fatal(err)
	}
	if err := b.Save(""); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != "Hola a todos." {
		t.Errorf("saved %q, want %q", data, "Hola a todos.")
	}
	if b.IsModified() {
		t.Error("IsModified() = true after Save")
	}

	missing := NewRuneBuffer()
	if err := missing.Load(filepath.Join(dir, "nope.txt")); err != nil {
		t.Errorf("Load(missing) error = %v, want nil", err)
	}
	if err := NewRuneBuffer().Save(""); err == nil {
		t.Error("Save() without a path succeeded")
	}
}

func TestSlice(t *testing.T) {
	b := NewRuneBufferFromString("según él")
	got, err := b.Slice(0, 5)
	if err != nil || got != "según" {
		t.Errorf("Slice(0, 5) = %q, %v", got, err)
	}
	if _, err := b.Slice(3, 20); !errors.Is(err, ErrRange) {
		t.Errorf("Slice(3, 20) error = %v, want ErrRange", err)
	}
}
