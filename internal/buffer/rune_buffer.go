// internal/buffer/rune_buffer.go
package buffer

import (
	"errors"
	"fmt"
	"os"

	"github.com/bethropolis/redline/internal/types"
)

// ErrRange is returned for offsets outside the buffer.
var ErrRange = errors.New("offset out of range")

// RuneBuffer stores the transcript as a rune slice so offsets map directly
// to characters.
type RuneBuffer struct {
	runes    []rune
	filePath string
	modified bool // Track if buffer has unsaved changes
}

// NewRuneBuffer creates an empty RuneBuffer.
func NewRuneBuffer() *RuneBuffer {
	return &RuneBuffer{}
}

// NewRuneBufferFromString creates a buffer holding text, not backed by a file.
func NewRuneBufferFromString(text string) *RuneBuffer {
	return &RuneBuffer{runes: []rune(text)}
}

// Load reads a file into the buffer. Replaces existing content.
// A missing file yields an empty buffer bound to that path.
func (b *RuneBuffer) Load(filePath string) error {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			b.runes = nil
			b.filePath = filePath
			b.modified = false
			return nil
		}
		return fmt.Errorf("failed to read file '%s': %w", filePath, err)
	}
	b.runes = []rune(string(data))
	b.filePath = filePath
	b.modified = false
	return nil
}

// Save writes the buffer content to filePath, or to the loaded path when empty.
func (b *RuneBuffer) Save(filePath string) error {
	path := b.filePath
	if filePath != "" { // Allow overriding path during save
		path = filePath
	}
	if path == "" {
		return errors.New("no file path specified for saving")
	}

	if err := os.WriteFile(path, []byte(string(b.runes)), 0o644); err != nil {
		return fmt.Errorf("failed to write file '%s': %w", path, err)
	}
	b.filePath = path
	b.modified = false
	return nil
}

// Reset replaces the whole content. The buffer counts as modified.
func (b *RuneBuffer) Reset(text string) {
	b.runes = []rune(text)
	b.modified = true
}

// Text returns the full content.
func (b *RuneBuffer) Text() string {
	return string(b.runes)
}

// Len returns the content length in runes.
func (b *RuneBuffer) Len() int {
	return len(b.runes)
}

func (b *RuneBuffer) checkRange(start, end int) error {
	if start < 0 || end < start || end > len(b.runes) {
		return fmt.Errorf("range [%d, %d) in buffer of length %d: %w", start, end, len(b.runes), ErrRange)
	}
	return nil
}

// Slice returns the text in [start, end).
func (b *RuneBuffer) Slice(start, end int) (string, error) {
	if err := b.checkRange(start, end); err != nil {
		return "", err
	}
	return string(b.runes[start:end]), nil
}

// Replace swaps the runes in [start, end) for text. Invalid ranges are
// rejected, never clamped.
func (b *RuneBuffer) Replace(start, end int, text string) (types.EditInfo, error) {
	if err := b.checkRange(start, end); err != nil {
		return types.EditInfo{}, fmt.Errorf("invalid replace range: %w", err)
	}
	insert := []rune(text)
	edit := types.EditInfo{Start: start, OldEnd: end, NewEnd: start + len(insert)}

	out := make([]rune, 0, len(b.runes)+edit.Delta())
	out = append(out, b.runes[:start]...)
	out = append(out, insert...)
	out = append(out, b.runes[end:]...)
	b.runes = out
	b.modified = true
	return edit, nil
}

// FilePath returns the path the buffer was loaded from or last saved to.
func (b *RuneBuffer) FilePath() string {
	return b.filePath
}

// IsModified returns true if the buffer has unsaved changes.
func (b *RuneBuffer) IsModified() bool {
	return b.modified
}

// Ensure RuneBuffer satisfies the Buffer interface
var _ Buffer = (*RuneBuffer)(nil)
