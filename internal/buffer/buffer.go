// internal/buffer/buffer.go
package buffer

import "github.com/bethropolis/redline/internal/types"

// Buffer defines the interface for transcript text storage.
// Offsets are rune indexes; ranges are half-open.
type Buffer interface {
	Load(filePath string) error
	Save(filePath string) error
	Reset(text string)
	Text() string
	Len() int
	Slice(start, end int) (string, error)
	Replace(start, end int, text string) (types.EditInfo, error)
	FilePath() string
	IsModified() bool
}
