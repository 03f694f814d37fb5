// internal/statusbar/statusbar.go
package statusbar

import (
	"fmt"
	"sync"
	"time"

	"github.com/bethropolis/redline/internal/theme"
	"github.com/gdamore/tcell/v2"
	"github.com/rivo/uniseg" // For proper Unicode width calculation
)

// Config defines the appearance and behavior of the status bar.
type Config struct {
	StyleDefault   tcell.Style
	StyleModified  tcell.Style // Style for the modified indicator
	StyleMessage   tcell.Style // Style for temporary messages
	StyleBusy      tcell.Style // Style for the pending-request indicator
	MessageTimeout time.Duration
}

// DefaultConfig takes its styles from the current theme.
func DefaultConfig() Config {
	th := theme.GetCurrentTheme()
	return Config{
		StyleDefault:   th.GetStyle(theme.StyleStatusBar),
		StyleModified:  th.GetStyle(theme.StyleStatusBarModified),
		StyleMessage:   th.GetStyle(theme.StyleStatusBarMessage),
		StyleBusy:      th.GetStyle(theme.StyleStatusBarBusy),
		MessageTimeout: 4 * time.Second,
	}
}

// Info is the session state shown on the right of the bar.
type Info struct {
	Revision    uint64
	Significant int // Significant suggestions
	Applied     int
	Pending     int
	TotalCost   float64
	Focus       int // 1-based index of the focused suggestion, 0 if none
}

// StatusBar represents the UI component for the status line.
type StatusBar struct {
	config Config
	mu     sync.RWMutex

	filePath   string
	isModified bool
	info       Info
	busy       string // Label of the request in flight, empty when idle

	// Temporary message state
	tempMessage     string
	tempMessageTime time.Time
}

// New creates a new StatusBar with the given configuration.
func New(config Config) *StatusBar {
	return &StatusBar{
		config: config,
	}
}

// SetFileInfo updates the file path shown in the status bar.
func (sb *StatusBar) SetFileInfo(path string, modified bool) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.filePath = path
	sb.isModified = modified
}

// SetInfo updates the session counters.
func (sb *StatusBar) SetInfo(info Info) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.info = info
}

// SetBusy shows label while a request runs. An empty label clears it.
func (sb *StatusBar) SetBusy(label string) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.busy = label
}

// SetTemporaryMessage displays a message for a configured duration.
func (sb *StatusBar) SetTemporaryMessage(format string, args ...interface{}) {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = fmt.Sprintf(format, args...)
	sb.tempMessageTime = time.Now()
}

// ResetTemporaryMessage clears any temporary message being displayed
func (sb *StatusBar) ResetTemporaryMessage() {
	sb.mu.Lock()
	defer sb.mu.Unlock()
	sb.tempMessage = ""
	sb.tempMessageTime = time.Time{}
}

// leftText is the file part of the default status line. Caller holds the lock.
func (sb *StatusBar) leftText() string {
	fPath := sb.filePath
	if fPath == "" {
		fPath = "[No Name]"
	}
	if sb.isModified {
		return fPath + " [Modified]"
	}
	return fPath
}

// rightText is the counters part of the default status line. Caller holds the lock.
func (sb *StatusBar) rightText() string {
	in := sb.info
	focus := "-"
	if in.Focus > 0 {
		focus = fmt.Sprint(in.Focus)
	}
	return fmt.Sprintf("%s/%d | %d applied, %d pending | $%.4f | rev %d ",
		focus, in.Significant, in.Applied, in.Pending, in.TotalCost, in.Revision)
}

// Draw renders the status bar onto the screen using visual widths.
func (sb *StatusBar) Draw(screen tcell.Screen, width, height int) {
	if height <= 0 || width <= 0 {
		return
	}
	y := height - 1 // Status bar is always the last line

	sb.mu.Lock() // Lock for potential modification of tempMessageTime
	isTempMsgActive := !sb.tempMessageTime.IsZero() && time.Since(sb.tempMessageTime) <= sb.config.MessageTimeout
	if !sb.tempMessageTime.IsZero() && !isTempMsgActive {
		sb.tempMessage = ""
		sb.tempMessageTime = time.Time{}
	}

	left, leftStyle := sb.leftText(), sb.config.StyleDefault
	if sb.isModified {
		leftStyle = sb.config.StyleModified
	}
	if isTempMsgActive {
		left, leftStyle = sb.tempMessage, sb.config.StyleMessage
	}
	busy := sb.busy
	right := sb.rightText()
	sb.mu.Unlock()

	for x := 0; x < width; x++ {
		screen.SetContent(x, y, ' ', nil, sb.config.StyleDefault)
	}

	rightWidth := uniseg.StringWidth(right)
	rightX := width - rightWidth
	if rightX < 0 {
		rightX = 0
	}
	x := drawText(screen, 0, y, rightX, left, leftStyle)
	if busy != "" {
		drawText(screen, x+1, y, rightX, "["+busy+"]", sb.config.StyleBusy)
	}
	drawText(screen, rightX, y, width, right, sb.config.StyleDefault)
}

// drawText draws text from x up to limit and returns the column after the
// last cluster drawn.
func drawText(screen tcell.Screen, x, y, limit int, text string, style tcell.Style) int {
	gr := uniseg.NewGraphemes(text)
	for gr.Next() {
		clusterWidth := gr.Width()
		if x+clusterWidth > limit {
			break // Stop if cluster doesn't fit
		}
		runes := gr.Runes()
		if len(runes) > 0 {
			screen.SetContent(x, y, runes[0], runes[1:], style)
		}
		x += clusterWidth
	}
	return x
}
