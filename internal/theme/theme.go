// internal/theme/theme.go
package theme

import (
	"strings"

	"github.com/bethropolis/redline/internal/logger"
	"github.com/gdamore/tcell/v2"
)

// Style names used by the review screen.
const (
	StyleDefault            = "Default"
	StyleImproved           = "Improved"   // Text of applied suggestions
	StyleSuggestion         = "Suggestion" // Span of the focused pending suggestion
	StyleSuggestionApplied  = "Suggestion.applied"
	StyleSuggestionRejected = "Suggestion.rejected"
	StyleSentence           = "Sentence" // Sentence cursor
	StyleDetail             = "Detail"
	StyleDetailLabel        = "Detail.label"
	StyleDetailOriginal     = "Detail.original"
	StyleDetailImproved     = "Detail.improved"
	StyleStatusBar          = "StatusBar"
	StyleStatusBarModified  = "StatusBarModified"
	StyleStatusBarMessage   = "StatusBarMessage"
	StyleStatusBarBusy      = "StatusBarBusy"
)

type Theme struct {
	Name   string
	IsDark bool
	Styles map[string]tcell.Style
}

// GetStyle returns the named style, falling back to the part before the
// first dot and then to Default.
func (t *Theme) GetStyle(name string) tcell.Style {
	if style, ok := t.Styles[name]; ok {
		return style
	}

	if dotIndex := strings.Index(name, "."); dotIndex != -1 {
		baseName := name[:dotIndex]
		if style, ok := t.Styles[baseName]; ok {
			logger.Debugf("Theme '%s': Style '%s' not found, using base '%s'", t.Name, name, baseName)
			return style
		}
	}

	if defStyle, ok := t.Styles[StyleDefault]; ok {
		if name != StyleDefault {
			logger.Debugf("Theme '%s': Style '%s' not found, falling back to 'Default'", t.Name, name)
		}
		return defStyle
	}

	logger.Warnf("Theme '%s': Style '%s' and 'Default' style not found, using tcell default.", t.Name, name)
	return tcell.StyleDefault
}

// --- Redline Dark ---

var RedlineDark Theme

func init() {
	rdBackground := tcell.NewHexColor(0x2a2f38) // Status bar and detail pane
	rdForeground := tcell.NewHexColor(0xc5cdd9)
	rdMuted := tcell.NewHexColor(0x5c6370)
	rdYellow := tcell.NewHexColor(0xe5c07b)
	rdGreen := tcell.NewHexColor(0x98c379)
	rdRed := tcell.NewHexColor(0xe06c75)
	rdBlue := tcell.NewHexColor(0x61afef)

	baseStyle := tcell.StyleDefault.Background(tcell.ColorReset).Foreground(rdForeground)
	paneStyle := tcell.StyleDefault.Background(rdBackground).Foreground(rdForeground)

	RedlineDark = Theme{
		Name:   "Redline Dark",
		IsDark: true,
		Styles: map[string]tcell.Style{
			StyleDefault:            baseStyle,
			StyleImproved:           baseStyle.Foreground(rdGreen).Underline(true),
			StyleSuggestion:         baseStyle.Background(rdYellow).Foreground(tcell.ColorBlack),
			StyleSuggestionApplied:  baseStyle.Background(rdGreen).Foreground(tcell.ColorBlack),
			StyleSuggestionRejected: baseStyle.Foreground(rdMuted).StrikeThrough(true),
			StyleSentence:           baseStyle.Reverse(true),
			StyleDetail:             paneStyle,
			StyleDetailLabel:        paneStyle.Foreground(rdMuted),
			StyleDetailOriginal:     paneStyle.Foreground(rdRed).StrikeThrough(true),
			StyleDetailImproved:     paneStyle.Foreground(rdGreen),
			StyleStatusBar:          paneStyle,
			StyleStatusBarModified:  paneStyle.Foreground(rdYellow),
			StyleStatusBarMessage:   paneStyle.Bold(true),
			StyleStatusBarBusy:      paneStyle.Foreground(rdBlue).Bold(true),
		},
	}

	CurrentTheme = &RedlineDark
}

var CurrentTheme *Theme

func GetCurrentTheme() *Theme {
	if CurrentTheme == nil {
		CurrentTheme = &RedlineDark
	}
	return CurrentTheme
}

func SetCurrentTheme(theme *Theme) {
	if theme != nil {
		CurrentTheme = theme
		logger.Infof("Theme switched to: %s", theme.Name)
	}
}
