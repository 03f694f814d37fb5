// Package export writes the reviewed transcript to a Word document.
package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bethropolis/redline/internal/types"
	"github.com/gomutex/godocx"
	"github.com/gomutex/godocx/docx"
)

const (
	fontName  = "Times New Roman"
	fontSize  = 12
	titleSize = 16
)

// WriteDocx writes a title paragraph followed by one paragraph per
// non-blank transcript line. Improved fragments are set in bold.
func WriteDocx(path, title string, fragments []types.Fragment) error {
	doc, err := godocx.NewDocument()
	if err != nil {
		return fmt.Errorf("create document: %w", err)
	}

	if title != "" {
		addRun(doc.AddParagraph(""), title, true, titleSize)
	}
	for _, para := range paragraphs(fragments) {
		p := doc.AddParagraph("")
		for _, f := range para {
			addRun(p, f.Text, f.Improved, fontSize)
		}
	}

	if err := doc.SaveTo(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func addRun(p *docx.Paragraph, text string, bold bool, size uint64) {
	run := p.AddText(text).Font(fontName).Size(size).Color("000000")
	if bold {
		run.Bold(true)
	}
}

// paragraphs splits fragments at line breaks, dropping blank lines and
// empty pieces.
func paragraphs(fragments []types.Fragment) [][]types.Fragment {
	var out [][]types.Fragment
	var current []types.Fragment
	flush := func() {
		blank := true
		for _, f := range current {
			if strings.TrimSpace(f.Text) != "" {
				blank = false
				break
			}
		}
		if !blank {
			out = append(out, current)
		}
		current = nil
	}
	for _, f := range fragments {
		for i, line := range strings.Split(f.Text, "\n") {
			if i > 0 {
				flush()
			}
			if line = strings.TrimRight(line, "\r"); line != "" {
				current = append(current, types.Fragment{Text: line, Improved: f.Improved})
			}
		}
	}
	flush()
	return out
}

// Path returns where the export of transcriptPath goes: dir when set,
// otherwise next to the transcript, with a .docx extension.
func Path(dir, transcriptPath string) string {
	base := strings.TrimSuffix(filepath.Base(transcriptPath), filepath.Ext(transcriptPath)) + ".docx"
	if dir == "" {
		dir = filepath.Dir(transcriptPath)
	}
	return filepath.Join(dir, base)
}
