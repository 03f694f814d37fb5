package export

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bethropolis/redline/internal/types"
	"github.com/google/go-cmp/cmp"
)

func TestParagraphs(t *testing.T) {
	in := []types.Fragment{
		{Text: "Hola "},
		{Text: "mundo.", Improved: true},
		{Text: "\n\nSegunda "},
		{Text: "línea\r\ntercera", Improved: true},
		{Text: "\n   \n"},
	}
	want := [][]types.Fragment{
		{{Text: "Hola "}, {Text: "mundo.", Improved: true}},
		{{Text: "Segunda "}, {Text: "línea", Improved: true}},
		{{Text: "tercera", Improved: true}},
	}
	if diff := cmp.Diff(want, paragraphs(in)); diff != "" {
		t.Errorf("paragraphs() mismatch (-want +got):\n%s", diff)
	}
}

func TestPath(t *testing.T) {
	tests := []struct {
		dir, transcript, want string
	}{
		{"", filepath.Join("a", "b", "clase.txt"), filepath.Join("a", "b", "clase.docx")},
		{filepath.Join("out"), filepath.Join("a", "clase.v2.txt"), filepath.Join("out", "clase.v2.docx")},
		{"", "notas", "notas.docx"},
	}
	for _, tt := range tests {
		if got := Path(tt.dir, tt.transcript); got != tt.want {
			t.Errorf("Path(%q, %q) = %q, want %q", tt.dir, tt.transcript, got, tt.want)
		}
	}
}

func TestWriteDocx(t *testing.T) {
	path := filepath.Join(t.TempDir(), "clase.docx")
	err := WriteDocx(path, "Clase 1", []types.Fragment{
		{Text: "El perro "}, {Text: "corre rápido.", Improved: true},
	})
	if err != nil {
		t.Fatalf("WriteDocx() error = %v", err)
	}

	r, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("output is not a docx archive: %v", err)
	}
	defer r.Close()
	var body string
	for _, f := range r.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		data, _ := io.ReadAll(rc)
		rc.Close()
		body = string(data)
	}
	for _, want := range []string{"Clase 1", "El perro", "corre rápido."} {
		if !strings.Contains(body, want) {
			t.Errorf("document.xml missing %q", want)
		}
	}
}
