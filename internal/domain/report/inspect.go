package report

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ledongthuc/pdf"
)

// Inspection is the page count and extracted text of a PDF.
type Inspection struct {
	Pages int      `json:"pages"`
	Text  []string `json:"text"`
}

// Contains reports whether any page's text contains s.
func (in *Inspection) Contains(s string) bool {
	for _, t := range in.Text {
		if strings.Contains(t, s) {
			return true
		}
	}
	return false
}

// Inspect reads the PDF at path.
func Inspect(path string) (*Inspection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return inspect(f, st.Size())
}

// InspectBytes reads a PDF held in memory.
func InspectBytes(data []byte) (*Inspection, error) {
	return inspect(bytes.NewReader(data), int64(len(data)))
}

func inspect(r io.ReaderAt, size int64) (*Inspection, error) {
	doc, err := pdf.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("reading pdf: %w", err)
	}

	in := &Inspection{Pages: doc.NumPage()}
	for i := 1; i <= in.Pages; i++ {
		p := doc.Page(i)
		if p.V.IsNull() {
			in.Text = append(in.Text, "")
			continue
		}
		text, err := p.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("page %d: %w", i, err)
		}
		in.Text = append(in.Text, text)
	}
	return in, nil
}
