package report

import (
	"bytes"
	"fmt"

	"github.com/jung-kurt/gofpdf"
)

const fontFamily = "Times"

// PDFCanvas draws onto a gofpdf document using the core Times fonts.
type PDFCanvas struct {
	pdf       *gofpdf.Fpdf
	translate func(string) string
}

// NewPDFCanvas returns an empty portrait document of the given page size.
func NewPDFCanvas(pageSize string) Canvas {
	pdf := gofpdf.New("P", "pt", pageSize, "")
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetMargins(0, 0, 0)
	pdf.SetCellMargin(0)
	pdf.SetCreator("surveyfax", true)
	return &PDFCanvas{
		pdf:       pdf,
		translate: pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

func (c *PDFCanvas) AddPage() {
	c.pdf.AddPage()
}

func (c *PDFCanvas) PageSize() (float64, float64) {
	return c.pdf.GetPageSize()
}

func (c *PDFCanvas) PageCount() int {
	return c.pdf.PageCount()
}

func (c *PDFCanvas) setStyle(style Style) {
	weight := ""
	if style.Bold {
		weight = "B"
	}
	c.pdf.SetFont(fontFamily, weight, style.Size)
}

// flip converts a bottom-origin y into gofpdf's top-origin space.
func (c *PDFCanvas) flip(y float64) float64 {
	_, h := c.pdf.GetPageSize()
	return h - y
}

func (c *PDFCanvas) Text(x, y float64, s string, style Style) {
	if s == "" {
		return
	}
	c.setStyle(style)
	c.pdf.Text(x, c.flip(y), c.translate(s))
}

func (c *PDFCanvas) WrappedText(x, y float64, s string, style Style, maxWidth, lineHeight float64) int {
	if s == "" {
		return 0
	}
	c.setStyle(style)
	lines := c.pdf.SplitLines([]byte(c.translate(s)), maxWidth)
	for i, line := range lines {
		c.pdf.Text(x, c.flip(y-float64(i)*lineHeight), string(line))
	}
	return len(lines)
}

func (c *PDFCanvas) Line(x1, y1, x2, y2, thickness float64) {
	c.pdf.SetLineWidth(thickness)
	c.pdf.Line(x1, c.flip(y1), x2, c.flip(y2))
}

func (c *PDFCanvas) Bytes() ([]byte, error) {
	if err := c.pdf.Error(); err != nil {
		return nil, fmt.Errorf("drawing document: %w", err)
	}
	var buf bytes.Buffer
	if err := c.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("serializing document: %w", err)
	}
	return buf.Bytes(), nil
}
