package report

import (
	"errors"
	"strings"
)

type drawnText struct {
	page  int
	x, y  float64
	text  string
	style Style
}

// recordingCanvas keeps every drawing call for assertions.
type recordingCanvas struct {
	width, height float64
	pages         int
	texts         []drawnText
	lines         int
	bytesErr      error
	panicOn       string
}

func newRecordingCanvas(string) Canvas {
	return &recordingCanvas{width: 595.28, height: 841.89}
}

func (c *recordingCanvas) AddPage()                     { c.pages++ }
func (c *recordingCanvas) PageSize() (float64, float64) { return c.width, c.height }
func (c *recordingCanvas) PageCount() int               { return c.pages }

func (c *recordingCanvas) Text(x, y float64, s string, style Style) {
	if c.panicOn != "" && s == c.panicOn {
		panic("font not found")
	}
	c.texts = append(c.texts, drawnText{page: c.pages, x: x, y: y, text: s, style: style})
}

func (c *recordingCanvas) WrappedText(x, y float64, s string, style Style, _, lineHeight float64) int {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		c.Text(x, y-float64(i)*lineHeight, l, style)
	}
	return len(lines)
}

func (c *recordingCanvas) Line(_, _, _, _, _ float64) { c.lines++ }

func (c *recordingCanvas) Bytes() ([]byte, error) {
	if c.bytesErr != nil {
		return nil, c.bytesErr
	}
	return []byte("%PDF-recorded"), nil
}

// find returns every drawn run equal to s.
func (c *recordingCanvas) find(s string) []drawnText {
	var out []drawnText
	for _, t := range c.texts {
		if t.text == s {
			out = append(out, t)
		}
	}
	return out
}

func (c *recordingCanvas) onPage(page int) []drawnText {
	var out []drawnText
	for _, t := range c.texts {
		if t.page == page {
			out = append(out, t)
		}
	}
	return out
}

// capture wires a renderer to a recording canvas and exposes it.
func capture(opts ...Option) (*Renderer, **recordingCanvas) {
	var last *recordingCanvas
	factory := func(size string) Canvas {
		last = newRecordingCanvas(size).(*recordingCanvas)
		return last
	}
	return NewRenderer(append([]Option{WithCanvasFactory(factory)}, opts...)...), &last
}

var errSerialize = errors.New("serializing document: broken writer")
