package report

// Style selects the font weight and size for a text run.
type Style struct {
	Bold bool
	Size float64
}

// Canvas is the page-drawing capability used by the renderer. Coordinates
// are in points with the origin at the bottom-left corner of the current
// page. Drawing always targets the most recently added page.
type Canvas interface {
	AddPage()
	PageSize() (width, height float64)
	PageCount() int
	Text(x, y float64, s string, style Style)
	// WrappedText draws s wrapped at maxWidth, one line every lineHeight
	// points below y. It returns the number of lines drawn.
	WrappedText(x, y float64, s string, style Style, maxWidth, lineHeight float64) int
	Line(x1, y1, x2, y2, thickness float64)
	// Bytes finalizes the document. The canvas must not be drawn on after.
	Bytes() ([]byte, error)
}

// CanvasFactory builds an empty canvas for the given page size.
type CanvasFactory func(pageSize string) Canvas
