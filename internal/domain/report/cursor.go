package report

// Cursor tracks the vertical drawing position on a page. Positions are
// measured from the bottom edge, so moving down the page decreases Y.
type Cursor struct {
	y float64
}

// NewCursor returns a cursor positioned at top.
func NewCursor(top float64) *Cursor {
	return &Cursor{y: top}
}

// Y returns the current position.
func (c *Cursor) Y() float64 {
	return c.y
}

// Advance moves the cursor d points down the page and returns the new
// position.
func (c *Cursor) Advance(d float64) float64 {
	c.y -= d
	return c.y
}

// Reset moves the cursor back to top, for a fresh page.
func (c *Cursor) Reset(top float64) {
	c.y = top
}
