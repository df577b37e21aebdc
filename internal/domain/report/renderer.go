package report

import (
	"context"
	"fmt"
	"time"

	"github.com/surveyfax/surveyfax/pkg/docerr"
)

// Document is a rendered report.
type Document struct {
	Bytes []byte
	Pages int
}

// Renderer draws reports. It is immutable after construction and safe for
// concurrent use; every render gets its own canvas.
type Renderer struct {
	layout    Layout
	cover     CoverSource
	newCanvas CanvasFactory
	now       func() time.Time
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithLayout overrides the default layout.
func WithLayout(l Layout) Option {
	return func(r *Renderer) { r.layout = l }
}

// WithCoverSource sets where the cover template is loaded from.
func WithCoverSource(src CoverSource) Option {
	return func(r *Renderer) { r.cover = src }
}

// WithCanvasFactory replaces the PDF canvas, mainly for tests.
func WithCanvasFactory(f CanvasFactory) Option {
	return func(r *Renderer) { r.newCanvas = f }
}

// WithClock sets the clock used for the cover page date.
func WithClock(now func() time.Time) Option {
	return func(r *Renderer) { r.now = now }
}

// NewRenderer returns a Renderer drawing PDFs with the default layout and
// the embedded cover template.
func NewRenderer(opts ...Option) *Renderer {
	r := &Renderer{
		layout:    DefaultLayout(),
		cover:     EmbeddedCover{},
		newCanvas: NewPDFCanvas,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Layout returns the renderer's layout.
func (r *Renderer) Layout() Layout {
	return r.layout
}

// Render draws req and returns the finished document. Any failure is
// reported as a render error and no partial document is returned.
func (r *Renderer) Render(ctx context.Context, req *Request) (doc *Document, err error) {
	if req == nil || req.Organization == nil {
		return nil, docerr.SchemaViolation("org", "an organization object is expected.")
	}

	var tpl *CoverTemplate
	if req.HasCover() {
		if tpl, err = r.cover.Load(ctx); err != nil {
			return nil, docerr.Render(fmt.Errorf("loading cover template: %w", err))
		}
	}

	defer func() {
		if rec := recover(); rec != nil {
			doc, err = nil, docerr.Render(fmt.Errorf("%v", rec))
		}
	}()

	canvas := r.newCanvas(r.layout.PageSize)
	if tpl != nil {
		canvas.AddPage()
		drawCover(canvas, tpl, r.layout.LeftX, coverValues{
			recipient: deref(req.Contact.Name),
			fax:       deref(req.Contact.Fax),
			date:      r.now().Format("2006-01-02"),
			body:      HTMLToText(*req.CoverText),
		})
	}

	p := newPage(canvas, r.layout)
	p.header(req)
	p.contactInformation(req.Organization)
	p.otherInformation(req.Organization.OtherInformation)
	p.rule()
	p.personnel(req.Organization.Personnel)

	if err := ctx.Err(); err != nil {
		return nil, docerr.Render(err)
	}

	data, err := canvas.Bytes()
	if err != nil {
		return nil, docerr.Render(err)
	}
	return &Document{Bytes: data, Pages: canvas.PageCount()}, nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
