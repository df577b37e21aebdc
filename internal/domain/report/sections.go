package report

import (
	"fmt"

	"github.com/surveyfax/surveyfax/internal/domain/organization"
)

// page draws the report body section by section, keeping the shared cursor.
type page struct {
	canvas Canvas
	layout Layout
	cursor *Cursor
	width  float64
	height float64
}

func newPage(canvas Canvas, layout Layout) *page {
	canvas.AddPage()
	w, h := canvas.PageSize()
	return &page{canvas: canvas, layout: layout, cursor: NewCursor(h), width: w, height: h}
}

func (p *page) newPage() {
	p.canvas.AddPage()
	p.cursor.Reset(p.height)
}

// down moves the cursor by d. Pages only turn at section breaks and at the
// personnel threshold, so a long list may run past the bottom edge.
func (p *page) down(d float64) float64 {
	return p.cursor.Advance(d)
}

func (p *page) line(x, d float64, s string, style Style) {
	y := p.down(d)
	p.canvas.Text(x, y, s, style)
}

func (p *page) rule() {
	y := p.down(p.layout.PropertyBreak)
	p.canvas.Line(p.layout.LeftX, y, p.width-p.layout.LeftX, y, p.layout.RuleThickness)
}

func (p *page) header(req *Request) {
	l := p.layout
	org := req.Organization

	p.line(l.LeftX, l.StandardBreak, "Organization Name:", l.bold())
	p.canvas.Text(l.OrgNameValueX, p.cursor.Y(), org.Name, l.regular())

	p.line(l.LeftX, l.StandardBreak, "Directory Contact:", l.bold())
	p.canvas.Text(l.RightX, p.cursor.Y(), "Note to Directory Editors:", l.bold())
	notesY := p.cursor.Y() - l.PropertyBreak

	contact := req.Contact
	for _, f := range []struct {
		value       *string
		placeholder string
	}{
		{contact.Name, "Contact name:"},
		{contact.Email, "Contact email:"},
		{contact.Fax, "Contact fax:"},
	} {
		text := f.placeholder
		if f.value != nil {
			text = *f.value
		}
		p.line(l.LeftX, l.PropertyBreak, text, l.regular())
	}

	if contact.Notes != nil {
		p.canvas.WrappedText(l.RightX, notesY, *contact.Notes, l.notes(), l.NotesMaxWidth, l.NotesLineHeight)
	}

	p.rule()
}

func (p *page) contactInformation(org *organization.Organization) {
	l := p.layout
	p.line(l.LeftX, l.SectionBreak, "Organization Contact Information", l.section())
	p.line(l.LeftX, l.SubsectionBreak, "Addresses:", l.bold())

	if len(org.Addresses) == 0 {
		for _, placeholder := range []string{"Address:", "City:", "State/Province:", "Postal Code:", "Country:"} {
			p.line(l.LeftX, l.PropertyBreak, placeholder, l.regular())
		}
	}
	for _, a := range org.Addresses {
		p.address(a)
	}

	p.labeledList("Phone Numbers", "Phone", "Phone number:", org.Phones)
	p.labeledList("Fax Numbers", "Fax", "Fax number:", org.Faxes)
	p.labeledList("Websites", "Site", "", org.Websites)
	p.labeledList("Emails", "Email", "", org.Emails)
}

func (p *page) address(a organization.Address) {
	l := p.layout
	p.line(l.LeftX, l.PropertyBreak, a.FirstStreet(), l.regular())
	p.line(l.LeftX, l.PropertyBreak, a.Locality(), l.regular())
	if a.Country != "" {
		p.line(l.LeftX, l.PropertyBreak, a.Country, l.regular())
	}
}

// labeledList draws a titled list of "label: value" lines. An empty list
// draws only the placeholder, or nothing when there is none.
func (p *page) labeledList(title, fallback, placeholder string, values organization.LabeledValues) {
	l := p.layout
	if len(values) == 0 {
		if placeholder != "" {
			p.line(l.LeftX, l.PropertyBreak, placeholder, l.regular())
		}
		return
	}
	p.line(l.LeftX, l.SubsectionBreak, title, l.bold())
	for _, v := range values {
		p.line(l.LeftX, l.PropertyBreak, fmt.Sprintf("%s: %s", v.Label(fallback), v.Value), l.regular())
	}
}

var markupFields = map[string]bool{
	"organization_description": true,
	"organization_background":  true,
}

func (p *page) otherInformation(info organization.Fields) {
	if len(info) == 0 {
		return
	}
	l := p.layout
	p.line(l.LeftX, l.SubsectionBreak, "Other information", l.bold())
	for _, f := range info {
		p.line(l.LeftX, l.PropertyBreak, Capitalize(f.Key)+":", l.regular())
		value := f.Value
		if markupFields[f.Key] {
			value = StripTags(value)
		}
		p.canvas.Text(l.OtherInfoValueX, p.cursor.Y(), value, l.regular())
	}
}

// personnel draws the directory in side-by-side pairs. The first pair
// follows the header; every later pair starts on a page of its own.
func (p *page) personnel(people []organization.Person) {
	if len(people) == 0 {
		return
	}
	l := p.layout
	p.line(l.LeftX, l.SectionBreak, "Organization Personnel", l.section())
	if p.cursor.Y() <= l.PersonnelMinY {
		p.newPage()
	}

	for i, pair := range chunk(people, l.PersonnelChunk) {
		if i > 0 {
			p.newPage()
		}
		top := p.cursor.Y()
		lowest := top
		for col, person := range pair {
			x := l.LeftX
			if col > 0 {
				x = l.RightX
			}
			c := NewCursor(top)
			p.person(x, c, person)
			lowest = min(lowest, c.Y())
		}
		p.cursor.Reset(lowest)
	}
}

func (p *page) person(x float64, c *Cursor, person organization.Person) {
	l := p.layout
	text := func(d float64, s string) {
		p.canvas.Text(x, c.Advance(d), s, l.regular())
	}

	text(l.StandardBreak, person.DisplayName())
	text(l.PropertyBreak, person.Title())
	for _, v := range person.Phones {
		text(l.PropertyBreak, "Phone: "+v.Value)
	}
	for _, v := range person.Faxes {
		text(l.PropertyBreak, "Fax: "+v.Value)
	}
	for _, v := range person.Emails {
		text(l.PropertyBreak, "Email: "+v.Value)
	}
	if a := person.Address(); a != nil {
		text(l.PropertyBreak, a.FirstStreet())
		text(l.PropertyBreak, a.Locality())
		if a.Country != "" {
			text(l.PropertyBreak, a.Country)
		}
	}
}

func chunk[T any](items []T, size int) [][]T {
	if size <= 0 {
		size = 1
	}
	var out [][]T
	for i := 0; i < len(items); i += size {
		out = append(out, items[i:min(i+size, len(items))])
	}
	return out
}
