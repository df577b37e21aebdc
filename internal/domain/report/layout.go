package report

import (
	"fmt"
	"strings"
)

// Page sizes accepted by the canvas.
const (
	PageSizeA4     = "A4"
	PageSizeLetter = "Letter"
)

// Layout holds every measurement used while drawing a report. All values are
// in PDF points.
type Layout struct {
	PageSize string

	SectionFontSize float64
	RegularFontSize float64
	NotesFontSize   float64

	LeftX           float64
	RightX          float64
	OrgNameValueX   float64
	OtherInfoValueX float64

	StandardBreak   float64
	SectionBreak    float64
	SubsectionBreak float64
	PropertyBreak   float64

	NotesMaxWidth   float64
	NotesLineHeight float64

	// PersonnelMinY is the lowest cursor position at which the personnel
	// block may still start on the current page.
	PersonnelMinY  float64
	PersonnelChunk int

	RuleThickness float64
}

// DefaultLayout returns the standard report layout on A4 paper.
func DefaultLayout() Layout {
	return Layout{
		PageSize:        PageSizeA4,
		SectionFontSize: 15,
		RegularFontSize: 12,
		NotesFontSize:   11,
		LeftX:           50,
		RightX:          300,
		OrgNameValueX:   170,
		OtherInfoValueX: 190,
		StandardBreak:   40,
		SectionBreak:    30,
		SubsectionBreak: 25,
		PropertyBreak:   20,
		NotesMaxWidth:   267,
		NotesLineHeight: 15,
		PersonnelMinY:   120,
		PersonnelChunk:  2,
		RuleThickness:   1,
	}
}

// ParsePageSize normalizes a configured page size name.
func ParsePageSize(s string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "a4":
		return PageSizeA4, nil
	case "letter":
		return PageSizeLetter, nil
	default:
		return "", fmt.Errorf("unsupported page size %q", s)
	}
}

func (l Layout) regular() Style { return Style{Size: l.RegularFontSize} }
func (l Layout) bold() Style    { return Style{Size: l.RegularFontSize, Bold: true} }
func (l Layout) section() Style { return Style{Size: l.SectionFontSize, Bold: true} }
func (l Layout) notes() Style   { return Style{Size: l.NotesFontSize} }
