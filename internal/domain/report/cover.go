package report

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed cover_template.yaml
var defaultCoverTemplate []byte

// CoverText is a fixed line of the cover sheet.
type CoverText struct {
	Text string  `yaml:"text"`
	X    float64 `yaml:"x"`
	Top  float64 `yaml:"top"`
	Size float64 `yaml:"size"`
	Bold bool    `yaml:"bold"`
}

// CoverField is a labeled slot filled from the request. Value names the
// source: recipient, fax or date.
type CoverField struct {
	Label string  `yaml:"label"`
	Value string  `yaml:"value"`
	Top   float64 `yaml:"top"`
}

// CoverRule is a horizontal rule spanning the page margins.
type CoverRule struct {
	Top float64 `yaml:"top"`
}

// CoverBody is the box the cover text is wrapped into.
type CoverBody struct {
	X          float64 `yaml:"x"`
	Top        float64 `yaml:"top"`
	Width      float64 `yaml:"width"`
	LineHeight float64 `yaml:"line_height"`
	Size       float64 `yaml:"size"`
}

// CoverTemplate is the layout of the fax cover sheet.
type CoverTemplate struct {
	Title     CoverText    `yaml:"title"`
	Subtitle  CoverText    `yaml:"subtitle"`
	Fields    []CoverField `yaml:"fields"`
	LabelX    float64      `yaml:"label_x"`
	ValueX    float64      `yaml:"value_x"`
	FieldSize float64      `yaml:"field_size"`
	Rules     []CoverRule  `yaml:"rules"`
	Body      CoverBody    `yaml:"body"`
}

// ParseCoverTemplate decodes and validates a YAML cover template.
func ParseCoverTemplate(data []byte) (*CoverTemplate, error) {
	var tpl CoverTemplate
	if err := yaml.Unmarshal(data, &tpl); err != nil {
		return nil, fmt.Errorf("parsing cover template: %w", err)
	}
	if tpl.Body.Width <= 0 || tpl.Body.LineHeight <= 0 {
		return nil, fmt.Errorf("cover template: body width and line_height must be positive")
	}
	if tpl.FieldSize <= 0 {
		tpl.FieldSize = 12
	}
	if tpl.Body.Size <= 0 {
		tpl.Body.Size = 12
	}
	for _, f := range tpl.Fields {
		switch f.Value {
		case coverRecipient, coverFax, coverDate:
		default:
			return nil, fmt.Errorf("cover template: unknown field value %q", f.Value)
		}
	}
	return &tpl, nil
}

const (
	coverRecipient = "recipient"
	coverFax       = "fax"
	coverDate      = "date"
)

// CoverSource loads the cover template asset.
type CoverSource interface {
	Load(ctx context.Context) (*CoverTemplate, error)
}

// EmbeddedCover serves the template compiled into the binary.
type EmbeddedCover struct{}

func (EmbeddedCover) Load(ctx context.Context) (*CoverTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return ParseCoverTemplate(defaultCoverTemplate)
}

// FileCover reads the template from disk on every load, so edits are picked
// up without a restart.
type FileCover struct {
	Path string
}

func (f FileCover) Load(ctx context.Context) (*CoverTemplate, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("reading cover template: %w", err)
	}
	return ParseCoverTemplate(data)
}

// NewCoverSource returns a FileCover for a non-empty path and the embedded
// template otherwise.
func NewCoverSource(path string) CoverSource {
	if path == "" {
		return EmbeddedCover{}
	}
	return FileCover{Path: path}
}

// coverValues are the request values overlaid on the template.
type coverValues struct {
	recipient string
	fax       string
	date      string
	body      string
}

func (v coverValues) lookup(name string) string {
	switch name {
	case coverRecipient:
		return v.recipient
	case coverFax:
		return v.fax
	case coverDate:
		return v.date
	}
	return ""
}

// drawCover draws the cover sheet onto the current page of canvas.
func drawCover(canvas Canvas, tpl *CoverTemplate, margin float64, v coverValues) {
	width, height := canvas.PageSize()

	for _, t := range []CoverText{tpl.Title, tpl.Subtitle} {
		if t.Text != "" {
			canvas.Text(t.X, height-t.Top, t.Text, Style{Bold: t.Bold, Size: t.Size})
		}
	}
	for _, r := range tpl.Rules {
		canvas.Line(margin, height-r.Top, width-margin, height-r.Top, 1)
	}
	for _, f := range tpl.Fields {
		y := height - f.Top
		canvas.Text(tpl.LabelX, y, f.Label, Style{Bold: true, Size: tpl.FieldSize})
		canvas.Text(tpl.ValueX, y, v.lookup(f.Value), Style{Size: tpl.FieldSize})
	}
	canvas.WrappedText(tpl.Body.X, height-tpl.Body.Top, v.body, Style{Size: tpl.Body.Size}, tpl.Body.Width, tpl.Body.LineHeight)
}
