package organization

import "github.com/tidwall/gjson"

// Value is the classified shape of a raw survey field. Exactly one of
// Scalar, RichText, MultiValue, BareList, Literal or Opaque.
type Value interface {
	shape() string
}

// Scalar is a {"value": v} wrapper, optionally carrying atts.
type Scalar struct {
	Text       string
	Attributed bool
}

// RichText is a {"rich-text-value": html} wrapper.
type RichText struct {
	HTML string
}

// MultiValue is a {"values": [...]} container.
type MultiValue struct {
	Items []gjson.Result
}

// BareList is an array with no wrapper.
type BareList struct {
	Items []gjson.Result
}

// Literal is a bare string, number or boolean.
type Literal struct {
	Text string
}

// Opaque is anything else. It is carried through untouched where allowed.
type Opaque struct {
	Raw gjson.Result
}

func (Scalar) shape() string     { return "scalar" }
func (RichText) shape() string   { return "rich-text" }
func (MultiValue) shape() string { return "multi-value" }
func (BareList) shape() string   { return "list" }
func (Literal) shape() string    { return "literal" }
func (Opaque) shape() string     { return "opaque" }

// Classify inspects a raw field value and reports its shape. A "values"
// container takes precedence over "rich-text-value", which takes precedence
// over "value".
func Classify(r gjson.Result) Value {
	switch {
	case r.IsArray():
		return BareList{Items: r.Array()}
	case r.IsObject():
		if values := r.Get("values"); values.Exists() {
			if values.IsArray() {
				return MultiValue{Items: values.Array()}
			}
			return Opaque{Raw: r}
		}
		if rt := r.Get("rich-text-value"); rt.Exists() {
			return RichText{HTML: rt.String()}
		}
		if v := r.Get("value"); v.Exists() {
			return Scalar{Text: v.String(), Attributed: r.Get("atts").Exists()}
		}
		return Opaque{Raw: r}
	case r.Type == gjson.String, r.Type == gjson.Number, r.Type == gjson.True, r.Type == gjson.False:
		return Literal{Text: r.String()}
	}
	return Opaque{Raw: r}
}

// ShapeName returns the short name of a classified value, for diagnostics.
func ShapeName(v Value) string {
	return v.shape()
}
