package organization

import (
	"encoding/json"
	"fmt"

	"github.com/surveyfax/surveyfax/pkg/docerr"
	"github.com/tidwall/gjson"
)

// member is one entity field after properties have been flattened.
type member struct {
	key   string
	value gjson.Result
}

// Normalize turns a raw survey entity document into a flat Organization.
// It never mutates its input and its output depends only on data.
func Normalize(data []byte) (*Organization, error) {
	var probe any
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, docerr.Malformed(err)
	}

	entity := gjson.GetBytes(data, "entity")
	if !entity.IsObject() {
		return nil, docerr.SchemaViolation("entity", "entity is missing.")
	}

	rid, err := ridOf(entity.Get("rid"))
	if err != nil {
		return nil, err
	}

	org := New(rid)
	for _, m := range flatten(entity) {
		spec, ok := fieldTable[m.key]
		if !ok {
			continue
		}
		switch f := spec.(type) {
		case scalarField:
			text, err := scalarText(m.key, m.value)
			if err != nil {
				return nil, err
			}
			org.setScalar(f, text)
		case listField:
			if err := org.setList(m.key, f, m.value); err != nil {
				return nil, err
			}
		}
	}
	return org, nil
}

func ridOf(r gjson.Result) (string, error) {
	var rid string
	switch v := Classify(r).(type) {
	case Literal:
		rid = v.Text
	case Scalar:
		rid = v.Text
	}
	if rid == "" {
		return "", docerr.SchemaViolation("rid", "entity.rid is missing.")
	}
	return rid, nil
}

// flatten merges entity.properties into the entity's own fields. Order
// follows the document; a repeated key keeps its first position and takes
// the last value.
func flatten(entity gjson.Result) []member {
	var out []member
	index := make(map[string]int)
	put := func(k, v gjson.Result) bool {
		key := k.String()
		if key == "properties" && v.IsObject() {
			return true
		}
		if i, ok := index[key]; ok {
			out[i].value = v
			return true
		}
		index[key] = len(out)
		out = append(out, member{key: key, value: v})
		return true
	}
	entity.ForEach(put)
	entity.Get("properties").ForEach(put)
	return out
}

func scalarText(field string, r gjson.Result) (string, error) {
	switch v := Classify(r).(type) {
	case Scalar:
		return v.Text, nil
	case RichText:
		return v.HTML, nil
	default:
		return "", docerr.SchemaViolation(field,
			fmt.Sprintf("field %s must be a value or rich-text-value wrapper, got %s.", field, ShapeName(v)))
	}
}

func listItems(field string, r gjson.Result) ([]gjson.Result, error) {
	switch v := Classify(r).(type) {
	case MultiValue:
		return v.Items, nil
	case BareList:
		return v.Items, nil
	default:
		return nil, docerr.SchemaViolation(field,
			fmt.Sprintf("field %s must be a list or values container, got %s.", field, ShapeName(v)))
	}
}

func (o *Organization) setScalar(f scalarField, text string) {
	if f.parent == groupOtherInformation {
		o.OtherInformation.Set(f.key, text)
		return
	}
	if f.key == keyOrganizationName {
		o.Name = text
	}
}

func (o *Organization) setList(field string, f listField, r gjson.Result) error {
	items, err := listItems(field, r)
	if err != nil {
		return err
	}

	switch f.key {
	case keyAddresses:
		addrs := []Address{}
		err = decodeItems(items, &addrs)
		o.Addresses = addrs
	case keyPhones:
		o.Phones, err = decodeLabeled(items)
	case keyFaxes:
		o.Faxes, err = decodeLabeled(items)
	case keyEmails:
		o.Emails, err = decodeLabeled(items)
	case keyWebsites:
		o.Websites, err = decodeLabeled(items)
	case keyPersonnel:
		o.Personnel, err = decodePersonnel(items)
	}
	if err != nil {
		return docerr.SchemaViolation(field, fmt.Sprintf("field %s could not be decoded: %v.", field, err))
	}
	return nil
}

func decodeLabeled(items []gjson.Result) (LabeledValues, error) {
	out := LabeledValues{}
	if err := decodeItems(items, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// decodePersonnel flattens each position's wrapped sub-fields and decodes
// the result into a Person.
func decodePersonnel(items []gjson.Result) ([]Person, error) {
	out := make([]Person, 0, len(items))
	for i, item := range items {
		var p Person
		if err := decodeValue(positionItem(item), &p); err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out = append(out, p)
	}
	return out, nil
}

// positionItem keeps list-like and attributed sub-fields as they are, unwraps
// values containers, and reduces value and rich-text wrappers to strings.
func positionItem(item gjson.Result) map[string]any {
	out := make(map[string]any)
	item.ForEach(func(k, v gjson.Result) bool {
		switch val := Classify(v).(type) {
		case MultiValue:
			list := make([]any, 0, len(val.Items))
			for _, it := range val.Items {
				list = append(list, it.Value())
			}
			out[k.String()] = list
		case Scalar:
			if val.Attributed {
				out[k.String()] = v.Value()
			} else {
				out[k.String()] = val.Text
			}
		case RichText:
			out[k.String()] = val.HTML
		default:
			out[k.String()] = v.Value()
		}
		return true
	})
	return out
}
