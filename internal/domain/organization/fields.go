package organization

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/tidwall/gjson"
)

// Field is a single label/value entry of an ordered mapping.
type Field struct {
	Key   string
	Value string
}

// Fields is a label -> value mapping that keeps insertion order, so that
// rendering and serialization follow the source document.
type Fields []Field

// Get returns the value stored under key.
func (f Fields) Get(key string) (string, bool) {
	for _, fld := range f {
		if fld.Key == key {
			return fld.Value, true
		}
	}
	return "", false
}

// Set replaces the value stored under key in place, or appends it.
func (f *Fields) Set(key, value string) {
	for i := range *f {
		if (*f)[i].Key == key {
			(*f)[i].Value = value
			return
		}
	}
	*f = append(*f, Field{Key: key, Value: value})
}

func (f Fields) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, fld := range f {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(fld.Key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(fld.Value)
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

func (f *Fields) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	out := Fields{}
	switch {
	case r.Type == gjson.Null:
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			out.Set(k.String(), v.String())
			return true
		})
	default:
		return fmt.Errorf("expected an object, got %s", r.Type)
	}
	*f = out
	return nil
}

// LabeledValues is a list of labeled values. It decodes from a bare array,
// from a {"values": [...]} container, or from an empty object or null.
type LabeledValues []LabeledValue

func (l LabeledValues) MarshalJSON() ([]byte, error) {
	if l == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]LabeledValue(l))
}

func (l *LabeledValues) UnmarshalJSON(data []byte) error {
	r := gjson.ParseBytes(data)
	var items []gjson.Result
	switch {
	case r.IsArray():
		items = r.Array()
	case r.IsObject():
		if values := r.Get("values"); values.IsArray() {
			items = values.Array()
		}
	case r.Type == gjson.Null:
	default:
		return fmt.Errorf("expected a list, got %s", r.Type)
	}

	out := LabeledValues{}
	if err := decodeItems(items, &out); err != nil {
		return err
	}
	*l = out
	return nil
}
