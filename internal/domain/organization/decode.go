package organization

import (
	"reflect"

	"github.com/mitchellh/mapstructure"
	"github.com/tidwall/gjson"
)

var (
	stringType        = reflect.TypeOf("")
	labeledValueType  = reflect.TypeOf(LabeledValue{})
	labeledValuesType = reflect.TypeOf(LabeledValues(nil))
)

// unwrapHook lets loosely shaped survey values decode into the typed model:
// a {"value"} or {"rich-text-value"} wrapper into a string, a bare string
// into a LabeledValue, and a {"values"} container into a list.
func unwrapHook(from, to reflect.Type, data any) (any, error) {
	switch m := data.(type) {
	case map[string]any:
		if to == stringType {
			if v, ok := m["value"]; ok {
				return v, nil
			}
			if v, ok := m["rich-text-value"]; ok {
				return v, nil
			}
		}
		if to == labeledValuesType {
			if v, ok := m["values"]; ok {
				return v, nil
			}
			return []any{}, nil
		}
	case string:
		if to == labeledValueType {
			return map[string]any{"value": m}, nil
		}
	}
	return data, nil
}

// decodeValue decodes a generic value into out, which must be a pointer.
func decodeValue(input, out any) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:       unwrapHook,
		WeaklyTypedInput: true,
		TagName:          "mapstructure",
		Result:           out,
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}

// decodeItems decodes a list of raw JSON items into out, a pointer to a slice.
func decodeItems(items []gjson.Result, out any) error {
	generic := make([]any, 0, len(items))
	for _, item := range items {
		generic = append(generic, item.Value())
	}
	return decodeValue(generic, out)
}
