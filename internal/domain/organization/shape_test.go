package organization

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/tidwall/gjson"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		raw  string
		want string
	}{
		{`{"value":"x"}`, "scalar"},
		{`{"value":"x","atts":{"type":"Main"}}`, "scalar"},
		{`{"rich-text-value":"<p>x</p>"}`, "rich-text"},
		{`{"values":[1,2]}`, "multi-value"},
		{`{"values":[],"value":"x"}`, "multi-value"},
		{`[1,2]`, "list"},
		{`"x"`, "literal"},
		{`42`, "literal"},
		{`true`, "literal"},
		{`{"values":"x"}`, "opaque"},
		{`{"other":1}`, "opaque"},
		{`null`, "opaque"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ShapeName(Classify(gjson.Parse(tt.raw))))
		})
	}
}

func TestClassify_ScalarAttributed(t *testing.T) {
	v, ok := Classify(gjson.Parse(`{"value":"x","atts":{}}`)).(Scalar)
	assert.True(t, ok)
	assert.True(t, v.Attributed)
	assert.Equal(t, "x", v.Text)
}
