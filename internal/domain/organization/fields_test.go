package organization

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFields_KeepsOrder(t *testing.T) {
	var f Fields
	f.Set("zeta", "1")
	f.Set("alpha", "2")
	f.Set("zeta", "3")

	out, err := json.Marshal(f)
	require.NoError(t, err)
	assert.Equal(t, `{"zeta":"3","alpha":"2"}`, string(out))

	var back Fields
	require.NoError(t, json.Unmarshal(out, &back))
	assert.Equal(t, f, back)

	v, ok := back.Get("alpha")
	assert.True(t, ok)
	assert.Equal(t, "2", v)
}

func TestFields_RejectsNonObject(t *testing.T) {
	var f Fields
	assert.Error(t, json.Unmarshal([]byte(`[1]`), &f))
}

func TestLabeledValues_TolerantDecode(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want int
	}{
		{"array", `[{"value":"1"},{"value":"2"}]`, 2},
		{"values container", `{"values":[{"atts":{"type":"Main"},"value":"1"}]}`, 1},
		{"empty object", `{}`, 0},
		{"null", `null`, 0},
		{"bare strings", `["a","b","c"]`, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var l LabeledValues
			require.NoError(t, json.Unmarshal([]byte(tt.raw), &l))
			assert.NotNil(t, l)
			assert.Len(t, l, tt.want)
		})
	}
}

func TestLabeledValue_Label(t *testing.T) {
	assert.Equal(t, "For Quotes", LabeledValue{Atts: map[string]string{"label": "For Quotes", "type": "Main"}}.Label("Phone"))
	assert.Equal(t, "Main", LabeledValue{Atts: map[string]string{"type": "Main"}}.Label("Phone"))
	assert.Equal(t, "Phone", LabeledValue{}.Label("Phone"))
}

func TestOrganization_DecodesLegacyGroups(t *testing.T) {
	var org Organization
	require.NoError(t, json.Unmarshal([]byte(`{
		"rid":"r1","organization_name":"Acme","addresses":[],
		"other_information":{"assets":"1M"},
		"phones":{},"faxes":{},"emails":{},"websites":{},"organization_personnel":[]}`), &org))
	org.EnsureGroups()

	assert.Equal(t, "Acme", org.Name)
	assert.NotNil(t, org.Phones)
	assert.Empty(t, org.Faxes)
	v, _ := org.OtherInformation.Get("assets")
	assert.Equal(t, "1M", v)
}

func TestAddress_StateOrProvince(t *testing.T) {
	assert.Equal(t, "ON", Address{State: "NY", Province: "ON"}.StateOrProvince())
	assert.Equal(t, "NY", Address{State: "NY"}.StateOrProvince())
	assert.Equal(t, "", Address{}.StateOrProvince())
}
