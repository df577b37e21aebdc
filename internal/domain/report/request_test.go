package report

import (
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/surveyfax/surveyfax/pkg/docerr"
)

func TestParseRequest_NormalizedOrganization(t *testing.T) {
	body, err := os.ReadFile("testdata/pablo.json")
	require.NoError(t, err)

	req, err := ParseRequest(body)
	require.NoError(t, err)

	assert.False(t, req.HasCover())
	require.NotNil(t, req.Contact.Name)
	assert.Equal(t, "Pablo Tapia", *req.Contact.Name)
	assert.Nil(t, req.Contact.Email)
	assert.Equal(t, "org-4410", req.Contact.OrgRIDRef)

	org := req.Organization
	assert.Equal(t, "Ohio National Financial Services", org.Name)
	require.Len(t, org.Phones, 1)
	assert.Equal(t, "For Quotes", org.Phones[0].Label("Phone"))
	assert.NotNil(t, org.Faxes)
	assert.NotNil(t, org.Emails)
	require.Len(t, org.Personnel, 1)
	assert.Equal(t, "CEO", org.Personnel[0].Title())
}

func TestParseRequest_RawEntityIsNormalized(t *testing.T) {
	entity, err := os.ReadFile("../organization/testdata/entity.json")
	require.NoError(t, err)

	body := fmt.Sprintf(`{"coverText":"<p>Hi</p>","survey":{"contactName":"Ana","contactFax":null,"org":%s}}`, entity)
	req, err := ParseRequest([]byte(body))
	require.NoError(t, err)

	assert.True(t, req.HasCover())
	assert.Nil(t, req.Contact.Fax)
	assert.Equal(t, "org-31337", req.Organization.RID)
	assert.Equal(t, "Internal Revenue Service", req.Organization.Name)
}

func TestParseRequest_Errors(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		kind    docerr.Kind
		field   string
		message string
	}{
		{
			name: "malformed json",
			body: `{"survey":`,
			kind: docerr.KindMalformedInput,
		},
		{
			name:    "missing survey",
			body:    `{"coverText":"x"}`,
			kind:    docerr.KindSchemaViolation,
			field:   "survey",
			message: "Bad request, a survey object is expected.",
		},
		{
			name:    "org reported before contact fields",
			body:    `{"survey":{}}`,
			kind:    docerr.KindSchemaViolation,
			field:   "org",
			message: "Bad request, an organization object is expected.",
		},
		{
			name:    "missing contact name",
			body:    `{"survey":{"org":{"organization_name":"A"},"contactFax":"1"}}`,
			kind:    docerr.KindSchemaViolation,
			field:   "contactName",
			message: "Bad request, contactName is expected.",
		},
		{
			name:    "missing contact fax",
			body:    `{"survey":{"org":{"organization_name":"A"},"contactName":"B"}}`,
			kind:    docerr.KindSchemaViolation,
			field:   "contactFax",
			message: "Bad request, contactFax is expected.",
		},
		{
			name:  "org is not an object",
			body:  `{"survey":{"org":"acme","contactName":"B","contactFax":"1"}}`,
			kind:  docerr.KindSchemaViolation,
			field: "org",
		},
		{
			name:  "entity without rid",
			body:  `{"survey":{"org":{"entity":{"properties":{}}},"contactName":"B","contactFax":"1"}}`,
			kind:  docerr.KindSchemaViolation,
			field: "rid",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := ParseRequest([]byte(tt.body))
			assert.Nil(t, req)
			require.Error(t, err)
			assert.True(t, docerr.Is(err, tt.kind), "got %v", err)
			assert.Equal(t, 400, docerr.CodeOf(err))

			var de *docerr.Error
			require.ErrorAs(t, err, &de)
			if tt.field != "" {
				assert.Equal(t, tt.field, de.Field)
			}
			if tt.message != "" {
				assert.Equal(t, tt.message, de.Message)
			}
		})
	}
}
