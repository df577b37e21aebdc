package report

import (
	"encoding/json"
	"fmt"

	"github.com/surveyfax/surveyfax/internal/domain/organization"
	"github.com/surveyfax/surveyfax/pkg/docerr"
	"github.com/tidwall/gjson"
)

// Contact describes who the report is addressed to. A nil field was absent
// or null in the request.
type Contact struct {
	Name      *string
	Method    *string
	Email     *string
	Fax       *string
	Notes     *string
	OrgRIDRef string
}

// Request is a validated render request.
type Request struct {
	CoverText    *string
	Contact      Contact
	Organization *organization.Organization
}

// HasCover reports whether a cover page should be drawn.
func (r *Request) HasCover() bool {
	return r.CoverText != nil && *r.CoverText != ""
}

// requiredSurveyFields are checked in order; the first missing one is
// reported.
var requiredSurveyFields = []string{"org", "contactName", "contactFax"}

// ParseRequest decodes the render envelope
//
//	{"coverText": "...", "survey": {"contactName", "contactMethod",
//	 "contactEmail", "contactFax", "orgRidRef", "notes", "org"}}
//
// The org may be a raw survey entity (it has an "entity" key), which is
// normalized first, or an already normalized organization.
func ParseRequest(body []byte) (*Request, error) {
	var probe any
	if err := json.Unmarshal(body, &probe); err != nil {
		return nil, docerr.Malformed(err)
	}

	root := gjson.ParseBytes(body)
	survey := root.Get("survey")
	if !survey.IsObject() {
		return nil, docerr.SchemaViolation("survey", "a survey object is expected.")
	}
	for _, field := range requiredSurveyFields {
		if !survey.Get(field).Exists() {
			return nil, docerr.SchemaViolation(field, missingFieldDetail(field))
		}
	}

	org, err := parseOrganization(survey.Get("org"))
	if err != nil {
		return nil, err
	}

	req := &Request{
		CoverText: optionalString(root.Get("coverText")),
		Contact: Contact{
			Name:      optionalString(survey.Get("contactName")),
			Method:    optionalString(survey.Get("contactMethod")),
			Email:     optionalString(survey.Get("contactEmail")),
			Fax:       optionalString(survey.Get("contactFax")),
			Notes:     optionalString(survey.Get("notes")),
			OrgRIDRef: survey.Get("orgRidRef").String(),
		},
		Organization: org,
	}
	if req.CoverText != nil && *req.CoverText == "" {
		req.CoverText = nil
	}
	return req, nil
}

func missingFieldDetail(field string) string {
	if field == "org" {
		return "an organization object is expected."
	}
	return fmt.Sprintf("%s is expected.", field)
}

func parseOrganization(r gjson.Result) (*organization.Organization, error) {
	if !r.IsObject() {
		return nil, docerr.SchemaViolation("org", "an organization object is expected.")
	}
	if r.Get("entity").Exists() {
		return organization.Normalize([]byte(r.Raw))
	}

	var org organization.Organization
	if err := json.Unmarshal([]byte(r.Raw), &org); err != nil {
		return nil, docerr.SchemaViolation("org", fmt.Sprintf("the organization object is invalid: %v.", err))
	}
	org.EnsureGroups()
	return &org, nil
}

func optionalString(r gjson.Result) *string {
	if !r.Exists() || r.Type == gjson.Null {
		return nil
	}
	s := r.String()
	return &s
}
