package organization

import (
	"fmt"
	"strings"
)

// Organization is the flat, stable-shaped survey organization record
// produced by Normalize and consumed by the report renderer.
type Organization struct {
	RID              string        `json:"rid" mapstructure:"rid"`
	Name             string        `json:"organization_name" mapstructure:"organization_name"`
	Addresses        []Address     `json:"addresses" mapstructure:"addresses"`
	OtherInformation Fields        `json:"other_information" mapstructure:"-"`
	Phones           LabeledValues `json:"phones" mapstructure:"phones"`
	Faxes            LabeledValues `json:"faxes" mapstructure:"faxes"`
	Emails           LabeledValues `json:"emails" mapstructure:"emails"`
	Websites         LabeledValues `json:"websites" mapstructure:"websites"`
	Personnel        []Person      `json:"organization_personnel" mapstructure:"organization_personnel"`
}

// New returns an organization with every group initialized empty.
func New(rid string) *Organization {
	o := &Organization{RID: rid}
	o.EnsureGroups()
	return o
}

// EnsureGroups replaces nil groups with empty ones so that consumers never
// need to tell a missing group from an empty one.
func (o *Organization) EnsureGroups() {
	if o.Addresses == nil {
		o.Addresses = []Address{}
	}
	if o.OtherInformation == nil {
		o.OtherInformation = Fields{}
	}
	if o.Phones == nil {
		o.Phones = LabeledValues{}
	}
	if o.Faxes == nil {
		o.Faxes = LabeledValues{}
	}
	if o.Emails == nil {
		o.Emails = LabeledValues{}
	}
	if o.Websites == nil {
		o.Websites = LabeledValues{}
	}
	if o.Personnel == nil {
		o.Personnel = []Person{}
	}
}

// Address is a postal address. Only the first street line is displayed.
type Address struct {
	Atts       map[string]string `json:"atts,omitempty" mapstructure:"atts"`
	Street     []string          `json:"ta_street,omitempty" mapstructure:"ta_street"`
	City       string            `json:"ta_city,omitempty" mapstructure:"ta_city"`
	State      string            `json:"ta_state,omitempty" mapstructure:"ta_state"`
	Province   string            `json:"ta_province,omitempty" mapstructure:"ta_province"`
	PostalCode string            `json:"ta_postalCode,omitempty" mapstructure:"ta_postalCode"`
	Country    string            `json:"ta_country,omitempty" mapstructure:"ta_country"`
}

// FirstStreet returns the first street line, or "" when there is none.
func (a Address) FirstStreet() string {
	if len(a.Street) == 0 {
		return ""
	}
	return a.Street[0]
}

// StateOrProvince prefers the province over the state.
func (a Address) StateOrProvince() string {
	if a.Province != "" {
		return a.Province
	}
	return a.State
}

// Locality formats the "City, StateOrProvince PostalCode" line.
func (a Address) Locality() string {
	return fmt.Sprintf("%s, %s %s", a.City, a.StateOrProvince(), a.PostalCode)
}

// LabeledValue is a value optionally described by label and type attributes.
type LabeledValue struct {
	Atts  map[string]string `json:"atts,omitempty" mapstructure:"atts"`
	Value string            `json:"value" mapstructure:"value"`
}

// Label returns the explicit label attribute, then the type attribute, then
// fallback.
func (v LabeledValue) Label(fallback string) string {
	if l := strings.TrimSpace(v.Atts["label"]); l != "" {
		return l
	}
	if t := strings.TrimSpace(v.Atts["type"]); t != "" {
		return t
	}
	return fallback
}

// Person is one entry of the organization personnel directory.
type Person struct {
	Holder           *LabeledValue `json:"ta_person,omitempty" mapstructure:"ta_person"`
	Vacant           string        `json:"ta_vacant,omitempty" mapstructure:"ta_vacant"`
	PositionTitle    string        `json:"ta_positionTitle,omitempty" mapstructure:"ta_positionTitle"`
	TitleAbbrev      string        `json:"td_positionTitleAbbrev,omitempty" mapstructure:"td_positionTitleAbbrev"`
	PositionUnit     string        `json:"td_positionUnit,omitempty" mapstructure:"td_positionUnit"`
	PositionLocation string        `json:"ta_positionLocation,omitempty" mapstructure:"ta_positionLocation"`
	ShowOnWeb        string        `json:"ta_showOnWebInfoTab,omitempty" mapstructure:"ta_showOnWebInfoTab"`
	Phones           LabeledValues `json:"ta_phones,omitempty" mapstructure:"ta_phones"`
	Faxes            LabeledValues `json:"ta_faxes,omitempty" mapstructure:"ta_faxes"`
	Emails           LabeledValues `json:"ta_emails,omitempty" mapstructure:"ta_emails"`
	Addresses        []Address     `json:"ta_address,omitempty" mapstructure:"ta_address"`
}

// DisplayName returns the position holder's name, or the vacancy label when
// the position is unfilled.
func (p Person) DisplayName() string {
	if p.Holder != nil && p.Holder.Value != "" {
		return p.Holder.Value
	}
	return p.Vacant
}

// Title returns the abbreviated position title, falling back to the full one.
func (p Person) Title() string {
	if p.TitleAbbrev != "" {
		return p.TitleAbbrev
	}
	return p.PositionTitle
}

// Address returns the person's first address, or nil.
func (p Person) Address() *Address {
	if len(p.Addresses) == 0 {
		return nil
	}
	return &p.Addresses[0]
}
