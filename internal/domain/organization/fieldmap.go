package organization

const (
	keyOrganizationName = "organization_name"
	keyAddresses        = "addresses"
	keyPhones           = "phones"
	keyFaxes            = "faxes"
	keyEmails           = "emails"
	keyWebsites         = "websites"
	keyPersonnel        = "organization_personnel"

	groupOtherInformation = "other_information"
)

// fieldSpec says where a source field lands in the normalized record.
type fieldSpec interface {
	outputKey() string
}

// scalarField takes a single value, optionally nested under a parent group.
type scalarField struct {
	key    string
	parent string
}

// listField takes a list of values.
type listField struct {
	key string
}

func (f scalarField) outputKey() string { return f.key }
func (f listField) outputKey() string   { return f.key }

// fieldTable maps source field names onto normalized keys. Fields missing
// from the table are dropped.
var fieldTable = map[string]fieldSpec{
	"ta_displayName":      scalarField{key: keyOrganizationName},
	"td_irsOfficeCode":    scalarField{key: "irs_office_code", parent: groupOtherInformation},
	"ta_orgEmployeesHigh": scalarField{key: "number_of_employees", parent: groupOtherInformation},
	"ta_sicClass":         scalarField{key: "SIC_classification", parent: groupOtherInformation},
	"ta_annualRevenue":    scalarField{key: "annual_revenue", parent: groupOtherInformation},
	"ta_assets":           scalarField{key: "assets", parent: groupOtherInformation},
	"ta_orgFYEnd":         scalarField{key: "fiscal_year_end", parent: groupOtherInformation},
	"td_background":       scalarField{key: "organization_background", parent: groupOtherInformation},
	"ta_orgDescription":   scalarField{key: "organization_description", parent: groupOtherInformation},

	"addresses":   listField{key: keyAddresses},
	"ta_emails":   listField{key: keyEmails},
	"ta_phones":   listField{key: keyPhones},
	"ta_faxes":    listField{key: keyFaxes},
	"ta_websites": listField{key: keyWebsites},
	"positions":   listField{key: keyPersonnel},
}
