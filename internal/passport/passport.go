// Package passport turns raw MRZ fields or provider key/value fields into the
// normalized identity record returned to clients.
package passport

// Data is the normalized passport record. Fields that could not be recovered
// are empty strings.
type Data struct {
	FullName         string `json:"fullName"`
	DateOfBirth      string `json:"dateOfBirth"`    // YYYY-MM-DD
	Gender           string `json:"gender"`         // male, female or empty
	Nationality      string `json:"nationality"`    // ISO 3166-1 alpha-2
	PassportNumber   string `json:"passportNumber"`
	PassportExpiry   string `json:"passportExpiry"` // YYYY-MM-DD
	DateOfIssue      string `json:"dateOfIssue"`    // YYYY-MM-DD
	IssuingAuthority string `json:"issuingAuthority"`
}

// HasRequired reports whether the record carries enough to be useful: a
// name, a passport number or a date of birth.
func (d *Data) HasRequired() bool {
	return d != nil && (d.FullName != "" || d.PassportNumber != "" || d.DateOfBirth != "")
}
