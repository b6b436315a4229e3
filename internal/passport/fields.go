package passport

import (
	"strconv"
	"strings"
)

// Key variants used by structured extraction providers for each logical field
var (
	givenNameKeys        = []string{"given_names", "given_name", "firstname", "first_name"}
	surnameKeys          = []string{"surnames", "surname", "lastname", "last_name", "family_name"}
	fullNameKeys         = []string{"full_name", "fullname"}
	sexKeys              = []string{"gender", "sex"}
	nationalityKeys      = []string{"nationality", "country", "country_code", "issuing_country"}
	issuingAuthorityKeys = []string{"issuing_country", "issuing_state", "issuing_authority", "nationality"}
	birthDateKeys        = []string{"birth_date", "date_of_birth", "birthdate", "dob"}
	passportNumberKeys   = []string{"passport_number", "document_number", "id_number", "mrz_document_number"}
	expiryDateKeys       = []string{"expiry_date", "expiration_date", "date_of_expiry"}
	issueDateKeys        = []string{"issue_date", "issuance_date", "date_of_issue"}
)

// Fields is a provider's key/value extraction result as decoded from JSON
type Fields map[string]any

// Value returns the first non-empty value among keys. Values may be strings,
// numbers or objects carrying a value or raw_value member.
func (f Fields) Value(keys ...string) string {
	for _, k := range keys {
		if v := fieldString(f[k]); v != "" {
			return v
		}
	}
	return ""
}

func fieldString(v any) string {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t)
	case float64:
		if t == 0 {
			return ""
		}
		return strconv.FormatFloat(t, 'f', -1, 64)
	case int:
		if t == 0 {
			return ""
		}
		return strconv.Itoa(t)
	case map[string]any:
		if val, ok := t["value"]; ok && val != nil {
			if s := fieldString(val); s != "" {
				return s
			}
		}
		if raw, ok := t["raw_value"].(string); ok {
			return strings.TrimSpace(raw)
		}
	}
	return ""
}

// FromFields normalizes a provider's key/value fields
func FromFields(f Fields) *Data {
	fullName := strings.ToUpper(f.Value(fullNameKeys...))
	if fullName == "" {
		fullName = FullName(f.Value(givenNameKeys...), f.Value(surnameKeys...))
	}

	return &Data{
		FullName:         fullName,
		DateOfBirth:      NormalizeDate(f.Value(birthDateKeys...)),
		Gender:           MapSex(f.Value(sexKeys...)),
		Nationality:      ConvertCountryCode(f.Value(nationalityKeys...)),
		PassportNumber:   strings.ToUpper(f.Value(passportNumberKeys...)),
		PassportExpiry:   NormalizeDate(f.Value(expiryDateKeys...)),
		DateOfIssue:      NormalizeDate(f.Value(issueDateKeys...)),
		IssuingAuthority: ConvertCountryCode(f.Value(issuingAuthorityKeys...)),
	}
}
