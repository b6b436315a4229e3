package passport

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"github.com/JuhanKuusk/vietnam-fast-visa/internal/mrz"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// centuryPivot splits two-digit MRZ years: 00-30 are 2000s, 31-99 are 1900s
const centuryPivot = 30

// FormatMRZDate converts a YYMMDD MRZ date to YYYY-MM-DD. Anything that is
// not six digits yields "".
func FormatMRZDate(s string) string {
	if len(s) != 6 {
		return ""
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return ""
		}
	}
	yy, _ := strconv.Atoi(s[:2])
	year := 1900 + yy
	if yy <= centuryPivot {
		year = 2000 + yy
	}
	return fmt.Sprintf("%d-%s-%s", year, s[2:4], s[4:6])
}

// MapSex maps an MRZ sex code or a spelled-out value to male or female
func MapSex(s string) string {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "M", "MALE":
		return "male"
	case "F", "FEMALE":
		return "female"
	default:
		return ""
	}
}

var foldDiacritics = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

func fold(s string) string {
	out, _, err := transform.String(foldDiacritics, s)
	if err != nil {
		return s
	}
	return out
}

// ConvertCountryCode resolves an alpha-3 code, a known country name or an
// alpha-2 code to ISO 3166-1 alpha-2. Unknown input yields "".
func ConvertCountryCode(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	if c == "" {
		return ""
	}
	if a2, ok := alpha3ToAlpha2[c]; ok {
		return a2
	}
	if a2, ok := countryNames[c]; ok {
		return a2
	}
	if a2, ok := countryNames[fold(c)]; ok {
		return a2
	}
	if len(c) == 2 && unicode.IsLetter(rune(c[0])) && unicode.IsLetter(rune(c[1])) {
		return c
	}
	return ""
}

// FullName joins given names and surname, uppercased
func FullName(given, surname string) string {
	return strings.ToUpper(strings.TrimSpace(strings.TrimSpace(given) + " " + strings.TrimSpace(surname)))
}

var (
	isoDate   = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})$`)
	yearLast  = regexp.MustCompile(`^(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})$`)
	yearFirst = regexp.MustCompile(`^(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})`)
)

// NormalizeDate coerces a provider supplied date to YYYY-MM-DD. Day-first
// order is assumed for DD/MM/YYYY. Unrecognized values yield "".
func NormalizeDate(s string) string {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return ""
	case isoDate.MatchString(s):
		m := isoDate.FindStringSubmatch(s)
		return buildDate(m[1], m[2], m[3])
	case len(s) == 6:
		return FormatMRZDate(s)
	}
	if m := yearLast.FindStringSubmatch(s); m != nil {
		return buildDate(m[3], m[2], m[1])
	}
	if m := yearFirst.FindStringSubmatch(s); m != nil {
		return buildDate(m[1], m[2], m[3])
	}
	return ""
}

// buildDate formats year, month and day as YYYY-MM-DD, rejecting months
// above 12 and days above 31.
func buildDate(year, month, day string) string {
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return ""
	}
	d, err := strconv.Atoi(day)
	if err != nil || d < 1 || d > 31 {
		return ""
	}
	return fmt.Sprintf("%s-%02d-%02d", year, m, d)
}

// FromMRZ normalizes parsed MRZ fields. The MRZ carries no issue date, so
// DateOfIssue is left for the caller to fill in.
func FromMRZ(f mrz.Fields) *Data {
	return &Data{
		FullName:         FullName(f.FirstName, f.LastName),
		DateOfBirth:      FormatMRZDate(f.BirthDate),
		Gender:           MapSex(f.Sex),
		Nationality:      ConvertCountryCode(f.Nationality),
		PassportNumber:   strings.ToUpper(f.DocumentNumber),
		PassportExpiry:   FormatMRZDate(f.ExpirationDate),
		IssuingAuthority: ConvertCountryCode(f.IssuingState),
	}
}
