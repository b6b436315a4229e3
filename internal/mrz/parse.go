package mrz

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnsupportedFormat is returned when the lines are not a TD3 passport MRZ
var ErrUnsupportedFormat = errors.New("unsupported MRZ format")

// Fields are the raw values read from a TD3 MRZ. Dates are YYMMDD.
type Fields struct {
	DocumentCode   string
	IssuingState   string
	LastName       string
	FirstName      string
	DocumentNumber string
	Nationality    string
	BirthDate      string
	Sex            string
	ExpirationDate string
	PersonalNumber string
}

// FieldCheck reports the check-digit outcome for one field
type FieldCheck struct {
	Field     string
	Valid     bool
	Corrected bool
}

// Result is the outcome of parsing a line pair
type Result struct {
	Valid   bool
	Fields  Fields
	Details []FieldCheck
}

// HasFields reports whether any identity field was recovered
func (r *Result) HasFields() bool {
	f := r.Fields
	return f.LastName != "" || f.FirstName != "" || f.DocumentNumber != "" ||
		f.Nationality != "" || f.BirthDate != "" || f.ExpirationDate != ""
}

var (
	// OCR confusions in fields that may only hold digits
	toDigit = map[byte]byte{
		'O': '0', 'Q': '0', 'D': '0',
		'I': '1', 'L': '1',
		'Z': '2',
		'S': '5',
		'G': '6',
		'B': '8',
	}
	// OCR confusions in fields that may only hold letters
	toLetter = map[byte]byte{
		'0': 'O',
		'1': 'I',
		'2': 'Z',
		'5': 'S',
		'6': 'G',
		'8': 'B',
	}
	// characters that are legitimately ambiguous in alphanumeric fields
	swaps = map[byte]byte{
		'O': '0', '0': 'O',
		'I': '1', '1': 'I',
		'B': '8', '8': 'B',
		'S': '5', '5': 'S',
		'Z': '2', '2': 'Z',
		'G': '6', '6': 'G',
	}
)

func replaceChars(s string, table map[byte]byte) (string, bool) {
	b := []byte(s)
	changed := false
	for i, c := range b {
		if m, ok := table[c]; ok {
			b[i] = m
			changed = true
		}
	}
	return string(b), changed
}

// Parse reads a TD3 line pair. Letters in numeric fields and digits in
// alphabetic fields are corrected, and a single ambiguous character in the
// document number is repaired when exactly one substitution satisfies its
// check digit. An error is only returned when the lines are not TD3 shaped.
func Parse(line1, line2 string) (*Result, error) {
	if len(line1) != LineLength || len(line2) != LineLength {
		return nil, fmt.Errorf("%w: expected two %d character lines, got %d and %d",
			ErrUnsupportedFormat, LineLength, len(line1), len(line2))
	}
	if line1[0] != 'P' {
		return nil, fmt.Errorf("%w: document code %q is not a passport", ErrUnsupportedFormat, line1[0])
	}

	res := &Result{Valid: true}
	check := func(field string, ok, corrected bool) {
		res.Details = append(res.Details, FieldCheck{Field: field, Valid: ok, Corrected: corrected})
		if !ok {
			res.Valid = false
		}
	}

	f := &res.Fields
	f.DocumentCode = strings.TrimRight(line1[0:2], "<")

	state, _ := replaceChars(line1[2:5], toLetter)
	f.IssuingState = strings.Trim(state, "<")

	names, _ := replaceChars(strings.TrimRight(line1[5:], "<"), toLetter)
	f.LastName, f.FirstName = splitName(names)

	docNumber, docCheck := line2[0:9], digitAt(line2, 9)
	docOK := verify(docNumber, docCheck)
	docCorrected := false
	if !docOK {
		if repaired, ok := repairWithCheckDigit(docNumber, docCheck); ok {
			docNumber, docOK, docCorrected = repaired, true, true
		}
	}
	f.DocumentNumber = strings.ReplaceAll(docNumber, "<", "")
	check("documentNumber", docOK, docCorrected)

	nat, _ := replaceChars(line2[10:13], toLetter)
	f.Nationality = strings.Trim(nat, "<")

	birth, birthFixed := replaceChars(line2[13:19], toDigit)
	f.BirthDate = strings.Trim(birth, "<")
	check("birthDate", verify(birth, digitAt(line2, 19)), birthFixed)

	switch line2[20] {
	case 'M', 'F', 'X':
		f.Sex = string(line2[20])
	}

	expiry, expiryFixed := replaceChars(line2[21:27], toDigit)
	f.ExpirationDate = strings.Trim(expiry, "<")
	check("expirationDate", verify(expiry, digitAt(line2, 27)), expiryFixed)

	personal := line2[28:42]
	f.PersonalNumber = strings.Trim(personal, "<")
	personalCheck := digitAt(line2, 42)
	if f.PersonalNumber == "" {
		check("personalNumber", personalCheck == '<' || personalCheck == '0', false)
	} else {
		check("personalNumber", verify(personal, personalCheck), false)
	}

	composite := docNumber + string(docCheck) + birth + string(digitAt(line2, 19)) +
		expiry + string(digitAt(line2, 27)) + personal + string(personalCheck)
	check("composite", verify(composite, digitAt(line2, 43)), false)

	return res, nil
}

// digitAt returns the check character at i with letter confusions corrected
func digitAt(line string, i int) byte {
	c := line[i]
	if m, ok := toDigit[c]; ok {
		return m
	}
	return c
}

func splitName(section string) (last, first string) {
	parts := strings.SplitN(section, "<<", 2)
	last = strings.TrimSpace(strings.ReplaceAll(parts[0], "<", " "))
	if len(parts) == 2 {
		first = strings.TrimSpace(strings.ReplaceAll(parts[1], "<", " "))
	}
	return last, first
}

// repairWithCheckDigit tries every single ambiguous-character swap in field
// and returns the repaired value only when exactly one swap is valid.
func repairWithCheckDigit(field string, check byte) (string, bool) {
	var found []string
	b := []byte(field)
	for i, c := range b {
		alt, ok := swaps[c]
		if !ok {
			continue
		}
		b[i] = alt
		if verify(string(b), check) {
			found = append(found, string(b))
		}
		b[i] = c
	}
	if len(found) != 1 {
		return "", false
	}
	return found[0], true
}
