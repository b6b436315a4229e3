package mrz

import (
	"strings"
	"unicode"
)

// confusions maps glyphs that OCR engines commonly emit in place of MRZ characters
var confusions = map[rune]rune{
	'«': '<', '»': '<', '‹': '<', '›': '<', '>': '<',
	'(': '<', ')': '<', '[': '<', ']': '<', '{': '<', '}': '<',
	'—': '<', '–': '<', '_': '<',
	'|': 'I', '!': 'I',
	'$': 'S',
	'@': 'A',
	'O': '0',
}

// CleanLine normalizes one line of OCR output into the MRZ alphabet [A-Z0-9<].
// It is pure and idempotent.
func CleanLine(line string) string {
	var b strings.Builder
	b.Grow(len(line))

	for _, r := range line {
		if !unicode.IsPrint(r) || unicode.IsSpace(r) {
			continue
		}
		r = unicode.ToUpper(r)
		if m, ok := confusions[r]; ok {
			r = m
		}
		if isMRZChar(r) {
			b.WriteRune(r)
		}
	}

	return b.String()
}

func isMRZChar(r rune) bool {
	return (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '<'
}

// fillerLookalikes are glyphs OCR engines read in place of OCR-B '<'
const fillerLookalikes = "KXYVWLTIJ147"

// AggressiveCleanLine is a second-chance cleaner for lines whose fillers were
// misread. Runs of two or more identical filler lookalikes ("KKKK", "11")
// become '<' of the same length and '-' becomes '<' before the usual
// CleanLine rules apply. It damages legitimate doubled letters and digits, so
// FindLines only uses it when the ordinary pass finds no usable pair.
func AggressiveCleanLine(line string) string {
	var raw []rune
	for _, r := range line {
		if unicode.IsPrint(r) && !unicode.IsSpace(r) {
			raw = append(raw, unicode.ToUpper(r))
		}
	}

	for i := 0; i < len(raw); {
		j := i + 1
		for j < len(raw) && raw[j] == raw[i] {
			j++
		}
		if j-i >= 2 && strings.ContainsRune(fillerLookalikes, raw[i]) {
			for k := i; k < j; k++ {
				raw[k] = '<'
			}
		}
		i = j
	}

	return CleanLine(strings.ReplaceAll(string(raw), "-", "<"))
}

// mightBeMRZ is a lenient check on a raw OCR line before aggressive cleaning.
// Visual zone text is mostly lowercase labels; MRZ text is uppercase.
func mightBeMRZ(line string) bool {
	line = strings.TrimSpace(line)
	if len(line) < 25 {
		return false
	}
	upper, lower := 0, 0
	for _, r := range line {
		switch {
		case unicode.IsUpper(r):
			upper++
		case unicode.IsLower(r):
			lower++
		}
	}
	return upper >= 10 && lower <= upper
}
