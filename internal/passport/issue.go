package passport

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/adrg/strutil"
	"github.com/adrg/strutil/metrics"
)

// issueLabels are the visual-zone captions, lowercased, that precede the
// date of issue on passports in common issuing languages.
var issueLabels = []string{
	"date of issue", "issue date", "date of issuance", "issued on",
	"date de délivrance", "date de delivrance", "délivré le",
	"ausstellungsdatum", "datum der ausstellung",
	"fecha de expedición", "fecha de expedicion", "fecha de emisión", "fecha de emision",
	"data di rilascio",
	"data de emissão", "data de emissao", "data de expedição",
	"datum van afgifte", "datum afgifte",
	"ngày cấp", "ngay cap",
	"発行年月日",
	"발급일",
}

const (
	issueLookahead      = 2
	minFuzzyLabelLength = 10
	minLabelSimilarity  = 0.85
)

var (
	dayFirstDate  = regexp.MustCompile(`(\d{1,2})[/.\-](\d{1,2})[/.\-](\d{4})`)
	yearFirstDate = regexp.MustCompile(`(\d{4})[/.\-](\d{1,2})[/.\-](\d{1,2})`)
	monthNameDate = regexp.MustCompile(`(\d{1,2})\s*(\p{L}{3,10})\.?(?:\s*/\s*\p{L}{3,10}\.?)?\s*(\d{4})`)
)

var monthNames = map[string]int{
	"jan": 1, "january": 1, "janv": 1, "janvier": 1, "januar": 1, "enero": 1, "gennaio": 1,
	"feb": 2, "february": 2, "fevr": 2, "fevrier": 2, "februar": 2, "febrero": 2, "febbraio": 2,
	"mar": 3, "march": 3, "mars": 3, "marz": 3, "maerz": 3, "marzo": 3,
	"apr": 4, "april": 4, "avr": 4, "avril": 4, "abril": 4, "aprile": 4,
	"may": 5, "mai": 5, "mayo": 5, "maggio": 5,
	"jun": 6, "june": 6, "juin": 6, "juni": 6, "junio": 6, "giugno": 6,
	"jul": 7, "july": 7, "juil": 7, "juillet": 7, "juli": 7, "julio": 7, "luglio": 7,
	"aug": 8, "august": 8, "aout": 8, "agosto": 8,
	"sep": 9, "sept": 9, "september": 9, "septembre": 9, "septiembre": 9, "settembre": 9,
	"oct": 10, "october": 10, "octobre": 10, "okt": 10, "oktober": 10, "octubre": 10, "ottobre": 10,
	"nov": 11, "november": 11, "novembre": 11, "noviembre": 11,
	"dec": 12, "december": 12, "decembre": 12, "dez": 12, "dezember": 12, "diciembre": 12, "dicembre": 12,
}

// ExtractDateOfIssue looks for a labeled date of issue in visual-zone OCR
// text and returns it as YYYY-MM-DD. Unlabeled dates are ignored, so "" is
// returned whenever no label is found.
func ExtractDateOfIssue(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if !hasIssueLabel(strings.ToLower(line)) {
			continue
		}
		for j := i; j <= i+issueLookahead && j < len(lines); j++ {
			if date := findDate(lines[j]); date != "" {
				return date
			}
		}
	}
	return ""
}

func hasIssueLabel(line string) bool {
	for _, label := range issueLabels {
		if strings.Contains(line, label) {
			return true
		}
	}

	lineRunes := []rune(line)
	lev := metrics.NewLevenshtein()
	for _, label := range issueLabels {
		n := len([]rune(label))
		if n < minFuzzyLabelLength || len(lineRunes) < n {
			continue
		}
		for start := 0; start+n <= len(lineRunes); start++ {
			if strutil.Similarity(string(lineRunes[start:start+n]), label, lev) >= minLabelSimilarity {
				return true
			}
		}
	}
	return false
}

func findDate(line string) string {
	if m := dayFirstDate.FindStringSubmatch(line); m != nil {
		if date := buildDate(m[3], m[2], m[1]); date != "" {
			return date
		}
	}
	if m := yearFirstDate.FindStringSubmatch(line); m != nil {
		if date := buildDate(m[1], m[2], m[3]); date != "" {
			return date
		}
	}
	if m := monthNameDate.FindStringSubmatch(line); m != nil {
		if month := lookupMonth(m[2]); month != 0 {
			return buildDate(m[3], strconv.Itoa(month), m[1])
		}
	}
	return ""
}

func lookupMonth(name string) int {
	name = fold(strings.ToLower(name))
	if m, ok := monthNames[name]; ok {
		return m
	}
	if len(name) > 3 {
		return monthNames[name[:3]]
	}
	return 0
}
