package mrz

import (
	"regexp"
	"sort"
	"strings"
)

const (
	// LineLength is the width of a TD3 (passport) MRZ line
	LineLength = 44

	minCandidateLength = 30
	minCandidateScore  = 5
	bottomLines        = 5

	// below this top score the aggressive pass is tried as well
	aggressiveThreshold = 20
)

var (
	line1WithState = regexp.MustCompile(`^P<[A-Z]{3}`)
	natAndBirth    = regexp.MustCompile(`[A-Z]{3}[0-9]{6}`)
)

// Candidate is a cleaned OCR line that looks like part of an MRZ
type Candidate struct {
	Text  string
	Score int
	Index int // position of the source line among the non-empty input lines
}

// LinePair holds the two ordered TD3 lines, each exactly LineLength characters
type LinePair struct {
	Line1 string
	Line2 string
}

// ScoreLine rates how MRZ-like a cleaned line is. Every signal is additive.
func ScoreLine(cleaned string, index, total int) int {
	score := 0

	if index >= total-bottomLines {
		score += 10
	}

	switch n := len(cleaned); {
	case n >= 42 && n <= 46:
		score += 15
	case n >= 38 && n <= 48:
		score += 10
	}

	score += 8 * strings.Count(cleaned, "<<")
	if strings.Count(cleaned, "<") >= 5 {
		score += 5
	}

	if line1WithState.MatchString(cleaned) {
		score += 30
	} else if strings.HasPrefix(cleaned, "P<") {
		score += 20
	}

	digits := 0
	for _, r := range cleaned {
		if r >= '0' && r <= '9' {
			digits++
		}
	}
	if digits >= 8 && digits <= 20 {
		score += 10
	}
	if strings.HasSuffix(cleaned, "<<<") {
		score += 10
	}
	if natAndBirth.MatchString(cleaned) {
		score += 10
	}

	return score
}

// FindCandidates cleans and scores every line of OCR text and returns those
// scoring at least minCandidateScore, best first. Ties keep source order.
func FindCandidates(text string) []Candidate {
	return findCandidates(splitLines(text), CleanLine, nil)
}

// FindAggressiveCandidates is FindCandidates with AggressiveCleanLine, limited
// to raw lines that might be MRZ at all.
func FindAggressiveCandidates(text string) []Candidate {
	return findCandidates(splitLines(text), AggressiveCleanLine, mightBeMRZ)
}

func splitLines(text string) []string {
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if l = strings.TrimSpace(l); l != "" {
			lines = append(lines, l)
		}
	}
	return lines
}

func findCandidates(lines []string, clean func(string) string, keep func(string) bool) []Candidate {
	var candidates []Candidate
	for i, l := range lines {
		if keep != nil && !keep(l) {
			continue
		}
		cleaned := clean(l)
		if len(cleaned) < minCandidateLength {
			continue
		}
		score := ScoreLine(cleaned, i, len(lines))
		if score < minCandidateScore {
			continue
		}
		candidates = append(candidates, Candidate{Text: cleaned, Score: score, Index: i})
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score > candidates[j].Score
	})
	return candidates
}

// FindLines locates the two TD3 MRZ lines in OCR text. When the ordinary pass
// yields fewer than two candidates or a weak best line, the aggressive pass
// is tried and its candidates win if there are at least two and the best
// outscores the ordinary best. It reports false when fewer than two
// candidates remain.
func FindLines(text string) (LinePair, bool) {
	candidates := FindCandidates(text)
	if len(candidates) < 2 || candidates[0].Score < aggressiveThreshold {
		aggressive := FindAggressiveCandidates(text)
		if len(aggressive) >= 2 && aggressive[0].Score > topScore(candidates) {
			candidates = aggressive
		}
	}
	if len(candidates) < 2 {
		return LinePair{}, false
	}
	return SelectPair(candidates[0], candidates[1]), true
}

func topScore(candidates []Candidate) int {
	if len(candidates) == 0 {
		return 0
	}
	return candidates[0].Score
}

// SelectPair orders the two best candidates into line 1 and line 2.
// Adjacent source lines keep document order. Otherwise the line starting with
// P is line 1; when both or neither do, a wins if it starts with P, else b.
func SelectPair(a, b Candidate) LinePair {
	var first, second Candidate

	switch {
	case a.Index-b.Index == 1 || b.Index-a.Index == 1:
		first, second = a, b
		if b.Index < a.Index {
			first, second = b, a
		}
	case strings.HasPrefix(a.Text, "P"):
		first, second = a, b
	default:
		first, second = b, a
	}

	return LinePair{
		Line1: NormalizeLength(first.Text),
		Line2: NormalizeLength(second.Text),
	}
}

// NormalizeLength truncates or right-pads a line with '<' to LineLength
func NormalizeLength(line string) string {
	if len(line) >= LineLength {
		return line[:LineLength]
	}
	return line + strings.Repeat("<", LineLength-len(line))
}
