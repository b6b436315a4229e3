package mrz

var checkWeights = [3]int{7, 3, 1}

// charValue is the ICAO 9303 numeric value of an MRZ character
func charValue(r byte) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10
	default:
		return 0
	}
}

// CheckDigit computes the 7-3-1 weighted check digit of s
func CheckDigit(s string) int {
	sum := 0
	for i := 0; i < len(s); i++ {
		sum += charValue(s[i]) * checkWeights[i%3]
	}
	return sum % 10
}

// verify reports whether check is the correct check digit for s. A filler
// check character counts as zero.
func verify(s string, check byte) bool {
	if check != '<' && (check < '0' || check > '9') {
		return false
	}
	return CheckDigit(s) == charValue(check)
}
