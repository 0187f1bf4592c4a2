package extraction

import (
	"regexp"
	"strings"
	"unicode"
)

// Merchant names show up in the header block of a printed receipt, so only
// the top of the sequence is considered.
const merchantScanDepth = 10

var (
	// Lines that are receipt furniture, not a business name.
	reMerchantBlacklist = regexp.MustCompile(`(?i)\b(server|cashier|table|date|time|phone|tel|fax|receipt|invoice|order|ticket|terminal|visa|mastercard|amex|discover|debit|credit|change|cash|subtotal|total|tax|tip|balance|thank|thanks|welcome|again)\b|www\.|https?:|\.com\b|@|#\d+`)
	reStreetAddress     = regexp.MustCompile(`(?i)^\d+\s+.*\b(street|st|ave|avenue|road|rd|blvd|boulevard|drive|dr|lane|ln|way|court|ct|hwy|highway|suite|ste)\b`)
	rePhoneNumber       = regexp.MustCompile(`\(?\d{3}\)?[\s.-]?\d{3}[\s.-]?\d{4}`)
)

// ExtractMerchant scans the first lines of the receipt for the best merchant
// name candidate. Returns "" if every line is disqualified.
func ExtractMerchant(lines []string) string {
	depth := merchantScanDepth
	if len(lines) < depth {
		depth = len(lines)
	}

	best := ""
	bestScore := 0
	for i := 0; i < depth; i++ {
		line := lines[i]
		if disqualifyMerchant(line) {
			continue
		}
		// Strict > keeps the earliest line on score ties.
		if s := scoreMerchantLine(line, i); s > bestScore {
			best = line
			bestScore = s
		}
	}
	return best
}

func disqualifyMerchant(line string) bool {
	if reMerchantBlacklist.MatchString(line) {
		return true
	}
	if reStreetAddress.MatchString(line) {
		return true
	}
	if rePhoneNumber.MatchString(line) {
		return true
	}
	return digitRatio(line) > 0.5
}

func scoreMerchantLine(line string, index int) int {
	letters := 0
	oddChars := 0
	for _, r := range line {
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), unicode.IsSpace(r), r == '&', r == '\'', r == '-':
			// allowed
		default:
			oddChars++
		}
	}

	score := letters * 2
	if letters > 3 && line == strings.ToUpper(line) {
		score += 20 // header lines are usually shouted
	}
	if len(line) <= 25 {
		score += 10
	}
	if index < 3 {
		score += 15
	}
	score -= oddChars * 3
	return score
}

func digitRatio(line string) float64 {
	if line == "" {
		return 0
	}
	digits := 0
	total := 0
	for _, r := range line {
		total++
		if unicode.IsDigit(r) {
			digits++
		}
	}
	return float64(digits) / float64(total)
}
