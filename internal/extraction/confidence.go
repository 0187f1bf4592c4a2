package extraction

import (
	"regexp"
	"time"
	"unicode"
)

// Confidence scorers are pure functions over the extractor's raw output
// string. They grade the shape of the value, not the receipt it came from.

var (
	reExactMoney = regexp.MustCompile(`^\d+\.\d{2}$`)
	reLooseNum   = regexp.MustCompile(`^[$\s]*\d+([.,]\d+)?$`)
	reISODate    = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

func scoreMerchant(value string) float64 {
	if value == "" {
		return 0
	}
	if len(value) < 3 {
		return 0.4
	}
	letters := 0
	total := 0
	odd := false
	for _, r := range value {
		total++
		switch {
		case unicode.IsLetter(r):
			letters++
		case unicode.IsDigit(r), unicode.IsSpace(r), r == '&', r == '\'', r == '-':
		default:
			odd = true
		}
	}
	if float64(letters)/float64(total) < 0.3 {
		return 0.5
	}
	if odd {
		return 0.7
	}
	return 0.9
}

func scoreAmount(value string) float64 {
	switch {
	case value == "":
		return 0
	case reExactMoney.MatchString(value):
		return 0.95
	case reLooseNum.MatchString(value):
		return 0.7
	default:
		return 0.5
	}
}

func scoreDate(value string, now time.Time) float64 {
	if value == "" {
		return 0
	}
	if !reISODate.MatchString(value) {
		return 0.4
	}
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		return 0.4
	}
	if d.After(now) {
		return 0.2
	}
	if d.Year() < 2000 {
		return 0.3
	}
	return 0.9
}

// Tax has no dedicated scorer: a found value is trusted at 0.9, a miss sits
// at 0.4 so the field is flagged for review rather than left blank-styled.
func scoreTax(value string) float64 {
	if value == "" {
		return 0.4
	}
	return 0.9
}
