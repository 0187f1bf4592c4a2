package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reMoney     = regexp.MustCompile(`\d+\.\d{2}`)
	reTotalWord = regexp.MustCompile(`(?i)\btotal\b`)
	reDueWords  = regexp.MustCompile(`(?i)grand\s+total|amount\s+due|balance\s+due|you\s+owe`)
)

// ExtractTotal finds the transaction total as a two-decimal string.
//
// Receipts label the final figure "total" near the bottom, so the passes run
// bottom-to-top: first a plain "total" line (excluding "subtotal"), then the
// due/owed phrasings, then the largest monetary figure anywhere as a last
// resort (the total is normally the biggest number on the page).
func ExtractTotal(lines []string) string {
	// Pass 1: last "total"-labeled line wins.
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if !reTotalWord.MatchString(line) {
			continue
		}
		if strings.Contains(strings.ToLower(line), "subtotal") {
			continue
		}
		if m := reMoney.FindString(line); m != "" {
			return m
		}
	}

	// Pass 2: "amount due" style labels.
	for i := len(lines) - 1; i >= 0; i-- {
		if !reDueWords.MatchString(lines[i]) {
			continue
		}
		if m := reMoney.FindString(lines[i]); m != "" {
			return m
		}
	}

	// Pass 3: numeric maximum across the whole receipt.
	max := 0.0
	found := false
	for _, line := range lines {
		for _, m := range reMoney.FindAllString(line, -1) {
			v, err := strconv.ParseFloat(m, 64)
			if err != nil {
				continue
			}
			if !found || v > max {
				max = v
				found = true
			}
		}
	}
	if !found {
		return ""
	}
	return fmt.Sprintf("%.2f", max)
}
