package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

var (
	reTaxKeyword = regexp.MustCompile(`(?i)\b(sales\s+tax|state\s+tax|local\s+tax|city\s+tax|tax\s+amt|tax\s+amount|tax\s+total|tax|vat|gst|hst|pst|qst|excise|levy|duty)\b`)
	// "TAX ID: 12-3456789" and friends carry numbers that are not amounts.
	reTaxExclude = regexp.MustCompile(`(?i)tax\s*(id|exempt|free|included|number|#|no\.?|registration)`)
	reTaxAmount  = regexp.MustCompile(`\$?\s*(\d+)[.,](\d{2})`)
	reLooseMoney = regexp.MustCompile(`\d+\.\d+`)
	rePercent    = regexp.MustCompile(`\d+\.?\d*\s*%`)
)

// Tax on a single receipt is a small number. Amounts outside these bounds on
// a tax-labeled line are almost always something else (totals, IDs, years).
const (
	taxKeywordCeiling  = 500
	taxFallbackCeiling = 100
)

// ExtractTax finds the tax amount as a two-decimal string, or "".
func ExtractTax(lines []string) string {
	// Pass 1: tax-keyword lines with a bounded monetary amount.
	for _, line := range lines {
		if !reTaxKeyword.MatchString(line) || reTaxExclude.MatchString(line) {
			continue
		}
		if v, ok := taxAmountFrom(line); ok {
			if v > 0 && v < taxKeywordCeiling {
				return fmt.Sprintf("%.2f", v)
			}
			continue // matched but implausible; let later passes decide
		}
		if m := reLooseMoney.FindString(line); m != "" {
			if v, err := strconv.ParseFloat(m, 64); err == nil && v > 0 && v < taxFallbackCeiling {
				return fmt.Sprintf("%.2f", v)
			}
		}
	}

	// Pass 2: a percentage on the line usually marks the tax row even when
	// the keyword got mangled by OCR.
	for _, line := range lines {
		if !rePercent.MatchString(line) {
			continue
		}
		if v, ok := taxAmountFrom(line); ok {
			return fmt.Sprintf("%.2f", v)
		}
	}

	// Pass 3: anything after the literal "tax" substring, last amount wins.
	for _, line := range lines {
		idx := strings.Index(strings.ToLower(line), "tax")
		if idx < 0 {
			continue
		}
		matches := reMoney.FindAllString(line[idx:], -1)
		if len(matches) == 0 {
			continue
		}
		last := matches[len(matches)-1]
		if v, err := strconv.ParseFloat(last, 64); err == nil && v > 0 && v < taxFallbackCeiling {
			return fmt.Sprintf("%.2f", v)
		}
	}

	return ""
}

// taxAmountFrom pulls the first "$ 12.34" style amount off a line, tolerating
// a comma as the decimal separator (common OCR slip).
func taxAmountFrom(line string) (float64, bool) {
	m := reTaxAmount.FindStringSubmatch(line)
	if m == nil {
		return 0, false
	}
	v, err := strconv.ParseFloat(m[1]+"."+m[2], 64)
	if err != nil {
		return 0, false
	}
	return v, true
}
