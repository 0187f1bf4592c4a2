package extraction

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Date formats seen on receipts vary wildly, so candidates are gathered from
// a cascade of patterns tried in a fixed order over the whole text. Candidates
// accumulate in pattern order (not text order) and the first one that passes
// validation wins. Nothing valid means "" — there is no fallback date.

var (
	reDateNumeric4 = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{4})\b`)
	reDateISOish   = regexp.MustCompile(`\b(\d{4})[/\-.](\d{1,2})[/\-.](\d{1,2})\b`)
	reDateNumeric2 = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})[/\-.](\d{2})\b`)
	reDateMonthDY4 = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?\s*,?\s+(\d{4})\b`)
	reDateDMonthY4 = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(\d{4})\b`)
	reDateDMonthY2 = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+(\d{2})\b`)
	reDateLabel    = regexp.MustCompile(`(?i)\bdate\b`)
)

var monthAbbrevs = map[string]int{
	"jan": 1, "feb": 2, "mar": 3, "apr": 4, "may": 5, "jun": 6,
	"jul": 7, "aug": 8, "sep": 9, "oct": 10, "nov": 11, "dec": 12,
}

type dateCandidate struct {
	year, month, day int
}

// ExtractDate returns the transaction date in ISO YYYY-MM-DD form, or "".
// now anchors the year-range validation (year must be in [2000, now.Year()]).
func ExtractDate(lines []string, now time.Time) string {
	full := strings.Join(lines, "\n")
	var cands []dateCandidate

	// 1. MM/DD/YYYY (also - and . separators)
	for _, m := range reDateNumeric4.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{atoi(m[3]), atoi(m[1]), atoi(m[2])})
	}
	// 2. YYYY-MM-DD
	for _, m := range reDateISOish.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{atoi(m[1]), atoi(m[2]), atoi(m[3])})
	}
	// 3. MM/DD/YY with pivot-at-50 century rule
	for _, m := range reDateNumeric2.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2])})
	}
	// 4. European DD/MM/YYYY, only when unambiguous (day > 12, month <= 12)
	for _, m := range reDateNumeric4.FindAllStringSubmatch(full, -1) {
		first, second := atoi(m[1]), atoi(m[2])
		if first > 12 && second <= 12 {
			cands = append(cands, dateCandidate{atoi(m[3]), second, first})
		}
	}
	// 5. "Jan 15, 2024"
	for _, m := range reDateMonthDY4.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{atoi(m[3]), monthNum(m[1]), atoi(m[2])})
	}
	// 6. "15 Jan 2024"
	for _, m := range reDateDMonthY4.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{atoi(m[3]), monthNum(m[2]), atoi(m[1])})
	}
	// 7. "15 Jan 24"
	for _, m := range reDateDMonthY2.FindAllStringSubmatch(full, -1) {
		cands = append(cands, dateCandidate{expandYear(atoi(m[3])), monthNum(m[2]), atoi(m[1])})
	}
	// 8. lines labeled "date": retry the numeric patterns on just that line
	for _, line := range lines {
		if !reDateLabel.MatchString(line) {
			continue
		}
		if m := reDateNumeric4.FindStringSubmatch(line); m != nil {
			cands = append(cands, dateCandidate{atoi(m[3]), atoi(m[1]), atoi(m[2])})
		}
		if m := reDateISOish.FindStringSubmatch(line); m != nil {
			cands = append(cands, dateCandidate{atoi(m[1]), atoi(m[2]), atoi(m[3])})
		}
		if m := reDateNumeric2.FindStringSubmatch(line); m != nil {
			cands = append(cands, dateCandidate{expandYear(atoi(m[3])), atoi(m[1]), atoi(m[2])})
		}
	}

	for _, c := range cands {
		if c.valid(now) {
			return fmt.Sprintf("%04d-%02d-%02d", c.year, c.month, c.day)
		}
	}
	return ""
}

// valid rejects impossible components and out-of-range years. Day-of-month is
// only bounded to 31; no per-month calendar check.
func (c dateCandidate) valid(now time.Time) bool {
	if c.month < 1 || c.month > 12 {
		return false
	}
	if c.day < 1 || c.day > 31 {
		return false
	}
	return c.year >= 2000 && c.year <= now.Year()
}

// expandYear applies the 2-digit year pivot: >50 is 19xx, otherwise 20xx.
func expandYear(yy int) int {
	if yy > 50 {
		return 1900 + yy
	}
	return 2000 + yy
}

func monthNum(abbrev string) int {
	return monthAbbrevs[strings.ToLower(abbrev)]
}

func atoi(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}
