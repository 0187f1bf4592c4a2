package extraction

import "strings"

// SplitLines turns raw OCR output into an ordered sequence of non-empty,
// trimmed lines. Order is preserved: merchants tend to sit near the top of a
// printed receipt, totals near the bottom, and the extractors rely on that.
// Total function — any input (including empty) yields a valid sequence.
func SplitLines(raw string) []string {
	if raw == "" {
		return nil
	}
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	raw = strings.ReplaceAll(raw, "\r", "\n")

	var lines []string
	for _, ln := range strings.Split(raw, "\n") {
		ln = strings.TrimSpace(ln)
		if ln == "" {
			continue
		}
		lines = append(lines, ln)
	}
	return lines
}
