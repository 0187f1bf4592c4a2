package currency

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reciptera/reciptera/internal/common"
)

// The product supports a single configured currency per profile; only USD
// and INR are recognized. No detection from receipt text.

var symbols = map[string]string{
	"USD": "$",
	"INR": "₹",
}

// Supported reports whether code is a currency this service handles.
func Supported(code string) bool {
	_, ok := symbols[code]
	return ok
}

// Symbol returns the display symbol for a supported currency code.
func Symbol(code string) (string, error) {
	s, ok := symbols[code]
	if !ok {
		return "", common.InvalidInputErrorf("unsupported currency %q", code)
	}
	return s, nil
}

// Format renders an amount with its currency symbol, two decimals.
func Format(amount float64, code string) (string, error) {
	s, err := Symbol(code)
	if err != nil {
		return "", err
	}
	if amount < 0 {
		return fmt.Sprintf("-%s%.2f", s, -amount), nil
	}
	return fmt.Sprintf("%s%.2f", s, amount), nil
}

// Parse reads an amount string, tolerating a leading symbol, thousands
// separators, and surrounding whitespace.
func Parse(value string) (float64, error) {
	v := strings.TrimSpace(value)
	for _, s := range symbols {
		v = strings.TrimPrefix(v, s)
	}
	v = strings.ReplaceAll(v, ",", "")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, common.InvalidInputError("empty amount")
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, common.InvalidInputErrorf("cannot parse amount %q", value)
	}
	return f, nil
}
