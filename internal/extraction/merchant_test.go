package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractMerchant(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "uppercase header wins",
			lines: []string{"WALMART", "Save money. Live better.", "Manager on duty"},
			want:  "WALMART",
		},
		{
			name:  "street address never selected even when longest",
			lines: []string{"Cafe", "123 Main Street With A Very Long Name"},
			want:  "Cafe",
		},
		{
			name:  "numeric id marker disqualifies header line",
			lines: []string{"STARBUCKS #4021", "123 Main St", "01/15/2024"},
			want:  "",
		},
		{
			name:  "phone numbers skipped",
			lines: []string{"(555) 123-4567", "Corner Bakery"},
			want:  "Corner Bakery",
		},
		{
			name:  "mostly-numeric lines skipped",
			lines: []string{"0123456789 X", "Blue Bottle Coffee"},
			want:  "Blue Bottle Coffee",
		},
		{
			name:  "blacklist keywords skipped",
			lines: []string{"Cashier: Dana", "Order 55", "Harbor Fish Market"},
			want:  "Harbor Fish Market",
		},
		{
			name:  "url lines skipped",
			lines: []string{"www.example.com", "visit us @ the mall", "Example Shop"},
			want:  "Example Shop",
		},
		{
			name: "lines beyond the first ten are ignored",
			lines: []string{
				"x y", "x y", "x y", "x y", "x y",
				"x y", "x y", "x y", "x y", "x y",
				"SUPERLONG MERCHANT NAME INC",
			},
			want: "x y",
		},
		{name: "no lines", lines: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractMerchant(tt.lines))
		})
	}
}

func TestScoreMerchantLinePrefersTopShortCapped(t *testing.T) {
	// Same text scores higher near the top of the receipt.
	assert.Greater(t, scoreMerchantLine("Corner Bakery", 0), scoreMerchantLine("Corner Bakery", 5))
	// All-caps lines get a boost over mixed case.
	assert.Greater(t, scoreMerchantLine("TARGET STORE", 0), scoreMerchantLine("Target store", 0))
	// Characters outside the allowed set cost points.
	assert.Greater(t, scoreMerchantLine("Joes Diner", 0), scoreMerchantLine("Joes* Diner!", 0))
}
