package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractTotal(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  string
	}{
		{
			name:  "total beats subtotal",
			lines: []string{"Subtotal: 10.00", "Total: 12.50"},
			want:  "12.50",
		},
		{
			name:  "lowest total line wins",
			lines: []string{"Total 5.00", "Refund", "Total 7.25"},
			want:  "7.25",
		},
		{
			name:  "amount due without total keyword",
			lines: []string{"Item 3.00", "Amount Due 9.99"},
			want:  "9.99",
		},
		{
			name:  "you owe phrasing",
			lines: []string{"Item 3.00", "You owe 4.50"},
			want:  "4.50",
		},
		{
			name:  "fallback takes largest amount",
			lines: []string{"Coffee 3.75", "Bagel 2.25", "Card 6.00"},
			want:  "6.00",
		},
		{
			name:  "bare numbers still compared",
			lines: []string{"9.99", "12.00"},
			want:  "12.00",
		},
		{
			name:  "total keyword without amount skipped",
			lines: []string{"Total", "Amount due 8.00"},
			want:  "8.00",
		},
		{name: "no amounts anywhere", lines: []string{"thanks for visiting"}, want: ""},
		{name: "no lines", lines: nil, want: ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractTotal(tt.lines))
		})
	}
}
