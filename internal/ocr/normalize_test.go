package ocr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "empty", in: "", want: ""},
		{name: "crlf collapsed", in: "A\r\nB\rC", want: "A\nB\nC"},
		{name: "tabs and runs of spaces", in: "Total\t\t4.63   USD", want: "Total 4.63 USD"},
		{name: "separator noise dropped", in: "STORE\n-----\nTotal 4.63", want: "STORE\n\nTotal 4.63"},
		{name: "blank runs capped", in: "A\n\n\n\n\nB", want: "A\n\nB"},
		{name: "trailing spaces trimmed", in: "A   \nB  ", want: "A\nB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.in))
		})
	}
}
