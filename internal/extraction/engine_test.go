package extraction

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testEngine() *Engine {
	return NewEngine(WithClock(func() time.Time { return testNow }))
}

const starbucksReceipt = "STARBUCKS #4021\n123 Main St\n01/15/2024\nSubtotal 4.25\nTax 0.38\nTotal 4.63"

func TestEngineExtractEndToEnd(t *testing.T) {
	res := testEngine().Extract(starbucksReceipt)

	// The store-number marker on the header line disqualifies it, and every
	// other line fails the merchant filters, so the field stays blank.
	assert.Equal(t, "", res.Merchant.Value)
	assert.Equal(t, 0.0, res.Merchant.Confidence)
	assert.Equal(t, TreatmentBlank, res.Merchant.Treatment)

	assert.Equal(t, "4.63", res.Amount.Value)
	assert.Equal(t, 0.95, res.Amount.Confidence)
	assert.Equal(t, TreatmentAutoFilled, res.Amount.Treatment)

	assert.Equal(t, "2024-01-15", res.Date.Value)
	assert.Equal(t, 0.9, res.Date.Confidence)

	assert.Equal(t, "0.38", res.Tax.Value)
	assert.Equal(t, 0.9, res.Tax.Confidence)

	for kind, f := range res.Fields() {
		assert.Equal(t, SourceLocal, f.Source, "field %s", kind)
	}
	assert.Len(t, res.Lines, 6)
}

func TestEngineExtractNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\n",
		"no digits or structure at all",
		"$$ %%% @@@ ###",
		"\x00\xff garbled � bytes",
		"999999999999999999999.99",
	}
	e := testEngine()
	for _, in := range inputs {
		res := e.Extract(in)
		for kind, f := range res.Fields() {
			assert.GreaterOrEqual(t, f.Confidence, 0.0, "field %s input %q", kind, in)
			assert.LessOrEqual(t, f.Confidence, 1.0, "field %s input %q", kind, in)
		}
	}
}

func TestEngineExtractIdempotent(t *testing.T) {
	e := testEngine()
	first := e.Extract(starbucksReceipt)
	second := e.Extract(starbucksReceipt)
	assert.Equal(t, first, second)
}

func TestEngineExtractWithExternalScores(t *testing.T) {
	ext := &ExternalScores{
		Merchant: &ExternalField{Value: "Starbucks", Confidence: 0.9},
		Amount:   &ExternalField{Value: "4.63", Confidence: 0.95},
	}
	res := testEngine().ExtractWith(starbucksReceipt, ext)

	assert.Equal(t, "Starbucks", res.Merchant.Value)
	assert.Equal(t, 0.9, res.Merchant.Confidence)
	assert.Equal(t, SourceExternal, res.Merchant.Source)
	assert.Equal(t, TreatmentAutoFilled, res.Merchant.Treatment)

	assert.Equal(t, SourceExternal, res.Amount.Source)

	// Date was not supplied externally, so local extraction fills it in.
	assert.Equal(t, "2024-01-15", res.Date.Value)
	assert.Equal(t, SourceLocal, res.Date.Source)

	// Tax is always local regardless of external scores.
	assert.Equal(t, "0.38", res.Tax.Value)
	assert.Equal(t, SourceLocal, res.Tax.Source)
}

func TestEngineExtractCleanReceipt(t *testing.T) {
	raw := "CORNER BAKERY\n456 Oak Ave\nDate: 02/03/2024\nCroissant 3.50\nSales Tax 0.29\nTotal 3.79"
	res := testEngine().Extract(raw)

	require.Equal(t, "CORNER BAKERY", res.Merchant.Value)
	assert.Equal(t, 0.9, res.Merchant.Confidence)
	assert.Equal(t, "3.79", res.Amount.Value)
	assert.Equal(t, "2024-02-03", res.Date.Value)
	assert.Equal(t, "0.29", res.Tax.Value)
}
