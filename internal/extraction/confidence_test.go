package extraction

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestScoreMerchant(t *testing.T) {
	assert.Equal(t, 0.0, scoreMerchant(""))
	assert.Equal(t, 0.4, scoreMerchant("AB"))
	assert.Equal(t, 0.5, scoreMerchant("12345 678"))
	assert.Equal(t, 0.7, scoreMerchant("Joe's Pizza!"))
	assert.Equal(t, 0.9, scoreMerchant("Trader Joe's"))
	assert.Equal(t, 0.9, scoreMerchant("H-E-B & Sons"))
}

func TestScoreAmount(t *testing.T) {
	assert.Equal(t, 0.0, scoreAmount(""))
	assert.Equal(t, 0.95, scoreAmount("12.50"))
	assert.Equal(t, 0.95, scoreAmount("4.63"))
	assert.Equal(t, 0.7, scoreAmount("12"))
	assert.Equal(t, 0.7, scoreAmount("$ 12,5"))
	assert.Equal(t, 0.5, scoreAmount("approx 12"))
	assert.Equal(t, 0.5, scoreAmount("12.5.0"))
}

func TestScoreDate(t *testing.T) {
	assert.Equal(t, 0.0, scoreDate("", testNow))
	assert.Equal(t, 0.4, scoreDate("01/15/2024", testNow))
	assert.Equal(t, 0.4, scoreDate("2024-13-45", testNow))
	assert.Equal(t, 0.2, scoreDate("2024-12-31", testNow))
	assert.Equal(t, 0.3, scoreDate("1999-05-05", testNow))
	assert.Equal(t, 0.9, scoreDate("2024-01-15", testNow))
}

func TestScoreTax(t *testing.T) {
	assert.Equal(t, 0.4, scoreTax(""))
	assert.Equal(t, 0.9, scoreTax("0.38"))
}

func TestTreatmentFor(t *testing.T) {
	assert.Equal(t, TreatmentAutoFilled, TreatmentFor(0.95))
	assert.Equal(t, TreatmentAutoFilled, TreatmentFor(0.85))
	assert.Equal(t, TreatmentAutoFilledReview, TreatmentFor(0.7))
	assert.Equal(t, TreatmentAutoFilledReview, TreatmentFor(0.5))
	assert.Equal(t, TreatmentNeedsReview, TreatmentFor(0.4))
	assert.Equal(t, TreatmentBlank, TreatmentFor(0))
}
