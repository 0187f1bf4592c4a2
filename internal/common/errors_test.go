package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorWrapping(t *testing.T) {
	err := NewAppError("DB_ERROR", "insert failed", ErrDatabase)
	assert.EqualError(t, err, "DB_ERROR: insert failed: database error")
	assert.True(t, errors.Is(err, ErrDatabase))

	bare := NewAppError("CONFIG_ERROR", "DB_URL is required", nil)
	assert.EqualError(t, bare, "CONFIG_ERROR: DB_URL is required")
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusOK, HTTPStatus(nil))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(NotFoundError("receipt missing")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(InvalidInputError("bad id")))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(NewAppError("V", "nope", ErrValidation)))
	assert.Equal(t, http.StatusUnauthorized, HTTPStatus(ErrUnauthorized))
	assert.Equal(t, http.StatusTooManyRequests, HTTPStatus(ErrQuotaExceeded))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestValidatorCollectsErrors(t *testing.T) {
	v := NewValidator().
		Field("merchant", "", Required).
		Field("profile_id", "not-a-uuid", UUID).
		Field("currency", "usd", CurrencyCode).
		Field("date", "01/15/2024", ISODate)

	assert.True(t, v.HasErrors())
	assert.Len(t, v.Errors(), 4)
	assert.Error(t, v.Err())
	assert.True(t, errors.Is(v.Err(), ErrValidation))
}

func TestValidatorPassesCleanInput(t *testing.T) {
	v := NewValidator().
		Field("merchant", "Corner Bakery", Required, MaxLength(120)).
		Field("profile_id", "7d444840-9dc0-11d1-b245-5ffdce74fad2", UUID).
		Field("currency", "USD", CurrencyCode).
		Field("date", "2024-01-15", ISODate)

	assert.False(t, v.HasErrors())
	assert.NoError(t, v.Err())
}
