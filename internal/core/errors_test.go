// AngelaMos | 2026
// errors_test.go

package core

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) errorEnvelope {
	t.Helper()

	var envelope errorEnvelope
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&envelope))
	return envelope
}

func TestJSONErrorWithAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, NotFoundError("account"))

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	envelope := decodeEnvelope(t, rec)
	assert.False(t, envelope.Success)
	assert.Equal(t, "NOT_FOUND", envelope.Error.Code)
	assert.Equal(t, "account not found", envelope.Error.Message)
}

func TestJSONErrorWithWrappedAppError(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, fmt.Errorf("gate: %w", ForbiddenError("plano gratuito")))

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "FORBIDDEN", decodeEnvelope(t, rec).Error.Code)
}

func TestJSONErrorHidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.NotContains(t, envelope.Error.Message, "connection refused")
}

func TestInternalServerErrorHidesCause(t *testing.T) {
	rec := httptest.NewRecorder()
	InternalServerError(rec, errors.New("dial tcp: timeout"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	envelope := decodeEnvelope(t, rec)
	assert.Equal(t, "INTERNAL_ERROR", envelope.Error.Code)
	assert.NotContains(t, rec.Body.String(), "dial tcp")
}

func TestOKWritesBarePayload(t *testing.T) {
	rec := httptest.NewRecorder()
	OK(rec, map[string]string{"resposta": "tudo certo"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"resposta":"tudo certo"}`, rec.Body.String())
}

func TestAppErrorMessage(t *testing.T) {
	err := RateLimitedError("tente novamente em instantes")

	assert.Equal(
		t,
		"RATE_LIMITED: tente novamente em instantes",
		err.Error(),
	)
	assert.Equal(t, http.StatusTooManyRequests, err.Status)
	assert.True(t, IsAppError(err))
	assert.False(t, IsAppError(errors.New("plain")))
}

func TestFormatValidationError(t *testing.T) {
	type payload struct {
		Email   string `validate:"required,email"`
		Message string `validate:"required,max=10"`
	}

	validate := validator.New()

	message := FormatValidationError(validate.Struct(payload{}))
	assert.Contains(t, message, "email is required")
	assert.Contains(t, message, "message is required")

	message = FormatValidationError(validate.Struct(payload{
		Email:   "not-an-email",
		Message: "this one is far too long",
	}))
	assert.Contains(t, message, "email must be a valid email")
	assert.Contains(t, message, "message must be at most 10 characters")

	assert.Equal(
		t,
		"invalid request",
		FormatValidationError(errors.New("not from validator")),
	)
}
