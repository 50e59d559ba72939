package goerror

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func asError(t *testing.T, err error) *Error {
	t.Helper()

	var gerr *Error
	require.ErrorAs(t, err, &gerr)
	return gerr
}

func TestStatusCode(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{NewServer(errors.New("x")), http.StatusInternalServerError},
		{NewBusiness("busy", CodeTooManyRequest), http.StatusTooManyRequests},
		{NewBusiness("who", CodeUnauthorized), http.StatusUnauthorized},
		{NewBusiness("nope", CodeBadRequest), http.StatusBadRequest},
		{NewInvalidFormat(), http.StatusBadRequest},
		{NewInvalidInput(errors.New("bad")), http.StatusUnprocessableEntity},
		{NewBusiness("odd", Code(99)), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, asError(t, tt.err).StatusCode(), tt.err.Error())
	}
}

func TestOptions(t *testing.T) {
	cause := errors.New("cooldown")
	err := NewBusiness("Please wait", CodeTooManyRequest, WithCause(cause), WithData(map[string]int{"retry": 1}))

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "Please wait: cooldown", err.Error())

	gerr := asError(t, err)
	assert.Equal(t, "Please wait", gerr.Msg())
	assert.Equal(t, TypeBusiness, gerr.Type())
	assert.Equal(t, CodeTooManyRequest, gerr.Code())
	assert.Equal(t, map[string]int{"retry": 1}, gerr.Data())
	assert.Contains(t, gerr.String(), "ERROR_CODE_TOO_MANY_REQUESTS")
}

func TestNewServer_HidesCauseFromMessage(t *testing.T) {
	err := NewServer(errors.New("dial tcp: refused"))
	gerr := asError(t, err)

	assert.Equal(t, "Internal server error", gerr.Msg())
	assert.Equal(t, "dial tcp: refused", err.Error())
	assert.Equal(t, TypeServer, gerr.Type())

	err = NewServerMsg(errors.New("ping"), "database is unavailable")
	assert.Equal(t, "database is unavailable", asError(t, err).Msg())
}

func TestNewInvalidInput_Fields(t *testing.T) {
	gerr := asError(t, NewInvalidInput(nil, "totpCode", "is required"))
	assert.Equal(t, map[string]string{"totpCode": "is required"}, gerr.Fields())
	assert.Equal(t, TypeValidation, gerr.Type())

	gerr = asError(t, NewInvalidInput(nil, "odd"))
	assert.Equal(t, CodeInvalidFormat, gerr.Code())

	gerr = asError(t, NewInvalidFormat("Body too large"))
	assert.Equal(t, "Body too large", gerr.Msg())
}

func TestStrings(t *testing.T) {
	assert.Equal(t, "ERROR_TYPE_VALIDATION", TypeValidation.String())
	assert.Equal(t, "ERROR_TYPE_UNKNOWN", Type(9).String())
	assert.Equal(t, "ERROR_CODE_INVALID_INPUT", CodeInvalidInput.String())
	assert.Equal(t, "ERROR_CODE_INTERNAL", Code(42).String())
}
