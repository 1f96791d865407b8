package httputil

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "lifesure/pkg/domain-errors"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestWriteSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusCreated, "created", map[string]any{"policy": map[string]any{"title": "Term Life"}})

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	body := decode(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "created", body["message"])
	assert.Contains(t, body, "policy")
}

func TestWriteSuccessOmitsEmptyMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteSuccess(rec, http.StatusOK, "", nil)

	body := decode(t, rec)
	assert.NotContains(t, body, "message")
}

func TestWriteErrorStatusMapping(t *testing.T) {
	tests := []struct {
		code dErrors.Code
		want int
	}{
		{dErrors.CodeValidation, http.StatusBadRequest},
		{dErrors.CodeUnauthenticated, http.StatusUnauthorized},
		{dErrors.CodeForbidden, http.StatusForbidden},
		{dErrors.CodeNotFound, http.StatusNotFound},
		{dErrors.CodeInternal, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			rec := httptest.NewRecorder()
			WriteError(rec, dErrors.New(tt.code, "boom"))

			assert.Equal(t, tt.want, rec.Code)
			body := decode(t, rec)
			assert.Equal(t, false, body["success"])
			assert.Equal(t, string(tt.code), body["error"])
		})
	}
}

func TestWriteErrorMasksNonDomainErrors(t *testing.T) {
	rec := httptest.NewRecorder()
	WriteError(rec, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decode(t, rec)
	assert.Equal(t, string(dErrors.CodeInternal), body["error"])
	assert.Equal(t, "something went wrong", body["message"])
}

func TestNumberUnmarshal(t *testing.T) {
	var payload struct {
		Amount *Number `json:"amount"`
	}

	require.NoError(t, json.Unmarshal([]byte(`{"amount": 4200}`), &payload))
	assert.Equal(t, int64(4200), payload.Amount.Int64())

	require.NoError(t, json.Unmarshal([]byte(`{"amount": "99.5"}`), &payload))
	assert.Equal(t, 99.5, payload.Amount.Float())
	assert.Equal(t, 99, payload.Amount.Int())

	require.NoError(t, json.Unmarshal([]byte(`{"amount": null}`), &payload))

	err := json.Unmarshal([]byte(`{"amount": "lots"}`), &payload)
	assert.Error(t, err)
}
