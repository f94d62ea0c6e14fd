package main

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteJSON(t *testing.T) {
	rec := httptest.NewRecorder()
	writeJSON(rec, http.StatusCreated, map[string]int{"id": 7})
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"id":7}`, rec.Body.String())

	rec = httptest.NewRecorder()
	writeJSON(rec, http.StatusNoContent, nil)
	assert.Empty(t, rec.Body.String())
}

func TestWriteError(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, http.StatusBadRequest, "invalid_json")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"error":"invalid_json"}`, rec.Body.String())
}

func TestDecodeJSONLimitsBody(t *testing.T) {
	var v map[string]string

	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"a":"b"}`))
	require.NoError(t, decodeJSON(httptest.NewRecorder(), req, &v))
	assert.Equal(t, "b", v["a"])

	big := `{"a":"` + strings.Repeat("x", maxBodyBytes) + `"}`
	req = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(big))
	assert.Error(t, decodeJSON(httptest.NewRecorder(), req, &v))
}
