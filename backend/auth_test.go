package main

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	st := newMemStore()
	mux := newMux(st, newHub())
	creds := map[string]string{"email": "  new@example.com ", "password": "password123"}

	rec := doJSON(t, mux, http.MethodPost, "/register", creds, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
	body := decodeBody(t, rec)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)

	p, err := parseToken(token)
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", p.Email)
	assert.EqualValues(t, body["id"], p.UserID)

	rec = doJSON(t, mux, http.MethodPost, "/register", creds, nil)
	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, "email_exists", decodeBody(t, rec)["error"])

	rec = doJSON(t, mux, http.MethodPost, "/login", creds, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.NotEmpty(t, decodeBody(t, rec)["token"])

	rec = doJSON(t, mux, http.MethodPost, "/login", map[string]string{"email": "new@example.com", "password": "wrong"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid_credentials", decodeBody(t, rec)["error"])

	rec = doJSON(t, mux, http.MethodPost, "/login", map[string]string{"email": "nobody@example.com", "password": "x"}, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRegisterValidation(t *testing.T) {
	mux := newMux(newMemStore(), newHub())

	tests := []struct {
		name   string
		method string
		body   any
		status int
	}{
		{"wrong method", http.MethodGet, nil, http.StatusMethodNotAllowed},
		{"malformed json", http.MethodPost, "{", http.StatusBadRequest},
		{"missing password", http.MethodPost, map[string]string{"email": "a@b.com"}, http.StatusBadRequest},
		{"bad email", http.MethodPost, map[string]string{"email": "ab.com", "password": "x"}, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, mux, tt.method, "/register", tt.body, nil)
			assert.Equal(t, tt.status, rec.Code)
		})
	}
}

func TestParseToken(t *testing.T) {
	t.Run("expired", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"email":   "a@b.com",
			"exp":     time.Now().Add(-time.Hour).Unix(),
		}).SignedString(jwtSecret)
		require.NoError(t, err)
		_, err = parseToken(tok)
		assert.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
			"user_id": 1,
			"email":   "a@b.com",
		}).SignedString([]byte("other"))
		require.NoError(t, err)
		_, err = parseToken(tok)
		assert.Error(t, err)
	})

	t.Run("missing user_id", func(t *testing.T) {
		tok, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"email": "a@b.com"}).SignedString(jwtSecret)
		require.NoError(t, err)
		_, err = parseToken(tok)
		assert.Error(t, err)
	})
}

func TestBearerToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	_, ok := bearerToken(req)
	assert.False(t, ok)

	req.Header.Set("Authorization", "Bearer abc")
	tok, ok := bearerToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	req.Header.Set("Authorization", "NotBearer abc")
	_, ok = bearerToken(req)
	assert.False(t, ok)

	req = httptest.NewRequest(http.MethodGet, "/test?token=xyz", nil)
	_, ok = bearerToken(req)
	assert.False(t, ok, "query tokens are only read on the websocket route")
}

func TestSocketToken(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/ws/aboutme?token=xyz", nil)
	tok, ok := socketToken(req)
	assert.True(t, ok)
	assert.Equal(t, "xyz", tok)

	req.Header.Set("Authorization", "Bearer abc")
	tok, ok = socketToken(req)
	assert.True(t, ok)
	assert.Equal(t, "abc", tok)

	req = httptest.NewRequest(http.MethodGet, "/ws/aboutme", nil)
	_, ok = socketToken(req)
	assert.False(t, ok)
}

func TestQueryTokenRejectedOutsideWebSocket(t *testing.T) {
	st := newMemStore()
	user := createTestUser(t, st, "me@example.com")
	mux := newMux(st, newHub())

	rec := doJSON(t, mux, http.MethodGet, "/me/aboutme?token="+user.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, mux, http.MethodGet, "/me/invitations?token="+user.Token, nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthenticate(t *testing.T) {
	st := newMemStore()
	user := createTestUser(t, st, "me@example.com")

	var got principal
	h := authenticate(func(w http.ResponseWriter, r *http.Request) {
		got, _ = principalFrom(r.Context())
		w.WriteHeader(http.StatusNoContent)
	})

	rec := doJSON(t, h, http.MethodGet, "/", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/", nil, map[string]string{"Authorization": "Bearer invalid_token"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = doJSON(t, h, http.MethodGet, "/", nil, map[string]string{"Authorization": "Bearer " + user.Token})
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, principal{UserID: user.ID, Email: "me@example.com"}, got)
}
