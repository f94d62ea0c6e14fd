package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const tokenTTL = 24 * time.Hour

// principal is the authenticated caller.
type principal struct {
	UserID int
	Email  string
}

type principalKey struct{}

func principalFrom(ctx context.Context) (principal, bool) {
	p, ok := ctx.Value(principalKey{}).(principal)
	return p, ok
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (c *credentials) normalize() error {
	email, err := aboutme.NewEmailList().Add(c.Email)
	if err != nil {
		return err
	}
	c.Email = email
	c.Password = strings.TrimSpace(c.Password)
	if c.Password == "" {
		return errors.New("empty password")
	}
	return nil
}

func registerHandler(st Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		var req credentials
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := req.normalize(); err != nil {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
		if err != nil {
			logger.Error("Error hashing password", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "hash_error")
			return
		}

		user, err := st.CreateUser(r.Context(), req.Email, string(hashedPassword))
		if errors.Is(err, errEmailExists) {
			writeError(w, http.StatusConflict, "email_exists")
			return
		}
		if err != nil {
			logger.Error("Error saving user to database", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "register_error")
			return
		}

		tokenString, err := issueToken(user)
		if err != nil {
			logger.Error("Error generating token for new user", zap.Int("user_id", user.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			return
		}
		writeJSON(w, http.StatusCreated, map[string]interface{}{"token": tokenString, "id": user.ID})
	}
}

func loginHandler(st Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			writeError(w, http.StatusMethodNotAllowed, "invalid_method")
			return
		}

		var req credentials
		if err := decodeJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json")
			return
		}
		if err := req.normalize(); err != nil {
			writeError(w, http.StatusBadRequest, "missing_fields")
			return
		}

		user, err := st.UserByEmail(r.Context(), req.Email)
		if errors.Is(err, errNotFound) {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		if err != nil {
			logger.Error("Error querying user", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "db_error")
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			writeError(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}

		if err := st.TouchUser(r.Context(), user.ID); err != nil {
			// Don't fail login, just log the error
			logger.Warn("Failed to update last_online", zap.Int("user_id", user.ID), zap.Error(err))
		}

		tokenString, err := issueToken(user)
		if err != nil {
			logger.Error("Error generating token", zap.Int("user_id", user.ID), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "token_generation_error")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{"token": tokenString, "id": user.ID})
	}
}

func issueToken(u User) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": u.ID,
		"email":   u.Email,
		"exp":     time.Now().Add(tokenTTL).Unix(),
	})
	return token.SignedString(jwtSecret)
}

func parseToken(tokenStr string) (principal, error) {
	claims := jwt.MapClaims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return jwtSecret, nil
	})
	if err != nil {
		return principal{}, err
	}
	if !token.Valid {
		return principal{}, errors.New("invalid token")
	}

	// jwt.MapClaims stores numbers as float64 by default
	id, ok := claims["user_id"].(float64)
	if !ok {
		return principal{}, errors.New("missing user_id claim")
	}
	email, _ := claims["email"].(string)
	return principal{UserID: int(id), Email: email}, nil
}

// bearerToken returns the token of the Authorization header.
func bearerToken(r *http.Request) (string, bool) {
	auth := r.Header.Get("Authorization")
	tok, ok := strings.CutPrefix(auth, "Bearer ")
	return tok, ok && tok != ""
}

// socketToken is bearerToken with a fallback to the token query parameter,
// since browsers can't set headers on a websocket handshake.
func socketToken(r *http.Request) (string, bool) {
	if r.Header.Get("Authorization") != "" {
		return bearerToken(r)
	}
	if q := r.URL.Query().Get("token"); q != "" {
		return q, true
	}
	return "", false
}

func authenticate(next http.HandlerFunc) http.HandlerFunc {
	return authenticateWith(bearerToken, next)
}

func authenticateWith(token func(*http.Request) (string, bool), next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		tok, ok := token(r)
		if !ok {
			writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		p, err := parseToken(tok)
		if err != nil || p.Email == "" {
			writeError(w, http.StatusUnauthorized, "invalid_token")
			return
		}
		next(w, r.WithContext(context.WithValue(r.Context(), principalKey{}, p)))
	}
}
