package aboutme

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// ErrNoIdentity is returned when no user identity is available for a submission.
var ErrNoIdentity = errors.New("aboutme: no user identity")

// IdentityProvider supplies the email that identifies the submitting user.
type IdentityProvider interface {
	Identity(ctx context.Context) (string, error)
}

// StaticIdentity is a fixed, configured email.
type StaticIdentity string

func (s StaticIdentity) Identity(context.Context) (string, error) {
	v := strings.TrimSpace(string(s))
	if v == "" {
		return "", ErrNoIdentity
	}
	return v, nil
}

// TokenIdentity reads the "email" claim of an Interlink login token. The
// signature is not checked here; the server verifies the token it receives in
// the Authorization header.
type TokenIdentity struct {
	Token string
}

func (t TokenIdentity) Identity(context.Context) (string, error) {
	if strings.TrimSpace(t.Token) == "" {
		return "", ErrNoIdentity
	}
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(t.Token, claims); err != nil {
		return "", fmt.Errorf("aboutme: parse token: %w", err)
	}
	email, ok := claims["email"].(string)
	if !ok || strings.TrimSpace(email) == "" {
		return "", ErrNoIdentity
	}
	return email, nil
}
