package main

import (
	"context"
	"errors"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
)

var (
	errNotFound    = errors.New("not found")
	errEmailExists = errors.New("email already registered")
	errKeyReused   = errors.New("idempotency key used by a different request")
)

// User is a registered Interlink account.
type User struct {
	ID           int       `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Invitation is one invitee recorded for an inviter.
type Invitation struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	Joined    bool      `json:"joined"`
}

// Applied reports what a submission changed.
type Applied struct {
	Invited   int
	Duplicate bool
}

// Store is the persistence used by the handlers. An empty idempotency key
// disables replay detection for that call.
type Store interface {
	CreateUser(ctx context.Context, email, passwordHash string) (User, error)
	UserByEmail(ctx context.Context, email string) (User, error)
	UsersByEmail(ctx context.Context, emails []string) (map[string]User, error)
	TouchUser(ctx context.Context, id int) error

	ApplyAboutMe(ctx context.Context, key string, p aboutme.Payload) (Applied, error)
	ApplyInvite(ctx context.Context, key string, p aboutme.InvitePayload) (Applied, error)
	AboutMe(ctx context.Context, email string) (aboutme.Payload, error)
	Invitations(ctx context.Context, inviter string) ([]Invitation, error)
}
