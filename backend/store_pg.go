package main

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/lib/pq"
)

// pgStore is the Postgres Store.
type pgStore struct {
	db *sql.DB
}

func newPGStore(db *sql.DB) *pgStore {
	return &pgStore{db: db}
}

func (s *pgStore) CreateUser(ctx context.Context, email, passwordHash string) (User, error) {
	u := User{Email: email, PasswordHash: passwordHash}
	err := s.db.QueryRowContext(ctx,
		"INSERT INTO users (email, password_hash, last_online) VALUES ($1, $2, NOW()) RETURNING id, created_at",
		email, passwordHash,
	).Scan(&u.ID, &u.CreatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return User{}, errEmailExists
		}
		return User{}, err
	}
	return u, nil
}

func (s *pgStore) UserByEmail(ctx context.Context, email string) (User, error) {
	var u User
	err := s.db.QueryRowContext(ctx,
		"SELECT id, email, password_hash, created_at FROM users WHERE email = $1", email,
	).Scan(&u.ID, &u.Email, &u.PasswordHash, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return User{}, errNotFound
	}
	return u, err
}

func (s *pgStore) UsersByEmail(ctx context.Context, emails []string) (map[string]User, error) {
	out := make(map[string]User, len(emails))
	if len(emails) == 0 {
		return out, nil
	}
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, email, created_at FROM users WHERE email = ANY($1)", pq.Array(emails))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var u User
		if err := rows.Scan(&u.ID, &u.Email, &u.CreatedAt); err != nil {
			return nil, err
		}
		out[u.Email] = u
	}
	return out, rows.Err()
}

func (s *pgStore) TouchUser(ctx context.Context, id int) error {
	_, err := s.db.ExecContext(ctx, "UPDATE users SET last_online = NOW() WHERE id = $1", id)
	return err
}

func (s *pgStore) ApplyAboutMe(ctx context.Context, key string, p aboutme.Payload) (Applied, error) {
	var res Applied
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		seen, invited, err := claimKey(ctx, tx, key, aboutme.ActionAboutMe, p.EmailID)
		if err != nil {
			return err
		}
		if seen {
			res = Applied{Invited: invited, Duplicate: true}
			return nil
		}

		_, err = tx.ExecContext(ctx, `
			INSERT INTO about_me (email_id, bio, interests, skills, endorsements, updated_at)
			VALUES ($1, $2, $3, $4, $5, NOW())
			ON CONFLICT (email_id) DO UPDATE SET
				bio = EXCLUDED.bio,
				interests = EXCLUDED.interests,
				skills = EXCLUDED.skills,
				endorsements = EXCLUDED.endorsements,
				updated_at = NOW()
		`, p.EmailID, p.Bio, pq.Array(p.Interests), pq.Array(p.Skills), pq.Array(p.Endorsements))
		if err != nil {
			return err
		}

		if res.Invited, err = insertInvitations(ctx, tx, p.EmailID, p.Invitation); err != nil {
			return err
		}
		return finishKey(ctx, tx, key, res.Invited)
	})
	return res, err
}

func (s *pgStore) ApplyInvite(ctx context.Context, key string, p aboutme.InvitePayload) (Applied, error) {
	var res Applied
	err := withTx(ctx, s.db, func(tx *sql.Tx) error {
		seen, invited, err := claimKey(ctx, tx, key, aboutme.ActionInvite, p.EmailID)
		if err != nil {
			return err
		}
		if seen {
			res = Applied{Invited: invited, Duplicate: true}
			return nil
		}
		if res.Invited, err = insertInvitations(ctx, tx, p.EmailID, p.Invitation); err != nil {
			return err
		}
		return finishKey(ctx, tx, key, res.Invited)
	})
	return res, err
}

func (s *pgStore) AboutMe(ctx context.Context, email string) (aboutme.Payload, error) {
	p := aboutme.Payload{EmailID: email}
	err := s.db.QueryRowContext(ctx,
		"SELECT bio, interests, skills, endorsements FROM about_me WHERE email_id = $1", email,
	).Scan(&p.Bio, pq.Array(&p.Interests), pq.Array(&p.Skills), pq.Array(&p.Endorsements))
	if errors.Is(err, sql.ErrNoRows) {
		return aboutme.Payload{}, errNotFound
	}
	if err != nil {
		return aboutme.Payload{}, err
	}
	p.Invitation = []string{}
	return p, nil
}

func (s *pgStore) Invitations(ctx context.Context, inviter string) ([]Invitation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT invitee_email, created_at
		FROM invitations
		WHERE inviter_email = $1
		ORDER BY created_at, invitee_email
	`, inviter)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Invitation{}
	for rows.Next() {
		var inv Invitation
		if err := rows.Scan(&inv.Email, &inv.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, inv)
	}
	return out, rows.Err()
}

// claimKey records an idempotency key. It reports whether the key was used
// before and, if so, how many invitations that request recorded. A key first
// used with another action or email_id yields errKeyReused.
func claimKey(ctx context.Context, tx *sql.Tx, key, action, emailID string) (bool, int, error) {
	if key == "" {
		return false, 0, nil
	}
	res, err := tx.ExecContext(ctx, `
		INSERT INTO submission_keys (key, action, email_id)
		VALUES ($1, $2, $3)
		ON CONFLICT (key) DO NOTHING
	`, key, action, emailID)
	if err != nil {
		return false, 0, err
	}
	if n, err := res.RowsAffected(); err != nil || n == 1 {
		return false, 0, err
	}
	var (
		prevAction, prevEmail string
		invited               int
	)
	err = tx.QueryRowContext(ctx,
		"SELECT action, email_id, invited FROM submission_keys WHERE key = $1", key,
	).Scan(&prevAction, &prevEmail, &invited)
	if err != nil {
		return false, 0, err
	}
	if prevAction != action || prevEmail != emailID {
		return false, 0, errKeyReused
	}
	return true, invited, nil
}

func finishKey(ctx context.Context, tx *sql.Tx, key string, invited int) error {
	if key == "" {
		return nil
	}
	_, err := tx.ExecContext(ctx, "UPDATE submission_keys SET invited = $2 WHERE key = $1", key, invited)
	return err
}

// insertInvitations records new invitees and returns how many were new.
func insertInvitations(ctx context.Context, tx *sql.Tx, inviter string, invitees []string) (int, error) {
	now := time.Now()
	invited := 0
	for _, email := range invitees {
		res, err := tx.ExecContext(ctx, `
			INSERT INTO invitations (inviter_email, invitee_email, created_at)
			VALUES ($1, $2, $3)
			ON CONFLICT DO NOTHING
		`, inviter, email, now)
		if err != nil {
			return 0, err
		}
		if n, _ := res.RowsAffected(); n == 1 {
			invited++
		}
	}
	return invited, nil
}
