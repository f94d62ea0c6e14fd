package main

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// openTestStore connects to the database named by INTERLINK_TEST_DATABASE_URL
// and skips the test when it is unset.
func openTestStore(t *testing.T) *pgStore {
	t.Helper()
	dsn := os.Getenv("INTERLINK_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("INTERLINK_TEST_DATABASE_URL not set")
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	db, err := openDB(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return newPGStore(db)
}

func uniqueTestEmail(prefix string) string {
	return fmt.Sprintf("%s_%d@example.com", prefix, time.Now().UnixNano())
}

func TestPGStoreUsers(t *testing.T) {
	st := openTestStore(t)
	ctx := t.Context()
	email := uniqueTestEmail("pg_user")

	u, err := st.CreateUser(ctx, email, "hash")
	require.NoError(t, err)
	assert.NotZero(t, u.ID)

	_, err = st.CreateUser(ctx, email, "hash")
	assert.ErrorIs(t, err, errEmailExists)

	got, err := st.UserByEmail(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)
	assert.Equal(t, "hash", got.PasswordHash)
	require.NoError(t, st.TouchUser(ctx, u.ID))

	_, err = st.UserByEmail(ctx, uniqueTestEmail("missing"))
	assert.ErrorIs(t, err, errNotFound)

	members, err := st.UsersByEmail(ctx, []string{email, "nobody@example.com"})
	require.NoError(t, err)
	assert.Len(t, members, 1)
	assert.Contains(t, members, email)
}

func TestPGStoreApplyAboutMe(t *testing.T) {
	st := openTestStore(t)
	ctx := t.Context()
	email := uniqueTestEmail("pg_aboutme")
	invitee := uniqueTestEmail("pg_invitee")
	key := uniqueTestEmail("key")

	p := aboutme.Payload{
		EmailID:      email,
		Bio:          "5 years",
		Interests:    []string{"hiking"},
		Skills:       []string{"Go", "SQL"},
		Endorsements: []string{},
		Invitation:   []string{invitee},
	}
	res, err := st.ApplyAboutMe(ctx, key, p)
	require.NoError(t, err)
	assert.Equal(t, Applied{Invited: 1}, res)

	res, err = st.ApplyAboutMe(ctx, key, p)
	require.NoError(t, err)
	assert.Equal(t, Applied{Invited: 1, Duplicate: true}, res)

	_, err = st.ApplyInvite(ctx, key, aboutme.InvitePayload{EmailID: email, Invitation: []string{invitee}})
	assert.ErrorIs(t, err, errKeyReused)
	other := p
	other.EmailID = uniqueTestEmail("pg_other")
	_, err = st.ApplyAboutMe(ctx, key, other)
	assert.ErrorIs(t, err, errKeyReused)

	p.Bio = "6 years"
	res, err = st.ApplyAboutMe(ctx, "", p)
	require.NoError(t, err)
	assert.Equal(t, Applied{}, res)

	stored, err := st.AboutMe(ctx, email)
	require.NoError(t, err)
	assert.Equal(t, "6 years", stored.Bio)
	assert.Equal(t, []string{"Go", "SQL"}, stored.Skills)
	assert.Empty(t, stored.Endorsements)

	invitations, err := st.Invitations(ctx, email)
	require.NoError(t, err)
	require.Len(t, invitations, 1)
	assert.Equal(t, invitee, invitations[0].Email)

	_, err = st.AboutMe(ctx, uniqueTestEmail("missing"))
	assert.ErrorIs(t, err, errNotFound)
}

func TestPGStoreApplyInvite(t *testing.T) {
	st := openTestStore(t)
	ctx := t.Context()
	email := uniqueTestEmail("pg_inviter")

	res, err := st.ApplyInvite(ctx, "", aboutme.InvitePayload{
		EmailID:    email,
		Invitation: []string{"a@b.com", "c@d.org"},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, res.Invited)

	res, err = st.ApplyInvite(ctx, "", aboutme.InvitePayload{
		EmailID:    email,
		Invitation: []string{"a@b.com", "e@f.net"},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, res.Invited)
}
