package main

import (
	"context"
	"sync"
	"time"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
)

// memStore is an in-memory Store for handler tests.
type memStore struct {
	mu          sync.Mutex
	users       map[string]User
	profiles    map[string]aboutme.Payload
	invitations map[string][]Invitation
	keys        map[string]memKey

	err          error // returned by every Apply call when set
	applies      int
	batchLookups int
}

func newMemStore() *memStore {
	return &memStore{
		users:       make(map[string]User),
		profiles:    make(map[string]aboutme.Payload),
		invitations: make(map[string][]Invitation),
		keys:        make(map[string]memKey),
	}
}

type memKey struct {
	action, emailID string
	invited         int
}

// claim mirrors claimKey of the Postgres store.
func (s *memStore) claim(key, action, emailID string) (bool, int, error) {
	if key == "" {
		return false, 0, nil
	}
	k, ok := s.keys[key]
	if !ok {
		s.keys[key] = memKey{action: action, emailID: emailID}
		return false, 0, nil
	}
	if k.action != action || k.emailID != emailID {
		return false, 0, errKeyReused
	}
	return true, k.invited, nil
}

func (s *memStore) finish(key string, invited int) {
	if k, ok := s.keys[key]; ok {
		k.invited = invited
		s.keys[key] = k
	}
}

func (s *memStore) CreateUser(_ context.Context, email, passwordHash string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[email]; ok {
		return User{}, errEmailExists
	}
	u := User{ID: len(s.users) + 1, Email: email, PasswordHash: passwordHash, CreatedAt: time.Now()}
	s.users[email] = u
	return u, nil
}

func (s *memStore) UserByEmail(_ context.Context, email string) (User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[email]
	if !ok {
		return User{}, errNotFound
	}
	return u, nil
}

func (s *memStore) UsersByEmail(_ context.Context, emails []string) (map[string]User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batchLookups++
	out := make(map[string]User)
	for _, e := range emails {
		if u, ok := s.users[e]; ok {
			out[e] = u
		}
	}
	return out, nil
}

func (s *memStore) TouchUser(context.Context, int) error { return nil }

func (s *memStore) ApplyAboutMe(_ context.Context, key string, p aboutme.Payload) (Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Applied{}, s.err
	}
	seen, prev, err := s.claim(key, aboutme.ActionAboutMe, p.EmailID)
	if err != nil || seen {
		return Applied{Invited: prev, Duplicate: seen}, err
	}
	s.applies++
	stored := p
	stored.Invitation = []string{}
	s.profiles[p.EmailID] = stored
	invited := s.addInvitations(p.EmailID, p.Invitation)
	s.finish(key, invited)
	return Applied{Invited: invited}, nil
}

func (s *memStore) ApplyInvite(_ context.Context, key string, p aboutme.InvitePayload) (Applied, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return Applied{}, s.err
	}
	seen, prev, err := s.claim(key, aboutme.ActionInvite, p.EmailID)
	if err != nil || seen {
		return Applied{Invited: prev, Duplicate: seen}, err
	}
	s.applies++
	invited := s.addInvitations(p.EmailID, p.Invitation)
	s.finish(key, invited)
	return Applied{Invited: invited}, nil
}

func (s *memStore) addInvitations(inviter string, invitees []string) int {
	n := 0
next:
	for _, email := range invitees {
		for _, inv := range s.invitations[inviter] {
			if inv.Email == email {
				continue next
			}
		}
		s.invitations[inviter] = append(s.invitations[inviter], Invitation{Email: email, CreatedAt: time.Now()})
		n++
	}
	return n
}

func (s *memStore) AboutMe(_ context.Context, email string) (aboutme.Payload, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.profiles[email]
	if !ok {
		return aboutme.Payload{}, errNotFound
	}
	return p, nil
}

func (s *memStore) Invitations(_ context.Context, inviter string) ([]Invitation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Invitation{}, s.invitations[inviter]...), nil
}
