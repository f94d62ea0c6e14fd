package main

import (
	"math/rand"
	"testing"

	"gitea.kood.tech/petrkubec/interlink/aboutme"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	ok := cfg{DSN: "postgres://x", Count: 1, ProfileRate: 0.5, InviteRate: 0.5}
	require.NoError(t, ok.validate())

	tests := map[string]cfg{
		"missing dsn":  {Count: 1},
		"zero count":   {DSN: "postgres://x"},
		"rate too big": {DSN: "postgres://x", Count: 1, ProfileRate: 1.5},
		"negative":     {DSN: "postgres://x", Count: 1, InviteRate: -0.1},
	}
	for name, c := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Error(t, c.validate())
		})
	}
}

func TestRandomCardIsDeterministicAndValid(t *testing.T) {
	a := randomCard(rand.New(rand.NewSource(7)))
	b := randomCard(rand.New(rand.NewSource(7)))
	assert.Equal(t, a, b)

	assert.NotEmpty(t, a.Bio)
	assert.NotEmpty(t, a.Skills)
	for _, list := range [][]string{a.Skills, a.Interests, a.Endorsements} {
		normalized, err := aboutme.Normalize(list, nil)
		require.NoError(t, err)
		assert.Len(t, normalized, len(list), "no duplicates")
	}
}

func TestUniqueEmail(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	used := map[string]struct{}{}
	for i := 0; i < 50; i++ {
		email := uniqueEmail(r, used)
		assert.True(t, aboutme.IsEmail(email), email)
	}
	assert.Len(t, used, 50)
}
