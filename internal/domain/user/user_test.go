//go:build unit

package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRole(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    Role
		wantErr bool
	}{
		{"user", "user", RoleUser, false},
		{"admin", "admin", RoleAdmin, false},
		{"unknown", "superuser", "", true},
		{"empty", "", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewRole(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidRole)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRole_Level(t *testing.T) {
	assert.Greater(t, RoleAdmin.Level(), RoleUser.Level())
	assert.Greater(t, RoleUser.Level(), Role("bogus").Level())
}

func TestUser_AddStrikes(t *testing.T) {
	u := NewUser("alice", "alice@example.com", "hash", RoleUser)

	require.NoError(t, u.AddStrikes(2))
	require.NoError(t, u.AddStrikes(1))
	assert.Equal(t, 3, u.TotalStrikes())

	assert.ErrorIs(t, u.AddStrikes(-1), ErrNegativeStrikes)
	assert.Equal(t, 3, u.TotalStrikes())
}

func TestUser_ClearBanIfExpired(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("expired ban is lifted", func(t *testing.T) {
		u := NewUser("bob", "bob@example.com", "hash", RoleUser)
		past := now.Add(-time.Hour)
		u.Ban(&past, "3 strikes")

		cleared := u.ClearBanIfExpired(now)
		assert.True(t, cleared)
		assert.False(t, u.IsBanned())
		assert.Nil(t, u.BanUntil())
		assert.Nil(t, u.BanReason())
	})

	t.Run("active ban stays", func(t *testing.T) {
		u := NewUser("bob", "bob@example.com", "hash", RoleUser)
		future := now.Add(24 * time.Hour)
		u.Ban(&future, "3 strikes")

		assert.False(t, u.ClearBanIfExpired(now))
		assert.True(t, u.IsBanned())
	})

	t.Run("permanent ban never expires", func(t *testing.T) {
		u := NewUser("bob", "bob@example.com", "hash", RoleUser)
		u.Ban(nil, "6 strikes")

		assert.False(t, u.ClearBanIfExpired(now))
		assert.True(t, u.IsBanned())
	})

	t.Run("no ban is a no-op", func(t *testing.T) {
		u := NewUser("bob", "bob@example.com", "hash", RoleUser)
		assert.False(t, u.ClearBanIfExpired(now))
	})
}
