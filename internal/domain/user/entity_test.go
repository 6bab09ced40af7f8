package user

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/practicum-go/filmorate/internal/domain/shared"
)

func validUser() *User {
	return &User{
		Email:    "nick@example.com",
		Login:    "nick",
		Name:     "Николай",
		Birthday: time.Date(1990, time.March, 15, 0, 0, 0, 0, time.UTC),
	}
}

func TestUserValidate(t *testing.T) {
	t.Run("valid user passes", func(t *testing.T) {
		assert.NoError(t, validUser().Validate())
	})

	t.Run("empty email rejected", func(t *testing.T) {
		u := validUser()
		u.Email = ""
		assert.ErrorIs(t, u.Validate(), shared.ErrInvalidFormat)
	})

	t.Run("email without at sign rejected", func(t *testing.T) {
		u := validUser()
		u.Email = "nick.example.com"
		assert.ErrorIs(t, u.Validate(), shared.ErrInvalidFormat)
	})

	t.Run("empty login rejected", func(t *testing.T) {
		u := validUser()
		u.Login = ""
		assert.ErrorIs(t, u.Validate(), shared.ErrInvalidFormat)
	})

	t.Run("login with spaces rejected", func(t *testing.T) {
		u := validUser()
		u.Login = "ni ck"
		assert.ErrorIs(t, u.Validate(), shared.ErrInvalidFormat)
	})

	t.Run("future birthday rejected", func(t *testing.T) {
		u := validUser()
		u.Birthday = time.Now().AddDate(1, 0, 0)
		assert.ErrorIs(t, u.Validate(), shared.ErrFutureTimestamp)
	})
}

func TestUserNormalizeName(t *testing.T) {
	t.Run("empty name replaced with login", func(t *testing.T) {
		u := validUser()
		u.Name = ""
		u.NormalizeName()
		assert.Equal(t, "nick", u.Name)
	})

	t.Run("blank name replaced with login", func(t *testing.T) {
		u := validUser()
		u.Name = "   "
		u.NormalizeName()
		assert.Equal(t, "nick", u.Name)
	})

	t.Run("present name kept", func(t *testing.T) {
		u := validUser()
		u.NormalizeName()
		assert.Equal(t, "Николай", u.Name)
	})
}

func TestUserApplyUpdate(t *testing.T) {
	u := validUser()
	u.ID = 3

	payload := &User{
		ID:       42,
		Email:    "new@example.com",
		Login:    "newlogin",
		Name:     "Новый",
		Birthday: time.Date(1985, time.June, 1, 0, 0, 0, 0, time.UTC),
	}

	u.ApplyUpdate(payload)
	assert.Equal(t, int64(3), u.ID)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "newlogin", u.Login)
	assert.Equal(t, "Новый", u.Name)
	assert.Equal(t, payload.Birthday, u.Birthday)
}

func TestFriendshipEdge(t *testing.T) {
	t.Run("new edge starts pending", func(t *testing.T) {
		e := NewFriendshipEdge(1, 2)
		assert.Equal(t, StatusPending, e.Status)
		assert.False(t, e.IsApproved())
		assert.False(t, e.CreatedAt.IsZero())
	})

	t.Run("status validity", func(t *testing.T) {
		assert.True(t, StatusPending.IsValid())
		assert.True(t, StatusApproved.IsValid())
		assert.False(t, FriendshipStatus("blocked").IsValid())
	})
}
