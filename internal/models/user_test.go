package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

func TestUserAdminScenario(t *testing.T) {
	f := setup(t)

	u := f.m.NewUser()
	require.NoError(t, u.Create(UserAttributes{Username: "Admin", Email: "admin@gmail.com", Password: "admin"}))
	require.True(t, u.Save(), u.GetLastError())
	assert.True(t, u.IsPersisted())
	require.NotZero(t, u.ID())

	found, err := f.m.FindUserByID(u.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "Admin", found.Username())
	assert.True(t, found.CheckPassword("admin"))

	require.True(t, found.SetUsername("Soso2"), found.GetLastError())
	require.True(t, found.SetPassword("soso2"), found.GetLastError())
	require.True(t, found.Save(), found.GetLastError())

	again, err := f.m.FindUserByID(u.ID())
	require.NoError(t, err)
	require.NotNil(t, again)
	assert.Equal(t, "Soso2", again.Username())
	assert.True(t, again.CheckPassword("soso2"))
	assert.False(t, again.CheckPassword("admin"))
}

func TestUserRoundTrip(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")

	found, err := f.m.FindUserByID(u.ID())
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, u.View(), found.View())
	assert.Equal(t, int64(1_700_000_000), found.CreatedAt())
}

func TestUsernameBoundaries(t *testing.T) {
	tests := []struct {
		name     string
		username string
		ok       bool
	}{
		{"two characters", "ab", false},
		{"three characters", "abc", true},
		{"twenty characters", strings.Repeat("a", 20), true},
		{"twenty-one characters", strings.Repeat("a", 21), false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := setup(t)

			u := f.m.NewUser()
			err := u.Create(UserAttributes{Username: tt.username, Email: "a@b.io", Password: "pw"})
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, types.ErrInvalidField)
				assert.Contains(t, u.GetLastError(), "username")
			}

			other := f.m.NewUser()
			assert.Equal(t, tt.ok, other.SetUsername(tt.username))
		})
	}
}

func TestEmailValidation(t *testing.T) {
	f := setup(t)
	tests := []struct {
		email string
		ok    bool
	}{
		{"admin@gmail.com", true},
		{"first.last+tag@mail.example.org", true},
		{"no-at-sign.com", false},
		{"user@domain", false},
		{"user@domain.c", false},
		{"@domain.com", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			u := f.m.NewUser()
			assert.Equal(t, tt.ok, u.SetEmail(tt.email), u.GetLastError())
		})
	}
}

func TestUserSettersRejectUnchanged(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")

	assert.False(t, u.SetUsername("alice"))
	assert.Contains(t, u.GetLastError(), "username")

	assert.False(t, u.SetEmail("alice@example.com"))
	assert.Contains(t, u.GetLastError(), "email")

	assert.False(t, u.SetPassword("secret"))
	assert.Contains(t, u.GetLastError(), "password")

	assert.False(t, u.SetPassword(""))
	assert.Contains(t, u.GetLastError(), types.ErrInvalidField.Error())
}

func TestLastErrorSurvivesSuccess(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")

	require.False(t, u.SetUsername("x"))
	msg := u.GetLastError()
	require.NotEmpty(t, msg)

	require.True(t, u.SetUsername("alicia"))
	assert.Equal(t, msg, u.GetLastError())
}

func TestUserSaveTwiceWithoutChanges(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")

	require.True(t, u.Save())
	require.True(t, u.Save())
	assert.Equal(t, 0, f.store.updates)
}

func TestUserSaveUpdatesOnlyChangedColumns(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")
	hash := u.passwordHash

	f.clock.Advance(time.Hour)
	require.True(t, u.SetEmail("new@example.com"))
	require.True(t, u.Save(), u.GetLastError())
	assert.Equal(t, 1, f.store.updates)

	found, err := f.m.FindUserByID(u.ID())
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", found.Email())
	assert.Equal(t, "alice", found.Username())
	assert.Equal(t, hash, found.passwordHash)
	assert.Equal(t, int64(1_700_003_600), found.UpdatedAt())
	assert.Equal(t, int64(1_700_000_000), found.CreatedAt())
}

func TestUserSaveWithoutCreate(t *testing.T) {
	f := setup(t)
	u := f.m.NewUser()

	assert.False(t, u.Save())
	assert.Equal(t, types.ErrNotCreated.Error(), u.GetLastError())
	assert.False(t, u.IsPersisted())
}

func TestUserDelete(t *testing.T) {
	f := setup(t)
	u := f.user(t, "alice")
	task := f.task(t, u.ID(), "orphan")

	require.True(t, u.Delete(), u.GetLastError())
	assert.False(t, u.IsPersisted())

	found, err := f.m.FindUserByID(u.ID())
	require.NoError(t, err)
	assert.Nil(t, found)

	// Tasks are not cascaded.
	orphan, err := f.m.FindTaskByID(task.ID())
	require.NoError(t, err)
	assert.NotNil(t, orphan)

	transient := f.m.NewUser()
	assert.False(t, transient.Delete())
	assert.Equal(t, types.ErrTransient.Error(), transient.GetLastError())
}

func TestPasswordByteLimit(t *testing.T) {
	f := setup(t)

	tests := []struct {
		name     string
		password string
		ok       bool
	}{
		{"72 ascii bytes", strings.Repeat("a", 72), true},
		{"73 ascii bytes", strings.Repeat("a", 73), false},
		{"36 two-byte runes", strings.Repeat("é", 36), true},
		{"37 two-byte runes", strings.Repeat("é", 37), false},
	}
	for i, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := f.m.NewUser()
			err := u.Create(UserAttributes{
				Username: "user" + strings.Repeat("x", i),
				Email:    "u@example.com",
				Password: tt.password,
			})
			if !tt.ok {
				assert.ErrorIs(t, err, types.ErrInvalidField)
				assert.Contains(t, u.GetLastError(), "72 bytes")
				return
			}
			require.NoError(t, err)
			require.True(t, u.Save(), u.GetLastError())
			assert.True(t, u.CheckPassword(tt.password))
		})
	}
}

func TestSetPasswordByteLimit(t *testing.T) {
	f := setup(t)
	u := f.user(t, "limits")

	assert.False(t, u.SetPassword(strings.Repeat("b", 73)))
	assert.ErrorIs(t, u.LastErr(), types.ErrInvalidField)
	assert.True(t, u.CheckPassword("secret"), "rejected password leaves the hash alone")

	assert.True(t, u.SetPassword(strings.Repeat("b", 72)), u.GetLastError())
}
