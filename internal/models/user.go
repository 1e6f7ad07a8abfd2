package models

import (
	"fmt"

	"github.com/mesh-intelligence/taskboard/pkg/types"
)

// User columns.
const (
	colUsername = "username"
	colEmail    = "email"
	colPassword = "password"
)

// UserAttributes is the input of User.Create.
type UserAttributes struct {
	Username string `json:"username" validate:"required,min=3,max=20"`
	Email    string `json:"email" validate:"required,email_lite"`
	Password string `json:"password" validate:"required,password_bytes"`
}

// User is an account. The password is held only as a hash.
type User struct {
	base
	username     string
	email        string
	passwordHash string
	createdAt    int64
	updatedAt    int64
}

// UserView is the exported form of a User for JSON output. It never carries
// the password hash.
type UserView struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	CreatedAt int64  `json:"created_at"`
	UpdatedAt int64  `json:"updated_at"`
}

// Create validates attrs and populates the user. The password is hashed
// immediately.
func (u *User) Create(attrs UserAttributes) error {
	if err := u.bound(); err != nil {
		return u.record(err)
	}
	if err := checkStruct(attrs); err != nil {
		return u.record(err)
	}
	hash, err := u.m.hasher.Hash(attrs.Password)
	if err != nil {
		return u.record(fmt.Errorf("hashing password: %w", err))
	}
	u.username = attrs.Username
	u.email = attrs.Email
	u.passwordHash = hash
	u.created = true
	return nil
}

func (u *User) Username() string { return u.username }
func (u *User) Email() string    { return u.email }
func (u *User) CreatedAt() int64 { return u.createdAt }
func (u *User) UpdatedAt() int64 { return u.updatedAt }

// View returns the JSON form of u.
func (u *User) View() UserView {
	return UserView{
		ID:        u.id,
		Username:  u.username,
		Email:     u.email,
		CreatedAt: u.createdAt,
		UpdatedAt: u.updatedAt,
	}
}

// SetUsername changes the username. Invalid or unchanged values are
// rejected and recorded as the last error.
func (u *User) SetUsername(username string) bool {
	if err := checkField(colUsername, username, ruleUsername); err != nil {
		u.record(err)
		return false
	}
	if username == u.username {
		u.record(fmt.Errorf("%w: username", types.ErrUnchanged))
		return false
	}
	u.username = username
	return true
}

// SetEmail changes the email address. Invalid or unchanged values are
// rejected and recorded as the last error.
func (u *User) SetEmail(email string) bool {
	if err := checkField(colEmail, email, ruleEmail); err != nil {
		u.record(err)
		return false
	}
	if email == u.email {
		u.record(fmt.Errorf("%w: email", types.ErrUnchanged))
		return false
	}
	u.email = email
	return true
}

// SetPassword hashes password and keeps the hash. An empty password, or one
// the current hash already verifies, is rejected.
func (u *User) SetPassword(password string) bool {
	if err := checkField(colPassword, password, rulePassword); err != nil {
		u.record(err)
		return false
	}
	if err := u.bound(); err != nil {
		u.record(err)
		return false
	}
	if u.m.hasher.Verify(u.passwordHash, password) {
		u.record(fmt.Errorf("%w: password", types.ErrUnchanged))
		return false
	}
	hash, err := u.m.hasher.Hash(password)
	if err != nil {
		u.record(fmt.Errorf("hashing password: %w", err))
		return false
	}
	u.passwordHash = hash
	return true
}

// CheckPassword reports whether candidate matches the stored hash.
func (u *User) CheckPassword(candidate string) bool {
	if u.m == nil {
		return false
	}
	return u.m.hasher.Verify(u.passwordHash, candidate)
}

// Save inserts the user on first call and afterwards updates the columns
// that differ from the stored row.
func (u *User) Save() bool {
	if err := u.save(); err != nil {
		return u.fail("Saving user", err)
	}
	return true
}

func (u *User) save() error {
	if err := u.bound(); err != nil {
		return err
	}
	if !u.persisted {
		now := u.m.now().Unix()
		err := u.insert(types.UsersTable, []types.Attribute{
			types.Attr(colUsername, u.username),
			types.Attr(colEmail, u.email),
			types.Attr(colPassword, u.passwordHash),
			types.Attr(types.ColCreatedAt, formatInt(now)),
			types.Attr(types.ColUpdatedAt, formatInt(now)),
		})
		if err != nil {
			return err
		}
		u.createdAt, u.updatedAt = now, now
		return nil
	}

	current, err := u.m.FindUserByID(u.id)
	if err != nil {
		return err
	}
	if current == nil {
		return fmt.Errorf("%w: user %d", types.ErrNotFound, u.id)
	}

	var changes []types.Attribute
	if current.username != u.username {
		changes = append(changes, types.Attr(colUsername, u.username))
	}
	if current.email != u.email {
		changes = append(changes, types.Attr(colEmail, u.email))
	}
	// SetPassword only produces a new hash for a password the stored hash
	// does not verify, so a differing hash is a changed password.
	if current.passwordHash != u.passwordHash {
		changes = append(changes, types.Attr(colPassword, u.passwordHash))
	}
	if len(changes) == 0 {
		return nil
	}

	now := u.m.now().Unix()
	changes = append(changes, types.Attr(types.ColUpdatedAt, formatInt(now)))
	if err := u.update(types.UsersTable, changes); err != nil {
		return err
	}
	u.updatedAt = now
	return nil
}

// Delete removes the user's row. Tasks and tags owned by the user are left
// in place.
func (u *User) Delete() bool {
	if err := u.remove(types.UsersTable); err != nil {
		return u.fail("Deleting user", err)
	}
	return true
}

func (m *Manager) userFromRow(row types.Row) (*User, error) {
	u := &User{
		username:     row[colUsername],
		email:        row[colEmail],
		passwordHash: row[colPassword],
	}
	if err := u.hydrate(m, row); err != nil {
		return nil, err
	}
	var err error
	if u.createdAt, err = rowInt(row, types.ColCreatedAt); err != nil {
		return nil, err
	}
	if u.updatedAt, err = rowInt(row, types.ColUpdatedAt); err != nil {
		return nil, err
	}
	return u, nil
}
