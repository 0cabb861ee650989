package domain

import (
	"context"
	"time"
)

// User represents a registered account. PasswordHash never leaves the
// service layer; handlers only ever see an Identity.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Identity is the output-only projection of a User. It has no password field,
// so anything built from it cannot leak the hash.
type Identity struct {
	ID        int64
	Name      string
	Email     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity projects the user onto its public fields.
func (u *User) Identity() Identity {
	return Identity{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

// UserRepository defines persistence operations for users.
// Create must surface a unique violation on email as ErrDuplicateEmail.
type UserRepository interface {
	Create(ctx context.Context, user *User) error
	GetByID(ctx context.Context, id int64) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
}
