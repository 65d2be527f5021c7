package store

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a requested record does not exist.
	ErrNotFound = errors.New("record not found")
	// ErrUsernameTaken is returned when a username uniqueness constraint fires.
	ErrUsernameTaken = errors.New("username already taken")
	// ErrEmailTaken is returned when an email uniqueness constraint fires.
	ErrEmailTaken = errors.New("email already taken")
)

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	PasswordHash string
	CreatedAt    time.Time
}

// Message represents a persisted chat message. The username is a snapshot
// of the sender's name at send time.
type Message struct {
	ID        int64
	UserID    int64
	Username  string
	Body      string
	CreatedAt time.Time
}

// UserStore handles user persistence.
type UserStore interface {
	// CreateUser inserts a new user. Username and email are unique; the
	// insert is the source of truth and returns ErrUsernameTaken or
	// ErrEmailTaken on conflict.
	CreateUser(ctx context.Context, username, email, passwordHash string) (*User, error)

	// GetUserByID retrieves a user by ID. Returns ErrNotFound if absent.
	GetUserByID(ctx context.Context, id int64) (*User, error)

	// GetUserByUsername retrieves a user by username. Returns ErrNotFound if absent.
	GetUserByUsername(ctx context.Context, username string) (*User, error)

	// UsernameExists reports whether a user with the given username exists.
	UsernameExists(ctx context.Context, username string) (bool, error)

	// EmailExists reports whether a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)
}

// MessageStore handles message persistence.
type MessageStore interface {
	// SaveMessage persists a message and assigns msg.ID.
	SaveMessage(ctx context.Context, msg *Message) error

	// RecentMessages returns up to limit messages ordered newest-first.
	RecentMessages(ctx context.Context, limit int) ([]*Message, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	UserStore
	MessageStore

	// Close closes the underlying database connection.
	Close() error
}
