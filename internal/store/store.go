package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// User represents a registered account.
type User struct {
	ID           int64
	Username     string
	Email        string
	DisplayName  string
	PasswordHash string
	IsGuest      bool
	SessionID    string // guest session tracking
	CreatedAt    time.Time
}

// Message represents a persisted chat message, keyed by the composite
// group::channel room id it was sent to.
type Message struct {
	ID        int64
	Room      string
	Sender    string
	Text      string
	CreatedAt time.Time
}

// Reminder is a scheduled study reminder owned by a user.
type Reminder struct {
	ID     int64
	UserID int64
	Title  string
	DueAt  time.Time
	Notes  string
}

// UserStore persists accounts.
type UserStore interface {
	CreateUser(ctx context.Context, username, email, displayName, passwordHash string) (*User, error)
	CreateGuestUser(ctx context.Context, sessionID string) (*User, error)
	GetUserByID(ctx context.Context, id int64) (*User, error)
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	GetUserByEmail(ctx context.Context, email string) (*User, error)
}

// MessageStore persists chat history.
type MessageStore interface {
	SaveMessage(ctx context.Context, room, sender, text string, at time.Time) (int64, error)
	RecentMessages(ctx context.Context, room string, limit int) ([]Message, error)
}

// ReminderStore persists study reminders.
type ReminderStore interface {
	CreateReminder(ctx context.Context, r *Reminder) (*Reminder, error)
	ListReminders(ctx context.Context, userID int64) ([]Reminder, error)
	DeleteReminder(ctx context.Context, userID, id int64) error
}

// Store aggregates all persistence operations.
type Store interface {
	UserStore
	MessageStore
	ReminderStore
	Close() error
}
