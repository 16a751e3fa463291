package models

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by lookups when no row matches. It marks data
// absence, which is not a storage failure.
var ErrNotFound = errors.New("not found")

// User represents a registered user. TelegramID is the client-supplied
// identifier and is unique across all users; ID is the internal surrogate key.
type User struct {
	ID           int64     `json:"id"`
	TelegramID   string    `json:"telegramId"`
	Name         string    `json:"name"`
	Phone        string    `json:"phone"`
	Location     string    `json:"location"`
	RegisteredAt time.Time `json:"registeredAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Repository defines the storage operations for users, bookings and
// processing guides. All access to the store goes through this interface.
type Repository interface {
	// UpsertUser inserts a user or fully replaces the existing row with the
	// same TelegramID. It returns the surrogate id of the resulting row.
	UpsertUser(ctx context.Context, user *User) (int64, error)

	// GetUser returns the user with the given TelegramID, or ErrNotFound.
	GetUser(ctx context.Context, telegramID string) (User, error)

	// CreateBooking inserts a booking and returns its id. The referenced
	// user id is not checked for existence.
	CreateBooking(ctx context.Context, booking *Booking) (int64, error)

	// ListBookings returns all bookings for a user, most recent first.
	ListBookings(ctx context.Context, userID int64) ([]Booking, error)

	// CreateGuide inserts a processing guide entry and returns its id.
	CreateGuide(ctx context.Context, guide *ProcessingGuide) (int64, error)

	// ListGuides returns all processing guide entries for a user, most
	// recent first.
	ListGuides(ctx context.Context, userID int64) ([]ProcessingGuide, error)

	Ping(ctx context.Context) error
	Close() error
}
