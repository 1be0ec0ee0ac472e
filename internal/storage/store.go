// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/giftcircle/internal/models"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrConflict is returned when a conditional write loses to a concurrent
	// write, i.e. the record's Version moved since it was read.
	ErrConflict = errors.New("record was modified concurrently")
)

// Every Update method writes only if the stored Version equals the record's
// Version, then increments both. Updates never create records. Deletes of
// circles, events and items take the version they were decided on and fail
// with ErrConflict once it has moved.

// CircleStore persists gift circles.
type CircleStore interface {
	// CreateCircle persists a new circle. ID and CreatedTimestamp are
	// generated when empty.
	CreateCircle(ctx context.Context, circle *models.GiftCircle) error
	GetCircle(ctx context.Context, circleID string) (*models.GiftCircle, error)
	ListCircles(ctx context.Context) ([]*models.GiftCircle, error)
	ListCirclesByMember(ctx context.Context, userID string) ([]*models.GiftCircle, error)
	UpdateCircle(ctx context.Context, circle *models.GiftCircle) error
	DeleteCircle(ctx context.Context, circleID string, version int64) error
}

// EventStore persists events.
type EventStore interface {
	CreateEvent(ctx context.Context, event *models.Event) error
	GetEvent(ctx context.Context, eventID string) (*models.Event, error)
	ListEvents(ctx context.Context) ([]*models.Event, error)
	ListEventsByCreator(ctx context.Context, userID string) ([]*models.Event, error)
	ListEventsByInvitee(ctx context.Context, userID string) ([]*models.Event, error)
	UpdateEvent(ctx context.Context, event *models.Event) error
	DeleteEvent(ctx context.Context, eventID string, version int64) error
}

// WishlistStore persists wishlist items together with their contributions.
type WishlistStore interface {
	CreateItem(ctx context.Context, item *models.WishlistItem) error
	GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error)
	ListItems(ctx context.Context) ([]*models.WishlistItem, error)
	ListItemsByOwner(ctx context.Context, userID string) ([]*models.WishlistItem, error)
	ListItemsByCircle(ctx context.Context, circleID string) ([]*models.WishlistItem, error)
	ListItemsByEvent(ctx context.Context, eventID string) ([]*models.WishlistItem, error)

	// UpdateItem writes the item row and appends any contributions beyond
	// those already stored, in one transaction. Stored contributions are
	// never rewritten; an item carrying fewer contributions than stored is
	// rejected.
	UpdateItem(ctx context.Context, item *models.WishlistItem) error
	DeleteItem(ctx context.Context, itemID string, version int64) error
}

// UserStore persists user profiles.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, userID string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	UpdateUser(ctx context.Context, user *models.User) error
	DeleteUser(ctx context.Context, userID string) error
}

// Store bundles every repository. This abstraction allows swapping storage
// backends (SQLite, PostgreSQL, etc.) without changing the service layer.
type Store interface {
	CircleStore
	EventStore
	WishlistStore
	UserStore

	// Ping checks the backend is reachable.
	Ping(ctx context.Context) error

	// Close releases any resources held by the store.
	Close() error
}
