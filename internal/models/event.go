package models

import "slices"

// EventType enumerates the occasions an event can celebrate.
type EventType string

const (
	EventTypeBirthday     EventType = "BIRTHDAY"
	EventTypeWedding      EventType = "WEDDING"
	EventTypeHousewarming EventType = "HOUSEWARMING"
	EventTypeBabyShower   EventType = "BABY_SHOWER"
	EventTypeOther        EventType = "OTHER"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	switch t {
	case EventTypeBirthday, EventTypeWedding, EventTypeHousewarming, EventTypeBabyShower, EventTypeOther:
		return true
	}
	return false
}

// EventStatus moves ACTIVE -> CANCELLED and never back.
type EventStatus string

const (
	EventStatusActive    EventStatus = "ACTIVE"
	EventStatusCancelled EventStatus = "CANCELLED"
)

// Visibility controls who can see an event.
type Visibility string

const (
	VisibilityPublic  Visibility = "PUBLIC"
	VisibilityPrivate Visibility = "PRIVATE"
)

// Event is an occasion organised by a user.
type Event struct {
	// ID is the unique identifier for the event (UUID format).
	ID string `json:"id"`

	// UserID is the creator.
	UserID string `json:"userId"`

	Title       string    `json:"title"`
	Date        string    `json:"date"`
	Description string    `json:"description"`
	Type        EventType `json:"type"`

	InviteeIDs []string `json:"inviteeIds"`

	Status     EventStatus `json:"status"`
	Visibility Visibility  `json:"visibility"`

	Version int64 `json:"version"`
}

// IsInvited reports whether userID is on the invitee list.
func (e *Event) IsInvited(userID string) bool {
	return slices.Contains(e.InviteeIDs, userID)
}

// Clone returns a deep copy of the event.
func (e *Event) Clone() *Event {
	out := *e
	out.InviteeIDs = slices.Clone(e.InviteeIDs)
	return &out
}
