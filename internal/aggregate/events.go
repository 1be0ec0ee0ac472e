package aggregate

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

// Events manages events. Status only ever moves ACTIVE -> CANCELLED.
type Events struct {
	store storage.Store
	run   *runner
}

// Create validates and stores a new event, filling in defaults for type
// (OTHER), status (ACTIVE) and visibility (PRIVATE).
func (e *Events) Create(ctx context.Context, event *models.Event) (*models.Event, error) {
	out := event.Clone()
	out.ID = ""
	if out.Type == "" {
		out.Type = models.EventTypeOther
	}
	if out.Status == "" {
		out.Status = models.EventStatusActive
	}
	if out.Visibility == "" {
		out.Visibility = models.VisibilityPrivate
	}
	if out.Status != models.EventStatusActive {
		return nil, invalid("new events must be %s", models.EventStatusActive)
	}
	out.InviteeIDs = models.UniqueIDs(out.InviteeIDs)
	if err := validateEvent(out); err != nil {
		return nil, err
	}

	if err := e.run.do(ctx, func(ctx context.Context) error {
		return e.store.CreateEvent(ctx, out)
	}); err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}
	return out, nil
}

// Get returns an event by ID.
func (e *Events) Get(ctx context.Context, eventID string) (*models.Event, error) {
	var event *models.Event
	err := e.run.do(ctx, func(ctx context.Context) (err error) {
		event, err = e.store.GetEvent(ctx, eventID)
		return err
	})
	return event, err
}

// List returns every event.
func (e *Events) List(ctx context.Context) ([]*models.Event, error) {
	var events []*models.Event
	err := e.run.do(ctx, func(ctx context.Context) (err error) {
		events, err = e.store.ListEvents(ctx)
		return err
	})
	return events, err
}

// ListByCreator returns the events userID created.
func (e *Events) ListByCreator(ctx context.Context, userID string) ([]*models.Event, error) {
	var events []*models.Event
	err := e.run.do(ctx, func(ctx context.Context) (err error) {
		events, err = e.store.ListEventsByCreator(ctx, userID)
		return err
	})
	return events, err
}

// ListByInvitee returns the events userID is invited to.
func (e *Events) ListByInvitee(ctx context.Context, userID string) ([]*models.Event, error) {
	var events []*models.Event
	err := e.run.do(ctx, func(ctx context.Context) (err error) {
		events, err = e.store.ListEventsByInvitee(ctx, userID)
		return err
	})
	return events, err
}

// Update replaces the editable fields of an existing event. The creator
// cannot change. An empty Status keeps the current one; a cancelled event
// cannot be made active again.
func (e *Events) Update(ctx context.Context, event *models.Event) (*models.Event, error) {
	return e.modify(ctx, event.ID, func(current *models.Event) (*models.Event, error) {
		next := current.Clone()
		next.Title = event.Title
		next.Date = event.Date
		next.Description = event.Description
		next.InviteeIDs = models.UniqueIDs(event.InviteeIDs)
		if event.Type != "" {
			next.Type = event.Type
		}
		if event.Visibility != "" {
			next.Visibility = event.Visibility
		}
		if event.Status != "" {
			if current.Status == models.EventStatusCancelled && event.Status != models.EventStatusCancelled {
				return nil, invalid("event %s is cancelled", current.ID)
			}
			next.Status = event.Status
		}
		return next, validateEvent(next)
	})
}

// Cancel moves an event to CANCELLED. Cancelling twice is a no-op.
func (e *Events) Cancel(ctx context.Context, eventID string) (*models.Event, error) {
	return e.modify(ctx, eventID, func(current *models.Event) (*models.Event, error) {
		next := current.Clone()
		next.Status = models.EventStatusCancelled
		return next, nil
	})
}

// Invite adds userIDs to the invitee list.
func (e *Events) Invite(ctx context.Context, eventID string, userIDs ...string) (*models.Event, error) {
	return e.modify(ctx, eventID, func(current *models.Event) (*models.Event, error) {
		next := current.Clone()
		next.InviteeIDs = models.UniqueIDs(append(next.InviteeIDs, userIDs...))
		return next, nil
	})
}

// Uninvite removes userID from the invitee list.
func (e *Events) Uninvite(ctx context.Context, eventID, userID string) (*models.Event, error) {
	return e.modify(ctx, eventID, func(current *models.Event) (*models.Event, error) {
		next := current.Clone()
		next.InviteeIDs = slices.DeleteFunc(next.InviteeIDs, func(id string) bool { return id == userID })
		return next, nil
	})
}

// Delete removes an event. Like a circle, an event still holding an open
// or funded item is kept, since a missing event no longer restricts who sees
// the item. Cancelled items without contributions keep their EventID.
func (e *Events) Delete(ctx context.Context, eventID string) error {
	unlock, err := e.run.lock(ctx, eventKey(eventID))
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	defer unlock()

	err = e.run.mutate(ctx, func(ctx context.Context) error {
		event, err := e.store.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		items, err := e.store.ListItemsByEvent(ctx, eventID)
		if err != nil {
			return err
		}
		if err := checkUnreferenced(items); err != nil {
			return fmt.Errorf("event %s: %w", eventID, err)
		}
		return e.store.DeleteEvent(ctx, eventID, event.Version)
	})
	if err != nil {
		return fmt.Errorf("failed to delete event %s: %w", eventID, err)
	}
	return nil
}

func (e *Events) modify(ctx context.Context, eventID string, change func(*models.Event) (*models.Event, error)) (*models.Event, error) {
	var out *models.Event
	err := e.run.mutate(ctx, func(ctx context.Context) error {
		current, err := e.store.GetEvent(ctx, eventID)
		if err != nil {
			return err
		}
		next, err := change(current)
		if err != nil {
			return err
		}
		next.ID = current.ID
		next.UserID = current.UserID
		next.Version = current.Version
		if err := e.store.UpdateEvent(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update event %s: %w", eventID, err)
	}
	return out, nil
}

func validateEvent(event *models.Event) error {
	if strings.TrimSpace(event.UserID) == "" {
		return invalid("event creator is required")
	}
	if strings.TrimSpace(event.Title) == "" {
		return invalid("event title is required")
	}
	if !event.Type.Valid() {
		return invalid("unknown event type %q", event.Type)
	}
	switch event.Status {
	case models.EventStatusActive, models.EventStatusCancelled:
	default:
		return invalid("unknown event status %q", event.Status)
	}
	switch event.Visibility {
	case models.VisibilityPublic, models.VisibilityPrivate:
	default:
		return invalid("unknown visibility %q", event.Visibility)
	}
	return nil
}
