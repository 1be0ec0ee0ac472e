package sqlite

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

const eventColumns = "id, user_id, title, date, description, type, status, visibility, version"

// CreateEvent persists a new event with its invitees.
func (s *SQLiteStore) CreateEvent(ctx context.Context, event *models.Event) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	event.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO events (id, user_id, title, date, description, type, status, visibility, version)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		event.ID, event.UserID, event.Title, event.Date, event.Description,
		event.Type, event.Status, event.Visibility, event.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}
	if err := replaceIDs(ctx, tx, "event_invitees", "event_id", event.ID, event.InviteeIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetEvent retrieves an event by ID.
func (s *SQLiteStore) GetEvent(ctx context.Context, eventID string) (*models.Event, error) {
	events, err := s.queryEvents(ctx, "SELECT "+eventColumns+" FROM events WHERE id = ?", eventID)
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, fmt.Errorf("%w: event %s", storage.ErrNotFound, eventID)
	}
	return events[0], nil
}

// ListEvents retrieves all events.
func (s *SQLiteStore) ListEvents(ctx context.Context) ([]*models.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM events ORDER BY date, id")
}

// ListEventsByCreator retrieves the events created by userID.
func (s *SQLiteStore) ListEventsByCreator(ctx context.Context, userID string) ([]*models.Event, error) {
	return s.queryEvents(ctx, "SELECT "+eventColumns+" FROM events WHERE user_id = ? ORDER BY date, id", userID)
}

// ListEventsByInvitee retrieves the events userID is invited to.
func (s *SQLiteStore) ListEventsByInvitee(ctx context.Context, userID string) ([]*models.Event, error) {
	return s.queryEvents(ctx,
		`SELECT e.id, e.user_id, e.title, e.date, e.description, e.type, e.status, e.visibility, e.version
		 FROM events e JOIN event_invitees i ON i.event_id = e.id
		 WHERE i.user_id = ? ORDER BY e.date, e.id`,
		userID,
	)
}

// UpdateEvent overwrites an existing event if its version still matches.
func (s *SQLiteStore) UpdateEvent(ctx context.Context, event *models.Event) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE events SET user_id = ?, title = ?, date = ?, description = ?, type = ?,
		 status = ?, visibility = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		event.UserID, event.Title, event.Date, event.Description, event.Type,
		event.Status, event.Visibility, event.ID, event.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update event: %w", err)
	}
	if err := checkVersionedUpdate(ctx, tx, res, "events", event.ID); err != nil {
		return err
	}
	if err := replaceIDs(ctx, tx, "event_invitees", "event_id", event.ID, event.InviteeIDs); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	event.Version++
	return nil
}

// DeleteEvent removes an event still at version.
func (s *SQLiteStore) DeleteEvent(ctx context.Context, eventID string, version int64) error {
	return s.deleteVersioned(ctx, "events", eventID, version)
}

func (s *SQLiteStore) queryEvents(ctx context.Context, query string, args ...any) ([]*models.Event, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query events: %w", err)
	}

	var events []*models.Event
	for rows.Next() {
		e := &models.Event{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Title, &e.Date, &e.Description,
			&e.Type, &e.Status, &e.Visibility, &e.Version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	for _, e := range events {
		e.InviteeIDs, err = loadIDs(ctx, s.db,
			"SELECT user_id FROM event_invitees WHERE event_id = ? ORDER BY position", e.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get event invitees: %w", err)
		}
	}
	return events, nil
}
