package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

const circleColumns = "id, name, description, created_at, version"

// CreateCircle persists a new circle with its admins and members.
func (s *SQLiteStore) CreateCircle(ctx context.Context, circle *models.GiftCircle) error {
	if circle.ID == "" {
		circle.ID = uuid.New().String()
	}
	if circle.CreatedTimestamp == 0 {
		circle.CreatedTimestamp = time.Now().UnixMilli()
	}
	circle.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO circles (id, name, description, created_at, version) VALUES (?, ?, ?, ?, ?)",
		circle.ID, circle.Name, circle.Description, circle.CreatedTimestamp, circle.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert circle: %w", err)
	}
	if err := s.writeCircleLinks(ctx, tx, circle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetCircle retrieves a circle by ID.
func (s *SQLiteStore) GetCircle(ctx context.Context, circleID string) (*models.GiftCircle, error) {
	circles, err := s.queryCircles(ctx, "SELECT "+circleColumns+" FROM circles WHERE id = ?", circleID)
	if err != nil {
		return nil, err
	}
	if len(circles) == 0 {
		return nil, fmt.Errorf("%w: circle %s", storage.ErrNotFound, circleID)
	}
	return circles[0], nil
}

// ListCircles retrieves all circles, oldest first.
func (s *SQLiteStore) ListCircles(ctx context.Context) ([]*models.GiftCircle, error) {
	return s.queryCircles(ctx, "SELECT "+circleColumns+" FROM circles ORDER BY created_at, id")
}

// ListCirclesByMember retrieves the circles userID belongs to.
func (s *SQLiteStore) ListCirclesByMember(ctx context.Context, userID string) ([]*models.GiftCircle, error) {
	return s.queryCircles(ctx,
		`SELECT c.id, c.name, c.description, c.created_at, c.version
		 FROM circles c JOIN circle_members m ON m.circle_id = c.id
		 WHERE m.user_id = ? ORDER BY c.created_at, c.id`,
		userID,
	)
}

// UpdateCircle overwrites an existing circle if its version still matches.
func (s *SQLiteStore) UpdateCircle(ctx context.Context, circle *models.GiftCircle) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE circles SET name = ?, description = ?, version = version + 1 WHERE id = ? AND version = ?",
		circle.Name, circle.Description, circle.ID, circle.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update circle: %w", err)
	}
	if err := checkVersionedUpdate(ctx, tx, res, "circles", circle.ID); err != nil {
		return err
	}
	if err := s.writeCircleLinks(ctx, tx, circle); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	circle.Version++
	return nil
}

// DeleteCircle removes a circle still at version.
func (s *SQLiteStore) DeleteCircle(ctx context.Context, circleID string, version int64) error {
	return s.deleteVersioned(ctx, "circles", circleID, version)
}

func (s *SQLiteStore) writeCircleLinks(ctx context.Context, tx *sql.Tx, circle *models.GiftCircle) error {
	if err := replaceIDs(ctx, tx, "circle_members", "circle_id", circle.ID, circle.MemberIDs); err != nil {
		return err
	}
	return replaceIDs(ctx, tx, "circle_admins", "circle_id", circle.ID, circle.AdminIDs)
}

// queryCircles scans every circle row first and only then loads link
// tables, so the single pooled connection is free for the second round.
func (s *SQLiteStore) queryCircles(ctx context.Context, query string, args ...any) ([]*models.GiftCircle, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query circles: %w", err)
	}

	var circles []*models.GiftCircle
	for rows.Next() {
		c := &models.GiftCircle{}
		if err := rows.Scan(&c.ID, &c.Name, &c.Description, &c.CreatedTimestamp, &c.Version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan circle: %w", err)
		}
		circles = append(circles, c)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate circles: %w", err)
	}

	for _, c := range circles {
		c.MemberIDs, err = loadIDs(ctx, s.db,
			"SELECT user_id FROM circle_members WHERE circle_id = ? ORDER BY position", c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get circle members: %w", err)
		}
		c.AdminIDs, err = loadIDs(ctx, s.db,
			"SELECT user_id FROM circle_admins WHERE circle_id = ? ORDER BY position", c.ID)
		if err != nil {
			return nil, fmt.Errorf("failed to get circle admins: %w", err)
		}
	}
	return circles, nil
}
