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

const itemColumns = `id, user_id, title, description, price, funded_amount, image_url, product_url,
	event_id, circle_id, status, created_at, version`

// CreateItem persists a new wishlist item and any contributions it carries.
func (s *SQLiteStore) CreateItem(ctx context.Context, item *models.WishlistItem) error {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}
	if item.CreatedAt == 0 {
		item.CreatedAt = time.Now().Unix()
	}
	item.Version = 1

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		`INSERT INTO wishlist_items (`+itemColumns+`)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.UserID, item.Title, item.Description, item.Price, item.FundedAmount,
		item.ImageURL, item.ProductURL, nullable(item.EventID), nullable(item.CircleID),
		item.Status, item.CreatedAt, item.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert wishlist item: %w", err)
	}
	if err := insertContributions(ctx, tx, item.ID, 0, item.Contributions); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetItem retrieves a wishlist item with its contributions in order.
func (s *SQLiteStore) GetItem(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	items, err := s.queryItems(ctx, "SELECT "+itemColumns+" FROM wishlist_items WHERE id = ?", itemID)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%w: wishlist item %s", storage.ErrNotFound, itemID)
	}
	return items[0], nil
}

// ListItems retrieves all wishlist items, newest first.
func (s *SQLiteStore) ListItems(ctx context.Context) ([]*models.WishlistItem, error) {
	return s.queryItems(ctx, "SELECT "+itemColumns+" FROM wishlist_items ORDER BY created_at DESC, id")
}

// ListItemsByOwner retrieves the items owned by userID.
func (s *SQLiteStore) ListItemsByOwner(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM wishlist_items WHERE user_id = ? ORDER BY created_at DESC, id", userID)
}

// ListItemsByCircle retrieves the items scoped to circleID.
func (s *SQLiteStore) ListItemsByCircle(ctx context.Context, circleID string) ([]*models.WishlistItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM wishlist_items WHERE circle_id = ? ORDER BY created_at DESC, id", circleID)
}

// ListItemsByEvent retrieves the items attached to eventID.
func (s *SQLiteStore) ListItemsByEvent(ctx context.Context, eventID string) ([]*models.WishlistItem, error) {
	return s.queryItems(ctx,
		"SELECT "+itemColumns+" FROM wishlist_items WHERE event_id = ? ORDER BY created_at DESC, id", eventID)
}

// UpdateItem writes the item row and appends new contributions.
func (s *SQLiteStore) UpdateItem(ctx context.Context, item *models.WishlistItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`UPDATE wishlist_items SET user_id = ?, title = ?, description = ?, price = ?,
		 funded_amount = ?, image_url = ?, product_url = ?, event_id = ?, circle_id = ?,
		 status = ?, version = version + 1
		 WHERE id = ? AND version = ?`,
		item.UserID, item.Title, item.Description, item.Price, item.FundedAmount,
		item.ImageURL, item.ProductURL, nullable(item.EventID), nullable(item.CircleID),
		item.Status, item.ID, item.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update wishlist item: %w", err)
	}
	if err := checkVersionedUpdate(ctx, tx, res, "wishlist_items", item.ID); err != nil {
		return err
	}

	var stored int
	if err := tx.QueryRowContext(ctx,
		"SELECT COUNT(*) FROM contributions WHERE item_id = ?", item.ID,
	).Scan(&stored); err != nil {
		return fmt.Errorf("failed to count contributions: %w", err)
	}
	if len(item.Contributions) < stored {
		return fmt.Errorf("item %s carries %d contributions, %d already stored: contributions are append-only",
			item.ID, len(item.Contributions), stored)
	}
	if err := insertContributions(ctx, tx, item.ID, stored, item.Contributions[stored:]); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	item.Version++
	return nil
}

// DeleteItem removes an item still at version and, by cascade, its
// contributions. Every contribution bumps the version, so a delete decided
// before one landed fails with ErrConflict.
func (s *SQLiteStore) DeleteItem(ctx context.Context, itemID string, version int64) error {
	return s.deleteVersioned(ctx, "wishlist_items", itemID, version)
}

func insertContributions(ctx context.Context, tx *sql.Tx, itemID string, firstSeq int, contributions []models.Contribution) error {
	for i, c := range contributions {
		_, err := tx.ExecContext(ctx,
			`INSERT INTO contributions (id, item_id, seq, contributor_id, amount, type, timestamp,
			 is_anonymous, is_amount_hidden) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			c.ID, itemID, firstSeq+i, c.ContributorID, c.Amount, c.Type, c.Timestamp,
			c.IsAnonymous, c.IsAmountHidden,
		)
		if err != nil {
			return fmt.Errorf("failed to insert contribution: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) queryItems(ctx context.Context, query string, args ...any) ([]*models.WishlistItem, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query wishlist items: %w", err)
	}

	var items []*models.WishlistItem
	for rows.Next() {
		item := &models.WishlistItem{}
		var eventID, circleID sql.NullString
		if err := rows.Scan(&item.ID, &item.UserID, &item.Title, &item.Description,
			&item.Price, &item.FundedAmount, &item.ImageURL, &item.ProductURL,
			&eventID, &circleID, &item.Status, &item.CreatedAt, &item.Version); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan wishlist item: %w", err)
		}
		item.EventID = eventID.String
		item.CircleID = circleID.String
		items = append(items, item)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate wishlist items: %w", err)
	}

	for _, item := range items {
		item.Contributions, err = s.getContributions(ctx, item.ID)
		if err != nil {
			return nil, err
		}
	}
	return items, nil
}

func (s *SQLiteStore) getContributions(ctx context.Context, itemID string) ([]models.Contribution, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, contributor_id, amount, type, timestamp, is_anonymous, is_amount_hidden
		 FROM contributions WHERE item_id = ? ORDER BY seq`,
		itemID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to query contributions: %w", err)
	}
	defer rows.Close()

	contributions := []models.Contribution{}
	for rows.Next() {
		var c models.Contribution
		if err := rows.Scan(&c.ID, &c.ContributorID, &c.Amount, &c.Type, &c.Timestamp,
			&c.IsAnonymous, &c.IsAmountHidden); err != nil {
			return nil, fmt.Errorf("failed to scan contribution: %w", err)
		}
		contributions = append(contributions, c)
	}
	return contributions, rows.Err()
}
