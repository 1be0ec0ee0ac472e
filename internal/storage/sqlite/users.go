package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

// Users are stored as a JSON document. Only the id and email columns are
// queried directly; everything else travels inside doc.

// CreateUser persists a new user.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}
	user.Version = 1

	doc, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	_, err = s.db.ExecContext(ctx,
		"INSERT INTO users (id, email, doc, created_at, version) VALUES (?, ?, ?, ?, ?)",
		user.ID, user.Email, string(doc), user.CreatedAt, user.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

// GetUser retrieves a user by ID.
func (s *SQLiteStore) GetUser(ctx context.Context, userID string) (*models.User, error) {
	users, err := s.queryUsers(ctx, "SELECT doc, version FROM users WHERE id = ?", userID)
	if err != nil {
		return nil, err
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("%w: user %s", storage.ErrNotFound, userID)
	}
	return users[0], nil
}

// ListUsers retrieves all users.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	return s.queryUsers(ctx, "SELECT doc, version FROM users ORDER BY created_at, id")
}

// UpdateUser overwrites an existing user if its version still matches.
func (s *SQLiteStore) UpdateUser(ctx context.Context, user *models.User) error {
	next := *user
	next.Version = user.Version + 1
	doc, err := json.Marshal(&next)
	if err != nil {
		return fmt.Errorf("failed to encode user: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"UPDATE users SET email = ?, doc = ?, version = version + 1 WHERE id = ? AND version = ?",
		user.Email, string(doc), user.ID, user.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to update user: %w", err)
	}
	if err := checkVersionedUpdate(ctx, tx, res, "users", user.ID); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	user.Version++
	return nil
}

// DeleteUser removes a user by ID.
func (s *SQLiteStore) DeleteUser(ctx context.Context, userID string) error {
	return s.deleteByID(ctx, "users", userID)
}

func (s *SQLiteStore) queryUsers(ctx context.Context, query string, args ...any) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		var (
			doc     string
			version int64
		)
		if err := rows.Scan(&doc, &version); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		u := &models.User{}
		if err := json.Unmarshal([]byte(doc), u); err != nil {
			return nil, fmt.Errorf("failed to decode user: %w", err)
		}
		u.Version = version
		users = append(users, u)
	}
	return users, rows.Err()
}
