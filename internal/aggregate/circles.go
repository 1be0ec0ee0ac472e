package aggregate

import (
	"context"
	"fmt"
	"strings"

	"github.com/mmynk/giftcircle/internal/membership"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

// Circles manages gift circles. Every circle written through it has its
// admins within its members.
type Circles struct {
	store storage.Store
	run   *runner
}

// Create validates and stores a new circle. The returned record carries the
// generated ID and version.
func (c *Circles) Create(ctx context.Context, circle *models.GiftCircle) (*models.GiftCircle, error) {
	if strings.TrimSpace(circle.Name) == "" {
		return nil, invalid("circle name is required")
	}
	out := membership.Enforce(circle)
	out.ID = ""
	out.CreatedTimestamp = 0

	if err := c.run.do(ctx, func(ctx context.Context) error {
		return c.store.CreateCircle(ctx, out)
	}); err != nil {
		return nil, fmt.Errorf("failed to create circle: %w", err)
	}
	return out, nil
}

// Get returns a circle by ID.
func (c *Circles) Get(ctx context.Context, circleID string) (*models.GiftCircle, error) {
	var circle *models.GiftCircle
	err := c.run.do(ctx, func(ctx context.Context) (err error) {
		circle, err = c.store.GetCircle(ctx, circleID)
		return err
	})
	return circle, err
}

// List returns every circle.
func (c *Circles) List(ctx context.Context) ([]*models.GiftCircle, error) {
	var circles []*models.GiftCircle
	err := c.run.do(ctx, func(ctx context.Context) (err error) {
		circles, err = c.store.ListCircles(ctx)
		return err
	})
	return circles, err
}

// ListByMember returns the circles userID belongs to.
func (c *Circles) ListByMember(ctx context.Context, userID string) ([]*models.GiftCircle, error) {
	var circles []*models.GiftCircle
	err := c.run.do(ctx, func(ctx context.Context) (err error) {
		circles, err = c.store.ListCirclesByMember(ctx, userID)
		return err
	})
	return circles, err
}

// Update replaces the name, description, admins and members of an existing
// circle.
func (c *Circles) Update(ctx context.Context, circle *models.GiftCircle) (*models.GiftCircle, error) {
	if strings.TrimSpace(circle.Name) == "" {
		return nil, invalid("circle name is required")
	}
	return c.modify(ctx, circle.ID, func(current *models.GiftCircle) *models.GiftCircle {
		next := current.Clone()
		next.Name = circle.Name
		next.Description = circle.Description
		next.AdminIDs = circle.AdminIDs
		next.MemberIDs = circle.MemberIDs
		return membership.Enforce(next)
	})
}

// AddMembers adds userIDs to the circle.
func (c *Circles) AddMembers(ctx context.Context, circleID string, userIDs ...string) (*models.GiftCircle, error) {
	return c.modify(ctx, circleID, func(current *models.GiftCircle) *models.GiftCircle {
		return membership.AddMembers(current, userIDs...)
	})
}

// RemoveMember removes userID, including any admin rights.
func (c *Circles) RemoveMember(ctx context.Context, circleID, userID string) (*models.GiftCircle, error) {
	return c.modify(ctx, circleID, func(current *models.GiftCircle) *models.GiftCircle {
		return membership.RemoveMember(current, userID)
	})
}

// AddAdmin makes userID an admin and, if needed, a member.
func (c *Circles) AddAdmin(ctx context.Context, circleID, userID string) (*models.GiftCircle, error) {
	return c.modify(ctx, circleID, func(current *models.GiftCircle) *models.GiftCircle {
		return membership.AddAdmin(current, userID)
	})
}

// RemoveAdmin revokes userID's admin rights.
func (c *Circles) RemoveAdmin(ctx context.Context, circleID, userID string) (*models.GiftCircle, error) {
	return c.modify(ctx, circleID, func(current *models.GiftCircle) *models.GiftCircle {
		return membership.RemoveAdmin(current, userID)
	})
}

// Delete removes a circle. A circle still scoping an open item, or an item
// that received contributions, is kept: deleting it would make those items
// and their funding visible to everyone.
func (c *Circles) Delete(ctx context.Context, circleID string) error {
	unlock, err := c.run.lock(ctx, circleKey(circleID))
	if err != nil {
		return fmt.Errorf("failed to delete circle %s: %w", circleID, err)
	}
	defer unlock()

	err = c.run.mutate(ctx, func(ctx context.Context) error {
		circle, err := c.store.GetCircle(ctx, circleID)
		if err != nil {
			return err
		}
		items, err := c.store.ListItemsByCircle(ctx, circleID)
		if err != nil {
			return err
		}
		if err := checkUnreferenced(items); err != nil {
			return fmt.Errorf("circle %s: %w", circleID, err)
		}
		return c.store.DeleteCircle(ctx, circleID, circle.Version)
	})
	if err != nil {
		return fmt.Errorf("failed to delete circle %s: %w", circleID, err)
	}
	return nil
}

func (c *Circles) modify(ctx context.Context, circleID string, change func(*models.GiftCircle) *models.GiftCircle) (*models.GiftCircle, error) {
	var out *models.GiftCircle
	err := c.run.mutate(ctx, func(ctx context.Context) error {
		current, err := c.store.GetCircle(ctx, circleID)
		if err != nil {
			return err
		}
		next := change(current)
		next.ID = current.ID
		next.CreatedTimestamp = current.CreatedTimestamp
		next.Version = current.Version
		if err := c.store.UpdateCircle(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update circle %s: %w", circleID, err)
	}
	return out, nil
}
