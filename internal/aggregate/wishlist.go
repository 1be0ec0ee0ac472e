package aggregate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/mmynk/giftcircle/internal/ledger"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

// Wishlist manages wishlist items and their funding.
type Wishlist struct {
	store  storage.Store
	run    *runner
	ledger *ledger.Ledger
}

// Create validates and stores a new OPEN item. Funding fields supplied by
// the caller are ignored, and a referenced circle or event must exist.
func (w *Wishlist) Create(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	out := item.Clone()
	out.ID = ""
	out.CreatedAt = 0
	out.Status = models.ItemStatusOpen
	out.Contributions = []models.Contribution{}
	out.FundedAmount = 0
	if err := validateItem(out); err != nil {
		return nil, err
	}

	unlock, err := w.run.lock(ctx, circleKey(out.CircleID), eventKey(out.EventID))
	if err != nil {
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}
	defer unlock()

	if err := w.run.do(ctx, func(ctx context.Context) error {
		if err := w.checkReferences(ctx, out.CircleID, out.EventID); err != nil {
			return err
		}
		return w.store.CreateItem(ctx, out)
	}); err != nil {
		return nil, fmt.Errorf("failed to create wishlist item: %w", err)
	}
	return out, nil
}

// Get returns an item by ID.
func (w *Wishlist) Get(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	var item *models.WishlistItem
	err := w.run.do(ctx, func(ctx context.Context) (err error) {
		item, err = w.store.GetItem(ctx, itemID)
		return err
	})
	return item, err
}

// List returns every item.
func (w *Wishlist) List(ctx context.Context) ([]*models.WishlistItem, error) {
	return w.list(ctx, w.store.ListItems)
}

// ListByOwner returns the items owned by userID.
func (w *Wishlist) ListByOwner(ctx context.Context, userID string) ([]*models.WishlistItem, error) {
	return w.list(ctx, func(ctx context.Context) ([]*models.WishlistItem, error) {
		return w.store.ListItemsByOwner(ctx, userID)
	})
}

// ListByCircle returns the items scoped to circleID.
func (w *Wishlist) ListByCircle(ctx context.Context, circleID string) ([]*models.WishlistItem, error) {
	return w.list(ctx, func(ctx context.Context) ([]*models.WishlistItem, error) {
		return w.store.ListItemsByCircle(ctx, circleID)
	})
}

// ListByEvent returns the items attached to eventID.
func (w *Wishlist) ListByEvent(ctx context.Context, eventID string) ([]*models.WishlistItem, error) {
	return w.list(ctx, func(ctx context.Context) ([]*models.WishlistItem, error) {
		return w.store.ListItemsByEvent(ctx, eventID)
	})
}

func (w *Wishlist) list(ctx context.Context, query func(context.Context) ([]*models.WishlistItem, error)) ([]*models.WishlistItem, error) {
	var items []*models.WishlistItem
	err := w.run.do(ctx, func(ctx context.Context) (err error) {
		items, err = query(ctx)
		return err
	})
	return items, err
}

// Update replaces the descriptive fields, price and references of an item.
// Funding state is recomputed: lowering the price to at most the funded
// amount fulfils an open item. A circle or event the item is moved to must
// exist.
func (w *Wishlist) Update(ctx context.Context, item *models.WishlistItem) (*models.WishlistItem, error) {
	unlock, err := w.run.lock(ctx, circleKey(item.CircleID), eventKey(item.EventID))
	if err != nil {
		return nil, fmt.Errorf("failed to update wishlist item %s: %w", item.ID, err)
	}
	defer unlock()

	return w.modify(ctx, item.ID, func(ctx context.Context, current *models.WishlistItem) (*models.WishlistItem, error) {
		circleID, eventID := item.CircleID, item.EventID
		if circleID == current.CircleID {
			circleID = ""
		}
		if eventID == current.EventID {
			eventID = ""
		}
		if err := w.checkReferences(ctx, circleID, eventID); err != nil {
			return nil, err
		}

		next := current.Clone()
		next.Title = item.Title
		next.Description = item.Description
		next.Price = item.Price
		next.ImageURL = item.ImageURL
		next.ProductURL = item.ProductURL
		next.EventID = item.EventID
		next.CircleID = item.CircleID
		if err := validateItem(next); err != nil {
			return nil, err
		}
		ledger.Settle(next)
		return next, nil
	})
}

// Cancel withdraws an open item. Cancelling twice is a no-op; a fulfilled
// item cannot be cancelled.
func (w *Wishlist) Cancel(ctx context.Context, itemID string) (*models.WishlistItem, error) {
	return w.modify(ctx, itemID, func(_ context.Context, current *models.WishlistItem) (*models.WishlistItem, error) {
		switch current.Status {
		case models.ItemStatusCancelled:
			return current, nil
		case models.ItemStatusFulfilled:
			return nil, fmt.Errorf("%w: item %s is already fulfilled", ledger.ErrItemClosed, current.ID)
		}
		next := current.Clone()
		next.Status = models.ItemStatusCancelled
		return next, nil
	})
}

// Delete removes an item. Items that received money are kept as the
// record of it; cancel them instead.
//
// The item lock keeps local contributors out while the check runs, and the
// delete only applies at the version that was checked.
func (w *Wishlist) Delete(ctx context.Context, itemID string) error {
	unlock, err := w.run.lock(ctx, itemKey(itemID))
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item %s: %w", itemID, err)
	}
	defer unlock()

	err = w.run.mutate(ctx, func(ctx context.Context) error {
		item, err := w.store.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		if len(item.Contributions) > 0 {
			return invalid("item %s has contributions, cancel it instead", itemID)
		}
		return w.store.DeleteItem(ctx, itemID, item.Version)
	})
	if err != nil {
		return fmt.Errorf("failed to delete wishlist item %s: %w", itemID, err)
	}
	return nil
}

// Contribute applies c to the item and persists the result.
//
// The item is locked for the duration so concurrent contributions queue up.
// c.ContributorID must be set; its ID and Timestamp are assigned by the
// ledger. When the contributor's settings cap a single gift, a larger
// amount is rejected.
func (w *Wishlist) Contribute(ctx context.Context, itemID string, c models.Contribution) (*models.WishlistItem, error) {
	if strings.TrimSpace(c.ContributorID) == "" {
		return nil, invalid("contributor is required")
	}
	if c.Type != "" && !c.Type.Valid() {
		return nil, invalid("unknown contribution type %q", c.Type)
	}
	if err := w.checkCap(ctx, c); err != nil {
		return nil, err
	}

	unlock, err := w.run.lock(ctx, itemKey(itemID))
	if err != nil {
		return nil, fmt.Errorf("failed to contribute to item %s: %w", itemID, err)
	}
	defer unlock()

	var out *models.WishlistItem
	err = w.run.mutate(ctx, func(ctx context.Context) error {
		current, err := w.store.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		next, err := w.ledger.Apply(current, c)
		if err != nil {
			return err
		}
		if err := w.store.UpdateItem(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to contribute to item %s: %w", itemID, err)
	}
	return out, nil
}

func (w *Wishlist) checkCap(ctx context.Context, c models.Contribution) error {
	var contributor *models.User
	err := w.run.do(ctx, func(ctx context.Context) (err error) {
		contributor, err = w.store.GetUser(ctx, c.ContributorID)
		return err
	})
	if errors.Is(err, storage.ErrNotFound) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to load contributor: %w", err)
	}
	if limit := contributor.Settings.MaxGiftAmount; limit > 0 && c.Amount > limit {
		return invalid("amount %v exceeds the contributor's limit of %v", c.Amount, limit)
	}
	return nil
}

func (w *Wishlist) modify(ctx context.Context, itemID string, change func(context.Context, *models.WishlistItem) (*models.WishlistItem, error)) (*models.WishlistItem, error) {
	var out *models.WishlistItem
	err := w.run.mutate(ctx, func(ctx context.Context) error {
		current, err := w.store.GetItem(ctx, itemID)
		if err != nil {
			return err
		}
		next, err := change(ctx, current)
		if err != nil {
			return err
		}
		if next == current {
			out = current
			return nil
		}
		next.ID = current.ID
		next.UserID = current.UserID
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version
		if err := w.store.UpdateItem(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update wishlist item %s: %w", itemID, err)
	}
	return out, nil
}

func validateItem(item *models.WishlistItem) error {
	if strings.TrimSpace(item.UserID) == "" {
		return invalid("item owner is required")
	}
	if strings.TrimSpace(item.Title) == "" {
		return invalid("item title is required")
	}
	if math.IsNaN(item.Price) || math.IsInf(item.Price, 0) || item.Price <= 0 {
		return invalid("item price must be a positive number, got %v", item.Price)
	}
	return nil
}

// checkReferences rejects pointing an item at a circle or event that does
// not exist. Callers hold the matching locks, so neither can be deleted
// before the item is written.
func (w *Wishlist) checkReferences(ctx context.Context, circleID, eventID string) error {
	if circleID != "" {
		_, err := w.store.GetCircle(ctx, circleID)
		if errors.Is(err, storage.ErrNotFound) {
			return invalid("circle %s does not exist", circleID)
		}
		if err != nil {
			return err
		}
	}
	if eventID != "" {
		_, err := w.store.GetEvent(ctx, eventID)
		if errors.Is(err, storage.ErrNotFound) {
			return invalid("event %s does not exist", eventID)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// checkUnreferenced rejects removing a circle or event that still scopes an
// open item or one that received contributions.
func checkUnreferenced(items []*models.WishlistItem) error {
	for _, item := range items {
		if item.Status == models.ItemStatusOpen {
			return invalid("item %s is still open", item.ID)
		}
		if len(item.Contributions) > 0 {
			return invalid("item %s has contributions", item.ID)
		}
	}
	return nil
}
