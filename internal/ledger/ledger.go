// Package ledger maintains wishlist funding.
//
// An item's FundedAmount is always the exact sum of its contribution amounts.
// Contributions are only ever appended, and an item moves OPEN -> FULFILLED
// the moment that sum reaches its price.
package ledger

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/giftcircle/internal/models"
)

var (
	ErrInvalidAmount = errors.New("contribution amount must be greater than zero")
	ErrItemClosed    = errors.New("item is not open for funding")
)

// Ledger applies contributions to wishlist items.
type Ledger struct {
	now   func() time.Time
	newID func() string
}

// Option configures a Ledger.
type Option func(*Ledger)

// WithClock overrides the time source used for contribution timestamps.
func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

// WithIDGenerator overrides how contribution IDs are generated.
func WithIDGenerator(newID func() string) Option {
	return func(l *Ledger) { l.newID = newID }
}

// New creates a Ledger using wall-clock time and random UUIDs.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		now:   time.Now,
		newID: func() string { return uuid.New().String() },
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Apply returns a copy of item with c appended.
//
// The contribution's ID and Timestamp are assigned here; whatever the caller
// put in them is discarded. FundedAmount is recomputed from the full
// sequence rather than incremented. item itself is left untouched, so a
// rejected contribution never leaks into the caller's record.
func (l *Ledger) Apply(item *models.WishlistItem, c models.Contribution) (*models.WishlistItem, error) {
	if !finite(c.Amount) || c.Amount <= 0 {
		return nil, fmt.Errorf("%w: got %v", ErrInvalidAmount, c.Amount)
	}
	if item.Status != models.ItemStatusOpen {
		return nil, fmt.Errorf("%w: status is %s", ErrItemClosed, item.Status)
	}
	if c.Type == "" {
		c.Type = models.ContributionLocked
	}

	c.ID = l.newID()
	c.Timestamp = l.now().UnixMilli()

	out := item.Clone()
	out.Contributions = append(out.Contributions, c)
	Settle(out)
	return out, nil
}

// Settle recomputes FundedAmount from the contribution sequence and moves an
// OPEN item to FULFILLED once the price is covered. It never reopens an item.
func Settle(item *models.WishlistItem) {
	total := sum(item.Contributions)
	item.FundedAmount = total.InexactFloat64()
	if item.Status == models.ItemStatusOpen && finite(item.Price) &&
		total.GreaterThanOrEqual(decimal.NewFromFloat(item.Price)) {
		item.Status = models.ItemStatusFulfilled
	}
}

// Sum returns the exact total of the contribution amounts.
func Sum(contributions []models.Contribution) float64 {
	return sum(contributions).InexactFloat64()
}

// Remaining returns how much is still needed to cover the price, never
// less than zero.
func Remaining(item *models.WishlistItem) float64 {
	if !finite(item.Price) {
		return 0
	}
	left := decimal.NewFromFloat(item.Price).Sub(sum(item.Contributions))
	if left.IsNegative() {
		return 0
	}
	return left.InexactFloat64()
}

func sum(contributions []models.Contribution) decimal.Decimal {
	total := decimal.Zero
	for _, c := range contributions {
		if !finite(c.Amount) {
			continue
		}
		total = total.Add(decimal.NewFromFloat(c.Amount))
	}
	return total
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}
