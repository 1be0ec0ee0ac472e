package models

import "slices"

// ItemStatus is the funding state of a wishlist item.
// Only OPEN items accept contributions.
type ItemStatus string

const (
	ItemStatusOpen      ItemStatus = "OPEN"
	ItemStatusFulfilled ItemStatus = "FULFILLED"
	ItemStatusCancelled ItemStatus = "CANCELLED"
)

// ContributionType says how the recipient may use the money.
type ContributionType string

const (
	// ContributionLocked funds can only be spent on the item.
	ContributionLocked ContributionType = "LOCKED"
	// ContributionFree funds can be redirected by the recipient.
	ContributionFree ContributionType = "FREE"
)

// Valid reports whether t is a known contribution type.
func (t ContributionType) Valid() bool {
	return t == ContributionLocked || t == ContributionFree
}

// WishlistItem is something a user wants, funded by contributions.
type WishlistItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string `json:"id"`

	// UserID is the owner.
	UserID string `json:"userId"`

	Title       string  `json:"title"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`

	// FundedAmount always equals the sum of Contributions[i].Amount.
	FundedAmount float64 `json:"fundedAmount"`

	ImageURL   string `json:"imageUrl"`
	ProductURL string `json:"productUrl"`

	// EventID and CircleID are optional weak references.
	EventID  string `json:"eventId,omitempty"`
	CircleID string `json:"circleId,omitempty"`

	Status ItemStatus `json:"status"`

	// Contributions is append-only; index order is chronological order.
	Contributions []Contribution `json:"contributions"`

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64 `json:"createdAt"`

	Version int64 `json:"version"`
}

// Contribution is a single funding action against an item.
type Contribution struct {
	ID            string           `json:"id"`
	ContributorID string           `json:"contributorId"`
	Amount        float64          `json:"amount"`
	Type          ContributionType `json:"type"`

	// Timestamp is the Unix millisecond creation time.
	Timestamp int64 `json:"timestamp"`

	IsAnonymous    bool `json:"isAnonymous"`
	IsAmountHidden bool `json:"isAmountHidden"`
}

// Clone returns a deep copy of the item.
func (w *WishlistItem) Clone() *WishlistItem {
	out := *w
	out.Contributions = slices.Clone(w.Contributions)
	return &out
}
