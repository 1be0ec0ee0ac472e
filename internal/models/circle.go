package models

import "slices"

// GiftCircle is a named group used to scope the privacy of wishlist items.
// Every admin is also a member; see membership.Enforce.
type GiftCircle struct {
	// ID is the unique identifier for the circle (UUID format).
	ID string `json:"id"`

	Name        string `json:"name"`
	Description string `json:"description"`

	// AdminIDs order carries no meaning.
	AdminIDs []string `json:"adminIds"`

	// MemberIDs keeps insertion order.
	MemberIDs []string `json:"memberIds"`

	// CreatedTimestamp is the Unix millisecond time the circle was created.
	CreatedTimestamp int64 `json:"createdTimestamp"`

	Version int64 `json:"version"`
}

// IsMember reports whether userID belongs to the circle.
func (c *GiftCircle) IsMember(userID string) bool {
	return slices.Contains(c.MemberIDs, userID)
}

// IsAdmin reports whether userID administers the circle.
func (c *GiftCircle) IsAdmin(userID string) bool {
	return slices.Contains(c.AdminIDs, userID)
}

// Clone returns a deep copy of the circle.
func (c *GiftCircle) Clone() *GiftCircle {
	out := *c
	out.AdminIDs = slices.Clone(c.AdminIDs)
	out.MemberIDs = slices.Clone(c.MemberIDs)
	return &out
}
