package models

import "slices"

// User represents a registered member of the application.
//
// Credentials live with the external identity provider; this record holds only
// profile data, relationships and preferences.
type User struct {
	// ID is the unique identifier for the user (UUID format).
	ID string `json:"id"`

	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Avatar      string `json:"avatar,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`

	// Friends and BlockedUserIDs are disjoint.
	Friends        []string `json:"friends"`
	BlockedUserIDs []string `json:"blockedUserIds"`

	// FamilyMemberIDs lists circle IDs the user treats as family.
	FamilyMemberIDs []string `json:"familyMemberIds"`

	AcceptedEventIDs []string `json:"acceptedEventIds"`

	// HiddenEventIDs are events the user chose not to see. The visibility
	// resolver honours this list for every event the user did not create.
	HiddenEventIDs []string `json:"hiddenEventIds"`

	Settings UserSettings `json:"settings"`

	// BankDetails is private to the owning user and only written through
	// the owner's explicit update path.
	BankDetails *BankDetails `json:"bankDetails,omitempty"`

	// CreatedAt is the Unix timestamp when the user was created.
	CreatedAt int64 `json:"createdAt"`

	Version int64 `json:"version"`
}

// UserSettings holds gifting preferences.
type UserSettings struct {
	DefaultGiftAmount float64 `json:"defaultGiftAmount"`
	// MaxGiftAmount caps a single contribution by this user. Zero means no cap.
	MaxGiftAmount      float64 `json:"maxGiftAmount"`
	Currency           string  `json:"currency"`
	AutoAcceptContacts bool    `json:"autoAcceptContacts"`
}

// BankDetails holds payout information.
type BankDetails struct {
	AccountName   string `json:"accountName"`
	AccountNumber string `json:"accountNumber"`
	BankName      string `json:"bankName"`
	IFSCCode      string `json:"ifscCode"`
	PANNumber     string `json:"panNumber"`
}

// DisplayName returns "First Last", trimmed of missing parts.
func (u *User) DisplayName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

// IsFriend reports whether id is in the user's friend list.
func (u *User) IsFriend(id string) bool {
	return slices.Contains(u.Friends, id)
}

// HasBlocked reports whether the user has blocked id.
func (u *User) HasBlocked(id string) bool {
	return slices.Contains(u.BlockedUserIDs, id)
}

// HasHidden reports whether the user hid the event.
func (u *User) HasHidden(eventID string) bool {
	return slices.Contains(u.HiddenEventIDs, eventID)
}

// Clone returns a deep copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.Friends = slices.Clone(u.Friends)
	c.BlockedUserIDs = slices.Clone(u.BlockedUserIDs)
	c.FamilyMemberIDs = slices.Clone(u.FamilyMemberIDs)
	c.AcceptedEventIDs = slices.Clone(u.AcceptedEventIDs)
	c.HiddenEventIDs = slices.Clone(u.HiddenEventIDs)
	if u.BankDetails != nil {
		bd := *u.BankDetails
		c.BankDetails = &bd
	}
	return &c
}
