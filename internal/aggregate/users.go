package aggregate

import (
	"context"
	"errors"
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

// Users manages user profiles and relationships. Friends and blocked users
// never overlap, and nobody can befriend or block themselves.
type Users struct {
	store storage.Store
	run   *runner
}

// Profile holds the user fields that UpdateProfile may change.
type Profile struct {
	FirstName   string
	LastName    string
	Email       string
	Avatar      string
	PhoneNumber string
}

// Create stores a new user. A caller-supplied ID is kept, so the ID issued
// by the identity provider can be used directly.
func (u *Users) Create(ctx context.Context, user *models.User) (*models.User, error) {
	out := user.Clone()
	out.CreatedAt = 0
	out.Friends = models.UniqueIDs(out.Friends)
	out.BlockedUserIDs = models.UniqueIDs(out.BlockedUserIDs)
	out.FamilyMemberIDs = models.UniqueIDs(out.FamilyMemberIDs)
	out.AcceptedEventIDs = models.UniqueIDs(out.AcceptedEventIDs)
	out.HiddenEventIDs = models.UniqueIDs(out.HiddenEventIDs)
	if err := validateUser(out); err != nil {
		return nil, err
	}

	err := u.run.do(ctx, func(ctx context.Context) error {
		if out.ID != "" {
			_, err := u.store.GetUser(ctx, out.ID)
			if err == nil {
				return fmt.Errorf("%w: user %s", ErrAlreadyExists, out.ID)
			}
			if !errors.Is(err, storage.ErrNotFound) {
				return err
			}
		}
		return u.store.CreateUser(ctx, out)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}
	return out, nil
}

// Get returns a user by ID.
func (u *Users) Get(ctx context.Context, userID string) (*models.User, error) {
	var user *models.User
	err := u.run.do(ctx, func(ctx context.Context) (err error) {
		user, err = u.store.GetUser(ctx, userID)
		return err
	})
	return user, err
}

// List returns every user.
func (u *Users) List(ctx context.Context) ([]*models.User, error) {
	var users []*models.User
	err := u.run.do(ctx, func(ctx context.Context) (err error) {
		users, err = u.store.ListUsers(ctx)
		return err
	})
	return users, err
}

// UpdateProfile replaces the user's profile fields.
func (u *Users) UpdateProfile(ctx context.Context, userID string, p Profile) (*models.User, error) {
	return u.modify(ctx, userID, func(user *models.User) error {
		user.FirstName = p.FirstName
		user.LastName = p.LastName
		user.Email = p.Email
		user.Avatar = p.Avatar
		user.PhoneNumber = p.PhoneNumber
		return nil
	})
}

// UpdateSettings replaces the user's gifting preferences.
func (u *Users) UpdateSettings(ctx context.Context, userID string, s models.UserSettings) (*models.User, error) {
	for name, v := range map[string]float64{"defaultGiftAmount": s.DefaultGiftAmount, "maxGiftAmount": s.MaxGiftAmount} {
		if math.IsNaN(v) || math.IsInf(v, 0) || v < 0 {
			return nil, invalid("%s must be a non-negative number, got %v", name, v)
		}
	}
	if s.MaxGiftAmount > 0 && s.DefaultGiftAmount > s.MaxGiftAmount {
		return nil, invalid("defaultGiftAmount %v exceeds maxGiftAmount %v", s.DefaultGiftAmount, s.MaxGiftAmount)
	}
	return u.modify(ctx, userID, func(user *models.User) error {
		user.Settings = s
		return nil
	})
}

// UpdateBankDetails replaces the user's payout details. nil clears them.
func (u *Users) UpdateBankDetails(ctx context.Context, userID string, details *models.BankDetails) (*models.User, error) {
	return u.modify(ctx, userID, func(user *models.User) error {
		if details == nil {
			user.BankDetails = nil
			return nil
		}
		bd := *details
		user.BankDetails = &bd
		return nil
	})
}

// AddFriend adds friendID to the user's friends. Blocked users must be
// unblocked first.
func (u *Users) AddFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	if err := checkOther(userID, friendID); err != nil {
		return nil, err
	}
	return u.modify(ctx, userID, func(user *models.User) error {
		if user.HasBlocked(friendID) {
			return invalid("user %s is blocked", friendID)
		}
		user.Friends = addID(user.Friends, friendID)
		return nil
	})
}

// RemoveFriend drops friendID from the user's friends.
func (u *Users) RemoveFriend(ctx context.Context, userID, friendID string) (*models.User, error) {
	return u.modify(ctx, userID, func(user *models.User) error {
		user.Friends = removeID(user.Friends, friendID)
		return nil
	})
}

// Block blocks otherID, ending any friendship.
func (u *Users) Block(ctx context.Context, userID, otherID string) (*models.User, error) {
	if err := checkOther(userID, otherID); err != nil {
		return nil, err
	}
	return u.modify(ctx, userID, func(user *models.User) error {
		user.Friends = removeID(user.Friends, otherID)
		user.BlockedUserIDs = addID(user.BlockedUserIDs, otherID)
		return nil
	})
}

// Unblock removes otherID from the blocked list.
func (u *Users) Unblock(ctx context.Context, userID, otherID string) (*models.User, error) {
	return u.modify(ctx, userID, func(user *models.User) error {
		user.BlockedUserIDs = removeID(user.BlockedUserIDs, otherID)
		return nil
	})
}

// HideEvent hides an event from the user's views. It has no effect on
// events the user created.
func (u *Users) HideEvent(ctx context.Context, userID, eventID string) (*models.User, error) {
	if strings.TrimSpace(eventID) == "" {
		return nil, invalid("event id is required")
	}
	return u.modify(ctx, userID, func(user *models.User) error {
		user.HiddenEventIDs = addID(user.HiddenEventIDs, eventID)
		return nil
	})
}

// UnhideEvent makes a hidden event visible again.
func (u *Users) UnhideEvent(ctx context.Context, userID, eventID string) (*models.User, error) {
	return u.modify(ctx, userID, func(user *models.User) error {
		user.HiddenEventIDs = removeID(user.HiddenEventIDs, eventID)
		return nil
	})
}

// AcceptEvent records that the user accepted an invitation. The event must
// exist and be active.
func (u *Users) AcceptEvent(ctx context.Context, userID, eventID string) (*models.User, error) {
	var event *models.Event
	if err := u.run.do(ctx, func(ctx context.Context) (err error) {
		event, err = u.store.GetEvent(ctx, eventID)
		return err
	}); err != nil {
		return nil, fmt.Errorf("failed to load event %s: %w", eventID, err)
	}
	if event.Status != models.EventStatusActive {
		return nil, invalid("event %s is %s", eventID, event.Status)
	}
	return u.modify(ctx, userID, func(user *models.User) error {
		user.AcceptedEventIDs = addID(user.AcceptedEventIDs, eventID)
		return nil
	})
}

func (u *Users) modify(ctx context.Context, userID string, change func(*models.User) error) (*models.User, error) {
	var out *models.User
	err := u.run.mutate(ctx, func(ctx context.Context) error {
		current, err := u.store.GetUser(ctx, userID)
		if err != nil {
			return err
		}
		next := current.Clone()
		if err := change(next); err != nil {
			return err
		}
		next.ID = current.ID
		next.CreatedAt = current.CreatedAt
		next.Version = current.Version
		if err := validateUser(next); err != nil {
			return err
		}
		if err := u.store.UpdateUser(ctx, next); err != nil {
			return err
		}
		out = next
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to update user %s: %w", userID, err)
	}
	return out, nil
}

func validateUser(user *models.User) error {
	if strings.TrimSpace(user.Email) == "" {
		return invalid("email is required")
	}
	for _, id := range user.Friends {
		if user.HasBlocked(id) {
			return invalid("user %s is both a friend and blocked", id)
		}
	}
	if user.ID != "" && (user.IsFriend(user.ID) || user.HasBlocked(user.ID)) {
		return invalid("users cannot befriend or block themselves")
	}
	return nil
}

func checkOther(userID, otherID string) error {
	if strings.TrimSpace(otherID) == "" {
		return invalid("user id is required")
	}
	if userID == otherID {
		return invalid("users cannot befriend or block themselves")
	}
	return nil
}

func addID(ids []string, id string) []string {
	if slices.Contains(ids, id) {
		return ids
	}
	return append(ids, id)
}

func removeID(ids []string, id string) []string {
	return slices.DeleteFunc(ids, func(v string) bool { return v == id })
}
