package aggregate

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mmynk/giftcircle/internal/models"
)

func TestUserCreate(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	user, err := f.Users.Create(ctx, &models.User{ID: "sub-123", FirstName: "Ravi", Email: "ravi@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if user.ID != "sub-123" {
		t.Errorf("ID = %s, want the supplied sub-123", user.ID)
	}
	if _, err := f.Users.Create(ctx, &models.User{ID: "sub-123", Email: "dup@example.com"}); !errors.Is(err, ErrAlreadyExists) {
		t.Errorf("Expected ErrAlreadyExists, got %v", err)
	}
	if _, err := f.Users.Create(ctx, &models.User{FirstName: "No email"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation without email, got %v", err)
	}
	_, err = f.Users.Create(ctx, &models.User{
		Email:          "both@example.com",
		Friends:        []string{"x"},
		BlockedUserIDs: []string{"x"},
	})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for friend that is blocked, got %v", err)
	}

	users, err := f.Users.List(ctx)
	if err != nil {
		t.Fatalf("List failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}

func TestUserRelationships(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	user, err := f.Users.Create(ctx, &models.User{ID: "me", Email: "me@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.Users.AddFriend(ctx, user.ID, "pal"); err != nil {
		t.Fatalf("AddFriend failed: %v", err)
	}
	got, err := f.Users.AddFriend(ctx, user.ID, "pal")
	if err != nil {
		t.Fatalf("AddFriend twice failed: %v", err)
	}
	if !slices.Equal(got.Friends, []string{"pal"}) {
		t.Errorf("Friends = %v, want [pal]", got.Friends)
	}

	got, err = f.Users.Block(ctx, user.ID, "pal")
	if err != nil {
		t.Fatalf("Block failed: %v", err)
	}
	if got.IsFriend("pal") || !got.HasBlocked("pal") {
		t.Errorf("Block should move pal from friends to blocked: %+v", got)
	}

	if _, err := f.Users.AddFriend(ctx, user.ID, "pal"); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation befriending a blocked user, got %v", err)
	}
	if _, err := f.Users.AddFriend(ctx, user.ID, user.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation befriending self, got %v", err)
	}
	if _, err := f.Users.Block(ctx, user.ID, user.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation blocking self, got %v", err)
	}

	if _, err := f.Users.Unblock(ctx, user.ID, "pal"); err != nil {
		t.Fatalf("Unblock failed: %v", err)
	}
	if _, err := f.Users.AddFriend(ctx, user.ID, "pal"); err != nil {
		t.Fatalf("AddFriend after unblock failed: %v", err)
	}
	got, err = f.Users.RemoveFriend(ctx, user.ID, "pal")
	if err != nil {
		t.Fatalf("RemoveFriend failed: %v", err)
	}
	if len(got.Friends) != 0 {
		t.Errorf("Friends = %v, want none", got.Friends)
	}

	if _, err := f.Users.AddFriend(ctx, "ghost", "pal"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestUserEventsAndSettings(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	user, err := f.Users.Create(ctx, &models.User{ID: "me", Email: "me@example.com"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	event, err := f.Events.Create(ctx, &models.Event{UserID: "host", Title: "Housewarming", InviteeIDs: []string{"me"}})
	if err != nil {
		t.Fatalf("Events.Create failed: %v", err)
	}

	got, err := f.Users.HideEvent(ctx, user.ID, event.ID)
	if err != nil {
		t.Fatalf("HideEvent failed: %v", err)
	}
	if !got.HasHidden(event.ID) {
		t.Error("Expected event to be hidden")
	}
	got, err = f.Users.UnhideEvent(ctx, user.ID, event.ID)
	if err != nil {
		t.Fatalf("UnhideEvent failed: %v", err)
	}
	if got.HasHidden(event.ID) {
		t.Error("Expected event to be visible again")
	}

	got, err = f.Users.AcceptEvent(ctx, user.ID, event.ID)
	if err != nil {
		t.Fatalf("AcceptEvent failed: %v", err)
	}
	if !slices.Equal(got.AcceptedEventIDs, []string{event.ID}) {
		t.Errorf("AcceptedEventIDs = %v", got.AcceptedEventIDs)
	}
	if _, err := f.Users.AcceptEvent(ctx, user.ID, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown event, got %v", err)
	}
	if _, err := f.Events.Cancel(ctx, event.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if _, err := f.Users.AcceptEvent(ctx, user.ID, event.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation accepting a cancelled event, got %v", err)
	}

	got, err = f.Users.UpdateSettings(ctx, user.ID, models.UserSettings{DefaultGiftAmount: 20, MaxGiftAmount: 100, Currency: "INR"})
	if err != nil {
		t.Fatalf("UpdateSettings failed: %v", err)
	}
	if got.Settings.MaxGiftAmount != 100 {
		t.Errorf("MaxGiftAmount = %v, want 100", got.Settings.MaxGiftAmount)
	}
	if _, err := f.Users.UpdateSettings(ctx, user.ID, models.UserSettings{MaxGiftAmount: -1}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for negative cap, got %v", err)
	}
	if _, err := f.Users.UpdateSettings(ctx, user.ID, models.UserSettings{DefaultGiftAmount: 200, MaxGiftAmount: 100}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for default above cap, got %v", err)
	}

	got, err = f.Users.UpdateBankDetails(ctx, user.ID, &models.BankDetails{AccountName: "Me", AccountNumber: "42"})
	if err != nil {
		t.Fatalf("UpdateBankDetails failed: %v", err)
	}
	if got.BankDetails == nil || got.BankDetails.AccountNumber != "42" {
		t.Errorf("BankDetails = %+v", got.BankDetails)
	}

	got, err = f.Users.UpdateProfile(ctx, user.ID, Profile{FirstName: "New", LastName: "Name", Email: "new@example.com"})
	if err != nil {
		t.Fatalf("UpdateProfile failed: %v", err)
	}
	if got.DisplayName() != "New Name" || got.BankDetails == nil {
		t.Errorf("UpdateProfile result: %+v", got)
	}
	if _, err := f.Users.UpdateProfile(ctx, user.ID, Profile{FirstName: "No email"}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation clearing email, got %v", err)
	}
}
