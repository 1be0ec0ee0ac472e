package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"slices"
	"testing"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestCircles(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateCircle generates ID and keeps member order", func(t *testing.T) {
		circle := &models.GiftCircle{
			Name:      "Family",
			AdminIDs:  []string{"u1"},
			MemberIDs: []string{"u3", "u1", "u2"},
		}
		if err := store.CreateCircle(ctx, circle); err != nil {
			t.Fatalf("CreateCircle failed: %v", err)
		}
		if circle.ID == "" {
			t.Error("Expected circle ID to be generated")
		}
		if circle.CreatedTimestamp == 0 {
			t.Error("Expected CreatedTimestamp to be set")
		}
		if circle.Version != 1 {
			t.Errorf("Version = %d, want 1", circle.Version)
		}

		got, err := store.GetCircle(ctx, circle.ID)
		if err != nil {
			t.Fatalf("GetCircle failed: %v", err)
		}
		if !slices.Equal(got.MemberIDs, circle.MemberIDs) {
			t.Errorf("MemberIDs = %v, want %v", got.MemberIDs, circle.MemberIDs)
		}
		if !slices.Equal(got.AdminIDs, circle.AdminIDs) {
			t.Errorf("AdminIDs = %v, want %v", got.AdminIDs, circle.AdminIDs)
		}
	})

	t.Run("ListCirclesByMember", func(t *testing.T) {
		a := &models.GiftCircle{Name: "A", MemberIDs: []string{"m1", "m2"}, AdminIDs: []string{"m1"}}
		b := &models.GiftCircle{Name: "B", MemberIDs: []string{"m2"}, AdminIDs: []string{"m2"}}
		for _, c := range []*models.GiftCircle{a, b} {
			if err := store.CreateCircle(ctx, c); err != nil {
				t.Fatalf("CreateCircle failed: %v", err)
			}
		}

		got, err := store.ListCirclesByMember(ctx, "m2")
		if err != nil {
			t.Fatalf("ListCirclesByMember failed: %v", err)
		}
		if len(got) != 2 {
			t.Errorf("Expected 2 circles for m2, got %d", len(got))
		}
		got, err = store.ListCirclesByMember(ctx, "m1")
		if err != nil {
			t.Fatalf("ListCirclesByMember failed: %v", err)
		}
		if len(got) != 1 || got[0].ID != a.ID {
			t.Errorf("Expected only circle A for m1, got %v", got)
		}
	})

	t.Run("UpdateCircle bumps version and rejects stale writes", func(t *testing.T) {
		circle := &models.GiftCircle{Name: "Friends", MemberIDs: []string{"x"}, AdminIDs: []string{"x"}}
		if err := store.CreateCircle(ctx, circle); err != nil {
			t.Fatalf("CreateCircle failed: %v", err)
		}
		stale := circle.Clone()

		circle.Name = "Best Friends"
		circle.MemberIDs = append(circle.MemberIDs, "y")
		if err := store.UpdateCircle(ctx, circle); err != nil {
			t.Fatalf("UpdateCircle failed: %v", err)
		}
		if circle.Version != 2 {
			t.Errorf("Version = %d, want 2", circle.Version)
		}

		stale.Name = "Lost Update"
		err := store.UpdateCircle(ctx, stale)
		if !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}

		got, _ := store.GetCircle(ctx, circle.ID)
		if got.Name != "Best Friends" || !slices.Equal(got.MemberIDs, []string{"x", "y"}) {
			t.Errorf("Unexpected stored circle: %+v", got)
		}
	})

	t.Run("UpdateCircle never creates", func(t *testing.T) {
		err := store.UpdateCircle(ctx, &models.GiftCircle{ID: "missing", Name: "Ghost", Version: 1})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Fatalf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetCircle(ctx, "missing"); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected circle to stay absent, got %v", err)
		}
	})

	t.Run("DeleteCircle", func(t *testing.T) {
		circle := &models.GiftCircle{Name: "Temp", MemberIDs: []string{"z"}}
		if err := store.CreateCircle(ctx, circle); err != nil {
			t.Fatalf("CreateCircle failed: %v", err)
		}
		stale := circle.Version
		circle.Name = "Renamed"
		if err := store.UpdateCircle(ctx, circle); err != nil {
			t.Fatalf("UpdateCircle failed: %v", err)
		}
		if err := store.DeleteCircle(ctx, circle.ID, stale); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict deleting at a stale version, got %v", err)
		}
		if _, err := store.GetCircle(ctx, circle.ID); err != nil {
			t.Fatalf("Stale delete removed the circle: %v", err)
		}

		if err := store.DeleteCircle(ctx, circle.ID, circle.Version); err != nil {
			t.Fatalf("DeleteCircle failed: %v", err)
		}
		if _, err := store.GetCircle(ctx, circle.ID); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound after delete, got %v", err)
		}
		if err := store.DeleteCircle(ctx, circle.ID, circle.Version); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestEvents(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	event := &models.Event{
		UserID:     "creator",
		Title:      "Birthday",
		Date:       "2026-03-01",
		Type:       models.EventTypeBirthday,
		InviteeIDs: []string{"i1", "i2"},
		Status:     models.EventStatusActive,
		Visibility: models.VisibilityPrivate,
	}
	if err := store.CreateEvent(ctx, event); err != nil {
		t.Fatalf("CreateEvent failed: %v", err)
	}

	t.Run("GetEvent round trips", func(t *testing.T) {
		got, err := store.GetEvent(ctx, event.ID)
		if err != nil {
			t.Fatalf("GetEvent failed: %v", err)
		}
		if got.Type != models.EventTypeBirthday || got.Visibility != models.VisibilityPrivate {
			t.Errorf("Unexpected enums: %s %s", got.Type, got.Visibility)
		}
		if !slices.Equal(got.InviteeIDs, event.InviteeIDs) {
			t.Errorf("InviteeIDs = %v, want %v", got.InviteeIDs, event.InviteeIDs)
		}
	})

	t.Run("list by creator and invitee", func(t *testing.T) {
		byCreator, err := store.ListEventsByCreator(ctx, "creator")
		if err != nil {
			t.Fatalf("ListEventsByCreator failed: %v", err)
		}
		if len(byCreator) != 1 {
			t.Errorf("Expected 1 event by creator, got %d", len(byCreator))
		}
		byInvitee, err := store.ListEventsByInvitee(ctx, "i2")
		if err != nil {
			t.Fatalf("ListEventsByInvitee failed: %v", err)
		}
		if len(byInvitee) != 1 || byInvitee[0].ID != event.ID {
			t.Errorf("Expected event for invitee i2, got %v", byInvitee)
		}
		none, _ := store.ListEventsByInvitee(ctx, "nobody")
		if len(none) != 0 {
			t.Errorf("Expected no events, got %d", len(none))
		}
	})

	t.Run("UpdateEvent replaces invitees", func(t *testing.T) {
		event.Status = models.EventStatusCancelled
		event.InviteeIDs = []string{"i3"}
		if err := store.UpdateEvent(ctx, event); err != nil {
			t.Fatalf("UpdateEvent failed: %v", err)
		}
		got, _ := store.GetEvent(ctx, event.ID)
		if got.Status != models.EventStatusCancelled {
			t.Errorf("Status = %s, want CANCELLED", got.Status)
		}
		if !slices.Equal(got.InviteeIDs, []string{"i3"}) {
			t.Errorf("InviteeIDs = %v, want [i3]", got.InviteeIDs)
		}
		if got.Version != 2 {
			t.Errorf("Version = %d, want 2", got.Version)
		}
	})

	t.Run("UpdateEvent missing", func(t *testing.T) {
		err := store.UpdateEvent(ctx, &models.Event{ID: "missing", Version: 1})
		if !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteEvent checks version", func(t *testing.T) {
		if err := store.DeleteEvent(ctx, event.ID, 1); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict at version 1, got %v", err)
		}
		if err := store.DeleteEvent(ctx, event.ID, event.Version); err != nil {
			t.Fatalf("DeleteEvent failed: %v", err)
		}
		if err := store.DeleteEvent(ctx, event.ID, event.Version); !errors.Is(err, storage.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestWishlist(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	item := &models.WishlistItem{
		UserID:   "owner",
		Title:    "Camera",
		Price:    500,
		CircleID: "c1",
		Status:   models.ItemStatusOpen,
	}
	if err := store.CreateItem(ctx, item); err != nil {
		t.Fatalf("CreateItem failed: %v", err)
	}

	t.Run("GetItem returns empty contributions", func(t *testing.T) {
		got, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if got.EventID != "" || got.CircleID != "c1" {
			t.Errorf("Unexpected references: event=%q circle=%q", got.EventID, got.CircleID)
		}
		if len(got.Contributions) != 0 {
			t.Errorf("Expected no contributions, got %d", len(got.Contributions))
		}
	})

	t.Run("UpdateItem appends contributions in order", func(t *testing.T) {
		item.Contributions = append(item.Contributions,
			models.Contribution{ID: "k1", ContributorID: "a", Amount: 100, Type: models.ContributionLocked, Timestamp: 1},
		)
		item.FundedAmount = 100
		if err := store.UpdateItem(ctx, item); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		item.Contributions = append(item.Contributions,
			models.Contribution{ID: "k2", ContributorID: "b", Amount: 50, Type: models.ContributionFree,
				Timestamp: 2, IsAnonymous: true, IsAmountHidden: true},
		)
		item.FundedAmount = 150
		if err := store.UpdateItem(ctx, item); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}

		got, _ := store.GetItem(ctx, item.ID)
		if len(got.Contributions) != 2 {
			t.Fatalf("Expected 2 contributions, got %d", len(got.Contributions))
		}
		if got.Contributions[0].ID != "k1" || got.Contributions[1].ID != "k2" {
			t.Errorf("Contribution order = %s,%s", got.Contributions[0].ID, got.Contributions[1].ID)
		}
		second := got.Contributions[1]
		if !second.IsAnonymous || !second.IsAmountHidden || second.Type != models.ContributionFree {
			t.Errorf("Flags not round tripped: %+v", second)
		}
		if got.FundedAmount != 150 || got.Version != 3 {
			t.Errorf("FundedAmount=%v Version=%d, want 150 and 3", got.FundedAmount, got.Version)
		}
	})

	t.Run("UpdateItem rejects dropped contributions", func(t *testing.T) {
		current, _ := store.GetItem(ctx, item.ID)
		current.Contributions = current.Contributions[:1]
		if err := store.UpdateItem(ctx, current); err == nil {
			t.Fatal("Expected error when shrinking contributions")
		}
		got, _ := store.GetItem(ctx, item.ID)
		if len(got.Contributions) != 2 || got.Version != current.Version {
			t.Errorf("Failed update changed state: %d contributions, version %d", len(got.Contributions), got.Version)
		}
	})

	t.Run("UpdateItem conflict", func(t *testing.T) {
		stale, _ := store.GetItem(ctx, item.ID)
		fresh, _ := store.GetItem(ctx, item.ID)
		fresh.Title = "Mirrorless camera"
		if err := store.UpdateItem(ctx, fresh); err != nil {
			t.Fatalf("UpdateItem failed: %v", err)
		}
		stale.Title = "Film camera"
		if err := store.UpdateItem(ctx, stale); !errors.Is(err, storage.ErrConflict) {
			t.Errorf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("list by owner, circle and event", func(t *testing.T) {
		other := &models.WishlistItem{UserID: "owner", Title: "Book", Price: 20, EventID: "e1", Status: models.ItemStatusOpen}
		if err := store.CreateItem(ctx, other); err != nil {
			t.Fatalf("CreateItem failed: %v", err)
		}

		byOwner, _ := store.ListItemsByOwner(ctx, "owner")
		if len(byOwner) != 2 {
			t.Errorf("Expected 2 items for owner, got %d", len(byOwner))
		}
		byCircle, _ := store.ListItemsByCircle(ctx, "c1")
		if len(byCircle) != 1 || byCircle[0].ID != item.ID {
			t.Errorf("Expected camera for circle c1, got %v", byCircle)
		}
		byEvent, _ := store.ListItemsByEvent(ctx, "e1")
		if len(byEvent) != 1 || byEvent[0].ID != other.ID {
			t.Errorf("Expected book for event e1, got %v", byEvent)
		}
		all, _ := store.ListItems(ctx)
		if len(all) != 2 {
			t.Errorf("Expected 2 items, got %d", len(all))
		}
	})

	t.Run("DeleteItem cascades contributions", func(t *testing.T) {
		current, err := store.GetItem(ctx, item.ID)
		if err != nil {
			t.Fatalf("GetItem failed: %v", err)
		}
		if err := store.DeleteItem(ctx, item.ID, current.Version-1); !errors.Is(err, storage.ErrConflict) {
			t.Fatalf("Expected ErrConflict at a stale version, got %v", err)
		}
		if err := store.DeleteItem(ctx, item.ID, current.Version); err != nil {
			t.Fatalf("DeleteItem failed: %v", err)
		}
		var n int
		if err := store.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM contributions WHERE item_id = ?", item.ID).Scan(&n); err != nil {
			t.Fatalf("count failed: %v", err)
		}
		if n != 0 {
			t.Errorf("Expected contributions to be deleted, %d left", n)
		}
	})
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := &models.User{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Friends:   []string{"f1"},
		Settings:  models.UserSettings{MaxGiftAmount: 200, Currency: "INR"},
		BankDetails: &models.BankDetails{
			AccountName: "Ada", AccountNumber: "123", BankName: "Bank", IFSCCode: "IFSC0", PANNumber: "PAN0",
		},
	}
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	got, err := store.GetUser(ctx, user.ID)
	if err != nil {
		t.Fatalf("GetUser failed: %v", err)
	}
	if got.DisplayName() != "Ada Lovelace" || got.Settings.MaxGiftAmount != 200 {
		t.Errorf("Unexpected user: %+v", got)
	}
	if got.BankDetails == nil || got.BankDetails.AccountNumber != "123" {
		t.Errorf("BankDetails not round tripped: %+v", got.BankDetails)
	}

	got.HiddenEventIDs = []string{"e1"}
	if err := store.UpdateUser(ctx, got); err != nil {
		t.Fatalf("UpdateUser failed: %v", err)
	}
	again, _ := store.GetUser(ctx, user.ID)
	if !again.HasHidden("e1") || again.Version != 2 {
		t.Errorf("Update not persisted: hidden=%v version=%d", again.HiddenEventIDs, again.Version)
	}

	if err := store.UpdateUser(ctx, user); !errors.Is(err, storage.ErrConflict) {
		t.Errorf("Expected ErrConflict for stale user, got %v", err)
	}
	if err := store.UpdateUser(ctx, &models.User{ID: "missing", Version: 1}); !errors.Is(err, storage.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	users, err := store.ListUsers(ctx)
	if err != nil {
		t.Fatalf("ListUsers failed: %v", err)
	}
	if len(users) != 1 {
		t.Errorf("Expected 1 user, got %d", len(users))
	}
}
