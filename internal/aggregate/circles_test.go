package aggregate

import (
	"context"
	"errors"
	"slices"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/storage"
)

func TestCircleCreateEnforcesAdminsAreMembers(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	circle, err := f.Circles.Create(ctx, &models.GiftCircle{
		Name:      "Cousins",
		AdminIDs:  []string{"u1"},
		MemberIDs: []string{},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	stored, err := f.Circles.Get(ctx, circle.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !slices.Equal(stored.MemberIDs, []string{"u1"}) {
		t.Errorf("MemberIDs = %v, want [u1]", stored.MemberIDs)
	}

	if _, err := f.Circles.Create(ctx, &models.GiftCircle{Name: "  "}); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for blank name, got %v", err)
	}
}

func TestCircleMutations(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	circle, err := f.Circles.Create(ctx, &models.GiftCircle{
		Name:      "Team",
		AdminIDs:  []string{"lead"},
		MemberIDs: []string{"lead", "dev"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	tests := []struct {
		name        string
		apply       func() (*models.GiftCircle, error)
		wantMembers []string
		wantAdmins  []string
	}{
		{
			name:        "add members skips duplicates",
			apply:       func() (*models.GiftCircle, error) { return f.Circles.AddMembers(ctx, circle.ID, "dev", "qa") },
			wantMembers: []string{"lead", "dev", "qa"},
			wantAdmins:  []string{"lead"},
		},
		{
			name:        "add admin who is not yet a member",
			apply:       func() (*models.GiftCircle, error) { return f.Circles.AddAdmin(ctx, circle.ID, "pm") },
			wantMembers: []string{"lead", "dev", "qa", "pm"},
			wantAdmins:  []string{"lead", "pm"},
		},
		{
			name:        "remove admin keeps membership",
			apply:       func() (*models.GiftCircle, error) { return f.Circles.RemoveAdmin(ctx, circle.ID, "lead") },
			wantMembers: []string{"lead", "dev", "qa", "pm"},
			wantAdmins:  []string{"pm"},
		},
		{
			name:        "remove member drops admin rights",
			apply:       func() (*models.GiftCircle, error) { return f.Circles.RemoveMember(ctx, circle.ID, "pm") },
			wantMembers: []string{"lead", "dev", "qa"},
			wantAdmins:  []string{},
		},
		{
			name: "update re-enforces admins",
			apply: func() (*models.GiftCircle, error) {
				return f.Circles.Update(ctx, &models.GiftCircle{
					ID:        circle.ID,
					Name:      "Renamed",
					AdminIDs:  []string{"boss"},
					MemberIDs: []string{"dev"},
				})
			},
			wantMembers: []string{"dev", "boss"},
			wantAdmins:  []string{"boss"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.apply()
			if err != nil {
				t.Fatalf("mutation failed: %v", err)
			}
			stored, err := f.Circles.Get(ctx, circle.ID)
			if err != nil {
				t.Fatalf("Get failed: %v", err)
			}
			if !slices.Equal(stored.MemberIDs, tt.wantMembers) {
				t.Errorf("MemberIDs = %v, want %v", stored.MemberIDs, tt.wantMembers)
			}
			if !slices.Equal(stored.AdminIDs, tt.wantAdmins) {
				t.Errorf("AdminIDs = %v, want %v", stored.AdminIDs, tt.wantAdmins)
			}
			if slices.ContainsFunc(stored.AdminIDs, func(a string) bool { return !stored.IsMember(a) }) {
				t.Errorf("Stored circle violates admins within members: %+v", stored)
			}
			if got.Version != stored.Version {
				t.Errorf("Returned version %d, stored %d", got.Version, stored.Version)
			}
		})
	}

	stored, _ := f.Circles.Get(ctx, circle.ID)
	if stored.Name != "Renamed" || stored.CreatedTimestamp != circle.CreatedTimestamp {
		t.Errorf("Unexpected circle after update: %+v", stored)
	}
}

func TestCircleUpdateMissing(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	_, err := f.Circles.Update(ctx, &models.GiftCircle{ID: "missing", Name: "Ghost"})
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("Expected ErrNotFound, got %v", err)
	}
	circles, _ := f.Circles.List(ctx)
	if len(circles) != 0 {
		t.Errorf("Update created %d circles", len(circles))
	}
}

func TestCircleDelete(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	circle, err := f.Circles.Create(ctx, &models.GiftCircle{Name: "Neighbours", AdminIDs: []string{"n1"}})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	item, err := f.Wishlist.Create(ctx, &models.WishlistItem{UserID: "n1", Title: "Mower", Price: 200, CircleID: circle.ID})
	if err != nil {
		t.Fatalf("Wishlist.Create failed: %v", err)
	}

	if err := f.Circles.Delete(ctx, circle.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation while an open item is scoped, got %v", err)
	}

	if _, err := f.Wishlist.Cancel(ctx, item.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := f.Circles.Delete(ctx, circle.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.Circles.Get(ctx, circle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if err := f.Circles.Delete(ctx, circle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound deleting twice, got %v", err)
	}

	byMember, err := f.Circles.ListByMember(ctx, "n1")
	if err != nil {
		t.Fatalf("ListByMember failed: %v", err)
	}
	if len(byMember) != 0 {
		t.Errorf("Expected no circles for n1, got %d", len(byMember))
	}
}

func TestCircleDeleteKeepsFundedItems(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	circle := createCircle(t, f)

	item, err := f.Wishlist.Create(ctx, &models.WishlistItem{UserID: "owner", Title: "Watch", Price: 50, CircleID: circle.ID})
	if err != nil {
		t.Fatalf("Wishlist.Create failed: %v", err)
	}
	funded, err := f.Wishlist.Contribute(ctx, item.ID, models.Contribution{ContributorID: "a", Amount: 50})
	if err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if funded.Status != models.ItemStatusFulfilled {
		t.Fatalf("Status = %s, want FULFILLED", funded.Status)
	}

	if err := f.Circles.Delete(ctx, circle.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation while a funded item is scoped, got %v", err)
	}
	if _, err := f.Circles.Get(ctx, circle.ID); err != nil {
		t.Errorf("Refused delete removed the circle: %v", err)
	}
}

// circleDeleteHooks runs hook on the first ListItemsByCircle and counts
// DeleteCircle calls.
type circleDeleteHooks struct {
	storage.Store
	once    sync.Once
	hook    func()
	deletes atomic.Int32
}

func (s *circleDeleteHooks) ListItemsByCircle(ctx context.Context, circleID string) ([]*models.WishlistItem, error) {
	s.once.Do(s.hook)
	return s.Store.ListItemsByCircle(ctx, circleID)
}

func (s *circleDeleteHooks) DeleteCircle(ctx context.Context, circleID string, version int64) error {
	s.deletes.Add(1)
	return s.Store.DeleteCircle(ctx, circleID, version)
}

func TestCircleDeleteBlocksItemCreation(t *testing.T) {
	ctx := context.Background()
	hooks := &circleDeleteHooks{Store: newTestStore(t)}
	f := New(hooks, withoutBackOff())
	circle := createCircle(t, f)

	created := make(chan error, 1)
	hooks.hook = func() {
		go func() {
			_, err := f.Wishlist.Create(ctx, &models.WishlistItem{UserID: "owner", Title: "Late", Price: 5, CircleID: circle.ID})
			created <- err
		}()
	}

	if err := f.Circles.Delete(ctx, circle.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if err := <-created; !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation creating under a deleted circle, got %v", err)
	}
	items, err := f.Wishlist.ListByCircle(ctx, circle.ID)
	if err != nil {
		t.Fatalf("ListByCircle failed: %v", err)
	}
	if len(items) != 0 {
		t.Errorf("Expected no items left pointing at the deleted circle, got %d", len(items))
	}
}

func TestCircleDeleteRetriesAfterConcurrentEdit(t *testing.T) {
	ctx := context.Background()
	base := newTestStore(t)
	hooks := &circleDeleteHooks{Store: base}
	f := New(hooks, withoutBackOff())
	other := New(base, withoutBackOff())
	circle := createCircle(t, f)

	hooks.hook = func() {
		if _, err := other.Circles.AddMembers(ctx, circle.ID, "late"); err != nil {
			t.Errorf("AddMembers failed: %v", err)
		}
	}

	if err := f.Circles.Delete(ctx, circle.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if n := hooks.deletes.Load(); n != 2 {
		t.Errorf("Expected the stale delete to be retried once, got %d attempts", n)
	}
	if _, err := f.Circles.Get(ctx, circle.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
}
