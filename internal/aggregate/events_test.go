package aggregate

import (
	"context"
	"errors"
	"slices"
	"testing"

	"github.com/mmynk/giftcircle/internal/models"
)

func TestEventCreateDefaults(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	event, err := f.Events.Create(ctx, &models.Event{
		UserID:     "host",
		Title:      "Party",
		InviteeIDs: []string{"a", "a", "", "b"},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if event.Type != models.EventTypeOther || event.Status != models.EventStatusActive || event.Visibility != models.VisibilityPrivate {
		t.Errorf("Unexpected defaults: %s %s %s", event.Type, event.Status, event.Visibility)
	}
	if !slices.Equal(event.InviteeIDs, []string{"a", "b"}) {
		t.Errorf("InviteeIDs = %v, want [a b]", event.InviteeIDs)
	}

	tests := []struct {
		name  string
		event models.Event
	}{
		{"missing creator", models.Event{Title: "x"}},
		{"missing title", models.Event{UserID: "host"}},
		{"unknown type", models.Event{UserID: "host", Title: "x", Type: "GRADUATION"}},
		{"unknown visibility", models.Event{UserID: "host", Title: "x", Visibility: "FRIENDS"}},
		{"created cancelled", models.Event{UserID: "host", Title: "x", Status: models.EventStatusCancelled}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := f.Events.Create(ctx, &tt.event); !errors.Is(err, ErrValidation) {
				t.Errorf("Expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestEventLifecycle(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()

	event, err := f.Events.Create(ctx, &models.Event{
		UserID: "host",
		Title:  "Wedding",
		Type:   models.EventTypeWedding,
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if _, err := f.Events.Invite(ctx, event.ID, "g1", "g2", "g1"); err != nil {
		t.Fatalf("Invite failed: %v", err)
	}
	got, err := f.Events.Uninvite(ctx, event.ID, "g1")
	if err != nil {
		t.Fatalf("Uninvite failed: %v", err)
	}
	if !slices.Equal(got.InviteeIDs, []string{"g2"}) {
		t.Errorf("InviteeIDs = %v, want [g2]", got.InviteeIDs)
	}

	byInvitee, err := f.Events.ListByInvitee(ctx, "g2")
	if err != nil || len(byInvitee) != 1 {
		t.Errorf("ListByInvitee = %v, %v", byInvitee, err)
	}
	byCreator, err := f.Events.ListByCreator(ctx, "host")
	if err != nil || len(byCreator) != 1 {
		t.Errorf("ListByCreator = %v, %v", byCreator, err)
	}

	updated, err := f.Events.Update(ctx, &models.Event{
		ID:         event.ID,
		UserID:     "intruder",
		Title:      "Wedding reception",
		Date:       "2026-06-20",
		InviteeIDs: []string{"g2", "g3"},
		Visibility: models.VisibilityPublic,
	})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if updated.UserID != "host" || updated.Type != models.EventTypeWedding || updated.Visibility != models.VisibilityPublic {
		t.Errorf("Unexpected update result: %+v", updated)
	}

	cancelled, err := f.Events.Cancel(ctx, event.ID)
	if err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if cancelled.Status != models.EventStatusCancelled {
		t.Errorf("Status = %s, want CANCELLED", cancelled.Status)
	}

	_, err = f.Events.Update(ctx, &models.Event{ID: event.ID, Title: "Back on", Status: models.EventStatusActive})
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation reactivating, got %v", err)
	}
	stored, _ := f.Events.Get(ctx, event.ID)
	if stored.Status != models.EventStatusCancelled || stored.Title != "Wedding reception" {
		t.Errorf("Rejected update changed the event: %+v", stored)
	}

	if err := f.Events.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := f.Events.Get(ctx, event.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after delete, got %v", err)
	}
	if _, err := f.Events.Cancel(ctx, event.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound cancelling a deleted event, got %v", err)
	}
}

func TestEventDeleteKeepsAttachedItems(t *testing.T) {
	f, _ := newTestFacade(t)
	ctx := context.Background()
	event := createEvent(t, f)

	item, err := f.Wishlist.Create(ctx, &models.WishlistItem{UserID: "owner", Title: "Cake stand", Price: 25, EventID: event.ID})
	if err != nil {
		t.Fatalf("Wishlist.Create failed: %v", err)
	}
	if err := f.Events.Delete(ctx, event.ID); !errors.Is(err, ErrValidation) {
		t.Fatalf("Expected ErrValidation while an open item is attached, got %v", err)
	}

	if _, err := f.Wishlist.Cancel(ctx, item.ID); err != nil {
		t.Fatalf("Cancel failed: %v", err)
	}
	if err := f.Events.Delete(ctx, event.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	stored, err := f.Wishlist.Get(ctx, item.ID)
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if stored.EventID != event.ID {
		t.Errorf("EventID = %q, want %q kept after delete", stored.EventID, event.ID)
	}

	funded := createEvent(t, f)
	gift, err := f.Wishlist.Create(ctx, &models.WishlistItem{UserID: "owner", Title: "Card", Price: 5, EventID: funded.ID})
	if err != nil {
		t.Fatalf("Wishlist.Create failed: %v", err)
	}
	if _, err := f.Wishlist.Contribute(ctx, gift.ID, models.Contribution{ContributorID: "a", Amount: 5}); err != nil {
		t.Fatalf("Contribute failed: %v", err)
	}
	if err := f.Events.Delete(ctx, funded.ID); !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation while a funded item is attached, got %v", err)
	}
}
