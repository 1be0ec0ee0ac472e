package ledger

import (
	"reflect"
	"testing"

	"github.com/mmynk/giftcircle/internal/models"
)

func redactionItem() *models.WishlistItem {
	return &models.WishlistItem{
		ID:           "item-1",
		UserID:       "owner",
		Price:        200,
		FundedAmount: 80,
		Status:       models.ItemStatusOpen,
		Contributions: []models.Contribution{
			{ID: "c1", ContributorID: "alice", Amount: 50, IsAnonymous: true, IsAmountHidden: true},
			{ID: "c2", ContributorID: "bob", Amount: 20, IsAmountHidden: true},
			{ID: "c3", ContributorID: "carol", Amount: 10, IsAnonymous: true},
		},
	}
}

func TestProjectForViewer_ThirdParty(t *testing.T) {
	view := ProjectForViewer(redactionItem(), "dave")

	if view.FundedAmount != 80 {
		t.Errorf("FundedAmount = %v, want 80 (never redacted)", view.FundedAmount)
	}

	c1 := view.Contributions[0]
	if c1.ContributorID != AnonymousContributor {
		t.Errorf("c1 contributor = %q, want placeholder", c1.ContributorID)
	}
	if c1.Amount != nil {
		t.Errorf("c1 amount = %v, want hidden", *c1.Amount)
	}

	c2 := view.Contributions[1]
	if c2.ContributorID != "bob" {
		t.Errorf("c2 contributor = %q, want bob", c2.ContributorID)
	}
	if c2.Amount != nil {
		t.Error("c2 amount should be hidden from a third party")
	}

	c3 := view.Contributions[2]
	if c3.ContributorID != AnonymousContributor {
		t.Errorf("c3 contributor = %q, want placeholder", c3.ContributorID)
	}
	if c3.Amount == nil || *c3.Amount != 10 {
		t.Errorf("c3 amount should be visible")
	}
}

func TestProjectForViewer_Owner(t *testing.T) {
	view := ProjectForViewer(redactionItem(), "owner")

	if view.Contributions[0].ContributorID != AnonymousContributor {
		t.Error("owner should not see anonymous contributor identity")
	}
	for i, c := range view.Contributions {
		if c.Amount == nil {
			t.Errorf("contribution %d: owner should see every amount", i)
		}
	}
}

func TestProjectForViewer_Contributor(t *testing.T) {
	view := ProjectForViewer(redactionItem(), "alice")

	c1 := view.Contributions[0]
	if c1.ContributorID != "alice" || c1.Amount == nil || *c1.Amount != 50 {
		t.Errorf("contributor should see own contribution unredacted, got %+v", c1)
	}
	if view.Contributions[1].Amount != nil {
		t.Error("alice should not see bob's hidden amount")
	}
}

func TestProject_Idempotent(t *testing.T) {
	for _, viewer := range []string{"", "owner", "alice", "bob", "dave"} {
		once := ProjectForViewer(redactionItem(), viewer)
		twice := Project(once, viewer)
		if !reflect.DeepEqual(once, twice) {
			t.Errorf("viewer %q: projection not idempotent\nonce:  %+v\ntwice: %+v", viewer, once, twice)
		}
	}
}

func TestProject_DoesNotMutateStoredItem(t *testing.T) {
	item := redactionItem()
	ProjectForViewer(item, "dave")

	if item.Contributions[0].ContributorID != "alice" || item.Contributions[0].Amount != 50 {
		t.Errorf("stored item mutated: %+v", item.Contributions[0])
	}
}
