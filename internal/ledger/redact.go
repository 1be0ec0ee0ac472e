package ledger

import (
	"github.com/mmynk/giftcircle/internal/models"
)

// AnonymousContributor replaces the contributor ID of anonymous
// contributions for everyone but the contributor.
const AnonymousContributor = "anonymous"

// ItemView is a wishlist item as shown to one viewer.
type ItemView struct {
	ID            string
	UserID        string
	Title         string
	Description   string
	Price         float64
	FundedAmount  float64
	ImageURL      string
	ProductURL    string
	EventID       string
	CircleID      string
	Status        models.ItemStatus
	Contributions []ContributionView
	CreatedAt     int64
}

// ContributionView is a contribution as shown to one viewer.
// Amount is nil when hidden from the viewer.
type ContributionView struct {
	ID             string
	ContributorID  string
	Amount         *float64
	Type           models.ContributionType
	Timestamp      int64
	IsAnonymous    bool
	IsAmountHidden bool
}

// ViewOf converts a stored item to an unredacted view.
func ViewOf(item *models.WishlistItem) ItemView {
	v := ItemView{
		ID:           item.ID,
		UserID:       item.UserID,
		Title:        item.Title,
		Description:  item.Description,
		Price:        item.Price,
		FundedAmount: item.FundedAmount,
		ImageURL:     item.ImageURL,
		ProductURL:   item.ProductURL,
		EventID:      item.EventID,
		CircleID:     item.CircleID,
		Status:       item.Status,
		CreatedAt:    item.CreatedAt,
	}
	v.Contributions = make([]ContributionView, len(item.Contributions))
	for i, c := range item.Contributions {
		amount := c.Amount
		v.Contributions[i] = ContributionView{
			ID:             c.ID,
			ContributorID:  c.ContributorID,
			Amount:         &amount,
			Type:           c.Type,
			Timestamp:      c.Timestamp,
			IsAnonymous:    c.IsAnonymous,
			IsAmountHidden: c.IsAmountHidden,
		}
	}
	return v
}

// ProjectForViewer returns item redacted for viewerID.
func ProjectForViewer(item *models.WishlistItem, viewerID string) ItemView {
	return Project(ViewOf(item), viewerID)
}

// Project redacts a view for viewerID. Anonymous contributors are replaced
// with AnonymousContributor unless the viewer made the contribution. Hidden
// amounts are dropped unless the viewer is the contributor or the item
// owner. FundedAmount is never redacted. Projecting an already projected
// view for the same viewer changes nothing.
func Project(view ItemView, viewerID string) ItemView {
	out := view
	isOwner := viewerID != "" && viewerID == view.UserID
	out.Contributions = make([]ContributionView, len(view.Contributions))
	for i, c := range view.Contributions {
		isContributor := viewerID != "" && c.ContributorID == viewerID
		if c.IsAnonymous && !isContributor {
			c.ContributorID = AnonymousContributor
		}
		if c.IsAmountHidden && !isContributor && !isOwner {
			c.Amount = nil
		}
		out.Contributions[i] = c
	}
	return out
}
