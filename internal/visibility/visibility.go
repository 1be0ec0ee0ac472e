// Package visibility decides whether a user may see an event or a wishlist item.
//
// The resolver never fails. A false result leaves the caller to choose
// between reporting not-found or forbidden.
package visibility

import (
	"github.com/mmynk/giftcircle/internal/models"
)

// Viewer is the requesting user as seen by the resolver.
type Viewer struct {
	ID             string
	HiddenEventIDs map[string]bool
}

// ViewerOf builds a Viewer from a stored user. A nil user yields a viewer
// with only an ID and no hidden events.
func ViewerOf(id string, user *models.User) Viewer {
	v := Viewer{ID: id}
	if user == nil {
		return v
	}
	v.HiddenEventIDs = make(map[string]bool, len(user.HiddenEventIDs))
	for _, e := range user.HiddenEventIDs {
		v.HiddenEventIDs[e] = true
	}
	return v
}

// CanViewEvent reports whether the viewer may see the event.
//
// The creator always sees their event. Anyone else who hid the event does
// not. Otherwise public events are visible to all and private events to
// invitees only.
func CanViewEvent(viewer Viewer, event *models.Event) bool {
	if event == nil {
		return false
	}
	if viewer.ID != "" && viewer.ID == event.UserID {
		return true
	}
	if viewer.HiddenEventIDs[event.ID] {
		return false
	}
	if event.Visibility == models.VisibilityPublic {
		return true
	}
	return viewer.ID != "" && event.IsInvited(viewer.ID)
}

// CanViewItem reports whether the viewer may see the item.
//
// Items are visible by default. An item tied to a circle is limited to its
// members; an item tied to a private event follows CanViewEvent. event and
// circle are the resolved references and may be nil when the item has none
// or the referenced record no longer exists.
func CanViewItem(viewer Viewer, item *models.WishlistItem, event *models.Event, circle *models.GiftCircle) bool {
	if item == nil {
		return false
	}
	if viewer.ID != "" && viewer.ID == item.UserID {
		return true
	}
	if circle != nil && item.CircleID == circle.ID && !circle.IsMember(viewer.ID) {
		return false
	}
	if event != nil && item.EventID == event.ID && event.Visibility != models.VisibilityPublic {
		return CanViewEvent(viewer, event)
	}
	return true
}
