// Package membership keeps circle admin and member sets consistent.
//
// Every function here is pure: it takes a circle and returns a new one whose
// AdminIDs are a subset of its MemberIDs.
package membership

import (
	"slices"

	"github.com/mmynk/giftcircle/internal/models"
)

// Enforce returns a copy of circle where every admin is also a member.
// Existing member order is kept, duplicate members collapse to their first
// occurrence, and missing admins are appended in admin order.
func Enforce(circle *models.GiftCircle) *models.GiftCircle {
	out := circle.Clone()
	out.AdminIDs = models.UniqueIDs(circle.AdminIDs)

	members := models.UniqueIDs(circle.MemberIDs)
	seen := make(map[string]bool, len(members)+len(out.AdminIDs))
	for _, m := range members {
		seen[m] = true
	}
	for _, a := range out.AdminIDs {
		if !seen[a] {
			seen[a] = true
			members = append(members, a)
		}
	}
	out.MemberIDs = members
	return out
}

// AddMembers appends userIDs that are not already members.
func AddMembers(circle *models.GiftCircle, userIDs ...string) *models.GiftCircle {
	out := circle.Clone()
	out.MemberIDs = append(out.MemberIDs, userIDs...)
	return Enforce(out)
}

// RemoveMember drops userID from the circle. Admin rights go with it,
// otherwise Enforce would put the user straight back.
func RemoveMember(circle *models.GiftCircle, userID string) *models.GiftCircle {
	out := circle.Clone()
	out.MemberIDs = without(out.MemberIDs, userID)
	out.AdminIDs = without(out.AdminIDs, userID)
	return Enforce(out)
}

// AddAdmin grants admin rights, adding userID as a member if needed.
func AddAdmin(circle *models.GiftCircle, userID string) *models.GiftCircle {
	out := circle.Clone()
	out.AdminIDs = append(out.AdminIDs, userID)
	return Enforce(out)
}

// RemoveAdmin revokes admin rights. The user stays a member.
func RemoveAdmin(circle *models.GiftCircle, userID string) *models.GiftCircle {
	out := circle.Clone()
	out.AdminIDs = without(out.AdminIDs, userID)
	return Enforce(out)
}

func without(ids []string, id string) []string {
	return slices.DeleteFunc(slices.Clone(ids), func(s string) bool { return s == id })
}
