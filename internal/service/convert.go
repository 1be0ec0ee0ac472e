package service

import (
	"github.com/mmynk/giftcircle/internal/ledger"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/pkg/rpc"
)

func toRPCCircle(c *models.GiftCircle) *rpc.Circle {
	return &rpc.Circle{
		ID:               c.ID,
		Name:             c.Name,
		Description:      c.Description,
		AdminIDs:         c.AdminIDs,
		MemberIDs:        c.MemberIDs,
		CreatedTimestamp: c.CreatedTimestamp,
	}
}

func toRPCCircles(circles []*models.GiftCircle) []*rpc.Circle {
	out := make([]*rpc.Circle, len(circles))
	for i, c := range circles {
		out[i] = toRPCCircle(c)
	}
	return out
}

func toRPCEvent(e *models.Event) *rpc.Event {
	return &rpc.Event{
		ID:          e.ID,
		UserID:      e.UserID,
		Title:       e.Title,
		Date:        e.Date,
		Description: e.Description,
		Type:        string(e.Type),
		InviteeIDs:  e.InviteeIDs,
		Status:      string(e.Status),
		Visibility:  string(e.Visibility),
	}
}

func toRPCEvents(events []*models.Event) []*rpc.Event {
	out := make([]*rpc.Event, len(events))
	for i, e := range events {
		out[i] = toRPCEvent(e)
	}
	return out
}

// toRPCItem redacts item for viewerID.
func toRPCItem(item *models.WishlistItem, viewerID string) *rpc.WishlistItem {
	view := ledger.ProjectForViewer(item, viewerID)
	out := &rpc.WishlistItem{
		ID:            view.ID,
		UserID:        view.UserID,
		Title:         view.Title,
		Description:   view.Description,
		Price:         view.Price,
		FundedAmount:  view.FundedAmount,
		ImageURL:      view.ImageURL,
		ProductURL:    view.ProductURL,
		EventID:       view.EventID,
		CircleID:      view.CircleID,
		Status:        string(view.Status),
		Contributions: make([]rpc.Contribution, len(view.Contributions)),
		CreatedAt:     view.CreatedAt,
	}
	for i, c := range view.Contributions {
		out.Contributions[i] = rpc.Contribution{
			ID:             c.ID,
			ContributorID:  c.ContributorID,
			Amount:         c.Amount,
			Type:           string(c.Type),
			Timestamp:      c.Timestamp,
			IsAnonymous:    c.IsAnonymous,
			IsAmountHidden: c.IsAmountHidden,
		}
	}
	return out
}

func toRPCItems(items []*models.WishlistItem, viewerID string) []*rpc.WishlistItem {
	out := make([]*rpc.WishlistItem, len(items))
	for i, item := range items {
		out[i] = toRPCItem(item, viewerID)
	}
	return out
}

// toRPCUser converts a user for viewerID. Bank details and the hidden and
// blocked lists are private to the user.
func toRPCUser(u *models.User, viewerID string) *rpc.User {
	out := &rpc.User{
		ID:               u.ID,
		FirstName:        u.FirstName,
		LastName:         u.LastName,
		Email:            u.Email,
		Avatar:           u.Avatar,
		PhoneNumber:      u.PhoneNumber,
		Friends:          u.Friends,
		FamilyMemberIDs:  u.FamilyMemberIDs,
		AcceptedEventIDs: u.AcceptedEventIDs,
		Settings: rpc.UserSettings{
			DefaultGiftAmount:  u.Settings.DefaultGiftAmount,
			MaxGiftAmount:      u.Settings.MaxGiftAmount,
			Currency:           u.Settings.Currency,
			AutoAcceptContacts: u.Settings.AutoAcceptContacts,
		},
		CreatedAt: u.CreatedAt,
	}
	if u.ID != viewerID {
		return out
	}
	out.BlockedUserIDs = u.BlockedUserIDs
	out.HiddenEventIDs = u.HiddenEventIDs
	if u.BankDetails != nil {
		out.BankDetails = &rpc.BankDetails{
			AccountName:   u.BankDetails.AccountName,
			AccountNumber: u.BankDetails.AccountNumber,
			BankName:      u.BankDetails.BankName,
			IFSCCode:      u.BankDetails.IFSCCode,
			PANNumber:     u.BankDetails.PANNumber,
		}
	}
	return out
}

func toRPCUsers(users []*models.User, viewerID string) []*rpc.User {
	out := make([]*rpc.User, len(users))
	for i, u := range users {
		out[i] = toRPCUser(u, viewerID)
	}
	return out
}

func fromRPCSettings(s rpc.UserSettings) models.UserSettings {
	return models.UserSettings{
		DefaultGiftAmount:  s.DefaultGiftAmount,
		MaxGiftAmount:      s.MaxGiftAmount,
		Currency:           s.Currency,
		AutoAcceptContacts: s.AutoAcceptContacts,
	}
}

func fromRPCBankDetails(b *rpc.BankDetails) *models.BankDetails {
	if b == nil {
		return nil
	}
	return &models.BankDetails{
		AccountName:   b.AccountName,
		AccountNumber: b.AccountNumber,
		BankName:      b.BankName,
		IFSCCode:      b.IFSCCode,
		PANNumber:     b.PANNumber,
	}
}
