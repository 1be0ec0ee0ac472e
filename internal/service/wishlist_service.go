package service

import (
	"context"
	"log/slog"
	"net/http"

	"connectrpc.com/connect"

	"github.com/mmynk/giftcircle/internal/aggregate"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/pkg/rpc"
)

// ContributionObserver is told about every applied contribution.
type ContributionObserver interface {
	ObserveContribution(contributionType string, amount float64, fulfilled bool)
}

// WishlistService implements giftcircle.v1.WishlistService. Items are
// returned redacted for the requesting user.
type WishlistService struct {
	facade   *aggregate.Facade
	access   access
	observer ContributionObserver
}

// NewWishlistService creates a WishlistService over facade. observer may be
// nil.
func NewWishlistService(facade *aggregate.Facade, observer ContributionObserver) *WishlistService {
	return &WishlistService{facade: facade, access: access{facade: facade}, observer: observer}
}

// NewWishlistServiceHandler builds an HTTP handler for every
// WishlistService procedure. It returns the path prefix to mount it on.
func NewWishlistServiceHandler(svc *WishlistService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(rpc.CreateItemProcedure, unary(rpc.CreateItemProcedure, svc.CreateItem, opts))
	mux.Handle(rpc.GetItemProcedure, unary(rpc.GetItemProcedure, svc.GetItem, opts))
	mux.Handle(rpc.ListItemsProcedure, unary(rpc.ListItemsProcedure, svc.ListItems, opts))
	mux.Handle(rpc.ListItemsByOwnerProcedure, unary(rpc.ListItemsByOwnerProcedure, svc.ListItemsByOwner, opts))
	mux.Handle(rpc.ListItemsByCircleProcedure, unary(rpc.ListItemsByCircleProcedure, svc.ListItemsByCircle, opts))
	mux.Handle(rpc.ListItemsByEventProcedure, unary(rpc.ListItemsByEventProcedure, svc.ListItemsByEvent, opts))
	mux.Handle(rpc.UpdateItemProcedure, unary(rpc.UpdateItemProcedure, svc.UpdateItem, opts))
	mux.Handle(rpc.CancelItemProcedure, unary(rpc.CancelItemProcedure, svc.CancelItem, opts))
	mux.Handle(rpc.DeleteItemProcedure, unary(rpc.DeleteItemProcedure, svc.DeleteItem, opts))
	mux.Handle(rpc.ContributeProcedure, unary(rpc.ContributeProcedure, svc.Contribute, opts))
	return "/" + rpc.WishlistServiceName + "/", mux
}

// CreateItem adds an item to the requesting user's wishlist.
func (s *WishlistService) CreateItem(ctx context.Context, req *connect.Request[rpc.CreateItemRequest]) (*connect.Response[rpc.ItemResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateItem request received",
		"title", req.Msg.Title,
		"price", req.Msg.Price,
		"event_id", req.Msg.EventID,
		"circle_id", req.Msg.CircleID,
	)

	item, err := s.facade.Wishlist.Create(ctx, &models.WishlistItem{
		UserID:      viewer,
		Title:       req.Msg.Title,
		Description: req.Msg.Description,
		Price:       req.Msg.Price,
		ImageURL:    req.Msg.ImageURL,
		ProductURL:  req.Msg.ProductURL,
		EventID:     req.Msg.EventID,
		CircleID:    req.Msg.CircleID,
	})
	if err != nil {
		return nil, failed("CreateItem", err)
	}

	slog.Info("Item created", "item_id", item.ID)
	return connect.NewResponse(&rpc.ItemResponse{Item: toRPCItem(item, viewer)}), nil
}

// GetItem retrieves an item the viewer may see.
func (s *WishlistService) GetItem(ctx context.Context, req *connect.Request[rpc.ItemRequest]) (*connect.Response[rpc.ItemResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	item, err := s.access.visibleItem(ctx, viewer, req.Msg.ItemID)
	if err != nil {
		return nil, failed("GetItem", err, "item_id", req.Msg.ItemID)
	}
	return connect.NewResponse(&rpc.ItemResponse{Item: toRPCItem(item, viewer)}), nil
}

// ListItems retrieves every item the viewer may see.
func (s *WishlistService) ListItems(ctx context.Context, _ *connect.Request[rpc.ListItemsRequest]) (*connect.Response[rpc.ListItemsResponse], error) {
	return s.list(ctx, "ListItems", s.facade.Wishlist.List)
}

// ListItemsByOwner retrieves the visible items on a user's wishlist.
func (s *WishlistService) ListItemsByOwner(ctx context.Context, req *connect.Request[rpc.ListByUserRequest]) (*connect.Response[rpc.ListItemsResponse], error) {
	return s.list(ctx, "ListItemsByOwner", func(ctx context.Context) ([]*models.WishlistItem, error) {
		return s.facade.Wishlist.ListByOwner(ctx, req.Msg.UserID)
	})
}

// ListItemsByCircle retrieves the visible items scoped to a circle.
func (s *WishlistService) ListItemsByCircle(ctx context.Context, req *connect.Request[rpc.ListItemsByCircleRequest]) (*connect.Response[rpc.ListItemsResponse], error) {
	return s.list(ctx, "ListItemsByCircle", func(ctx context.Context) ([]*models.WishlistItem, error) {
		return s.facade.Wishlist.ListByCircle(ctx, req.Msg.CircleID)
	})
}

// ListItemsByEvent retrieves the visible items attached to an event.
func (s *WishlistService) ListItemsByEvent(ctx context.Context, req *connect.Request[rpc.ListItemsByEventRequest]) (*connect.Response[rpc.ListItemsResponse], error) {
	return s.list(ctx, "ListItemsByEvent", func(ctx context.Context) ([]*models.WishlistItem, error) {
		return s.facade.Wishlist.ListByEvent(ctx, req.Msg.EventID)
	})
}

func (s *WishlistService) list(ctx context.Context, method string, query func(context.Context) ([]*models.WishlistItem, error)) (*connect.Response[rpc.ListItemsResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	items, err := query(ctx)
	if err != nil {
		return nil, failed(method, err)
	}
	items, err = s.access.visibleItems(ctx, viewer, items)
	if err != nil {
		return nil, failed(method, err)
	}
	slog.Debug(method+" successful", "count", len(items))
	return connect.NewResponse(&rpc.ListItemsResponse{Items: toRPCItems(items, viewer)}), nil
}

// UpdateItem replaces an item's descriptive fields, price and references.
func (s *WishlistService) UpdateItem(ctx context.Context, req *connect.Request[rpc.UpdateItemRequest]) (*connect.Response[rpc.ItemResponse], error) {
	return s.change(ctx, "UpdateItem", req.Msg.ItemID, func(ctx context.Context) (*models.WishlistItem, error) {
		return s.facade.Wishlist.Update(ctx, &models.WishlistItem{
			ID:          req.Msg.ItemID,
			Title:       req.Msg.Title,
			Description: req.Msg.Description,
			Price:       req.Msg.Price,
			ImageURL:    req.Msg.ImageURL,
			ProductURL:  req.Msg.ProductURL,
			EventID:     req.Msg.EventID,
			CircleID:    req.Msg.CircleID,
		})
	})
}

// CancelItem withdraws an open item.
func (s *WishlistService) CancelItem(ctx context.Context, req *connect.Request[rpc.ItemRequest]) (*connect.Response[rpc.ItemResponse], error) {
	return s.change(ctx, "CancelItem", req.Msg.ItemID, func(ctx context.Context) (*models.WishlistItem, error) {
		return s.facade.Wishlist.Cancel(ctx, req.Msg.ItemID)
	})
}

// DeleteItem removes an item that has not received any contributions.
func (s *WishlistService) DeleteItem(ctx context.Context, req *connect.Request[rpc.ItemRequest]) (*connect.Response[rpc.Empty], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteItem request received", "item_id", req.Msg.ItemID)

	if _, err := s.access.visibleItem(ctx, viewer, req.Msg.ItemID); err != nil {
		return nil, failed("DeleteItem", err, "item_id", req.Msg.ItemID)
	}
	if err := s.facade.Wishlist.Delete(ctx, req.Msg.ItemID); err != nil {
		return nil, failed("DeleteItem", err, "item_id", req.Msg.ItemID)
	}

	slog.Info("Item deleted", "item_id", req.Msg.ItemID)
	return connect.NewResponse(&rpc.Empty{}), nil
}

// Contribute funds an item as the requesting user and returns the updated
// item redacted for them.
func (s *WishlistService) Contribute(ctx context.Context, req *connect.Request[rpc.ContributeRequest]) (*connect.Response[rpc.ItemResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("Contribute request received",
		"item_id", req.Msg.ItemID,
		"type", req.Msg.Type,
		"anonymous", req.Msg.IsAnonymous,
	)

	if _, err := s.access.visibleItem(ctx, viewer, req.Msg.ItemID); err != nil {
		return nil, failed("Contribute", err, "item_id", req.Msg.ItemID)
	}
	item, err := s.facade.Wishlist.Contribute(ctx, req.Msg.ItemID, models.Contribution{
		ContributorID:  viewer,
		Amount:         req.Msg.Amount,
		Type:           models.ContributionType(req.Msg.Type),
		IsAnonymous:    req.Msg.IsAnonymous,
		IsAmountHidden: req.Msg.IsAmountHidden,
	})
	if err != nil {
		return nil, failed("Contribute", err, "item_id", req.Msg.ItemID)
	}

	applied := item.Contributions[len(item.Contributions)-1]
	fulfilled := item.Status == models.ItemStatusFulfilled
	if s.observer != nil {
		s.observer.ObserveContribution(string(applied.Type), applied.Amount, fulfilled)
	}
	slog.Info("Contribution applied",
		"item_id", item.ID,
		"contribution_id", applied.ID,
		"funded_amount", item.FundedAmount,
		"fulfilled", fulfilled,
	)
	return connect.NewResponse(&rpc.ItemResponse{Item: toRPCItem(item, viewer)}), nil
}

// change runs a mutation on an item the viewer may see.
func (s *WishlistService) change(ctx context.Context, method, itemID string, fn func(context.Context) (*models.WishlistItem, error)) (*connect.Response[rpc.ItemResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info(method+" request received", "item_id", itemID)

	if _, err := s.access.visibleItem(ctx, viewer, itemID); err != nil {
		return nil, failed(method, err, "item_id", itemID)
	}
	item, err := fn(ctx)
	if err != nil {
		return nil, failed(method, err, "item_id", itemID)
	}
	return connect.NewResponse(&rpc.ItemResponse{Item: toRPCItem(item, viewer)}), nil
}
