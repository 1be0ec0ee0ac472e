// Package service implements the GiftCircle Connect services on top of the
// aggregate facade.
//
// Handlers take the viewer from the request context, apply the visibility
// rules on reads, redact wishlist contributions for the viewer and map
// domain errors to Connect codes. Records the viewer may not see are
// reported as not found.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"

	"connectrpc.com/connect"
	"golang.org/x/sync/errgroup"

	"github.com/mmynk/giftcircle/internal/aggregate"
	"github.com/mmynk/giftcircle/internal/ledger"
	"github.com/mmynk/giftcircle/internal/middleware"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/internal/visibility"
	"github.com/mmynk/giftcircle/pkg/rpc"
)

// resolveConcurrency bounds the reference lookups made for one request.
const resolveConcurrency = 4

var errNoViewer = errors.New("no authenticated user")

// viewerID returns the authenticated user or an unauthenticated error.
func viewerID(ctx context.Context) (string, error) {
	id := middleware.GetUserID(ctx)
	if id == "" {
		return "", connect.NewError(connect.CodeUnauthenticated, errNoViewer)
	}
	return id, nil
}

// toConnectError maps a domain error to its Connect code. Errors that are
// already Connect errors pass through.
func toConnectError(err error) error {
	var connectErr *connect.Error
	switch {
	case errors.As(err, &connectErr):
		return err
	case errors.Is(err, aggregate.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, aggregate.ErrValidation), errors.Is(err, ledger.ErrInvalidAmount):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, aggregate.ErrAlreadyExists):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, ledger.ErrItemClosed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, aggregate.ErrTransient):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}

// failed logs a handler failure and converts it. The logging interceptor
// reports the outcome, so this stays at debug.
func failed(method string, err error, args ...any) error {
	slog.Debug(method+" failed", append(args, "error", err)...)
	return toConnectError(err)
}

// notVisible is returned for records that exist but are hidden from the
// viewer.
func notVisible(kind, id string) error {
	return connect.NewError(connect.CodeNotFound, fmt.Errorf("%w: %s %s", aggregate.ErrNotFound, kind, id))
}

// unary builds a handler for one procedure using the JSON codec.
func unary[Req, Res any](procedure string, fn func(context.Context, *connect.Request[Req]) (*connect.Response[Res], error), opts []connect.HandlerOption) http.Handler {
	return connect.NewUnaryHandler[Req, Res](procedure, fn, append([]connect.HandlerOption{rpc.WithCodec()}, opts...)...)
}

// access applies the visibility rules for one facade.
type access struct {
	facade *aggregate.Facade
}

// viewer loads the viewer's hidden events. A viewer without a profile yet
// sees everything an anonymous id would.
func (a access) viewer(ctx context.Context, id string) (visibility.Viewer, error) {
	user, err := a.facade.Users.Get(ctx, id)
	if errors.Is(err, aggregate.ErrNotFound) {
		return visibility.ViewerOf(id, nil), nil
	}
	if err != nil {
		return visibility.Viewer{}, err
	}
	return visibility.ViewerOf(id, user), nil
}

// refs holds the events and circles referenced by a batch of items. Missing
// records are absent from the maps.
type refs struct {
	events  map[string]*models.Event
	circles map[string]*models.GiftCircle
}

// resolve loads every event and circle the items reference, concurrently.
func (a access) resolve(ctx context.Context, items []*models.WishlistItem) (*refs, error) {
	r := &refs{
		events:  make(map[string]*models.Event),
		circles: make(map[string]*models.GiftCircle),
	}
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)

	seenEvents := make(map[string]bool)
	seenCircles := make(map[string]bool)
	for _, item := range items {
		if id := item.EventID; id != "" && !seenEvents[id] {
			seenEvents[id] = true
			g.Go(func() error {
				event, err := a.facade.Events.Get(gctx, id)
				if errors.Is(err, aggregate.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				r.events[id] = event
				mu.Unlock()
				return nil
			})
		}
		if id := item.CircleID; id != "" && !seenCircles[id] {
			seenCircles[id] = true
			g.Go(func() error {
				circle, err := a.facade.Circles.Get(gctx, id)
				if errors.Is(err, aggregate.ErrNotFound) {
					return nil
				}
				if err != nil {
					return err
				}
				mu.Lock()
				r.circles[id] = circle
				mu.Unlock()
				return nil
			})
		}
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return r, nil
}

// visibleItems keeps the items the viewer may see, in order.
func (a access) visibleItems(ctx context.Context, viewerID string, items []*models.WishlistItem) ([]*models.WishlistItem, error) {
	if len(items) == 0 {
		return items, nil
	}
	v, err := a.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	r, err := a.resolve(ctx, items)
	if err != nil {
		return nil, err
	}
	out := make([]*models.WishlistItem, 0, len(items))
	for _, item := range items {
		if visibility.CanViewItem(v, item, r.events[item.EventID], r.circles[item.CircleID]) {
			out = append(out, item)
		}
	}
	return out, nil
}

// visibleItem loads an item and fails with not found when the viewer may
// not see it.
func (a access) visibleItem(ctx context.Context, viewerID, itemID string) (*models.WishlistItem, error) {
	item, err := a.facade.Wishlist.Get(ctx, itemID)
	if err != nil {
		return nil, err
	}
	visible, err := a.visibleItems(ctx, viewerID, []*models.WishlistItem{item})
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return nil, notVisible("item", itemID)
	}
	return item, nil
}

// visibleEvents keeps the events the viewer may see, in order.
func (a access) visibleEvents(ctx context.Context, viewerID string, events []*models.Event) ([]*models.Event, error) {
	if len(events) == 0 {
		return events, nil
	}
	v, err := a.viewer(ctx, viewerID)
	if err != nil {
		return nil, err
	}
	out := make([]*models.Event, 0, len(events))
	for _, event := range events {
		if visibility.CanViewEvent(v, event) {
			out = append(out, event)
		}
	}
	return out, nil
}

// visibleEvent loads an event and fails with not found when the viewer may
// not see it.
func (a access) visibleEvent(ctx context.Context, viewerID, eventID string) (*models.Event, error) {
	event, err := a.facade.Events.Get(ctx, eventID)
	if err != nil {
		return nil, err
	}
	visible, err := a.visibleEvents(ctx, viewerID, []*models.Event{event})
	if err != nil {
		return nil, err
	}
	if len(visible) == 0 {
		return nil, notVisible("event", eventID)
	}
	return event, nil
}
