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

// EventService implements giftcircle.v1.EventService. Events the viewer may
// not see are reported as not found, and filtered out of lists.
type EventService struct {
	facade *aggregate.Facade
	access access
}

// NewEventService creates an EventService over facade.
func NewEventService(facade *aggregate.Facade) *EventService {
	return &EventService{facade: facade, access: access{facade: facade}}
}

// NewEventServiceHandler builds an HTTP handler for every EventService
// procedure. It returns the path prefix to mount it on.
func NewEventServiceHandler(svc *EventService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(rpc.CreateEventProcedure, unary(rpc.CreateEventProcedure, svc.CreateEvent, opts))
	mux.Handle(rpc.GetEventProcedure, unary(rpc.GetEventProcedure, svc.GetEvent, opts))
	mux.Handle(rpc.ListEventsProcedure, unary(rpc.ListEventsProcedure, svc.ListEvents, opts))
	mux.Handle(rpc.ListEventsByCreatorProcedure, unary(rpc.ListEventsByCreatorProcedure, svc.ListEventsByCreator, opts))
	mux.Handle(rpc.ListEventsByInviteeProcedure, unary(rpc.ListEventsByInviteeProcedure, svc.ListEventsByInvitee, opts))
	mux.Handle(rpc.UpdateEventProcedure, unary(rpc.UpdateEventProcedure, svc.UpdateEvent, opts))
	mux.Handle(rpc.CancelEventProcedure, unary(rpc.CancelEventProcedure, svc.CancelEvent, opts))
	mux.Handle(rpc.InviteProcedure, unary(rpc.InviteProcedure, svc.Invite, opts))
	mux.Handle(rpc.UninviteProcedure, unary(rpc.UninviteProcedure, svc.Uninvite, opts))
	mux.Handle(rpc.DeleteEventProcedure, unary(rpc.DeleteEventProcedure, svc.DeleteEvent, opts))
	return "/" + rpc.EventServiceName + "/", mux
}

// CreateEvent creates an event organised by the requesting user.
func (s *EventService) CreateEvent(ctx context.Context, req *connect.Request[rpc.CreateEventRequest]) (*connect.Response[rpc.EventResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateEvent request received",
		"title", req.Msg.Title,
		"type", req.Msg.Type,
		"invitees_count", len(req.Msg.InviteeIDs),
	)

	event, err := s.facade.Events.Create(ctx, &models.Event{
		UserID:      viewer,
		Title:       req.Msg.Title,
		Date:        req.Msg.Date,
		Description: req.Msg.Description,
		Type:        models.EventType(req.Msg.Type),
		InviteeIDs:  req.Msg.InviteeIDs,
		Visibility:  models.Visibility(req.Msg.Visibility),
	})
	if err != nil {
		return nil, failed("CreateEvent", err)
	}

	slog.Info("Event created", "event_id", event.ID)
	return connect.NewResponse(&rpc.EventResponse{Event: toRPCEvent(event)}), nil
}

// GetEvent retrieves an event the viewer may see.
func (s *EventService) GetEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.EventResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	event, err := s.access.visibleEvent(ctx, viewer, req.Msg.EventID)
	if err != nil {
		return nil, failed("GetEvent", err, "event_id", req.Msg.EventID)
	}
	return connect.NewResponse(&rpc.EventResponse{Event: toRPCEvent(event)}), nil
}

// ListEvents retrieves every event the viewer may see.
func (s *EventService) ListEvents(ctx context.Context, _ *connect.Request[rpc.ListEventsRequest]) (*connect.Response[rpc.ListEventsResponse], error) {
	return s.list(ctx, "ListEvents", s.facade.Events.List)
}

// ListEventsByCreator retrieves the visible events a user created.
func (s *EventService) ListEventsByCreator(ctx context.Context, req *connect.Request[rpc.ListByUserRequest]) (*connect.Response[rpc.ListEventsResponse], error) {
	return s.list(ctx, "ListEventsByCreator", func(ctx context.Context) ([]*models.Event, error) {
		return s.facade.Events.ListByCreator(ctx, req.Msg.UserID)
	})
}

// ListEventsByInvitee retrieves the visible events a user is invited to.
func (s *EventService) ListEventsByInvitee(ctx context.Context, req *connect.Request[rpc.ListByUserRequest]) (*connect.Response[rpc.ListEventsResponse], error) {
	return s.list(ctx, "ListEventsByInvitee", func(ctx context.Context) ([]*models.Event, error) {
		return s.facade.Events.ListByInvitee(ctx, req.Msg.UserID)
	})
}

func (s *EventService) list(ctx context.Context, method string, query func(context.Context) ([]*models.Event, error)) (*connect.Response[rpc.ListEventsResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	events, err := query(ctx)
	if err != nil {
		return nil, failed(method, err)
	}
	events, err = s.access.visibleEvents(ctx, viewer, events)
	if err != nil {
		return nil, failed(method, err)
	}
	slog.Debug(method+" successful", "count", len(events))
	return connect.NewResponse(&rpc.ListEventsResponse{Events: toRPCEvents(events)}), nil
}

// UpdateEvent replaces an event's editable fields.
func (s *EventService) UpdateEvent(ctx context.Context, req *connect.Request[rpc.UpdateEventRequest]) (*connect.Response[rpc.EventResponse], error) {
	return s.change(ctx, "UpdateEvent", req.Msg.EventID, func(ctx context.Context) (*models.Event, error) {
		return s.facade.Events.Update(ctx, &models.Event{
			ID:          req.Msg.EventID,
			Title:       req.Msg.Title,
			Date:        req.Msg.Date,
			Description: req.Msg.Description,
			Type:        models.EventType(req.Msg.Type),
			InviteeIDs:  req.Msg.InviteeIDs,
			Status:      models.EventStatus(req.Msg.Status),
			Visibility:  models.Visibility(req.Msg.Visibility),
		})
	})
}

// CancelEvent cancels an event.
func (s *EventService) CancelEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.EventResponse], error) {
	return s.change(ctx, "CancelEvent", req.Msg.EventID, func(ctx context.Context) (*models.Event, error) {
		return s.facade.Events.Cancel(ctx, req.Msg.EventID)
	})
}

// Invite adds invitees to an event.
func (s *EventService) Invite(ctx context.Context, req *connect.Request[rpc.InviteRequest]) (*connect.Response[rpc.EventResponse], error) {
	return s.change(ctx, "Invite", req.Msg.EventID, func(ctx context.Context) (*models.Event, error) {
		return s.facade.Events.Invite(ctx, req.Msg.EventID, req.Msg.UserIDs...)
	})
}

// Uninvite removes an invitee from an event.
func (s *EventService) Uninvite(ctx context.Context, req *connect.Request[rpc.UninviteRequest]) (*connect.Response[rpc.EventResponse], error) {
	return s.change(ctx, "Uninvite", req.Msg.EventID, func(ctx context.Context) (*models.Event, error) {
		return s.facade.Events.Uninvite(ctx, req.Msg.EventID, req.Msg.UserID)
	})
}

// DeleteEvent removes an event that holds no open or funded items.
func (s *EventService) DeleteEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.Empty], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("DeleteEvent request received", "event_id", req.Msg.EventID)

	if _, err := s.access.visibleEvent(ctx, viewer, req.Msg.EventID); err != nil {
		return nil, failed("DeleteEvent", err, "event_id", req.Msg.EventID)
	}
	if err := s.facade.Events.Delete(ctx, req.Msg.EventID); err != nil {
		return nil, failed("DeleteEvent", err, "event_id", req.Msg.EventID)
	}

	slog.Info("Event deleted", "event_id", req.Msg.EventID)
	return connect.NewResponse(&rpc.Empty{}), nil
}

// change runs a mutation on an event the viewer may see.
func (s *EventService) change(ctx context.Context, method, eventID string, fn func(context.Context) (*models.Event, error)) (*connect.Response[rpc.EventResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info(method+" request received", "event_id", eventID)

	if _, err := s.access.visibleEvent(ctx, viewer, eventID); err != nil {
		return nil, failed(method, err, "event_id", eventID)
	}
	event, err := fn(ctx)
	if err != nil {
		return nil, failed(method, err, "event_id", eventID)
	}
	return connect.NewResponse(&rpc.EventResponse{Event: toRPCEvent(event)}), nil
}
