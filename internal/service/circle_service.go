package service

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"connectrpc.com/connect"

	"github.com/mmynk/giftcircle/internal/aggregate"
	"github.com/mmynk/giftcircle/internal/models"
	"github.com/mmynk/giftcircle/pkg/rpc"
)

// CircleService implements giftcircle.v1.CircleService.
type CircleService struct {
	facade *aggregate.Facade
}

// NewCircleService creates a CircleService over facade.
func NewCircleService(facade *aggregate.Facade) *CircleService {
	return &CircleService{facade: facade}
}

// NewCircleServiceHandler builds an HTTP handler for every CircleService
// procedure. It returns the path prefix to mount it on.
func NewCircleServiceHandler(svc *CircleService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(rpc.CreateCircleProcedure, unary(rpc.CreateCircleProcedure, svc.CreateCircle, opts))
	mux.Handle(rpc.GetCircleProcedure, unary(rpc.GetCircleProcedure, svc.GetCircle, opts))
	mux.Handle(rpc.ListCirclesProcedure, unary(rpc.ListCirclesProcedure, svc.ListCircles, opts))
	mux.Handle(rpc.ListCirclesByMemberProcedure, unary(rpc.ListCirclesByMemberProcedure, svc.ListCirclesByMember, opts))
	mux.Handle(rpc.UpdateCircleProcedure, unary(rpc.UpdateCircleProcedure, svc.UpdateCircle, opts))
	mux.Handle(rpc.DeleteCircleProcedure, unary(rpc.DeleteCircleProcedure, svc.DeleteCircle, opts))
	mux.Handle(rpc.AddMembersProcedure, unary(rpc.AddMembersProcedure, svc.AddMembers, opts))
	mux.Handle(rpc.RemoveMemberProcedure, unary(rpc.RemoveMemberProcedure, svc.RemoveMember, opts))
	mux.Handle(rpc.AddAdminProcedure, unary(rpc.AddAdminProcedure, svc.AddAdmin, opts))
	mux.Handle(rpc.RemoveAdminProcedure, unary(rpc.RemoveAdminProcedure, svc.RemoveAdmin, opts))
	return "/" + rpc.CircleServiceName + "/", mux
}

// CreateCircle creates a circle administered by the requesting user.
func (s *CircleService) CreateCircle(ctx context.Context, req *connect.Request[rpc.CreateCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateCircle request received",
		"name", req.Msg.Name,
		"members_count", len(req.Msg.MemberIDs),
	)

	admins := req.Msg.AdminIDs
	if !slices.Contains(admins, viewer) {
		admins = append(slices.Clone(admins), viewer)
	}
	circle, err := s.facade.Circles.Create(ctx, &models.GiftCircle{
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		AdminIDs:    admins,
		MemberIDs:   req.Msg.MemberIDs,
	})
	if err != nil {
		return nil, failed("CreateCircle", err)
	}

	slog.Info("Circle created", "circle_id", circle.ID)
	return connect.NewResponse(&rpc.CircleResponse{Circle: toRPCCircle(circle)}), nil
}

// GetCircle retrieves a circle by ID.
func (s *CircleService) GetCircle(ctx context.Context, req *connect.Request[rpc.CircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	circle, err := s.facade.Circles.Get(ctx, req.Msg.CircleID)
	if err != nil {
		return nil, failed("GetCircle", err, "circle_id", req.Msg.CircleID)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: toRPCCircle(circle)}), nil
}

// ListCircles retrieves all circles.
func (s *CircleService) ListCircles(ctx context.Context, _ *connect.Request[rpc.ListCirclesRequest]) (*connect.Response[rpc.ListCirclesResponse], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	circles, err := s.facade.Circles.List(ctx)
	if err != nil {
		return nil, failed("ListCircles", err)
	}
	return connect.NewResponse(&rpc.ListCirclesResponse{Circles: toRPCCircles(circles)}), nil
}

// ListCirclesByMember retrieves the circles a user belongs to.
func (s *CircleService) ListCirclesByMember(ctx context.Context, req *connect.Request[rpc.ListCirclesByMemberRequest]) (*connect.Response[rpc.ListCirclesResponse], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	circles, err := s.facade.Circles.ListByMember(ctx, req.Msg.UserID)
	if err != nil {
		return nil, failed("ListCirclesByMember", err, "user_id", req.Msg.UserID)
	}
	return connect.NewResponse(&rpc.ListCirclesResponse{Circles: toRPCCircles(circles)}), nil
}

// UpdateCircle replaces a circle's name, description, admins and members.
func (s *CircleService) UpdateCircle(ctx context.Context, req *connect.Request[rpc.UpdateCircleRequest]) (*connect.Response[rpc.CircleResponse], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	slog.Info("UpdateCircle request received",
		"circle_id", req.Msg.CircleID,
		"members_count", len(req.Msg.MemberIDs),
	)

	circle, err := s.facade.Circles.Update(ctx, &models.GiftCircle{
		ID:          req.Msg.CircleID,
		Name:        req.Msg.Name,
		Description: req.Msg.Description,
		AdminIDs:    req.Msg.AdminIDs,
		MemberIDs:   req.Msg.MemberIDs,
	})
	if err != nil {
		return nil, failed("UpdateCircle", err, "circle_id", req.Msg.CircleID)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: toRPCCircle(circle)}), nil
}

// DeleteCircle removes a circle that scopes no open or funded items.
func (s *CircleService) DeleteCircle(ctx context.Context, req *connect.Request[rpc.CircleRequest]) (*connect.Response[rpc.Empty], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	slog.Info("DeleteCircle request received", "circle_id", req.Msg.CircleID)

	if err := s.facade.Circles.Delete(ctx, req.Msg.CircleID); err != nil {
		return nil, failed("DeleteCircle", err, "circle_id", req.Msg.CircleID)
	}

	slog.Info("Circle deleted", "circle_id", req.Msg.CircleID)
	return connect.NewResponse(&rpc.Empty{}), nil
}

// AddMembers adds users to a circle.
func (s *CircleService) AddMembers(ctx context.Context, req *connect.Request[rpc.CircleMembersRequest]) (*connect.Response[rpc.CircleResponse], error) {
	return s.change(ctx, "AddMembers", req.Msg.CircleID, func(ctx context.Context) (*models.GiftCircle, error) {
		return s.facade.Circles.AddMembers(ctx, req.Msg.CircleID, req.Msg.UserIDs...)
	})
}

// RemoveMember removes a user, and their admin rights, from a circle.
func (s *CircleService) RemoveMember(ctx context.Context, req *connect.Request[rpc.CircleUserRequest]) (*connect.Response[rpc.CircleResponse], error) {
	return s.change(ctx, "RemoveMember", req.Msg.CircleID, func(ctx context.Context) (*models.GiftCircle, error) {
		return s.facade.Circles.RemoveMember(ctx, req.Msg.CircleID, req.Msg.UserID)
	})
}

// AddAdmin makes a user an admin, adding them as a member if needed.
func (s *CircleService) AddAdmin(ctx context.Context, req *connect.Request[rpc.CircleUserRequest]) (*connect.Response[rpc.CircleResponse], error) {
	return s.change(ctx, "AddAdmin", req.Msg.CircleID, func(ctx context.Context) (*models.GiftCircle, error) {
		return s.facade.Circles.AddAdmin(ctx, req.Msg.CircleID, req.Msg.UserID)
	})
}

// RemoveAdmin revokes a user's admin rights. They stay a member.
func (s *CircleService) RemoveAdmin(ctx context.Context, req *connect.Request[rpc.CircleUserRequest]) (*connect.Response[rpc.CircleResponse], error) {
	return s.change(ctx, "RemoveAdmin", req.Msg.CircleID, func(ctx context.Context) (*models.GiftCircle, error) {
		return s.facade.Circles.RemoveAdmin(ctx, req.Msg.CircleID, req.Msg.UserID)
	})
}

func (s *CircleService) change(ctx context.Context, method, circleID string, fn func(context.Context) (*models.GiftCircle, error)) (*connect.Response[rpc.CircleResponse], error) {
	if _, err := viewerID(ctx); err != nil {
		return nil, err
	}
	slog.Info(method+" request received", "circle_id", circleID)

	circle, err := fn(ctx)
	if err != nil {
		return nil, failed(method, err, "circle_id", circleID)
	}
	return connect.NewResponse(&rpc.CircleResponse{Circle: toRPCCircle(circle)}), nil
}
