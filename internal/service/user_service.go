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

// UserService implements giftcircle.v1.UserService. Every mutation acts on
// the requesting user.
type UserService struct {
	facade *aggregate.Facade
	access access
}

// NewUserService creates a UserService over facade.
func NewUserService(facade *aggregate.Facade) *UserService {
	return &UserService{facade: facade, access: access{facade: facade}}
}

// NewUserServiceHandler builds an HTTP handler for every UserService
// procedure. It returns the path prefix to mount it on.
func NewUserServiceHandler(svc *UserService, opts ...connect.HandlerOption) (string, http.Handler) {
	mux := http.NewServeMux()
	mux.Handle(rpc.CreateUserProcedure, unary(rpc.CreateUserProcedure, svc.CreateUser, opts))
	mux.Handle(rpc.GetUserProcedure, unary(rpc.GetUserProcedure, svc.GetUser, opts))
	mux.Handle(rpc.ListUsersProcedure, unary(rpc.ListUsersProcedure, svc.ListUsers, opts))
	mux.Handle(rpc.UpdateProfileProcedure, unary(rpc.UpdateProfileProcedure, svc.UpdateProfile, opts))
	mux.Handle(rpc.UpdateSettingsProcedure, unary(rpc.UpdateSettingsProcedure, svc.UpdateSettings, opts))
	mux.Handle(rpc.UpdateBankDetailsProcedure, unary(rpc.UpdateBankDetailsProcedure, svc.UpdateBankDetails, opts))
	mux.Handle(rpc.AddFriendProcedure, unary(rpc.AddFriendProcedure, svc.AddFriend, opts))
	mux.Handle(rpc.RemoveFriendProcedure, unary(rpc.RemoveFriendProcedure, svc.RemoveFriend, opts))
	mux.Handle(rpc.BlockUserProcedure, unary(rpc.BlockUserProcedure, svc.BlockUser, opts))
	mux.Handle(rpc.UnblockUserProcedure, unary(rpc.UnblockUserProcedure, svc.UnblockUser, opts))
	mux.Handle(rpc.HideEventProcedure, unary(rpc.HideEventProcedure, svc.HideEvent, opts))
	mux.Handle(rpc.UnhideEventProcedure, unary(rpc.UnhideEventProcedure, svc.UnhideEvent, opts))
	mux.Handle(rpc.AcceptEventProcedure, unary(rpc.AcceptEventProcedure, svc.AcceptEvent, opts))
	return "/" + rpc.UserServiceName + "/", mux
}

// CreateUser registers the requesting user's profile under their token
// subject.
func (s *UserService) CreateUser(ctx context.Context, req *connect.Request[rpc.CreateUserRequest]) (*connect.Response[rpc.UserResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info("CreateUser request received", "user_id", viewer)

	user := &models.User{
		ID:          viewer,
		FirstName:   req.Msg.FirstName,
		LastName:    req.Msg.LastName,
		Email:       req.Msg.Email,
		Avatar:      req.Msg.Avatar,
		PhoneNumber: req.Msg.PhoneNumber,
	}
	if req.Msg.Settings != nil {
		user.Settings = fromRPCSettings(*req.Msg.Settings)
	}
	user, err = s.facade.Users.Create(ctx, user)
	if err != nil {
		return nil, failed("CreateUser", err, "user_id", viewer)
	}

	slog.Info("User created", "user_id", user.ID)
	return connect.NewResponse(&rpc.UserResponse{User: toRPCUser(user, viewer)}), nil
}

// GetUser retrieves a user profile.
func (s *UserService) GetUser(ctx context.Context, req *connect.Request[rpc.UserRequest]) (*connect.Response[rpc.UserResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	user, err := s.facade.Users.Get(ctx, req.Msg.UserID)
	if err != nil {
		return nil, failed("GetUser", err, "user_id", req.Msg.UserID)
	}
	return connect.NewResponse(&rpc.UserResponse{User: toRPCUser(user, viewer)}), nil
}

// ListUsers retrieves every user profile.
func (s *UserService) ListUsers(ctx context.Context, _ *connect.Request[rpc.ListUsersRequest]) (*connect.Response[rpc.ListUsersResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	users, err := s.facade.Users.List(ctx)
	if err != nil {
		return nil, failed("ListUsers", err)
	}
	return connect.NewResponse(&rpc.ListUsersResponse{Users: toRPCUsers(users, viewer)}), nil
}

// UpdateProfile replaces the requesting user's profile fields.
func (s *UserService) UpdateProfile(ctx context.Context, req *connect.Request[rpc.UpdateProfileRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "UpdateProfile", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.UpdateProfile(ctx, viewer, aggregate.Profile{
			FirstName:   req.Msg.FirstName,
			LastName:    req.Msg.LastName,
			Email:       req.Msg.Email,
			Avatar:      req.Msg.Avatar,
			PhoneNumber: req.Msg.PhoneNumber,
		})
	})
}

// UpdateSettings replaces the requesting user's gifting preferences.
func (s *UserService) UpdateSettings(ctx context.Context, req *connect.Request[rpc.UpdateSettingsRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "UpdateSettings", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.UpdateSettings(ctx, viewer, fromRPCSettings(req.Msg.Settings))
	})
}

// UpdateBankDetails replaces or clears the requesting user's bank details.
func (s *UserService) UpdateBankDetails(ctx context.Context, req *connect.Request[rpc.UpdateBankDetailsRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "UpdateBankDetails", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.UpdateBankDetails(ctx, viewer, fromRPCBankDetails(req.Msg.BankDetails))
	})
}

// AddFriend befriends another user.
func (s *UserService) AddFriend(ctx context.Context, req *connect.Request[rpc.UserRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "AddFriend", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.AddFriend(ctx, viewer, req.Msg.UserID)
	})
}

// RemoveFriend unfriends another user.
func (s *UserService) RemoveFriend(ctx context.Context, req *connect.Request[rpc.UserRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "RemoveFriend", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.RemoveFriend(ctx, viewer, req.Msg.UserID)
	})
}

// BlockUser blocks another user, unfriending them.
func (s *UserService) BlockUser(ctx context.Context, req *connect.Request[rpc.UserRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "BlockUser", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.Block(ctx, viewer, req.Msg.UserID)
	})
}

// UnblockUser lifts a block.
func (s *UserService) UnblockUser(ctx context.Context, req *connect.Request[rpc.UserRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "UnblockUser", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.Unblock(ctx, viewer, req.Msg.UserID)
	})
}

// HideEvent hides an event from the requesting user.
func (s *UserService) HideEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "HideEvent", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.HideEvent(ctx, viewer, req.Msg.EventID)
	})
}

// UnhideEvent shows a hidden event again.
func (s *UserService) UnhideEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "UnhideEvent", func(ctx context.Context, viewer string) (*models.User, error) {
		return s.facade.Users.UnhideEvent(ctx, viewer, req.Msg.EventID)
	})
}

// AcceptEvent accepts an invitation to an event the user can see.
func (s *UserService) AcceptEvent(ctx context.Context, req *connect.Request[rpc.EventRequest]) (*connect.Response[rpc.UserResponse], error) {
	return s.change(ctx, "AcceptEvent", func(ctx context.Context, viewer string) (*models.User, error) {
		if _, err := s.access.visibleEvent(ctx, viewer, req.Msg.EventID); err != nil {
			return nil, err
		}
		return s.facade.Users.AcceptEvent(ctx, viewer, req.Msg.EventID)
	})
}

func (s *UserService) change(ctx context.Context, method string, fn func(ctx context.Context, viewer string) (*models.User, error)) (*connect.Response[rpc.UserResponse], error) {
	viewer, err := viewerID(ctx)
	if err != nil {
		return nil, err
	}
	slog.Info(method+" request received", "user_id", viewer)

	user, err := fn(ctx, viewer)
	if err != nil {
		return nil, failed(method, err, "user_id", viewer)
	}
	return connect.NewResponse(&rpc.UserResponse{User: toRPCUser(user, viewer)}), nil
}
