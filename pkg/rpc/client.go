package rpc

import (
	"connectrpc.com/connect"
)

// CircleClient calls CircleService.
type CircleClient struct {
	CreateCircle        *connect.Client[CreateCircleRequest, CircleResponse]
	GetCircle           *connect.Client[CircleRequest, CircleResponse]
	ListCircles         *connect.Client[ListCirclesRequest, ListCirclesResponse]
	ListCirclesByMember *connect.Client[ListCirclesByMemberRequest, ListCirclesResponse]
	UpdateCircle        *connect.Client[UpdateCircleRequest, CircleResponse]
	DeleteCircle        *connect.Client[CircleRequest, Empty]
	AddMembers          *connect.Client[CircleMembersRequest, CircleResponse]
	RemoveMember        *connect.Client[CircleUserRequest, CircleResponse]
	AddAdmin            *connect.Client[CircleUserRequest, CircleResponse]
	RemoveAdmin         *connect.Client[CircleUserRequest, CircleResponse]
}

// NewCircleClient creates a CircleClient for the server at baseURL.
func NewCircleClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *CircleClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &CircleClient{
		CreateCircle:        connect.NewClient[CreateCircleRequest, CircleResponse](httpClient, baseURL+CreateCircleProcedure, opts...),
		GetCircle:           connect.NewClient[CircleRequest, CircleResponse](httpClient, baseURL+GetCircleProcedure, opts...),
		ListCircles:         connect.NewClient[ListCirclesRequest, ListCirclesResponse](httpClient, baseURL+ListCirclesProcedure, opts...),
		ListCirclesByMember: connect.NewClient[ListCirclesByMemberRequest, ListCirclesResponse](httpClient, baseURL+ListCirclesByMemberProcedure, opts...),
		UpdateCircle:        connect.NewClient[UpdateCircleRequest, CircleResponse](httpClient, baseURL+UpdateCircleProcedure, opts...),
		DeleteCircle:        connect.NewClient[CircleRequest, Empty](httpClient, baseURL+DeleteCircleProcedure, opts...),
		AddMembers:          connect.NewClient[CircleMembersRequest, CircleResponse](httpClient, baseURL+AddMembersProcedure, opts...),
		RemoveMember:        connect.NewClient[CircleUserRequest, CircleResponse](httpClient, baseURL+RemoveMemberProcedure, opts...),
		AddAdmin:            connect.NewClient[CircleUserRequest, CircleResponse](httpClient, baseURL+AddAdminProcedure, opts...),
		RemoveAdmin:         connect.NewClient[CircleUserRequest, CircleResponse](httpClient, baseURL+RemoveAdminProcedure, opts...),
	}
}

// EventClient calls EventService.
type EventClient struct {
	CreateEvent         *connect.Client[CreateEventRequest, EventResponse]
	GetEvent            *connect.Client[EventRequest, EventResponse]
	ListEvents          *connect.Client[ListEventsRequest, ListEventsResponse]
	ListEventsByCreator *connect.Client[ListByUserRequest, ListEventsResponse]
	ListEventsByInvitee *connect.Client[ListByUserRequest, ListEventsResponse]
	UpdateEvent         *connect.Client[UpdateEventRequest, EventResponse]
	CancelEvent         *connect.Client[EventRequest, EventResponse]
	Invite              *connect.Client[InviteRequest, EventResponse]
	Uninvite            *connect.Client[UninviteRequest, EventResponse]
	DeleteEvent         *connect.Client[EventRequest, Empty]
}

// NewEventClient creates an EventClient for the server at baseURL.
func NewEventClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *EventClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &EventClient{
		CreateEvent:         connect.NewClient[CreateEventRequest, EventResponse](httpClient, baseURL+CreateEventProcedure, opts...),
		GetEvent:            connect.NewClient[EventRequest, EventResponse](httpClient, baseURL+GetEventProcedure, opts...),
		ListEvents:          connect.NewClient[ListEventsRequest, ListEventsResponse](httpClient, baseURL+ListEventsProcedure, opts...),
		ListEventsByCreator: connect.NewClient[ListByUserRequest, ListEventsResponse](httpClient, baseURL+ListEventsByCreatorProcedure, opts...),
		ListEventsByInvitee: connect.NewClient[ListByUserRequest, ListEventsResponse](httpClient, baseURL+ListEventsByInviteeProcedure, opts...),
		UpdateEvent:         connect.NewClient[UpdateEventRequest, EventResponse](httpClient, baseURL+UpdateEventProcedure, opts...),
		CancelEvent:         connect.NewClient[EventRequest, EventResponse](httpClient, baseURL+CancelEventProcedure, opts...),
		Invite:              connect.NewClient[InviteRequest, EventResponse](httpClient, baseURL+InviteProcedure, opts...),
		Uninvite:            connect.NewClient[UninviteRequest, EventResponse](httpClient, baseURL+UninviteProcedure, opts...),
		DeleteEvent:         connect.NewClient[EventRequest, Empty](httpClient, baseURL+DeleteEventProcedure, opts...),
	}
}

// WishlistClient calls WishlistService.
type WishlistClient struct {
	CreateItem        *connect.Client[CreateItemRequest, ItemResponse]
	GetItem           *connect.Client[ItemRequest, ItemResponse]
	ListItems         *connect.Client[ListItemsRequest, ListItemsResponse]
	ListItemsByOwner  *connect.Client[ListByUserRequest, ListItemsResponse]
	ListItemsByCircle *connect.Client[ListItemsByCircleRequest, ListItemsResponse]
	ListItemsByEvent  *connect.Client[ListItemsByEventRequest, ListItemsResponse]
	UpdateItem        *connect.Client[UpdateItemRequest, ItemResponse]
	CancelItem        *connect.Client[ItemRequest, ItemResponse]
	DeleteItem        *connect.Client[ItemRequest, Empty]
	Contribute        *connect.Client[ContributeRequest, ItemResponse]
}

// NewWishlistClient creates a WishlistClient for the server at baseURL.
func NewWishlistClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *WishlistClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &WishlistClient{
		CreateItem:        connect.NewClient[CreateItemRequest, ItemResponse](httpClient, baseURL+CreateItemProcedure, opts...),
		GetItem:           connect.NewClient[ItemRequest, ItemResponse](httpClient, baseURL+GetItemProcedure, opts...),
		ListItems:         connect.NewClient[ListItemsRequest, ListItemsResponse](httpClient, baseURL+ListItemsProcedure, opts...),
		ListItemsByOwner:  connect.NewClient[ListByUserRequest, ListItemsResponse](httpClient, baseURL+ListItemsByOwnerProcedure, opts...),
		ListItemsByCircle: connect.NewClient[ListItemsByCircleRequest, ListItemsResponse](httpClient, baseURL+ListItemsByCircleProcedure, opts...),
		ListItemsByEvent:  connect.NewClient[ListItemsByEventRequest, ListItemsResponse](httpClient, baseURL+ListItemsByEventProcedure, opts...),
		UpdateItem:        connect.NewClient[UpdateItemRequest, ItemResponse](httpClient, baseURL+UpdateItemProcedure, opts...),
		CancelItem:        connect.NewClient[ItemRequest, ItemResponse](httpClient, baseURL+CancelItemProcedure, opts...),
		DeleteItem:        connect.NewClient[ItemRequest, Empty](httpClient, baseURL+DeleteItemProcedure, opts...),
		Contribute:        connect.NewClient[ContributeRequest, ItemResponse](httpClient, baseURL+ContributeProcedure, opts...),
	}
}

// UserClient calls UserService.
type UserClient struct {
	CreateUser        *connect.Client[CreateUserRequest, UserResponse]
	GetUser           *connect.Client[UserRequest, UserResponse]
	ListUsers         *connect.Client[ListUsersRequest, ListUsersResponse]
	UpdateProfile     *connect.Client[UpdateProfileRequest, UserResponse]
	UpdateSettings    *connect.Client[UpdateSettingsRequest, UserResponse]
	UpdateBankDetails *connect.Client[UpdateBankDetailsRequest, UserResponse]
	AddFriend         *connect.Client[UserRequest, UserResponse]
	RemoveFriend      *connect.Client[UserRequest, UserResponse]
	BlockUser         *connect.Client[UserRequest, UserResponse]
	UnblockUser       *connect.Client[UserRequest, UserResponse]
	HideEvent         *connect.Client[EventRequest, UserResponse]
	UnhideEvent       *connect.Client[EventRequest, UserResponse]
	AcceptEvent       *connect.Client[EventRequest, UserResponse]
}

// NewUserClient creates a UserClient for the server at baseURL.
func NewUserClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *UserClient {
	opts = append([]connect.ClientOption{WithCodec()}, opts...)
	return &UserClient{
		CreateUser:        connect.NewClient[CreateUserRequest, UserResponse](httpClient, baseURL+CreateUserProcedure, opts...),
		GetUser:           connect.NewClient[UserRequest, UserResponse](httpClient, baseURL+GetUserProcedure, opts...),
		ListUsers:         connect.NewClient[ListUsersRequest, ListUsersResponse](httpClient, baseURL+ListUsersProcedure, opts...),
		UpdateProfile:     connect.NewClient[UpdateProfileRequest, UserResponse](httpClient, baseURL+UpdateProfileProcedure, opts...),
		UpdateSettings:    connect.NewClient[UpdateSettingsRequest, UserResponse](httpClient, baseURL+UpdateSettingsProcedure, opts...),
		UpdateBankDetails: connect.NewClient[UpdateBankDetailsRequest, UserResponse](httpClient, baseURL+UpdateBankDetailsProcedure, opts...),
		AddFriend:         connect.NewClient[UserRequest, UserResponse](httpClient, baseURL+AddFriendProcedure, opts...),
		RemoveFriend:      connect.NewClient[UserRequest, UserResponse](httpClient, baseURL+RemoveFriendProcedure, opts...),
		BlockUser:         connect.NewClient[UserRequest, UserResponse](httpClient, baseURL+BlockUserProcedure, opts...),
		UnblockUser:       connect.NewClient[UserRequest, UserResponse](httpClient, baseURL+UnblockUserProcedure, opts...),
		HideEvent:         connect.NewClient[EventRequest, UserResponse](httpClient, baseURL+HideEventProcedure, opts...),
		UnhideEvent:       connect.NewClient[EventRequest, UserResponse](httpClient, baseURL+UnhideEventProcedure, opts...),
		AcceptEvent:       connect.NewClient[EventRequest, UserResponse](httpClient, baseURL+AcceptEventProcedure, opts...),
	}
}
