package rpc

const (
	CircleServiceName   = "giftcircle.v1.CircleService"
	EventServiceName    = "giftcircle.v1.EventService"
	WishlistServiceName = "giftcircle.v1.WishlistService"
	UserServiceName     = "giftcircle.v1.UserService"
)

// CircleService procedures.
const (
	CreateCircleProcedure        = "/" + CircleServiceName + "/CreateCircle"
	GetCircleProcedure           = "/" + CircleServiceName + "/GetCircle"
	ListCirclesProcedure         = "/" + CircleServiceName + "/ListCircles"
	ListCirclesByMemberProcedure = "/" + CircleServiceName + "/ListCirclesByMember"
	UpdateCircleProcedure        = "/" + CircleServiceName + "/UpdateCircle"
	DeleteCircleProcedure        = "/" + CircleServiceName + "/DeleteCircle"
	AddMembersProcedure          = "/" + CircleServiceName + "/AddMembers"
	RemoveMemberProcedure        = "/" + CircleServiceName + "/RemoveMember"
	AddAdminProcedure            = "/" + CircleServiceName + "/AddAdmin"
	RemoveAdminProcedure         = "/" + CircleServiceName + "/RemoveAdmin"
)

// EventService procedures.
const (
	CreateEventProcedure         = "/" + EventServiceName + "/CreateEvent"
	GetEventProcedure            = "/" + EventServiceName + "/GetEvent"
	ListEventsProcedure          = "/" + EventServiceName + "/ListEvents"
	ListEventsByCreatorProcedure = "/" + EventServiceName + "/ListEventsByCreator"
	ListEventsByInviteeProcedure = "/" + EventServiceName + "/ListEventsByInvitee"
	UpdateEventProcedure         = "/" + EventServiceName + "/UpdateEvent"
	CancelEventProcedure         = "/" + EventServiceName + "/CancelEvent"
	InviteProcedure              = "/" + EventServiceName + "/Invite"
	UninviteProcedure            = "/" + EventServiceName + "/Uninvite"
	DeleteEventProcedure         = "/" + EventServiceName + "/DeleteEvent"
)

// WishlistService procedures.
const (
	CreateItemProcedure        = "/" + WishlistServiceName + "/CreateItem"
	GetItemProcedure           = "/" + WishlistServiceName + "/GetItem"
	ListItemsProcedure         = "/" + WishlistServiceName + "/ListItems"
	ListItemsByOwnerProcedure  = "/" + WishlistServiceName + "/ListItemsByOwner"
	ListItemsByCircleProcedure = "/" + WishlistServiceName + "/ListItemsByCircle"
	ListItemsByEventProcedure  = "/" + WishlistServiceName + "/ListItemsByEvent"
	UpdateItemProcedure        = "/" + WishlistServiceName + "/UpdateItem"
	CancelItemProcedure        = "/" + WishlistServiceName + "/CancelItem"
	DeleteItemProcedure        = "/" + WishlistServiceName + "/DeleteItem"
	ContributeProcedure        = "/" + WishlistServiceName + "/Contribute"
)

// UserService procedures.
const (
	CreateUserProcedure        = "/" + UserServiceName + "/CreateUser"
	GetUserProcedure           = "/" + UserServiceName + "/GetUser"
	ListUsersProcedure         = "/" + UserServiceName + "/ListUsers"
	UpdateProfileProcedure     = "/" + UserServiceName + "/UpdateProfile"
	UpdateSettingsProcedure    = "/" + UserServiceName + "/UpdateSettings"
	UpdateBankDetailsProcedure = "/" + UserServiceName + "/UpdateBankDetails"
	AddFriendProcedure         = "/" + UserServiceName + "/AddFriend"
	RemoveFriendProcedure      = "/" + UserServiceName + "/RemoveFriend"
	BlockUserProcedure         = "/" + UserServiceName + "/BlockUser"
	UnblockUserProcedure       = "/" + UserServiceName + "/UnblockUser"
	HideEventProcedure         = "/" + UserServiceName + "/HideEvent"
	UnhideEventProcedure       = "/" + UserServiceName + "/UnhideEvent"
	AcceptEventProcedure       = "/" + UserServiceName + "/AcceptEvent"
)
