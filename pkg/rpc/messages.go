package rpc

// Empty is returned by procedures with nothing to report.
type Empty struct{}

// Circle is a gift circle on the wire.
type Circle struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Description      string   `json:"description"`
	AdminIDs         []string `json:"adminIds"`
	MemberIDs        []string `json:"memberIds"`
	CreatedTimestamp int64    `json:"createdTimestamp"`
}

// Event is an event on the wire.
type Event struct {
	ID          string   `json:"id"`
	UserID      string   `json:"userId"`
	Title       string   `json:"title"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Type        string   `json:"type"`
	InviteeIDs  []string `json:"inviteeIds"`
	Status      string   `json:"status"`
	Visibility  string   `json:"visibility"`
}

// WishlistItem is an item as seen by the requesting user. Contributions are
// already redacted for that user.
type WishlistItem struct {
	ID            string         `json:"id"`
	UserID        string         `json:"userId"`
	Title         string         `json:"title"`
	Description   string         `json:"description"`
	Price         float64        `json:"price"`
	FundedAmount  float64        `json:"fundedAmount"`
	ImageURL      string         `json:"imageUrl"`
	ProductURL    string         `json:"productUrl"`
	EventID       string         `json:"eventId,omitempty"`
	CircleID      string         `json:"circleId,omitempty"`
	Status        string         `json:"status"`
	Contributions []Contribution `json:"contributions"`
	CreatedAt     int64          `json:"createdAt"`
}

// Contribution is a redacted contribution. Amount is absent when hidden
// from the requesting user.
type Contribution struct {
	ID             string   `json:"id"`
	ContributorID  string   `json:"contributorId"`
	Amount         *float64 `json:"amount,omitempty"`
	Type           string   `json:"type"`
	Timestamp      int64    `json:"timestamp"`
	IsAnonymous    bool     `json:"isAnonymous"`
	IsAmountHidden bool     `json:"isAmountHidden"`
}

// User is a user profile. BankDetails is only present for the user
// themselves.
type User struct {
	ID               string       `json:"id"`
	FirstName        string       `json:"firstName"`
	LastName         string       `json:"lastName"`
	Email            string       `json:"email"`
	Avatar           string       `json:"avatar,omitempty"`
	PhoneNumber      string       `json:"phoneNumber,omitempty"`
	Friends          []string     `json:"friends"`
	BlockedUserIDs   []string     `json:"blockedUserIds,omitempty"`
	FamilyMemberIDs  []string     `json:"familyMemberIds"`
	AcceptedEventIDs []string     `json:"acceptedEventIds"`
	HiddenEventIDs   []string     `json:"hiddenEventIds,omitempty"`
	Settings         UserSettings `json:"settings"`
	BankDetails      *BankDetails `json:"bankDetails,omitempty"`
	CreatedAt        int64        `json:"createdAt"`
}

type UserSettings struct {
	DefaultGiftAmount  float64 `json:"defaultGiftAmount" validate:"gte=0"`
	MaxGiftAmount      float64 `json:"maxGiftAmount" validate:"gte=0"`
	Currency           string  `json:"currency"`
	AutoAcceptContacts bool    `json:"autoAcceptContacts"`
}

type BankDetails struct {
	AccountName   string `json:"accountName" validate:"required"`
	AccountNumber string `json:"accountNumber" validate:"required"`
	BankName      string `json:"bankName"`
	IFSCCode      string `json:"ifscCode"`
	PANNumber     string `json:"panNumber"`
}

// Circles

type CreateCircleRequest struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	AdminIDs    []string `json:"adminIds" validate:"dive,required"`
	MemberIDs   []string `json:"memberIds" validate:"dive,required"`
}

type CircleRequest struct {
	CircleID string `json:"circleId" validate:"required"`
}

type ListCirclesRequest struct{}

type ListCirclesByMemberRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type UpdateCircleRequest struct {
	CircleID    string   `json:"circleId" validate:"required"`
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	AdminIDs    []string `json:"adminIds" validate:"dive,required"`
	MemberIDs   []string `json:"memberIds" validate:"dive,required"`
}

type CircleMembersRequest struct {
	CircleID string   `json:"circleId" validate:"required"`
	UserIDs  []string `json:"userIds" validate:"min=1,dive,required"`
}

type CircleUserRequest struct {
	CircleID string `json:"circleId" validate:"required"`
	UserID   string `json:"userId" validate:"required"`
}

type CircleResponse struct {
	Circle *Circle `json:"circle"`
}

type ListCirclesResponse struct {
	Circles []*Circle `json:"circles"`
}

// Events

type CreateEventRequest struct {
	Title       string   `json:"title" validate:"required"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"omitempty,oneof=BIRTHDAY WEDDING HOUSEWARMING BABY_SHOWER OTHER"`
	InviteeIDs  []string `json:"inviteeIds" validate:"dive,required"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

type EventRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

type ListEventsRequest struct{}

type ListByUserRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type UpdateEventRequest struct {
	EventID     string   `json:"eventId" validate:"required"`
	Title       string   `json:"title" validate:"required"`
	Date        string   `json:"date"`
	Description string   `json:"description"`
	Type        string   `json:"type" validate:"omitempty,oneof=BIRTHDAY WEDDING HOUSEWARMING BABY_SHOWER OTHER"`
	InviteeIDs  []string `json:"inviteeIds" validate:"dive,required"`
	Status      string   `json:"status" validate:"omitempty,oneof=ACTIVE CANCELLED"`
	Visibility  string   `json:"visibility" validate:"omitempty,oneof=PUBLIC PRIVATE"`
}

type InviteRequest struct {
	EventID string   `json:"eventId" validate:"required"`
	UserIDs []string `json:"userIds" validate:"min=1,dive,required"`
}

type UninviteRequest struct {
	EventID string `json:"eventId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

type EventResponse struct {
	Event *Event `json:"event"`
}

type ListEventsResponse struct {
	Events []*Event `json:"events"`
}

// Wishlist

type CreateItemRequest struct {
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	ProductURL  string  `json:"productUrl" validate:"omitempty,url"`
	EventID     string  `json:"eventId"`
	CircleID    string  `json:"circleId"`
}

type ItemRequest struct {
	ItemID string `json:"itemId" validate:"required"`
}

type ListItemsRequest struct{}

type ListItemsByCircleRequest struct {
	CircleID string `json:"circleId" validate:"required"`
}

type ListItemsByEventRequest struct {
	EventID string `json:"eventId" validate:"required"`
}

type UpdateItemRequest struct {
	ItemID      string  `json:"itemId" validate:"required"`
	Title       string  `json:"title" validate:"required"`
	Description string  `json:"description"`
	Price       float64 `json:"price" validate:"gt=0"`
	ImageURL    string  `json:"imageUrl" validate:"omitempty,url"`
	ProductURL  string  `json:"productUrl" validate:"omitempty,url"`
	EventID     string  `json:"eventId"`
	CircleID    string  `json:"circleId"`
}

// ContributeRequest funds an item as the requesting user. Amount is checked
// by the ledger, not here, so a non-positive amount reports the ledger's
// own error.
type ContributeRequest struct {
	ItemID         string  `json:"itemId" validate:"required"`
	Amount         float64 `json:"amount"`
	Type           string  `json:"type" validate:"omitempty,oneof=LOCKED FREE"`
	IsAnonymous    bool    `json:"isAnonymous"`
	IsAmountHidden bool    `json:"isAmountHidden"`
}

type ItemResponse struct {
	Item *WishlistItem `json:"item"`
}

type ListItemsResponse struct {
	Items []*WishlistItem `json:"items"`
}

// Users

// CreateUserRequest registers the requesting user. The user ID is the
// token subject.
type CreateUserRequest struct {
	FirstName   string        `json:"firstName"`
	LastName    string        `json:"lastName"`
	Email       string        `json:"email" validate:"required,email"`
	Avatar      string        `json:"avatar"`
	PhoneNumber string        `json:"phoneNumber"`
	Settings    *UserSettings `json:"settings"`
}

type UserRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type ListUsersRequest struct{}

type UpdateProfileRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"required,email"`
	Avatar      string `json:"avatar"`
	PhoneNumber string `json:"phoneNumber"`
}

type UpdateSettingsRequest struct {
	Settings UserSettings `json:"settings"`
}

// UpdateBankDetailsRequest replaces the requesting user's bank details.
// A nil BankDetails clears them.
type UpdateBankDetailsRequest struct {
	BankDetails *BankDetails `json:"bankDetails"`
}

type UserResponse struct {
	User *User `json:"user"`
}

type ListUsersResponse struct {
	Users []*User `json:"users"`
}
