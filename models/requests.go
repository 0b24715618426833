package models

import "time"

// RoomQuery is the server-side predicate subset accepted by GET /api/rooms.
// Nil or zero fields impose no constraint.
type RoomQuery struct {
	PriceGTE         *float64 `form:"price_gte" json:"price_gte,omitempty"`
	PriceLTE         *float64 `form:"price_lte" json:"price_lte,omitempty"`
	LocationContains string   `form:"location_contains" json:"location_contains,omitempty"`
	Type             RoomType `form:"type" json:"type,omitempty"`
	RatingGTE        *float64 `form:"rating_gte" json:"rating_gte,omitempty"`
	GuestsGTE        *int     `form:"guests_gte" json:"guests_gte,omitempty"`
}

type Credentials struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type CreateBookingRequest struct {
	RoomID          string    `json:"roomId" binding:"required"`
	CheckIn         time.Time `json:"checkIn" binding:"required"`
	CheckOut        time.Time `json:"checkOut" binding:"required"`
	Guests          int       `json:"guests"`
	PaymentOption   string    `json:"paymentOption"`
	PaymentMethod   string    `json:"paymentMethod"`
	SpecialRequests string    `json:"specialRequests,omitempty"`
}

type ConfirmPaymentRequest struct {
	Method string `json:"method" binding:"required"`
}

type PreferencesPatch struct {
	Notifications *bool   `json:"notifications,omitempty"`
	Newsletter    *bool   `json:"newsletter,omitempty"`
	Language      *string `json:"language,omitempty"`
}

// UpdateProfileRequest only changes the fields that are non-nil.
type UpdateProfileRequest struct {
	DisplayName *string           `json:"displayName,omitempty"`
	PhoneNumber *string           `json:"phoneNumber,omitempty"`
	PhotoURL    *string           `json:"photoURL,omitempty"`
	Preferences *PreferencesPatch `json:"preferences,omitempty"`
}

type AddWishlistRequest struct {
	RoomID string `json:"roomId" binding:"required"`
}

type SetAvailabilityRequest struct {
	IsAvailable *bool `json:"isAvailable" binding:"required"`
}
