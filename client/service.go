// Package client is the booking app core: the three stores driven by a
// remote data service.
package client

import (
	"context"
	"errors"

	"hotel-booking/models"
)

var (
	ErrAuth            = errors.New("authentication failed")
	ErrNotFound        = errors.New("not found")
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrRoomUnavailable = errors.New("room is not available")
	ErrInvalidRequest  = errors.New("invalid request")
	ErrEmptyCart       = errors.New("cart is empty")
)

// SessionListener receives the signed-in user, or nil once the session ends.
type SessionListener func(user *models.User)

// DataService is everything the app needs from the backend.
type DataService interface {
	SignIn(ctx context.Context, email, password string) (models.User, error)
	SignUp(ctx context.Context, email, password string) (models.User, error)
	SignOut(ctx context.Context) error
	CurrentUser() *models.User

	GetRooms(ctx context.Context, q models.RoomQuery) ([]models.Room, error)
	GetRoomByID(ctx context.Context, id string) (models.Room, error)

	CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.Booking, error)
	ConfirmPayment(ctx context.Context, bookingID, method string) (models.Booking, error)
	GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error)

	GetUserProfile(ctx context.Context, userID string) (models.UserProfile, error)
	UpdateUserProfile(ctx context.Context, userID string, patch models.UpdateProfileRequest) (models.UserProfile, error)

	GetUserWishlist(ctx context.Context) ([]models.WishlistItem, error)
	AddToWishlist(ctx context.Context, roomID string) (models.WishlistItem, error)
	RemoveFromWishlist(ctx context.Context, wishlistID string) error

	// OnSessionChange registers fn for every later session change. Events
	// arrive independently of any request.
	OnSessionChange(fn SessionListener) (unsubscribe func())
}
