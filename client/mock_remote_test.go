package client

import (
	"context"
	"sync"

	"github.com/stretchr/testify/mock"

	"hotel-booking/models"
)

// MockRemote records calls through testify/mock. Session plumbing is real so
// tests can push session changes with fire.
type MockRemote struct {
	mock.Mock

	mu        sync.Mutex
	user      *models.User
	listeners map[int]SessionListener
	next      int
}

func newMockRemote() *MockRemote {
	return &MockRemote{listeners: make(map[int]SessionListener)}
}

func (m *MockRemote) fire(user *models.User) {
	m.mu.Lock()
	m.user = user
	fns := make([]SessionListener, 0, len(m.listeners))
	for _, fn := range m.listeners {
		fns = append(fns, fn)
	}
	m.mu.Unlock()
	for _, fn := range fns {
		fn(user)
	}
}

func (m *MockRemote) OnSessionChange(fn SessionListener) func() {
	m.mu.Lock()
	defer m.mu.Unlock()
	id := m.next
	m.next++
	m.listeners[id] = fn
	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.listeners, id)
	}
}

func (m *MockRemote) CurrentUser() *models.User {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.user
}

func (m *MockRemote) SignIn(ctx context.Context, email, password string) (models.User, error) {
	args := m.Called(ctx, email, password)
	u := args.Get(0).(models.User)
	if err := args.Error(1); err != nil {
		return models.User{}, err
	}
	m.fire(&u)
	return u, nil
}

func (m *MockRemote) SignUp(ctx context.Context, email, password string) (models.User, error) {
	args := m.Called(ctx, email, password)
	u := args.Get(0).(models.User)
	if err := args.Error(1); err != nil {
		return models.User{}, err
	}
	m.fire(&u)
	return u, nil
}

func (m *MockRemote) SignOut(ctx context.Context) error {
	args := m.Called(ctx)
	if err := args.Error(0); err != nil {
		return err
	}
	m.fire(nil)
	return nil
}

func (m *MockRemote) GetRooms(ctx context.Context, q models.RoomQuery) ([]models.Room, error) {
	args := m.Called(ctx, q)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Room), args.Error(1)
}

func (m *MockRemote) GetRoomByID(ctx context.Context, id string) (models.Room, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(models.Room), args.Error(1)
}

func (m *MockRemote) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.Booking, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *MockRemote) ConfirmPayment(ctx context.Context, bookingID, method string) (models.Booking, error) {
	args := m.Called(ctx, bookingID, method)
	return args.Get(0).(models.Booking), args.Error(1)
}

func (m *MockRemote) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Booking), args.Error(1)
}

func (m *MockRemote) GetUserProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockRemote) UpdateUserProfile(ctx context.Context, userID string, patch models.UpdateProfileRequest) (models.UserProfile, error) {
	args := m.Called(ctx, userID, patch)
	return args.Get(0).(models.UserProfile), args.Error(1)
}

func (m *MockRemote) GetUserWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.WishlistItem), args.Error(1)
}

func (m *MockRemote) AddToWishlist(ctx context.Context, roomID string) (models.WishlistItem, error) {
	args := m.Called(ctx, roomID)
	return args.Get(0).(models.WishlistItem), args.Error(1)
}

func (m *MockRemote) RemoveFromWishlist(ctx context.Context, wishlistID string) error {
	args := m.Called(ctx, wishlistID)
	return args.Error(0)
}
