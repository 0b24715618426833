package client

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"hotel-booking/models"
	"hotel-booking/store"
)

var (
	ctx      = context.Background()
	checkIn  = time.Date(2026, 12, 24, 14, 0, 0, 0, time.UTC)
	checkOut = checkIn.AddDate(0, 0, 2)
	alice    = models.User{ID: "u1", Email: "alice@example.com", DisplayName: "alice"}
)

func catalogRooms() []models.Room {
	return []models.Room{
		{ID: "r1", Name: "Double", Price: 200, Location: "Luxury Hotel Hanoi", Type: models.RoomTypeDouble, Rating: 4.0, MaxGuests: 2, IsAvailable: true},
		{ID: "r2", Name: "Suite", Price: 750, Location: "Da Nang Beach", Type: models.RoomTypeSuite, Rating: 4.8, MaxGuests: 4, IsAvailable: true},
		{ID: "r3", Name: "Closed", Price: 90, Location: "Hue", Type: models.RoomTypeSingle, Rating: 3.0, MaxGuests: 1, IsAvailable: false},
	}
}

func newTestApp(t *testing.T) (*App, *MockRemote) {
	t.Helper()
	remote := newMockRemote()
	app := NewApp(remote, 20*time.Millisecond)
	app.Start()
	t.Cleanup(app.Close)
	return app, remote
}

func signedIn(t *testing.T, app *App, remote *MockRemote, wishlist ...models.WishlistItem) {
	t.Helper()
	remote.On("SignIn", mock.Anything, alice.Email, "secret123").Return(alice, nil).Once()
	remote.On("GetUserWishlist", mock.Anything).Return(wishlist, nil).Once()
	require.NoError(t, app.SignIn(ctx, alice.Email, "secret123"))
}

func TestSignInLoadsUserAndWishlist(t *testing.T) {
	app, remote := newTestApp(t)
	signedIn(t, app, remote, models.WishlistItem{ID: "w1", RoomID: "r2"})

	auth := app.Auth.Get()
	assert.True(t, auth.Authenticated)
	assert.False(t, auth.Loading)
	assert.Empty(t, auth.Error)
	require.NotNil(t, auth.User())
	assert.Equal(t, "u1", auth.User().UID)
	assert.Equal(t, []string{"r2"}, auth.Wishlist())
	remote.AssertExpectations(t)
}

func TestSignInFailureRecordsError(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("SignIn", mock.Anything, "a@b.c", "bad").Return(models.User{}, ErrAuth).Once()

	var sawLoading atomic.Bool
	unsub := app.Auth.Subscribe(func(s store.AuthState) {
		if s.Loading {
			sawLoading.Store(true)
		}
	})
	defer unsub()

	err := app.SignIn(ctx, "a@b.c", "bad")
	assert.ErrorIs(t, err, ErrAuth)

	auth := app.Auth.Get()
	assert.True(t, sawLoading.Load())
	assert.False(t, auth.Loading)
	assert.False(t, auth.Authenticated)
	assert.Equal(t, ErrAuth.Error(), auth.Error)

	signedIn(t, app, remote)
	assert.Empty(t, app.Auth.Get().Error)
}

func TestSessionEventsDriveAuthStore(t *testing.T) {
	app, remote := newTestApp(t)
	signedIn(t, app, remote, models.WishlistItem{ID: "w1", RoomID: "r1"})

	// a repeat sign-in for the same user keeps the wishlist
	renamed := alice
	renamed.DisplayName = "Alice"
	remote.fire(&renamed)
	assert.Equal(t, "Alice", app.Auth.Get().User().DisplayName)
	assert.Equal(t, []string{"r1"}, app.Auth.Get().Wishlist())

	remote.fire(nil)
	assert.False(t, app.Auth.Get().Authenticated)
	assert.Nil(t, app.Auth.Get().User())

	app.Close()
	remote.fire(&alice)
	assert.False(t, app.Auth.Get().Authenticated)
}

func TestSignOut(t *testing.T) {
	app, remote := newTestApp(t)
	signedIn(t, app, remote)

	remote.On("SignOut", mock.Anything).Return(errors.New("offline")).Once()
	assert.Error(t, app.SignOut(ctx))
	assert.True(t, app.Auth.Get().Authenticated)
	assert.Equal(t, "offline", app.Auth.Get().Error)

	remote.On("SignOut", mock.Anything).Return(nil).Once()
	require.NoError(t, app.SignOut(ctx))
	assert.False(t, app.Auth.Get().Authenticated)
	assert.Empty(t, app.Auth.Get().Error)
}

func TestLoadRoomsKeepsFiltersUnapplied(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)

	require.NoError(t, app.LoadRooms(ctx))
	assert.Len(t, app.Catalog.Get().FilteredRooms(), 3)

	app.SetFilters(store.FilterPatch{PriceRange: store.Set(store.PriceRange{Min: 0, Max: 150})})
	assert.Len(t, app.Catalog.Get().FilteredRooms(), 1)

	require.NoError(t, app.Refresh(ctx))
	assert.Len(t, app.Catalog.Get().FilteredRooms(), 3)
	assert.NotNil(t, app.Catalog.Get().Filters().PriceRange)

	app.ClearFilters()
	assert.Len(t, app.Catalog.Get().FilteredRooms(), 3)
	assert.True(t, app.Catalog.Get().Filters().IsEmpty())
}

func TestLoadRoomsFailure(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(nil, errors.New("boom"))

	assert.Error(t, app.LoadRooms(ctx))
	cat := app.Catalog.Get()
	assert.False(t, cat.Loading)
	assert.Equal(t, "boom", cat.Error)
}

func TestSearchIsDebounced(t *testing.T) {
	app, remote := newTestApp(t)
	hanoi := catalogRooms()[:1]
	remote.On("GetRooms", mock.Anything, models.RoomQuery{LocationContains: "hanoi"}).Return(hanoi, nil).Once()

	app.Search("h")
	app.Search("ha")
	app.Search("hanoi")

	assert.Eventually(t, func() bool {
		f := app.Catalog.Get().Filters()
		return f.Location != nil && *f.Location == "hanoi"
	}, time.Second, 5*time.Millisecond)
	assert.Equal(t, []string{"r1"}, roomIDs(app.Catalog.Get().FilteredRooms()))
	remote.AssertNumberOfCalls(t, "GetRooms", 1)
}

func TestSearchEmptyClearsLocation(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{LocationContains: "hue"}).Return(catalogRooms()[2:], nil)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)

	require.NoError(t, app.SearchNow(ctx, "hue"))
	require.NotNil(t, app.Catalog.Get().Filters().Location)
	require.NoError(t, app.SearchNow(ctx, "  "))
	assert.Nil(t, app.Catalog.Get().Filters().Location)
	assert.Len(t, app.Catalog.Get().FilteredRooms(), 3)
}

func TestCloseCancelsPendingSearch(t *testing.T) {
	remote := newMockRemote()
	app := NewApp(remote, 50*time.Millisecond)
	app.Start()
	app.Search("anything")
	app.Close()
	time.Sleep(100 * time.Millisecond)
	remote.AssertNotCalled(t, "GetRooms", mock.Anything, mock.Anything)
}

func TestSelectRoom(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms()[:1], nil)
	require.NoError(t, app.LoadRooms(ctx))

	require.NoError(t, app.SelectRoom(ctx, "r1"))
	assert.Equal(t, "r1", app.Catalog.Get().SelectedRoom().ID)

	remote.On("GetRoomByID", mock.Anything, "r2").Return(catalogRooms()[1], nil).Once()
	require.NoError(t, app.SelectRoom(ctx, "r2"))
	assert.Equal(t, "r2", app.Catalog.Get().SelectedRoom().ID)

	remote.On("GetRoomByID", mock.Anything, "nope").Return(models.Room{}, ErrNotFound).Once()
	assert.ErrorIs(t, app.SelectRoom(ctx, "nope"), ErrNotFound)
	assert.Equal(t, "r2", app.Catalog.Get().SelectedRoom().ID)

	app.ClearSelection()
	assert.Nil(t, app.Catalog.Get().SelectedRoom())
}

func TestAddToCartRequiresSessionAndAvailability(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))

	err := app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayTwentyPercent)
	assert.ErrorIs(t, err, ErrUnauthenticated)
	assert.Equal(t, 0, app.Cart.Get().Count())

	signedIn(t, app, remote)

	err = app.AddToCart(ctx, "r3", checkIn, checkOut, 1, store.PayFull)
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Equal(t, ErrRoomUnavailable.Error(), app.Cart.Get().Error)

	err = app.AddToCart(ctx, "r1", checkIn, checkIn, 1, store.PayFull)
	assert.ErrorIs(t, err, ErrInvalidRequest)

	err = app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PaymentOption("30%"))
	assert.ErrorIs(t, err, store.ErrInvalidPaymentOption)

	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayTwentyPercent))
	item, ok := app.Cart.Get().Find("r1")
	require.True(t, ok)
	assert.Equal(t, 40.0, item.DepositAmount)
	assert.Equal(t, 200.0, item.TotalPrice)
	assert.False(t, app.Cart.Get().Loading)
}

func TestCartOperations(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)

	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayTwentyPercent))
	require.NoError(t, app.AddToCart(ctx, "r2", checkIn, checkOut, 3, store.PayTenPercent))
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 1, store.PayTwentyPercent))
	cart := app.Cart.Get()
	assert.Equal(t, 2, cart.Count())
	assert.Equal(t, 950.0, cart.Total())
	assert.InDelta(t, 115.0, cart.Deposit(), 1e-9)

	require.NoError(t, app.SetPaymentOption("r2", store.PayHalf))
	assert.InDelta(t, 415.0, app.Cart.Get().Deposit(), 1e-9)

	assert.Error(t, app.SetPaymentOption("r2", "7%"))
	assert.InDelta(t, 415.0, app.Cart.Get().Deposit(), 1e-9)

	lines := app.CartView()
	require.Len(t, lines, 2)
	require.NotNil(t, lines[0].Room)
	assert.Equal(t, "Double", lines[0].Room.Name)

	app.RemoveFromCart("missing")
	assert.Equal(t, 2, app.Cart.Get().Count())
	app.RemoveFromCart("r1")
	assert.Equal(t, 1, app.Cart.Get().Count())
	app.ClearCart()
	assert.Equal(t, 0, app.Cart.Get().Count())
}

func TestToggleWishlist(t *testing.T) {
	app, remote := newTestApp(t)

	// no user: nothing happens
	require.NoError(t, app.ToggleWishlist(ctx, "r1"))
	remote.AssertNotCalled(t, "AddToWishlist", mock.Anything, mock.Anything)

	signedIn(t, app, remote, models.WishlistItem{ID: "w2", RoomID: "r2"})

	remote.On("AddToWishlist", mock.Anything, "r1").Return(models.WishlistItem{ID: "w1", RoomID: "r1"}, nil).Once()
	require.NoError(t, app.ToggleWishlist(ctx, "r1"))
	assert.True(t, app.Auth.Get().IsInWishlist("r1"))

	remote.On("RemoveFromWishlist", mock.Anything, "w1").Return(nil).Once()
	require.NoError(t, app.ToggleWishlist(ctx, "r1"))
	assert.False(t, app.Auth.Get().IsInWishlist("r1"))

	remote.On("RemoveFromWishlist", mock.Anything, "w2").Return(errors.New("offline")).Once()
	assert.Error(t, app.ToggleWishlist(ctx, "r2"))
	assert.True(t, app.Auth.Get().IsInWishlist("r2"))
	assert.Equal(t, "offline", app.Auth.Get().Error)

	remote.AssertExpectations(t)
}

func TestCheckout(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))

	_, err := app.Checkout(ctx, "paypal")
	assert.ErrorIs(t, err, ErrUnauthenticated)

	signedIn(t, app, remote)
	_, err = app.Checkout(ctx, "paypal")
	assert.ErrorIs(t, err, ErrEmptyCart)

	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayTwentyPercent))
	require.NoError(t, app.AddToCart(ctx, "r2", checkIn, checkOut, 2, store.PayHalf))

	for _, b := range []models.Booking{
		{ID: "b1", RoomID: "r1", ReferenceCode: "BK-AAAA-AAAA", TotalPrice: 200, DepositAmount: 40},
		{ID: "b2", RoomID: "r2", ReferenceCode: "BK-BBBB-BBBB", TotalPrice: 750, DepositAmount: 375},
	} {
		booking := b
		remote.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool {
			return req.RoomID == booking.RoomID && req.PaymentMethod == "paypal"
		})).Return(booking, nil).Once()
		paid := booking
		paid.PaymentStatus = models.PaymentStatusCompleted
		remote.On("ConfirmPayment", mock.Anything, booking.ID, "paypal").Return(paid, nil).Once()
	}

	conf, err := app.Checkout(ctx, "paypal")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1", "b2"}, conf.BookingIDs)
	assert.Equal(t, []string{"BK-AAAA-AAAA", "BK-BBBB-BBBB"}, conf.References)
	assert.Equal(t, 950.0, conf.Total)
	assert.Equal(t, 415.0, conf.Deposit)
	assert.Equal(t, 535.0, conf.Remaining)
	assert.Equal(t, 0, app.Cart.Get().Count())
	remote.AssertExpectations(t)
}

func TestCheckoutPartialFailureKeepsRemainingItems(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayFull))
	require.NoError(t, app.AddToCart(ctx, "r2", checkIn, checkOut, 2, store.PayFull))

	b1 := models.Booking{ID: "b1", RoomID: "r1", ReferenceCode: "BK-AAAA-AAAA", TotalPrice: 200, DepositAmount: 200}
	remote.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool { return req.RoomID == "r1" })).Return(b1, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b1", "credit-card").Return(b1, nil).Once()
	remote.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool { return req.RoomID == "r2" })).
		Return(models.Booking{}, ErrRoomUnavailable).Once()

	conf, err := app.Checkout(ctx, "credit-card")
	assert.ErrorIs(t, err, ErrRoomUnavailable)
	assert.Equal(t, []string{"b1"}, conf.BookingIDs)
	assert.True(t, app.Cart.Get().Contains("r2"))
	assert.False(t, app.Cart.Get().Contains("r1"))
	assert.NotEmpty(t, app.Cart.Get().Error)
}

func TestCheckoutRejectsUnknownMethodBeforeBooking(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayFull))

	for _, method := range []string{"", "cash"} {
		_, err := app.Checkout(ctx, method)
		assert.ErrorIs(t, err, ErrInvalidRequest, method)
	}
	remote.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
	assert.True(t, app.Cart.Get().Contains("r1"))
}

func TestCheckoutRetryPaysExistingBooking(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayFull))

	b1 := models.Booking{ID: "b1", RoomID: "r1", ReferenceCode: "BK-AAAA-AAAA", TotalPrice: 200, DepositAmount: 200}
	remote.On("CreateBooking", mock.Anything, mock.Anything).Return(b1, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b1", "paypal").Return(models.Booking{}, errors.New("gateway timeout")).Once()

	_, err := app.Checkout(ctx, "paypal")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "b1")
	assert.True(t, app.Cart.Get().Contains("r1"))

	paid := b1
	paid.PaymentStatus = models.PaymentStatusCompleted
	remote.On("ConfirmPayment", mock.Anything, "b1", "paypal").Return(paid, nil).Once()

	conf, err := app.Checkout(ctx, "paypal")
	require.NoError(t, err)
	assert.Equal(t, []string{"b1"}, conf.BookingIDs)
	assert.Equal(t, 0, app.Cart.Get().Count())
	assert.Empty(t, app.Cart.Get().Error)
	remote.AssertNumberOfCalls(t, "CreateBooking", 1)
	remote.AssertExpectations(t)
}

func TestCheckoutRebooksChangedStay(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayFull))

	b1 := models.Booking{ID: "b1", RoomID: "r1", TotalPrice: 200, DepositAmount: 200}
	remote.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool { return req.Guests == 2 })).Return(b1, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b1", "paypal").Return(models.Booking{}, errors.New("declined")).Once()
	_, err := app.Checkout(ctx, "paypal")
	require.Error(t, err)

	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 1, store.PayFull))
	b2 := models.Booking{ID: "b2", RoomID: "r1", TotalPrice: 200, DepositAmount: 200}
	remote.On("CreateBooking", mock.Anything, mock.MatchedBy(func(req models.CreateBookingRequest) bool { return req.Guests == 1 })).Return(b2, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b2", "paypal").Return(b2, nil).Once()

	conf, err := app.Checkout(ctx, "paypal")
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, conf.BookingIDs)
	remote.AssertExpectations(t)
}

func TestCheckoutRebooksWhenUnpaidBookingIsGone(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil)
	require.NoError(t, app.LoadRooms(ctx))
	signedIn(t, app, remote)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 2, store.PayFull))

	b1 := models.Booking{ID: "b1", RoomID: "r1"}
	b2 := models.Booking{ID: "b2", RoomID: "r1", TotalPrice: 200, DepositAmount: 200}
	remote.On("CreateBooking", mock.Anything, mock.Anything).Return(b1, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b1", "paypal").Return(models.Booking{}, ErrNotFound).Once()
	_, err := app.Checkout(ctx, "paypal")
	assert.ErrorIs(t, err, ErrNotFound)

	remote.On("CreateBooking", mock.Anything, mock.Anything).Return(b2, nil).Once()
	remote.On("ConfirmPayment", mock.Anything, "b2", "paypal").Return(b2, nil).Once()
	conf, err := app.Checkout(ctx, "paypal")
	require.NoError(t, err)
	assert.Equal(t, []string{"b2"}, conf.BookingIDs)
	remote.AssertExpectations(t)
}

func TestSuccessfulAttemptClearsPreviousError(t *testing.T) {
	app, remote := newTestApp(t)
	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(nil, errors.New("boom")).Once()
	require.Error(t, app.LoadRooms(ctx))
	assert.Equal(t, "boom", app.Catalog.Get().Error)

	remote.On("GetRooms", mock.Anything, models.RoomQuery{}).Return(catalogRooms(), nil).Once()
	require.NoError(t, app.LoadRooms(ctx))
	assert.Empty(t, app.Catalog.Get().Error)

	signedIn(t, app, remote)
	assert.ErrorIs(t, app.AddToCart(ctx, "r3", checkIn, checkOut, 1, store.PayFull), ErrRoomUnavailable)
	assert.NotEmpty(t, app.Cart.Get().Error)
	require.NoError(t, app.AddToCart(ctx, "r1", checkIn, checkOut, 1, store.PayFull))
	assert.Empty(t, app.Cart.Get().Error)
}

func TestProfilePassThroughs(t *testing.T) {
	app, remote := newTestApp(t)

	_, err := app.Profile(ctx)
	assert.ErrorIs(t, err, ErrUnauthenticated)

	signedIn(t, app, remote)

	remote.On("GetUserProfile", mock.Anything, "u1").Return(models.UserProfile{UserID: "u1", DisplayName: "alice"}, nil).Once()
	p, err := app.Profile(ctx)
	require.NoError(t, err)
	assert.Equal(t, "alice", p.DisplayName)

	name := "Alice L"
	patch := models.UpdateProfileRequest{DisplayName: &name}
	remote.On("UpdateUserProfile", mock.Anything, "u1", patch).Return(models.UserProfile{UserID: "u1", DisplayName: name}, nil).Once()
	_, err = app.UpdateProfile(ctx, patch)
	require.NoError(t, err)
	assert.Equal(t, name, app.Auth.Get().User().DisplayName)

	remote.On("GetUserBookings", mock.Anything, "u1").Return([]models.Booking{{ID: "b9"}}, nil).Once()
	bookings, err := app.Bookings(ctx)
	require.NoError(t, err)
	assert.Len(t, bookings, 1)
	remote.AssertExpectations(t)
}

func roomIDs(rooms []models.Room) []string {
	out := make([]string, len(rooms))
	for i, r := range rooms {
		out[i] = r.ID
	}
	return out
}
