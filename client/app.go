package client

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"hotel-booking/models"
	"hotel-booking/store"
	"hotel-booking/utils"
)

// SearchDelay is the quiet window before a typed search is sent.
const SearchDelay = 500 * time.Millisecond

// App owns the catalog, cart and auth stores and keeps them in step with the
// remote. Remote failures are recorded in the owning store's Error field and
// also returned.
type App struct {
	Remote  DataService
	Catalog *store.Store[store.CatalogState]
	Cart    *store.Store[store.CartState]
	Auth    *store.Store[store.AuthState]

	log    *zap.Logger
	search *utils.Debouncer

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	wishlistIDs map[string]string // room id -> wishlist entry id
	unpaid      map[string]unpaidBooking
	unsubscribe func()
}

// NewApp builds an app over remote. A zero searchDelay uses SearchDelay.
func NewApp(remote DataService, searchDelay time.Duration) *App {
	if searchDelay <= 0 {
		searchDelay = SearchDelay
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &App{
		Remote:      remote,
		Catalog:     store.New(store.CatalogState{}),
		Cart:        store.New(store.NewCartState()),
		Auth:        store.New(store.AuthState{}),
		log:         zap.L().Named("app"),
		search:      utils.NewDebouncer(searchDelay),
		ctx:         ctx,
		cancel:      cancel,
		wishlistIDs: make(map[string]string),
		unpaid:      make(map[string]unpaidBooking),
	}
}

// Start installs the standing session subscription. It is safe to call once.
func (a *App) Start() {
	a.mu.Lock()
	if a.unsubscribe != nil {
		a.mu.Unlock()
		return
	}
	a.unsubscribe = a.Remote.OnSessionChange(a.onSessionChange)
	a.mu.Unlock()

	if u := a.Remote.CurrentUser(); u != nil {
		a.onSessionChange(u)
	}
}

// Close removes the session subscription and drops any pending search.
func (a *App) Close() {
	a.search.Cancel()
	a.cancel()
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.unsubscribe != nil {
		a.unsubscribe()
		a.unsubscribe = nil
	}
}

func (a *App) onSessionChange(user *models.User) {
	if user == nil {
		a.mu.Lock()
		a.wishlistIDs = make(map[string]string)
		a.unpaid = make(map[string]unpaidBooking)
		a.mu.Unlock()
		a.Auth.Update(func(s store.AuthState) store.AuthState { return s.SetUser(nil) })
		return
	}
	if cur := a.Auth.Get().User(); cur != nil && cur.UID != user.ID {
		a.mu.Lock()
		a.unpaid = make(map[string]unpaidBooking)
		a.mu.Unlock()
	}
	a.Auth.Update(func(s store.AuthState) store.AuthState {
		next := store.AppUser{UID: user.ID, Email: user.Email, DisplayName: user.DisplayName}
		if cur := s.User(); cur != nil && cur.UID == user.ID {
			next.Wishlist = cur.Wishlist
		}
		return s.SetUser(&next)
	})
}

func (a *App) currentUser() (*store.AppUser, error) {
	u := a.Auth.Get().User()
	if u == nil {
		return nil, ErrUnauthenticated
	}
	return u, nil
}

// bracket sets loading on st around fn. The error field is cleared when fn
// starts and holds fn's error when it ends.
func bracket[S any](st *store.Store[S], loading func(S, bool) S, setErr func(S, string) S, fn func() error) error {
	st.Update(func(s S) S { return setErr(loading(s, true), "") })
	defer st.Update(func(s S) S { return loading(s, false) })
	err := fn()
	if err != nil {
		st.Update(func(s S) S { return setErr(s, err.Error()) })
	}
	return err
}

func (a *App) authOp(fn func() error) error {
	return bracket(a.Auth, store.AuthState.SetLoading, store.AuthState.SetError, fn)
}

func (a *App) catalogOp(fn func() error) error {
	return bracket(a.Catalog, store.CatalogState.SetLoading, store.CatalogState.SetError, fn)
}

func (a *App) cartOp(fn func() error) error {
	return bracket(a.Cart, store.CartState.SetLoading, store.CartState.SetError, fn)
}

func (a *App) SignIn(ctx context.Context, email, password string) error {
	return a.signInWith(ctx, a.Remote.SignIn, email, password)
}

func (a *App) SignUp(ctx context.Context, email, password string) error {
	return a.signInWith(ctx, a.Remote.SignUp, email, password)
}

func (a *App) signInWith(ctx context.Context, call func(context.Context, string, string) (models.User, error), email, password string) error {
	return a.authOp(func() error {
		user, err := call(ctx, email, password)
		if err != nil {
			return err
		}
		a.onSessionChange(&user)
		if err := a.loadWishlist(ctx); err != nil {
			a.log.Warn("wishlist load failed", zap.String("uid", user.ID), zap.Error(err))
		}
		return nil
	})
}

func (a *App) loadWishlist(ctx context.Context) error {
	items, err := a.Remote.GetUserWishlist(ctx)
	if err != nil {
		return err
	}
	ids := make(map[string]string, len(items))
	roomIDs := make([]string, 0, len(items))
	for _, it := range items {
		if _, dup := ids[it.RoomID]; !dup {
			roomIDs = append(roomIDs, it.RoomID)
		}
		ids[it.RoomID] = it.ID
	}
	a.mu.Lock()
	a.wishlistIDs = ids
	a.mu.Unlock()
	a.Auth.Update(func(s store.AuthState) store.AuthState { return s.SetWishlist(roomIDs) })
	return nil
}

func (a *App) SignOut(ctx context.Context) error {
	return a.authOp(func() error {
		if err := a.Remote.SignOut(ctx); err != nil {
			return err
		}
		a.mu.Lock()
		a.wishlistIDs = make(map[string]string)
		a.mu.Unlock()
		a.Auth.Update(store.AuthState.Logout)
		return nil
	})
}

// LoadRooms replaces the catalog with every room. Active filters are kept but
// not re-applied.
func (a *App) LoadRooms(ctx context.Context) error {
	return a.catalogOp(func() error {
		rooms, err := a.Remote.GetRooms(ctx, models.RoomQuery{})
		if err != nil {
			return err
		}
		a.Catalog.Update(func(s store.CatalogState) store.CatalogState { return s.SetRooms(rooms) })
		return nil
	})
}

func (a *App) Refresh(ctx context.Context) error {
	return a.LoadRooms(ctx)
}

// Search runs SearchNow once query has been stable for the search delay.
// A response that arrives after a newer search was sent still lands.
func (a *App) Search(query string) {
	a.search.Trigger(func() {
		if err := a.SearchNow(a.ctx, query); err != nil && !errors.Is(err, context.Canceled) {
			a.log.Debug("search failed", zap.String("query", query), zap.Error(err))
		}
	})
}

// SearchNow fetches rooms whose location contains query and filters the
// catalog view by it.
func (a *App) SearchNow(ctx context.Context, query string) error {
	query = strings.TrimSpace(query)
	return a.catalogOp(func() error {
		rooms, err := a.Remote.GetRooms(ctx, models.RoomQuery{LocationContains: query})
		if err != nil {
			return err
		}
		loc := store.Set(query)
		if query == "" {
			loc = store.Clear[string]()
		}
		a.Catalog.Update(func(s store.CatalogState) store.CatalogState {
			return s.SetRooms(rooms).SetFilters(store.FilterPatch{Location: loc})
		})
		return nil
	})
}

func (a *App) SetFilters(patch store.FilterPatch) {
	a.Catalog.Update(func(s store.CatalogState) store.CatalogState { return s.SetFilters(patch) })
}

func (a *App) ClearFilters() {
	a.Catalog.Update(store.CatalogState.ClearFilters)
}

func (a *App) findRoom(ctx context.Context, id string) (models.Room, error) {
	if room, ok := a.Catalog.Get().RoomByID(id); ok {
		return room, nil
	}
	return a.Remote.GetRoomByID(ctx, id)
}

// SelectRoom sets the detail room, fetching it when the catalog lacks it.
func (a *App) SelectRoom(ctx context.Context, id string) error {
	if room, ok := a.Catalog.Get().RoomByID(id); ok {
		a.Catalog.Update(func(s store.CatalogState) store.CatalogState { return s.SetSelectedRoom(&room) })
		return nil
	}
	return a.catalogOp(func() error {
		room, err := a.Remote.GetRoomByID(ctx, id)
		if err != nil {
			return err
		}
		a.Catalog.Update(func(s store.CatalogState) store.CatalogState { return s.SetSelectedRoom(&room) })
		return nil
	})
}

func (a *App) ClearSelection() {
	a.Catalog.Update(func(s store.CatalogState) store.CatalogState { return s.SetSelectedRoom(nil) })
}

// AddToCart snapshots the room's current price into a cart item. A room
// already in the cart is replaced.
func (a *App) AddToCart(ctx context.Context, roomID string, checkIn, checkOut time.Time, guests int, option store.PaymentOption) error {
	return a.cartOp(func() error {
		if _, err := a.currentUser(); err != nil {
			return err
		}
		if !checkOut.After(checkIn) {
			return fmt.Errorf("%w: check-out must be after check-in", ErrInvalidRequest)
		}
		room, err := a.findRoom(ctx, roomID)
		if err != nil {
			return err
		}
		if !room.IsAvailable {
			return ErrRoomUnavailable
		}
		if guests <= 0 {
			guests = 1
		}
		item, err := store.NewCartItem(room.ID, checkIn, checkOut, guests, room.Price, option)
		if err != nil {
			return err
		}
		a.Cart.Update(func(s store.CartState) store.CartState { return s.AddOrReplace(item) })
		return nil
	})
}

func (a *App) SetPaymentOption(roomID string, option store.PaymentOption) error {
	_, err := a.Cart.TryUpdate(func(s store.CartState) (store.CartState, error) {
		return s.SetPaymentOption(roomID, option)
	})
	if err != nil {
		a.Cart.Update(func(s store.CartState) store.CartState { return s.SetError(err.Error()) })
	}
	return err
}

func (a *App) RemoveFromCart(roomID string) {
	a.Cart.Update(func(s store.CartState) store.CartState { return s.Remove(roomID) })
}

func (a *App) ClearCart() {
	a.Cart.Update(store.CartState.Clear)
}

// CartView joins cart items with the catalog's current rooms.
func (a *App) CartView() []store.CartLine {
	return store.JoinCart(a.Cart.Get().Items(), a.Catalog.Get().Rooms())
}

// ToggleWishlist flips roomID locally and mirrors the change remotely. It is
// a no-op without a user. A remote failure reverts the flip.
func (a *App) ToggleWishlist(ctx context.Context, roomID string) error {
	auth := a.Auth.Get()
	if auth.User() == nil {
		return nil
	}
	adding := !auth.IsInWishlist(roomID)
	a.Auth.Update(func(s store.AuthState) store.AuthState { return s.ToggleWishlist(roomID) })

	var err error
	if adding {
		var item models.WishlistItem
		item, err = a.Remote.AddToWishlist(ctx, roomID)
		if err == nil {
			a.mu.Lock()
			a.wishlistIDs[roomID] = item.ID
			a.mu.Unlock()
		}
	} else {
		err = a.removeRemoteWishlist(ctx, roomID)
	}
	if err != nil {
		a.Auth.Update(func(s store.AuthState) store.AuthState {
			return s.ToggleWishlist(roomID).SetError(err.Error())
		})
	}
	return err
}

func (a *App) removeRemoteWishlist(ctx context.Context, roomID string) error {
	a.mu.Lock()
	id, ok := a.wishlistIDs[roomID]
	a.mu.Unlock()
	if !ok {
		items, err := a.Remote.GetUserWishlist(ctx)
		if err != nil {
			return err
		}
		for _, it := range items {
			if it.RoomID == roomID {
				id, ok = it.ID, true
				break
			}
		}
		if !ok {
			return nil
		}
	}
	if err := a.Remote.RemoveFromWishlist(ctx, id); err != nil {
		return err
	}
	a.mu.Lock()
	delete(a.wishlistIDs, roomID)
	a.mu.Unlock()
	return nil
}

type Confirmation struct {
	BookingIDs []string `json:"bookingIds"`
	References []string `json:"references"`
	Total      float64  `json:"total"`
	Deposit    float64  `json:"deposit"`
	Remaining  float64  `json:"remaining"`
}

func (c *Confirmation) add(b models.Booking) {
	c.BookingIDs = append(c.BookingIDs, b.ID)
	c.References = append(c.References, b.ReferenceCode)
	c.Total += b.TotalPrice
	c.Deposit += b.DepositAmount
	c.Remaining = c.Total - c.Deposit
}

// unpaidBooking is a booking created for a cart item whose payment did not go
// through. A later checkout of the same item only retries the payment.
type unpaidBooking struct {
	item      store.CartItem
	bookingID string
}

func sameStay(a, b store.CartItem) bool {
	return a.RoomID == b.RoomID && a.CheckIn.Equal(b.CheckIn) && a.CheckOut.Equal(b.CheckOut) &&
		a.Guests == b.Guests && a.PaymentOption == b.PaymentOption
}

// bookingFor returns the booking id to pay for item, creating the booking
// unless an earlier checkout already did.
func (a *App) bookingFor(ctx context.Context, item store.CartItem, method string) (string, error) {
	a.mu.Lock()
	prev, ok := a.unpaid[item.RoomID]
	a.mu.Unlock()
	if ok && sameStay(prev.item, item) {
		return prev.bookingID, nil
	}
	booking, err := a.Remote.CreateBooking(ctx, models.CreateBookingRequest{
		RoomID:        item.RoomID,
		CheckIn:       item.CheckIn,
		CheckOut:      item.CheckOut,
		Guests:        item.Guests,
		PaymentOption: string(item.PaymentOption),
		PaymentMethod: method,
	})
	if err != nil {
		return "", fmt.Errorf("booking room %s: %w", item.RoomID, err)
	}
	if ok {
		a.log.Warn("superseded unpaid booking", zap.String("room_id", item.RoomID), zap.String("booking_id", prev.bookingID))
	}
	a.mu.Lock()
	a.unpaid[item.RoomID] = unpaidBooking{item: item, bookingID: booking.ID}
	a.mu.Unlock()
	return booking.ID, nil
}

// Checkout books and pays for every cart item. Items are removed from the
// cart as they are paid, so after a failure the cart holds only what is left
// and the returned confirmation covers what went through. A booking whose
// payment failed is paid, not re-created, on the next checkout.
func (a *App) Checkout(ctx context.Context, method string) (Confirmation, error) {
	var conf Confirmation
	err := a.cartOp(func() error {
		if _, err := a.currentUser(); err != nil {
			return err
		}
		method = strings.TrimSpace(method)
		if !models.ValidPaymentMethod(method) {
			return fmt.Errorf("%w: unknown payment method %q", ErrInvalidRequest, method)
		}
		items := a.Cart.Get().Items()
		if len(items) == 0 {
			return ErrEmptyCart
		}
		for _, item := range items {
			bookingID, err := a.bookingFor(ctx, item, method)
			if err != nil {
				return err
			}
			paid, err := a.Remote.ConfirmPayment(ctx, bookingID, method)
			if err != nil {
				if errors.Is(err, ErrNotFound) {
					a.mu.Lock()
					delete(a.unpaid, item.RoomID)
					a.mu.Unlock()
				}
				return fmt.Errorf("paying booking %s: %w", bookingID, err)
			}
			conf.add(paid)
			roomID := item.RoomID
			a.mu.Lock()
			delete(a.unpaid, roomID)
			a.mu.Unlock()
			a.Cart.Update(func(s store.CartState) store.CartState { return s.Remove(roomID) })
		}
		return nil
	})
	return conf, err
}

func (a *App) Bookings(ctx context.Context) ([]models.Booking, error) {
	var bookings []models.Booking
	err := a.authOp(func() error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		bookings, err = a.Remote.GetUserBookings(ctx, u.UID)
		return err
	})
	return bookings, err
}

func (a *App) Profile(ctx context.Context) (models.UserProfile, error) {
	var profile models.UserProfile
	err := a.authOp(func() error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		profile, err = a.Remote.GetUserProfile(ctx, u.UID)
		return err
	})
	return profile, err
}

// UpdateProfile applies patch remotely and mirrors a display name change into
// the auth store.
func (a *App) UpdateProfile(ctx context.Context, patch models.UpdateProfileRequest) (models.UserProfile, error) {
	var profile models.UserProfile
	err := a.authOp(func() error {
		u, err := a.currentUser()
		if err != nil {
			return err
		}
		profile, err = a.Remote.UpdateUserProfile(ctx, u.UID, patch)
		if err != nil {
			return err
		}
		a.Auth.Update(func(s store.AuthState) store.AuthState {
			cur := s.User()
			if cur == nil || cur.UID != u.UID {
				return s
			}
			cur.DisplayName = profile.DisplayName
			return s.SetUser(cur)
		})
		return nil
	})
	return profile, err
}
