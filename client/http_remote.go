package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"hotel-booking/models"
)

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   string          `json:"error"`
}

type sessionFrame struct {
	Type string       `json:"type"`
	User *models.User `json:"user,omitempty"`
}

// HTTPRemote talks to the booking API and keeps the session's bearer token.
type HTTPRemote struct {
	BaseURL    string
	HTTPClient *http.Client
	Dialer     *websocket.Dialer
	Logger     *zap.Logger

	mu          sync.RWMutex
	token       string
	user        *models.User
	listeners   map[int]SessionListener
	nextID      int
	stopWatcher context.CancelFunc
}

func NewHTTPRemote(baseURL string) *HTTPRemote {
	return &HTTPRemote{
		BaseURL:    strings.TrimRight(baseURL, "/"),
		HTTPClient: &http.Client{Timeout: 15 * time.Second},
		Dialer:     websocket.DefaultDialer,
		Logger:     zap.L().Named("remote"),
		listeners:  make(map[int]SessionListener),
	}
}

func (r *HTTPRemote) Token() string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.token
}

func (r *HTTPRemote) CurrentUser() *models.User {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.user == nil {
		return nil
	}
	u := *r.user
	return &u
}

func (r *HTTPRemote) OnSessionChange(fn SessionListener) func() {
	r.mu.Lock()
	id := r.nextID
	r.nextID++
	r.listeners[id] = fn
	r.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			r.mu.Lock()
			delete(r.listeners, id)
			r.mu.Unlock()
		})
	}
}

func (r *HTTPRemote) emit(user *models.User) {
	r.mu.RLock()
	fns := make([]SessionListener, 0, len(r.listeners))
	for _, fn := range r.listeners {
		fns = append(fns, fn)
	}
	r.mu.RUnlock()
	for _, fn := range fns {
		if user == nil {
			fn(nil)
			continue
		}
		u := *user
		fn(&u)
	}
}

// do sends body as JSON and decodes the envelope's data into out.
func (r *HTTPRemote) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, method, r.BaseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	token := r.Token()
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := r.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: status %d: undecodable body: %w", method, path, resp.StatusCode, err)
	}
	if resp.StatusCode >= 400 || !env.Success {
		// a rejected token outside the auth endpoints means the session is gone
		if resp.StatusCode == http.StatusUnauthorized && token != "" && !strings.HasPrefix(path, "/api/auth/") {
			r.endSession(token)
		}
		return statusError(resp.StatusCode, env.Error)
	}
	if out != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, out); err != nil {
			return fmt.Errorf("%s %s: decode: %w", method, path, err)
		}
	}
	return nil
}

func statusError(code int, msg string) error {
	if msg == "" {
		msg = http.StatusText(code)
	}
	switch code {
	case http.StatusBadRequest:
		return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
	case http.StatusUnauthorized:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, msg)
	case http.StatusNotFound:
		return fmt.Errorf("%w: %s", ErrNotFound, msg)
	case http.StatusConflict:
		return fmt.Errorf("%w: %s", ErrRoomUnavailable, msg)
	default:
		return fmt.Errorf("remote error (%d): %s", code, msg)
	}
}

func (r *HTTPRemote) authenticate(ctx context.Context, path, email, password string) (models.User, error) {
	var res models.AuthResponse
	err := r.do(ctx, http.MethodPost, path, models.Credentials{Email: email, Password: password}, &res)
	if err != nil {
		// every auth failure, network included, surfaces as ErrAuth
		return models.User{}, fmt.Errorf("%w: %v", ErrAuth, err)
	}
	r.startSession(res.Token, res.User)
	return res.User, nil
}

func (r *HTTPRemote) SignIn(ctx context.Context, email, password string) (models.User, error) {
	return r.authenticate(ctx, "/api/auth/signin", email, password)
}

func (r *HTTPRemote) SignUp(ctx context.Context, email, password string) (models.User, error) {
	return r.authenticate(ctx, "/api/auth/signup", email, password)
}

func (r *HTTPRemote) SignOut(ctx context.Context) error {
	if r.Token() == "" {
		return nil
	}
	if err := r.do(ctx, http.MethodPost, "/api/auth/signout", nil, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrAuth, err)
	}
	r.endSession("")
	return nil
}

func (r *HTTPRemote) startSession(token string, user models.User) {
	watchCtx, cancel := context.WithCancel(context.Background())

	r.mu.Lock()
	if r.stopWatcher != nil {
		r.stopWatcher()
	}
	r.token = token
	u := user
	r.user = &u
	r.stopWatcher = cancel
	r.mu.Unlock()

	r.emit(&user)
	go r.watchSession(watchCtx, token)
}

// endSession clears the session if token is still the active one; an empty
// token matches whatever is active.
func (r *HTTPRemote) endSession(token string) {
	r.mu.Lock()
	if r.token == "" || (token != "" && token != r.token) {
		r.mu.Unlock()
		return
	}
	if r.stopWatcher != nil {
		r.stopWatcher()
		r.stopWatcher = nil
	}
	r.token = ""
	r.user = nil
	r.mu.Unlock()

	r.emit(nil)
}

// Close stops the session watcher without signing out.
func (r *HTTPRemote) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopWatcher != nil {
		r.stopWatcher()
		r.stopWatcher = nil
	}
}

func (r *HTTPRemote) eventsURL(token string) (string, error) {
	u, err := url.Parse(r.BaseURL + "/api/auth/events")
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "https":
		u.Scheme = "wss"
	default:
		u.Scheme = "ws"
	}
	u.RawQuery = url.Values{"token": {token}}.Encode()
	return u.String(), nil
}

// watchSession follows the server's session feed for token and ends the
// local session when the server reports it signed out. There is no
// reconnect; a dropped feed only stops remote sign-out detection.
func (r *HTTPRemote) watchSession(ctx context.Context, token string) {
	wsURL, err := r.eventsURL(token)
	if err != nil {
		r.Logger.Warn("session feed url", zap.Error(err))
		return
	}
	conn, _, err := r.Dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		if ctx.Err() == nil {
			r.Logger.Warn("session feed unavailable", zap.Error(err))
		}
		return
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()

	for {
		var frame sessionFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure) {
				r.Logger.Debug("session feed closed", zap.Error(err))
			}
			return
		}
		if frame.Type == "signed_out" {
			r.endSession(token)
			return
		}
	}
}

func (r *HTTPRemote) requireSession(userID string) error {
	u := r.CurrentUser()
	if u == nil {
		return ErrUnauthenticated
	}
	if userID != "" && userID != u.ID {
		return fmt.Errorf("%w: session belongs to another user", ErrUnauthenticated)
	}
	return nil
}

func roomQueryValues(q models.RoomQuery) url.Values {
	v := url.Values{}
	formatFloat := func(f float64) string { return strconv.FormatFloat(f, 'f', -1, 64) }
	if q.PriceGTE != nil {
		v.Set("price_gte", formatFloat(*q.PriceGTE))
	}
	if q.PriceLTE != nil {
		v.Set("price_lte", formatFloat(*q.PriceLTE))
	}
	if q.LocationContains != "" {
		v.Set("location_contains", q.LocationContains)
	}
	if q.Type != "" {
		v.Set("type", string(q.Type))
	}
	if q.RatingGTE != nil {
		v.Set("rating_gte", formatFloat(*q.RatingGTE))
	}
	if q.GuestsGTE != nil {
		v.Set("guests_gte", strconv.Itoa(*q.GuestsGTE))
	}
	return v
}

func (r *HTTPRemote) GetRooms(ctx context.Context, q models.RoomQuery) ([]models.Room, error) {
	path := "/api/rooms"
	if v := roomQueryValues(q); len(v) > 0 {
		path += "?" + v.Encode()
	}
	rooms := []models.Room{}
	if err := r.do(ctx, http.MethodGet, path, nil, &rooms); err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *HTTPRemote) GetRoomByID(ctx context.Context, id string) (models.Room, error) {
	var room models.Room
	err := r.do(ctx, http.MethodGet, "/api/rooms/"+url.PathEscape(id), nil, &room)
	return room, err
}

func (r *HTTPRemote) CreateBooking(ctx context.Context, req models.CreateBookingRequest) (models.Booking, error) {
	if err := r.requireSession(""); err != nil {
		return models.Booking{}, err
	}
	var booking models.Booking
	err := r.do(ctx, http.MethodPost, "/api/bookings", req, &booking)
	return booking, err
}

func (r *HTTPRemote) ConfirmPayment(ctx context.Context, bookingID, method string) (models.Booking, error) {
	if err := r.requireSession(""); err != nil {
		return models.Booking{}, err
	}
	var booking models.Booking
	err := r.do(ctx, http.MethodPost, "/api/bookings/"+url.PathEscape(bookingID)+"/pay",
		models.ConfirmPaymentRequest{Method: method}, &booking)
	return booking, err
}

func (r *HTTPRemote) GetUserBookings(ctx context.Context, userID string) ([]models.Booking, error) {
	if err := r.requireSession(userID); err != nil {
		return nil, err
	}
	bookings := []models.Booking{}
	if err := r.do(ctx, http.MethodGet, "/api/bookings", nil, &bookings); err != nil {
		return nil, err
	}
	return bookings, nil
}

func (r *HTTPRemote) GetUserProfile(ctx context.Context, userID string) (models.UserProfile, error) {
	if err := r.requireSession(userID); err != nil {
		return models.UserProfile{}, err
	}
	var profile models.UserProfile
	err := r.do(ctx, http.MethodGet, "/api/profile", nil, &profile)
	return profile, err
}

func (r *HTTPRemote) UpdateUserProfile(ctx context.Context, userID string, patch models.UpdateProfileRequest) (models.UserProfile, error) {
	if err := r.requireSession(userID); err != nil {
		return models.UserProfile{}, err
	}
	var profile models.UserProfile
	if err := r.do(ctx, http.MethodPatch, "/api/profile", patch, &profile); err != nil {
		return models.UserProfile{}, err
	}
	if patch.DisplayName != nil {
		r.mu.Lock()
		if r.user != nil && r.user.ID == userID {
			r.user.DisplayName = profile.DisplayName
		}
		r.mu.Unlock()
	}
	return profile, nil
}

func (r *HTTPRemote) GetUserWishlist(ctx context.Context) ([]models.WishlistItem, error) {
	if err := r.requireSession(""); err != nil {
		return nil, err
	}
	items := []models.WishlistItem{}
	if err := r.do(ctx, http.MethodGet, "/api/wishlist", nil, &items); err != nil {
		return nil, err
	}
	return items, nil
}

func (r *HTTPRemote) AddToWishlist(ctx context.Context, roomID string) (models.WishlistItem, error) {
	if err := r.requireSession(""); err != nil {
		return models.WishlistItem{}, err
	}
	var item models.WishlistItem
	err := r.do(ctx, http.MethodPost, "/api/wishlist", models.AddWishlistRequest{RoomID: roomID}, &item)
	return item, err
}

func (r *HTTPRemote) RemoveFromWishlist(ctx context.Context, wishlistID string) error {
	if err := r.requireSession(""); err != nil {
		return err
	}
	return r.do(ctx, http.MethodDelete, "/api/wishlist/"+url.PathEscape(wishlistID), nil, nil)
}
