package store

import (
	"time"

	"hotel-booking/models"
)

// CartItem is a prospective booking for one room. DepositAmount and
// TotalPrice are derived from Price and PaymentOption and are only ever
// written together.
type CartItem struct {
	RoomID        string        `json:"roomId"`
	CheckIn       time.Time     `json:"checkIn"`
	CheckOut      time.Time     `json:"checkOut"`
	Guests        int           `json:"guests"`
	Price         float64       `json:"price"`
	PaymentOption PaymentOption `json:"paymentOption"`
	DepositAmount float64       `json:"depositAmount"`
	TotalPrice    float64       `json:"totalPrice"`
}

func NewCartItem(roomID string, checkIn, checkOut time.Time, guests int, price float64, option PaymentOption) (CartItem, error) {
	amounts, err := DeriveAmounts(price, option)
	if err != nil {
		return CartItem{}, err
	}
	return CartItem{
		RoomID:        roomID,
		CheckIn:       checkIn,
		CheckOut:      checkOut,
		Guests:        guests,
		Price:         price,
		PaymentOption: option,
		DepositAmount: amounts.DepositAmount,
		TotalPrice:    amounts.TotalPrice,
	}, nil
}

func (i CartItem) reprice(price float64, option PaymentOption) (CartItem, error) {
	amounts, err := DeriveAmounts(price, option)
	if err != nil {
		return i, err
	}
	i.Price = price
	i.PaymentOption = option
	i.DepositAmount = amounts.DepositAmount
	i.TotalPrice = amounts.TotalPrice
	return i, nil
}

// CartState maps room ids to cart items, preserving insertion order.
// Transitions return a new value and never modify the receiver.
type CartState struct {
	items   []CartItem
	Loading bool
	Error   string
}

func NewCartState(items ...CartItem) CartState {
	var s CartState
	for _, it := range items {
		s = s.AddOrReplace(it)
	}
	return s
}

func (s CartState) indexOf(roomID string) int {
	for i, it := range s.items {
		if it.RoomID == roomID {
			return i
		}
	}
	return -1
}

func (s CartState) cloneItems() []CartItem {
	return append([]CartItem(nil), s.items...)
}

// AddOrReplace upserts item by RoomID.
func (s CartState) AddOrReplace(item CartItem) CartState {
	items := s.cloneItems()
	if i := s.indexOf(item.RoomID); i >= 0 {
		items[i] = item
	} else {
		items = append(items, item)
	}
	s.items = items
	return s
}

// Remove deletes the item for roomID; absent ids leave the cart unchanged.
func (s CartState) Remove(roomID string) CartState {
	i := s.indexOf(roomID)
	if i < 0 {
		return s
	}
	items := make([]CartItem, 0, len(s.items)-1)
	items = append(items, s.items[:i]...)
	items = append(items, s.items[i+1:]...)
	s.items = items
	return s
}

// SetPaymentOption recomputes the item's amounts for option. An unknown
// roomID is a no-op; an invalid option is rejected and the state returned
// unchanged.
func (s CartState) SetPaymentOption(roomID string, option PaymentOption) (CartState, error) {
	if !option.Valid() {
		_, err := option.Percent()
		return s, err
	}
	i := s.indexOf(roomID)
	if i < 0 {
		return s, nil
	}
	updated, err := s.items[i].reprice(s.items[i].Price, option)
	if err != nil {
		return s, err
	}
	items := s.cloneItems()
	items[i] = updated
	s.items = items
	return s, nil
}

// SetPrice replaces the price snapshot of an item and recomputes its amounts.
func (s CartState) SetPrice(roomID string, price float64) (CartState, error) {
	i := s.indexOf(roomID)
	if i < 0 {
		return s, nil
	}
	updated, err := s.items[i].reprice(price, s.items[i].PaymentOption)
	if err != nil {
		return s, err
	}
	items := s.cloneItems()
	items[i] = updated
	s.items = items
	return s, nil
}

// UpdateStay changes dates and guest count; amounts are unaffected.
func (s CartState) UpdateStay(roomID string, checkIn, checkOut time.Time, guests int) CartState {
	i := s.indexOf(roomID)
	if i < 0 {
		return s
	}
	items := s.cloneItems()
	items[i].CheckIn = checkIn
	items[i].CheckOut = checkOut
	items[i].Guests = guests
	s.items = items
	return s
}

func (s CartState) Clear() CartState {
	s.items = nil
	return s
}

func (s CartState) SetLoading(loading bool) CartState {
	s.Loading = loading
	return s
}

func (s CartState) SetError(msg string) CartState {
	s.Error = msg
	return s
}

func (s CartState) Items() []CartItem {
	return s.cloneItems()
}

func (s CartState) Find(roomID string) (CartItem, bool) {
	if i := s.indexOf(roomID); i >= 0 {
		return s.items[i], true
	}
	return CartItem{}, false
}

func (s CartState) Contains(roomID string) bool {
	return s.indexOf(roomID) >= 0
}

func (s CartState) Count() int {
	return len(s.items)
}

func (s CartState) Total() float64 {
	var total float64
	for _, it := range s.items {
		total += it.TotalPrice
	}
	return total
}

func (s CartState) Deposit() float64 {
	var total float64
	for _, it := range s.items {
		total += it.DepositAmount
	}
	return total
}

// CartLine is a cart item joined with its room at read time. Room is nil
// when the catalog no longer holds the room.
type CartLine struct {
	CartItem
	Room *models.Room `json:"room,omitempty"`
}

// JoinCartItem looks up the item's room by id in rooms.
func JoinCartItem(item CartItem, rooms []models.Room) CartLine {
	line := CartLine{CartItem: item}
	for i := range rooms {
		if rooms[i].ID == item.RoomID {
			room := rooms[i]
			line.Room = &room
			break
		}
	}
	return line
}

func JoinCart(items []CartItem, rooms []models.Room) []CartLine {
	lines := make([]CartLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, JoinCartItem(it, rooms))
	}
	return lines
}
