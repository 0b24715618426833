package store

import (
	"strings"
	"time"

	"hotel-booking/models"
)

type PriceRange struct {
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

type DateRange struct {
	CheckIn  time.Time `json:"checkIn"`
	CheckOut time.Time `json:"checkOut"`
}

// RoomFilters is a conjunction of optional criteria. A nil field (or an
// empty amenity list) places no constraint on the result.
type RoomFilters struct {
	PriceRange *PriceRange      `json:"priceRange,omitempty"`
	Type       *models.RoomType `json:"type,omitempty"`
	Amenities  []string         `json:"amenities,omitempty"`
	Rating     *float64         `json:"rating,omitempty"`
	Guests     *int             `json:"guests,omitempty"`
	Location   *string          `json:"location,omitempty"`

	// Dates is accepted but not evaluated: booking-window conflicts are not
	// checked on the client.
	Dates *DateRange `json:"dates,omitempty"`
}

func (f RoomFilters) IsEmpty() bool {
	return f.PriceRange == nil && f.Type == nil && len(f.Amenities) == 0 &&
		f.Rating == nil && f.Guests == nil && f.Location == nil && f.Dates == nil
}

// Matches reports whether room satisfies every present criterion.
func (f RoomFilters) Matches(room models.Room) bool {
	if f.PriceRange != nil {
		if room.Price < f.PriceRange.Min || room.Price > f.PriceRange.Max {
			return false
		}
	}
	if f.Type != nil && room.Type != *f.Type {
		return false
	}
	// amenities are matched exactly, case included
	for _, a := range f.Amenities {
		if !room.HasAmenity(a) {
			return false
		}
	}
	if f.Rating != nil && room.Rating < *f.Rating {
		return false
	}
	if f.Guests != nil && room.MaxGuests < *f.Guests {
		return false
	}
	if f.Location != nil &&
		!strings.Contains(strings.ToLower(room.Location), strings.ToLower(*f.Location)) {
		return false
	}
	return true
}

// ApplyFilters returns the rooms matching f, in their original order.
// rooms is never modified.
func ApplyFilters(rooms []models.Room, f RoomFilters) []models.Room {
	out := make([]models.Room, 0, len(rooms))
	for _, r := range rooms {
		if f.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

// Field is one entry of a FilterPatch: untouched, set to a value, or cleared.
type Field[T any] struct {
	touched bool
	value   *T
}

func Set[T any](v T) Field[T] { return Field[T]{touched: true, value: &v} }

func Clear[T any]() Field[T] { return Field[T]{touched: true} }

func (f Field[T]) apply(cur *T) *T {
	if !f.touched {
		return cur
	}
	return f.value
}

// FilterPatch is a shallow update of RoomFilters: untouched fields keep their
// previous value, touched fields are overwritten (Clear removes them).
type FilterPatch struct {
	PriceRange Field[PriceRange]
	Type       Field[models.RoomType]
	Amenities  Field[[]string]
	Rating     Field[float64]
	Guests     Field[int]
	Location   Field[string]
	Dates      Field[DateRange]
}

func (p FilterPatch) Merge(cur RoomFilters) RoomFilters {
	next := cur
	next.PriceRange = p.PriceRange.apply(cur.PriceRange)
	next.Type = p.Type.apply(cur.Type)
	next.Rating = p.Rating.apply(cur.Rating)
	next.Guests = p.Guests.apply(cur.Guests)
	next.Location = p.Location.apply(cur.Location)
	next.Dates = p.Dates.apply(cur.Dates)
	if p.Amenities.touched {
		next.Amenities = nil
		if p.Amenities.value != nil {
			next.Amenities = append([]string(nil), (*p.Amenities.value)...)
		}
	}
	return next
}
