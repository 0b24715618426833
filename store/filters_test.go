package store

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"hotel-booking/models"
)

func testRooms() []models.Room {
	return []models.Room{
		{ID: "r1", Name: "Garden Suite", Price: 100, Type: models.RoomTypeSuite, Rating: 4.0,
			MaxGuests: 4, Location: "Luxury Hotel Hanoi", Amenities: []string{"WiFi", "TV"}},
		{ID: "r2", Name: "City Double", Price: 300, Type: models.RoomTypeDouble, Rating: 4.8,
			MaxGuests: 2, Location: "Saigon Riverside", Amenities: []string{"WiFi", "Mini Bar"}},
		{ID: "r3", Name: "Royal", Price: 900, Type: models.RoomTypePresidential, Rating: 5,
			MaxGuests: 6, Location: "Luxury Hotel HANOI", Amenities: []string{"WiFi", "TV", "Private Pool"}},
	}
}

func ids(rooms []models.Room) []string {
	out := make([]string, 0, len(rooms))
	for _, r := range rooms {
		out = append(out, r.ID)
	}
	return out
}

func ptr[T any](v T) *T { return &v }

func TestApplyFiltersEmptyIsIdentity(t *testing.T) {
	rooms := testRooms()
	assert.Equal(t, rooms, ApplyFilters(rooms, RoomFilters{}))
}

func TestApplyFiltersPriceRangeScenario(t *testing.T) {
	rooms := []models.Room{
		{ID: "a", Price: 100, Type: models.RoomTypeSuite, Rating: 4.0},
		{ID: "b", Price: 300, Type: models.RoomTypeDouble, Rating: 4.8},
	}
	got := ApplyFilters(rooms, RoomFilters{PriceRange: &PriceRange{Min: 0, Max: 150}})
	assert.Equal(t, []string{"a"}, ids(got))
}

func TestApplyFiltersCriteria(t *testing.T) {
	tests := []struct {
		name    string
		filters RoomFilters
		want    []string
	}{
		{"price bounds inclusive", RoomFilters{PriceRange: &PriceRange{Min: 100, Max: 300}}, []string{"r1", "r2"}},
		{"type", RoomFilters{Type: ptr(models.RoomTypeDouble)}, []string{"r2"}},
		{"amenities all required", RoomFilters{Amenities: []string{"WiFi", "TV"}}, []string{"r1", "r3"}},
		{"amenities case sensitive", RoomFilters{Amenities: []string{"wifi"}}, []string{}},
		{"empty amenities ignored", RoomFilters{Amenities: []string{}}, []string{"r1", "r2", "r3"}},
		{"rating floor", RoomFilters{Rating: ptr(4.8)}, []string{"r2", "r3"}},
		{"guest floor", RoomFilters{Guests: ptr(3)}, []string{"r1", "r3"}},
		{"location case insensitive substring", RoomFilters{Location: ptr("hanoi")}, []string{"r1", "r3"}},
		{"conjunction", RoomFilters{Location: ptr("Hanoi"), Rating: ptr(4.5)}, []string{"r3"}},
		{"dates pass through", RoomFilters{Dates: &DateRange{CheckIn: time.Now(), CheckOut: time.Now().Add(24 * time.Hour)}}, []string{"r1", "r2", "r3"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ids(ApplyFilters(testRooms(), tt.filters)))
		})
	}
}

func TestApplyFiltersIsIdempotentAndPure(t *testing.T) {
	rooms := testRooms()
	f := RoomFilters{Amenities: []string{"WiFi"}, Guests: ptr(2)}

	once := ApplyFilters(rooms, f)
	twice := ApplyFilters(once, f)
	assert.Equal(t, once, twice)
	assert.Equal(t, once, ApplyFilters(rooms, f))
	assert.Equal(t, testRooms(), rooms)
}

func TestFilterPatchMerge(t *testing.T) {
	cur := RoomFilters{Rating: ptr(4.0), Location: ptr("Hanoi")}

	next := FilterPatch{Guests: Set(2)}.Merge(cur)
	assert.Equal(t, ptr(4.0), next.Rating)
	assert.Equal(t, ptr("Hanoi"), next.Location)
	assert.Equal(t, ptr(2), next.Guests)

	next = FilterPatch{Location: Clear[string](), Rating: Set(3.5)}.Merge(next)
	assert.Nil(t, next.Location)
	assert.Equal(t, ptr(3.5), next.Rating)
	assert.Equal(t, ptr(2), next.Guests)

	amenities := []string{"WiFi"}
	next = FilterPatch{Amenities: Set(amenities)}.Merge(next)
	amenities[0] = "changed"
	assert.Equal(t, []string{"WiFi"}, next.Amenities)

	next = FilterPatch{Amenities: Clear[[]string]()}.Merge(next)
	assert.Nil(t, next.Amenities)
}
