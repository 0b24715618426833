package store

import "hotel-booking/models"

// CatalogState holds the canonical room list and the view derived from it
// by the active filters.
type CatalogState struct {
	rooms    []models.Room
	filtered []models.Room
	selected *models.Room
	filters  RoomFilters

	Loading bool
	Error   string
}

// SetRooms replaces the canonical list and shows all of it. Active filters
// are kept but not re-applied until the next SetFilters.
func (s CatalogState) SetRooms(rooms []models.Room) CatalogState {
	s.rooms = append([]models.Room(nil), rooms...)
	s.filtered = s.rooms
	return s
}

// SetFilters merges patch into the active filters and recomputes the view.
func (s CatalogState) SetFilters(patch FilterPatch) CatalogState {
	s.filters = patch.Merge(s.filters)
	s.filtered = ApplyFilters(s.rooms, s.filters)
	return s
}

func (s CatalogState) ClearFilters() CatalogState {
	s.filters = RoomFilters{}
	s.filtered = s.rooms
	return s
}

// SetSelectedRoom stores the room shown on detail screens. It need not be
// part of the canonical list; nil clears it.
func (s CatalogState) SetSelectedRoom(room *models.Room) CatalogState {
	if room == nil {
		s.selected = nil
		return s
	}
	r := *room
	s.selected = &r
	return s
}

func (s CatalogState) SetLoading(loading bool) CatalogState {
	s.Loading = loading
	return s
}

func (s CatalogState) SetError(msg string) CatalogState {
	s.Error = msg
	return s
}

func (s CatalogState) Rooms() []models.Room {
	return append([]models.Room(nil), s.rooms...)
}

func (s CatalogState) FilteredRooms() []models.Room {
	return append([]models.Room(nil), s.filtered...)
}

func (s CatalogState) SelectedRoom() *models.Room {
	if s.selected == nil {
		return nil
	}
	r := *s.selected
	return &r
}

func (s CatalogState) Filters() RoomFilters {
	return s.filters
}

func (s CatalogState) RoomByID(id string) (models.Room, bool) {
	for _, r := range s.rooms {
		if r.ID == id {
			return r, true
		}
	}
	return models.Room{}, false
}
