package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type RoomType string

const (
	RoomTypeSingle       RoomType = "single"
	RoomTypeDouble       RoomType = "double"
	RoomTypeSuite        RoomType = "suite"
	RoomTypePresidential RoomType = "presidential"
)

func (t RoomType) Valid() bool {
	switch t {
	case RoomTypeSingle, RoomTypeDouble, RoomTypeSuite, RoomTypePresidential:
		return true
	}
	return false
}

// Room is read-only for clients except IsAvailable, which only the backend flips.
type Room struct {
	ID          string                      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	Name        string                      `gorm:"size:255" json:"name"`
	Description string                      `gorm:"type:text" json:"description"`
	Price       float64                     `json:"price"`
	Images      datatypes.JSONSlice[string] `json:"images"`
	Location    string                      `gorm:"size:255;index" json:"location"`
	Amenities   datatypes.JSONSlice[string] `json:"amenities"`
	Rating      float64                     `json:"rating"`
	Type        RoomType                    `gorm:"size:32;index" json:"type"`
	MaxGuests   int                         `gorm:"column:max_guests" json:"maxGuests"`
	IsAvailable bool                        `gorm:"column:is_available" json:"isAvailable"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (r *Room) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// HasAmenity is an exact, case-sensitive membership test.
func (r Room) HasAmenity(amenity string) bool {
	for _, a := range r.Amenities {
		if a == amenity {
			return true
		}
	}
	return false
}
