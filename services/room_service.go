package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"hotel-booking/models"
)

// DefaultMaxGuests is used when a room is created without a capacity.
var DefaultMaxGuests = map[models.RoomType]int{
	models.RoomTypeSingle:       1,
	models.RoomTypeDouble:       2,
	models.RoomTypeSuite:        4,
	models.RoomTypePresidential: 6,
}

type RoomService struct {
	DB *gorm.DB
	// Cache is optional.
	Cache RoomCache
}

func NewRoomService(db *gorm.DB, cache RoomCache) *RoomService {
	return &RoomService{DB: db, Cache: cache}
}

// List returns the rooms matching every set field of q, ordered by name.
func (s *RoomService) List(ctx context.Context, q models.RoomQuery) ([]models.Room, error) {
	if s.Cache != nil {
		if rooms, ok := s.Cache.Get(ctx, q); ok {
			return rooms, nil
		}
	}

	tx := s.DB.WithContext(ctx).Model(&models.Room{})
	if q.PriceGTE != nil {
		tx = tx.Where("price >= ?", *q.PriceGTE)
	}
	if q.PriceLTE != nil {
		tx = tx.Where("price <= ?", *q.PriceLTE)
	}
	if loc := strings.TrimSpace(q.LocationContains); loc != "" {
		tx = tx.Where("LOWER(location) LIKE ?", "%"+strings.ToLower(loc)+"%")
	}
	if q.Type != "" {
		tx = tx.Where("type = ?", q.Type)
	}
	if q.RatingGTE != nil {
		tx = tx.Where("rating >= ?", *q.RatingGTE)
	}
	if q.GuestsGTE != nil {
		tx = tx.Where("max_guests >= ?", *q.GuestsGTE)
	}

	rooms := []models.Room{}
	if err := tx.Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	if s.Cache != nil {
		s.Cache.Set(ctx, q, rooms)
	}
	return rooms, nil
}

func (s *RoomService) GetByID(ctx context.Context, id string) (models.Room, error) {
	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, "id = ?", id).Error; err != nil {
		return models.Room{}, notFound(err, "room")
	}
	return room, nil
}

func (s *RoomService) Create(ctx context.Context, room models.Room) (models.Room, error) {
	room.Name = strings.TrimSpace(room.Name)
	if room.Name == "" {
		return models.Room{}, invalid("room name is required")
	}
	if room.Price < 0 {
		return models.Room{}, invalid("price must not be negative")
	}
	if !room.Type.Valid() {
		return models.Room{}, invalid("unknown room type %q", room.Type)
	}
	if room.Rating < 0 || room.Rating > 5 {
		return models.Room{}, invalid("rating must be between 0 and 5")
	}
	if room.MaxGuests <= 0 {
		room.MaxGuests = DefaultMaxGuests[room.Type]
	}
	if room.Images == nil {
		room.Images = []string{}
	}
	if room.Amenities == nil {
		room.Amenities = []string{}
	}

	if err := s.DB.WithContext(ctx).Create(&room).Error; err != nil {
		return models.Room{}, fmt.Errorf("failed to create room: %w", err)
	}
	s.invalidate(ctx)
	zap.L().Info("room created", zap.String("room_id", room.ID), zap.String("name", room.Name))
	return room, nil
}

// SetAvailability is the only mutation of an existing room.
func (s *RoomService) SetAvailability(ctx context.Context, id string, available bool) (models.Room, error) {
	room, err := s.GetByID(ctx, id)
	if err != nil {
		return models.Room{}, err
	}
	if err := s.DB.WithContext(ctx).Model(&room).Update("is_available", available).Error; err != nil {
		return models.Room{}, fmt.Errorf("failed to update availability: %w", err)
	}
	room.IsAvailable = available
	s.invalidate(ctx)
	return room, nil
}

func (s *RoomService) invalidate(ctx context.Context) {
	if s.Cache != nil {
		s.Cache.Invalidate(ctx)
	}
}
