package services

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"hotel-booking/models"
)

type WishlistService struct {
	DB *gorm.DB
}

func NewWishlistService(db *gorm.DB) *WishlistService {
	return &WishlistService{DB: db}
}

// List returns userID's wishlist entries in the order they were added.
func (s *WishlistService) List(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	items := []models.WishlistItem{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&items).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list wishlist: %w", err)
	}
	return items, nil
}

// Add is idempotent: adding a room twice returns the existing entry.
func (s *WishlistService) Add(ctx context.Context, userID, roomID string) (models.WishlistItem, error) {
	if userID == "" {
		return models.WishlistItem{}, ErrUnauthenticated
	}
	var room models.Room
	if err := s.DB.WithContext(ctx).Select("id").First(&room, "id = ?", roomID).Error; err != nil {
		return models.WishlistItem{}, notFound(err, "room")
	}
	item := models.WishlistItem{UserID: userID, RoomID: roomID}
	err := s.DB.WithContext(ctx).
		Where("user_id = ? AND room_id = ?", userID, roomID).
		FirstOrCreate(&item).Error
	if err != nil && isDuplicateKey(err) {
		// a concurrent add won the insert
		item = models.WishlistItem{}
		err = s.DB.WithContext(ctx).
			Where("user_id = ? AND room_id = ?", userID, roomID).
			First(&item).Error
	}
	if err != nil {
		return models.WishlistItem{}, fmt.Errorf("failed to add to wishlist: %w", err)
	}
	return item, nil
}

// Remove deletes one of userID's entries by its id. Removing an absent
// entry succeeds.
func (s *WishlistService) Remove(ctx context.Context, userID, wishlistID string) error {
	if userID == "" {
		return ErrUnauthenticated
	}
	err := s.DB.WithContext(ctx).
		Where("id = ? AND user_id = ?", wishlistID, userID).
		Delete(&models.WishlistItem{}).Error
	if err != nil {
		return fmt.Errorf("failed to remove from wishlist: %w", err)
	}
	return nil
}
