package services

import (
	"context"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"hotel-booking/models"
)

type ProfileService struct {
	DB *gorm.DB
}

func NewProfileService(db *gorm.DB) *ProfileService {
	return &ProfileService{DB: db}
}

func newPreferences(p models.Preferences) datatypes.JSONType[models.Preferences] {
	return datatypes.NewJSONType(p)
}

func (s *ProfileService) Get(ctx context.Context, userID string) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, ErrUnauthenticated
	}
	var profile models.UserProfile
	if err := s.DB.WithContext(ctx).First(&profile, "user_id = ?", userID).Error; err != nil {
		return models.UserProfile{}, notFound(err, "profile")
	}
	return profile, nil
}

// Update merges the non-nil fields of req into the stored profile. A display
// name change is mirrored onto the user record.
func (s *ProfileService) Update(ctx context.Context, userID string, req models.UpdateProfileRequest) (models.UserProfile, error) {
	if userID == "" {
		return models.UserProfile{}, ErrUnauthenticated
	}

	var profile models.UserProfile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&profile, "user_id = ?", userID).Error; err != nil {
			return notFound(err, "profile")
		}

		if req.DisplayName != nil {
			name := strings.TrimSpace(*req.DisplayName)
			if name == "" {
				return invalid("display name must not be empty")
			}
			profile.DisplayName = name
			if err := tx.Model(&models.User{}).Where("id = ?", userID).
				Update("display_name", name).Error; err != nil {
				return fmt.Errorf("failed to update user: %w", err)
			}
		}
		if req.PhoneNumber != nil {
			profile.PhoneNumber = strings.TrimSpace(*req.PhoneNumber)
		}
		if req.PhotoURL != nil {
			profile.PhotoURL = strings.TrimSpace(*req.PhotoURL)
		}
		if p := req.Preferences; p != nil {
			prefs := profile.Preferences.Data()
			if p.Notifications != nil {
				prefs.Notifications = *p.Notifications
			}
			if p.Newsletter != nil {
				prefs.Newsletter = *p.Newsletter
			}
			if p.Language != nil {
				prefs.Language = *p.Language
			}
			profile.Preferences = newPreferences(prefs)
		}
		return tx.Save(&profile).Error
	})
	if err != nil {
		return models.UserProfile{}, err
	}
	return profile, nil
}
