package services

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"hotel-booking/models"
	"hotel-booking/utils"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:services_test_%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{}, &models.UserProfile{}, &models.Room{},
		&models.Booking{}, &models.WishlistItem{},
	))
	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

func newTestAuth(db *gorm.DB) *AuthService {
	svc := NewAuthService(db, utils.NewTokenIssuer("test-secret", time.Hour), NewSessionHub())
	svc.HashCost = bcrypt.MinCost
	return svc
}

func seedRoom(t *testing.T, db *gorm.DB, room models.Room) models.Room {
	t.Helper()
	if room.Type == "" {
		room.Type = models.RoomTypeDouble
	}
	if room.MaxGuests == 0 {
		room.MaxGuests = 2
	}
	require.NoError(t, db.Create(&room).Error)
	return room
}

func seedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()
	res, err := newTestAuth(db).SignUp(context.Background(), email, "secret123")
	require.NoError(t, err)
	return res.User
}
