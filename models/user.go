package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RoleGuest = "guest"
	RoleAdmin = "admin"
)

type User struct {
	ID          string `gorm:"primaryKey;type:varchar(36)" json:"uid"`
	Email       string `gorm:"uniqueIndex;size:150" json:"email"`
	Password    string `gorm:"size:255" json:"-"` // bcrypt hash
	DisplayName string `gorm:"size:255" json:"displayName"`
	Role        string `gorm:"size:32;default:guest" json:"role"`

	// bumped on sign-out so every previously issued token stops validating
	SessionVersion int `gorm:"column:session_version;default:0" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	if u.Role == "" {
		u.Role = RoleGuest
	}
	return nil
}

type Preferences struct {
	Notifications bool   `json:"notifications"`
	Newsletter    bool   `json:"newsletter"`
	Language      string `json:"language"`
}

type UserProfile struct {
	UserID      string                          `gorm:"primaryKey;type:varchar(36)" json:"userId"`
	Email       string                          `gorm:"size:150" json:"email"`
	DisplayName string                          `gorm:"size:255" json:"displayName"`
	PhoneNumber string                          `gorm:"size:50" json:"phoneNumber,omitempty"`
	PhotoURL    string                          `gorm:"column:photo_url;size:512" json:"photoURL,omitempty"`
	Preferences datatypes.JSONType[Preferences] `json:"preferences"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
