package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	PaymentStatusPending   = "pending"
	PaymentStatusCompleted = "completed"
	PaymentStatusFailed    = "failed"

	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// PaymentMethods are the accepted mock payment methods.
var PaymentMethods = []string{"credit-card", "paypal", "apple-pay", "google-pay"}

func ValidPaymentMethod(m string) bool {
	for _, pm := range PaymentMethods {
		if pm == m {
			return true
		}
	}
	return false
}

type Booking struct {
	ID            string `gorm:"primaryKey;type:varchar(36)" json:"id"`
	ReferenceCode string `gorm:"column:reference_code;uniqueIndex;size:16" json:"referenceCode"`

	UserID string `gorm:"index;type:varchar(36)" json:"userId"`
	RoomID string `gorm:"index;type:varchar(36)" json:"roomId"`

	CheckIn  time.Time `gorm:"column:check_in" json:"checkIn"`
	CheckOut time.Time `gorm:"column:check_out" json:"checkOut"`
	Guests   int       `json:"guests"`

	TotalPrice    float64 `gorm:"column:total_price" json:"totalPrice"`
	DepositAmount float64 `gorm:"column:deposit_amount" json:"depositAmount"`
	PaymentOption string  `gorm:"column:payment_option;size:8" json:"paymentOption"`

	PaymentStatus   string `gorm:"column:payment_status;size:32" json:"paymentStatus"`
	BookingStatus   string `gorm:"column:booking_status;size:32" json:"bookingStatus"`
	PaymentMethod   string `gorm:"column:payment_method;size:32" json:"paymentMethod"`
	TransactionID   string `gorm:"column:transaction_id;size:64" json:"transactionId,omitempty"`
	SpecialRequests string `gorm:"type:text" json:"specialRequests,omitempty"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}
