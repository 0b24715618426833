package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"hotel-booking/models"
	"hotel-booking/store"
	"hotel-booking/utils"
)

const maxReferenceRetries = 5

type BookingService struct {
	DB *gorm.DB
}

func NewBookingService(db *gorm.DB) *BookingService {
	return &BookingService{DB: db}
}

// Create records a pending booking for userID. Amounts are always derived
// from the stored room price, never taken from the request.
func (s *BookingService) Create(ctx context.Context, userID string, req models.CreateBookingRequest) (models.Booking, error) {
	if userID == "" {
		return models.Booking{}, ErrUnauthenticated
	}
	if !req.CheckOut.After(req.CheckIn) {
		return models.Booking{}, invalid("check-out must be after check-in")
	}
	if req.Guests <= 0 {
		req.Guests = 1
	}

	optStr := req.PaymentOption
	if strings.TrimSpace(optStr) == "" {
		optStr = string(store.PayFull)
	}
	opt, err := store.ParsePaymentOption(optStr)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	method := strings.TrimSpace(req.PaymentMethod)
	if method != "" && !models.ValidPaymentMethod(method) {
		return models.Booking{}, invalid("unknown payment method %q", method)
	}

	var room models.Room
	if err := s.DB.WithContext(ctx).First(&room, "id = ?", req.RoomID).Error; err != nil {
		return models.Booking{}, notFound(err, "room")
	}
	if !room.IsAvailable {
		return models.Booking{}, ErrRoomUnavailable
	}
	if room.MaxGuests > 0 && req.Guests > room.MaxGuests {
		return models.Booking{}, invalid("room sleeps at most %d guests", room.MaxGuests)
	}

	amounts, err := store.DeriveAmounts(room.Price, opt)
	if err != nil {
		return models.Booking{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	booking := models.Booking{
		UserID:          userID,
		RoomID:          room.ID,
		CheckIn:         req.CheckIn,
		CheckOut:        req.CheckOut,
		Guests:          req.Guests,
		TotalPrice:      amounts.TotalPrice,
		DepositAmount:   amounts.DepositAmount,
		PaymentOption:   string(opt),
		PaymentStatus:   models.PaymentStatusPending,
		BookingStatus:   models.BookingStatusPending,
		PaymentMethod:   method,
		SpecialRequests: strings.TrimSpace(req.SpecialRequests),
	}

	// reference codes are random; retry on the rare unique collision
	var createErr error
	for attempt := 0; attempt < maxReferenceRetries; attempt++ {
		ref, gErr := utils.GenerateBookingReference()
		if gErr != nil {
			return models.Booking{}, fmt.Errorf("failed to generate reference: %w", gErr)
		}
		booking.ID = ""
		booking.ReferenceCode = ref
		createErr = s.DB.WithContext(ctx).Create(&booking).Error
		if createErr == nil {
			break
		}
		if !isDuplicateKey(createErr) {
			return models.Booking{}, fmt.Errorf("failed to create booking: %w", createErr)
		}
		zap.L().Warn("booking reference collision, retrying", zap.Int("attempt", attempt+1))
	}
	if createErr != nil {
		return models.Booking{}, fmt.Errorf("failed to create booking after %d attempts: %w", maxReferenceRetries, createErr)
	}

	zap.L().Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("reference", booking.ReferenceCode),
		zap.String("room_id", booking.RoomID),
		zap.Float64("deposit", booking.DepositAmount),
	)
	return booking, nil
}

// ListByUser returns userID's bookings, newest first.
func (s *BookingService) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	if userID == "" {
		return nil, ErrUnauthenticated
	}
	bookings := []models.Booking{}
	err := s.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}
	return bookings, nil
}

// ConfirmPayment settles a pending booking with a mock payment. Confirming an
// already completed booking returns it unchanged.
func (s *BookingService) ConfirmPayment(ctx context.Context, userID, bookingID, method string) (models.Booking, error) {
	if userID == "" {
		return models.Booking{}, ErrUnauthenticated
	}
	method = strings.TrimSpace(method)
	if !models.ValidPaymentMethod(method) {
		return models.Booking{}, invalid("unknown payment method %q", method)
	}

	var booking models.Booking
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ? AND user_id = ?", bookingID, userID).
			First(&booking).Error; err != nil {
			return notFound(err, "booking")
		}
		if booking.PaymentStatus == models.PaymentStatusCompleted {
			return nil
		}
		if booking.BookingStatus == models.BookingStatusCancelled {
			return invalid("booking is cancelled")
		}

		txID, err := utils.GenerateSecureToken(12)
		if err != nil {
			return fmt.Errorf("failed to generate transaction id: %w", err)
		}
		updates := map[string]interface{}{
			"payment_status": models.PaymentStatusCompleted,
			"booking_status": models.BookingStatusConfirmed,
			"payment_method": method,
			"transaction_id": "txn_" + txID,
		}
		if err := tx.Model(&booking).Updates(updates).Error; err != nil {
			return fmt.Errorf("failed to confirm payment: %w", err)
		}
		booking.PaymentStatus = models.PaymentStatusCompleted
		booking.BookingStatus = models.BookingStatusConfirmed
		booking.PaymentMethod = method
		booking.TransactionID = "txn_" + txID
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, ErrInvalidInput) {
			return models.Booking{}, err
		}
		return models.Booking{}, fmt.Errorf("payment failed: %w", err)
	}
	return booking, nil
}
