package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrAuth covers bad credentials and rejected sign-ups.
	ErrAuth = errors.New("authentication failed")
	// ErrNotFound is returned when a room, booking, profile or user is absent.
	ErrNotFound = errors.New("not found")
	// ErrUnauthenticated is returned when an operation needs a session and has none.
	ErrUnauthenticated = errors.New("user not authenticated")
	ErrInvalidInput    = errors.New("invalid input")
	ErrRoomUnavailable = errors.New("room is not available")
)

func notFound(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: %s", ErrNotFound, what)
	}
	return fmt.Errorf("failed to load %s: %w", what, err)
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, fmt.Sprintf(format, args...))
}

func isDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "Duplicate entry") || strings.Contains(msg, "UNIQUE constraint failed")
}
