package store

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// PaymentOption is the share of the total collected up front as a deposit.
type PaymentOption string

const (
	PayTenPercent    PaymentOption = "10%"
	PayTwentyPercent PaymentOption = "20%"
	PayHalf          PaymentOption = "50%"
	PayFull          PaymentOption = "100%"
)

// PaymentOptions lists the accepted options in display order.
var PaymentOptions = []PaymentOption{PayTenPercent, PayTwentyPercent, PayHalf, PayFull}

var (
	ErrInvalidPaymentOption = errors.New("invalid payment option")
	ErrNegativePrice        = errors.New("price must not be negative")
)

func (p PaymentOption) Valid() bool {
	for _, o := range PaymentOptions {
		if p == o {
			return true
		}
	}
	return false
}

// Percent returns the numeric percentage (10, 20, 50 or 100).
func (p PaymentOption) Percent() (float64, error) {
	if !p.Valid() {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPaymentOption, string(p))
	}
	n, err := strconv.Atoi(strings.TrimSuffix(string(p), "%"))
	if err != nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPaymentOption, string(p))
	}
	return float64(n), nil
}

func ParsePaymentOption(s string) (PaymentOption, error) {
	p := PaymentOption(strings.TrimSpace(s))
	if !p.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidPaymentOption, s)
	}
	return p, nil
}

type Amounts struct {
	DepositAmount float64 `json:"depositAmount"`
	TotalPrice    float64 `json:"totalPrice"`
}

// DeriveAmounts computes the deposit and total for a nightly price.
// The total is the price itself; the deposit is price * percent / 100.
func DeriveAmounts(price float64, option PaymentOption) (Amounts, error) {
	if price < 0 {
		return Amounts{}, ErrNegativePrice
	}
	pct, err := option.Percent()
	if err != nil {
		return Amounts{}, err
	}
	return Amounts{
		DepositAmount: price * pct / 100,
		TotalPrice:    price,
	}, nil
}
