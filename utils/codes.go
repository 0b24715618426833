package utils

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"math/big"
	"strings"
)

const referenceCharset = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// GenerateSecureToken returns length random bytes hex encoded.
func GenerateSecureToken(length int) (string, error) {
	if length <= 0 {
		return "", errors.New("invalid token length")
	}
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}

func randomCode(n int) (string, error) {
	if n <= 0 {
		return "", errors.New("invalid length")
	}
	var sb strings.Builder
	alphaLen := big.NewInt(int64(len(referenceCharset)))
	for i := 0; i < n; i++ {
		num, err := rand.Int(rand.Reader, alphaLen)
		if err != nil {
			return "", err
		}
		sb.WriteByte(referenceCharset[num.Int64()])
	}
	return sb.String(), nil
}

// GenerateBookingReference → "BK-XXXX-XXXX"
func GenerateBookingReference() (string, error) {
	raw, err := randomCode(8)
	if err != nil {
		return "", err
	}
	return "BK-" + raw[:4] + "-" + raw[4:], nil
}

// IsBookingReference checks the "BK-XXXX-XXXX" shape.
func IsBookingReference(s string) bool {
	if len(s) != 12 || !strings.HasPrefix(s, "BK-") || s[7] != '-' {
		return false
	}
	for _, ch := range s[3:7] + s[8:] {
		if !strings.ContainsRune(referenceCharset, ch) {
			return false
		}
	}
	return true
}

// MaskEmail returns masked email for safe display
func MaskEmail(email string) string {
	email = strings.TrimSpace(email)
	parts := strings.Split(email, "@")
	if len(parts) != 2 {
		return email
	}
	local := parts[0]
	domain := parts[1]

	maskedLocal := local
	if len(local) > 2 {
		maskedLocal = local[:1] + strings.Repeat("*", len(local)-2) + local[len(local)-1:]
	} else if len(local) == 2 {
		maskedLocal = local[:1] + "*"
	}

	domainParts := strings.Split(domain, ".")
	if len(domainParts) >= 2 {
		if len(domainParts[0]) > 1 {
			domainParts[0] = domainParts[0][:1] + strings.Repeat("*", len(domainParts[0])-1)
		}
	}

	return maskedLocal + "@" + strings.Join(domainParts, ".")
}
