// Package payment validates card payments and produces redacted payment
// snapshots. It is a deterministic offline acceptance simulator: no
// gateway is contacted and the approval code is synthesized locally.
package payment

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"time"

	"github.com/giyimsepeti/storefront-system/internal/model"
	"github.com/giyimsepeti/storefront-system/internal/validation"
)

// Rejection reasons, checked in order; the first failure wins.
var (
	ErrInvalidHolder = errors.New("Kart uzerindeki isim gecersiz.")
	ErrInvalidNumber = errors.New("Kart numarasi gecersiz.")
	ErrInvalidExpiry = errors.New("Son kullanma tarihi gecersiz.")
	ErrCardExpired   = errors.New("Kartin son kullanma tarihi gecmis.")
	ErrInvalidCVV    = errors.New("CVV gecersiz.")
)

// CardInput is the raw card payload submitted at checkout. All fields
// arrive as strings; non-digit characters in the number and CVV are
// stripped before validation.
type CardInput struct {
	CardHolder  string
	CardNumber  string
	ExpiryMonth string
	ExpiryYear  string
	CVV         string
}

// ValidateCard checks the card payload and, on acceptance, returns the
// redacted snapshot to store on the order. The raw number, expiry and
// CVV never leave this function.
func ValidateCard(in CardInput, now time.Time) (model.PaymentSnapshot, error) {
	holder := strings.TrimSpace(in.CardHolder)
	number := onlyDigits(in.CardNumber)
	cvv := onlyDigits(in.CVV)

	if len(holder) < 2 {
		return model.PaymentSnapshot{}, ErrInvalidHolder
	}

	if !validation.IsValidCardNumber(number) {
		return model.PaymentSnapshot{}, ErrInvalidNumber
	}

	month, err := strconv.Atoi(strings.TrimSpace(in.ExpiryMonth))
	if err != nil || month < 1 || month > 12 {
		return model.PaymentSnapshot{}, ErrInvalidExpiry
	}
	year, ok := normalizeExpiryYear(in.ExpiryYear)
	if !ok {
		return model.PaymentSnapshot{}, ErrInvalidExpiry
	}

	if expired(month, year, now) {
		return model.PaymentSnapshot{}, ErrCardExpired
	}

	if len(cvv) < 3 || len(cvv) > 4 {
		return model.PaymentSnapshot{}, ErrInvalidCVV
	}

	return model.PaymentSnapshot{
		Method:       model.PaymentMethodCard,
		CardHolder:   holder,
		CardBrand:    detectBrand(number),
		CardLast4:    number[len(number)-4:],
		ApprovalCode: newApprovalCode(now),
	}, nil
}

func onlyDigits(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// normalizeExpiryYear maps two-digit years onto the 2000s.
func normalizeExpiryYear(raw string) (int, bool) {
	year, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || year <= 0 {
		return 0, false
	}
	if year < 100 {
		year += 2000
	}
	return year, true
}

// expired reports whether the last instant of the expiry month is in
// the past.
func expired(month, year int, now time.Time) bool {
	endOfMonth := time.Date(year, time.Month(month)+1, 1, 0, 0, 0, 0, now.Location())
	return endOfMonth.Add(-time.Nanosecond).Before(now)
}

// detectBrand derives the card brand from the number prefix.
func detectBrand(number string) string {
	switch {
	case strings.HasPrefix(number, "4"):
		return "Visa"
	case isMastercardPrefix(number):
		return "Mastercard"
	case strings.HasPrefix(number, "34"), strings.HasPrefix(number, "37"):
		return "Amex"
	}
	return "Kart"
}

func isMastercardPrefix(number string) bool {
	if len(number) < 2 || number[0] != '5' && number[0] != '2' {
		return false
	}
	second := number[1]
	if number[0] == '5' {
		return second >= '1' && second <= '5'
	}
	return second >= '2' && second <= '7'
}

// newApprovalCode synthesizes an opaque authorization reference in the
// form APR-<timestamp suffix>-<3 digits>.
func newApprovalCode(now time.Time) string {
	stamp := strconv.FormatInt(now.UnixMilli(), 10)
	if len(stamp) > 6 {
		stamp = stamp[len(stamp)-6:]
	}
	return fmt.Sprintf("APR-%s-%d", stamp, rand.IntN(900)+100)
}
