package payment

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func validInput() CardInput {
	return CardInput{
		CardHolder:  "Ayse Yilmaz",
		CardNumber:  "4111 1111 1111 1111",
		ExpiryMonth: "12",
		ExpiryYear:  "2031",
		CVV:         "123",
	}
}

var testNow = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestValidateCard_Accepts(t *testing.T) {
	snap, err := ValidateCard(validInput(), testNow)
	if err != nil {
		t.Fatalf("ValidateCard error: %v", err)
	}

	if snap.Method != "Kredi Karti" {
		t.Errorf("Method = %q, want Kredi Karti", snap.Method)
	}
	if snap.CardBrand != "Visa" {
		t.Errorf("CardBrand = %q, want Visa", snap.CardBrand)
	}
	if snap.CardLast4 != "1111" {
		t.Errorf("CardLast4 = %q, want 1111", snap.CardLast4)
	}
	if !strings.HasPrefix(snap.ApprovalCode, "APR-") {
		t.Errorf("ApprovalCode = %q, want APR- prefix", snap.ApprovalCode)
	}
}

func TestValidateCard_RejectionOrder(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CardInput)
		want   error
	}{
		{
			name:   "holder too short",
			mutate: func(in *CardInput) { in.CardHolder = " A " },
			want:   ErrInvalidHolder,
		},
		{
			name:   "luhn failure",
			mutate: func(in *CardInput) { in.CardNumber = "4111111111111112" },
			want:   ErrInvalidNumber,
		},
		{
			name:   "number too short",
			mutate: func(in *CardInput) { in.CardNumber = "42424242" },
			want:   ErrInvalidNumber,
		},
		{
			name:   "month out of range",
			mutate: func(in *CardInput) { in.ExpiryMonth = "13" },
			want:   ErrInvalidExpiry,
		},
		{
			name:   "unparseable year",
			mutate: func(in *CardInput) { in.ExpiryYear = "soon" },
			want:   ErrInvalidExpiry,
		},
		{
			name: "expired last month",
			mutate: func(in *CardInput) {
				in.ExpiryMonth = "2"
				in.ExpiryYear = "2026"
			},
			want: ErrCardExpired,
		},
		{
			name:   "cvv too short",
			mutate: func(in *CardInput) { in.CVV = "12" },
			want:   ErrInvalidCVV,
		},
		{
			name:   "cvv too long",
			mutate: func(in *CardInput) { in.CVV = "12345" },
			want:   ErrInvalidCVV,
		},
		{
			name: "bad holder reported before bad number",
			mutate: func(in *CardInput) {
				in.CardHolder = ""
				in.CardNumber = "1"
			},
			want: ErrInvalidHolder,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := validInput()
			tt.mutate(&in)

			_, err := ValidateCard(in, testNow)
			if !errors.Is(err, tt.want) {
				t.Fatalf("ValidateCard error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestValidateCard_ExpiryEdges(t *testing.T) {
	in := validInput()
	in.ExpiryMonth = "3"
	in.ExpiryYear = "26"

	// Current calendar month is still acceptable.
	if _, err := ValidateCard(in, testNow); err != nil {
		t.Fatalf("card expiring this month rejected: %v", err)
	}

	// Two-digit years map onto the 2000s.
	in.ExpiryYear = "25"
	if _, err := ValidateCard(in, testNow); !errors.Is(err, ErrCardExpired) {
		t.Fatalf("error = %v, want ErrCardExpired", err)
	}
}

func TestDetectBrand(t *testing.T) {
	tests := []struct {
		number string
		brand  string
	}{
		{"4111111111111111", "Visa"},
		{"5555555555554444", "Mastercard"},
		{"2221000000000009", "Mastercard"},
		{"378282246310005", "Amex"},
		{"6011111111111117", "Kart"},
	}

	for _, tt := range tests {
		if got := detectBrand(tt.number); got != tt.brand {
			t.Errorf("detectBrand(%q) = %q, want %q", tt.number, got, tt.brand)
		}
	}
}
