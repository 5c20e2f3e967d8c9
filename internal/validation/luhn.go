// Package validation contains input validation helpers.
package validation

import "unicode"

// Card numbers are between 13 and 19 digits across the supported schemes.
const (
	minCardNumberLen = 13
	maxCardNumberLen = 19
)

// IsValidCardNumber checks a digits-only card number: length within the
// scheme bounds and a valid Luhn mod-10 checksum.
func IsValidCardNumber(number string) bool {
	if len(number) < minCardNumberLen || len(number) > maxCardNumberLen {
		return false
	}

	sum := 0
	double := false

	for i := len(number) - 1; i >= 0; i-- {
		ch := rune(number[i])
		if !unicode.IsDigit(ch) {
			return false
		}
		digit := int(ch - '0')
		if double {
			digit *= 2
			if digit > 9 {
				digit -= 9
			}
		}
		sum += digit
		double = !double
	}

	return sum%10 == 0
}
