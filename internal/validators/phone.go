package validators

import "unicode"

const minPhoneDigits = 8

// IsPhoneValid exige al menos 8 dígitos; separadores y prefijo + se ignoran.
func IsPhoneValid(phone string) bool {
	digits := 0
	for _, r := range phone {
		switch {
		case unicode.IsDigit(r):
			digits++
		case r == '+' || r == '-' || r == ' ' || r == '(' || r == ')':
			// separadores permitidos
		default:
			return false
		}
	}
	return digits >= minPhoneDigits
}
