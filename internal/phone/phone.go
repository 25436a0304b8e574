package phone

import "strings"

// localNumberLength is the digit count of a national number without a
// country code; such numbers get the default country code prepended.
const localNumberLength = 10

// minLinkDigits is the smallest digit count accepted for messaging deep
// links; shorter inputs cannot address a mailbox anywhere.
const minLinkDigits = 8

// Digits strips every non-digit character from the raw input.
func Digits(raw string) string {
	var b strings.Builder

	for _, r := range raw {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}

	return b.String()
}

// Normalize converts a raw phone string into canonical international form
// ("+<country code><number>") using the default country code for local
// numbers. It is total and deterministic: invalid input yields a best-effort
// canonical string, never an error; the downstream gateway is the backstop
// for truly invalid numbers.
//
// Rules, in order:
//   - exactly 10 digits: prepend the default country code;
//   - more than 10 digits starting with the trunk prefix "0": strip the
//     prefix, the remainder already includes a country code;
//   - more than 10 digits otherwise: already international, pass through;
//   - anything else: prepend the default country code.
func Normalize(raw, defaultCountryCode string) string {
	digits := Digits(raw)

	switch {
	case len(digits) == localNumberLength:
		return "+" + defaultCountryCode + digits
	case len(digits) > localNumberLength:
		if digits[0] == '0' {
			return "+" + digits[1:]
		}

		return "+" + digits
	default:
		return "+" + defaultCountryCode + digits
	}
}

// LinkDigits converts a raw phone string into the digits-only form used in
// messaging deep links (no plus sign). Ten-digit local numbers get the
// default country code. The second return value is false when the number is
// too short to address anyone.
func LinkDigits(raw, defaultCountryCode string) (string, bool) {
	digits := Digits(raw)
	if len(digits) == localNumberLength {
		digits = defaultCountryCode + digits
	}

	if len(digits) < minLinkDigits {
		return "", false
	}

	return digits, true
}
