// Package access implements the access-decision core: identifier
// normalization, QR classification, registry matching with fixed
// precedence, checkpoint capability profiles and the decision rules
// applied to every scan.
package access

import (
	"strings"
)

// NormalizePlate canonicalizes a license plate: uppercase, keep only
// [A-Z0-9]. Empty input normalizes to "".
func NormalizePlate(plate string) string {
	var b strings.Builder
	b.Grow(len(plate))
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizePhone canonicalizes a phone number: keep only digits and '+'.
// Empty input normalizes to "".
func NormalizePhone(phone string) string {
	var b strings.Builder
	b.Grow(len(phone))
	for _, r := range phone {
		if (r >= '0' && r <= '9') || r == '+' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// SamePlate reports whether two plates are equal after normalization.
// Empty normalized values never match, so two blank fields do not
// falsely compare equal.
func SamePlate(a, b string) bool {
	na, nb := NormalizePlate(a), NormalizePlate(b)
	return na != "" && na == nb
}

// SamePhone reports whether two phone numbers are equal after
// normalization. Empty normalized values never match.
func SamePhone(a, b string) bool {
	na, nb := NormalizePhone(a), NormalizePhone(b)
	return na != "" && na == nb
}
