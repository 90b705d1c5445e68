package validator

import (
	"errors"
	"regexp"
	"strings"
)

var (
	// ErrEmptyContact indicates the contact number is empty
	ErrEmptyContact = errors.New("contact number cannot be empty")

	// ErrInvalidFormat indicates the contact number contains invalid characters
	ErrInvalidFormat = errors.New("contact number can only contain digits, separators and an optional leading +")

	// ErrInvalidLength indicates the contact number length is out of range
	ErrInvalidLength = errors.New("contact number must have between 7 and 15 digits")
)

// contactRegex matches an optional leading + followed by digits only
var contactRegex = regexp.MustCompile(`^\+?\d+$`)

// ContactValidator validates visitor contact numbers. It is deliberately
// lenient about country formats: registrations come from walk-ins with
// phones issued anywhere.
type ContactValidator struct{}

// NewContactValidator creates a new contact validator instance
func NewContactValidator() *ContactValidator {
	return &ContactValidator{}
}

// Validate validates a contact number.
// Accepts formats like 0123456789, +60 12-345 6789 or (012) 345-6789.
// Returns the sanitized number (digits and optional leading +) and an
// error if invalid.
func (v *ContactValidator) Validate(contact string) (string, error) {
	if contact == "" {
		return "", ErrEmptyContact
	}

	sanitized := v.Sanitize(contact)

	if !contactRegex.MatchString(sanitized) {
		return "", ErrInvalidFormat
	}

	digits := strings.TrimPrefix(sanitized, "+")
	if len(digits) < 7 || len(digits) > 15 {
		return "", ErrInvalidLength
	}

	return sanitized, nil
}

// Sanitize removes common separators from a contact number, keeping
// digits and a leading +.
func (v *ContactValidator) Sanitize(contact string) string {
	contact = strings.TrimSpace(contact)

	plus := strings.HasPrefix(contact, "+")
	var b strings.Builder
	b.Grow(len(contact))
	for _, r := range contact {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if plus {
		return "+" + b.String()
	}
	return b.String()
}
