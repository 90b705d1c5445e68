package models

import (
	"time"
)

// BlacklistStatus represents the lifecycle state of a ban entry
type BlacklistStatus string

const (
	BlacklistStatusActive   BlacklistStatus = "ACTIVE"
	BlacklistStatusUnbanned BlacklistStatus = "UNBANNED"
)

// BlacklistRecord is a ban entry keyed by any of IC number, license plate or
// phone. At least one identifier is required. Un-banning is a soft status
// change so the audit trail is preserved; records are never deleted.
type BlacklistRecord struct {
	ID           string          `json:"id"`
	Name         string          `json:"name,omitempty"`
	ICNumber     string          `json:"ic_number,omitempty"`
	LicensePlate string          `json:"license_plate,omitempty"`
	Phone        string          `json:"phone,omitempty"`
	Reason       string          `json:"reason"`
	Status       BlacklistStatus `json:"status"`
	CreatedBy    string          `json:"created_by"`
	Timestamp    time.Time       `json:"timestamp"`
}

// IsActive reports whether the record is currently authoritative.
func (b *BlacklistRecord) IsActive() bool {
	return b.Status == BlacklistStatusActive
}
