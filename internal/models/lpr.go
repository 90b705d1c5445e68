package models

import (
	"time"
)

// LPRMode is the terminal's pre-selected direction for a plate-recognition
// scan. It is an explicit terminal setting, not inferred from prior state.
type LPRMode string

const (
	LPRModeEntry LPRMode = "ENTRY"
	LPRModeExit  LPRMode = "EXIT"
)

// LPRStatus classifies the outcome of one plate-recognition event
type LPRStatus string

const (
	LPRStatusApproved    LPRStatus = "Approved"
	LPRStatusRejected    LPRStatus = "Rejected"
	LPRStatusPending     LPRStatus = "Pending"
	LPRStatusBlacklisted LPRStatus = "Blacklisted"
	LPRStatusUnknown     LPRStatus = "Unknown"
)

// LPRLog is an immutable audit record of one plate-recognition event.
// Append-only.
type LPRLog struct {
	ID            string    `json:"id"`
	Plate         string    `json:"plate"`
	VehicleColor  string    `json:"vehicle_color,omitempty"`
	Confidence    float64   `json:"confidence"`
	Thumbnail     string    `json:"thumbnail,omitempty"`
	Status        LPRStatus `json:"status"`
	Mode          LPRMode   `json:"mode"`
	VisitorID     string    `json:"visitor_id,omitempty"`
	IsVip         bool      `json:"is_vip"`
	RequestorName string    `json:"requestor_name,omitempty"`
	PhoneNumber   string    `json:"phone_number,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// ScanKnownStatus marks whether a scanned plate resolved to any registry
type ScanKnownStatus string

const (
	ScanStatusKnown   ScanKnownStatus = "KNOWN"
	ScanStatusUnknown ScanKnownStatus = "UNKNOWN"
)

// ScanOutcome is the latest decision recorded against a plate
type ScanOutcome string

const (
	ScanOutcomePassed  ScanOutcome = "PASSED"
	ScanOutcomeBlocked ScanOutcome = "BLOCKED"
	ScanOutcomeHold    ScanOutcome = "HOLD"
	ScanOutcomeUnknown ScanOutcome = "UNKNOWN"
)

// LprScanRecord is the rolling per-plate state, keyed by normalized plate.
// One record per plate with latest-wins semantics; distinct from the
// append-only LPRLog.
type LprScanRecord struct {
	Plate       string          `json:"plate"`
	Status      ScanKnownStatus `json:"status"`
	EntryAt     *time.Time      `json:"entry_at,omitempty"`
	ExitAt      *time.Time      `json:"exit_at,omitempty"`
	AttemptedAt *time.Time      `json:"attempted_at,omitempty"`
	Outcome     ScanOutcome     `json:"outcome"`
	Reason      string          `json:"reason,omitempty"`
	Gate        string          `json:"gate,omitempty"`
	LastSeenAt  time.Time       `json:"last_seen_at"`
}
