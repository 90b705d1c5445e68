package models

import (
	"time"
)

// VisitorType distinguishes walk-in registrations from pre-registered visits
type VisitorType string

const (
	VisitorTypeAdhoc         VisitorType = "ADHOC"
	VisitorTypePreregistered VisitorType = "PREREGISTERED"
)

// TransportMode represents how the visitor arrives
type TransportMode string

const (
	TransportModeCar    TransportMode = "CAR"
	TransportModeNonCar TransportMode = "NON_CAR"
)

// VisitorStatus represents the approval state of a registration
type VisitorStatus string

const (
	VisitorStatusPending  VisitorStatus = "PENDING"
	VisitorStatusApproved VisitorStatus = "APPROVED"
	VisitorStatusRejected VisitorStatus = "REJECTED"
)

// QRType encodes which physical checkpoints a visitor's pass may clear
type QRType string

const (
	QRType1    QRType = "QR1"  // front-gate-only pedestrian
	QRType2    QRType = "QR2"  // elevator-only (car parked, QR used upstairs)
	QRType3    QRType = "QR3"  // full access: gate + elevator
	QRTypeNone QRType = "NONE" // LPR-only, no QR issued
)

// Visit purposes from the fixed catalog. Unknown purposes are accepted and
// classified through the default branch.
const (
	PurposeEHailingDriver = "E-Hailing (Driver)"
	PurposeFoodServices   = "Food Services"
	PurposeCourier        = "Courier Services"
	PurposeGarbageTruck   = "Garbage Truck Services"
	PurposeSafeguard      = "Safeguard"
	PurposePublic         = "Public"
	PurposeVisitStaff     = "Visit Staff"
	PurposeMeeting        = "Meeting"
	PurposeContractor     = "Contractor Works"
)

// RegisteredBySelf and RegisteredByStaff mark the origin of a registration
// when no operator username is available.
const (
	RegisteredBySelf  = "SELF"
	RegisteredByStaff = "STAFF"
)

// Visitor represents one registered visit: identity plus visit intent.
// The 5-digit ID doubles as the QR payload and the status-check lookup key.
type Visitor struct {
	ID            string        `json:"id"`
	Name          string        `json:"name"`
	Contact       string        `json:"contact"`
	Email         string        `json:"email,omitempty"`
	ICNumber      string        `json:"ic_number"`
	Purpose       string        `json:"purpose"`
	Type          VisitorType   `json:"type"`
	TransportMode TransportMode `json:"transport_mode"`
	LicensePlate  string        `json:"license_plate,omitempty"`
	Status        VisitorStatus `json:"status"`
	QRType        QRType        `json:"qr_type"`
	VisitDate     time.Time     `json:"visit_date"`
	EndDate       *time.Time    `json:"end_date,omitempty"`
	TimeIn        *time.Time    `json:"time_in,omitempty"`
	TimeOut       *time.Time    `json:"time_out,omitempty"`

	// EntryLocation is the checkpoint that granted the current time-in.
	// The exit toggle only fires at this same checkpoint.
	EntryLocation AccessLocation `json:"entry_location,omitempty"`

	// Conditional fields required by certain purposes
	DropOffArea       string `json:"drop_off_area,omitempty"`
	SpecifiedLocation string `json:"specified_location,omitempty"`
	StaffNumber       string `json:"staff_number,omitempty"`

	// Supporting document reference, mandatory for stays over seven days
	AttachmentURL string `json:"attachment_url,omitempty"`

	RegisteredBy string    `json:"registered_by"`
	CreatedAt    time.Time `json:"created_at"`
}

// IsApproved reports whether the visitor may be granted access at a checkpoint.
func (v *Visitor) IsApproved() bool {
	return v.Status == VisitorStatusApproved
}
