package models

import (
	"time"
)

// AccessAction classifies a checkpoint event
type AccessAction string

const (
	AccessActionEntry          AccessAction = "ENTRY"
	AccessActionExit           AccessAction = "EXIT"
	AccessActionDenied         AccessAction = "DENIED"
	AccessActionManualOverride AccessAction = "MANUAL_OVERRIDE"
	AccessActionVipUpdate      AccessAction = "VIP_UPDATE"
)

// AccessLocation names the checkpoint that emitted an event
type AccessLocation string

const (
	LocationFrontGate AccessLocation = "FRONT_GATE"
	LocationElevator  AccessLocation = "ELEVATOR"
	LocationSystem    AccessLocation = "SYSTEM"
)

// AccessMethod is how the identifier was presented
type AccessMethod string

const (
	MethodQR     AccessMethod = "QR"
	MethodLPR    AccessMethod = "LPR"
	MethodManual AccessMethod = "MANUAL"
	MethodSystem AccessMethod = "SYSTEM"
)

// AccessLog is an immutable checkpoint event. Append-only; insertion order
// is the authoritative ordering, rendered newest-first.
type AccessLog struct {
	ID          string         `json:"id"`
	VisitorID   string         `json:"visitor_id,omitempty"`
	VisitorName string         `json:"visitor_name,omitempty"`
	Action      AccessAction   `json:"action"`
	Location    AccessLocation `json:"location"`
	Method      AccessMethod   `json:"method"`
	Details     string         `json:"details,omitempty"`
	Timestamp   time.Time      `json:"timestamp"`
}
