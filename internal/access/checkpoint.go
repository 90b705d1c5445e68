package access

import (
	"github.com/gatewise/vms-backend/internal/models"
)

// Checkpoint identifies a physical access point
type Checkpoint string

const (
	CheckpointFrontGate Checkpoint = "FRONT_GATE"
	CheckpointElevator  Checkpoint = "ELEVATOR"
)

// CapabilityProfile is a checkpoint's fixed configuration: which QR
// classes it accepts and whether it runs plate recognition.
type CapabilityProfile struct {
	Checkpoint     Checkpoint
	Location       models.AccessLocation
	AllowedQRTypes map[models.QRType]bool
	AllowLPR       bool
}

// Fixed checkpoint capability profiles. Not runtime-discovered.
var profiles = map[Checkpoint]CapabilityProfile{
	CheckpointFrontGate: {
		Checkpoint: CheckpointFrontGate,
		Location:   models.LocationFrontGate,
		AllowedQRTypes: map[models.QRType]bool{
			models.QRType1: true,
			models.QRType3: true,
		},
		AllowLPR: true,
	},
	CheckpointElevator: {
		Checkpoint: CheckpointElevator,
		Location:   models.LocationElevator,
		AllowedQRTypes: map[models.QRType]bool{
			models.QRType2: true,
			models.QRType3: true,
		},
		AllowLPR: false,
	},
}

// ProfileFor returns the capability profile of a checkpoint. The second
// return value is false for an unrecognized checkpoint name.
func ProfileFor(cp Checkpoint) (CapabilityProfile, bool) {
	p, ok := profiles[cp]
	return p, ok
}

// AllowsQR reports whether the checkpoint accepts the given QR class.
func (p CapabilityProfile) AllowsQR(qr models.QRType) bool {
	return p.AllowedQRTypes[qr]
}
