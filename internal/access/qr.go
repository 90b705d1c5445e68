package access

import (
	"github.com/gatewise/vms-backend/internal/models"
)

// serviceOrPublicPurposes are the purposes that route cars to LPR-only
// access and pedestrians to front-gate-only passes.
var serviceOrPublicPurposes = map[string]bool{
	models.PurposeEHailingDriver: true,
	models.PurposeFoodServices:   true,
	models.PurposeCourier:        true,
	models.PurposeGarbageTruck:   true,
	models.PurposeSafeguard:      true,
	models.PurposePublic:         true,
}

// IsServiceOrPublic reports whether the purpose belongs to the
// service-or-public group of the QR classification table.
func IsServiceOrPublic(purpose string) bool {
	return serviceOrPublicPurposes[purpose]
}

// ClassifyQR maps (transport mode, purpose) to the visitor's QR access
// class. Total function: unknown purposes take the "otherwise" branch.
//
//	CAR     + service/public -> NONE (LPR-only, no QR issued)
//	CAR     + otherwise      -> QR2  (elevator only)
//	NON_CAR + service/public -> QR1  (front gate only)
//	NON_CAR + otherwise      -> QR3  (gate + elevator)
func ClassifyQR(mode models.TransportMode, purpose string) models.QRType {
	serviceOrPublic := IsServiceOrPublic(purpose)
	if mode == models.TransportModeCar {
		if serviceOrPublic {
			return models.QRTypeNone
		}
		return models.QRType2
	}
	if serviceOrPublic {
		return models.QRType1
	}
	return models.QRType3
}
