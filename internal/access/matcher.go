package access

import (
	"time"

	"github.com/gatewise/vms-backend/internal/models"
)

// MatchKind tags the authoritative registry a scan resolved against
type MatchKind string

const (
	MatchBlacklisted MatchKind = "BLACKLISTED"
	MatchVip         MatchKind = "VIP"
	MatchVisitor     MatchKind = "VISITOR"
	MatchUnknown     MatchKind = "UNKNOWN"
)

// IdentifierBundle carries whatever identifiers the scan context supplies.
// A QR or manual scan supplies Code; an LPR event supplies Plate; the
// registration-time blacklist check supplies IC, plate and phone.
type IdentifierBundle struct {
	Code     string
	ICNumber string
	Plate    string
	Phone    string
}

// MatchResult is a tagged union over the three registries. Exactly one of
// the record pointers is non-nil for its matching kind; all are nil for
// MatchUnknown.
type MatchResult struct {
	Kind      MatchKind
	Blacklist *models.BlacklistRecord
	Vip       *models.VipRecord
	Visitor   *models.Visitor
}

// Registries is a read snapshot of the three overlapping registries a scan
// is resolved against.
type Registries struct {
	Blacklist []*models.BlacklistRecord
	Vips      []*models.VipRecord
	Visitors  []*models.Visitor
}

// MatchBlacklist applies the blacklist rule in isolation: the record must
// be ACTIVE and any one identifier equality (IC, normalized plate,
// normalized phone) suffices. Registration pre-checks and scan resolution
// both go through this exact rule so the reactive warning and the
// authoritative veto can never diverge.
func MatchBlacklist(records []*models.BlacklistRecord, bundle IdentifierBundle) *models.BlacklistRecord {
	for _, rec := range records {
		if !rec.IsActive() {
			continue
		}
		if bundle.ICNumber != "" && rec.ICNumber != "" && bundle.ICNumber == rec.ICNumber {
			return rec
		}
		if SamePlate(bundle.Plate, rec.LicensePlate) {
			return rec
		}
		if SamePhone(bundle.Phone, rec.Phone) {
			return rec
		}
	}
	return nil
}

// MatchVipPlate finds an ACTIVE VIP profile whose normalized plate matches
// and whose validity window contains now.
func MatchVipPlate(vips []*models.VipRecord, plate string, now time.Time) *models.VipRecord {
	for _, vip := range vips {
		if !vip.IsValidAt(now) {
			continue
		}
		if SamePlate(plate, vip.LicensePlate) {
			return vip
		}
	}
	return nil
}

// Resolve searches the registries in fixed precedence: blacklist, then
// VIP, then visitor. First match wins and later registries are not
// consulted. An ACTIVE ban overrides every privilege, and VIP status
// overrides any ordinary visitor record for the same plate.
//
// Visitor resolution depends on the lookup shape: a plate lookup matches
// CAR visitors by normalized plate; a code lookup matches by exact id
// (the QR payload is the visitor id).
func Resolve(reg Registries, bundle IdentifierBundle, now time.Time) MatchResult {
	if rec := MatchBlacklist(reg.Blacklist, bundle); rec != nil {
		return MatchResult{Kind: MatchBlacklisted, Blacklist: rec}
	}

	if bundle.Plate != "" {
		if vip := MatchVipPlate(reg.Vips, bundle.Plate, now); vip != nil {
			return MatchResult{Kind: MatchVip, Vip: vip}
		}
	}

	if bundle.Code != "" {
		for _, v := range reg.Visitors {
			if v.ID == bundle.Code {
				return MatchResult{Kind: MatchVisitor, Visitor: v}
			}
		}
	}
	if bundle.Plate != "" {
		for _, v := range reg.Visitors {
			if v.TransportMode != models.TransportModeCar {
				continue
			}
			if SamePlate(bundle.Plate, v.LicensePlate) {
				return MatchResult{Kind: MatchVisitor, Visitor: v}
			}
		}
	}

	return MatchResult{Kind: MatchUnknown}
}
