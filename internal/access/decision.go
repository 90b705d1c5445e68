package access

import (
	"github.com/gatewise/vms-backend/internal/models"
)

// Deny reasons surfaced to guards. Blacklist denials carry the ban
// record's own reason instead.
const (
	ReasonNotFound         = "not found"
	ReasonAwaitingApproval = "awaiting approval"
	ReasonRejected         = "rejected"
	ReasonWrongQRClass     = "wrong QR class for this checkpoint"
	ReasonLPRNotAllowed    = "vehicle scanning not available at this checkpoint"
)

// Decision is the outcome of resolving one scan: grant or deny, the
// human-readable reason, the access-log action to record, and the
// classifications used by the LPR log and the per-plate scan record.
type Decision struct {
	Allowed   bool
	Reason    string
	Action    models.AccessAction
	Details   string
	LPRStatus models.LPRStatus
	Outcome   models.ScanOutcome
}

// Decide applies the checkpoint rules to a resolved match. Rules are
// evaluated in order and the first applicable one fires.
//
// A blacklist match wins the audit classification outright. After that
// the structural LPR constraint is checked before any privilege: a plate
// scan at a checkpoint without LPR is denied even for a valid VIP,
// because the constraint reflects physical layout, not record state.
//
// Entry/exit direction for visitors comes from the time-in/time-out
// toggle: a grant with no timeIn is an ENTRY; a grant with timeIn set and
// no timeOut is treated as an EXIT, but only at the checkpoint that
// granted the entry. A scan elsewhere while inside is an ordinary entry
// grant and leaves the open visit alone. VIP direction follows the
// terminal's explicit mode instead, since LPR terminals pre-select ENTRY
// or EXIT.
func Decide(match MatchResult, profile CapabilityProfile, method models.AccessMethod, mode models.LPRMode) Decision {
	if match.Kind == MatchBlacklisted {
		return Decision{
			Allowed:   false,
			Reason:    match.Blacklist.Reason,
			Action:    models.AccessActionDenied,
			Details:   "BLACKLISTED",
			LPRStatus: models.LPRStatusBlacklisted,
			Outcome:   models.ScanOutcomeBlocked,
		}
	}

	if method == models.MethodLPR && !profile.AllowLPR {
		return Decision{
			Allowed:   false,
			Reason:    ReasonLPRNotAllowed,
			Action:    models.AccessActionDenied,
			Details:   "LPR_NOT_ALLOWED",
			LPRStatus: models.LPRStatusRejected,
			Outcome:   models.ScanOutcomeBlocked,
		}
	}

	switch match.Kind {
	case MatchUnknown:
		return Decision{
			Allowed:   false,
			Reason:    ReasonNotFound,
			Action:    models.AccessActionDenied,
			Details:   "NOT_FOUND",
			LPRStatus: models.LPRStatusUnknown,
			Outcome:   models.ScanOutcomeUnknown,
		}

	case MatchVip:
		// A matched VIP record is by construction within its validity
		// window, so the grant is unconditional here.
		action := models.AccessActionEntry
		if mode == models.LPRModeExit {
			action = models.AccessActionExit
		}
		return Decision{
			Allowed:   true,
			Action:    action,
			LPRStatus: models.LPRStatusApproved,
			Outcome:   models.ScanOutcomePassed,
		}

	case MatchVisitor:
		v := match.Visitor
		switch v.Status {
		case models.VisitorStatusPending:
			return Decision{
				Allowed:   false,
				Reason:    ReasonAwaitingApproval,
				Action:    models.AccessActionDenied,
				Details:   "PENDING_APPROVAL",
				LPRStatus: models.LPRStatusPending,
				Outcome:   models.ScanOutcomeHold,
			}
		case models.VisitorStatusRejected:
			return Decision{
				Allowed:   false,
				Reason:    ReasonRejected,
				Action:    models.AccessActionDenied,
				Details:   "REJECTED",
				LPRStatus: models.LPRStatusRejected,
				Outcome:   models.ScanOutcomeBlocked,
			}
		}

		if method == models.MethodQR && !profile.AllowsQR(v.QRType) {
			return Decision{
				Allowed:   false,
				Reason:    ReasonWrongQRClass,
				Action:    models.AccessActionDenied,
				Details:   "QR_CLASS_MISMATCH",
				LPRStatus: models.LPRStatusRejected,
				Outcome:   models.ScanOutcomeBlocked,
			}
		}

		action := models.AccessActionEntry
		if v.TimeIn != nil && v.TimeOut == nil && v.EntryLocation == profile.Location {
			action = models.AccessActionExit
		}
		return Decision{
			Allowed:   true,
			Action:    action,
			LPRStatus: models.LPRStatusApproved,
			Outcome:   models.ScanOutcomePassed,
		}
	}

	// Unreachable for a well-formed match, treated as not found.
	return Decision{
		Allowed:   false,
		Reason:    ReasonNotFound,
		Action:    models.AccessActionDenied,
		Details:   "NOT_FOUND",
		LPRStatus: models.LPRStatusUnknown,
		Outcome:   models.ScanOutcomeUnknown,
	}
}
