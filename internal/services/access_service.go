package services

import (
	"fmt"
	"sync"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrUnknownCheckpoint indicates a scan from an unconfigured checkpoint
	ErrUnknownCheckpoint = fmt.Errorf("unknown checkpoint")

	// ErrScanCooldown indicates a repeat LPR event inside the cooldown
	// window; no decision is made for it.
	ErrScanCooldown = fmt.Errorf("plate scanned too recently")
)

// ScanResult is the outcome of one resolved scan, returned to the
// checkpoint terminal.
type ScanResult struct {
	Allowed bool                `json:"allowed"`
	Reason  string              `json:"reason,omitempty"`
	Action  models.AccessAction `json:"action"`
	Match   access.MatchKind    `json:"match"`

	Visitor *models.Visitor   `json:"visitor,omitempty"`
	Vip     *models.VipRecord `json:"vip,omitempty"`
}

// AccessService resolves checkpoint scans: it runs the registry matcher,
// applies the decision rules for the checkpoint's capability profile,
// updates movement state and emits the audit records. Every decision
// appends exactly one access-log entry; LPR flows additionally append
// exactly one LPR log entry and upsert the plate's rolling scan record.
type AccessService struct {
	store  *store.Store
	mirror *mirror.Mirror
	audit  *AuditService
	logger *logrus.Logger

	cooldown   time.Duration
	cooldownMu sync.Mutex
	lastSeen   map[string]time.Time // keyed by normalized plate

	// now is swappable for tests
	now func() time.Time
}

// NewAccessService creates a new access service. cooldown bounds how
// often the same plate can trigger a decision; zero disables the check.
func NewAccessService(st *store.Store, m *mirror.Mirror, audit *AuditService, cooldown time.Duration, logger *logrus.Logger) *AccessService {
	return &AccessService{
		store:    st,
		mirror:   m,
		audit:    audit,
		logger:   logger,
		cooldown: cooldown,
		lastSeen: make(map[string]time.Time),
		now:      time.Now,
	}
}

// ResolveQR resolves a QR-code scan at a checkpoint. The QR payload is
// the visitor's 5-digit code.
func (s *AccessService) ResolveQR(code string, checkpoint access.Checkpoint) (*ScanResult, error) {
	return s.resolveCode(code, checkpoint, models.MethodQR, "")
}

// ResolveManual resolves a guard-entered code at a checkpoint. Manual
// entry skips the QR-class constraint but every registry rule still
// applies; a blacklisted identity stays denied.
func (s *AccessService) ResolveManual(code string, checkpoint access.Checkpoint, clientDetails string) (*ScanResult, error) {
	return s.resolveCode(code, checkpoint, models.MethodManual, clientDetails)
}

func (s *AccessService) resolveCode(code string, checkpoint access.Checkpoint, method models.AccessMethod, clientDetails string) (*ScanResult, error) {
	profile, ok := access.ProfileFor(checkpoint)
	if !ok {
		return nil, ErrUnknownCheckpoint
	}

	now := s.now()
	match := access.Resolve(s.store.Registries(), access.IdentifierBundle{Code: code}, now)
	decision := access.Decide(match, profile, method, models.LPRModeEntry)

	s.applyMovement(&match, decision, profile.Location, models.LPRModeEntry, now)
	s.recordAccessLog(match, decision, profile.Location, method, code, clientDetails)

	return s.buildResult(match, decision), nil
}

// LPREventInput is one plate-recognition event from a camera terminal.
// Mode is the terminal's pre-selected direction.
type LPREventInput struct {
	Plate        string
	VehicleColor string
	Confidence   float64
	Thumbnail    string
	Mode         models.LPRMode
	Checkpoint   access.Checkpoint
}

// ResolveLPR resolves a plate-recognition event. A repeat event for the
// same plate inside the cooldown window returns ErrScanCooldown without
// emitting a decision, matching the terminal's auto-scan behaviour for a
// stationary vehicle.
func (s *AccessService) ResolveLPR(input LPREventInput) (*ScanResult, error) {
	profile, ok := access.ProfileFor(input.Checkpoint)
	if !ok {
		return nil, ErrUnknownCheckpoint
	}

	normalized := access.NormalizePlate(input.Plate)
	if normalized == "" {
		return nil, fmt.Errorf("plate is required")
	}

	now := s.now()
	if err := s.checkCooldown(normalized, now); err != nil {
		return nil, err
	}

	match := access.Resolve(s.store.Registries(), access.IdentifierBundle{Plate: input.Plate}, now)
	decision := access.Decide(match, profile, models.MethodLPR, input.Mode)

	s.applyMovement(&match, decision, profile.Location, input.Mode, now)
	s.recordAccessLog(match, decision, profile.Location, models.MethodLPR, normalized, "")
	s.recordLPRLog(match, decision, input, now)
	s.upsertScanRecord(match, decision, input, now)

	return s.buildResult(match, decision), nil
}

func (s *AccessService) checkCooldown(normalizedPlate string, now time.Time) error {
	if s.cooldown <= 0 {
		return nil
	}
	s.cooldownMu.Lock()
	defer s.cooldownMu.Unlock()
	if last, ok := s.lastSeen[normalizedPlate]; ok && now.Sub(last) < s.cooldown {
		return ErrScanCooldown
	}
	s.lastSeen[normalizedPlate] = now
	return nil
}

// applyMovement updates time-in/time-out state for an allowed decision
// and refreshes the match with the post-movement record so the result
// and the mirror both see the stamped timestamps. Visitor direction
// comes from the decision's toggle; VIP direction follows the terminal
// mode.
func (s *AccessService) applyMovement(match *access.MatchResult, decision access.Decision, location models.AccessLocation, mode models.LPRMode, now time.Time) {
	if !decision.Allowed {
		return
	}

	switch match.Kind {
	case access.MatchVisitor:
		var updated *models.Visitor
		if decision.Action == models.AccessActionExit {
			updated = s.store.RecordExit(match.Visitor.ID, now)
		} else {
			updated = s.store.RecordEntry(match.Visitor.ID, location, now)
		}
		if updated != nil {
			match.Visitor = updated
			s.mirror.Set(store.CollectionVisitors, updated.ID, updated)
		}

	case access.MatchVip:
		if updated := s.store.RecordVipMovement(match.Vip.ID, mode, now); updated != nil {
			match.Vip = updated
			s.mirror.Set(store.CollectionVips, updated.ID, updated)
		}
	}
}

func (s *AccessService) recordAccessLog(match access.MatchResult, decision access.Decision, location models.AccessLocation, method models.AccessMethod, identifier, clientDetails string) {
	visitorID, visitorName := identifier, ""
	switch match.Kind {
	case access.MatchVisitor:
		visitorID, visitorName = match.Visitor.ID, match.Visitor.Name
	case access.MatchVip:
		visitorID, visitorName = match.Vip.ID, match.Vip.Name
	case access.MatchBlacklisted:
		visitorName = match.Blacklist.Name
	}

	action := decision.Action
	if method == models.MethodManual && decision.Allowed {
		action = models.AccessActionManualOverride
	}

	details := decision.Details
	if clientDetails != "" {
		if details != "" {
			details += " "
		}
		details += clientDetails
	}

	s.audit.Record(visitorID, visitorName, action, location, method, details)
}

func (s *AccessService) recordLPRLog(match access.MatchResult, decision access.Decision, input LPREventInput, now time.Time) {
	entry := &models.LPRLog{
		ID:           uuid.New().String(),
		Plate:        access.NormalizePlate(input.Plate),
		VehicleColor: input.VehicleColor,
		Confidence:   input.Confidence,
		Thumbnail:    input.Thumbnail,
		Status:       decision.LPRStatus,
		Mode:         input.Mode,
		IsVip:        match.Kind == access.MatchVip,
		Timestamp:    now,
	}

	switch match.Kind {
	case access.MatchVisitor:
		entry.VisitorID = match.Visitor.ID
		entry.RequestorName = match.Visitor.Name
		entry.PhoneNumber = match.Visitor.Contact
	case access.MatchVip:
		entry.RequestorName = match.Vip.Name
		entry.PhoneNumber = match.Vip.Contact
	case access.MatchBlacklisted:
		entry.RequestorName = match.Blacklist.Name
	}

	s.store.AppendLPRLog(entry)
	s.mirror.Set(store.CollectionLPRLogs, entry.ID, entry)
}

func (s *AccessService) upsertScanRecord(match access.MatchResult, decision access.Decision, input LPREventInput, now time.Time) {
	known := match.Kind != access.MatchUnknown
	rec := s.store.UpsertScanRecord(input.Plate, input.Mode, known, now, store.ScanRecordOpts{
		AttemptedOnly: !decision.Allowed,
		Outcome:       decision.Outcome,
		Reason:        decision.Reason,
		Gate:          string(input.Checkpoint),
	})
	if rec != nil {
		s.mirror.Set(store.CollectionScanRecords, rec.Plate, rec)
	}
}

func (s *AccessService) buildResult(match access.MatchResult, decision access.Decision) *ScanResult {
	result := &ScanResult{
		Allowed: decision.Allowed,
		Reason:  decision.Reason,
		Action:  decision.Action,
		Match:   match.Kind,
	}
	switch match.Kind {
	case access.MatchVisitor:
		result.Visitor = match.Visitor
	case access.MatchVip:
		result.Vip = match.Vip
	}
	return result
}
