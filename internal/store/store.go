// Package store owns the process-wide mutable record tables. The
// in-memory tables are the source of truth for all decision logic; the
// persistence mirror only trails them best-effort.
package store

import (
	"sync"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/models"
)

// Collection names shared with the persistence mirror.
const (
	CollectionVisitors    = "visitors"
	CollectionBlacklist   = "blacklist"
	CollectionVips        = "vips"
	CollectionAccessLogs  = "access_logs"
	CollectionLPRLogs     = "lpr_logs"
	CollectionScanRecords = "lpr_scan_records"
)

// Store holds every mutable table behind one lock. Constructed once at
// process start and injected into the services; there is no ambient
// global state.
//
// Records cross the store boundary by value: Put makes a private copy
// and every getter and snapshot hands out copies, so callers never hold
// a pointer that a later mutation writes through. Log entries are
// append-only and never mutated, so they are shared as-is.
type Store struct {
	mu sync.RWMutex

	visitors    map[string]*models.Visitor
	blacklist   map[string]*models.BlacklistRecord
	vips        map[string]*models.VipRecord
	scanRecords map[string]*models.LprScanRecord // keyed by normalized plate

	accessLogs []*models.AccessLog
	lprLogs    []*models.LPRLog
}

// New creates an empty store.
func New() *Store {
	return &Store{
		visitors:    make(map[string]*models.Visitor),
		blacklist:   make(map[string]*models.BlacklistRecord),
		vips:        make(map[string]*models.VipRecord),
		scanRecords: make(map[string]*models.LprScanRecord),
	}
}

// Shallow copies are enough for isolation: pointer fields on the records
// (timestamps) are always replaced, never written through.

func copyVisitor(v *models.Visitor) *models.Visitor {
	c := *v
	return &c
}

func copyBlacklistRecord(rec *models.BlacklistRecord) *models.BlacklistRecord {
	c := *rec
	return &c
}

func copyVipRecord(rec *models.VipRecord) *models.VipRecord {
	c := *rec
	return &c
}

func copyScanRecord(rec *models.LprScanRecord) *models.LprScanRecord {
	c := *rec
	return &c
}

// PutVisitor inserts or replaces a visitor record.
func (s *Store) PutVisitor(v *models.Visitor) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.visitors[v.ID] = copyVisitor(v)
}

// GetVisitor returns the visitor with the given id.
func (s *Store) GetVisitor(id string) (*models.Visitor, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.visitors[id]
	if !ok {
		return nil, false
	}
	return copyVisitor(v), true
}

// VisitorIDExists reports whether a visitor id is already taken.
func (s *Store) VisitorIDExists(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.visitors[id]
	return ok
}

// Visitors returns a snapshot slice of all visitor records.
func (s *Store) Visitors() []*models.Visitor {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Visitor, 0, len(s.visitors))
	for _, v := range s.visitors {
		out = append(out, copyVisitor(v))
	}
	return out
}

// SetVisitorStatus applies an approval-state transition. Only
// PENDING -> APPROVED and PENDING -> REJECTED are legal.
func (s *Store) SetVisitorStatus(id string, status models.VisitorStatus) (*models.Visitor, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[id]
	if !ok {
		return nil, false
	}
	if v.Status != models.VisitorStatusPending {
		return copyVisitor(v), false
	}
	v.Status = status
	return copyVisitor(v), true
}

// RecordEntry sets the visitor's time-in and the checkpoint it happened
// at, only if time-in is unset. A second entry scan without an
// intervening exit leaves the original timestamp and location alone.
// The updated record is returned for mirroring.
func (s *Store) RecordEntry(visitorID string, location models.AccessLocation, ts time.Time) *models.Visitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil
	}
	if v.TimeIn == nil {
		t := ts
		v.TimeIn = &t
		v.EntryLocation = location
	}
	return copyVisitor(v)
}

// RecordExit sets the visitor's time-out, overwriting any previous value
// so repeated exit attempts keep the latest timestamp. The updated
// record is returned for mirroring.
func (s *Store) RecordExit(visitorID string, ts time.Time) *models.Visitor {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.visitors[visitorID]
	if !ok {
		return nil
	}
	t := ts
	v.TimeOut = &t
	return copyVisitor(v)
}

// PutBlacklistRecord inserts or replaces a ban entry.
func (s *Store) PutBlacklistRecord(rec *models.BlacklistRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.blacklist[rec.ID] = copyBlacklistRecord(rec)
}

// GetBlacklistRecord returns the ban entry with the given id.
func (s *Store) GetBlacklistRecord(id string) (*models.BlacklistRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.blacklist[id]
	if !ok {
		return nil, false
	}
	return copyBlacklistRecord(rec), true
}

// BlacklistRecords returns a snapshot slice of all ban entries.
func (s *Store) BlacklistRecords() []*models.BlacklistRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.BlacklistRecord, 0, len(s.blacklist))
	for _, rec := range s.blacklist {
		out = append(out, copyBlacklistRecord(rec))
	}
	return out
}

// PutVipRecord inserts or replaces a VIP profile.
func (s *Store) PutVipRecord(rec *models.VipRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.vips[rec.ID] = copyVipRecord(rec)
}

// GetVipRecord returns the VIP profile with the given id.
func (s *Store) GetVipRecord(id string) (*models.VipRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.vips[id]
	if !ok {
		return nil, false
	}
	return copyVipRecord(rec), true
}

// VipRecords returns a snapshot slice of all VIP profiles.
func (s *Store) VipRecords() []*models.VipRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.VipRecord, 0, len(s.vips))
	for _, rec := range s.vips {
		out = append(out, copyVipRecord(rec))
	}
	return out
}

// RecordVipMovement stamps the VIP's last entry or exit time according to
// the terminal's explicit mode. The updated record is returned for
// mirroring.
func (s *Store) RecordVipMovement(vipID string, mode models.LPRMode, ts time.Time) *models.VipRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	rec, ok := s.vips[vipID]
	if !ok {
		return nil
	}
	t := ts
	if mode == models.LPRModeExit {
		rec.LastExitTime = &t
	} else {
		rec.LastEntryTime = &t
	}
	return copyVipRecord(rec)
}

// Registries returns a read snapshot of the three registries for the
// matcher.
func (s *Store) Registries() access.Registries {
	s.mu.RLock()
	defer s.mu.RUnlock()
	reg := access.Registries{
		Blacklist: make([]*models.BlacklistRecord, 0, len(s.blacklist)),
		Vips:      make([]*models.VipRecord, 0, len(s.vips)),
		Visitors:  make([]*models.Visitor, 0, len(s.visitors)),
	}
	for _, rec := range s.blacklist {
		reg.Blacklist = append(reg.Blacklist, copyBlacklistRecord(rec))
	}
	for _, rec := range s.vips {
		reg.Vips = append(reg.Vips, copyVipRecord(rec))
	}
	for _, v := range s.visitors {
		reg.Visitors = append(reg.Visitors, copyVisitor(v))
	}
	return reg
}

// AppendAccessLog appends one immutable checkpoint event.
func (s *Store) AppendAccessLog(entry *models.AccessLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessLogs = append(s.accessLogs, entry)
}

// AccessLogs returns the checkpoint events newest-first.
func (s *Store) AccessLogs() []*models.AccessLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.AccessLog, len(s.accessLogs))
	for i, entry := range s.accessLogs {
		out[len(s.accessLogs)-1-i] = entry
	}
	return out
}

// AppendLPRLog appends one immutable plate-recognition event.
func (s *Store) AppendLPRLog(entry *models.LPRLog) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lprLogs = append(s.lprLogs, entry)
}

// LPRLogs returns the plate-recognition events newest-first.
func (s *Store) LPRLogs() []*models.LPRLog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.LPRLog, len(s.lprLogs))
	for i, entry := range s.lprLogs {
		out[len(s.lprLogs)-1-i] = entry
	}
	return out
}

// ScanRecordOpts modifies how a scan-record upsert applies timestamps.
type ScanRecordOpts struct {
	// AttemptedOnly records a blocked or blacklisted attempt: only the
	// attempted timestamp is touched, entry and exit stay as they were.
	AttemptedOnly bool
	Outcome       models.ScanOutcome
	Reason        string
	Gate          string
}

// UpsertScanRecord applies the latest scan to the rolling per-plate
// record. KNOWN status is sticky once a plate has ever resolved; entry is
// set only once per cycle while exit always takes the latest timestamp;
// outcome and reason are overwritten every time; lastSeenAt always moves.
func (s *Store) UpsertScanRecord(plate string, mode models.LPRMode, known bool, ts time.Time, opts ScanRecordOpts) *models.LprScanRecord {
	normalized := access.NormalizePlate(plate)
	if normalized == "" {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	rec, ok := s.scanRecords[normalized]
	if !ok {
		rec = &models.LprScanRecord{
			Plate:  normalized,
			Status: models.ScanStatusUnknown,
		}
		s.scanRecords[normalized] = rec
	}

	if known || rec.Status == models.ScanStatusKnown {
		rec.Status = models.ScanStatusKnown
	} else {
		rec.Status = models.ScanStatusUnknown
	}

	t := ts
	if opts.AttemptedOnly {
		rec.AttemptedAt = &t
	} else if mode == models.LPRModeExit {
		rec.ExitAt = &t
	} else if rec.EntryAt == nil {
		rec.EntryAt = &t
	}

	rec.Outcome = opts.Outcome
	rec.Reason = opts.Reason
	if opts.Gate != "" {
		rec.Gate = opts.Gate
	}
	rec.LastSeenAt = ts
	return copyScanRecord(rec)
}

// GetScanRecord returns the rolling record for a plate, looked up by its
// normalized form.
func (s *Store) GetScanRecord(plate string) (*models.LprScanRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.scanRecords[access.NormalizePlate(plate)]
	if !ok {
		return nil, false
	}
	return copyScanRecord(rec), true
}

// ScanRecords returns a snapshot slice of all rolling plate records.
func (s *Store) ScanRecords() []*models.LprScanRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.LprScanRecord, 0, len(s.scanRecords))
	for _, rec := range s.scanRecords {
		out = append(out, copyScanRecord(rec))
	}
	return out
}
