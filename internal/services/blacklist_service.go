package services

import (
	"fmt"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

var (
	// ErrBlacklistNoIdentifier indicates a ban entry with no identifier at all
	ErrBlacklistNoIdentifier = fmt.Errorf("blacklist record requires at least one of IC number, license plate or phone")

	// ErrBlacklistRecordNotFound indicates an unknown ban entry id
	ErrBlacklistRecordNotFound = fmt.Errorf("blacklist record not found")
)

// BlacklistedError is the policy denial raised when a registration or
// scan matches an ACTIVE ban entry. It carries the ban reason for the
// user-visible message.
type BlacklistedError struct {
	Record *models.BlacklistRecord
}

// Error implements the error interface.
func (e *BlacklistedError) Error() string {
	return fmt.Sprintf("blacklisted: %s", e.Record.Reason)
}

// BlacklistService manages ban entries and performs the short-circuit
// check invoked before registration and before every scan resolution.
type BlacklistService struct {
	store  *store.Store
	mirror *mirror.Mirror
	logger *logrus.Logger
}

// NewBlacklistService creates a new blacklist service.
func NewBlacklistService(st *store.Store, m *mirror.Mirror, logger *logrus.Logger) *BlacklistService {
	return &BlacklistService{store: st, mirror: m, logger: logger}
}

// CreateRecordInput is the payload for a new ban entry.
type CreateRecordInput struct {
	Name         string
	ICNumber     string
	LicensePlate string
	Phone        string
	Reason       string
	CreatedBy    string
}

// Create adds a ban entry. At least one identifier is required.
func (s *BlacklistService) Create(input CreateRecordInput) (*models.BlacklistRecord, error) {
	if input.ICNumber == "" && access.NormalizePlate(input.LicensePlate) == "" && access.NormalizePhone(input.Phone) == "" {
		return nil, ErrBlacklistNoIdentifier
	}

	rec := &models.BlacklistRecord{
		ID:           uuid.New().String(),
		Name:         input.Name,
		ICNumber:     input.ICNumber,
		LicensePlate: input.LicensePlate,
		Phone:        input.Phone,
		Reason:       input.Reason,
		Status:       models.BlacklistStatusActive,
		CreatedBy:    input.CreatedBy,
		Timestamp:    time.Now(),
	}

	s.store.PutBlacklistRecord(rec)
	s.mirror.Set(store.CollectionBlacklist, rec.ID, rec)

	s.logger.WithFields(logrus.Fields{
		"record_id":  rec.ID,
		"created_by": rec.CreatedBy,
	}).Info("Blacklist record created")
	return rec, nil
}

// Unban soft-deactivates a ban entry. The record stays in the registry
// with status UNBANNED so the audit trail is preserved.
func (s *BlacklistService) Unban(id string) (*models.BlacklistRecord, error) {
	rec, ok := s.store.GetBlacklistRecord(id)
	if !ok {
		return nil, ErrBlacklistRecordNotFound
	}

	rec.Status = models.BlacklistStatusUnbanned
	s.store.PutBlacklistRecord(rec)
	s.mirror.Set(store.CollectionBlacklist, rec.ID, rec)

	s.logger.WithField("record_id", rec.ID).Info("Blacklist record unbanned")
	return rec, nil
}

// List returns every ban entry, active and unbanned.
func (s *BlacklistService) List() []*models.BlacklistRecord {
	return s.store.BlacklistRecords()
}

// Check runs the authoritative blacklist match against an identifier
// bundle. The reactive registration pre-check and the scan resolution go
// through this same rule, so the UI warning can never disagree with the
// submit-time veto.
func (s *BlacklistService) Check(icNumber, plate, phone string) *models.BlacklistRecord {
	return access.MatchBlacklist(s.store.BlacklistRecords(), access.IdentifierBundle{
		ICNumber: icNumber,
		Plate:    plate,
		Phone:    phone,
	})
}

// Guard returns a BlacklistedError when the bundle matches an ACTIVE ban
// entry, nil otherwise.
func (s *BlacklistService) Guard(icNumber, plate, phone string) error {
	if rec := s.Check(icNumber, plate, phone); rec != nil {
		return &BlacklistedError{Record: rec}
	}
	return nil
}
