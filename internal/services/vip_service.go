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
	// ErrVipNotFound indicates an unknown VIP profile id
	ErrVipNotFound = fmt.Errorf("vip record not found")

	// ErrVipWindowInverted indicates validUntil is not after validFrom
	ErrVipWindowInverted = fmt.Errorf("vip validity window end must be after start")
)

// VipService manages standing priority-access profiles.
type VipService struct {
	store  *store.Store
	mirror *mirror.Mirror
	logger *logrus.Logger
}

// NewVipService creates a new VIP service.
func NewVipService(st *store.Store, m *mirror.Mirror, logger *logrus.Logger) *VipService {
	return &VipService{store: st, mirror: m, logger: logger}
}

// CreateVipInput is the payload for a new VIP profile.
type CreateVipInput struct {
	VipType      models.VipType
	Designation  string
	Name         string
	Contact      string
	ICNumber     string
	LicensePlate string
	VehicleColor string
	ValidFrom    time.Time
	ValidUntil   time.Time
	AutoApprove  bool
	AutoOpenGate bool
	Reason       string
	CreatedBy    string
}

// Create adds a VIP profile.
func (s *VipService) Create(input CreateVipInput) (*models.VipRecord, error) {
	if access.NormalizePlate(input.LicensePlate) == "" {
		return nil, fmt.Errorf("vip record requires a license plate")
	}
	if !input.ValidUntil.After(input.ValidFrom) {
		return nil, ErrVipWindowInverted
	}

	rec := &models.VipRecord{
		ID:           uuid.New().String(),
		VipType:      input.VipType,
		Designation:  input.Designation,
		Name:         input.Name,
		Contact:      input.Contact,
		ICNumber:     input.ICNumber,
		LicensePlate: input.LicensePlate,
		VehicleColor: input.VehicleColor,
		ValidFrom:    input.ValidFrom,
		ValidUntil:   input.ValidUntil,
		AutoApprove:  input.AutoApprove,
		AutoOpenGate: input.AutoOpenGate,
		Reason:       input.Reason,
		Status:       models.VipStatusActive,
		CreatedBy:    input.CreatedBy,
		CreatedAt:    time.Now(),
	}

	s.store.PutVipRecord(rec)
	s.mirror.Set(store.CollectionVips, rec.ID, rec)

	s.logger.WithFields(logrus.Fields{
		"vip_id":   rec.ID,
		"vip_type": rec.VipType,
	}).Info("VIP record created")
	return rec, nil
}

// UpdateVipInput carries mutable VIP profile fields.
type UpdateVipInput struct {
	Designation  *string
	Contact      *string
	VehicleColor *string
	ValidFrom    *time.Time
	ValidUntil   *time.Time
	AutoApprove  *bool
	AutoOpenGate *bool
	Reason       *string
	UpdatedBy    string
}

// Update applies a partial update to a VIP profile. The update is staged
// on a copy and validated before anything is stored, so a rejected
// window leaves the live record exactly as it was.
func (s *VipService) Update(id string, input UpdateVipInput) (*models.VipRecord, error) {
	rec, ok := s.store.GetVipRecord(id)
	if !ok {
		return nil, ErrVipNotFound
	}

	updated := *rec
	if input.Designation != nil {
		updated.Designation = *input.Designation
	}
	if input.Contact != nil {
		updated.Contact = *input.Contact
	}
	if input.VehicleColor != nil {
		updated.VehicleColor = *input.VehicleColor
	}
	if input.ValidFrom != nil {
		updated.ValidFrom = *input.ValidFrom
	}
	if input.ValidUntil != nil {
		updated.ValidUntil = *input.ValidUntil
	}
	if !updated.ValidUntil.After(updated.ValidFrom) {
		return nil, ErrVipWindowInverted
	}
	if input.AutoApprove != nil {
		updated.AutoApprove = *input.AutoApprove
	}
	if input.AutoOpenGate != nil {
		updated.AutoOpenGate = *input.AutoOpenGate
	}
	if input.Reason != nil {
		updated.Reason = *input.Reason
	}

	now := time.Now()
	updated.UpdatedBy = input.UpdatedBy
	updated.UpdatedAt = &now

	s.store.PutVipRecord(&updated)
	s.mirror.Set(store.CollectionVips, updated.ID, &updated)
	return &updated, nil
}

// Deactivate soft-disables a VIP profile. The record is kept for audit.
func (s *VipService) Deactivate(id, updatedBy string) (*models.VipRecord, error) {
	rec, ok := s.store.GetVipRecord(id)
	if !ok {
		return nil, ErrVipNotFound
	}

	now := time.Now()
	rec.Status = models.VipStatusDeactivated
	rec.UpdatedBy = updatedBy
	rec.UpdatedAt = &now

	s.store.PutVipRecord(rec)
	s.mirror.Set(store.CollectionVips, rec.ID, rec)

	s.logger.WithField("vip_id", rec.ID).Info("VIP record deactivated")
	return rec, nil
}

// List returns every VIP profile.
func (s *VipService) List() []*models.VipRecord {
	return s.store.VipRecords()
}

// CheckPlate returns the valid VIP profile for a plate at the given
// instant, or nil.
func (s *VipService) CheckPlate(plate string, now time.Time) *models.VipRecord {
	return access.MatchVipPlate(s.store.VipRecords(), plate, now)
}
