package services

import (
	"fmt"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gatewise/vms-backend/pkg/mailer"
	"github.com/gatewise/vms-backend/pkg/validator"
	"github.com/sirupsen/logrus"
)

// ValidationError is a registration input problem reported before any
// state mutation.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// Purposes whose visits require a staff number and location.
var staffPurposes = map[string]bool{
	models.PurposeVisitStaff: true,
	models.PurposeMeeting:    true,
}

// Service purposes that require a drop-off area at registration.
var dropOffPurposes = map[string]bool{
	models.PurposeEHailingDriver: true,
	models.PurposeFoodServices:   true,
	models.PurposeCourier:        true,
	models.PurposeGarbageTruck:   true,
	models.PurposeSafeguard:      true,
}

// RegistrationService creates visitor records: it validates the input,
// derives and enforces the visit window, vetoes blacklisted identities,
// assigns the QR class and mints the unique visitor code.
type RegistrationService struct {
	store     *store.Store
	mirror    *mirror.Mirror
	blacklist *BlacklistService
	notifier  *Notifier
	contacts  *validator.ContactValidator
	logger    *logrus.Logger

	// now is swappable for tests
	now func() time.Time
}

// NewRegistrationService creates a new registration service.
func NewRegistrationService(st *store.Store, m *mirror.Mirror, blacklist *BlacklistService, notifier *Notifier, logger *logrus.Logger) *RegistrationService {
	return &RegistrationService{
		store:     st,
		mirror:    m,
		blacklist: blacklist,
		notifier:  notifier,
		contacts:  validator.NewContactValidator(),
		logger:    logger,
		now:       time.Now,
	}
}

// RegisterInput is the payload for a new registration.
type RegisterInput struct {
	Name          string
	Contact       string
	Email         string
	ICNumber      string
	Purpose       string
	Type          models.VisitorType
	TransportMode models.TransportMode
	LicensePlate  string

	// Pre-registered window; ignored for ad-hoc walk-ins
	VisitDate time.Time
	EndDate   time.Time

	DropOffArea       string
	SpecifiedLocation string
	StaffNumber       string
	AttachmentURL     string

	RegisteredBy string
}

// Register creates a visitor record. Validation and the blacklist veto
// run before any state is written; a failure leaves no partial record.
func (s *RegistrationService) Register(input RegisterInput) (*models.Visitor, error) {
	now := s.now()

	if input.Name == "" {
		return nil, invalid("name", "name is required")
	}
	if input.ICNumber == "" {
		return nil, invalid("ic_number", "IC number is required")
	}
	if input.Purpose == "" {
		return nil, invalid("purpose", "purpose is required")
	}
	contact, err := s.contacts.Validate(input.Contact)
	if err != nil {
		return nil, invalid("contact", err.Error())
	}
	if input.TransportMode == models.TransportModeCar && access.NormalizePlate(input.LicensePlate) == "" {
		return nil, invalid("license_plate", "license plate is required for car arrivals")
	}

	if err := s.validateConditionalFields(input); err != nil {
		return nil, err
	}

	start, end, err := s.deriveWindow(input, now)
	if err != nil {
		return nil, err
	}

	if input.Type == models.VisitorTypePreregistered && access.IsLongStay(start, end) && input.AttachmentURL == "" {
		return nil, invalid("attachment_url", "supporting document is required for visits longer than 7 days")
	}

	// Authoritative blacklist veto: the registration is aborted in full,
	// no visitor record is created.
	if err := s.blacklist.Guard(input.ICNumber, input.LicensePlate, contact); err != nil {
		s.logger.WithField("ic_number", input.ICNumber).Warn("Registration blocked by blacklist")
		return nil, err
	}

	code, err := GenerateUniqueCode(s.store.VisitorIDExists)
	if err != nil {
		return nil, err
	}

	status := models.VisitorStatusPending
	if input.Type == models.VisitorTypeAdhoc {
		// Walk-ins are created already approved; staff at the counter
		// performed the identity check in person.
		status = models.VisitorStatusApproved
	}

	v := &models.Visitor{
		ID:                code,
		Name:              input.Name,
		Contact:           contact,
		Email:             input.Email,
		ICNumber:          input.ICNumber,
		Purpose:           input.Purpose,
		Type:              input.Type,
		TransportMode:     input.TransportMode,
		LicensePlate:      input.LicensePlate,
		Status:            status,
		QRType:            access.ClassifyQR(input.TransportMode, input.Purpose),
		VisitDate:         start,
		EndDate:           &end,
		DropOffArea:       input.DropOffArea,
		SpecifiedLocation: input.SpecifiedLocation,
		StaffNumber:       input.StaffNumber,
		AttachmentURL:     input.AttachmentURL,
		RegisteredBy:      input.RegisteredBy,
		CreatedAt:         now,
	}

	s.store.PutVisitor(v)
	s.mirror.Set(store.CollectionVisitors, v.ID, v)

	s.logger.WithFields(logrus.Fields{
		"visitor_id": v.ID,
		"type":       v.Type,
		"purpose":    v.Purpose,
		"qr_type":    v.QRType,
	}).Info("Visitor registered")

	s.sendRegistrationMail(v)
	return v, nil
}

// PrecheckBlacklist surfaces the reactive warning shown while a
// registration form is being typed. It uses the same rule as the
// authoritative submit-time check.
func (s *RegistrationService) PrecheckBlacklist(icNumber, plate, phone string) *models.BlacklistRecord {
	return s.blacklist.Check(icNumber, plate, phone)
}

func (s *RegistrationService) validateConditionalFields(input RegisterInput) error {
	if dropOffPurposes[input.Purpose] && input.DropOffArea == "" {
		return invalid("drop_off_area", "drop-off area is required for this purpose")
	}
	if input.Purpose == models.PurposePublic && input.SpecifiedLocation == "" {
		return invalid("specified_location", "specified location is required for Public visits")
	}
	if staffPurposes[input.Purpose] {
		if input.StaffNumber == "" {
			return invalid("staff_number", "staff number is required for this purpose")
		}
		if input.SpecifiedLocation == "" {
			return invalid("specified_location", "location is required for this purpose")
		}
	}
	return nil
}

func (s *RegistrationService) deriveWindow(input RegisterInput, now time.Time) (time.Time, time.Time, error) {
	if input.Type == models.VisitorTypeAdhoc {
		start, end := access.AdhocWindow(input.Purpose, now)
		return start, end, nil
	}

	start, end, err := access.PreregisteredWindow(input.Purpose, input.VisitDate, input.EndDate)
	if err != nil {
		return time.Time{}, time.Time{}, invalid("visit_date", err.Error())
	}
	return start, end, nil
}

func (s *RegistrationService) sendRegistrationMail(v *models.Visitor) {
	if v.Email == "" {
		return
	}

	subject := "Your visit registration"
	var text string
	if v.Status == models.VisitorStatusApproved {
		text = fmt.Sprintf("Hi %s, your visit is confirmed. Your visitor code is %s.", v.Name, v.ID)
	} else {
		subject = "Your visit registration is pending approval"
		text = fmt.Sprintf("Hi %s, your registration was received and is awaiting approval. Your visitor code is %s.", v.Name, v.ID)
	}

	s.notifier.Send(mailer.Message{
		To:      v.Email,
		Subject: subject,
		HTML:    fmt.Sprintf("<p>%s</p>", text),
		Text:    text,
	})
}
