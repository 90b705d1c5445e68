package services

import (
	"fmt"

	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gatewise/vms-backend/pkg/mailer"
	"github.com/sirupsen/logrus"
)

var (
	// ErrVisitorNotFound indicates an unknown visitor code
	ErrVisitorNotFound = fmt.Errorf("visitor not found")

	// ErrNotPending indicates an approval-state transition from a
	// non-pending record; PENDING is the only state that may move.
	ErrNotPending = fmt.Errorf("visitor is not pending approval")
)

// ApprovalService applies the PENDING -> {APPROVED, REJECTED} transition
// and notifies the visitor of the outcome.
type ApprovalService struct {
	store    *store.Store
	mirror   *mirror.Mirror
	notifier *Notifier
	logger   *logrus.Logger
}

// NewApprovalService creates a new approval service.
func NewApprovalService(st *store.Store, m *mirror.Mirror, notifier *Notifier, logger *logrus.Logger) *ApprovalService {
	return &ApprovalService{store: st, mirror: m, notifier: notifier, logger: logger}
}

// Approve moves a pending registration to APPROVED.
func (s *ApprovalService) Approve(visitorID, approvedBy string) (*models.Visitor, error) {
	return s.transition(visitorID, approvedBy, models.VisitorStatusApproved)
}

// Reject moves a pending registration to REJECTED.
func (s *ApprovalService) Reject(visitorID, rejectedBy string) (*models.Visitor, error) {
	return s.transition(visitorID, rejectedBy, models.VisitorStatusRejected)
}

func (s *ApprovalService) transition(visitorID, operator string, status models.VisitorStatus) (*models.Visitor, error) {
	if _, ok := s.store.GetVisitor(visitorID); !ok {
		return nil, ErrVisitorNotFound
	}

	v, ok := s.store.SetVisitorStatus(visitorID, status)
	if !ok {
		return nil, ErrNotPending
	}

	s.mirror.Set(store.CollectionVisitors, v.ID, v)
	s.logger.WithFields(logrus.Fields{
		"visitor_id": v.ID,
		"status":     v.Status,
		"operator":   operator,
	}).Info("Visitor approval state changed")

	s.sendOutcomeMail(v)
	return v, nil
}

func (s *ApprovalService) sendOutcomeMail(v *models.Visitor) {
	if v.Email == "" {
		return
	}

	var subject, text string
	if v.Status == models.VisitorStatusApproved {
		subject = "Your visit has been approved"
		text = fmt.Sprintf("Hi %s, your visit has been approved. Present code %s at the checkpoint.", v.Name, v.ID)
	} else {
		subject = "Your visit request was declined"
		text = fmt.Sprintf("Hi %s, your visit request was declined. Please contact the front desk for details.", v.Name)
	}

	s.notifier.Send(mailer.Message{
		To:      v.Email,
		Subject: subject,
		HTML:    fmt.Sprintf("<p>%s</p>", text),
		Text:    text,
	})
}
