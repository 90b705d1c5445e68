package services

import (
	"fmt"
	"time"

	"github.com/gatewise/vms-backend/internal/mirror"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gatewise/vms-backend/internal/utils"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// AuditService appends checkpoint events to the access log. The log is
// append-only; every decision produces exactly one entry regardless of
// outcome.
type AuditService struct {
	store  *store.Store
	mirror *mirror.Mirror
	logger *logrus.Logger
}

// NewAuditService creates a new audit service.
func NewAuditService(st *store.Store, m *mirror.Mirror, logger *logrus.Logger) *AuditService {
	return &AuditService{store: st, mirror: m, logger: logger}
}

// Record appends one access-log entry.
func (s *AuditService) Record(visitorID, visitorName string, action models.AccessAction, location models.AccessLocation, method models.AccessMethod, details string) *models.AccessLog {
	entry := &models.AccessLog{
		ID:          uuid.New().String(),
		VisitorID:   visitorID,
		VisitorName: visitorName,
		Action:      action,
		Location:    location,
		Method:      method,
		Details:     details,
		Timestamp:   time.Now(),
	}

	s.store.AppendAccessLog(entry)
	s.mirror.Set(store.CollectionAccessLogs, entry.ID, entry)

	s.logger.WithFields(logrus.Fields{
		"visitor_id": entry.VisitorID,
		"action":     entry.Action,
		"location":   entry.Location,
		"method":     entry.Method,
	}).Info("Access event recorded")
	return entry
}

// LogLogin records an operator login attempt with client metadata. Login
// events go to the structured log, not the visitor-facing access log.
func (s *AuditService) LogLogin(username, ip, userAgent string, success bool) {
	device := utils.ParseUserAgent(userAgent)
	s.logger.WithFields(logrus.Fields{
		"username":    username,
		"success":     success,
		"ip":          ip,
		"device_type": device.DeviceType,
		"os":          device.OS,
		"browser":     device.Browser,
	}).Info("Operator login attempt")
}

// DescribeClient renders client metadata for access-log details of
// operator-initiated actions such as manual overrides.
func (s *AuditService) DescribeClient(operator, ip, userAgent string) string {
	device := utils.ParseUserAgent(userAgent)
	return fmt.Sprintf("by=%s ip=%s device=%s/%s", operator, ip, device.DeviceType, device.OS)
}
