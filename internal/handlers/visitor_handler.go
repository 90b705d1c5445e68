package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatewise/vms-backend/internal/middleware"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/services"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gatewise/vms-backend/pkg/ocr"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VisitorHandler handles visitor registration and approval HTTP requests
type VisitorHandler struct {
	registration *services.RegistrationService
	approval     *services.ApprovalService
	extractor    ocr.Extractor
	store        *store.Store
	logger       *logrus.Logger
}

// NewVisitorHandler creates a new visitor handler
func NewVisitorHandler(registration *services.RegistrationService, approval *services.ApprovalService, extractor ocr.Extractor, st *store.Store, logger *logrus.Logger) *VisitorHandler {
	return &VisitorHandler{
		registration: registration,
		approval:     approval,
		extractor:    extractor,
		store:        st,
		logger:       logger,
	}
}

// RegisterRequest is the visitor registration payload
type RegisterRequest struct {
	Name          string `json:"name" binding:"required"`
	Contact       string `json:"contact" binding:"required"`
	Email         string `json:"email"`
	ICNumber      string `json:"ic_number" binding:"required"`
	Purpose       string `json:"purpose" binding:"required"`
	Type          string `json:"type" binding:"required"`
	TransportMode string `json:"transport_mode" binding:"required"`
	LicensePlate  string `json:"license_plate"`

	VisitDate string `json:"visit_date"`
	EndDate   string `json:"end_date"`

	DropOffArea       string `json:"drop_off_area"`
	SpecifiedLocation string `json:"specified_location"`
	StaffNumber       string `json:"staff_number"`
	AttachmentURL     string `json:"attachment_url"`

	RegisteredBy string `json:"registered_by"`
}

// Register handles a visitor registration
// @Summary Register a visitor
// @Tags Visitors
// @Accept json
// @Produce json
// @Param registerRequest body RegisterRequest true "Registration details"
// @Success 201 {object} models.Visitor
// @Failure 400 {object} ErrorResponse
// @Failure 403 {object} ErrorResponse
// @Router /register [post]
func (h *VisitorHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	input := services.RegisterInput{
		Name:              req.Name,
		Contact:           req.Contact,
		Email:             req.Email,
		ICNumber:          req.ICNumber,
		Purpose:           req.Purpose,
		Type:              models.VisitorType(req.Type),
		TransportMode:     models.TransportMode(req.TransportMode),
		LicensePlate:      req.LicensePlate,
		DropOffArea:       req.DropOffArea,
		SpecifiedLocation: req.SpecifiedLocation,
		StaffNumber:       req.StaffNumber,
		AttachmentURL:     req.AttachmentURL,
		RegisteredBy:      req.RegisteredBy,
	}

	if req.VisitDate != "" {
		start, err := time.Parse(time.RFC3339, req.VisitDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid visit_date", "details": "expected RFC3339 timestamp"})
			return
		}
		input.VisitDate = start
	}
	if req.EndDate != "" {
		end, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid end_date", "details": "expected RFC3339 timestamp"})
			return
		}
		input.EndDate = end
	}

	visitor, err := h.registration.Register(input)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": validationErr.Message, "field": validationErr.Field})
			return
		}

		var blockedErr *services.BlacklistedError
		if errors.As(err, &blockedErr) {
			c.JSON(http.StatusForbidden, gin.H{
				"error":  "Registration blocked",
				"reason": blockedErr.Record.Reason,
			})
			return
		}

		h.logger.WithError(err).Error("Registration failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register visitor"})
		return
	}

	c.JSON(http.StatusCreated, visitor)
}

// PrecheckRequest carries the identifiers typed so far
type PrecheckRequest struct {
	ICNumber     string `json:"ic_number"`
	LicensePlate string `json:"license_plate"`
	Contact      string `json:"contact"`
}

// PrecheckResponse tells the form whether any identifier is banned
type PrecheckResponse struct {
	Blocked bool   `json:"blocked"`
	Reason  string `json:"reason,omitempty"`
}

// Precheck reports whether any supplied identifier matches an active ban.
// The registration form calls this while the visitor types; the same rule
// runs again authoritatively at submit.
// @Summary Pre-check identifiers against the blacklist
// @Tags Visitors
// @Accept json
// @Produce json
// @Param precheckRequest body PrecheckRequest true "Identifiers"
// @Success 200 {object} PrecheckResponse
// @Router /register/precheck [post]
func (h *VisitorHandler) Precheck(c *gin.Context) {
	var req PrecheckRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	rec := h.registration.PrecheckBlacklist(req.ICNumber, req.LicensePlate, req.Contact)
	if rec == nil {
		c.JSON(http.StatusOK, PrecheckResponse{Blocked: false})
		return
	}

	c.JSON(http.StatusOK, PrecheckResponse{Blocked: true, Reason: rec.Reason})
}

// ExtractIDRequest carries the captured ID document image
type ExtractIDRequest struct {
	Image string `json:"image" binding:"required"`
}

// ExtractID forwards an ID document image to the OCR collaborator and
// returns whatever fields it recognized. OCR failure is not an error;
// the form simply gets empty fields back.
// @Summary Extract identity fields from an ID document image
// @Tags Visitors
// @Accept json
// @Produce json
// @Param extractRequest body ExtractIDRequest true "Image data URL"
// @Success 200 {object} ocr.Fields
// @Router /register/extract-id [post]
func (h *VisitorHandler) ExtractID(c *gin.Context) {
	var req ExtractIDRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	fields := h.extractor.ExtractIDFields(req.Image)
	c.JSON(http.StatusOK, fields)
}

// Status returns the lifecycle state of a registration by visitor code
// @Summary Check registration status
// @Tags Visitors
// @Produce json
// @Param code path string true "Visitor code"
// @Success 200 {object} gin.H
// @Failure 404 {object} ErrorResponse
// @Router /register/{code}/status [get]
func (h *VisitorHandler) Status(c *gin.Context) {
	code := c.Param("code")

	visitor, ok := h.store.GetVisitor(code)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":      visitor.ID,
		"name":    visitor.Name,
		"status":  visitor.Status,
		"qr_type": visitor.QRType,
	})
}

// List returns all visitor records
// @Summary List visitors
// @Tags Visitors
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.Visitor
// @Router /visitors [get]
func (h *VisitorHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.Visitors())
}

// Get returns a single visitor record
// @Summary Get a visitor
// @Tags Visitors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Visitor code"
// @Success 200 {object} models.Visitor
// @Failure 404 {object} ErrorResponse
// @Router /visitors/{id} [get]
func (h *VisitorHandler) Get(c *gin.Context) {
	visitor, ok := h.store.GetVisitor(c.Param("id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
		return
	}
	c.JSON(http.StatusOK, visitor)
}

// Approve transitions a pending registration to APPROVED
// @Summary Approve a pending visitor
// @Tags Visitors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Visitor code"
// @Success 200 {object} models.Visitor
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /visitors/{id}/approve [post]
func (h *VisitorHandler) Approve(c *gin.Context) {
	h.transition(c, h.approval.Approve)
}

// Reject transitions a pending registration to REJECTED
// @Summary Reject a pending visitor
// @Tags Visitors
// @Produce json
// @Security BearerAuth
// @Param id path string true "Visitor code"
// @Success 200 {object} models.Visitor
// @Failure 404 {object} ErrorResponse
// @Failure 409 {object} ErrorResponse
// @Router /visitors/{id}/reject [post]
func (h *VisitorHandler) Reject(c *gin.Context) {
	h.transition(c, h.approval.Reject)
}

func (h *VisitorHandler) transition(c *gin.Context, apply func(visitorID, operator string) (*models.Visitor, error)) {
	operator := middleware.MustGetUserContext(c).Username

	visitor, err := apply(c.Param("id"), operator)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVisitorNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "Visitor not found"})
		case errors.Is(err, services.ErrNotPending):
			c.JSON(http.StatusConflict, gin.H{"error": "Visitor is not pending approval"})
		default:
			h.logger.WithError(err).Error("Approval transition failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update visitor"})
		}
		return
	}

	c.JSON(http.StatusOK, visitor)
}
