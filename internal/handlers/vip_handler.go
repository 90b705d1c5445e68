package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gatewise/vms-backend/internal/middleware"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// VipHandler handles VIP profile HTTP requests
type VipHandler struct {
	vipService *services.VipService
	logger     *logrus.Logger
}

// NewVipHandler creates a new VIP handler
func NewVipHandler(vipService *services.VipService, logger *logrus.Logger) *VipHandler {
	return &VipHandler{
		vipService: vipService,
		logger:     logger,
	}
}

// CreateVipRequest is the payload for a new VIP profile
type CreateVipRequest struct {
	VipType      string    `json:"vip_type" binding:"required"`
	Designation  string    `json:"designation"`
	Name         string    `json:"name" binding:"required"`
	Contact      string    `json:"contact"`
	ICNumber     string    `json:"ic_number"`
	LicensePlate string    `json:"license_plate" binding:"required"`
	VehicleColor string    `json:"vehicle_color"`
	ValidFrom    time.Time `json:"valid_from" binding:"required"`
	ValidUntil   time.Time `json:"valid_until" binding:"required"`
	AutoApprove  bool      `json:"auto_approve"`
	AutoOpenGate bool      `json:"auto_open_gate"`
	Reason       string    `json:"reason"`
}

// Create adds a VIP profile
// @Summary Create a VIP profile
// @Tags VIP
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createRequest body CreateVipRequest true "VIP details"
// @Success 201 {object} models.VipRecord
// @Failure 400 {object} ErrorResponse
// @Router /vips [post]
func (h *VipHandler) Create(c *gin.Context) {
	var req CreateVipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	record, err := h.vipService.Create(services.CreateVipInput{
		VipType:      models.VipType(req.VipType),
		Designation:  req.Designation,
		Name:         req.Name,
		Contact:      req.Contact,
		ICNumber:     req.ICNumber,
		LicensePlate: req.LicensePlate,
		VehicleColor: req.VehicleColor,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		AutoApprove:  req.AutoApprove,
		AutoOpenGate: req.AutoOpenGate,
		Reason:       req.Reason,
		CreatedBy:    middleware.MustGetUserContext(c).Username,
	})
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// UpdateVipRequest carries mutable VIP profile fields. Omitted fields
// are left unchanged.
type UpdateVipRequest struct {
	Designation  *string    `json:"designation"`
	Contact      *string    `json:"contact"`
	VehicleColor *string    `json:"vehicle_color"`
	ValidFrom    *time.Time `json:"valid_from"`
	ValidUntil   *time.Time `json:"valid_until"`
	AutoApprove  *bool      `json:"auto_approve"`
	AutoOpenGate *bool      `json:"auto_open_gate"`
	Reason       *string    `json:"reason"`
}

// Update applies a partial update to a VIP profile
// @Summary Update a VIP profile
// @Tags VIP
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "VIP record ID"
// @Param updateRequest body UpdateVipRequest true "Fields to update"
// @Success 200 {object} models.VipRecord
// @Failure 400 {object} ErrorResponse
// @Failure 404 {object} ErrorResponse
// @Router /vips/{id} [put]
func (h *VipHandler) Update(c *gin.Context) {
	var req UpdateVipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	record, err := h.vipService.Update(c.Param("id"), services.UpdateVipInput{
		Designation:  req.Designation,
		Contact:      req.Contact,
		VehicleColor: req.VehicleColor,
		ValidFrom:    req.ValidFrom,
		ValidUntil:   req.ValidUntil,
		AutoApprove:  req.AutoApprove,
		AutoOpenGate: req.AutoOpenGate,
		Reason:       req.Reason,
		UpdatedBy:    middleware.MustGetUserContext(c).Username,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrVipNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "VIP record not found"})
		case errors.Is(err, services.ErrVipWindowInverted):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			h.logger.WithError(err).Error("Failed to update VIP record")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update VIP record"})
		}
		return
	}

	c.JSON(http.StatusOK, record)
}

// Deactivate retires a VIP profile. The record is kept for the audit trail.
// @Summary Deactivate a VIP profile
// @Tags VIP
// @Produce json
// @Security BearerAuth
// @Param id path string true "VIP record ID"
// @Success 200 {object} models.VipRecord
// @Failure 404 {object} ErrorResponse
// @Router /vips/{id}/deactivate [post]
func (h *VipHandler) Deactivate(c *gin.Context) {
	record, err := h.vipService.Deactivate(c.Param("id"), middleware.MustGetUserContext(c).Username)
	if err != nil {
		if errors.Is(err, services.ErrVipNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "VIP record not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to deactivate VIP record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to deactivate VIP record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// List returns every VIP profile
// @Summary List VIP profiles
// @Tags VIP
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.VipRecord
// @Router /vips [get]
func (h *VipHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.vipService.List())
}
