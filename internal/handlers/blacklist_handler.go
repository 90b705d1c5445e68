package handlers

import (
	"errors"
	"net/http"

	"github.com/gatewise/vms-backend/internal/middleware"
	"github.com/gatewise/vms-backend/internal/services"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// BlacklistHandler handles ban-registry HTTP requests
type BlacklistHandler struct {
	blacklistService *services.BlacklistService
	logger           *logrus.Logger
}

// NewBlacklistHandler creates a new blacklist handler
func NewBlacklistHandler(blacklistService *services.BlacklistService, logger *logrus.Logger) *BlacklistHandler {
	return &BlacklistHandler{
		blacklistService: blacklistService,
		logger:           logger,
	}
}

// CreateBlacklistRequest is the payload for a new ban entry
type CreateBlacklistRequest struct {
	Name         string `json:"name"`
	ICNumber     string `json:"ic_number"`
	LicensePlate string `json:"license_plate"`
	Phone        string `json:"phone"`
	Reason       string `json:"reason" binding:"required"`
}

// Create adds a ban entry. At least one identifier must be supplied.
// @Summary Create a blacklist record
// @Tags Blacklist
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param createRequest body CreateBlacklistRequest true "Ban details"
// @Success 201 {object} models.BlacklistRecord
// @Failure 400 {object} ErrorResponse
// @Router /blacklist [post]
func (h *BlacklistHandler) Create(c *gin.Context) {
	var req CreateBlacklistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	record, err := h.blacklistService.Create(services.CreateRecordInput{
		Name:         req.Name,
		ICNumber:     req.ICNumber,
		LicensePlate: req.LicensePlate,
		Phone:        req.Phone,
		Reason:       req.Reason,
		CreatedBy:    middleware.MustGetUserContext(c).Username,
	})
	if err != nil {
		if errors.Is(err, services.ErrBlacklistNoIdentifier) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to create blacklist record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create blacklist record"})
		return
	}

	c.JSON(http.StatusCreated, record)
}

// Unban deactivates a ban entry. The record is kept with status UNBANNED.
// @Summary Unban a blacklist record
// @Tags Blacklist
// @Produce json
// @Security BearerAuth
// @Param id path string true "Record ID"
// @Success 200 {object} models.BlacklistRecord
// @Failure 404 {object} ErrorResponse
// @Router /blacklist/{id}/unban [post]
func (h *BlacklistHandler) Unban(c *gin.Context) {
	record, err := h.blacklistService.Unban(c.Param("id"))
	if err != nil {
		if errors.Is(err, services.ErrBlacklistRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Blacklist record not found"})
			return
		}
		h.logger.WithError(err).Error("Failed to unban blacklist record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to unban blacklist record"})
		return
	}

	c.JSON(http.StatusOK, record)
}

// List returns every ban entry, active and unbanned
// @Summary List blacklist records
// @Tags Blacklist
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.BlacklistRecord
// @Router /blacklist [get]
func (h *BlacklistHandler) List(c *gin.Context) {
	c.JSON(http.StatusOK, h.blacklistService.List())
}
