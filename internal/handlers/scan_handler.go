package handlers

import (
	"errors"
	"net/http"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/middleware"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/services"
	"github.com/gatewise/vms-backend/internal/utils"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// ScanHandler handles checkpoint scan HTTP requests
type ScanHandler struct {
	accessService *services.AccessService
	audit         *services.AuditService
	logger        *logrus.Logger
}

// NewScanHandler creates a new scan handler
func NewScanHandler(accessService *services.AccessService, audit *services.AuditService, logger *logrus.Logger) *ScanHandler {
	return &ScanHandler{
		accessService: accessService,
		audit:         audit,
		logger:        logger,
	}
}

// QRScanRequest is one QR scan from a checkpoint terminal
type QRScanRequest struct {
	Code       string `json:"code" binding:"required"`
	Checkpoint string `json:"checkpoint" binding:"required"`
}

// ScanQR resolves a QR scan at a checkpoint. Denials are a normal
// outcome and return 200 with allowed=false; only malformed requests
// are errors.
// @Summary Resolve a QR scan
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param scanRequest body QRScanRequest true "Scan details"
// @Success 200 {object} services.ScanResult
// @Failure 400 {object} ErrorResponse
// @Router /scan/qr [post]
func (h *ScanHandler) ScanQR(c *gin.Context) {
	var req QRScanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	result, err := h.accessService.ResolveQR(req.Code, access.Checkpoint(req.Checkpoint))
	if err != nil {
		h.respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// OverrideRequest is a guard-entered code bypassing the QR reader
type OverrideRequest struct {
	Code       string `json:"code" binding:"required"`
	Checkpoint string `json:"checkpoint" binding:"required"`
}

// Override resolves a manually entered code. The registry rules still
// apply in full; only the QR-class constraint is skipped. The operating
// user, client IP and device are recorded with the decision.
// @Summary Resolve a manual code entry
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param overrideRequest body OverrideRequest true "Override details"
// @Success 200 {object} services.ScanResult
// @Failure 400 {object} ErrorResponse
// @Router /scan/override [post]
func (h *ScanHandler) Override(c *gin.Context) {
	var req OverrideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	operator := middleware.MustGetUserContext(c).Username
	clientDetails := h.audit.DescribeClient(operator, utils.GetRealIP(c), utils.GetUserAgent(c))

	result, err := h.accessService.ResolveManual(req.Code, access.Checkpoint(req.Checkpoint), clientDetails)
	if err != nil {
		h.respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// LPREventRequest is one plate-recognition event from a camera terminal
type LPREventRequest struct {
	Plate        string  `json:"plate" binding:"required"`
	VehicleColor string  `json:"vehicle_color"`
	Confidence   float64 `json:"confidence"`
	Thumbnail    string  `json:"thumbnail"`
	Mode         string  `json:"mode" binding:"required"`
	Checkpoint   string  `json:"checkpoint" binding:"required"`
}

// LPREvent resolves a plate-recognition event. A repeat event for the
// same plate inside the cooldown window gets 429 and no decision.
// @Summary Resolve a plate-recognition event
// @Tags Scan
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param lprRequest body LPREventRequest true "LPR event"
// @Success 200 {object} services.ScanResult
// @Failure 400 {object} ErrorResponse
// @Failure 429 {object} ErrorResponse
// @Router /scan/lpr [post]
func (h *ScanHandler) LPREvent(c *gin.Context) {
	var req LPREventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body", "details": err.Error()})
		return
	}

	mode := models.LPRMode(req.Mode)
	if mode != models.LPRModeEntry && mode != models.LPRModeExit {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid mode", "details": "mode must be ENTRY or EXIT"})
		return
	}

	result, err := h.accessService.ResolveLPR(services.LPREventInput{
		Plate:        req.Plate,
		VehicleColor: req.VehicleColor,
		Confidence:   req.Confidence,
		Thumbnail:    req.Thumbnail,
		Mode:         mode,
		Checkpoint:   access.Checkpoint(req.Checkpoint),
	})
	if err != nil {
		h.respondScanError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *ScanHandler) respondScanError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrUnknownCheckpoint):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown checkpoint"})
	case errors.Is(err, services.ErrScanCooldown):
		c.JSON(http.StatusTooManyRequests, gin.H{"error": "Plate scanned too recently"})
	default:
		h.logger.WithError(err).Error("Scan resolution failed")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	}
}
