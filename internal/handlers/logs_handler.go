package handlers

import (
	"net/http"
	"time"

	"github.com/gatewise/vms-backend/internal/access"
	"github.com/gatewise/vms-backend/internal/models"
	"github.com/gatewise/vms-backend/internal/store"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// LogsHandler serves the audit surfaces: access logs, LPR logs and the
// rolling per-plate scan records.
type LogsHandler struct {
	store  *store.Store
	logger *logrus.Logger
}

// NewLogsHandler creates a new logs handler
func NewLogsHandler(st *store.Store, logger *logrus.Logger) *LogsHandler {
	return &LogsHandler{
		store:  st,
		logger: logger,
	}
}

// AccessLogs returns the access log, newest first
// @Summary List access logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.AccessLog
// @Router /logs/access [get]
func (h *LogsHandler) AccessLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.AccessLogs())
}

// LPRLogs returns the plate-recognition log, newest first
// @Summary List LPR logs
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} models.LPRLog
// @Router /logs/lpr [get]
func (h *LogsHandler) LPRLogs(c *gin.Context) {
	c.JSON(http.StatusOK, h.store.LPRLogs())
}

// ScanRecordResponse is a scan record with the derived dwell time
type ScanRecordResponse struct {
	*models.LprScanRecord
	Duration string `json:"duration"`
}

// ScanRecords returns the per-plate scan records with dwell times
// @Summary List per-plate scan records
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Success 200 {array} ScanRecordResponse
// @Router /logs/scans [get]
func (h *LogsHandler) ScanRecords(c *gin.Context) {
	now := time.Now()
	records := h.store.ScanRecords()

	response := make([]ScanRecordResponse, 0, len(records))
	for _, rec := range records {
		response = append(response, ScanRecordResponse{
			LprScanRecord: rec,
			Duration:      access.FormatDuration(rec.EntryAt, rec.ExitAt, now),
		})
	}

	c.JSON(http.StatusOK, response)
}

// ScanRecord returns the scan record for a single plate
// @Summary Get a plate's scan record
// @Tags Logs
// @Produce json
// @Security BearerAuth
// @Param plate path string true "License plate"
// @Success 200 {object} ScanRecordResponse
// @Failure 404 {object} ErrorResponse
// @Router /logs/scans/{plate} [get]
func (h *LogsHandler) ScanRecord(c *gin.Context) {
	rec, ok := h.store.GetScanRecord(c.Param("plate"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Scan record not found"})
		return
	}

	c.JSON(http.StatusOK, ScanRecordResponse{
		LprScanRecord: rec,
		Duration:      access.FormatDuration(rec.EntryAt, rec.ExitAt, time.Now()),
	})
}
