package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/api/dto"
	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"go.uber.org/zap"
)

// AdminHandler serves maintenance endpoints.
type AdminHandler struct {
	service analytics.Service
	logger  *zap.Logger
}

func NewAdminHandler(service analytics.Service, logger *zap.Logger) *AdminHandler {
	return &AdminHandler{
		service: service,
		logger:  logger,
	}
}

// ClearData wipes all analysis records and resets every user's stats.
func (h *AdminHandler) ClearData(c *gin.Context) {
	recordsDeleted, statsReset, err := h.service.ClearAllData(c.Request.Context())
	if err != nil {
		h.logger.Error("Failed to clear analytics data", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error clearing data"})
		return
	}

	h.logger.Warn("All analytics data cleared",
		zap.Int64("records_deleted", recordsDeleted),
		zap.Int64("stats_reset", statsReset))

	c.JSON(http.StatusOK, dto.ClearDataResponse{
		Success:        true,
		Message:        "All sample data cleared successfully",
		RecordsDeleted: recordsDeleted,
		StatsReset:     statsReset,
	})
}
