package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jaideep-27/insightwiz/internal/api/dto"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"go.uber.org/zap"
)

// AnalyticsHandler serves history tracking and saved-analysis endpoints.
type AnalyticsHandler struct {
	service analytics.Service
	logger  *zap.Logger
}

func NewAnalyticsHandler(service analytics.Service, logger *zap.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{
		service: service,
		logger:  logger,
	}
}

// Track records a processed upload.
func (h *AnalyticsHandler) Track(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	var req dto.TrackAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	record, stats, err := h.service.TrackAnalysis(c.Request.Context(), userID, req.ToInput())
	if err != nil {
		if errors.Is(err, analytics.ErrInvalidInput) {
			c.JSON(http.StatusBadRequest, gin.H{"message": "invalid analysis payload"})
			return
		}
		h.logger.Error("Failed to track analysis",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error tracking analysis"})
		return
	}

	c.JSON(http.StatusCreated, dto.TrackAnalysisResponse{
		Success: true,
		Message: "Analysis tracked successfully",
		Record:  record,
		Stats:   stats,
	})
}

// Save toggles the saved flag on a record.
func (h *AnalyticsHandler) Save(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	recordID, err := uuid.Parse(c.Param("analysisId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid analysis id"})
		return
	}

	var req dto.SaveAnalysisRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "saved flag is required"})
		return
	}

	record, err := h.service.ToggleSave(c.Request.Context(), userID, recordID, *req.Saved)
	if err != nil {
		if errors.Is(err, analytics.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"message": "Analysis not found"})
			return
		}
		h.logger.Error("Failed to toggle save",
			zap.String("user_id", userID.String()),
			zap.String("record_id", recordID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error updating analysis"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Analysis updated successfully",
		"record":  record,
	})
}

// History lists the user's analyses with filters and pagination.
func (h *AnalyticsHandler) History(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	filter := analytics.HistoryFilter{
		Status:    c.DefaultQuery("filter", "all"),
		DataType:  c.DefaultQuery("dataType", "all"),
		SortBy:    c.DefaultQuery("sortBy", analytics.SortByProcessedAt),
		SortOrder: c.DefaultQuery("sortOrder", "desc"),
	}
	if page, err := strconv.Atoi(c.DefaultQuery("page", "1")); err == nil {
		filter.Page = page
	}
	if pageSize, err := strconv.Atoi(c.DefaultQuery("limit", "20")); err == nil {
		filter.PageSize = pageSize
	}

	page, err := h.service.GetHistory(c.Request.Context(), userID, filter)
	if err != nil {
		h.logger.Error("Failed to fetch history",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error fetching analysis history"})
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{
		Success: true,
		Data:    *page,
		Filters: dto.AvailableHistoryFilters(),
	})
}
