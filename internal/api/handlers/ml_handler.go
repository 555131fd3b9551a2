package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/ai"
	"github.com/jaideep-27/insightwiz/internal/api/middleware"
	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"github.com/jaideep-27/insightwiz/internal/ml"
	"go.uber.org/zap"
)

// maxUploadBytes caps dataset uploads at 10MB.
const maxUploadBytes = 10 << 20

// MLHandler serves file uploads and ML proxy endpoints.
type MLHandler struct {
	client           *ml.Client
	aiClient         *ai.Client
	analyticsService analytics.Service
	logger           *zap.Logger
}

func NewMLHandler(client *ml.Client, aiClient *ai.Client, analyticsService analytics.Service, logger *zap.Logger) *MLHandler {
	return &MLHandler{
		client:           client,
		aiClient:         aiClient,
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// Upload accepts a CSV or JSON dataset, runs it through the ML backend
// and records the result in the user's analytics history.
func (h *MLHandler) Upload(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "user not authenticated"})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "No file uploaded"})
		return
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large. Maximum size is 10MB"})
		return
	}

	mimeType, ok := detectDatasetMime(fileHeader.Filename)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Only CSV and JSON files are supported"})
		return
	}

	dataType := c.PostForm("dataType")
	if dataType == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "dataType is required"})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error reading uploaded file"})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxUploadBytes+1))
	if err != nil {
		h.logger.Error("Failed to read upload", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error reading uploaded file"})
		return
	}
	if len(content) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"message": "File too large. Maximum size is 10MB"})
		return
	}

	result, err := h.client.ProcessData(c.Request.Context(), ml.ProcessDataRequest{
		Filename: fileHeader.Filename,
		Content:  string(content),
		MimeType: mimeType,
		DataType: dataType,
		UserID:   userID.String(),
	})
	if err != nil {
		h.logger.Error("Data processing failed",
			zap.String("user_id", userID.String()),
			zap.String("filename", fileHeader.Filename),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error processing uploaded data"})
		return
	}

	input := trackInputFromResult(fileHeader.Filename, mimeType, int64(len(content)), dataType, result)
	summary, _ := h.aiClient.GenerateSummary(c.Request.Context(), map[string]interface{}{
		"dataType":      dataType,
		"filename":      fileHeader.Filename,
		"processedData": result.ProcessedData,
		"insights":      result.Insights,
	})
	input.InsightSummary = summary

	record, _, err := h.analyticsService.TrackAnalysis(c.Request.Context(), userID, input)
	if err != nil {
		h.logger.Error("Failed to track processed upload",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": "Error tracking analysis"})
		return
	}

	message := "File processed successfully"
	if result.Fallback {
		message = "File processed successfully (offline analysis)"
	}

	c.JSON(http.StatusOK, gin.H{
		"success":  true,
		"data":     result,
		"record":   record,
		"message":  message,
		"filename": fileHeader.Filename,
		"dataType": dataType,
		"fallback": result.Fallback,
	})
}

// trackInputFromResult maps an ML result onto a history entry. Accuracy
// is the backend's data_quality score scaled to a percentage.
func trackInputFromResult(filename, mimeType string, size int64, dataType string, result *ml.ProcessDataResult) analytics.TrackAnalysisInput {
	input := analytics.TrackAnalysisInput{
		FileName:         filename,
		FileType:         mimeType,
		FileSizeBytes:    size,
		DataType:         analytics.ParseDataType(dataType),
		Status:           analytics.StatusCompleted,
		ProcessingTimeMs: result.ProcessingTime * 1000,
	}

	if quality, ok := result.Insights["data_quality"].(float64); ok {
		accuracy := quality * 100
		input.Accuracy = &accuracy
	}
	if recs, ok := result.Insights["recommendations"].([]interface{}); ok {
		for _, r := range recs {
			if s, ok := r.(string); ok {
				input.Recommendations = append(input.Recommendations, s)
			}
		}
	}
	if recs, ok := result.Insights["recommendations"].([]string); ok {
		input.Recommendations = append(input.Recommendations, recs...)
	}

	return input
}

func detectDatasetMime(filename string) (string, bool) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return "text/csv", true
	case ".json":
		return "application/json", true
	default:
		return "", false
	}
}

// Predict proxies a performance prediction request.
func (h *MLHandler) Predict(c *gin.Context) {
	h.proxy(c, h.client.Predict, "Error generating prediction")
}

// Cluster proxies a clustering analysis request.
func (h *MLHandler) Cluster(c *gin.Context) {
	h.proxy(c, h.client.Cluster, "Error running cluster analysis")
}

// Sentiment proxies a sentiment analysis request.
func (h *MLHandler) Sentiment(c *gin.Context) {
	h.proxy(c, h.client.Sentiment, "Error analyzing sentiment")
}

type mlProxyFunc func(ctx context.Context, payload json.RawMessage) (json.RawMessage, error)

func (h *MLHandler) proxy(c *gin.Context, call mlProxyFunc, errMessage string) {
	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "invalid request body"})
		return
	}
	if len(payload) == 0 {
		payload = []byte("{}")
	}

	raw, err := call(c.Request.Context(), payload)
	if err != nil {
		if errors.Is(err, ml.ErrUnavailable) {
			c.JSON(http.StatusServiceUnavailable, gin.H{"message": "ML service is currently unavailable. Please try again later."})
			return
		}
		h.logger.Error(errMessage, zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"message": errMessage})
		return
	}

	c.Data(http.StatusOK, "application/json", raw)
}
