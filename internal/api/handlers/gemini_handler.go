package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jaideep-27/insightwiz/internal/ai"
	"github.com/jaideep-27/insightwiz/internal/api/dto"
	"go.uber.org/zap"
)

// GeminiHandler serves the AI text-generation endpoints.
type GeminiHandler struct {
	client *ai.Client
	logger *zap.Logger
}

func NewGeminiHandler(client *ai.Client, logger *zap.Logger) *GeminiHandler {
	return &GeminiHandler{
		client: client,
		logger: logger,
	}
}

// Summary generates an AI summary for a dataset payload. Falls back
// to deterministic text when the live API is unavailable.
func (h *GeminiHandler) Summary(c *gin.Context) {
	var req dto.SummaryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	summary, fallback := h.client.GenerateSummary(c.Request.Context(), req.Data)

	message := "Summary generated successfully"
	if fallback {
		message = "Insights generated successfully (AI service temporarily unavailable)"
	}

	c.JSON(http.StatusOK, dto.SummaryResponse{
		Success: true,
		Summary: summary,
		Message: message,
	})
}

// Chat answers an assistant message with conversation context.
func (h *GeminiHandler) Chat(c *gin.Context) {
	var req dto.ChatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	response, err := h.client.Chat(c.Request.Context(), req.Message, req.History)
	if err != nil {
		h.aiError(c, "Error generating chat response", err)
		return
	}

	c.JSON(http.StatusOK, dto.ChatResponse{
		Success:  true,
		Response: response,
		Message:  "Chat response generated successfully",
	})
}

// ProjectIdeas generates study project suggestions.
func (h *GeminiHandler) ProjectIdeas(c *gin.Context) {
	var req dto.ProjectIdeasRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	ideas, err := h.client.GenerateProjectIdeas(c.Request.Context(), req.Subject, req.Level, req.Interests)
	if err != nil {
		h.aiError(c, "Error generating project ideas", err)
		return
	}

	c.JSON(http.StatusOK, dto.ProjectIdeasResponse{
		Success:      true,
		ProjectIdeas: ideas,
		Message:      "Project ideas generated successfully",
	})
}

// RewriteFeedback rewrites feedback text with the requested tone.
func (h *GeminiHandler) RewriteFeedback(c *gin.Context) {
	var req dto.RewriteFeedbackRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	rewritten, err := h.client.RewriteFeedback(c.Request.Context(), req.Text, req.Tone)
	if err != nil {
		h.aiError(c, "Error rewriting feedback", err)
		return
	}

	c.JSON(http.StatusOK, dto.RewriteFeedbackResponse{
		Success:           true,
		RewrittenFeedback: rewritten,
		OriginalText:      req.Text,
		Message:           "Feedback rewritten successfully",
	})
}

// Insights generates personalized insights from a profile payload.
func (h *GeminiHandler) Insights(c *gin.Context) {
	var userData map[string]interface{}
	if err := c.ShouldBindJSON(&userData); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": err.Error()})
		return
	}

	insights, err := h.client.GenerateInsights(c.Request.Context(), userData)
	if err != nil {
		h.aiError(c, "Error generating insights", err)
		return
	}

	c.JSON(http.StatusOK, dto.InsightsResponse{
		Success:  true,
		Insights: insights,
		Message:  "Personalized insights generated successfully",
	})
}

func (h *GeminiHandler) aiError(c *gin.Context, message string, err error) {
	if errors.Is(err, ai.ErrNotConfigured) {
		c.JSON(http.StatusServiceUnavailable, gin.H{"message": "AI service is not configured"})
		return
	}
	h.logger.Error(message, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"message": message})
}
