package dto

import "github.com/jaideep-27/insightwiz/internal/ai"

// SummaryRequest asks for an AI summary of a dataset payload.
type SummaryRequest struct {
	Data map[string]interface{} `json:"data" binding:"required"`
}

// SummaryResponse carries the generated summary text.
type SummaryResponse struct {
	Success bool   `json:"success"`
	Summary string `json:"summary"`
	Message string `json:"message"`
}

// ChatRequest is one turn of the assistant conversation.
type ChatRequest struct {
	Message string           `json:"message" binding:"required"`
	History []ai.ChatMessage `json:"history"`
}

// ChatResponse carries the assistant's reply.
type ChatResponse struct {
	Success  bool   `json:"success"`
	Response string `json:"response"`
	Message  string `json:"message"`
}

// ProjectIdeasRequest asks for study project suggestions.
type ProjectIdeasRequest struct {
	Subject   string `json:"subject" binding:"required"`
	Level     string `json:"level" binding:"required"`
	Interests string `json:"interests"`
}

// ProjectIdeasResponse carries the generated ideas.
type ProjectIdeasResponse struct {
	Success      bool   `json:"success"`
	ProjectIdeas string `json:"projectIdeas"`
	Message      string `json:"message"`
}

// RewriteFeedbackRequest asks for a tone-adjusted rewrite.
type RewriteFeedbackRequest struct {
	Text string `json:"text" binding:"required"`
	Tone string `json:"tone"`
}

// RewriteFeedbackResponse carries the rewrite and the original.
type RewriteFeedbackResponse struct {
	Success           bool   `json:"success"`
	RewrittenFeedback string `json:"rewrittenFeedback"`
	OriginalText      string `json:"originalText"`
	Message           string `json:"message"`
}

// InsightsResponse carries personalized profile insights.
type InsightsResponse struct {
	Success  bool   `json:"success"`
	Insights string `json:"insights"`
	Message  string `json:"message"`
}
