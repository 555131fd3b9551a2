package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/jaideep-27/insightwiz/pkg/config"
	"github.com/sirupsen/logrus"
)

const geminiAPIBase = "https://generativelanguage.googleapis.com/v1beta/models"

var (
	ErrNotConfigured = errors.New("gemini api key not configured")
	ErrEmptyResponse = errors.New("no response from gemini api")
)

// ChatMessage is one turn in an assistant conversation.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Client calls the Gemini generateContent API.
type Client struct {
	apiKey     string
	model      string
	maxTokens  int
	baseURL    string
	httpClient *http.Client
	logger     *logrus.Logger
}

// NewClient constructs a Gemini client. An empty API key is allowed;
// calls then fail with ErrNotConfigured and callers fall back to
// deterministic text.
func NewClient(cfg config.GeminiConfig, logger *logrus.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	model := cfg.Model
	if model == "" {
		model = "gemini-2.0-flash-lite"
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1000
	}
	return &Client{
		apiKey:    cfg.APIKey,
		model:     model,
		maxTokens: maxTokens,
		baseURL:   geminiAPIBase,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// IsConfigured reports whether a live API key is present.
func (c *Client) IsConfigured() bool {
	return c.apiKey != ""
}

type generateContentRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Role  string `json:"role"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateContentResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// Generate sends a single-turn prompt and returns the model's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	if !c.IsConfigured() {
		return "", ErrNotConfigured
	}

	reqBody := generateContentRequest{
		Contents: []content{
			{
				Role:  "user",
				Parts: []part{{Text: prompt}},
			},
		},
		GenerationConfig: generationConfig{
			Temperature:     0.7,
			MaxOutputTokens: c.maxTokens,
		},
	}

	payload, err := json.Marshal(reqBody)
	if err != nil {
		return "", err
	}

	url := fmt.Sprintf("%s/%s:generateContent?key=%s", c.baseURL, c.model, c.apiKey)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.WithError(err).Error("Gemini request failed")
		return "", fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	var parsed generateContentResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return "", fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if parsed.Error != nil {
		c.logger.WithFields(logrus.Fields{
			"status":  parsed.Error.Status,
			"code":    parsed.Error.Code,
			"message": parsed.Error.Message,
		}).Error("Gemini API error")
		return "", fmt.Errorf("gemini api error: %s", parsed.Error.Message)
	}
	if len(parsed.Candidates) == 0 || len(parsed.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	return parsed.Candidates[0].Content.Parts[0].Text, nil
}

// GenerateSummary analyzes a dataset payload. When the live API is
// unavailable it returns the deterministic fallback, flagged so the
// handler can adjust its message.
func (c *Client) GenerateSummary(ctx context.Context, data map[string]interface{}) (summary string, fallback bool) {
	dataType := "business"
	if dt, ok := data["dataType"].(string); ok && dt != "" {
		dataType = dt
	}

	encoded, err := json.Marshal(data)
	if err != nil {
		encoded = []byte("{}")
	}

	prompt := fmt.Sprintf(`As an AI data analyst, analyze this %s data and provide insights:

Data Type: %s
Data: %s

Based on the data type, provide relevant insights:
1. Key trends and patterns
2. Areas of strength and opportunity
3. Areas needing attention
4. Actionable recommendations
5. Strategic insights

Tailor your analysis to the specific domain (business, financial, personal, etc.).
Keep response concise, around 150-200 words.`, dataType, dataType, encoded)

	result, err := c.Generate(ctx, prompt)
	if err != nil {
		c.logger.WithError(err).Info("Using fallback summary due to API unavailability")
		return FallbackSummary(dataType), true
	}
	return result, false
}

// FallbackSummary is the deterministic text served when the live API
// cannot be reached.
func FallbackSummary(dataType string) string {
	if dataType == "" {
		dataType = "business"
	}
	return fmt.Sprintf("Based on your %s data analysis, here are key insights: "+
		"The data shows consistent patterns with several areas of strength and opportunities for improvement. "+
		"Key trends indicate positive momentum in core metrics. "+
		"Focus areas include optimizing performance in underperforming segments and leveraging strengths in high-performing areas. "+
		"The analysis reveals actionable insights that can drive meaningful improvements. "+
		"Continue monitoring these metrics for sustained growth and success.", dataType)
}

// Chat answers a message with prior conversation turns as context.
func (c *Client) Chat(ctx context.Context, message string, history []ChatMessage) (string, error) {
	var transcript strings.Builder
	for _, msg := range history {
		fmt.Fprintf(&transcript, "%s: %s\n", msg.Role, msg.Content)
	}

	prompt := fmt.Sprintf(`You are InsightWhiz AI, a helpful academic assistant. You help students with academic questions, study strategies, performance analysis, and learning recommendations.

Previous conversation:
%s
Student: %s

Provide a helpful, encouraging, and informative response. Keep it conversational and supportive.`, transcript.String(), message)

	return c.Generate(ctx, prompt)
}

// GenerateProjectIdeas produces five project ideas for a student.
func (c *Client) GenerateProjectIdeas(ctx context.Context, subject, level, interests string) (string, error) {
	prompt := fmt.Sprintf(`Generate 5 creative project ideas for a %s level student studying %s.

Student interests: %s

For each project provide:
1. Project title
2. Brief description (2-3 sentences)
3. Key learning objectives
4. Estimated time to complete
5. Difficulty level

Make projects engaging and practical. Format as numbered list.`, level, subject, interests)

	return c.Generate(ctx, prompt)
}

// RewriteFeedback rewrites feedback text with the requested tone.
func (c *Client) RewriteFeedback(ctx context.Context, text, tone string) (string, error) {
	if tone == "" {
		tone = "constructive"
	}
	prompt := fmt.Sprintf(`Rewrite this feedback to be more %s and encouraging while maintaining the core message:

Original: "%s"

Guidelines:
- Keep same key points
- Make more positive and motivating
- Use encouraging language
- Provide actionable advice
- Stay professional

Rewritten feedback:`, tone, text)

	return c.Generate(ctx, prompt)
}

// GenerateInsights produces personalized insights from a profile blob.
func (c *Client) GenerateInsights(ctx context.Context, userData map[string]interface{}) (string, error) {
	encoded, err := json.Marshal(userData)
	if err != nil {
		encoded = []byte("{}")
	}

	prompt := fmt.Sprintf(`As an AI academic advisor, analyze this student profile and provide personalized insights:

Student Data: %s

Provide insights on:
1. Learning patterns and preferences
2. Strengths to leverage
3. Areas for improvement
4. Study recommendations
5. Goal-setting suggestions

Make it personal, actionable, and motivating. Limit to 200 words.`, encoded)

	return c.Generate(ctx, prompt)
}
