package dto

import (
	"time"

	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
)

// InsightsPayload mirrors the structured insight block on a record.
type InsightsPayload struct {
	Summary         string   `json:"summary"`
	KeyFindings     []string `json:"keyFindings"`
	Recommendations []string `json:"recommendations"`
}

// TrackAnalysisRequest records a processed upload against the user's
// analytics history.
type TrackAnalysisRequest struct {
	FileName       string          `json:"fileName" binding:"required"`
	FileType       string          `json:"fileType"`
	FileSizeBytes  int64           `json:"fileSize"`
	DataType       string          `json:"dataType"`
	Status         string          `json:"status"`
	Accuracy       *float64        `json:"accuracy"`
	ProcessingTime float64         `json:"processingTime"`
	Insights       InsightsPayload `json:"insights"`
	ProcessedAt    *time.Time      `json:"processedAt"`
}

// ToInput converts the request into the domain input.
func (r TrackAnalysisRequest) ToInput() analytics.TrackAnalysisInput {
	return analytics.TrackAnalysisInput{
		FileName:         r.FileName,
		FileType:         r.FileType,
		FileSizeBytes:    r.FileSizeBytes,
		DataType:         analytics.ParseDataType(r.DataType),
		Status:           analytics.ParseStatus(r.Status),
		Accuracy:         r.Accuracy,
		ProcessingTimeMs: r.ProcessingTime,
		InsightSummary:   r.Insights.Summary,
		KeyFindings:      r.Insights.KeyFindings,
		Recommendations:  r.Insights.Recommendations,
		ProcessedAt:      r.ProcessedAt,
	}
}

// SaveAnalysisRequest toggles the saved flag on a record. A pointer
// distinguishes an explicit false from an absent field.
type SaveAnalysisRequest struct {
	Saved *bool `json:"saved" binding:"required"`
}

// TrackAnalysisResponse returns the new record and refreshed stats.
type TrackAnalysisResponse struct {
	Success bool                      `json:"success"`
	Message string                    `json:"message"`
	Record  *analytics.AnalysisRecord `json:"record"`
	Stats   *analytics.ActivityStats  `json:"stats"`
}

// HistoryResponse is one page of filtered history.
type HistoryResponse struct {
	Success bool                   `json:"success"`
	Data    analytics.HistoryPage  `json:"data"`
	Filters HistoryFiltersMetadata `json:"filters"`
}

// HistoryFiltersMetadata advertises the accepted filter values.
type HistoryFiltersMetadata struct {
	Available []string `json:"available"`
	DataTypes []string `json:"dataTypes"`
}

// AvailableHistoryFilters lists the accepted status filter values.
func AvailableHistoryFilters() HistoryFiltersMetadata {
	dataTypes := []string{"all"}
	for _, dt := range analytics.AllDataTypes {
		dataTypes = append(dataTypes, string(dt))
	}
	return HistoryFiltersMetadata{
		Available: []string{"all", "saved", "completed", "failed", "processing"},
		DataTypes: dataTypes,
	}
}

// DashboardResponse wraps the dashboard payload.
type DashboardResponse struct {
	Success bool                       `json:"success"`
	Data    *analytics.DashboardReport `json:"data"`
}

// ClearDataResponse reports the result of the admin reset.
type ClearDataResponse struct {
	Success        bool   `json:"success"`
	Message        string `json:"message"`
	RecordsDeleted int64  `json:"recordsDeleted"`
	StatsReset     int64  `json:"statsReset"`
}
