package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func acc(v float64) *float64 {
	return &v
}

func TestRecomputeStats(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	earlier := now.AddDate(0, 0, -10)

	tests := []struct {
		name    string
		records []AnalysisRecord
		check   func(t *testing.T, stats ComputedStats)
	}{
		{
			name:    "Empty history yields zeroed stats",
			records: nil,
			check: func(t *testing.T, stats ComputedStats) {
				assert.Zero(t, stats.TotalScans)
				assert.Zero(t, stats.AverageAccuracy)
				assert.Zero(t, stats.BestAccuracy)
				assert.Equal(t, DataTypeOther, stats.FavoriteDataType)
				assert.Zero(t, stats.StreakDays)
			},
		},
		{
			name: "Missing accuracy excluded from average",
			records: []AnalysisRecord{
				{Status: StatusCompleted, Accuracy: acc(80), ProcessedAt: earlier},
				{Status: StatusCompleted, Accuracy: nil, ProcessedAt: earlier},
				{Status: StatusCompleted, Accuracy: acc(90), ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.InDelta(t, 85.0, stats.AverageAccuracy, 0.001)
				assert.InDelta(t, 90.0, stats.BestAccuracy, 0.001)
			},
		},
		{
			name: "Total scans counts every status",
			records: []AnalysisRecord{
				{Status: StatusCompleted, ProcessedAt: earlier},
				{Status: StatusFailed, ProcessedAt: earlier},
				{Status: StatusProcessing, ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, int64(3), stats.TotalScans)
				assert.Equal(t, int64(1), stats.CompletedAnalyses)
				assert.Equal(t, int64(1), stats.FailedAnalyses)
				assert.Equal(t, int64(1), stats.ProcessingAnalyses)
			},
		},
		{
			name: "Data bytes sum over completed records only",
			records: []AnalysisRecord{
				{Status: StatusCompleted, FileSizeBytes: 1000, ProcessedAt: earlier},
				{Status: StatusCompleted, FileSizeBytes: 500, Accuracy: nil, ProcessedAt: earlier},
				{Status: StatusFailed, FileSizeBytes: 9999, ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, int64(1500), stats.TotalDataBytes)
			},
		},
		{
			name: "Favorite data type is the mode over completed records",
			records: []AnalysisRecord{
				{Status: StatusCompleted, DataType: DataTypeFinancial, ProcessedAt: earlier},
				{Status: StatusCompleted, DataType: DataTypeBusiness, ProcessedAt: earlier},
				{Status: StatusCompleted, DataType: DataTypeFinancial, ProcessedAt: earlier},
				{Status: StatusFailed, DataType: DataTypeBusiness, ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, DataTypeFinancial, stats.FavoriteDataType)
			},
		},
		{
			name: "Favorite data type tie goes to first seen",
			records: []AnalysisRecord{
				{Status: StatusCompleted, DataType: DataTypePersonal, ProcessedAt: earlier},
				{Status: StatusCompleted, DataType: DataTypeBusiness, ProcessedAt: earlier},
				{Status: StatusCompleted, DataType: DataTypeBusiness, ProcessedAt: earlier},
				{Status: StatusCompleted, DataType: DataTypePersonal, ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, DataTypePersonal, stats.FavoriteDataType)
			},
		},
		{
			name: "Saved count only considers completed records",
			records: []AnalysisRecord{
				{Status: StatusCompleted, Saved: true, ProcessedAt: earlier},
				{Status: StatusCompleted, Saved: false, ProcessedAt: earlier},
				{Status: StatusFailed, Saved: true, ProcessedAt: earlier},
				{Status: StatusProcessing, Saved: true, ProcessedAt: earlier},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, int64(1), stats.TotalSaved)
				assert.Equal(t, int64(4), stats.TotalScans)
			},
		},
		{
			name: "Streak computed even with no completed records",
			records: []AnalysisRecord{
				{Status: StatusFailed, ProcessedAt: now},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Zero(t, stats.StreakDays)
			},
		},
		{
			name: "Last activity tracks the newest processed time",
			records: []AnalysisRecord{
				{Status: StatusCompleted, ProcessedAt: earlier},
				{Status: StatusFailed, ProcessedAt: now},
			},
			check: func(t *testing.T, stats ComputedStats) {
				assert.Equal(t, now, stats.LastActivityAt)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, RecomputeStats(tt.records, now))
		})
	}
}

func TestRecomputeStatsDoesNotMutateInput(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	records := []AnalysisRecord{
		{Status: StatusCompleted, Accuracy: acc(75), ProcessedAt: now},
	}
	original := *records[0].Accuracy

	RecomputeStats(records, now)

	assert.Equal(t, original, *records[0].Accuracy)
	assert.Equal(t, StatusCompleted, records[0].Status)
}

func TestApplyTo(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	computed := ComputedStats{
		TotalScans:       4,
		TotalSaved:       2,
		TotalDataBytes:   2048,
		AverageAccuracy:  81.5,
		BestAccuracy:     95,
		FavoriteDataType: DataTypeAcademic,
		StreakDays:       3,
		LastActivityAt:   now,
	}

	stats := &ActivityStats{
		TotalScans:       99,
		FavoriteDataType: DataTypeOther,
	}
	computed.ApplyTo(stats)

	assert.Equal(t, int64(4), stats.TotalScans)
	assert.Equal(t, int64(2), stats.TotalSaved)
	assert.Equal(t, int64(2048), stats.TotalDataBytes)
	assert.InDelta(t, 81.5, stats.AverageAccuracy, 0.001)
	assert.InDelta(t, 95.0, stats.BestAccuracy, 0.001)
	assert.Equal(t, DataTypeAcademic, stats.FavoriteDataType)
	assert.Equal(t, 3, stats.StreakDays)
	assert.Equal(t, now, stats.LastActivityAt)
}

func TestApplyToKeepsNewerLastActivity(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 0, 0, 0, time.UTC)
	computed := ComputedStats{LastActivityAt: now.AddDate(0, 0, -30)}

	stats := &ActivityStats{LastActivityAt: now}
	computed.ApplyTo(stats)

	assert.Equal(t, now, stats.LastActivityAt)
}
