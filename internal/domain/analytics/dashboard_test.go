package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestBuildDashboardEmptyHistory(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	stats := ActivityStats{FavoriteDataType: DataTypeOther}

	report := BuildDashboard(nil, stats, now)

	assert.Empty(t, report.PerformanceData)
	assert.Empty(t, report.DataTypeDistribution)
	assert.Empty(t, report.RecentActivity)
	assert.Equal(t, WelcomeMessage, report.Insights.Summary)
	assert.Len(t, report.Insights.Recommendations, 3)
	assert.Zero(t, report.Stats.ScanGrowth)
	assert.Zero(t, report.Stats.CurrentMonthScans)
}

func TestMonthlyPerformanceBuckets(t *testing.T) {
	records := []AnalysisRecord{
		{Status: StatusCompleted, Accuracy: acc(80), ProcessedAt: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)},
		{Status: StatusCompleted, Accuracy: nil, ProcessedAt: time.Date(2024, 1, 20, 0, 0, 0, 0, time.UTC)},
		{Status: StatusCompleted, Accuracy: acc(90), ProcessedAt: time.Date(2024, 2, 5, 0, 0, 0, 0, time.UTC)},
	}

	buckets := monthlyPerformance(records)

	assert.Len(t, buckets, 2)
	assert.Equal(t, "Jan", buckets[0].Month)
	assert.Equal(t, 2, buckets[0].Scans)
	// A missing accuracy adds 0 to the sum but still counts in the
	// denominator, so January averages 40, not 80.
	assert.Equal(t, 40, buckets[0].Accuracy)
	assert.Equal(t, "Feb", buckets[1].Month)
	assert.Equal(t, 1, buckets[1].Scans)
	assert.Equal(t, 90, buckets[1].Accuracy)
}

func TestDataTypeDistribution(t *testing.T) {
	records := []AnalysisRecord{
		{Status: StatusCompleted, DataType: DataTypeBusiness},
		{Status: StatusCompleted, DataType: DataTypeBusiness},
		{Status: StatusCompleted, DataType: DataTypeFinancial},
	}

	shares := dataTypeDistribution(records)

	assert.Len(t, shares, 2)
	assert.Equal(t, "Business", shares[0].Name)
	assert.Equal(t, 2, shares[0].Value)
	assert.Equal(t, 67, shares[0].Percentage)
	assert.Equal(t, "Financial", shares[1].Name)
	assert.Equal(t, 1, shares[1].Value)
	assert.Equal(t, 33, shares[1].Percentage)
}

func TestRecentActivityWindowAndCap(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	var records []AnalysisRecord
	for i := 0; i < 8; i++ {
		records = append(records, AnalysisRecord{
			FileName:    "recent.csv",
			Status:      StatusCompleted,
			ProcessedAt: now.Add(-time.Duration(i) * time.Hour),
		})
	}
	// Failed records still show in the feed; old ones do not.
	records = append(records,
		AnalysisRecord{FileName: "failed.csv", Status: StatusFailed, ProcessedAt: now.AddDate(0, 0, -2)},
		AnalysisRecord{FileName: "old.csv", Status: StatusCompleted, ProcessedAt: now.AddDate(0, 0, -10)},
	)

	feed := recentActivity(records, now)

	assert.Len(t, feed, 5)
	for i := 1; i < len(feed); i++ {
		assert.False(t, feed[i].ProcessedAt.After(feed[i-1].ProcessedAt))
	}
	for _, entry := range feed {
		assert.NotEqual(t, "old.csv", entry.FileName)
	}
}

func TestScanGrowth(t *testing.T) {
	tests := []struct {
		name     string
		current  int
		previous int
		expected int
	}{
		{"Both zero", 0, 0, 0},
		{"New activity with no prior month", 5, 0, 100},
		{"Doubled", 10, 5, 100},
		{"Halved", 5, 10, -50},
		{"Flat", 7, 7, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, scanGrowth(tt.current, tt.previous))
		})
	}
}

func TestMonthWindowCounts(t *testing.T) {
	now := time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)
	records := []AnalysisRecord{
		{ProcessedAt: now.AddDate(0, 0, -5)},  // current window
		{ProcessedAt: now.AddDate(0, 0, -40)}, // previous window
		{ProcessedAt: now.AddDate(0, 0, -45)}, // previous window
		{ProcessedAt: now.AddDate(0, -3, 0)},  // outside both
	}

	current, previous := monthWindowCounts(records, now)

	assert.Equal(t, 1, current)
	assert.Equal(t, 2, previous)
}

func TestBuildInsightsTemplates(t *testing.T) {
	tests := []struct {
		name      string
		stats     ActivityStats
		current   int
		previous  int
		wantRecs  []string
		wantInSum string
	}{
		{
			name:  "Low accuracy triggers preprocessing tip",
			stats: ActivityStats{TotalScans: 10, TotalSaved: 8, AverageAccuracy: 55, StreakDays: 2},
			wantRecs: []string{
				"Try preprocessing your data for better accuracy",
				"You're doing well at organizing your insights",
				"Try to maintain regular analysis activity",
			},
			wantInSum: "average accuracy of 55%",
		},
		{
			name:    "High accuracy with low save rate and growth",
			stats:   ActivityStats{TotalScans: 10, TotalSaved: 2, AverageAccuracy: 88, StreakDays: 5},
			current: 6, previous: 3,
			wantRecs: []string{
				"Great accuracy! Keep up the excellent work",
				"Consider saving more analyses for future reference",
				"Your analysis frequency is increasing - excellent progress!",
			},
			wantInSum: "10 analyses",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			insights := buildInsights(tt.stats, tt.current, tt.previous)
			assert.Equal(t, tt.wantRecs, insights.Recommendations)
			assert.Contains(t, insights.Summary, tt.wantInSum)
		})
	}
}

func TestBuildDashboardSixMonthWindow(t *testing.T) {
	now := time.Date(2024, 7, 1, 12, 0, 0, 0, time.UTC)
	records := []AnalysisRecord{
		{Status: StatusCompleted, DataType: DataTypeBusiness, Accuracy: acc(90), ProcessedAt: now.AddDate(0, -1, 0)},
		{Status: StatusCompleted, DataType: DataTypeBusiness, Accuracy: acc(70), ProcessedAt: now.AddDate(0, -7, 0)}, // too old
		{Status: StatusFailed, DataType: DataTypeBusiness, ProcessedAt: now.AddDate(0, -1, 0)},                      // not completed
	}
	stats := ActivityStats{TotalScans: 3, AverageAccuracy: 80, FavoriteDataType: DataTypeBusiness}

	report := BuildDashboard(records, stats, now)

	assert.Len(t, report.PerformanceData, 1)
	assert.Equal(t, 1, report.PerformanceData[0].Scans)
	assert.Len(t, report.DataTypeDistribution, 1)
	assert.Equal(t, 100, report.DataTypeDistribution[0].Percentage)
}
