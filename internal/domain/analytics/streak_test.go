package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func completedOn(t time.Time) AnalysisRecord {
	return AnalysisRecord{
		FileName:    "data.csv",
		DataType:    DataTypeBusiness,
		Status:      StatusCompleted,
		ProcessedAt: t,
	}
}

func TestComputeStreak(t *testing.T) {
	now := time.Date(2024, 3, 15, 14, 30, 0, 0, time.UTC)
	day := func(offset int) time.Time {
		return now.AddDate(0, 0, offset)
	}

	tests := []struct {
		name     string
		records  []AnalysisRecord
		expected int
	}{
		{
			name:     "No records returns 0",
			records:  nil,
			expected: 0,
		},
		{
			name: "Single record today",
			records: []AnalysisRecord{
				completedOn(day(0)),
			},
			expected: 1,
		},
		{
			name: "Single record yesterday keeps streak alive",
			records: []AnalysisRecord{
				completedOn(day(-1)),
			},
			expected: 1,
		},
		{
			name: "Most recent activity two days ago breaks streak",
			records: []AnalysisRecord{
				completedOn(day(-2)),
				completedOn(day(-3)),
			},
			expected: 0,
		},
		{
			name: "Consecutive days ending today",
			records: []AnalysisRecord{
				completedOn(day(0)),
				completedOn(day(-1)),
				completedOn(day(-2)),
			},
			expected: 3,
		},
		{
			name: "Gap stops the count without erroring",
			records: []AnalysisRecord{
				completedOn(day(0)),
				completedOn(day(-3)),
			},
			expected: 1,
		},
		{
			name: "Multiple records on the same day count once",
			records: []AnalysisRecord{
				completedOn(day(0).Add(-2 * time.Hour)),
				completedOn(day(0).Add(-1 * time.Hour)),
				completedOn(day(-1)),
			},
			expected: 2,
		},
		{
			name: "Non-completed records are ignored",
			records: []AnalysisRecord{
				{Status: StatusFailed, ProcessedAt: day(0)},
				{Status: StatusProcessing, ProcessedAt: day(0)},
				completedOn(day(-1)),
				completedOn(day(-2)),
			},
			expected: 2,
		},
		{
			name: "Only failed records returns 0",
			records: []AnalysisRecord{
				{Status: StatusFailed, ProcessedAt: day(0)},
			},
			expected: 0,
		},
		{
			name: "Record order does not matter",
			records: []AnalysisRecord{
				completedOn(day(-2)),
				completedOn(day(0)),
				completedOn(day(-1)),
			},
			expected: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ComputeStreak(tt.records, now))
		})
	}
}

func TestComputeStreakCrossesMonthBoundary(t *testing.T) {
	now := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	records := []AnalysisRecord{
		completedOn(time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)),
		completedOn(time.Date(2024, 2, 29, 23, 0, 0, 0, time.UTC)),
		completedOn(time.Date(2024, 2, 28, 1, 0, 0, 0, time.UTC)),
	}
	assert.Equal(t, 3, ComputeStreak(records, now))
}
