package analytics

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// WelcomeMessage greets users who have not uploaded anything yet.
const WelcomeMessage = "Welcome to InsightWiz! Upload your first file to start analyzing data and tracking your progress."

// StatsOverview is the headline block of the dashboard.
type StatsOverview struct {
	TotalScans         int64    `json:"total_scans"`
	TotalSaved         int64    `json:"total_saved"`
	AverageAccuracy    int      `json:"average_accuracy"`
	BestAccuracy       int      `json:"best_accuracy"`
	StreakDays         int      `json:"streak_days"`
	TotalDataProcessed int64    `json:"total_data_processed"`
	FavoriteDataType   DataType `json:"favorite_data_type"`
	ScanGrowth         int      `json:"scan_growth"`
	CurrentMonthScans  int      `json:"current_month_scans"`
}

// MonthlyPerformance is one month's bucket in the performance chart.
type MonthlyPerformance struct {
	Month    string `json:"month"`
	Scans    int    `json:"scans"`
	Accuracy int    `json:"accuracy"`
}

// DataTypeShare is one slice of the data type distribution chart.
type DataTypeShare struct {
	Name       string `json:"name"`
	Value      int    `json:"value"`
	Percentage int    `json:"percentage"`
}

// ActivitySummary is the compact projection used in the recent
// activity feed.
type ActivitySummary struct {
	ID          uuid.UUID  `json:"id"`
	FileName    string     `json:"file_name"`
	DataType    DataType   `json:"data_type"`
	Status      Status     `json:"status"`
	Accuracy    *float64   `json:"accuracy,omitempty"`
	ProcessedAt time.Time  `json:"processed_at"`
	Saved       bool       `json:"saved"`
}

// DashboardInsights is the templated narrative block.
type DashboardInsights struct {
	Summary         string   `json:"summary"`
	Recommendations []string `json:"recommendations"`
}

// DashboardReport is the full dashboard payload.
type DashboardReport struct {
	Stats                StatsOverview        `json:"stats"`
	PerformanceData      []MonthlyPerformance `json:"performance_data"`
	DataTypeDistribution []DataTypeShare      `json:"data_type_distribution"`
	RecentActivity       []ActivitySummary    `json:"recent_activity"`
	Insights             DashboardInsights    `json:"insights"`
}

// BuildDashboard projects the user's record history and current stats
// into the dashboard payload. Pure; does not mutate its inputs.
func BuildDashboard(records []AnalysisRecord, stats ActivityStats, now time.Time) DashboardReport {
	recentCompleted := completedSince(records, now.AddDate(0, -6, 0))

	currentScans, previousScans := monthWindowCounts(records, now)
	growth := scanGrowth(currentScans, previousScans)

	report := DashboardReport{
		Stats: StatsOverview{
			TotalScans:         stats.TotalScans,
			TotalSaved:         stats.TotalSaved,
			AverageAccuracy:    int(math.Round(stats.AverageAccuracy)),
			BestAccuracy:       int(math.Round(stats.BestAccuracy)),
			StreakDays:         stats.StreakDays,
			TotalDataProcessed: stats.TotalDataBytes,
			FavoriteDataType:   stats.FavoriteDataType,
			ScanGrowth:         growth,
			CurrentMonthScans:  currentScans,
		},
		PerformanceData:      monthlyPerformance(recentCompleted),
		DataTypeDistribution: dataTypeDistribution(recentCompleted),
		RecentActivity:       recentActivity(records, now),
		Insights:             buildInsights(stats, currentScans, previousScans),
	}
	return report
}

// completedSince returns completed records processed at or after the
// cutoff, sorted ascending by processed time.
func completedSince(records []AnalysisRecord, cutoff time.Time) []AnalysisRecord {
	var out []AnalysisRecord
	for _, r := range records {
		if r.IsCompleted() && !r.ProcessedAt.Before(cutoff) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].ProcessedAt.Before(out[j].ProcessedAt)
	})
	return out
}

// monthlyPerformance buckets completed records by month name in order
// of first appearance. Missing accuracy counts as 0 toward the bucket
// average but still occupies a slot in the denominator, unlike the
// global average in RecomputeStats.
func monthlyPerformance(recentCompleted []AnalysisRecord) []MonthlyPerformance {
	type bucket struct {
		count       int
		accuracySum float64
	}
	buckets := make(map[string]*bucket)
	var order []string

	for _, r := range recentCompleted {
		month := r.ProcessedAt.UTC().Format("Jan")
		b, ok := buckets[month]
		if !ok {
			b = &bucket{}
			buckets[month] = b
			order = append(order, month)
		}
		b.count++
		if r.Accuracy != nil {
			b.accuracySum += *r.Accuracy
		}
	}

	out := make([]MonthlyPerformance, 0, len(order))
	for _, month := range order {
		b := buckets[month]
		accuracy := 0
		if b.count > 0 {
			accuracy = int(math.Round(b.accuracySum / float64(b.count)))
		}
		out = append(out, MonthlyPerformance{
			Month:    month,
			Scans:    b.count,
			Accuracy: accuracy,
		})
	}
	return out
}

// dataTypeDistribution counts completed records per data type, in
// order of first appearance, with rounded percentage shares.
func dataTypeDistribution(recentCompleted []AnalysisRecord) []DataTypeShare {
	counts := make(map[DataType]int)
	var order []DataType
	for _, r := range recentCompleted {
		if _, ok := counts[r.DataType]; !ok {
			order = append(order, r.DataType)
		}
		counts[r.DataType]++
	}

	total := len(recentCompleted)
	out := make([]DataTypeShare, 0, len(order))
	for _, dt := range order {
		count := counts[dt]
		percentage := 0
		if total > 0 {
			percentage = int(math.Round(float64(count) / float64(total) * 100))
		}
		out = append(out, DataTypeShare{
			Name:       capitalize(string(dt)),
			Value:      count,
			Percentage: percentage,
		})
	}
	return out
}

// recentActivity lists records from the last 7 days regardless of
// status, newest first, capped to 5 entries.
func recentActivity(records []AnalysisRecord, now time.Time) []ActivitySummary {
	cutoff := now.AddDate(0, 0, -7)
	var recent []AnalysisRecord
	for _, r := range records {
		if !r.ProcessedAt.Before(cutoff) {
			recent = append(recent, r)
		}
	}
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].ProcessedAt.After(recent[j].ProcessedAt)
	})
	if len(recent) > 5 {
		recent = recent[:5]
	}

	out := make([]ActivitySummary, 0, len(recent))
	for _, r := range recent {
		out = append(out, ActivitySummary{
			ID:          r.ID,
			FileName:    r.FileName,
			DataType:    r.DataType,
			Status:      r.Status,
			Accuracy:    r.Accuracy,
			ProcessedAt: r.ProcessedAt,
			Saved:       r.Saved,
		})
	}
	return out
}

// monthWindowCounts counts records in the trailing month window and
// the month before it. Windows are anchored on now, not calendar
// months, and include every status.
func monthWindowCounts(records []AnalysisRecord, now time.Time) (current, previous int) {
	oneMonthAgo := now.AddDate(0, -1, 0)
	twoMonthsAgo := now.AddDate(0, -2, 0)

	for _, r := range records {
		switch {
		case !r.ProcessedAt.Before(oneMonthAgo):
			current++
		case !r.ProcessedAt.Before(twoMonthsAgo):
			previous++
		}
	}
	return current, previous
}

// scanGrowth is the percentage change between the two month windows.
func scanGrowth(current, previous int) int {
	if previous > 0 {
		return int(math.Round(float64(current-previous) / float64(previous) * 100))
	}
	if current > 0 {
		return 100
	}
	return 0
}

// buildInsights renders the templated summary and recommendations.
func buildInsights(stats ActivityStats, currentMonthScans, previousMonthScans int) DashboardInsights {
	if stats.TotalScans == 0 {
		return DashboardInsights{
			Summary: WelcomeMessage,
			Recommendations: []string{
				"Upload your first dataset to get started with AI-powered analysis",
				"Try different file formats like CSV, JSON, or Excel files",
				"Check out the upload section to begin your data journey",
			},
		}
	}

	summary := fmt.Sprintf(
		"You've completed %d analyses with an average accuracy of %d%%. Your %d-day streak shows consistent engagement!",
		stats.TotalScans,
		int(math.Round(stats.AverageAccuracy)),
		stats.StreakDays,
	)

	recommendations := make([]string, 0, 3)
	if stats.AverageAccuracy < 70 {
		recommendations = append(recommendations, "Try preprocessing your data for better accuracy")
	} else {
		recommendations = append(recommendations, "Great accuracy! Keep up the excellent work")
	}
	if float64(stats.TotalSaved) < float64(stats.TotalScans)*0.5 {
		recommendations = append(recommendations, "Consider saving more analyses for future reference")
	} else {
		recommendations = append(recommendations, "You're doing well at organizing your insights")
	}
	if currentMonthScans > previousMonthScans {
		recommendations = append(recommendations, "Your analysis frequency is increasing - excellent progress!")
	} else {
		recommendations = append(recommendations, "Try to maintain regular analysis activity")
	}

	return DashboardInsights{
		Summary:         summary,
		Recommendations: recommendations,
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
