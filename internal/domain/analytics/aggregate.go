package analytics

import "time"

// ComputedStats is the pure aggregation result over a user's full
// record history. The service merges it into the persisted
// ActivityStats row.
type ComputedStats struct {
	TotalScans         int64
	TotalSaved         int64
	TotalDataBytes     int64
	AverageAccuracy    float64
	BestAccuracy       float64
	FavoriteDataType   DataType
	StreakDays         int
	LastActivityAt     time.Time
	TotalProcessingMs  float64
	CompletedAnalyses  int64
	FailedAnalyses     int64
	ProcessingAnalyses int64
}

// RecomputeStats derives the full aggregate from scratch. Records must
// be in insertion order (ascending Seq); the favorite data type
// tie-break depends on it.
//
// TotalScans counts every record regardless of status. All other
// metrics only consider completed records. Records with no accuracy
// reading are excluded from both the average's numerator and its
// denominator, so a history of [80, nil, 90] averages 85.
func RecomputeStats(records []AnalysisRecord, now time.Time) ComputedStats {
	stats := ComputedStats{FavoriteDataType: DataTypeOther}

	var accuracySum float64
	var accuracyCount int64
	typeCounts := make(map[DataType]int64)
	typeFirstSeen := make(map[DataType]int)

	for i, r := range records {
		stats.TotalScans++
		if r.ProcessedAt.After(stats.LastActivityAt) {
			stats.LastActivityAt = r.ProcessedAt
		}

		switch r.Status {
		case StatusFailed:
			stats.FailedAnalyses++
			continue
		case StatusProcessing:
			stats.ProcessingAnalyses++
			continue
		}

		stats.CompletedAnalyses++
		if r.Saved {
			stats.TotalSaved++
		}
		stats.TotalDataBytes += r.FileSizeBytes
		stats.TotalProcessingMs += r.ProcessingTimeMs

		if r.Accuracy != nil {
			accuracySum += *r.Accuracy
			accuracyCount++
			if *r.Accuracy > stats.BestAccuracy {
				stats.BestAccuracy = *r.Accuracy
			}
		}

		if _, ok := typeFirstSeen[r.DataType]; !ok {
			typeFirstSeen[r.DataType] = i
		}
		typeCounts[r.DataType]++
	}

	if accuracyCount > 0 {
		stats.AverageAccuracy = accuracySum / float64(accuracyCount)
	}

	stats.FavoriteDataType = favoriteDataType(typeCounts, typeFirstSeen)
	stats.StreakDays = ComputeStreak(records, now)

	return stats
}

// favoriteDataType picks the most frequent data type among completed
// records. Ties go to the type that appeared first in the history.
func favoriteDataType(counts map[DataType]int64, firstSeen map[DataType]int) DataType {
	favorite := DataTypeOther
	var bestCount int64
	bestFirst := -1

	for dt, count := range counts {
		first := firstSeen[dt]
		if count > bestCount || (count == bestCount && (bestFirst == -1 || first < bestFirst)) {
			favorite = dt
			bestCount = count
			bestFirst = first
		}
	}
	return favorite
}

// ApplyTo merges the computed aggregate into a persisted stats row.
func (c ComputedStats) ApplyTo(stats *ActivityStats) {
	stats.TotalScans = c.TotalScans
	stats.TotalSaved = c.TotalSaved
	stats.TotalDataBytes = c.TotalDataBytes
	stats.AverageAccuracy = c.AverageAccuracy
	stats.BestAccuracy = c.BestAccuracy
	stats.FavoriteDataType = c.FavoriteDataType
	stats.StreakDays = c.StreakDays
	// Last activity is a high-water mark. It is stamped with the add
	// time when a record is tracked, so a recompute over backfilled
	// processing times must not pull it backwards.
	if c.LastActivityAt.After(stats.LastActivityAt) {
		stats.LastActivityAt = c.LastActivityAt
	}
	stats.TotalProcessingMs = c.TotalProcessingMs
	stats.CompletedAnalyses = c.CompletedAnalyses
	stats.FailedAnalyses = c.FailedAnalyses
	stats.ProcessingAnalyses = c.ProcessingAnalyses
}
