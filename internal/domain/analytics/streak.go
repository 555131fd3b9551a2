package analytics

import (
	"sort"
	"time"
)

const dayLayout = "2006-01-02"

// ComputeStreak returns the number of consecutive UTC calendar days,
// ending today or yesterday, on which the user completed at least one
// analysis. A gap before today and yesterday resets the streak to 0;
// a streak whose latest day is yesterday is still alive because the
// user has the rest of today to extend it.
func ComputeStreak(records []AnalysisRecord, now time.Time) int {
	seen := make(map[string]struct{})
	var days []string
	for _, r := range records {
		if !r.IsCompleted() {
			continue
		}
		day := r.ProcessedAt.UTC().Format(dayLayout)
		if _, ok := seen[day]; ok {
			continue
		}
		seen[day] = struct{}{}
		days = append(days, day)
	}
	if len(days) == 0 {
		return 0
	}

	sort.Sort(sort.Reverse(sort.StringSlice(days)))

	today := now.UTC().Format(dayLayout)
	yesterday := now.UTC().AddDate(0, 0, -1).Format(dayLayout)
	if days[0] != today && days[0] != yesterday {
		return 0
	}

	anchor, err := time.Parse(dayLayout, days[0])
	if err != nil {
		return 0
	}

	streak := 0
	expected := anchor
	for _, day := range days {
		if day != expected.Format(dayLayout) {
			break
		}
		streak++
		expected = expected.AddDate(0, 0, -1)
	}
	return streak
}
