package analytics

import "sort"

// Filter values accepted by the history endpoint.
const (
	FilterAll   = "all"
	FilterSaved = "saved"
)

// Sort fields accepted by the history endpoint. Unknown fields fall
// back to processed time.
const (
	SortByProcessedAt = "processedAt"
	SortByFileName    = "fileName"
	SortByAccuracy    = "accuracy"
)

// FilterHistory applies the filter, sort and pagination rules to a
// user's full record history. Pure; does not mutate input.
//
// The "saved" status filter selects saved records regardless of their
// status. The summary block always reflects the unfiltered history.
func FilterHistory(records []AnalysisRecord, filter HistoryFilter) HistoryPage {
	normalized := normalizeFilter(filter)

	filtered := make([]AnalysisRecord, 0, len(records))
	for _, r := range records {
		if !matchesStatus(r, normalized.Status) {
			continue
		}
		if normalized.DataType != FilterAll && string(r.DataType) != normalized.DataType {
			continue
		}
		filtered = append(filtered, r)
	}

	sortRecords(filtered, normalized.SortBy, normalized.SortOrder)

	totalItems := int64(len(filtered))
	totalPages := int((totalItems + int64(normalized.PageSize) - 1) / int64(normalized.PageSize))

	start := (normalized.Page - 1) * normalized.PageSize
	end := start + normalized.PageSize
	var pageRecords []AnalysisRecord
	if start < len(filtered) {
		if end > len(filtered) {
			end = len(filtered)
		}
		pageRecords = filtered[start:end]
	} else {
		pageRecords = []AnalysisRecord{}
	}

	return HistoryPage{
		Records: pageRecords,
		Pagination: Pagination{
			CurrentPage: normalized.Page,
			TotalPages:  totalPages,
			TotalItems:  totalItems,
			HasNext:     normalized.Page < totalPages,
			HasPrev:     normalized.Page > 1,
		},
		Summary: summarize(records),
	}
}

// normalizeFilter fills defaults so sloppy query parameters never fail
// a listing.
func normalizeFilter(f HistoryFilter) HistoryFilter {
	if f.Status == "" {
		f.Status = FilterAll
	}
	if f.DataType == "" {
		f.DataType = FilterAll
	}
	if f.SortBy == "" {
		f.SortBy = SortByProcessedAt
	}
	if f.SortOrder != "asc" {
		f.SortOrder = "desc"
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}
	return f
}

func matchesStatus(r AnalysisRecord, statusFilter string) bool {
	switch statusFilter {
	case FilterAll:
		return true
	case FilterSaved:
		return r.Saved
	default:
		return string(r.Status) == statusFilter
	}
}

func sortRecords(records []AnalysisRecord, sortBy, sortOrder string) {
	less := func(a, b AnalysisRecord) bool {
		switch sortBy {
		case SortByFileName:
			return a.FileName < b.FileName
		case SortByAccuracy:
			return accuracyOrZero(a) < accuracyOrZero(b)
		default:
			return a.ProcessedAt.Before(b.ProcessedAt)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		if sortOrder == "asc" {
			return less(records[i], records[j])
		}
		return less(records[j], records[i])
	})
}

func accuracyOrZero(r AnalysisRecord) float64 {
	if r.Accuracy == nil {
		return 0
	}
	return *r.Accuracy
}

func summarize(records []AnalysisRecord) HistorySummary {
	var s HistorySummary
	for _, r := range records {
		s.TotalAnalyses++
		if r.Saved {
			s.SavedAnalyses++
		}
		switch r.Status {
		case StatusCompleted:
			s.CompletedAnalyses++
		case StatusFailed:
			s.FailedAnalyses++
		}
	}
	return s
}
