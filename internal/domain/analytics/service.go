package analytics

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jaideep-27/insightwiz/internal/domain/events"
	"go.uber.org/zap"
)

// EventPublisher pushes dashboard invalidation events after analytics
// mutations. Satisfied by the Redis cache client.
type EventPublisher interface {
	PublishDashboardEvent(ctx context.Context, event *events.DashboardEvent) error
	InvalidateDashboardCache(ctx context.Context, userID uuid.UUID) error
}

// Service defines the interface for analytics operations
type Service interface {
	TrackAnalysis(ctx context.Context, userID uuid.UUID, input TrackAnalysisInput) (*AnalysisRecord, *ActivityStats, error)
	ToggleSave(ctx context.Context, userID, recordID uuid.UUID, saved bool) (*AnalysisRecord, error)
	GetHistory(ctx context.Context, userID uuid.UUID, filter HistoryFilter) (*HistoryPage, error)
	GetDashboard(ctx context.Context, userID uuid.UUID) (*DashboardReport, error)
	GetStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error)
	SnapshotMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) error
	SnapshotAllUsers(ctx context.Context, year int, month time.Month) (int, error)
	ClearAllData(ctx context.Context) (int64, int64, error)
}

type service struct {
	repo      Repository
	publisher EventPublisher
	logger    *zap.Logger
	userLocks sync.Map // map[uuid.UUID]*sync.Mutex
}

// NewService creates a new analytics service. publisher may be nil
// when Redis is unavailable; mutations then skip cache invalidation.
func NewService(repo Repository, publisher EventPublisher, logger *zap.Logger) Service {
	return &service{
		repo:      repo,
		publisher: publisher,
		logger:    logger,
	}
}

// lockUser serializes the read-recompute-write cycle per user so two
// simultaneous uploads cannot race on the persisted aggregate.
func (s *service) lockUser(userID uuid.UUID) func() {
	value, _ := s.userLocks.LoadOrStore(userID, &sync.Mutex{})
	mu := value.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *service) TrackAnalysis(ctx context.Context, userID uuid.UUID, input TrackAnalysisInput) (*AnalysisRecord, *ActivityStats, error) {
	if input.FileName == "" {
		return nil, nil, ErrInvalidInput
	}

	unlock := s.lockUser(userID)
	defer unlock()

	now := time.Now().UTC()
	processedAt := now
	if input.ProcessedAt != nil {
		processedAt = input.ProcessedAt.UTC()
	}

	record := &AnalysisRecord{
		UserID:           userID,
		FileName:         input.FileName,
		FileType:         input.FileType,
		FileSizeBytes:    input.FileSizeBytes,
		DataType:         input.DataType,
		Status:           input.Status,
		Accuracy:         input.Accuracy,
		ProcessingTimeMs: input.ProcessingTimeMs,
		InsightSummary:   input.InsightSummary,
		KeyFindings:      input.KeyFindings,
		Recommendations:  input.Recommendations,
		ProcessedAt:      processedAt,
	}
	if record.DataType == "" {
		record.DataType = DataTypeOther
	}
	if record.Status == "" {
		record.Status = StatusCompleted
	}

	if err := s.repo.CreateRecord(ctx, record); err != nil {
		s.logger.Error("Failed to create analysis record",
			zap.String("user_id", userID.String()),
			zap.Error(err))
		return nil, nil, err
	}

	stats, err := s.refreshStats(ctx, userID, now, now)
	if err != nil {
		return nil, nil, err
	}

	s.notify(ctx, events.EventTypeAnalysisTracked, userID, record.ID)

	s.logger.Info("Tracked analysis",
		zap.String("user_id", userID.String()),
		zap.String("record_id", record.ID.String()),
		zap.String("data_type", string(record.DataType)),
		zap.String("status", string(record.Status)))

	return record, stats, nil
}

func (s *service) ToggleSave(ctx context.Context, userID, recordID uuid.UUID, saved bool) (*AnalysisRecord, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	record, err := s.repo.FindRecord(ctx, userID, recordID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	record.Saved = saved
	if saved {
		record.SavedAt = &now
	} else {
		record.SavedAt = nil
	}

	if err := s.repo.UpdateRecord(ctx, record); err != nil {
		return nil, err
	}

	if _, err := s.refreshStats(ctx, userID, now, time.Time{}); err != nil {
		return nil, err
	}

	s.notify(ctx, events.EventTypeAnalysisSaved, userID, record.ID)

	return record, nil
}

func (s *service) GetHistory(ctx context.Context, userID uuid.UUID, filter HistoryFilter) (*HistoryPage, error) {
	records, err := s.repo.ListRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	page := FilterHistory(records, filter)
	return &page, nil
}

// GetDashboard recomputes the aggregate before projecting so the
// dashboard never serves stale stats.
func (s *service) GetDashboard(ctx context.Context, userID uuid.UUID) (*DashboardReport, error) {
	unlock := s.lockUser(userID)
	defer unlock()

	now := time.Now().UTC()
	records, err := s.repo.ListRecords(ctx, userID)
	if err != nil {
		return nil, err
	}

	stats, err := s.applyComputedStats(ctx, userID, records, now, time.Time{})
	if err != nil {
		return nil, err
	}

	report := BuildDashboard(records, *stats, now)
	return &report, nil
}

func (s *service) GetStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error) {
	return s.repo.GetOrCreateStats(ctx, userID)
}

// SnapshotMonth freezes the user's aggregates for the given calendar
// month. Records outside the month are ignored.
func (s *service) SnapshotMonth(ctx context.Context, userID uuid.UUID, year int, month time.Month) error {
	records, err := s.repo.ListRecords(ctx, userID)
	if err != nil {
		return err
	}

	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := monthStart.AddDate(0, 1, 0)

	var monthRecords []AnalysisRecord
	for _, r := range records {
		if !r.ProcessedAt.Before(monthStart) && r.ProcessedAt.Before(monthEnd) {
			monthRecords = append(monthRecords, r)
		}
	}

	computed := RecomputeStats(monthRecords, monthEnd)
	snapshot := &MonthlySnapshot{
		UserID:          userID,
		Year:            year,
		Month:           int(month),
		TotalScans:      computed.TotalScans,
		TotalSaved:      computed.TotalSaved,
		AverageAccuracy: computed.AverageAccuracy,
		TotalDataBytes:  computed.TotalDataBytes,
		StreakDays:      computed.StreakDays,
	}

	if err := s.repo.UpsertMonthlySnapshot(ctx, snapshot); err != nil {
		s.logger.Error("Failed to write monthly snapshot",
			zap.String("user_id", userID.String()),
			zap.Int("year", year),
			zap.Int("month", int(month)),
			zap.Error(err))
		return err
	}

	s.logger.Info("Wrote monthly snapshot",
		zap.String("user_id", userID.String()),
		zap.Int("year", year),
		zap.Int("month", int(month)),
		zap.Int64("total_scans", snapshot.TotalScans))
	return nil
}

// SnapshotAllUsers snapshots the given month for every user with
// records in it. Per-user failures are logged and skipped so one bad
// row cannot stall the whole run.
func (s *service) SnapshotAllUsers(ctx context.Context, year int, month time.Month) (int, error) {
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	userIDs, err := s.repo.ListActiveUserIDs(ctx, monthStart)
	if err != nil {
		return 0, err
	}

	snapshotted := 0
	for _, userID := range userIDs {
		if err := s.SnapshotMonth(ctx, userID, year, month); err != nil {
			continue
		}
		snapshotted++
	}
	return snapshotted, nil
}

// ClearAllData deletes every analysis record and zeroes every stats
// row. Destructive and unguarded beyond the admin route.
func (s *service) ClearAllData(ctx context.Context) (int64, int64, error) {
	recordsDeleted, err := s.repo.ClearAllRecords(ctx)
	if err != nil {
		return 0, 0, err
	}

	statsReset, err := s.repo.ResetAllStats(ctx)
	if err != nil {
		return recordsDeleted, 0, err
	}

	s.logger.Warn("Cleared all analytics data",
		zap.Int64("records_deleted", recordsDeleted),
		zap.Int64("stats_reset", statsReset))

	if s.publisher != nil {
		event := events.NewDashboardEvent(events.EventTypeDataCleared, uuid.Nil, uuid.Nil)
		if err := s.publisher.PublishDashboardEvent(ctx, event); err != nil {
			s.logger.Error("Failed to publish clear event", zap.Error(err))
		}
	}

	return recordsDeleted, statsReset, nil
}

// refreshStats reloads the full history and recomputes the aggregate.
// The recompute is authoritative over any provisional counter bumps.
// A non-zero activityAt stamps the row as active at that moment, which
// tracking uses so backfilled processing times never hide a fresh add.
func (s *service) refreshStats(ctx context.Context, userID uuid.UUID, now, activityAt time.Time) (*ActivityStats, error) {
	records, err := s.repo.ListRecords(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.applyComputedStats(ctx, userID, records, now, activityAt)
}

func (s *service) applyComputedStats(ctx context.Context, userID uuid.UUID, records []AnalysisRecord, now, activityAt time.Time) (*ActivityStats, error) {
	stats, err := s.repo.GetOrCreateStats(ctx, userID)
	if err != nil {
		return nil, err
	}

	computed := RecomputeStats(records, now)
	computed.ApplyTo(stats)
	if activityAt.After(stats.LastActivityAt) {
		stats.LastActivityAt = activityAt
	}

	if err := s.repo.SaveStats(ctx, stats); err != nil {
		return nil, err
	}
	return stats, nil
}

// notify publishes the dashboard event and drops the cached payload.
// Failures are logged, not returned; caching is best effort.
func (s *service) notify(ctx context.Context, eventType string, userID, entityID uuid.UUID) {
	if s.publisher == nil {
		return
	}
	event := events.NewDashboardEvent(eventType, userID, entityID)
	if err := s.publisher.PublishDashboardEvent(ctx, event); err != nil {
		s.logger.Error("Failed to publish dashboard event",
			zap.String("event_type", eventType),
			zap.Error(err))
	}
	if err := s.publisher.InvalidateDashboardCache(ctx, userID); err != nil {
		s.logger.Error("Failed to invalidate dashboard cache",
			zap.String("user_id", userID.String()),
			zap.Error(err))
	}
}
