package analytics

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jaideep-27/insightwiz/internal/domain/events"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// mockRepository is an in-memory Repository for service tests.
type mockRepository struct {
	records   []AnalysisRecord
	stats     map[uuid.UUID]*ActivityStats
	snapshots map[string]*MonthlySnapshot
	nextSeq   int64
}

func newMockRepository() *mockRepository {
	return &mockRepository{
		stats:     make(map[uuid.UUID]*ActivityStats),
		snapshots: make(map[string]*MonthlySnapshot),
	}
}

func (m *mockRepository) CreateRecord(ctx context.Context, record *AnalysisRecord) error {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	m.nextSeq++
	record.Seq = m.nextSeq
	m.records = append(m.records, *record)
	return nil
}

func (m *mockRepository) FindRecord(ctx context.Context, userID, recordID uuid.UUID) (*AnalysisRecord, error) {
	for i := range m.records {
		if m.records[i].UserID == userID && m.records[i].ID == recordID {
			record := m.records[i]
			return &record, nil
		}
	}
	return nil, ErrRecordNotFound
}

func (m *mockRepository) ListRecords(ctx context.Context, userID uuid.UUID) ([]AnalysisRecord, error) {
	var out []AnalysisRecord
	for _, r := range m.records {
		if r.UserID == userID {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockRepository) UpdateRecord(ctx context.Context, record *AnalysisRecord) error {
	for i := range m.records {
		if m.records[i].ID == record.ID {
			m.records[i] = *record
			return nil
		}
	}
	return ErrRecordNotFound
}

func (m *mockRepository) GetStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error) {
	stats, ok := m.stats[userID]
	if !ok {
		return nil, ErrStatsNotFound
	}
	copied := *stats
	return &copied, nil
}

func (m *mockRepository) GetOrCreateStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error) {
	if stats, ok := m.stats[userID]; ok {
		copied := *stats
		return &copied, nil
	}
	stats := &ActivityStats{ID: uuid.New(), UserID: userID, FavoriteDataType: DataTypeOther}
	m.stats[userID] = stats
	copied := *stats
	return &copied, nil
}

func (m *mockRepository) SaveStats(ctx context.Context, stats *ActivityStats) error {
	copied := *stats
	m.stats[stats.UserID] = &copied
	return nil
}

func (m *mockRepository) UpsertMonthlySnapshot(ctx context.Context, snapshot *MonthlySnapshot) error {
	key := fmt.Sprintf("%s-%d-%d", snapshot.UserID, snapshot.Year, snapshot.Month)
	copied := *snapshot
	m.snapshots[key] = &copied
	return nil
}

func (m *mockRepository) ListSnapshots(ctx context.Context, userID uuid.UUID) ([]MonthlySnapshot, error) {
	var out []MonthlySnapshot
	for _, s := range m.snapshots {
		if s.UserID == userID {
			out = append(out, *s)
		}
	}
	return out, nil
}

func (m *mockRepository) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	seen := make(map[uuid.UUID]struct{})
	var out []uuid.UUID
	for _, r := range m.records {
		if r.ProcessedAt.Before(since) {
			continue
		}
		if _, ok := seen[r.UserID]; ok {
			continue
		}
		seen[r.UserID] = struct{}{}
		out = append(out, r.UserID)
	}
	return out, nil
}

func (m *mockRepository) ClearAllRecords(ctx context.Context) (int64, error) {
	count := int64(len(m.records))
	m.records = nil
	return count, nil
}

func (m *mockRepository) ResetAllStats(ctx context.Context) (int64, error) {
	count := int64(len(m.stats))
	for id := range m.stats {
		m.stats[id] = &ActivityStats{ID: m.stats[id].ID, UserID: id, FavoriteDataType: DataTypeOther}
	}
	return count, nil
}

// mockPublisher records invalidation traffic.
type mockPublisher struct {
	published   []events.DashboardEvent
	invalidated []uuid.UUID
}

func (m *mockPublisher) PublishDashboardEvent(ctx context.Context, event *events.DashboardEvent) error {
	m.published = append(m.published, *event)
	return nil
}

func (m *mockPublisher) InvalidateDashboardCache(ctx context.Context, userID uuid.UUID) error {
	m.invalidated = append(m.invalidated, userID)
	return nil
}

func newTestService() (Service, *mockRepository, *mockPublisher) {
	repo := newMockRepository()
	publisher := &mockPublisher{}
	return NewService(repo, publisher, zap.NewNop()), repo, publisher
}

func TestTrackAnalysisRecomputesStats(t *testing.T) {
	svc, _, publisher := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	record, stats, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName:      "sales.csv",
		FileType:      "csv",
		FileSizeBytes: 2048,
		DataType:      DataTypeBusiness,
		Status:        StatusCompleted,
		Accuracy:      acc(88),
	})
	require.NoError(t, err)
	require.NotNil(t, record)
	require.NotNil(t, stats)

	assert.Equal(t, int64(1), stats.TotalScans)
	assert.InDelta(t, 88.0, stats.AverageAccuracy, 0.001)
	assert.Equal(t, DataTypeBusiness, stats.FavoriteDataType)
	assert.Equal(t, 1, stats.StreakDays)

	_, stats, err = svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName: "q2.json",
		DataType: DataTypeBusiness,
		Status:   StatusFailed,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), stats.TotalScans)
	// Failed run leaves the completed-only average untouched.
	assert.InDelta(t, 88.0, stats.AverageAccuracy, 0.001)

	require.Len(t, publisher.published, 2)
	assert.Equal(t, events.EventTypeAnalysisTracked, publisher.published[0].EventType)
	assert.Equal(t, []uuid.UUID{userID, userID}, publisher.invalidated)
}

func TestTrackAnalysisRejectsEmptyFileName(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.TrackAnalysis(context.Background(), uuid.New(), TrackAnalysisInput{})

	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestTrackAnalysisDefaultsTypeAndStatus(t *testing.T) {
	svc, _, _ := newTestService()

	record, _, err := svc.TrackAnalysis(context.Background(), uuid.New(), TrackAnalysisInput{
		FileName: "mystery.bin",
	})
	require.NoError(t, err)

	assert.Equal(t, DataTypeOther, record.DataType)
	assert.Equal(t, StatusCompleted, record.Status)
	assert.False(t, record.ProcessedAt.IsZero())
}

func TestTrackAnalysisStampsLastActivityAtAddTime(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	backfilled := time.Now().UTC().AddDate(0, 0, -45)
	before := time.Now().UTC()
	record, stats, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName:    "import.csv",
		Status:      StatusCompleted,
		ProcessedAt: &backfilled,
	})
	require.NoError(t, err)

	// The record keeps its backfilled processing time, but last
	// activity reflects when the record was added.
	assert.Equal(t, backfilled, record.ProcessedAt)
	assert.False(t, stats.LastActivityAt.Before(before))

	// A later recompute over the backfilled history must not pull the
	// stamp backwards.
	_, err = svc.GetDashboard(ctx, userID)
	require.NoError(t, err)
	assert.False(t, repo.stats[userID].LastActivityAt.Before(before))
}

func TestToggleSaveInvariant(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	record, _, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName: "keep.csv",
		Status:   StatusCompleted,
	})
	require.NoError(t, err)

	saved, err := svc.ToggleSave(ctx, userID, record.ID, true)
	require.NoError(t, err)
	assert.True(t, saved.Saved)
	require.NotNil(t, saved.SavedAt)

	unsaved, err := svc.ToggleSave(ctx, userID, record.ID, false)
	require.NoError(t, err)
	assert.False(t, unsaved.Saved)
	assert.Nil(t, unsaved.SavedAt)

	stats, err := svc.GetStats(ctx, userID)
	require.NoError(t, err)
	assert.Zero(t, stats.TotalSaved)
}

func TestToggleSaveUnknownRecord(t *testing.T) {
	svc, _, _ := newTestService()

	_, err := svc.ToggleSave(context.Background(), uuid.New(), uuid.New(), true)

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestToggleSaveOtherUsersRecord(t *testing.T) {
	svc, _, _ := newTestService()
	owner := uuid.New()
	ctx := context.Background()

	record, _, err := svc.TrackAnalysis(ctx, owner, TrackAnalysisInput{FileName: "private.csv"})
	require.NoError(t, err)

	_, err = svc.ToggleSave(ctx, uuid.New(), record.ID, true)

	assert.ErrorIs(t, err, ErrRecordNotFound)
}

func TestGetHistoryThroughService(t *testing.T) {
	svc, _, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	for _, input := range []TrackAnalysisInput{
		{FileName: "one.csv", Status: StatusCompleted, DataType: DataTypeBusiness},
		{FileName: "two.csv", Status: StatusFailed, DataType: DataTypeBusiness},
		{FileName: "three.csv", Status: StatusCompleted, DataType: DataTypeFinancial},
	} {
		_, _, err := svc.TrackAnalysis(ctx, userID, input)
		require.NoError(t, err)
	}

	page, err := svc.GetHistory(ctx, userID, HistoryFilter{Status: "completed"})
	require.NoError(t, err)

	assert.Len(t, page.Records, 2)
	assert.Equal(t, int64(3), page.Summary.TotalAnalyses)
	assert.Equal(t, int64(1), page.Summary.FailedAnalyses)
}

func TestGetDashboardRefreshesStats(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	_, _, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName: "fresh.csv",
		Status:   StatusCompleted,
		DataType: DataTypeAcademic,
		Accuracy: acc(92),
	})
	require.NoError(t, err)

	// Corrupt the persisted aggregate; the dashboard must heal it.
	repo.stats[userID].TotalScans = 999

	report, err := svc.GetDashboard(ctx, userID)
	require.NoError(t, err)

	assert.Equal(t, int64(1), report.Stats.TotalScans)
	assert.Equal(t, DataTypeAcademic, report.Stats.FavoriteDataType)
	assert.Equal(t, 92, report.Stats.AverageAccuracy)
	assert.Len(t, report.RecentActivity, 1)
	assert.NotEqual(t, WelcomeMessage, report.Insights.Summary)
}

func TestGetDashboardEmptyUser(t *testing.T) {
	svc, _, _ := newTestService()

	report, err := svc.GetDashboard(context.Background(), uuid.New())
	require.NoError(t, err)

	assert.Equal(t, WelcomeMessage, report.Insights.Summary)
	assert.Empty(t, report.PerformanceData)
	assert.Empty(t, report.DataTypeDistribution)
}

func TestSnapshotMonth(t *testing.T) {
	svc, repo, _ := newTestService()
	userID := uuid.New()
	ctx := context.Background()

	now := time.Now().UTC()
	inMonth := time.Date(now.Year(), now.Month(), 10, 12, 0, 0, 0, time.UTC)
	_, _, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
		FileName:      "snap.csv",
		Status:        StatusCompleted,
		FileSizeBytes: 512,
		Accuracy:      acc(75),
		ProcessedAt:   &inMonth,
	})
	require.NoError(t, err)

	require.NoError(t, svc.SnapshotMonth(ctx, userID, now.Year(), now.Month()))

	snapshots, err := repo.ListSnapshots(ctx, userID)
	require.NoError(t, err)
	require.Len(t, snapshots, 1)
	assert.Equal(t, int64(1), snapshots[0].TotalScans)
	assert.Equal(t, int64(512), snapshots[0].TotalDataBytes)
	assert.InDelta(t, 75.0, snapshots[0].AverageAccuracy, 0.001)
}

func TestSnapshotAllUsers(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()
	now := time.Now().UTC()

	userA := uuid.New()
	userB := uuid.New()
	inMonth := time.Date(now.Year(), now.Month(), 5, 8, 0, 0, 0, time.UTC)
	for _, userID := range []uuid.UUID{userA, userB} {
		_, _, err := svc.TrackAnalysis(ctx, userID, TrackAnalysisInput{
			FileName:    "batch.csv",
			Status:      StatusCompleted,
			ProcessedAt: &inMonth,
		})
		require.NoError(t, err)
	}

	count, err := svc.SnapshotAllUsers(ctx, now.Year(), now.Month())
	require.NoError(t, err)

	assert.Equal(t, 2, count)
	assert.Len(t, repo.snapshots, 2)
}

func TestClearAllData(t *testing.T) {
	svc, repo, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, _, err := svc.TrackAnalysis(ctx, uuid.New(), TrackAnalysisInput{FileName: "bulk.csv"})
		require.NoError(t, err)
	}

	recordsDeleted, statsReset, err := svc.ClearAllData(ctx)
	require.NoError(t, err)

	assert.Equal(t, int64(3), recordsDeleted)
	assert.Equal(t, int64(3), statsReset)
	assert.Empty(t, repo.records)
	for _, stats := range repo.stats {
		assert.Zero(t, stats.TotalScans)
		assert.Equal(t, DataTypeOther, stats.FavoriteDataType)
	}
}
