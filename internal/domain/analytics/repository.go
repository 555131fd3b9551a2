package analytics

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jaideep-27/insightwiz/internal/infrastructure/persistence/postgres/connection"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrRecordNotFound = errors.New("analysis record not found")
	ErrStatsNotFound  = errors.New("activity stats not found")
	ErrInvalidInput   = errors.New("invalid input")
)

// Repository defines the interface for analytics persistence operations
type Repository interface {
	CreateRecord(ctx context.Context, record *AnalysisRecord) error
	FindRecord(ctx context.Context, userID, recordID uuid.UUID) (*AnalysisRecord, error)
	ListRecords(ctx context.Context, userID uuid.UUID) ([]AnalysisRecord, error)
	UpdateRecord(ctx context.Context, record *AnalysisRecord) error

	GetStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error)
	GetOrCreateStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error)
	SaveStats(ctx context.Context, stats *ActivityStats) error

	UpsertMonthlySnapshot(ctx context.Context, snapshot *MonthlySnapshot) error
	ListSnapshots(ctx context.Context, userID uuid.UUID) ([]MonthlySnapshot, error)
	ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error)

	ClearAllRecords(ctx context.Context) (int64, error)
	ResetAllStats(ctx context.Context) (int64, error)
}

type repository struct {
	db *connection.Database
}

func NewRepository(db *connection.Database) Repository {
	return &repository{db: db}
}

func (r *repository) CreateRecord(ctx context.Context, record *AnalysisRecord) error {
	if record == nil || record.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Create(record).Error
}

func (r *repository) FindRecord(ctx context.Context, userID, recordID uuid.UUID) (*AnalysisRecord, error) {
	var record AnalysisRecord
	result := r.db.WithContext(ctx).
		Where("user_id = ? AND id = ?", userID, recordID).
		First(&record)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrRecordNotFound
		}
		return nil, result.Error
	}
	return &record, nil
}

// ListRecords returns the user's full history in insertion order.
func (r *repository) ListRecords(ctx context.Context, userID uuid.UUID) ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("seq ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repository) UpdateRecord(ctx context.Context, record *AnalysisRecord) error {
	result := r.db.WithContext(ctx).Save(record)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrRecordNotFound
	}
	return nil
}

func (r *repository) GetStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error) {
	var stats ActivityStats
	result := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&stats)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrStatsNotFound
		}
		return nil, result.Error
	}
	return &stats, nil
}

// GetOrCreateStats returns the user's stats row, creating a zeroed one
// if it does not exist yet.
func (r *repository) GetOrCreateStats(ctx context.Context, userID uuid.UUID) (*ActivityStats, error) {
	stats, err := r.GetStats(ctx, userID)
	if err == nil {
		return stats, nil
	}
	if !errors.Is(err, ErrStatsNotFound) {
		return nil, err
	}

	stats = &ActivityStats{
		UserID:           userID,
		FavoriteDataType: DataTypeOther,
	}
	if err := r.db.WithContext(ctx).Create(stats).Error; err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *repository) SaveStats(ctx context.Context, stats *ActivityStats) error {
	if stats == nil || stats.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Save(stats).Error
}

// UpsertMonthlySnapshot writes the snapshot, replacing an existing row
// for the same user and month.
func (r *repository) UpsertMonthlySnapshot(ctx context.Context, snapshot *MonthlySnapshot) error {
	if snapshot == nil || snapshot.UserID == uuid.Nil {
		return ErrInvalidInput
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "year"}, {Name: "month"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"total_scans", "total_saved", "average_accuracy", "total_data_bytes", "streak_days",
		}),
	}).Create(snapshot).Error
}

func (r *repository) ListSnapshots(ctx context.Context, userID uuid.UUID) ([]MonthlySnapshot, error) {
	var snapshots []MonthlySnapshot
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("year ASC, month ASC").
		Find(&snapshots).Error
	if err != nil {
		return nil, err
	}
	return snapshots, nil
}

// ListActiveUserIDs returns the distinct users with records processed
// at or after since. Used by the snapshot scheduler.
func (r *repository) ListActiveUserIDs(ctx context.Context, since time.Time) ([]uuid.UUID, error) {
	var userIDs []uuid.UUID
	err := r.db.WithContext(ctx).
		Model(&AnalysisRecord{}).
		Where("processed_at >= ?", since).
		Distinct("user_id").
		Pluck("user_id", &userIDs).Error
	if err != nil {
		return nil, err
	}
	return userIDs, nil
}

// ClearAllRecords deletes every analysis record for every user.
func (r *repository) ClearAllRecords(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Where("1 = 1").
		Delete(&AnalysisRecord{})
	return result.RowsAffected, result.Error
}

// ResetAllStats zeroes every stats row without deleting the rows.
func (r *repository) ResetAllStats(ctx context.Context) (int64, error) {
	result := r.db.WithContext(ctx).
		Model(&ActivityStats{}).
		Where("1 = 1").
		Updates(map[string]interface{}{
			"total_scans":         0,
			"total_saved":         0,
			"total_data_bytes":    0,
			"average_accuracy":    0,
			"best_accuracy":       0,
			"favorite_data_type":  DataTypeOther,
			"streak_days":         0,
			"total_processing_ms": 0,
			"completed_analyses":  0,
			"failed_analyses":     0,
			"processing_analyses": 0,
		})
	return result.RowsAffected, result.Error
}
