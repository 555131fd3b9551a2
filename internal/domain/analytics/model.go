package analytics

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// DataType categorizes the content of an uploaded dataset.
type DataType string

const (
	DataTypeBusiness    DataType = "business"
	DataTypeFinancial   DataType = "financial"
	DataTypePersonal    DataType = "personal"
	DataTypeAcademic    DataType = "academic"
	DataTypeSurvey      DataType = "survey"
	DataTypeOperational DataType = "operational"
	DataTypeMarketing   DataType = "marketing"
	DataTypeOther       DataType = "other"
)

// AllDataTypes lists every valid data type.
var AllDataTypes = []DataType{
	DataTypeBusiness,
	DataTypeFinancial,
	DataTypePersonal,
	DataTypeAcademic,
	DataTypeSurvey,
	DataTypeOperational,
	DataTypeMarketing,
	DataTypeOther,
}

// ParseDataType normalizes a raw string into a DataType. Unknown values
// map to DataTypeOther so a sloppy client never fails a track call.
func ParseDataType(raw string) DataType {
	for _, dt := range AllDataTypes {
		if DataType(raw) == dt {
			return dt
		}
	}
	return DataTypeOther
}

// Status tracks the lifecycle of an analysis run.
type Status string

const (
	StatusProcessing Status = "processing"
	StatusCompleted  Status = "completed"
	StatusFailed     Status = "failed"
)

// ParseStatus normalizes a raw string into a Status, defaulting to
// StatusCompleted for unknown values.
func ParseStatus(raw string) Status {
	switch Status(raw) {
	case StatusProcessing, StatusCompleted, StatusFailed:
		return Status(raw)
	default:
		return StatusCompleted
	}
}

// AnalysisRecord is one processed upload. Seq is a monotonically
// increasing sequence that preserves insertion order independently of
// timestamps, which backfilled records may share.
type AnalysisRecord struct {
	ID               uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID      `gorm:"type:uuid;not null;index:idx_analysis_user" json:"user_id"`
	Seq              int64          `gorm:"autoIncrement;uniqueIndex" json:"-"`
	FileName         string         `gorm:"size:255;not null" json:"file_name"`
	FileType         string         `gorm:"size:32" json:"file_type"`
	FileSizeBytes    int64          `json:"file_size_bytes"`
	DataType         DataType       `gorm:"type:varchar(20);not null;default:'other';index" json:"data_type"`
	Status           Status         `gorm:"type:varchar(16);not null;default:'processing';index" json:"status"`
	Accuracy         *float64       `json:"accuracy,omitempty"`
	ProcessingTimeMs float64        `json:"processing_time_ms"`
	InsightSummary   string         `gorm:"type:text" json:"insight_summary,omitempty"`
	KeyFindings      pq.StringArray `gorm:"type:text[]" json:"key_findings,omitempty"`
	Recommendations  pq.StringArray `gorm:"type:text[]" json:"recommendations,omitempty"`
	Saved            bool           `gorm:"not null;default:false" json:"saved"`
	SavedAt          *time.Time     `json:"saved_at,omitempty"`
	ProcessedAt      time.Time      `gorm:"not null;index" json:"processed_at"`
	CreatedAt        time.Time      `json:"created_at"`
	UpdatedAt        time.Time      `json:"updated_at"`
}

// TableName specifies the table name for the AnalysisRecord model
func (AnalysisRecord) TableName() string {
	return "analysis_records"
}

// BeforeCreate will set a UUID rather than relying on the database
func (r *AnalysisRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.ProcessedAt.IsZero() {
		r.ProcessedAt = time.Now().UTC()
	}
	return nil
}

// IsCompleted reports whether the analysis finished successfully.
func (r *AnalysisRecord) IsCompleted() bool {
	return r.Status == StatusCompleted
}

// ActivityStats is the per-user rollup recomputed from the full record
// history on every mutation. One row per user.
type ActivityStats struct {
	ID                 uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID             uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"user_id"`
	TotalScans         int64     `gorm:"not null;default:0" json:"total_scans"`
	TotalSaved         int64     `gorm:"not null;default:0" json:"total_saved"`
	TotalDataBytes     int64     `gorm:"not null;default:0" json:"total_data_bytes"`
	AverageAccuracy    float64   `gorm:"not null;default:0" json:"average_accuracy"`
	BestAccuracy       float64   `gorm:"not null;default:0" json:"best_accuracy"`
	FavoriteDataType   DataType  `gorm:"type:varchar(20);not null;default:'other'" json:"favorite_data_type"`
	StreakDays         int       `gorm:"not null;default:0" json:"streak_days"`
	LastActivityAt     time.Time `json:"last_activity_at"`
	TotalProcessingMs  float64   `gorm:"not null;default:0" json:"total_processing_ms"`
	CompletedAnalyses  int64     `gorm:"not null;default:0" json:"completed_analyses"`
	FailedAnalyses     int64     `gorm:"not null;default:0" json:"failed_analyses"`
	ProcessingAnalyses int64     `gorm:"not null;default:0" json:"processing_analyses"`
	CreatedAt          time.Time `json:"created_at"`
	UpdatedAt          time.Time `json:"updated_at"`
}

// TableName specifies the table name for the ActivityStats model
func (ActivityStats) TableName() string {
	return "activity_stats"
}

// BeforeCreate will set a UUID rather than relying on the database
func (s *ActivityStats) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.FavoriteDataType == "" {
		s.FavoriteDataType = DataTypeOther
	}
	return nil
}

// MonthlySnapshot freezes a user's aggregates at a month boundary so
// historical trends survive record deletion.
type MonthlySnapshot struct {
	ID              uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_snapshot_user_month" json:"user_id"`
	Year            int       `gorm:"not null;uniqueIndex:idx_snapshot_user_month" json:"year"`
	Month           int       `gorm:"not null;uniqueIndex:idx_snapshot_user_month" json:"month"`
	TotalScans      int64     `gorm:"not null;default:0" json:"total_scans"`
	TotalSaved      int64     `gorm:"not null;default:0" json:"total_saved"`
	AverageAccuracy float64   `gorm:"not null;default:0" json:"average_accuracy"`
	TotalDataBytes  int64     `gorm:"not null;default:0" json:"total_data_bytes"`
	StreakDays      int       `gorm:"not null;default:0" json:"streak_days"`
	CreatedAt       time.Time `json:"created_at"`
}

// TableName specifies the table name for the MonthlySnapshot model
func (MonthlySnapshot) TableName() string {
	return "monthly_snapshots"
}

// BeforeCreate will set a UUID rather than relying on the database
func (m *MonthlySnapshot) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TrackAnalysisInput carries everything needed to record a new analysis.
type TrackAnalysisInput struct {
	FileName         string
	FileType         string
	FileSizeBytes    int64
	DataType         DataType
	Status           Status
	Accuracy         *float64
	ProcessingTimeMs float64
	InsightSummary   string
	KeyFindings      []string
	Recommendations  []string
	ProcessedAt      *time.Time
}

// HistoryFilter narrows and pages the analysis history listing.
// Unknown status or data type values behave as "all".
type HistoryFilter struct {
	Status    string
	DataType  string
	SortBy    string
	SortOrder string
	Page      int
	PageSize  int
}

// Pagination describes the page window of a history response.
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	TotalPages  int   `json:"total_pages"`
	TotalItems  int64 `json:"total_items"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
}

// HistorySummary counts records across the user's full history,
// ignoring the active filter.
type HistorySummary struct {
	TotalAnalyses     int64 `json:"total_analyses"`
	CompletedAnalyses int64 `json:"completed_analyses"`
	SavedAnalyses     int64 `json:"saved_analyses"`
	FailedAnalyses    int64 `json:"failed_analyses"`
}

// HistoryPage is one page of filtered history plus the global summary.
type HistoryPage struct {
	Records    []AnalysisRecord `json:"records"`
	Pagination Pagination       `json:"pagination"`
	Summary    HistorySummary   `json:"summary"`
}
