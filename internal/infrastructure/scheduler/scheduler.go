package scheduler

import (
	"context"
	"time"

	"github.com/jaideep-27/insightwiz/internal/domain/analytics"
	"github.com/jaideep-27/insightwiz/pkg/logger"
	"go.uber.org/zap"
)

// Scheduler runs the daily maintenance tick. At midnight it checks for
// a month rollover and freezes the previous month's aggregates into
// snapshots.
type Scheduler struct {
	analyticsService analytics.Service
	logger           *logger.Logger
}

func NewScheduler(analyticsService analytics.Service, logger *logger.Logger) *Scheduler {
	return &Scheduler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

func (s *Scheduler) Start() {
	// Catch up on a possibly missed rollover at startup.
	s.runSnapshotTasks(time.Now().UTC())

	now := time.Now()
	nextMidnight := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
	timeUntilMidnight := nextMidnight.Sub(now)

	s.logger.Info("Snapshot scheduler initialized",
		zap.Time("current_time", now),
		zap.Time("next_run", nextMidnight),
		zap.Duration("time_until_next_run", timeUntilMidnight),
	)

	go func() {
		time.Sleep(timeUntilMidnight)

		s.runSnapshotTasks(time.Now().UTC())

		ticker := time.NewTicker(24 * time.Hour)
		for range ticker.C {
			s.runSnapshotTasks(time.Now().UTC())
		}
	}()
}

// runSnapshotTasks writes snapshots for the month that just ended.
// Upserts make the catch-up run at startup idempotent.
func (s *Scheduler) runSnapshotTasks(now time.Time) {
	ctx := context.Background()
	startTime := time.Now()

	// Anchor on the first of the month before subtracting so late
	// month days cannot normalize into the wrong month.
	firstOfMonth := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	previousMonth := firstOfMonth.AddDate(0, -1, 0)
	year, month := previousMonth.Year(), previousMonth.Month()

	s.logger.Info("Starting monthly snapshot run",
		zap.Int("year", year),
		zap.String("month", month.String()),
	)

	count, err := s.analyticsService.SnapshotAllUsers(ctx, year, month)
	if err != nil {
		s.logger.Error("Failed to run monthly snapshots", zap.Error(err))
		return
	}

	s.logger.Info("Completed monthly snapshot run",
		zap.Int("users_snapshotted", count),
		zap.Duration("duration", time.Since(startTime)),
	)
}
