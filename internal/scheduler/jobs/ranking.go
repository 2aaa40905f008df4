package jobs

import (
	"context"
	"time"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// Refresher is the slice of ranking.Service the jobs drive
type Refresher interface {
	Refresh(ctx context.Context, now time.Time) (fortune.RankingSet, error)
	NeedsRefresh(ctx context.Context, now time.Time) bool
}

// RankingRefreshJob rebuilds the artifact after the morning broadcast
type RankingRefreshJob struct {
	ranking Refresher
	logger  *logger.Logger
	now     func() time.Time
}

// NewRankingRefreshJob creates the daily refresh job
func NewRankingRefreshJob(r Refresher, log *logger.Logger) *RankingRefreshJob {
	return &RankingRefreshJob{
		ranking: r,
		logger:  log,
		now:     time.Now,
	}
}

// Name returns the job name
func (j *RankingRefreshJob) Name() string {
	return "ranking_refresh"
}

// Schedule returns the cron schedule (06:30 KST daily)
func (j *RankingRefreshJob) Schedule() string {
	return "0 30 6 * * *"
}

// Run executes the refresh
func (j *RankingRefreshJob) Run(ctx context.Context) error {
	j.logger.Info("Starting scheduled ranking refresh")

	set, err := j.ranking.Refresh(ctx, j.now())
	if err != nil {
		return err
	}

	j.logger.WithFields(map[string]interface{}{
		"date_kst": set.DateKST,
		"status":   set.Status,
	}).Info("Ranking refresh completed")
	return nil
}

// RankingRetryJob re-runs the refresh until today's artifact is ok
type RankingRetryJob struct {
	ranking Refresher
	logger  *logger.Logger
	now     func() time.Time
}

// NewRankingRetryJob creates the hourly retry sweep
func NewRankingRetryJob(r Refresher, log *logger.Logger) *RankingRetryJob {
	return &RankingRetryJob{
		ranking: r,
		logger:  log,
		now:     time.Now,
	}
}

// Name returns the job name
func (j *RankingRetryJob) Name() string {
	return "ranking_retry"
}

// Schedule returns the cron schedule (07:00-10:00 KST, hourly)
func (j *RankingRetryJob) Schedule() string {
	return "0 0 7-10 * * *"
}

// Run rebuilds only when today's artifact is missing, stale or not ok
func (j *RankingRetryJob) Run(ctx context.Context) error {
	now := j.now()
	if !j.ranking.NeedsRefresh(ctx, now) {
		j.logger.Debug("Today's ranking is ok, skipping retry")
		return nil
	}

	j.logger.Warn("Today's ranking missing or degraded, retrying refresh")
	_, err := j.ranking.Refresh(ctx, now)
	return err
}
