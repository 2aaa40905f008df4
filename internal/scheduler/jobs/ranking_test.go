package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

type fakeRefresher struct {
	needs     bool
	err       error
	refreshed int
}

func (f *fakeRefresher) Refresh(context.Context, time.Time) (fortune.RankingSet, error) {
	f.refreshed++
	return fortune.RankingSet{DateKST: "2026-10-16", Status: fortune.StatusOK}, f.err
}

func (f *fakeRefresher) NeedsRefresh(context.Context, time.Time) bool {
	return f.needs
}

func TestRankingRefreshJob(t *testing.T) {
	r := &fakeRefresher{}
	job := NewRankingRefreshJob(r, logger.Nop())

	assert.Equal(t, "ranking_refresh", job.Name())
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, r.refreshed)

	r.err = errors.New("scrape failed")
	assert.Error(t, job.Run(context.Background()))
}

func TestRankingRetryJob(t *testing.T) {
	r := &fakeRefresher{needs: false}
	job := NewRankingRetryJob(r, logger.Nop())

	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 0, r.refreshed, "ok artifact is left alone")

	r.needs = true
	require.NoError(t, job.Run(context.Background()))
	assert.Equal(t, 1, r.refreshed)

	r.err = errors.New("still failing")
	assert.Error(t, job.Run(context.Background()))
}

func TestSchedules(t *testing.T) {
	parser := cron.NewParser(cron.Second | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor)
	kst := time.FixedZone("KST", 9*3600)
	from := time.Date(2026, 10, 16, 0, 0, 0, 0, kst)

	refresh, err := parser.Parse(NewRankingRefreshJob(nil, logger.Nop()).Schedule())
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 10, 16, 6, 30, 0, 0, kst), refresh.Next(from))

	retry, err := parser.Parse(NewRankingRetryJob(nil, logger.Nop()).Schedule())
	require.NoError(t, err)
	next := retry.Next(from)
	var hours []int
	for i := 0; i < 4; i++ {
		hours = append(hours, next.Hour())
		next = retry.Next(next)
	}
	assert.Equal(t, []int{7, 8, 9, 10}, hours)
	assert.Equal(t, 7, next.Hour(), "wraps to the next morning")
	assert.Equal(t, 17, next.Day())
}
