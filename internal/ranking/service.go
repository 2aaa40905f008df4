package ranking

import (
	"context"
	"errors"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/wonny/ohaasa/backend/internal/artifact"
	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/internal/realtime"
	"github.com/wonny/ohaasa/backend/internal/store"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// ErrNotAvailable is returned when no ranking exists for the requested date
var ErrNotAvailable = errors.New("ranking not available")

const (
	cacheTTL     = time.Minute
	cacheCleanup = 5 * time.Minute
)

// Builder produces today's artifact
type Builder interface {
	Build(ctx context.Context, now time.Time) (*artifact.Payload, error)
}

// Snapshots persists normalized sets per day
type Snapshots interface {
	SaveRankingSet(ctx context.Context, set *fortune.RankingSet) error
	GetRankingSet(ctx context.Context, dateKST string) (*fortune.RankingSet, error)
}

// Notifier receives refresh events
type Notifier interface {
	Broadcast(ev realtime.Event)
}

// Service loads, caches and refreshes the normalized ranking
// ⭐ SSOT: API/스케줄러/CLI 모두 랭킹은 이 서비스로만 읽고 갱신
type Service struct {
	artifacts *artifact.Store
	builder   Builder   // nil: refresh 불가 (읽기 전용)
	snapshots Snapshots // nil: DB 비활성
	notifier  Notifier  // nil: 브로드캐스트 없음
	cache     *gocache.Cache
	logger    *logger.Logger
}

// Option configures optional collaborators
type Option func(*Service)

// WithBuilder enables Refresh
func WithBuilder(b Builder) Option {
	return func(s *Service) { s.builder = b }
}

// WithSnapshots enables per-date history
func WithSnapshots(repo Snapshots) Option {
	return func(s *Service) { s.snapshots = repo }
}

// WithNotifier enables refresh broadcasts
func WithNotifier(n Notifier) Option {
	return func(s *Service) { s.notifier = n }
}

// NewService creates a service reading artifacts from st
func NewService(st *artifact.Store, log *logger.Logger, opts ...Option) *Service {
	s := &Service{
		artifacts: st,
		cache:     gocache.New(cacheTTL, cacheCleanup),
		logger:    log.WithComponent("ranking"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Current returns the artifact normalized against today (KST).
// A missing artifact yields ErrNotAvailable.
func (s *Service) Current(ctx context.Context, now time.Time) (fortune.RankingSet, error) {
	today := fortune.TodayKST(now)
	key := cacheKey(today)
	if v, ok := s.cache.Get(key); ok {
		return v.(fortune.RankingSet), nil
	}

	data, err := s.artifacts.LoadBytes()
	if errors.Is(err, artifact.ErrArtifactNotFound) {
		return fortune.RankingSet{}, fmt.Errorf("%w: %v", ErrNotAvailable, err)
	}
	if err != nil {
		return fortune.RankingSet{}, err
	}

	set := fortune.NormalizeJSON(data, today)
	if len(set.Warnings) > 0 {
		s.logger.WithFields(map[string]interface{}{
			"date_kst": set.DateKST,
			"status":   set.Status,
			"warnings": set.Warnings,
		}).Warn("Artifact normalized with warnings")
	}

	s.cache.Set(key, set, gocache.DefaultExpiration)
	return set, nil
}

// ForDate serves today from the artifact and past dates from snapshots
func (s *Service) ForDate(ctx context.Context, dateKST string, now time.Time) (fortune.RankingSet, error) {
	if dateKST == "" || dateKST == fortune.TodayKST(now) {
		return s.Current(ctx, now)
	}
	if _, err := time.Parse(fortune.DateLayout, dateKST); err != nil {
		return fortune.RankingSet{}, fmt.Errorf("invalid date %q: %w", dateKST, err)
	}
	if s.snapshots == nil {
		return fortune.RankingSet{}, fmt.Errorf("%w: history disabled", ErrNotAvailable)
	}

	key := cacheKey(dateKST)
	if v, ok := s.cache.Get(key); ok {
		return v.(fortune.RankingSet), nil
	}

	set, err := s.snapshots.GetRankingSet(ctx, dateKST)
	if errors.Is(err, store.ErrSnapshotNotFound) {
		return fortune.RankingSet{}, fmt.Errorf("%w: %s", ErrNotAvailable, dateKST)
	}
	if err != nil {
		return fortune.RankingSet{}, err
	}

	s.cache.Set(key, *set, gocache.DefaultExpiration)
	return *set, nil
}

// Refresh rebuilds the artifact and publishes the result.
// The returned set reflects what was written even when the build failed.
func (s *Service) Refresh(ctx context.Context, now time.Time) (fortune.RankingSet, error) {
	if s.builder == nil {
		return fortune.RankingSet{}, errors.New("refresh not configured")
	}

	_, buildErr := s.builder.Build(ctx, now)
	s.cache.Flush()

	set, err := s.Current(ctx, now)
	if err != nil {
		return fortune.RankingSet{}, errors.Join(buildErr, err)
	}

	// 실패한 빌드의 error 상태는 스냅샷으로 남기지 않음 (전날 정상본 보존)
	if s.snapshots != nil && set.Status != fortune.StatusError {
		if err := s.snapshots.SaveRankingSet(ctx, &set); err != nil {
			s.logger.WithError(err).Error("Failed to save snapshot")
		}
	}

	if s.notifier != nil {
		s.notifier.Broadcast(realtime.Event{
			Type:    realtime.EventRankingsUpdated,
			DateKST: set.DateKST,
			Status:  set.Status,
			At:      now,
		})
	}

	s.logger.WithFields(map[string]interface{}{
		"date_kst": set.DateKST,
		"status":   set.Status,
		"count":    len(set.Rankings),
	}).Info("Ranking refreshed")

	return set, buildErr
}

// NeedsRefresh reports whether today's artifact is missing, stale or not ok
func (s *Service) NeedsRefresh(ctx context.Context, now time.Time) bool {
	set, err := s.Current(ctx, now)
	if err != nil {
		return true
	}
	return set.Status != fortune.StatusOK || set.DateKST != fortune.TodayKST(now)
}

// Invalidate drops every cached set
func (s *Service) Invalidate() {
	s.cache.Flush()
}

func cacheKey(dateKST string) string {
	return "rankings:" + dateKST
}
