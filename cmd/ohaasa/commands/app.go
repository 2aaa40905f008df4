package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/wonny/ohaasa/backend/internal/artifact"
	"github.com/wonny/ohaasa/backend/internal/enrich"
	"github.com/wonny/ohaasa/backend/internal/ranking"
	"github.com/wonny/ohaasa/backend/internal/realtime"
	"github.com/wonny/ohaasa/backend/internal/scheduler"
	"github.com/wonny/ohaasa/backend/internal/scheduler/jobs"
	"github.com/wonny/ohaasa/backend/internal/scrape"
	"github.com/wonny/ohaasa/backend/internal/store"
	"github.com/wonny/ohaasa/backend/pkg/config"
	"github.com/wonny/ohaasa/backend/pkg/database"
	"github.com/wonny/ohaasa/backend/pkg/logger"
	"github.com/wonny/ohaasa/backend/pkg/redis"
)

// app holds the wired dependencies shared by the commands
type app struct {
	cfg     *config.Config
	log     *logger.Logger
	rdb     *redis.Client
	db      *database.DB // nil: DATABASE_URL 없음
	hub     *realtime.Hub
	store   *artifact.Store
	service *ranking.Service
}

// newApp wires config → clients → builder → service
func newApp(ctx context.Context) (*app, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	log := logger.New(cfg)

	a := &app{cfg: cfg, log: log}

	a.rdb, err = redis.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to redis: %w", err)
	}

	opts := []ranking.Option{}

	if cfg.Database.Enabled() {
		a.db, err = database.New(ctx, cfg)
		if err != nil {
			a.Close()
			return nil, fmt.Errorf("connect to database: %w", err)
		}
		repo := store.NewRepository(a.db.Pool)
		if err := repo.EnsureSchema(ctx); err != nil {
			a.Close()
			return nil, err
		}
		opts = append(opts, ranking.WithSnapshots(repo))
		log.Info("Snapshot repository enabled")
	}

	enricher, err := enrich.New(ctx, cfg, a.rdb, log)
	switch {
	case errors.Is(err, enrich.ErrNoProvider):
		enricher = nil
		log.Info("AI enrichment disabled (AI_PROVIDER=none)")
	case err != nil:
		a.Close()
		return nil, fmt.Errorf("init enricher: %w", err)
	}

	a.store = artifact.NewStore(cfg.Artifact.Path)
	builder := artifact.NewBuilder(scrape.NewClient(cfg, log), enricher, a.store, cfg.Ohaasa.Source, log)

	a.hub = realtime.NewHub(log)
	opts = append(opts, ranking.WithBuilder(builder), ranking.WithNotifier(a.hub))
	a.service = ranking.NewService(a.store, log, opts...)

	return a, nil
}

// newScheduler registers the ranking jobs against a's service
func (a *app) newScheduler() (*scheduler.Scheduler, error) {
	sched := scheduler.New(a.log)
	for _, job := range []scheduler.Job{
		jobs.NewRankingRefreshJob(a.service, a.log),
		jobs.NewRankingRetryJob(a.service, a.log),
	} {
		if err := sched.AddJob(job); err != nil {
			return nil, err
		}
	}
	return sched, nil
}

// Close releases connections and websocket subscribers
func (a *app) Close() {
	if a.hub != nil {
		a.hub.Close()
	}
	a.db.Close()
	if a.rdb != nil {
		if err := a.rdb.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close redis")
		}
	}
}
