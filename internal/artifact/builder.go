package artifact

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wonny/ohaasa/backend/internal/enrich"
	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/internal/scrape"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// 동시에 진행하는 AI 호출 수
const enrichConcurrency = 4

// RankingSource supplies today's scraped rows
type RankingSource interface {
	FetchRankings(ctx context.Context) ([]scrape.Row, error)
}

// Builder runs scrape → enrich → write
// ⭐ SSOT: 아티팩트 생성 파이프라인은 여기서만
type Builder struct {
	source   RankingSource
	enricher enrich.Enricher // nil: 번역/AI 없이 원문만
	store    *Store
	name     string
	logger   *logger.Logger
}

// NewBuilder creates a builder. enricher may be nil.
func NewBuilder(source RankingSource, enricher enrich.Enricher, store *Store, sourceName string, log *logger.Logger) *Builder {
	if sourceName == "" {
		sourceName = fortune.DefaultSource
	}
	return &Builder{
		source:   source,
		enricher: enricher,
		store:    store,
		name:     sourceName,
		logger:   log.WithComponent("artifact"),
	}
}

// Build produces and writes today's artifact. On failure the artifact is
// still written with status "error" and the cause is returned.
func (b *Builder) Build(ctx context.Context, now time.Time) (*Payload, error) {
	nowKST := now.In(fortune.KST)
	payload := &Payload{
		Source:       b.name,
		DateKST:      nowKST.Format(fortune.DateLayout),
		UpdatedAtKST: nowKST.Format(time.RFC3339),
		Status:       fortune.StatusOK,
		Rankings:     []Entry{},
	}

	entries, buildErr := b.collect(ctx, payload.DateKST)
	if buildErr != nil {
		payload.Status = fortune.StatusError
		payload.ErrorMessage = fmt.Sprintf("스크랩 실패: %v", buildErr)
	} else {
		payload.Rankings = entries
	}

	if err := b.store.Save(payload); err != nil {
		return payload, errors.Join(buildErr, err)
	}

	log := b.logger.WithFields(map[string]interface{}{
		"date_kst": payload.DateKST,
		"status":   payload.Status,
		"count":    len(payload.Rankings),
		"path":     b.store.Path(),
	})
	if buildErr != nil {
		log.WithError(buildErr).Error("Artifact written with error status")
		return payload, buildErr
	}
	log.Info("Artifact written")

	b.reportViolations(payload)
	return payload, nil
}

func (b *Builder) collect(ctx context.Context, dateKST string) ([]Entry, error) {
	rows, err := b.source.FetchRankings(ctx)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, scrape.ErrEmptyRanking
	}

	entries := make([]Entry, len(rows))
	for i, row := range rows {
		entries[i] = Entry{
			Rank:      row.Rank,
			SignKey:   row.SignKey,
			SignJP:    row.SignJP,
			SignKO:    unmappedSignKO,
			MessageJP: row.MessageJP,
			Scores:    placeholderScores(),
		}
		if s, ok := fortune.LookupSign(row.SignKey); ok {
			entries[i].SignKO = s.KO
		}
	}

	if b.enricher == nil {
		return entries, nil
	}

	// 별자리별 호출은 서로 독립, 간격은 enricher의 rate limiter가 맞춘다
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(enrichConcurrency)
	for i := range entries {
		entry := &entries[i]
		eg.Go(func() error {
			bundle, err := b.enricher.Enrich(egCtx, enrich.Request{
				DateKST:   dateKST,
				SignKey:   entry.SignKey,
				SignKO:    entry.SignKO,
				MessageJP: entry.MessageJP,
				Scores:    entry.Scores.Map(),
			})
			if err != nil {
				return fmt.Errorf("enrich %s: %w", entry.SignKey, err)
			}
			entry.MessageKO = bundle.MessageKO
			ai := bundle.AI
			entry.AI = &ai
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return entries, nil
}

// reportViolations runs the strict check on what was published; violations
// are logged, the artifact stays (the normalizer repairs on read)
func (b *Builder) reportViolations(p *Payload) {
	data, err := json.Marshal(p)
	if err != nil {
		return
	}
	for _, v := range fortune.ValidateJSON(data) {
		b.logger.WithField("field", v.Field).Warn(v.Message)
	}
}
