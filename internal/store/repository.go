package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/wonny/ohaasa/backend/internal/fortune"
)

// ErrSnapshotNotFound is returned when no snapshot exists for the date
var ErrSnapshotNotFound = errors.New("ranking snapshot not found")

const schemaDDL = `
	CREATE SCHEMA IF NOT EXISTS ohaasa;
	CREATE TABLE IF NOT EXISTS ohaasa.daily_rankings (
		date_kst   DATE PRIMARY KEY,
		status     TEXT NOT NULL,
		payload    JSONB NOT NULL,
		warnings   JSONB NOT NULL DEFAULT '[]'::jsonb,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)
`

// Repository keeps one normalized RankingSet per day
// ⭐ SSOT: 랭킹 스냅샷 저장/조회는 여기서만
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new snapshot repository
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// EnsureSchema creates the schema and table when missing
func (r *Repository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schemaDDL); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveRankingSet upserts the snapshot of set.DateKST
func (r *Repository) SaveRankingSet(ctx context.Context, set *fortune.RankingSet) error {
	payload, err := json.Marshal(set)
	if err != nil {
		return fmt.Errorf("failed to marshal ranking set: %w", err)
	}
	warnings, err := json.Marshal(set.Warnings)
	if err != nil {
		return fmt.Errorf("failed to marshal warnings: %w", err)
	}

	query := `
		INSERT INTO ohaasa.daily_rankings (date_kst, status, payload, warnings, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (date_kst) DO UPDATE SET
			status = EXCLUDED.status,
			payload = EXCLUDED.payload,
			warnings = EXCLUDED.warnings,
			updated_at = EXCLUDED.updated_at
	`

	_, err = r.pool.Exec(ctx, query, set.DateKST, set.Status, payload, warnings, time.Now())
	if err != nil {
		return fmt.Errorf("failed to save ranking set: %w", err)
	}
	return nil
}

// GetRankingSet loads the snapshot of dateKST (YYYY-MM-DD)
func (r *Repository) GetRankingSet(ctx context.Context, dateKST string) (*fortune.RankingSet, error) {
	query := `
		SELECT payload
		FROM ohaasa.daily_rankings
		WHERE date_kst = $1
	`

	var payload []byte
	err := r.pool.QueryRow(ctx, query, dateKST).Scan(&payload)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSnapshotNotFound, dateKST)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking set: %w", err)
	}

	var set fortune.RankingSet
	if err := json.Unmarshal(payload, &set); err != nil {
		return nil, fmt.Errorf("failed to unmarshal ranking set: %w", err)
	}
	return &set, nil
}

// ListDates returns the most recent snapshot dates, newest first
func (r *Repository) ListDates(ctx context.Context, limit int) ([]string, error) {
	query := `
		SELECT to_char(date_kst, 'YYYY-MM-DD')
		FROM ohaasa.daily_rankings
		ORDER BY date_kst DESC
		LIMIT $1
	`

	rows, err := r.pool.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list dates: %w", err)
	}
	defer rows.Close()

	dates := make([]string, 0, limit)
	for rows.Next() {
		var d string
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan date: %w", err)
		}
		dates = append(dates, d)
	}
	return dates, rows.Err()
}
