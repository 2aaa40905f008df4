package handlers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/internal/ranking"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// refreshTimeout bounds a manual refresh (scrape + 12 AI calls)
const refreshTimeout = 5 * time.Minute

// RankingService is what the handlers need from ranking.Service
type RankingService interface {
	Current(ctx context.Context, now time.Time) (fortune.RankingSet, error)
	ForDate(ctx context.Context, dateKST string, now time.Time) (fortune.RankingSet, error)
	Refresh(ctx context.Context, now time.Time) (fortune.RankingSet, error)
}

// RankingHandler serves the normalized daily ranking
type RankingHandler struct {
	service RankingService
	logger  *logger.Logger
	now     func() time.Time
}

// NewRankingHandler creates a new ranking handler
func NewRankingHandler(svc RankingService, log *logger.Logger) *RankingHandler {
	return &RankingHandler{
		service: svc,
		logger:  log.WithComponent("ranking-handler"),
		now:     time.Now,
	}
}

// GetRankings handles GET /api/rankings[?date=YYYY-MM-DD]
func (h *RankingHandler) GetRankings(w http.ResponseWriter, r *http.Request) {
	date := r.URL.Query().Get("date")
	if date != "" {
		if _, err := time.Parse(fortune.DateLayout, date); err != nil {
			respondError(w, http.StatusBadRequest, fmt.Sprintf("invalid date %q: expected YYYY-MM-DD", date))
			return
		}
	}

	set, err := h.service.ForDate(r.Context(), date, h.now())
	if errors.Is(err, ranking.ErrNotAvailable) {
		respondError(w, http.StatusNotFound, err.Error())
		return
	}
	if err != nil {
		h.logger.WithError(err).Error("Failed to load rankings")
		respondError(w, http.StatusInternalServerError, "failed to load rankings")
		return
	}

	respondJSON(w, http.StatusOK, set)
}

// Refresh handles POST /api/rankings/refresh
func (h *RankingHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	// 클라이언트가 끊겨도 빌드는 끝까지
	ctx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), refreshTimeout)
	defer cancel()

	set, err := h.service.Refresh(ctx, h.now())
	if err != nil {
		h.logger.WithError(err).Error("Manual refresh failed")
		respondJSON(w, http.StatusBadGateway, map[string]interface{}{
			"error":   err.Error(),
			"ranking": set,
		})
		return
	}

	respondJSON(w, http.StatusOK, set)
}
