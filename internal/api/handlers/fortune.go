package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/wonny/ohaasa/backend/internal/fortune"
	"github.com/wonny/ohaasa/backend/internal/ranking"
	"github.com/wonny/ohaasa/backend/pkg/logger"
)

// RankingUnavailable is reported when no artifact could be read
const RankingUnavailable = "unavailable"

// FortuneResponse is the body of GET /api/fortune
type FortuneResponse struct {
	Fortune       fortune.FortuneView `json:"fortune"`
	RankingStatus string              `json:"ranking_status"`
	RankingDate   string              `json:"ranking_date,omitempty"`
	MatchedRank   *int                `json:"matched_rank"`
}

// FortuneHandler renders a personal fortune
type FortuneHandler struct {
	service RankingService
	logger  *logger.Logger
	now     func() time.Time
}

// NewFortuneHandler creates a new fortune handler
func NewFortuneHandler(svc RankingService, log *logger.Logger) *FortuneHandler {
	return &FortuneHandler{
		service: svc,
		logger:  log.WithComponent("fortune-handler"),
		now:     time.Now,
	}
}

// GetFortune handles GET /api/fortune?birthdate=YYYY-MM-DD
func (h *FortuneHandler) GetFortune(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	today := fortune.TodayKST(now)
	birthdate := r.URL.Query().Get("birthdate")

	if err := fortune.ValidateBirthdate(birthdate, today); err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	resp := FortuneResponse{RankingStatus: RankingUnavailable}

	// 랭킹이 없거나 error 상태면 entry 없이 생성 (시드 기반 폴백)
	var entry *fortune.CanonicalRankingEntry
	set, err := h.service.Current(r.Context(), now)
	switch {
	case err == nil:
		resp.RankingStatus = set.Status
		resp.RankingDate = set.DateKST
		if set.Status != fortune.StatusError {
			if sign, ok := fortune.SignOfBirthdate(birthdate); ok {
				entry = set.FindBySign(sign)
			}
		}
	case errors.Is(err, ranking.ErrNotAvailable):
		h.logger.Debug("No artifact yet, using fallback fortune")
	default:
		h.logger.WithError(err).Warn("Failed to load rankings, using fallback fortune")
	}

	if entry != nil {
		resp.MatchedRank = entry.Rank
	}
	resp.Fortune = fortune.Generate(birthdate, today, entry)

	respondJSON(w, http.StatusOK, resp)
}
