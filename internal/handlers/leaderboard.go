package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"screenbreak/internal/service"
)

// LeaderboardHandler serves GET /api/leaderboard
type LeaderboardHandler struct {
	leaderboardService *service.LeaderboardService
	logger             *zap.Logger
}

// NewLeaderboardHandler creates a new leaderboard handler
func NewLeaderboardHandler(leaderboardService *service.LeaderboardService, logger *zap.Logger) *LeaderboardHandler {
	return &LeaderboardHandler{
		leaderboardService: leaderboardService,
		logger:             logger,
	}
}

// Get handles GET /api/leaderboard
func (h *LeaderboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	entries, err := h.leaderboardService.GetLeaderboard()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, entries)
}
