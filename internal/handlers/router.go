package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"screenbreak/internal/service"
)

// RouterDeps bundles the services the router needs
type RouterDeps struct {
	FamilyService      *service.FamilyService
	CatalogService     *service.CatalogService
	ChallengeService   *service.ChallengeService
	LedgerService      *service.LedgerService
	StatsService       *service.StatsService
	LeaderboardService *service.LeaderboardService
	Logger             *zap.Logger
	CORSOrigins        []string
}

// NewRouter builds the HTTP mux with all API routes and middleware applied
func NewRouter(deps RouterDeps) http.Handler {
	children := NewChildrenHandler(deps.FamilyService, deps.StatsService, deps.Logger)
	challenges := NewChallengesHandler(deps.CatalogService, deps.ChallengeService, deps.LedgerService, deps.Logger)
	families := NewFamiliesHandler(deps.FamilyService, deps.StatsService, deps.Logger)
	leaderboard := NewLeaderboardHandler(deps.LeaderboardService, deps.Logger)

	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/children", children.Create)
	mux.HandleFunc("GET /api/children", children.List)
	mux.HandleFunc("GET /api/children/{id}", children.Get)
	mux.HandleFunc("GET /api/stats/child/{id}", children.Stats)

	mux.HandleFunc("POST /api/challenges", challenges.CreateTemplate)
	mux.HandleFunc("GET /api/challenges", challenges.ListTemplates)
	mux.HandleFunc("GET /api/challenges/{id}", challenges.GetTemplate)
	mux.HandleFunc("POST /api/challenges/generate", challenges.Generate)
	mux.HandleFunc("GET /api/challenges/instances/{id}", challenges.GetInstance)
	mux.HandleFunc("POST /api/challenges/complete", challenges.Complete)

	mux.HandleFunc("POST /api/families", families.Create)
	mux.HandleFunc("GET /api/families", families.List)
	mux.HandleFunc("GET /api/families/{id}", families.Get)
	mux.HandleFunc("GET /api/families/{id}/stats", families.Stats)
	mux.HandleFunc("POST /api/families/{id}/children/{childID}", families.AddChild)
	mux.HandleFunc("DELETE /api/families/{id}/children/{childID}", families.RemoveChild)

	mux.HandleFunc("GET /api/leaderboard", leaderboard.Get)

	mux.HandleFunc("GET /api/{$}", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"message": "ScreenBreak Challenge & Reward API"})
	})

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})

	var handler http.Handler = mux
	handler = CORS(deps.CORSOrigins)(handler)
	handler = Logging(deps.Logger)(handler)
	return handler
}
