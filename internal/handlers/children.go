package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"screenbreak/internal/service"
)

// ChildrenHandler serves child registration and lookup endpoints
type ChildrenHandler struct {
	familyService *service.FamilyService
	statsService  *service.StatsService
	logger        *zap.Logger
}

// NewChildrenHandler creates a new children handler
func NewChildrenHandler(familyService *service.FamilyService, statsService *service.StatsService, logger *zap.Logger) *ChildrenHandler {
	return &ChildrenHandler{
		familyService: familyService,
		statsService:  statsService,
		logger:        logger,
	}
}

// Create handles POST /api/children
func (h *ChildrenHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateChildRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	child, err := h.familyService.RegisterChild(req.Name, req.Age, req.Interests, req.ScreenTimeGoal)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("child registered",
		zap.Int64("child_id", child.ID),
		zap.Int("age", child.Age))
	respondJSON(w, http.StatusCreated, child)
}

// List handles GET /api/children
func (h *ChildrenHandler) List(w http.ResponseWriter, r *http.Request) {
	children, err := h.familyService.ListChildren()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, children)
}

// Get handles GET /api/children/{id}
func (h *ChildrenHandler) Get(w http.ResponseWriter, r *http.Request) {
	childID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	child, err := h.familyService.GetChild(childID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, child)
}

// Stats handles GET /api/stats/child/{id}
func (h *ChildrenHandler) Stats(w http.ResponseWriter, r *http.Request) {
	childID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	stats, err := h.statsService.GetChildStats(childID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
