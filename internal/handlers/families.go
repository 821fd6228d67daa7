package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"screenbreak/internal/service"
)

// FamiliesHandler serves family endpoints
type FamiliesHandler struct {
	familyService *service.FamilyService
	statsService  *service.StatsService
	logger        *zap.Logger
}

// NewFamiliesHandler creates a new families handler
func NewFamiliesHandler(familyService *service.FamilyService, statsService *service.StatsService, logger *zap.Logger) *FamiliesHandler {
	return &FamiliesHandler{
		familyService: familyService,
		statsService:  statsService,
		logger:        logger,
	}
}

// Create handles POST /api/families
func (h *FamiliesHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateFamilyRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	family, err := h.familyService.CreateFamily(req.Name, req.ChildIDs)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("family created",
		zap.Int64("family_id", family.ID),
		zap.Int("children", len(req.ChildIDs)))
	respondJSON(w, http.StatusCreated, family)
}

// List handles GET /api/families
func (h *FamiliesHandler) List(w http.ResponseWriter, r *http.Request) {
	families, err := h.familyService.ListFamilies()
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, families)
}

// Get handles GET /api/families/{id}
func (h *FamiliesHandler) Get(w http.ResponseWriter, r *http.Request) {
	familyID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	family, err := h.familyService.GetFamily(familyID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, family)
}

// AddChild handles POST /api/families/{id}/children/{childID}. Adding a
// child that is already a member succeeds without effect.
func (h *FamiliesHandler) AddChild(w http.ResponseWriter, r *http.Request) {
	familyID, childID, ok := h.memberIDs(w, r)
	if !ok {
		return
	}

	if err := h.familyService.AddChildToFamily(familyID, childID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("child added to family",
		zap.Int64("family_id", familyID),
		zap.Int64("child_id", childID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "child added to family"})
}

// RemoveChild handles DELETE /api/families/{id}/children/{childID}. Historic
// completion records keep the family they were earned under.
func (h *FamiliesHandler) RemoveChild(w http.ResponseWriter, r *http.Request) {
	familyID, childID, ok := h.memberIDs(w, r)
	if !ok {
		return
	}

	if err := h.familyService.RemoveChildFromFamily(familyID, childID); err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("child removed from family",
		zap.Int64("family_id", familyID),
		zap.Int64("child_id", childID))
	respondJSON(w, http.StatusOK, map[string]string{"message": "child removed from family"})
}

func (h *FamiliesHandler) memberIDs(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	familyID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return 0, 0, false
	}
	childID, err := pathInt64(r, "childID")
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return 0, 0, false
	}
	return familyID, childID, true
}

// Stats handles GET /api/families/{id}/stats
func (h *FamiliesHandler) Stats(w http.ResponseWriter, r *http.Request) {
	familyID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	stats, err := h.statsService.GetFamilyStats(familyID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, stats)
}
