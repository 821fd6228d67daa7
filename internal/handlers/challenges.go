package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"screenbreak/internal/models"
	"screenbreak/internal/service"
)

// ChallengesHandler serves catalog, generation and completion endpoints
type ChallengesHandler struct {
	catalogService   *service.CatalogService
	challengeService *service.ChallengeService
	ledgerService    *service.LedgerService
	logger           *zap.Logger
}

// NewChallengesHandler creates a new challenges handler
func NewChallengesHandler(catalogService *service.CatalogService, challengeService *service.ChallengeService, ledgerService *service.LedgerService, logger *zap.Logger) *ChallengesHandler {
	return &ChallengesHandler{
		catalogService:   catalogService,
		challengeService: challengeService,
		ledgerService:    ledgerService,
		logger:           logger,
	}
}

// CreateTemplate handles POST /api/challenges
func (h *ChallengesHandler) CreateTemplate(w http.ResponseWriter, r *http.Request) {
	var req CreateTemplateRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	template, err := h.catalogService.CreateTemplate(
		req.Title, req.Description, req.Category, req.Difficulty,
		req.MinAge, req.MaxAge, req.DurationMinutes, req.FunCredits)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("template published",
		zap.Int64("template_id", template.ID),
		zap.String("category", string(template.Category)))
	respondJSON(w, http.StatusCreated, template)
}

// ListTemplates handles GET /api/challenges with optional ?category= and
// ?age= filters. When age is given only templates whose age range contains
// it are returned.
func (h *ChallengesHandler) ListTemplates(w http.ResponseWriter, r *http.Request) {
	category := r.URL.Query().Get("category")

	var templates []models.ChallengeTemplate
	var err error
	if rawAge := r.URL.Query().Get("age"); rawAge != "" {
		age, parseErr := strconv.Atoi(rawAge)
		if parseErr != nil {
			respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid age %q", rawAge)})
			return
		}
		templates, err = h.catalogService.ListEligibleTemplates(age, category)
	} else {
		templates, err = h.catalogService.ListTemplates(category)
	}
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, templates)
}

// GetTemplate handles GET /api/challenges/{id}
func (h *ChallengesHandler) GetTemplate(w http.ResponseWriter, r *http.Request) {
	templateID, err := pathID(r)
	if err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	template, err := h.catalogService.GetTemplate(templateID)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, template)
}

// Generate handles POST /api/challenges/generate
func (h *ChallengesHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req GenerateChallengeRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	instance, err := h.challengeService.GenerateChallenge(req.ChildID, req.Category)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	h.logger.Info("challenge generated",
		zap.String("instance_id", instance.ID),
		zap.Int64("child_id", instance.ChildID),
		zap.Int64("template_id", instance.TemplateID))
	respondJSON(w, http.StatusCreated, instance)
}

// GetInstance handles GET /api/challenges/instances/{id}
func (h *ChallengesHandler) GetInstance(w http.ResponseWriter, r *http.Request) {
	instance, err := h.challengeService.GetInstance(r.PathValue("id"))
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	respondJSON(w, http.StatusOK, instance)
}

// Complete handles POST /api/challenges/complete. A repeat submission for
// an already-completed instance returns the original record with 200
// instead of 201.
func (h *ChallengesHandler) Complete(w http.ResponseWriter, r *http.Request) {
	var req CompleteChallengeRequest
	if !decodeAndValidate(w, r, h.logger, &req) {
		return
	}

	record, alreadyCompleted, err := h.ledgerService.CompleteChallenge(req.ChallengeID, req.ChildID, req.ValidationMethod)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	status := http.StatusCreated
	if alreadyCompleted {
		status = http.StatusOK
	}
	respondJSON(w, status, record)
}
