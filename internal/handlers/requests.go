package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
)

var validate = validator.New()

// CreateChildRequest is the body for POST /api/children
type CreateChildRequest struct {
	Name           string   `json:"name" validate:"required"`
	Age            int      `json:"age" validate:"required"`
	Interests      []string `json:"interests" validate:"dive,max=50"`
	ScreenTimeGoal int      `json:"screen_time_goal"`
}

// CreateFamilyRequest is the body for POST /api/families
type CreateFamilyRequest struct {
	Name     string  `json:"name" validate:"required"`
	ChildIDs []int64 `json:"children"`
}

// CreateTemplateRequest is the body for POST /api/challenges
type CreateTemplateRequest struct {
	Title           string `json:"title" validate:"required"`
	Description     string `json:"description" validate:"required"`
	Category        string `json:"category" validate:"required"`
	Difficulty      string `json:"difficulty" validate:"required"`
	MinAge          int    `json:"min_age" validate:"required"`
	MaxAge          int    `json:"max_age" validate:"required"`
	DurationMinutes int    `json:"duration_minutes" validate:"required"`
	FunCredits      int    `json:"fun_credits" validate:"required"`
}

// GenerateChallengeRequest is the body for POST /api/challenges/generate
type GenerateChallengeRequest struct {
	ChildID  int64  `json:"child_id" validate:"required"`
	Category string `json:"category"`
}

// CompleteChallengeRequest is the body for POST /api/challenges/complete
type CompleteChallengeRequest struct {
	ChildID          int64  `json:"child_id" validate:"required"`
	ChallengeID      string `json:"challenge_id" validate:"required"`
	ValidationMethod string `json:"validation_method"`
}

// decodeAndValidate parses the JSON body into dst and runs struct
// validation. On failure it writes the 400 response and returns false.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, logger *zap.Logger, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request body: %v", err)})
		return false
	}
	if err := validate.Struct(dst); err != nil {
		logger.Debug("request validation failed", zap.Error(err))
		respondJSON(w, http.StatusBadRequest, errorResponse{Error: fmt.Sprintf("invalid request: %v", err)})
		return false
	}
	return true
}

// pathID parses the {id} path segment as an int64
func pathID(r *http.Request) (int64, error) {
	return pathInt64(r, "id")
}

// pathInt64 parses a named path segment as an int64
func pathInt64(r *http.Request, name string) (int64, error) {
	raw := r.PathValue(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q", name, raw)
	}
	return id, nil
}
