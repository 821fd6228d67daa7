package service

import (
	"fmt"
	"strings"

	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// Template title and description limits enforced at publication
const (
	maxTitleLength       = 120
	maxDescriptionLength = 2000
)

// CatalogService handles challenge template business logic
type CatalogService struct {
	catalogRepo *repository.CatalogRepository
}

// NewCatalogService creates a new catalog service
func NewCatalogService(catalogRepo *repository.CatalogRepository) *CatalogService {
	return &CatalogService{catalogRepo: catalogRepo}
}

// CreateTemplate validates and publishes a new challenge template
func (s *CatalogService) CreateTemplate(title, description, category, difficulty string, minAge, maxAge, durationMinutes, funCredits int) (*models.ChallengeTemplate, error) {
	title = strings.TrimSpace(title)
	description = strings.TrimSpace(description)

	if title == "" || len(title) > maxTitleLength {
		return nil, fmt.Errorf("%w: title must be 1-%d characters", ErrInvalidArgument, maxTitleLength)
	}
	if description == "" || len(description) > maxDescriptionLength {
		return nil, fmt.Errorf("%w: description must be 1-%d characters", ErrInvalidArgument, maxDescriptionLength)
	}

	cat, err := models.ParseCategory(category)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	diff, err := models.ParseDifficulty(difficulty)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}

	if minAge < models.MinChildAge || maxAge > models.MaxChildAge || minAge > maxAge {
		return nil, fmt.Errorf("%w: age range must satisfy %d <= min_age <= max_age <= %d",
			ErrInvalidArgument, models.MinChildAge, models.MaxChildAge)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration_minutes must be positive", ErrInvalidArgument)
	}
	if funCredits <= 0 {
		return nil, fmt.Errorf("%w: fun_credits must be positive", ErrInvalidArgument)
	}

	template := &models.ChallengeTemplate{
		Title:           title,
		Description:     description,
		Category:        cat,
		Difficulty:      diff,
		MinAge:          minAge,
		MaxAge:          maxAge,
		DurationMinutes: durationMinutes,
		FunCredits:      funCredits,
	}

	return s.catalogRepo.CreateTemplate(template)
}

// GetTemplate retrieves a template by ID
func (s *CatalogService) GetTemplate(templateID int64) (*models.ChallengeTemplate, error) {
	template, err := s.catalogRepo.GetTemplateByID(templateID)
	if err != nil {
		return nil, err
	}
	if template == nil {
		return nil, ErrTemplateNotFound
	}
	return template, nil
}

// ListTemplates retrieves the catalog, optionally filtered by category.
// An empty category string means no filter.
func (s *CatalogService) ListTemplates(category string) ([]models.ChallengeTemplate, error) {
	var filter *models.Category
	if category != "" {
		cat, err := models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		filter = &cat
	}

	templates, err := s.catalogRepo.GetAllTemplates(filter)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []models.ChallengeTemplate{}
	}
	return templates, nil
}

// ListEligibleTemplates retrieves templates whose inclusive age range
// contains age, optionally restricted to one category.
func (s *CatalogService) ListEligibleTemplates(age int, category string) ([]models.ChallengeTemplate, error) {
	if age < models.MinChildAge || age > models.MaxChildAge {
		return nil, fmt.Errorf("%w: age must be between %d and %d",
			ErrInvalidArgument, models.MinChildAge, models.MaxChildAge)
	}

	var filter *models.Category
	if category != "" {
		cat, err := models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		filter = &cat
	}

	templates, err := s.catalogRepo.GetEligibleTemplates(age, filter)
	if err != nil {
		return nil, err
	}
	if templates == nil {
		templates = []models.ChallengeTemplate{}
	}
	return templates, nil
}
