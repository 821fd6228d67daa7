package service

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/google/uuid"

	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// Selection weights. Templates whose category matches one of the child's
// interests are three times as likely to be picked.
const (
	baseWeight     = 1.0
	interestWeight = 3.0
)

// ChallengeService generates challenge instances for children
type ChallengeService struct {
	catalogRepo  *repository.CatalogRepository
	instanceRepo *repository.InstanceRepository
	childRepo    *repository.ChildRepository
	ledgerRepo   *repository.LedgerRepository

	recencyWindow time.Duration
	rng           *rand.Rand
	now           func() time.Time
}

// NewChallengeService creates a new challenge service. recencyWindowDays
// controls how long a completed template is excluded from re-selection for
// the same child.
func NewChallengeService(catalogRepo *repository.CatalogRepository, instanceRepo *repository.InstanceRepository, childRepo *repository.ChildRepository, ledgerRepo *repository.LedgerRepository, recencyWindowDays int) *ChallengeService {
	return &ChallengeService{
		catalogRepo:   catalogRepo,
		instanceRepo:  instanceRepo,
		childRepo:     childRepo,
		ledgerRepo:    ledgerRepo,
		recencyWindow: time.Duration(recencyWindowDays) * 24 * time.Hour,
		rng:           rand.New(rand.NewSource(time.Now().UnixNano())),
		now:           time.Now,
	}
}

// GenerateChallenge picks an age-appropriate template for the child and
// creates a pending instance of it. Templates the child completed within the
// recency window are excluded unless nothing else remains, in which case
// repeats are allowed rather than failing.
func (s *ChallengeService) GenerateChallenge(childID int64, category string) (*models.ChallengeInstance, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	var filter *models.Category
	if category != "" {
		cat, err := models.ParseCategory(category)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidArgument, err)
		}
		filter = &cat
	}

	eligible, err := s.catalogRepo.GetEligibleTemplates(child.Age, filter)
	if err != nil {
		return nil, err
	}
	if len(eligible) == 0 {
		return nil, ErrNoEligibleChallenge
	}

	since := s.now().Add(-s.recencyWindow)
	recentIDs, err := s.ledgerRepo.RecentCompletedTemplateIDs(childID, since)
	if err != nil {
		return nil, err
	}

	pool := excludeTemplates(eligible, recentIDs)
	if len(pool) == 0 {
		pool = eligible
	}

	// Interest weighting is a preference, applied only when the caller did
	// not pin a category.
	interests := child.Interests
	if filter != nil {
		interests = nil
	}
	template := s.selectWeightedTemplate(pool, interests)

	instance := &models.ChallengeInstance{
		ID:          uuid.NewString(),
		TemplateID:  template.ID,
		ChildID:     childID,
		Status:      models.InstancePending,
		GeneratedAt: s.now().UTC(),
	}
	if err := s.instanceRepo.CreateInstance(instance); err != nil {
		return nil, err
	}

	instance.Template = &template
	return instance, nil
}

// GetInstance retrieves a challenge instance with its template
func (s *ChallengeService) GetInstance(instanceID string) (*models.ChallengeInstance, error) {
	instance, err := s.instanceRepo.GetInstanceByID(instanceID)
	if err != nil {
		return nil, err
	}
	if instance == nil {
		return nil, ErrInstanceNotFound
	}
	return instance, nil
}

// excludeTemplates filters out templates whose IDs appear in excluded
func excludeTemplates(templates []models.ChallengeTemplate, excluded []int64) []models.ChallengeTemplate {
	if len(excluded) == 0 {
		return templates
	}

	excludedSet := make(map[int64]struct{}, len(excluded))
	for _, id := range excluded {
		excludedSet[id] = struct{}{}
	}

	var filtered []models.ChallengeTemplate
	for _, t := range templates {
		if _, ok := excludedSet[t.ID]; !ok {
			filtered = append(filtered, t)
		}
	}
	return filtered
}

// selectWeightedTemplate picks one template with weighted randomization.
// Templates matching the child's interests get a higher weight.
func (s *ChallengeService) selectWeightedTemplate(templates []models.ChallengeTemplate, interests []string) models.ChallengeTemplate {
	if len(templates) == 1 {
		return templates[0]
	}

	interestSet := make(map[string]struct{}, len(interests))
	for _, interest := range interests {
		interestSet[strings.ToLower(strings.TrimSpace(interest))] = struct{}{}
	}

	weights := make([]float64, len(templates))
	totalWeight := 0.0
	for i, t := range templates {
		weight := baseWeight
		if _, ok := interestSet[string(t.Category)]; ok {
			weight = interestWeight
		}
		weights[i] = weight
		totalWeight += weight
	}

	r := s.rng.Float64() * totalWeight
	cumWeight := 0.0
	for i, w := range weights {
		cumWeight += w
		if r <= cumWeight {
			return templates[i]
		}
	}

	return templates[len(templates)-1]
}
