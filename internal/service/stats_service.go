package service

import (
	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// recentCompletionsLimit caps the recent challenge list in child stats
const recentCompletionsLimit = 5

// StatsService derives child and family statistics from the completion
// ledger. Nothing is cached or precomputed; every read reflects the ledger
// as it stands.
type StatsService struct {
	childRepo  *repository.ChildRepository
	familyRepo *repository.FamilyRepository
	ledgerRepo *repository.LedgerRepository
}

// NewStatsService creates a new stats service
func NewStatsService(childRepo *repository.ChildRepository, familyRepo *repository.FamilyRepository, ledgerRepo *repository.LedgerRepository) *StatsService {
	return &StatsService{
		childRepo:  childRepo,
		familyRepo: familyRepo,
		ledgerRepo: ledgerRepo,
	}
}

// GetChildStats assembles a child's lifetime totals, per-category breakdown
// and most recent completions. Every category appears in the breakdown, at
// zero if the child has never completed one.
func (s *StatsService) GetChildStats(childID int64) (*models.ChildStats, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}

	credits, completed, err := s.ledgerRepo.GetChildTotals(childID)
	if err != nil {
		return nil, err
	}

	counted, err := s.ledgerRepo.GetChildCategoryBreakdown(childID)
	if err != nil {
		return nil, err
	}
	breakdown := make(map[models.Category]int, len(models.Categories()))
	for _, category := range models.Categories() {
		breakdown[category] = counted[category]
	}

	recent, err := s.ledgerRepo.GetRecentCompletions(childID, recentCompletionsLimit)
	if err != nil {
		return nil, err
	}
	if recent == nil {
		recent = []models.CompletionRecord{}
	}

	return &models.ChildStats{
		ChildID:                  childID,
		TotalFunCredits:          credits,
		TotalChallengesCompleted: completed,
		CategoriesBreakdown:      breakdown,
		RecentChallenges:         recent,
	}, nil
}

// GetFamilyStats assembles a family's lifetime totals. Credits are
// attributed by the family snapshot on each ledger entry, so children who
// later change families keep their historical contribution here.
func (s *StatsService) GetFamilyStats(familyID int64) (*models.FamilyStats, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	credits, completed, err := s.ledgerRepo.GetFamilyTotals(familyID)
	if err != nil {
		return nil, err
	}

	children, err := s.childRepo.GetFamilyChildren(familyID)
	if err != nil {
		return nil, err
	}

	return &models.FamilyStats{
		FamilyID:                 familyID,
		TotalFunCredits:          credits,
		TotalChallengesCompleted: completed,
		MemberCount:              len(children),
	}, nil
}
