package service

import (
	"fmt"
	"strings"

	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

const maxNameLength = 100

// FamilyService handles child profiles and family grouping
type FamilyService struct {
	familyRepo *repository.FamilyRepository
	childRepo  *repository.ChildRepository
	ledgerRepo *repository.LedgerRepository
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, childRepo *repository.ChildRepository, ledgerRepo *repository.LedgerRepository) *FamilyService {
	return &FamilyService{
		familyRepo: familyRepo,
		childRepo:  childRepo,
		ledgerRepo: ledgerRepo,
	}
}

// RegisterChild validates and creates a child profile. A zero screenTimeGoal
// takes the default.
func (s *FamilyService) RegisterChild(name string, age int, interests []string, screenTimeGoal int) (*models.Child, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidArgument, maxNameLength)
	}
	if age < models.MinChildAge || age > models.MaxChildAge {
		return nil, fmt.Errorf("%w: age must be between %d and %d",
			ErrInvalidArgument, models.MinChildAge, models.MaxChildAge)
	}

	if screenTimeGoal == 0 {
		screenTimeGoal = models.DefaultScreenTimeGoal
	}
	if screenTimeGoal < models.MinScreenTimeGoal || screenTimeGoal > models.MaxScreenTimeGoal {
		return nil, fmt.Errorf("%w: screen_time_goal must be between %d and %d minutes",
			ErrInvalidArgument, models.MinScreenTimeGoal, models.MaxScreenTimeGoal)
	}

	return s.childRepo.CreateChild(name, age, normalizeInterests(interests), screenTimeGoal)
}

// GetChild retrieves a child by ID
func (s *FamilyService) GetChild(childID int64) (*models.Child, error) {
	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return nil, err
	}
	if child == nil {
		return nil, ErrChildNotFound
	}
	return child, nil
}

// ListChildren retrieves all registered children
func (s *FamilyService) ListChildren() ([]models.Child, error) {
	children, err := s.childRepo.GetAllChildren()
	if err != nil {
		return nil, err
	}
	if children == nil {
		children = []models.Child{}
	}
	return children, nil
}

// CreateFamily validates and creates a family, assigning the given children
// to it. Every child must already exist.
func (s *FamilyService) CreateFamily(name string, childIDs []int64) (*models.Family, error) {
	name = strings.TrimSpace(name)
	if name == "" || len(name) > maxNameLength {
		return nil, fmt.Errorf("%w: name must be 1-%d characters", ErrInvalidArgument, maxNameLength)
	}

	for _, childID := range childIDs {
		child, err := s.childRepo.GetChildByID(childID)
		if err != nil {
			return nil, err
		}
		if child == nil {
			return nil, fmt.Errorf("%w: child %d", ErrChildNotFound, childID)
		}
	}

	return s.familyRepo.CreateFamily(name, childIDs)
}

// GetFamily retrieves a family with its members and credit total
func (s *FamilyService) GetFamily(familyID int64) (*models.FamilyWithTotals, error) {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, err
	}
	if family == nil {
		return nil, ErrFamilyNotFound
	}

	return s.withTotals(*family)
}

// ListFamilies retrieves all families with members and credit totals
func (s *FamilyService) ListFamilies() ([]models.FamilyWithTotals, error) {
	families, err := s.familyRepo.GetAllFamilies()
	if err != nil {
		return nil, err
	}

	result := make([]models.FamilyWithTotals, 0, len(families))
	for _, family := range families {
		entry, err := s.withTotals(family)
		if err != nil {
			return nil, err
		}
		result = append(result, *entry)
	}

	return result, nil
}

// AddChildToFamily moves a child into a family. Adding a child that is
// already a member is a no-op. Historical completion records keep their
// snapshot family and are unaffected.
func (s *FamilyService) AddChildToFamily(familyID, childID int64) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return ErrChildNotFound
	}
	if child.FamilyID != nil && *child.FamilyID == familyID {
		return nil
	}

	return s.familyRepo.AssignChildren(familyID, []int64{childID})
}

// RemoveChildFromFamily detaches a child from a family. Removing a child
// that is not a member is a no-op.
func (s *FamilyService) RemoveChildFromFamily(familyID, childID int64) error {
	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return err
	}
	if family == nil {
		return ErrFamilyNotFound
	}

	child, err := s.childRepo.GetChildByID(childID)
	if err != nil {
		return err
	}
	if child == nil {
		return ErrChildNotFound
	}

	return s.familyRepo.RemoveChild(familyID, childID)
}

func (s *FamilyService) withTotals(family models.Family) (*models.FamilyWithTotals, error) {
	children, err := s.childRepo.GetFamilyChildren(family.ID)
	if err != nil {
		return nil, err
	}
	childIDs := make([]int64, 0, len(children))
	for _, child := range children {
		childIDs = append(childIDs, child.ID)
	}

	credits, _, err := s.ledgerRepo.GetFamilyTotals(family.ID)
	if err != nil {
		return nil, err
	}

	return &models.FamilyWithTotals{
		Family:          family,
		ChildIDs:        childIDs,
		TotalFunCredits: credits,
	}, nil
}

// normalizeInterests lowercases, trims and de-duplicates the interest list
// while preserving order. The comma is the storage delimiter, so a tag
// containing one is split into separate tags here; otherwise it would come
// back from storage as two tags anyway.
func normalizeInterests(interests []string) []string {
	seen := make(map[string]struct{}, len(interests))
	normalized := make([]string, 0, len(interests))
	for _, raw := range interests {
		for _, interest := range strings.Split(raw, ",") {
			interest = strings.ToLower(strings.TrimSpace(interest))
			if interest == "" {
				continue
			}
			if _, ok := seen[interest]; ok {
				continue
			}
			seen[interest] = struct{}{}
			normalized = append(normalized, interest)
		}
	}
	return normalized
}
