package models

import (
	"fmt"
	"time"
)

// Category classifies a challenge template. The set is closed; unknown
// values are rejected at the API boundary.
type Category string

const (
	CategoryOutdoor  Category = "outdoor"
	CategoryCreative Category = "creative"
	CategoryReading  Category = "reading"
	CategoryFamily   Category = "family"
	CategorySport    Category = "sport"
	CategoryLearning Category = "learning"
)

// Categories lists all valid categories in display order.
func Categories() []Category {
	return []Category{
		CategoryOutdoor,
		CategoryCreative,
		CategoryReading,
		CategoryFamily,
		CategorySport,
		CategoryLearning,
	}
}

// ParseCategory converts a string into a Category
func ParseCategory(s string) (Category, error) {
	c := Category(s)
	switch c {
	case CategoryOutdoor, CategoryCreative, CategoryReading,
		CategoryFamily, CategorySport, CategoryLearning:
		return c, nil
	}
	return "", fmt.Errorf("unknown category: %q", s)
}

// Difficulty indicates how demanding a challenge is
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// ParseDifficulty converts a string into a Difficulty
func ParseDifficulty(s string) (Difficulty, error) {
	d := Difficulty(s)
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return d, nil
	}
	return "", fmt.Errorf("unknown difficulty: %q", s)
}

// ChallengeTemplate is a reusable catalog entry describing an offline
// activity. Templates are immutable once published.
type ChallengeTemplate struct {
	ID              int64      `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Category        Category   `json:"category"`
	Difficulty      Difficulty `json:"difficulty"`
	MinAge          int        `json:"min_age"`
	MaxAge          int        `json:"max_age"`
	DurationMinutes int        `json:"duration_minutes"`
	FunCredits      int        `json:"fun_credits"`
	CreatedAt       time.Time  `json:"created_at"`
}

// MatchesAge reports whether age falls inside the template's inclusive range
func (t *ChallengeTemplate) MatchesAge(age int) bool {
	return age >= t.MinAge && age <= t.MaxAge
}

// InstanceStatus is the lifecycle state of a challenge instance
type InstanceStatus string

const (
	InstancePending   InstanceStatus = "pending"
	InstanceCompleted InstanceStatus = "completed"
)

// ChallengeInstance binds a template to a child at generation time. Each
// instance is generated once and completed at most once.
type ChallengeInstance struct {
	ID          string         `json:"instance_id"`
	TemplateID  int64          `json:"template_id"`
	ChildID     int64          `json:"child_id"`
	Status      InstanceStatus `json:"status"`
	GeneratedAt time.Time      `json:"generated_at"`
	CompletedAt *time.Time     `json:"completed_at,omitempty"`

	// Template is the catalog entry the instance was generated from,
	// attached for API responses.
	Template *ChallengeTemplate `json:"template,omitempty"`
}
