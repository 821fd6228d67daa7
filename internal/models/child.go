package models

import "time"

// Child age and screen-time goal limits enforced at registration.
const (
	MinChildAge = 3
	MaxChildAge = 17

	MinScreenTimeGoal = 30
	MaxScreenTimeGoal = 300

	DefaultScreenTimeGoal = 60
)

// Child represents a registered child profile. A child belongs to at most
// one family; FamilyID is nil while unassigned.
type Child struct {
	ID             int64     `json:"id"`
	FamilyID       *int64    `json:"family_id,omitempty"`
	Name           string    `json:"name"`
	Age            int       `json:"age"`
	Interests      []string  `json:"interests"`
	ScreenTimeGoal int       `json:"screen_time_goal"`
	CreatedAt      time.Time `json:"created_at"`
}

// ChildStats aggregates a child's completions, derived from the ledger.
type ChildStats struct {
	ChildID                  int64              `json:"child_id"`
	TotalFunCredits          int                `json:"total_fun_credits"`
	TotalChallengesCompleted int                `json:"total_challenges_completed"`
	CategoriesBreakdown      map[Category]int   `json:"categories_breakdown"`
	RecentChallenges         []CompletionRecord `json:"recent_challenges"`
}
