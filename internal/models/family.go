package models

import "time"

// Family represents a household competing on the leaderboard
type Family struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// FamilyWithTotals combines a family with its member list and derived
// credit totals for list responses.
type FamilyWithTotals struct {
	Family
	ChildIDs        []int64 `json:"children"`
	TotalFunCredits int     `json:"total_fun_credits"`
}

// FamilyStats aggregates a family's completions. Credits and counts are
// attributed by the family snapshot on each completion record, so they are
// unaffected by later membership changes.
type FamilyStats struct {
	FamilyID                 int64 `json:"family_id"`
	TotalFunCredits          int   `json:"total_fun_credits"`
	TotalChallengesCompleted int   `json:"total_challenges_completed"`
	MemberCount              int   `json:"member_count"`
}
