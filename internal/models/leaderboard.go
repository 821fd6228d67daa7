package models

// LeaderboardEntry is a family's position on the weekly leaderboard.
// TotalCredits is the lifetime sum of the family's snapshotted completion
// credits; WeeklyChallenges counts completions inside the current ISO week
// (Monday 00:00 UTC boundary). Ranks are 1-based and dense.
type LeaderboardEntry struct {
	Rank             int    `json:"rank"`
	FamilyID         int64  `json:"family_id"`
	FamilyName       string `json:"family_name"`
	TotalCredits     int    `json:"total_credits"`
	WeeklyChallenges int    `json:"weekly_challenges"`
}
