package service

import (
	"sort"
	"time"

	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// LeaderboardService ranks families by fun credits
type LeaderboardService struct {
	ledgerRepo *repository.LedgerRepository
	now        func() time.Time
}

// NewLeaderboardService creates a new leaderboard service
func NewLeaderboardService(ledgerRepo *repository.LedgerRepository) *LeaderboardService {
	return &LeaderboardService{
		ledgerRepo: ledgerRepo,
		now:        time.Now,
	}
}

// GetLeaderboard returns every family ranked by lifetime fun credits.
// Ties break on completions this week, then ascending family name, so the
// ordering is a total order and ranks are dense, 1-based and never shared.
// The week starts Monday 00:00 UTC.
func (s *LeaderboardService) GetLeaderboard() ([]models.LeaderboardEntry, error) {
	weekStart := StartOfWeek(s.now())

	rows, err := s.ledgerRepo.GetLeaderboardRows(weekStart)
	if err != nil {
		return nil, err
	}

	return rankRows(rows), nil
}

// rankRows orders families by the tie-break chain and assigns dense
// 1-based ranks. Sorting happens here so ordering never depends on database
// collation.
func rankRows(rows []repository.LeaderboardRow) []models.LeaderboardEntry {
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].TotalCredits != rows[j].TotalCredits {
			return rows[i].TotalCredits > rows[j].TotalCredits
		}
		if rows[i].WeeklyCounted != rows[j].WeeklyCounted {
			return rows[i].WeeklyCounted > rows[j].WeeklyCounted
		}
		return rows[i].FamilyName < rows[j].FamilyName
	})

	entries := make([]models.LeaderboardEntry, 0, len(rows))
	for i, row := range rows {
		entries = append(entries, models.LeaderboardEntry{
			Rank:             i + 1,
			FamilyID:         row.FamilyID,
			FamilyName:       row.FamilyName,
			TotalCredits:     row.TotalCredits,
			WeeklyChallenges: row.WeeklyCounted,
		})
	}

	return entries
}

// StartOfWeek returns Monday 00:00 UTC of the week containing t
func StartOfWeek(t time.Time) time.Time {
	t = t.UTC()
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7
	}
	day := t.AddDate(0, 0, -(weekday - 1))
	return time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
}
