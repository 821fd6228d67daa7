package service

import (
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
	"screenbreak/internal/repository"
)

// testEngine bundles the full service stack over a throwaway SQLite file
type testEngine struct {
	db          *database.DB
	family      *FamilyService
	catalog     *CatalogService
	challenge   *ChallengeService
	ledger      *LedgerService
	stats       *StatsService
	leaderboard *LeaderboardService
	ledgerRepo  *repository.LedgerRepository
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.RunMigrations("../../migrations"))

	childRepo := repository.NewChildRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	logger := zap.NewNop()

	return &testEngine{
		db:          db,
		family:      NewFamilyService(familyRepo, childRepo, ledgerRepo),
		catalog:     NewCatalogService(catalogRepo),
		challenge:   NewChallengeService(catalogRepo, instanceRepo, childRepo, ledgerRepo, 7),
		ledger:      NewLedgerService(instanceRepo, ledgerRepo, childRepo, logger),
		stats:       NewStatsService(childRepo, familyRepo, ledgerRepo),
		leaderboard: NewLeaderboardService(ledgerRepo),
		ledgerRepo:  ledgerRepo,
	}
}

func (e *testEngine) mustTemplate(t *testing.T, title, category string, minAge, maxAge, credits int) *models.ChallengeTemplate {
	t.Helper()
	template, err := e.catalog.CreateTemplate(title, "a challenge", category, "easy", minAge, maxAge, 30, credits)
	require.NoError(t, err)
	return template
}

func (e *testEngine) mustChild(t *testing.T, name string, age int, interests []string) *models.Child {
	t.Helper()
	child, err := e.family.RegisterChild(name, age, interests, 60)
	require.NoError(t, err)
	return child
}

func TestGenerateRespectsAgeGating(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Young only", "outdoor", 5, 10, 20)
	young := e.mustChild(t, "Young", 8, nil)
	teen := e.mustChild(t, "Teen", 15, nil)

	for i := 0; i < 10; i++ {
		instance, err := e.challenge.GenerateChallenge(young.ID, "")
		require.NoError(t, err)
		assert.True(t, instance.Template.MatchesAge(young.Age))
	}

	_, err := e.challenge.GenerateChallenge(teen.ID, "")
	assert.ErrorIs(t, err, ErrNoEligibleChallenge)
}

func TestGenerateInputValidation(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Anything", "outdoor", 3, 17, 10)
	child := e.mustChild(t, "Kid", 9, nil)

	_, err := e.challenge.GenerateChallenge(9999, "")
	assert.ErrorIs(t, err, ErrChildNotFound)

	_, err = e.challenge.GenerateChallenge(child.ID, "gaming")
	assert.ErrorIs(t, err, ErrInvalidArgument)

	_, err = e.challenge.GenerateChallenge(child.ID, "reading")
	assert.ErrorIs(t, err, ErrNoEligibleChallenge)
}

func TestCompleteIsIdempotent(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Outdoor fun", "outdoor", 5, 12, 20)
	child := e.mustChild(t, "Kid", 8, nil)

	instance, err := e.challenge.GenerateChallenge(child.ID, "outdoor")
	require.NoError(t, err)

	first, already, err := e.ledger.CompleteChallenge(instance.ID, child.ID, "parent")
	require.NoError(t, err)
	assert.False(t, already)
	assert.Equal(t, 20, first.FunCreditsEarned)

	second, already, err := e.ledger.CompleteChallenge(instance.ID, child.ID, "parent")
	require.NoError(t, err)
	assert.True(t, already)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.CompletedAt.Unix(), second.CompletedAt.Unix())

	stats, err := e.stats.GetChildStats(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 20, stats.TotalFunCredits)
	assert.Equal(t, 1, stats.TotalChallengesCompleted)
}

func TestConcurrentCompletionsProduceOneRecord(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Race me", "sport", 3, 17, 15)
	child := e.mustChild(t, "Kid", 10, nil)

	instance, err := e.challenge.GenerateChallenge(child.ID, "")
	require.NoError(t, err)

	const attempts = 8
	var wg sync.WaitGroup
	newRecords := make(chan struct{}, attempts)

	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, already, err := e.ledger.CompleteChallenge(instance.ID, child.ID, "self")
			if err == nil && !already {
				newRecords <- struct{}{}
			}
		}()
	}
	wg.Wait()
	close(newRecords)

	winners := 0
	for range newRecords {
		winners++
	}
	assert.Equal(t, 1, winners, "exactly one completion attempt may win")

	var count int
	err = e.db.QueryRow("SELECT COUNT(*) FROM completions WHERE challenge_instance_id = ?", instance.ID).Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	stats, err := e.stats.GetChildStats(child.ID)
	require.NoError(t, err)
	assert.Equal(t, 15, stats.TotalFunCredits)
}

func TestCompleteRejectsWrongChild(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Mine", "creative", 3, 17, 10)
	owner := e.mustChild(t, "Owner", 8, nil)
	other := e.mustChild(t, "Other", 9, nil)

	instance, err := e.challenge.GenerateChallenge(owner.ID, "")
	require.NoError(t, err)

	_, _, err = e.ledger.CompleteChallenge(instance.ID, other.ID, "parent")
	assert.ErrorIs(t, err, ErrChildMismatch)

	// The instance is still completable by its owner.
	_, already, err := e.ledger.CompleteChallenge(instance.ID, owner.ID, "parent")
	require.NoError(t, err)
	assert.False(t, already)
}

func TestStatsMatchLedger(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Reading A", "reading", 3, 17, 10)
	e.mustTemplate(t, "Sport B", "sport", 3, 17, 25)
	child := e.mustChild(t, "Kid", 10, nil)

	wantCredits := 0
	completions := 0
	for i := 0; i < 4; i++ {
		instance, err := e.challenge.GenerateChallenge(child.ID, "")
		require.NoError(t, err)
		rec, already, err := e.ledger.CompleteChallenge(instance.ID, child.ID, "parent")
		require.NoError(t, err)
		require.False(t, already)
		wantCredits += rec.FunCreditsEarned
		completions++
	}

	stats, err := e.stats.GetChildStats(child.ID)
	require.NoError(t, err)
	assert.Equal(t, wantCredits, stats.TotalFunCredits)
	assert.Equal(t, completions, stats.TotalChallengesCompleted)

	total := 0
	for _, n := range stats.CategoriesBreakdown {
		total += n
	}
	assert.Equal(t, completions, total)
	assert.Len(t, stats.CategoriesBreakdown, len(models.Categories()))
}

func TestFamilySnapshotSurvivesReassignment(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Earner", "learning", 3, 17, 30)
	child := e.mustChild(t, "Mover", 9, nil)

	first, err := e.family.CreateFamily("First", []int64{child.ID})
	require.NoError(t, err)
	second, err := e.family.CreateFamily("Second", nil)
	require.NoError(t, err)

	instance, err := e.challenge.GenerateChallenge(child.ID, "")
	require.NoError(t, err)
	_, _, err = e.ledger.CompleteChallenge(instance.ID, child.ID, "parent")
	require.NoError(t, err)

	// Move the child; historical credits must stay with the first family.
	familyRepo := repository.NewFamilyRepository(e.db)
	require.NoError(t, familyRepo.AssignChildren(second.ID, []int64{child.ID}))

	firstStats, err := e.stats.GetFamilyStats(first.ID)
	require.NoError(t, err)
	assert.Equal(t, 30, firstStats.TotalFunCredits)
	assert.Equal(t, 0, firstStats.MemberCount)

	secondStats, err := e.stats.GetFamilyStats(second.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, secondStats.TotalFunCredits)
	assert.Equal(t, 1, secondStats.MemberCount)
}

func TestLeaderboardRanksFamilies(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	e.mustTemplate(t, "Points", "family", 3, 17, 50)
	a := e.mustChild(t, "A", 8, nil)
	b := e.mustChild(t, "B", 8, nil)

	famA, err := e.family.CreateFamily("Alphas", []int64{a.ID})
	require.NoError(t, err)
	famB, err := e.family.CreateFamily("Betas", []int64{b.ID})
	require.NoError(t, err)

	// Only family B completes a challenge.
	instance, err := e.challenge.GenerateChallenge(b.ID, "")
	require.NoError(t, err)
	_, _, err = e.ledger.CompleteChallenge(instance.ID, b.ID, "parent")
	require.NoError(t, err)

	entries, err := e.leaderboard.GetLeaderboard()
	require.NoError(t, err)
	require.Len(t, entries, 2)

	assert.Equal(t, famB.ID, entries[0].FamilyID)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 50, entries[0].TotalCredits)
	assert.Equal(t, 1, entries[0].WeeklyChallenges)

	assert.Equal(t, famA.ID, entries[1].FamilyID)
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 0, entries[1].TotalCredits)
}

func TestRecencyExclusionAllowsRepeatsWhenExhausted(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	e := newTestEngine(t)

	only := e.mustTemplate(t, "Only one", "outdoor", 3, 17, 10)
	child := e.mustChild(t, "Kid", 8, nil)

	instance, err := e.challenge.GenerateChallenge(child.ID, "")
	require.NoError(t, err)
	_, _, err = e.ledger.CompleteChallenge(instance.ID, child.ID, "parent")
	require.NoError(t, err)

	// The only template was just completed; generation must fall back to a
	// repeat rather than fail.
	again, err := e.challenge.GenerateChallenge(child.ID, "")
	require.NoError(t, err)
	assert.Equal(t, only.ID, again.TemplateID)
}
