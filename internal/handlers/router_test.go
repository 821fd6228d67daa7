package handlers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
	"screenbreak/internal/repository"
	"screenbreak/internal/service"
)

// newTestServer stands up the full router over a throwaway SQLite database
func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	db, err := database.Initialize(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to initialize database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if err := db.SeedDefaultCatalog(); err != nil {
		t.Fatalf("failed to seed catalog: %v", err)
	}

	childRepo := repository.NewChildRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	catalogRepo := repository.NewCatalogRepository(db)
	instanceRepo := repository.NewInstanceRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)

	logger := zap.NewNop()

	router := NewRouter(RouterDeps{
		FamilyService:      service.NewFamilyService(familyRepo, childRepo, ledgerRepo),
		CatalogService:     service.NewCatalogService(catalogRepo),
		ChallengeService:   service.NewChallengeService(catalogRepo, instanceRepo, childRepo, ledgerRepo, 7),
		LedgerService:      service.NewLedgerService(instanceRepo, ledgerRepo, childRepo, logger),
		StatsService:       service.NewStatsService(childRepo, familyRepo, ledgerRepo),
		LeaderboardService: service.NewLeaderboardService(ledgerRepo),
		Logger:             logger,
		CORSOrigins:        []string{"*"},
	})

	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return server
}

func postJSON(t *testing.T, url string, body interface{}) *http.Response {
	t.Helper()
	payload, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("failed to marshal body: %v", err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp
}

func decodeBody(t *testing.T, resp *http.Response, dst interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(dst); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

func TestChallengeLifecycleOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	// Register a child.
	resp := postJSON(t, server.URL+"/api/children", map[string]interface{}{
		"name":             "Robin",
		"age":              9,
		"interests":        []string{"outdoor"},
		"screen_time_goal": 60,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create child status = %d", resp.StatusCode)
	}
	var child models.Child
	decodeBody(t, resp, &child)

	// Generate a challenge.
	resp = postJSON(t, server.URL+"/api/challenges/generate", map[string]interface{}{
		"child_id": child.ID,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("generate status = %d", resp.StatusCode)
	}
	var instance models.ChallengeInstance
	decodeBody(t, resp, &instance)
	if instance.Template == nil {
		t.Fatal("generated instance must carry its template")
	}
	if !instance.Template.MatchesAge(child.Age) {
		t.Errorf("template age range %d-%d excludes child age %d",
			instance.Template.MinAge, instance.Template.MaxAge, child.Age)
	}

	// Complete it.
	completeBody := map[string]interface{}{
		"child_id":          child.ID,
		"challenge_id":      instance.ID,
		"validation_method": "parent",
	}
	resp = postJSON(t, server.URL+"/api/challenges/complete", completeBody)
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("complete status = %d", resp.StatusCode)
	}
	var record models.CompletionRecord
	decodeBody(t, resp, &record)
	if record.FunCreditsEarned != instance.Template.FunCredits {
		t.Errorf("credits = %d, want %d", record.FunCreditsEarned, instance.Template.FunCredits)
	}

	// Complete again: same record, 200 not 201.
	resp = postJSON(t, server.URL+"/api/challenges/complete", completeBody)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("duplicate complete status = %d, want 200", resp.StatusCode)
	}
	var duplicate models.CompletionRecord
	decodeBody(t, resp, &duplicate)
	if duplicate.ID != record.ID {
		t.Error("duplicate completion must return the original record")
	}

	// Stats reflect a single completion.
	statsResp, err := http.Get(fmt.Sprintf("%s/api/stats/child/%d", server.URL, child.ID))
	if err != nil {
		t.Fatalf("stats request failed: %v", err)
	}
	var stats models.ChildStats
	decodeBody(t, statsResp, &stats)
	if stats.TotalChallengesCompleted != 1 {
		t.Errorf("completed = %d, want 1", stats.TotalChallengesCompleted)
	}
	if stats.TotalFunCredits != record.FunCreditsEarned {
		t.Errorf("credits = %d, want %d", stats.TotalFunCredits, record.FunCreditsEarned)
	}
}

func TestValidationErrorsOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	// Age outside 3-17.
	resp := postJSON(t, server.URL+"/api/children", map[string]interface{}{
		"name": "Too old",
		"age":  25,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("out-of-range age status = %d, want 400", resp.StatusCode)
	}

	// Missing required field.
	resp = postJSON(t, server.URL+"/api/children", map[string]interface{}{
		"age": 9,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("missing name status = %d, want 400", resp.StatusCode)
	}

	// Unknown child.
	resp = postJSON(t, server.URL+"/api/challenges/generate", map[string]interface{}{
		"child_id": 12345,
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown child status = %d, want 404", resp.StatusCode)
	}

	// Unknown category.
	respCreate := postJSON(t, server.URL+"/api/children", map[string]interface{}{
		"name": "Kid",
		"age":  9,
	})
	var child models.Child
	decodeBody(t, respCreate, &child)

	resp = postJSON(t, server.URL+"/api/challenges/generate", map[string]interface{}{
		"child_id": child.ID,
		"category": "gaming",
	})
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("unknown category status = %d, want 400", resp.StatusCode)
	}
}

func TestLeaderboardOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	// Two children, two families.
	var kids []models.Child
	for _, name := range []string{"A", "B"} {
		resp := postJSON(t, server.URL+"/api/children", map[string]interface{}{
			"name": name,
			"age":  10,
		})
		var child models.Child
		decodeBody(t, resp, &child)
		kids = append(kids, child)
	}

	for i, famName := range []string{"Zebras", "Yaks"} {
		resp := postJSON(t, server.URL+"/api/families", map[string]interface{}{
			"name":     famName,
			"children": []int64{kids[i].ID},
		})
		resp.Body.Close()
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("create family status = %d", resp.StatusCode)
		}
	}

	resp, err := http.Get(server.URL + "/api/leaderboard")
	if err != nil {
		t.Fatalf("leaderboard request failed: %v", err)
	}
	var entries []models.LeaderboardEntry
	decodeBody(t, resp, &entries)

	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	// No completions yet: equal at zero, name breaks the tie.
	if entries[0].FamilyName != "Yaks" || entries[0].Rank != 1 {
		t.Errorf("first entry = %+v", entries[0])
	}
	if entries[1].FamilyName != "Zebras" || entries[1].Rank != 2 {
		t.Errorf("second entry = %+v", entries[1])
	}
}

func TestFamilyMembershipOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	resp := postJSON(t, server.URL+"/api/children", map[string]interface{}{
		"name": "Sam",
		"age":  11,
	})
	var child models.Child
	decodeBody(t, resp, &child)

	resp = postJSON(t, server.URL+"/api/families", map[string]interface{}{
		"name": "The Lees",
	})
	var family models.Family
	decodeBody(t, resp, &family)

	memberURL := fmt.Sprintf("%s/api/families/%d/children/%d", server.URL, family.ID, child.ID)

	// Add, then add again: both succeed.
	for i := 0; i < 2; i++ {
		resp = postJSON(t, memberURL, nil)
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("add child attempt %d status = %d", i+1, resp.StatusCode)
		}
	}

	getResp, err := http.Get(fmt.Sprintf("%s/api/families/%d", server.URL, family.ID))
	if err != nil {
		t.Fatalf("get family failed: %v", err)
	}
	var withTotals models.FamilyWithTotals
	decodeBody(t, getResp, &withTotals)
	if len(withTotals.ChildIDs) != 1 || withTotals.ChildIDs[0] != child.ID {
		t.Errorf("members = %v, want [%d]", withTotals.ChildIDs, child.ID)
	}

	// Remove, then remove again: both succeed, membership empty.
	for i := 0; i < 2; i++ {
		req, err := http.NewRequest(http.MethodDelete, memberURL, nil)
		if err != nil {
			t.Fatalf("build delete request: %v", err)
		}
		resp, err := http.DefaultClient.Do(req)
		if err != nil {
			t.Fatalf("remove child failed: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("remove child attempt %d status = %d", i+1, resp.StatusCode)
		}
	}

	getResp, err = http.Get(fmt.Sprintf("%s/api/families/%d", server.URL, family.ID))
	if err != nil {
		t.Fatalf("get family failed: %v", err)
	}
	decodeBody(t, getResp, &withTotals)
	if len(withTotals.ChildIDs) != 0 {
		t.Errorf("members after removal = %v, want none", withTotals.ChildIDs)
	}

	// Unknown family is a 404.
	resp = postJSON(t, fmt.Sprintf("%s/api/families/9999/children/%d", server.URL, child.ID), nil)
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("unknown family status = %d, want 404", resp.StatusCode)
	}
}

func TestCatalogAgeFilterOverHTTP(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/api/challenges?age=5")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	var templates []models.ChallengeTemplate
	decodeBody(t, resp, &templates)
	if len(templates) == 0 {
		t.Fatal("seeded catalog must have templates for age 5")
	}
	for _, tmpl := range templates {
		if !tmpl.MatchesAge(5) {
			t.Errorf("template %q age range %d-%d excludes 5", tmpl.Title, tmpl.MinAge, tmpl.MaxAge)
		}
	}

	resp, err = http.Get(server.URL + "/api/challenges?age=banana")
	if err != nil {
		t.Fatalf("list request failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("bad age status = %d, want 400", resp.StatusCode)
	}
}

func TestHealthEndpoint(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	server := newTestServer(t)

	resp, err := http.Get(server.URL + "/health")
	if err != nil {
		t.Fatalf("health request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("health status = %d", resp.StatusCode)
	}

	welcome, err := http.Get(server.URL + "/api/")
	if err != nil {
		t.Fatalf("welcome request failed: %v", err)
	}
	defer welcome.Body.Close()
	if welcome.StatusCode != http.StatusOK {
		t.Errorf("welcome status = %d", welcome.StatusCode)
	}
}
