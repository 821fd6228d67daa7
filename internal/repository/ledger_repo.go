package repository

import (
	"database/sql"
	"fmt"
	"time"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
)

// LedgerRepository handles the immutable completion ledger and the
// aggregations derived from it.
type LedgerRepository struct {
	db *database.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *database.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// RecordCompletion marks an instance completed and appends a ledger entry in
// one transaction. The status flip is a compare-and-set on 'pending', so
// exactly one caller wins for a given instance. When another caller already
// completed it, the existing record is returned with alreadyCompleted true
// and no new entry is written.
func (r *LedgerRepository) RecordCompletion(rec *models.CompletionRecord) (*models.CompletionRecord, bool, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE challenge_instances
		SET status = 'completed', completed_at = ?
		WHERE id = ? AND status = 'pending'
	`
	result, err := tx.Exec(query, rec.CompletedAt, rec.InstanceID)
	if err != nil {
		return nil, false, fmt.Errorf("failed to mark instance completed: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return nil, false, fmt.Errorf("failed to check instance update: %w", err)
	}

	if affected == 0 {
		// Lost the race (or a replayed request): return the existing entry.
		tx.Rollback()
		existing, err := r.GetByInstanceID(rec.InstanceID)
		if err != nil {
			return nil, false, err
		}
		if existing == nil {
			return nil, false, fmt.Errorf("instance %s completed but has no ledger entry", rec.InstanceID)
		}
		return existing, true, nil
	}

	query = `
		INSERT INTO completions
			(id, child_id, challenge_instance_id, template_id, family_id,
			 fun_credits_earned, validation_method, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query,
		rec.ID, rec.ChildID, rec.InstanceID, rec.TemplateID, rec.FamilyID,
		rec.FunCreditsEarned, string(rec.ValidationMethod), rec.CompletedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to insert completion: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return rec, false, nil
}

// GetByInstanceID retrieves the ledger entry for an instance.
// Returns nil if none exists.
func (r *LedgerRepository) GetByInstanceID(instanceID string) (*models.CompletionRecord, error) {
	query := `
		SELECT id, child_id, challenge_instance_id, template_id, family_id,
		       fun_credits_earned, validation_method, completed_at
		FROM completions
		WHERE challenge_instance_id = ?
	`
	rec := &models.CompletionRecord{}
	err := r.db.QueryRow(query, instanceID).Scan(
		&rec.ID,
		&rec.ChildID,
		&rec.InstanceID,
		&rec.TemplateID,
		&rec.FamilyID,
		&rec.FunCreditsEarned,
		&rec.ValidationMethod,
		&rec.CompletedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get completion: %w", err)
	}

	return rec, nil
}

// GetChildTotals returns a child's lifetime credits and completion count
func (r *LedgerRepository) GetChildTotals(childID int64) (credits int, completed int, err error) {
	query := `
		SELECT COALESCE(SUM(fun_credits_earned), 0), COUNT(*)
		FROM completions
		WHERE child_id = ?
	`
	if err := r.db.QueryRow(query, childID).Scan(&credits, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to get child totals: %w", err)
	}
	return credits, completed, nil
}

// GetChildCategoryBreakdown returns completion counts per category for a child
func (r *LedgerRepository) GetChildCategoryBreakdown(childID int64) (map[models.Category]int, error) {
	query := `
		SELECT t.category, COUNT(*)
		FROM completions c
		INNER JOIN challenge_templates t ON t.id = c.template_id
		WHERE c.child_id = ?
		GROUP BY t.category
	`
	rows, err := r.db.Query(query, childID)
	if err != nil {
		return nil, fmt.Errorf("failed to query category breakdown: %w", err)
	}
	defer rows.Close()

	breakdown := make(map[models.Category]int)
	for rows.Next() {
		var category models.Category
		var count int
		if err := rows.Scan(&category, &count); err != nil {
			return nil, fmt.Errorf("failed to scan category count: %w", err)
		}
		breakdown[category] = count
	}

	return breakdown, rows.Err()
}

// GetRecentCompletions returns a child's most recent ledger entries,
// newest first.
func (r *LedgerRepository) GetRecentCompletions(childID int64, limit int) ([]models.CompletionRecord, error) {
	query := `
		SELECT id, child_id, challenge_instance_id, template_id, family_id,
		       fun_credits_earned, validation_method, completed_at
		FROM completions
		WHERE child_id = ?
		ORDER BY completed_at DESC, id DESC
		LIMIT ?
	`
	rows, err := r.db.Query(query, childID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer rows.Close()

	var records []models.CompletionRecord
	for rows.Next() {
		var rec models.CompletionRecord
		if err := rows.Scan(
			&rec.ID,
			&rec.ChildID,
			&rec.InstanceID,
			&rec.TemplateID,
			&rec.FamilyID,
			&rec.FunCreditsEarned,
			&rec.ValidationMethod,
			&rec.CompletedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan completion: %w", err)
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

// RecentCompletedTemplateIDs returns the distinct template IDs a child has
// completed since the given time. Used by generation to avoid repeats.
func (r *LedgerRepository) RecentCompletedTemplateIDs(childID int64, since time.Time) ([]int64, error) {
	query := `
		SELECT DISTINCT template_id
		FROM completions
		WHERE child_id = ? AND completed_at >= ?
	`
	rows, err := r.db.Query(query, childID, since)
	if err != nil {
		return nil, fmt.Errorf("failed to query recent completions: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan template ID: %w", err)
		}
		ids = append(ids, id)
	}

	return ids, rows.Err()
}

// GetFamilyTotals returns a family's lifetime credits and completion count,
// attributed by the family snapshot on each ledger entry.
func (r *LedgerRepository) GetFamilyTotals(familyID int64) (credits int, completed int, err error) {
	query := `
		SELECT COALESCE(SUM(fun_credits_earned), 0), COUNT(*)
		FROM completions
		WHERE family_id = ?
	`
	if err := r.db.QueryRow(query, familyID).Scan(&credits, &completed); err != nil {
		return 0, 0, fmt.Errorf("failed to get family totals: %w", err)
	}
	return credits, completed, nil
}

// LeaderboardRow is one family's aggregates before ranks are assigned
type LeaderboardRow struct {
	FamilyID      int64
	FamilyName    string
	TotalCredits  int
	WeeklyCounted int
}

// GetLeaderboardRows returns per-family lifetime credits and the number of
// completions since weekStart, ordered by credits descending with weekly
// count and family name as tie-breakers. Families with no completions are
// included at zero.
func (r *LedgerRepository) GetLeaderboardRows(weekStart time.Time) ([]LeaderboardRow, error) {
	query := `
		SELECT f.id, f.name,
		       COALESCE(SUM(c.fun_credits_earned), 0),
		       COALESCE(SUM(CASE WHEN c.completed_at >= ? THEN 1 ELSE 0 END), 0)
		FROM families f
		LEFT JOIN completions c ON c.family_id = f.id
		GROUP BY f.id, f.name
		ORDER BY 3 DESC, 4 DESC, f.name ASC
	`
	rows, err := r.db.Query(query, weekStart)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var result []LeaderboardRow
	for rows.Next() {
		var row LeaderboardRow
		if err := rows.Scan(&row.FamilyID, &row.FamilyName, &row.TotalCredits, &row.WeeklyCounted); err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard row: %w", err)
		}
		result = append(result, row)
	}

	return result, rows.Err()
}
