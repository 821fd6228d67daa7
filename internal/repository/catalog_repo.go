package repository

import (
	"database/sql"
	"fmt"
	"time"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
)

// CatalogRepository handles database operations for challenge templates
type CatalogRepository struct {
	db *database.DB
}

// NewCatalogRepository creates a new catalog repository
func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// CreateTemplate publishes a new challenge template
func (r *CatalogRepository) CreateTemplate(t *models.ChallengeTemplate) (*models.ChallengeTemplate, error) {
	query := `
		INSERT INTO challenge_templates
			(title, description, category, difficulty, min_age, max_age, duration_minutes, fun_credits)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	templateID, err := r.db.ExecReturningID(query,
		t.Title, t.Description, string(t.Category), string(t.Difficulty),
		t.MinAge, t.MaxAge, t.DurationMinutes, t.FunCredits)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	created := *t
	created.ID = templateID
	created.CreatedAt = time.Now()
	return &created, nil
}

// GetTemplateByID retrieves a template by ID. Returns nil if no template exists.
func (r *CatalogRepository) GetTemplateByID(templateID int64) (*models.ChallengeTemplate, error) {
	query := `
		SELECT id, title, description, category, difficulty, min_age, max_age, duration_minutes, fun_credits, created_at
		FROM challenge_templates
		WHERE id = ?
	`
	t := &models.ChallengeTemplate{}
	err := r.db.QueryRow(query, templateID).Scan(
		&t.ID,
		&t.Title,
		&t.Description,
		&t.Category,
		&t.Difficulty,
		&t.MinAge,
		&t.MaxAge,
		&t.DurationMinutes,
		&t.FunCredits,
		&t.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get template: %w", err)
	}

	return t, nil
}

// GetAllTemplates retrieves the full catalog, optionally filtered by category
func (r *CatalogRepository) GetAllTemplates(category *models.Category) ([]models.ChallengeTemplate, error) {
	query := `
		SELECT id, title, description, category, difficulty, min_age, max_age, duration_minutes, fun_credits, created_at
		FROM challenge_templates
	`
	var args []interface{}
	if category != nil {
		query += " WHERE category = ?"
		args = append(args, string(*category))
	}
	query += " ORDER BY category ASC, min_age ASC, id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

// GetEligibleTemplates retrieves templates whose age range contains the
// given age, optionally restricted to one category.
func (r *CatalogRepository) GetEligibleTemplates(age int, category *models.Category) ([]models.ChallengeTemplate, error) {
	query := `
		SELECT id, title, description, category, difficulty, min_age, max_age, duration_minutes, fun_credits, created_at
		FROM challenge_templates
		WHERE min_age <= ? AND max_age >= ?
	`
	args := []interface{}{age, age}
	if category != nil {
		query += " AND category = ?"
		args = append(args, string(*category))
	}
	query += " ORDER BY id ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query eligible templates: %w", err)
	}
	defer rows.Close()

	return scanTemplates(rows)
}

func scanTemplates(rows *sql.Rows) ([]models.ChallengeTemplate, error) {
	var templates []models.ChallengeTemplate
	for rows.Next() {
		var t models.ChallengeTemplate
		if err := rows.Scan(
			&t.ID,
			&t.Title,
			&t.Description,
			&t.Category,
			&t.Difficulty,
			&t.MinAge,
			&t.MaxAge,
			&t.DurationMinutes,
			&t.FunCredits,
			&t.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan template: %w", err)
		}
		templates = append(templates, t)
	}

	return templates, rows.Err()
}
