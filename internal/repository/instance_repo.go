package repository

import (
	"database/sql"
	"fmt"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
)

// InstanceRepository handles database operations for challenge instances
type InstanceRepository struct {
	db *database.DB
}

// NewInstanceRepository creates a new instance repository
func NewInstanceRepository(db *database.DB) *InstanceRepository {
	return &InstanceRepository{db: db}
}

// CreateInstance records a newly generated challenge instance
func (r *InstanceRepository) CreateInstance(instance *models.ChallengeInstance) error {
	query := `
		INSERT INTO challenge_instances (id, template_id, child_id, status, generated_at)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err := r.db.Exec(query,
		instance.ID, instance.TemplateID, instance.ChildID,
		string(instance.Status), instance.GeneratedAt)
	if err != nil {
		return fmt.Errorf("failed to create instance: %w", err)
	}
	return nil
}

// GetInstanceByID retrieves an instance with its template attached.
// Returns nil if no instance exists.
func (r *InstanceRepository) GetInstanceByID(instanceID string) (*models.ChallengeInstance, error) {
	query := `
		SELECT i.id, i.template_id, i.child_id, i.status, i.generated_at, i.completed_at,
		       t.id, t.title, t.description, t.category, t.difficulty,
		       t.min_age, t.max_age, t.duration_minutes, t.fun_credits, t.created_at
		FROM challenge_instances i
		INNER JOIN challenge_templates t ON t.id = i.template_id
		WHERE i.id = ?
	`
	instance := &models.ChallengeInstance{}
	template := &models.ChallengeTemplate{}
	err := r.db.QueryRow(query, instanceID).Scan(
		&instance.ID,
		&instance.TemplateID,
		&instance.ChildID,
		&instance.Status,
		&instance.GeneratedAt,
		&instance.CompletedAt,
		&template.ID,
		&template.Title,
		&template.Description,
		&template.Category,
		&template.Difficulty,
		&template.MinAge,
		&template.MaxAge,
		&template.DurationMinutes,
		&template.FunCredits,
		&template.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}

	instance.Template = template
	return instance, nil
}
