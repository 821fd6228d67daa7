package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
)

// ChildRepository handles database operations for child profiles
type ChildRepository struct {
	db *database.DB
}

// NewChildRepository creates a new child repository
func NewChildRepository(db *database.DB) *ChildRepository {
	return &ChildRepository{db: db}
}

// CreateChild creates a new child profile
func (r *ChildRepository) CreateChild(name string, age int, interests []string, screenTimeGoal int) (*models.Child, error) {
	query := "INSERT INTO children (name, age, interests, screen_time_goal) VALUES (?, ?, ?, ?)"
	childID, err := r.db.ExecReturningID(query, name, age, interestsToString(interests), screenTimeGoal)
	if err != nil {
		return nil, fmt.Errorf("failed to create child: %w", err)
	}

	child := &models.Child{
		ID:             childID,
		Name:           name,
		Age:            age,
		Interests:      interests,
		ScreenTimeGoal: screenTimeGoal,
		CreatedAt:      time.Now(),
	}

	return child, nil
}

// GetChildByID retrieves a child by ID. Returns nil if no child exists.
func (r *ChildRepository) GetChildByID(childID int64) (*models.Child, error) {
	query := `
		SELECT id, family_id, name, age, interests, screen_time_goal, created_at
		FROM children
		WHERE id = ?
	`
	child := &models.Child{}
	var interests string
	err := r.db.QueryRow(query, childID).Scan(
		&child.ID,
		&child.FamilyID,
		&child.Name,
		&child.Age,
		&interests,
		&child.ScreenTimeGoal,
		&child.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get child: %w", err)
	}

	child.Interests = stringToInterests(interests)
	return child, nil
}

// GetAllChildren retrieves all registered children
func (r *ChildRepository) GetAllChildren() ([]models.Child, error) {
	query := `
		SELECT id, family_id, name, age, interests, screen_time_goal, created_at
		FROM children
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	return scanChildren(rows)
}

// GetFamilyChildren retrieves all children assigned to a family
func (r *ChildRepository) GetFamilyChildren(familyID int64) ([]models.Child, error) {
	query := `
		SELECT id, family_id, name, age, interests, screen_time_goal, created_at
		FROM children
		WHERE family_id = ?
		ORDER BY created_at ASC
	`
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query children: %w", err)
	}
	defer rows.Close()

	return scanChildren(rows)
}

func scanChildren(rows *sql.Rows) ([]models.Child, error) {
	var children []models.Child
	for rows.Next() {
		var child models.Child
		var interests string
		if err := rows.Scan(
			&child.ID,
			&child.FamilyID,
			&child.Name,
			&child.Age,
			&interests,
			&child.ScreenTimeGoal,
			&child.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan child: %w", err)
		}
		child.Interests = stringToInterests(interests)
		children = append(children, child)
	}

	return children, rows.Err()
}

// interestsToString serializes an interest list for storage
func interestsToString(interests []string) string {
	return strings.Join(interests, ",")
}

// stringToInterests parses a stored interest list
func stringToInterests(s string) []string {
	if s == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	interests := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			interests = append(interests, p)
		}
	}
	return interests
}
