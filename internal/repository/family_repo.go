package repository

import (
	"database/sql"
	"fmt"
	"time"

	"screenbreak/internal/database"
	"screenbreak/internal/models"
)

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family and assigns the given children to it in
// a single transaction.
func (r *FamilyRepository) CreateFamily(name string, childIDs []int64) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name) VALUES (?)"
	familyID, err := tx.ExecReturningID(query, name)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	for _, childID := range childIDs {
		query = "UPDATE children SET family_id = ? WHERE id = ?"
		result, err := tx.Exec(query, familyID, childID)
		if err != nil {
			return nil, fmt.Errorf("failed to assign child to family: %w", err)
		}
		affected, err := result.RowsAffected()
		if err != nil {
			return nil, fmt.Errorf("failed to check child assignment: %w", err)
		}
		if affected == 0 {
			return nil, fmt.Errorf("child %d: %w", childID, sql.ErrNoRows)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	family := &models.Family{
		ID:        familyID,
		Name:      name,
		CreatedAt: time.Now(),
	}

	return family, nil
}

// GetFamilyByID retrieves a family by ID. Returns nil if no family exists.
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, created_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(query, familyID).Scan(
		&family.ID,
		&family.Name,
		&family.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// GetAllFamilies retrieves all families
func (r *FamilyRepository) GetAllFamilies() ([]models.Family, error) {
	query := "SELECT id, name, created_at FROM families ORDER BY name ASC"
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}

	return families, rows.Err()
}

// RemoveChild detaches a child from a family. No-op if the child is not a
// member.
func (r *FamilyRepository) RemoveChild(familyID, childID int64) error {
	query := "UPDATE children SET family_id = NULL WHERE id = ? AND family_id = ?"
	if _, err := r.db.Exec(query, childID, familyID); err != nil {
		return fmt.Errorf("failed to remove child from family: %w", err)
	}
	return nil
}

// AssignChildren moves the given children into a family
func (r *FamilyRepository) AssignChildren(familyID int64, childIDs []int64) error {
	tx, err := r.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	for _, childID := range childIDs {
		query := "UPDATE children SET family_id = ? WHERE id = ?"
		if _, err := tx.Exec(query, familyID, childID); err != nil {
			return fmt.Errorf("failed to assign child to family: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
