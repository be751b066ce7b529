package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/noah-isme/lris-api/internal/models"
	"github.com/noah-isme/lris-api/pkg/database"
)

const schoolColumns = "school_id, name, enrollees, resources_allocated, district, level, principal, contact, email"

// SchoolRepository handles persistence for schools.
type SchoolRepository struct {
	source *database.Source
}

// NewSchoolRepository creates a new repository instance.
func NewSchoolRepository(source *database.Source) *SchoolRepository {
	return &SchoolRepository{source: source}
}

// List returns every school ordered by name.
func (r *SchoolRepository) List(ctx context.Context) ([]models.School, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + schoolColumns + " FROM schools ORDER BY name ASC"
	var schools []models.School
	if err := db.SelectContext(ctx, &schools, query); err != nil {
		return nil, fmt.Errorf("list schools: %w", err)
	}
	return schools, nil
}

// FindByID returns a school by its code.
func (r *SchoolRepository) FindByID(ctx context.Context, id string) (*models.School, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + schoolColumns + " FROM schools WHERE school_id = $1"
	var school models.School
	if err := db.GetContext(ctx, &school, query, id); err != nil {
		return nil, err
	}
	return &school, nil
}

// Create persists a new school.
func (r *SchoolRepository) Create(ctx context.Context, school *models.School) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	const query = `INSERT INTO schools (school_id, name, enrollees, resources_allocated, district, level, principal, contact, email) VALUES (:school_id, :name, :enrollees, :resources_allocated, :district, :level, :principal, :contact, :email)`
	if _, err := db.NamedExecContext(ctx, query, school); err != nil {
		return fmt.Errorf("create school: %w", err)
	}
	return nil
}

// Update replaces every column of the school matched by currentID. The code
// itself may change. Returns sql.ErrNoRows when nothing matched.
func (r *SchoolRepository) Update(ctx context.Context, currentID string, school *models.School) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	const query = `UPDATE schools SET school_id = $1, name = $2, enrollees = $3, resources_allocated = $4, district = $5, level = $6, principal = $7, contact = $8, email = $9 WHERE school_id = $10`
	res, err := db.ExecContext(ctx, query,
		school.ID, school.Name, school.Enrollees, school.ResourcesAllocated, school.District,
		school.Level, school.Principal, school.Contact, school.Email, currentID)
	if err != nil {
		return fmt.Errorf("update school: %w", err)
	}
	return expectAffected(res, "update school")
}

// Delete removes a school. Returns sql.ErrNoRows when nothing matched.
func (r *SchoolRepository) Delete(ctx context.Context, id string) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM schools WHERE school_id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete school: %w", err)
	}
	return expectAffected(res, "delete school")
}

func expectAffected(res sql.Result, op string) error {
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("%s rows affected: %w", op, err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
