package repository

import (
	"context"
	"fmt"

	"github.com/noah-isme/lris-api/internal/models"
	"github.com/noah-isme/lris-api/pkg/database"
)

const distributionColumns = "distribution_id, school_id, resource_category, resource_item_id, resource_name, quantity, date_distributed, notes"

// DistributionRepository persists the append-only distribution ledger.
type DistributionRepository struct {
	source *database.Source
}

// NewDistributionRepository creates a new repository instance.
func NewDistributionRepository(source *database.Source) *DistributionRepository {
	return &DistributionRepository{source: source}
}

// Create inserts a record and fills in its generated identifier.
func (r *DistributionRepository) Create(ctx context.Context, record *models.DistributionRecord) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	const query = `INSERT INTO distributed_resources (school_id, resource_category, resource_item_id, resource_name, quantity, date_distributed, notes) VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING distribution_id`
	if err := db.QueryRowxContext(ctx, query,
		record.SchoolID, record.ResourceCategory, record.ResourceItemID, record.ResourceName,
		record.Quantity, record.DateDistributed, record.Notes,
	).Scan(&record.ID); err != nil {
		return fmt.Errorf("create distribution: %w", err)
	}
	return nil
}

// List returns every record in insertion order.
func (r *DistributionRepository) List(ctx context.Context) ([]models.DistributionRecord, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + distributionColumns + " FROM distributed_resources ORDER BY distribution_id ASC"
	var records []models.DistributionRecord
	if err := db.SelectContext(ctx, &records, query); err != nil {
		return nil, fmt.Errorf("list distributions: %w", err)
	}
	return records, nil
}

// ListBySchool returns the records of one school in insertion order.
func (r *DistributionRepository) ListBySchool(ctx context.Context, schoolID string) ([]models.DistributionRecord, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := "SELECT " + distributionColumns + " FROM distributed_resources WHERE school_id = $1 ORDER BY distribution_id ASC"
	var records []models.DistributionRecord
	if err := db.SelectContext(ctx, &records, query, schoolID); err != nil {
		return nil, fmt.Errorf("list distributions by school: %w", err)
	}
	return records, nil
}
