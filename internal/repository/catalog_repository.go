package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/lris-api/internal/models"
	"github.com/noah-isme/lris-api/pkg/database"
)

// CatalogRepository persists one catalog category. The table and its
// category-specific columns come from the schema it was built with.
type CatalogRepository struct {
	source   *database.Source
	schema   models.CatalogSchema
	category models.Category

	selectList string
}

// NewCatalogRepository creates a repository for the given schema.
func NewCatalogRepository(source *database.Source, category models.Category, schema models.CatalogSchema) *CatalogRepository {
	columns := []string{schema.IDColumn, schema.Name.Column}
	for _, attr := range schema.Attributes {
		columns = append(columns, attr.Column)
	}
	columns = append(columns, "quantity", "status", "description", "created_by", "modified_by", "date_added", "date_modified", "is_active")

	return &CatalogRepository{
		source:     source,
		schema:     schema,
		category:   category,
		selectList: strings.Join(columns, ", "),
	}
}

// ListActive returns active items, newest first.
func (r *CatalogRepository) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	query := fmt.Sprintf("SELECT %s FROM %s WHERE is_active = TRUE ORDER BY date_added DESC", r.selectList, r.schema.Table)
	return r.list(ctx, query, "list active "+r.schema.Table)
}

// ListAll returns every item including retired ones, newest first.
func (r *CatalogRepository) ListAll(ctx context.Context) ([]models.CatalogItem, error) {
	query := fmt.Sprintf("SELECT %s FROM %s ORDER BY date_added DESC", r.selectList, r.schema.Table)
	return r.list(ctx, query, "list "+r.schema.Table)
}

// FindByID returns an item regardless of whether it is active.
func (r *CatalogRepository) FindByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s = $1", r.selectList, r.schema.Table, r.schema.IDColumn)
	row := db.QueryRowxContext(ctx, query, id)
	item, err := r.scan(row)
	if err != nil {
		return nil, err
	}
	return item, nil
}

// Create inserts an active item and fills in its identifier.
func (r *CatalogRepository) Create(ctx context.Context, item *models.CatalogItem) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	if item.DateAdded.IsZero() {
		item.DateAdded = time.Now().UTC()
	}
	item.IsActive = true

	columns := []string{r.schema.Name.Column}
	args := []interface{}{item.Name}
	for _, attr := range r.schema.Attributes {
		columns = append(columns, attr.Column)
		args = append(args, item.Attribute(attr.Name))
	}
	columns = append(columns, "quantity", "status", "description", "created_by", "date_added", "is_active")
	args = append(args, item.Quantity, item.Status, item.Description, item.CreatedBy, item.DateAdded, true)

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s) RETURNING %s",
		r.schema.Table, strings.Join(columns, ", "), placeholders(1, len(args)), r.schema.IDColumn)
	if err := db.QueryRowxContext(ctx, query, args...).Scan(&item.ID); err != nil {
		return fmt.Errorf("create %s: %w", r.schema.Table, err)
	}
	item.Category = r.category
	item.Schema = &r.schema
	return nil
}

// Update replaces the mutable columns of an item. Returns sql.ErrNoRows when
// nothing matched.
func (r *CatalogRepository) Update(ctx context.Context, item *models.CatalogItem) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	if item.DateModified == nil {
		now := time.Now().UTC()
		item.DateModified = &now
	}

	sets := []string{r.schema.Name.Column}
	args := []interface{}{item.Name}
	for _, attr := range r.schema.Attributes {
		sets = append(sets, attr.Column)
		args = append(args, item.Attribute(attr.Name))
	}
	sets = append(sets, "quantity", "status", "description", "modified_by", "date_modified")
	args = append(args, item.Quantity, item.Status, item.Description, item.ModifiedBy, *item.DateModified)

	assignments := make([]string, len(sets))
	for i, col := range sets {
		assignments[i] = fmt.Sprintf("%s = $%d", col, i+1)
	}
	args = append(args, item.ID)
	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s = $%d",
		r.schema.Table, strings.Join(assignments, ", "), r.schema.IDColumn, len(args))

	res, err := db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update %s: %w", r.schema.Table, err)
	}
	return expectAffected(res, "update "+r.schema.Table)
}

// Delete removes an item row. Returns sql.ErrNoRows when nothing matched.
func (r *CatalogRepository) Delete(ctx context.Context, id int64) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = $1", r.schema.Table, r.schema.IDColumn)
	res, err := db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", r.schema.Table, err)
	}
	return expectAffected(res, "delete "+r.schema.Table)
}

// Deactivate soft-deletes an active item. Returns sql.ErrNoRows when no
// active item matched.
func (r *CatalogRepository) Deactivate(ctx context.Context, id int64, actor string) error {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return err
	}
	query := fmt.Sprintf("UPDATE %s SET is_active = FALSE, date_modified = $1, modified_by = $2 WHERE %s = $3 AND is_active = TRUE",
		r.schema.Table, r.schema.IDColumn)
	res, err := db.ExecContext(ctx, query, time.Now().UTC(), actor, id)
	if err != nil {
		return fmt.Errorf("deactivate %s: %w", r.schema.Table, err)
	}
	return expectAffected(res, "deactivate "+r.schema.Table)
}

func (r *CatalogRepository) list(ctx context.Context, query, op string) ([]models.CatalogItem, error) {
	db, err := r.source.Acquire(ctx)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryxContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := make([]models.CatalogItem, 0)
	for rows.Next() {
		item, err := r.scan(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		items = append(items, *item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

type scanner interface {
	Scan(dest ...interface{}) error
}

var (
	_ scanner = (*sqlx.Row)(nil)
	_ scanner = (*sqlx.Rows)(nil)
)

func (r *CatalogRepository) scan(row scanner) (*models.CatalogItem, error) {
	var (
		item         models.CatalogItem
		description  sql.NullString
		createdBy    sql.NullString
		modifiedBy   sql.NullString
		dateModified sql.NullTime
	)

	attrs := make([]interface{}, len(r.schema.Attributes))
	for i, attr := range r.schema.Attributes {
		if attr.Kind == models.FieldNumber {
			attrs[i] = new(sql.NullInt64)
		} else {
			attrs[i] = new(sql.NullString)
		}
	}

	dest := []interface{}{&item.ID, &item.Name}
	dest = append(dest, attrs...)
	dest = append(dest, &item.Quantity, &item.Status, &description, &createdBy, &modifiedBy, &item.DateAdded, &dateModified, &item.IsActive)
	if err := row.Scan(dest...); err != nil {
		return nil, err
	}

	item.Attributes = make(map[string]interface{}, len(r.schema.Attributes))
	for i, attr := range r.schema.Attributes {
		switch v := attrs[i].(type) {
		case *sql.NullInt64:
			if v.Valid {
				item.Attributes[attr.Name] = int(v.Int64)
			}
		case *sql.NullString:
			if v.Valid {
				item.Attributes[attr.Name] = v.String
			}
		}
	}
	item.Description = description.String
	item.CreatedBy = createdBy.String
	if modifiedBy.Valid {
		item.ModifiedBy = &modifiedBy.String
	}
	if dateModified.Valid {
		item.DateModified = &dateModified.Time
	}
	item.Category = r.category
	item.Schema = &r.schema
	return &item, nil
}

func placeholders(start, n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("$%d", start+i)
	}
	return strings.Join(parts, ", ")
}
