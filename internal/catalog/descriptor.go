package catalog

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/noah-isme/lris-api/internal/models"
)

// Store is the persistence contract every catalog table satisfies.
type Store interface {
	Create(ctx context.Context, item *models.CatalogItem) error
	ListActive(ctx context.Context) ([]models.CatalogItem, error)
	ListAll(ctx context.Context) ([]models.CatalogItem, error)
	FindByID(ctx context.Context, id int64) (*models.CatalogItem, error)
	Update(ctx context.Context, item *models.CatalogItem) error
	Delete(ctx context.Context, id int64) error
	Deactivate(ctx context.Context, id int64, actor string) error
}

// StoreFactory builds the store backing a schema.
type StoreFactory func(category models.Category, schema models.CatalogSchema) Store

// RetirePolicy decides what retiring a catalog item does to its row.
type RetirePolicy string

const (
	// RetireHardDelete removes the row; distribution records keep a dangling id.
	RetireHardDelete RetirePolicy = "hard_delete"
	// RetireSoftDelete clears IsActive and keeps the row for audit reads.
	RetireSoftDelete RetirePolicy = "soft_delete"
)

// ResourceNameField is the free-text field of categories without a catalog.
const ResourceNameField = "ResourceName"

// Descriptor is everything needed to work with one category.
type Descriptor struct {
	Category        models.Category `json:"category"`
	ItemLabel       string          `json:"itemLabel"`
	Segment         string          `json:"segment,omitempty"`
	EndpointPath    string          `json:"endpointPath,omitempty"`
	IdentifierField string          `json:"identifierField,omitempty"`
	Fields          []models.Field  `json:"fields"`
	Retire          RetirePolicy    `json:"retirePolicy,omitempty"`

	Schema       *models.CatalogSchema                 `json:"-"`
	Repository   Store                                 `json:"-"`
	DisplayLabel func(item models.CatalogItem) string `json:"-"`
}

// HasCatalog reports whether distribution records must reference a catalog row.
func (d *Descriptor) HasCatalog() bool {
	return d != nil && d.Schema != nil
}

// Label renders the option text shown when picking an item.
func (d *Descriptor) Label(item models.CatalogItem) string {
	if d.DisplayLabel == nil {
		return item.Name
	}
	return d.DisplayLabel(item)
}

// FieldError reports a payload value that could not be read as its field kind.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// Decode picks this category's fields out of a loosely typed payload, matching
// keys case-insensitively and coercing numbers. Absent and blank values are
// left out of the result.
func (d *Descriptor) Decode(payload map[string]interface{}) (map[string]interface{}, error) {
	values := make(map[string]interface{}, len(d.Fields))
	for _, field := range d.Fields {
		raw, ok := lookup(payload, field.Name)
		if !ok || raw == nil {
			continue
		}
		switch field.Kind {
		case models.FieldNumber:
			n, present, err := toInt(raw)
			if err != nil {
				return nil, &FieldError{Field: field.Name, Reason: err.Error()}
			}
			if present {
				values[field.Name] = n
			}
		default:
			s := strings.TrimSpace(fmt.Sprint(raw))
			if s != "" {
				values[field.Name] = s
			}
		}
	}
	return values, nil
}

func lookup(payload map[string]interface{}, key string) (interface{}, bool) {
	if v, ok := payload[key]; ok {
		return v, true
	}
	for k, v := range payload {
		if strings.EqualFold(k, key) {
			return v, true
		}
	}
	return nil, false
}

func toInt(raw interface{}) (int, bool, error) {
	switch v := raw.(type) {
	case int:
		return v, true, nil
	case int64:
		return int(v), true, nil
	case float64:
		if v != math.Trunc(v) {
			return 0, false, fmt.Errorf("must be a whole number")
		}
		if v > math.MaxInt32 || v < math.MinInt32 {
			return 0, false, fmt.Errorf("is out of range")
		}
		return int(v), true, nil
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false, nil
		}
		n, err := strconv.Atoi(s)
		if err != nil {
			return 0, false, fmt.Errorf("must be numeric")
		}
		return n, true, nil
	case interface{ Int64() (int64, error) }:
		n, err := v.Int64()
		if err != nil {
			return 0, false, fmt.Errorf("must be a whole number")
		}
		return int(n), true, nil
	default:
		return 0, false, fmt.Errorf("must be numeric")
	}
}

// TextValue returns the trimmed text stored under key, matched
// case-insensitively, or "" when absent.
func TextValue(payload map[string]interface{}, key string) string {
	raw, ok := lookup(payload, key)
	if !ok || raw == nil {
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(raw))
}
