package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

const (
	catalogCachePrefix = "lris:catalog:"
	maxActorLength     = 100
)

type categoryDispatcher interface {
	Describe(key string) (*catalog.Descriptor, error)
	BySegment(segment string) (*catalog.Descriptor, error)
	Descriptors() []*catalog.Descriptor
}

// CatalogService applies one CRUD contract to every catalog category.
type CatalogService struct {
	dispatcher   categoryDispatcher
	cache        *CacheService
	metrics      *MetricsService
	validator    *validator.Validate
	logger       *zap.Logger
	defaultActor string
	cacheTTL     time.Duration
	now          func() time.Time

	// generations counts mutations per segment so a list read that overlaps
	// a mutation never leaves its snapshot in the cache.
	genMu       sync.Mutex
	generations map[string]uint64
}

// NewCatalogService creates a catalog service. cache and metrics may be nil.
func NewCatalogService(dispatcher categoryDispatcher, cache *CacheService, metrics *MetricsService, defaultActor string, cacheTTL time.Duration, validate *validator.Validate, logger *zap.Logger) *CatalogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if strings.TrimSpace(defaultActor) == "" {
		defaultActor = "Admin"
	}
	return &CatalogService{
		dispatcher:   dispatcher,
		cache:        cache,
		metrics:      metrics,
		validator:    validate,
		logger:       logger,
		defaultActor: defaultActor,
		cacheTTL:     cacheTTL,
		now:          func() time.Time { return time.Now().UTC() },
		generations:  make(map[string]uint64),
	}
}

// Descriptors lists every category, including those without a catalog.
func (s *CatalogService) Descriptors() []*catalog.Descriptor {
	return s.dispatcher.Descriptors()
}

// Describe returns the descriptor of a category key.
func (s *CatalogService) Describe(key string) (*catalog.Descriptor, error) {
	return s.dispatcher.Describe(key)
}

// ListActive returns the active items of a catalog, newest first.
func (s *CatalogService) ListActive(ctx context.Context, segment string) ([]models.CatalogItem, error) {
	desc, err := s.resolve(segment)
	if err != nil {
		return nil, err
	}
	return s.activeItems(ctx, desc)
}

// ActiveItems returns the active items of a category key. Categories without a
// catalog have none.
func (s *CatalogService) ActiveItems(ctx context.Context, category models.Category) ([]models.CatalogItem, error) {
	desc, err := s.dispatcher.Describe(string(category))
	if err != nil {
		return nil, err
	}
	if !desc.HasCatalog() {
		return []models.CatalogItem{}, nil
	}
	return s.activeItems(ctx, desc)
}

// ListAll returns every item of a catalog including retired ones.
func (s *CatalogService) ListAll(ctx context.Context, segment string) ([]models.CatalogItem, error) {
	desc, err := s.resolve(segment)
	if err != nil {
		return nil, err
	}
	items, err := desc.Repository.ListAll(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list "+desc.ItemLabel)
	}
	return items, nil
}

// Get returns an item whether or not it is active.
func (s *CatalogService) Get(ctx context.Context, segment string, id int64) (*models.CatalogItem, error) {
	desc, err := s.resolve(segment)
	if err != nil {
		return nil, err
	}
	item, err := desc.Repository.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(desc)
		}
		return nil, storeError(s.logger, err, "failed to load "+desc.ItemLabel)
	}
	return item, nil
}

// Create validates the payload against the category fields and stores an
// active item. CreatedBy falls back to actor, then to the configured default.
func (s *CatalogService) Create(ctx context.Context, segment string, payload map[string]interface{}, actor string) (*models.CatalogItem, error) {
	desc, err := s.resolve(segment)
	if err != nil {
		return nil, err
	}
	item, err := s.buildItem(desc, payload)
	if err != nil {
		return nil, err
	}
	item.CreatedBy, err = s.actor(desc, payload, models.FieldCreatedBy, actor)
	if err != nil {
		return nil, err
	}
	item.DateAdded = s.now()

	if err := desc.Repository.Create(ctx, item); err != nil {
		return nil, storeError(s.logger, err, "failed to create "+desc.ItemLabel)
	}
	s.afterMutation(ctx, desc, "create")
	s.logger.Info("catalog item created", zap.String("category", string(desc.Category)), zap.Int64("id", item.ID), zap.String("actor", item.CreatedBy))
	return item, nil
}

// Update replaces the mutable fields of an item and stamps ModifiedBy and
// DateModified.
func (s *CatalogService) Update(ctx context.Context, segment string, id int64, payload map[string]interface{}, actor string) (*models.CatalogItem, error) {
	desc, err := s.resolve(segment)
	if err != nil {
		return nil, err
	}
	item, err := s.buildItem(desc, payload)
	if err != nil {
		return nil, err
	}
	modifiedBy, err := s.actor(desc, payload, models.FieldModifiedBy, actor)
	if err != nil {
		return nil, err
	}
	now := s.now()
	item.ID = id
	item.ModifiedBy = &modifiedBy
	item.DateModified = &now

	if err := desc.Repository.Update(ctx, item); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, notFound(desc)
		}
		return nil, storeError(s.logger, err, "failed to update "+desc.ItemLabel)
	}
	s.afterMutation(ctx, desc, "update")

	stored, err := desc.Repository.FindByID(ctx, id)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to reload "+desc.ItemLabel)
	}
	return stored, nil
}

// Retire applies the category's retire policy: hard-delete categories lose the
// row, soft-delete categories keep it inactive.
func (s *CatalogService) Retire(ctx context.Context, segment string, id int64, actor string) error {
	desc, err := s.resolve(segment)
	if err != nil {
		return err
	}
	if actor, err = s.actor(desc, nil, "", actor); err != nil {
		return err
	}

	switch desc.Retire {
	case catalog.RetireSoftDelete:
		err = desc.Repository.Deactivate(ctx, id, actor)
	default:
		err = desc.Repository.Delete(ctx, id)
	}
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound(desc)
		}
		return storeError(s.logger, err, "failed to retire "+desc.ItemLabel)
	}
	s.afterMutation(ctx, desc, "retire")
	s.logger.Info("catalog item retired",
		zap.String("category", string(desc.Category)),
		zap.Int64("id", id),
		zap.String("policy", string(desc.Retire)),
		zap.String("actor", actor))
	return nil
}

func (s *CatalogService) resolve(segment string) (*catalog.Descriptor, error) {
	desc, err := s.dispatcher.BySegment(segment)
	if err != nil {
		return nil, err
	}
	if !desc.HasCatalog() || desc.Repository == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, fmt.Sprintf("category %q has no catalog", desc.Category))
	}
	return desc, nil
}

func (s *CatalogService) activeItems(ctx context.Context, desc *catalog.Descriptor) ([]models.CatalogItem, error) {
	key := activeCacheKey(desc)
	var cached []cachedCatalogItem
	if s.cache.Get(ctx, key, &cached) {
		return restoreCatalogItems(desc, cached), nil
	}

	gen := s.generation(desc.Segment)
	items, err := desc.Repository.ListActive(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list "+desc.ItemLabel)
	}
	if s.cache.Enabled() && s.generation(desc.Segment) == gen {
		s.cache.Set(ctx, key, toCachedCatalogItems(items), s.cacheTTL)
		// A mutation may have invalidated between the check and the Set.
		if s.generation(desc.Segment) != gen {
			s.cache.Invalidate(ctx, key)
		}
	}
	return items, nil
}

func (s *CatalogService) afterMutation(ctx context.Context, desc *catalog.Descriptor, op string) {
	s.genMu.Lock()
	s.generations[desc.Segment]++
	s.genMu.Unlock()

	s.cache.Invalidate(ctx, catalogCachePrefix+desc.Segment+":*")
	s.metrics.RecordCatalogMutation(desc.Category, op)
}

func (s *CatalogService) generation(segment string) uint64 {
	s.genMu.Lock()
	defer s.genMu.Unlock()
	return s.generations[segment]
}

// buildItem decodes and validates a payload. Nothing reaches the store when it
// fails.
func (s *CatalogService) buildItem(desc *catalog.Descriptor, payload map[string]interface{}) (*models.CatalogItem, error) {
	values, err := desc.Decode(payload)
	if err != nil {
		var fieldErr *catalog.FieldError
		if errors.As(err, &fieldErr) {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, fieldErr.Error())
		}
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid "+desc.ItemLabel+" payload")
	}

	var problems []string
	for _, field := range desc.Fields {
		value, present := values[field.Name]
		if !present {
			if field.Required {
				problems = append(problems, field.Name+" is required")
			}
			continue
		}
		if field.Rule == "" {
			continue
		}
		if err := s.validator.Var(value, field.Rule); err != nil {
			problems = append(problems, fmt.Sprintf("%s fails %s", field.Name, field.Rule))
		}
	}
	if len(problems) > 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s: %s", desc.ItemLabel, strings.Join(problems, "; ")))
	}

	schema := desc.Schema
	item := &models.CatalogItem{
		Category:   desc.Category,
		Name:       values[schema.Name.Name].(string),
		Attributes: make(map[string]interface{}, len(schema.Attributes)),
		Status:     models.DefaultItemStatus,
		Schema:     schema,
	}
	for _, attr := range schema.Attributes {
		if v, ok := values[attr.Name]; ok {
			item.Attributes[attr.Name] = v
		}
	}
	if q, ok := values[models.FieldQuantity].(int); ok {
		item.Quantity = q
	}
	if status, ok := values[models.FieldStatus].(string); ok {
		item.Status = status
	}
	if description, ok := values[models.FieldDescription].(string); ok {
		item.Description = description
	}
	return item, nil
}

// actor picks the payload's audit field, then the request actor, then the
// configured default. The result must fit the audit columns.
func (s *CatalogService) actor(desc *catalog.Descriptor, payload map[string]interface{}, field, actor string) (string, error) {
	resolved := s.defaultActor
	if v := catalog.TextValue(payload, field); v != "" {
		resolved = v
	} else if actor = strings.TrimSpace(actor); actor != "" {
		resolved = actor
	}
	if err := s.validator.Var(resolved, "max="+strconv.Itoa(maxActorLength)); err != nil {
		name := field
		if name == "" {
			name = "actor"
		}
		return "", appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("invalid %s: %s exceeds %d characters", desc.ItemLabel, name, maxActorLength))
	}
	return resolved, nil
}

func notFound(desc *catalog.Descriptor) error {
	return appErrors.Clone(appErrors.ErrNotFound, desc.ItemLabel+" not found")
}

func activeCacheKey(desc *catalog.Descriptor) string {
	return catalogCachePrefix + desc.Segment + ":active"
}

// cachedCatalogItem is the cache form of a catalog item. The API form is
// flattened per category and cannot be decoded back.
type cachedCatalogItem struct {
	ID           int64                  `json:"id"`
	Name         string                 `json:"name"`
	Attributes   map[string]interface{} `json:"attributes"`
	Quantity     int                    `json:"quantity"`
	Status       string                 `json:"status"`
	Description  string                 `json:"description"`
	CreatedBy    string                 `json:"createdBy"`
	ModifiedBy   *string                `json:"modifiedBy"`
	DateAdded    time.Time              `json:"dateAdded"`
	DateModified *time.Time             `json:"dateModified"`
	IsActive     bool                   `json:"isActive"`
}

func toCachedCatalogItems(items []models.CatalogItem) []cachedCatalogItem {
	out := make([]cachedCatalogItem, len(items))
	for i, item := range items {
		out[i] = cachedCatalogItem{
			ID:           item.ID,
			Name:         item.Name,
			Attributes:   item.Attributes,
			Quantity:     item.Quantity,
			Status:       item.Status,
			Description:  item.Description,
			CreatedBy:    item.CreatedBy,
			ModifiedBy:   item.ModifiedBy,
			DateAdded:    item.DateAdded,
			DateModified: item.DateModified,
			IsActive:     item.IsActive,
		}
	}
	return out
}

func restoreCatalogItems(desc *catalog.Descriptor, cached []cachedCatalogItem) []models.CatalogItem {
	items := make([]models.CatalogItem, len(cached))
	for i, c := range cached {
		attrs := make(map[string]interface{}, len(c.Attributes))
		for _, attr := range desc.Schema.Attributes {
			v, ok := c.Attributes[attr.Name]
			if !ok || v == nil {
				continue
			}
			if f, isFloat := v.(float64); isFloat && attr.Kind == models.FieldNumber {
				v = int(f)
			}
			attrs[attr.Name] = v
		}
		items[i] = models.CatalogItem{
			ID:           c.ID,
			Category:     desc.Category,
			Name:         c.Name,
			Attributes:   attrs,
			Quantity:     c.Quantity,
			Status:       c.Status,
			Description:  c.Description,
			CreatedBy:    c.CreatedBy,
			ModifiedBy:   c.ModifiedBy,
			DateAdded:    c.DateAdded,
			DateModified: c.DateModified,
			IsActive:     c.IsActive,
			Schema:       desc.Schema,
		}
	}
	return items
}
