package service

import (
	"context"
	"database/sql"
	"errors"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

// memoryCatalogStore mimics a catalog table.
type memoryCatalogStore struct {
	mu       sync.Mutex
	category models.Category
	schema   models.CatalogSchema
	nextID   int64
	rows     map[int64]models.CatalogItem
	listErr  error
	creates  int
	lists    int
	// afterList runs once ListActive has taken its snapshot.
	afterList func()
}

func newMemoryCatalogStore(category models.Category, schema models.CatalogSchema) *memoryCatalogStore {
	return &memoryCatalogStore{category: category, schema: schema, rows: make(map[int64]models.CatalogItem)}
}

func (m *memoryCatalogStore) Create(ctx context.Context, item *models.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextID++
	m.creates++
	item.ID = m.nextID
	item.IsActive = true
	item.Category = m.category
	item.Schema = &m.schema
	m.rows[item.ID] = *item
	return nil
}

func (m *memoryCatalogStore) sorted(activeOnly bool) []models.CatalogItem {
	out := make([]models.CatalogItem, 0, len(m.rows))
	for _, row := range m.rows {
		if activeOnly && !row.IsActive {
			continue
		}
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].DateAdded.After(out[j].DateAdded) })
	return out
}

func (m *memoryCatalogStore) ListActive(ctx context.Context) ([]models.CatalogItem, error) {
	m.mu.Lock()
	m.lists++
	if m.listErr != nil {
		m.mu.Unlock()
		return nil, m.listErr
	}
	items := m.sorted(true)
	hook := m.afterList
	m.mu.Unlock()
	if hook != nil {
		hook()
	}
	return items, nil
}

func (m *memoryCatalogStore) ListAll(ctx context.Context) ([]models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sorted(false), nil
}

func (m *memoryCatalogStore) FindByID(ctx context.Context, id int64) (*models.CatalogItem, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return &row, nil
}

func (m *memoryCatalogStore) Update(ctx context.Context, item *models.CatalogItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[item.ID]
	if !ok {
		return sql.ErrNoRows
	}
	row.Name = item.Name
	row.Attributes = item.Attributes
	row.Quantity = item.Quantity
	row.Status = item.Status
	row.Description = item.Description
	row.ModifiedBy = item.ModifiedBy
	row.DateModified = item.DateModified
	m.rows[item.ID] = row
	return nil
}

func (m *memoryCatalogStore) Delete(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[id]; !ok {
		return sql.ErrNoRows
	}
	delete(m.rows, id)
	return nil
}

func (m *memoryCatalogStore) Deactivate(ctx context.Context, id int64, actor string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	row, ok := m.rows[id]
	if !ok || !row.IsActive {
		return sql.ErrNoRows
	}
	now := time.Now().UTC()
	row.IsActive = false
	row.ModifiedBy = &actor
	row.DateModified = &now
	m.rows[id] = row
	return nil
}

type catalogFixture struct {
	dispatcher *catalog.Dispatcher
	stores     map[models.Category]*memoryCatalogStore
	service    *CatalogService
	cacheRepo  *memoryCacheRepo
}

func newCatalogFixture(t *testing.T, cacheEnabled bool) *catalogFixture {
	t.Helper()
	stores := make(map[models.Category]*memoryCatalogStore)
	dispatcher := catalog.NewDispatcher(func(category models.Category, schema models.CatalogSchema) catalog.Store {
		store := newMemoryCatalogStore(category, schema)
		stores[category] = store
		return store
	})
	cacheRepo := newMemoryCacheRepo()
	cache := NewCacheService(cacheRepo, nil, time.Minute, nil, cacheEnabled)
	svc := NewCatalogService(dispatcher, cache, NewMetricsService(), "", time.Minute, nil, nil)

	clock := time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)
	svc.now = func() time.Time {
		clock = clock.Add(time.Minute)
		return clock
	}
	return &catalogFixture{dispatcher: dispatcher, stores: stores, service: svc, cacheRepo: cacheRepo}
}

func samplePayloads() map[string]map[string]interface{} {
	return map[string]map[string]interface{}{
		"slm":       {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": 10},
		"equipment": {"EquipmentName": "Projector", "EquipmentType": "ICT", "Quantity": 2},
		"tvl":       {"ItemName": "Welding Kit", "Track": "TVL", "Strand": "SMAW", "GradeLevel": "Grade 11", "Quantity": 4},
		"lesson":    {"LessonTitle": "Fractions", "Subject": "Math", "GradeLevel": "Grade 5", "Quarter": "2nd", "Week": 3},
	}
}

func ids(items []models.CatalogItem) []int64 {
	out := make([]int64, len(items))
	for i, item := range items {
		out[i] = item.ID
	}
	return out
}

func TestCatalogServiceCreateThenRetireEveryCategory(t *testing.T) {
	for segment, payload := range samplePayloads() {
		t.Run(segment, func(t *testing.T) {
			f := newCatalogFixture(t, false)
			ctx := context.Background()

			item, err := f.service.Create(ctx, segment, payload, "")
			require.NoError(t, err)
			assert.Equal(t, "Admin", item.CreatedBy)
			assert.Equal(t, models.DefaultItemStatus, item.Status)
			assert.True(t, item.IsActive)

			active, err := f.service.ListActive(ctx, segment)
			require.NoError(t, err)
			assert.Contains(t, ids(active), item.ID)

			require.NoError(t, f.service.Retire(ctx, segment, item.ID, ""))
			active, err = f.service.ListActive(ctx, segment)
			require.NoError(t, err)
			assert.NotContains(t, ids(active), item.ID)

			desc, err := f.dispatcher.BySegment(segment)
			require.NoError(t, err)
			stored, err := f.service.Get(ctx, segment, item.ID)
			switch desc.Retire {
			case catalog.RetireHardDelete:
				assert.True(t, errors.Is(err, appErrors.ErrNotFound))
			case catalog.RetireSoftDelete:
				require.NoError(t, err)
				assert.False(t, stored.IsActive)
				require.NotNil(t, stored.ModifiedBy)
				assert.Equal(t, "Admin", *stored.ModifiedBy)
				all, err := f.service.ListAll(ctx, segment)
				require.NoError(t, err)
				assert.Contains(t, ids(all), item.ID)
			}
		})
	}
}

func TestCatalogServiceListActiveNewestFirst(t *testing.T) {
	f := newCatalogFixture(t, false)
	ctx := context.Background()

	var created []int64
	for _, title := range []string{"t1", "t2", "t3"} {
		item, err := f.service.Create(ctx, "slm", map[string]interface{}{
			"title": title, "subject": "Math", "gradelevel": "Grade 1", "quarter": "1st", "quantity": "5",
		}, "")
		require.NoError(t, err)
		created = append(created, item.ID)
	}

	active, err := f.service.ListActive(ctx, "slm")
	require.NoError(t, err)
	assert.Equal(t, []int64{created[2], created[1], created[0]}, ids(active))
}

func TestCatalogServiceValidationNeverTouchesStore(t *testing.T) {
	f := newCatalogFixture(t, false)
	ctx := context.Background()
	cases := map[string]map[string]interface{}{
		"missing title":        {"Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": 1},
		"non-numeric quantity": {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": "ten"},
		"negative quantity":    {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": -1},
		"missing quantity":     {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st"},
		"quantity beyond int":  {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": 3e9},
		"quantity text beyond": {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": "2147483648"},
		"created by too long":  {"Title": "Math 1", "Subject": "Math", "GradeLevel": "Grade 1", "Quarter": "1st", "Quantity": 1, "CreatedBy": strings.Repeat("c", 150)},
	}
	for name, payload := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := f.service.Create(ctx, "slm", payload, "")
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
		})
	}
	assert.Zero(t, f.stores[models.CategorySLM].creates)

	_, err := f.service.Create(ctx, "lesson", map[string]interface{}{
		"LessonTitle": "Fractions", "Subject": "Math", "GradeLevel": "Grade 5", "Quarter": "2nd", "Week": 60,
	}, "")
	require.Error(t, err)
	assert.Zero(t, f.stores[models.CategoryLessonExemplar].creates)
}

func TestCatalogServiceUpdate(t *testing.T) {
	f := newCatalogFixture(t, false)
	ctx := context.Background()

	item, err := f.service.Create(ctx, "equipment", samplePayloads()["equipment"], "Clerk")
	require.NoError(t, err)
	assert.Equal(t, "Clerk", item.CreatedBy)

	updated, err := f.service.Update(ctx, "equipment", item.ID, map[string]interface{}{
		"EquipmentName": "Projector HD", "EquipmentType": "ICT", "Quantity": 3, "Status": "In Repair",
	}, "Supervisor")
	require.NoError(t, err)
	assert.Equal(t, "Projector HD", updated.Name)
	assert.Equal(t, "In Repair", updated.Status)
	require.NotNil(t, updated.ModifiedBy)
	assert.Equal(t, "Supervisor", *updated.ModifiedBy)
	require.NotNil(t, updated.DateModified)
	assert.Equal(t, "Clerk", updated.CreatedBy)
}

func TestCatalogServiceRejectsOverlongActors(t *testing.T) {
	f := newCatalogFixture(t, false)
	ctx := context.Background()

	item, err := f.service.Create(ctx, "equipment", samplePayloads()["equipment"], "")
	require.NoError(t, err)

	_, err = f.service.Update(ctx, "equipment", item.ID, map[string]interface{}{
		"EquipmentName": "Projector", "EquipmentType": "ICT", "Quantity": 2, "ModifiedBy": strings.Repeat("m", 101),
	}, "")
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)

	stored, err := f.service.Get(ctx, "equipment", item.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ModifiedBy)

	_, err = f.service.Create(ctx, "equipment", samplePayloads()["equipment"], strings.Repeat("é", 100))
	require.NoError(t, err)
}

func TestCatalogServiceMissingIDsReportNotFound(t *testing.T) {
	f := newCatalogFixture(t, false)
	ctx := context.Background()

	_, err := f.service.Update(ctx, "tvl", 404, samplePayloads()["tvl"], "")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	for _, segment := range []string{"slm", "equipment", "tvl", "lesson"} {
		err = f.service.Retire(ctx, segment, 404, "")
		assert.True(t, errors.Is(err, appErrors.ErrNotFound), segment)
	}
}

func TestCatalogServiceUnknownSegment(t *testing.T) {
	f := newCatalogFixture(t, false)

	_, err := f.service.ListActive(context.Background(), "books")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestCatalogServiceActiveItemsForOthers(t *testing.T) {
	f := newCatalogFixture(t, false)

	items, err := f.service.ActiveItems(context.Background(), models.CategoryOthers)
	require.NoError(t, err)
	assert.Empty(t, items)

	_, err = f.service.ActiveItems(context.Background(), "Unknown")
	assert.True(t, errors.Is(err, appErrors.ErrUnknownCategory))
}

func TestCatalogServiceCachesActiveListing(t *testing.T) {
	f := newCatalogFixture(t, true)
	ctx := context.Background()

	_, err := f.service.Create(ctx, "lesson", samplePayloads()["lesson"], "")
	require.NoError(t, err)
	store := f.stores[models.CategoryLessonExemplar]

	first, err := f.service.ListActive(ctx, "lesson")
	require.NoError(t, err)
	second, err := f.service.ListActive(ctx, "lesson")
	require.NoError(t, err)
	assert.Equal(t, 1, store.lists)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, 3, second[0].Attribute("Week"))
	assert.Equal(t, models.CategoryLessonExemplar, second[0].Category)

	_, err = f.service.Create(ctx, "lesson", samplePayloads()["lesson"], "")
	require.NoError(t, err)
	assert.Contains(t, f.cacheRepo.deleted, "lris:catalog:lesson:active")

	third, err := f.service.ListActive(ctx, "lesson")
	require.NoError(t, err)
	assert.Len(t, third, 2)
	assert.Equal(t, 2, store.lists)
}

func TestCatalogServiceListOverlappingCreateDoesNotCacheStaleSnapshot(t *testing.T) {
	f := newCatalogFixture(t, true)
	ctx := context.Background()
	store := f.stores[models.CategorySLM]

	snapshotTaken := make(chan struct{})
	release := make(chan struct{})
	store.afterList = func() {
		close(snapshotTaken)
		<-release
	}

	listed := make(chan []models.CatalogItem, 1)
	go func() {
		items, err := f.service.ListActive(ctx, "slm")
		assert.NoError(t, err)
		listed <- items
	}()

	<-snapshotTaken
	store.mu.Lock()
	store.afterList = nil
	store.mu.Unlock()

	created, err := f.service.Create(ctx, "slm", samplePayloads()["slm"], "")
	require.NoError(t, err)
	close(release)
	assert.Empty(t, <-listed)

	active, err := f.service.ListActive(ctx, "slm")
	require.NoError(t, err)
	assert.Equal(t, []int64{created.ID}, ids(active))
}

func TestCatalogServicePropagatesConnectivity(t *testing.T) {
	f := newCatalogFixture(t, false)
	f.stores[models.CategoryTVL].listErr = appErrors.Clone(appErrors.ErrConnectivity, "")

	_, err := f.service.ListActive(context.Background(), "tvl")
	assert.True(t, errors.Is(err, appErrors.ErrConnectivity))
}
