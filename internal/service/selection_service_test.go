package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/workflow"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

type memorySelectionStore struct {
	items map[string][]byte
	saves int
}

func (m *memorySelectionStore) Save(ctx context.Context, sel *workflow.Selection, ttl time.Duration) error {
	raw, err := json.Marshal(sel)
	if err != nil {
		return err
	}
	m.items[sel.ID] = raw
	m.saves++
	return nil
}

func (m *memorySelectionStore) Find(ctx context.Context, id string) (*workflow.Selection, error) {
	raw, ok := m.items[id]
	if !ok {
		return nil, appErrors.ErrCacheMiss
	}
	var sel workflow.Selection
	if err := json.Unmarshal(raw, &sel); err != nil {
		return nil, err
	}
	return &sel, nil
}

func newSelectionFixture(t *testing.T) (*SelectionService, *memorySelectionStore, *catalogFixture, *LedgerService) {
	t.Helper()
	ledger, _, catalogs, _ := newLedgerFixture(t, false)
	store := &memorySelectionStore{items: map[string][]byte{}}
	machine := workflow.NewMachine(catalogs.service, ledger)
	svc := NewSelectionService(store, machine, time.Minute, nil)
	return svc, store, catalogs, ledger
}

func TestSelectionServiceHappyPath(t *testing.T) {
	svc, _, catalogs, ledger := newSelectionFixture(t)
	ctx := context.Background()

	item, err := catalogs.service.Create(ctx, "tvl", samplePayloads()["tvl"], "")
	require.NoError(t, err)

	sel, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, sel.ID)
	assert.Equal(t, workflow.StateCategorySelection, sel.State)

	sel, err = svc.ChooseCategory(ctx, sel.ID, dto.ChooseCategoryRequest{Category: "TVL", SchoolID: "S1", Quarter: "1st Quarter"})
	require.NoError(t, err)
	require.Len(t, sel.Options, 1)
	assert.Equal(t, "Welding Kit (TVL, SMAW)", sel.Options[0].Label)

	sel, err = svc.Submit(ctx, sel.ID, dto.SubmitSelectionRequest{ItemID: sel.Options[0].Value, Quantity: 2})
	require.NoError(t, err)
	assert.Equal(t, workflow.StateSubmitted, sel.State)

	stored, err := svc.Get(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateSubmitted, stored.State)
	assert.Equal(t, item.ID, *stored.Record.ResourceItemID)

	records, err := ledger.ListBySchool(ctx, "S1")
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSelectionServiceFailedTransitionIsNotSaved(t *testing.T) {
	svc, store, _, _ := newSelectionFixture(t)
	ctx := context.Background()

	sel, err := svc.Start(ctx)
	require.NoError(t, err)
	saves := store.saves

	_, err = svc.ChooseCategory(ctx, sel.ID, dto.ChooseCategoryRequest{Category: "Others", SchoolID: "", Quarter: "1st Quarter"})
	assert.True(t, errors.Is(err, appErrors.ErrValidation))
	assert.Equal(t, saves, store.saves)

	stored, err := svc.Get(ctx, sel.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateCategorySelection, stored.State)
}

func TestSelectionServiceUnknownSession(t *testing.T) {
	svc, _, _, _ := newSelectionFixture(t)

	_, err := svc.Get(context.Background(), "missing")
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))

	_, err = svc.Submit(context.Background(), "missing", dto.SubmitSelectionRequest{Quantity: 1})
	assert.True(t, errors.Is(err, appErrors.ErrNotFound))
}

func TestSelectionServiceSessionsAreIndependent(t *testing.T) {
	svc, _, _, _ := newSelectionFixture(t)
	ctx := context.Background()

	a, err := svc.Start(ctx)
	require.NoError(t, err)
	b, err := svc.Start(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)

	_, err = svc.ChooseCategory(ctx, a.ID, dto.ChooseCategoryRequest{Category: "Others", SchoolID: "S1", Quarter: "1st Quarter"})
	require.NoError(t, err)

	storedB, err := svc.Get(ctx, b.ID)
	require.NoError(t, err)
	assert.Equal(t, workflow.StateCategorySelection, storedB.State)
}
