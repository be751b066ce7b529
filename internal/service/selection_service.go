package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/workflow"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

type selectionStore interface {
	Save(ctx context.Context, selection *workflow.Selection, ttl time.Duration) error
	Find(ctx context.Context, id string) (*workflow.Selection, error)
}

// SelectionService keeps selection workflows between requests. Each
// submission has its own session; nothing is locked across sessions.
type SelectionService struct {
	store   selectionStore
	machine *workflow.Machine
	ttl     time.Duration
	logger  *zap.Logger
	newID   func() string
	now     func() time.Time
}

// NewSelectionService creates a selection service.
func NewSelectionService(store selectionStore, machine *workflow.Machine, ttl time.Duration, logger *zap.Logger) *SelectionService {
	if ttl <= 0 {
		ttl = 30 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SelectionService{
		store:   store,
		machine: machine,
		ttl:     ttl,
		logger:  logger,
		newID:   func() string { return uuid.NewString() },
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Start opens a new selection in CategorySelection.
func (s *SelectionService) Start(ctx context.Context) (*workflow.Selection, error) {
	sel := workflow.New(s.newID(), s.now())
	if err := s.store.Save(ctx, sel, s.ttl); err != nil {
		return nil, storeError(s.logger, err, "failed to start selection")
	}
	return sel, nil
}

// Get returns a selection by id.
func (s *SelectionService) Get(ctx context.Context, id string) (*workflow.Selection, error) {
	sel, err := s.store.Find(ctx, id)
	if err != nil {
		if errors.Is(err, appErrors.ErrCacheMiss) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "selection not found or expired")
		}
		return nil, storeError(s.logger, err, "failed to load selection")
	}
	return sel, nil
}

// ChooseCategory runs the first transition and stores the result.
func (s *SelectionService) ChooseCategory(ctx context.Context, id string, req dto.ChooseCategoryRequest) (*workflow.Selection, error) {
	sel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	choice := workflow.CategoryChoice{Category: req.Category, SchoolID: req.SchoolID, Quarter: req.Quarter}
	if err := s.machine.ChooseCategory(ctx, sel, choice); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sel, s.ttl); err != nil {
		return nil, storeError(s.logger, err, "failed to save selection")
	}
	return sel, nil
}

// Submit runs the final transition. The ledger record is written before the
// session is saved, so a failed save still leaves the record in place.
func (s *SelectionService) Submit(ctx context.Context, id string, req dto.SubmitSelectionRequest) (*workflow.Selection, error) {
	sel, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	sub := workflow.Submission{ItemID: req.ItemID, ResourceName: req.ResourceName, Quantity: req.Quantity, Notes: req.Notes}
	if err := s.machine.Submit(ctx, sel, sub); err != nil {
		return nil, err
	}
	if err := s.store.Save(ctx, sel, s.ttl); err != nil {
		s.logger.Warn("submitted selection not saved", zap.String("selection_id", sel.ID), zap.Error(err))
	}
	return sel, nil
}
