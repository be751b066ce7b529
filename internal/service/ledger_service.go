package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

type distributionRepository interface {
	Create(ctx context.Context, record *models.DistributionRecord) error
	List(ctx context.Context) ([]models.DistributionRecord, error)
	ListBySchool(ctx context.Context, schoolID string) ([]models.DistributionRecord, error)
}

type categoryDescriber interface {
	Describe(key string) (*catalog.Descriptor, error)
}

type schoolFinder interface {
	FindByID(ctx context.Context, id string) (*models.School, error)
}

// LedgerOptions tunes ledger behaviour.
type LedgerOptions struct {
	// VerifyReferences requires the school and the catalog item to exist,
	// and the item to be active, before a record is written.
	VerifyReferences bool
}

// LedgerService records and reads the append-only distribution ledger.
type LedgerService struct {
	repo      distributionRepository
	describer categoryDescriber
	schools   schoolFinder
	metrics   *MetricsService
	opts      LedgerOptions
	validator *validator.Validate
	logger    *zap.Logger
	now       func() time.Time
}

// NewLedgerService creates a ledger service. schools is only consulted when
// reference verification is on.
func NewLedgerService(repo distributionRepository, describer categoryDescriber, schools schoolFinder, metrics *MetricsService, opts LedgerOptions, validate *validator.Validate, logger *zap.Logger) *LedgerService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerService{
		repo:      repo,
		describer: describer,
		schools:   schools,
		metrics:   metrics,
		opts:      opts,
		validator: validate,
		logger:    logger,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Record validates and appends a distribution record.
func (s *LedgerService) Record(ctx context.Context, req dto.RecordDistributionRequest) (*models.DistributionRecord, error) {
	req.SchoolID = strings.TrimSpace(req.SchoolID)
	req.ResourceName = trimmedOrNil(req.ResourceName)
	req.Notes = trimmedOrNil(req.Notes)

	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid distribution payload")
	}

	desc, err := s.describer.Describe(string(req.ResourceCategory))
	if err != nil {
		return nil, err
	}
	if err := checkReference(desc, req); err != nil {
		return nil, err
	}
	if s.opts.VerifyReferences {
		if err := s.verifyReferences(ctx, desc, req); err != nil {
			return nil, err
		}
	}

	record := &models.DistributionRecord{
		SchoolID:         req.SchoolID,
		ResourceCategory: desc.Category,
		ResourceItemID:   req.ResourceItemID,
		ResourceName:     req.ResourceName,
		Quantity:         req.Quantity,
		Notes:            req.Notes,
	}
	if req.DateDistributed != nil && !req.DateDistributed.IsZero() {
		record.DateDistributed = req.DateDistributed.UTC()
	} else {
		record.DateDistributed = s.now()
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, storeError(s.logger, err, "failed to record distribution")
	}
	s.metrics.RecordDistribution(record.ResourceCategory, record.Quantity)
	s.logger.Info("distribution recorded",
		zap.Int64("id", record.ID),
		zap.String("school_id", record.SchoolID),
		zap.String("category", string(record.ResourceCategory)),
		zap.Int("quantity", record.Quantity))
	return record, nil
}

// ListAll returns every record in insertion order.
func (s *LedgerService) ListAll(ctx context.Context) ([]models.DistributionRecord, error) {
	records, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list distributions")
	}
	return records, nil
}

// ListBySchool returns the records of one school.
func (s *LedgerService) ListBySchool(ctx context.Context, schoolID string) ([]models.DistributionRecord, error) {
	records, err := s.repo.ListBySchool(ctx, strings.TrimSpace(schoolID))
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list distributions by school")
	}
	return records, nil
}

// checkReference enforces that catalog categories carry an item id and
// nothing else, while categories without a catalog carry a name only.
func checkReference(desc *catalog.Descriptor, req dto.RecordDistributionRequest) error {
	hasItem := req.ResourceItemID != nil
	hasName := req.ResourceName != nil

	if desc.HasCatalog() {
		if !hasItem || hasName {
			return appErrors.Clone(appErrors.ErrReferenceMismatch,
				fmt.Sprintf("%s requires ResourceItemID and no ResourceName", desc.Category))
		}
		if *req.ResourceItemID <= 0 {
			return appErrors.Clone(appErrors.ErrValidation, "ResourceItemID must be positive")
		}
		return nil
	}
	if !hasName || hasItem {
		return appErrors.Clone(appErrors.ErrReferenceMismatch,
			fmt.Sprintf("%s requires ResourceName and no ResourceItemID", desc.Category))
	}
	return nil
}

func (s *LedgerService) verifyReferences(ctx context.Context, desc *catalog.Descriptor, req dto.RecordDistributionRequest) error {
	if s.schools != nil {
		if _, err := s.schools.FindByID(ctx, req.SchoolID); err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("school %q does not exist", req.SchoolID))
			}
			return storeError(s.logger, err, "failed to verify school")
		}
	}
	if !desc.HasCatalog() || desc.Repository == nil {
		return nil
	}
	item, err := desc.Repository.FindByID(ctx, *req.ResourceItemID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %d does not exist", desc.ItemLabel, *req.ResourceItemID))
		}
		return storeError(s.logger, err, "failed to verify catalog item")
	}
	if !item.IsActive {
		return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("%s %d is retired", desc.ItemLabel, *req.ResourceItemID))
	}
	return nil
}

func trimmedOrNil(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
