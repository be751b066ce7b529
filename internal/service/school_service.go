package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
)

type schoolRepository interface {
	List(ctx context.Context) ([]models.School, error)
	FindByID(ctx context.Context, id string) (*models.School, error)
	Create(ctx context.Context, school *models.School) error
	Update(ctx context.Context, currentID string, school *models.School) error
	Delete(ctx context.Context, id string) error
}

// SchoolService handles the school registry.
type SchoolService struct {
	repo      schoolRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSchoolService creates a new school service.
func NewSchoolService(repo schoolRepository, validate *validator.Validate, logger *zap.Logger) *SchoolService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolService{repo: repo, validator: validate, logger: logger}
}

// List returns every school.
func (s *SchoolService) List(ctx context.Context) ([]models.School, error) {
	schools, err := s.repo.List(ctx)
	if err != nil {
		return nil, storeError(s.logger, err, "failed to list schools")
	}
	return schools, nil
}

// Get returns a school by code.
func (s *SchoolService) Get(ctx context.Context, id string) (*models.School, error) {
	school, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, storeError(s.logger, err, "failed to load school")
	}
	return school, nil
}

// Create validates and stores a new school.
func (s *SchoolService) Create(ctx context.Context, req dto.SchoolRequest) (*models.School, error) {
	school, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Create(ctx, school); err != nil {
		return nil, storeError(s.logger, err, "failed to create school")
	}
	return school, nil
}

// Update replaces every mutable field of the school, including its code.
func (s *SchoolService) Update(ctx context.Context, id string, req dto.SchoolRequest) (*models.School, error) {
	school, err := s.build(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.Update(ctx, id, school); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return nil, storeError(s.logger, err, "failed to update school")
	}
	return school, nil
}

// Delete removes a school. Distribution records keep its code.
func (s *SchoolService) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "school not found")
		}
		return storeError(s.logger, err, "failed to delete school")
	}
	return nil
}

func (s *SchoolService) build(req dto.SchoolRequest) (*models.School, error) {
	req.ID = strings.TrimSpace(req.ID)
	req.Name = strings.TrimSpace(req.Name)
	req.District = strings.TrimSpace(req.District)
	req.Email = strings.TrimSpace(req.Email)
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid school payload")
	}
	level := models.SchoolLevel(strings.TrimSpace(req.Level))
	if !level.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "level must be Elementary, High School or Senior High")
	}
	return &models.School{
		ID:                 req.ID,
		Name:               req.Name,
		Enrollees:          req.Enrollees,
		ResourcesAllocated: req.ResourcesAllocated,
		District:           req.District,
		Level:              level,
		Principal:          strings.TrimSpace(req.Principal),
		Contact:            strings.TrimSpace(req.Contact),
		Email:              req.Email,
	}, nil
}
