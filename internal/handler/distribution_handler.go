package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
	"github.com/noah-isme/lris-api/pkg/response"
)

type ledgerService interface {
	Record(ctx context.Context, req dto.RecordDistributionRequest) (*models.DistributionRecord, error)
	ListAll(ctx context.Context) ([]models.DistributionRecord, error)
	ListBySchool(ctx context.Context, schoolID string) ([]models.DistributionRecord, error)
}

// DistributionHandler exposes the distribution ledger.
type DistributionHandler struct {
	service ledgerService
}

// NewDistributionHandler constructs a distribution handler.
func NewDistributionHandler(service ledgerService) *DistributionHandler {
	return &DistributionHandler{service: service}
}

// List godoc
// @Summary List distribution records
// @Tags Distribution
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /distributed-resources [get]
func (h *DistributionHandler) List(c *gin.Context) {
	records, err := h.service.ListAll(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records)
}

// ListBySchool godoc
// @Summary List distribution records of a school
// @Tags Distribution
// @Produce json
// @Param id path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /distributed-resources/by-school/{id} [get]
func (h *DistributionHandler) ListBySchool(c *gin.Context) {
	records, err := h.service.ListBySchool(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, records)
}

// Create godoc
// @Summary Record a distribution
// @Description Catalog categories need ResourceItemID; Others needs ResourceName.
// @Tags Distribution
// @Accept json
// @Produce json
// @Param payload body dto.RecordDistributionRequest true "Distribution payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /distributed-resources [post]
func (h *DistributionHandler) Create(c *gin.Context) {
	var req dto.RecordDistributionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	record, err := h.service.Record(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, record)
}
