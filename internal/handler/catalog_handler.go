package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lris-api/internal/catalog"
	"github.com/noah-isme/lris-api/internal/middleware"
	"github.com/noah-isme/lris-api/internal/models"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
	"github.com/noah-isme/lris-api/pkg/response"
)

type catalogService interface {
	Descriptors() []*catalog.Descriptor
	Describe(key string) (*catalog.Descriptor, error)
	ListActive(ctx context.Context, segment string) ([]models.CatalogItem, error)
	ListAll(ctx context.Context, segment string) ([]models.CatalogItem, error)
	Get(ctx context.Context, segment string, id int64) (*models.CatalogItem, error)
	Create(ctx context.Context, segment string, payload map[string]interface{}, actor string) (*models.CatalogItem, error)
	Update(ctx context.Context, segment string, id int64, payload map[string]interface{}, actor string) (*models.CatalogItem, error)
	Retire(ctx context.Context, segment string, id int64, actor string) error
}

// CatalogHandler serves every catalog under /items/:segment.
type CatalogHandler struct {
	service catalogService
}

// NewCatalogHandler constructs a catalog handler.
func NewCatalogHandler(service catalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

// List godoc
// @Summary List catalog items
// @Description Active items newest first. include_retired=true adds retired rows.
// @Tags Catalog
// @Produce json
// @Param segment path string true "Catalog segment" Enums(slm, equipment, tvl, lesson)
// @Param include_retired query bool false "Include retired items"
// @Success 200 {object} response.Envelope
// @Router /items/{segment} [get]
func (h *CatalogHandler) List(c *gin.Context) {
	var (
		items []models.CatalogItem
		err   error
	)
	if includeRetired, _ := strconv.ParseBool(c.Query("include_retired")); includeRetired {
		items, err = h.service.ListAll(c.Request.Context(), c.Param("segment"))
	} else {
		items, err = h.service.ListActive(c.Request.Context(), c.Param("segment"))
	}
	if err != nil {
		response.Error(c, err)
		return
	}
	response.List(c, items)
}

// Get godoc
// @Summary Get catalog item
// @Tags Catalog
// @Produce json
// @Param segment path string true "Catalog segment"
// @Param id path int true "Item ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /items/{segment}/{id} [get]
func (h *CatalogHandler) Get(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	item, err := h.service.Get(c.Request.Context(), c.Param("segment"), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Create godoc
// @Summary Create catalog item
// @Description Body keys follow the category fields and are matched case-insensitively.
// @Tags Catalog
// @Accept json
// @Produce json
// @Param segment path string true "Catalog segment"
// @Param payload body object true "Item fields"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /items/{segment} [post]
func (h *CatalogHandler) Create(c *gin.Context) {
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	item, err := h.service.Create(c.Request.Context(), c.Param("segment"), payload, middleware.ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Replace catalog item
// @Tags Catalog
// @Accept json
// @Produce json
// @Param segment path string true "Catalog segment"
// @Param id path int true "Item ID"
// @Param payload body object true "Item fields"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /items/{segment}/{id} [put]
func (h *CatalogHandler) Update(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	payload, ok := bindPayload(c)
	if !ok {
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("segment"), id, payload, middleware.ActorFrom(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item)
}

// Retire godoc
// @Summary Retire catalog item
// @Description SLM/SLAS and lesson exemplars are deleted; equipment and TVL items are deactivated.
// @Tags Catalog
// @Param segment path string true "Catalog segment"
// @Param id path int true "Item ID"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /items/{segment}/{id} [delete]
func (h *CatalogHandler) Retire(c *gin.Context) {
	id, ok := itemID(c)
	if !ok {
		return
	}
	if err := h.service.Retire(c.Request.Context(), c.Param("segment"), id, middleware.ActorFrom(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Categories godoc
// @Summary List resource categories
// @Description Fields, endpoint and identifier of every category.
// @Tags Categories
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /categories [get]
func (h *CatalogHandler) Categories(c *gin.Context) {
	response.List(c, h.service.Descriptors())
}

// Describe godoc
// @Summary Describe a resource category
// @Tags Categories
// @Produce json
// @Param key query string true "Category key, e.g. SLM/SLAS"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /categories/describe [get]
func (h *CatalogHandler) Describe(c *gin.Context) {
	desc, err := h.service.Describe(c.Query("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, desc)
}

func itemID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "item id must be an integer"))
		return 0, false
	}
	return id, true
}

func bindPayload(c *gin.Context) (map[string]interface{}, bool) {
	var payload map[string]interface{}
	if err := c.ShouldBindJSON(&payload); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return nil, false
	}
	return payload, true
}
