package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/lris-api/internal/dto"
	"github.com/noah-isme/lris-api/internal/workflow"
	appErrors "github.com/noah-isme/lris-api/pkg/errors"
	"github.com/noah-isme/lris-api/pkg/response"
)

type selectionService interface {
	Start(ctx context.Context) (*workflow.Selection, error)
	Get(ctx context.Context, id string) (*workflow.Selection, error)
	ChooseCategory(ctx context.Context, id string, req dto.ChooseCategoryRequest) (*workflow.Selection, error)
	Submit(ctx context.Context, id string, req dto.SubmitSelectionRequest) (*workflow.Selection, error)
}

// SelectionHandler drives selection workflows over HTTP.
type SelectionHandler struct {
	service selectionService
}

// NewSelectionHandler constructs a selection handler.
func NewSelectionHandler(service selectionService) *SelectionHandler {
	return &SelectionHandler{service: service}
}

// Start godoc
// @Summary Start a resource selection
// @Tags Selections
// @Produce json
// @Success 201 {object} response.Envelope
// @Router /selections [post]
func (h *SelectionHandler) Start(c *gin.Context) {
	sel, err := h.service.Start(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, sel)
}

// Get godoc
// @Summary Get a resource selection
// @Tags Selections
// @Produce json
// @Param id path string true "Selection ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /selections/{id} [get]
func (h *SelectionHandler) Get(c *gin.Context) {
	sel, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sel)
}

// ChooseCategory godoc
// @Summary Choose category, school and quarter
// @Tags Selections
// @Accept json
// @Produce json
// @Param id path string true "Selection ID"
// @Param payload body dto.ChooseCategoryRequest true "Choice"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /selections/{id}/category [post]
func (h *SelectionHandler) ChooseCategory(c *gin.Context) {
	var req dto.ChooseCategoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sel, err := h.service.ChooseCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sel)
}

// Submit godoc
// @Summary Submit the selected item
// @Tags Selections
// @Accept json
// @Produce json
// @Param id path string true "Selection ID"
// @Param payload body dto.SubmitSelectionRequest true "Submission"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /selections/{id}/submit [post]
func (h *SelectionHandler) Submit(c *gin.Context) {
	var req dto.SubmitSelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	sel, err := h.service.Submit(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sel)
}
