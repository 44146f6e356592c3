package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/delivery/http/request"
	"github.com/Pesokrava/storefront/internal/delivery/http/response"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/usecase/product"
)

// BrowseHandler serves the selection, the stored filters and the catalog
// source status
type BrowseHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewBrowseHandler creates a new browse handler
func NewBrowseHandler(service *product.Service, log *logger.Logger) *BrowseHandler {
	return &BrowseHandler{
		service: service,
		logger:  log,
	}
}

// SelectRequest names the product to select; null clears the selection
type SelectRequest struct {
	ProductID *uuid.UUID `json:"product_id"`
}

// GetSelection handles GET /api/v1/selection
// @Summary Get the selected product
// @Description Returns null data when nothing is selected
// @Tags Selection
// @Produce json
// @Success 200 {object} map[string]interface{} "Selected product"
// @Router /selection [get]
func (h *BrowseHandler) GetSelection(w http.ResponseWriter, r *http.Request) {
	p, ok := h.service.Selected()
	if !ok {
		response.Success(w, nil)
		return
	}
	response.Success(w, p)
}

// SetSelection handles PUT /api/v1/selection
// @Summary Select a product
// @Tags Selection
// @Accept json
// @Produce json
// @Param selection body SelectRequest true "Product to select"
// @Success 200 {object} map[string]interface{} "Selected product"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /selection [put]
func (h *BrowseHandler) SetSelection(w http.ResponseWriter, r *http.Request) {
	var req SelectRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := uuid.Nil
	if req.ProductID != nil {
		id = *req.ProductID
	}
	h.service.Select(id)

	h.GetSelection(w, r)
}

// ClearSelection handles DELETE /api/v1/selection
// @Summary Clear the selection
// @Tags Selection
// @Success 204 "Selection cleared"
// @Router /selection [delete]
func (h *BrowseHandler) ClearSelection(w http.ResponseWriter, r *http.Request) {
	h.service.Select(uuid.Nil)
	response.NoContent(w)
}

// GetFilters handles GET /api/v1/filters
// @Summary Get the stored filters
// @Tags Filters
// @Produce json
// @Success 200 {object} map[string]interface{} "Filters"
// @Router /filters [get]
func (h *BrowseHandler) GetFilters(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Filters())
}

// PatchFilters handles PATCH /api/v1/filters
// @Summary Update some filters
// @Description Absent keys are kept, null clears a bound or category
// @Tags Filters
// @Accept json
// @Produce json
// @Param filters body domain.FilterPatch true "Filter changes"
// @Success 200 {object} map[string]interface{} "Filters"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /filters [patch]
func (h *BrowseHandler) PatchFilters(w http.ResponseWriter, r *http.Request) {
	var patch domain.FilterPatch
	if err := request.DecodeJSON(r, &patch); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	filters, err := h.service.SetFilters(patch)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, filters)
}

// ClearFilters handles DELETE /api/v1/filters
// @Summary Reset the filters
// @Tags Filters
// @Produce json
// @Success 200 {object} map[string]interface{} "Filters"
// @Router /filters [delete]
func (h *BrowseHandler) ClearFilters(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.ClearFilters())
}

// Status handles GET /api/v1/status
// @Summary Catalog source status
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Loading and error flags"
// @Router /status [get]
func (h *BrowseHandler) Status(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Status())
}

// Reload handles POST /api/v1/catalog/reload
// @Summary Reload the catalog
// @Description Drop the cached catalog and load it from the database
// @Tags Catalog
// @Produce json
// @Success 200 {object} map[string]interface{} "Status after reload"
// @Failure 500 {object} map[string]string "Catalog source failed"
// @Router /catalog/reload [post]
func (h *BrowseHandler) Reload(w http.ResponseWriter, r *http.Request) {
	if err := h.service.Reload(r.Context()); err != nil {
		h.handleError(w, err)
		return
	}
	response.Success(w, h.service.Status())
}

func (h *BrowseHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid filter")
	default:
		h.logger.Error("Catalog source failed", err)
		response.Error(w, http.StatusInternalServerError, "Catalog source failed")
	}
}
