package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Pesokrava/storefront/internal/delivery/http/request"
	"github.com/Pesokrava/storefront/internal/delivery/http/response"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/usecase/product"
)

// ProductHandler handles HTTP requests for products
type ProductHandler struct {
	service *product.Service
	logger  *logger.Logger
}

// NewProductHandler creates a new product handler
func NewProductHandler(service *product.Service, log *logger.Logger) *ProductHandler {
	return &ProductHandler{
		service: service,
		logger:  log,
	}
}

// ProductRequest represents the request body for creating or updating a product
type ProductRequest struct {
	ID          *uuid.UUID      `json:"id,omitempty"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       string          `json:"image"`
	Price       decimal.Decimal `json:"price" swaggertype:"string" example:"99.99"`
	Category    string          `json:"category"`
	Stock       int             `json:"stock"`
	Status      domain.Status   `json:"status" example:"Active"`
}

func (req ProductRequest) toDomain(id uuid.UUID) *domain.Product {
	return &domain.Product{
		ID:          id,
		Name:        req.Name,
		Description: req.Description,
		Image:       req.Image,
		Price:       req.Price,
		Category:    req.Category,
		Stock:       req.Stock,
		Status:      req.Status,
	}
}

// Create handles POST /api/v1/products
// @Summary Create a new product
// @Description Add a product to the catalog. The id is generated when omitted.
// @Tags Products
// @Accept json
// @Produce json
// @Param product body ProductRequest true "Product details"
// @Success 201 {object} map[string]interface{} "Product created successfully"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 409 {object} map[string]string "Product id already exists"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products [post]
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	id := uuid.Nil
	if req.ID != nil {
		id = *req.ID
	}
	p := req.toDomain(id)

	if err := h.service.Create(r.Context(), p); err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, p)
}

// GetByID handles GET /api/v1/products/:id
// @Summary Get a product by ID
// @Description Get a product with its reviews and rating
// @Tags Products
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Product details"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id} [get]
func (h *ProductHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	p, err := h.service.Get(id)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// List handles GET /api/v1/products
// @Summary List visible products
// @Description Filter and sort the catalog. Without query parameters the stored filters apply.
// @Tags Products
// @Produce json
// @Param category query string false "Exact category"
// @Param min_price query string false "Inclusive lower price bound"
// @Param max_price query string false "Inclusive upper price bound"
// @Param sort query string false "featured, price-asc, price-desc, name-asc or name-desc"
// @Success 200 {object} map[string]interface{} "Visible products"
// @Failure 400 {object} map[string]string "Invalid filter"
// @Router /products [get]
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	override, err := request.GetFilterQuery(r)
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid filter")
		return
	}

	products := h.service.Visible(override)
	response.List(w, products, len(products))
}

// Update handles PUT /api/v1/products/:id
// @Summary Update a product
// @Description Replace the product fields. Reviews and rating are kept.
// @Tags Products
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param product body ProductRequest true "Updated product details"
// @Success 200 {object} map[string]interface{} "Product updated successfully"
// @Failure 400 {object} map[string]string "Invalid request"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [put]
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req ProductRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	p := req.toDomain(id)
	if err := h.service.Update(r.Context(), p); err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, p)
}

// Delete handles DELETE /api/v1/products/:id
// @Summary Delete a product
// @Description Remove a product and its reviews. Clears the selection when it named this product.
// @Tags Products
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Product deleted successfully"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id} [delete]
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		h.handleError(w, err)
		return
	}

	response.NoContent(w)
}

// handleError handles service layer errors and returns appropriate HTTP responses
func (h *ProductHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrDuplicateID):
		response.Error(w, http.StatusConflict, "Product id already exists")
	default:
		h.logger.Error("Internal error in product handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
