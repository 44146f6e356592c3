package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/delivery/http/request"
	"github.com/Pesokrava/storefront/internal/delivery/http/response"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/usecase/cart"
)

// CartHandler handles HTTP requests for the cart
type CartHandler struct {
	service *cart.Service
	logger  *logger.Logger
}

// NewCartHandler creates a new cart handler
func NewCartHandler(service *cart.Service, log *logger.Logger) *CartHandler {
	return &CartHandler{
		service: service,
		logger:  log,
	}
}

// AddItemRequest adds delta units of a product. Delta defaults to 1.
type AddItemRequest struct {
	ProductID uuid.UUID `json:"product_id"`
	Delta     *int      `json:"delta,omitempty"`
}

// Get handles GET /api/v1/cart
// @Summary Get the priced cart
// @Description Line totals, subtotal, shipping, tax and total as exact decimals
// @Tags Cart
// @Produce json
// @Success 200 {object} map[string]interface{} "Cart totals"
// @Router /cart [get]
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	response.Success(w, h.service.Totals())
}

// AddItem handles POST /api/v1/cart/items
// @Summary Add to cart
// @Description Creates the line or changes its quantity. Quantity never drops below 1.
// @Tags Cart
// @Accept json
// @Produce json
// @Param item body AddItemRequest true "Product and delta"
// @Success 200 {object} map[string]interface{} "Cart line"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Router /cart/items [post]
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	var req AddItemRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	delta := 1
	if req.Delta != nil {
		delta = *req.Delta
	}

	line, err := h.service.AddOrIncrement(req.ProductID, delta)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Success(w, line)
}

// RemoveItem handles DELETE /api/v1/cart/items/:id
// @Summary Remove a cart line
// @Tags Cart
// @Param id path string true "Product ID (UUID)"
// @Success 204 "Line removed"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Router /cart/items/{id} [delete]
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	id, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	h.service.Remove(id)
	response.NoContent(w)
}

// Clear handles DELETE /api/v1/cart
// @Summary Empty the cart
// @Tags Cart
// @Success 204 "Cart cleared"
// @Router /cart [delete]
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	h.service.Clear()
	response.NoContent(w)
}

func (h *CartHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	default:
		h.logger.Error("Internal error in cart handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
