package handler

import (
	"errors"
	"net/http"

	"github.com/google/uuid"

	"github.com/Pesokrava/storefront/internal/delivery/http/request"
	"github.com/Pesokrava/storefront/internal/delivery/http/response"
	"github.com/Pesokrava/storefront/internal/domain"
	"github.com/Pesokrava/storefront/internal/pkg/logger"
	"github.com/Pesokrava/storefront/internal/usecase/review"
)

// ReviewHandler handles HTTP requests for reviews
type ReviewHandler struct {
	service *review.Service
	logger  *logger.Logger
}

// NewReviewHandler creates a new review handler
func NewReviewHandler(service *review.Service, log *logger.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		logger:  log,
	}
}

// CreateReviewRequest represents the request body for submitting a review
type CreateReviewRequest struct {
	UserID  uuid.UUID `json:"user_id"`
	Rating  int       `json:"rating" example:"5"`
	Comment string    `json:"comment"`
}

// Create handles POST /api/v1/products/:id/reviews
// @Summary Review a product
// @Description Append a review and return the product with its new rating
// @Tags Reviews
// @Accept json
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Param review body CreateReviewRequest true "Review details"
// @Success 201 {object} map[string]interface{} "Updated product"
// @Failure 400 {object} map[string]string "Invalid request body"
// @Failure 404 {object} map[string]string "Product not found"
// @Failure 500 {object} map[string]string "Internal server error"
// @Router /products/{id}/reviews [post]
func (h *ReviewHandler) Create(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	var req CreateReviewRequest
	if err := request.DecodeJSON(r, &req); err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	rev := &domain.Review{
		UserID:  req.UserID,
		Rating:  req.Rating,
		Comment: req.Comment,
	}

	p, err := h.service.Create(r.Context(), productID, rev)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.Created(w, p)
}

// List handles GET /api/v1/products/:id/reviews
// @Summary List a product's reviews
// @Description Reviews in submission order
// @Tags Reviews
// @Produce json
// @Param id path string true "Product ID (UUID)"
// @Success 200 {object} map[string]interface{} "Reviews"
// @Failure 400 {object} map[string]string "Invalid product ID"
// @Failure 404 {object} map[string]string "Product not found"
// @Router /products/{id}/reviews [get]
func (h *ReviewHandler) List(w http.ResponseWriter, r *http.Request) {
	productID, err := request.GetUUIDParam(r, "id")
	if err != nil {
		response.Error(w, http.StatusBadRequest, "Invalid product ID")
		return
	}

	reviews, err := h.service.List(productID)
	if err != nil {
		h.handleError(w, err)
		return
	}

	response.List(w, reviews, len(reviews))
}

func (h *ReviewHandler) handleError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		response.Error(w, http.StatusNotFound, "Product not found")
	case errors.Is(err, domain.ErrInvalidInput):
		response.Error(w, http.StatusBadRequest, "Invalid input")
	case errors.Is(err, domain.ErrDuplicateID):
		response.Error(w, http.StatusConflict, "Review id already exists")
	default:
		h.logger.Error("Internal error in review handler", err)
		response.Error(w, http.StatusInternalServerError, "Internal server error")
	}
}
