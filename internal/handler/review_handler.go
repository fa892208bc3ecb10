package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/smartway/smartway-backend/internal/middleware"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/service"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type ReviewHandler struct {
	reviewService service.ReviewService
	validate      *validator.Validate
}

func NewReviewHandler(reviewService service.ReviewService) *ReviewHandler {
	return &ReviewHandler{
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

func (h *ReviewHandler) RegisterRoutes(r chi.Router) {
	r.Post("/reviews", h.CreateReview)
	r.Get("/reviews/my-received", h.ListReceived)
	r.Get("/reviews/my-written", h.ListWritten)
}

// POST /v1/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	review, err := h.reviewService.Create(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, review)
}

// GET /v1/reviews/my-received
func (h *ReviewHandler) ListReceived(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListReceived(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, reviews)
}

// GET /v1/reviews/my-written
func (h *ReviewHandler) ListWritten(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListWritten(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, reviews)
}
