package handler

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/smartway/smartway-backend/internal/errors"
	"github.com/smartway/smartway-backend/internal/middleware"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/service"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type TripHandler struct {
	tripService service.TripService
	validate    *validator.Validate
}

func NewTripHandler(tripService service.TripService) *TripHandler {
	return &TripHandler{
		tripService: tripService,
		validate:    validator.New(),
	}
}

func (h *TripHandler) RegisterRoutes(r chi.Router) {
	r.Post("/trips", h.CreateTrip)
	r.Get("/trips/available", h.ListAvailable)
	r.Get("/trips/my", h.ListMy)
	r.Get("/trips/my-active", h.ListMyActive)
	r.Get("/trips/my-completed", h.ListMyCompleted)
	r.Get("/trips/{id}", h.GetTrip)
	r.Post("/trips/{id}/take", h.TakeTrip)
	r.Post("/trips/{id}/start", h.StartTrip)
	r.Post("/trips/{id}/release", h.ReleaseTrip)
	r.Post("/trips/{id}/finish", h.FinishTrip)
	r.Post("/trips/{id}/cancel", h.CancelTrip)
}

// POST /v1/trips
func (h *TripHandler) CreateTrip(w http.ResponseWriter, r *http.Request) {
	var req models.CreateTripRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	trip, err := h.tripService.Create(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, trip)
}

// GET /v1/trips/{id}
func (h *TripHandler) GetTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "trip id is required")
		return
	}

	trip, err := h.tripService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trip)
}

// GET /v1/trips/available
func (h *TripHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListAvailable(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trips)
}

// GET /v1/trips/my
func (h *TripHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListMy(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trips)
}

// GET /v1/trips/my-active
func (h *TripHandler) ListMyActive(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListMyActive(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trips)
}

// GET /v1/trips/my-completed
func (h *TripHandler) ListMyCompleted(w http.ResponseWriter, r *http.Request) {
	trips, err := h.tripService.ListMyCompleted(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trips)
}

// POST /v1/trips/{id}/take
func (h *TripHandler) TakeTrip(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "trip id is required")
		return
	}

	// Body is optional, the driver may take without naming a car
	var req models.TakeTripRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.BadRequest(w, "invalid request body")
			return
		}
		if err := h.validate.Struct(req); err != nil {
			utils.BadRequest(w, err.Error())
			return
		}
	}

	trip, err := h.tripService.Take(r.Context(), id, middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, trip)
}

// POST /v1/trips/{id}/start
func (h *TripHandler) StartTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.Start, models.TripStatusInProgress)
}

// POST /v1/trips/{id}/release
func (h *TripHandler) ReleaseTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.Release, models.TripStatusOpen)
}

// POST /v1/trips/{id}/finish
func (h *TripHandler) FinishTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.Finish, models.TripStatusCompleted)
}

// POST /v1/trips/{id}/cancel
func (h *TripHandler) CancelTrip(w http.ResponseWriter, r *http.Request) {
	h.transition(w, r, h.tripService.Cancel, models.TripStatusCancelled)
}

func (h *TripHandler) transition(w http.ResponseWriter, r *http.Request, op func(ctx context.Context, tripID, userID string) error, resulting string) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "trip id is required")
		return
	}

	if err := op(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": resulting})
}

func handleError(w http.ResponseWriter, err error) {
	if apiErr, ok := err.(*apperrors.APIError); ok {
		utils.Error(w, apiErr)
		return
	}

	switch err {
	case apperrors.ErrTripNotAvailable:
		utils.Error(w, apperrors.TripNotAvailable())
	case apperrors.ErrPendingBookingExists:
		utils.Error(w, apperrors.PendingBookingExists())
	case apperrors.ErrAlreadyReviewed:
		utils.Error(w, apperrors.AlreadyReviewed())
	default:
		utils.InternalError(w, "internal server error")
	}
}
