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

type BookingHandler struct {
	bookingService service.BookingService
	validate       *validator.Validate
}

func NewBookingHandler(bookingService service.BookingService) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		validate:       validator.New(),
	}
}

func (h *BookingHandler) RegisterRoutes(r chi.Router) {
	r.Post("/bookings", h.CreateBooking)
	r.Get("/bookings/my", h.ListMy)
	r.Get("/bookings/incoming", h.ListIncoming)
	r.Get("/bookings/{id}", h.GetBooking)
	r.Post("/bookings/{id}/confirm", h.ConfirmBooking)
	r.Post("/bookings/{id}/reject", h.RejectBooking)
	r.Post("/bookings/{id}/cancel", h.CancelBooking)
}

// POST /v1/bookings
func (h *BookingHandler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.CreateBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	booking, err := h.bookingService.Create(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, booking)
}

// GET /v1/bookings/my
func (h *BookingHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListMy(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, bookings)
}

// GET /v1/bookings/incoming
func (h *BookingHandler) ListIncoming(w http.ResponseWriter, r *http.Request) {
	bookings, err := h.bookingService.ListIncoming(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, bookings)
}

// GET /v1/bookings/{id}
func (h *BookingHandler) GetBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	booking, err := h.bookingService.Get(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, booking)
}

// POST /v1/bookings/{id}/confirm
func (h *BookingHandler) ConfirmBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	if err := h.bookingService.Confirm(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.BookingStatusConfirmed})
}

// POST /v1/bookings/{id}/reject
func (h *BookingHandler) RejectBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	var req models.RejectBookingRequest
	if r.Body != nil && r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.BadRequest(w, "invalid request body")
			return
		}
	}

	if err := h.bookingService.Reject(r.Context(), id, middleware.UserID(r.Context()), &req); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.BookingStatusRejected})
}

// POST /v1/bookings/{id}/cancel
func (h *BookingHandler) CancelBooking(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "booking id is required")
		return
	}

	if err := h.bookingService.Cancel(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.BookingStatusCancelled})
}
