package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/smartway/smartway-backend/internal/middleware"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/repository"
	"github.com/smartway/smartway-backend/internal/service"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type AnnouncementHandler struct {
	announcementService service.AnnouncementService
	validate            *validator.Validate
}

func NewAnnouncementHandler(announcementService service.AnnouncementService) *AnnouncementHandler {
	return &AnnouncementHandler{
		announcementService: announcementService,
		validate:            validator.New(),
	}
}

func (h *AnnouncementHandler) RegisterRoutes(r chi.Router) {
	r.Post("/announcements", h.CreateAnnouncement)
	r.Get("/announcements/available", h.ListAvailable)
	r.Get("/announcements/my", h.ListMy)
	r.Get("/announcements/{id}", h.GetAnnouncement)
	r.Get("/announcements/{id}/bookings", h.ListBookings)
	r.Post("/announcements/{id}/complete", h.CompleteAnnouncement)
	r.Post("/announcements/{id}/cancel", h.CancelAnnouncement)
}

// POST /v1/announcements
func (h *AnnouncementHandler) CreateAnnouncement(w http.ResponseWriter, r *http.Request) {
	var req models.CreateAnnouncementRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	a, err := h.announcementService.Create(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, a)
}

// GET /v1/announcements/available?from=&to=&seats=
func (h *AnnouncementHandler) ListAvailable(w http.ResponseWriter, r *http.Request) {
	filter := repository.AnnouncementFilter{
		FromLocationID: r.URL.Query().Get("from"),
		ToLocationID:   r.URL.Query().Get("to"),
	}
	if seats := r.URL.Query().Get("seats"); seats != "" {
		n, err := strconv.Atoi(seats)
		if err != nil || n < 1 {
			utils.BadRequest(w, "seats must be a positive integer")
			return
		}
		filter.MinSeats = n
	}

	list, err := h.announcementService.ListAvailable(r.Context(), middleware.UserID(r.Context()), filter)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, list)
}

// GET /v1/announcements/my
func (h *AnnouncementHandler) ListMy(w http.ResponseWriter, r *http.Request) {
	list, err := h.announcementService.ListMy(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, list)
}

// GET /v1/announcements/{id}
func (h *AnnouncementHandler) GetAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "announcement id is required")
		return
	}

	a, err := h.announcementService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, a)
}

// GET /v1/announcements/{id}/bookings
func (h *AnnouncementHandler) ListBookings(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "announcement id is required")
		return
	}

	bookings, err := h.announcementService.ListBookings(r.Context(), id, middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, bookings)
}

// POST /v1/announcements/{id}/complete
func (h *AnnouncementHandler) CompleteAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "announcement id is required")
		return
	}

	if err := h.announcementService.Complete(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.AnnouncementStatusCompleted})
}

// POST /v1/announcements/{id}/cancel
func (h *AnnouncementHandler) CancelAnnouncement(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "announcement id is required")
		return
	}

	if err := h.announcementService.Cancel(r.Context(), id, middleware.UserID(r.Context())); err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, map[string]string{"status": models.AnnouncementStatusCancelled})
}
