package handler

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	"github.com/smartway/smartway-backend/internal/models"
	"github.com/smartway/smartway-backend/internal/service"
	"github.com/smartway/smartway-backend/pkg/utils"
)

type LocationHandler struct {
	locationService service.LocationService
	validate        *validator.Validate
}

func NewLocationHandler(locationService service.LocationService) *LocationHandler {
	return &LocationHandler{
		locationService: locationService,
		validate:        validator.New(),
	}
}

// RegisterPublicRoutes mounts the read-only registry lookups.
func (h *LocationHandler) RegisterPublicRoutes(r chi.Router) {
	r.Get("/locations", h.ListLocations)
	r.Get("/locations/{id}", h.GetLocation)
}

// RegisterRoutes mounts the registry write, which needs an identity.
func (h *LocationHandler) RegisterRoutes(r chi.Router) {
	r.Post("/locations", h.CreateLocation)
}

// GET /v1/locations
func (h *LocationHandler) ListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.locationService.List(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, locations)
}

// GET /v1/locations/{id}
func (h *LocationHandler) GetLocation(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "location id is required")
		return
	}

	loc, err := h.locationService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, loc)
}

// POST /v1/locations
func (h *LocationHandler) CreateLocation(w http.ResponseWriter, r *http.Request) {
	var req models.CreateLocationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	loc, err := h.locationService.Create(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, loc)
}
