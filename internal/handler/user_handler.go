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

type UserHandler struct {
	userService   service.UserService
	reviewService service.ReviewService
	validate      *validator.Validate
}

func NewUserHandler(userService service.UserService, reviewService service.ReviewService) *UserHandler {
	return &UserHandler{
		userService:   userService,
		reviewService: reviewService,
		validate:      validator.New(),
	}
}

func (h *UserHandler) RegisterRoutes(r chi.Router) {
	r.Get("/users/me", h.Me)
	r.Get("/users/{id}", h.GetUser)
	r.Get("/users/{id}/reviews", h.ListUserReviews)
	r.Post("/cars", h.AddCar)
	r.Get("/cars/my", h.MyCars)
}

// RegisterPublicRoutes mounts endpoints that do not require an identity.
func (h *UserHandler) RegisterPublicRoutes(r chi.Router) {
	r.Post("/users", h.Register)
}

// POST /v1/users
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	user, err := h.userService.Register(r.Context(), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, user)
}

// GET /v1/users/me
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.userService.Get(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, user)
}

// GET /v1/users/{id}
func (h *UserHandler) GetUser(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	user, err := h.userService.Get(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, user)
}

// GET /v1/users/{id}/reviews
func (h *UserHandler) ListUserReviews(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		utils.BadRequest(w, "user id is required")
		return
	}

	reviews, err := h.reviewService.ListForUser(r.Context(), id)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, reviews)
}

// POST /v1/cars
func (h *UserHandler) AddCar(w http.ResponseWriter, r *http.Request) {
	var req models.CreateCarRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	car, err := h.userService.AddCar(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, car)
}

// GET /v1/cars/my
func (h *UserHandler) MyCars(w http.ResponseWriter, r *http.Request) {
	cars, err := h.userService.MyCars(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, cars)
}
