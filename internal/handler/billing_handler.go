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

type BillingHandler struct {
	billingService service.BillingService
	validate       *validator.Validate
}

func NewBillingHandler(billingService service.BillingService) *BillingHandler {
	return &BillingHandler{
		billingService: billingService,
		validate:       validator.New(),
	}
}

func (h *BillingHandler) RegisterRoutes(r chi.Router) {
	r.Get("/billing/plans", h.ListPlans)
	r.Post("/billing/pay", h.Purchase)
	r.Get("/billing/current", h.CurrentSubscription)
	r.Get("/billing/my", h.MySubscriptions)
}

// GET /v1/billing/plans
func (h *BillingHandler) ListPlans(w http.ResponseWriter, r *http.Request) {
	plans, err := h.billingService.ListPlans(r.Context())
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, plans)
}

// POST /v1/billing/pay
func (h *BillingHandler) Purchase(w http.ResponseWriter, r *http.Request) {
	var req models.PurchaseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.BadRequest(w, "invalid request body")
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.BadRequest(w, err.Error())
		return
	}

	sub, err := h.billingService.Purchase(r.Context(), middleware.UserID(r.Context()), &req)
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Created(w, sub)
}

// GET /v1/billing/current
func (h *BillingHandler) CurrentSubscription(w http.ResponseWriter, r *http.Request) {
	sub, err := h.billingService.CurrentSubscription(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}
	if sub == nil {
		utils.Success(w, http.StatusOK, map[string]interface{}{"subscription": nil})
		return
	}

	utils.Success(w, http.StatusOK, sub)
}

// GET /v1/billing/my
func (h *BillingHandler) MySubscriptions(w http.ResponseWriter, r *http.Request) {
	subs, err := h.billingService.MySubscriptions(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		handleError(w, err)
		return
	}

	utils.Success(w, http.StatusOK, subs)
}
