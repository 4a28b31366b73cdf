package customer_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/customers"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/utils"
)

type Handler struct {
	CustomerService *customers.Service
	Logger          *logger.Logger
}

func NewHandler(customerService *customers.Service, log *logger.Logger) *Handler {
	return &Handler{CustomerService: customerService, Logger: log}
}

// RegisterAdminRoutes mounts the back-office customer endpoints. There are
// no public customer routes.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/customers", h.ListCustomers)
	r.Post("/customers", h.CreateCustomer)
	r.Get("/customers/{customerId}", h.GetCustomer)
}

func (h *Handler) ListCustomers(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.CustomerService.ListCustomers())
}

func (h *Handler) CreateCustomer(w http.ResponseWriter, r *http.Request) {
	var req models.CustomerRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	customer, err := h.CustomerService.CreateCustomer(req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, customer)
}

func (h *Handler) GetCustomer(w http.ResponseWriter, r *http.Request) {
	customer, err := h.CustomerService.GetCustomer(chi.URLParam(r, "customerId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, customer)
}
