package destination_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/destinations"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/utils"
)

type Handler struct {
	DestinationService *destinations.Service
	Logger             *logger.Logger
}

func NewHandler(destinationService *destinations.Service, log *logger.Logger) *Handler {
	return &Handler{DestinationService: destinationService, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/destinations", h.ListDestinations)
	r.Get("/destinations/{destinationId}", h.GetDestination)
}

func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/destinations", h.CreateDestination)
}

func (h *Handler) ListDestinations(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.DestinationService.ListDestinations())
}

func (h *Handler) GetDestination(w http.ResponseWriter, r *http.Request) {
	destination, err := h.DestinationService.GetDestination(chi.URLParam(r, "destinationId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, destination)
}

func (h *Handler) CreateDestination(w http.ResponseWriter, r *http.Request) {
	var req models.DestinationRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	destination, err := h.DestinationService.CreateDestination(req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, destination)
}
