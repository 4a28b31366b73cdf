package tour_api

import (
	"context"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/tours"
	"tour-booking/internal/utils"
)

type LedgerReader interface {
	EntriesForTour(ctx context.Context, tourID string) ([]models.LedgerEntry, error)
}

type Handler struct {
	TourService *tours.Service
	Ledger      LedgerReader
	Logger      *logger.Logger
}

func NewHandler(tourService *tours.Service, ledger LedgerReader, log *logger.Logger) *Handler {
	return &Handler{TourService: tourService, Ledger: ledger, Logger: log}
}

// RegisterRoutes mounts the public catalog reads.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/tours", h.ListTours)
	r.Get("/tours/{tourId}", h.GetTour)
}

// RegisterAdminRoutes mounts catalog writes and the seat ledger.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Post("/tours", h.CreateTour)
	r.Put("/tours/{tourId}", h.UpdateTour)
	r.Delete("/tours/{tourId}", h.DeleteTour)
	r.Get("/tours/{tourId}/ledger", h.GetLedger)
}

func (h *Handler) ListTours(w http.ResponseWriter, r *http.Request) {
	filter, err := parseFilter(r)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, h.TourService.ListTours(filter))
}

func (h *Handler) GetTour(w http.ResponseWriter, r *http.Request) {
	tour, err := h.TourService.GetTour(chi.URLParam(r, "tourId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tour)
}

func (h *Handler) CreateTour(w http.ResponseWriter, r *http.Request) {
	var req models.TourRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	tour, err := h.TourService.CreateTour(req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, tour)
}

func (h *Handler) UpdateTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourId")

	var upd models.TourUpdate
	if err := utils.DecodeJSON(r, &upd); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	tour, err := h.TourService.UpdateTour(r.Context(), tourID, upd)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, tour)
}

func (h *Handler) DeleteTour(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourId")

	if err := h.TourService.DeleteTour(tourID); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

func (h *Handler) GetLedger(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourId")

	entries, err := h.Ledger.EntriesForTour(r.Context(), tourID)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", fmt.Errorf("read ledger for tour %s: %w", tourID, err))
		return
	}
	utils.WriteJSON(w, http.StatusOK, entries)
}

func parseFilter(r *http.Request) (models.TourFilter, error) {
	q := r.URL.Query()
	filter := models.TourFilter{
		Destination: q.Get("destination"),
		Status:      models.TourStatus(q.Get("status")),
		Featured:    q.Get("featured") == "true",
	}
	if filter.Status != "" && !filter.Status.IsValid() {
		return filter, apperrors.InvalidArgument("unknown tour status %q", filter.Status)
	}

	var err error
	if filter.MinPrice, err = parsePrice(q.Get("minPrice"), "minPrice"); err != nil {
		return filter, err
	}
	if filter.MaxPrice, err = parsePrice(q.Get("maxPrice"), "maxPrice"); err != nil {
		return filter, err
	}
	return filter, nil
}

func parsePrice(raw, name string) (*float64, error) {
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, apperrors.InvalidArgument("%s must be a number, got %q", name, raw)
	}
	return &v, nil
}
