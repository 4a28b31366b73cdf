package reporting_api

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/reporting"
	"tour-booking/internal/utils"
)

// Handler handles statistics HTTP endpoints
type Handler struct {
	Service *reporting.Service
	Logger  *logger.Logger
}

func NewHandler(service *reporting.Service, log *logger.Logger) *Handler {
	return &Handler{Service: service, Logger: log}
}

// RegisterRoutes registers the statistics routes on a chi router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stats", h.GetStats)
}

// GetStats serves type=bookings (startDate and endDate required) and
// type=popular-tours (optional limit).
func (h *Handler) GetStats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	statsType := q.Get("type")
	h.Logger.Debug("API", fmt.Sprintf("GetStats: type=%s", statsType))

	switch statsType {
	case "bookings":
		startDate, endDate := q.Get("startDate"), q.Get("endDate")
		if startDate == "" || endDate == "" {
			utils.WriteError(w, h.Logger, "API", apperrors.InvalidArgument("startDate and endDate are required"))
			return
		}
		stats, err := h.Service.StatisticsInRange(startDate, endDate)
		if err != nil {
			utils.WriteError(w, h.Logger, "API", err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, stats)

	case "popular-tours":
		limit, err := parseLimit(q.Get("limit"))
		if err != nil {
			utils.WriteError(w, h.Logger, "API", err)
			return
		}
		utils.WriteJSON(w, http.StatusOK, h.Service.PopularTours(limit))

	default:
		utils.WriteError(w, h.Logger, "API", apperrors.InvalidArgument("invalid statistics type %q", statsType))
	}
}

// parseLimit treats a missing limit as 0 so the service default applies.
func parseLimit(raw string) (int, error) {
	if raw == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperrors.InvalidArgument("limit must be an integer, got %q", raw)
	}
	return limit, nil
}
