package review_api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/reviews"
	"tour-booking/internal/utils"
)

type Handler struct {
	ReviewService *reviews.Service
	Logger        *logger.Logger
}

func NewHandler(reviewService *reviews.Service, log *logger.Logger) *Handler {
	return &Handler{ReviewService: reviewService, Logger: log}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/reviews", h.ListReviews)
	r.Post("/reviews", h.CreateReview)
	r.Get("/reviews/{reviewId}", h.GetReview)
}

// RegisterAdminRoutes mounts moderation endpoints.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Put("/reviews/{reviewId}", h.UpdateReview)
	r.Delete("/reviews/{reviewId}", h.DeleteReview)
}

func (h *Handler) ListReviews(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	switch {
	case q.Get("tourId") != "":
		utils.WriteJSON(w, http.StatusOK, h.ReviewService.ReviewsByTour(q.Get("tourId")))
	case q.Get("customerId") != "":
		utils.WriteJSON(w, http.StatusOK, h.ReviewService.ReviewsByCustomer(q.Get("customerId")))
	default:
		utils.WriteError(w, h.Logger, "API", apperrors.InvalidArgument("tourId or customerId is required"))
	}
}

func (h *Handler) CreateReview(w http.ResponseWriter, r *http.Request) {
	var req models.ReviewRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	review, err := h.ReviewService.CreateReview(req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusCreated, review)
}

func (h *Handler) GetReview(w http.ResponseWriter, r *http.Request) {
	review, err := h.ReviewService.GetReview(chi.URLParam(r, "reviewId"))
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, review)
}

func (h *Handler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	var upd models.ReviewUpdate
	if err := utils.DecodeJSON(r, &upd); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	review, err := h.ReviewService.UpdateReview(chi.URLParam(r, "reviewId"), upd)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, review)
}

func (h *Handler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	if err := h.ReviewService.DeleteReview(chi.URLParam(r, "reviewId")); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}
