package booking_api

import (
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/booking"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/utils"
	"tour-booking/internal/voucher"
)

const (
	IdempotencyKeyHeader = "Idempotency-Key"
	ReplayedHeader       = "Idempotent-Replayed"
)

type Handler struct {
	BookingService *booking.BookingService
	Vouchers       *voucher.Generator
	Logger         *logger.Logger
}

func NewHandler(bookingService *booking.BookingService, vouchers *voucher.Generator, log *logger.Logger) *Handler {
	return &Handler{BookingService: bookingService, Vouchers: vouchers, Logger: log}
}

// RegisterRoutes mounts the customer-facing booking endpoints.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/bookings", func(r chi.Router) {
		r.Get("/", h.ListBookings)
		r.Post("/", h.CreateBooking)
		r.Get("/{bookingId}", h.GetBooking)
		r.Put("/{bookingId}", h.UpdateBooking)
		r.Get("/{bookingId}/voucher", h.GetVoucher)
	})
}

// RegisterAdminRoutes mounts the back-office listing; callers wrap r with
// the admin guard.
func (h *Handler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/bookings", h.ListAllBookings)
}

func (h *Handler) ListBookings(w http.ResponseWriter, r *http.Request) {
	customerID := r.URL.Query().Get("customerId")
	tourID := r.URL.Query().Get("tourId")
	h.Logger.Debug("API", fmt.Sprintf("ListBookings: customerId=%s tourId=%s", customerID, tourID))

	var bookings []models.Booking
	switch {
	case customerID != "":
		bookings = h.BookingService.GetBookingsByCustomer(customerID)
		if tourID != "" {
			bookings = filterByTour(bookings, tourID)
		}
	case tourID != "":
		bookings = h.BookingService.GetBookingsByTour(tourID)
	default:
		utils.WriteError(w, h.Logger, "API", apperrors.InvalidArgument("customerId or tourId is required"))
		return
	}

	utils.WriteJSON(w, http.StatusOK, bookings)
}

func (h *Handler) ListAllBookings(w http.ResponseWriter, r *http.Request) {
	utils.WriteJSON(w, http.StatusOK, h.BookingService.ListBookings())
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req models.BookingRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	key := r.Header.Get(IdempotencyKeyHeader)
	created, replayed, err := h.BookingService.CreateBookingOnce(r.Context(), key, req)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	if replayed {
		w.Header().Set(ReplayedHeader, "true")
		utils.WriteJSON(w, http.StatusOK, created)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("CreateBooking: booking %s created for tour %s", created.ID, created.TourID))
	utils.WriteJSON(w, http.StatusCreated, created)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	found, err := h.BookingService.GetBooking(bookingID)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	utils.WriteJSON(w, http.StatusOK, found)
}

func (h *Handler) UpdateBooking(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	var upd models.BookingUpdate
	if err := utils.DecodeJSON(r, &upd); err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	updated, err := h.BookingService.UpdateBooking(r.Context(), bookingID, upd)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}
	h.Logger.Info("API", fmt.Sprintf("UpdateBooking: booking %s is %s/%s", bookingID, updated.Status, updated.PaymentStatus))
	utils.WriteJSON(w, http.StatusOK, updated)
}

func (h *Handler) GetVoucher(w http.ResponseWriter, r *http.Request) {
	bookingID := chi.URLParam(r, "bookingId")

	found, err := h.BookingService.GetBooking(bookingID)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	png, err := h.Vouchers.Generate(found)
	if err != nil {
		utils.WriteError(w, h.Logger, "API", err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%q", bookingID+".png"))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(png); err != nil {
		h.Logger.Error("API", fmt.Sprintf("GetVoucher: failed to write response: %v", err))
	}
}

func filterByTour(bookings []models.Booking, tourID string) []models.Booking {
	out := make([]models.Booking, 0, len(bookings))
	for _, b := range bookings {
		if b.TourID == tourID {
			out = append(out, b)
		}
	}
	return out
}
