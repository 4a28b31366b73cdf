package booking_api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"tour-booking/internal/logger"
	"tour-booking/internal/sse"
)

// StreamHandler serves booking activity for a tour as Server-Sent Events.
type StreamHandler struct {
	Emitter *sse.BookingEventEmitter
	Logger  *logger.Logger
}

func NewStreamHandler(emitter *sse.BookingEventEmitter, log *logger.Logger) *StreamHandler {
	return &StreamHandler{Emitter: emitter, Logger: log}
}

func (h *StreamHandler) RegisterAdminRoutes(r chi.Router) {
	r.Get("/admin/tours/{tourId}/bookings/stream", h.StreamTourBookings)
}

func (h *StreamHandler) StreamTourBookings(w http.ResponseWriter, r *http.Request) {
	tourID := chi.URLParam(r, "tourId")
	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "Streaming unsupported", http.StatusInternalServerError)
		return
	}

	setupSSEHeaders(w)
	ctx := r.Context()
	activity := h.Emitter.SubscribeToTour(ctx, tourID)

	fmt.Fprintf(w, "event: connected\ndata: {\"status\":\"connected\",\"tourId\":%q}\n\n", tourID)
	flusher.Flush()
	h.Logger.Info("SSE", fmt.Sprintf("Client connected to booking stream for tour %s", tourID))

	for {
		select {
		case a, ok := <-activity:
			if !ok {
				return
			}
			data, err := json.Marshal(a)
			if err != nil {
				h.Logger.Error("SSE", fmt.Sprintf("Failed to serialize booking activity: %v", err))
				continue
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", a.Type, data)
			flusher.Flush()
		case <-ctx.Done():
			h.Logger.Debug("SSE", fmt.Sprintf("Client disconnected from booking stream for tour %s", tourID))
			return
		}
	}
}

func setupSSEHeaders(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "text/event-stream;charset=UTF-8")
	w.Header().Set("Cache-Control", "no-cache, no-store, max-age=0, must-revalidate")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Content-Type-Options", "nosniff")
}
