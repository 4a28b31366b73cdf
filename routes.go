package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"tour-booking/internal/auth"
	"tour-booking/internal/booking"
	"tour-booking/internal/booking/booking_api"
	"tour-booking/internal/config"
	"tour-booking/internal/customers"
	"tour-booking/internal/customers/customer_api"
	"tour-booking/internal/destinations"
	"tour-booking/internal/destinations/destination_api"
	"tour-booking/internal/idempotency"
	"tour-booking/internal/inventory"
	"tour-booking/internal/ledger"
	"tour-booking/internal/logger"
	"tour-booking/internal/reporting"
	"tour-booking/internal/reporting/reporting_api"
	"tour-booking/internal/reviews"
	"tour-booking/internal/reviews/review_api"
	"tour-booking/internal/sse"
	"tour-booking/internal/store"
	"tour-booking/internal/tours"
	"tour-booking/internal/tours/tour_api"
	"tour-booking/internal/utils"
	"tour-booking/internal/voucher"
)

// application holds the long-lived collaborators main wires together.
type application struct {
	Config      *config.Config
	Logger      *logger.Logger
	Store       *store.Store
	Ledger      *ledger.DB
	Idempotency idempotency.Store
	Events      booking.EventPublisher
	Activity    *sse.BookingEventEmitter
	Vouchers    *voucher.Generator
}

func (a *application) routes() http.Handler {
	if a.Activity == nil {
		a.Activity = sse.NewBookingEventEmitter()
	}
	reconciler := inventory.NewReconciler(a.Store.Tours, a.Ledger, a.Logger)

	tourService := tours.NewService(a.Store.Tours, reconciler, a.Logger)
	events := booking.Publishers{a.Activity}
	if a.Events != nil {
		events = append(events, a.Events)
	}
	bookingService := booking.NewBookingService(a.Store.Tours, a.Store.Bookings, reconciler, events, a.Idempotency, a.Logger)
	reviewService := reviews.NewService(a.Store.Reviews, a.Logger)
	destinationService := destinations.NewService(a.Store.Destinations)
	customerService := customers.NewService(a.Store.Customers, a.Logger)
	reportingService := reporting.NewService(a.Store.Tours, a.Store.Bookings)

	tourHandler := tour_api.NewHandler(tourService, a.Ledger, a.Logger)
	bookingHandler := booking_api.NewHandler(bookingService, a.Vouchers, a.Logger)
	streamHandler := booking_api.NewStreamHandler(a.Activity, a.Logger)
	reviewHandler := review_api.NewHandler(reviewService, a.Logger)
	destinationHandler := destination_api.NewHandler(destinationService, a.Logger)
	customerHandler := customer_api.NewHandler(customerService, a.Logger)
	reportingHandler := reporting_api.NewHandler(reportingService, a.Logger)

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.Config.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", booking_api.IdempotencyKeyHeader},
		ExposedHeaders:   []string{booking_api.ReplayedHeader},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	r.Use(logger.Middleware(a.Logger))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		tourHandler.RegisterRoutes(r)
		bookingHandler.RegisterRoutes(r)
		reviewHandler.RegisterRoutes(r)
		destinationHandler.RegisterRoutes(r)
		reportingHandler.RegisterRoutes(r)
		a.Logger.Info("ROUTER", "Public routes registered under /api")

		r.Group(func(r chi.Router) {
			r.Use(auth.Middleware(a.Config.Auth.JWTSecret, a.Config.Auth.AdminRole, a.Logger))

			tourHandler.RegisterAdminRoutes(r)
			bookingHandler.RegisterAdminRoutes(r)
			streamHandler.RegisterAdminRoutes(r)
			reviewHandler.RegisterAdminRoutes(r)
			destinationHandler.RegisterAdminRoutes(r)
			customerHandler.RegisterAdminRoutes(r)
			a.Logger.Info("ROUTER", "Admin routes registered behind bearer token guard")
		})
	})

	return r
}
