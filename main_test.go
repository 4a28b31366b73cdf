package main

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tour-booking/internal/auth"
	"tour-booking/internal/config"
	"tour-booking/internal/idempotency"
	"tour-booking/internal/ledger"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/sse"
	"tour-booking/internal/store"
	"tour-booking/internal/voucher"
)

const testSecret = "test-admin-secret"

type testServer struct {
	handler http.Handler
	token   string
}

func setupApp(t *testing.T) *testServer {
	t.Helper()
	ctx := context.Background()
	log := logger.Discard()

	cfg := &config.Config{
		Server:   config.ServerConfig{AllowedOrigins: []string{"http://localhost:3000"}},
		Database: config.DatabaseConfig{Driver: "sqlite", DSN: "file::memory:", ConnectRetries: 1, AutoMigrate: true},
		Auth:     config.AuthConfig{JWTSecret: testSecret, AdminRole: "admin"},
	}

	bunDB, err := ledger.Open(ctx, cfg.Database, log)
	require.NoError(t, err)
	t.Cleanup(func() { _ = bunDB.Close() })
	require.NoError(t, prepareSchema(ctx, cfg.Database, bunDB, log))

	vouchers, err := voucher.NewGenerator("voucher-secret")
	require.NoError(t, err)

	app := &application{
		Config:      cfg,
		Logger:      log,
		Store:       store.New(),
		Ledger:      &ledger.DB{Bun: bunDB},
		Idempotency: idempotency.NewMemory(time.Hour),
		Activity:    sse.NewBookingEventEmitter(),
		Vouchers:    vouchers,
	}

	token, err := auth.IssueToken(testSecret, "ops", "admin", time.Hour)
	require.NoError(t, err)
	return &testServer{handler: app.routes(), token: token}
}

func (s *testServer) do(t *testing.T, method, path, body string, admin bool) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if admin {
		req.Header.Set("Authorization", "Bearer "+s.token)
	}
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealthAndMetrics(t *testing.T) {
	s := setupApp(t)

	rec := s.do(t, http.MethodGet, "/healthz", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/metrics", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAdminRoutesRequireToken(t *testing.T) {
	s := setupApp(t)
	tourBody := `{"name":"Alps","destination":"Zermatt","price":1200,"availableSeats":10}`

	rec := s.do(t, http.MethodPost, "/api/tours", tourBody, false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/customers", "", false)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	rec = s.do(t, http.MethodPost, "/api/tours", tourBody, true)
	assert.Equal(t, http.StatusCreated, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/tours", "", false)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Len(t, decode[[]models.Tour](t, rec), 1)
}

func TestBookingFlowThroughRouter(t *testing.T) {
	s := setupApp(t)

	rec := s.do(t, http.MethodPost, "/api/tours", `{"name":"Alps","destination":"Zermatt","price":100,"availableSeats":10}`, true)
	require.Equal(t, http.StatusCreated, rec.Code)
	tour := decode[models.Tour](t, rec)

	rec = s.do(t, http.MethodPost, "/api/bookings", `{"customerId":"C-1","tourId":"`+tour.ID+`","numberOfPeople":4}`, false)
	require.Equal(t, http.StatusCreated, rec.Code)
	first := decode[models.Booking](t, rec)
	assert.Equal(t, 400.0, first.TotalAmount)

	rec = s.do(t, http.MethodPost, "/api/bookings", `{"customerId":"C-2","tourId":"`+tour.ID+`","numberOfPeople":7}`, false)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = s.do(t, http.MethodPut, "/api/bookings/"+first.ID, `{"status":"cancelled"}`, false)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = s.do(t, http.MethodGet, "/api/tours/"+tour.ID, "", false)
	assert.Equal(t, 10, decode[models.Tour](t, rec).AvailableSeats)

	rec = s.do(t, http.MethodGet, "/api/tours/"+tour.ID+"/ledger", "", true)
	require.Equal(t, http.StatusOK, rec.Code)
	entries := decode[[]models.LedgerEntry](t, rec)
	require.Len(t, entries, 2)
	assert.Equal(t, -4, entries[0].Delta)
	assert.Equal(t, 4, entries[1].Delta)

	rec = s.do(t, http.MethodGet, "/api/stats?type=popular-tours", "", false)
	require.Equal(t, http.StatusOK, rec.Code)
	popular := decode[[]models.PopularTour](t, rec)
	require.Len(t, popular, 1)
	assert.Equal(t, 1, popular[0].BookingCount)

	rec = s.do(t, http.MethodGet, "/api/admin/bookings", "", true)
	assert.Len(t, decode[[]models.Booking](t, rec), 1)
}

func TestCORSPreflight(t *testing.T) {
	s := setupApp(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/bookings", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Idempotency-Key")
	rec := httptest.NewRecorder()
	s.handler.ServeHTTP(rec, req)

	assert.Equal(t, "http://localhost:3000", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestWarnInsecureDefaults(t *testing.T) {
	var buf bytes.Buffer
	warnInsecureDefaults(&config.Config{Voucher: config.VoucherConfig{Secret: config.DefaultVoucherSecret}}, logger.New(&buf, logger.DEBUG))
	assert.Contains(t, buf.String(), "ADMIN_JWT_SECRET not set")
	assert.Contains(t, buf.String(), "VOUCHER_SECRET uses the built-in default")

	buf.Reset()
	warnInsecureDefaults(&config.Config{
		Auth:    config.AuthConfig{JWTSecret: "s"},
		Voucher: config.VoucherConfig{Secret: "real"},
	}, logger.New(&buf, logger.DEBUG))
	assert.Empty(t, buf.String())
}
