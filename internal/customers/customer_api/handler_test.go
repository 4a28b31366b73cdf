package customer_api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tour-booking/internal/customers"
	"tour-booking/internal/customers/customer_api"
	"tour-booking/internal/logger"
	"tour-booking/internal/store"
)

func TestCustomerRoutes(t *testing.T) {
	svc := customers.NewService(store.New().Customers, logger.Discard())
	svc.Cost = bcrypt.MinCost
	r := chi.NewRouter()
	customer_api.NewHandler(svc, logger.Discard()).RegisterAdminRoutes(r)

	do := func(method, path, body string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, httptest.NewRequest(method, path, strings.NewReader(body)))
		return rec
	}

	body := `{"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com","password":"secret123"}`
	rec := do(http.MethodPost, "/customers", body)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret123")

	var created map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	id, _ := created["id"].(string)
	require.NotEmpty(t, id)

	rec = do(http.MethodPost, "/customers", body)
	assert.Equal(t, http.StatusConflict, rec.Code)

	rec = do(http.MethodPost, "/customers", `{"firstName":"Ada"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(http.MethodGet, "/customers/"+id, "")
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = do(http.MethodGet, "/customers/C-missing", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)

	var list []map[string]any
	rec = do(http.MethodGet, "/customers", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	assert.Len(t, list, 1)
}
