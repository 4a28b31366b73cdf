package customers

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/store"
)

func newService() *Service {
	s := NewService(store.New().Customers, logger.Discard())
	s.Cost = bcrypt.MinCost
	return s
}

func request(email string) models.CustomerRequest {
	return models.CustomerRequest{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     email,
		Password:  "secret123",
	}
}

func TestCreateCustomer_HashesPasswordAndNormalizesEmail(t *testing.T) {
	s := newService()

	customer, err := s.CreateCustomer(request("  Ada@Example.COM "))
	require.NoError(t, err)

	assert.Equal(t, "ada@example.com", customer.Email)
	assert.NotEqual(t, "secret123", customer.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte("secret123")))

	found, ok := s.FindByEmail("ADA@example.com")
	require.True(t, ok)
	assert.Equal(t, customer.ID, found.ID)
}

func TestCreateCustomer_DuplicateEmailIsConflict(t *testing.T) {
	s := newService()

	_, err := s.CreateCustomer(request("ada@example.com"))
	require.NoError(t, err)

	_, err = s.CreateCustomer(request("ADA@example.com"))
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Len(t, s.ListCustomers(), 1)
}

func TestCreateCustomer_ConcurrentSameEmail(t *testing.T) {
	s := newService()

	const n = 10
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.CreateCustomer(request("race@example.com"))
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	created := 0
	for err := range errs {
		if err == nil {
			created++
			continue
		}
		assert.ErrorIs(t, err, apperrors.ErrConflict)
	}
	assert.Equal(t, 1, created)
}

func TestCreateCustomer_Validation(t *testing.T) {
	s := newService()

	cases := map[string]func(*models.CustomerRequest){
		"missing first name": func(r *models.CustomerRequest) { r.FirstName = "" },
		"bad email":          func(r *models.CustomerRequest) { r.Email = "nope" },
		"short password":     func(r *models.CustomerRequest) { r.Password = "abc" },
		"bad birth date":     func(r *models.CustomerRequest) { r.DateOfBirth = "01/02/1990" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			req := request("valid@example.com")
			mutate(&req)
			_, err := s.CreateCustomer(req)
			assert.ErrorIs(t, err, apperrors.ErrInvalidArgument)
		})
	}
	assert.Empty(t, s.ListCustomers())
}

func TestGetCustomer(t *testing.T) {
	s := newService()

	created, err := s.CreateCustomer(request("ada@example.com"))
	require.NoError(t, err)

	got, err := s.GetCustomer(created.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got)

	_, err = s.GetCustomer("C-missing")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
