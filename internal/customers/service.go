package customers

import (
	"fmt"
	"slices"
	"strings"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"tour-booking/internal/apperrors"
	"tour-booking/internal/logger"
	"tour-booking/internal/models"
	"tour-booking/internal/store"
	"tour-booking/internal/validation"
)

type Service struct {
	Customers *store.Collection[models.Customer]
	Logger    *logger.Logger
	// Cost is the bcrypt work factor used for new password hashes.
	Cost int

	// mu covers the email uniqueness check and the insert that follows it.
	mu sync.Mutex
}

func NewService(customers *store.Collection[models.Customer], log *logger.Logger) *Service {
	return &Service{Customers: customers, Logger: log, Cost: bcrypt.DefaultCost}
}

func (s *Service) CreateCustomer(req models.CustomerRequest) (models.Customer, error) {
	if err := validation.Struct(req); err != nil {
		return models.Customer{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.Cost)
	if err != nil {
		return models.Customer{}, fmt.Errorf("hash password: %w", err)
	}
	email := strings.ToLower(strings.TrimSpace(req.Email))

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, found := s.FindByEmail(email); found {
		s.Logger.LogSecurity("DUPLICATE_EMAIL", fmt.Sprintf("Customer creation rejected for %s", email))
		return models.Customer{}, fmt.Errorf("email %s already in use: %w", email, apperrors.ErrConflict)
	}

	customer, err := s.Customers.Create(models.Customer{
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		DateOfBirth:  req.DateOfBirth,
		Address:      req.Address,
		Phone:        req.Phone,
		Email:        email,
		PasswordHash: string(hash),
	})
	if err != nil {
		return models.Customer{}, err
	}
	s.Logger.Info("CUSTOMERS", fmt.Sprintf("Customer %s created", customer.ID))
	return customer, nil
}

// FindByEmail matches case-insensitively.
func (s *Service) FindByEmail(email string) (models.Customer, bool) {
	for c := range s.Customers.Query(func(c models.Customer) bool {
		return strings.EqualFold(c.Email, strings.TrimSpace(email))
	}) {
		return c, true
	}
	return models.Customer{}, false
}

func (s *Service) GetCustomer(id string) (models.Customer, error) {
	return s.Customers.GetByID(id)
}

func (s *Service) ListCustomers() []models.Customer {
	return slices.AppendSeq(make([]models.Customer, 0), s.Customers.Query(nil))
}
