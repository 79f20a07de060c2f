package service

import (
	"clientschedule/cmd/internal/domain/entity"
	"clientschedule/cmd/internal/lookup"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/gommon/log"
)

type CustomerRepository interface {
	FindByID(ctx context.Context, id int) (*entity.Customer, error)
	FindAll(ctx context.Context) ([]*entity.Customer, error)
	Save(ctx context.Context, customer *entity.Customer) error
	Delete(ctx context.Context, customer *entity.Customer) error
}

type DivisionFinder interface {
	FindByID(ctx context.Context, id int) (*entity.Division, error)
}

type CustomerRequest struct {
	Name        string `json:"name" validate:"required,max=50"`
	Address     string `json:"address" validate:"required,max=100"`
	PostalCode  string `json:"postal_code" validate:"required,max=50"`
	PhoneNumber string `json:"phone_number" validate:"required,max=50,phone"`
	DivisionID  *int   `json:"division_id" validate:"required"`
}

type CustomerResponse struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Address     string `json:"address"`
	PostalCode  string `json:"postal_code"`
	PhoneNumber string `json:"phone_number"`
	DivisionID  int    `json:"division_id"`
	CreatedAt   string `json:"created_at"`
	UpdatedAt   string `json:"updated_at"`
	CreatedBy   string `json:"created_by"`
	UpdatedBy   string `json:"updated_by"`
}

type DefaultCustomerService struct {
	CustomerRepo CustomerRepository
	DivisionRepo DivisionFinder
	Validate     *validator.Validate

	// Customers is notified when a customer changes so that appointment
	// responses do not show stale names.
	Customers *lookup.Resolver[entity.Customer]
}

func NewCustomerService(customerRepo CustomerRepository, divisionRepo DivisionFinder, validate *validator.Validate, customers *lookup.Resolver[entity.Customer]) *DefaultCustomerService {
	return &DefaultCustomerService{CustomerRepo: customerRepo, DivisionRepo: divisionRepo, Validate: validate, Customers: customers}
}

func (s *DefaultCustomerService) GetCustomers(ctx context.Context) ([]*CustomerResponse, apierror.ErrorResponse) {
	customers, err := s.CustomerRepo.FindAll(ctx)
	if err != nil {
		log.Errorf("failed to fetch all customers: %v", err)
		return nil, apierror.InternalServerError
	}

	resp := make([]*CustomerResponse, len(customers))
	for i, customer := range customers {
		resp[i] = toCustomerResponse(customer)
	}
	return resp, nil
}

func (s *DefaultCustomerService) GetCustomer(ctx context.Context, id int) (*CustomerResponse, apierror.ErrorResponse) {
	customer, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch customer by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if customer == nil {
		return nil, apierror.NotFoundError
	}
	return toCustomerResponse(customer), nil
}

func (s *DefaultCustomerService) CreateCustomer(ctx context.Context, req *CustomerRequest, actor string) (*CustomerResponse, apierror.ErrorResponse) {
	if apierr := s.checkRequest(ctx, req); apierr != nil {
		return nil, apierr
	}

	now := utils.NowUTC()
	customer := &entity.Customer{CreatedAt: now, CreatedBy: actorOrDefault(actor)}
	applyCustomer(customer, req, now, actor)

	err := s.CustomerRepo.Save(ctx, customer)
	if err != nil {
		log.Errorf("failed to save customer: %v", err)
		return nil, apierror.InternalServerError
	}
	return toCustomerResponse(customer), nil
}

func (s *DefaultCustomerService) UpdateCustomer(ctx context.Context, id int, req *CustomerRequest, actor string) (*CustomerResponse, apierror.ErrorResponse) {
	customer, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch customer by id %d: %v", id, err)
		return nil, apierror.InternalServerError
	}
	if customer == nil {
		return nil, apierror.NotFoundError
	}

	if apierr := s.checkRequest(ctx, req); apierr != nil {
		return nil, apierr
	}

	applyCustomer(customer, req, utils.NowUTC(), actor)
	err = s.CustomerRepo.Save(ctx, customer)
	if err != nil {
		log.Errorf("failed to update customer %d: %v", id, err)
		return nil, apierror.InternalServerError
	}

	s.Customers.Forget(ctx, id)
	return toCustomerResponse(customer), nil
}

// DeleteCustomer removes the customer and every appointment booked for it.
func (s *DefaultCustomerService) DeleteCustomer(ctx context.Context, id int) apierror.ErrorResponse {
	customer, err := s.CustomerRepo.FindByID(ctx, id)
	if err != nil {
		log.Errorf("failed to fetch customer by id %d: %v", id, err)
		return apierror.InternalServerError
	}
	if customer == nil {
		return apierror.NotFoundError
	}

	err = s.CustomerRepo.Delete(ctx, customer)
	if err != nil {
		log.Errorf("failed to delete customer %d: %v", id, err)
		return apierror.InternalServerError
	}

	s.Customers.Forget(ctx, id)
	log.Infof("customer %d (%s) deleted along with its appointments", id, customer.Name)
	return nil
}

func (s *DefaultCustomerService) checkRequest(ctx context.Context, req *CustomerRequest) apierror.ErrorResponse {
	utils.Sanitize(req)
	if err := s.Validate.Struct(req); err != nil {
		return apierror.FromValidationError(err)
	}

	division, err := s.DivisionRepo.FindByID(ctx, *req.DivisionID)
	if err != nil {
		log.Errorf("failed to fetch division by id %d: %v", *req.DivisionID, err)
		return apierror.InternalServerError
	}
	if division == nil {
		return apierror.DivisionNotFoundError
	}
	return nil
}

func applyCustomer(customer *entity.Customer, req *CustomerRequest, now int64, actor string) {
	customer.Name = req.Name
	customer.Address = req.Address
	customer.PostalCode = req.PostalCode
	customer.PhoneNumber = req.PhoneNumber
	customer.DivisionID = *req.DivisionID
	customer.UpdatedAt = now
	customer.UpdatedBy = actorOrDefault(actor)
}

func toCustomerResponse(customer *entity.Customer) *CustomerResponse {
	return &CustomerResponse{
		ID:          customer.ID,
		Name:        customer.Name,
		Address:     customer.Address,
		PostalCode:  customer.PostalCode,
		PhoneNumber: customer.PhoneNumber,
		DivisionID:  customer.DivisionID,
		CreatedAt:   utils.FormatEpoch(customer.CreatedAt),
		UpdatedAt:   utils.FormatEpoch(customer.UpdatedAt),
		CreatedBy:   customer.CreatedBy,
		UpdatedBy:   customer.UpdatedBy,
	}
}
