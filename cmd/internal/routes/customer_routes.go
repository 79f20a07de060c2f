package routes

import (
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type CustomerService interface {
	GetCustomers(ctx context.Context) ([]*service.CustomerResponse, apierror.ErrorResponse)
	GetCustomer(ctx context.Context, id int) (*service.CustomerResponse, apierror.ErrorResponse)
	CreateCustomer(ctx context.Context, req *service.CustomerRequest, actor string) (*service.CustomerResponse, apierror.ErrorResponse)
	UpdateCustomer(ctx context.Context, id int, req *service.CustomerRequest, actor string) (*service.CustomerResponse, apierror.ErrorResponse)
	DeleteCustomer(ctx context.Context, id int) apierror.ErrorResponse
}

type DefaultCustomerRoute struct {
	CustomerService CustomerService
}

func NewCustomerDefault(customerService CustomerService) *DefaultCustomerRoute {
	return &DefaultCustomerRoute{CustomerService: customerService}
}

func (r *DefaultCustomerRoute) GetCustomers(c echo.Context) error {
	customers, apierr := r.CustomerService.GetCustomers(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"customers": customers}
	return c.JSON(http.StatusOK, &resp)
}

func (r *DefaultCustomerRoute) GetCustomer(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	customer, apierr := r.CustomerService.GetCustomer(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, customer)
}

func (r *DefaultCustomerRoute) CreateCustomer(c echo.Context) error {
	var req service.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	customer, apierr := r.CustomerService.CreateCustomer(c.Request().Context(), &req, data.Username)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, customer)
}

func (r *DefaultCustomerRoute) UpdateCustomer(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.CustomerRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	customer, apierr := r.CustomerService.UpdateCustomer(c.Request().Context(), id, &req, data.Username)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, customer)
}

func (r *DefaultCustomerRoute) DeleteCustomer(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	serr := r.CustomerService.DeleteCustomer(c.Request().Context(), id)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}
