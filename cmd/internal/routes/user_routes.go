package routes

import (
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

type UserService interface {
	GetUsers(ctx context.Context) ([]*service.UserResponse, apierror.ErrorResponse)
	GetUser(ctx context.Context, rawId, subId string) (*service.UserResponse, apierror.ErrorResponse)
	Login(ctx context.Context, req *service.UserLoginRequest) (*service.UserLoginResponse, apierror.ErrorResponse)
}

type DefaultUserRoute struct {
	UserService UserService
}

func NewUserDefault(userService UserService) *DefaultUserRoute {
	return &DefaultUserRoute{UserService: userService}
}

func (u *DefaultUserRoute) GetUsers(c echo.Context) error {
	users, apierr := u.UserService.GetUsers(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"users": users}
	return c.JSON(http.StatusOK, &resp)
}

func (u *DefaultUserRoute) GetUser(c echo.Context) error {
	rawId := strings.TrimSpace(c.Param("id"))
	if rawId == "" {
		return c.JSON(http.StatusBadRequest, apierror.NewMissingParamError("id"))
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	user, apierr := u.UserService.GetUser(c.Request().Context(), rawId, data.Sub)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, user)
}

func (u *DefaultUserRoute) CreateLogin(c echo.Context) error {
	var req service.UserLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	resp, apierr := u.UserService.Login(c.Request().Context(), &req)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, resp)
}
