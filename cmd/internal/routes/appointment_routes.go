package routes

import (
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

type AppointmentService interface {
	GetAppointments(ctx context.Context, timeframe string) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	GetAppointment(ctx context.Context, id int) (*service.AppointmentResponse, apierror.ErrorResponse)
	GetContactAppointments(ctx context.Context, contactID int) ([]*service.AppointmentResponse, apierror.ErrorResponse)
	CreateAppointment(ctx context.Context, req *service.AppointmentRequest, actor string) (*service.AppointmentResponse, apierror.ErrorResponse)
	UpdateAppointment(ctx context.Context, id int, req *service.AppointmentRequest, actor string) (*service.AppointmentResponse, apierror.ErrorResponse)
	DeleteAppointment(ctx context.Context, id int) apierror.ErrorResponse
	UpcomingForUser(ctx context.Context, userID int, window time.Duration) ([]*service.AppointmentResponse, apierror.ErrorResponse)
}

type DefaultAppointmentRoute struct {
	AppointmentService AppointmentService
}

func NewAppointmentDefault(apptService AppointmentService) *DefaultAppointmentRoute {
	return &DefaultAppointmentRoute{AppointmentService: apptService}
}

func (a *DefaultAppointmentRoute) GetAppointments(c echo.Context) error {
	appts, apierr := a.AppointmentService.GetAppointments(c.Request().Context(), c.QueryParam("range"))
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetAppointment(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	appt, apierr := a.AppointmentService.GetAppointment(c.Request().Context(), id)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) GetContactAppointments(c echo.Context) error {
	contactID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	appts, apierr := a.AppointmentService.GetContactAppointments(c.Request().Context(), contactID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) GetUpcoming(c echo.Context) error {
	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	userID, err := data.UserID()
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appts, apierr := a.AppointmentService.UpcomingForUser(c.Request().Context(), userID, service.UpcomingWindow)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"appointments": appts}
	return c.JSON(http.StatusOK, &resp)
}

func (a *DefaultAppointmentRoute) CreateAppointment(c echo.Context) error {
	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.CreateAppointment(c.Request().Context(), &req, data.Username)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusCreated, appt)
}

func (a *DefaultAppointmentRoute) UpdateAppointment(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	var req service.AppointmentRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, apierror.MalformedBodyError)
	}

	data, err := utils.ParseTokenDataCtx(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, apierror.InvalidAuthTokenError)
	}

	appt, apierr := a.AppointmentService.UpdateAppointment(c.Request().Context(), id, &req, data.Username)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, appt)
}

func (a *DefaultAppointmentRoute) DeleteAppointment(c echo.Context) error {
	id, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	serr := a.AppointmentService.DeleteAppointment(c.Request().Context(), id)
	if serr != nil {
		return c.JSON(serr.Code(), serr)
	}
	return c.NoContent(http.StatusOK)
}

func pathID(c echo.Context, name string) (int, apierror.ErrorResponse) {
	raw := c.Param(name)
	if raw == "" {
		return 0, apierror.NewMissingParamError(name)
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apierror.NewInvalidParamTypeError(name, "int32")
	}
	return id, nil
}
