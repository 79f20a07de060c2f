package routes

import (
	"clientschedule/cmd/internal/service"
	"clientschedule/cmd/internal/utils/apierror"
	"context"
	"net/http"

	"github.com/labstack/echo/v4"
)

type DirectoryService interface {
	GetContacts(ctx context.Context) ([]*service.ContactResponse, apierror.ErrorResponse)
	GetCountries(ctx context.Context) ([]*service.CountryResponse, apierror.ErrorResponse)
	GetDivisions(ctx context.Context, countryID int) ([]*service.DivisionResponse, apierror.ErrorResponse)
}

type ReportService interface {
	ByMonthAndType(ctx context.Context) (*service.ReportResponse, apierror.ErrorResponse)
	ByWeekdayAndType(ctx context.Context) (*service.ReportResponse, apierror.ErrorResponse)
}

type DefaultDirectoryRoute struct {
	DirectoryService DirectoryService
	ReportService    ReportService
}

func NewDirectoryDefault(directoryService DirectoryService, reportService ReportService) *DefaultDirectoryRoute {
	return &DefaultDirectoryRoute{DirectoryService: directoryService, ReportService: reportService}
}

func (d *DefaultDirectoryRoute) GetContacts(c echo.Context) error {
	contacts, apierr := d.DirectoryService.GetContacts(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"contacts": contacts}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDirectoryRoute) GetCountries(c echo.Context) error {
	countries, apierr := d.DirectoryService.GetCountries(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"countries": countries}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDirectoryRoute) GetDivisions(c echo.Context) error {
	countryID, apierr := pathID(c, "id")
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	divisions, apierr := d.DirectoryService.GetDivisions(c.Request().Context(), countryID)
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}

	resp := echo.Map{"divisions": divisions}
	return c.JSON(http.StatusOK, &resp)
}

func (d *DefaultDirectoryRoute) GetMonthTypeReport(c echo.Context) error {
	report, apierr := d.ReportService.ByMonthAndType(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, report)
}

func (d *DefaultDirectoryRoute) GetWeekdayTypeReport(c echo.Context) error {
	report, apierr := d.ReportService.ByWeekdayAndType(c.Request().Context())
	if apierr != nil {
		return c.JSON(apierr.Code(), apierr)
	}
	return c.JSON(http.StatusOK, report)
}
