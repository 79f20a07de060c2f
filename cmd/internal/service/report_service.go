package service

import (
	"clientschedule/cmd/internal/domain/sqlite/repository"
	"clientschedule/cmd/internal/utils/apierror"
	"context"

	"github.com/labstack/gommon/log"
)

type ReportRepository interface {
	CountByMonthAndType(ctx context.Context) ([]*repository.TypeCount, error)
	CountByWeekdayAndType(ctx context.Context) ([]*repository.TypeCount, error)
}

type ReportRow struct {
	Period string `json:"period"`
	Type   string `json:"type"`
	Count  int64  `json:"count"`
}

type ReportResponse struct {
	Title string       `json:"title"`
	Rows  []*ReportRow `json:"rows"`
	Total int64        `json:"total"`
}

type DefaultReportService struct {
	ReportRepo ReportRepository
}

func NewReportService(reportRepo ReportRepository) *DefaultReportService {
	return &DefaultReportService{ReportRepo: reportRepo}
}

func (r *DefaultReportService) ByMonthAndType(ctx context.Context) (*ReportResponse, apierror.ErrorResponse) {
	rows, err := r.ReportRepo.CountByMonthAndType(ctx)
	if err != nil {
		log.Errorf("failed to count appointments by month and type: %v", err)
		return nil, apierror.InternalServerError
	}
	return toReport("Appointments by month and type", rows), nil
}

func (r *DefaultReportService) ByWeekdayAndType(ctx context.Context) (*ReportResponse, apierror.ErrorResponse) {
	rows, err := r.ReportRepo.CountByWeekdayAndType(ctx)
	if err != nil {
		log.Errorf("failed to count appointments by weekday and type: %v", err)
		return nil, apierror.InternalServerError
	}
	return toReport("Appointments by weekday and type", rows), nil
}

func toReport(title string, counts []*repository.TypeCount) *ReportResponse {
	report := &ReportResponse{Title: title, Rows: make([]*ReportRow, len(counts))}
	for i, c := range counts {
		report.Rows[i] = &ReportRow{Period: c.Period, Type: c.Type, Count: c.Count}
		report.Total += c.Count
	}
	return report
}
