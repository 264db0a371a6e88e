package service

import (
	"context"
	"fmt"
	"time"

	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// ReportServiceOptions groups dependencies for ReportService.
type ReportServiceOptions struct {
	Clients  ClientRepository
	Projects ProjectRepository
	Quotes   QuoteRepository
	Stats    StatsRepository
}

// ReportService builds period-bounded summary reports.
type ReportService struct {
	clients  ClientRepository
	projects ProjectRepository
	quotes   QuoteRepository
	stats    StatsRepository
}

// NewReportService constructs a new ReportService.
func NewReportService(opts ReportServiceOptions) *ReportService {
	return &ReportService{
		clients:  opts.Clients,
		projects: opts.Projects,
		quotes:   opts.Quotes,
		stats:    opts.Stats,
	}
}

// Financial summarizes money movement over a period.
func (s *ReportService) Financial(ctx context.Context, period model.ReportPeriod) (*model.FinancialReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	rep, err := s.stats.FinancialTotals(ctx, period)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	rep.Period = periodLabel(period)

	rep.Monthly, err = s.stats.MonthlyRevenue(ctx, 12)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return rep, nil
}

// Clients summarizes client activity over a period.
func (s *ReportService) Clients(ctx context.Context, period model.ReportPeriod) (*model.ClientsReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	stats, err := s.clients.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	top, err := s.stats.TopClients(ctx, 10, period)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &model.ClientsReport{
		Period: periodLabel(period),
		Stats:  *stats,
		Top:    top,
	}, nil
}

// Projects summarizes the project portfolio.
func (s *ReportService) Projects(ctx context.Context, period model.ReportPeriod) (*model.ProjectsReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	stats, err := s.projects.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	byStatus, err := s.stats.ProjectStatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	deadlines, err := s.stats.UpcomingDeadlines(ctx, 10)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &model.ProjectsReport{
		Period:    periodLabel(period),
		Stats:     *stats,
		ByStatus:  byStatus,
		Deadlines: deadlines,
	}, nil
}

// Quotes summarizes the quote pipeline.
func (s *ReportService) Quotes(ctx context.Context, period model.ReportPeriod) (*model.QuotesReport, error) {
	if err := validatePeriod(period); err != nil {
		return nil, err
	}

	stats, err := s.quotes.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	byStatus, err := s.stats.QuoteStatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &model.QuotesReport{
		Period:   periodLabel(period),
		Stats:    *stats,
		ByStatus: byStatus,
	}, nil
}

func validatePeriod(p model.ReportPeriod) error {
	if !p.From.IsZero() && !p.To.IsZero() && p.To.Before(p.From) {
		return apperrors.ValidationField("to", "period end cannot precede period start")
	}
	return nil
}

func periodLabel(p model.ReportPeriod) string {
	switch {
	case p.From.IsZero() && p.To.IsZero():
		return "all time"
	case p.To.IsZero():
		return fmt.Sprintf("from %s", p.From.Format(time.DateOnly))
	case p.From.IsZero():
		return fmt.Sprintf("until %s", p.To.Format(time.DateOnly))
	default:
		return fmt.Sprintf("%s to %s", p.From.Format(time.DateOnly), p.To.Format(time.DateOnly))
	}
}
