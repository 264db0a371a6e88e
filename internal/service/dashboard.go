package service

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// StatsRepository is the cross-entity query surface for dashboard and reports.
type StatsRepository interface {
	RecentActivity(ctx context.Context, limit int) ([]model.Activity, error)
	ProjectStatusCounts(ctx context.Context) ([]model.StatusCount, error)
	QuoteStatusCounts(ctx context.Context) ([]model.StatusCount, error)
	MonthlyRevenue(ctx context.Context, months int) ([]model.MonthlyRevenue, error)
	UpcomingDeadlines(ctx context.Context, limit int) ([]model.Deadline, error)
	TopClients(ctx context.Context, limit int, period model.ReportPeriod) ([]model.TopClient, error)
	FinancialTotals(ctx context.Context, period model.ReportPeriod) (*model.FinancialReport, error)
}

// DashboardServiceOptions groups dependencies for DashboardService.
type DashboardServiceOptions struct {
	Clients   ClientRepository
	Projects  ProjectRepository
	Quotes    QuoteRepository
	Materials MaterialRepository
	Stats     StatsRepository
}

// DashboardService aggregates the landing-page numbers. Independent queries
// run concurrently.
type DashboardService struct {
	clients   ClientRepository
	projects  ProjectRepository
	quotes    QuoteRepository
	materials MaterialRepository
	stats     StatsRepository
}

// NewDashboardService constructs a new DashboardService.
func NewDashboardService(opts DashboardServiceOptions) *DashboardService {
	return &DashboardService{
		clients:   opts.Clients,
		projects:  opts.Projects,
		quotes:    opts.Quotes,
		materials: opts.Materials,
		stats:     opts.Stats,
	}
}

// Stats returns the combined headline statistics.
func (s *DashboardService) Stats(ctx context.Context) (*model.DashboardStats, error) {
	var out model.DashboardStats
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		stats, err := s.clients.Stats(gctx)
		if err != nil {
			return err
		}
		out.Clients = *stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.projects.Stats(gctx)
		if err != nil {
			return err
		}
		out.Projects = *stats
		return nil
	})
	g.Go(func() error {
		stats, err := s.quotes.Stats(gctx)
		if err != nil {
			return err
		}
		out.Quotes = *stats
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return &out, nil
}

// RecentActivity returns the latest activity feed entries.
func (s *DashboardService) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	feed, err := s.stats.RecentActivity(ctx, limit)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return feed, nil
}

// ProjectStatusCounts groups projects by status.
func (s *DashboardService) ProjectStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	counts, err := s.stats.ProjectStatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return counts, nil
}

// QuoteStatusCounts groups quotes by status.
func (s *DashboardService) QuoteStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	counts, err := s.stats.QuoteStatusCounts(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return counts, nil
}

// MonthlyRevenue returns accepted-quote value per month.
func (s *DashboardService) MonthlyRevenue(ctx context.Context, months int) ([]model.MonthlyRevenue, error) {
	revenue, err := s.stats.MonthlyRevenue(ctx, months)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return revenue, nil
}

// UpcomingDeadlines returns the nearest unfinished project end dates.
func (s *DashboardService) UpcomingDeadlines(ctx context.Context, limit int) ([]model.Deadline, error) {
	deadlines, err := s.stats.UpcomingDeadlines(ctx, limit)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return deadlines, nil
}

// TopClients ranks clients by accepted quote value.
func (s *DashboardService) TopClients(ctx context.Context, limit int) ([]model.TopClient, error) {
	top, err := s.stats.TopClients(ctx, limit, model.ReportPeriod{})
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return top, nil
}
