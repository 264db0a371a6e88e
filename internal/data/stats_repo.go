package data

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raborimet/crm-api/internal/domain/model"
)

// StatsRepo runs the cross-entity queries behind the dashboard and reports.
type StatsRepo struct {
	pool *pgxpool.Pool
}

// NewStatsRepo creates a new StatsRepo.
func NewStatsRepo(pool *pgxpool.Pool) *StatsRepo {
	return &StatsRepo{pool: pool}
}

// RecentActivity returns the latest feed entries across clients, projects,
// and quotes, newest first.
func (r *StatsRepo) RecentActivity(ctx context.Context, limit int) ([]model.Activity, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := r.pool.Query(ctx, `
		SELECT kind, subject, id, occurred_at FROM (
			SELECT 'client_created'::text AS kind, name AS subject, id, created_at AS occurred_at
			FROM clients
			UNION ALL
			SELECT 'project_created', name, id, created_at FROM projects
			UNION ALL
			SELECT 'quote_created', title, id, created_at FROM quotes
			UNION ALL
			SELECT 'quote_sent', title, id, updated_at FROM quotes WHERE status = 'sent'
			UNION ALL
			SELECT 'quote_accepted', title, id, updated_at FROM quotes WHERE status = 'accepted'
		) feed
		ORDER BY occurred_at DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Activity])
	if err != nil {
		return nil, fmt.Errorf("recent activity: %w", err)
	}
	return out, nil
}

// ProjectStatusCounts groups projects by status.
func (r *StatsRepo) ProjectStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	return r.statusCounts(ctx, "projects")
}

// QuoteStatusCounts groups quotes by status.
func (r *StatsRepo) QuoteStatusCounts(ctx context.Context) ([]model.StatusCount, error) {
	return r.statusCounts(ctx, "quotes")
}

func (r *StatsRepo) statusCounts(ctx context.Context, table string) ([]model.StatusCount, error) {
	// table is always one of our own literals, never caller input.
	rows, err := r.pool.Query(ctx,
		`SELECT status::text AS status, count(*) AS count FROM `+table+` GROUP BY status ORDER BY count DESC`)
	if err != nil {
		return nil, fmt.Errorf("status counts for %s: %w", table, err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.StatusCount])
	if err != nil {
		return nil, fmt.Errorf("status counts for %s: %w", table, err)
	}
	return out, nil
}

// MonthlyRevenue returns accepted-quote value per month for the last n months.
func (r *StatsRepo) MonthlyRevenue(ctx context.Context, months int) ([]model.MonthlyRevenue, error) {
	if months <= 0 {
		months = 12
	}
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('month', updated_at) AS month,
		       COALESCE(sum(total), 0)         AS revenue
		FROM quotes
		WHERE status = 'accepted'
		  AND updated_at >= date_trunc('month', now()) - ($1 || ' months')::interval
		GROUP BY 1
		ORDER BY 1`, months)
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.MonthlyRevenue])
	if err != nil {
		return nil, fmt.Errorf("monthly revenue: %w", err)
	}
	return out, nil
}

// UpcomingDeadlines returns unfinished projects with the nearest end dates.
func (r *StatsRepo) UpcomingDeadlines(ctx context.Context, limit int) ([]model.Deadline, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := r.pool.Query(ctx, `
		SELECT id AS project_id, name AS project_name, end_date, progress
		FROM projects
		WHERE end_date IS NOT NULL
		  AND end_date >= now()
		  AND status IN ('planning', 'in_progress')
		ORDER BY end_date
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("upcoming deadlines: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Deadline])
	if err != nil {
		return nil, fmt.Errorf("upcoming deadlines: %w", err)
	}
	return out, nil
}

// TopClients ranks clients by accepted quote value.
func (r *StatsRepo) TopClients(ctx context.Context, limit int, period model.ReportPeriod) ([]model.TopClient, error) {
	if limit <= 0 {
		limit = 5
	}
	where, args := periodFilter("q.created_at", period)
	args = append(args, limit)

	rows, err := r.pool.Query(ctx, `
		SELECT c.id            AS client_id,
		       c.name          AS client_name,
		       count(q.id)     AS quote_count,
		       COALESCE(sum(q.total) FILTER (WHERE q.status = 'accepted'), 0) AS total_value
		FROM clients c
		JOIN quotes q ON q.client_id = c.id`+where+`
		GROUP BY c.id, c.name
		ORDER BY total_value DESC, quote_count DESC
		LIMIT $`+fmt.Sprint(len(args)), args...)
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.TopClient])
	if err != nil {
		return nil, fmt.Errorf("top clients: %w", err)
	}
	return out, nil
}

// FinancialTotals sums quoted, accepted, budgeted, and actual amounts over a
// period.
func (r *StatsRepo) FinancialTotals(ctx context.Context, period model.ReportPeriod) (*model.FinancialReport, error) {
	quoteWhere, quoteArgs := periodFilter("created_at", period)
	var rep model.FinancialReport

	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(total), 0),
		       COALESCE(sum(total) FILTER (WHERE status = 'accepted'), 0)
		FROM quotes`+quoteWhere, quoteArgs...).
		Scan(&rep.QuotedValue, &rep.AcceptedValue); err != nil {
		return nil, fmt.Errorf("financial totals (quotes): %w", err)
	}

	projWhere, projArgs := periodFilter("created_at", period)
	if err := r.pool.QueryRow(ctx, `
		SELECT COALESCE(sum(budget), 0), COALESCE(sum(actual_cost), 0)
		FROM projects`+projWhere, projArgs...).
		Scan(&rep.ProjectBudget, &rep.ActualCost); err != nil {
		return nil, fmt.Errorf("financial totals (projects): %w", err)
	}
	return &rep, nil
}

func periodFilter(col string, period model.ReportPeriod) (string, []any) {
	conds := ""
	args := make([]any, 0, 2)
	if !period.From.IsZero() {
		args = append(args, period.From)
		conds = fmt.Sprintf(" WHERE %s >= $%d", col, len(args))
	}
	if !period.To.IsZero() {
		args = append(args, period.To)
		kw := " WHERE"
		if conds != "" {
			kw = " AND"
		}
		conds += fmt.Sprintf("%s %s <= $%d", kw, col, len(args))
	}
	return conds, args
}
