package data

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// ProjectRepo provides database operations for projects.
type ProjectRepo struct {
	pool *pgxpool.Pool
}

// NewProjectRepo creates a new ProjectRepo.
func NewProjectRepo(pool *pgxpool.Pool) *ProjectRepo {
	return &ProjectRepo{pool: pool}
}

const projectColumns = `id, code, name, description, client_id, status, priority,
	project_type, address, city, state, zip_code, start_date, end_date,
	budget, estimated_cost, actual_cost, progress, notes, created_at, updated_at`

// Create inserts a new project with the given generated code.
func (r *ProjectRepo) Create(ctx context.Context, code string, req *model.CreateProjectRequest) (*model.Project, error) {
	if req == nil {
		return nil, errors.New("create project request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO projects (code, name, description, client_id, status, priority,
			project_type, address, city, state, zip_code, start_date, end_date,
			budget, estimated_cost, actual_cost, progress, notes)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, 0, 0, $16)
		RETURNING `+projectColumns,
		code,
		strings.TrimSpace(req.Name),
		req.Description,
		req.ClientID,
		req.Status,
		req.Priority,
		req.ProjectType,
		req.Address, req.City, req.State, req.ZipCode,
		req.StartDate, req.EndDate,
		req.Budget, req.EstimatedCost,
		req.Notes,
	)
	if err != nil {
		return nil, mapProjectWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		return nil, mapProjectWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a project by ID.
func (r *ProjectRepo) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("get project by id: %w", err)
	}
	return &out, nil
}

// List retrieves projects with filtering and pagination.
func (r *ProjectRepo) List(ctx context.Context, opts model.ProjectsListOptions) ([]*model.Project, int64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where, args := buildProjectFilter(opts)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"status":     "status",
		"end_date":   "end_date",
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM projects`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count projects: %w", err)
	}

	query := `SELECT ` + projectColumns + ` FROM projects` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortCol, sortDir, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}
	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		return nil, 0, fmt.Errorf("list projects: %w", err)
	}

	res := make([]*model.Project, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of a project.
func (r *ProjectRepo) Update(ctx context.Context, id int64, req model.UpdateProjectRequest) (*model.Project, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := buildProjectUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE projects SET " + setClause +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + projectColumns

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapProjectWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, mapProjectWriteErr(err)
	}
	return &out, nil
}

// SetProgress updates only the progress percentage of a project.
func (r *ProjectRepo) SetProgress(ctx context.Context, id int64, progress int) (*model.Project, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE projects SET progress = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+projectColumns, progress, id)
	if err != nil {
		return nil, fmt.Errorf("set project progress: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProjectNotFound
		}
		return nil, fmt.Errorf("set project progress: %w", err)
	}
	return &out, nil
}

// ListByClient retrieves all projects for a client, newest first.
func (r *ProjectRepo) ListByClient(ctx context.Context, clientID int64) ([]*model.Project, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+projectColumns+` FROM projects WHERE client_id = $1 ORDER BY created_at DESC`,
		clientID)
	if err != nil {
		return nil, fmt.Errorf("list projects by client: %w", err)
	}
	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Project])
	if err != nil {
		return nil, fmt.Errorf("list projects by client: %w", err)
	}
	res := make([]*model.Project, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, nil
}

// Delete deletes a project by ID.
func (r *ProjectRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete project: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats computes aggregate project statistics.
func (r *ProjectRepo) Stats(ctx context.Context) (*model.ProjectStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			count(*)                                           AS total_projects,
			count(*) FILTER (WHERE status = 'in_progress')     AS active_projects,
			count(*) FILTER (WHERE status = 'completed')       AS completed_projects,
			count(*) FILTER (WHERE status = 'planning')        AS planning_projects,
			COALESCE(sum(budget), 0)                           AS total_budget,
			COALESCE(sum(actual_cost), 0)                      AS total_actual_cost,
			COALESCE(avg(progress), 0)                         AS average_progress
		FROM projects`)
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ProjectStats])
	if err != nil {
		return nil, fmt.Errorf("project stats: %w", err)
	}
	return &out, nil
}

// --- helpers ---

func buildProjectFilter(opts model.ProjectsListOptions) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		idx := nextIdx()
		conds = append(conds, fmt.Sprintf("(code ILIKE $%d OR name ILIKE $%d)", idx, idx))
		args = append(args, q)
	}
	if opts.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *opts.Status)
	}
	if opts.Priority != nil {
		conds = append(conds, fmt.Sprintf("priority = $%d", nextIdx()))
		args = append(args, *opts.Priority)
	}
	if opts.ClientID != nil {
		conds = append(conds, fmt.Sprintf("client_id = $%d", nextIdx()))
		args = append(args, *opts.ClientID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildProjectUpdateClause(req model.UpdateProjectRequest) (string, []any) {
	setParts := make([]string, 0, 16)
	args := make([]any, 0, 16)
	nextIdx := func() int { return len(args) + 1 }

	add := func(col string, v any) {
		setParts = append(setParts, fmt.Sprintf("%s = $%d", col, nextIdx()))
		args = append(args, v)
	}

	if req.Name != nil {
		add("name", strings.TrimSpace(*req.Name))
	}
	if req.Description != nil {
		add("description", *req.Description)
	}
	if req.Status != nil {
		add("status", *req.Status)
	}
	if req.Priority != nil {
		add("priority", *req.Priority)
	}
	if req.ProjectType != nil {
		add("project_type", *req.ProjectType)
	}
	if req.Address != nil {
		add("address", *req.Address)
	}
	if req.City != nil {
		add("city", *req.City)
	}
	if req.State != nil {
		add("state", *req.State)
	}
	if req.ZipCode != nil {
		add("zip_code", *req.ZipCode)
	}
	if req.StartDate != nil {
		add("start_date", *req.StartDate)
	}
	if req.EndDate != nil {
		add("end_date", *req.EndDate)
	}
	if req.Budget != nil {
		add("budget", *req.Budget)
	}
	if req.EstimatedCost != nil {
		add("estimated_cost", *req.EstimatedCost)
	}
	if req.ActualCost != nil {
		add("actual_cost", *req.ActualCost)
	}
	if req.Progress != nil {
		add("progress", *req.Progress)
	}
	if req.Notes != nil {
		add("notes", *req.Notes)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, "updated_at = now()")
	return strings.Join(setParts, ", "), args
}

func mapProjectWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrProjectCodeExists
	}
	return err
}
