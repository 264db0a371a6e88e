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

// MaterialRepo provides database operations for the materials inventory.
type MaterialRepo struct {
	pool *pgxpool.Pool
}

// NewMaterialRepo creates a new MaterialRepo.
func NewMaterialRepo(pool *pgxpool.Pool) *MaterialRepo {
	return &MaterialRepo{pool: pool}
}

const materialColumns = `id, name, description, category, unit, unit_price,
	stock, min_stock, supplier, is_active, created_at, updated_at`

// Create inserts a new material.
func (r *MaterialRepo) Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error) {
	if req == nil {
		return nil, errors.New("create material request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO materials (name, description, category, unit, unit_price,
			stock, min_stock, supplier, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, true)
		RETURNING `+materialColumns,
		strings.TrimSpace(req.Name), req.Description, req.Category, req.Unit,
		req.UnitPrice, req.Stock, req.MinStock, req.Supplier)
	if err != nil {
		return nil, mapMaterialWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
	if err != nil {
		return nil, mapMaterialWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a material by ID.
func (r *MaterialRepo) GetByID(ctx context.Context, id int64) (*model.Material, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+materialColumns+` FROM materials WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get material by id: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, fmt.Errorf("get material by id: %w", err)
	}
	return &out, nil
}

// List retrieves materials with filtering and pagination.
func (r *MaterialRepo) List(ctx context.Context, opts model.MaterialsListOptions) ([]*model.Material, int64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where, args := buildMaterialFilter(opts)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"name":       "name",
		"stock":      "stock",
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM materials`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count materials: %w", err)
	}

	query := `SELECT ` + materialColumns + ` FROM materials` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortCol, sortDir, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}
	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Material])
	if err != nil {
		return nil, 0, fmt.Errorf("list materials: %w", err)
	}

	res := make([]*model.Material, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of a material.
func (r *MaterialRepo) Update(ctx context.Context, id int64, req model.UpdateMaterialRequest) (*model.Material, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := buildMaterialUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE materials SET " + setClause +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + materialColumns

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapMaterialWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrMaterialNotFound
		}
		return nil, mapMaterialWriteErr(err)
	}
	return &out, nil
}

// AdjustStock changes a material's stock level by a signed delta. The update
// is guarded against drawing the stock below zero; a failed guard returns
// ErrInsufficientStock without modifying the row.
func (r *MaterialRepo) AdjustStock(ctx context.Context, id int64, delta float64) (*model.Material, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE materials SET stock = stock + $1, updated_at = now()
		WHERE id = $2 AND stock + $1 >= 0
		RETURNING `+materialColumns, delta, id)
	if err != nil {
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Material])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// Row missing or the guard refused the draw. Disambiguate.
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, getErr
			}
			return nil, ErrInsufficientStock
		}
		return nil, fmt.Errorf("adjust stock: %w", err)
	}
	return &out, nil
}

// Delete deletes a material by ID.
func (r *MaterialRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM materials WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete material: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats computes aggregate inventory statistics.
func (r *MaterialRepo) Stats(ctx context.Context) (*model.MaterialStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			count(*)                                     AS total_materials,
			count(*) FILTER (WHERE stock <= min_stock)   AS low_stock_count,
			COALESCE(sum(stock * unit_price), 0)         AS total_value,
			count(DISTINCT category)                     AS categories
		FROM materials
		WHERE is_active`)
	if err != nil {
		return nil, fmt.Errorf("material stats: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.MaterialStats])
	if err != nil {
		return nil, fmt.Errorf("material stats: %w", err)
	}
	return &out, nil
}

func buildMaterialFilter(opts model.MaterialsListOptions) (string, []any) {
	conds := make([]string, 0, 3)
	args := make([]any, 0, 3)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		idx := nextIdx()
		conds = append(conds, fmt.Sprintf("(name ILIKE $%d OR supplier ILIKE $%d)", idx, idx))
		args = append(args, q)
	}
	if opts.Category != nil && *opts.Category != "" {
		conds = append(conds, fmt.Sprintf("category = $%d", nextIdx()))
		args = append(args, *opts.Category)
	}
	if opts.LowStock != nil {
		if *opts.LowStock {
			conds = append(conds, "stock <= min_stock")
		} else {
			conds = append(conds, "stock > min_stock")
		}
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildMaterialUpdateClause(req model.UpdateMaterialRequest) (string, []any) {
	setParts := make([]string, 0, 8)
	args := make([]any, 0, 8)
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
	if req.Category != nil {
		add("category", *req.Category)
	}
	if req.Unit != nil {
		add("unit", *req.Unit)
	}
	if req.UnitPrice != nil {
		add("unit_price", *req.UnitPrice)
	}
	if req.MinStock != nil {
		add("min_stock", *req.MinStock)
	}
	if req.Supplier != nil {
		add("supplier", *req.Supplier)
	}
	if req.IsActive != nil {
		add("is_active", *req.IsActive)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, "updated_at = now()")
	return strings.Join(setParts, ", "), args
}

func mapMaterialWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrMaterialNameExists
	}
	return err
}
