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

// ClientRepo provides database operations for clients.
type ClientRepo struct {
	pool *pgxpool.Pool
}

// NewClientRepo creates a new ClientRepo.
func NewClientRepo(pool *pgxpool.Pool) *ClientRepo {
	return &ClientRepo{pool: pool}
}

const clientColumns = `id, name, email, phone, address, city, state, zip_code,
	company, tax_id, contact_type, notes, is_active, created_at, updated_at`

// Create inserts a new client.
func (r *ClientRepo) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	if req == nil {
		return nil, errors.New("create client request is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	rows, err := r.pool.Query(ctx, `
		INSERT INTO clients (name, email, phone, address, city, state, zip_code,
			company, tax_id, contact_type, notes, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, TRUE)
		RETURNING `+clientColumns,
		strings.TrimSpace(req.Name),
		normalizeEmail(req.Email),
		req.Phone, req.Address, req.City, req.State, req.ZipCode,
		req.Company, req.TaxID, req.ContactType, req.Notes,
	)
	if err != nil {
		return nil, mapClientWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Client])
	if err != nil {
		return nil, mapClientWriteErr(err)
	}
	return &out, nil
}

// GetByID retrieves a client by ID.
func (r *ClientRepo) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+clientColumns+` FROM clients WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Client])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, fmt.Errorf("get client by id: %w", err)
	}
	return &out, nil
}

// List retrieves clients with filtering and pagination.
func (r *ClientRepo) List(ctx context.Context, opts model.ClientsListOptions) ([]*model.Client, int64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where, args := buildClientFilter(opts)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at": "created_at",
		"name":       "name",
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM clients`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count clients: %w", err)
	}

	query := `SELECT ` + clientColumns + ` FROM clients` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortCol, sortDir, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}
	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Client])
	if err != nil {
		return nil, 0, fmt.Errorf("list clients: %w", err)
	}

	res := make([]*model.Client, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates fields of a client.
func (r *ClientRepo) Update(ctx context.Context, id int64, req model.UpdateClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	setClause, args := buildClientUpdateClause(req)
	if setClause == "" {
		return r.GetByID(ctx, id)
	}

	args = append(args, id)
	query := "UPDATE clients SET " + setClause +
		fmt.Sprintf(" WHERE id = $%d RETURNING ", len(args)) + clientColumns

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, mapClientWriteErr(err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Client])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrClientNotFound
		}
		return nil, mapClientWriteErr(err)
	}
	return &out, nil
}

// Delete deletes a client by ID.
func (r *ClientRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete client: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats computes aggregate client statistics.
func (r *ClientRepo) Stats(ctx context.Context) (*model.ClientStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			count(*)                                                          AS total_clients,
			count(*) FILTER (WHERE is_active)                                 AS active_clients,
			count(*) FILTER (WHERE NOT is_active)                             AS inactive_clients,
			count(*) FILTER (WHERE contact_type = 'company')                  AS company_clients,
			count(*) FILTER (WHERE created_at >= date_trunc('month', now()))  AS new_this_month,
			(SELECT count(DISTINCT client_id) FROM quotes
			 WHERE status IN ('draft', 'sent'))                               AS with_open_quotes
		FROM clients`)
	if err != nil {
		return nil, fmt.Errorf("client stats: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.ClientStats])
	if err != nil {
		return nil, fmt.Errorf("client stats: %w", err)
	}
	return &out, nil
}

// --- helpers ---

func buildClientFilter(opts model.ClientsListOptions) (string, []any) {
	conds := make([]string, 0, 2)
	args := make([]any, 0, 2)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		idx := nextIdx()
		conds = append(conds, fmt.Sprintf(
			"(name ILIKE $%d OR email ILIKE $%d OR company ILIKE $%d)", idx, idx, idx))
		args = append(args, q)
	}
	if opts.IsActive != nil {
		conds = append(conds, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *opts.IsActive)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func buildClientUpdateClause(req model.UpdateClientRequest) (string, []any) {
	setParts := make([]string, 0, 12)
	args := make([]any, 0, 12)
	nextIdx := func() int { return len(args) + 1 }

	addString := func(col string, v *string) {
		if v != nil {
			setParts = append(setParts, fmt.Sprintf("%s = $%d", col, nextIdx()))
			args = append(args, *v)
		}
	}

	if req.Name != nil {
		setParts = append(setParts, fmt.Sprintf("name = $%d", nextIdx()))
		args = append(args, strings.TrimSpace(*req.Name))
	}
	if req.Email != nil {
		setParts = append(setParts, fmt.Sprintf("email = $%d", nextIdx()))
		args = append(args, normalizeEmail(req.Email))
	}
	addString("phone", req.Phone)
	addString("address", req.Address)
	addString("city", req.City)
	addString("state", req.State)
	addString("zip_code", req.ZipCode)
	addString("company", req.Company)
	addString("tax_id", req.TaxID)
	addString("notes", req.Notes)
	if req.ContactType != nil {
		setParts = append(setParts, fmt.Sprintf("contact_type = $%d", nextIdx()))
		args = append(args, *req.ContactType)
	}
	if req.IsActive != nil {
		setParts = append(setParts, fmt.Sprintf("is_active = $%d", nextIdx()))
		args = append(args, *req.IsActive)
	}

	if len(setParts) == 0 {
		return "", nil
	}
	setParts = append(setParts, "updated_at = now()")
	return strings.Join(setParts, ", "), args
}

// normalizeEmail lowercases and trims an optional email; empty becomes NULL.
func normalizeEmail(email *string) *string {
	if email == nil {
		return nil
	}
	e := strings.ToLower(strings.TrimSpace(*email))
	if e == "" {
		return nil
	}
	return &e
}

// validateSort validates and returns a safe sort column and direction.
func validateSort(sort, dir string, allowed map[string]string) (string, string) {
	sortCol := "created_at"
	sortDir := "DESC"

	if col, ok := allowed[strings.ToLower(strings.TrimSpace(sort))]; ok {
		sortCol = col
	}
	switch strings.ToLower(strings.TrimSpace(dir)) {
	case "asc":
		sortDir = "ASC"
	case "desc":
		sortDir = "DESC"
	}
	return sortCol, sortDir
}

func mapClientWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrClientEmailExists
	}
	return err
}
