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
)

// QuoteRepo provides database operations for quotes and their line items.
// Creating or replacing lines runs inside a transaction so a quote and its
// items never diverge.
type QuoteRepo struct {
	pool *pgxpool.Pool
}

// NewQuoteRepo creates a new QuoteRepo.
func NewQuoteRepo(pool *pgxpool.Pool) *QuoteRepo {
	return &QuoteRepo{pool: pool}
}

const quoteColumns = `id, quote_number, client_id, project_id, title, description,
	status, valid_until, subtotal, tax_rate, tax_amount, discount, total,
	notes, terms, created_at, updated_at`

const quoteItemColumns = `id, quote_id, description, quantity, unit, unit_price,
	total, notes, created_at, updated_at`

// Create inserts a quote and its items atomically. The quote's totals must
// already be computed by the caller.
func (r *QuoteRepo) Create(ctx context.Context, q *model.Quote) (*model.Quote, error) {
	if q == nil {
		return nil, errors.New("quote is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin create quote: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		INSERT INTO quotes (quote_number, client_id, project_id, title, description,
			status, valid_until, subtotal, tax_rate, tax_amount, discount, total,
			notes, terms)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING `+quoteColumns,
		q.QuoteNumber, q.ClientID, q.ProjectID,
		strings.TrimSpace(q.Title), q.Description,
		q.Status, q.ValidUntil,
		q.Subtotal, q.TaxRate, q.TaxAmount, q.Discount, q.Total,
		q.Notes, q.Terms,
	)
	if err != nil {
		return nil, mapQuoteWriteErr(err)
	}
	created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Quote])
	if err != nil {
		return nil, mapQuoteWriteErr(err)
	}

	created.Items, err = insertQuoteItems(ctx, tx, created.ID, q.Items)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit create quote: %w", err)
	}
	return &created, nil
}

// GetByID retrieves a quote with its items.
func (r *QuoteRepo) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quoteColumns+` FROM quotes WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get quote by id: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Quote])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("get quote by id: %w", err)
	}

	out.Items, err = r.listItems(ctx, out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// List retrieves quotes with filtering and pagination. Items are not loaded
// for list views.
func (r *QuoteRepo) List(ctx context.Context, opts model.QuotesListOptions) ([]*model.Quote, int64, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = 50
	}
	offset := max(opts.Offset, 0)

	where, args := buildQuoteFilter(opts)
	sortCol, sortDir := validateSort(opts.Sort, opts.Dir, map[string]string{
		"created_at":   "created_at",
		"quote_number": "quote_number",
		"total":        "total",
		"valid_until":  "valid_until",
	})

	var total int64
	if err := r.pool.QueryRow(ctx,
		`SELECT count(*) FROM quotes`+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count quotes: %w", err)
	}

	query := `SELECT ` + quoteColumns + ` FROM quotes` + where +
		fmt.Sprintf(" ORDER BY %s %s LIMIT $%d OFFSET $%d", sortCol, sortDir, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}
	rowsOut, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Quote])
	if err != nil {
		return nil, 0, fmt.Errorf("list quotes: %w", err)
	}

	res := make([]*model.Quote, len(rowsOut))
	for i := range rowsOut {
		res[i] = &rowsOut[i]
	}
	return res, total, nil
}

// Update updates a quote's fields, and when replaceItems is true swaps its
// lines for the given set, all in one transaction. The caller passes the
// fully recomputed quote.
func (r *QuoteRepo) Update(ctx context.Context, q *model.Quote, replaceItems bool) (*model.Quote, error) {
	if q == nil {
		return nil, errors.New("quote is required")
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin update quote: %w", err)
	}
	defer tx.Rollback(ctx)

	rows, err := tx.Query(ctx, `
		UPDATE quotes SET title = $1, description = $2, valid_until = $3,
			subtotal = $4, tax_rate = $5, tax_amount = $6, discount = $7,
			total = $8, notes = $9, terms = $10, updated_at = now()
		WHERE id = $11
		RETURNING `+quoteColumns,
		strings.TrimSpace(q.Title), q.Description, q.ValidUntil,
		q.Subtotal, q.TaxRate, q.TaxAmount, q.Discount, q.Total,
		q.Notes, q.Terms, q.ID,
	)
	if err != nil {
		return nil, mapQuoteWriteErr(err)
	}
	updated, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Quote])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, mapQuoteWriteErr(err)
	}

	if replaceItems {
		if _, err := tx.Exec(ctx, `DELETE FROM quote_items WHERE quote_id = $1`, q.ID); err != nil {
			return nil, fmt.Errorf("replace quote items: %w", err)
		}
		updated.Items, err = insertQuoteItems(ctx, tx, q.ID, q.Items)
		if err != nil {
			return nil, err
		}
	} else {
		updated.Items = q.Items
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit update quote: %w", err)
	}
	return &updated, nil
}

// SetStatus moves a quote to the given status. Transition legality is the
// service's concern; this only persists the change.
func (r *QuoteRepo) SetStatus(ctx context.Context, id int64, status model.QuoteStatus) (*model.Quote, error) {
	rows, err := r.pool.Query(ctx, `
		UPDATE quotes SET status = $1, updated_at = now()
		WHERE id = $2
		RETURNING `+quoteColumns, status, id)
	if err != nil {
		return nil, fmt.Errorf("set quote status: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.Quote])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrQuoteNotFound
		}
		return nil, fmt.Errorf("set quote status: %w", err)
	}
	out.Items, err = r.listItems(ctx, out.ID)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// Delete deletes a quote; items go with it via ON DELETE CASCADE.
func (r *QuoteRepo) Delete(ctx context.Context, id int64) (bool, error) {
	ct, err := r.pool.Exec(ctx, `DELETE FROM quotes WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete quote: %w", err)
	}
	return ct.RowsAffected() > 0, nil
}

// Stats computes aggregate quote statistics.
func (r *QuoteRepo) Stats(ctx context.Context) (*model.QuoteStats, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT
			count(*)                                                       AS total_quotes,
			count(*) FILTER (WHERE status = 'draft')                       AS draft_quotes,
			count(*) FILTER (WHERE status = 'sent')                        AS sent_quotes,
			count(*) FILTER (WHERE status = 'accepted')                    AS accepted_quotes,
			count(*) FILTER (WHERE status = 'rejected')                    AS rejected_quotes,
			COALESCE(sum(total), 0)                                        AS total_value,
			COALESCE(sum(total) FILTER (WHERE status = 'accepted'), 0)     AS accepted_value,
			count(*) FILTER (WHERE created_at >= date_trunc('month', now())) AS this_month_quotes
		FROM quotes`)
	if err != nil {
		return nil, fmt.Errorf("quote stats: %w", err)
	}
	out, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.QuoteStats])
	if err != nil {
		return nil, fmt.Errorf("quote stats: %w", err)
	}
	return &out, nil
}

// MarkExpired flips sent quotes past their valid_until date to expired and
// reports how many rows changed.
func (r *QuoteRepo) MarkExpired(ctx context.Context) (int64, error) {
	ct, err := r.pool.Exec(ctx, `
		UPDATE quotes SET status = 'expired', updated_at = now()
		WHERE status = 'sent' AND valid_until IS NOT NULL AND valid_until < now()`)
	if err != nil {
		return 0, fmt.Errorf("mark expired quotes: %w", err)
	}
	return ct.RowsAffected(), nil
}

func (r *QuoteRepo) listItems(ctx context.Context, quoteID int64) ([]model.QuoteItem, error) {
	rows, err := r.pool.Query(ctx,
		`SELECT `+quoteItemColumns+` FROM quote_items WHERE quote_id = $1 ORDER BY id`,
		quoteID)
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}
	items, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.QuoteItem])
	if err != nil {
		return nil, fmt.Errorf("list quote items: %w", err)
	}
	return items, nil
}

func insertQuoteItems(ctx context.Context, tx pgx.Tx, quoteID int64, items []model.QuoteItem) ([]model.QuoteItem, error) {
	out := make([]model.QuoteItem, 0, len(items))
	for i := range items {
		it := items[i]
		rows, err := tx.Query(ctx, `
			INSERT INTO quote_items (quote_id, description, quantity, unit, unit_price, total, notes)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+quoteItemColumns,
			quoteID, it.Description, it.Quantity, it.Unit, it.UnitPrice, it.Total, it.Notes)
		if err != nil {
			return nil, fmt.Errorf("insert quote item: %w", err)
		}
		created, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[model.QuoteItem])
		if err != nil {
			return nil, fmt.Errorf("insert quote item: %w", err)
		}
		out = append(out, created)
	}
	return out, nil
}

func buildQuoteFilter(opts model.QuotesListOptions) (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)
	nextIdx := func() int { return len(args) + 1 }

	if opts.Q != nil && strings.TrimSpace(*opts.Q) != "" {
		q := "%" + strings.TrimSpace(*opts.Q) + "%"
		idx := nextIdx()
		conds = append(conds, fmt.Sprintf("(quote_number ILIKE $%d OR title ILIKE $%d)", idx, idx))
		args = append(args, q)
	}
	if opts.Status != nil {
		conds = append(conds, fmt.Sprintf("status = $%d", nextIdx()))
		args = append(args, *opts.Status)
	}
	if opts.ClientID != nil {
		conds = append(conds, fmt.Sprintf("client_id = $%d", nextIdx()))
		args = append(args, *opts.ClientID)
	}
	if opts.ProjectID != nil {
		conds = append(conds, fmt.Sprintf("project_id = $%d", nextIdx()))
		args = append(args, *opts.ProjectID)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

func mapQuoteWriteErr(err error) error {
	if err == nil {
		return nil
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
		return ErrQuoteNumberExists
	}
	return err
}
