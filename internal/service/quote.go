package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// QuoteRepository is the persistence surface QuoteService needs.
type QuoteRepository interface {
	Create(ctx context.Context, q *model.Quote) (*model.Quote, error)
	GetByID(ctx context.Context, id int64) (*model.Quote, error)
	List(ctx context.Context, opts model.QuotesListOptions) ([]*model.Quote, int64, error)
	Update(ctx context.Context, q *model.Quote, replaceItems bool) (*model.Quote, error)
	SetStatus(ctx context.Context, id int64, status model.QuoteStatus) (*model.Quote, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*model.QuoteStats, error)
	MarkExpired(ctx context.Context) (int64, error)
}

// QuoteServiceOptions groups dependencies for QuoteService.
type QuoteServiceOptions struct {
	Quotes  QuoteRepository
	Clients ClientRepository
}

// QuoteService orchestrates quote lifecycle: drafting, pricing, sending, and
// acceptance.
type QuoteService struct {
	quotes  QuoteRepository
	clients ClientRepository
}

// NewQuoteService constructs a new QuoteService.
func NewQuoteService(opts QuoteServiceOptions) *QuoteService {
	return &QuoteService{quotes: opts.Quotes, clients: opts.Clients}
}

// Create drafts a new quote with computed totals and a generated number.
func (s *QuoteService) Create(ctx context.Context, req *model.CreateQuoteRequest) (*model.Quote, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, data.ErrClientNotFound) {
			return nil, apperrors.ValidationField("client_id", "client does not exist")
		}
		return nil, apperrors.MapDBError(err)
	}

	q := &model.Quote{
		QuoteNumber: newQuoteNumber(),
		ClientID:    req.ClientID,
		ProjectID:   req.ProjectID,
		Title:       strings.TrimSpace(req.Title),
		Description: req.Description,
		Status:      model.QuoteStatusDraft,
		ValidUntil:  req.ValidUntil,
		TaxRate:     req.TaxRate,
		Discount:    req.Discount,
		Notes:       req.Notes,
		Terms:       req.Terms,
		Items:       buildQuoteItems(req.Items),
	}
	q.ComputeTotals()

	created, err := s.quotes.Create(ctx, q)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	return created, nil
}

// GetByID retrieves a quote with its items.
func (s *QuoteService) GetByID(ctx context.Context, id int64) (*model.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	return q, nil
}

// List returns a page of quotes and the unpaged total.
func (s *QuoteService) List(ctx context.Context, opts model.QuotesListOptions) ([]*model.Quote, int64, error) {
	quotes, total, err := s.quotes.List(ctx, opts)
	if err != nil {
		return nil, 0, apperrors.MapDBError(err)
	}
	return quotes, total, nil
}

// Update edits a draft quote and recomputes its totals. Sent and settled
// quotes are immutable.
func (s *QuoteService) Update(ctx context.Context, id int64, req model.UpdateQuoteRequest) (*model.Quote, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	if q.Status != model.QuoteStatusDraft {
		return nil, apperrors.Conflict("only draft quotes can be edited")
	}

	if req.Title != nil {
		q.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		q.Description = *req.Description
	}
	if req.ValidUntil != nil {
		q.ValidUntil = req.ValidUntil
	}
	if req.TaxRate != nil {
		q.TaxRate = *req.TaxRate
	}
	if req.Discount != nil {
		q.Discount = *req.Discount
	}
	if req.Notes != nil {
		q.Notes = *req.Notes
	}
	if req.Terms != nil {
		q.Terms = *req.Terms
	}
	replaceItems := req.Items != nil
	if replaceItems {
		q.Items = buildQuoteItems(req.Items)
	}
	q.ComputeTotals()

	updated, err := s.quotes.Update(ctx, q, replaceItems)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	return updated, nil
}

// Send moves a draft quote to sent.
func (s *QuoteService) Send(ctx context.Context, id int64) (*model.Quote, error) {
	return s.transition(ctx, id, model.QuoteStatusSent)
}

// Accept moves a sent quote to accepted.
func (s *QuoteService) Accept(ctx context.Context, id int64) (*model.Quote, error) {
	return s.transition(ctx, id, model.QuoteStatusAccepted)
}

// Reject moves a sent quote to rejected.
func (s *QuoteService) Reject(ctx context.Context, id int64) (*model.Quote, error) {
	return s.transition(ctx, id, model.QuoteStatusRejected)
}

func (s *QuoteService) transition(ctx context.Context, id int64, next model.QuoteStatus) (*model.Quote, error) {
	q, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	if !q.Status.CanTransitionTo(next) {
		return nil, apperrors.Conflict(
			fmt.Sprintf("cannot move quote from %s to %s", q.Status, next))
	}

	updated, err := s.quotes.SetStatus(ctx, id, next)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	return updated, nil
}

// Duplicate copies a quote into a fresh draft with a new number.
func (s *QuoteService) Duplicate(ctx context.Context, id int64) (*model.Quote, error) {
	src, err := s.quotes.GetByID(ctx, id)
	if err != nil {
		return nil, mapQuoteErr(err)
	}

	dup := &model.Quote{
		QuoteNumber: newQuoteNumber(),
		ClientID:    src.ClientID,
		ProjectID:   src.ProjectID,
		Title:       src.Title + " (copy)",
		Description: src.Description,
		Status:      model.QuoteStatusDraft,
		ValidUntil:  src.ValidUntil,
		TaxRate:     src.TaxRate,
		Discount:    src.Discount,
		Notes:       src.Notes,
		Terms:       src.Terms,
	}
	dup.Items = make([]model.QuoteItem, len(src.Items))
	for i, it := range src.Items {
		dup.Items[i] = model.QuoteItem{
			Description: it.Description,
			Quantity:    it.Quantity,
			Unit:        it.Unit,
			UnitPrice:   it.UnitPrice,
			Notes:       it.Notes,
		}
	}
	dup.ComputeTotals()

	created, err := s.quotes.Create(ctx, dup)
	if err != nil {
		return nil, mapQuoteErr(err)
	}
	return created, nil
}

// Delete deletes a quote.
func (s *QuoteService) Delete(ctx context.Context, id int64) error {
	ok, err := s.quotes.Delete(ctx, id)
	if err != nil {
		return mapQuoteErr(err)
	}
	if !ok {
		return apperrors.NotFound("quote not found")
	}
	return nil
}

// Stats flips overdue sent quotes to expired and returns aggregates.
func (s *QuoteService) Stats(ctx context.Context) (*model.QuoteStats, error) {
	if _, err := s.quotes.MarkExpired(ctx); err != nil {
		return nil, apperrors.MapDBError(err)
	}
	stats, err := s.quotes.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return stats, nil
}

func buildQuoteItems(reqs []model.CreateQuoteItemRequest) []model.QuoteItem {
	items := make([]model.QuoteItem, len(reqs))
	for i, it := range reqs {
		unit := it.Unit
		if unit == "" {
			unit = "pcs"
		}
		items[i] = model.QuoteItem{
			Description: strings.TrimSpace(it.Description),
			Quantity:    it.Quantity,
			Unit:        unit,
			UnitPrice:   it.UnitPrice,
			Notes:       it.Notes,
		}
	}
	return items
}

// newQuoteNumber builds a unique quote number like Q-2026-7B1F0D.
func newQuoteNumber() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("Q-%d-%s", time.Now().Year(), suffix)
}

func mapQuoteErr(err error) error {
	switch {
	case errors.Is(err, data.ErrQuoteNotFound):
		return apperrors.NotFound("quote not found")
	case errors.Is(err, data.ErrQuoteNumberExists):
		return apperrors.Conflict("quote number already exists")
	}
	return apperrors.MapDBError(err)
}
