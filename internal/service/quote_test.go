package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// memQuoteRepo is an in-memory QuoteRepository for tests.
type memQuoteRepo struct {
	nextID int64
	quotes map[int64]*model.Quote
}

func newMemQuoteRepo() *memQuoteRepo {
	return &memQuoteRepo{nextID: 1, quotes: make(map[int64]*model.Quote)}
}

func (m *memQuoteRepo) Create(_ context.Context, q *model.Quote) (*model.Quote, error) {
	cp := *q
	cp.ID = m.nextID
	cp.CreatedAt = time.Now()
	cp.UpdatedAt = time.Now()
	m.quotes[cp.ID] = &cp
	m.nextID++
	out := cp
	return &out, nil
}

func (m *memQuoteRepo) GetByID(_ context.Context, id int64) (*model.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, data.ErrQuoteNotFound
	}
	out := *q
	return &out, nil
}

func (m *memQuoteRepo) List(_ context.Context, _ model.QuotesListOptions) ([]*model.Quote, int64, error) {
	out := make([]*model.Quote, 0, len(m.quotes))
	for _, q := range m.quotes {
		cp := *q
		out = append(out, &cp)
	}
	return out, int64(len(out)), nil
}

func (m *memQuoteRepo) Update(_ context.Context, q *model.Quote, _ bool) (*model.Quote, error) {
	if _, ok := m.quotes[q.ID]; !ok {
		return nil, data.ErrQuoteNotFound
	}
	cp := *q
	cp.UpdatedAt = time.Now()
	m.quotes[q.ID] = &cp
	out := cp
	return &out, nil
}

func (m *memQuoteRepo) SetStatus(_ context.Context, id int64, status model.QuoteStatus) (*model.Quote, error) {
	q, ok := m.quotes[id]
	if !ok {
		return nil, data.ErrQuoteNotFound
	}
	q.Status = status
	out := *q
	return &out, nil
}

func (m *memQuoteRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := m.quotes[id]; !ok {
		return false, nil
	}
	delete(m.quotes, id)
	return true, nil
}

func (m *memQuoteRepo) Stats(_ context.Context) (*model.QuoteStats, error) {
	return &model.QuoteStats{TotalQuotes: int64(len(m.quotes))}, nil
}

func (m *memQuoteRepo) MarkExpired(_ context.Context) (int64, error) { return 0, nil }

// memClientRepo satisfies ClientRepository for tests that only need GetByID.
type memClientRepo struct {
	clients map[int64]*model.Client
}

func newMemClientRepo(ids ...int64) *memClientRepo {
	m := &memClientRepo{clients: make(map[int64]*model.Client)}
	for _, id := range ids {
		m.clients[id] = &model.Client{ID: id, Name: "client", IsActive: true}
	}
	return m
}

func (m *memClientRepo) Create(_ context.Context, _ *model.CreateClientRequest) (*model.Client, error) {
	return nil, nil
}

func (m *memClientRepo) GetByID(_ context.Context, id int64) (*model.Client, error) {
	c, ok := m.clients[id]
	if !ok {
		return nil, data.ErrClientNotFound
	}
	return c, nil
}

func (m *memClientRepo) List(_ context.Context, _ model.ClientsListOptions) ([]*model.Client, int64, error) {
	return nil, 0, nil
}

func (m *memClientRepo) Update(_ context.Context, _ int64, _ model.UpdateClientRequest) (*model.Client, error) {
	return nil, nil
}

func (m *memClientRepo) Delete(_ context.Context, _ int64) (bool, error) { return false, nil }

func (m *memClientRepo) Stats(_ context.Context) (*model.ClientStats, error) {
	return &model.ClientStats{}, nil
}

func newTestQuoteService() (*QuoteService, *memQuoteRepo) {
	repo := newMemQuoteRepo()
	svc := NewQuoteService(QuoteServiceOptions{
		Quotes:  repo,
		Clients: newMemClientRepo(1),
	})
	return svc, repo
}

func validQuoteRequest() *model.CreateQuoteRequest {
	return &model.CreateQuoteRequest{
		ClientID: 1,
		Title:    "Kitchen renovation",
		TaxRate:  21,
		Discount: 50,
		Items: []model.CreateQuoteItemRequest{
			{Description: "Demolition", Quantity: 8, Unit: "h", UnitPrice: 45},
			{Description: "Cabinets", Quantity: 3, UnitPrice: 320.15},
		},
	}
}

func TestQuoteCreateComputesTotals(t *testing.T) {
	svc, _ := newTestQuoteService()

	q, err := svc.Create(context.Background(), validQuoteRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, q.QuoteNumber)
	assert.Equal(t, model.QuoteStatusDraft, q.Status)
	require.Len(t, q.Items, 2)
	assert.InDelta(t, 360.0, q.Items[0].Total, 0.001)
	assert.InDelta(t, 960.45, q.Items[1].Total, 0.001)
	assert.InDelta(t, 1320.45, q.Subtotal, 0.001)
	assert.InDelta(t, 266.79, q.TaxAmount, 0.001)
	assert.InDelta(t, 1537.24, q.Total, 0.001)
}

func TestQuoteCreateUnknownClient(t *testing.T) {
	svc, _ := newTestQuoteService()

	req := validQuoteRequest()
	req.ClientID = 99
	_, err := svc.Create(context.Background(), req)
	assert.True(t, apperrors.IsValidation(err))
}

func TestQuoteLifecycleTransitions(t *testing.T) {
	svc, _ := newTestQuoteService()
	ctx := context.Background()

	q, err := svc.Create(ctx, validQuoteRequest())
	require.NoError(t, err)

	// Draft cannot be accepted directly.
	_, err = svc.Accept(ctx, q.ID)
	assert.True(t, apperrors.IsConflict(err))

	sent, err := svc.Send(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusSent, sent.Status)

	// Sending twice is rejected.
	_, err = svc.Send(ctx, q.ID)
	assert.True(t, apperrors.IsConflict(err))

	accepted, err := svc.Accept(ctx, q.ID)
	require.NoError(t, err)
	assert.Equal(t, model.QuoteStatusAccepted, accepted.Status)

	// Accepted is terminal.
	_, err = svc.Reject(ctx, q.ID)
	assert.True(t, apperrors.IsConflict(err))
}

func TestQuoteUpdateOnlyDraft(t *testing.T) {
	svc, _ := newTestQuoteService()
	ctx := context.Background()

	q, err := svc.Create(ctx, validQuoteRequest())
	require.NoError(t, err)

	title := "Updated title"
	updated, err := svc.Update(ctx, q.ID, model.UpdateQuoteRequest{Title: &title})
	require.NoError(t, err)
	assert.Equal(t, "Updated title", updated.Title)

	_, err = svc.Send(ctx, q.ID)
	require.NoError(t, err)

	_, err = svc.Update(ctx, q.ID, model.UpdateQuoteRequest{Title: &title})
	assert.True(t, apperrors.IsConflict(err))
}

func TestQuoteUpdateReplacesItemsAndRecomputes(t *testing.T) {
	svc, _ := newTestQuoteService()
	ctx := context.Background()

	q, err := svc.Create(ctx, validQuoteRequest())
	require.NoError(t, err)

	updated, err := svc.Update(ctx, q.ID, model.UpdateQuoteRequest{
		Items: []model.CreateQuoteItemRequest{
			{Description: "Single line", Quantity: 2, UnitPrice: 100},
		},
	})
	require.NoError(t, err)
	require.Len(t, updated.Items, 1)
	assert.InDelta(t, 200.0, updated.Subtotal, 0.001)
}

func TestQuoteDuplicate(t *testing.T) {
	svc, _ := newTestQuoteService()
	ctx := context.Background()

	q, err := svc.Create(ctx, validQuoteRequest())
	require.NoError(t, err)
	_, err = svc.Send(ctx, q.ID)
	require.NoError(t, err)

	dup, err := svc.Duplicate(ctx, q.ID)
	require.NoError(t, err)

	assert.NotEqual(t, q.ID, dup.ID)
	assert.NotEqual(t, q.QuoteNumber, dup.QuoteNumber)
	assert.Equal(t, model.QuoteStatusDraft, dup.Status)
	assert.Equal(t, q.Title+" (copy)", dup.Title)
	require.Len(t, dup.Items, len(q.Items))
	assert.InDelta(t, q.Total, dup.Total, 0.001)
}

func TestQuoteDeleteNotFound(t *testing.T) {
	svc, _ := newTestQuoteService()

	err := svc.Delete(context.Background(), 42)
	assert.True(t, apperrors.IsNotFound(err))
}
