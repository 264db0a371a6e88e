package model

import (
	"errors"
	"math"
	"strings"
	"time"
)

// QuoteStatus is the lifecycle state of a quote.
// Transitions: draft → sent → {accepted, rejected}; any non-terminal quote
// past its valid_until date is reported as expired.
type QuoteStatus string

const (
	QuoteStatusDraft    QuoteStatus = "draft"
	QuoteStatusSent     QuoteStatus = "sent"
	QuoteStatusAccepted QuoteStatus = "accepted"
	QuoteStatusRejected QuoteStatus = "rejected"
	QuoteStatusExpired  QuoteStatus = "expired"
)

// Valid reports whether the quote status is supported.
func (s QuoteStatus) Valid() bool {
	switch s {
	case QuoteStatusDraft, QuoteStatusSent, QuoteStatusAccepted, QuoteStatusRejected, QuoteStatusExpired:
		return true
	default:
		return false
	}
}

// CanTransitionTo reports whether the status machine permits moving to next.
func (s QuoteStatus) CanTransitionTo(next QuoteStatus) bool {
	switch s {
	case QuoteStatusDraft:
		return next == QuoteStatusSent
	case QuoteStatusSent:
		return next == QuoteStatusAccepted || next == QuoteStatusRejected || next == QuoteStatusExpired
	default:
		return false
	}
}

// Quote represents a priced estimate offered to a client.
type Quote struct {
	ID          int64       `json:"id"           db:"id"`
	QuoteNumber string      `json:"quote_number" db:"quote_number"`
	ClientID    int64       `json:"client_id"    db:"client_id"`
	ProjectID   *int64      `json:"project_id"   db:"project_id"`
	Title       string      `json:"title"        db:"title"`
	Description string      `json:"description"  db:"description"`
	Status      QuoteStatus `json:"status"       db:"status"`
	ValidUntil  *time.Time  `json:"valid_until"  db:"valid_until"`
	Subtotal    float64     `json:"subtotal"     db:"subtotal"`
	TaxRate     float64     `json:"tax_rate"     db:"tax_rate"`
	TaxAmount   float64     `json:"tax_amount"   db:"tax_amount"`
	Discount    float64     `json:"discount"     db:"discount"`
	Total       float64     `json:"total"        db:"total"`
	Notes       string      `json:"notes"        db:"notes"`
	Terms       string      `json:"terms"        db:"terms"`
	CreatedAt   time.Time   `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"   db:"updated_at"`

	Items []QuoteItem `json:"items,omitempty" db:"-"`
}

// QuoteItem is a single line of a quote.
type QuoteItem struct {
	ID          int64     `json:"id"          db:"id"`
	QuoteID     int64     `json:"quote_id"    db:"quote_id"`
	Description string    `json:"description" db:"description"`
	Quantity    float64   `json:"quantity"    db:"quantity"`
	Unit        string    `json:"unit"        db:"unit"`
	UnitPrice   float64   `json:"unit_price"  db:"unit_price"`
	Total       float64   `json:"total"       db:"total"`
	Notes       string    `json:"notes"       db:"notes"`
	CreatedAt   time.Time `json:"created_at"  db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"  db:"updated_at"`
}

// QuotesListOptions controls paging and filtering for listing quotes.
type QuotesListOptions struct {
	Limit     int
	Offset    int
	Q         *string // substring match on quote_number and title (ILIKE)
	Status    *QuoteStatus
	ClientID  *int64
	ProjectID *int64
	Sort      string // allowed: "created_at", "quote_number", "total", "valid_until"
	Dir       string // allowed: "asc", "desc"
}

// QuoteStats summarizes quoting activity.
type QuoteStats struct {
	TotalQuotes     int64   `json:"total_quotes"      db:"total_quotes"`
	DraftQuotes     int64   `json:"draft_quotes"      db:"draft_quotes"`
	SentQuotes      int64   `json:"sent_quotes"       db:"sent_quotes"`
	AcceptedQuotes  int64   `json:"accepted_quotes"   db:"accepted_quotes"`
	RejectedQuotes  int64   `json:"rejected_quotes"   db:"rejected_quotes"`
	TotalValue      float64 `json:"total_value"       db:"total_value"`
	AcceptedValue   float64 `json:"accepted_value"    db:"accepted_value"`
	ThisMonthQuotes int64   `json:"this_month_quotes" db:"this_month_quotes"`
}

// CreateQuoteRequest represents parameters to create a Quote.
type CreateQuoteRequest struct {
	ClientID    int64                    `json:"client_id"`
	ProjectID   *int64                   `json:"project_id,omitempty"`
	Title       string                   `json:"title"`
	Description string                   `json:"description"`
	ValidUntil  *time.Time               `json:"valid_until,omitempty"`
	TaxRate     float64                  `json:"tax_rate"`
	Discount    float64                  `json:"discount"`
	Notes       string                   `json:"notes"`
	Terms       string                   `json:"terms"`
	Items       []CreateQuoteItemRequest `json:"items"`
}

// CreateQuoteItemRequest represents a single line of a new quote.
type CreateQuoteItemRequest struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Notes       string  `json:"notes"`
}

// UpdateQuoteRequest represents parameters to update a Quote. Items, when
// present, replace the existing lines wholesale.
type UpdateQuoteRequest struct {
	Title       *string                  `json:"title,omitempty"`
	Description *string                  `json:"description,omitempty"`
	ValidUntil  *time.Time               `json:"valid_until,omitempty"`
	TaxRate     *float64                 `json:"tax_rate,omitempty"`
	Discount    *float64                 `json:"discount,omitempty"`
	Notes       *string                  `json:"notes,omitempty"`
	Terms       *string                  `json:"terms,omitempty"`
	Items       []CreateQuoteItemRequest `json:"items,omitempty"`
}

// Validate validates CreateQuoteRequest.
func (r *CreateQuoteRequest) Validate() error {
	if r.ClientID <= 0 {
		return errors.New("client_id is required")
	}
	if strings.TrimSpace(r.Title) == "" {
		return errors.New("title is required and cannot be empty")
	}
	if len(r.Items) == 0 {
		return errors.New("at least one item is required")
	}
	if r.TaxRate < 0 || r.TaxRate > 100 {
		return errors.New("tax_rate must be between 0 and 100")
	}
	if r.Discount < 0 {
		return errors.New("discount cannot be negative")
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// Validate validates CreateQuoteItemRequest.
func (r *CreateQuoteItemRequest) Validate() error {
	if strings.TrimSpace(r.Description) == "" {
		return errors.New("item description is required")
	}
	if r.Quantity <= 0 {
		return errors.New("item quantity must be greater than zero")
	}
	if r.UnitPrice < 0 {
		return errors.New("item unit_price cannot be negative")
	}
	if r.Unit == "" {
		r.Unit = "pcs"
	}
	return nil
}

// Validate validates UpdateQuoteRequest.
func (r *UpdateQuoteRequest) Validate() error {
	if r.Title != nil && strings.TrimSpace(*r.Title) == "" {
		return errors.New("title cannot be empty")
	}
	if r.TaxRate != nil && (*r.TaxRate < 0 || *r.TaxRate > 100) {
		return errors.New("tax_rate must be between 0 and 100")
	}
	if r.Discount != nil && *r.Discount < 0 {
		return errors.New("discount cannot be negative")
	}
	for i := range r.Items {
		if err := r.Items[i].Validate(); err != nil {
			return err
		}
	}
	return nil
}

// ComputeTotals recalculates line totals, subtotal, tax amount, and total
// from the quote's items, tax rate, and discount. Amounts are rounded to
// cents. The total never drops below zero even with an oversized discount.
func (q *Quote) ComputeTotals() {
	var subtotal float64
	for i := range q.Items {
		line := roundCents(q.Items[i].Quantity * q.Items[i].UnitPrice)
		q.Items[i].Total = line
		subtotal += line
	}
	q.Subtotal = roundCents(subtotal)
	q.TaxAmount = roundCents((q.Subtotal - q.Discount) * q.TaxRate / 100)
	total := q.Subtotal - q.Discount + q.TaxAmount
	if total < 0 {
		total = 0
		q.TaxAmount = 0
	}
	q.Total = roundCents(total)
}

func roundCents(v float64) float64 {
	return math.Round(v*100) / 100
}
