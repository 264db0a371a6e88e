package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestQuoteStatusTransitions(t *testing.T) {
	tests := []struct {
		from QuoteStatus
		to   QuoteStatus
		want bool
	}{
		{QuoteStatusDraft, QuoteStatusSent, true},
		{QuoteStatusDraft, QuoteStatusAccepted, false},
		{QuoteStatusSent, QuoteStatusAccepted, true},
		{QuoteStatusSent, QuoteStatusRejected, true},
		{QuoteStatusSent, QuoteStatusExpired, true},
		{QuoteStatusAccepted, QuoteStatusRejected, false},
		{QuoteStatusRejected, QuoteStatusSent, false},
		{QuoteStatusExpired, QuoteStatusSent, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, tt.from.CanTransitionTo(tt.to),
			"%s -> %s", tt.from, tt.to)
	}
}

func TestQuoteComputeTotals(t *testing.T) {
	q := Quote{
		TaxRate:  16,
		Discount: 100,
		Items: []QuoteItem{
			{Quantity: 2, UnitPrice: 500},
			{Quantity: 3.5, UnitPrice: 120.10},
		},
	}

	q.ComputeTotals()

	assert.InDelta(t, 1000.0, q.Items[0].Total, 0.001)
	assert.InDelta(t, 420.35, q.Items[1].Total, 0.001)
	assert.InDelta(t, 1420.35, q.Subtotal, 0.001)
	// tax applies after the discount
	assert.InDelta(t, 211.26, q.TaxAmount, 0.001)
	assert.InDelta(t, 1531.61, q.Total, 0.001)
}

func TestQuoteComputeTotals_OversizedDiscountClampsToZero(t *testing.T) {
	q := Quote{
		TaxRate:  10,
		Discount: 500,
		Items:    []QuoteItem{{Quantity: 1, UnitPrice: 100}},
	}

	q.ComputeTotals()

	assert.Zero(t, q.Total)
	assert.Zero(t, q.TaxAmount)
}

func TestCreateQuoteRequestValidate(t *testing.T) {
	valid := CreateQuoteRequest{
		ClientID: 1,
		Title:    "Kitchen remodel",
		Items:    []CreateQuoteItemRequest{{Description: "Demolition", Quantity: 1, UnitPrice: 800}},
	}
	assert.NoError(t, valid.Validate())
	assert.Equal(t, "pcs", valid.Items[0].Unit)

	missingItems := CreateQuoteRequest{ClientID: 1, Title: "Empty"}
	assert.Error(t, missingItems.Validate())

	badItem := CreateQuoteRequest{
		ClientID: 1,
		Title:    "Bad",
		Items:    []CreateQuoteItemRequest{{Description: "x", Quantity: 0, UnitPrice: 5}},
	}
	assert.Error(t, badItem.Validate())
}
