//revive:disable-next-line:var-naming // legacy package name widely used across the project
package model

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxClientNameLen = 255
)

// ContactType distinguishes individual contacts from companies.
type ContactType string

const (
	ContactTypeIndividual ContactType = "individual"
	ContactTypeCompany    ContactType = "company"
)

// Valid reports whether the contact type is supported.
func (t ContactType) Valid() bool {
	switch t {
	case ContactTypeIndividual, ContactTypeCompany:
		return true
	default:
		return false
	}
}

// normalizeContactType trims and lowercases the input, defaulting to individual when empty.
func normalizeContactType(t ContactType) ContactType {
	normalized := ContactType(strings.ToLower(strings.TrimSpace(string(t))))
	if normalized == "" {
		return ContactTypeIndividual
	}
	return normalized
}

// Client represents a customer of the business.
type Client struct {
	ID          int64       `json:"id"           db:"id"`
	Name        string      `json:"name"         db:"name"`
	Email       *string     `json:"email"        db:"email"`
	Phone       string      `json:"phone"        db:"phone"`
	Address     string      `json:"address"      db:"address"`
	City        string      `json:"city"         db:"city"`
	State       string      `json:"state"        db:"state"`
	ZipCode     string      `json:"zip_code"     db:"zip_code"`
	Company     string      `json:"company"      db:"company"`
	TaxID       string      `json:"tax_id"       db:"tax_id"`
	ContactType ContactType `json:"contact_type" db:"contact_type"`
	Notes       string      `json:"notes"        db:"notes"`
	IsActive    bool        `json:"is_active"    db:"is_active"`
	CreatedAt   time.Time   `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time   `json:"updated_at"   db:"updated_at"`
}

// ClientsListOptions controls paging and filtering for listing clients.
// Q matches name, email, and company via ILIKE substring.
type ClientsListOptions struct {
	Limit    int
	Offset   int
	Q        *string
	IsActive *bool
	Sort     string // allowed: "created_at", "name"
	Dir      string // allowed: "asc", "desc"
}

// ClientStats summarizes the client base for the dashboard.
type ClientStats struct {
	TotalClients    int64 `json:"total_clients"    db:"total_clients"`
	ActiveClients   int64 `json:"active_clients"   db:"active_clients"`
	CompanyClients  int64 `json:"company_clients"  db:"company_clients"`
	NewThisMonth    int64 `json:"new_this_month"   db:"new_this_month"`
	WithOpenQuotes  int64 `json:"with_open_quotes" db:"with_open_quotes"`
	InactiveClients int64 `json:"inactive_clients" db:"inactive_clients"`
}

// CreateClientRequest represents parameters to create a Client.
type CreateClientRequest struct {
	Name        string      `json:"name"`
	Email       *string     `json:"email,omitempty"`
	Phone       string      `json:"phone"`
	Address     string      `json:"address"`
	City        string      `json:"city"`
	State       string      `json:"state"`
	ZipCode     string      `json:"zip_code"`
	Company     string      `json:"company"`
	TaxID       string      `json:"tax_id"`
	ContactType ContactType `json:"contact_type,omitempty"`
	Notes       string      `json:"notes"`
}

// UpdateClientRequest represents parameters to update a Client.
type UpdateClientRequest struct {
	Name        *string      `json:"name,omitempty"`
	Email       *string      `json:"email,omitempty"`
	Phone       *string      `json:"phone,omitempty"`
	Address     *string      `json:"address,omitempty"`
	City        *string      `json:"city,omitempty"`
	State       *string      `json:"state,omitempty"`
	ZipCode     *string      `json:"zip_code,omitempty"`
	Company     *string      `json:"company,omitempty"`
	TaxID       *string      `json:"tax_id,omitempty"`
	ContactType *ContactType `json:"contact_type,omitempty"`
	Notes       *string      `json:"notes,omitempty"`
	IsActive    *bool        `json:"is_active,omitempty"`
}

// Validate validates CreateClientRequest.
func (r *CreateClientRequest) Validate() error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return errors.New("name is required and cannot be empty")
	}
	if utf8.RuneCountInString(name) > maxClientNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		if email != "" && !strings.Contains(email, "@") {
			return errors.New("email is not a valid address")
		}
	}
	r.ContactType = normalizeContactType(r.ContactType)
	if !r.ContactType.Valid() {
		return errors.New("contact_type must be individual or company")
	}
	return nil
}

// Validate validates UpdateClientRequest.
func (r *UpdateClientRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Name != nil && utf8.RuneCountInString(strings.TrimSpace(*r.Name)) > maxClientNameLen {
		return errors.New("name cannot exceed 255 characters")
	}
	if r.Email != nil {
		email := strings.TrimSpace(*r.Email)
		if email != "" && !strings.Contains(email, "@") {
			return errors.New("email is not a valid address")
		}
	}
	if r.ContactType != nil {
		normalized := normalizeContactType(*r.ContactType)
		if !normalized.Valid() {
			return errors.New("contact_type must be individual or company")
		}
		*r.ContactType = normalized
	}
	return nil
}
