package apiclient

import (
	"time"

	"github.com/raborimet/crm-api/internal/domain/auth"
)

// View-model types for the client side of the API. Keys use camelCase; the
// casing transport rewrites them to the backend's snake_case wire format and
// back, so these structs never carry snake_case tags.

// User is the client-side view of the authenticated principal.
type User struct {
	ID        int64     `json:"id"`
	Email     string    `json:"email"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      auth.Role `json:"role"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Credentials is a login request.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest creates a new account.
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
}

// AuthResponse is returned by login and register.
type AuthResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

// VerifyResponse is returned by the token verification endpoint.
type VerifyResponse struct {
	Valid bool  `json:"valid"`
	User  *User `json:"user,omitempty"`
}

// UpdateProfileRequest changes the caller's own identity record.
type UpdateProfileRequest struct {
	Email     *string `json:"email,omitempty"`
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
}

// ChangePasswordRequest rotates the caller's password.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
}

// ClientRecord is a customer record.
type ClientRecord struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Email       *string   `json:"email"`
	Phone       string    `json:"phone"`
	Address     string    `json:"address"`
	City        string    `json:"city"`
	State       string    `json:"state"`
	ZipCode     string    `json:"zipCode"`
	Company     string    `json:"company"`
	TaxID       string    `json:"taxId"`
	ContactType string    `json:"contactType"`
	Notes       string    `json:"notes"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// CreateClientRequest creates a client.
type CreateClientRequest struct {
	Name        string  `json:"name"`
	Email       *string `json:"email,omitempty"`
	Phone       string  `json:"phone,omitempty"`
	Address     string  `json:"address,omitempty"`
	City        string  `json:"city,omitempty"`
	State       string  `json:"state,omitempty"`
	ZipCode     string  `json:"zipCode,omitempty"`
	Company     string  `json:"company,omitempty"`
	TaxID       string  `json:"taxId,omitempty"`
	ContactType string  `json:"contactType,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

// ClientPage is one page of a client listing.
type ClientPage struct {
	Clients []ClientRecord `json:"clients"`
	Total   int64          `json:"total"`
	Limit   int            `json:"limit"`
	Offset  int            `json:"offset"`
}

// Project is a client engagement.
type Project struct {
	ID            int64      `json:"id"`
	Code          string     `json:"code"`
	Name          string     `json:"name"`
	Description   string     `json:"description"`
	ClientID      int64      `json:"clientId"`
	Status        string     `json:"status"`
	Priority      string     `json:"priority"`
	ProjectType   string     `json:"projectType"`
	Budget        float64    `json:"budget"`
	EstimatedCost float64    `json:"estimatedCost"`
	ActualCost    float64    `json:"actualCost"`
	Progress      int        `json:"progress"`
	StartDate     *time.Time `json:"startDate"`
	EndDate       *time.Time `json:"endDate"`
	CreatedAt     time.Time  `json:"createdAt"`
	UpdatedAt     time.Time  `json:"updatedAt"`
}

// ProjectPage is one page of a project listing.
type ProjectPage struct {
	Projects []Project `json:"projects"`
	Total    int64     `json:"total"`
	Limit    int       `json:"limit"`
	Offset   int       `json:"offset"`
}

// QuoteItem is one priced line of a quote.
type QuoteItem struct {
	ID          int64   `json:"id"`
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unitPrice"`
	LineTotal   float64 `json:"lineTotal"`
}

// Quote is a priced offer to a client.
type Quote struct {
	ID          int64       `json:"id"`
	QuoteNumber string      `json:"quoteNumber"`
	Title       string      `json:"title"`
	ClientID    int64       `json:"clientId"`
	ProjectID   *int64      `json:"projectId"`
	Status      string      `json:"status"`
	Subtotal    float64     `json:"subtotal"`
	TaxRate     float64     `json:"taxRate"`
	TaxAmount   float64     `json:"taxAmount"`
	Discount    float64     `json:"discount"`
	Total       float64     `json:"total"`
	ValidUntil  *time.Time  `json:"validUntil"`
	Notes       string      `json:"notes"`
	Items       []QuoteItem `json:"items,omitempty"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
}

// QuotePage is one page of a quote listing.
type QuotePage struct {
	Quotes []Quote `json:"quotes"`
	Total  int64   `json:"total"`
	Limit  int     `json:"limit"`
	Offset int     `json:"offset"`
}

// Material is an inventory item.
type Material struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Category    string    `json:"category"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unitPrice"`
	Stock       float64   `json:"stock"`
	MinStock    float64   `json:"minStock"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// MaterialPage is one page of a material listing.
type MaterialPage struct {
	Materials []Material `json:"materials"`
	Total     int64      `json:"total"`
	Limit     int        `json:"limit"`
	Offset    int        `json:"offset"`
}

// DashboardStats aggregates the headline figures for the landing page.
type DashboardStats struct {
	Clients struct {
		TotalClients  int64 `json:"totalClients"`
		ActiveClients int64 `json:"activeClients"`
	} `json:"clients"`
	Projects struct {
		TotalProjects  int64   `json:"totalProjects"`
		ActiveProjects int64   `json:"activeProjects"`
		TotalBudget    float64 `json:"totalBudget"`
	} `json:"projects"`
	Quotes struct {
		TotalQuotes   int64   `json:"totalQuotes"`
		AcceptedValue float64 `json:"acceptedValue"`
		TotalValue    float64 `json:"totalValue"`
	} `json:"quotes"`
}

// ListParams are the common paging and search parameters.
type ListParams struct {
	Limit  int
	Offset int
	Q      string
	Sort   string
	Dir    string
	Status string
}
