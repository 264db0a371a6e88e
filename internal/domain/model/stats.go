package model

import "time"

// DashboardStats aggregates headline numbers for the landing dashboard.
type DashboardStats struct {
	Clients  ClientStats  `json:"clients"`
	Projects ProjectStats `json:"projects"`
	Quotes   QuoteStats   `json:"quotes"`
}

// ActivityKind tags entries in the recent-activity feed.
type ActivityKind string

const (
	ActivityClientCreated  ActivityKind = "client_created"
	ActivityProjectCreated ActivityKind = "project_created"
	ActivityQuoteCreated   ActivityKind = "quote_created"
	ActivityQuoteSent      ActivityKind = "quote_sent"
	ActivityQuoteAccepted  ActivityKind = "quote_accepted"
)

// Activity is a single entry of the recent-activity feed.
type Activity struct {
	Kind       ActivityKind `json:"kind"        db:"kind"`
	Subject    string       `json:"subject"     db:"subject"`
	ID         int64        `json:"id"          db:"id"`
	OccurredAt time.Time    `json:"occurred_at" db:"occurred_at"`
}

// StatusCount pairs a status value with its occurrence count.
type StatusCount struct {
	Status string `json:"status" db:"status"`
	Count  int64  `json:"count"  db:"count"`
}

// MonthlyRevenue is one month of accepted-quote value.
type MonthlyRevenue struct {
	Month   time.Time `json:"month"   db:"month"`
	Revenue float64   `json:"revenue" db:"revenue"`
}

// Deadline is an upcoming project end date for the dashboard.
type Deadline struct {
	ProjectID   int64     `json:"project_id"   db:"project_id"`
	ProjectName string    `json:"project_name" db:"project_name"`
	EndDate     time.Time `json:"end_date"     db:"end_date"`
	Progress    int       `json:"progress"     db:"progress"`
}

// TopClient ranks a client by accepted quote value.
type TopClient struct {
	ClientID   int64   `json:"client_id"   db:"client_id"`
	ClientName string  `json:"client_name" db:"client_name"`
	QuoteCount int64   `json:"quote_count" db:"quote_count"`
	TotalValue float64 `json:"total_value" db:"total_value"`
}

// ReportPeriod bounds report queries. Zero values mean unbounded.
type ReportPeriod struct {
	From time.Time
	To   time.Time
}

// FinancialReport summarizes money movement over a period.
type FinancialReport struct {
	Period        string           `json:"period"`
	QuotedValue   float64          `json:"quoted_value"   db:"quoted_value"`
	AcceptedValue float64          `json:"accepted_value" db:"accepted_value"`
	ProjectBudget float64          `json:"project_budget" db:"project_budget"`
	ActualCost    float64          `json:"actual_cost"    db:"actual_cost"`
	Monthly       []MonthlyRevenue `json:"monthly"`
}

// ClientsReport is the per-client activity report.
type ClientsReport struct {
	Period string      `json:"period"`
	Stats  ClientStats `json:"stats"`
	Top    []TopClient `json:"top"`
}

// ProjectsReport is the per-status project report.
type ProjectsReport struct {
	Period    string        `json:"period"`
	Stats     ProjectStats  `json:"stats"`
	ByStatus  []StatusCount `json:"by_status"`
	Deadlines []Deadline    `json:"deadlines"`
}

// QuotesReport is the quote pipeline report.
type QuotesReport struct {
	Period   string        `json:"period"`
	Stats    QuoteStats    `json:"stats"`
	ByStatus []StatusCount `json:"by_status"`
}
