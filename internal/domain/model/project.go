package model

import (
	"errors"
	"strings"
	"time"
)

// ProjectStatus is the lifecycle state of a project.
type ProjectStatus string

const (
	ProjectStatusPlanning   ProjectStatus = "planning"
	ProjectStatusInProgress ProjectStatus = "in_progress"
	ProjectStatusCompleted  ProjectStatus = "completed"
	ProjectStatusCancelled  ProjectStatus = "cancelled"
	ProjectStatusOnHold     ProjectStatus = "on_hold"
)

// Valid reports whether the project status is supported.
func (s ProjectStatus) Valid() bool {
	switch s {
	case ProjectStatusPlanning, ProjectStatusInProgress, ProjectStatusCompleted,
		ProjectStatusCancelled, ProjectStatusOnHold:
		return true
	default:
		return false
	}
}

// ProjectPriority ranks scheduling urgency.
type ProjectPriority string

const (
	ProjectPriorityLow    ProjectPriority = "low"
	ProjectPriorityMedium ProjectPriority = "medium"
	ProjectPriorityHigh   ProjectPriority = "high"
	ProjectPriorityUrgent ProjectPriority = "urgent"
)

// Valid reports whether the project priority is supported.
func (p ProjectPriority) Valid() bool {
	switch p {
	case ProjectPriorityLow, ProjectPriorityMedium, ProjectPriorityHigh, ProjectPriorityUrgent:
		return true
	default:
		return false
	}
}

// ProjectType categorizes the kind of work.
type ProjectType string

const (
	ProjectTypeConstruction ProjectType = "construction"
	ProjectTypeRenovation   ProjectType = "renovation"
	ProjectTypeMaintenance  ProjectType = "maintenance"
)

// Valid reports whether the project type is supported.
func (t ProjectType) Valid() bool {
	switch t {
	case ProjectTypeConstruction, ProjectTypeRenovation, ProjectTypeMaintenance:
		return true
	default:
		return false
	}
}

// Project represents a job undertaken for a client.
type Project struct {
	ID            int64           `json:"id"             db:"id"`
	Code          string          `json:"code"           db:"code"`
	Name          string          `json:"name"           db:"name"`
	Description   string          `json:"description"    db:"description"`
	ClientID      int64           `json:"client_id"      db:"client_id"`
	Status        ProjectStatus   `json:"status"         db:"status"`
	Priority      ProjectPriority `json:"priority"       db:"priority"`
	ProjectType   ProjectType     `json:"project_type"   db:"project_type"`
	Address       string          `json:"address"        db:"address"`
	City          string          `json:"city"           db:"city"`
	State         string          `json:"state"          db:"state"`
	ZipCode       string          `json:"zip_code"       db:"zip_code"`
	StartDate     *time.Time      `json:"start_date"     db:"start_date"`
	EndDate       *time.Time      `json:"end_date"       db:"end_date"`
	Budget        float64         `json:"budget"         db:"budget"`
	EstimatedCost float64         `json:"estimated_cost" db:"estimated_cost"`
	ActualCost    float64         `json:"actual_cost"    db:"actual_cost"`
	Progress      int             `json:"progress"       db:"progress"`
	Notes         string          `json:"notes"          db:"notes"`
	CreatedAt     time.Time       `json:"created_at"     db:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"     db:"updated_at"`
}

// ProjectsListOptions controls paging and filtering for listing projects.
type ProjectsListOptions struct {
	Limit    int
	Offset   int
	Q        *string // substring match on code and name (ILIKE)
	Status   *ProjectStatus
	Priority *ProjectPriority
	ClientID *int64
	Sort     string // allowed: "created_at", "name", "status", "end_date"
	Dir      string // allowed: "asc", "desc"
}

// ProjectStats summarizes the project portfolio.
type ProjectStats struct {
	TotalProjects     int64   `json:"total_projects"     db:"total_projects"`
	ActiveProjects    int64   `json:"active_projects"    db:"active_projects"`
	CompletedProjects int64   `json:"completed_projects" db:"completed_projects"`
	PlanningProjects  int64   `json:"planning_projects"  db:"planning_projects"`
	TotalBudget       float64 `json:"total_budget"       db:"total_budget"`
	TotalActualCost   float64 `json:"total_actual_cost"  db:"total_actual_cost"`
	AverageProgress   float64 `json:"average_progress"   db:"average_progress"`
}

// CreateProjectRequest represents parameters to create a Project.
type CreateProjectRequest struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	ClientID      int64           `json:"client_id"`
	Status        ProjectStatus   `json:"status,omitempty"`
	Priority      ProjectPriority `json:"priority,omitempty"`
	ProjectType   ProjectType     `json:"project_type,omitempty"`
	Address       string          `json:"address"`
	City          string          `json:"city"`
	State         string          `json:"state"`
	ZipCode       string          `json:"zip_code"`
	StartDate     *time.Time      `json:"start_date,omitempty"`
	EndDate       *time.Time      `json:"end_date,omitempty"`
	Budget        float64         `json:"budget"`
	EstimatedCost float64         `json:"estimated_cost"`
	Notes         string          `json:"notes"`
}

// UpdateProjectRequest represents parameters to update a Project.
type UpdateProjectRequest struct {
	Name          *string          `json:"name,omitempty"`
	Description   *string          `json:"description,omitempty"`
	Status        *ProjectStatus   `json:"status,omitempty"`
	Priority      *ProjectPriority `json:"priority,omitempty"`
	ProjectType   *ProjectType     `json:"project_type,omitempty"`
	Address       *string          `json:"address,omitempty"`
	City          *string          `json:"city,omitempty"`
	State         *string          `json:"state,omitempty"`
	ZipCode       *string          `json:"zip_code,omitempty"`
	StartDate     *time.Time       `json:"start_date,omitempty"`
	EndDate       *time.Time       `json:"end_date,omitempty"`
	Budget        *float64         `json:"budget,omitempty"`
	EstimatedCost *float64         `json:"estimated_cost,omitempty"`
	ActualCost    *float64         `json:"actual_cost,omitempty"`
	Progress      *int             `json:"progress,omitempty"`
	Notes         *string          `json:"notes,omitempty"`
}

// Validate validates CreateProjectRequest.
func (r *CreateProjectRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if r.ClientID <= 0 {
		return errors.New("client_id is required")
	}
	if r.Status == "" {
		r.Status = ProjectStatusPlanning
	}
	if !r.Status.Valid() {
		return errors.New("status is not a valid project status")
	}
	if r.Priority == "" {
		r.Priority = ProjectPriorityMedium
	}
	if !r.Priority.Valid() {
		return errors.New("priority is not a valid project priority")
	}
	if r.ProjectType == "" {
		r.ProjectType = ProjectTypeConstruction
	}
	if !r.ProjectType.Valid() {
		return errors.New("project_type is not a valid project type")
	}
	if r.Budget < 0 || r.EstimatedCost < 0 {
		return errors.New("budget and estimated_cost cannot be negative")
	}
	if err := validateDateRange(r.StartDate, r.EndDate); err != nil {
		return err
	}
	return nil
}

// Validate validates UpdateProjectRequest.
func (r *UpdateProjectRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.Status != nil && !r.Status.Valid() {
		return errors.New("status is not a valid project status")
	}
	if r.Priority != nil && !r.Priority.Valid() {
		return errors.New("priority is not a valid project priority")
	}
	if r.ProjectType != nil && !r.ProjectType.Valid() {
		return errors.New("project_type is not a valid project type")
	}
	if r.Progress != nil && (*r.Progress < 0 || *r.Progress > 100) {
		return errors.New("progress must be between 0 and 100")
	}
	if err := validateDateRange(r.StartDate, r.EndDate); err != nil {
		return err
	}
	return nil
}

func validateDateRange(start, end *time.Time) error {
	if start != nil && end != nil && end.Before(*start) {
		return errors.New("end_date cannot be before start_date")
	}
	return nil
}
