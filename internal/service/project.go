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

// ProjectRepository is the persistence surface ProjectService needs.
type ProjectRepository interface {
	Create(ctx context.Context, code string, req *model.CreateProjectRequest) (*model.Project, error)
	GetByID(ctx context.Context, id int64) (*model.Project, error)
	List(ctx context.Context, opts model.ProjectsListOptions) ([]*model.Project, int64, error)
	ListByClient(ctx context.Context, clientID int64) ([]*model.Project, error)
	Update(ctx context.Context, id int64, req model.UpdateProjectRequest) (*model.Project, error)
	SetProgress(ctx context.Context, id int64, progress int) (*model.Project, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*model.ProjectStats, error)
}

// ProjectServiceOptions groups dependencies for ProjectService.
type ProjectServiceOptions struct {
	Projects ProjectRepository
	Clients  ClientRepository
}

// ProjectService orchestrates project CRUD and progress tracking.
type ProjectService struct {
	projects ProjectRepository
	clients  ClientRepository
}

// NewProjectService constructs a new ProjectService.
func NewProjectService(opts ProjectServiceOptions) *ProjectService {
	return &ProjectService{projects: opts.Projects, clients: opts.Clients}
}

// Create creates a project under an existing client with a generated code.
func (s *ProjectService) Create(ctx context.Context, req *model.CreateProjectRequest) (*model.Project, error) {
	if req == nil {
		return nil, apperrors.Validation("request body is required")
	}
	if _, err := s.clients.GetByID(ctx, req.ClientID); err != nil {
		if errors.Is(err, data.ErrClientNotFound) {
			return nil, apperrors.ValidationField("client_id", "client does not exist")
		}
		return nil, apperrors.MapDBError(err)
	}

	project, err := s.projects.Create(ctx, newProjectCode(), req)
	if err != nil {
		return nil, mapProjectErr(err)
	}
	return project, nil
}

// GetByID retrieves a project by ID.
func (s *ProjectService) GetByID(ctx context.Context, id int64) (*model.Project, error) {
	project, err := s.projects.GetByID(ctx, id)
	if err != nil {
		return nil, mapProjectErr(err)
	}
	return project, nil
}

// List returns a page of projects and the unpaged total.
func (s *ProjectService) List(ctx context.Context, opts model.ProjectsListOptions) ([]*model.Project, int64, error) {
	projects, total, err := s.projects.List(ctx, opts)
	if err != nil {
		return nil, 0, apperrors.MapDBError(err)
	}
	return projects, total, nil
}

// Update updates a project.
func (s *ProjectService) Update(ctx context.Context, id int64, req model.UpdateProjectRequest) (*model.Project, error) {
	project, err := s.projects.Update(ctx, id, req)
	if err != nil {
		return nil, mapProjectErr(err)
	}
	return project, nil
}

// UpdateProgress sets a project's completion percentage. Reaching 100 marks
// the project completed.
func (s *ProjectService) UpdateProgress(ctx context.Context, id int64, progress int) (*model.Project, error) {
	if progress < 0 || progress > 100 {
		return nil, apperrors.ValidationField("progress", "progress must be between 0 and 100")
	}

	project, err := s.projects.SetProgress(ctx, id, progress)
	if err != nil {
		return nil, mapProjectErr(err)
	}
	if progress == 100 && project.Status != model.ProjectStatusCompleted {
		status := model.ProjectStatusCompleted
		project, err = s.projects.Update(ctx, id, model.UpdateProjectRequest{Status: &status})
		if err != nil {
			return nil, mapProjectErr(err)
		}
	}
	return project, nil
}

// Delete deletes a project.
func (s *ProjectService) Delete(ctx context.Context, id int64) error {
	ok, err := s.projects.Delete(ctx, id)
	if err != nil {
		return mapProjectErr(err)
	}
	if !ok {
		return apperrors.NotFound("project not found")
	}
	return nil
}

// Stats returns aggregate project statistics.
func (s *ProjectService) Stats(ctx context.Context) (*model.ProjectStats, error) {
	stats, err := s.projects.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return stats, nil
}

// newProjectCode builds a short unique human-readable project code like
// PRJ-2026-3F2A8C.
func newProjectCode() string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))[:6]
	return fmt.Sprintf("PRJ-%d-%s", time.Now().Year(), suffix)
}

func mapProjectErr(err error) error {
	switch {
	case errors.Is(err, data.ErrProjectNotFound):
		return apperrors.NotFound("project not found")
	case errors.Is(err, data.ErrProjectCodeExists):
		return apperrors.Conflict("project code already exists")
	}
	return apperrors.MapDBError(err)
}
