package service

import (
	"context"
	"errors"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// ClientRepository is the persistence surface ClientService needs.
type ClientRepository interface {
	Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error)
	GetByID(ctx context.Context, id int64) (*model.Client, error)
	List(ctx context.Context, opts model.ClientsListOptions) ([]*model.Client, int64, error)
	Update(ctx context.Context, id int64, req model.UpdateClientRequest) (*model.Client, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*model.ClientStats, error)
}

// ClientServiceOptions groups dependencies for ClientService.
type ClientServiceOptions struct {
	Clients  ClientRepository
	Projects ProjectRepository
}

// ClientService orchestrates client CRUD.
type ClientService struct {
	clients  ClientRepository
	projects ProjectRepository
}

// NewClientService constructs a new ClientService.
func NewClientService(opts ClientServiceOptions) *ClientService {
	return &ClientService{clients: opts.Clients, projects: opts.Projects}
}

// Create creates a client.
func (s *ClientService) Create(ctx context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	client, err := s.clients.Create(ctx, req)
	if err != nil {
		return nil, mapClientErr(err)
	}
	return client, nil
}

// GetByID retrieves a client by ID.
func (s *ClientService) GetByID(ctx context.Context, id int64) (*model.Client, error) {
	client, err := s.clients.GetByID(ctx, id)
	if err != nil {
		return nil, mapClientErr(err)
	}
	return client, nil
}

// List returns a page of clients and the unpaged total.
func (s *ClientService) List(ctx context.Context, opts model.ClientsListOptions) ([]*model.Client, int64, error) {
	clients, total, err := s.clients.List(ctx, opts)
	if err != nil {
		return nil, 0, apperrors.MapDBError(err)
	}
	return clients, total, nil
}

// Update updates a client.
func (s *ClientService) Update(ctx context.Context, id int64, req model.UpdateClientRequest) (*model.Client, error) {
	client, err := s.clients.Update(ctx, id, req)
	if err != nil {
		return nil, mapClientErr(err)
	}
	return client, nil
}

// Delete deletes a client. Clients with projects cannot be deleted.
func (s *ClientService) Delete(ctx context.Context, id int64) error {
	ok, err := s.clients.Delete(ctx, id)
	if err != nil {
		return mapClientErr(err)
	}
	if !ok {
		return apperrors.NotFound("client not found")
	}
	return nil
}

// Stats returns aggregate client statistics.
func (s *ClientService) Stats(ctx context.Context) (*model.ClientStats, error) {
	stats, err := s.clients.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return stats, nil
}

// Projects lists all projects belonging to a client.
func (s *ClientService) Projects(ctx context.Context, clientID int64) ([]*model.Project, error) {
	if _, err := s.clients.GetByID(ctx, clientID); err != nil {
		return nil, mapClientErr(err)
	}
	projects, err := s.projects.ListByClient(ctx, clientID)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return projects, nil
}

func mapClientErr(err error) error {
	switch {
	case errors.Is(err, data.ErrClientNotFound):
		return apperrors.NotFound("client not found")
	case errors.Is(err, data.ErrClientEmailExists):
		return apperrors.Conflict("a client with this email already exists")
	}
	return apperrors.MapDBError(err)
}
