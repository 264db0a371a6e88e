package httpx

import (
	"context"
	"strings"
	"time"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// fakeClientRepo is an in-memory client repository used by handler tests.
type fakeClientRepo struct {
	nextID  int64
	clients map[int64]*model.Client
}

func newFakeClientRepo() *fakeClientRepo {
	return &fakeClientRepo{nextID: 1, clients: make(map[int64]*model.Client)}
}

func (f *fakeClientRepo) Create(_ context.Context, req *model.CreateClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	var email *string
	if req.Email != nil && strings.TrimSpace(*req.Email) != "" {
		normalized := strings.ToLower(strings.TrimSpace(*req.Email))
		for _, c := range f.clients {
			if c.Email != nil && *c.Email == normalized {
				return nil, data.ErrClientEmailExists
			}
		}
		email = &normalized
	}
	c := &model.Client{
		ID:          f.nextID,
		Name:        strings.TrimSpace(req.Name),
		Email:       email,
		Phone:       req.Phone,
		Address:     req.Address,
		City:        req.City,
		State:       req.State,
		ZipCode:     req.ZipCode,
		Company:     req.Company,
		TaxID:       req.TaxID,
		ContactType: req.ContactType,
		Notes:       req.Notes,
		IsActive:    true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
	f.clients[c.ID] = c
	f.nextID++
	return c, nil
}

func (f *fakeClientRepo) GetByID(_ context.Context, id int64) (*model.Client, error) {
	c, ok := f.clients[id]
	if !ok {
		return nil, data.ErrClientNotFound
	}
	return c, nil
}

func (f *fakeClientRepo) List(_ context.Context, opts model.ClientsListOptions) ([]*model.Client, int64, error) {
	out := make([]*model.Client, 0, len(f.clients))
	for _, c := range f.clients {
		if opts.IsActive != nil && c.IsActive != *opts.IsActive {
			continue
		}
		out = append(out, c)
	}
	return out, int64(len(out)), nil
}

func (f *fakeClientRepo) Update(_ context.Context, id int64, req model.UpdateClientRequest) (*model.Client, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}
	c, ok := f.clients[id]
	if !ok {
		return nil, data.ErrClientNotFound
	}
	if req.Name != nil {
		c.Name = strings.TrimSpace(*req.Name)
	}
	if req.Phone != nil {
		c.Phone = *req.Phone
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
	c.UpdatedAt = time.Now()
	return c, nil
}

func (f *fakeClientRepo) Delete(_ context.Context, id int64) (bool, error) {
	if _, ok := f.clients[id]; !ok {
		return false, nil
	}
	delete(f.clients, id)
	return true, nil
}

func (f *fakeClientRepo) Stats(_ context.Context) (*model.ClientStats, error) {
	stats := &model.ClientStats{TotalClients: int64(len(f.clients))}
	for _, c := range f.clients {
		if c.IsActive {
			stats.ActiveClients++
		} else {
			stats.InactiveClients++
		}
	}
	return stats, nil
}

// fakeProjectRepo implements the project queries the client handlers touch.
type fakeProjectRepo struct {
	byClient map[int64][]*model.Project
}

func newFakeProjectRepo() *fakeProjectRepo {
	return &fakeProjectRepo{byClient: make(map[int64][]*model.Project)}
}

func (f *fakeProjectRepo) Create(_ context.Context, code string, req *model.CreateProjectRequest) (*model.Project, error) {
	p := &model.Project{ID: 1, Code: code, Name: req.Name, ClientID: req.ClientID}
	f.byClient[req.ClientID] = append(f.byClient[req.ClientID], p)
	return p, nil
}

func (f *fakeProjectRepo) GetByID(_ context.Context, _ int64) (*model.Project, error) {
	return nil, data.ErrProjectNotFound
}

func (f *fakeProjectRepo) List(_ context.Context, _ model.ProjectsListOptions) ([]*model.Project, int64, error) {
	return nil, 0, nil
}

func (f *fakeProjectRepo) ListByClient(_ context.Context, clientID int64) ([]*model.Project, error) {
	return f.byClient[clientID], nil
}

func (f *fakeProjectRepo) Update(_ context.Context, _ int64, _ model.UpdateProjectRequest) (*model.Project, error) {
	return nil, data.ErrProjectNotFound
}

func (f *fakeProjectRepo) SetProgress(_ context.Context, _ int64, _ int) (*model.Project, error) {
	return nil, data.ErrProjectNotFound
}

func (f *fakeProjectRepo) Delete(_ context.Context, _ int64) (bool, error) { return false, nil }

func (f *fakeProjectRepo) Stats(_ context.Context) (*model.ProjectStats, error) {
	return &model.ProjectStats{}, nil
}
