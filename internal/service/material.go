package service

import (
	"context"
	"errors"

	"github.com/raborimet/crm-api/internal/data"
	"github.com/raborimet/crm-api/internal/domain/model"
	apperrors "github.com/raborimet/crm-api/internal/errors"
)

// MaterialRepository is the persistence surface MaterialService needs.
type MaterialRepository interface {
	Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error)
	GetByID(ctx context.Context, id int64) (*model.Material, error)
	List(ctx context.Context, opts model.MaterialsListOptions) ([]*model.Material, int64, error)
	Update(ctx context.Context, id int64, req model.UpdateMaterialRequest) (*model.Material, error)
	AdjustStock(ctx context.Context, id int64, delta float64) (*model.Material, error)
	Delete(ctx context.Context, id int64) (bool, error)
	Stats(ctx context.Context) (*model.MaterialStats, error)
}

// MaterialServiceOptions groups dependencies for MaterialService.
type MaterialServiceOptions struct {
	Materials MaterialRepository
}

// MaterialService orchestrates inventory CRUD and stock movements.
type MaterialService struct {
	materials MaterialRepository
}

// NewMaterialService constructs a new MaterialService.
func NewMaterialService(opts MaterialServiceOptions) *MaterialService {
	return &MaterialService{materials: opts.Materials}
}

// Create adds a material to the inventory.
func (s *MaterialService) Create(ctx context.Context, req *model.CreateMaterialRequest) (*model.Material, error) {
	m, err := s.materials.Create(ctx, req)
	if err != nil {
		return nil, mapMaterialErr(err)
	}
	return m, nil
}

// GetByID retrieves a material by ID.
func (s *MaterialService) GetByID(ctx context.Context, id int64) (*model.Material, error) {
	m, err := s.materials.GetByID(ctx, id)
	if err != nil {
		return nil, mapMaterialErr(err)
	}
	return m, nil
}

// List returns a page of materials and the unpaged total.
func (s *MaterialService) List(ctx context.Context, opts model.MaterialsListOptions) ([]*model.Material, int64, error) {
	materials, total, err := s.materials.List(ctx, opts)
	if err != nil {
		return nil, 0, apperrors.MapDBError(err)
	}
	return materials, total, nil
}

// Update updates a material.
func (s *MaterialService) Update(ctx context.Context, id int64, req model.UpdateMaterialRequest) (*model.Material, error) {
	m, err := s.materials.Update(ctx, id, req)
	if err != nil {
		return nil, mapMaterialErr(err)
	}
	return m, nil
}

// AdjustStock moves the stock level by a signed delta. Draws below zero are
// rejected.
func (s *MaterialService) AdjustStock(ctx context.Context, id int64, req model.AdjustStockRequest) (*model.Material, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.Validation(err.Error())
	}

	m, err := s.materials.AdjustStock(ctx, id, req.Delta)
	if err != nil {
		if errors.Is(err, data.ErrInsufficientStock) {
			return nil, apperrors.Conflict("insufficient stock for this adjustment")
		}
		return nil, mapMaterialErr(err)
	}
	return m, nil
}

// Delete deletes a material.
func (s *MaterialService) Delete(ctx context.Context, id int64) error {
	ok, err := s.materials.Delete(ctx, id)
	if err != nil {
		return mapMaterialErr(err)
	}
	if !ok {
		return apperrors.NotFound("material not found")
	}
	return nil
}

// Stats returns aggregate inventory statistics.
func (s *MaterialService) Stats(ctx context.Context) (*model.MaterialStats, error) {
	stats, err := s.materials.Stats(ctx)
	if err != nil {
		return nil, apperrors.MapDBError(err)
	}
	return stats, nil
}

func mapMaterialErr(err error) error {
	switch {
	case errors.Is(err, data.ErrMaterialNotFound):
		return apperrors.NotFound("material not found")
	case errors.Is(err, data.ErrMaterialNameExists):
		return apperrors.Conflict("a material with this name already exists")
	}
	return apperrors.MapDBError(err)
}
