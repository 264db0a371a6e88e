package model

import (
	"errors"
	"strings"
	"time"
)

// Material represents a stocked construction material or supply.
type Material struct {
	ID          int64     `json:"id"           db:"id"`
	Name        string    `json:"name"         db:"name"`
	Description string    `json:"description"  db:"description"`
	Category    string    `json:"category"     db:"category"`
	Unit        string    `json:"unit"         db:"unit"`
	UnitPrice   float64   `json:"unit_price"   db:"unit_price"`
	Stock       float64   `json:"stock"        db:"stock"`
	MinStock    float64   `json:"min_stock"    db:"min_stock"`
	Supplier    string    `json:"supplier"     db:"supplier"`
	IsActive    bool      `json:"is_active"    db:"is_active"`
	CreatedAt   time.Time `json:"created_at"   db:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"   db:"updated_at"`
}

// LowStock reports whether the material is at or below its minimum stock level.
func (m Material) LowStock() bool { return m.Stock <= m.MinStock }

// MaterialsListOptions controls paging and filtering for listing materials.
type MaterialsListOptions struct {
	Limit    int
	Offset   int
	Q        *string // substring match on name and supplier (ILIKE)
	Category *string
	LowStock *bool
	Sort     string // allowed: "created_at", "name", "stock"
	Dir      string // allowed: "asc", "desc"
}

// MaterialStats summarizes inventory.
type MaterialStats struct {
	TotalMaterials int64   `json:"total_materials" db:"total_materials"`
	LowStockCount  int64   `json:"low_stock_count" db:"low_stock_count"`
	TotalValue     float64 `json:"total_value"     db:"total_value"`
	Categories     int64   `json:"categories"      db:"categories"`
}

// CreateMaterialRequest represents parameters to create a Material.
type CreateMaterialRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Category    string  `json:"category"`
	Unit        string  `json:"unit"`
	UnitPrice   float64 `json:"unit_price"`
	Stock       float64 `json:"stock"`
	MinStock    float64 `json:"min_stock"`
	Supplier    string  `json:"supplier"`
}

// UpdateMaterialRequest represents parameters to update a Material.
type UpdateMaterialRequest struct {
	Name        *string  `json:"name,omitempty"`
	Description *string  `json:"description,omitempty"`
	Category    *string  `json:"category,omitempty"`
	Unit        *string  `json:"unit,omitempty"`
	UnitPrice   *float64 `json:"unit_price,omitempty"`
	MinStock    *float64 `json:"min_stock,omitempty"`
	Supplier    *string  `json:"supplier,omitempty"`
	IsActive    *bool    `json:"is_active,omitempty"`
}

// AdjustStockRequest changes the stock level of a material by a signed delta.
type AdjustStockRequest struct {
	Delta  float64 `json:"delta"`
	Reason string  `json:"reason"`
}

// Validate validates CreateMaterialRequest.
func (r *CreateMaterialRequest) Validate() error {
	if strings.TrimSpace(r.Name) == "" {
		return errors.New("name is required and cannot be empty")
	}
	if r.UnitPrice < 0 {
		return errors.New("unit_price cannot be negative")
	}
	if r.Stock < 0 || r.MinStock < 0 {
		return errors.New("stock levels cannot be negative")
	}
	if r.Unit == "" {
		r.Unit = "pcs"
	}
	return nil
}

// Validate validates UpdateMaterialRequest.
func (r *UpdateMaterialRequest) Validate() error {
	if r.Name != nil && strings.TrimSpace(*r.Name) == "" {
		return errors.New("name cannot be empty")
	}
	if r.UnitPrice != nil && *r.UnitPrice < 0 {
		return errors.New("unit_price cannot be negative")
	}
	if r.MinStock != nil && *r.MinStock < 0 {
		return errors.New("min_stock cannot be negative")
	}
	return nil
}

// Validate validates AdjustStockRequest.
func (r *AdjustStockRequest) Validate() error {
	if r.Delta == 0 {
		return errors.New("delta cannot be zero")
	}
	return nil
}
