package catalog

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	"github.com/hsallam/matjar-pos/pkg/types"
)

// GormSource reads the catalog from the shared database.
type GormSource struct {
	db *gorm.DB
}

func NewGormSource(db *gorm.DB) (*GormSource, error) {
	if db == nil {
		return nil, fmt.Errorf("db is required")
	}
	return &GormSource{db: db}, nil
}

func (s *GormSource) ProductsByStore(ctx context.Context, storeID uuid.UUID) ([]types.Product, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	var records []models.ProductRecord
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.Product, 0, len(records))
	for i := range records {
		out = append(out, records[i].Product())
	}
	return out, nil
}

func (s *GormSource) CategoriesByStore(ctx context.Context, storeID uuid.UUID) ([]types.Category, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	var records []models.CategoryRecord
	err := s.db.WithContext(ctx).
		Where("store_id = ?", storeID).
		Order("created_at ASC").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	out := make([]types.Category, 0, len(records))
	for i := range records {
		out = append(out, records[i].Category())
	}
	return out, nil
}

func (s *GormSource) Specifications(ctx context.Context) ([]types.Specification, error) {
	var records []models.SpecificationRecord
	if err := s.db.WithContext(ctx).Order("created_at ASC").Find(&records).Error; err != nil {
		return nil, err
	}
	out := make([]types.Specification, 0, len(records))
	for i := range records {
		out = append(out, records[i].Specification())
	}
	return out, nil
}
