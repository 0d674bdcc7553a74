// Package catalog provides the read-only product data the POS surfaces search
// and sell from.
package catalog

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/hsallam/matjar-pos/pkg/types"
)

// Source loads the per-store catalog the sale workspace operates on.
type Source interface {
	ProductsByStore(ctx context.Context, storeID uuid.UUID) ([]types.Product, error)
	CategoriesByStore(ctx context.Context, storeID uuid.UUID) ([]types.Category, error)
	Specifications(ctx context.Context) ([]types.Specification, error)
}

// MemorySource is an in-process Source used by terminals that sync their
// catalog ahead of time and by tests.
type MemorySource struct {
	mu       sync.RWMutex
	products map[uuid.UUID][]types.Product
	cats     map[uuid.UUID][]types.Category
	specs    []types.Specification
}

func NewMemorySource() *MemorySource {
	return &MemorySource{
		products: map[uuid.UUID][]types.Product{},
		cats:     map[uuid.UUID][]types.Category{},
	}
}

// SetProducts replaces the store's product list.
func (s *MemorySource) SetProducts(storeID uuid.UUID, products []types.Product) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.products[storeID] = append([]types.Product(nil), products...)
}

// SetCategories replaces the store's category list.
func (s *MemorySource) SetCategories(storeID uuid.UUID, cats []types.Category) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cats[storeID] = append([]types.Category(nil), cats...)
}

// SetSpecifications replaces the global specification axes.
func (s *MemorySource) SetSpecifications(specs []types.Specification) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.specs = append([]types.Specification(nil), specs...)
}

func (s *MemorySource) ProductsByStore(ctx context.Context, storeID uuid.UUID) ([]types.Product, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := append([]types.Product(nil), s.products[storeID]...)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Name.En < out[j].Name.En
	})
	return out, nil
}

func (s *MemorySource) CategoriesByStore(ctx context.Context, storeID uuid.UUID) ([]types.Category, error) {
	if storeID == uuid.Nil {
		return nil, fmt.Errorf("store id is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Category(nil), s.cats[storeID]...), nil
}

func (s *MemorySource) Specifications(ctx context.Context) ([]types.Specification, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]types.Specification(nil), s.specs...), nil
}
