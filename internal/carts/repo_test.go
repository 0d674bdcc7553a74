package carts

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/hsallam/matjar-pos/pkg/db/models"
	"github.com/hsallam/matjar-pos/pkg/types"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	path := filepath.Join(t.TempDir(), "carts.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.CartRecord{}, &models.CartLineItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func seedCart(t *testing.T, repo *GormRepository, storeID uuid.UUID) *models.CartRecord {
	t.Helper()
	record, err := repo.Create(context.Background(), &models.CartRecord{
		StoreID:  storeID,
		Name:     types.LocalizedText{En: "Cart 1", Ar: "سلة 1"},
		Subtotal: decimal.Zero,
		Total:    decimal.Zero,
	})
	if err != nil {
		t.Fatalf("create cart: %v", err)
	}
	return record
}

func TestRepositoryCreateAssignsID(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	record := seedCart(t, repo, uuid.New())
	if record.ID == uuid.Nil {
		t.Fatalf("expected generated id")
	}
	if record.Status != types.CartStatusActive {
		t.Fatalf("status = %s, want active", record.Status)
	}
}

func TestRepositoryRoundTripWithItems(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	record := seedCart(t, repo, uuid.New())

	item := &models.CartLineItem{
		CartID: record.ID,
		Product: types.ProductSnapshot{
			ID:    uuid.New(),
			Name:  types.LocalizedText{En: "Mint Tea", Ar: "شاي بالنعناع"},
			Price: decimal.NewFromFloat(4.25),
		},
		Quantity:   2,
		PriceAtAdd: decimal.NewFromFloat(4.25),
		Specifications: []types.SpecificationChoice{
			{SpecificationID: uuid.New(), ValueID: uuid.New(), Title: "Size", Value: "Large"},
		},
	}
	if err := repo.AddItem(ctx, item); err != nil {
		t.Fatalf("add item: %v", err)
	}

	loaded, err := repo.FindByID(ctx, record.ID)
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(loaded.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(loaded.Items))
	}
	got := loaded.Items[0]
	if got.Product.Name.Ar != "شاي بالنعناع" {
		t.Fatalf("snapshot name lost: %+v", got.Product.Name)
	}
	if got.PriceAtAdd.StringFixed(2) != "4.25" {
		t.Fatalf("priceAtAdd = %s", got.PriceAtAdd)
	}
	if len(got.Specifications) != 1 || got.Specifications[0].Value != "Large" {
		t.Fatalf("specifications lost: %+v", got.Specifications)
	}
}

func TestRepositoryListFiltersByStatus(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	storeID := uuid.New()

	active := seedCart(t, repo, storeID)
	done := seedCart(t, repo, storeID)
	done.Status = types.CartStatusCompleted
	if _, err := repo.Save(ctx, done); err != nil {
		t.Fatalf("save: %v", err)
	}
	seedCart(t, repo, uuid.New()) // other store

	all, err := repo.ListByStore(ctx, storeID, "")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 carts, got %d", len(all))
	}

	actives, err := repo.ListByStore(ctx, storeID, types.CartStatusActive)
	if err != nil {
		t.Fatalf("list active: %v", err)
	}
	if len(actives) != 1 || actives[0].ID != active.ID {
		t.Fatalf("active filter wrong: %+v", actives)
	}
}

func TestRepositoryDeleteRemovesItems(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	record := seedCart(t, repo, uuid.New())
	if err := repo.AddItem(ctx, &models.CartLineItem{
		CartID:     record.ID,
		Product:    types.ProductSnapshot{ID: uuid.New()},
		Quantity:   1,
		PriceAtAdd: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("add item: %v", err)
	}

	if err := repo.Delete(ctx, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := repo.FindByID(ctx, record.ID); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Fatalf("expected record not found, got %v", err)
	}

	var count int64
	if err := repo.db.Model(&models.CartLineItem{}).Where("cart_id = ?", record.ID).Count(&count).Error; err != nil {
		t.Fatalf("count items: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected orphan items removed, got %d", count)
	}
}

func TestRepositoryCountByStore(t *testing.T) {
	repo := NewRepository(openTestDB(t))
	ctx := context.Background()
	storeID := uuid.New()
	seedCart(t, repo, storeID)
	seedCart(t, repo, storeID)

	count, err := repo.CountByStore(ctx, storeID)
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, want 2", count)
	}
}
