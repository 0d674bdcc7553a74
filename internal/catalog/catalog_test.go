package catalog

import (
	"context"
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
	path := filepath.Join(t.TempDir(), "catalog.db")
	conn, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := conn.AutoMigrate(&models.ProductRecord{}, &models.CategoryRecord{}, &models.SpecificationRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return conn
}

func TestGormSourceProductRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	source, err := NewGormSource(conn)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	storeID := uuid.New()
	specID := uuid.New()
	valueID := uuid.New()
	qty := 4
	record := models.ProductRecord{
		StoreID: storeID,
		Name:    types.LocalizedText{En: "Green Tea", Ar: "شاي أخضر"},
		Barcode: "61234567890",
		Price:   decimal.NewFromFloat(12.50),
		Stock:   9,
		SpecificationValues: []types.ProductSpecValue{
			{SpecificationID: specID, ValueID: valueID, Quantity: &qty},
		},
	}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}
	other := models.ProductRecord{StoreID: uuid.New(), Name: types.LocalizedText{En: "Other"}}
	if err := conn.Create(&other).Error; err != nil {
		t.Fatalf("insert product: %v", err)
	}

	products, err := source.ProductsByStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("products = %d, want 1", len(products))
	}
	got := products[0]
	if got.Name.Ar != "شاي أخضر" {
		t.Fatalf("arabic name = %q", got.Name.Ar)
	}
	if !got.Price.Equal(decimal.NewFromFloat(12.50)) {
		t.Fatalf("price = %s", got.Price)
	}
	if len(got.SpecificationValues) != 1 || got.SpecificationValues[0].ValueID != valueID {
		t.Fatalf("spec values = %+v", got.SpecificationValues)
	}
	if got.SpecificationValues[0].Quantity == nil || *got.SpecificationValues[0].Quantity != 4 {
		t.Fatalf("tracked quantity = %+v", got.SpecificationValues[0].Quantity)
	}
}

func TestGormSourceCategoriesScopedToStore(t *testing.T) {
	conn := openTestDB(t)
	source, err := NewGormSource(conn)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	storeID := uuid.New()
	for _, name := range []string{"Drinks", "Snacks"} {
		cat := models.CategoryRecord{StoreID: storeID, Name: types.LocalizedText{En: name}}
		if err := conn.Create(&cat).Error; err != nil {
			t.Fatalf("insert category: %v", err)
		}
	}
	stray := models.CategoryRecord{StoreID: uuid.New(), Name: types.LocalizedText{En: "Stray"}}
	if err := conn.Create(&stray).Error; err != nil {
		t.Fatalf("insert category: %v", err)
	}

	cats, err := source.CategoriesByStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("categories: %v", err)
	}
	if len(cats) != 2 {
		t.Fatalf("categories = %d, want 2", len(cats))
	}
	names := map[string]bool{cats[0].Name.En: true, cats[1].Name.En: true}
	if !names["Drinks"] || !names["Snacks"] {
		t.Fatalf("categories = %v", names)
	}
}

func TestGormSourceSpecificationsRoundTrip(t *testing.T) {
	conn := openTestDB(t)
	source, err := NewGormSource(conn)
	if err != nil {
		t.Fatalf("new source: %v", err)
	}

	record := models.SpecificationRecord{
		Title: types.LocalizedText{En: "Size", Ar: "المقاس"},
		Values: []types.SpecificationValue{
			{ID: uuid.New(), Value: types.LocalizedText{En: "Small"}},
			{ID: uuid.New(), Value: types.LocalizedText{En: "Large"}},
		},
	}
	if err := conn.Create(&record).Error; err != nil {
		t.Fatalf("insert specification: %v", err)
	}

	specs, err := source.Specifications(context.Background())
	if err != nil {
		t.Fatalf("specifications: %v", err)
	}
	if len(specs) != 1 {
		t.Fatalf("specifications = %d, want 1", len(specs))
	}
	if specs[0].Title.Ar != "المقاس" || len(specs[0].Values) != 2 {
		t.Fatalf("specification = %+v", specs[0])
	}
}

func TestGormSourceRequiresStoreID(t *testing.T) {
	source, err := NewGormSource(openTestDB(t))
	if err != nil {
		t.Fatalf("new source: %v", err)
	}
	if _, err := source.ProductsByStore(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil store id")
	}
	if _, err := source.CategoriesByStore(context.Background(), uuid.Nil); err == nil {
		t.Fatalf("expected error for nil store id")
	}
}

func TestMemorySourceSortsProductsByName(t *testing.T) {
	source := NewMemorySource()
	storeID := uuid.New()
	source.SetProducts(storeID, []types.Product{
		{ID: uuid.New(), Name: types.LocalizedText{En: "Water"}},
		{ID: uuid.New(), Name: types.LocalizedText{En: "Apples"}},
	})

	products, err := source.ProductsByStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if len(products) != 2 || products[0].Name.En != "Apples" {
		t.Fatalf("products = %+v, want sorted by name", products)
	}
}

func TestMemorySourceCopiesOnRead(t *testing.T) {
	source := NewMemorySource()
	storeID := uuid.New()
	source.SetProducts(storeID, []types.Product{
		{ID: uuid.New(), Name: types.LocalizedText{En: "Milk"}, Stock: 5},
	})

	first, err := source.ProductsByStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	first[0].Stock = 0

	second, err := source.ProductsByStore(context.Background(), storeID)
	if err != nil {
		t.Fatalf("products: %v", err)
	}
	if second[0].Stock != 5 {
		t.Fatalf("stock = %d, caller mutation leaked into the source", second[0].Stock)
	}
}
