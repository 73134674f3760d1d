package catalog

import (
	"context"
	"fmt"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/db/models"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
)

type fakeListCache struct {
	cached        []ProductDTO
	hasCached     bool
	setCalls      int
	invalidations int
	invalidateErr error
}

func (f *fakeListCache) GetProductList(context.Context) ([]ProductDTO, bool) {
	return f.cached, f.hasCached
}

func (f *fakeListCache) SetProductList(_ context.Context, dtos []ProductDTO) {
	f.setCalls++
	f.cached = dtos
	f.hasCached = true
}

func (f *fakeListCache) InvalidateProductList(context.Context) error {
	f.invalidations++
	f.cached = nil
	f.hasCached = false
	return f.invalidateErr
}

func openTestDB(t *testing.T) *db.Client {
	t.Helper()

	dsn := fmt.Sprintf("file:catalog_%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.AutoMigrate(&models.Product{}); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}

	client, err := db.NewWithConn(conn)
	if err != nil {
		t.Fatalf("wrap test db: %v", err)
	}
	return client
}

func newTestService(t *testing.T, client *db.Client, cache listCache) Service {
	t.Helper()
	logg := logger.New(logger.Options{ServiceName: "catalog-test", Output: io.Discard})
	svc, err := NewService(NewRepository(client.DB()), cache, logg)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc
}

func TestCreateProductAndList(t *testing.T) {
	client := openTestDB(t)
	cache := &fakeListCache{}
	svc := newTestService(t, client, cache)

	dto, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:      "LAP-001",
		Name:     "MacBook Pro M3 14\"",
		Category: "Electronics",
		Price:    decimal.NewFromInt(1999),
		Stock:    12,
		MinStock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}
	if dto.ID == uuid.Nil {
		t.Fatal("expected product id to be assigned")
	}
	if cache.invalidations != 1 {
		t.Fatalf("expected 1 invalidation after create, got %d", cache.invalidations)
	}

	dtos, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(dtos) != 1 || dtos[0].SKU != "LAP-001" {
		t.Fatalf("unexpected list result: %+v", dtos)
	}
	if cache.setCalls != 1 {
		t.Fatalf("expected list to repopulate cache, got %d set calls", cache.setCalls)
	}
}

func TestListProductsServedFromCache(t *testing.T) {
	client := openTestDB(t)
	cached := []ProductDTO{{ID: uuid.New(), SKU: "CACHED-1", Name: "Cached Product"}}
	cache := &fakeListCache{cached: cached, hasCached: true}
	svc := newTestService(t, client, cache)

	dtos, err := svc.ListProducts(context.Background())
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
	if len(dtos) != 1 || dtos[0].SKU != "CACHED-1" {
		t.Fatalf("expected cached payload, got %+v", dtos)
	}
	if cache.setCalls != 0 {
		t.Fatalf("cache hit should not rewrite the cache, got %d set calls", cache.setCalls)
	}
}

func TestCreateProductDuplicateSKU(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, nil)

	input := CreateProductInput{
		SKU:   "PHN-001",
		Name:  "iPhone 15 Pro Max",
		Price: decimal.NewFromInt(1199),
	}
	if _, err := svc.CreateProduct(context.Background(), input); err != nil {
		t.Fatalf("first create: %v", err)
	}

	_, err := svc.CreateProduct(context.Background(), input)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestCreateProductValidation(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, nil)

	cases := []struct {
		name  string
		input CreateProductInput
	}{
		{name: "missing sku", input: CreateProductInput{Name: "Thing"}},
		{name: "missing name", input: CreateProductInput{SKU: "SKU-1"}},
		{name: "negative price", input: CreateProductInput{SKU: "SKU-1", Name: "Thing", Price: decimal.NewFromInt(-1)}},
		{name: "negative stock", input: CreateProductInput{SKU: "SKU-1", Name: "Thing", Stock: -1}},
		{name: "negative min stock", input: CreateProductInput{SKU: "SKU-1", Name: "Thing", MinStock: -1}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateProduct(context.Background(), tc.input)
			coded := pkgerrors.As(err)
			if coded == nil || coded.Code() != pkgerrors.CodeValidation {
				t.Fatalf("expected validation error, got %v", err)
			}
		})
	}
}

func TestUpdateProductPatchesOnlyProvidedFields(t *testing.T) {
	client := openTestDB(t)
	cache := &fakeListCache{}
	svc := newTestService(t, client, cache)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:      "LAP-001",
		Name:     "MacBook Pro M3 14\"",
		Category: "Electronics",
		Price:    decimal.NewFromInt(1999),
		Stock:    12,
		MinStock: 10,
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	newName := "MacBook Pro M3 16\""
	newMin := 4
	updated, err := svc.UpdateProduct(context.Background(), created.ID, UpdateProductInput{
		Name:     &newName,
		MinStock: &newMin,
	})
	if err != nil {
		t.Fatalf("update product: %v", err)
	}

	if updated.Name != newName {
		t.Fatalf("expected name %q, got %q", newName, updated.Name)
	}
	if updated.MinStock != newMin {
		t.Fatalf("expected min stock %d, got %d", newMin, updated.MinStock)
	}
	if updated.SKU != created.SKU {
		t.Fatalf("sku should be untouched, got %q", updated.SKU)
	}
	if updated.Stock != created.Stock {
		t.Fatalf("stock should be untouched, got %d", updated.Stock)
	}
	if cache.invalidations != 2 {
		t.Fatalf("expected invalidation after create and update, got %d", cache.invalidations)
	}
}

func TestUpdateProductNotFound(t *testing.T) {
	client := openTestDB(t)
	svc := newTestService(t, client, nil)

	name := "Ghost"
	_, err := svc.UpdateProduct(context.Background(), uuid.New(), UpdateProductInput{Name: &name})
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found error, got %v", err)
	}
}

func TestDeleteProduct(t *testing.T) {
	client := openTestDB(t)
	cache := &fakeListCache{}
	svc := newTestService(t, client, cache)

	created, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:   "DEL-001",
		Name:  "Doomed",
		Price: decimal.NewFromInt(10),
	})
	if err != nil {
		t.Fatalf("create product: %v", err)
	}

	if err := svc.DeleteProduct(context.Background(), created.ID); err != nil {
		t.Fatalf("delete product: %v", err)
	}
	if cache.invalidations != 2 {
		t.Fatalf("expected invalidation after create and delete, got %d", cache.invalidations)
	}

	err = svc.DeleteProduct(context.Background(), created.ID)
	coded := pkgerrors.As(err)
	if coded == nil || coded.Code() != pkgerrors.CodeNotFound {
		t.Fatalf("expected not found on second delete, got %v", err)
	}
}

func TestMutationToleratesInvalidationFailure(t *testing.T) {
	client := openTestDB(t)
	cache := &fakeListCache{invalidateErr: fmt.Errorf("redis down")}
	svc := newTestService(t, client, cache)

	if _, err := svc.CreateProduct(context.Background(), CreateProductInput{
		SKU:   "SOFT-001",
		Name:  "Soft Failure",
		Price: decimal.NewFromInt(1),
	}); err != nil {
		t.Fatalf("create should tolerate cache errors: %v", err)
	}
}
