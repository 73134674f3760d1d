package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/db/models"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
)

// Service exposes catalog reads and product management operations.
type Service interface {
	ListProducts(ctx context.Context) ([]ProductDTO, error)
	CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error)
	UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error)
	DeleteProduct(ctx context.Context, productID uuid.UUID) error
}

// listCache is the read-through cache contract the service depends on.
type listCache interface {
	GetProductList(ctx context.Context) ([]ProductDTO, bool)
	SetProductList(ctx context.Context, dtos []ProductDTO)
	InvalidateProductList(ctx context.Context) error
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	SKU      string
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
	MinStock int
}

// UpdateProductInput holds optional mutation values. Stock is absent on
// purpose; it only moves through the ledger. SKU is immutable after
// creation.
type UpdateProductInput struct {
	Name     *string
	Category *string
	Price    *decimal.Decimal
	MinStock *int
}

type service struct {
	repo  Repository
	cache listCache
	logg  *logger.Logger
}

// NewService constructs a catalog service instance. The cache is optional.
func NewService(repo Repository, cache listCache, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, cache: cache, logg: logg}, nil
}

// ListProducts serves the catalog from the cache when warm, otherwise reads
// the database and repopulates the cache.
func (s *service) ListProducts(ctx context.Context) ([]ProductDTO, error) {
	if s.cache != nil {
		if dtos, ok := s.cache.GetProductList(ctx); ok {
			return dtos, nil
		}
	}

	products, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list products")
	}

	dtos := NewProductDTOs(products)
	if s.cache != nil {
		s.cache.SetProductList(ctx, dtos)
	}
	return dtos, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*ProductDTO, error) {
	sku := strings.TrimSpace(input.SKU)
	name := strings.TrimSpace(input.Name)
	if sku == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "sku is required")
	}
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "name is required")
	}
	if input.Price.IsNegative() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
	}
	if input.Stock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock cannot be negative")
	}
	if input.MinStock < 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock cannot be negative")
	}

	product := &models.Product{
		SKU:      sku,
		Name:     name,
		Category: strings.TrimSpace(input.Category),
		Price:    input.Price,
		Stock:    input.Stock,
		MinStock: input.MinStock,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", sku))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert product")
	}

	s.invalidate(ctx)
	return NewProductDTO(product), nil
}

func (s *service) UpdateProduct(ctx context.Context, productID uuid.UUID, input UpdateProductInput) (*ProductDTO, error) {
	if productID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	product, err := s.repo.FindByID(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "name cannot be empty")
		}
		product.Name = name
	}
	if input.Category != nil {
		product.Category = strings.TrimSpace(*input.Category)
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.MinStock != nil {
		if *input.MinStock < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "min stock cannot be negative")
		}
		product.MinStock = *input.MinStock
	}

	if err := s.repo.Save(ctx, product); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, fmt.Sprintf("sku %q already exists", product.SKU))
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: update product")
	}

	s.invalidate(ctx)
	return NewProductDTO(product), nil
}

func (s *service) DeleteProduct(ctx context.Context, productID uuid.UUID) error {
	if productID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	affected, err := s.repo.Delete(ctx, productID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: delete product")
	}
	if affected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}

	s.invalidate(ctx)
	return nil
}

// invalidate drops the cached list after a committed mutation, log-only on
// failure.
func (s *service) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProductList(ctx); err != nil {
		s.logg.Error(ctx, "catalog cache invalidation failed", err)
	}
}
