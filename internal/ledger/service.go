package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/pkg/db"
	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
	pkgerrors "github.com/smartinv/inventory-backend/pkg/errors"
	"github.com/smartinv/inventory-backend/pkg/logger"
	"github.com/smartinv/inventory-backend/pkg/metrics"
)

// Service applies stock adjustments atomically and exposes the movement log.
type Service interface {
	AdjustStock(ctx context.Context, input AdjustInput) (*TransactionDTO, error)
	ListTransactions(ctx context.Context) ([]TransactionDTO, error)
}

// CacheInvalidator drops derived catalog state after a committed mutation.
type CacheInvalidator interface {
	InvalidateProductList(ctx context.Context) error
}

// AdjustInput captures one requested stock movement.
type AdjustInput struct {
	ProductID uuid.UUID
	ActorID   uuid.UUID
	Type      enums.TransactionType
	Quantity  int
}

type service struct {
	repo        Repository
	dbClient    *db.Client
	cache       CacheInvalidator
	metrics     *metrics.InventoryMetrics
	logg        *logger.Logger
	lockTimeout time.Duration
}

// NewService wires a ledger service. The cache and metrics are optional.
func NewService(repo Repository, dbClient *db.Client, cache CacheInvalidator, inventoryMetrics *metrics.InventoryMetrics, logg *logger.Logger, lockTimeout time.Duration) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ledger repository required")
	}
	if dbClient == nil {
		return nil, fmt.Errorf("db client required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{
		repo:        repo,
		dbClient:    dbClient,
		cache:       cache,
		metrics:     inventoryMetrics,
		logg:        logg,
		lockTimeout: lockTimeout,
	}, nil
}

// AdjustStock records one IN/OUT movement. The stock check and the write both
// happen under the product row lock, so concurrent OUTs can never drive the
// stock negative.
func (s *service) AdjustStock(ctx context.Context, input AdjustInput) (*TransactionDTO, error) {
	if input.ProductID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if input.ActorID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "actor id is required")
	}
	if !input.Type.IsValid() {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, fmt.Sprintf("invalid transaction type %q", input.Type))
	}
	if input.Quantity <= 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
	}

	started := time.Now()
	var txnID uuid.UUID
	err := s.dbClient.WithTx(ctx, func(tx *gorm.DB) error {
		txRepo := s.repo.WithTx(tx)

		if err := txRepo.SetLockTimeout(ctx, s.lockTimeout); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: set lock timeout")
		}

		product, err := txRepo.FindProductForUpdate(ctx, input.ProductID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			if db.IsLockNotAvailable(err) {
				return pkgerrors.Wrap(pkgerrors.CodeBusy, err, "product row is locked")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load product for update")
		}

		newStock := product.Stock
		switch input.Type {
		case enums.TransactionTypeIn:
			newStock += input.Quantity
		case enums.TransactionTypeOut:
			if product.Stock < input.Quantity {
				return pkgerrors.New(pkgerrors.CodeInsufficientStock, "insufficient stock").
					WithDetails(map[string]any{
						"available": product.Stock,
						"requested": input.Quantity,
					})
			}
			newStock -= input.Quantity
		}

		if err := txRepo.SaveProductStock(ctx, product.ID, newStock); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: save product stock")
		}

		txn := &models.StockTransaction{
			Type:      input.Type,
			Quantity:  input.Quantity,
			ProductID: product.ID,
			UserID:    input.ActorID,
		}
		if err := txRepo.CreateTransaction(ctx, txn); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: insert stock transaction")
		}
		txnID = txn.ID
		return nil
	})
	s.metrics.ObserveAdjustmentDuration(input.Type.String(), time.Since(started))
	if err != nil {
		s.metrics.IncAdjustment(input.Type.String(), adjustmentOutcome(err))
		if coded := pkgerrors.As(err); coded != nil {
			return nil, err
		}
		if db.IsLockNotAvailable(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeBusy, err, "product row is locked")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "adjust stock")
	}
	s.metrics.IncAdjustment(input.Type.String(), "success")

	s.invalidateCatalog(ctx)

	txn, err := s.repo.FindTransaction(ctx, txnID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: load stock transaction")
	}
	return NewTransactionDTO(txn), nil
}

// ListTransactions returns the full movement log, newest first.
func (s *service) ListTransactions(ctx context.Context) ([]TransactionDTO, error) {
	txns, err := s.repo.ListTransactions(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "db: list stock transactions")
	}
	dtos := make([]TransactionDTO, 0, len(txns))
	for i := range txns {
		dtos = append(dtos, *NewTransactionDTO(&txns[i]))
	}
	return dtos, nil
}

// invalidateCatalog runs after commit and never fails the adjustment.
func (s *service) invalidateCatalog(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateProductList(ctx); err != nil {
		s.logg.Error(ctx, "catalog cache invalidation failed", err)
	}
}

func adjustmentOutcome(err error) string {
	coded := pkgerrors.As(err)
	if coded == nil {
		return "error"
	}
	switch coded.Code() {
	case pkgerrors.CodeInsufficientStock:
		return "insufficient_stock"
	case pkgerrors.CodeNotFound:
		return "not_found"
	case pkgerrors.CodeBusy:
		return "busy"
	default:
		return "error"
	}
}
