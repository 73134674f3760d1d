package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/smartinv/inventory-backend/pkg/db/models"
)

// Repository manages persistence for products under adjustment and the
// append-only stock transaction log.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	SetLockTimeout(ctx context.Context, timeout time.Duration) error
	FindProductForUpdate(ctx context.Context, productID uuid.UUID) (*models.Product, error)
	SaveProductStock(ctx context.Context, productID uuid.UUID, stock int) error
	CreateTransaction(ctx context.Context, txn *models.StockTransaction) error
	FindTransaction(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error)
	ListTransactions(ctx context.Context) ([]models.StockTransaction, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a ledger repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// SetLockTimeout bounds how long the transaction waits for a row lock.
// No-op outside postgres; sqlite serializes writers on its own.
func (r *repository) SetLockTimeout(ctx context.Context, timeout time.Duration) error {
	if r.db.Dialector.Name() != "postgres" || timeout <= 0 {
		return nil
	}
	stmt := fmt.Sprintf("SET LOCAL lock_timeout = '%dms'", timeout.Milliseconds())
	return r.db.WithContext(ctx).Exec(stmt).Error
}

// FindProductForUpdate loads the product row and holds it until the
// surrounding transaction ends.
func (r *repository) FindProductForUpdate(ctx context.Context, productID uuid.UUID) (*models.Product, error) {
	query := r.db.WithContext(ctx)
	if r.db.Dialector.Name() == "postgres" {
		query = query.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var product models.Product
	if err := query.First(&product, "id = ?", productID).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) SaveProductStock(ctx context.Context, productID uuid.UUID, stock int) error {
	return r.db.WithContext(ctx).
		Model(&models.Product{}).
		Where("id = ?", productID).
		Update("stock", stock).Error
}

func (r *repository) CreateTransaction(ctx context.Context, txn *models.StockTransaction) error {
	return r.db.WithContext(ctx).Create(txn).Error
}

func (r *repository) FindTransaction(ctx context.Context, id uuid.UUID) (*models.StockTransaction, error) {
	var txn models.StockTransaction
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		First(&txn, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &txn, nil
}

func (r *repository) ListTransactions(ctx context.Context) ([]models.StockTransaction, error) {
	var txns []models.StockTransaction
	if err := r.db.WithContext(ctx).
		Preload("Product").
		Preload("User").
		Order("created_at DESC").
		Find(&txns).Error; err != nil {
		return nil, err
	}
	return txns, nil
}
