package ledger

import (
	"time"

	"github.com/google/uuid"

	"github.com/smartinv/inventory-backend/pkg/db/models"
	"github.com/smartinv/inventory-backend/pkg/enums"
)

// TransactionDTO is the wire representation of a stock movement, denormalized
// with the product and actor names clients render in history views.
type TransactionDTO struct {
	ID          uuid.UUID             `json:"id"`
	Type        enums.TransactionType `json:"type"`
	Quantity    int                   `json:"quantity"`
	ProductID   uuid.UUID             `json:"productId"`
	ProductName string                `json:"productName"`
	UserID      uuid.UUID             `json:"userId"`
	UserName    string                `json:"userName"`
	CreatedAt   time.Time             `json:"createdAt"`
}

// NewTransactionDTO maps the model, tolerating missing preloads.
func NewTransactionDTO(txn *models.StockTransaction) *TransactionDTO {
	if txn == nil {
		return nil
	}
	dto := &TransactionDTO{
		ID:        txn.ID,
		Type:      txn.Type,
		Quantity:  txn.Quantity,
		ProductID: txn.ProductID,
		UserID:    txn.UserID,
		CreatedAt: txn.CreatedAt,
	}
	if txn.Product != nil {
		dto.ProductName = txn.Product.Name
	}
	if txn.User != nil {
		dto.UserName = txn.User.Name
	}
	return dto
}
