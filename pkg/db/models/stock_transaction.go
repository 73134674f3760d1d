package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/smartinv/inventory-backend/pkg/enums"
)

// StockTransaction is one immutable entry in the append-only stock ledger.
// Rows are never updated or deleted after insert.
type StockTransaction struct {
	ID        uuid.UUID             `gorm:"column:id;type:uuid;primaryKey"`
	Type      enums.TransactionType `gorm:"column:type;type:text;not null"`
	Quantity  int                   `gorm:"column:quantity;not null"`
	ProductID uuid.UUID             `gorm:"column:product_id;type:uuid;not null"`
	UserID    uuid.UUID             `gorm:"column:user_id;type:uuid;not null"`
	Product   *Product              `gorm:"foreignKey:ProductID"`
	User      *User                 `gorm:"foreignKey:UserID"`
	CreatedAt time.Time             `gorm:"column:created_at;autoCreateTime"`
}

func (t *StockTransaction) BeforeCreate(*gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
