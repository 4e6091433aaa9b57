package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Transaction is an immutable ledger entry recording a completed transfer
// between two cards. Rows are only ever inserted, never updated or deleted.
type Transaction struct {
	ID         uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	FromCardID uuid.UUID       `json:"from_card_id" gorm:"type:char(36);not null;index"`
	ToCardID   uuid.UUID       `json:"to_card_id" gorm:"type:char(36);not null;index"`
	Amount     decimal.Decimal `json:"amount" gorm:"type:decimal(20,2);not null"`
	CreatedAt  time.Time       `json:"created_at"`
}

// TableName overrides the default table name.
func (Transaction) TableName() string {
	return "transactions"
}

// BeforeCreate sets UUID before creating the record.
func (t *Transaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
