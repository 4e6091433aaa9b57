package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"cardvault/internal/model"
)

// TransactionRepository persists the append-only transfer ledger. Entries
// are created inside the same database transaction as the balance writes
// and are never updated or deleted.
type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) error
	FindByCard(ctx context.Context, cardID uuid.UUID, page, size int) ([]model.Transaction, int64, error)
}

type transactionRepository struct {
	db *gorm.DB
}

// NewTransactionRepository creates a new transaction repository.
func NewTransactionRepository(db *gorm.DB) TransactionRepository {
	return &transactionRepository{db: db}
}

// Create appends a ledger entry.
func (r *transactionRepository) Create(ctx context.Context, txn *model.Transaction) error {
	if err := r.db.WithContext(ctx).Create(txn).Error; err != nil {
		return fmt.Errorf("create transaction: %w", err)
	}
	return nil
}

// FindByCard returns one page of ledger entries touching the card, newest first.
func (r *transactionRepository) FindByCard(ctx context.Context, cardID uuid.UUID, page, size int) ([]model.Transaction, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	query := r.db.WithContext(ctx).Model(&model.Transaction{}).
		Where("from_card_id = ? OR to_card_id = ?", cardID, cardID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count transactions: %w", err)
	}

	var txns []model.Transaction
	if err := query.Order("created_at DESC").
		Offset(page * size).Limit(size).
		Find(&txns).Error; err != nil {
		return nil, 0, fmt.Errorf("find transactions: %w", err)
	}
	return txns, total, nil
}
