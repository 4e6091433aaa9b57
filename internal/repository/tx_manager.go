package repository

import (
	"context"

	"gorm.io/gorm"

	"cardvault/internal/crypto"
)

// TxFunc runs against repositories bound to a single database transaction.
type TxFunc func(ctx context.Context, cards CardRepository, txns TransactionRepository) error

// TxManager runs a function inside one storage transaction so that balance
// writes and the ledger entry commit or roll back together. Row locks taken
// through CardRepository.FindByIDForUpdate are held until the function
// returns.
type TxManager interface {
	WithTransaction(ctx context.Context, fn TxFunc) error
}

type txManager struct {
	db     *gorm.DB
	cipher *crypto.CardCipher
}

// NewTxManager creates a transaction manager over the shared gorm handle.
func NewTxManager(db *gorm.DB, cipher *crypto.CardCipher) TxManager {
	return &txManager{db: db, cipher: cipher}
}

// WithTransaction executes fn within a database transaction.
func (m *txManager) WithTransaction(ctx context.Context, fn TxFunc) error {
	return m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, NewCardRepository(tx, m.cipher), NewTransactionRepository(tx))
	})
}
