package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cardvault/internal/auth"
	"cardvault/internal/cache"
	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/repository"
)

// TransferService covers the self-service card operations: transfers
// between a user's own cards, block requests, balance reads, and the
// per-card ledger. Every method takes the caller's identity explicitly and
// authorizes against card ownership before touching anything.
type TransferService interface {
	Transfer(ctx context.Context, fromCardID, toCardID uuid.UUID, amount decimal.Decimal, identity auth.Identity) (*model.Transaction, error)
	RequestBlock(ctx context.Context, cardID uuid.UUID, identity auth.Identity) (*model.CardView, error)
	GetBalance(ctx context.Context, cardID uuid.UUID, identity auth.Identity) (decimal.Decimal, error)
	ListTransactions(ctx context.Context, cardID uuid.UUID, identity auth.Identity, page, size int) ([]model.Transaction, int64, error)
}

type transferService struct {
	cardRepo repository.CardRepository
	txnRepo  repository.TransactionRepository
	txm      repository.TxManager
	cache    *cache.Client
}

// NewTransferService creates a new transfer service.
func NewTransferService(
	cardRepo repository.CardRepository,
	txnRepo repository.TransactionRepository,
	txm repository.TxManager,
	cache *cache.Client,
) TransferService {
	return &transferService{
		cardRepo: cardRepo,
		txnRepo:  txnRepo,
		txm:      txm,
		cache:    cache,
	}
}

// Transfer atomically moves amount between two cards owned by the caller
// and appends one ledger entry. Both balance writes and the ledger insert
// commit together or not at all.
func (s *transferService) Transfer(ctx context.Context, fromCardID, toCardID uuid.UUID, amount decimal.Decimal, identity auth.Identity) (*model.Transaction, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, errors.ErrInvalidAmount
	}
	if fromCardID == toCardID {
		return nil, errors.ErrSameCard
	}

	txn := &model.Transaction{
		FromCardID: fromCardID,
		ToCardID:   toCardID,
		Amount:     amount,
	}

	err := s.txm.WithTransaction(ctx, func(ctx context.Context, cards repository.CardRepository, txns repository.TransactionRepository) error {
		// Lock both rows in ascending id order so two transfers touching
		// the same pair in opposite directions cannot deadlock.
		firstID, secondID := fromCardID, toCardID
		if bytes.Compare(firstID[:], secondID[:]) > 0 {
			firstID, secondID = secondID, firstID
		}

		first, err := cards.FindByIDForUpdate(ctx, firstID)
		if err != nil {
			return err
		}
		second, err := cards.FindByIDForUpdate(ctx, secondID)
		if err != nil {
			return err
		}

		from, to := first, second
		if from.ID != fromCardID {
			from, to = second, first
		}

		// The caller must own both ends of the transfer.
		if err := auth.AuthorizeCardAccess(identity, from); err != nil {
			return err
		}
		if err := auth.AuthorizeCardAccess(identity, to); err != nil {
			return err
		}

		if from.Status == model.CardStatusBlocked || to.Status == model.CardStatusBlocked {
			return errors.ErrCardBlocked
		}

		if from.Balance.LessThan(amount) {
			return errors.ErrInsufficientFunds
		}

		from.Balance = from.Balance.Sub(amount)
		to.Balance = to.Balance.Add(amount)

		if err := cards.Update(ctx, from); err != nil {
			return fmt.Errorf("debit source card: %w", err)
		}
		if err := cards.Update(ctx, to); err != nil {
			return fmt.Errorf("credit destination card: %w", err)
		}

		return txns.Create(ctx, txn)
	})
	if err != nil {
		return nil, err
	}

	s.invalidateCard(ctx, fromCardID)
	s.invalidateCard(ctx, toCardID)

	return txn, nil
}

// RequestBlock moves an owned card from ACTIVE to BLOCK_REQUESTED. A card
// already blocked or already awaiting a block fails the transition check,
// so double submission is rejected without changing anything.
func (s *transferService) RequestBlock(ctx context.Context, cardID uuid.UUID, identity auth.Identity) (*model.CardView, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, err
	}
	if err := auth.AuthorizeCardAccess(identity, card); err != nil {
		return nil, err
	}

	next, err := card.Status.Transition(model.CardStatusBlockRequested)
	if err != nil {
		return nil, err
	}
	card.Status = next

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	s.invalidateCard(ctx, cardID)

	view := toCardView(card)
	return &view, nil
}

// GetBalance returns the current balance of an owned card.
func (s *transferService) GetBalance(ctx context.Context, cardID uuid.UUID, identity auth.Identity) (decimal.Decimal, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return decimal.Zero, err
	}
	if err := auth.AuthorizeCardAccess(identity, card); err != nil {
		return decimal.Zero, err
	}
	return card.Balance, nil
}

// ListTransactions returns one page of the ledger entries touching an owned card.
func (s *transferService) ListTransactions(ctx context.Context, cardID uuid.UUID, identity auth.Identity, page, size int) ([]model.Transaction, int64, error) {
	card, err := s.cardRepo.FindByID(ctx, cardID)
	if err != nil {
		return nil, 0, err
	}
	if err := auth.AuthorizeCardAccess(identity, card); err != nil {
		return nil, 0, err
	}
	return s.txnRepo.FindByCard(ctx, cardID, page, size)
}

func (s *transferService) invalidateCard(ctx context.Context, cardID uuid.UUID) {
	_ = s.cache.Delete(ctx, fmt.Sprintf("card:%s", cardID.String()))
}
