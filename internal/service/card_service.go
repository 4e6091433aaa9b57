package service

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"cardvault/internal/cache"
	"cardvault/internal/crypto"
	"cardvault/internal/errors"
	"cardvault/internal/model"
	"cardvault/internal/repository"
)

const cardCacheTTL = 5 * time.Minute

var cardNumberPattern = regexp.MustCompile(`^\d{16}$`)

// CreateCardInput carries the fields for an administrative card creation.
type CreateCardInput struct {
	Number     string
	OwnerID    uuid.UUID
	ExpiryDate time.Time
	Balance    decimal.Decimal
}

// UpdateCardInput carries the optional fields of a partial card update.
// Nil fields are left untouched.
type UpdateCardInput struct {
	Number     *string
	ExpiryDate *time.Time
	Balance    *decimal.Decimal
}

// CardService covers the administrative card operations plus the owner-scoped
// card listing. Status changes go through the card status state machine.
type CardService interface {
	Create(ctx context.Context, in CreateCardInput) (*model.CardView, error)
	Update(ctx context.Context, id uuid.UUID, in UpdateCardInput) (*model.CardView, error)
	Block(ctx context.Context, id uuid.UUID) (*model.CardView, error)
	Activate(ctx context.Context, id uuid.UUID) (*model.CardView, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context) ([]model.CardView, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.CardView, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]model.CardView, int64, error)
}

type cardService struct {
	cardRepo repository.CardRepository
	userRepo repository.UserRepository
	cache    *cache.Client
}

// NewCardService creates a new card service.
func NewCardService(cardRepo repository.CardRepository, userRepo repository.UserRepository, cache *cache.Client) CardService {
	return &cardService{
		cardRepo: cardRepo,
		userRepo: userRepo,
		cache:    cache,
	}
}

// Create validates and persists a new card. New cards always start ACTIVE.
func (s *cardService) Create(ctx context.Context, in CreateCardInput) (*model.CardView, error) {
	if !cardNumberPattern.MatchString(in.Number) {
		return nil, errors.ErrCardNumberFormat
	}
	if !in.ExpiryDate.After(time.Now()) {
		return nil, errors.ErrExpiryInPast
	}
	if in.Balance.IsNegative() {
		return nil, errors.ErrNegativeBalance
	}
	if _, err := s.userRepo.FindByID(ctx, in.OwnerID); err != nil {
		return nil, err
	}

	card := &model.Card{
		Number:     in.Number,
		OwnerID:    in.OwnerID,
		ExpiryDate: in.ExpiryDate,
		Status:     model.CardStatusActive,
		Balance:    in.Balance,
	}
	if err := s.cardRepo.Create(ctx, card); err != nil {
		return nil, err
	}

	view := toCardView(card)
	return &view, nil
}

// Update applies a partial card update. The expiry date is only validated
// at creation time, so an update may set a past date deliberately.
func (s *cardService) Update(ctx context.Context, id uuid.UUID, in UpdateCardInput) (*model.CardView, error) {
	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Number != nil {
		if !cardNumberPattern.MatchString(*in.Number) {
			return nil, errors.ErrCardNumberFormat
		}
		card.Number = *in.Number
	}
	if in.ExpiryDate != nil {
		card.ExpiryDate = *in.ExpiryDate
	}
	if in.Balance != nil {
		if in.Balance.IsNegative() {
			return nil, errors.ErrNegativeBalance
		}
		card.Balance = *in.Balance
	}

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	view := toCardView(card)
	return &view, nil
}

// Block force-blocks a card (admin). Valid from ACTIVE and BLOCK_REQUESTED.
func (s *cardService) Block(ctx context.Context, id uuid.UUID) (*model.CardView, error) {
	return s.changeStatus(ctx, id, model.CardStatusBlocked)
}

// Activate reactivates a card (admin). Valid from BLOCKED and BLOCK_REQUESTED.
func (s *cardService) Activate(ctx context.Context, id uuid.UUID) (*model.CardView, error) {
	return s.changeStatus(ctx, id, model.CardStatusActive)
}

func (s *cardService) changeStatus(ctx context.Context, id uuid.UUID, target model.CardStatus) (*model.CardView, error) {
	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	next, err := card.Status.Transition(target)
	if err != nil {
		return nil, err
	}
	card.Status = next

	if err := s.cardRepo.Update(ctx, card); err != nil {
		return nil, err
	}
	s.invalidate(ctx, id)

	view := toCardView(card)
	return &view, nil
}

// Delete hard-deletes a card by id.
func (s *cardService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.cardRepo.DeleteByID(ctx, id); err != nil {
		return err
	}
	s.invalidate(ctx, id)
	return nil
}

// List returns every card in the system (admin).
func (s *cardService) List(ctx context.Context) ([]model.CardView, error) {
	cards, err := s.cardRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return toCardViews(cards), nil
}

// GetByID returns a single card view, served from cache when possible.
func (s *cardService) GetByID(ctx context.Context, id uuid.UUID) (*model.CardView, error) {
	if data, _ := s.cache.Get(ctx, s.cacheKey(id)); data != nil {
		var cached model.CardView
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, nil
		}
	}

	card, err := s.cardRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	view := toCardView(card)
	if payload, err := json.Marshal(view); err == nil {
		_ = s.cache.Set(ctx, s.cacheKey(id), payload, cardCacheTTL)
	}
	return &view, nil
}

// ListByOwner returns one page of a user's cards plus the total count.
func (s *cardService) ListByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]model.CardView, int64, error) {
	cards, total, err := s.cardRepo.FindByOwner(ctx, ownerID, page, size)
	if err != nil {
		return nil, 0, err
	}
	return toCardViews(cards), total, nil
}

func (s *cardService) cacheKey(id uuid.UUID) string {
	return fmt.Sprintf("card:%s", id.String())
}

func (s *cardService) invalidate(ctx context.Context, id uuid.UUID) {
	_ = s.cache.Delete(ctx, s.cacheKey(id))
}

// toCardView projects a card for the presentation layer, masking the number.
func toCardView(card *model.Card) model.CardView {
	return model.CardView{
		ID:           card.ID,
		MaskedNumber: crypto.Mask(card.Number),
		OwnerID:      card.OwnerID,
		Status:       card.Status,
		Balance:      card.Balance,
		ExpiryDate:   card.ExpiryDate,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}

func toCardViews(cards []model.Card) []model.CardView {
	views := make([]model.CardView, 0, len(cards))
	for i := range cards {
		views = append(views, toCardView(&cards[i]))
	}
	return views
}
