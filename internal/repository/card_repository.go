package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cardvault/internal/crypto"
	"cardvault/internal/errors"
	"cardvault/internal/model"
)

// CardRepository defines card persistence operations. Card numbers cross
// this boundary in plaintext: the repository encrypts on write and decrypts
// on read, so callers never handle ciphertext.
type CardRepository interface {
	Create(ctx context.Context, card *model.Card) error
	Update(ctx context.Context, card *model.Card) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error)
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error)
	FindByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]model.Card, int64, error)
	FindAll(ctx context.Context) ([]model.Card, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
	ExistsByID(ctx context.Context, id uuid.UUID) (bool, error)
}

type cardRepository struct {
	db     *gorm.DB
	cipher *crypto.CardCipher
}

// NewCardRepository creates a new card repository.
func NewCardRepository(db *gorm.DB, cipher *crypto.CardCipher) CardRepository {
	return &cardRepository{db: db, cipher: cipher}
}

// Create creates a new card, encrypting its number. A duplicate number hits
// the unique index on the ciphertext column (encryption is deterministic).
func (r *cardRepository) Create(ctx context.Context, card *model.Card) error {
	if err := r.seal(card); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Create(card).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.ErrDuplicateCardNumber
		}
		return fmt.Errorf("create card: %w", err)
	}
	return nil
}

// Update updates an existing card.
func (r *cardRepository) Update(ctx context.Context, card *model.Card) error {
	if err := r.seal(card); err != nil {
		return err
	}
	if err := r.db.WithContext(ctx).Save(card).Error; err != nil {
		if err == gorm.ErrDuplicatedKey {
			return errors.ErrDuplicateCardNumber
		}
		return fmt.Errorf("update card: %w", err)
	}
	return nil
}

// FindByID finds a card by ID.
func (r *cardRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&card).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card: %w", err)
	}
	if err := r.open(&card); err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByIDForUpdate finds a card by ID with a row-level lock. Must run
// inside a transaction started through TxManager.
func (r *cardRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Card, error) {
	var card model.Card
	if err := r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).First(&card).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, errors.ErrCardNotFound
		}
		return nil, fmt.Errorf("find card for update: %w", err)
	}
	if err := r.open(&card); err != nil {
		return nil, err
	}
	return &card, nil
}

// FindByOwner returns one page of a user's cards plus the total count.
func (r *cardRepository) FindByOwner(ctx context.Context, ownerID uuid.UUID, page, size int) ([]model.Card, int64, error) {
	if page < 0 {
		page = 0
	}
	if size <= 0 {
		size = 10
	}

	var total int64
	if err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count cards: %w", err)
	}

	var cards []model.Card
	if err := r.db.WithContext(ctx).Where("owner_id = ?", ownerID).
		Order("created_at").Offset(page * size).Limit(size).
		Find(&cards).Error; err != nil {
		return nil, 0, fmt.Errorf("find cards by owner: %w", err)
	}
	for i := range cards {
		if err := r.open(&cards[i]); err != nil {
			return nil, 0, err
		}
	}
	return cards, total, nil
}

// FindAll returns every card in the system.
func (r *cardRepository) FindAll(ctx context.Context) ([]model.Card, error) {
	var cards []model.Card
	if err := r.db.WithContext(ctx).Order("created_at").Find(&cards).Error; err != nil {
		return nil, fmt.Errorf("find all cards: %w", err)
	}
	for i := range cards {
		if err := r.open(&cards[i]); err != nil {
			return nil, err
		}
	}
	return cards, nil
}

// DeleteByID hard-deletes a card. Deleting a missing id is an error.
func (r *cardRepository) DeleteByID(ctx context.Context, id uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", id).Delete(&model.Card{})
	if res.Error != nil {
		return fmt.Errorf("delete card: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return errors.ErrCardNotFound
	}
	return nil
}

// ExistsByID reports whether a card with the given id exists.
func (r *cardRepository) ExistsByID(ctx context.Context, id uuid.UUID) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&model.Card{}).
		Where("id = ?", id).Count(&count).Error; err != nil {
		return false, fmt.Errorf("check card exists: %w", err)
	}
	return count > 0, nil
}

// seal encrypts the plaintext number into the persisted column.
func (r *cardRepository) seal(card *model.Card) error {
	ciphertext, err := r.cipher.Encode(card.Number)
	if err != nil {
		return err
	}
	card.NumberCiphertext = ciphertext
	return nil
}

// open decrypts the persisted column back into the plaintext number.
func (r *cardRepository) open(card *model.Card) error {
	plain, err := r.cipher.Decode(card.NumberCiphertext)
	if err != nil {
		return err
	}
	card.Number = plain
	return nil
}
