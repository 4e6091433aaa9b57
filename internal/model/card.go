package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Card represents a bank card owned by a single user.
//
// Number holds the plaintext 16-digit card number and is never persisted
// directly: the repository layer encrypts it into NumberCiphertext on write
// and decrypts it back on read, so everything above the repository works
// with plaintext.
type Card struct {
	ID               uuid.UUID       `json:"id" gorm:"type:char(36);primaryKey"`
	Number           string          `json:"-" gorm:"-"`
	NumberCiphertext string          `json:"-" gorm:"column:card_number_ciphertext;uniqueIndex;size:128;not null"`
	OwnerID          uuid.UUID       `json:"owner_id" gorm:"type:char(36);not null;index"`
	ExpiryDate       time.Time       `json:"expiry_date" gorm:"not null"`
	Status           CardStatus      `json:"status" gorm:"type:varchar(20);not null;default:'ACTIVE';index"`
	Balance          decimal.Decimal `json:"balance" gorm:"type:decimal(20,2);not null;default:0"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// TableName overrides the default table name.
func (Card) TableName() string {
	return "cards"
}

// BeforeCreate sets UUID before creating the record.
func (c *Card) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// CardView is the outward projection of a card. It carries the masked
// number only; the plaintext number never leaves the service layer.
type CardView struct {
	ID           uuid.UUID       `json:"id"`
	MaskedNumber string          `json:"masked_number"`
	OwnerID      uuid.UUID       `json:"owner_id"`
	Status       CardStatus      `json:"status"`
	Balance      decimal.Decimal `json:"balance"`
	ExpiryDate   time.Time       `json:"expiry_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}
