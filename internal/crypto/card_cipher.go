package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"fmt"
	"regexp"

	"cardvault/internal/errors"
)

const gcmNonceSize = 12

var cardNumberPattern = regexp.MustCompile(`^\d{16}$`)

// CardCipher encrypts and decrypts card numbers for storage.
//
// Encryption is AES-256-GCM with a synthetic nonce derived from
// HMAC-SHA256(key, plaintext). Deriving the nonce from the plaintext makes
// the output deterministic, so equal card numbers always produce equal
// ciphertexts and the unique index on the ciphertext column enforces
// card-number uniqueness.
type CardCipher struct {
	aead   cipher.AEAD
	macKey []byte
}

// NewCardCipher builds a cipher from a 32-byte key. The key comes from
// process configuration and is injected once at startup.
func NewCardCipher(key []byte) (*CardCipher, error) {
	if len(key) != 32 {
		return nil, fmt.Errorf("%w: key must be 32 bytes, got %d", errors.ErrCipher, len(key))
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCipher, err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", errors.ErrCipher, err)
	}

	mac := hmac.New(sha256.New, key)
	mac.Write([]byte("card-number-nonce"))

	return &CardCipher{
		aead:   aead,
		macKey: mac.Sum(nil),
	}, nil
}

// Encode encrypts a 16-digit card number into a base64 ciphertext.
func (c *CardCipher) Encode(plain string) (string, error) {
	if !cardNumberPattern.MatchString(plain) {
		return "", fmt.Errorf("%w: input is not a 16-digit number", errors.ErrCipher)
	}

	nonce := c.deriveNonce(plain)
	sealed := c.aead.Seal(nonce, nonce, []byte(plain), nil)
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// Decode reverses Encode. Malformed or tampered ciphertext fails the GCM
// authentication check and is reported as a cipher error.
func (c *CardCipher) Decode(ciphertext string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(ciphertext)
	if err != nil {
		return "", fmt.Errorf("%w: malformed ciphertext: %v", errors.ErrCipher, err)
	}
	if len(raw) < gcmNonceSize {
		return "", fmt.Errorf("%w: ciphertext too short", errors.ErrCipher)
	}

	nonce, sealed := raw[:gcmNonceSize], raw[gcmNonceSize:]
	plain, err := c.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("%w: %v", errors.ErrCipher, err)
	}
	return string(plain), nil
}

func (c *CardCipher) deriveNonce(plain string) []byte {
	mac := hmac.New(sha256.New, c.macKey)
	mac.Write([]byte(plain))
	return mac.Sum(nil)[:gcmNonceSize]
}

// Mask returns the display form of a card number, revealing only the last
// four digits. Missing or too-short input yields an all-asterisk placeholder.
func Mask(plain string) string {
	if len(plain) < 4 {
		return "****"
	}
	return "**** **** **** " + plain[len(plain)-4:]
}
