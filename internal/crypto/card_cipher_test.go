package crypto

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cardvault/internal/errors"
)

func testKey() []byte {
	return []byte("0123456789abcdef0123456789abcdef")
}

func TestNewCardCipher_KeyLength(t *testing.T) {
	_, err := NewCardCipher([]byte("short"))
	assert.ErrorIs(t, err, errors.ErrCipher)

	c, err := NewCardCipher(testKey())
	require.NoError(t, err)
	assert.NotNil(t, c)
}

func TestCardCipher_RoundTrip(t *testing.T) {
	c, err := NewCardCipher(testKey())
	require.NoError(t, err)

	numbers := []string{
		"4000001234567890",
		"0000000000000000",
		"9999999999999999",
		"4539578763621486",
	}
	for _, number := range numbers {
		ciphertext, err := c.Encode(number)
		require.NoError(t, err)
		assert.NotEqual(t, number, ciphertext)
		assert.NotContains(t, ciphertext, number[4:12])

		plain, err := c.Decode(ciphertext)
		require.NoError(t, err)
		assert.Equal(t, number, plain)
	}
}

func TestCardCipher_Deterministic(t *testing.T) {
	c, err := NewCardCipher(testKey())
	require.NoError(t, err)

	first, err := c.Encode("4000001234567890")
	require.NoError(t, err)
	second, err := c.Encode("4000001234567890")
	require.NoError(t, err)

	// Equal plaintexts must produce equal ciphertexts so the unique index
	// on the ciphertext column can reject duplicate card numbers.
	assert.Equal(t, first, second)

	other, err := c.Encode("4000009876543210")
	require.NoError(t, err)
	assert.NotEqual(t, first, other)
}

func TestCardCipher_EncodeRejectsBadInput(t *testing.T) {
	c, err := NewCardCipher(testKey())
	require.NoError(t, err)

	for _, input := range []string{
		"",
		"1234",
		"400000123456789",   // 15 digits
		"40000012345678901", // 17 digits
		"400000123456789a",
		"4000 0012 3456 7890",
	} {
		_, err := c.Encode(input)
		assert.ErrorIs(t, err, errors.ErrCipher, "input %q", input)
	}
}

func TestCardCipher_DecodeRejectsCorruptCiphertext(t *testing.T) {
	c, err := NewCardCipher(testKey())
	require.NoError(t, err)

	_, err = c.Decode("not base64 at all!!!")
	assert.ErrorIs(t, err, errors.ErrCipher)

	_, err = c.Decode("c2hvcnQ=") // valid base64, too short for a nonce
	assert.ErrorIs(t, err, errors.ErrCipher)

	ciphertext, err := c.Encode("4000001234567890")
	require.NoError(t, err)

	// Flip a character; GCM authentication must fail.
	tampered := []byte(ciphertext)
	if tampered[20] == 'A' {
		tampered[20] = 'B'
	} else {
		tampered[20] = 'A'
	}
	_, err = c.Decode(string(tampered))
	assert.ErrorIs(t, err, errors.ErrCipher)
}

func TestCardCipher_DecodeWrongKey(t *testing.T) {
	c1, err := NewCardCipher(testKey())
	require.NoError(t, err)
	c2, err := NewCardCipher([]byte("fedcba9876543210fedcba9876543210"))
	require.NoError(t, err)

	ciphertext, err := c1.Encode("4000001234567890")
	require.NoError(t, err)

	_, err = c2.Decode(ciphertext)
	assert.ErrorIs(t, err, errors.ErrCipher)
}

func TestMask(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"full number", "4000001234567890", "**** **** **** 7890"},
		{"empty", "", "****"},
		{"too short", "789", "****"},
		{"exactly four", "7890", "**** **** **** 7890"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Mask(tt.input))
		})
	}
}

func TestMask_RevealsOnlyLastFour(t *testing.T) {
	number := "4128003719265487"
	masked := Mask(number)

	assert.True(t, strings.HasSuffix(masked, number[12:]))
	// No digit from the hidden prefix may survive masking.
	for _, r := range masked[:len(masked)-4] {
		assert.NotContains(t, "0123456789", string(r))
	}
}
