package crypto

import (
	"encoding/base64"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testHexKey = "000102030405060708090a0b0c0d0e0f101112131415161718191a1b1c1d1e1f"

func TestEncryptDecryptRoundTrip(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)

	tests := []string{
		"runner@example.com",
		"p4ssw0rd with spaces",
		"unicode: héllo wörld 漢字",
		strings.Repeat("long", 500),
	}

	for _, plaintext := range tests {
		blob, err := vault.Encrypt(plaintext)
		require.NoError(t, err)

		decrypted, err := vault.Decrypt(blob)
		require.NoError(t, err)
		assert.Equal(t, plaintext, decrypted)
	}
}

func TestEncryptProducesFreshBlobs(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)

	first, err := vault.Encrypt("same input")
	require.NoError(t, err)
	second, err := vault.Encrypt("same input")
	require.NoError(t, err)

	// Fresh salt and nonce per call.
	assert.NotEqual(t, first, second)
}

func TestDecryptTamperedBlobFails(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)

	blob, err := vault.Encrypt("secret credentials")
	require.NoError(t, err)

	raw, err := base64.StdEncoding.DecodeString(blob)
	require.NoError(t, err)

	// Flip one bit in every region past the salt: nonce, tag and ciphertext
	// must each cause an authentication failure.
	for _, offset := range []int{saltLength, tagPosition, payloadPosition} {
		tampered := make([]byte, len(raw))
		copy(tampered, raw)
		tampered[offset] ^= 0x01

		_, err := vault.Decrypt(base64.StdEncoding.EncodeToString(tampered))
		assert.Error(t, err, "bit flip at offset %d should fail authentication", offset)
	}
}

func TestDecryptWithDifferentKeyFails(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)
	other, err := NewVault("f1e2d3c4b5a69788f1e2d3c4b5a69788f1e2d3c4b5a69788f1e2d3c4b5a69788")
	require.NoError(t, err)

	blob, err := vault.Encrypt("secret")
	require.NoError(t, err)

	_, err = other.Decrypt(blob)
	assert.Error(t, err)
}

func TestEmptyInputRejected(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)

	_, err = vault.Encrypt("")
	assert.ErrorIs(t, err, ErrEmptyInput)

	_, err = vault.Decrypt("")
	assert.ErrorIs(t, err, ErrEmptyInput)
}

func TestShortBlobRejected(t *testing.T) {
	vault, err := NewVault(testHexKey)
	require.NoError(t, err)

	short := base64.StdEncoding.EncodeToString([]byte("too short"))
	_, err = vault.Decrypt(short)
	assert.Error(t, err)
}

func TestNewVaultKeyHandling(t *testing.T) {
	_, err := NewVault("")
	assert.ErrorIs(t, err, ErrNoKey)

	// Non-hex key of arbitrary length is accepted (truncated/padded) and
	// still round-trips against itself.
	vault, err := NewVault("short-utf8-key")
	require.NoError(t, err)

	blob, err := vault.Encrypt("data")
	require.NoError(t, err)
	out, err := vault.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "data", out)

	// A 32-char non-hex key is used as raw UTF-8 bytes.
	raw32, err := NewVault("abcdefghijklmnopqrstuvwxyz012345")
	require.NoError(t, err)
	blob, err = raw32.Encrypt("data")
	require.NoError(t, err)
	out, err = raw32.Decrypt(blob)
	require.NoError(t, err)
	assert.Equal(t, "data", out)
}
