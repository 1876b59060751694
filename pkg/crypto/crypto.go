package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"log"
)

// Blob layout: salt || nonce || auth tag || ciphertext, base64-encoded.
// The salt is not used for key derivation (the key comes from configuration)
// but is kept in the layout for compatibility with previously stored blobs.
const (
	saltLength      = 64
	nonceLength     = 16
	tagLength       = 16
	keyLength       = 32
	tagPosition     = saltLength + nonceLength
	payloadPosition = tagPosition + tagLength
)

var (
	ErrEmptyInput = errors.New("cannot encrypt or decrypt empty input")
	ErrNoKey      = errors.New("encryption key not configured")
)

// Vault encrypts and decrypts credentials with AES-256-GCM using a single
// process-wide key loaded at startup.
type Vault struct {
	key []byte
}

// NewVault builds a Vault from the configured key material. A 64-character hex
// string is decoded to raw bytes; anything else is used as UTF-8 bytes
// truncated or zero-padded to 32 bytes, which is logged as a warning because
// padded keys have less entropy than they appear to.
func NewVault(keyMaterial string) (*Vault, error) {
	if keyMaterial == "" {
		return nil, ErrNoKey
	}

	if len(keyMaterial) == keyLength*2 {
		if decoded, err := hex.DecodeString(keyMaterial); err == nil {
			return &Vault{key: decoded}, nil
		}
	}

	if len(keyMaterial) != keyLength {
		log.Printf("[WARN] ENCRYPTION_KEY should be 32 bytes (64 hex characters), got %d characters", len(keyMaterial))
	}

	key := make([]byte, keyLength)
	copy(key, []byte(keyMaterial))
	return &Vault{key: key}, nil
}

// Encrypt produces an opaque base64 blob for the given plaintext.
func (v *Vault) Encrypt(plaintext string) (string, error) {
	if plaintext == "" {
		return "", ErrEmptyInput
	}

	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("failed to generate salt: %w", err)
	}

	nonce := make([]byte, nonceLength)
	if _, err := rand.Read(nonce); err != nil {
		return "", fmt.Errorf("failed to generate nonce: %w", err)
	}

	gcm, err := v.newGCM()
	if err != nil {
		return "", err
	}

	// Seal appends the tag after the ciphertext; split it back out so the
	// stored layout stays salt||nonce||tag||ciphertext.
	sealed := gcm.Seal(nil, nonce, []byte(plaintext), nil)
	ciphertext := sealed[:len(sealed)-tagLength]
	tag := sealed[len(sealed)-tagLength:]

	combined := make([]byte, 0, payloadPosition+len(ciphertext))
	combined = append(combined, salt...)
	combined = append(combined, nonce...)
	combined = append(combined, tag...)
	combined = append(combined, ciphertext...)

	return base64.StdEncoding.EncodeToString(combined), nil
}

// Decrypt reverses Encrypt. It fails with an authentication error if the blob
// was tampered with or encrypted under a different key.
func (v *Vault) Decrypt(blob string) (string, error) {
	if blob == "" {
		return "", ErrEmptyInput
	}

	data, err := base64.StdEncoding.DecodeString(blob)
	if err != nil {
		return "", fmt.Errorf("invalid encrypted blob: %w", err)
	}

	if len(data) < payloadPosition {
		return "", errors.New("encrypted blob too short")
	}

	nonce := data[saltLength:tagPosition]
	tag := data[tagPosition:payloadPosition]
	ciphertext := data[payloadPosition:]

	gcm, err := v.newGCM()
	if err != nil {
		return "", err
	}

	sealed := make([]byte, 0, len(ciphertext)+tagLength)
	sealed = append(sealed, ciphertext...)
	sealed = append(sealed, tag...)

	plaintext, err := gcm.Open(nil, nonce, sealed, nil)
	if err != nil {
		return "", fmt.Errorf("decryption failed: %w", err)
	}

	return string(plaintext), nil
}

func (v *Vault) newGCM() (cipher.AEAD, error) {
	block, err := aes.NewCipher(v.key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCMWithNonceSize(block, nonceLength)
}
