package security

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strings"

	"golang.org/x/crypto/hkdf"
)

const (
	sealedValueVersion = "v1"
	sealedPurposeLabel = "bujo.sealed."
)

var ErrSealedValueInvalid = errors.New("invalid sealed value")

// Sealer encrypts and authenticates small values such as cookie payloads.
// A purpose string is bound into every value so one cookie cannot be
// replayed as another.
type Sealer struct {
	aead cipher.AEAD
}

func NewSealer(secretKey []byte) (*Sealer, error) {
	if len(secretKey) == 0 {
		return nil, errors.New("sealer secret key is required")
	}

	key := make([]byte, 32)
	reader := hkdf.New(sha256.New, secretKey, nil, []byte("bujo.sealer.v1"))
	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("derive sealer key: %w", err)
	}

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("init sealer cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("init sealer aead: %w", err)
	}
	return &Sealer{aead: aead}, nil
}

func (sealer *Sealer) Seal(purpose string, plaintext []byte) (string, error) {
	additional, err := sealer.additionalData(purpose)
	if err != nil {
		return "", err
	}

	nonce := make([]byte, sealer.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return "", fmt.Errorf("generate nonce: %w", err)
	}

	payload := sealer.aead.Seal(nonce, nonce, plaintext, additional)
	return sealedValueVersion + "." + base64.RawURLEncoding.EncodeToString(payload), nil
}

func (sealer *Sealer) Open(purpose string, rawValue string) ([]byte, error) {
	additional, err := sealer.additionalData(purpose)
	if err != nil {
		return nil, err
	}

	version, encoded, found := strings.Cut(strings.TrimSpace(rawValue), ".")
	if !found || version != sealedValueVersion || encoded == "" {
		return nil, ErrSealedValueInvalid
	}
	payload, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil {
		return nil, ErrSealedValueInvalid
	}

	nonceSize := sealer.aead.NonceSize()
	if len(payload) <= nonceSize {
		return nil, ErrSealedValueInvalid
	}
	plaintext, err := sealer.aead.Open(nil, payload[:nonceSize], payload[nonceSize:], additional)
	if err != nil {
		return nil, ErrSealedValueInvalid
	}
	return plaintext, nil
}

func (sealer *Sealer) additionalData(purpose string) ([]byte, error) {
	if sealer == nil || sealer.aead == nil {
		return nil, errors.New("sealer is not initialized")
	}
	trimmed := strings.TrimSpace(purpose)
	if trimmed == "" {
		return nil, errors.New("sealed value purpose is required")
	}
	return []byte(sealedPurposeLabel + trimmed), nil
}
