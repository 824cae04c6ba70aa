// Package security encrypts secrets at rest. The market-data provider token
// is stored in the settings table as a fernet token rather than plaintext.
package security

import (
	"fmt"

	"github.com/fernet/fernet-go"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
)

// TokenCipher encrypts and decrypts short secrets with a single fernet key.
type TokenCipher struct {
	key *fernet.Key
}

// NewTokenCipher builds a cipher from a base64-encoded fernet key, typically
// taken from the environment.
func NewTokenCipher(encodedKey string) (*TokenCipher, error) {
	if encodedKey == "" {
		return nil, apperrors.ErrNoFernetKey
	}
	key, err := fernet.DecodeKey(encodedKey)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrInvalidFernetKey, err)
	}
	return &TokenCipher{key: key}, nil
}

// Encrypt returns the fernet token for a plaintext secret.
func (c *TokenCipher) Encrypt(plaintext string) (string, error) {
	token, err := fernet.EncryptAndSign([]byte(plaintext), c.key)
	if err != nil {
		return "", fmt.Errorf("failed to encrypt token: %w", err)
	}
	return string(token), nil
}

// Decrypt verifies and decrypts a fernet token. Tokens do not expire; the
// stored secret stays valid until replaced.
func (c *TokenCipher) Decrypt(ciphertext string) (string, error) {
	plaintext := fernet.VerifyAndDecrypt([]byte(ciphertext), 0, []*fernet.Key{c.key})
	if plaintext == nil {
		return "", fmt.Errorf("failed to decrypt token: %w", apperrors.ErrInvalidFernetKey)
	}
	return string(plaintext), nil
}
