package repository

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rferraz/Wallet-Analytics-Backend/internal/apperrors"
	"github.com/rferraz/Wallet-Analytics-Backend/internal/security"
)

// ProviderTokenKey is the settings key holding the market-data provider API
// token. The value is stored encrypted.
const ProviderTokenKey = "provider_token"

// SettingsRepository provides data access for the system_setting table.
// Values written through the secret methods are encrypted at rest.
type SettingsRepository struct {
	db     *sql.DB
	cipher *security.TokenCipher
}

// NewSettingsRepository creates a new SettingsRepository. The cipher may be
// nil when no fernet key is configured; secret methods then fail explicitly
// instead of silently storing plaintext.
func NewSettingsRepository(db *sql.DB, cipher *security.TokenCipher) *SettingsRepository {
	return &SettingsRepository{db: db, cipher: cipher}
}

// Set stores a plaintext setting value under the given key.
func (r *SettingsRepository) Set(key, value string) error {
	query := `
		INSERT INTO system_setting (id, "key", value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT ("key") DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at
	`
	if _, err := r.db.Exec(query, uuid.New().String(), key, value, time.Now().UTC()); err != nil {
		return fmt.Errorf("failed to store setting %s: %w", key, err)
	}
	return nil
}

// Get returns a plaintext setting value, or apperrors.ErrSettingNotFound.
func (r *SettingsRepository) Get(key string) (string, error) {
	var value string
	err := r.db.QueryRow(`SELECT value FROM system_setting WHERE "key" = ?`, key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", fmt.Errorf("%w: %s", apperrors.ErrSettingNotFound, key)
	}
	if err != nil {
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}
	return value, nil
}

// SetProviderToken encrypts and stores the market-data provider API token.
func (r *SettingsRepository) SetProviderToken(token string) error {
	if r.cipher == nil {
		return apperrors.ErrNoFernetKey
	}
	encrypted, err := r.cipher.Encrypt(token)
	if err != nil {
		return err
	}
	return r.Set(ProviderTokenKey, encrypted)
}

// GetProviderToken decrypts and returns the stored provider API token.
// Returns an empty token without error when none has been configured.
func (r *SettingsRepository) GetProviderToken() (string, error) {
	encrypted, err := r.Get(ProviderTokenKey)
	if errors.Is(err, apperrors.ErrSettingNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if r.cipher == nil {
		return "", apperrors.ErrNoFernetKey
	}
	return r.cipher.Decrypt(encrypted)
}
