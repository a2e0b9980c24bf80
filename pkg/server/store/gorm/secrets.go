package gorm

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure SecretsStore implements store.SecretsStore
var _ store.SecretsStore = (*SecretsStore)(nil)

// SecretsStore implements store.SecretsStore using GORM.
// The db session must carry a cipher.
type SecretsStore struct {
	db *gorm.DB
}

// NewSecretsStore creates a new SecretsStore
func NewSecretsStore(db *gorm.DB) *SecretsStore {
	return &SecretsStore{db: db}
}

func toStoreSecret(s model.Secret) store.Secret {
	return store.Secret{
		ID:            s.ID,
		EnvironmentID: s.EnvironmentID,
		Key:           s.Key,
		Value:         s.Value,
		Version:       s.Version,
		UpdatedAt:     s.UpdatedAt,
	}
}

// ListSecrets returns the decrypted secrets of an environment sorted by key
func (s *SecretsStore) ListSecrets(environmentID string) ([]store.Secret, error) {
	var rows []model.Secret
	if err := s.db.Where("environment_id = ?", environmentID).Order("key").Find(&rows).Error; err != nil {
		return nil, err
	}

	secrets := make([]store.Secret, 0, len(rows))
	for _, row := range rows {
		secrets = append(secrets, toStoreSecret(row))
	}
	return secrets, nil
}

// GetSecret retrieves a secret by environment and key
func (s *SecretsStore) GetSecret(environmentID, key string) (*store.Secret, error) {
	var secret model.Secret
	tx := s.db.Where("environment_id = ? AND key = ?", environmentID, key).First(&secret)
	if tx.Error != nil {
		if errors.Is(tx.Error, gorm.ErrRecordNotFound) {
			return nil, store.ErrSecretNotFound
		}
		return nil, tx.Error
	}

	out := toStoreSecret(secret)
	return &out, nil
}

type secretVersion struct {
	ID      string
	Version int
}

func lockSecret(tx *gorm.DB, environmentID, key string) (*secretVersion, error) {
	var existing secretVersion
	res := tx.Table("secrets").
		Select("id, version").
		Where("environment_id = ? AND key = ?", environmentID, key).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Limit(1).
		Scan(&existing)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, nil
	}
	return &existing, nil
}

// UpsertSecret inserts a secret or replaces its value and bumps its version.
// An insert that loses a race with a concurrent first write falls back to
// updating the winner's row.
func (s *SecretsStore) UpsertSecret(environmentID, key string, value []byte, userID string) (string, error) {
	var id string

	err := s.db.Transaction(func(tx *gorm.DB) error {
		existing, err := lockSecret(tx, environmentID, key)
		if err != nil {
			return err
		}

		if existing == nil {
			secret := model.Secret{
				EnvironmentID: environmentID,
				Key:           key,
				Value:         value,
				CreatedBy:     userID,
			}
			res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&secret)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected > 0 {
				id = secret.ID
				return nil
			}
			if existing, err = lockSecret(tx, environmentID, key); err != nil {
				return err
			}
			if existing == nil {
				return fmt.Errorf("secret %s conflicts with an existing row", key)
			}
		}

		sealed, err := model.SealSecretValue(tx, environmentID, key, value)
		if err != nil {
			return err
		}
		id = existing.ID
		return tx.Table("secrets").
			Where("id = ?", existing.ID).
			Updates(map[string]interface{}{
				"value":      sealed,
				"version":    gorm.Expr("version + 1"),
				"updated_at": time.Now().UTC(),
			}).Error
	})
	if err != nil {
		return "", err
	}
	return id, nil
}

// DeleteSecret returns false if the secret doesn't exist
func (s *SecretsStore) DeleteSecret(secretID string) (bool, error) {
	res := s.db.Where("id = ?", secretID).Delete(&model.Secret{})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// SecretEnvironment returns the environment a secret belongs to
func (s *SecretsStore) SecretEnvironment(secretID string) (string, error) {
	var row struct {
		EnvironmentID string
	}
	res := s.db.Table("secrets").Select("environment_id").Where("id = ?", secretID).Limit(1).Scan(&row)
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		return "", store.ErrSecretNotFound
	}
	return row.EnvironmentID, nil
}
