package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Secret struct {
	ID            string `gorm:"column:id;primaryKey"`
	EnvironmentID string `gorm:"column:environment_id"`
	Key           string `gorm:"column:key"`
	Value         []byte `gorm:"column:value;type:bytea"`
	Version       int    `gorm:"column:version"`
	CreatedBy     string `gorm:"column:created_by"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (Secret) TableName() string {
	return "secrets"
}

// AAD returns the associated data that binds a value to its row.
func (s *Secret) AAD() []byte {
	return SecretAAD(s.EnvironmentID, s.Key)
}

// SecretAAD returns the associated data for a value stored under key in an environment.
func SecretAAD(environmentID, key string) []byte {
	return []byte(environmentID + ":" + key)
}

// SealSecretValue encrypts value with the cipher attached to tx.
func SealSecretValue(tx *gorm.DB, environmentID, key string, value []byte) ([]byte, error) {
	c, err := cipherForDB(tx)
	if err != nil {
		return nil, err
	}
	sealed, err := c.Encrypt(SecretAAD(environmentID, key), value)
	if err != nil {
		return nil, fmt.Errorf("secret encryption failed for key=%q", key)
	}
	return sealed, nil
}

func (s *Secret) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	if s.Version == 0 {
		s.Version = 1
	}

	var err error
	s.Value, err = SealSecretValue(tx, s.EnvironmentID, s.Key, s.Value)
	return err
}

func (s *Secret) AfterFind(tx *gorm.DB) error {
	c, err := cipherForDB(tx)
	if err != nil {
		return err
	}

	s.Value, err = c.Decrypt(s.AAD(), s.Value)
	if err != nil {
		return fmt.Errorf("secret decryption failed for key=%q", s.Key)
	}
	return nil
}
