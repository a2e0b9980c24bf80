package model

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CLITokenPrefix marks a bearer credential as a CLI token
const CLITokenPrefix = "envault_"

// CLIToken is a credential issued to the envault CLI. Only the SHA256 of
// the token is stored.
type CLIToken struct {
	ID         string     `gorm:"column:id;primaryKey" json:"id"`
	UserID     string     `gorm:"column:user_id" json:"user_id"`
	Name       string     `gorm:"column:name" json:"name"`
	TokenHash  string     `gorm:"column:token_hash" json:"-"`
	ExpiresAt  time.Time  `gorm:"column:expires_at" json:"expires_at"`
	LastUsedAt *time.Time `gorm:"column:last_used_at" json:"last_used_at,omitempty"`
	RevokedAt  *time.Time `gorm:"column:revoked_at" json:"revoked_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (CLIToken) TableName() string {
	return "cli_tokens"
}

func (t *CLIToken) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}

// GenerateCLIToken creates a new random token: the prefix followed by 64 hex chars
func GenerateCLIToken() (string, error) {
	randomBytes := make([]byte, 32)
	if _, err := rand.Read(randomBytes); err != nil {
		return "", err
	}
	return CLITokenPrefix + hex.EncodeToString(randomBytes), nil
}

// IsCLIToken reports whether a bearer credential looks like a CLI token
func IsCLIToken(token string) bool {
	return strings.HasPrefix(token, CLITokenPrefix)
}

// HashToken returns the SHA256 hash of a token
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

func (t *CLIToken) IsExpired(now time.Time) bool {
	return now.After(t.ExpiresAt)
}

func (t *CLIToken) IsRevoked() bool {
	return t.RevokedAt != nil
}

// IsActive checks the token is neither revoked nor expired
func (t *CLIToken) IsActive(now time.Time) bool {
	return !t.IsRevoked() && !t.IsExpired(now)
}

// GeneratedCLIToken is returned once, when a token is issued. It is the only
// place the plaintext token appears.
type GeneratedCLIToken struct {
	ID        string    `json:"id"`
	Token     string    `json:"token"`
	Name      string    `json:"name"`
	ExpiresAt time.Time `json:"expires_at"`
	Warning   string    `json:"warning,omitempty"`
}
