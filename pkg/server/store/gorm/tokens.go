package gorm

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

// Ensure CLITokensStore implements store.CLITokensStore
var _ store.CLITokensStore = (*CLITokensStore)(nil)

// TokenPolicy bounds CLI token issuance
type TokenPolicy struct {
	DefaultExpiryDays int
	MaxExpiryDays     int
	MaxTokens         int
}

// DefaultTokenPolicy matches the configuration defaults
var DefaultTokenPolicy = TokenPolicy{
	DefaultExpiryDays: 90,
	MaxExpiryDays:     365,
	MaxTokens:         10,
}

// CLITokensStore implements store.CLITokensStore using GORM
type CLITokensStore struct {
	db     *gorm.DB
	policy TokenPolicy
	now    func() time.Time
}

// NewCLITokensStore creates a new CLITokensStore
func NewCLITokensStore(db *gorm.DB, policy TokenPolicy) *CLITokensStore {
	return &CLITokensStore{
		db:     db,
		policy: policy,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// GenerateToken issues a new token for userID
func (s *CLITokensStore) GenerateToken(userID, name string, expiresInDays int) (*model.GeneratedCLIToken, error) {
	now := s.now()

	days := expiresInDays
	if days <= 0 {
		days = s.policy.DefaultExpiryDays
	}
	var warning string
	if days > s.policy.MaxExpiryDays {
		warning = fmt.Sprintf("requested expiry of %d days exceeds the maximum; token expires in %d days", days, s.policy.MaxExpiryDays)
		days = s.policy.MaxExpiryDays
	}

	// Not serialized: concurrent requests can each pass the limit check
	var active int64
	if err := s.db.Model(&model.CLIToken{}).
		Where("user_id = ? AND revoked_at IS NULL AND expires_at > ?", userID, now).
		Count(&active).Error; err != nil {
		return nil, err
	}
	if s.policy.MaxTokens > 0 && active >= int64(s.policy.MaxTokens) {
		return nil, fmt.Errorf("%w: %d active tokens", store.ErrTokenLimit, active)
	}

	plain, err := model.GenerateCLIToken()
	if err != nil {
		return nil, err
	}

	token := model.CLIToken{
		UserID:    userID,
		Name:      name,
		TokenHash: model.HashToken(plain),
		ExpiresAt: now.Add(time.Duration(days) * 24 * time.Hour),
	}
	if err := s.db.Create(&token).Error; err != nil {
		return nil, err
	}

	return &model.GeneratedCLIToken{
		ID:        token.ID,
		Token:     plain,
		Name:      token.Name,
		ExpiresAt: token.ExpiresAt,
		Warning:   warning,
	}, nil
}

// RevokeToken marks one of the user's tokens revoked
func (s *CLITokensStore) RevokeToken(userID, tokenID string) (bool, error) {
	res := s.db.Model(&model.CLIToken{}).
		Where("id = ? AND user_id = ? AND revoked_at IS NULL", tokenID, userID).
		Update("revoked_at", s.now())
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// ListTokens returns the user's tokens, newest first
func (s *CLITokensStore) ListTokens(userID string) ([]model.CLIToken, error) {
	var tokens []model.CLIToken
	err := s.db.Where("user_id = ?", userID).Order("created_at DESC").Find(&tokens).Error
	return tokens, err
}

// AuthenticateToken resolves an active token to its user and records its use
func (s *CLITokensStore) AuthenticateToken(plainToken string) (string, error) {
	if !model.IsCLIToken(plainToken) {
		return "", store.ErrTokenInvalid
	}

	var token model.CLIToken
	if err := s.db.Where("token_hash = ?", model.HashToken(plainToken)).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", store.ErrTokenInvalid
		}
		return "", err
	}

	now := s.now()
	if token.IsRevoked() {
		return "", fmt.Errorf("%w: revoked", store.ErrTokenInvalid)
	}
	if token.IsExpired(now) {
		return "", fmt.Errorf("%w: expired", store.ErrTokenInvalid)
	}

	if err := s.db.Model(&model.CLIToken{}).
		Where("id = ?", token.ID).
		Update("last_used_at", now).Error; err != nil {
		return "", err
	}
	return token.UserID, nil
}
