package gorm

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/envault/envault/pkg/cipher"
	"github.com/envault/envault/pkg/model"
)

func setupTestDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock, cipher.SymmetricCipher) {
	t.Helper()

	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = mockDB.Close() })

	gormDB, err := gorm.Open(
		postgres.New(postgres.Config{
			Conn:                 mockDB,
			PreferSimpleProtocol: true,
		}),
		&gorm.Config{
			Logger: logger.Default.LogMode(logger.Silent),
		},
	)
	require.NoError(t, err)

	dataKey := make([]byte, 32)
	for i := range dataKey {
		dataKey[i] = byte(i)
	}
	c, err := cipher.NewSymmetric(dataKey)
	require.NoError(t, err)

	return gormDB.WithContext(model.WithCipher(context.Background(), c)), mock, c
}
