package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envault/envault/pkg/model"
	"github.com/envault/envault/pkg/server/store"
)

func TestSecretsStore_ListSecrets_Decrypts(t *testing.T) {
	db, mock, c := setupTestDB(t)
	s := NewSecretsStore(db)

	apiKey, err := c.Encrypt(model.SecretAAD("env1", "API_KEY"), []byte("abc"))
	require.NoError(t, err)
	dbURL, err := c.Encrypt(model.SecretAAD("env1", "DB_URL"), []byte("postgres://"))
	require.NoError(t, err)

	rows := sqlmock.NewRows([]string{"id", "environment_id", "key", "value", "version"}).
		AddRow("s1", "env1", "API_KEY", apiKey, 1).
		AddRow("s2", "env1", "DB_URL", dbURL, 3)
	mock.ExpectQuery(`SELECT \* FROM "secrets" WHERE environment_id = \$1 ORDER BY key`).
		WithArgs("env1").
		WillReturnRows(rows)

	secrets, err := s.ListSecrets("env1")
	require.NoError(t, err)
	require.Len(t, secrets, 2)
	assert.Equal(t, "abc", string(secrets[0].Value))
	assert.Equal(t, "postgres://", string(secrets[1].Value))
	assert.Equal(t, 3, secrets[1].Version)
}

func TestSecretsStore_GetSecret_WrongAAD(t *testing.T) {
	db, mock, c := setupTestDB(t)
	s := NewSecretsStore(db)

	// Sealed for a different environment
	sealed, err := c.Encrypt(model.SecretAAD("env2", "API_KEY"), []byte("abc"))
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "secrets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "environment_id", "key", "value"}).
			AddRow("s1", "env1", "API_KEY", sealed))

	_, err = s.GetSecret("env1", "API_KEY")
	assert.Error(t, err)
}

func TestSecretsStore_GetSecret_NotFound(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewSecretsStore(db)

	mock.ExpectQuery(`SELECT \* FROM "secrets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.GetSecret("env1", "MISSING")
	assert.ErrorIs(t, err, store.ErrSecretNotFound)
}

func TestSecretsStore_UpsertSecret_Insert(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewSecretsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, version FROM "secrets" WHERE environment_id = \$1 AND key = \$2`).
		WithArgs("env1", "API_KEY").
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}))
	mock.ExpectExec(`INSERT INTO "secrets"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	id, err := s.UpsertSecret("env1", "API_KEY", []byte("abc"), "alice")
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecretsStore_UpsertSecret_Update(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewSecretsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, version FROM "secrets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow("s1", 2))
	mock.ExpectExec(`UPDATE "secrets" SET .*"version"=version \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := s.UpsertSecret("env1", "API_KEY", []byte("new"), "alice")
	require.NoError(t, err)
	assert.Equal(t, "s1", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecretsStore_UpsertSecret_ConcurrentInsert(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewSecretsStore(db)

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT id, version FROM "secrets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}))
	mock.ExpectExec(`INSERT INTO "secrets" .* ON CONFLICT DO NOTHING`).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(`SELECT id, version FROM "secrets"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "version"}).AddRow("winner", 1))
	mock.ExpectExec(`UPDATE "secrets" SET .*"version"=version \+ 1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	id, err := s.UpsertSecret("env1", "API_KEY", []byte("abc"), "bob")
	require.NoError(t, err)
	assert.Equal(t, "winner", id)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSecretsStore_DeleteSecret(t *testing.T) {
	tests := []struct {
		name     string
		affected int64
		expected bool
	}{
		{"existing", 1, true},
		{"absent", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock, _ := setupTestDB(t)
			s := NewSecretsStore(db)

			mock.ExpectBegin()
			mock.ExpectExec(`DELETE FROM "secrets" WHERE id = \$1`).
				WithArgs("s1").
				WillReturnResult(sqlmock.NewResult(0, tt.affected))
			mock.ExpectCommit()

			deleted, err := s.DeleteSecret("s1")
			require.NoError(t, err)
			assert.Equal(t, tt.expected, deleted)
		})
	}
}

func TestSecretsStore_SecretEnvironment(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewSecretsStore(db)

	mock.ExpectQuery(`SELECT environment_id FROM "secrets" WHERE id = \$1`).
		WithArgs("s1").
		WillReturnRows(sqlmock.NewRows([]string{"environment_id"}).AddRow("env1"))

	envID, err := s.SecretEnvironment("s1")
	require.NoError(t, err)
	assert.Equal(t, "env1", envID)
}
