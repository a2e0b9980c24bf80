package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/envault/envault/pkg/server/store"
)

func TestTeamStore_AddMember_InvalidRole(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewTeamStore(db)

	_, err := s.AddMember("p1", "bob@example.com", "owner", "alice")
	assert.ErrorIs(t, err, store.ErrInvalidRole)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamStore_AddMember_UnknownEmail(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewTeamStore(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE lower\(email\) = \$1`).
		WithArgs("bob@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := s.AddMember("p1", " Bob@Example.com ", "member", "alice")
	assert.ErrorIs(t, err, store.ErrProfileNotFound)
}

func TestTeamStore_AddMember_AlreadyMember(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewTeamStore(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email"}).AddRow("bob", "bob@example.com"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "team_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectRollback()

	_, err := s.AddMember("p1", "bob@example.com", "member", "alice")
	assert.ErrorIs(t, err, store.ErrMemberExists)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamStore_AddMember(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewTeamStore(db)

	mock.ExpectQuery(`SELECT \* FROM "profiles"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "full_name"}).AddRow("bob", "bob@example.com", "Bob"))
	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "team_members"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectExec(`INSERT INTO "team_members"`).WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	member, err := s.AddMember("p1", "bob@example.com", "viewer", "alice")
	require.NoError(t, err)
	assert.Equal(t, "bob", member.UserID)
	assert.Equal(t, "viewer", member.Role)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTeamStore_RemoveMember_NotFound(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewTeamStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`DELETE FROM "team_members"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, s.RemoveMember("p1", "bob"), store.ErrMemberNotFound)
}

func TestProfilesStore_IsAdmin(t *testing.T) {
	t.Run("admin role", func(t *testing.T) {
		db, mock, _ := setupTestDB(t)
		s := NewProfilesStore(db, nil)
		mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = \$1`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("alice", "alice@example.com", "admin"))
		assert.True(t, s.IsAdmin("alice"))
	})

	t.Run("configured email", func(t *testing.T) {
		db, mock, _ := setupTestDB(t)
		s := NewProfilesStore(db, []string{"Ops@Example.com"})
		mock.ExpectQuery(`SELECT \* FROM "profiles"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("ops", "ops@example.com", "user"))
		assert.True(t, s.IsAdmin("ops"))
	})

	t.Run("regular user", func(t *testing.T) {
		db, mock, _ := setupTestDB(t)
		s := NewProfilesStore(db, []string{"ops@example.com"})
		mock.ExpectQuery(`SELECT \* FROM "profiles"`).
			WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).AddRow("bob", "bob@example.com", "user"))
		assert.False(t, s.IsAdmin("bob"))
	})

	t.Run("no profile", func(t *testing.T) {
		db, mock, _ := setupTestDB(t)
		s := NewProfilesStore(db, nil)
		mock.ExpectQuery(`SELECT \* FROM "profiles"`).
			WillReturnRows(sqlmock.NewRows([]string{"id"}))
		assert.False(t, s.IsAdmin("ghost"))
	})
}

func TestFindingsStore_ResolveFinding_NotOpen(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewFindingsStore(db)

	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "security_findings" SET`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectCommit()

	assert.ErrorIs(t, s.ResolveFinding("f1", "alice"), store.ErrFindingNotFound)
}

func TestHealthStore_CheckConnectivity(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewHealthStore(db)

	mock.ExpectExec(`SELECT 1`).WillReturnResult(sqlmock.NewResult(0, 0))
	assert.NoError(t, s.CheckConnectivity())
}
