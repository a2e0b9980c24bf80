package gorm

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectUsage(mock sqlmock.Sqlmock, projects, secrets int) {
	mock.ExpectQuery(`SELECT count\(\*\) FROM "projects" WHERE owner_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(projects))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "secrets" JOIN environments`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(secrets))
}

func TestPlanStore_CheckPlanLimits_Free(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewPlanStore(db)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions" WHERE user_id = \$1 AND status IN`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	expectUsage(mock, 2, 100)

	limits, err := s.CheckPlanLimits("alice")
	require.NoError(t, err)
	assert.Equal(t, "free", limits.Plan)
	assert.Equal(t, 3, limits.ProjectsLimit)
	assert.Equal(t, 100, limits.SecretsLimit)
	assert.Equal(t, 1, limits.TeamMembersLimit)
	assert.True(t, limits.CanCreateProject)
	assert.False(t, limits.CanCreateSecret)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPlanStore_CheckPlanLimits_Team(t *testing.T) {
	db, mock, _ := setupTestDB(t)
	s := NewPlanStore(db)

	mock.ExpectQuery(`SELECT \* FROM "subscriptions"`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "plan", "status"}).
			AddRow("sub1", "alice", "team", "active"))
	expectUsage(mock, 400, 90000)

	limits, err := s.CheckPlanLimits("alice")
	require.NoError(t, err)
	assert.Equal(t, "team", limits.Plan)
	assert.Equal(t, -1, limits.ProjectsLimit)
	assert.True(t, limits.CanCreateProject)
	assert.True(t, limits.CanCreateSecret)
}
