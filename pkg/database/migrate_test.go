package database

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockExecer records executed statements.
type mockExecer struct {
	statements []string
	err        error
}

func (m *mockExecer) Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error) {
	m.statements = append(m.statements, sql)
	return pgconn.NewCommandTag("CREATE TABLE"), m.err
}

func TestMigrationNames_Ordered(t *testing.T) {
	names, err := MigrationNames()
	require.NoError(t, err)
	require.NotEmpty(t, names)

	assert.Equal(t, "001_link_clicks.sql", names[0])
	assert.IsNonDecreasing(t, names)
}

func TestMigrate_ExecutesEveryMigration(t *testing.T) {
	db := &mockExecer{}

	err := Migrate(context.Background(), db)

	require.NoError(t, err)
	names, _ := MigrationNames()
	require.Len(t, db.statements, len(names))
	assert.Contains(t, db.statements[0], "CREATE TABLE IF NOT EXISTS link_clicks")
}

func TestMigrate_StopsOnError(t *testing.T) {
	db := &mockExecer{err: errors.New("permission denied")}

	err := Migrate(context.Background(), db)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "execute migration 001_link_clicks.sql")
	assert.Len(t, db.statements, 1)
}
