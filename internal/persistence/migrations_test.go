package persistence

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeMigrations(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"002_history.sql": "CREATE TABLE history_b (id int);",
		"001_reports.sql": "CREATE TABLE reports_a (id int);",
		"README.md":       "not a migration",
	}
	for name, body := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(body), 0o600))
	}
	return dir
}

func expectPreamble(mock pgxmock.PgxPoolIface, applied ...string) {
	mock.ExpectExec("SELECT pg_advisory_lock").WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS schema_migrations").
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	rows := pgxmock.NewRows([]string{"filename"})
	for _, name := range applied {
		rows.AddRow(name)
	}
	mock.ExpectQuery("SELECT filename FROM schema_migrations").WillReturnRows(rows)
}

func expectUnlock(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec("SELECT pg_advisory_unlock").WithArgs(migrationLockID).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func TestRunMigrations_FreshDatabase(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dir := writeMigrations(t)
	expectPreamble(mock)
	mock.ExpectExec("CREATE TABLE reports_a").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("001_reports.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectExec("CREATE TABLE history_b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002_history.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectUnlock(mock)

	count, err := RunMigrations(context.Background(), mock, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 2, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_SkipsApplied(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dir := writeMigrations(t)
	expectPreamble(mock, "001_reports.sql")
	mock.ExpectExec("CREATE TABLE history_b").WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec("INSERT INTO schema_migrations").WithArgs("002_history.sql").
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	expectUnlock(mock)

	count, err := RunMigrations(context.Background(), mock, dir, zap.NewNop())
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_ApplyFailure(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	dir := writeMigrations(t)
	expectPreamble(mock)
	mock.ExpectExec("CREATE TABLE reports_a").WillReturnError(errors.New("syntax error"))
	expectUnlock(mock)

	count, err := RunMigrations(context.Background(), mock, dir, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "001_reports.sql")
	assert.Zero(t, count)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_MissingDir(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	_, err = RunMigrations(context.Background(), mock, filepath.Join(t.TempDir(), "nope"), zap.NewNop())
	require.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRunMigrations_NilDB(t *testing.T) {
	count, err := RunMigrations(context.Background(), nil, "migrations", zap.NewNop())
	require.NoError(t, err)
	assert.Zero(t, count)
}
