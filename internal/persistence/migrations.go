package persistence

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// migrationLockID serializes concurrent migration runs across replicas.
const migrationLockID = 4_127_001

// Migrator is the connection surface RunMigrations needs.
type Migrator interface {
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// RunMigrations applies pending .sql files from dir in lexical order and records each one
// in schema_migrations. Files already recorded are skipped.
func RunMigrations(ctx context.Context, db Migrator, dir string, logger *zap.Logger) (int, error) {
	if db == nil {
		logger.Warn("no postgres pool available; skipping migrations")
		return 0, nil
	}

	filenames, err := migrationFiles(dir)
	if err != nil {
		return 0, err
	}

	if _, err := db.Exec(ctx, "SELECT pg_advisory_lock($1)", migrationLockID); err != nil {
		return 0, eris.Wrap(err, "persistence: acquire migration lock")
	}
	defer func() {
		if _, err := db.Exec(ctx, "SELECT pg_advisory_unlock($1)", migrationLockID); err != nil {
			logger.Warn("failed to release migration lock", zap.Error(err))
		}
	}()

	const ensure = `
        CREATE TABLE IF NOT EXISTS schema_migrations (
            filename   TEXT PRIMARY KEY,
            applied_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
        )`
	if _, err := db.Exec(ctx, ensure); err != nil {
		return 0, eris.Wrap(err, "persistence: ensure schema_migrations")
	}

	applied, err := appliedMigrations(ctx, db)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, name := range filenames {
		if applied[name] {
			continue
		}
		content, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return count, eris.Wrapf(err, "persistence: read migration %s", name)
		}

		logger.Info("applying migration", zap.String("file", name))
		if _, err := db.Exec(ctx, string(content)); err != nil {
			return count, eris.Wrapf(err, "persistence: apply migration %s", name)
		}
		if _, err := db.Exec(ctx, "INSERT INTO schema_migrations (filename) VALUES ($1)", name); err != nil {
			return count, eris.Wrapf(err, "persistence: record migration %s", name)
		}
		count++
	}

	logger.Info("migrations applied", zap.Int("count", count), zap.Int("total", len(filenames)))
	return count, nil
}

func migrationFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, eris.Wrapf(err, "persistence: read migrations dir %s", dir)
	}
	filenames := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".sql") {
			continue
		}
		filenames = append(filenames, entry.Name())
	}
	sort.Strings(filenames)
	return filenames, nil
}

func appliedMigrations(ctx context.Context, db Migrator) (map[string]bool, error) {
	rows, err := db.Query(ctx, "SELECT filename FROM schema_migrations")
	if err != nil {
		return nil, eris.Wrap(err, "persistence: query applied migrations")
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, eris.Wrap(err, "persistence: scan migration row")
		}
		applied[name] = true
	}
	return applied, rows.Err()
}
