package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// migrations is the ordered schema history. Entries are append-only; applied
// versions are recorded in schema_migrations and never re-run.
var migrations = []struct {
	version int
	name    string
	stmts   []string
}{
	{
		version: 1,
		name:    "base schema",
		stmts: []string{
			`CREATE TABLE IF NOT EXISTS users (
				id TEXT PRIMARY KEY,
				email TEXT NOT NULL UNIQUE COLLATE NOCASE,
				display_name TEXT NOT NULL,
				password_hash TEXT NOT NULL,
				is_admin INTEGER NOT NULL DEFAULT 0,
				disabled INTEGER NOT NULL DEFAULT 0,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS sessions (
				id TEXT PRIMARY KEY,
				user_id TEXT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
				token TEXT NOT NULL UNIQUE,
				expires_at TEXT NOT NULL,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL,
				revoked_at TEXT
			)`,
			`CREATE TABLE IF NOT EXISTS clients (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				email TEXT NOT NULL,
				phone TEXT NOT NULL DEFAULT '',
				address TEXT,
				notes TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS cases (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				case_number TEXT NOT NULL UNIQUE,
				client_id TEXT NOT NULL REFERENCES clients(id),
				creator_id TEXT NOT NULL,
				status TEXT NOT NULL CHECK (status IN ('open', 'pending', 'closed', 'archived')),
				practice_area TEXT NOT NULL DEFAULT '',
				description TEXT,
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS tasks (
				id TEXT PRIMARY KEY,
				title TEXT NOT NULL,
				case_id TEXT REFERENCES cases(id) ON DELETE SET NULL,
				due_date TEXT,
				priority TEXT NOT NULL CHECK (priority IN ('low', 'medium', 'high')),
				status TEXT NOT NULL CHECK (status IN ('todo', 'in_progress', 'done')),
				created_at TEXT NOT NULL,
				updated_at TEXT NOT NULL
			)`,
			`CREATE TABLE IF NOT EXISTS calendar_events (
				id TEXT PRIMARY KEY,
				position INTEGER NOT NULL,
				title TEXT NOT NULL DEFAULT '',
				description TEXT NOT NULL DEFAULT '',
				type TEXT NOT NULL,
				start_time TEXT NOT NULL,
				end_time TEXT NOT NULL,
				reminder_time TEXT
			)`,
			`CREATE INDEX IF NOT EXISTS idx_cases_client ON cases(client_id)`,
			`CREATE INDEX IF NOT EXISTS idx_tasks_case ON tasks(case_id)`,
			`CREATE INDEX IF NOT EXISTS idx_sessions_token ON sessions(token)`,
		},
	},
}

// Migrate applies any schema versions not yet recorded. Each version runs in
// its own transaction so a failure leaves earlier versions applied.
func (d *DB) Migrate(ctx context.Context) error {
	if _, err := d.db.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS schema_migrations (
		version INTEGER PRIMARY KEY,
		name TEXT NOT NULL,
		applied_at TEXT NOT NULL
	)`); err != nil {
		return fmt.Errorf("sqlite: create schema_migrations: %w", err)
	}

	applied := make(map[int]bool)
	rows, err := d.db.QueryContext(ctx, "SELECT version FROM schema_migrations")
	if err != nil {
		return fmt.Errorf("sqlite: read schema_migrations: %w", err)
	}
	for rows.Next() {
		var version int
		if err := rows.Scan(&version); err != nil {
			rows.Close()
			return fmt.Errorf("sqlite: scan schema_migrations: %w", err)
		}
		applied[version] = true
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return fmt.Errorf("sqlite: read schema_migrations: %w", err)
	}
	rows.Close()

	for _, migration := range migrations {
		if applied[migration.version] {
			continue
		}
		err := d.withTx(ctx, func(tx *sql.Tx) error {
			for _, stmt := range migration.stmts {
				if _, err := tx.ExecContext(ctx, stmt); err != nil {
					return fmt.Errorf("apply %q: %w", migration.name, err)
				}
			}
			_, err := tx.ExecContext(ctx,
				"INSERT INTO schema_migrations (version, name, applied_at) VALUES (?, ?, datetime('now'))",
				migration.version, migration.name,
			)
			return err
		})
		if err != nil {
			return fmt.Errorf("sqlite: migration %d: %w", migration.version, err)
		}
	}
	return nil
}
