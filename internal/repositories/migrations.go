package repositories

import (
	"database/sql"
	"fmt"
	"log"
)

var schema = `
CREATE TABLE IF NOT EXISTS companies (
	id SERIAL PRIMARY KEY,
	name TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS contacts (
	id SERIAL PRIMARY KEY,
	first_name TEXT,
	last_name TEXT,
	email TEXT,
	phone TEXT,
	company_id INTEGER REFERENCES companies(id),
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS deals (
	id SERIAL PRIMARY KEY,
	title TEXT NOT NULL,
	contact_id INTEGER REFERENCES contacts(id),
	company_id INTEGER REFERENCES companies(id),
	value DOUBLE PRECISION NOT NULL DEFAULT 0,
	stage TEXT NOT NULL DEFAULT 'prospect',
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS activities (
	id SERIAL PRIMARY KEY,
	type TEXT NOT NULL,
	note TEXT,
	contact_id INTEGER REFERENCES contacts(id),
	deal_id INTEGER REFERENCES deals(id),
	due_date TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS leads (
	id SERIAL PRIMARY KEY,
	name TEXT,
	email TEXT,
	phone TEXT,
	company TEXT,
	source TEXT,
	status TEXT NOT NULL DEFAULT 'open',
	converted BOOLEAN NOT NULL DEFAULT FALSE,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS attachments (
	id SERIAL PRIMARY KEY,
	filename TEXT NOT NULL,
	original_name TEXT,
	mime TEXT,
	size BIGINT,
	entity_type TEXT,
	entity_id INTEGER,
	created_by TEXT,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS notifications (
	id SERIAL PRIMARY KEY,
	user_id TEXT,
	title TEXT,
	body TEXT,
	seen BOOLEAN NOT NULL DEFAULT FALSE,
	metadata TEXT,
	scheduled_for TIMESTAMPTZ,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
`

// PipelineStages — закрытый набор этапов воронки.
var PipelineStages = []string{"prospect", "qualified", "proposal", "closed-won", "closed-lost"}

// RunMigrations bootstraps the schema and the guarded column adds.
// Safe to run on every start.
func RunMigrations(db *sql.DB) error {
	if _, err := db.Exec(schema); err != nil {
		return fmt.Errorf("создание схемы: %w", err)
	}
	if err := ensureDealPositions(db); err != nil {
		return err
	}
	if err := ensureDealForecastFields(db); err != nil {
		return err
	}
	return nil
}

func columnExists(db *sql.DB, table, column string) (bool, error) {
	const q = `
		SELECT COUNT(*) FROM information_schema.columns
		WHERE table_name = $1 AND column_name = $2
	`
	var n int
	if err := db.QueryRow(q, table, column).Scan(&n); err != nil {
		return false, fmt.Errorf("проверка колонки %s.%s: %w", table, column, err)
	}
	return n > 0, nil
}

// ensureDealPositions adds deals.position if absent and backfills a
// dense 1..N sequence per stage ordered by created_at. Runs exactly
// once: the column-existence check is the guard.
func ensureDealPositions(db *sql.DB) error {
	has, err := columnExists(db, "deals", "position")
	if err != nil {
		return err
	}
	if has {
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("миграция position: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.Exec(`ALTER TABLE deals ADD COLUMN position INTEGER NOT NULL DEFAULT 0`); err != nil {
		return fmt.Errorf("добавление deals.position: %w", err)
	}

	for _, stage := range PipelineStages {
		rows, err := tx.Query(`SELECT id FROM deals WHERE stage = $1 ORDER BY created_at ASC`, stage)
		if err != nil {
			return fmt.Errorf("выборка сделок этапа %q: %w", stage, err)
		}
		var ids []int
		for rows.Next() {
			var id int
			if err := rows.Scan(&id); err != nil {
				rows.Close()
				return fmt.Errorf("чтение id сделки: %w", err)
			}
			ids = append(ids, id)
		}
		if err := rows.Err(); err != nil {
			rows.Close()
			return fmt.Errorf("выборка сделок этапа %q: %w", stage, err)
		}
		rows.Close()

		for i, id := range ids {
			if _, err := tx.Exec(`UPDATE deals SET position = $1 WHERE id = $2`, i+1, id); err != nil {
				return fmt.Errorf("инициализация position: %w", err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("миграция position: %w", err)
	}
	log.Println("[migrate] deals.position column added and initialized")
	return nil
}

func ensureDealForecastFields(db *sql.DB) error {
	hasProb, err := columnExists(db, "deals", "probability")
	if err != nil {
		return err
	}
	if !hasProb {
		if _, err := db.Exec(`ALTER TABLE deals ADD COLUMN probability INTEGER NOT NULL DEFAULT 0`); err != nil {
			return fmt.Errorf("добавление deals.probability: %w", err)
		}
	}
	hasClose, err := columnExists(db, "deals", "expected_close")
	if err != nil {
		return err
	}
	if !hasClose {
		if _, err := db.Exec(`ALTER TABLE deals ADD COLUMN expected_close TIMESTAMPTZ`); err != nil {
			return fmt.Errorf("добавление deals.expected_close: %w", err)
		}
	}
	if !hasProb || !hasClose {
		log.Println("[migrate] deals.probability/expected_close ensured")
	}
	return nil
}
