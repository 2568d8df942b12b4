// Package sqlite implements the trade repository on modernc.org/sqlite.
package sqlite

import (
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"github.com/curvefoundry/curved/internal/storage/relationaldb"
)

const schema = `
CREATE TABLE IF NOT EXISTS trades (
	hash         BLOB PRIMARY KEY,
	ledger_seq   INTEGER NOT NULL,
	asset        TEXT NOT NULL,
	account      TEXT NOT NULL,
	side         TEXT NOT NULL CHECK (side IN ('buy', 'sell')),
	quote_amount INTEGER NOT NULL,
	asset_amount INTEGER NOT NULL,
	fee          INTEGER NOT NULL,
	executed_at  INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_trades_asset ON trades(asset, ledger_seq);
CREATE INDEX IF NOT EXISTS idx_trades_account ON trades(account, ledger_seq);
`

// Database wraps the sqlite handle behind the repository interfaces.
type Database struct {
	db *sql.DB
}

// Open opens (or creates) the trade database at path. Use ":memory:"
// for tests.
func Open(path string) (*Database, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite database: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("applying schema: %w", err)
	}
	return &Database{db: db}, nil
}

func (d *Database) Close() error {
	if d.db == nil {
		return nil
	}
	err := d.db.Close()
	d.db = nil
	return err
}

// Trades returns the trade repository backed by this database.
func (d *Database) Trades() relationaldb.TradeRepository {
	return &tradeRepository{db: d}
}
