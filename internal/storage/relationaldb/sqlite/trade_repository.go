package sqlite

import (
	"context"
	"database/sql"

	"github.com/curvefoundry/curved/internal/storage/relationaldb"
)

type tradeRepository struct {
	db *Database
}

func (r *tradeRepository) Record(ctx context.Context, trade *relationaldb.Trade) error {
	if r.db.db == nil {
		return relationaldb.ErrDatabaseClosed
	}
	_, err := r.db.db.ExecContext(ctx,
		`INSERT INTO trades
		 (hash, ledger_seq, asset, account, side, quote_amount, asset_amount, fee, executed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		trade.Hash[:], trade.LedgerSeq, trade.Asset, trade.Account, trade.Side,
		int64(trade.QuoteAmount), int64(trade.AssetAmount), int64(trade.Fee), trade.ExecutedAt)
	if err != nil {
		return relationaldb.NewQueryError("record_trade", "failed to insert trade", err)
	}
	return nil
}

func (r *tradeRepository) ByAsset(ctx context.Context, asset string, limit int) ([]*relationaldb.Trade, error) {
	if r.db.db == nil {
		return nil, relationaldb.ErrDatabaseClosed
	}
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT hash, ledger_seq, asset, account, side, quote_amount, asset_amount, fee, executed_at
		 FROM trades WHERE asset = ? ORDER BY ledger_seq DESC, executed_at DESC LIMIT ?`,
		asset, limit)
	if err != nil {
		return nil, relationaldb.NewQueryError("trades_by_asset", "failed to query trades", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (r *tradeRepository) ByAccount(ctx context.Context, account string, limit int) ([]*relationaldb.Trade, error) {
	if r.db.db == nil {
		return nil, relationaldb.ErrDatabaseClosed
	}
	rows, err := r.db.db.QueryContext(ctx,
		`SELECT hash, ledger_seq, asset, account, side, quote_amount, asset_amount, fee, executed_at
		 FROM trades WHERE account = ? ORDER BY ledger_seq DESC, executed_at DESC LIMIT ?`,
		account, limit)
	if err != nil {
		return nil, relationaldb.NewQueryError("trades_by_account", "failed to query trades", err)
	}
	defer rows.Close()
	return scanTrades(rows)
}

func (r *tradeRepository) VolumeByAsset(ctx context.Context, asset string) (uint64, error) {
	if r.db.db == nil {
		return 0, relationaldb.ErrDatabaseClosed
	}
	var volume sql.NullInt64
	err := r.db.db.QueryRowContext(ctx,
		`SELECT SUM(quote_amount) FROM trades WHERE asset = ?`, asset).Scan(&volume)
	if err != nil {
		return 0, relationaldb.NewQueryError("volume_by_asset", "failed to sum volume", err)
	}
	if !volume.Valid {
		return 0, nil
	}
	return uint64(volume.Int64), nil
}

func (r *tradeRepository) Count(ctx context.Context) (int64, error) {
	if r.db.db == nil {
		return 0, relationaldb.ErrDatabaseClosed
	}
	var count int64
	err := r.db.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM trades`).Scan(&count)
	if err != nil {
		return 0, relationaldb.NewQueryError("trade_count", "failed to count trades", err)
	}
	return count, nil
}

func (r *tradeRepository) Close() error { return r.db.Close() }

func scanTrades(rows *sql.Rows) ([]*relationaldb.Trade, error) {
	var trades []*relationaldb.Trade
	for rows.Next() {
		trade := &relationaldb.Trade{}
		var hash []byte
		var quote, asset, fee int64
		if err := rows.Scan(&hash, &trade.LedgerSeq, &trade.Asset, &trade.Account,
			&trade.Side, &quote, &asset, &fee, &trade.ExecutedAt); err != nil {
			return nil, relationaldb.NewQueryError("scan_trade", "failed to scan row", err)
		}
		copy(trade.Hash[:], hash)
		trade.QuoteAmount = uint64(quote)
		trade.AssetAmount = uint64(asset)
		trade.Fee = uint64(fee)
		trades = append(trades, trade)
	}
	if err := rows.Err(); err != nil {
		return nil, relationaldb.NewQueryError("scan_trade", "row iteration failed", err)
	}
	return trades, nil
}
