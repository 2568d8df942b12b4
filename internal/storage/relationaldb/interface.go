// Package relationaldb records executed trades for off-ledger queries.
package relationaldb

import "context"

// Trade is one applied pool trade.
type Trade struct {
	Hash        [32]byte `json:"hash"`
	LedgerSeq   uint32   `json:"ledger_seq"`
	Asset       string   `json:"asset"`
	Account     string   `json:"account"`
	Side        string   `json:"side"`
	QuoteAmount uint64   `json:"quote_amount"`
	AssetAmount uint64   `json:"asset_amount"`
	Fee         uint64   `json:"fee"`
	ExecutedAt  int64    `json:"executed_at"`
}

const (
	SideBuy  = "buy"
	SideSell = "sell"
)

// TradeRepository persists and queries the trade history.
type TradeRepository interface {
	Record(ctx context.Context, trade *Trade) error
	ByAsset(ctx context.Context, asset string, limit int) ([]*Trade, error)
	ByAccount(ctx context.Context, account string, limit int) ([]*Trade, error)
	VolumeByAsset(ctx context.Context, asset string) (uint64, error)
	Count(ctx context.Context) (int64, error)
	Close() error
}
