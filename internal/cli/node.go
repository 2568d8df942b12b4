package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/curvefoundry/curved/internal/config"
	"github.com/curvefoundry/curved/internal/core/ledger"
	"github.com/curvefoundry/curved/internal/core/ledger/service"
	"github.com/curvefoundry/curved/internal/core/tx"
	"github.com/curvefoundry/curved/internal/core/tx/pool"
	"github.com/curvefoundry/curved/internal/storage/database"
	"github.com/curvefoundry/curved/internal/storage/database/compression"
	"github.com/curvefoundry/curved/internal/storage/database/leveldb"
	"github.com/curvefoundry/curved/internal/storage/database/pebble"
	"github.com/curvefoundry/curved/internal/storage/relationaldb"
	"github.com/curvefoundry/curved/internal/storage/relationaldb/sqlite"
)

// node bundles the persistent pieces a command operates on: the ledger,
// its backing store and the optional trade history.
type node struct {
	cfg        *config.Config
	manager    database.Manager
	db         database.DB
	compressor compression.Compressor
	ledger     *ledger.Ledger
	history    *sqlite.Database
	trades     relationaldb.TradeRepository
	platform   tx.AccountID
}

func openNode(cfg *config.Config) (*node, error) {
	if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data dir: %w", err)
	}

	var manager database.Manager
	switch cfg.StorageBackend {
	case "pebble":
		manager = pebble.NewManager(cfg.DataDir)
	case "leveldb":
		manager = leveldb.NewManager(cfg.DataDir)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	db, err := manager.OpenDB("ledger")
	if err != nil {
		manager.Close()
		return nil, err
	}

	var compressor compression.Compressor
	if cfg.Compression == "lz4" {
		compressor = &compression.LZ4Compressor{}
	} else {
		compressor = &compression.NoCompressor{}
	}

	l, err := ledger.Load(context.Background(), db, compressor)
	if err != nil {
		if !errors.Is(err, database.ErrKeyNotFound) {
			manager.Close()
			return nil, err
		}
		l = ledger.New()
	}

	platform, err := cfg.PlatformAccountID()
	if err != nil {
		manager.Close()
		return nil, err
	}

	n := &node{
		cfg:        cfg,
		manager:    manager,
		db:         db,
		compressor: compressor,
		ledger:     l,
		platform:   platform,
	}
	if cfg.TradeHistoryPath != "" {
		history, err := sqlite.Open(cfg.TradeHistoryPath)
		if err != nil {
			manager.Close()
			return nil, err
		}
		n.history = history
		n.trades = history.Trades()
	}
	return n, nil
}

// close persists the ledger and releases the stores.
func (n *node) close() error {
	var firstErr error
	if err := n.ledger.Store(context.Background(), n.db, n.compressor); err != nil {
		firstErr = err
	}
	if n.history != nil {
		if err := n.history.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := n.manager.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}

func (n *node) engine() *tx.Engine {
	return tx.NewEngine(n.ledger, tx.EngineConfig{
		BaseFee:         n.cfg.BaseFee,
		PlatformAccount: n.platform,
		LedgerSequence:  n.ledger.Sequence(),
		CloseTime:       time.Now().Unix(),
	})
}

// apply runs a transaction and, when it is a successful trade, records
// it in the history.
func (n *node) apply(txn tx.Transaction) tx.ApplyResult {
	var asset [20]byte
	var quoteBefore, assetBefore uint64
	trackTrade := false

	switch trade := txn.(type) {
	case *pool.PoolBuy:
		if id, err := tx.DecodeAccountID(trade.Asset); err == nil {
			asset = id
			trackTrade = true
		}
	case *pool.PoolSell:
		if id, err := tx.DecodeAccountID(trade.Asset); err == nil {
			asset = id
			trackTrade = true
		}
	}
	if trackTrade {
		if state, err := pool.LoadPool(n.ledger, asset); err == nil && state != nil {
			quoteBefore, assetBefore = state.QuoteReserve, state.AssetReserve
		} else {
			trackTrade = false
		}
	}

	res := n.engine().Apply(txn)

	if trackTrade && res.Result.IsSuccess() && n.trades != nil {
		n.recordTrade(txn, asset, quoteBefore, assetBefore, res)
	}
	return res
}

func (n *node) recordTrade(txn tx.Transaction, asset [20]byte, quoteBefore, assetBefore uint64, res tx.ApplyResult) {
	state, err := pool.LoadPool(n.ledger, asset)
	if err != nil || state == nil {
		return
	}
	trade := &relationaldb.Trade{
		Hash:       res.Hash,
		LedgerSeq:  n.ledger.Sequence(),
		Asset:      tx.EncodeAccountID(asset),
		Account:    txn.GetCommon().Account,
		ExecutedAt: time.Now().Unix(),
	}
	switch txn.(type) {
	case *pool.PoolBuy:
		trade.Side = relationaldb.SideBuy
		trade.QuoteAmount = state.QuoteReserve - quoteBefore
		trade.AssetAmount = assetBefore - state.AssetReserve
		trade.Fee = trade.QuoteAmount * pool.PlatformFeeBps / pool.BasisPointsDivisor
	case *pool.PoolSell:
		trade.Side = relationaldb.SideSell
		trade.QuoteAmount = quoteBefore - state.QuoteReserve
		trade.AssetAmount = state.AssetReserve - assetBefore
		trade.Fee = trade.QuoteAmount * pool.PlatformFeeBps / pool.BasisPointsDivisor
	default:
		return
	}
	if err := n.trades.Record(context.Background(), trade); err != nil {
		fmt.Fprintf(os.Stderr, "warning: recording trade: %v\n", err)
	}
}

func (n *node) poolService() (*service.Service, error) {
	return service.New(n.ledger, n.cfg.PoolCacheSize, n.cfg.GraduationTarget)
}
