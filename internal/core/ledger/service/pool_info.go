// Package service answers read-only pool queries against a ledger,
// with per-ledger caching.
package service

import (
	"errors"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
	"github.com/curvefoundry/curved/internal/core/tx/pool"
)

var ErrPoolNotFound = errors.New("pool not found")

// PriceScale is the fixed-point scale of SpotPrice: quote units per
// PriceScale asset units.
const PriceScale = 1_000_000_000

// DefaultGraduationTarget is the quote reserve at which a pool is
// considered graduated off the curve.
const DefaultGraduationTarget = 85_000_000

// PoolInfo is the aggregate view of one pool.
type PoolInfo struct {
	Asset        string `json:"asset"`
	Name         string `json:"name"`
	Symbol       string `json:"symbol"`
	QuoteReserve uint64 `json:"quote_reserve"`
	AssetReserve uint64 `json:"asset_reserve"`
	SpotPrice    uint64 `json:"spot_price"`
	UnitsTraded  uint64 `json:"units_traded"`
	QuoteVolume  uint64 `json:"quote_volume"`
	Liquidity    uint64 `json:"liquidity"`

	// Custody balances can lag the recorded reserves; QuoteDrift is
	// how far the recorded quote side runs ahead of real custody.
	CustodyQuote  uint64 `json:"custody_quote"`
	CustodyAssets uint64 `json:"custody_assets"`
	QuoteDrift    uint64 `json:"quote_drift"`

	GraduationTarget uint64 `json:"graduation_target"`
	Graduated        bool   `json:"graduated"`
	CreatedAt        int64  `json:"created_at"`
}

type cacheKey struct {
	asset    [20]byte
	sequence uint32
}

// Service reads pool aggregates from a ledger. Results are cached per
// (asset, ledger sequence); a ledger close naturally invalidates.
type Service struct {
	ledger           *ledger.Ledger
	cache            *lru.Cache[cacheKey, *PoolInfo]
	graduationTarget uint64
}

func New(l *ledger.Ledger, cacheSize int, graduationTarget uint64) (*Service, error) {
	if cacheSize <= 0 {
		cacheSize = 128
	}
	if graduationTarget == 0 {
		graduationTarget = DefaultGraduationTarget
	}
	cache, err := lru.New[cacheKey, *PoolInfo](cacheSize)
	if err != nil {
		return nil, err
	}
	return &Service{ledger: l, cache: cache, graduationTarget: graduationTarget}, nil
}

// PoolInfo builds the aggregate view of one pool.
func (s *Service) PoolInfo(asset [20]byte) (*PoolInfo, error) {
	key := cacheKey{asset: asset, sequence: s.ledger.Sequence()}
	if info, ok := s.cache.Get(key); ok {
		return info, nil
	}

	state, err := pool.LoadPool(s.ledger, asset)
	if err != nil {
		return nil, fmt.Errorf("loading pool state: %w", err)
	}
	if state == nil {
		return nil, ErrPoolNotFound
	}
	lp, err := pool.LoadLPAccount(s.ledger, asset)
	if err != nil {
		return nil, fmt.Errorf("loading liquidity ledger: %w", err)
	}

	custody := keylet.PoolAccountID(keylet.Pool(asset).Key)
	custodyRoot, err := tx.LoadAccount(s.ledger, custody)
	if err != nil {
		return nil, fmt.Errorf("loading custody account: %w", err)
	}
	var custodyQuote uint64
	if custodyRoot != nil {
		custodyQuote = custodyRoot.Balance
	}
	custodyAssets, err := assets.Balance(s.ledger, asset, custody)
	if err != nil {
		return nil, fmt.Errorf("loading custody holding: %w", err)
	}

	info := &PoolInfo{
		Asset:            tx.EncodeAccountID(asset),
		Name:             state.Name,
		Symbol:           state.Symbol,
		QuoteReserve:     state.QuoteReserve,
		AssetReserve:     state.AssetReserve,
		UnitsTraded:      state.UnitsTraded,
		QuoteVolume:      state.QuoteVolume,
		CustodyQuote:     custodyQuote,
		CustodyAssets:    custodyAssets,
		GraduationTarget: s.graduationTarget,
		Graduated:        state.QuoteReserve >= s.graduationTarget,
		CreatedAt:        state.CreatedAt,
	}
	if lp != nil {
		info.Liquidity = lp.Liquidity
	}
	if state.QuoteReserve > custodyQuote {
		info.QuoteDrift = state.QuoteReserve - custodyQuote
	}
	if price, ok := checked.MulDiv(state.QuoteReserve, PriceScale, state.AssetReserve); ok {
		info.SpotPrice = price
	}

	s.cache.Add(key, info)
	return info, nil
}
