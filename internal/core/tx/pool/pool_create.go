package pool

import (
	"fmt"
	"strconv"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/metadata"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolCreate initializes a pool: issues the asset, seeds the reserves,
// registers the display metadata and opens the liquidity ledger. The
// creation fee goes to the platform account.
type PoolCreate struct {
	tx.BaseTx
	Name        string `json:"Name"`
	Symbol      string `json:"Symbol"`
	MetadataURI string `json:"MetadataURI"`
	TotalSupply string `json:"TotalSupply"`
}

func (p *PoolCreate) TxType() tx.Type { return tx.TypePoolCreate }

func (p *PoolCreate) Validate() error {
	if err := p.ValidateCommon(); err != nil {
		return err
	}
	if len(p.Name) == 0 || len(p.Name) > MaxNameLen {
		return fmt.Errorf("temINVALID_INPUT: Name must be 1..%d bytes", MaxNameLen)
	}
	if len(p.Symbol) == 0 || len(p.Symbol) > MaxSymbolLen {
		return fmt.Errorf("temINVALID_INPUT: Symbol must be 1..%d bytes", MaxSymbolLen)
	}
	if len(p.MetadataURI) > MaxMetadataURILen {
		return fmt.Errorf("temINVALID_INPUT: MetadataURI exceeds %d bytes", MaxMetadataURILen)
	}
	supply, err := strconv.ParseUint(p.TotalSupply, 10, 64)
	if err != nil || supply == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: TotalSupply must be a positive integer")
	}
	return nil
}

func (p *PoolCreate) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.GetCommon().FlattenInto(flat)
	flat["Name"] = p.Name
	flat["Symbol"] = p.Symbol
	flat["MetadataURI"] = p.MetadataURI
	flat["TotalSupply"] = p.TotalSupply
	return flat
}

func (p *PoolCreate) Apply(ctx *tx.ApplyContext) tx.Result {
	supply, _ := strconv.ParseUint(p.TotalSupply, 10, 64)
	asset := DeriveAssetID(ctx.AccountID, *p.Sequence)

	poolK := keylet.Pool(asset)
	if ctx.View.Exists(poolK) {
		return tx.TecDUPLICATE
	}

	scaled, ok := checked.Mul(supply, InitialAssetReservePercent)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	initialReserve, ok := checked.Div(scaled, 100)
	if !ok || initialReserve == 0 {
		return tx.TecINVALID_AMOUNT
	}

	custody := custodyAccount(asset)
	if err := tx.SaveAccount(ctx.View, custody, &tx.AccountRoot{}); err != nil {
		return tx.TefINTERNAL
	}

	if r := tx.Credit(ctx.View, ctx.AccountID, ctx.Config.PlatformAccount, PoolCreationFee); r != tx.TesSUCCESS {
		return r
	}
	if r := assets.Mint(ctx.View, asset, custody, initialReserve); r != tx.TesSUCCESS {
		return r
	}
	if r := metadata.Register(ctx.View, asset, &metadata.Record{
		Name:      p.Name,
		Symbol:    p.Symbol,
		URI:       p.MetadataURI,
		Creator:   tx.EncodeAccountID(ctx.AccountID),
		CreatedAt: ctx.CloseTime(),
	}); r != tx.TesSUCCESS {
		return r
	}

	state := &PoolState{
		AssetID:        asset,
		Creator:        ctx.AccountID,
		Name:           p.Name,
		Symbol:         p.Symbol,
		MetadataURI:    p.MetadataURI,
		TotalSupply:    supply,
		InitialReserve: initialReserve,
		QuoteReserve:   InitialQuoteReserve,
		AssetReserve:   initialReserve,
		CreatedAt:      ctx.CloseTime(),
	}
	if err := ctx.View.Insert(poolK, state.Serialize()); err != nil {
		return tx.TefINTERNAL
	}

	ledger := &LPAccount{
		AssetID:   asset,
		Liquidity: InitialQuoteReserve,
		UpdatedAt: ctx.CloseTime(),
	}
	if err := ctx.View.Insert(keylet.LPAccount(asset), ledger.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
