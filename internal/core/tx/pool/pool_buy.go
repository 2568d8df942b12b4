package pool

import (
	"fmt"
	"strconv"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolBuy swaps quote into the pool's asset along the curve.
type PoolBuy struct {
	tx.BaseTx
	Asset       string `json:"Asset"`
	Amount      string `json:"Amount"`
	MinAssetOut string `json:"MinAssetOut"`
}

func (p *PoolBuy) TxType() tx.Type { return tx.TypePoolBuy }

func (p *PoolBuy) Validate() error {
	if err := p.ValidateCommon(); err != nil {
		return err
	}
	if _, err := tx.DecodeAccountID(p.Asset); err != nil {
		return fmt.Errorf("temINVALID_INPUT: invalid Asset: %w", err)
	}
	amount, err := strconv.ParseUint(p.Amount, 10, 64)
	if err != nil || amount == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: Amount must be a positive integer")
	}
	if p.MinAssetOut != "" {
		if _, err := strconv.ParseUint(p.MinAssetOut, 10, 64); err != nil {
			return fmt.Errorf("temINVALID_AMOUNT: MinAssetOut must be a non-negative integer")
		}
	}
	return nil
}

func (p *PoolBuy) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.GetCommon().FlattenInto(flat)
	flat["Asset"] = p.Asset
	flat["Amount"] = p.Amount
	if p.MinAssetOut != "" {
		flat["MinAssetOut"] = p.MinAssetOut
	}
	return flat
}

func (p *PoolBuy) Apply(ctx *tx.ApplyContext) tx.Result {
	asset, _ := tx.DecodeAccountID(p.Asset)
	amount, _ := strconv.ParseUint(p.Amount, 10, 64)
	var minOut uint64
	if p.MinAssetOut != "" {
		minOut, _ = strconv.ParseUint(p.MinAssetOut, 10, 64)
	}

	state, err := LoadPool(ctx.View, asset)
	if err != nil {
		return tx.TefINTERNAL
	}
	if state == nil {
		return tx.TecNO_ENTRY
	}

	assetOut, r := quoteBuy(state.QuoteReserve, state.AssetReserve, amount)
	if r != tx.TesSUCCESS {
		return r
	}
	if assetOut < minOut {
		return tx.TecSLIPPAGE_EXCEEDED
	}

	fee, r := platformFee(amount)
	if r != tx.TesSUCCESS {
		return r
	}
	quoteToCurve := amount - fee

	// The recorded reserve grows by the full amount while only the
	// post-fee amount reaches custody; the drift surfaces as a custody
	// shortfall on late sells.
	custody := custodyAccount(asset)
	if r := tx.Credit(ctx.View, ctx.AccountID, custody, quoteToCurve); r != tx.TesSUCCESS {
		return r
	}
	if r := tx.Credit(ctx.View, ctx.AccountID, ctx.Config.PlatformAccount, fee); r != tx.TesSUCCESS {
		return r
	}
	if r := assets.Transfer(ctx.View, asset, custody, ctx.AccountID, assetOut, custody); r != tx.TesSUCCESS {
		return r
	}

	state.QuoteReserve += amount
	state.AssetReserve -= assetOut
	unitsTraded, ok := checked.Add(state.UnitsTraded, assetOut)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	quoteVolume, ok := checked.Add(state.QuoteVolume, amount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	state.UnitsTraded = unitsTraded
	state.QuoteVolume = quoteVolume

	if err := ctx.View.Update(keylet.Pool(asset), state.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
