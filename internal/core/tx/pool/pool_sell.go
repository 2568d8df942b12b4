package pool

import (
	"fmt"
	"strconv"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolSell swaps the pool's asset back into quote along the curve.
type PoolSell struct {
	tx.BaseTx
	Asset       string `json:"Asset"`
	Amount      string `json:"Amount"`
	MinQuoteOut string `json:"MinQuoteOut"`
}

func (p *PoolSell) TxType() tx.Type { return tx.TypePoolSell }

func (p *PoolSell) Validate() error {
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
	if p.MinQuoteOut != "" {
		if _, err := strconv.ParseUint(p.MinQuoteOut, 10, 64); err != nil {
			return fmt.Errorf("temINVALID_AMOUNT: MinQuoteOut must be a non-negative integer")
		}
	}
	return nil
}

func (p *PoolSell) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.GetCommon().FlattenInto(flat)
	flat["Asset"] = p.Asset
	flat["Amount"] = p.Amount
	if p.MinQuoteOut != "" {
		flat["MinQuoteOut"] = p.MinQuoteOut
	}
	return flat
}

func (p *PoolSell) Apply(ctx *tx.ApplyContext) tx.Result {
	asset, _ := tx.DecodeAccountID(p.Asset)
	amount, _ := strconv.ParseUint(p.Amount, 10, 64)
	var minOut uint64
	if p.MinQuoteOut != "" {
		minOut, _ = strconv.ParseUint(p.MinQuoteOut, 10, 64)
	}

	state, err := LoadPool(ctx.View, asset)
	if err != nil {
		return tx.TefINTERNAL
	}
	if state == nil {
		return tx.TecNO_ENTRY
	}

	quoteOut, r := quoteSell(state.QuoteReserve, state.AssetReserve, amount)
	if r != tx.TesSUCCESS {
		return r
	}
	fee, r := platformFee(quoteOut)
	if r != tx.TesSUCCESS {
		return r
	}
	// The floor applies to what the seller actually receives, after the fee.
	quoteToSeller := quoteOut - fee
	if quoteToSeller < minOut {
		return tx.TecSLIPPAGE_EXCEEDED
	}

	custody := custodyAccount(asset)
	if r := assets.Transfer(ctx.View, asset, ctx.AccountID, custody, amount, ctx.AccountID); r != tx.TesSUCCESS {
		return r
	}
	// Custody pays out of its actual balance; the recorded reserve can
	// exceed it after fee-inflated buys, so this can come up short.
	if r := tx.Credit(ctx.View, custody, ctx.AccountID, quoteToSeller); r != tx.TesSUCCESS {
		return r
	}
	if r := tx.Credit(ctx.View, custody, ctx.Config.PlatformAccount, fee); r != tx.TesSUCCESS {
		return r
	}

	state.QuoteReserve -= quoteOut
	newAssetReserve, ok := checked.Add(state.AssetReserve, amount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	state.AssetReserve = newAssetReserve
	if amount > state.UnitsTraded {
		state.UnitsTraded = 0
	} else {
		state.UnitsTraded -= amount
	}
	quoteVolume, ok := checked.Add(state.QuoteVolume, quoteOut)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	state.QuoteVolume = quoteVolume

	if err := ctx.View.Update(keylet.Pool(asset), state.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
