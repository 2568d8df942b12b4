package pool

import (
	"fmt"
	"strconv"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolDeposit adds liquidity on both sides of a pool. The deposited
// ratio is not checked against the current reserves; a skewed deposit
// moves the spot price.
type PoolDeposit struct {
	tx.BaseTx
	Asset       string `json:"Asset"`
	QuoteAmount string `json:"QuoteAmount"`
	AssetAmount string `json:"AssetAmount"`
}

func (p *PoolDeposit) TxType() tx.Type { return tx.TypePoolDeposit }

func (p *PoolDeposit) Validate() error {
	if err := p.ValidateCommon(); err != nil {
		return err
	}
	if _, err := tx.DecodeAccountID(p.Asset); err != nil {
		return fmt.Errorf("temINVALID_INPUT: invalid Asset: %w", err)
	}
	quote, err := strconv.ParseUint(p.QuoteAmount, 10, 64)
	if err != nil || quote == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: QuoteAmount must be a positive integer")
	}
	asset, err := strconv.ParseUint(p.AssetAmount, 10, 64)
	if err != nil || asset == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: AssetAmount must be a positive integer")
	}
	return nil
}

func (p *PoolDeposit) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.GetCommon().FlattenInto(flat)
	flat["Asset"] = p.Asset
	flat["QuoteAmount"] = p.QuoteAmount
	flat["AssetAmount"] = p.AssetAmount
	return flat
}

func (p *PoolDeposit) Apply(ctx *tx.ApplyContext) tx.Result {
	asset, _ := tx.DecodeAccountID(p.Asset)
	quoteAmount, _ := strconv.ParseUint(p.QuoteAmount, 10, 64)
	assetAmount, _ := strconv.ParseUint(p.AssetAmount, 10, 64)

	state, err := LoadPool(ctx.View, asset)
	if err != nil {
		return tx.TefINTERNAL
	}
	if state == nil {
		return tx.TecNO_ENTRY
	}
	ledger, err := LoadLPAccount(ctx.View, asset)
	if err != nil || ledger == nil {
		return tx.TefINTERNAL
	}

	newQuote, ok := checked.Add(state.QuoteReserve, quoteAmount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	newAsset, ok := checked.Add(state.AssetReserve, assetAmount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	newLiquidity, ok := checked.Add(ledger.Liquidity, quoteAmount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}

	custody := custodyAccount(asset)
	if r := tx.Credit(ctx.View, ctx.AccountID, custody, quoteAmount); r != tx.TesSUCCESS {
		return r
	}
	if r := assets.Transfer(ctx.View, asset, ctx.AccountID, custody, assetAmount, ctx.AccountID); r != tx.TesSUCCESS {
		return r
	}

	state.QuoteReserve = newQuote
	state.AssetReserve = newAsset
	ledger.Liquidity = newLiquidity
	ledger.UpdatedAt = ctx.CloseTime()

	if err := ctx.View.Update(keylet.Pool(asset), state.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(keylet.LPAccount(asset), ledger.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
