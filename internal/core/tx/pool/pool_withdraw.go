package pool

import (
	"fmt"
	"strconv"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolWithdraw removes a proportional share of both reserves against
// the pool's liquidity ledger.
type PoolWithdraw struct {
	tx.BaseTx
	Asset   string `json:"Asset"`
	LPShare string `json:"LPShare"`
}

func (p *PoolWithdraw) TxType() tx.Type { return tx.TypePoolWithdraw }

func (p *PoolWithdraw) Validate() error {
	if err := p.ValidateCommon(); err != nil {
		return err
	}
	if _, err := tx.DecodeAccountID(p.Asset); err != nil {
		return fmt.Errorf("temINVALID_INPUT: invalid Asset: %w", err)
	}
	share, err := strconv.ParseUint(p.LPShare, 10, 64)
	if err != nil || share == 0 {
		return fmt.Errorf("temINVALID_AMOUNT: LPShare must be a positive integer")
	}
	return nil
}

func (p *PoolWithdraw) Flatten() map[string]interface{} {
	flat := make(map[string]interface{})
	p.GetCommon().FlattenInto(flat)
	flat["Asset"] = p.Asset
	flat["LPShare"] = p.LPShare
	return flat
}

func (p *PoolWithdraw) Apply(ctx *tx.ApplyContext) tx.Result {
	asset, _ := tx.DecodeAccountID(p.Asset)
	lpShare, _ := strconv.ParseUint(p.LPShare, 10, 64)

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
	if lpShare > ledger.Liquidity {
		return tx.TecINSUFFICIENT_LIQUIDITY
	}

	quoteShare, r := proportionalShare(state.QuoteReserve, lpShare, ledger.Liquidity)
	if r != tx.TesSUCCESS {
		return r
	}
	assetShare, r := proportionalShare(state.AssetReserve, lpShare, ledger.Liquidity)
	if r != tx.TesSUCCESS {
		return r
	}

	newQuote, ok := checked.Sub(state.QuoteReserve, quoteShare)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	newAsset, ok := checked.Sub(state.AssetReserve, assetShare)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}

	custody := custodyAccount(asset)
	if r := tx.Credit(ctx.View, custody, ctx.AccountID, quoteShare); r != tx.TesSUCCESS {
		return r
	}
	if r := assets.Transfer(ctx.View, asset, custody, ctx.AccountID, assetShare, custody); r != tx.TesSUCCESS {
		return r
	}

	state.QuoteReserve = newQuote
	state.AssetReserve = newAsset
	ledger.Liquidity -= lpShare
	ledger.UpdatedAt = ctx.CloseTime()

	if err := ctx.View.Update(keylet.Pool(asset), state.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	if err := ctx.View.Update(keylet.LPAccount(asset), ledger.Serialize()); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
