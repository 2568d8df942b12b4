package pool

import (
	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// quoteBuy prices a buy of quoteAmount against the curve. The invariant
// k = quoteReserve * assetReserve is held constant; the output is the
// asset-side shrinkage. The full quote amount enters the curve here;
// the platform fee is carved out of the transfer, not the price.
func quoteBuy(quoteReserve, assetReserve, quoteAmount uint64) (uint64, tx.Result) {
	k, ok := checked.Mul(quoteReserve, assetReserve)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	newQuote, ok := checked.Add(quoteReserve, quoteAmount)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	newAsset, ok := checked.Div(k, newQuote)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	if newAsset > assetReserve {
		return 0, tx.TecINSUFFICIENT_LIQUIDITY
	}
	assetOut := assetReserve - newAsset
	if assetOut == 0 {
		return 0, tx.TecINVALID_AMOUNT
	}
	return assetOut, tx.TesSUCCESS
}

// quoteSell prices a sell of assetAmount. Mirror of quoteBuy: the asset
// side grows by the full amount and the quote-side shrinkage is paid
// out, fee taken from the output.
func quoteSell(quoteReserve, assetReserve, assetAmount uint64) (uint64, tx.Result) {
	k, ok := checked.Mul(quoteReserve, assetReserve)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	newAsset, ok := checked.Add(assetReserve, assetAmount)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	newQuote, ok := checked.Div(k, newAsset)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	if newQuote > quoteReserve {
		return 0, tx.TecINSUFFICIENT_LIQUIDITY
	}
	quoteOut := quoteReserve - newQuote
	if quoteOut == 0 {
		return 0, tx.TecINVALID_AMOUNT
	}
	return quoteOut, tx.TesSUCCESS
}

// platformFee is the 25 bps platform cut of an amount.
func platformFee(amount uint64) (uint64, tx.Result) {
	scaled, ok := checked.Mul(amount, PlatformFeeBps)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	fee, ok := checked.Div(scaled, BasisPointsDivisor)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	return fee, tx.TesSUCCESS
}

// proportionalShare computes reserve * lpShare / liquidity with the
// same literal arithmetic order as the curve math.
func proportionalShare(reserve, lpShare, liquidity uint64) (uint64, tx.Result) {
	scaled, ok := checked.Mul(reserve, lpShare)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	share, ok := checked.Div(scaled, liquidity)
	if !ok {
		return 0, tx.TecMATH_OVERFLOW
	}
	return share, tx.TesSUCCESS
}
