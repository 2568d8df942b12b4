package pool_test

import (
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvefoundry/curved/internal/core/assets"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/metadata"
	"github.com/curvefoundry/curved/internal/core/tx"
	"github.com/curvefoundry/curved/internal/core/tx/pool"
	testenv "github.com/curvefoundry/curved/internal/testing"
)

const totalSupply = "1000000000000" // 10% seeds the curve

func newCreateTx(creator testenv.Account) *pool.PoolCreate {
	return &pool.PoolCreate{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(creator.ID),
			TransactionType: tx.TypePoolCreate.String(),
		},
		Name:        "Morning Show",
		Symbol:      "SHOW",
		MetadataURI: "https://example.com/meta/show.json",
		TotalSupply: totalSupply,
	}
}

// createPool submits a PoolCreate and returns the issued asset.
func createPool(t *testing.T, env *testenv.Env, creator testenv.Account) [20]byte {
	t.Helper()
	seq := env.Sequence(creator.ID)
	env.SubmitAndExpect(newCreateTx(creator), tx.TesSUCCESS)
	return pool.DeriveAssetID(creator.ID, seq)
}

func custodyOf(asset [20]byte) tx.AccountID {
	return keylet.PoolAccountID(keylet.Pool(asset).Key)
}

func loadState(t *testing.T, env *testenv.Env, asset [20]byte) *pool.PoolState {
	t.Helper()
	state, err := pool.LoadPool(env.Ledger, asset)
	require.NoError(t, err)
	require.NotNil(t, state)
	return state
}

func loadLedger(t *testing.T, env *testenv.Env, asset [20]byte) *pool.LPAccount {
	t.Helper()
	lp, err := pool.LoadLPAccount(env.Ledger, asset)
	require.NoError(t, err)
	require.NotNil(t, lp)
	return lp
}

func assetBalance(t *testing.T, env *testenv.Env, asset [20]byte, holder tx.AccountID) uint64 {
	t.Helper()
	balance, err := assets.Balance(env.Ledger, asset, holder)
	require.NoError(t, err)
	return balance
}

func buyTx(trader testenv.Account, asset [20]byte, amount, minOut string) *pool.PoolBuy {
	return &pool.PoolBuy{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolBuy.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		Amount:      amount,
		MinAssetOut: minOut,
	}
}

func TestPoolCreateSeedsCurve(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)

	asset := createPool(t, env, creator)
	state := loadState(t, env, asset)

	assert.Equal(t, asset, state.AssetID)
	assert.Equal(t, creator.ID, [20]byte(state.Creator))
	assert.Equal(t, uint64(1_000_000_000_000), state.TotalSupply)
	assert.Equal(t, uint64(100_000_000_000), state.InitialReserve, "10%% of supply")
	assert.Equal(t, uint64(pool.InitialQuoteReserve), state.QuoteReserve)
	assert.Equal(t, uint64(100_000_000_000), state.AssetReserve)
	assert.Zero(t, state.UnitsTraded)
	assert.Zero(t, state.QuoteVolume)

	lp := loadLedger(t, env, asset)
	assert.Equal(t, uint64(pool.InitialQuoteReserve), lp.Liquidity)

	custody := custodyOf(asset)
	assert.Equal(t, uint64(100_000_000_000), assetBalance(t, env, asset, custody))
	// The recorded quote reserve is a curve parameter, not a funded
	// balance: custody opens empty.
	assert.Zero(t, env.Balance(custody))

	assert.Equal(t, uint64(30_000_000-pool.PoolCreationFee-testenv.BaseFee), env.Balance(creator.ID))
	assert.Equal(t, uint64(pool.PoolCreationFee), env.Balance(env.Platform.ID))

	record, err := metadata.Lookup(env.Ledger, asset)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, "Morning Show", record.Name)
	assert.Equal(t, "SHOW", record.Symbol)
	assert.Equal(t, tx.EncodeAccountID(creator.ID), record.Creator)
}

func TestPoolCreateUnfundedCreator(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 1_000_000)

	res := env.SubmitAndExpect(newCreateTx(creator), tx.TecUNFUNDED)
	assert.True(t, res.Applied, "fee is still claimed")

	asset := pool.DeriveAssetID(creator.ID, 0)
	state, err := pool.LoadPool(env.Ledger, asset)
	require.NoError(t, err)
	assert.Nil(t, state, "no pool comes into existence")
}

func TestPoolCreateValidation(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)

	bad := newCreateTx(creator)
	bad.Name = string(make([]byte, pool.MaxNameLen+1))
	env.SubmitAndExpect(bad, tx.TemINVALID_INPUT)

	bad = newCreateTx(creator)
	bad.Symbol = "TOOLONGSYMBOL"
	env.SubmitAndExpect(bad, tx.TemINVALID_INPUT)

	bad = newCreateTx(creator)
	bad.MetadataURI = string(make([]byte, pool.MaxMetadataURILen+1))
	env.SubmitAndExpect(bad, tx.TemINVALID_INPUT)

	bad = newCreateTx(creator)
	bad.TotalSupply = "0"
	env.SubmitAndExpect(bad, tx.TemINVALID_AMOUNT)
}

func TestPoolBuyMovesAlongCurve(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)

	before := loadState(t, env, asset)
	amount := uint64(1_000_000)
	expectedOut := before.AssetReserve -
		(before.QuoteReserve*before.AssetReserve)/(before.QuoteReserve+amount)
	expectedFee := amount * pool.PlatformFeeBps / pool.BasisPointsDivisor

	platformBefore := env.Balance(env.Platform.ID)
	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	assert.Equal(t, expectedOut, assetBalance(t, env, asset, trader.ID))
	assert.Equal(t, uint64(10_000_000-amount-testenv.BaseFee), env.Balance(trader.ID))
	assert.Equal(t, amount-expectedFee, env.Balance(custodyOf(asset)))
	assert.Equal(t, platformBefore+expectedFee, env.Balance(env.Platform.ID))

	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve+amount, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve-expectedOut, after.AssetReserve)
	assert.Equal(t, expectedOut, after.UnitsTraded)
	assert.Equal(t, amount, after.QuoteVolume)
}

func TestPoolBuySlippageLeavesStateUnchanged(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)

	before := loadState(t, env, asset)

	buy := buyTx(trader, asset, "1000000", "9999999999999")
	res := env.SubmitAndExpect(buy, tx.TecSLIPPAGE_EXCEEDED)
	assert.True(t, res.Applied)

	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve, after.AssetReserve)
	assert.Zero(t, assetBalance(t, env, asset, trader.ID))
	assert.Zero(t, env.Balance(custodyOf(asset)))
}

func TestPoolBuyUnknownAsset(t *testing.T) {
	env := testenv.NewEnv(t)
	trader := env.FundAccount("trader", 10_000_000)

	var asset [20]byte
	asset[0] = 0xEE
	env.SubmitAndExpect(buyTx(trader, asset, "1000", "0"), tx.TecNO_ENTRY)
}

func TestPoolSellReturnsQuoteMinusFee(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)

	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	state := loadState(t, env, asset)
	sellAmount := uint64(4_000_000_000)
	expectedQuoteOut := state.QuoteReserve -
		(state.QuoteReserve*state.AssetReserve)/(state.AssetReserve+sellAmount)
	expectedFee := expectedQuoteOut * pool.PlatformFeeBps / pool.BasisPointsDivisor

	traderQuoteBefore := env.Balance(trader.ID)
	traderAssetBefore := assetBalance(t, env, asset, trader.ID)
	unitsBefore := state.UnitsTraded

	sell := &pool.PoolSell{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolSell.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		Amount:      "4000000000",
		MinQuoteOut: "0",
	}
	env.SubmitAndExpect(sell, tx.TesSUCCESS)

	assert.Equal(t, traderAssetBefore-sellAmount, assetBalance(t, env, asset, trader.ID))
	assert.Equal(t, traderQuoteBefore+(expectedQuoteOut-expectedFee)-testenv.BaseFee,
		env.Balance(trader.ID))

	after := loadState(t, env, asset)
	assert.Equal(t, state.QuoteReserve-expectedQuoteOut, after.QuoteReserve)
	assert.Equal(t, state.AssetReserve+sellAmount, after.AssetReserve)
	assert.Equal(t, unitsBefore-sellAmount, after.UnitsTraded)
	assert.Equal(t, state.QuoteVolume+expectedQuoteOut, after.QuoteVolume)
}

func TestPoolSellSlippageFloorsOnPostFeeAmount(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)

	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	state := loadState(t, env, asset)
	sellAmount := uint64(4_000_000_000)
	quoteOut := state.QuoteReserve -
		(state.QuoteReserve*state.AssetReserve)/(state.AssetReserve+sellAmount)
	quoteToSeller := quoteOut - quoteOut*pool.PlatformFeeBps/pool.BasisPointsDivisor

	sell := func(minOut uint64) *pool.PoolSell {
		return &pool.PoolSell{
			BaseTx: tx.BaseTx{
				Account:         tx.EncodeAccountID(trader.ID),
				TransactionType: tx.TypePoolSell.String(),
			},
			Asset:       tx.EncodeAccountID(asset),
			Amount:      strconv.FormatUint(sellAmount, 10),
			MinQuoteOut: strconv.FormatUint(minOut, 10),
		}
	}

	// The seller receives quoteOut minus the fee; a floor of one above
	// that must fail, the exact amount must pass.
	res := env.SubmitAndExpect(sell(quoteToSeller+1), tx.TecSLIPPAGE_EXCEEDED)
	assert.True(t, res.Applied)

	after := loadState(t, env, asset)
	assert.Equal(t, state.QuoteReserve, after.QuoteReserve)
	assert.Equal(t, state.AssetReserve, after.AssetReserve)

	quoteBefore := env.Balance(trader.ID)
	env.SubmitAndExpect(sell(quoteToSeller), tx.TesSUCCESS)
	assert.Equal(t, quoteBefore+quoteToSeller-testenv.BaseFee, env.Balance(trader.ID))
}

func TestPoolSellCustodyShortfall(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)

	// The recorded reserve grows by the full buy amount while custody
	// receives only the post-fee amount, so selling the whole position
	// prices above what custody actually holds.
	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)
	position := assetBalance(t, env, asset, trader.ID)
	before := loadState(t, env, asset)

	sell := &pool.PoolSell{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolSell.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		Amount:      "9090909091",
		MinQuoteOut: "0",
	}
	require.Equal(t, position, uint64(9_090_909_091))
	env.SubmitAndExpect(sell, tx.TecUNFUNDED)

	// The whole invocation is discarded.
	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve, after.AssetReserve)
	assert.Equal(t, position, assetBalance(t, env, asset, trader.ID))
}

func TestPoolSellUnitsTradedFloorsAtZero(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 20_000_000)
	asset := createPool(t, env, creator)

	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	// The trader can come to hold more than UnitsTraded by withdrawing
	// liquidity: the deposit funds custody's quote side, the withdraw
	// pays out asset without touching the trade counter.
	deposit := &pool.PoolDeposit{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolDeposit.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		QuoteAmount: "5000000",
		AssetAmount: "1",
	}
	env.SubmitAndExpect(deposit, tx.TesSUCCESS)

	withdraw := &pool.PoolWithdraw{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolWithdraw.String(),
		},
		Asset:   tx.EncodeAccountID(asset),
		LPShare: "3000000",
	}
	env.SubmitAndExpect(withdraw, tx.TesSUCCESS)

	state := loadState(t, env, asset)
	sellAmount := state.UnitsTraded + 500_000_000
	holding := assetBalance(t, env, asset, trader.ID)
	require.GreaterOrEqual(t, holding, sellAmount)

	sell := &pool.PoolSell{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolSell.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		Amount:      strconv.FormatUint(sellAmount, 10),
		MinQuoteOut: "0",
	}
	env.SubmitAndExpect(sell, tx.TesSUCCESS)

	after := loadState(t, env, asset)
	assert.Zero(t, after.UnitsTraded)
}

func TestPoolDepositGrowsBothSides(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)
	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	before := loadState(t, env, asset)
	lpBefore := loadLedger(t, env, asset)
	custodyQuoteBefore := env.Balance(custodyOf(asset))
	custodyAssetBefore := assetBalance(t, env, asset, custodyOf(asset))

	deposit := &pool.PoolDeposit{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolDeposit.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		QuoteAmount: "500000",
		AssetAmount: "1000000000",
	}
	env.SubmitAndExpect(deposit, tx.TesSUCCESS)

	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve+500_000, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve+1_000_000_000, after.AssetReserve)

	lpAfter := loadLedger(t, env, asset)
	assert.Equal(t, lpBefore.Liquidity+500_000, lpAfter.Liquidity)

	assert.Equal(t, custodyQuoteBefore+500_000, env.Balance(custodyOf(asset)))
	assert.Equal(t, custodyAssetBefore+1_000_000_000,
		assetBalance(t, env, asset, custodyOf(asset)))
}

func TestPoolDepositRejectsZeroSide(t *testing.T) {
	env := testenv.NewEnv(t)
	trader := env.FundAccount("trader", 10_000_000)

	var asset [20]byte
	deposit := &pool.PoolDeposit{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolDeposit.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		QuoteAmount: "0",
		AssetAmount: "100",
	}
	env.SubmitAndExpect(deposit, tx.TemINVALID_AMOUNT)
}

func TestPoolWithdrawProportional(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	trader := env.FundAccount("trader", 10_000_000)
	asset := createPool(t, env, creator)
	env.SubmitAndExpect(buyTx(trader, asset, "1000000", "0"), tx.TesSUCCESS)

	deposit := &pool.PoolDeposit{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolDeposit.String(),
		},
		Asset:       tx.EncodeAccountID(asset),
		QuoteAmount: "500000",
		AssetAmount: "1000000000",
	}
	env.SubmitAndExpect(deposit, tx.TesSUCCESS)

	before := loadState(t, env, asset)
	lpBefore := loadLedger(t, env, asset)
	lpShare := uint64(250_000)
	expectedQuote := before.QuoteReserve * lpShare / lpBefore.Liquidity
	expectedAsset := before.AssetReserve * lpShare / lpBefore.Liquidity

	quoteBefore := env.Balance(trader.ID)
	holdingBefore := assetBalance(t, env, asset, trader.ID)

	withdraw := &pool.PoolWithdraw{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(trader.ID),
			TransactionType: tx.TypePoolWithdraw.String(),
		},
		Asset:   tx.EncodeAccountID(asset),
		LPShare: "250000",
	}
	env.SubmitAndExpect(withdraw, tx.TesSUCCESS)

	assert.Equal(t, quoteBefore+expectedQuote-testenv.BaseFee, env.Balance(trader.ID))
	assert.Equal(t, holdingBefore+expectedAsset, assetBalance(t, env, asset, trader.ID))

	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve-expectedQuote, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve-expectedAsset, after.AssetReserve)
	assert.Equal(t, lpBefore.Liquidity-lpShare, loadLedger(t, env, asset).Liquidity)
}

func TestPoolWithdrawExceedingLiquidity(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 30_000_000)
	asset := createPool(t, env, creator)

	before := loadState(t, env, asset)
	lpBefore := loadLedger(t, env, asset)

	withdraw := &pool.PoolWithdraw{
		BaseTx: tx.BaseTx{
			Account:         tx.EncodeAccountID(creator.ID),
			TransactionType: tx.TypePoolWithdraw.String(),
		},
		Asset:   tx.EncodeAccountID(asset),
		LPShare: strconv.FormatUint(lpBefore.Liquidity+1, 10),
	}
	env.SubmitAndExpect(withdraw, tx.TecINSUFFICIENT_LIQUIDITY)

	after := loadState(t, env, asset)
	assert.Equal(t, before.QuoteReserve, after.QuoteReserve)
	assert.Equal(t, before.AssetReserve, after.AssetReserve)
	assert.Equal(t, lpBefore.Liquidity, loadLedger(t, env, asset).Liquidity)
}

func TestPoolCreateIsRepeatableAcrossSequences(t *testing.T) {
	env := testenv.NewEnv(t)
	creator := env.FundAccount("creator", 100_000_000)

	first := createPool(t, env, creator)
	env.Close()
	second := createPool(t, env, creator)

	assert.NotEqual(t, first, second, "each creation issues a fresh asset")
	assert.NotNil(t, loadState(t, env, first))
	assert.NotNil(t, loadState(t, env, second))
}

