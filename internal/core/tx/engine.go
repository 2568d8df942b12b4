package tx

import (
	"encoding/json"
	"fmt"

	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	crypto "github.com/curvefoundry/curved/internal/crypto/common"
	"github.com/curvefoundry/curved/internal/protocol"
)

// LedgerView is the state surface transactions execute against. The
// ledger implements it directly; the engine wraps it in buffered tables.
type LedgerView interface {
	Exists(k keylet.Keylet) bool
	Read(k keylet.Keylet) ([]byte, error)
	Insert(k keylet.Keylet, data []byte) error
	Update(k keylet.Keylet, data []byte) error
	Erase(k keylet.Keylet) error
	ForEach(fn func(key [32]byte, data []byte) bool) error
	AdjustFeesBurned(amount uint64)
}

// EngineConfig carries the per-ledger parameters the engine and the
// transactors read.
type EngineConfig struct {
	BaseFee         uint64
	PlatformAccount AccountID
	LedgerSequence  uint32
	CloseTime       int64
}

// ApplyResult is the outcome of submitting one transaction.
type ApplyResult struct {
	Result   Result
	Hash     [32]byte
	Applied  bool
	Metadata *Metadata
}

// Engine validates and executes transactions against a ledger view.
type Engine struct {
	view   LedgerView
	config EngineConfig
}

func NewEngine(view LedgerView, config EngineConfig) *Engine {
	return &Engine{view: view, config: config}
}

func (e *Engine) Config() EngineConfig { return e.config }

// Apply runs the full pipeline: stateless preflight, stateful preclaim,
// then execution. Applied results (tes and tec) consume the fee and the
// sequence number; everything else leaves the ledger untouched.
func (e *Engine) Apply(txn Transaction) ApplyResult {
	hash := TransactionHash(txn)

	if r := e.preflight(txn); r != TesSUCCESS {
		return ApplyResult{Result: r, Hash: hash}
	}

	accountID, _ := DecodeAccountID(txn.GetCommon().Account)
	acct, r := e.preclaim(txn, accountID)
	if r != TesSUCCESS {
		return ApplyResult{Result: r, Hash: hash}
	}

	result, meta := e.doApply(txn, accountID, acct, hash)
	return ApplyResult{
		Result:   result,
		Hash:     hash,
		Applied:  result.IsApplied(),
		Metadata: meta,
	}
}

func (e *Engine) preflight(txn Transaction) Result {
	common := txn.GetCommon()
	if _, err := DecodeAccountID(common.Account); err != nil {
		return TemBAD_SRC_ACCOUNT
	}
	if common.Sequence == nil {
		return TemBAD_SEQUENCE
	}
	if common.Fee != "" && common.FeeAmount() == 0 {
		return TemBAD_FEE
	}
	if err := common.ValidateCommon(); err != nil {
		return parseValidationError(err)
	}
	if err := txn.Validate(); err != nil {
		return parseValidationError(err)
	}
	return TesSUCCESS
}

func (e *Engine) preclaim(txn Transaction, accountID AccountID) (*AccountRoot, Result) {
	acct, err := LoadAccount(e.view, accountID)
	if err != nil {
		return nil, TefINTERNAL
	}
	if acct == nil {
		return nil, TerNO_ACCOUNT
	}
	seq := *txn.GetCommon().Sequence
	switch {
	case seq < acct.Sequence:
		return nil, TefPAST_SEQ
	case seq > acct.Sequence:
		return nil, TerPRE_SEQ
	}
	fee := txn.GetCommon().FeeAmount()
	if fee < e.config.BaseFee {
		fee = e.config.BaseFee
	}
	if acct.Balance < fee {
		return nil, TerINSUF_FEE
	}
	return acct, TesSUCCESS
}

func (e *Engine) doApply(txn Transaction, accountID AccountID, acct *AccountRoot, hash [32]byte) (Result, *Metadata) {
	appliable, ok := txn.(Appliable)
	if !ok {
		return TefINTERNAL, nil
	}

	outer := NewApplyStateTable(e.view)

	// Fee and sequence are consumed on the outer table so a tec result
	// keeps them while the effects are discarded.
	fee := txn.GetCommon().FeeAmount()
	if fee < e.config.BaseFee {
		fee = e.config.BaseFee
	}
	acct.Balance -= fee
	acct.Sequence++
	acct.PreviousTxnID = hash
	acct.PreviousTxnLgrSeq = e.config.LedgerSequence
	if err := outer.Update(keylet.Account(accountID), acct.Serialize()); err != nil {
		return TefINTERNAL, nil
	}
	outer.AdjustFeesBurned(fee)

	inner := NewApplyStateTable(outer)
	result := appliable.Apply(&ApplyContext{
		View:      inner,
		Tx:        txn,
		Account:   acct,
		AccountID: accountID,
		TxHash:    hash,
		Config:    e.config,
	})

	if result == TesSUCCESS {
		if _, err := inner.Apply(); err != nil {
			result = TecINTERNAL
		}
	}
	if !result.IsApplied() {
		return result, nil
	}

	meta, err := outer.Apply()
	if err != nil {
		return TefINTERNAL, nil
	}
	meta.TransactionResult = result.String()
	return result, meta
}

// TransactionHash is the identifying hash of a transaction, computed
// over its canonical JSON form with a type prefix.
func TransactionHash(txn Transaction) [32]byte {
	canonical, err := json.Marshal(txn.Flatten())
	if err != nil {
		panic(fmt.Sprintf("tx: flatten of %s not serializable: %v", txn.TxType(), err))
	}
	return crypto.Sha512Half(protocol.HashPrefixTransactionID[:], canonical)
}
