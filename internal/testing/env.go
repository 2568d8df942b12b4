// Package testing provides a test harness around a ledger and the
// transaction engine: funded accounts, autofilled submissions and
// ledger closes.
package testing

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/curvefoundry/curved/internal/core/ledger"
	"github.com/curvefoundry/curved/internal/core/tx"
	crypto "github.com/curvefoundry/curved/internal/crypto/common"
	"github.com/curvefoundry/curved/internal/protocol"
)

const BaseFee uint64 = 10

// Account is a named test identity.
type Account struct {
	Name string
	ID   tx.AccountID
}

// Env wraps a live ledger for transaction tests.
type Env struct {
	t        *testing.T
	Ledger   *ledger.Ledger
	Platform Account
	clock    *ManualClock
	accounts map[string]Account
}

// NewEnv builds an environment with a funded platform account.
func NewEnv(t *testing.T) *Env {
	t.Helper()
	env := &Env{
		t:        t,
		Ledger:   ledger.New(),
		clock:    NewManualClock(),
		accounts: make(map[string]Account),
	}
	env.Platform = env.FundAccount("platform", 0)
	return env
}

// FundAccount creates an account with the given balance. The identity
// is derived from the name, so accounts are stable across runs.
func (e *Env) FundAccount(name string, balance uint64) Account {
	e.t.Helper()
	if acct, ok := e.accounts[name]; ok {
		e.t.Fatalf("account %q already exists", name)
		return acct
	}
	hash := crypto.Sha512Half(protocol.HashPrefixAccountID[:], []byte(name))
	var id tx.AccountID
	copy(id[:], hash[:20])

	require.NoError(e.t, tx.SaveAccount(e.Ledger, id, &tx.AccountRoot{Balance: balance}))
	acct := Account{Name: name, ID: id}
	e.accounts[name] = acct
	return acct
}

// Balance reads an account's quote balance.
func (e *Env) Balance(id tx.AccountID) uint64 {
	e.t.Helper()
	acct, err := tx.LoadAccount(e.Ledger, id)
	require.NoError(e.t, err)
	require.NotNil(e.t, acct, "account does not exist")
	return acct.Balance
}

// Sequence reads an account's next sequence number.
func (e *Env) Sequence(id tx.AccountID) uint32 {
	e.t.Helper()
	acct, err := tx.LoadAccount(e.Ledger, id)
	require.NoError(e.t, err)
	require.NotNil(e.t, acct, "account does not exist")
	return acct.Sequence
}

// Submit autofills fee and sequence, then applies the transaction.
func (e *Env) Submit(txn tx.Transaction) tx.ApplyResult {
	e.t.Helper()
	common := txn.GetCommon()
	if common.Fee == "" {
		common.Fee = strconv.FormatUint(BaseFee, 10)
	}
	if common.Sequence == nil {
		id, err := tx.DecodeAccountID(common.Account)
		require.NoError(e.t, err, "Account must be set before Submit")
		seq := e.Sequence(id)
		common.Sequence = &seq
	}
	engine := tx.NewEngine(e.Ledger, tx.EngineConfig{
		BaseFee:         BaseFee,
		PlatformAccount: e.Platform.ID,
		LedgerSequence:  e.Ledger.Sequence(),
		CloseTime:       e.clock.Now().Unix(),
	})
	return engine.Apply(txn)
}

// SubmitAndExpect submits and requires the given engine result.
func (e *Env) SubmitAndExpect(txn tx.Transaction, expected tx.Result) tx.ApplyResult {
	e.t.Helper()
	res := e.Submit(txn)
	require.Equal(e.t, expected, res.Result,
		"expected %s, got %s (%s)", expected, res.Result, res.Result.Message())
	return res
}

// Close seals the current ledger and moves time forward.
func (e *Env) Close() {
	e.t.Helper()
	e.clock.Advance(10 * time.Second)
	e.Ledger.Close(e.clock.Now().Unix())
}

// Now is the current harness time, unix seconds.
func (e *Env) Now() int64 { return e.clock.Now().Unix() }
