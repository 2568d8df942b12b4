package tx

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
)

func testKeylet(b byte) keylet.Keylet {
	var key [32]byte
	key[0] = b
	return keylet.Keylet{Key: key}
}

func TestApplyStateTableBuffersUntilApply(t *testing.T) {
	base := newMemView()
	table := NewApplyStateTable(base)

	k := testKeylet(1)
	acct := &AccountRoot{Balance: 42}
	require.NoError(t, table.Insert(k, acct.Serialize()))

	assert.True(t, table.Exists(k))
	assert.False(t, base.Exists(k), "insert must not reach the base before Apply")

	meta, err := table.Apply()
	require.NoError(t, err)
	assert.True(t, base.Exists(k))
	require.Len(t, meta.AffectedNodes, 1)
	assert.Equal(t, "CreatedNode", meta.AffectedNodes[0].NodeType)
	assert.Equal(t, "AccountRoot", meta.AffectedNodes[0].LedgerEntryType)
}

func TestApplyStateTableInsertOverLiveEntryFails(t *testing.T) {
	base := newMemView()
	k := testKeylet(2)
	require.NoError(t, base.Insert(k, (&AccountRoot{}).Serialize()))

	table := NewApplyStateTable(base)
	assert.Error(t, table.Insert(k, (&AccountRoot{}).Serialize()))
}

func TestApplyStateTableEraseOfOwnInsertLeavesNoTrace(t *testing.T) {
	base := newMemView()
	table := NewApplyStateTable(base)
	k := testKeylet(3)

	require.NoError(t, table.Insert(k, (&AccountRoot{}).Serialize()))
	require.NoError(t, table.Erase(k))

	meta, err := table.Apply()
	require.NoError(t, err)
	assert.Empty(t, meta.AffectedNodes)
	assert.False(t, base.Exists(k))
}

func TestApplyStateTableUpdateAndErase(t *testing.T) {
	base := newMemView()
	k := testKeylet(4)
	require.NoError(t, base.Insert(k, (&AccountRoot{Balance: 1}).Serialize()))

	table := NewApplyStateTable(base)
	require.NoError(t, table.Update(k, (&AccountRoot{Balance: 2}).Serialize()))

	data, err := table.Read(k)
	require.NoError(t, err)
	acct, err := ParseAccountRoot(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(2), acct.Balance)

	require.NoError(t, table.Erase(k))
	_, err = table.Read(k)
	assert.Error(t, err)

	meta, err := table.Apply()
	require.NoError(t, err)
	require.Len(t, meta.AffectedNodes, 1)
	assert.Equal(t, "DeletedNode", meta.AffectedNodes[0].NodeType)
	assert.Equal(t, "AccountRoot", meta.AffectedNodes[0].LedgerEntryType)
	assert.False(t, base.Exists(k))
}

func TestApplyStateTableDiscardLeavesBaseUntouched(t *testing.T) {
	base := newMemView()
	k := testKeylet(5)
	require.NoError(t, base.Insert(k, (&AccountRoot{Balance: 10}).Serialize()))

	table := NewApplyStateTable(base)
	require.NoError(t, table.Update(k, (&AccountRoot{Balance: 99}).Serialize()))
	table.AdjustFeesBurned(7)
	// Table dropped without Apply.

	data, err := base.Read(k)
	require.NoError(t, err)
	acct, err := ParseAccountRoot(data)
	require.NoError(t, err)
	assert.Equal(t, uint64(10), acct.Balance)
	assert.Zero(t, base.feesBurned)
}

func TestApplyStateTableFeesBurnedCommit(t *testing.T) {
	base := newMemView()
	table := NewApplyStateTable(base)
	table.AdjustFeesBurned(12)
	_, err := table.Apply()
	require.NoError(t, err)
	assert.Equal(t, uint64(12), base.feesBurned)
}
