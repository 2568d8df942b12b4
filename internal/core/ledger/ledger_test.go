package ledger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/storage/database/compression"
	"github.com/curvefoundry/curved/internal/storage/database/memory"
)

func k(b byte) keylet.Keylet {
	var key [32]byte
	key[0] = b
	return keylet.Keylet{Key: key}
}

func TestLedgerCRUD(t *testing.T) {
	l := New()

	require.NoError(t, l.Insert(k(1), []byte("one")))
	assert.ErrorIs(t, l.Insert(k(1), []byte("dup")), ErrEntryExists)

	data, err := l.Read(k(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("one"), data)

	require.NoError(t, l.Update(k(1), []byte("uno")))
	assert.ErrorIs(t, l.Update(k(2), []byte("x")), ErrEntryNotFound)

	require.NoError(t, l.Erase(k(1)))
	assert.ErrorIs(t, l.Erase(k(1)), ErrEntryNotFound)
	assert.False(t, l.Exists(k(1)))
}

func TestLedgerCloseAdvancesSequence(t *testing.T) {
	l := New()
	assert.Equal(t, uint32(1), l.Sequence())

	l.Close(1700000000)
	assert.Equal(t, uint32(2), l.Sequence())
	assert.Equal(t, int64(1700000000), l.CloseTime())
}

func TestLedgerStoreLoadRoundTrip(t *testing.T) {
	l := New()
	require.NoError(t, l.Insert(k(1), []byte("alpha")))
	require.NoError(t, l.Insert(k(2), []byte("beta")))
	l.AdjustFeesBurned(30)
	l.Close(1700000000)

	db := memory.New()
	c := &compression.LZ4Compressor{}
	require.NoError(t, l.Store(context.Background(), db, c))

	restored, err := Load(context.Background(), db, c)
	require.NoError(t, err)
	assert.Equal(t, l.Sequence(), restored.Sequence())
	assert.Equal(t, l.CloseTime(), restored.CloseTime())
	assert.Equal(t, l.FeesBurned(), restored.FeesBurned())
	assert.Equal(t, 2, restored.EntryCount())

	data, err := restored.Read(k(1))
	require.NoError(t, err)
	assert.Equal(t, []byte("alpha"), data)
}

func TestStoreDropsErasedEntries(t *testing.T) {
	l := New()
	require.NoError(t, l.Insert(k(1), []byte("alpha")))
	require.NoError(t, l.Insert(k(2), []byte("beta")))

	db := memory.New()
	c := &compression.NoCompressor{}
	require.NoError(t, l.Store(context.Background(), db, c))

	require.NoError(t, l.Erase(k(2)))
	require.NoError(t, l.Store(context.Background(), db, c))

	restored, err := Load(context.Background(), db, c)
	require.NoError(t, err)
	assert.Equal(t, 1, restored.EntryCount())
	assert.False(t, restored.Exists(k(2)))
}

func TestLoadWithoutStoreFails(t *testing.T) {
	_, err := Load(context.Background(), memory.New(), &compression.NoCompressor{})
	assert.Error(t, err)
}
