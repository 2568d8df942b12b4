// Package assets tracks per-account balances of pool-issued assets as
// AssetHolding ledger entries.
package assets

import (
	"encoding/binary"
	"fmt"

	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// AssetID identifies an issued asset. Pool assets use the custody
// account identifier of their pool.
type AssetID = [20]byte

// Holding is one account's balance of one asset.
type Holding struct {
	Balance uint64
}

const holdingSize = 2 + 8

func (h *Holding) Serialize() []byte {
	buf := make([]byte, holdingSize)
	binary.BigEndian.PutUint16(buf[0:2], uint16(entry.TypeAssetHolding))
	binary.BigEndian.PutUint64(buf[2:10], h.Balance)
	return buf
}

func ParseHolding(data []byte) (*Holding, error) {
	if len(data) != holdingSize {
		return nil, fmt.Errorf("asset holding: expected %d bytes, got %d", holdingSize, len(data))
	}
	if t := entry.Type(binary.BigEndian.Uint16(data[0:2])); t != entry.TypeAssetHolding {
		return nil, fmt.Errorf("asset holding: wrong entry type %s", t)
	}
	return &Holding{Balance: binary.BigEndian.Uint64(data[2:10])}, nil
}

// Balance reads a holder's balance, zero when no holding exists.
func Balance(view tx.LedgerView, asset AssetID, holder tx.AccountID) (uint64, error) {
	k := keylet.AssetHolding(asset, holder)
	if !view.Exists(k) {
		return 0, nil
	}
	data, err := view.Read(k)
	if err != nil {
		return 0, err
	}
	h, err := ParseHolding(data)
	if err != nil {
		return 0, err
	}
	return h.Balance, nil
}

func writeHolding(view tx.LedgerView, asset AssetID, holder tx.AccountID, h *Holding) error {
	k := keylet.AssetHolding(asset, holder)
	if view.Exists(k) {
		return view.Update(k, h.Serialize())
	}
	return view.Insert(k, h.Serialize())
}

// Mint credits freshly issued units to a holder.
func Mint(view tx.LedgerView, asset AssetID, to tx.AccountID, amount uint64) tx.Result {
	if amount == 0 {
		return tx.TesSUCCESS
	}
	balance, err := Balance(view, asset, to)
	if err != nil {
		return tx.TefINTERNAL
	}
	newBalance, ok := checked.Add(balance, amount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	if err := writeHolding(view, asset, to, &Holding{Balance: newBalance}); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Transfer moves asset units between holders. The authority must be the
// source holder; pool transactors pass the custody account when spending
// from the curve.
func Transfer(view tx.LedgerView, asset AssetID, from, to tx.AccountID, amount uint64, authority tx.AccountID) tx.Result {
	if authority != from {
		return tx.TecNO_ENTRY
	}
	if amount == 0 || from == to {
		return tx.TesSUCCESS
	}
	k := keylet.AssetHolding(asset, from)
	if !view.Exists(k) {
		return tx.TecNO_ENTRY
	}
	data, err := view.Read(k)
	if err != nil {
		return tx.TefINTERNAL
	}
	src, err := ParseHolding(data)
	if err != nil {
		return tx.TefINTERNAL
	}
	if src.Balance < amount {
		return tx.TecUNFUNDED
	}
	dstBalance, err := Balance(view, asset, to)
	if err != nil {
		return tx.TefINTERNAL
	}
	newDst, ok := checked.Add(dstBalance, amount)
	if !ok {
		return tx.TecMATH_OVERFLOW
	}
	src.Balance -= amount
	if err := writeHolding(view, asset, from, src); err != nil {
		return tx.TefINTERNAL
	}
	if err := writeHolding(view, asset, to, &Holding{Balance: newDst}); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}
