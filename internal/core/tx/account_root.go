package tx

import (
	"encoding/binary"
	"fmt"

	"github.com/curvefoundry/curved/internal/core/checked"
	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
)

// AccountRoot is the ledger entry backing an account. Balance is held in
// quote units.
type AccountRoot struct {
	Balance           uint64
	Sequence          uint32
	OwnerCount        uint32
	PreviousTxnID     [32]byte
	PreviousTxnLgrSeq uint32
}

const accountRootSize = 2 + 8 + 4 + 4 + 32 + 4

// Serialize renders the entry in its fixed binary layout, big-endian,
// prefixed with the entry type.
func (a *AccountRoot) Serialize() []byte {
	buf := make([]byte, accountRootSize)
	binary.BigEndian.PutUint16(buf[0:2], uint16(entry.TypeAccountRoot))
	binary.BigEndian.PutUint64(buf[2:10], a.Balance)
	binary.BigEndian.PutUint32(buf[10:14], a.Sequence)
	binary.BigEndian.PutUint32(buf[14:18], a.OwnerCount)
	copy(buf[18:50], a.PreviousTxnID[:])
	binary.BigEndian.PutUint32(buf[50:54], a.PreviousTxnLgrSeq)
	return buf
}

// ParseAccountRoot decodes an AccountRoot from its binary form.
func ParseAccountRoot(data []byte) (*AccountRoot, error) {
	if len(data) != accountRootSize {
		return nil, fmt.Errorf("account root: expected %d bytes, got %d", accountRootSize, len(data))
	}
	if t := entry.Type(binary.BigEndian.Uint16(data[0:2])); t != entry.TypeAccountRoot {
		return nil, fmt.Errorf("account root: wrong entry type %s", t)
	}
	a := &AccountRoot{
		Balance:    binary.BigEndian.Uint64(data[2:10]),
		Sequence:   binary.BigEndian.Uint32(data[10:14]),
		OwnerCount: binary.BigEndian.Uint32(data[14:18]),
	}
	copy(a.PreviousTxnID[:], data[18:50])
	a.PreviousTxnLgrSeq = binary.BigEndian.Uint32(data[50:54])
	return a, nil
}

// LoadAccount reads an account from the view. Returns nil when the
// account does not exist.
func LoadAccount(view LedgerView, id AccountID) (*AccountRoot, error) {
	k := keylet.Account(id)
	if !view.Exists(k) {
		return nil, nil
	}
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	return ParseAccountRoot(data)
}

// SaveAccount writes an account back to the view, creating it if absent.
func SaveAccount(view LedgerView, id AccountID, acct *AccountRoot) error {
	k := keylet.Account(id)
	if view.Exists(k) {
		return view.Update(k, acct.Serialize())
	}
	return view.Insert(k, acct.Serialize())
}

// Credit moves quote between two accounts, creating the destination if
// it does not exist. Returns TecUNFUNDED when the source balance is
// short and TecMATH_OVERFLOW on destination overflow.
func Credit(view LedgerView, from, to AccountID, amount uint64) Result {
	if amount == 0 || from == to {
		return TesSUCCESS
	}
	src, err := LoadAccount(view, from)
	if err != nil {
		return TefINTERNAL
	}
	if src == nil {
		return TerNO_ACCOUNT
	}
	if src.Balance < amount {
		return TecUNFUNDED
	}
	dst, err := LoadAccount(view, to)
	if err != nil {
		return TefINTERNAL
	}
	if dst == nil {
		dst = &AccountRoot{}
	}
	newBalance, ok := checked.Add(dst.Balance, amount)
	if !ok {
		return TecMATH_OVERFLOW
	}
	src.Balance -= amount
	dst.Balance = newBalance
	if err := SaveAccount(view, from, src); err != nil {
		return TefINTERNAL
	}
	if err := SaveAccount(view, to, dst); err != nil {
		return TefINTERNAL
	}
	return TesSUCCESS
}
