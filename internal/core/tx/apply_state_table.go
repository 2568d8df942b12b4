package tx

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
)

type nodeAction int

const (
	actionCache nodeAction = iota
	actionInsert
	actionModify
	actionErase
)

type trackedEntry struct {
	action nodeAction
	data   []byte
}

// ApplyStateTable buffers a transaction's writes on top of a base view.
// Nothing reaches the base until Apply; a discarded table leaves the
// ledger untouched.
type ApplyStateTable struct {
	base       LedgerView
	entries    map[[32]byte]*trackedEntry
	feesBurned uint64
}

func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:    base,
		entries: make(map[[32]byte]*trackedEntry),
	}
}

func (t *ApplyStateTable) Exists(k keylet.Keylet) bool {
	if e, ok := t.entries[k.Key]; ok {
		return e.action != actionErase
	}
	return t.base.Exists(k)
}

func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if e, ok := t.entries[k.Key]; ok {
		if e.action == actionErase {
			return nil, fmt.Errorf("entry %s erased in this transaction", hex.EncodeToString(k.Key[:]))
		}
		return append([]byte(nil), e.data...), nil
	}
	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}
	t.entries[k.Key] = &trackedEntry{action: actionCache, data: append([]byte(nil), data...)}
	return append([]byte(nil), data...), nil
}

func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if e, ok := t.entries[k.Key]; ok && e.action != actionErase {
		return fmt.Errorf("insert over live entry %s", hex.EncodeToString(k.Key[:]))
	} else if !ok && t.base.Exists(k) {
		return fmt.Errorf("insert over live entry %s", hex.EncodeToString(k.Key[:]))
	}
	t.entries[k.Key] = &trackedEntry{action: actionInsert, data: append([]byte(nil), data...)}
	return nil
}

func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if e, ok := t.entries[k.Key]; ok {
		switch e.action {
		case actionErase:
			return fmt.Errorf("update of erased entry %s", hex.EncodeToString(k.Key[:]))
		case actionInsert:
			e.data = append([]byte(nil), data...)
		default:
			e.action = actionModify
			e.data = append([]byte(nil), data...)
		}
		return nil
	}
	if !t.base.Exists(k) {
		return fmt.Errorf("update of missing entry %s", hex.EncodeToString(k.Key[:]))
	}
	t.entries[k.Key] = &trackedEntry{action: actionModify, data: append([]byte(nil), data...)}
	return nil
}

func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if e, ok := t.entries[k.Key]; ok {
		if e.action == actionInsert {
			delete(t.entries, k.Key)
			return nil
		}
		// Keep the last bytes so the metadata can still name the type.
		e.action = actionErase
		return nil
	}
	if !t.base.Exists(k) {
		return fmt.Errorf("erase of missing entry %s", hex.EncodeToString(k.Key[:]))
	}
	data, err := t.base.Read(k)
	if err != nil {
		return err
	}
	t.entries[k.Key] = &trackedEntry{action: actionErase, data: data}
	return nil
}

func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	seen := make(map[[32]byte]bool, len(t.entries))
	for key, e := range t.entries {
		seen[key] = true
		if e.action == actionErase {
			continue
		}
		if !fn(key, e.data) {
			return nil
		}
	}
	return t.base.ForEach(func(key [32]byte, data []byte) bool {
		if seen[key] {
			return true
		}
		return fn(key, data)
	})
}

func (t *ApplyStateTable) AdjustFeesBurned(amount uint64) {
	t.feesBurned += amount
}

// Apply commits the buffered writes to the base view and returns the
// metadata describing every touched entry.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	meta := &Metadata{}
	for key, e := range t.entries {
		k := keylet.Keylet{Key: key}
		var err error
		var nodeType string
		switch e.action {
		case actionCache:
			continue
		case actionInsert:
			err = t.base.Insert(k, e.data)
			nodeType = "CreatedNode"
		case actionModify:
			err = t.base.Update(k, e.data)
			nodeType = "ModifiedNode"
		case actionErase:
			err = t.base.Erase(k)
			nodeType = "DeletedNode"
		}
		if err != nil {
			return nil, err
		}
		meta.AffectedNodes = append(meta.AffectedNodes, AffectedNode{
			NodeType:        nodeType,
			LedgerEntryType: entryTypeName(e.data),
			LedgerIndex:     hex.EncodeToString(key[:]),
		})
	}
	if t.feesBurned > 0 {
		t.base.AdjustFeesBurned(t.feesBurned)
	}
	sort.Slice(meta.AffectedNodes, func(i, j int) bool {
		return meta.AffectedNodes[i].LedgerIndex < meta.AffectedNodes[j].LedgerIndex
	})
	return meta, nil
}

func entryTypeName(data []byte) string {
	if len(data) < 2 {
		return "Unknown"
	}
	return entry.Type(binary.BigEndian.Uint16(data[0:2])).String()
}
