package tx

import "github.com/curvefoundry/curved/internal/core/ledger/keylet"

// memView is a bare map-backed LedgerView for engine tests.
type memView struct {
	entries    map[[32]byte][]byte
	feesBurned uint64
}

func newMemView() *memView {
	return &memView{entries: make(map[[32]byte][]byte)}
}

func (m *memView) Exists(k keylet.Keylet) bool {
	_, ok := m.entries[k.Key]
	return ok
}

func (m *memView) Read(k keylet.Keylet) ([]byte, error) {
	data, ok := m.entries[k.Key]
	if !ok {
		return nil, errNotFound
	}
	return append([]byte(nil), data...), nil
}

func (m *memView) Insert(k keylet.Keylet, data []byte) error {
	if _, ok := m.entries[k.Key]; ok {
		return errExists
	}
	m.entries[k.Key] = append([]byte(nil), data...)
	return nil
}

func (m *memView) Update(k keylet.Keylet, data []byte) error {
	if _, ok := m.entries[k.Key]; !ok {
		return errNotFound
	}
	m.entries[k.Key] = append([]byte(nil), data...)
	return nil
}

func (m *memView) Erase(k keylet.Keylet) error {
	if _, ok := m.entries[k.Key]; !ok {
		return errNotFound
	}
	delete(m.entries, k.Key)
	return nil
}

func (m *memView) ForEach(fn func(key [32]byte, data []byte) bool) error {
	for key, data := range m.entries {
		if !fn(key, data) {
			return nil
		}
	}
	return nil
}

func (m *memView) AdjustFeesBurned(amount uint64) { m.feesBurned += amount }

var (
	errNotFound = viewError("entry not found")
	errExists   = viewError("entry already exists")
)

type viewError string

func (e viewError) Error() string { return string(e) }
