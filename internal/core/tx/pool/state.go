package pool

import (
	"encoding/binary"
	"fmt"

	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// PoolState is the reserve record of one pool, keyed by its asset.
type PoolState struct {
	AssetID        [20]byte
	Creator        [20]byte
	Name           string
	Symbol         string
	MetadataURI    string
	TotalSupply    uint64
	InitialReserve uint64
	QuoteReserve   uint64
	AssetReserve   uint64
	UnitsTraded    uint64
	QuoteVolume    uint64
	CreatedAt      int64
}

// Serialize renders the pool state in its fixed big-endian layout.
// Strings carry a one-byte length prefix; lengths are bounded by the
// creation-time limits.
func (p *PoolState) Serialize() []byte {
	size := 2 + 20 + 20 + 1 + len(p.Name) + 1 + len(p.Symbol) + 1 + len(p.MetadataURI) + 8*7
	buf := make([]byte, 0, size)

	var u16 [2]byte
	binary.BigEndian.PutUint16(u16[:], uint16(entry.TypePool))
	buf = append(buf, u16[:]...)
	buf = append(buf, p.AssetID[:]...)
	buf = append(buf, p.Creator[:]...)
	buf = appendString(buf, p.Name)
	buf = appendString(buf, p.Symbol)
	buf = appendString(buf, p.MetadataURI)
	buf = appendUint64(buf, p.TotalSupply)
	buf = appendUint64(buf, p.InitialReserve)
	buf = appendUint64(buf, p.QuoteReserve)
	buf = appendUint64(buf, p.AssetReserve)
	buf = appendUint64(buf, p.UnitsTraded)
	buf = appendUint64(buf, p.QuoteVolume)
	buf = appendUint64(buf, uint64(p.CreatedAt))
	return buf
}

// ParsePoolState decodes a pool state record.
func ParsePoolState(data []byte) (*PoolState, error) {
	r := &reader{data: data}
	if t := entry.Type(r.uint16()); t != entry.TypePool {
		return nil, fmt.Errorf("pool state: wrong entry type %s", t)
	}
	p := &PoolState{}
	r.bytes(p.AssetID[:])
	r.bytes(p.Creator[:])
	p.Name = r.string()
	p.Symbol = r.string()
	p.MetadataURI = r.string()
	p.TotalSupply = r.uint64()
	p.InitialReserve = r.uint64()
	p.QuoteReserve = r.uint64()
	p.AssetReserve = r.uint64()
	p.UnitsTraded = r.uint64()
	p.QuoteVolume = r.uint64()
	p.CreatedAt = int64(r.uint64())
	if err := r.done(); err != nil {
		return nil, fmt.Errorf("pool state: %w", err)
	}
	return p, nil
}

// LPAccount is the pool's liquidity-provision ledger.
type LPAccount struct {
	AssetID   [20]byte
	Liquidity uint64
	UpdatedAt int64
}

const lpAccountSize = 2 + 20 + 8 + 8

func (l *LPAccount) Serialize() []byte {
	buf := make([]byte, lpAccountSize)
	binary.BigEndian.PutUint16(buf[0:2], uint16(entry.TypeLPAccount))
	copy(buf[2:22], l.AssetID[:])
	binary.BigEndian.PutUint64(buf[22:30], l.Liquidity)
	binary.BigEndian.PutUint64(buf[30:38], uint64(l.UpdatedAt))
	return buf
}

func ParseLPAccount(data []byte) (*LPAccount, error) {
	if len(data) != lpAccountSize {
		return nil, fmt.Errorf("lp account: expected %d bytes, got %d", lpAccountSize, len(data))
	}
	if t := entry.Type(binary.BigEndian.Uint16(data[0:2])); t != entry.TypeLPAccount {
		return nil, fmt.Errorf("lp account: wrong entry type %s", t)
	}
	l := &LPAccount{}
	copy(l.AssetID[:], data[2:22])
	l.Liquidity = binary.BigEndian.Uint64(data[22:30])
	l.UpdatedAt = int64(binary.BigEndian.Uint64(data[30:38]))
	return l, nil
}

// LoadPool reads a pool's state, nil when the pool does not exist.
func LoadPool(view tx.LedgerView, asset [20]byte) (*PoolState, error) {
	k := keylet.Pool(asset)
	if !view.Exists(k) {
		return nil, nil
	}
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	return ParsePoolState(data)
}

// LoadLPAccount reads a pool's liquidity ledger, nil when absent.
func LoadLPAccount(view tx.LedgerView, asset [20]byte) (*LPAccount, error) {
	k := keylet.LPAccount(asset)
	if !view.Exists(k) {
		return nil, nil
	}
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	return ParseLPAccount(data)
}

func appendString(buf []byte, s string) []byte {
	buf = append(buf, byte(len(s)))
	return append(buf, s...)
}

func appendUint64(buf []byte, v uint64) []byte {
	var u64 [8]byte
	binary.BigEndian.PutUint64(u64[:], v)
	return append(buf, u64[:]...)
}

type reader struct {
	data []byte
	pos  int
	err  error
}

func (r *reader) take(n int) []byte {
	if r.err != nil {
		return nil
	}
	if r.pos+n > len(r.data) {
		r.err = fmt.Errorf("truncated at offset %d", r.pos)
		return nil
	}
	out := r.data[r.pos : r.pos+n]
	r.pos += n
	return out
}

func (r *reader) uint16() uint16 {
	b := r.take(2)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint16(b)
}

func (r *reader) uint64() uint64 {
	b := r.take(8)
	if b == nil {
		return 0
	}
	return binary.BigEndian.Uint64(b)
}

func (r *reader) bytes(dst []byte) {
	b := r.take(len(dst))
	if b != nil {
		copy(dst, b)
	}
}

func (r *reader) string() string {
	n := r.take(1)
	if n == nil {
		return ""
	}
	b := r.take(int(n[0]))
	if b == nil {
		return ""
	}
	return string(b)
}

func (r *reader) done() error {
	if r.err != nil {
		return r.err
	}
	if r.pos != len(r.data) {
		return fmt.Errorf("%d trailing bytes", len(r.data)-r.pos)
	}
	return nil
}
