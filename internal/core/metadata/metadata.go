// Package metadata stores the descriptive record attached to a pool
// asset as an AssetMeta ledger entry, encoded as CBOR.
package metadata

import (
	"encoding/binary"
	"fmt"

	"github.com/ugorji/go/codec"

	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
)

// Record describes an issued asset. It is written once at pool creation
// and never mutated.
type Record struct {
	Name      string `codec:"name" json:"name"`
	Symbol    string `codec:"symbol" json:"symbol"`
	URI       string `codec:"uri" json:"uri"`
	Creator   string `codec:"creator" json:"creator"`
	CreatedAt int64  `codec:"created_at" json:"created_at"`
}

var cborHandle = &codec.CborHandle{}

// Encode renders the record with its entry type prefix.
func (r *Record) Encode() ([]byte, error) {
	var body []byte
	if err := codec.NewEncoderBytes(&body, cborHandle).Encode(r); err != nil {
		return nil, fmt.Errorf("metadata: encode: %w", err)
	}
	buf := make([]byte, 2, 2+len(body))
	binary.BigEndian.PutUint16(buf[0:2], uint16(entry.TypeAssetMeta))
	return append(buf, body...), nil
}

// Decode parses a record from its stored form.
func Decode(data []byte) (*Record, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("metadata: record too short")
	}
	if t := entry.Type(binary.BigEndian.Uint16(data[0:2])); t != entry.TypeAssetMeta {
		return nil, fmt.Errorf("metadata: wrong entry type %s", t)
	}
	r := &Record{}
	if err := codec.NewDecoderBytes(data[2:], cborHandle).Decode(r); err != nil {
		return nil, fmt.Errorf("metadata: decode: %w", err)
	}
	return r, nil
}

// Register writes the record for an asset. An asset's record can only be
// written once.
func Register(view tx.LedgerView, asset [20]byte, r *Record) tx.Result {
	k := keylet.AssetMeta(asset)
	if view.Exists(k) {
		return tx.TecDUPLICATE
	}
	data, err := r.Encode()
	if err != nil {
		return tx.TefINTERNAL
	}
	if err := view.Insert(k, data); err != nil {
		return tx.TefINTERNAL
	}
	return tx.TesSUCCESS
}

// Lookup reads an asset's record, nil when absent.
func Lookup(view tx.LedgerView, asset [20]byte) (*Record, error) {
	k := keylet.AssetMeta(asset)
	if !view.Exists(k) {
		return nil, nil
	}
	data, err := view.Read(k)
	if err != nil {
		return nil, err
	}
	return Decode(data)
}
