package entry

import "fmt"

// Type represents a ledger entry type.
type Type uint16

// All known ledger entry types. The numeric codes are embedded in the
// first two bytes of every serialized entry, so they must never change.
const (
	// TypeAccountRoot holds an account's quote balance and sequence.
	TypeAccountRoot Type = 0x0061

	// TypePool is the per-pool reserve state of a bonding curve.
	TypePool Type = 0x0070

	// TypeLPAccount is the per-pool liquidity-provision ledger.
	TypeLPAccount Type = 0x0071

	// TypeAssetHolding is a per-(asset, holder) sub-ledger balance.
	TypeAssetHolding Type = 0x0072

	// TypeAssetMeta is the display metadata registered for an asset.
	TypeAssetMeta Type = 0x0073
)

// String returns the canonical entry type name.
func (t Type) String() string {
	switch t {
	case TypeAccountRoot:
		return "AccountRoot"
	case TypePool:
		return "Pool"
	case TypeLPAccount:
		return "LPAccount"
	case TypeAssetHolding:
		return "AssetHolding"
	case TypeAssetMeta:
		return "AssetMeta"
	default:
		return fmt.Sprintf("Unknown(0x%04x)", uint16(t))
	}
}
