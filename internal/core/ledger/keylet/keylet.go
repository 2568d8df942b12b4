package keylet

import (
	"encoding/binary"

	"github.com/curvefoundry/curved/internal/core/ledger/entry"
	crypto "github.com/curvefoundry/curved/internal/crypto/common"
)

// Space identifiers for keylet generation. Each record family hashes
// under its own space so keys for different families never collide.
const (
	spaceAccount      uint16 = 'a' // Account root
	spacePool         uint16 = 'p' // Pool reserve state
	spaceLPAccount    uint16 = 'l' // Liquidity-provision ledger
	spaceAssetHolding uint16 = 'h' // Asset sub-ledger holding
	spaceAssetMeta    uint16 = 'm' // Asset display metadata
)

// Keylet represents an addressable location in the ledger state.
// It combines a type identifier with a 256-bit key.
type Keylet struct {
	Type entry.Type
	Key  [32]byte
}

// indexHash computes a keylet key by hashing the space and provided data.
func indexHash(space uint16, data ...[]byte) [32]byte {
	spaceBytes := make([]byte, 2)
	binary.BigEndian.PutUint16(spaceBytes, space)

	inputs := make([][]byte, 0, len(data)+1)
	inputs = append(inputs, spaceBytes)
	inputs = append(inputs, data...)

	return crypto.Sha512Half(inputs...)
}

// Account returns the keylet for an account root entry.
func Account(accountID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAccountRoot,
		Key:  indexHash(spaceAccount, accountID[:]),
	}
}

// Pool returns the keylet for a pool's reserve state, keyed by the
// traded asset's identity.
func Pool(assetID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypePool,
		Key:  indexHash(spacePool, assetID[:]),
	}
}

// LPAccount returns the keylet for a pool's liquidity ledger.
func LPAccount(assetID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeLPAccount,
		Key:  indexHash(spaceLPAccount, assetID[:]),
	}
}

// AssetHolding returns the keylet for a holder's balance of an asset.
func AssetHolding(assetID, holderID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAssetHolding,
		Key:  indexHash(spaceAssetHolding, assetID[:], holderID[:]),
	}
}

// AssetMeta returns the keylet for an asset's display metadata.
func AssetMeta(assetID [20]byte) Keylet {
	return Keylet{
		Type: entry.TypeAssetMeta,
		Key:  indexHash(spaceAssetMeta, assetID[:]),
	}
}

// PoolAccountID derives the pool's custody account from its keylet key.
// The custody account is the first 20 bytes of the 32-byte pool hash;
// it holds the pool's quote balance and its asset-side holding, and is
// the only authority accepted for custody-originated transfers.
func PoolAccountID(poolKey [32]byte) [20]byte {
	var accountID [20]byte
	copy(accountID[:], poolKey[:20])
	return accountID
}
