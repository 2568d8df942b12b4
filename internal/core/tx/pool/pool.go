// Package pool implements the constant-product bonding curve: pool
// creation and the four trading operations, each as a transactor.
package pool

import (
	"encoding/binary"

	"github.com/curvefoundry/curved/internal/core/ledger/keylet"
	"github.com/curvefoundry/curved/internal/core/tx"
	crypto "github.com/curvefoundry/curved/internal/crypto/common"
	"github.com/curvefoundry/curved/internal/protocol"
)

const (
	PlatformFeeBps     = 25
	BasisPointsDivisor = 10_000

	MaxNameLen        = 32
	MaxSymbolLen      = 10
	MaxMetadataURILen = 200

	// InitialQuoteReserve seeds every new pool's recorded quote side.
	InitialQuoteReserve = 10_000_000
	// InitialAssetReservePercent of the total supply is minted into the
	// curve at creation.
	InitialAssetReservePercent = 10
	PoolCreationFee            = 20_000_000
)

func init() {
	tx.Register(tx.TypePoolCreate, func() tx.Transaction {
		return &PoolCreate{BaseTx: tx.BaseTx{TransactionType: tx.TypePoolCreate.String()}}
	})
	tx.Register(tx.TypePoolBuy, func() tx.Transaction {
		return &PoolBuy{BaseTx: tx.BaseTx{TransactionType: tx.TypePoolBuy.String()}}
	})
	tx.Register(tx.TypePoolSell, func() tx.Transaction {
		return &PoolSell{BaseTx: tx.BaseTx{TransactionType: tx.TypePoolSell.String()}}
	})
	tx.Register(tx.TypePoolDeposit, func() tx.Transaction {
		return &PoolDeposit{BaseTx: tx.BaseTx{TransactionType: tx.TypePoolDeposit.String()}}
	})
	tx.Register(tx.TypePoolWithdraw, func() tx.Transaction {
		return &PoolWithdraw{BaseTx: tx.BaseTx{TransactionType: tx.TypePoolWithdraw.String()}}
	})
}

// DeriveAssetID computes the identity of the asset a PoolCreate issues.
// It folds in the creator and the creating transaction's sequence, so
// every successful creation yields a distinct asset.
func DeriveAssetID(creator tx.AccountID, sequence uint32) [20]byte {
	seq := make([]byte, 4)
	binary.BigEndian.PutUint32(seq, sequence)
	hash := crypto.Sha512Half(protocol.HashPrefixAssetID[:], creator[:], seq)

	var asset [20]byte
	copy(asset[:], hash[:20])
	return asset
}

// custodyAccount is the derived account holding a pool's reserves.
func custodyAccount(asset [20]byte) tx.AccountID {
	return keylet.PoolAccountID(keylet.Pool(asset).Key)
}
