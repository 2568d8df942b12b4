package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curvefoundry/curved/internal/core/tx"
	"github.com/curvefoundry/curved/internal/core/tx/pool"
	crypto "github.com/curvefoundry/curved/internal/crypto/common"
	"github.com/curvefoundry/curved/internal/protocol"
)

var standaloneCmd = &cobra.Command{
	Use:   "standalone",
	Short: "Run a scripted pool lifecycle against the configured storage",
	Long: `Seeds two accounts, creates a pool, trades against it and adds and
removes liquidity, printing each engine result. Useful to smoke-test a
fresh data directory and to produce a populated trade history.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		n, err := openNode(cfg)
		if err != nil {
			return err
		}
		defer n.close()

		creator := demoAccount("creator")
		trader := demoAccount("trader")
		for name, id := range map[string]tx.AccountID{"creator": creator, "trader": trader} {
			acct, err := tx.LoadAccount(n.ledger, id)
			if err != nil {
				return err
			}
			if acct == nil {
				acct = &tx.AccountRoot{}
			}
			acct.Balance += 100_000_000
			if err := tx.SaveAccount(n.ledger, id, acct); err != nil {
				return err
			}
			fmt.Printf("funded %s (%s) with 100000000\n", name, tx.EncodeAccountID(id))
		}

		createSeq := mustSequence(n, creator)
		asset := pool.DeriveAssetID(creator, createSeq)
		run(n, "PoolCreate", &pool.PoolCreate{
			BaseTx:      baseTx(n, creator),
			Name:        "Standalone Demo",
			Symbol:      "DEMO",
			MetadataURI: "https://example.com/demo.json",
			TotalSupply: "1000000000000",
		})
		fmt.Printf("asset: %s\n", tx.EncodeAccountID(asset))

		run(n, "PoolBuy", &pool.PoolBuy{
			BaseTx: baseTx(n, trader),
			Asset:  tx.EncodeAccountID(asset),
			Amount: "1000000",
		})
		run(n, "PoolSell", &pool.PoolSell{
			BaseTx: baseTx(n, trader),
			Asset:  tx.EncodeAccountID(asset),
			Amount: "1000000000",
		})
		run(n, "PoolDeposit", &pool.PoolDeposit{
			BaseTx:      baseTx(n, trader),
			Asset:       tx.EncodeAccountID(asset),
			QuoteAmount: "2000000",
			AssetAmount: "1000000",
		})
		run(n, "PoolWithdraw", &pool.PoolWithdraw{
			BaseTx:  baseTx(n, trader),
			Asset:   tx.EncodeAccountID(asset),
			LPShare: "1000000",
		})

		n.ledger.Close(n.engine().Config().CloseTime)

		svc, err := n.poolService()
		if err != nil {
			return err
		}
		info, err := svc.PoolInfo(asset)
		if err != nil {
			return err
		}
		fmt.Printf("reserves: quote=%d asset=%d, spot=%d, drift=%d, liquidity=%d\n",
			info.QuoteReserve, info.AssetReserve, info.SpotPrice, info.QuoteDrift, info.Liquidity)
		return nil
	},
}

func demoAccount(name string) tx.AccountID {
	hash := crypto.Sha512Half(protocol.HashPrefixAccountID[:], []byte(name))
	var id tx.AccountID
	copy(id[:], hash[:20])
	return id
}

func baseTx(n *node, id tx.AccountID) tx.BaseTx {
	seq := mustSequence(n, id)
	return tx.BaseTx{
		Account:  tx.EncodeAccountID(id),
		Fee:      strconv.FormatUint(n.cfg.BaseFee, 10),
		Sequence: &seq,
	}
}

func mustSequence(n *node, id tx.AccountID) uint32 {
	acct, err := tx.LoadAccount(n.ledger, id)
	if err != nil || acct == nil {
		return 0
	}
	return acct.Sequence
}

func run(n *node, name string, txn tx.Transaction) {
	txn.GetCommon().TransactionType = txn.TxType().String()
	res := n.apply(txn)
	fmt.Printf("%-12s %s\n", name, res.Result)
}

func init() {
	rootCmd.AddCommand(standaloneCmd)
}
