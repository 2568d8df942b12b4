package cli

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/curvefoundry/curved/internal/core/tx"
)

var submitCmd = &cobra.Command{
	Use:   "submit <tx.json>",
	Short: "Apply a transaction from a JSON file to the ledger",
	Long: `Reads a transaction from the given JSON file, applies it against the
persistent ledger, prints the engine result and metadata, and stores
the updated state. Supported types: ` + "Payment, PoolCreate, PoolBuy, PoolSell, PoolDeposit, PoolWithdraw.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("reading transaction file: %w", err)
		}
		txn, err := tx.FromJSON(data)
		if err != nil {
			return err
		}

		n, err := openNode(cfg)
		if err != nil {
			return err
		}
		defer n.close()

		res := n.apply(txn)
		out := map[string]interface{}{
			"result":  res.Result.String(),
			"message": res.Result.Message(),
			"applied": res.Applied,
			"hash":    hex.EncodeToString(res.Hash[:]),
		}
		if res.Metadata != nil {
			out["meta"] = res.Metadata
		}
		encoded, err := json.MarshalIndent(out, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(submitCmd)
}
