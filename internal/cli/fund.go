package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/curvefoundry/curved/internal/core/tx"
)

var fundCmd = &cobra.Command{
	Use:   "fund <account-hex> <amount>",
	Short: "Credit quote units to an account, creating it if needed",
	Long: `Writes the balance straight into the ledger without a transaction.
This is the standalone-mode faucet; there is no signature checking in
this node, so guard access to the data directory instead.`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		id, err := tx.DecodeAccountID(args[0])
		if err != nil {
			return fmt.Errorf("invalid account: %w", err)
		}
		amount, err := strconv.ParseUint(args[1], 10, 64)
		if err != nil {
			return fmt.Errorf("invalid amount: %w", err)
		}

		n, err := openNode(cfg)
		if err != nil {
			return err
		}
		defer n.close()

		acct, err := tx.LoadAccount(n.ledger, id)
		if err != nil {
			return err
		}
		if acct == nil {
			acct = &tx.AccountRoot{}
		}
		acct.Balance += amount
		if err := tx.SaveAccount(n.ledger, id, acct); err != nil {
			return err
		}
		fmt.Printf("account %s balance is now %d\n", args[0], acct.Balance)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(fundCmd)
}
