package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/curvefoundry/curved/internal/core/tx"
)

var poolInfoCmd = &cobra.Command{
	Use:   "pool-info <asset-hex>",
	Short: "Show the aggregate state of a pool",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		asset, err := tx.DecodeAccountID(args[0])
		if err != nil {
			return fmt.Errorf("invalid asset: %w", err)
		}

		n, err := openNode(cfg)
		if err != nil {
			return err
		}
		defer n.close()

		svc, err := n.poolService()
		if err != nil {
			return err
		}
		info, err := svc.PoolInfo(asset)
		if err != nil {
			return err
		}
		encoded, err := json.MarshalIndent(info, "", "  ")
		if err != nil {
			return err
		}
		fmt.Println(string(encoded))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(poolInfoCmd)
}
